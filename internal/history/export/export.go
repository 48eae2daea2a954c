package export

import (
	"errors"
	"fmt"
	"sort"

	"github.com/RedEchidnaUK/inventree-order-history/internal/core/calendar"
	"github.com/RedEchidnaUK/inventree-order-history/internal/core/history"
	"github.com/shopspring/decimal"
)

// ErrUnsupportedFormat marks an export format with no registered encoder.
// It propagates to the caller as a request-level failure.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Dataset is a header row plus data rows, ready for tabular serialization.
type Dataset struct {
	Headers []string
	Rows    [][]string
}

// Encoder serializes a dataset into one tabular wire format.
type Encoder interface {
	Encode(ds Dataset) ([]byte, error)
	ContentType() string
}

// Registry maps format identifiers to encoders.
type Registry struct {
	encoders map[string]Encoder
}

// NewRegistry creates a registry with the built-in encoders (csv, tsv, json).
func NewRegistry() *Registry {
	r := &Registry{encoders: make(map[string]Encoder)}
	r.Register("csv", csvEncoder{comma: ','})
	r.Register("tsv", csvEncoder{comma: '\t'})
	r.Register("json", jsonEncoder{})
	return r
}

// Register adds or replaces the encoder for a format identifier.
func (r *Registry) Register(format string, enc Encoder) {
	r.encoders[format] = enc
}

// Restrict drops every encoder whose format is not in keep. An unknown name
// in keep is an error, so a config typo fails startup instead of silently
// disabling exports.
func (r *Registry) Restrict(keep []string) error {
	kept := make(map[string]Encoder, len(keep))
	for _, format := range keep {
		enc, ok := r.encoders[format]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
		}
		kept[format] = enc
	}
	r.encoders = kept
	return nil
}

// Formats returns the registered format identifiers, sorted.
func (r *Registry) Formats() []string {
	formats := make([]string, 0, len(r.encoders))
	for format := range r.encoders {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}

// Encode serializes the dataset in the requested format.
func (r *Registry) Encode(format string, ds Dataset) ([]byte, string, error) {
	enc, ok := r.encoders[format]
	if !ok {
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	data, err := enc.Encode(ds)
	if err != nil {
		return nil, "", fmt.Errorf("encoding %s export: %w", format, err)
	}
	return data, enc.ContentType(), nil
}

// Filename returns the download filename for an export format.
func Filename(format string) string {
	return "order_history." + format
}

// Build flattens an aggregate into a dataset: one column per bucket key after
// the part metadata columns, one row per part with quantities zero-filled
// inline for buckets without events.
func Build(agg *history.Aggregate, seq []calendar.Key) Dataset {
	headers := make([]string, 0, 3+len(seq))
	headers = append(headers, "Part ID", "Part Name", "IPN")
	for _, key := range seq {
		headers = append(headers, string(key))
	}

	rows := make([][]string, 0, agg.Len())
	for _, id := range agg.PartIDs() {
		part := agg.Part(id)
		buckets := agg.Buckets(id)

		row := make([]string, 0, len(headers))
		row = append(row, fmt.Sprintf("%d", part.ID), part.Name, part.IPN)
		for _, key := range seq {
			quantity, ok := buckets[key]
			if !ok {
				quantity = decimal.Zero
			}
			row = append(row, quantity.String())
		}
		rows = append(rows, row)
	}

	return Dataset{Headers: headers, Rows: rows}
}
