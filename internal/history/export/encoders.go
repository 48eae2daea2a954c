package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
)

// csvEncoder writes comma- or tab-separated rows. The comma rune distinguishes
// csv from tsv output.
type csvEncoder struct {
	comma rune
}

func (e csvEncoder) Encode(ds Dataset) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = e.comma

	if err := w.Write(ds.Headers); err != nil {
		return nil, fmt.Errorf("writing header row: %w", err)
	}
	if err := w.WriteAll(ds.Rows); err != nil {
		return nil, fmt.Errorf("writing data rows: %w", err)
	}
	return buf.Bytes(), nil
}

func (e csvEncoder) ContentType() string {
	if e.comma == '\t' {
		return "text/tab-separated-values"
	}
	return "text/csv"
}

// jsonEncoder emits one object per row, keyed by the header labels.
type jsonEncoder struct{}

func (jsonEncoder) Encode(ds Dataset) ([]byte, error) {
	objects := make([]map[string]string, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		obj := make(map[string]string, len(ds.Headers))
		for i, header := range ds.Headers {
			if i < len(row) {
				obj[header] = row[i]
			}
		}
		objects = append(objects, obj)
	}
	return json.Marshal(objects)
}

func (jsonEncoder) ContentType() string {
	return "application/json"
}
