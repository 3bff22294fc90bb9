package export

import (
	"encoding/json"
	"io"
	"time"
)

type jsonDocument struct {
	ExportedAt time.Time `json:"exportedAt"`
	Records    []Record  `json:"records"`
}

// JSON writes {exportedAt, records} as indented JSON
func JSON(w io.Writer, records []Record, exportedAt time.Time) error {
	if records == nil {
		records = []Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonDocument{ExportedAt: exportedAt.UTC(), Records: records})
}
