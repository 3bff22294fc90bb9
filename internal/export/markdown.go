package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var unsafeNameChars = strings.NewReplacer("/", "_", "\\", "_", "..", "_", ":", "_")

// Markdown writes a zip archive holding <collection>/<id>.md for every record.
// Each file starts with the record's fields as YAML front matter.
func Markdown(w io.Writer, records []Record, exportedAt time.Time) error {
	zw := zip.NewWriter(w)

	for _, r := range records {
		doc, err := markdownDocument(r)
		if err != nil {
			return err
		}

		header := &zip.FileHeader{
			Name:     MarkdownPath(r),
			Method:   zip.Deflate,
			Modified: exportedAt.UTC(),
		}
		fw, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", header.Name, err)
		}
		if _, err := fw.Write(doc); err != nil {
			return fmt.Errorf("failed to write %s: %w", header.Name, err)
		}
	}

	return zw.Close()
}

// MarkdownPath is the archive path of a record
func MarkdownPath(r Record) string {
	return path.Join(r.Collection, unsafeNameChars.Replace(r.ID)+".md")
}

func markdownDocument(r Record) ([]byte, error) {
	front, err := yaml.Marshal(r.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode front matter for %s/%s: %w", r.Collection, r.ID, err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(front)
	buf.WriteString("---\n\n")
	fmt.Fprintf(&buf, "# %s\n", r.Title)
	if r.Body != "" {
		buf.WriteString("\n")
		buf.WriteString(r.Body)
		if !strings.HasSuffix(r.Body, "\n") {
			buf.WriteString("\n")
		}
	}
	return buf.Bytes(), nil
}
