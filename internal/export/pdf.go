package export

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/julianstephens/curiosity/internal/constants"
)

// pdfCompression is switched off in tests so the content streams can be searched
var pdfCompression = true

// PDF writes one heading block per record
func PDF(w io.Writer, records []Record, exportedAt time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(pdfCompression)
	pdf.SetTitle("Curiosity export", true)
	pdf.SetCreator(constants.AppName+" "+constants.Version, true)
	pdf.SetCreationDate(exportedAt)
	pdf.SetModificationDate(exportedAt)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Curiosity export", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("Exported %s - %d records", exportedAt.UTC().Format(time.RFC1123), len(records)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	for _, r := range records {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.MultiCell(0, 7, tr(r.Title), "", "L", false)

		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 5, r.Collection+"/"+r.ID, "", 1, "L", false, 0, "")

		if r.Body != "" {
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(r.Body), "", "L", false)
		}
		if !r.CreatedAt.IsZero() {
			pdf.SetFont("Helvetica", "", 8)
			pdf.CellFormat(0, 5, r.CreatedAt.UTC().Format(time.RFC1123), "", 1, "L", false, 0, "")
		}
		pdf.Ln(3)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}
