// Package export renders a snapshot of the local store as a JSON document, a
// zip of markdown files, or a PDF. Every format carries one item per record.
package export

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/julianstephens/curiosity/internal/constants"
	"github.com/julianstephens/curiosity/internal/models"
)

// ErrUnknownFormat is returned for a format other than markdown, pdf or json
var ErrUnknownFormat = errors.New("unknown export format")

// Record is one logical record of the export, independent of the output format
type Record struct {
	Collection string    `json:"collection"`
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	CreatedAt  time.Time `json:"-"`
	Body       string    `json:"-"`
	Data       any       `json:"data"`
}

// Formats lists the supported export formats
var Formats = []string{constants.ExportFormatMarkdown, constants.ExportFormatPDF, constants.ExportFormatJSON}

// Flatten turns a snapshot into its records, grouped by collection and ordered by id
func Flatten(snap models.Snapshot) []Record {
	records := make([]Record, 0, snap.Len())

	entries := sortedBy(snap.Entries, func(e models.Entry) string { return e.ID })
	for _, e := range entries {
		records = append(records, Record{
			Collection: "entries", ID: e.ID, Title: orUntitled(e.Title),
			CreatedAt: e.CreatedAt, Body: e.Content, Data: e,
		})
	}

	reminders := sortedBy(snap.Reminders, func(r models.Reminder) string { return r.ID })
	for _, r := range reminders {
		records = append(records, Record{
			Collection: "reminders", ID: r.ID, Title: orUntitled(r.Text),
			CreatedAt: r.CreatedAt, Body: "Due " + r.Date.Format(time.RFC1123), Data: r,
		})
	}

	if snap.Settings != nil {
		s := *snap.Settings
		records = append(records, Record{
			Collection: "settings", ID: strconv.Itoa(s.ID), Title: "Settings",
			CreatedAt: s.UpdatedAt, Data: s,
		})
	}

	goals := sortedBy(snap.Goals, func(g models.Goal) string { return g.ID })
	for _, g := range goals {
		records = append(records, Record{
			Collection: "goals", ID: g.ID, Title: orUntitled(g.Title),
			CreatedAt: g.CreatedAt, Body: g.Description, Data: g,
		})
	}

	tasks := sortedBy(snap.Tasks, func(t models.Task) string { return t.ID })
	for _, t := range tasks {
		records = append(records, Record{
			Collection: "tasks", ID: t.ID, Title: orUntitled(t.Text),
			CreatedAt: t.CreatedAt, Data: t,
		})
	}

	items := sortedBy(snap.VaultItems, func(v models.VaultItem) string { return v.ID })
	for _, v := range items {
		records = append(records, Record{
			Collection: "vaultItems", ID: v.ID, Title: orUntitled(v.Title),
			CreatedAt: v.CreatedAt, Body: fmt.Sprintf("Encrypted %s item (%d bytes)", v.Type, len(v.EncryptedData)), Data: v,
		})
	}

	return records
}

// Write renders snap in format to w
func Write(w io.Writer, format string, snap models.Snapshot) error {
	records := Flatten(snap)
	switch format {
	case constants.ExportFormatJSON:
		return JSON(w, records, snap.TakenAt)
	case constants.ExportFormatMarkdown:
		return Markdown(w, records, snap.TakenAt)
	case constants.ExportFormatPDF:
		return PDF(w, records, snap.TakenAt)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// FileName returns the default output name for an export taken at t
func FileName(format string, t time.Time) string {
	ext := format
	if format == constants.ExportFormatMarkdown {
		ext = "zip"
	}
	return fmt.Sprintf("%s-export-%s.%s", constants.AppName, t.UTC().Format("20060102-150405"), ext)
}

// ContentType returns the MIME type of an export format
func ContentType(format string) string {
	switch format {
	case constants.ExportFormatMarkdown:
		return "application/zip"
	case constants.ExportFormatPDF:
		return "application/pdf"
	default:
		return "application/json"
	}
}

func sortedBy[T any](items []T, key func(T) string) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool { return key(out[i]) < key(out[j]) })
	return out
}

func orUntitled(s string) string {
	if s == "" {
		return "Untitled"
	}
	return s
}
