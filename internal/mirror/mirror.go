// Package mirror is the per-user remote copy of the local collections. It is
// never authoritative: callers log its failures and carry on.
package mirror

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/curiosity/internal/constants"
)

// MaxBatchSize is the most ids one BatchDelete call accepts
const MaxBatchSize = constants.MirrorBatchSize

var (
	// ErrBatchTooLarge is returned when BatchDelete gets more than MaxBatchSize ids
	ErrBatchTooLarge = fmt.Errorf("batch exceeds %d documents", MaxBatchSize)
	// ErrInvalidRef is returned for a reference without a user or collection
	ErrInvalidRef = errors.New("invalid collection reference")
)

// CollectionRef addresses one collection of one user
type CollectionRef struct {
	UserID string
	Name   string
}

// Path returns the user-scoped location, users/<uid>/<name>
func (r CollectionRef) Path() string {
	return strings.Join([]string{constants.MirrorUserNamespace, r.UserID, r.Name}, "/")
}

func (r CollectionRef) Validate() error {
	if r.UserID == "" || r.Name == "" || strings.Contains(r.UserID, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidRef, r.Path())
	}
	return nil
}

// Document is one record of a remote collection. Data is the record's JSON encoding.
type Document struct {
	ID         string          `db:"doc_id" json:"id"`
	Collection string          `db:"collection" json:"collection"`
	Data       json.RawMessage `db:"data" json:"data"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updatedAt"`
}

// Chunk splits ids into slices of at most size elements
func Chunk(ids []string, size int) [][]string {
	if size <= 0 {
		size = MaxBatchSize
	}
	var chunks [][]string
	for len(ids) > 0 {
		n := min(size, len(ids))
		chunks = append(chunks, ids[:n])
		ids = ids[n:]
	}
	return chunks
}
