package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/julianstephens/curiosity/internal/constants"
	"github.com/julianstephens/curiosity/migrations"
)

// Postgres keeps the mirror in a single mirror_documents table keyed by
// (user_id, collection, doc_id).
type Postgres struct {
	db  *sqlx.DB
	sb  squirrel.StatementBuilderType
	now func() time.Time
}

// Open connects to the mirror database. The connection is lazy; the first
// query reports an unreachable server.
func Open(dsn string) (*Postgres, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open mirror database: %w", err)
	}
	return NewPostgres(db), nil
}

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{
		db:  db,
		sb:  squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		now: time.Now,
	}
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

// Migrate applies the embedded goose migrations
func (p *Postgres) Migrate(ctx context.Context) error {
	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return fmt.Errorf("failed to access postgres migrations: %w", err)
	}

	goose.SetBaseFS(subFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, p.db.DB, "."); err != nil {
		return fmt.Errorf("mirror migration failed: %w", err)
	}
	return nil
}

// ListAll returns every document of the collection ordered by id
func (p *Postgres) ListAll(ctx context.Context, ref CollectionRef) ([]Document, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	query, args, err := p.sb.
		Select("doc_id", "collection", "data", "updated_at").
		From(constants.MirrorTableName).
		Where(squirrel.Eq{"user_id": ref.UserID, "collection": ref.Name}).
		OrderBy("doc_id").
		ToSql()
	if err != nil {
		return nil, err
	}

	docs := []Document{}
	if err := p.db.SelectContext(ctx, &docs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", ref.Path(), err)
	}
	return docs, nil
}

// BatchDelete removes the given ids in one transaction and returns how many
// documents were removed. Ids that do not exist are ignored.
func (p *Postgres) BatchDelete(ctx context.Context, ref CollectionRef, ids []string) (int64, error) {
	if err := ref.Validate(); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if len(ids) > MaxBatchSize {
		return 0, fmt.Errorf("%w: got %d", ErrBatchTooLarge, len(ids))
	}

	query, args, err := p.sb.
		Delete(constants.MirrorTableName).
		Where(squirrel.Eq{"user_id": ref.UserID, "collection": ref.Name, "doc_id": ids}).
		ToSql()
	if err != nil {
		return 0, err
	}

	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin batch delete: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete from %s: %w", ref.Path(), err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit batch delete: %w", err)
	}

	n, _ := res.RowsAffected()
	return n, nil
}

// Put creates or replaces one document
func (p *Postgres) Put(ctx context.Context, ref CollectionRef, id string, data json.RawMessage) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("document id is required")
	}

	// jsonb is sent as text; lib/pq would encode []byte as bytea.
	query, args, err := p.sb.
		Insert(constants.MirrorTableName).
		Columns("user_id", "collection", "doc_id", "data", "updated_at").
		Values(ref.UserID, ref.Name, id, string(data), p.now().UTC()).
		Suffix("ON CONFLICT (user_id, collection, doc_id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return err
	}

	if _, err := p.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to put %s/%s: %w", ref.Path(), id, err)
	}
	return nil
}
