package mirror

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMirrorWithMock(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgres(sqlx.NewDb(db, "postgres")), mock
}

var ref = CollectionRef{UserID: "u1", Name: "entries"}

func TestCollectionRefPath(t *testing.T) {
	assert.Equal(t, "users/u1/entries", ref.Path())
	assert.NoError(t, ref.Validate())
	assert.ErrorIs(t, CollectionRef{Name: "entries"}.Validate(), ErrInvalidRef)
	assert.ErrorIs(t, CollectionRef{UserID: "a/b", Name: "entries"}.Validate(), ErrInvalidRef)
}

func TestListAll(t *testing.T) {
	m, mock := newMirrorWithMock(t)
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"doc_id", "collection", "data", "updated_at"}).
		AddRow("a", "entries", []byte(`{"id":"a"}`), ts).
		AddRow("b", "entries", []byte(`{"id":"b"}`), ts)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT doc_id, collection, data, updated_at FROM mirror_documents WHERE collection = $1 AND user_id = $2 ORDER BY doc_id")).
		WithArgs("entries", "u1").
		WillReturnRows(rows)

	docs, err := m.ListAll(context.Background(), ref)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].ID)
	assert.JSONEq(t, `{"id":"b"}`, string(docs[1].Data))
	assert.True(t, docs[0].UpdatedAt.Equal(ts))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListAllError(t *testing.T) {
	m, mock := newMirrorWithMock(t)
	mock.ExpectQuery("SELECT .* FROM mirror_documents").WillReturnError(errors.New("permission denied"))

	_, err := m.ListAll(context.Background(), ref)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "users/u1/entries")
}

func TestBatchDelete(t *testing.T) {
	m, mock := newMirrorWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM mirror_documents WHERE collection = $1 AND doc_id IN ($2,$3) AND user_id = $4")).
		WithArgs("entries", "a", "b", "u1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	n, err := m.BatchDelete(context.Background(), ref, []string{"a", "b"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchDeleteRollsBackOnError(t *testing.T) {
	m, mock := newMirrorWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM mirror_documents").WillReturnError(errors.New("conn reset"))
	mock.ExpectRollback()

	_, err := m.BatchDelete(context.Background(), ref, []string{"a"})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchDeleteLimits(t *testing.T) {
	m, mock := newMirrorWithMock(t)

	n, err := m.BatchDelete(context.Background(), ref, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	ids := make([]string, MaxBatchSize+1)
	for i := range ids {
		ids[i] = fmt.Sprintf("id-%d", i)
	}
	_, err = m.BatchDelete(context.Background(), ref, ids)
	assert.ErrorIs(t, err, ErrBatchTooLarge)

	// neither call reaches the database
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPutUpserts(t *testing.T) {
	m, mock := newMirrorWithMock(t)
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m.now = func() time.Time { return ts }

	mock.ExpectExec(`INSERT INTO mirror_documents \(user_id,collection,doc_id,data,updated_at\) VALUES \(\$1,\$2,\$3,\$4,\$5\) ON CONFLICT`).
		WithArgs("u1", "entries", "a", `{"id":"a"}`, ts).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, m.Put(context.Background(), ref, "a", []byte(`{"id":"a"}`)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChunk(t *testing.T) {
	ids := make([]string, 1201)
	for i := range ids {
		ids[i] = fmt.Sprintf("%d", i)
	}

	chunks := Chunk(ids, MaxBatchSize)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 500)
	assert.Len(t, chunks[1], 500)
	assert.Len(t, chunks[2], 201)
	assert.Empty(t, Chunk(nil, MaxBatchSize))
}
