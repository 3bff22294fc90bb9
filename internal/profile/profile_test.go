package profile

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/curiosity/internal/mirror"
	"github.com/julianstephens/curiosity/internal/models"
	"github.com/julianstephens/curiosity/internal/storage/sqlite"
)

type fakeObjects struct {
	keys []string
	err  error
}

func (o *fakeObjects) Put(_ context.Context, key string, body io.Reader, _ string) error {
	if o.err != nil {
		return o.err
	}
	io.Copy(io.Discard, body)
	o.keys = append(o.keys, key)
	return nil
}

type fakeMirror struct {
	paths []string
	data  json.RawMessage
	err   error
}

func (m *fakeMirror) Put(_ context.Context, ref mirror.CollectionRef, id string, data json.RawMessage) error {
	if m.err != nil {
		return m.err
	}
	m.paths = append(m.paths, ref.Path()+"/"+id)
	m.data = data
	return nil
}

type fakeSession struct{ userID string }

func (s fakeSession) UserID() (string, error) {
	if s.userID == "" {
		return "", errors.New("not authenticated")
	}
	return s.userID, nil
}

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "curiosity.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveUploadsAndMirrors(t *testing.T) {
	store := newStore(t)
	objects := &fakeObjects{}
	m := &fakeMirror{}
	svc := New(store, objects, m, fakeSession{userID: "u1"})

	saved, err := svc.Save(context.Background(), models.Settings{Username: "ada"}, &Picture{
		Name: "../me.png", ContentType: "image/png", Body: strings.NewReader("png"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"users/u1/profile/me.png"}, objects.keys)
	assert.Equal(t, "users/u1/profile/me.png", saved.ProfilePicURL)
	assert.Equal(t, []string{"users/u1/settings/1"}, m.paths)
	assert.Contains(t, string(m.data), `"username":"ada"`)

	local, err := store.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, "users/u1/profile/me.png", local.ProfilePicURL)
}

func TestSaveRemoteFailureKeepsLocal(t *testing.T) {
	store := newStore(t)
	svc := New(store, nil, &fakeMirror{err: errors.New("permission denied")}, fakeSession{userID: "u1"})

	_, err := svc.Save(context.Background(), models.Settings{Username: "grace"}, nil)
	require.ErrorIs(t, err, ErrRemoteSave)

	local, err := store.GetSettings()
	require.NoError(t, err)
	require.NotNil(t, local)
	assert.Equal(t, "grace", local.Username)
}

func TestSaveUploadFailure(t *testing.T) {
	store := newStore(t)
	m := &fakeMirror{}
	svc := New(store, &fakeObjects{err: errors.New("bucket missing")}, m, fakeSession{userID: "u1"})

	_, err := svc.Save(context.Background(), models.Settings{Username: "grace"}, &Picture{Name: "a.png", Body: strings.NewReader("x")})
	require.ErrorIs(t, err, ErrRemoteSave)
	assert.Empty(t, m.paths)

	local, err := store.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, "grace", local.Username)
	assert.Empty(t, local.ProfilePicURL)
}

func TestSaveSignedOut(t *testing.T) {
	store := newStore(t)
	m := &fakeMirror{}
	svc := New(store, nil, m, fakeSession{})

	saved, err := svc.Save(context.Background(), models.Settings{Username: "ada"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ada", saved.Username)
	assert.Empty(t, m.paths)

	_, err = svc.Save(context.Background(), models.Settings{Username: "ada"}, &Picture{Name: "a.png", Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, ErrRemoteSave)
}
