package notifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/curiosity/internal/constants"
)

type fakePlatform struct {
	shown   []Notification
	closed  []Notification
	showErr error
}

func (p *fakePlatform) Show(_ context.Context, n Notification) error {
	if p.showErr != nil {
		return p.showErr
	}
	p.shown = append(p.shown, n)
	return nil
}

func (p *fakePlatform) Close(_ context.Context, n Notification) error {
	p.closed = append(p.closed, n)
	return nil
}

type fakeClients struct {
	windows  []Window
	opts     []MatchOptions
	focused  []Window
	opened   []string
	matchErr error
}

func (c *fakeClients) MatchAll(_ context.Context, opts MatchOptions) ([]Window, error) {
	c.opts = append(c.opts, opts)
	return c.windows, c.matchErr
}

func (c *fakeClients) Focus(_ context.Context, w Window) error {
	c.focused = append(c.focused, w)
	return nil
}

func (c *fakeClients) OpenWindow(_ context.Context, url string) error {
	c.opened = append(c.opened, url)
	return nil
}

func newTestBridge() (*Bridge, *fakePlatform, *fakeClients) {
	p := &fakePlatform{}
	c := &fakeClients{}
	b := NewBridge(p, c)
	b.newID = func() string { return "n-1" }
	return b, p, c
}

func TestHandlePushShowsOneNotification(t *testing.T) {
	b, p, _ := newTestBridge()

	n, err := b.HandlePush(context.Background(), []byte(`{"title":"Hi","body":"B","url":"/x"}`))
	require.NoError(t, err)

	require.Len(t, p.shown, 1)
	assert.Equal(t, Notification{
		ID:    "n-1",
		Title: "Hi",
		Body:  "B",
		Icon:  constants.NotificationIcon,
		Data:  NotificationData{URL: "/x"},
	}, p.shown[0])
	assert.Equal(t, p.shown[0], n)
}

func TestHandlePushPlainText(t *testing.T) {
	b, p, _ := newTestBridge()

	_, err := b.HandlePush(context.Background(), []byte("plain text"))
	require.NoError(t, err)

	require.Len(t, p.shown, 1)
	assert.Equal(t, constants.DefaultNotificationTitle, p.shown[0].Title)
	assert.Equal(t, "plain text", p.shown[0].Body)
	assert.Equal(t, "/", p.shown[0].Data.URL)
}

func TestHandlePushSameMessageTwice(t *testing.T) {
	b, p, _ := newTestBridge()

	for i := 0; i < 2; i++ {
		_, err := b.HandlePush(context.Background(), []byte(`{"title":"Hi"}`))
		require.NoError(t, err)
	}
	assert.Len(t, p.shown, 2)
}

func TestHandlePushPlatformError(t *testing.T) {
	b, p, _ := newTestBridge()
	p.showErr = errors.New("permission denied")

	_, err := b.HandlePush(context.Background(), []byte(`{}`))
	assert.Error(t, err)
}

func TestHandleClickFocusesMatchingWindow(t *testing.T) {
	b, p, c := newTestBridge()
	c.windows = []Window{{ID: "w1", URL: "/"}, {ID: "w2", URL: "/x"}}

	n := Notification{ID: "n-1", Data: NotificationData{URL: "/x"}}
	require.NoError(t, b.HandleClick(context.Background(), n))

	assert.Equal(t, []Notification{n}, p.closed)
	assert.Equal(t, []MatchOptions{{Type: "window", IncludeUncontrolled: true}}, c.opts)
	assert.Equal(t, []Window{{ID: "w2", URL: "/x"}}, c.focused)
	assert.Empty(t, c.opened)
}

func TestHandleClickOpensWindowWhenNoneMatch(t *testing.T) {
	b, _, c := newTestBridge()
	c.windows = []Window{{ID: "w1", URL: "/x/"}, {ID: "w2", URL: "/X"}}

	require.NoError(t, b.HandleClick(context.Background(), Notification{Data: NotificationData{URL: "/x"}}))

	assert.Empty(t, c.focused)
	assert.Equal(t, []string{"/x"}, c.opened)
}

func TestHandleClickDefaultsToRoot(t *testing.T) {
	b, _, c := newTestBridge()
	c.windows = []Window{{ID: "w1", URL: "/"}}

	require.NoError(t, b.HandleClick(context.Background(), Notification{}))

	assert.Equal(t, []Window{{ID: "w1", URL: "/"}}, c.focused)
	assert.Empty(t, c.opened)
}

func TestHandleClickMatchError(t *testing.T) {
	b, _, c := newTestBridge()
	c.matchErr = errors.New("tray gone")

	err := b.HandleClick(context.Background(), Notification{})
	assert.Error(t, err)
	assert.Empty(t, c.opened)
}
