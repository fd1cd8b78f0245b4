package notify_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/leadboard/internal/notify"
)

func TestPostKeepsOrder(t *testing.T) {
	c := notify.NewChannel(time.Minute)
	defer c.Close()

	first := c.Post("Lead created successfully", notify.Success)
	second := c.Post("Failed to update lead", notify.Error)

	list := c.List()
	require.Len(t, list, 2)
	assert.Equal(t, first, list[0].ID)
	assert.Equal(t, second, list[1].ID)
	assert.Equal(t, notify.Error, list[1].Kind)
	assert.NotEqual(t, first, second)
}

func TestUnknownKindFallsBackToInfo(t *testing.T) {
	c := notify.NewChannel(time.Minute)
	defer c.Close()

	c.Post("hello", notify.Kind("shout"))

	assert.Equal(t, notify.Info, c.List()[0].Kind)
}

func TestNotificationsExpire(t *testing.T) {
	c := notify.NewChannel(30 * time.Millisecond)
	defer c.Close()

	c.Post("short lived", notify.Info)
	require.Len(t, c.List(), 1)

	assert.Eventually(t, func() bool { return len(c.List()) == 0 }, time.Second, 5*time.Millisecond)
}

func TestDismissIsIdempotent(t *testing.T) {
	c := notify.NewChannel(time.Minute)
	defer c.Close()

	id := c.Post("bye", notify.Warning)
	keep := c.Post("stay", notify.Info)

	c.Dismiss(id)
	c.Dismiss(id)
	c.Dismiss("never-existed")

	list := c.List()
	require.Len(t, list, 1)
	assert.Equal(t, keep, list[0].ID)
}

func TestDismissAll(t *testing.T) {
	c := notify.NewChannel(time.Minute)
	defer c.Close()

	c.Post("a", notify.Info)
	c.Post("b", notify.Info)
	c.DismissAll()

	assert.Empty(t, c.List())
}

func TestSubscribeReceivesPosts(t *testing.T) {
	c := notify.NewChannel(time.Minute)
	defer c.Close()

	var mu sync.Mutex
	var got []string
	unsubscribe := c.Subscribe(func(n notify.Notification) {
		mu.Lock()
		got = append(got, n.Message)
		mu.Unlock()
	})

	c.Post("one", notify.Success)
	unsubscribe()
	c.Post("two", notify.Success)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"one"}, got)
}
