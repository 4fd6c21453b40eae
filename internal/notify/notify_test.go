package notify_test

import (
	"testing"

	"tickmate/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_DeliversInOrder(t *testing.T) {
	hub := notify.NewHub()

	notify.Success(hub, "first")
	notify.Error(hub, "second")

	n := <-hub.C()
	assert.Equal(t, notify.LevelSuccess, n.Level)
	assert.Equal(t, "first", n.Message)

	n = <-hub.C()
	assert.Equal(t, notify.LevelError, n.Level)
}

func TestHub_NeverBlocksWhenFull(t *testing.T) {
	hub := notify.NewHub()

	// Far beyond the buffer; Publish must drop instead of deadlocking.
	for i := 0; i < 100; i++ {
		notify.Info(hub, "notice")
	}

	select {
	case n := <-hub.C():
		require.Equal(t, "notice", n.Message)
	default:
		t.Fatal("expected at least one buffered notice")
	}
}
