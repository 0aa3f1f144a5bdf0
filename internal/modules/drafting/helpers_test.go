package drafting

import (
	"context"
	"testing"
	"time"

	"github.com/postflow/core/internal/pkg/taskqueue"
	"github.com/stretchr/testify/require"
)

func newRunningQueue(t *testing.T) *taskqueue.Queue {
	t.Helper()
	queue := taskqueue.New()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go queue.Run(ctx)
	return queue
}

func waitForCalls(t *testing.T, count func() int32, want int32) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if count() >= want {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	require.GreaterOrEqual(t, count(), want)
}
