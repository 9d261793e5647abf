package workerpool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunCollectsResultsInOrder(t *testing.T) {
	p := New(4)
	tasks := make([]Task, 4)
	for i := range tasks {
		id := i
		tasks[id] = func(ctx context.Context, workerID int) any {
			return workerID * 10
		}
	}
	results := p.Run(context.Background(), tasks)
	require.Len(t, results, 4)
	for i, r := range results {
		require.Equal(t, i, r.WorkerID)
		require.Equal(t, i*10, r.Value)
	}
}

func TestRunRecoversPanickingTask(t *testing.T) {
	p := New(2)
	tasks := []Task{
		func(ctx context.Context, workerID int) any { return "ok" },
		func(ctx context.Context, workerID int) any { panic("boom") },
	}
	results := p.Run(context.Background(), tasks)
	require.Equal(t, "ok", results[0].Value)
	require.Equal(t, "boom", results[1].Panic)
}

func TestNewClampsToOne(t *testing.T) {
	require.Equal(t, 1, New(0).Size())
	require.Equal(t, 1, New(-3).Size())
	require.Equal(t, 5, New(5).Size())
}
