package dispatcher_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/flatconnect/flatconnect/pkg/domain/types"
	"github.com/flatconnect/flatconnect/pkg/service/dispatcher"
)

func TestDispatcherExecutesHandler(t *testing.T) {
	done := make(chan types.IssueID, 1)
	d := dispatcher.New(map[types.Stage]dispatcher.Handler{
		types.StageIntake: func(ctx context.Context, issueID types.IssueID) (*types.Stage, error) {
			done <- issueID
			return nil, nil
		},
	})
	d.Start(context.Background())
	defer d.Stop()

	issueID := types.NewIssueID()
	gt.NoError(t, d.Enqueue(context.Background(), types.StageIntake, issueID)).Required()

	select {
	case got := <-done:
		gt.Value(t, got).Equal(issueID)
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not executed")
	}
}

func TestDispatcherChainsStages(t *testing.T) {
	var mu sync.Mutex
	var executed []types.Stage
	done := make(chan struct{})

	record := func(stage types.Stage) {
		mu.Lock()
		executed = append(executed, stage)
		mu.Unlock()
	}

	next := func(s types.Stage) *types.Stage { return &s }

	d := dispatcher.New(map[types.Stage]dispatcher.Handler{
		types.StageIntake: func(ctx context.Context, issueID types.IssueID) (*types.Stage, error) {
			record(types.StageIntake)
			return next(types.StageCategorization), nil
		},
		types.StageCategorization: func(ctx context.Context, issueID types.IssueID) (*types.Stage, error) {
			record(types.StageCategorization)
			return next(types.StagePriority), nil
		},
		types.StagePriority: func(ctx context.Context, issueID types.IssueID) (*types.Stage, error) {
			record(types.StagePriority)
			close(done)
			return nil, nil
		},
	})
	d.Start(context.Background())
	defer d.Stop()

	gt.NoError(t, d.Enqueue(context.Background(), types.StageIntake, types.NewIssueID())).Required()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("chain did not complete")
	}

	mu.Lock()
	defer mu.Unlock()
	gt.Array(t, executed).Length(3)
	gt.Value(t, executed[0]).Equal(types.StageIntake)
	gt.Value(t, executed[1]).Equal(types.StageCategorization)
	gt.Value(t, executed[2]).Equal(types.StagePriority)
}

func TestDispatcherHandlerErrorHaltsChain(t *testing.T) {
	executed := make(chan types.Stage, 2)
	d := dispatcher.New(map[types.Stage]dispatcher.Handler{
		types.StageIntake: func(ctx context.Context, issueID types.IssueID) (*types.Stage, error) {
			executed <- types.StageIntake
			return nil, errors.New("stage blew up")
		},
		types.StageCategorization: func(ctx context.Context, issueID types.IssueID) (*types.Stage, error) {
			executed <- types.StageCategorization
			return nil, nil
		},
	})
	d.Start(context.Background())

	gt.NoError(t, d.Enqueue(context.Background(), types.StageIntake, types.NewIssueID())).Required()

	select {
	case stage := <-executed:
		gt.Value(t, stage).Equal(types.StageIntake)
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not executed")
	}

	d.Stop()

	select {
	case stage := <-executed:
		t.Fatalf("unexpected stage executed after failure: %s", stage)
	default:
	}
}

func TestDispatcherRejectsUnknownStage(t *testing.T) {
	d := dispatcher.New(map[types.Stage]dispatcher.Handler{})
	d.Start(context.Background())
	defer d.Stop()

	err := d.Enqueue(context.Background(), types.StageIntake, types.NewIssueID())
	gt.Value(t, err).NotNil()
	gt.Bool(t, errors.Is(err, dispatcher.ErrUnknownStage)).True()
}

func TestDispatcherQueueSaturation(t *testing.T) {
	block := make(chan struct{})
	d := dispatcher.New(map[types.Stage]dispatcher.Handler{
		types.StageIntake: func(ctx context.Context, issueID types.IssueID) (*types.Stage, error) {
			<-block
			return nil, nil
		},
	}, dispatcher.WithWorkers(1), dispatcher.WithQueueSize(1))
	d.Start(context.Background())
	defer func() {
		close(block)
		d.Stop()
	}()

	ctx := context.Background()

	// First task occupies the worker, second fills the queue
	gt.NoError(t, d.Enqueue(ctx, types.StageIntake, types.NewIssueID())).Required()

	var sawFull bool
	for i := 0; i < 100; i++ {
		if err := d.Enqueue(ctx, types.StageIntake, types.NewIssueID()); err != nil {
			gt.Bool(t, errors.Is(err, dispatcher.ErrQueueFull)).True()
			sawFull = true
			break
		}
	}
	gt.Bool(t, sawFull).True()
}

func TestDispatcherStopRejectsEnqueue(t *testing.T) {
	d := dispatcher.New(map[types.Stage]dispatcher.Handler{
		types.StageIntake: func(ctx context.Context, issueID types.IssueID) (*types.Stage, error) {
			return nil, nil
		},
	})
	d.Start(context.Background())
	d.Stop()

	err := d.Enqueue(context.Background(), types.StageIntake, types.NewIssueID())
	gt.Value(t, err).NotNil()
	gt.Bool(t, errors.Is(err, dispatcher.ErrStopped)).True()
}

func TestDispatcherSerializesSameIssue(t *testing.T) {
	var current, max int32
	var wg sync.WaitGroup

	d := dispatcher.New(map[types.Stage]dispatcher.Handler{
		types.StageIntake: func(ctx context.Context, issueID types.IssueID) (*types.Stage, error) {
			defer wg.Done()
			n := atomic.AddInt32(&current, 1)
			for {
				old := atomic.LoadInt32(&max)
				if n <= old || atomic.CompareAndSwapInt32(&max, old, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&current, -1)
			return nil, nil
		},
	}, dispatcher.WithWorkers(4))
	d.Start(context.Background())
	defer d.Stop()

	issueID := types.NewIssueID()
	for i := 0; i < 8; i++ {
		wg.Add(1)
		gt.NoError(t, d.Enqueue(context.Background(), types.StageIntake, issueID)).Required()
	}
	wg.Wait()

	gt.Value(t, atomic.LoadInt32(&max)).Equal(int32(1))
}

func TestDispatcherRecoversFromPanic(t *testing.T) {
	done := make(chan struct{})
	d := dispatcher.New(map[types.Stage]dispatcher.Handler{
		types.StageIntake: func(ctx context.Context, issueID types.IssueID) (*types.Stage, error) {
			panic("boom")
		},
		types.StageCategorization: func(ctx context.Context, issueID types.IssueID) (*types.Stage, error) {
			close(done)
			return nil, nil
		},
	}, dispatcher.WithWorkers(1))
	d.Start(context.Background())
	defer d.Stop()

	ctx := context.Background()
	gt.NoError(t, d.Enqueue(ctx, types.StageIntake, types.NewIssueID())).Required()
	gt.NoError(t, d.Enqueue(ctx, types.StageCategorization, types.NewIssueID())).Required()

	// The worker survives the panic and keeps processing
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not survive handler panic")
	}
}
