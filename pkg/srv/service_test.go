package srv

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	order []string
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, s)
}

type fakeService struct {
	name     string
	rec      *recorder
	startErr error
}

func (f *fakeService) Start(ctx context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	<-ctx.Done()
	return nil
}

func (f *fakeService) Shutdown(ctx context.Context) error {
	f.rec.add(f.name)
	return nil
}

func TestRun_ShutsDownInReverseOrderOnCancel(t *testing.T) {
	rec := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, []Service{
			&fakeService{name: "db", rec: rec},
			&fakeService{name: "bot", rec: rec},
		})
	}()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, []string{"bot", "db"}, rec.order)
}

func TestRun_StartFailureStopsEverything(t *testing.T) {
	rec := &recorder{}
	boom := errors.New("bad token")

	err := Run(context.Background(), []Service{
		&fakeService{name: "db", rec: rec},
		&fakeService{name: "bot", rec: rec, startErr: boom},
	})

	require.ErrorIs(t, err, boom)
	assert.ElementsMatch(t, []string{"bot", "db"}, rec.order)
}

func TestCleanup_CallsFuncOnShutdown(t *testing.T) {
	called := false
	svc := NewCleanup(func() error {
		called = true
		return nil
	})

	require.NoError(t, svc.Shutdown(context.Background()))
	assert.True(t, called)
}

func TestCleanup_RunsOnce(t *testing.T) {
	calls := 0
	svc := NewCleanup(func() error {
		calls++
		return nil
	})

	require.NoError(t, svc.Shutdown(context.Background()))
	require.NoError(t, svc.Shutdown(context.Background()))
	assert.Equal(t, 1, calls)
}
