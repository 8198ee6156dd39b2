package ideas

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// funcService adapts a function to the Service interface.
type funcService func(ctx context.Context, req Request) (string, error)

func (f funcService) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

func collect(t *testing.T, out chan Completion) []Completion {
	t.Helper()
	var got []Completion
	for {
		select {
		case c := <-out:
			got = append(got, c)
			if c.Done {
				return got
			}
		case <-time.After(5 * time.Second):
			t.Fatal("fan-out never delivered a Done marker")
		}
	}
}

func TestFanOutDeliversEveryModelThenDone(t *testing.T) {
	svc := funcService(func(_ context.Context, req Request) (string, error) {
		return "idea for " + req.Model, nil
	})

	out := make(chan Completion, 8)
	go FanOut(context.Background(), svc, "seed", nil, []string{"m1", "m2", "m3"}, out)

	got := collect(t, out)
	require.Len(t, got, 4)
	assert.True(t, got[3].Done, "the Done marker comes after every result")

	byModel := map[string]Completion{}
	for _, c := range got[:3] {
		byModel[c.Model] = c
	}
	for _, m := range []string{"m1", "m2", "m3"} {
		c, ok := byModel[m]
		require.True(t, ok, m)
		assert.Equal(t, "idea for "+m, c.Text)
		assert.Equal(t, 3, c.Total)
		assert.NoError(t, c.Err)
	}
}

func TestFanOutFailuresDoNotStopOthers(t *testing.T) {
	svc := funcService(func(_ context.Context, req Request) (string, error) {
		if req.Model == "broken" {
			return "", &Error{Reason: ReasonNetwork, Model: req.Model}
		}
		return "ok", nil
	})

	out := make(chan Completion, 8)
	go FanOut(context.Background(), svc, "seed", nil, []string{"broken", "fine"}, out)

	got := collect(t, out)
	require.Len(t, got, 3)

	var failed, succeeded bool
	for _, c := range got[:2] {
		if c.Err != nil {
			var genErr *Error
			require.ErrorAs(t, c.Err, &genErr)
			failed = true
		} else {
			assert.Equal(t, "ok", c.Text)
			succeeded = true
		}
	}
	assert.True(t, failed)
	assert.True(t, succeeded)
}

func TestFanOutRunsModelsConcurrently(t *testing.T) {
	var mu sync.Mutex
	inFlight, peak := 0, 0
	release := make(chan struct{})

	svc := funcService(func(_ context.Context, _ Request) (string, error) {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()
		<-release
		mu.Lock()
		inFlight--
		mu.Unlock()
		return "x", nil
	})

	out := make(chan Completion, 8)
	go FanOut(context.Background(), svc, "seed", nil, []string{"a", "b", "c"}, out)

	// Wait for all three to be blocked inside Generate.
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return inFlight == 3
	}, 5*time.Second, time.Millisecond)
	close(release)

	collect(t, out)
	mu.Lock()
	assert.Equal(t, 3, peak)
	mu.Unlock()
}

func TestFanOutNoModels(t *testing.T) {
	out := make(chan Completion, 1)
	go FanOut(context.Background(), funcService(func(context.Context, Request) (string, error) {
		return "", errors.New("must not be called")
	}), "seed", nil, nil, out)

	got := collect(t, out)
	require.Len(t, got, 1)
	assert.True(t, got[0].Done)
}

func TestFanOutPassesContexts(t *testing.T) {
	var gotReq Request
	var mu sync.Mutex
	svc := funcService(func(_ context.Context, req Request) (string, error) {
		mu.Lock()
		gotReq = req
		mu.Unlock()
		return "x", nil
	})

	out := make(chan Completion, 4)
	go FanOut(context.Background(), svc, "seed", []string{"n1", "n2"}, []string{"m"}, out)
	collect(t, out)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "seed", gotReq.SourceText)
	assert.Equal(t, []string{"n1", "n2"}, gotReq.Context)
	assert.Equal(t, "m", gotReq.Model)
}
