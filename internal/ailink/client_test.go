package ailink

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/namelens/namesmith/internal/ailink/driver"
)

type fakeDriver struct {
	mu    sync.Mutex
	calls int
	reqs  []*driver.Request
	// results is consumed one entry per call; the last entry repeats.
	results []fakeResult
}

type fakeResult struct {
	text string
	err  error
}

func (f *fakeDriver) Complete(ctx context.Context, req *driver.Request) (*driver.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.calls
	if idx >= len(f.results) {
		idx = len(f.results) - 1
	}
	f.calls++
	f.reqs = append(f.reqs, req)
	r := f.results[idx]
	if r.err != nil {
		return nil, r.err
	}
	return &driver.Response{Text: r.text}, nil
}

func (f *fakeDriver) Name() string { return "fake" }

func (f *fakeDriver) Capabilities() driver.Capabilities {
	return driver.Capabilities{SupportsJSONMode: true}
}

type recordingSleeper struct {
	delays []time.Duration
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return ctx.Err()
}

func newTestClient(drv driver.Driver, sleeper *recordingSleeper) *Client {
	return &Client{
		Driver:     drv,
		Model:      "test-model",
		MaxRetries: DefaultMaxRetries,
		BaseDelay:  time.Second,
		Sleep:      sleeper.Sleep,
		Logger:     zap.NewNop(),
	}
}

func TestCompleteReturnsFirstSuccess(t *testing.T) {
	drv := &fakeDriver{results: []fakeResult{{text: `{"names":[]}`}}}
	sleeper := &recordingSleeper{}

	text, err := newTestClient(drv, sleeper).Complete(context.Background(), "prompt")
	require.NoError(t, err)
	require.Equal(t, `{"names":[]}`, text)
	require.Equal(t, 1, drv.calls)
	require.Empty(t, sleeper.delays)

	req := drv.reqs[0]
	require.Equal(t, "test-model", req.Model)
	require.Equal(t, DefaultMaxTokens, req.MaxTokens)
	require.True(t, req.JSONMode)
	require.Len(t, req.Messages, 1)
	require.Equal(t, "user", req.Messages[0].Role)
	require.Equal(t, "prompt", req.Messages[0].Content)
}

func TestCompleteRetriesWithLinearBackoff(t *testing.T) {
	transport := errors.New("connection reset")
	drv := &fakeDriver{results: []fakeResult{{err: transport}}}
	sleeper := &recordingSleeper{}

	_, err := newTestClient(drv, sleeper).Complete(context.Background(), "prompt")
	require.Error(t, err)

	var retryErr *RetryError
	require.ErrorAs(t, err, &retryErr)
	require.Equal(t, 4, retryErr.Attempts)
	require.ErrorIs(t, err, transport)
	require.Equal(t, 4, drv.calls)
	require.Equal(t, []time.Duration{time.Second, 2 * time.Second, 3 * time.Second}, sleeper.delays)
}

func TestCompleteRecoversAfterTransientFailure(t *testing.T) {
	drv := &fakeDriver{results: []fakeResult{
		{err: &driver.ProviderError{Provider: "fake", StatusCode: http.StatusTooManyRequests}},
		{err: context.DeadlineExceeded},
		{text: "ok"},
	}}
	sleeper := &recordingSleeper{}

	text, err := newTestClient(drv, sleeper).Complete(context.Background(), "prompt")
	require.NoError(t, err)
	require.Equal(t, "ok", text)
	require.Equal(t, 3, drv.calls)
	require.Equal(t, []time.Duration{time.Second, 2 * time.Second}, sleeper.delays)
}

func TestCompleteFailsFastOnClientError(t *testing.T) {
	perr := &driver.ProviderError{Provider: "fake", StatusCode: http.StatusUnauthorized, Message: "bad key"}
	drv := &fakeDriver{results: []fakeResult{{err: perr}}}
	sleeper := &recordingSleeper{}

	_, err := newTestClient(drv, sleeper).Complete(context.Background(), "prompt")
	require.Error(t, err)
	require.Equal(t, 1, drv.calls)
	require.Empty(t, sleeper.delays)

	var got *driver.ProviderError
	require.ErrorAs(t, err, &got)
	require.Same(t, perr, got)
	require.Equal(t, CodeAuth, Classify(err))
}

func TestCompleteStopsWhenCallerCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	drv := &fakeDriver{results: []fakeResult{{err: errors.New("boom")}}}
	sleeper := &recordingSleeper{}
	client := newTestClient(drv, sleeper)
	client.Sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return sleeper.Sleep(ctx, d)
	}

	_, err := client.Complete(ctx, "prompt")
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, drv.calls)
	require.Equal(t, CodeCanceled, Classify(err))
}

func TestCompleteAppliesAttemptTimeout(t *testing.T) {
	drv := &blockingDriver{}
	client := &Client{
		Driver:         drv,
		AttemptTimeout: 10 * time.Millisecond,
		MaxRetries:     1,
		Sleep:          func(context.Context, time.Duration) error { return nil },
		Logger:         zap.NewNop(),
	}

	_, err := client.Complete(context.Background(), "prompt")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, 2, drv.calls)
	require.Equal(t, CodeTimeout, Classify(err))
}

func TestCompleteRejectsEmptyPrompt(t *testing.T) {
	_, err := newTestClient(&fakeDriver{}, &recordingSleeper{}).Complete(context.Background(), "  ")
	require.Error(t, err)
}

type blockingDriver struct {
	mu    sync.Mutex
	calls int
}

func (b *blockingDriver) Complete(ctx context.Context, _ *driver.Request) (*driver.Response, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	<-ctx.Done()
	return nil, ctx.Err()
}

func (b *blockingDriver) Name() string                      { return "blocking" }
func (b *blockingDriver) Capabilities() driver.Capabilities { return driver.Capabilities{} }

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		want ErrorCode
	}{
		{&driver.ProviderError{StatusCode: 429}, CodeRateLimited},
		{&driver.ProviderError{StatusCode: 400}, CodeBadRequest},
		{&driver.ProviderError{StatusCode: 503}, CodeUpstream},
		{&driver.ProviderError{StatusCode: 408}, CodeTimeout},
		{errors.New("dial tcp: refused"), CodeTransport},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Classify(&RetryError{Attempts: 1, Err: tc.err}))
	}
}
