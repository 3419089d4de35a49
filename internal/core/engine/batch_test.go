package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/namelens/namesmith/internal/core"
)

type stubAvailability struct {
	mu    sync.Mutex
	seen  []string
	panic map[string]bool
}

func (s *stubAvailability) CheckAvailability(_ context.Context, name string) *core.DomainAvailabilityResult {
	s.mu.Lock()
	s.seen = append(s.seen, name)
	fail := s.panic[name]
	s.mu.Unlock()
	if fail {
		panic("provider exploded for " + name)
	}
	return &core.DomainAvailabilityResult{
		BaseName:  strings.ToLower(name),
		Available: map[string]bool{".com": true},
	}
}

func TestBatchCheckIsolatesFailingGroup(t *testing.T) {
	names := make([]string, 12)
	for i := range names {
		names[i] = fmt.Sprintf("name%d", i+1)
	}
	checker := &stubAvailability{panic: map[string]bool{}}
	for i := 6; i <= 10; i++ {
		checker.panic[fmt.Sprintf("name%d", i)] = true
	}

	var delays []time.Duration
	batch := &BatchChecker{
		Checker: checker,
		Sleep: func(_ context.Context, d time.Duration) error {
			delays = append(delays, d)
			return nil
		},
		Logger: zap.NewNop(),
	}

	results := batch.Check(context.Background(), names)
	require.Len(t, results, 12)

	errs := 0
	for i, r := range results {
		require.NotNil(t, r, "result %d", i)
		require.Equal(t, names[i], r.BaseName)
		require.NotNil(t, r.Available)
		if r.Error {
			errs++
			require.True(t, i >= 5 && i <= 9, "unexpected degraded result at %d", i)
		}
	}
	require.Equal(t, 5, errs)
	require.Equal(t, []time.Duration{time.Second, time.Second}, delays)
}

func TestBatchCheckStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	checker := &stubAvailability{}
	batch := &BatchChecker{
		Checker:   checker,
		GroupSize: 2,
		Sleep: func(ctx context.Context, _ time.Duration) error {
			cancel()
			return ctx.Err()
		},
	}

	results := batch.Check(ctx, []string{"a", "b", "c", "d", "e"})
	require.Len(t, results, 5)
	require.False(t, results[0].Error)
	require.False(t, results[1].Error)
	for _, r := range results[2:] {
		require.True(t, r.Error)
	}
	require.Len(t, checker.seen, 2)
}

func TestBatchCheckEmpty(t *testing.T) {
	batch := &BatchChecker{Checker: &stubAvailability{}}
	require.Empty(t, batch.Check(context.Background(), nil))
}

func TestBatchDegradedResultsUseCleanedNames(t *testing.T) {
	batch := &BatchChecker{
		Checker: &stubAvailability{panic: map[string]bool{"Acme Corp!!": true}},
		Sleep:   func(context.Context, time.Duration) error { return nil },
		Logger:  zap.NewNop(),
	}

	results := batch.Check(context.Background(), []string{"Acme Corp!!"})
	require.Len(t, results, 1)
	require.True(t, results[0].Error)
	require.Equal(t, "acme-corp", results[0].BaseName)
	require.Equal(t, "acme-corp.com", results[0].PrimaryDomain)
}
