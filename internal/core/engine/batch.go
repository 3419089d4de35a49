package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/namelens/namesmith/internal/core"
	"github.com/namelens/namesmith/internal/metrics"
	"github.com/namelens/namesmith/internal/observability"
)

// Batch defaults.
const (
	DefaultGroupSize  = 5
	DefaultGroupDelay = time.Second
)

// AvailabilityChecker checks every extension for one name.
type AvailabilityChecker interface {
	CheckAvailability(ctx context.Context, name string) *core.DomainAvailabilityResult
}

// BatchChecker checks many names in fixed-size groups. Groups run one after
// another with a pause between them; names within a group run concurrently.
type BatchChecker struct {
	Checker    AvailabilityChecker
	GroupSize  int
	GroupDelay time.Duration
	Sleep      func(ctx context.Context, d time.Duration) error
	Logger     observability.Logger
	Clock      func() time.Time
}

// Check returns one result per name, in input order. A failed group yields
// degraded results for its members only.
func (b *BatchChecker) Check(ctx context.Context, names []string) []*core.DomainAvailabilityResult {
	results := make([]*core.DomainAvailabilityResult, len(names))
	size := b.groupSize()

	for start := 0; start < len(names); start += size {
		end := min(start+size, len(names))
		group := names[start:end]

		if start > 0 {
			if err := b.sleep(ctx, b.groupDelay()); err != nil {
				b.degrade(results[start:], names[start:], "batch canceled")
				break
			}
		}

		groupResults, err := b.checkGroup(ctx, group)
		if err != nil {
			observability.Or(b.Logger).Warn("batch group failed",
				zap.Int("group_start", start),
				zap.Int("group_size", len(group)),
				zap.Error(err))
			metrics.RecordBatchGroup(true)
			b.degrade(results[start:end], group, "domain check failed for this batch group")
			continue
		}
		metrics.RecordBatchGroup(false)
		copy(results[start:end], groupResults)
	}
	return results
}

func (b *BatchChecker) checkGroup(ctx context.Context, names []string) ([]*core.DomainAvailabilityResult, error) {
	if b.Checker == nil {
		return nil, fmt.Errorf("no availability checker configured")
	}

	out := make([]*core.DomainAvailabilityResult, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("check %q panicked: %v", name, r)
				}
			}()
			res := b.Checker.CheckAvailability(gctx, name)
			if res == nil {
				return fmt.Errorf("check %q returned no result", name)
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *BatchChecker) degrade(dst []*core.DomainAvailabilityResult, names []string, message string) {
	for i, name := range names {
		dst[i] = core.DegradedAvailability(name, b.now(), message)
	}
}

func (b *BatchChecker) groupSize() int {
	if b.GroupSize > 0 {
		return b.GroupSize
	}
	return DefaultGroupSize
}

func (b *BatchChecker) groupDelay() time.Duration {
	if b.GroupDelay > 0 {
		return b.GroupDelay
	}
	return DefaultGroupDelay
}

func (b *BatchChecker) sleep(ctx context.Context, d time.Duration) error {
	if b.Sleep != nil {
		return b.Sleep(ctx, d)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (b *BatchChecker) now() time.Time {
	if b.Clock != nil {
		return b.Clock()
	}
	return time.Now().UTC()
}
