// Package bootstrap derives percentile confidence intervals by resampling
// paired observations with replacement.
package bootstrap

import (
	"context"
	"fmt"
	"sync"

	"chorda/domain/assoc"
	"chorda/domain/core"
	"chorda/ports"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/semaphore"
)

// Statistic recomputes an association statistic on one resample. The index
// slice addresses the paired observation set {0..N-1}; applying the same
// indices to both series preserves pairing.
type Statistic func(idx []int) (float64, error)

// CategoricalStat adapts a contingency-based measure to the resampling
// index protocol.
func CategoricalStat(x, y []string, fn func(x, y []string) (float64, error)) Statistic {
	return func(idx []int) (float64, error) {
		xs := make([]string, len(idx))
		ys := make([]string, len(idx))
		for i, k := range idx {
			xs[i] = x[k]
			ys[i] = y[k]
		}
		return fn(xs, ys)
	}
}

// NumericStat adapts a numeric pairwise measure to the resampling index
// protocol.
func NumericStat(x, y []float64, fn func(x, y []float64) (float64, error)) Statistic {
	return func(idx []int) (float64, error) {
		xs := make([]float64, len(idx))
		ys := make([]float64, len(idx))
		for i, k := range idx {
			xs[i] = x[k]
			ys[i] = y[k]
		}
		return fn(xs, ys)
	}
}

// Options configures one interval estimation. Zero fields take defaults.
type Options struct {
	Resamples  int     // default 1000
	Confidence float64 // default 0.95
	Seed       int64
	Workers    int    // default 4
	StreamKey  string // disambiguates RNG streams across concurrent pairs
}

func (o Options) normalize() Options {
	if o.Resamples <= 0 {
		o.Resamples = 1000
	}
	if o.Confidence <= 0 || o.Confidence >= 1 {
		o.Confidence = 0.95
	}
	if o.Workers <= 0 {
		o.Workers = 4
	}
	return o
}

// Estimator produces bootstrap percentile intervals. Resamples run on a
// bounded worker pool; each resample draws from its own sub-seeded stream
// and writes by resample index, so the interval is bit-reproducible for a
// fixed seed regardless of scheduling.
type Estimator struct {
	rng ports.RNGPort
}

// New creates an estimator backed by the given RNG port.
func New(rng ports.RNGPort) *Estimator {
	return &Estimator{rng: rng}
}

// Interval draws opts.Resamples paired resamples of size n with
// replacement, recomputes stat on each, and returns the two-sided
// percentile interval. A constant resampling distribution degenerates to a
// point interval, which is valid output. The interval is widened if needed
// so it always contains the point estimate on the original pairing.
func (e *Estimator) Interval(ctx context.Context, n int, stat Statistic, opts Options) (assoc.ConfidenceInterval, error) {
	dist, err := e.Distribution(ctx, n, stat, opts)
	if err != nil {
		return assoc.ConfidenceInterval{}, err
	}
	opts = opts.normalize()

	alpha := 1 - opts.Confidence
	lower, err := stats.Percentile(dist, alpha/2*100)
	if err != nil {
		return assoc.ConfidenceInterval{}, err
	}
	upper, err := stats.Percentile(dist, (1-alpha/2)*100)
	if err != nil {
		return assoc.ConfidenceInterval{}, err
	}

	identity := make([]int, n)
	for i := range identity {
		identity[i] = i
	}
	point, err := stat(identity)
	if err != nil {
		return assoc.ConfidenceInterval{}, err
	}
	if lower > point {
		lower = point
	}
	if upper < point {
		upper = point
	}
	return assoc.ConfidenceInterval{Lower: lower, Upper: upper}, nil
}

// Distribution returns the full empirical sampling distribution of the
// statistic, ordered by resample index.
func (e *Estimator) Distribution(ctx context.Context, n int, stat Statistic, opts Options) ([]float64, error) {
	if n <= 0 {
		return nil, core.ErrEmptyInput
	}
	opts = opts.normalize()

	results := make([]float64, opts.Resamples)
	sem := semaphore.NewWeighted(int64(opts.Workers))

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i := 0; i < opts.Resamples; i++ {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		wg.Add(1)
		go func(resample int) {
			defer wg.Done()
			defer sem.Release(1)

			rng, err := e.rng.Stream(ctx, "bootstrap", opts.StreamKey, fmt.Sprintf("%d", resample), opts.Seed)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}

			idx := make([]int, n)
			for k := range idx {
				idx[k] = rng.Intn(n)
			}
			v, err := stat(idx)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			results[resample] = v
		}(i)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}
