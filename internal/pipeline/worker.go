package pipeline

import (
	"context"
	"sync"
)

type Options struct {
	// Workers bounds concurrent item processing. Values <= 0 mean 1, which
	// preserves strict input-order execution.
	Workers int

	// OnDone, when set, is invoked once per item as it completes, with the
	// number of completed items and the total. Completion order, not input
	// order. Must be safe for the caller's own use; Map serializes calls.
	OnDone func(done, total int)
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = 1
	}
	return o
}

// Map runs fn over all items and returns one output per input, ordered by
// input index regardless of completion order. fn is expected to absorb its
// own failures into the Out value; Map fails only when ctx is cancelled.
func Map[In any, Out any](
	ctx context.Context,
	items []In,
	fn func(ctx context.Context, in In) Out,
	opts Options,
) ([]Out, error) {
	opts = opts.withDefaults()

	out := make([]Out, len(items))

	type job struct {
		idx int
		in  In
	}

	jobs := make(chan job)
	done := make(chan int, opts.Workers)

	var wg sync.WaitGroup
	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if ctx.Err() != nil {
					return
				}
				out[j.idx] = fn(ctx, j.in)
				select {
				case done <- j.idx:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, item := range items {
			select {
			case jobs <- job{idx: i, in: item}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(done)
	}()

	completed := 0
	for range done {
		completed++
		if opts.OnDone != nil {
			opts.OnDone(completed, len(items))
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
