package calculation

import (
	"context"
	"sync"
)

// DefaultWorkers bounds concurrent jobs when no worker count is configured.
const DefaultWorkers = 4

// RunBatch runs job(0) .. job(n-1) on at most workers goroutines. Jobs write their
// own output by index, so results keep input order. Cancelling ctx stops jobs that
// have not started yet; its error is returned once in-flight jobs finish.
func RunBatch(ctx context.Context, n, workers int, job func(i int)) error {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, workers)

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return err
		}
		select {
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()
		case semaphore <- struct{}{}:
		}

		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			defer func() { <-semaphore }()
			job(index)
		}(i)
	}

	wg.Wait()
	return nil
}
