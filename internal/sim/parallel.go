package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/dragsim/internal/vehicle"
)

// Job is one setup to run in a comparison.
type Job struct {
	Label string
	Spec  vehicle.CarSpec
	Mods  vehicle.Modifications
}

// Compare runs every job concurrently. Results come back in job order; the
// first failing job, by index, decides the error.
func Compare(ctx context.Context, jobs []Job, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(jobs))
	errs := make([]error, len(jobs))

	var wg sync.WaitGroup
	for i := range jobs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			job := jobs[idx]
			results[idx], errs[idx] = SimulateContext(ctx, job.Spec, job.Mods, cfg)
		}(i)
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("%s: %w", jobs[i].Label, err)
		}
	}

	return results, nil
}
