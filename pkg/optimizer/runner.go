package optimizer

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/raykavin/roadrisk/pkg/logger"
)

// runner evaluates parameter sets with a bounded number of workers
type runner struct {
	parallelism int
	logger      logger.Logger
	progress    func()
}

// run evaluates every parameter set. Results keep the order of the sets,
// so sorting them afterwards is stable across runs.
func (r runner) run(ctx context.Context, evaluator Evaluator, parameterSets []ParameterSet) ([]*Result, error) {
	var (
		results   = make([]*Result, len(parameterSets))
		wg        sync.WaitGroup
		errCh     = make(chan error, 1)
		semaphore = make(chan struct{}, max(1, r.parallelism))
	)

loop:
	for i, params := range parameterSets {
		select {
		case <-ctx.Done():
			break loop
		default:
		}

		wg.Add(1)
		semaphore <- struct{}{}

		go func() {
			defer wg.Done()
			defer func() { <-semaphore }()

			r.debugf("Evaluating parameter set %d/%d %s", i+1, len(parameterSets), FormatParameterSet(params))

			result, err := evaluator.Evaluate(ctx, params)
			if err != nil {
				select {
				case errCh <- fmt.Errorf("evaluation of %s: %w", FormatParameterSet(params), err):
				default:
				}
				return
			}
			results[i] = result

			if r.progress != nil {
				r.progress()
			}
		}()
	}

	wg.Wait()

	select {
	case err := <-errCh:
		return nil, err
	default:
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r runner) debugf(format string, args ...any) {
	if r.logger != nil {
		r.logger.Debugf(format, args...)
	}
}

func (r runner) infof(format string, args ...any) {
	if r.logger != nil {
		r.logger.Infof(format, args...)
	}
}

// sortResults orders results best first, keeping evaluation order on ties
func sortResults(results []*Result, targetMetric MetricName, maximize bool) {
	sort.Stable(ResultSorter{
		Results:    results,
		MetricName: string(targetMetric),
		Maximize:   maximize,
	})
}
