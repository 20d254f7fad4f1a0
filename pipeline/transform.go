package pipeline

import (
	"runtime"
	"sync"

	"github.com/ndkarchive/nclr/cms"
	"github.com/ndkarchive/nclr/policy"
)

// cmsIntent maps a policy.Intent to the LittleCMS rendering intent the
// Color Transform Engine builds its transform with.
func cmsIntent(intent policy.Intent) cms.Intent {
	switch intent {
	case policy.IntentRelative:
		return cms.IntentRelative
	case policy.IntentAbsolute:
		return cms.IntentAbsolute
	case policy.IntentSaturation:
		return cms.IntentSaturation
	default:
		return cms.IntentPerceptual
	}
}

// effectiveBPC reconciles the plan's bpc flag with the intent: saturation
// intent implicitly disables black-point compensation.
func effectiveBPC(plan *policy.Plan) bool {
	if plan.Intent == policy.IntentSaturation {
		return false
	}
	return plan.BPC
}

// applyTransformParallel applies xform to src (interleaved 16-bit RGB,
// width*height*3 samples) in row bands processed by a fixed-size worker
// pool. The transform is row-wise pure, so bands are independent.
func applyTransformParallel(xform cms.Transform, src []uint16, width, height int) ([]uint16, error) {
	out := make([]uint16, len(src))
	if height == 0 {
		return out, nil
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > height {
		workers = height
	}
	if workers < 1 {
		workers = 1
	}

	type band struct{ startRow, endRow int }
	jobs := make(chan band, workers)
	type jobResult struct{ err error }
	results := make(chan jobResult, workers)

	var wg sync.WaitGroup
	rowStride := width * 3
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for b := range jobs {
				lo, hi := b.startRow*rowStride, b.endRow*rowStride
				results <- jobResult{err: xform.Apply(out[lo:hi], src[lo:hi])}
			}
		}()
	}

	rowsPerWorker := height / workers
	row := 0
	for w := 0; w < workers; w++ {
		end := row + rowsPerWorker
		if w == workers-1 {
			end = height
		}
		jobs <- band{startRow: row, endRow: end}
		row = end
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	var firstErr error
	for r := range results {
		if r.err != nil && firstErr == nil {
			firstErr = r.err
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}
