package app

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// BatchPredictor evaluates many prepared inputs concurrently. Safe because
// each prediction is a pure function of its input and the read-only fitted
// models; the only knob is the concurrency bound.
type BatchPredictor struct {
	predictor   *CombinedPredictor
	maxParallel int
}

// NewBatchPredictor creates a batch predictor with a concurrency bound.
func NewBatchPredictor(predictor *CombinedPredictor, maxParallel int) *BatchPredictor {
	if maxParallel < 1 {
		maxParallel = 1
	}
	return &BatchPredictor{
		predictor:   predictor,
		maxParallel: maxParallel,
	}
}

// PredictAll runs the predictor over every input, preserving order. The
// first failure cancels the remaining work and is returned.
func (b *BatchPredictor) PredictAll(ctx context.Context, inputs []*PredictionInput) ([]*CombinedPrediction, error) {
	results := make([]*CombinedPrediction, len(inputs))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(b.maxParallel)

	for i, input := range inputs {
		i, input := i, input
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := b.predictor.Predict(input)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
