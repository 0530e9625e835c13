package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"stayprice-session/internal/config"
	"stayprice-session/internal/history"
	"stayprice-session/internal/logging"
	"stayprice-session/internal/models"
)

// ErrNoResult is reported when a Predictor returns neither a result nor an error
var ErrNoResult = errors.New("predictor returned no result")

// Predictor issues one call to the prediction endpoint
type Predictor interface {
	Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResult, error)
}

// Outcome is the single terminal result of one submission. Err is for logs
// and diagnostics only; callers treat any non-OK outcome as "no result".
type Outcome struct {
	Seq     uint64
	Price   float64
	OK      bool
	Stale   bool
	Err     error
	Elapsed time.Duration
}

// PredictionOrchestrator owns the request lifecycle of a page session:
// one network call per submission, a latency floor, the loading flag and the
// history append on success.
type PredictionOrchestrator struct {
	predictor    Predictor
	history      *history.Log
	quickFloor   time.Duration
	detailFloor  time.Duration
	discardStale bool
	now          func() time.Time

	mu        sync.Mutex
	latestSeq uint64
	loading   bool
}

func NewPredictionOrchestrator(cfg *config.Config, predictor Predictor, log *history.Log) *PredictionOrchestrator {
	return &PredictionOrchestrator{
		predictor:    predictor,
		history:      log,
		quickFloor:   cfg.QuickFloor,
		detailFloor:  cfg.DetailedFloor,
		discardStale: cfg.DiscardStale,
		now:          time.Now,
	}
}

// Submit runs one submission to completion. It blocks for at least the
// latency floor of path; independent submissions may run concurrently and
// none cancels another.
func (o *PredictionOrchestrator) Submit(ctx context.Context, req models.PredictionRequest, path models.SubmitPath) Outcome {
	logger := logging.New(ctx)
	start := o.now()

	if err := req.Validate(); err != nil {
		logger.Warnf("predict", "rejected before sending: %v", err)
		return Outcome{Err: err}
	}

	seq := o.begin()

	result, err := o.predictor.Predict(ctx, req)
	if err == nil && result == nil {
		err = ErrNoResult
	}

	if floorErr := o.waitFloor(ctx, start, o.FloorFor(path)); floorErr != nil && err == nil {
		err = floorErr
	}

	stale := o.finish(seq)
	outcome := Outcome{
		Seq:     seq,
		Stale:   stale && o.discardStale,
		Elapsed: o.now().Sub(start),
	}

	if err != nil {
		logger.Warnf("predict", "seq=%d path=%s no result: %v", seq, path, err)
		outcome.Err = err
		return outcome
	}

	o.history.Append(ctx, history.NewRecord(
		string(req.City), string(req.PropertyType), req.Accommodates, result.Price, o.now(),
	))

	outcome.OK = true
	outcome.Price = result.Price
	logger.Infof("predict", "seq=%d path=%s city=%s price=%.2f elapsed=%s stale=%t",
		seq, path, req.City, result.Price, outcome.Elapsed, outcome.Stale)

	return outcome
}

// FloorFor returns the minimum perceived latency for a submission path
func (o *PredictionOrchestrator) FloorFor(path models.SubmitPath) time.Duration {
	if path == models.PathQuick {
		return o.quickFloor
	}
	return o.detailFloor
}

// Loading reports whether the most recently issued submission is in flight
func (o *PredictionOrchestrator) Loading() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.loading
}

// LatestSeq returns the sequence number of the most recent submission
func (o *PredictionOrchestrator) LatestSeq() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.latestSeq
}

func (o *PredictionOrchestrator) begin() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.latestSeq++
	o.loading = true
	return o.latestSeq
}

// finish clears the loading flag only for the newest submission and reports
// whether seq has been superseded
func (o *PredictionOrchestrator) finish(seq uint64) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if seq != o.latestSeq {
		return true
	}
	o.loading = false
	return false
}

func (o *PredictionOrchestrator) waitFloor(ctx context.Context, start time.Time, floor time.Duration) error {
	remaining := floor - o.now().Sub(start)
	if remaining <= 0 {
		return nil
	}

	timer := time.NewTimer(remaining)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
