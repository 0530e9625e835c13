package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"stayprice-session/internal/config"
	"stayprice-session/internal/history"
	"stayprice-session/internal/models"
	"stayprice-session/internal/store"
	"stayprice-session/pkg/predictapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// predictorFunc adapts a function to Predictor
type predictorFunc func(ctx context.Context, req models.PredictionRequest) (*models.PredictionResult, error)

func (f predictorFunc) Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResult, error) {
	return f(ctx, req)
}

func respondAfter(d time.Duration, price float64, err error) predictorFunc {
	return func(ctx context.Context, req models.PredictionRequest) (*models.PredictionResult, error) {
		time.Sleep(d)
		if err != nil {
			return nil, err
		}
		return &models.PredictionResult{Price: price, Success: true}, nil
	}
}

func testConfig(quick, detailed time.Duration) *config.Config {
	return &config.Config{QuickFloor: quick, DetailedFloor: detailed, DiscardStale: true}
}

func newHistory(t *testing.T) *history.Log {
	backend := store.NewMemoryBackend(0)
	t.Cleanup(func() { backend.Close() })
	return history.NewLog(store.NewAdapter(backend))
}

func quickMumbai() models.PredictionRequest {
	return models.QuickSearchRequest(models.CityMumbai, models.PropertyApartment, 2)
}

func TestSubmit_LatencyFloor(t *testing.T) {
	o := NewPredictionOrchestrator(testConfig(800*time.Millisecond, time.Second), respondAfter(50*time.Millisecond, 100, nil), newHistory(t))

	start := time.Now()
	outcome := o.Submit(context.Background(), quickMumbai(), models.PathQuick)
	elapsed := time.Since(start)

	require.True(t, outcome.OK)
	assert.GreaterOrEqual(t, elapsed, 800*time.Millisecond)
	assert.Less(t, elapsed, 800*time.Millisecond+300*time.Millisecond)
	assert.GreaterOrEqual(t, outcome.Elapsed, 800*time.Millisecond)
}

func TestSubmit_SlowCallIsNotDelayedFurther(t *testing.T) {
	o := NewPredictionOrchestrator(testConfig(50*time.Millisecond, 50*time.Millisecond), respondAfter(150*time.Millisecond, 100, nil), newHistory(t))

	start := time.Now()
	outcome := o.Submit(context.Background(), quickMumbai(), models.PathQuick)
	elapsed := time.Since(start)

	require.True(t, outcome.OK)
	assert.GreaterOrEqual(t, elapsed, 150*time.Millisecond)
	assert.Less(t, elapsed, 150*time.Millisecond+150*time.Millisecond)
}

func TestSubmit_FloorPerPath(t *testing.T) {
	o := NewPredictionOrchestrator(testConfig(800*time.Millisecond, time.Second), respondAfter(0, 1, nil), newHistory(t))

	assert.Equal(t, 800*time.Millisecond, o.FloorFor(models.PathQuick))
	assert.Equal(t, time.Second, o.FloorFor(models.PathDetailed))
}

func TestSubmit_SuccessAppendsHistory(t *testing.T) {
	log := newHistory(t)
	o := NewPredictionOrchestrator(testConfig(0, 0), respondAfter(0, 4200, nil), log)

	req := models.PredictionRequest{
		City: models.CityJaipur, PropertyType: models.PropertyHeritageHaveli, RoomType: "Private room",
		Accommodates: 3, Bedrooms: 2, Bathrooms: 1.5, Beds: 2,
	}
	before := time.Now().UnixMilli()
	outcome := o.Submit(context.Background(), req, models.PathDetailed)

	require.True(t, outcome.OK)
	assert.Equal(t, 4200.0, outcome.Price)
	assert.False(t, o.Loading())

	records := log.Load(context.Background())
	require.Len(t, records, 1)
	assert.Equal(t, "Jaipur", records[0].City)
	assert.Equal(t, "Heritage Haveli", records[0].PropertyType)
	assert.Equal(t, 3, records[0].Guests)
	assert.Equal(t, 4200.0, records[0].Price)
	assert.GreaterOrEqual(t, records[0].Timestamp, before)
}

func TestSubmit_FailureIsSilent(t *testing.T) {
	log := newHistory(t)
	log.Append(context.Background(), history.NewRecord("Goa", "Villa", 4, 9000, time.Now()))
	before := log.Load(context.Background())

	o := NewPredictionOrchestrator(testConfig(0, 0), respondAfter(10*time.Millisecond, 0, errors.New("connection refused")), log)
	outcome := o.Submit(context.Background(), quickMumbai(), models.PathQuick)

	assert.False(t, outcome.OK)
	assert.Error(t, outcome.Err)
	assert.Zero(t, outcome.Price)
	assert.False(t, o.Loading())
	assert.Equal(t, before, log.Load(context.Background()))
}

func TestSubmit_FailureStillWaitsForFloor(t *testing.T) {
	o := NewPredictionOrchestrator(testConfig(200*time.Millisecond, 0), respondAfter(0, 0, errors.New("boom")), newHistory(t))

	start := time.Now()
	outcome := o.Submit(context.Background(), quickMumbai(), models.PathQuick)

	assert.False(t, outcome.OK)
	assert.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond)
}

func TestSubmit_NilResultIsAFailure(t *testing.T) {
	log := newHistory(t)
	o := NewPredictionOrchestrator(testConfig(0, 0), predictorFunc(func(ctx context.Context, req models.PredictionRequest) (*models.PredictionResult, error) {
		return nil, nil
	}), log)

	outcome := o.Submit(context.Background(), quickMumbai(), models.PathQuick)

	assert.False(t, outcome.OK)
	assert.ErrorIs(t, outcome.Err, ErrNoResult)
	assert.False(t, o.Loading())
	assert.Empty(t, log.Load(context.Background()))
}

func TestSubmit_InvalidRequestSkipsNetwork(t *testing.T) {
	var calls int32
	o := NewPredictionOrchestrator(testConfig(0, 0), predictorFunc(func(ctx context.Context, req models.PredictionRequest) (*models.PredictionResult, error) {
		atomic.AddInt32(&calls, 1)
		return &models.PredictionResult{Price: 1, Success: true}, nil
	}), newHistory(t))

	outcome := o.Submit(context.Background(), models.QuickSearchRequest("Atlantis", models.PropertyApartment, 2), models.PathQuick)

	assert.False(t, outcome.OK)
	assert.ErrorIs(t, outcome.Err, models.ErrInvalidRequest)
	assert.Zero(t, atomic.LoadInt32(&calls))
	assert.Zero(t, o.LatestSeq())
}

func TestSubmit_LoadingTracksLatestSubmission(t *testing.T) {
	release := make(chan struct{})
	o := NewPredictionOrchestrator(testConfig(0, 0), predictorFunc(func(ctx context.Context, req models.PredictionRequest) (*models.PredictionResult, error) {
		if req.Accommodates == 1 {
			<-release
			return &models.PredictionResult{Price: 111, Success: true}, nil
		}
		return &models.PredictionResult{Price: 222, Success: true}, nil
	}), newHistory(t))

	firstDone := make(chan Outcome, 1)
	go func() {
		firstDone <- o.Submit(context.Background(), models.QuickSearchRequest(models.CityDelhi, models.PropertyStudio, 1), models.PathQuick)
	}()

	require.Eventually(t, o.Loading, time.Second, 5*time.Millisecond)

	second := o.Submit(context.Background(), models.QuickSearchRequest(models.CityDelhi, models.PropertyStudio, 2), models.PathQuick)
	require.True(t, second.OK)
	assert.False(t, second.Stale)
	assert.Equal(t, uint64(2), second.Seq)
	assert.False(t, o.Loading(), "newest submission finished, so loading is off")

	close(release)
	stale := <-firstDone
	assert.True(t, stale.OK)
	assert.True(t, stale.Stale)
	assert.Equal(t, uint64(1), stale.Seq)
	assert.False(t, o.Loading())
}

func TestSubmit_StaleNotFlaggedWhenDiscardDisabled(t *testing.T) {
	release := make(chan struct{})
	cfg := testConfig(0, 0)
	cfg.DiscardStale = false
	o := NewPredictionOrchestrator(cfg, predictorFunc(func(ctx context.Context, req models.PredictionRequest) (*models.PredictionResult, error) {
		if req.Accommodates == 1 {
			<-release
		}
		return &models.PredictionResult{Price: float64(req.Accommodates), Success: true}, nil
	}), newHistory(t))

	firstDone := make(chan Outcome, 1)
	go func() {
		firstDone <- o.Submit(context.Background(), models.QuickSearchRequest(models.CityGoa, models.PropertyVilla, 1), models.PathQuick)
	}()
	require.Eventually(t, o.Loading, time.Second, 5*time.Millisecond)

	o.Submit(context.Background(), models.QuickSearchRequest(models.CityGoa, models.PropertyVilla, 2), models.PathQuick)
	close(release)

	assert.False(t, (<-firstDone).Stale)
}

func TestSubmit_CancelledDuringFloor(t *testing.T) {
	log := newHistory(t)
	o := NewPredictionOrchestrator(testConfig(2*time.Second, 0), respondAfter(0, 500, nil), log)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	outcome := o.Submit(ctx, quickMumbai(), models.PathQuick)

	assert.False(t, outcome.OK)
	assert.ErrorIs(t, outcome.Err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
	assert.Empty(t, log.Load(context.Background()))
}

// End to end against a fake endpoint: quick search for Mumbai, 2 guests,
// answered after 50ms with an 800ms floor.
func TestSubmit_MumbaiScenario(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		time.Sleep(50 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "predicted_price": 8500}`))
	}))
	defer server.Close()

	log := newHistory(t)
	o := NewPredictionOrchestrator(testConfig(800*time.Millisecond, time.Second), predictapi.NewClient(server.URL, 5*time.Second), log)

	start := time.Now()
	outcome := o.Submit(context.Background(), quickMumbai(), models.PathQuick)

	require.True(t, outcome.OK)
	assert.GreaterOrEqual(t, time.Since(start), 800*time.Millisecond)
	assert.Equal(t, 8500.0, outcome.Price)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	records := log.Load(context.Background())
	require.Len(t, records, 1)
	assert.Equal(t, "Mumbai", records[0].City)
	assert.Equal(t, "Apartment", records[0].PropertyType)
	assert.Equal(t, 2, records[0].Guests)
	assert.Equal(t, 8500.0, records[0].Price)
}

func TestSubmit_UnsuccessfulResponseLeavesHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false}`))
	}))
	defer server.Close()

	log := newHistory(t)
	o := NewPredictionOrchestrator(testConfig(0, 0), predictapi.NewClient(server.URL, 5*time.Second), log)

	outcome := o.Submit(context.Background(), quickMumbai(), models.PathQuick)
	assert.False(t, outcome.OK)
	assert.ErrorIs(t, outcome.Err, predictapi.ErrUnsuccessful)
	assert.Empty(t, log.Load(context.Background()))
}
