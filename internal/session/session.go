// Package session ties the orchestrator, the UI coordinator and the
// displayed price together for one page session.
package session

import (
	"context"
	"sync"

	"stayprice-session/internal/models"
	"stayprice-session/internal/services"
	"stayprice-session/internal/ui"
)

// View is a snapshot of everything a display layer renders
type View struct {
	UI      models.UIState         `json:"ui"`
	Loading bool                   `json:"loading"`
	Price   *float64               `json:"price"`
	Theme   models.Theme           `json:"theme"`
	History []models.HistoryRecord `json:"history,omitempty"`
	LastSeq uint64                 `json:"lastSeq"`
	Closed  bool                   `json:"closed"`
}

// Session owns the displayed result. Outcomes that arrive after Close, that
// failed, or that were superseded leave it untouched.
type Session struct {
	orchestrator *services.PredictionOrchestrator
	coordinator  *ui.Coordinator

	mu     sync.Mutex
	price  float64
	shown  bool
	closed bool
}

func New(orchestrator *services.PredictionOrchestrator, coordinator *ui.Coordinator) *Session {
	return &Session{orchestrator: orchestrator, coordinator: coordinator}
}

// Predict submits req and, on a fresh success, shows the price
func (s *Session) Predict(ctx context.Context, req models.PredictionRequest, path models.SubmitPath) services.Outcome {
	outcome := s.orchestrator.Submit(ctx, req, path)
	if !outcome.OK || outcome.Stale {
		return outcome
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return outcome
	}
	s.price = outcome.Price
	s.shown = true
	return outcome
}

// displayed returns the displayed price, if any, and whether the session is closed
func (s *Session) displayed() (float64, bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.price, s.shown, s.closed
}

// ResetResult clears the displayed price
func (s *Session) ResetResult() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.price = 0
	s.shown = false
}

func (s *Session) View(ctx context.Context) View {
	state := s.coordinator.State()
	view := View{
		UI:      state,
		Loading: s.orchestrator.Loading(),
		Theme:   s.coordinator.Theme(ctx),
		LastSeq: s.orchestrator.LatestSeq(),
	}
	if state.HistoryModalOpen {
		view.History = s.coordinator.HistorySnapshot()
	}

	price, shown, closed := s.displayed()
	if shown {
		view.Price = &price
	}
	view.Closed = closed
	return view
}

// Close tears the session down. In-flight submissions still finish and are
// still recorded in history, but no longer reach the display.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.coordinator.Close()
}
