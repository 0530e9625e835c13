// Package history keeps the bounded, newest-first log of past predictions.
package history

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"stayprice-session/internal/logging"
	"stayprice-session/internal/models"
	"stayprice-session/internal/store"

	"github.com/google/uuid"
)

const (
	// StorageKey is the persisted key holding the JSON array of records
	StorageKey = "prediction_history"

	// MaxRecords bounds the log
	MaxRecords = 5
)

// Log is the history repository. Persistence is best effort: no method
// reports a storage error. Appends are serialized within the process only;
// across processes the last writer wins.
type Log struct {
	mu    sync.Mutex
	store *store.Adapter
}

func NewLog(adapter *store.Adapter) *Log {
	return &Log{store: adapter}
}

// NewRecord builds a record for a successful prediction made at now
func NewRecord(city, propertyType string, guests int, price float64, now time.Time) models.HistoryRecord {
	return models.HistoryRecord{
		ID:           uuid.New().String(),
		City:         city,
		PropertyType: propertyType,
		Guests:       guests,
		Price:        price,
		Timestamp:    now.UnixMilli(),
	}
}

// Append puts record at the front, keeps the first MaxRecords and writes the
// result once. It returns the list as it now stands in memory, whether or not
// the write succeeded.
func (l *Log) Append(ctx context.Context, record models.HistoryRecord) []models.HistoryRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	existing := l.Load(ctx)

	records := make([]models.HistoryRecord, 0, MaxRecords)
	records = append(records, record)
	for _, r := range existing {
		if len(records) == MaxRecords {
			break
		}
		if r.ID == record.ID {
			continue
		}
		records = append(records, r)
	}

	payload, err := json.Marshal(records)
	if err != nil {
		logging.New(ctx).Error("history_append", err)
		return records
	}
	l.store.Write(ctx, StorageKey, string(payload))

	return records
}

// Load returns the stored records newest first. Missing or malformed data
// yields an empty list; entries without an id and repeated ids are dropped.
func (l *Log) Load(ctx context.Context) []models.HistoryRecord {
	raw, ok := l.store.Read(ctx, StorageKey)
	if !ok {
		return []models.HistoryRecord{}
	}

	var records []models.HistoryRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		logging.New(ctx).Warnf("history_load", "discarding malformed history: %v", err)
		return []models.HistoryRecord{}
	}

	// Another writer may have left null entries or repeated ids behind
	seen := make(map[string]struct{}, len(records))
	out := make([]models.HistoryRecord, 0, MaxRecords)
	for _, r := range records {
		if len(out) == MaxRecords {
			break
		}
		if r.ID == "" {
			continue
		}
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}

	return out
}

// Clear removes every record
func (l *Log) Clear(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.store.Remove(ctx, StorageKey)
}
