// Package store archives generated diagrams.
//
// The diagram package never imports store. Callers that want a history of
// what they generated build a Record from the Request and Diagram and hand
// it to a Store:
//
//	rec := store.NewRecord(runID, req.Description, d)
//	if err := s.Save(ctx, rec); err != nil {
//	    return err
//	}
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/procdiagram-go/diagram"
)

// ErrNotFound is returned when a requested record ID does not exist.
var ErrNotFound = errors.New("not found")

// ErrClosed is returned by every method after Close.
var ErrClosed = errors.New("store is closed")

// Record is one archived Generate result.
type Record struct {
	ID          string    `json:"id"`
	RunID       string    `json:"run_id"`
	Description string    `json:"description"`
	Code        string    `json:"code"`
	Explanation string    `json:"explanation"`
	StepCount   int       `json:"step_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewRecord builds a Record with a fresh ID and the current UTC time.
// StepCount comes from d.Steps.
func NewRecord(runID, description string, d diagram.Diagram) Record {
	return Record{
		ID:          uuid.NewString(),
		RunID:       runID,
		Description: description,
		Code:        d.Code,
		Explanation: d.Explanation,
		StepCount:   d.Steps,
		CreatedAt:   time.Now().UTC(),
	}
}

// Diagram returns the archived diagram.
func (r Record) Diagram() diagram.Diagram {
	return diagram.Diagram{Code: r.Code, Explanation: r.Explanation, Steps: r.StepCount}
}

// Store persists Records.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores rec. Saving an existing ID overwrites it.
	//
	// Returns an error if rec.ID is empty.
	Save(ctx context.Context, rec Record) error

	// Load returns the record with the given ID, or ErrNotFound.
	Load(ctx context.Context, id string) (Record, error)

	// List returns up to limit records, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]Record, error)

	// Close releases resources. Calling Close twice is a no-op.
	Close() error
}

var errEmptyID = errors.New("record ID cannot be empty")
