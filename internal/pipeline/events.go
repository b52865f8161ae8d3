// package pipeline implements the checkpointed extract, enrich, and rank
// stages plus the orchestrator that runs them in order. Stages emit
// events through a synchronous observer fan-out so progress tracking
// stays decoupled from stage logic.
package pipeline

import (
	"fmt"
	"strings"
	"time"
)

// EventType identifies what a pipeline event reports.
type EventType string

const (
	PipelineStarted   EventType = "pipeline_started"
	PipelineCompleted EventType = "pipeline_completed"
	PipelineFailed    EventType = "pipeline_failed"

	StageStarted   EventType = "stage_started"
	StageCompleted EventType = "stage_completed"
	StageFailed    EventType = "stage_failed"

	ItemProcessing EventType = "item_processing"
	ItemCompleted  EventType = "item_completed"
	ItemFailed     EventType = "item_failed"
	ItemSkipped    EventType = "item_skipped"

	CheckpointSaved  EventType = "checkpoint_saved"
	CheckpointLoaded EventType = "checkpoint_loaded"

	EventWarning EventType = "warning"
	EventError   EventType = "error"
)

// PipelineEvent is an immutable notification about pipeline progress.
type PipelineEvent struct {
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Stage     string         `json:"stage,omitempty"`
	ItemID    string         `json:"item_id,omitempty"`
	Message   string         `json:"message,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Err       error          `json:"-"`
}

// NewEvent stamps an event with the current time.
func NewEvent(eventType EventType, stage string) PipelineEvent {
	return PipelineEvent{Type: eventType, Timestamp: time.Now().UTC(), Stage: stage}
}

// WithItem attaches an item identifier.
func (e PipelineEvent) WithItem(id string) PipelineEvent {
	e.ItemID = id
	return e
}

// WithMessage attaches a human-readable message.
func (e PipelineEvent) WithMessage(format string, args ...any) PipelineEvent {
	e.Message = fmt.Sprintf(format, args...)
	return e
}

// WithError attaches an error and mirrors it into the message when none
// is set.
func (e PipelineEvent) WithError(err error) PipelineEvent {
	e.Err = err
	if e.Message == "" && err != nil {
		e.Message = err.Error()
	}
	return e
}

// WithMetadata attaches a key-value pair.
func (e PipelineEvent) WithMetadata(key string, value any) PipelineEvent {
	if e.Metadata == nil {
		e.Metadata = make(map[string]any)
	}
	e.Metadata[key] = value
	return e
}

func (e PipelineEvent) String() string {
	parts := []string{
		fmt.Sprintf("[%s]", e.Timestamp.Format(time.RFC3339)),
		string(e.Type),
	}
	if e.Stage != "" {
		parts = append(parts, "stage="+e.Stage)
	}
	if e.ItemID != "" {
		parts = append(parts, "item="+e.ItemID)
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	return strings.Join(parts, " ")
}

// Observer receives pipeline events. Handlers run synchronously on the
// pipeline goroutine; a slow observer slows the run.
type Observer interface {
	OnEvent(event PipelineEvent)
}

// Observable fans events out to attached observers in attach order.
type Observable struct {
	observers []Observer
}

// Attach registers an observer. Attaching the same observer twice is a
// no-op.
func (o *Observable) Attach(observer Observer) {
	for _, existing := range o.observers {
		if existing == observer {
			return
		}
	}
	o.observers = append(o.observers, observer)
}

// Detach removes an observer.
func (o *Observable) Detach(observer Observer) {
	for i, existing := range o.observers {
		if existing == observer {
			o.observers = append(o.observers[:i], o.observers[i+1:]...)
			return
		}
	}
}

// Notify delivers an event to every observer in attach order.
func (o *Observable) Notify(event PipelineEvent) {
	for _, observer := range o.observers {
		observer.OnEvent(event)
	}
}
