package pipeline

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// LogObserver writes events to a structured logger. Item-level events log
// at debug so normal runs stay readable.
type LogObserver struct {
	logger *log.Logger
}

// NewLogObserver wraps a logger as an observer.
func NewLogObserver(logger *log.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnEvent(event PipelineEvent) {
	kv := []any{"stage", event.Stage}
	if event.ItemID != "" {
		kv = append(kv, "item", event.ItemID)
	}
	if event.Message != "" {
		kv = append(kv, "message", event.Message)
	}

	switch event.Type {
	case EventError, PipelineFailed, StageFailed:
		o.logger.Error(string(event.Type), kv...)
	case EventWarning, ItemFailed:
		o.logger.Warn(string(event.Type), kv...)
	case ItemProcessing, ItemCompleted, ItemSkipped:
		o.logger.Debug(string(event.Type), kv...)
	default:
		o.logger.Info(string(event.Type), kv...)
	}
}

// FileObserver appends events to a writer as JSON lines, giving each run
// a replayable event log.
type FileObserver struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewFileObserver writes JSONL events to w.
func NewFileObserver(w io.Writer) *FileObserver {
	return &FileObserver{enc: json.NewEncoder(w)}
}

func (o *FileObserver) OnEvent(event PipelineEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	// An event log write failure must not take the run down, so the
	// error is dropped. Errors themselves travel in the message field,
	// which WithError fills.
	_ = o.enc.Encode(event)
}

// StageMetrics aggregates per-stage counters.
type StageMetrics struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// MetricsObserver tallies item outcomes per stage.
type MetricsObserver struct {
	mu     sync.Mutex
	stages map[string]*StageMetrics
}

// NewMetricsObserver creates an empty metrics collector.
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{stages: make(map[string]*StageMetrics)}
}

func (o *MetricsObserver) OnEvent(event PipelineEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	m, ok := o.stages[event.Stage]
	if !ok {
		m = &StageMetrics{}
		o.stages[event.Stage] = m
	}

	switch event.Type {
	case ItemCompleted:
		m.Processed++
	case ItemFailed:
		m.Failed++
	case ItemSkipped:
		m.Skipped++
	}
}

// Stage returns a copy of one stage's counters.
func (o *MetricsObserver) Stage(name string) StageMetrics {
	o.mu.Lock()
	defer o.mu.Unlock()

	if m, ok := o.stages[name]; ok {
		return *m
	}
	return StageMetrics{}
}

// All returns a copy of every stage's counters.
func (o *MetricsObserver) All() map[string]StageMetrics {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make(map[string]StageMetrics, len(o.stages))
	for name, m := range o.stages {
		out[name] = *m
	}
	return out
}

// SuccessRate is the fraction of attempted items (processed + failed)
// that completed, across all stages. A run with no attempts reports 1.
func (o *MetricsObserver) SuccessRate() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()

	var processed, attempted int
	for _, m := range o.stages {
		processed += m.Processed
		attempted += m.Processed + m.Failed
	}

	if attempted == 0 {
		return 1
	}
	return float64(processed) / float64(attempted)
}

// ChannelObserver forwards events to a channel for UI consumption. Sends
// never block; when the channel is full the event is dropped, since the
// UI is best-effort and the pipeline must not stall behind it.
type ChannelObserver struct {
	C chan PipelineEvent
}

// NewChannelObserver creates an observer with the given buffer size.
func NewChannelObserver(buffer int) *ChannelObserver {
	return &ChannelObserver{C: make(chan PipelineEvent, buffer)}
}

func (o *ChannelObserver) OnEvent(event PipelineEvent) {
	select {
	case o.C <- event:
	default:
	}
}

// Close closes the channel after the run finishes.
func (o *ChannelObserver) Close() {
	close(o.C)
}
