// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI monitors a power ranking pipeline run in real time:
//  1. [RunningView] : Live per-stage progress fed by pipeline events
//  2. [ResultView] : Final ranking summary or the failure that stopped the run
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress events flow through a channel from a [pipeline.ChannelObserver], so
// the pipeline never blocks behind rendering; the run itself executes on a
// separate goroutine and the channel closing signals completion.
package ui
