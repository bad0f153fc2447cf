package buildpipeline

import (
	"time"

	"esc/internal/observ"
)

// Stage describes a high-level pipeline phase.
type Stage string

const (
	// StageParse covers reading, preprocessing and parsing (preludes included).
	StageParse Stage = "parse"
	// StageLower is code generation plus module verification.
	StageLower Stage = "lower"
	// StageOptimize runs the backend preset pipeline.
	StageOptimize Stage = "optimize"
	// StageBuild turns IR into an object file.
	StageBuild Stage = "build"
	// StageLink produces the executable or WASM module.
	StageLink Stage = "link"
)

// Stages lists every stage in pipeline order.
var Stages = []Stage{StageParse, StageLower, StageOptimize, StageBuild, StageLink}

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the task is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the task is currently working.
	StatusWorking Status = "working"
	// StatusDone indicates the task is done.
	StatusDone Status = "done"
	// StatusError indicates the task encountered an error.
	StatusError Status = "error"
)

// Event reports progress for a file (or for the overall pipeline when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings holds stage durations.
type Timings struct {
	stages map[Stage]time.Duration
}

func (t *Timings) ensure() {
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
}

// Set stores a duration for the given stage.
func (t *Timings) Set(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	t.ensure()
	t.stages[stage] = dur
}

// Has reports whether a duration for stage is recorded.
func (t Timings) Has(stage Stage) bool {
	if t.stages == nil {
		return false
	}
	_, ok := t.stages[stage]
	return ok
}

// Duration returns the recorded duration for stage.
func (t Timings) Duration(stage Stage) time.Duration {
	if t.stages == nil {
		return 0
	}
	return t.stages[stage]
}

// Total sums every recorded stage.
func (t Timings) Total() time.Duration {
	var total time.Duration
	for _, d := range t.stages {
		total += d
	}
	return total
}

// Sum returns the sum of durations across the provided stages.
func (t Timings) Sum(stages ...Stage) time.Duration {
	if t.stages == nil {
		return 0
	}
	var total time.Duration
	for _, stage := range stages {
		total += t.stages[stage]
	}
	return total
}

// Report converts the recorded stages, in pipeline order, for printing.
func (t Timings) Report() observ.Report {
	var r observ.Report
	for _, stage := range Stages {
		if t.Has(stage) {
			r.Add(string(stage), t.Duration(stage), "")
		}
	}
	return r
}
