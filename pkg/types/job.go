// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// JobStatus is the state of an analysis job. Transitions are monotonic
// along the pipeline order; StatusError is an absorbing state reachable
// from any non-terminal state.
type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusUploaded   JobStatus = "uploaded"
	StatusParsing    JobStatus = "parsing"
	StatusReading    JobStatus = "reading"
	StatusIdeasReady JobStatus = "ideas_ready"
	StatusSearching  JobStatus = "searching"
	StatusComplete   JobStatus = "complete"
	StatusError      JobStatus = "error"
)

// statusOrder places each non-error status on the pipeline timeline.
var statusOrder = map[JobStatus]int{
	StatusPending:    0,
	StatusUploaded:   1,
	StatusParsing:    2,
	StatusReading:    3,
	StatusIdeasReady: 4,
	StatusSearching:  5,
	StatusComplete:   6,
}

// statusProgress maps each status to the job progress percentage.
var statusProgress = map[JobStatus]int{
	StatusPending:    0,
	StatusUploaded:   10,
	StatusParsing:    20,
	StatusReading:    40,
	StatusIdeasReady: 60,
	StatusSearching:  70,
	StatusComplete:   100,
}

// Valid reports whether s is a declared status value.
func (s JobStatus) Valid() bool {
	_, ok := statusOrder[s]
	return ok || s == StatusError
}

// Terminal reports whether no further transition is allowed from s.
func (s JobStatus) Terminal() bool {
	return s == StatusComplete || s == StatusError
}

// Progress returns the progress percentage associated with s. An errored
// job retains its last good progress value, so StatusError maps to -1 and
// callers must not overwrite progress with it.
func (s JobStatus) Progress() int {
	if p, ok := statusProgress[s]; ok {
		return p
	}
	return -1
}

// CanTransition reports whether a job may move from one status to another.
// Forward moves along the pipeline order are allowed; StatusError is
// reachable from any non-terminal state; nothing leaves a terminal state.
// This is the single place both phases consult, so an illegal move (for
// example search before read) is rejected consistently.
func CanTransition(from, to JobStatus) bool {
	if from.Terminal() {
		return false
	}
	if to == StatusError {
		return true
	}
	fo, ok1 := statusOrder[from]
	to2, ok2 := statusOrder[to]
	if !ok1 || !ok2 {
		return false
	}
	return to2 > fo
}

// AnalysisJob is the top-level unit of work: one attempt to turn an
// uploaded paper into ranked research ideas. The job exclusively owns its
// scored ideas and their references; deleting the job deletes them. The
// profile snapshot is a by-value copy taken at read time, decoupled from
// later profile edits.
type AnalysisJob struct {
	ID      string `json:"id" yaml:"id"`
	PaperID string `json:"paper_id" yaml:"paper_id"`

	// ProfileSnapshot is the owning user's profile as it existed when the
	// read phase ran, nil when the paper has no owner.
	ProfileSnapshot *ResearcherProfile `json:"user_profile_snapshot,omitempty" yaml:"user_profile_snapshot,omitempty"`

	// SelectedTopics are the topics the user chose before the read phase.
	SelectedTopics []string `json:"selected_topics" yaml:"selected_topics"`

	// ReaderOutput is set once the read phase succeeds.
	ReaderOutput *ReaderOutput `json:"reader_output,omitempty" yaml:"reader_output,omitempty"`

	// SearcherOutput is set once the search phase succeeds.
	SearcherOutput *RankedResult `json:"searcher_output,omitempty" yaml:"searcher_output,omitempty"`

	Status JobStatus `json:"status" yaml:"status"`

	// Progress is 0-100, non-decreasing while Status != error.
	Progress int `json:"progress" yaml:"progress"`

	// ErrorMessage is set when Status == error.
	ErrorMessage string `json:"error_message,omitempty" yaml:"error_message,omitempty"`

	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}
