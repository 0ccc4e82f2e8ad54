package progress

// Status is a learner's state on one roadmap step.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusSkipped    Status = "skipped"
)

// Valid reports whether s is one of the four step statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusSkipped:
		return true
	}
	return false
}

// Finished reports whether a step no longer blocks the ones after it.
// Skipped counts as finished here even though it never counts toward the
// module completion percentage.
func Finished(s Status) bool {
	return s == StatusCompleted || s == StatusSkipped
}

// CanAutoComplete reports whether a gate (all quiz correct, all checklist
// done) may move the step to completed. Completed and skipped are sink
// states; nothing leaves them automatically.
func CanAutoComplete(s Status) bool {
	return !Finished(s)
}
