package progress

// EventType mirrors the change-feed notification kinds.
type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// StepEntry is the merged view of one step's status, as held by a consumer
// of the change feed.
type StepEntry struct {
	StepID uint   `json:"step_id"`
	Status Status `json:"status"`
}

// MergeStepEntries applies one change-feed event to a step list with
// replace-by-id semantics. A local optimistic write and the feed's echo of
// that same write may arrive in either order, so the merge is idempotent:
// applying an event twice yields the same list as applying it once.
func MergeStepEntries(entries []StepEntry, typ EventType, entry StepEntry) []StepEntry {
	switch typ {
	case EventDelete:
		out := entries[:0:0]
		for _, e := range entries {
			if e.StepID != entry.StepID {
				out = append(out, e)
			}
		}
		return out
	default:
		for i, e := range entries {
			if e.StepID == entry.StepID {
				entries[i] = entry
				return entries
			}
		}
		return append(entries, entry)
	}
}

// MergeStatusMap is the map form of the same merge, used where consumers
// keep status keyed by step id.
func MergeStatusMap(statusByStep map[uint]Status, typ EventType, entry StepEntry) map[uint]Status {
	if statusByStep == nil {
		statusByStep = make(map[uint]Status)
	}
	if typ == EventDelete {
		delete(statusByStep, entry.StepID)
		return statusByStep
	}
	statusByStep[entry.StepID] = entry.Status
	return statusByStep
}
