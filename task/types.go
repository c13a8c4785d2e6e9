package task

// Status represents the state of a task.
type Status string

const (
	// StatusOpen indicates the task has not been completed.
	// It is written to disk as "backlog".
	StatusOpen Status = "backlog"
	// StatusCompleted indicates the task is done.
	StatusCompleted Status = "completed"
)

// ValidStatuses returns all valid status values.
func ValidStatuses() []Status {
	return []Status{StatusOpen, StatusCompleted}
}

// IsValid returns true if the status is a known valid value.
func (s Status) IsValid() bool {
	for _, valid := range ValidStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// Label returns the human-facing name of the status.
func (s Status) Label() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// MaxTitleLength is the maximum allowed length for a task title in bytes.
// Titles become file names, and most filesystems cap names at 255 bytes.
const MaxTitleLength = 250

// MetadataVersion is the schema version written to new workspace metadata.
const MetadataVersion = 1

// DefaultListName is the list created when a workspace is initialized.
const DefaultListName = "My Tasks"
