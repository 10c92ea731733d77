package engine

// State is the lifecycle position of one tracked upload
type State int

const (
	// StateIdle means the entry is queued but no upload has started
	StateIdle State = iota
	// StateUploading means a provider call is in flight
	StateUploading
	// StateSuccess is terminal; the entry carries a shareable URL
	StateSuccess
	// StateError is terminal; the entry carries an error message
	StateError
)

// String returns the lowercase state name
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateUploading:
		return "uploading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions are possible
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateError
}

// MarshalText encodes the state by name, so JSON output carries
// "uploading" rather than an enum ordinal
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// entry is one tracked upload attempt. All fields are guarded by the
// owning Registry's mutex; nothing outside the registry holds an
// *entry.
type entry struct {
	id           string
	path         string
	displayName  string
	state        State
	progress     int
	resultURL    string
	errorMessage string
}

// Snapshot is an immutable copy of an entry handed out to callers
type Snapshot struct {
	ID           string `json:"id"`
	Path         string `json:"path"`
	DisplayName  string `json:"display_name"`
	State        State  `json:"state"`
	Progress     int    `json:"progress"`
	ResultURL    string `json:"result_url,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

func (e *entry) snapshot() Snapshot {
	return Snapshot{
		ID:           e.id,
		Path:         e.path,
		DisplayName:  e.displayName,
		State:        e.state,
		Progress:     e.progress,
		ResultURL:    e.resultURL,
		ErrorMessage: e.errorMessage,
	}
}
