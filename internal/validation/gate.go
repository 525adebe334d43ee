package validation

// SaveState is the subset of form state that decides whether the save
// action is available.
type SaveState struct {
	// Host is the current (normalized) host field value.
	Host string

	// Pending is true while a validation cycle is debouncing or a remote
	// call is outstanding.
	Pending bool

	// Status is the outcome of the most recent resolved cycle.
	Status Status

	// VersionConfirmed is true when the remote reported a server version
	// for the current value.
	VersionConfirmed bool
}

// CanSave reports whether the server may be saved in the given state.
//
// Saving is blocked while a request is in flight, while the host is empty,
// and for every blocking status. When no server version was confirmed, only
// the explicit soft-warning statuses allow saving ("connect anyway").
func CanSave(s SaveState) bool {
	if s.Pending || s.Host == "" {
		return false
	}
	if s.Status.Blocking() {
		return false
	}
	if !s.VersionConfirmed {
		switch s.Status {
		case StatusInsecure, StatusURLNotMatched, StatusURLUpdated:
			return true
		default:
			return false
		}
	}
	return true
}
