package validation

import (
	"fmt"

	"github.com/platrum/chatcfg/internal/serverurl"
)

// Status classifies the outcome of one validation cycle for a candidate
// server address. Exactly one status is active per cycle.
type Status int

const (
	// StatusNone means no validation has run for the current input yet.
	StatusNone Status = iota

	// StatusMissing means the host field is empty.
	StatusMissing

	// StatusInvalid means the host fails local label-syntax checks.
	StatusInvalid

	// StatusURLExists means another configured server already uses this URL.
	StatusURLExists

	// StatusInsecure means the server answered over plain HTTP.
	// The user may still connect.
	StatusInsecure

	// StatusNotMattermost means the endpoint could not be confirmed as a
	// chat server. This covers negative identification as well as
	// transport errors and timeouts.
	StatusNotMattermost

	// StatusURLNotMatched means the server answered at a different URL
	// than the one requested. The corrected URL is carried in the result.
	StatusURLNotMatched

	// StatusURLUpdated means the requested URL was auto-corrected (for
	// example upgraded to HTTPS) and the server confirmed the new address.
	StatusURLUpdated

	// StatusOK means the server was identified and its version confirmed.
	StatusOK

	// StatusUnknownVersion means the server was identified but its version
	// or realtime capability could not be confirmed.
	StatusUnknownVersion
)

// String returns a short identifier for the status, suitable for logs.
func (s Status) String() string {
	switch s {
	case StatusNone:
		return "none"
	case StatusMissing:
		return "missing"
	case StatusInvalid:
		return "invalid"
	case StatusURLExists:
		return "url_exists"
	case StatusInsecure:
		return "insecure"
	case StatusNotMattermost:
		return "not_mattermost"
	case StatusURLNotMatched:
		return "url_not_matched"
	case StatusURLUpdated:
		return "url_updated"
	case StatusOK:
		return "ok"
	case StatusUnknownVersion:
		return "unknown_version"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Message returns the user-facing description rendered next to the host
// field while editing.
func (s Status) Message() string {
	switch s {
	case StatusMissing:
		return "Enter a server address"
	case StatusInvalid:
		return "Server address may contain only lowercase letters, digits and hyphens"
	case StatusURLExists:
		return "A server with this address is already configured"
	case StatusInsecure:
		return "Server uses an insecure connection (HTTP)"
	case StatusNotMattermost:
		return "Could not reach a chat server at this address"
	case StatusURLNotMatched:
		return "Server responded at a different address"
	case StatusURLUpdated:
		return "Server address was updated to its canonical form"
	case StatusOK:
		return "Server connection verified"
	case StatusUnknownVersion:
		return "Server reachable, but its version could not be confirmed"
	default:
		return ""
	}
}

// Blocking reports whether the status forbids saving the server.
// Soft warnings (Insecure, URLNotMatched, URLUpdated) allow the user to
// connect anyway.
func (s Status) Blocking() bool {
	switch s {
	case StatusNone, StatusMissing, StatusInvalid, StatusURLExists, StatusNotMattermost:
		return true
	default:
		return false
	}
}

// Warning reports whether the status is a soft warning: the server is
// usable, but the UI should call attention to the condition.
func (s Status) Warning() bool {
	switch s {
	case StatusInsecure, StatusURLNotMatched, StatusURLUpdated, StatusUnknownVersion:
		return true
	default:
		return false
	}
}

// Result is the outcome of a single remote validation attempt.
// A fresh Result is produced per attempt; results belonging to superseded
// attempts are discarded before they reach the caller.
type Result struct {
	Status Status

	// ValidatedURL is the server's canonical URL when the remote side
	// corrected the address the user entered.
	ValidatedURL string

	// ServerVersion is the version reported by the server, when known.
	ServerVersion string
}

// CheckHostFormat runs the local syntax check on a bare host label.
// It returns StatusMissing for the empty host, StatusInvalid for a
// malformed label, and StatusNone when the host passes.
func CheckHostFormat(host string) Status {
	if host == "" {
		return StatusMissing
	}
	if !serverurl.ValidHostLabel(host) {
		return StatusInvalid
	}
	return StatusNone
}
