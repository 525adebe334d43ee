// Package permissions models per-server permission grants for the desktop
// client: what a configured server is allowed to ask of the local machine.
package permissions

// Kind identifies one permission a server can be granted.
type Kind string

const (
	// Media covers camera and microphone access for calls.
	Media Kind = "media"
	// Notifications covers desktop notifications.
	Notifications Kind = "notifications"
	// Geolocation covers location sharing.
	Geolocation Kind = "geolocation"
	// ScreenShare covers screen capture during calls.
	ScreenShare Kind = "screenShare"
)

// Kinds returns all permission kinds in stable display order.
func Kinds() []Kind {
	return []Kind{Media, Notifications, Geolocation, ScreenShare}
}

// Label returns the human-readable name for a kind.
func (k Kind) Label() string {
	switch k {
	case Media:
		return "Camera and microphone"
	case Notifications:
		return "Notifications"
	case Geolocation:
		return "Location"
	case ScreenShare:
		return "Screen sharing"
	default:
		return string(k)
	}
}

// Grant holds the decision for one permission.
type Grant struct {
	Allowed bool `yaml:"allowed"`

	// AlwaysDeny pins the permission off; toggles have no effect until
	// the pin is cleared. Used when the OS-level permission is denied.
	AlwaysDeny bool `yaml:"always_deny,omitempty"`
}

// Set maps permission kinds to their grants. Entries are mutated only by
// explicit user toggles; missing entries mean "denied".
type Set map[Kind]Grant

// Defaults returns the grants a newly added server starts with:
// notifications on, everything else off.
func Defaults() Set {
	return Set{
		Media:         {Allowed: false},
		Notifications: {Allowed: true},
		Geolocation:   {Allowed: false},
		ScreenShare:   {Allowed: false},
	}
}

// Allowed reports whether the permission is currently granted.
func (s Set) Allowed(k Kind) bool {
	g, ok := s[k]
	return ok && g.Allowed && !g.AlwaysDeny
}

// Toggle flips the grant for a kind and reports the new allowed state.
// A pinned (AlwaysDeny) grant is left untouched.
func (s Set) Toggle(k Kind) bool {
	g := s[k]
	if g.AlwaysDeny {
		return false
	}
	g.Allowed = !g.Allowed
	s[k] = g
	return g.Allowed
}

// Clone returns an independent copy of the set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for k, g := range s {
		out[k] = g
	}
	return out
}
