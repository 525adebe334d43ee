package permissions

import "testing"

func TestDefaults(t *testing.T) {
	s := Defaults()

	if !s.Allowed(Notifications) {
		t.Error("Defaults() should allow notifications")
	}

	for _, k := range []Kind{Media, Geolocation, ScreenShare} {
		if s.Allowed(k) {
			t.Errorf("Defaults() should deny %s", k)
		}
	}
}

func TestToggle(t *testing.T) {
	s := Defaults()

	if got := s.Toggle(Media); !got {
		t.Error("Toggle(Media) = false, want true after first toggle")
	}
	if !s.Allowed(Media) {
		t.Error("Media should be allowed after toggle")
	}

	if got := s.Toggle(Media); got {
		t.Error("Toggle(Media) = true, want false after second toggle")
	}
}

func TestToggleAlwaysDeny(t *testing.T) {
	s := Set{ScreenShare: {Allowed: false, AlwaysDeny: true}}

	if got := s.Toggle(ScreenShare); got {
		t.Error("Toggle() on a pinned grant should report false")
	}
	if s.Allowed(ScreenShare) {
		t.Error("pinned grant must stay denied")
	}
}

func TestAllowedMissingKind(t *testing.T) {
	s := Set{}
	if s.Allowed(Geolocation) {
		t.Error("missing entry should mean denied")
	}
}

func TestClone(t *testing.T) {
	s := Defaults()
	c := s.Clone()

	c.Toggle(Media)
	if s.Allowed(Media) {
		t.Error("toggling the clone must not affect the original")
	}
}
