package validation

import "testing"

func TestCanSave(t *testing.T) {
	tests := []struct {
		name  string
		state SaveState
		want  bool
	}{
		{
			"ok with confirmed version",
			SaveState{Host: "example", Status: StatusOK, VersionConfirmed: true},
			true,
		},
		{
			"blocked while pending",
			SaveState{Host: "example", Status: StatusOK, VersionConfirmed: true, Pending: true},
			false,
		},
		{
			"blocked on empty host",
			SaveState{Host: "", Status: StatusOK, VersionConfirmed: true},
			false,
		},
		{
			"blocked before first validation",
			SaveState{Host: "example", Status: StatusNone},
			false,
		},
		{
			"missing blocks",
			SaveState{Host: "example", Status: StatusMissing},
			false,
		},
		{
			"invalid blocks",
			SaveState{Host: "example", Status: StatusInvalid},
			false,
		},
		{
			"duplicate blocks",
			SaveState{Host: "example", Status: StatusURLExists},
			false,
		},
		{
			"unreachable blocks",
			SaveState{Host: "example", Status: StatusNotMattermost},
			false,
		},
		{
			"insecure permits connect anyway",
			SaveState{Host: "example", Status: StatusInsecure},
			true,
		},
		{
			"url not matched permits connect anyway",
			SaveState{Host: "example", Status: StatusURLNotMatched},
			true,
		},
		{
			"url updated permits connect anyway",
			SaveState{Host: "example", Status: StatusURLUpdated},
			true,
		},
		{
			"unknown version without confirmation blocks",
			SaveState{Host: "example", Status: StatusUnknownVersion},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanSave(tt.state); got != tt.want {
				t.Errorf("CanSave(%+v) = %v, want %v", tt.state, got, tt.want)
			}
		})
	}
}
