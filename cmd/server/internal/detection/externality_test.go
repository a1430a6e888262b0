package detection

import "testing"

func TestIsExternal(t *testing.T) {
	internal := InternalDomainSet([]string{"recapd.io", "Recapd.EU"})

	tests := []struct {
		name         string
		participants []Participant
		want         bool
	}{
		{"all internal", []Participant{{Email: "a@recapd.io"}, {Email: "b@recapd.io"}}, false},
		{"internal set is case-normalized", []Participant{{Email: "a@recapd.eu"}}, false},
		{"one external", []Participant{{Email: "a@recapd.io"}, {Email: "c@acme.com"}}, true},
		{"external first still external", []Participant{{Email: "c@acme.com"}, {Email: "a@recapd.io"}}, true},
		{"unparseable emails ignored", []Participant{{Email: "not-an-email"}, {Email: "trailing@"}}, false},
		{"no participants", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsExternal(tt.participants, internal); got != tt.want {
				t.Errorf("IsExternal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsExternalOrderIndependent(t *testing.T) {
	internal := InternalDomainSet([]string{"recapd.io"})
	forward := []Participant{{Email: "a@recapd.io"}, {Email: "x@other.com"}, {Email: "b@recapd.io"}}
	reversed := []Participant{{Email: "b@recapd.io"}, {Email: "x@other.com"}, {Email: "a@recapd.io"}}

	if IsExternal(forward, internal) != IsExternal(reversed, internal) {
		t.Error("externality must not depend on participant order")
	}
}
