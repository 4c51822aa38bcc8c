package domain

import "testing"

func TestRRType_Codes(t *testing.T) {
	// IANA-assigned codes; the upstream answer matching depends on them.
	if uint16(RRTypeA) != 1 {
		t.Errorf("RRTypeA = %d, want 1", RRTypeA)
	}
	if uint16(RRTypeAAAA) != 28 {
		t.Errorf("RRTypeAAAA = %d, want 28", RRTypeAAAA)
	}
}

func TestRRType_IsValid(t *testing.T) {
	tests := []struct {
		rrtype RRType
		want   bool
	}{
		{RRTypeA, true},
		{RRTypeAAAA, true},
		{RRType(5), false},   // CNAME is not an address type
		{RRType(255), false}, // ANY
	}

	for _, tt := range tests {
		if got := tt.rrtype.IsValid(); got != tt.want {
			t.Errorf("RRType(%d).IsValid() = %v, want %v", tt.rrtype, got, tt.want)
		}
	}
}

func TestRRType_String(t *testing.T) {
	tests := []struct {
		rrtype RRType
		want   string
	}{
		{RRTypeA, "A"},
		{RRTypeAAAA, "AAAA"},
		{RRType(5), "UNKNOWN(5)"},
	}

	for _, tt := range tests {
		if got := tt.rrtype.String(); got != tt.want {
			t.Errorf("RRType(%d).String() = %q, want %q", tt.rrtype, got, tt.want)
		}
	}
}

func TestRRType_Family(t *testing.T) {
	tests := []struct {
		rrtype RRType
		want   AddressFamily
		ok     bool
	}{
		{RRTypeA, FamilyIPv4, true},
		{RRTypeAAAA, FamilyIPv6, true},
		{RRType(5), 0, false},
	}

	for _, tt := range tests {
		got, ok := tt.rrtype.Family()
		if ok != tt.ok || got != tt.want {
			t.Errorf("RRType(%d).Family() = (%d, %v), want (%d, %v)",
				tt.rrtype, got, ok, tt.want, tt.ok)
		}
	}
}
