package domain

import "fmt"

// RRType represents a DNS resource record type code.
// Only address record types are meaningful to this daemon; upstream answers
// may carry other codes (CNAME chains and the like), which are skipped.
// See IANA DNS Parameters for assigned codes.
type RRType uint16

const (
	RRTypeA    RRType = 1  // A - IPv4 address
	RRTypeAAAA RRType = 28 // AAAA - IPv6 address
)

// IsValid returns true if the RRType is one of the supported types.
func (t RRType) IsValid() bool {
	switch t {
	case RRTypeA, RRTypeAAAA:
		return true
	default:
		return false
	}
}

// String returns the textual representation of the RRType, as used in the
// upstream query string. For unknown types, it returns "UNKNOWN(<value>)".
func (t RRType) String() string {
	switch t {
	case RRTypeA:
		return "A"
	case RRTypeAAAA:
		return "AAAA"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint16(t))
	}
}

// Family returns the address family whose addresses this record type carries.
// The second return value is false for non-address record types.
func (t RRType) Family() (AddressFamily, bool) {
	switch t {
	case RRTypeA:
		return FamilyIPv4, true
	case RRTypeAAAA:
		return FamilyIPv6, true
	default:
		return 0, false
	}
}
