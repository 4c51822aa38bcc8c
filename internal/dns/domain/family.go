package domain

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// AddressFamily identifies the addressing scheme of a resolution request.
// The local wire protocol carries the platform's native AF_* constants, so
// the enum values are tied to golang.org/x/sys/unix rather than invented.
type AddressFamily uint32

const (
	FamilyIPv4 AddressFamily = unix.AF_INET
	FamilyIPv6 AddressFamily = unix.AF_INET6
)

// IsValid returns true if the AddressFamily is one of the supported families.
func (f AddressFamily) IsValid() bool {
	switch f {
	case FamilyIPv4, FamilyIPv6:
		return true
	default:
		return false
	}
}

// String returns the textual representation of the AddressFamily.
// For unknown families, it returns "UNKNOWN(<value>)".
func (f AddressFamily) String() string {
	switch f {
	case FamilyIPv4:
		return "inet"
	case FamilyIPv6:
		return "inet6"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint32(f))
	}
}

// RecordType maps the family to the DNS record type queried for it:
// IPv4 is answered by A records, IPv6 by AAAA records.
// The second return value is false for unsupported families.
func (f AddressFamily) RecordType() (RRType, bool) {
	switch f {
	case FamilyIPv4:
		return RRTypeA, true
	case FamilyIPv6:
		return RRTypeAAAA, true
	default:
		return 0, false
	}
}

// AddrSize returns the width in bytes of a binary address of this family.
// Returns 0 for unsupported families.
func (f AddressFamily) AddrSize() int {
	switch f {
	case FamilyIPv4:
		return 4
	case FamilyIPv6:
		return 16
	default:
		return 0
	}
}
