package domain

import "fmt"

// ResolutionResponse is the single success payload of a session: the resolved
// address in network byte order. The frame carries no family tag; the peer
// infers the width from the family of its own request.
type ResolutionResponse struct {
	Address []byte
}

// Validate checks that the address is exactly one supported family width.
func (r ResolutionResponse) Validate() error {
	switch len(r.Address) {
	case FamilyIPv4.AddrSize(), FamilyIPv6.AddrSize():
		return nil
	default:
		return fmt.Errorf("invalid response address width: %d", len(r.Address))
	}
}

// Family returns the address family implied by the address width.
// The second return value is false if the width matches no supported family.
func (r ResolutionResponse) Family() (AddressFamily, bool) {
	switch len(r.Address) {
	case FamilyIPv4.AddrSize():
		return FamilyIPv4, true
	case FamilyIPv6.AddrSize():
		return FamilyIPv6, true
	default:
		return 0, false
	}
}
