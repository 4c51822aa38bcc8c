package domain

import (
	"fmt"
	"net"
	"strings"
)

// EncodeAddress converts a textual address literal into its fixed-width binary
// form for the given family, following inet_pton semantics: an IPv4 parse only
// accepts dotted-quad literals, an IPv6 parse only accepts colon literals.
// A parse failure is a normal outcome for answer data that is not an address.
func EncodeAddress(family AddressFamily, text string) ([]byte, error) {
	ip := net.ParseIP(text)
	switch family {
	case FamilyIPv4:
		if ip == nil || ip.To4() == nil || strings.Contains(text, ":") {
			return nil, fmt.Errorf("invalid IPv4 literal: %s", text)
		}
		return ip.To4(), nil
	case FamilyIPv6:
		if ip == nil || !strings.Contains(text, ":") {
			return nil, fmt.Errorf("invalid IPv6 literal: %s", text)
		}
		return ip.To16(), nil
	default:
		return nil, fmt.Errorf("unsupported address family: %d", uint32(family))
	}
}

// DecodeAddress converts a binary address back into its textual form for the
// given family. The input must be exactly the family's address width.
func DecodeAddress(family AddressFamily, addr []byte) (string, error) {
	if !family.IsValid() {
		return "", fmt.Errorf("unsupported address family: %d", uint32(family))
	}
	if len(addr) != family.AddrSize() {
		return "", fmt.Errorf("invalid %s address width: %d", family, len(addr))
	}
	return net.IP(addr).String(), nil
}
