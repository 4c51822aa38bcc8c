package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nssdoh/nss-doh/internal/dns/common/log"
	"github.com/nssdoh/nss-doh/internal/dns/domain"
)

func newSelectorService() *Service {
	return NewService(ServiceOptions{Logger: log.NewNoopLogger()})
}

func TestSelectAddress_SingleMatch(t *testing.T) {
	s := newSelectorService()

	answers := []domain.Answer{
		domain.NewAnswer(domain.RRTypeA, "93.184.216.34"),
	}

	resp, ok := s.selectAddress("example.com", domain.FamilyIPv4, domain.RRTypeA, answers)
	require.True(t, ok)
	assert.Equal(t, []byte{93, 184, 216, 34}, resp.Address)
}

func TestSelectAddress_LaterMatchOverwritesEarlier(t *testing.T) {
	// The scan must not stop at the first match: the selected address is the
	// last type-matching parseable element, and this behavior is pinned.
	s := newSelectorService()

	answers := []domain.Answer{
		domain.NewAnswer(domain.RRTypeA, "192.0.2.1"),
		domain.NewAnswer(domain.RRTypeA, "198.51.100.7"),
	}

	resp, ok := s.selectAddress("example.com", domain.FamilyIPv4, domain.RRTypeA, answers)
	require.True(t, ok)
	assert.Equal(t, []byte{198, 51, 100, 7}, resp.Address)
}

func TestSelectAddress_NoMatchingType(t *testing.T) {
	s := newSelectorService()

	cname := domain.RRType(5)
	answers := []domain.Answer{
		domain.NewAnswer(cname, "edge.example.net."),
		domain.NewAnswer(domain.RRTypeAAAA, "2001:db8::1"),
	}

	_, ok := s.selectAddress("example.com", domain.FamilyIPv4, domain.RRTypeA, answers)
	assert.False(t, ok)
}

func TestSelectAddress_EmptyArray(t *testing.T) {
	s := newSelectorService()

	_, ok := s.selectAddress("nx.example", domain.FamilyIPv6, domain.RRTypeAAAA, nil)
	assert.False(t, ok)
}

func TestSelectAddress_SkipsIncompleteElements(t *testing.T) {
	s := newSelectorService()

	bad := "not-an-address"
	answers := []domain.Answer{
		{},                                      // no type member: warned, not fatal
		{Type: ptr(domain.RRTypeA)},             // no data member
		{Type: ptr(domain.RRTypeA), Data: &bad}, // unparseable data
		domain.NewAnswer(domain.RRTypeA, "203.0.113.9"),
	}

	resp, ok := s.selectAddress("example.com", domain.FamilyIPv4, domain.RRTypeA, answers)
	require.True(t, ok)
	assert.Equal(t, []byte{203, 0, 113, 9}, resp.Address)
}

func TestSelectAddress_UnparseableLastMatchDoesNotClearEarlier(t *testing.T) {
	// A later type-matching element that fails to parse leaves the earlier
	// selection in place; only successful parses overwrite.
	s := newSelectorService()

	bad := "edge.example.net."
	answers := []domain.Answer{
		domain.NewAnswer(domain.RRTypeA, "192.0.2.1"),
		{Type: ptr(domain.RRTypeA), Data: &bad},
	}

	resp, ok := s.selectAddress("example.com", domain.FamilyIPv4, domain.RRTypeA, answers)
	require.True(t, ok)
	assert.Equal(t, []byte{192, 0, 2, 1}, resp.Address)
}

func TestSelectAddress_IPv6(t *testing.T) {
	s := newSelectorService()

	answers := []domain.Answer{
		domain.NewAnswer(domain.RRTypeAAAA, "2606:2800:220:1:248:1893:25c8:1946"),
	}

	resp, ok := s.selectAddress("example.com", domain.FamilyIPv6, domain.RRTypeAAAA, answers)
	require.True(t, ok)
	assert.Len(t, resp.Address, 16)
	assert.Equal(t, byte(0x26), resp.Address[0])
}

func ptr[T any](v T) *T {
	return &v
}
