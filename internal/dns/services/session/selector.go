package session

import (
	"github.com/nssdoh/nss-doh/internal/dns/domain"
)

// selectAddress scans the Answer array in order and returns the binary
// address of the last element whose type matches rrtype and whose data
// parses as an address of the requested family. The scan deliberately does
// not stop at the first match; a later match overwrites an earlier one.
// Incomplete elements are skipped, not fatal: answers routinely mix in
// other record types such as CNAME links.
func (s *Service) selectAddress(name string, family domain.AddressFamily, rrtype domain.RRType, answers []domain.Answer) (domain.ResolutionResponse, bool) {
	var resp domain.ResolutionResponse
	found := false

	for i, answer := range answers {
		if answer.Type == nil {
			s.logger.Warn(map[string]any{
				"name":  name,
				"index": i,
			}, "Answer has no type member")
			continue
		}
		if *answer.Type != rrtype {
			continue
		}
		if answer.Data == nil {
			s.logger.Debug(map[string]any{
				"name":  name,
				"index": i,
			}, "No usable data for answer")
			continue
		}
		addr, err := domain.EncodeAddress(family, *answer.Data)
		if err != nil {
			s.logger.Debug(map[string]any{
				"name":  name,
				"index": i,
				"data":  *answer.Data,
			}, "Answer data is not a valid address")
			continue
		}
		resp = domain.ResolutionResponse{Address: addr}
		found = true
	}

	return resp, found
}
