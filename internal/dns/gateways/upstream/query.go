package upstream

import (
	"fmt"

	"github.com/nssdoh/nss-doh/internal/dns/domain"
)

// BuildQueryURL produces the DoH query URL for one lookup: HTTPS GET against
// the resolver host, path /dns-query, with the dns-json content type and the
// name and record type as query parameters. The name is inserted verbatim;
// escaping is left to the HTTP transport's URL handling, matching the local
// protocol's trust model (only local peers can reach the socket).
func BuildQueryURL(resolver, name string, rrtype domain.RRType) string {
	return fmt.Sprintf("https://%s/dns-query?ct=application/dns-json&name=%s&type=%s", resolver, name, rrtype)
}
