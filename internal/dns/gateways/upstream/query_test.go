package upstream

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nssdoh/nss-doh/internal/dns/domain"
)

func TestBuildQueryURL(t *testing.T) {
	tests := []struct {
		resolver string
		name     string
		rrtype   domain.RRType
		want     string
	}{
		{
			resolver: "1.1.1.1",
			name:     "example.com",
			rrtype:   domain.RRTypeA,
			want:     "https://1.1.1.1/dns-query?ct=application/dns-json&name=example.com&type=A",
		},
		{
			resolver: "cloudflare-dns.com",
			name:     "example.com",
			rrtype:   domain.RRTypeAAAA,
			want:     "https://cloudflare-dns.com/dns-query?ct=application/dns-json&name=example.com&type=AAAA",
		},
		{
			// the name goes in verbatim, untouched by this layer
			resolver: "1.1.1.1",
			name:     "sub.domain.example",
			rrtype:   domain.RRTypeA,
			want:     "https://1.1.1.1/dns-query?ct=application/dns-json&name=sub.domain.example&type=A",
		},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BuildQueryURL(tt.resolver, tt.name, tt.rrtype))
	}
}
