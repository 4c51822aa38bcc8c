package session

import (
	"context"
	"net"

	"github.com/nssdoh/nss-doh/internal/dns/domain"
)

type UpstreamClient interface {
	// Resolve issues one DoH query for name with the given record type and
	// returns the upstream Answer array. An error covers both transport
	// failures and bodies that do not carry a usable Answer array.
	Resolve(ctx context.Context, name string, rrtype domain.RRType) ([]domain.Answer, error)
}

// ConnectionHandler defines how the transport layer hands accepted
// connections to the service layer. The handler owns the connection from the
// moment it is called and must close it on every path.
type ConnectionHandler interface {
	HandleConn(ctx context.Context, conn net.Conn)
}
