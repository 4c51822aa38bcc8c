// Package session implements the per-connection unit of work: read one
// request frame, query the upstream DoH resolver, select a matching address,
// write one response frame, close. Every failure collapses to the same
// externally observable outcome: the connection closes with no response
// bytes. There is no error code on the wire.
package session

import (
	"context"
	"net"

	"github.com/nssdoh/nss-doh/internal/dns/common/log"
	"github.com/nssdoh/nss-doh/internal/dns/gateways/wire"
)

// Service drives query sessions. One Service instance serves all
// connections; per-connection state lives entirely on the HandleConn stack,
// so sessions share nothing and need no locks.
type Service struct {
	codec    wire.FrameCodec
	upstream UpstreamClient
	logger   log.Logger
}

type ServiceOptions struct {
	Codec    wire.FrameCodec
	Upstream UpstreamClient
	Logger   log.Logger
}

func NewService(opts ServiceOptions) *Service {
	return &Service{
		codec:    opts.Codec,
		upstream: opts.Upstream,
		logger:   opts.Logger,
	}
}

// HandleConn runs one session to completion. The sequence is strict:
// receive request, map family to record type, query upstream, select an
// answer, write the response. Each step either advances or returns, and the
// deferred close releases the connection on every exit path.
func (s *Service) HandleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	req, err := s.codec.DecodeRequest(conn)
	if err != nil {
		// Framing violations are dropped quietly; the peer learns of the
		// failure from the closed connection.
		s.logger.Debug(map[string]any{
			"error": err.Error(),
		}, "Bad request")
		return
	}

	rrtype, ok := req.Family.RecordType()
	if !ok {
		// Unsupported family: drop before any network activity.
		s.logger.Debug(map[string]any{
			"name":   req.Name,
			"family": req.Family.String(),
		}, "Unsupported address family")
		return
	}

	s.logger.Debug(map[string]any{
		"name": req.Name,
		"type": rrtype.String(),
	}, "Querying upstream")

	answers, err := s.upstream.Resolve(ctx, req.Name, rrtype)
	if err != nil {
		s.logger.Warn(map[string]any{
			"name":  req.Name,
			"error": err.Error(),
		}, "Upstream query failed")
		return
	}

	resp, ok := s.selectAddress(req.Name, req.Family, rrtype, answers)
	if !ok {
		// A well-formed answer set with no usable entries is a normal
		// outcome, not an error.
		s.logger.Debug(map[string]any{
			"name": req.Name,
			"type": rrtype.String(),
		}, "No usable answer")
		return
	}

	frame, err := s.codec.EncodeResponse(resp)
	if err != nil {
		s.logger.Error(map[string]any{
			"name":  req.Name,
			"error": err.Error(),
		}, "Failed to encode response")
		return
	}

	if _, err := conn.Write(frame); err != nil {
		s.logger.Debug(map[string]any{
			"name":  req.Name,
			"error": err.Error(),
		}, "Failed to respond")
		return
	}

	s.logger.Debug(map[string]any{
		"name": req.Name,
	}, "Done querying")
}

var _ ConnectionHandler = (*Service)(nil)
