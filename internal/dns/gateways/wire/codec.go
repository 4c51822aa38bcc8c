// Package wire provides encoding and decoding of the fixed-size frames
// exchanged on the local resolution socket. A request frame is a NUL-padded
// name buffer followed by the platform address-family constant in native byte
// order; a response frame is the bare binary address. There is no length
// prefix and no framing beyond the fixed sizes.
package wire

import (
	"io"

	"github.com/nssdoh/nss-doh/internal/dns/domain"
)

type FrameCodec interface {
	// Server-side functions
	// These methods handle the daemon's view of a connection: reading one
	// request frame and producing the single response frame.
	DecodeRequest(r io.Reader) (domain.ResolutionRequest, error)
	EncodeResponse(resp domain.ResolutionResponse) ([]byte, error)

	// Client-side functions
	// The inverse direction, used by tests and client tooling so both ends
	// of the socket share one framing definition.
	EncodeRequest(req domain.ResolutionRequest) ([]byte, error)
	DecodeResponse(data []byte, family domain.AddressFamily) (domain.ResolutionResponse, error)
}
