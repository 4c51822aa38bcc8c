package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/nssdoh/nss-doh/internal/dns/common/log"
	"github.com/nssdoh/nss-doh/internal/dns/domain"
)

const (
	// nameBufSize is the name buffer capacity including the terminating NUL.
	nameBufSize = domain.MaxNameLen + 1

	// familySize is the width of the address-family field, a C int on the wire.
	familySize = 4

	// RequestFrameSize is the exact byte count of one request frame.
	RequestFrameSize = nameBufSize + familySize
)

// frameCodec implements the FrameCodec interface for the local socket protocol.
type frameCodec struct {
	logger log.Logger
}

// NewFrameCodec creates and returns a new instance of frameCodec using the
// provided logger. The logger is used for logging within the codec.
func NewFrameCodec(logger log.Logger) *frameCodec {
	return &frameCodec{
		logger: logger,
	}
}

// DecodeRequest reads exactly one request frame from r and parses it.
// The framing contract is strict: a short read, a read error, or a name
// buffer without a NUL terminator all fail the decode. Nothing is buffered
// for re-read; the caller drops the connection on any error.
func (c *frameCodec) DecodeRequest(r io.Reader) (domain.ResolutionRequest, error) {
	buf := make([]byte, RequestFrameSize)
	n, err := io.ReadFull(r, buf)
	if err != nil {
		return domain.ResolutionRequest{}, fmt.Errorf("short request frame (%d of %d bytes): %w", n, RequestFrameSize, err)
	}

	nul := bytes.IndexByte(buf[:nameBufSize], 0)
	if nul < 0 {
		return domain.ResolutionRequest{}, fmt.Errorf("request name buffer is not NUL terminated")
	}

	// The family field carries the platform AF constant as written by the
	// peer's C-compatible struct, hence native byte order.
	family := domain.AddressFamily(binary.NativeEndian.Uint32(buf[nameBufSize:]))

	c.logger.Debug(map[string]any{
		"name":   string(buf[:nul]),
		"family": family.String(),
	}, "Decoded request frame")

	return domain.ResolutionRequest{
		Name:   string(buf[:nul]),
		Family: family,
	}, nil
}

// EncodeRequest serializes a request into one frame. The request must carry a
// name that fits the buffer; the family is written verbatim, valid or not, so
// tests can produce frames the daemon must reject.
func (c *frameCodec) EncodeRequest(req domain.ResolutionRequest) ([]byte, error) {
	if len(req.Name) > domain.MaxNameLen {
		return nil, fmt.Errorf("request name exceeds %d bytes: %d", domain.MaxNameLen, len(req.Name))
	}

	buf := make([]byte, RequestFrameSize)
	copy(buf, req.Name)
	binary.NativeEndian.PutUint32(buf[nameBufSize:], uint32(req.Family))
	return buf, nil
}

// EncodeResponse serializes a response into one frame: the binary address and
// nothing else. The address width is the whole framing, so it must be exactly
// one supported family width.
func (c *frameCodec) EncodeResponse(resp domain.ResolutionResponse) ([]byte, error) {
	if err := resp.Validate(); err != nil {
		return nil, err
	}
	frame := make([]byte, len(resp.Address))
	copy(frame, resp.Address)
	return frame, nil
}

// DecodeResponse parses one response frame for the given family. The frame
// must be exactly the family's address width.
func (c *frameCodec) DecodeResponse(data []byte, family domain.AddressFamily) (domain.ResolutionResponse, error) {
	if !family.IsValid() {
		return domain.ResolutionResponse{}, fmt.Errorf("unsupported address family: %d", uint32(family))
	}
	if len(data) != family.AddrSize() {
		return domain.ResolutionResponse{}, fmt.Errorf("response frame is %d bytes, want %d for %s", len(data), family.AddrSize(), family)
	}
	addr := make([]byte, len(data))
	copy(addr, data)
	return domain.ResolutionResponse{Address: addr}, nil
}
