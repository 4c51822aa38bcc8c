// Package domain contains the core types of the resolution daemon: the
// fixed-frame request and response records exchanged on the local socket,
// the upstream answer record, and the address codec.
package domain

import "fmt"

// MaxNameLen is the capacity of the request frame's name buffer, excluding
// the terminating NUL. Names longer than this cannot be framed.
const MaxNameLen = 255

// ResolutionRequest is the parsed form of one request frame: the domain name
// to resolve and the address family the peer wants an address for.
type ResolutionRequest struct {
	Name   string
	Family AddressFamily
}

// NewResolutionRequest constructs a ResolutionRequest and validates its fields.
func NewResolutionRequest(name string, family AddressFamily) (ResolutionRequest, error) {
	r := ResolutionRequest{
		Name:   name,
		Family: family,
	}
	if err := r.Validate(); err != nil {
		return ResolutionRequest{}, err
	}
	return r, nil
}

// Validate checks whether the request fields are structurally valid.
func (r ResolutionRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("request name must not be empty")
	}
	if len(r.Name) > MaxNameLen {
		return fmt.Errorf("request name exceeds %d bytes: %d", MaxNameLen, len(r.Name))
	}
	if !r.Family.IsValid() {
		return fmt.Errorf("unsupported address family: %d", uint32(r.Family))
	}
	return nil
}
