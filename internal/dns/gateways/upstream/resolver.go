// Package upstream implements the DoH client gateway: it turns one
// (name, record type) lookup into an HTTPS GET against the configured
// resolver and parses the dns-json body into domain answers.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/net/http2"

	"github.com/nssdoh/nss-doh/internal/dns/common/log"
	"github.com/nssdoh/nss-doh/internal/dns/domain"
	"github.com/nssdoh/nss-doh/internal/dns/services/session"
)

// Error message constants for consistent error handling
const (
	errResolverRequired = "no upstream resolver host provided"
	errBuildRequest     = "build request failed: %w"
	errSendFailed       = "send failed: %w"
	errReadBodyFailed   = "read body failed: %w"
	errBodyNotJSON      = "body is not valid JSON"
	errNoRootObject     = "no root object"
	errNoAnswerMember   = "no Answer member"
)

// Resolver forwards lookups to a single DoH resolver over HTTPS. It performs
// no retries, keeps no cache, and knows no alternate resolver; a failed
// query is simply a failed session.
type Resolver struct {
	resolver string        // DoH resolver host (e.g. "1.1.1.1")
	timeout  time.Duration // End-to-end deadline for one query round trip
	client   *http.Client  // HTTP client used for DoH requests
	logger   log.Logger
}

// Options defines configuration parameters for the DoH resolver client.
// It includes the resolver host and round-trip timeout, plus an injectable
// HTTP client for testing purposes.
type Options struct {
	// required parameters
	Resolver string
	Timeout  time.Duration
	// options to inject for testing purposes
	Client *http.Client
	Logger log.Logger
}

// NewResolver creates a new DoH client with the specified options.
// Returns an error if the resolver host is empty. Sets default timeout to
// 5 seconds and builds an HTTP/2-enabled client if none is provided.
func NewResolver(opts Options) (*Resolver, error) {
	if opts.Resolver == "" {
		return nil, errors.New(errResolverRequired)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Client == nil {
		opts.Client = newHTTPClient(opts.Timeout)
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNoopLogger()
	}
	return &Resolver{
		resolver: opts.Resolver,
		timeout:  opts.Timeout,
		client:   opts.Client,
		logger:   opts.Logger,
	}, nil
}

// newHTTPClient builds the transport used for DoH queries. DoH resolvers
// all speak HTTP/2, so the transport is explicitly upgraded and given a
// read idle timeout to detect dead connections.
func newHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
		IdleConnTimeout:       2 * timeout,
	}
	if h2, _ := http2.ConfigureTransports(transport); h2 != nil {
		h2.ReadIdleTimeout = timeout
		h2.AllowHTTP = false
	}
	return &http.Client{
		Transport: transport,
	}
}

// ensureContextDeadline ensures the context has a deadline, adding the resolver's
// default timeout if needed. Returns the context (potentially with added timeout)
// and a cancel function if one was created.
func (r *Resolver) ensureContextDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); !ok {
		return context.WithTimeout(ctx, r.timeout)
	}
	return ctx, nil
}

// Resolve issues one DoH query and returns the parsed Answer array.
// Transport failures and malformed bodies (not JSON, root not an object,
// no Answer array) are errors; an empty Answer array is not.
func (r *Resolver) Resolve(ctx context.Context, name string, rrtype domain.RRType) ([]domain.Answer, error) {
	ctx, cancel := r.ensureContextDeadline(ctx)
	if cancel != nil {
		defer cancel()
	}

	url := BuildQueryURL(r.resolver, name, rrtype)

	r.logger.Debug(map[string]any{
		"url": url,
	}, "Fetching")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf(errBuildRequest, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf(errSendFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf(errReadBodyFailed, err)
	}

	return parseAnswers(body)
}

// parseAnswers extracts the Answer array from a dns-json body. Answer
// elements are carried over as-is: absent or non-string members stay absent
// (nil) so the selector can apply its own skip policy per element.
func parseAnswers(body []byte) ([]domain.Answer, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New(errBodyNotJSON)
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, errors.New(errNoRootObject)
	}

	answers := root.Get("Answer")
	if !answers.Exists() || !answers.IsArray() {
		return nil, errors.New(errNoAnswerMember)
	}

	var out []domain.Answer
	answers.ForEach(func(_, element gjson.Result) bool {
		var answer domain.Answer
		if t := element.Get("type"); t.Exists() {
			// A value outside the 16-bit record type range names no type
			// and must not alias to one on conversion.
			if v := t.Int(); v >= 0 && v <= math.MaxUint16 {
				rrtype := domain.RRType(v)
				answer.Type = &rrtype
			}
		}
		if d := element.Get("data"); d.Exists() && d.Type == gjson.String {
			data := d.String()
			answer.Data = &data
		}
		out = append(out, answer)
		return true
	})

	return out, nil
}

var _ session.UpstreamClient = (*Resolver)(nil)
