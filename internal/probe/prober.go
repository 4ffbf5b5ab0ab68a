package probe

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/projectpulse/pulse/internal/domain"
)

// Transport error tags. The timeout tag is load-bearing: the classifier and
// the suggestion rules treat timeouts differently from generic failures.
const (
	ErrTagTimeout     = "ETIMEDOUT"
	ErrTagConnRefused = "ECONNREFUSED"
	ErrTagDNS         = "ENOTFOUND"
	ErrTagNetwork     = "NETWORK_ERROR"
)

const maxBodyBytes = 1 << 20

// Prober performs a single bounded health check against a service.
type Prober interface {
	Probe(ctx context.Context, baseURL, healthPath string) domain.ProbeResult
}

type HTTPProber struct {
	Client  *http.Client
	Timeout time.Duration
}

func NewHTTPProber(timeout time.Duration) *HTTPProber {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPProber{
		Client:  &http.Client{},
		Timeout: timeout,
	}
}

// Probe issues one GET against baseURL+healthPath under the prober's
// deadline. No retries; retry cadence is the scheduler's concern via the
// next tick. Latency is wall time from just before the request to response
// or failure, in whole milliseconds.
func (p *HTTPProber) Probe(ctx context.Context, baseURL, healthPath string) domain.ProbeResult {
	url := strings.TrimSuffix(baseURL, "/") + healthPath

	cctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	start := time.Now()
	req, err := http.NewRequestWithContext(cctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.ProbeResult{ErrorType: ErrTagNetwork, LatencyMS: time.Since(start).Milliseconds()}
	}

	resp, err := p.Client.Do(req)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return domain.ProbeResult{ErrorType: tagTransportError(err), LatencyMS: latency}
	}
	defer resp.Body.Close()

	return domain.ProbeResult{
		StatusCode: resp.StatusCode,
		LatencyMS:  latency,
		Payload:    parseHealthBody(resp.Body),
	}
}

// tagTransportError maps a transport failure to its most specific tag.
// Unrecognized failures fall back to the generic network tag.
func tagTransportError(err error) string {
	var dnsErr *net.DNSError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTagTimeout
	case errors.Is(err, syscall.ECONNREFUSED):
		return ErrTagConnRefused
	case errors.As(err, &dnsErr):
		return ErrTagDNS
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTagTimeout
	}
	return ErrTagNetwork
}

// parseHealthBody attempts to decode the response body as a JSON health
// payload. Absence of a parsed body is not an error; parse failures are
// discarded silently.
func parseHealthBody(r io.Reader) *domain.HealthPayload {
	body, err := io.ReadAll(io.LimitReader(r, maxBodyBytes))
	if err != nil || len(body) == 0 {
		return nil
	}
	var p domain.HealthPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil
	}
	return &p
}
