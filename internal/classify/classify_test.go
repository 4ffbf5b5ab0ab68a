package classify

import (
	"testing"

	"github.com/projectpulse/pulse/internal/domain"
)

func TestClassify_Precedence(t *testing.T) {
	c := New(0)

	cases := []struct {
		name      string
		in        domain.ProbeResult
		status    domain.Status
		reason    string
		errorCode string
	}{
		{
			name:      "http 500 with no transport error",
			in:        domain.ProbeResult{StatusCode: 500, LatencyMS: 100},
			status:    domain.StatusUnhealthy,
			reason:    "HTTP Error: 500",
			errorCode: "HTTP_500",
		},
		{
			name:      "transport error wins over everything",
			in:        domain.ProbeResult{ErrorType: "ECONNREFUSED", LatencyMS: 10},
			status:    domain.StatusUnhealthy,
			reason:    "ECONNREFUSED",
			errorCode: "ECONNREFUSED",
		},
		{
			name:      "timeout keeps its own tag",
			in:        domain.ProbeResult{ErrorType: "ETIMEDOUT", LatencyMS: 10000},
			status:    domain.StatusUnhealthy,
			reason:    "ETIMEDOUT",
			errorCode: "ETIMEDOUT",
		},
		{
			name: "application-reported unhealthy",
			in: domain.ProbeResult{
				StatusCode: 200,
				LatencyMS:  50,
				Payload:    &domain.HealthPayload{Status: "unhealthy", ErrorCode: "DB_DOWN"},
			},
			status:    domain.StatusUnhealthy,
			reason:    "DB_DOWN",
			errorCode: "DB_DOWN",
		},
		{
			name: "application unhealthy without error code",
			in: domain.ProbeResult{
				StatusCode: 200,
				Payload:    &domain.HealthPayload{Status: "unhealthy"},
			},
			status: domain.StatusUnhealthy,
			reason: "Application reported unhealthy",
		},
		{
			name:   "slow response degrades",
			in:     domain.ProbeResult{StatusCode: 200, LatencyMS: 6000},
			status: domain.StatusDegraded,
			reason: "High Latency: 6000ms",
		},
		{
			name:   "threshold itself is not degraded",
			in:     domain.ProbeResult{StatusCode: 200, LatencyMS: 5000},
			status: domain.StatusHealthy,
			reason: "Service is healthy",
		},
		{
			name:   "fast healthy response",
			in:     domain.ProbeResult{StatusCode: 200, LatencyMS: 100},
			status: domain.StatusHealthy,
			reason: "Service is healthy",
		},
		{
			name:   "4xx is not unhealthy by status alone",
			in:     domain.ProbeResult{StatusCode: 404, LatencyMS: 30},
			status: domain.StatusHealthy,
			reason: "Service is healthy",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Classify(tc.in)
			if got.Status != tc.status {
				t.Fatalf("status = %s, want %s", got.Status, tc.status)
			}
			if got.Reason != tc.reason {
				t.Fatalf("reason = %q, want %q", got.Reason, tc.reason)
			}
			if got.ErrorCode != tc.errorCode {
				t.Fatalf("error code = %q, want %q", got.ErrorCode, tc.errorCode)
			}
			if got.LatencyMS != tc.in.LatencyMS {
				t.Fatalf("latency not carried through: %d", got.LatencyMS)
			}
		})
	}
}

func TestClassify_Pure(t *testing.T) {
	c := New(0)
	in := domain.ProbeResult{StatusCode: 503, LatencyMS: 42}
	first := c.Classify(in)
	for i := 0; i < 3; i++ {
		if got := c.Classify(in); got != first {
			t.Fatalf("classification not deterministic: %+v vs %+v", got, first)
		}
	}
}
