package analyze

import (
	"strings"
	"testing"

	"github.com/projectpulse/pulse/internal/domain"
)

func TestSuggest_RuleSelection(t *testing.T) {
	svc := &domain.Service{BaseURL: "https://example.com", HealthPath: "/health"}

	cases := []struct {
		name string
		inc  domain.Incident
		want string // substring that identifies the selected rule
	}{
		{"conn refused", domain.Incident{ErrorCode: "ECONNREFUSED", Status: domain.StatusUnhealthy}, "not accepting connections"},
		{"timeout", domain.Incident{ErrorCode: "ETIMEDOUT", Status: domain.StatusUnhealthy, LatencyMS: 10000}, "overloaded"},
		{"degraded", domain.Incident{Status: domain.StatusDegraded, LatencyMS: 6000}, "Performance degradation"},
		{"404", domain.Incident{Status: domain.StatusUnhealthy, Reason: "HTTP Error: 404"}, "health path"},
		{"500", domain.Incident{Status: domain.StatusUnhealthy, Reason: "HTTP Error: 500"}, "Unhandled exception"},
		{"fallback", domain.Incident{Status: domain.StatusUnhealthy, Reason: "something odd"}, "error signature"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Suggest(&tc.inc, svc)
			if !strings.Contains(got.Suggestion, tc.want) {
				t.Fatalf("suggestion %q does not contain %q", got.Suggestion, tc.want)
			}
			if !strings.Contains(got.Analysis, "example.com") {
				t.Fatalf("analysis should mention the service: %q", got.Analysis)
			}
		})
	}
}

func TestSuggest_ErrorCodeBeatsReason(t *testing.T) {
	svc := &domain.Service{BaseURL: "https://example.com", HealthPath: "/health"}
	inc := &domain.Incident{ErrorCode: "ETIMEDOUT", Reason: "HTTP Error: 500"}
	got := Suggest(inc, svc)
	if !strings.Contains(got.Analysis, "timed out") {
		t.Fatalf("error code rule must win: %q", got.Analysis)
	}
}
