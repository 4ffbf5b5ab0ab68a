package classify

import (
	"fmt"

	"github.com/projectpulse/pulse/internal/domain"
)

// DefaultLatencyThresholdMS marks the latency above which a responsive
// service is considered degraded.
const DefaultLatencyThresholdMS = 5000

// Classifier turns a raw probe result into a canonical classification.
// It is a pure decision table; identical inputs always yield identical
// outputs.
type Classifier struct {
	LatencyThresholdMS int64
}

func New(thresholdMS int64) Classifier {
	if thresholdMS <= 0 {
		thresholdMS = DefaultLatencyThresholdMS
	}
	return Classifier{LatencyThresholdMS: thresholdMS}
}

// Classify evaluates the decision table in precedence order, first match
// wins:
//
//  1. transport error or HTTP >= 500  -> unhealthy
//  2. application-reported unhealthy  -> unhealthy
//  3. latency above threshold         -> degraded
//  4. otherwise                       -> healthy
//
// No error code is attached to degraded or healthy verdicts.
func (c Classifier) Classify(r domain.ProbeResult) domain.Classification {
	out := domain.Classification{LatencyMS: r.LatencyMS}

	switch {
	case r.ErrorType != "" || r.StatusCode >= 500:
		out.Status = domain.StatusUnhealthy
		if r.ErrorType != "" {
			out.Reason = r.ErrorType
			out.ErrorCode = r.ErrorType
		} else {
			out.Reason = fmt.Sprintf("HTTP Error: %d", r.StatusCode)
			out.ErrorCode = fmt.Sprintf("HTTP_%d", r.StatusCode)
		}

	case r.Payload != nil && r.Payload.Status == string(domain.StatusUnhealthy):
		out.Status = domain.StatusUnhealthy
		out.ErrorCode = r.Payload.ErrorCode
		if r.Payload.ErrorCode != "" {
			out.Reason = r.Payload.ErrorCode
		} else {
			out.Reason = "Application reported unhealthy"
		}

	case r.LatencyMS > c.LatencyThresholdMS:
		out.Status = domain.StatusDegraded
		out.Reason = fmt.Sprintf("High Latency: %dms", r.LatencyMS)

	default:
		out.Status = domain.StatusHealthy
		out.Reason = "Service is healthy"
	}

	return out
}
