package analyze

import (
	"fmt"
	"strings"

	"github.com/projectpulse/pulse/internal/domain"
)

// Result is the generated incident annotation: a short analysis line and a
// remediation suggestion that gets persisted on the incident.
type Result struct {
	Analysis   string `json:"analysis"`
	Suggestion string `json:"suggestion"`
}

// Suggest derives a remediation hint from the incident's error code, status
// and reason. Rules are checked in order; the first match wins. This runs
// outside the check pipeline and is never required for its correctness.
func Suggest(inc *domain.Incident, svc *domain.Service) Result {
	analysis := fmt.Sprintf("Analyzing incident for %s...", svc.BaseURL)

	switch {
	case inc.ErrorCode == "ECONNREFUSED":
		analysis += "\nError code ECONNREFUSED detected."
		return Result{analysis, "**Possible Cause:** The service is down or not accepting connections on port 80/443.\n\n" +
			"**Suggested Fix:**\n1. Check if the server process is running.\n2. Verify firewall rules.\n3. Check load balancer health."}

	case inc.ErrorCode == "ETIMEDOUT":
		analysis += fmt.Sprintf("\nRequest timed out after %dms.", inc.LatencyMS)
		return Result{analysis, "**Possible Cause:** Server is overloaded or network congestion.\n\n" +
			"**Suggested Fix:**\n1. Check CPU/Memory usage on the server.\n2. Optimize database queries if applicable.\n3. Increase timeout thresholds if this is a heavy operation."}

	case inc.Status == domain.StatusDegraded:
		analysis += fmt.Sprintf("\nHigh latency detected: %dms.", inc.LatencyMS)
		return Result{analysis, "**Possible Cause:** Performance degradation.\n\n" +
			"**Suggested Fix:**\n1. Check for resource contention.\n2. Review application logs for slow operations.\n3. Consider scaling up the instance."}

	case strings.Contains(inc.Reason, "404"):
		analysis += "\nHTTP 404 Not Found returned."
		return Result{analysis, fmt.Sprintf("**Possible Cause:** The health check path `%s` does not exist.\n\n"+
			"**Suggested Fix:**\n1. Verify the health path configuration.\n2. Ensure the deployment was successful.", svc.HealthPath)}

	case strings.Contains(inc.Reason, "500"):
		analysis += "\nHTTP 500 Internal Server Error."
		return Result{analysis, "**Possible Cause:** Unhandled exception in the application.\n\n" +
			"**Suggested Fix:**\n1. Check application error logs for stack traces.\n2. Verify recent code deployments.\n3. Check database connectivity."}

	default:
		analysis += "\nUnknown error pattern."
		return Result{analysis, "Based on the error signature, we recommend checking the application logs and ensuring the service dependencies are healthy."}
	}
}
