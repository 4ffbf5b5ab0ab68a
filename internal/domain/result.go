package domain

// HealthPayload is the application-reported health body, when the probed
// endpoint returns JSON. Extra fields are ignored.
type HealthPayload struct {
	Status    string `json:"status"`
	ErrorCode string `json:"error_code"`
}

// ProbeResult is the raw outcome of a single probe. Not persisted.
//
// Fields:
// - StatusCode: HTTP status code when a response arrived; 0 on transport failure.
// - ErrorType: transport error tag (ETIMEDOUT, ECONNREFUSED, ...); "" when none.
// - Payload: parsed JSON health body, nil when absent or unparseable.
type ProbeResult struct {
	StatusCode int
	LatencyMS  int64
	ErrorType  string
	Payload    *HealthPayload
}

// Classification is the canonical verdict derived from one ProbeResult.
// Pure derived value; no independent identity.
type Classification struct {
	ServiceID ServiceID
	Status    Status
	Reason    string
	ErrorCode string
	LatencyMS int64
}

// CheckTask is the trigger input for one check dispatch.
type CheckTask struct {
	ServiceID  ServiceID
	BaseURL    string
	HealthPath string
}
