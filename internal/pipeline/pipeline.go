package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/projectpulse/pulse/internal/alertgate"
	"github.com/projectpulse/pulse/internal/classify"
	"github.com/projectpulse/pulse/internal/domain"
	"github.com/projectpulse/pulse/internal/probe"
)

// Pipeline runs one check end to end: probe, classify, gate. The stages are
// composed directly; a stage failure ends the task and the next scheduler
// tick re-drives the pipeline from the top.
type Pipeline struct {
	Logger     *zap.Logger
	Prober     probe.Prober
	Classifier classify.Classifier
	Gate       *alertgate.Gate
}

func New(logger *zap.Logger, p probe.Prober, c classify.Classifier, g *alertgate.Gate) *Pipeline {
	return &Pipeline{Logger: logger, Prober: p, Classifier: c, Gate: g}
}

// RunCheck executes a single dispatched check task. Errors are contained
// here: nothing propagates to the scheduler.
func (p *Pipeline) RunCheck(ctx context.Context, t domain.CheckTask) {
	res := p.Prober.Probe(ctx, t.BaseURL, t.HealthPath)

	c := p.Classifier.Classify(res)
	c.ServiceID = t.ServiceID

	p.Logger.Debug("check_classified",
		zap.String("service_id", string(t.ServiceID)),
		zap.String("status", string(c.Status)),
		zap.Int("http_status", res.StatusCode),
		zap.Int64("latency_ms", res.LatencyMS),
		zap.String("reason", c.Reason),
	)

	if err := p.Gate.Apply(ctx, c); err != nil {
		p.Logger.Warn("check_gate_error",
			zap.String("service_id", string(t.ServiceID)),
			zap.Error(err),
		)
	}
}
