// Package audit records PDP decisions: structured log lines via slog, plus
// an optional persistent sink backed by storage.
package audit

import (
	"log/slog"
	"time"

	"github.com/dtc-forks/authzforce-core/evaluator"
	"github.com/dtc-forks/authzforce-core/models"
)

// Sink persists audit records; storage.Storage satisfies it.
type Sink interface {
	LogAudit(record *models.AuditRecord) error
}

// Logger handles audit logging for policy evaluations
type Logger struct {
	log  *slog.Logger
	sink Sink
}

// NewLogger creates an audit logger. sink may be nil for log-only auditing.
func NewLogger(log *slog.Logger, sink Sink) *Logger {
	if log == nil {
		log = slog.Default()
	}
	return &Logger{log: log.With("component", "audit"), sink: sink}
}

// LogDecision records one evaluated decision.
func (l *Logger) LogDecision(requestID string, result *evaluator.DecisionResult, elapsed time.Duration) {
	policies := make([]string, 0, len(result.ApplicablePolicies))
	for _, p := range result.ApplicablePolicies {
		policies = append(policies, p.ID+":"+p.Version)
	}

	attrs := []any{
		"request_id", requestID,
		"decision", result.Decision.String(),
		"elapsed_us", elapsed.Microseconds(),
	}
	if result.Status != nil {
		attrs = append(attrs, "status_code", result.Status.Code)
	}
	if len(policies) > 0 {
		attrs = append(attrs, "policies", policies)
	}
	l.log.Info("decision", attrs...)

	if l.sink == nil {
		return
	}
	record := &models.AuditRecord{
		RequestID:    requestID,
		Decision:     result.Decision.String(),
		Policies:     policies,
		EvaluationUs: elapsed.Microseconds(),
	}
	if result.Status != nil {
		record.StatusCode = result.Status.Code
	}
	if err := l.sink.LogAudit(record); err != nil {
		l.log.Error("audit sink write failed", "request_id", requestID, "error", err)
	}
}
