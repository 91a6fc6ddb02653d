package audit

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dtc-forks/authzforce-core/constants"
	"github.com/dtc-forks/authzforce-core/evaluator"
	"github.com/dtc-forks/authzforce-core/models"
	"github.com/dtc-forks/authzforce-core/status"
)

// memorySink collects audit records in memory.
type memorySink struct {
	records []*models.AuditRecord
}

func (s *memorySink) LogAudit(record *models.AuditRecord) error {
	s.records = append(s.records, record)
	return nil
}

func TestLogDecision(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	sink := &memorySink{}
	logger := NewLogger(log, sink)

	result := &evaluator.DecisionResult{
		Decision: evaluator.Permit,
		ApplicablePolicies: []evaluator.PolicyIdentifier{
			{ID: "urn:test:policy", Version: "1.0"},
		},
	}
	logger.LogDecision("req-1", result, 1500*time.Microsecond)

	if len(sink.records) != 1 {
		t.Fatalf("sink received %d records", len(sink.records))
	}
	record := sink.records[0]
	if record.RequestID != "req-1" || record.Decision != "Permit" {
		t.Errorf("record = %+v", record)
	}
	if len(record.Policies) != 1 || record.Policies[0] != "urn:test:policy:1.0" {
		t.Errorf("policies = %v", record.Policies)
	}
	if record.EvaluationUs != 1500 {
		t.Errorf("evaluation_us = %d", record.EvaluationUs)
	}
	if !strings.Contains(buf.String(), `"decision":"Permit"`) {
		t.Errorf("log line = %s", buf.String())
	}
}

func TestLogDecisionIndeterminateStatus(t *testing.T) {
	sink := &memorySink{}
	logger := NewLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), sink)

	result := &evaluator.DecisionResult{
		Decision: evaluator.Indeterminate,
		Flavor:   evaluator.FlavorDP,
		Status:   status.NewProcessingError("boom"),
	}
	logger.LogDecision("req-2", result, time.Millisecond)

	if sink.records[0].StatusCode != constants.StatusProcessingError {
		t.Errorf("status code = %s", sink.records[0].StatusCode)
	}
}
