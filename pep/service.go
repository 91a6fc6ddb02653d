// Package pep is the enforcement edge of the PDP: the authorization service,
// its HTTP surface, the decision cache and the Prometheus metrics.
package pep

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dtc-forks/authzforce-core/audit"
	"github.com/dtc-forks/authzforce-core/evaluator"
	"github.com/dtc-forks/authzforce-core/models"
)

// ServiceConfig holds configuration for the authorization service
type ServiceConfig struct {
	// CacheSize enables the decision cache when positive.
	CacheSize int
	// CacheTTL bounds the lifetime of cached decisions.
	CacheTTL time.Duration
	// RequestTimeout bounds one evaluation; zero disables the deadline.
	RequestTimeout time.Duration
}

// DefaultServiceConfig returns default service configuration
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		RequestTimeout: 5 * time.Second,
	}
}

// Service answers authorization requests against a PDP, with auditing,
// metrics and optional decision caching.
type Service struct {
	pdp     *evaluator.PDP
	auditor *audit.Logger
	cache   *DecisionCache
	metrics *Metrics
	config  *ServiceConfig
	log     *slog.Logger
}

// NewService creates an authorization service around a PDP.
func NewService(pdp *evaluator.PDP, auditor *audit.Logger, metrics *Metrics, config *ServiceConfig, log *slog.Logger) *Service {
	if config == nil {
		config = DefaultServiceConfig()
	}
	if log == nil {
		log = slog.Default()
	}
	s := &Service{
		pdp:     pdp,
		auditor: auditor,
		metrics: metrics,
		config:  config,
		log:     log.With("component", "pep"),
	}
	if config.CacheSize > 0 {
		s.cache = NewDecisionCache(config.CacheSize, config.CacheTTL)
	}
	return s
}

// Decide evaluates one authorization request and returns the wire response.
func (s *Service) Decide(ctx context.Context, req *models.AuthzRequest) *models.AuthzResponse {
	start := time.Now()
	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	if s.cache != nil {
		if cached := s.cache.Get(req); cached != nil {
			if s.metrics != nil {
				s.metrics.CacheHit()
			}
			resp := *cached
			resp.RequestID = requestID
			return &resp
		}
		if s.metrics != nil {
			s.metrics.CacheMiss()
		}
	}

	if s.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.RequestTimeout)
		defer cancel()
	}

	result := s.pdp.Evaluate(ctx, req.RawCategories(), req.ReturnPolicyIDList)
	elapsed := time.Since(start)

	if s.auditor != nil {
		s.auditor.LogDecision(requestID, result, elapsed)
	}
	if s.metrics != nil {
		s.metrics.ObserveDecision(result.Decision.String(), elapsed)
	}

	resp := buildResponse(requestID, result, elapsed)
	if s.cache != nil {
		s.cache.Put(req, resp)
	}
	return resp
}

func buildResponse(requestID string, result *evaluator.DecisionResult, elapsed time.Duration) *models.AuthzResponse {
	resp := &models.AuthzResponse{
		RequestID:    requestID,
		Decision:     result.Decision.String(),
		EvaluationUs: elapsed.Microseconds(),
	}
	if result.Decision == evaluator.Indeterminate && result.Status != nil {
		resp.Status = &models.StatusDoc{Code: result.Status.Code, Message: result.Status.Message}
	}
	for _, action := range result.PepActions {
		doc := models.PepActionResultDoc{ID: action.ID}
		for _, a := range action.Assignments {
			doc.Assignments = append(doc.Assignments, models.AssignmentResultDoc{
				AttributeID: a.AttributeID,
				Category:    a.Category,
				Issuer:      a.Issuer,
				Datatype:    a.Value.DatatypeID(),
				Value:       a.Value.String(),
			})
		}
		if action.Obligatory {
			resp.Obligations = append(resp.Obligations, doc)
		} else {
			resp.Advice = append(resp.Advice, doc)
		}
	}
	for _, p := range result.ApplicablePolicies {
		resp.ApplicablePolicies = append(resp.ApplicablePolicies, models.PolicyIdentifierDoc{
			ID:        p.ID,
			Version:   p.Version,
			PolicySet: p.PolicySet,
		})
	}
	return resp
}
