package storage

import "github.com/dtc-forks/authzforce-core/models"

// Storage interface defines the contract for policy and audit persistence
type Storage interface {
	// Policy documents
	GetPolicies() ([]*models.PolicyRecord, error)
	GetPolicy(policyID, version string) (*models.PolicyRecord, error)
	CreatePolicy(record *models.PolicyRecord) error
	UpdatePolicy(record *models.PolicyRecord) error
	DeletePolicy(policyID, version string) error

	// Audit operations
	LogAudit(record *models.AuditRecord) error
	GetAuditLogs(limit, offset int) ([]*models.AuditRecord, error)

	// Connection management
	Close() error
}
