package storage

import (
	"errors"
	"fmt"

	"github.com/dtc-forks/authzforce-core/models"

	"gorm.io/gorm"
)

// PostgreSQLStorage implements Storage interface using PostgreSQL with GORM
type PostgreSQLStorage struct {
	db *gorm.DB
}

// NewPostgreSQLStorage creates a new PostgreSQL storage instance
func NewPostgreSQLStorage(config *DatabaseConfig) (*PostgreSQLStorage, error) {
	db, err := NewDatabaseConnection(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	storage := &PostgreSQLStorage{db: db}

	if err := storage.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database schema: %w", err)
	}

	return storage, nil
}

// migrate runs database migrations
func (s *PostgreSQLStorage) migrate() error {
	return s.db.AutoMigrate(
		&models.PolicyRecord{},
		&models.AuditRecord{},
	)
}

// GetPolicies retrieves all enabled policy documents
func (s *PostgreSQLStorage) GetPolicies() ([]*models.PolicyRecord, error) {
	var records []*models.PolicyRecord
	result := s.db.Where("enabled = ?", true).Order("policy_id, version").Find(&records)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get policies: %w", result.Error)
	}
	return records, nil
}

// GetPolicy retrieves one policy document by id and version
func (s *PostgreSQLStorage) GetPolicy(policyID, version string) (*models.PolicyRecord, error) {
	var record models.PolicyRecord
	result := s.db.Where("policy_id = ? AND version = ?", policyID, version).First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("policy not found: %s version %s", policyID, version)
		}
		return nil, fmt.Errorf("failed to get policy: %w", result.Error)
	}
	return &record, nil
}

// CreatePolicy stores a new policy document version
func (s *PostgreSQLStorage) CreatePolicy(record *models.PolicyRecord) error {
	if err := s.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to create policy: %w", err)
	}
	return nil
}

// UpdatePolicy updates a stored policy document
func (s *PostgreSQLStorage) UpdatePolicy(record *models.PolicyRecord) error {
	if err := s.db.Save(record).Error; err != nil {
		return fmt.Errorf("failed to update policy: %w", err)
	}
	return nil
}

// DeletePolicy removes a policy document version
func (s *PostgreSQLStorage) DeletePolicy(policyID, version string) error {
	result := s.db.Where("policy_id = ? AND version = ?", policyID, version).Delete(&models.PolicyRecord{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete policy: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("policy not found: %s version %s", policyID, version)
	}
	return nil
}

// LogAudit stores an audit record
func (s *PostgreSQLStorage) LogAudit(record *models.AuditRecord) error {
	if err := s.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to log audit: %w", err)
	}
	return nil
}

// GetAuditLogs retrieves audit records, newest first
func (s *PostgreSQLStorage) GetAuditLogs(limit, offset int) ([]*models.AuditRecord, error) {
	var records []*models.AuditRecord
	result := s.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&records)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get audit logs: %w", result.Error)
	}
	return records, nil
}

// Close closes the database connection
func (s *PostgreSQLStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
