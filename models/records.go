package models

import "time"

// PolicyRecord is a stored policy document version.
type PolicyRecord struct {
	ID        int64              `json:"id" gorm:"primaryKey;autoIncrement"`
	PolicyID  string             `json:"policy_id" gorm:"size:255;not null;uniqueIndex:idx_policy_version"`
	Version   string             `json:"version" gorm:"size:100;not null;uniqueIndex:idx_policy_version"`
	Document  JSONPolicyDocument `json:"document" gorm:"type:jsonb"`
	Enabled   bool               `json:"enabled" gorm:"default:true;index"`
	CreatedAt time.Time          `json:"created_at,omitempty" gorm:"autoCreateTime"`
	UpdatedAt time.Time          `json:"updated_at,omitempty" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for PolicyRecord
func (PolicyRecord) TableName() string {
	return "policies"
}

// AuditRecord is one logged decision.
type AuditRecord struct {
	ID           int64           `json:"id" gorm:"primaryKey;autoIncrement"`
	RequestID    string          `json:"request_id" gorm:"size:255;not null;index"`
	Decision     string          `json:"decision" gorm:"size:20;not null;index"`
	StatusCode   string          `json:"status_code,omitempty" gorm:"size:255"`
	Policies     JSONStringSlice `json:"applicable_policies" gorm:"type:jsonb"`
	EvaluationUs int64           `json:"evaluation_us" gorm:"not null"`
	CreatedAt    time.Time       `json:"created_at" gorm:"autoCreateTime;index"`
}

// TableName specifies the table name for AuditRecord
func (AuditRecord) TableName() string {
	return "audit_logs"
}
