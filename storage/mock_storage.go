package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/dtc-forks/authzforce-core/models"
)

// MockStorage implements Storage in memory, optionally seeded from a JSON
// policy file. It backs tests and file-only deployments.
type MockStorage struct {
	mu       sync.RWMutex
	policies map[string]*models.PolicyRecord
	audits   []*models.AuditRecord
	nextID   int64
}

// NewMockStorage creates an empty in-memory storage.
func NewMockStorage() *MockStorage {
	return &MockStorage{policies: make(map[string]*models.PolicyRecord)}
}

// NewMockStorageFromFile creates an in-memory storage seeded from a JSON
// file holding a list of policy documents.
func NewMockStorageFromFile(path string) (*MockStorage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}
	var docs []models.PolicyDocument
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to parse policy file %s: %w", path, err)
	}

	s := NewMockStorage()
	for i := range docs {
		doc := docs[i]
		id, version := documentIdentity(&doc)
		if id == "" {
			return nil, fmt.Errorf("policy file %s: document %d has no id", path, i)
		}
		record := &models.PolicyRecord{
			PolicyID: id,
			Version:  version,
			Document: models.JSONPolicyDocument(doc),
			Enabled:  true,
		}
		if err := s.CreatePolicy(record); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func documentIdentity(doc *models.PolicyDocument) (string, string) {
	if doc.Policy != nil {
		return doc.Policy.ID, doc.Policy.Version
	}
	if doc.PolicySet != nil {
		return doc.PolicySet.ID, doc.PolicySet.Version
	}
	return "", ""
}

func policyKey(policyID, version string) string {
	return policyID + "@" + version
}

// GetPolicies retrieves all enabled policy documents
func (s *MockStorage) GetPolicies() ([]*models.PolicyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]*models.PolicyRecord, 0, len(s.policies))
	for _, r := range s.policies {
		if r.Enabled {
			records = append(records, r)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].PolicyID != records[j].PolicyID {
			return records[i].PolicyID < records[j].PolicyID
		}
		return records[i].Version < records[j].Version
	})
	return records, nil
}

// GetPolicy retrieves one policy document by id and version
func (s *MockStorage) GetPolicy(policyID, version string) (*models.PolicyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.policies[policyKey(policyID, version)]
	if !ok {
		return nil, fmt.Errorf("policy not found: %s version %s", policyID, version)
	}
	return r, nil
}

// CreatePolicy stores a new policy document version
func (s *MockStorage) CreatePolicy(record *models.PolicyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := policyKey(record.PolicyID, record.Version)
	if _, exists := s.policies[key]; exists {
		return fmt.Errorf("policy already exists: %s version %s", record.PolicyID, record.Version)
	}
	s.nextID++
	record.ID = s.nextID
	s.policies[key] = record
	return nil
}

// UpdatePolicy updates a stored policy document
func (s *MockStorage) UpdatePolicy(record *models.PolicyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := policyKey(record.PolicyID, record.Version)
	if _, exists := s.policies[key]; !exists {
		return fmt.Errorf("policy not found: %s version %s", record.PolicyID, record.Version)
	}
	s.policies[key] = record
	return nil
}

// DeletePolicy removes a policy document version
func (s *MockStorage) DeletePolicy(policyID, version string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := policyKey(policyID, version)
	if _, exists := s.policies[key]; !exists {
		return fmt.Errorf("policy not found: %s version %s", policyID, version)
	}
	delete(s.policies, key)
	return nil
}

// LogAudit stores an audit record
func (s *MockStorage) LogAudit(record *models.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record.ID = int64(len(s.audits) + 1)
	s.audits = append(s.audits, record)
	return nil
}

// GetAuditLogs retrieves audit records, newest first
func (s *MockStorage) GetAuditLogs(limit, offset int) ([]*models.AuditRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.AuditRecord
	for i := len(s.audits) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.audits[i])
	}
	return out, nil
}

// Close is a no-op for in-memory storage
func (s *MockStorage) Close() error { return nil }
