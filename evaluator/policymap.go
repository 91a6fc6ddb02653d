package evaluator

import (
	"fmt"
	"sort"
)

// PolicyMap indexes policies by id and version, latest version first.
type PolicyMap[P any] struct {
	entries map[string][]policyMapEntry[P]
}

type policyMapEntry[P any] struct {
	version PolicyVersion
	policy  P
}

// NewPolicyMap creates an empty policy map.
func NewPolicyMap[P any]() *PolicyMap[P] {
	return &PolicyMap[P]{entries: make(map[string][]policyMapEntry[P])}
}

// Put registers a policy under (id, version). Duplicate (id, version) pairs
// are rejected.
func (m *PolicyMap[P]) Put(id string, version PolicyVersion, policy P) error {
	entries := m.entries[id]
	for _, e := range entries {
		if e.version.Compare(version) == 0 {
			return fmt.Errorf("duplicate policy %q version %s", id, version)
		}
	}
	entries = append(entries, policyMapEntry[P]{version: version, policy: policy})
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].version.Compare(entries[j].version) > 0
	})
	m.entries[id] = entries
	return nil
}

// Get returns the latest version of the policy matching the given version
// patterns, or ok=false when no version matches.
func (m *PolicyMap[P]) Get(id string, patterns *VersionPatterns) (P, PolicyVersion, bool) {
	for _, e := range m.entries[id] {
		if patterns.Matches(e.version) {
			return e.policy, e.version, true
		}
	}
	var zero P
	return zero, PolicyVersion{}, false
}

// IDs returns the distinct policy ids in the map.
func (m *PolicyMap[P]) IDs() []string {
	ids := make([]string, 0, len(m.entries))
	for id := range m.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Size returns the total number of (id, version) entries.
func (m *PolicyMap[P]) Size() int {
	n := 0
	for _, entries := range m.entries {
		n += len(entries)
	}
	return n
}
