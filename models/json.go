package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONStringSlice is a custom type for handling []string in GORM
type JSONStringSlice []string

// Value implements the driver.Valuer interface for GORM
func (j JSONStringSlice) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements the sql.Scanner interface for GORM
func (j *JSONStringSlice) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into JSONStringSlice", value)
	}

	return json.Unmarshal(bytes, j)
}

// JSONPolicyDocument stores a full policy document as jsonb.
type JSONPolicyDocument PolicyDocument

// Value implements the driver.Valuer interface for GORM
func (j JSONPolicyDocument) Value() (driver.Value, error) {
	return json.Marshal(PolicyDocument(j))
}

// Scan implements the sql.Scanner interface for GORM
func (j *JSONPolicyDocument) Scan(value interface{}) error {
	if value == nil {
		*j = JSONPolicyDocument{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into JSONPolicyDocument", value)
	}

	return json.Unmarshal(bytes, (*PolicyDocument)(j))
}
