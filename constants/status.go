package constants

// Status code identifiers surfaced in Indeterminate results
const (
	StatusOK               = "urn:oasis:names:tc:xacml:1.0:status:ok"
	StatusMissingAttribute = "urn:oasis:names:tc:xacml:1.0:status:missing-attribute"
	StatusSyntaxError      = "urn:oasis:names:tc:xacml:1.0:status:syntax-error"
	StatusProcessingError  = "urn:oasis:names:tc:xacml:1.0:status:processing-error"
)

// Standard attribute category identifiers
const (
	CategoryAccessSubject = "urn:oasis:names:tc:xacml:1.0:subject-category:access-subject"
	CategoryResource      = "urn:oasis:names:tc:xacml:3.0:attribute-category:resource"
	CategoryAction        = "urn:oasis:names:tc:xacml:3.0:attribute-category:action"
	CategoryEnvironment   = "urn:oasis:names:tc:xacml:3.0:attribute-category:environment"
)

// Well-known attribute identifiers
const (
	AttributeSubjectID       = "urn:oasis:names:tc:xacml:1.0:subject:subject-id"
	AttributeResourceID      = "urn:oasis:names:tc:xacml:1.0:resource:resource-id"
	AttributeActionID        = "urn:oasis:names:tc:xacml:1.0:action:action-id"
	AttributeCurrentTime     = "urn:oasis:names:tc:xacml:1.0:environment:current-time"
	AttributeCurrentDate     = "urn:oasis:names:tc:xacml:1.0:environment:current-date"
	AttributeCurrentDateTime = "urn:oasis:names:tc:xacml:1.0:environment:current-dateTime"
)

// Effect values carried by rules
const (
	EffectPermit = "Permit"
	EffectDeny   = "Deny"
)
