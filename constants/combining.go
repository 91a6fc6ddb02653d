package constants

// XACML 3.0 combining algorithm identifiers
const (
	RuleDenyOverrides          = "urn:oasis:names:tc:xacml:3.0:rule-combining-algorithm:deny-overrides"
	RulePermitOverrides        = "urn:oasis:names:tc:xacml:3.0:rule-combining-algorithm:permit-overrides"
	RuleOrderedDenyOverrides   = "urn:oasis:names:tc:xacml:3.0:rule-combining-algorithm:ordered-deny-overrides"
	RuleOrderedPermitOverrides = "urn:oasis:names:tc:xacml:3.0:rule-combining-algorithm:ordered-permit-overrides"
	RuleFirstApplicable        = "urn:oasis:names:tc:xacml:1.0:rule-combining-algorithm:first-applicable"
	RuleDenyUnlessPermit       = "urn:oasis:names:tc:xacml:3.0:rule-combining-algorithm:deny-unless-permit"
	RulePermitUnlessDeny       = "urn:oasis:names:tc:xacml:3.0:rule-combining-algorithm:permit-unless-deny"

	PolicyDenyOverrides          = "urn:oasis:names:tc:xacml:3.0:policy-combining-algorithm:deny-overrides"
	PolicyPermitOverrides        = "urn:oasis:names:tc:xacml:3.0:policy-combining-algorithm:permit-overrides"
	PolicyOrderedDenyOverrides   = "urn:oasis:names:tc:xacml:3.0:policy-combining-algorithm:ordered-deny-overrides"
	PolicyOrderedPermitOverrides = "urn:oasis:names:tc:xacml:3.0:policy-combining-algorithm:ordered-permit-overrides"
	PolicyFirstApplicable        = "urn:oasis:names:tc:xacml:1.0:policy-combining-algorithm:first-applicable"
	PolicyOnlyOneApplicable      = "urn:oasis:names:tc:xacml:1.0:policy-combining-algorithm:only-one-applicable"
	PolicyDenyUnlessPermit       = "urn:oasis:names:tc:xacml:3.0:policy-combining-algorithm:deny-unless-permit"
	PolicyPermitUnlessDeny       = "urn:oasis:names:tc:xacml:3.0:policy-combining-algorithm:permit-unless-deny"

	// Legacy (XACML 1.0/1.1) identifiers kept for interoperability; they map onto
	// the 3.0 deny-overrides / permit-overrides behaviors at registration time.
	LegacyRuleDenyOverrides     = "urn:oasis:names:tc:xacml:1.0:rule-combining-algorithm:deny-overrides"
	LegacyRulePermitOverrides   = "urn:oasis:names:tc:xacml:1.0:rule-combining-algorithm:permit-overrides"
	LegacyRuleOrderedDeny       = "urn:oasis:names:tc:xacml:1.1:rule-combining-algorithm:ordered-deny-overrides"
	LegacyRuleOrderedPermit     = "urn:oasis:names:tc:xacml:1.1:rule-combining-algorithm:ordered-permit-overrides"
	LegacyPolicyDenyOverrides   = "urn:oasis:names:tc:xacml:1.0:policy-combining-algorithm:deny-overrides"
	LegacyPolicyPermitOverrides = "urn:oasis:names:tc:xacml:1.0:policy-combining-algorithm:permit-overrides"
	LegacyPolicyOrderedDeny     = "urn:oasis:names:tc:xacml:1.1:policy-combining-algorithm:ordered-deny-overrides"
	LegacyPolicyOrderedPermit   = "urn:oasis:names:tc:xacml:1.1:policy-combining-algorithm:ordered-permit-overrides"
)
