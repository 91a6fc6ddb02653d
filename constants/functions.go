package constants

// Function identifier namespaces. Most standard function identifiers are built
// from these prefixes plus a short name (e.g. Function10 + "string-equal").
const (
	Function10 = "urn:oasis:names:tc:xacml:1.0:function:"
	Function20 = "urn:oasis:names:tc:xacml:2.0:function:"
	Function30 = "urn:oasis:names:tc:xacml:3.0:function:"
)

// Higher-order bag function identifiers
const (
	FunctionAnyOf    = Function30 + "any-of"
	FunctionAllOf    = Function30 + "all-of"
	FunctionAnyOfAny = Function30 + "any-of-any"
	FunctionAllOfAny = Function10 + "all-of-any"
	FunctionAnyOfAll = Function10 + "any-of-all"
	FunctionAllOfAll = Function10 + "all-of-all"
	FunctionMap      = Function30 + "map"
)

// Logical function identifiers (lazy evaluation, not first-order kernels)
const (
	FunctionAnd = Function10 + "and"
	FunctionOr  = Function10 + "or"
	FunctionNOf = Function10 + "n-of"
	FunctionNot = Function10 + "not"
)
