package functions

// NewStandardRegistry returns a registry holding the complete XACML 3.0
// standard function set.
func NewStandardRegistry() *Registry {
	r := NewRegistry()
	mustRegister(r, equalityFunctions()...)
	mustRegister(r, arithmeticFunctions()...)
	mustRegister(r, comparisonFunctions()...)
	mustRegister(r, logicalFunctions()...)
	mustRegister(r, stringFunctions()...)
	mustRegister(r, conversionFunctions()...)
	mustRegister(r, regexpFunctions()...)
	mustRegister(r, bagFunctions()...)
	mustRegister(r, setFunctions()...)
	mustRegister(r, temporalFunctions()...)
	mustRegister(r, specialFunctions()...)
	mustRegister(r, higherOrderFunctions()...)
	return r
}
