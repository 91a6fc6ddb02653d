package values

import (
	"fmt"

	"github.com/dtc-forks/authzforce-core/constants"
)

// Value is a typed XACML attribute value: one of the sixteen standard
// primitives or a Bag of same-typed primitives.
type Value interface {
	// DatatypeID returns the XACML datatype identifier of the value. For a
	// bag this is the bag companion datatype of the element type.
	DatatypeID() string
	// String returns the canonical lexical form of the value.
	String() string
	// Equal reports datatype-specific equality. Equality against a value of
	// a different datatype is always false.
	Equal(other Value) bool
}

// BagDatatypeID returns the bag companion datatype identifier for a primitive
// datatype. Every primitive datatype has exactly one.
func BagDatatypeID(elementType string) string {
	return "bag:" + elementType
}

// IsBagDatatype reports whether an identifier names a bag companion datatype.
func IsBagDatatype(datatype string) bool {
	return len(datatype) > 4 && datatype[:4] == "bag:"
}

// ElementDatatypeID returns the primitive datatype of a bag companion
// datatype identifier, or the identifier itself if it is already primitive.
func ElementDatatypeID(datatype string) string {
	if IsBagDatatype(datatype) {
		return datatype[4:]
	}
	return datatype
}

// Compare orders two values of the same ordered datatype. It returns a
// negative, zero or positive integer, or an error when the datatype has no
// defined order or the operands differ in type.
func Compare(a, b Value) (int, error) {
	if a.DatatypeID() != b.DatatypeID() {
		return 0, fmt.Errorf("cannot compare %s with %s", a.DatatypeID(), b.DatatypeID())
	}
	switch x := a.(type) {
	case String:
		y := b.(String)
		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		}
		return 0, nil
	case Integer:
		y := b.(Integer)
		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		}
		return 0, nil
	case Double:
		y := b.(Double)
		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		}
		return 0, nil
	case Time:
		return compareInstants(x.instant(), b.(Time).instant()), nil
	case Date:
		return compareInstants(x.instant(), b.(Date).instant()), nil
	case DateTime:
		return compareInstants(x.instant(), b.(DateTime).instant()), nil
	}
	return 0, fmt.Errorf("datatype %s is not ordered", a.DatatypeID())
}

func init() {
	if len(constants.StandardDatatypes) != 16 {
		panic("standard datatype table out of sync")
	}
}
