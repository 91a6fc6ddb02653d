package values

import (
	"fmt"

	"github.com/dtc-forks/authzforce-core/constants"
)

// parsers maps each primitive datatype to its lexical-form parser.
var parsers = map[string]func(string) (Value, error){
	constants.DatatypeString:            parseString,
	constants.DatatypeBoolean:           parseBoolean,
	constants.DatatypeInteger:           parseInteger,
	constants.DatatypeDouble:            parseDouble,
	constants.DatatypeTime:              parseTime,
	constants.DatatypeDate:              parseDate,
	constants.DatatypeDateTime:          parseDateTime,
	constants.DatatypeDayTimeDuration:   parseDayTimeDuration,
	constants.DatatypeYearMonthDuration: parseYearMonthDuration,
	constants.DatatypeAnyURI:            parseAnyURI,
	constants.DatatypeHexBinary:         parseHexBinary,
	constants.DatatypeBase64Binary:      parseBase64Binary,
	constants.DatatypeX500Name:          parseX500Name,
	constants.DatatypeRFC822Name:        parseRFC822Name,
	constants.DatatypeIPAddress:         parseIPAddress,
	constants.DatatypeDNSName:           parseDNSName,
}

// FromString parses the lexical form of a value of the given primitive
// datatype. An unknown datatype or a malformed literal is an error; callers
// in the evaluation path surface it as a syntax-error Indeterminate.
func FromString(datatype, lexical string) (Value, error) {
	p, ok := parsers[datatype]
	if !ok {
		return nil, fmt.Errorf("unknown datatype %s", datatype)
	}
	return p(lexical)
}

// KnownDatatype reports whether the engine ships a parser for the datatype.
func KnownDatatype(datatype string) bool {
	_, ok := parsers[ElementDatatypeID(datatype)]
	return ok
}
