package functions

import "github.com/dtc-forks/authzforce-core/constants"

// dtInfo describes one primitive datatype for generic per-datatype function
// families (equality, bags, sets). ns is the identifier namespace the
// standard assigns that datatype's generic functions.
type dtInfo struct {
	id    string
	short string
	ns    string
}

var datatypeTable = []dtInfo{
	{constants.DatatypeString, "string", constants.Function10},
	{constants.DatatypeBoolean, "boolean", constants.Function10},
	{constants.DatatypeInteger, "integer", constants.Function10},
	{constants.DatatypeDouble, "double", constants.Function10},
	{constants.DatatypeTime, "time", constants.Function10},
	{constants.DatatypeDate, "date", constants.Function10},
	{constants.DatatypeDateTime, "dateTime", constants.Function10},
	{constants.DatatypeDayTimeDuration, "dayTimeDuration", constants.Function30},
	{constants.DatatypeYearMonthDuration, "yearMonthDuration", constants.Function30},
	{constants.DatatypeAnyURI, "anyURI", constants.Function10},
	{constants.DatatypeHexBinary, "hexBinary", constants.Function10},
	{constants.DatatypeBase64Binary, "base64Binary", constants.Function10},
	{constants.DatatypeX500Name, "x500Name", constants.Function10},
	{constants.DatatypeRFC822Name, "rfc822Name", constants.Function10},
	{constants.DatatypeIPAddress, "ipAddress", constants.Function20},
	{constants.DatatypeDNSName, "dnsName", constants.Function20},
}
