package values

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/dtc-forks/authzforce-core/constants"
)

// HexBinary is an xs:hexBinary attribute value.
type HexBinary []byte

func (HexBinary) DatatypeID() string { return constants.DatatypeHexBinary }
func (v HexBinary) String() string   { return strings.ToUpper(hex.EncodeToString(v)) }
func (v HexBinary) Equal(o Value) bool {
	w, ok := o.(HexBinary)
	return ok && bytes.Equal(v, w)
}

// Base64Binary is an xs:base64Binary attribute value.
type Base64Binary []byte

func (Base64Binary) DatatypeID() string { return constants.DatatypeBase64Binary }
func (v Base64Binary) String() string   { return base64.StdEncoding.EncodeToString(v) }
func (v Base64Binary) Equal(o Value) bool {
	w, ok := o.(Base64Binary)
	return ok && bytes.Equal(v, w)
}

func parseHexBinary(s string) (Value, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hexBinary literal %q", s)
	}
	return HexBinary(b), nil
}

func parseBase64Binary(s string) (Value, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base64Binary literal %q", s)
	}
	return Base64Binary(b), nil
}
