// Package graphid encodes internal raw ids into the opaque, type-scoped
// global identifiers exposed in webhook payloads.
package graphid

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var ErrMalformedID = errors.New("malformed global id")

// Encoder produces deterministic global ids: base64("TypeName:rawID").
// The zero value is ready to use.
type Encoder struct{}

func (Encoder) Encode(typeName string, rawID any) string {
	return base64.StdEncoding.EncodeToString(fmt.Appendf(nil, "%s:%v", typeName, rawID))
}

// Decode splits a global id back into its type name and raw id string.
func Decode(globalID string) (typeName, rawID string, err error) {
	raw, err := base64.StdEncoding.DecodeString(globalID)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrMalformedID, err)
	}
	typeName, rawID, ok := strings.Cut(string(raw), ":")
	if !ok {
		return "", "", fmt.Errorf("%w: missing type separator", ErrMalformedID)
	}
	return typeName, rawID, nil
}
