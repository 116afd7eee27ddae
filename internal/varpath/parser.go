package varpath

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// Parse creates a new Address by parsing its canonical string representation.
func Parse(raw string) (Address, error) {
	if raw == "" {
		return Address{}, fmt.Errorf("variable path cannot be empty")
	}

	segments := strings.Split(raw, ".")
	for _, segment := range segments {
		if segment == "" {
			return Address{}, fmt.Errorf("variable path %q contains empty segment", raw)
		}
		if !hclsyntax.ValidIdentifier(segment) {
			return Address{}, fmt.Errorf("invalid path segment %q in %q", segment, raw)
		}
	}

	last := len(segments) - 1
	return New(segments[last], segments[:last]...), nil
}

// MustParse is like Parse but panics on malformed input. Intended for tests
// and static tables.
func MustParse(raw string) Address {
	a, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return a
}
