package varpath

import (
	"slices"
	"strings"
)

// String serializes the Address into its canonical dotted form.
func (a Address) String() string {
	if len(a.Scope) == 0 {
		return a.Name
	}
	var sb strings.Builder
	for _, s := range a.Scope {
		sb.WriteString(s)
		sb.WriteRune('.')
	}
	sb.WriteString(a.Name)
	return sb.String()
}

// Equal checks two addresses for equality.
func (a Address) Equal(other Address) bool {
	return a.Name == other.Name && slices.Equal(a.Scope, other.Scope)
}

// Child returns the address of name inside the scope this address denotes
// when the address itself is read as a scope path.
func (a Address) Child(name string) Address {
	scope := slices.Clone(a.Scope)
	if a.Name != "" {
		scope = append(scope, a.Name)
	}
	return Address{Scope: scope, Name: name}
}
