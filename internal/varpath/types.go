package varpath

// Address is the structured representation of a variable's location in the
// scope hierarchy.
type Address struct {
	// Scope lists the child scope names from the root down, empty for root variables.
	Scope []string
	Name  string
}

// New creates an address for name nested under the given scope path.
func New(name string, scope ...string) Address {
	s := make([]string, len(scope))
	copy(s, scope)
	return Address{Scope: s, Name: name}
}

// IsRoot reports whether the address points into the root scope.
func (a Address) IsRoot() bool {
	return len(a.Scope) == 0
}
