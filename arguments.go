package msgformat

// Arguments is the set of values substituted into a message pattern.
// Implementations are either positional (List) or named (Map).
type Arguments interface {
	// IsEmpty reports whether no arguments were supplied
	IsEmpty() bool
}

// List holds positional arguments, substituted by index ({0}, {1}, ...).
type List []any

var _ Arguments = List(nil)

func (l List) IsEmpty() bool {
	return len(l) == 0
}

// Map holds named arguments, substituted by placeholder name ({count}, {name}).
type Map map[string]any

var _ Arguments = Map(nil)

func (m Map) IsEmpty() bool {
	return len(m) == 0
}

// None is the canonical empty argument set.
var None Arguments = List(nil)

// ArgumentResolver transforms arguments before substitution. The default
// used by MessageFormatter is the identity function.
type ArgumentResolver func(args Arguments, locale string) Arguments
