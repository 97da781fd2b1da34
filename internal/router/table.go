package router

import (
	"errors"
	"fmt"
	"strings"
)

// Kind selects how a rule pattern is compared with a request path.
type Kind int

const (
	// Exact matches the pattern only.
	Exact Kind = iota
	// Prefix matches the pattern and any path below it, segment-wise:
	// "/setup" matches "/setup" and "/setup/x" but not "/setupx".
	Prefix
	// Any matches every path. It must be the last rule of a table.
	Any
)

func (k Kind) String() string {
	switch k {
	case Exact:
		return "exact"
	case Prefix:
		return "prefix"
	case Any:
		return "any"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Rule binds a path pattern to a target.
type Rule[T any] struct {
	Kind    Kind
	Pattern string
	Target  T
}

// ExactRule builds an Exact rule.
func ExactRule[T any](pattern string, target T) Rule[T] {
	return Rule[T]{Kind: Exact, Pattern: pattern, Target: target}
}

// PrefixRule builds a Prefix rule.
func PrefixRule[T any](pattern string, target T) Rule[T] {
	return Rule[T]{Kind: Prefix, Pattern: pattern, Target: target}
}

// AnyRule builds a catch-all rule.
func AnyRule[T any](target T) Rule[T] {
	return Rule[T]{Kind: Any, Target: target}
}

// Matches reports whether the rule accepts path.
func (r Rule[T]) Matches(path string) bool {
	path = normalize(path)
	switch r.Kind {
	case Exact:
		return path == r.Pattern
	case Prefix:
		return covers(r.Pattern, path)
	case Any:
		return true
	}
	return false
}

// Table is an ordered list of rules evaluated top to bottom.
type Table[T any] struct {
	rules []Rule[T]
}

// Errors returned by Validate
var (
	ErrEmptyTable      = errors.New("route table has no rules")
	ErrBadPattern      = errors.New("route pattern must start with /")
	ErrDuplicateRule   = errors.New("route pattern is declared twice")
	ErrOverlappingRule = errors.New("route patterns overlap")
	ErrUnreachableRule = errors.New("route rule follows a catch-all")
)

// NewTable validates rules and returns a table.
func NewTable[T any](rules ...Rule[T]) (*Table[T], error) {
	t := &Table[T]{rules: rules}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// MustTable is NewTable for package-level tables; it panics on invalid rules.
func MustTable[T any](rules ...Rule[T]) *Table[T] {
	t, err := NewTable(rules...)
	if err != nil {
		panic(err)
	}
	return t
}

// Validate checks that every path reaches at most one rule: patterns are
// well formed, distinct, no prefix rule covers another rule's pattern, and a
// catch-all comes last.
func (t *Table[T]) Validate() error {
	if len(t.rules) == 0 {
		return ErrEmptyTable
	}

	for i, r := range t.rules {
		if r.Kind == Any {
			if i != len(t.rules)-1 {
				return fmt.Errorf("%w: rule %d", ErrUnreachableRule, i+1)
			}
			continue
		}
		if !strings.HasPrefix(r.Pattern, "/") {
			return fmt.Errorf("%w: %q", ErrBadPattern, r.Pattern)
		}

		for j, other := range t.rules {
			if j == i || other.Kind == Any {
				continue
			}
			if j > i && r.Pattern == other.Pattern {
				return fmt.Errorf("%w: %q", ErrDuplicateRule, r.Pattern)
			}
			if r.Kind == Prefix && r.Pattern != other.Pattern && covers(r.Pattern, other.Pattern) {
				return fmt.Errorf("%w: %q covers %q", ErrOverlappingRule, r.Pattern, other.Pattern)
			}
		}
	}
	return nil
}

// Match returns the first rule accepting path.
func (t *Table[T]) Match(path string) (Rule[T], bool) {
	for _, r := range t.rules {
		if r.Matches(path) {
			return r, true
		}
	}
	return Rule[T]{}, false
}

// Rules returns a copy of the table's rules in evaluation order.
func (t *Table[T]) Rules() []Rule[T] {
	out := make([]Rule[T], len(t.rules))
	copy(out, t.rules)
	return out
}

// covers reports whether pattern is path or a segment prefix of it.
func covers(pattern, path string) bool {
	if pattern == Root {
		return true
	}
	return path == pattern || strings.HasPrefix(path, pattern+"/")
}

func normalize(path string) string {
	if path == "" {
		return Root
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return Root
		}
	}
	return path
}
