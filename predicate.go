package verdict

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
)

// Set is an unordered requirement: data values must be members.
// Members must be comparable Go values (they are map keys).
type Set map[any]struct{}

// NewSet builds a Set from its members.
func NewSet(members ...any) Set {
	s := make(Set, len(members))
	for _, m := range members {
		s[m] = struct{}{}
	}
	return s
}

// Contains reports set membership.
func (s Set) Contains(v any) bool {
	_, ok := s.memberFor(v)
	return ok
}

// memberFor returns the stored member equal to v. Direct lookup first;
// numeric and uncomparable values fall back to a structural scan so
// that 1 matches a member declared as 1.0.
func (s Set) memberFor(v any) (any, bool) {
	if v == nil || reflect.TypeOf(v).Comparable() {
		if _, ok := s[v]; ok {
			return v, true
		}
	}
	for m := range s {
		if valuesEqual(m, v) {
			return m, true
		}
	}
	return nil, false
}

// sortedMembers returns the members in deterministic (rendered-string)
// order. Go map iteration order would leak into difference output.
func (s Set) sortedMembers() []any {
	members := make([]any, 0, len(s))
	for m := range s {
		members = append(members, m)
	}
	sort.Slice(members, func(i, j int) bool {
		return formatValue(members[i]) < formatValue(members[j])
	})
	return members
}

// Tuple is a fixed-arity requirement or data value. Tuples are always
// treated as single elements, never expanded into groups.
type Tuple []any

// Func is a caller-supplied predicate. It may return a bool, or a
// Difference to report a failure with an explicit difference, or nil
// (treated as a failure). Any other non-nil return is treated as a pass.
type Func func(value any) any

// Predicate is a sealed interface over the fixed set of matching
// strategies a requirement value can compile to. The variant is fixed
// once at compile time from the requirement's own type, never
// re-derived per value.
type Predicate interface {
	predicate() // Sealed - only the variants below implement it

	// Match tests a single value. A failed Callable may carry an
	// explicit difference; diff is nil in every other case.
	Match(value any) (ok bool, diff Difference)

	// mode names the comparison strategy for default error descriptions.
	mode() string
}

// Wildcard always passes. Use it inside tuple requirements to skip a
// position.
type Wildcard struct{}

// Any is the wildcard requirement value.
var Any = Wildcard{}

func (Wildcard) predicate() {}

func (Wildcard) Match(any) (bool, Difference) { return true, nil }

func (Wildcard) mode() string { return "wildcard" }

// Literal matches by structural equality against a fixed value.
type Literal struct {
	Value any
}

func (Literal) predicate() {}

func (p Literal) Match(value any) (bool, Difference) {
	return valuesEqual(value, p.Value), nil
}

func (p Literal) mode() string { return "equality" }

// TypeCheck matches values assignable to a reflect.Type.
type TypeCheck struct {
	Type reflect.Type
}

func (TypeCheck) predicate() {}

func (p TypeCheck) Match(value any) (bool, Difference) {
	if value == nil {
		return false, nil
	}
	return reflect.TypeOf(value).AssignableTo(p.Type), nil
}

func (p TypeCheck) mode() string { return "type check" }

// RegexMatch matches values whose string form contains the pattern.
// Non-string values are rendered with fmt.Sprint before the search.
type RegexMatch struct {
	Pattern *regexp.Regexp
}

func (RegexMatch) predicate() {}

func (p RegexMatch) Match(value any) (bool, Difference) {
	s, ok := value.(string)
	if !ok {
		s = fmt.Sprint(value)
	}
	return p.Pattern.MatchString(s), nil
}

func (p RegexMatch) mode() string { return "regular expression" }

// SetMembership matches values that are members of the set. Against
// group-shaped data the differ switches to multiset semantics instead
// of element-wise matching.
type SetMembership struct {
	Set Set
}

func (SetMembership) predicate() {}

func (p SetMembership) Match(value any) (bool, Difference) {
	return p.Set.Contains(value), nil
}

func (p SetMembership) mode() string { return "set membership" }

// TupleOf matches tuples of equal arity position by position.
type TupleOf struct {
	Elems []Predicate
}

func (TupleOf) predicate() {}

func (p TupleOf) Match(value any) (bool, Difference) {
	tup, ok := value.(Tuple)
	if !ok || len(tup) != len(p.Elems) {
		return false, nil
	}
	for i, sub := range p.Elems {
		if ok, _ := sub.Match(tup[i]); !ok {
			return false, nil
		}
	}
	return true, nil
}

func (p TupleOf) mode() string { return "tuple pattern" }

// Callable delegates matching to a caller-supplied function.
type Callable struct {
	Fn Func
}

func (Callable) predicate() {}

func (p Callable) Match(value any) (bool, Difference) {
	switch ret := p.Fn(value).(type) {
	case nil:
		return false, nil
	case bool:
		return ret, nil
	case Difference:
		// An explicit difference return is a failure carrying that
		// difference.
		return false, ret
	default:
		// Truthy non-difference return.
		return true, nil
	}
}

func (p Callable) mode() string { return "predicate function" }

// Compile classifies a requirement value into its matching strategy.
// Dispatch is most-specific first; each requirement value routes to
// exactly one variant. A Difference used as a requirement is a
// configuration error, not a matchable value.
func Compile(requirement any) (Predicate, error) {
	switch req := requirement.(type) {
	case Difference:
		return nil, newConfigError(ErrCodeBadRequirement,
			fmt.Sprintf("difference %s cannot be used as a requirement", req))
	case Predicate:
		// Already compiled (e.g. Any, or a nested TupleOf).
		return req, nil
	case Tuple:
		elems := make([]Predicate, len(req))
		for i, sub := range req {
			p, err := Compile(sub)
			if err != nil {
				return nil, err
			}
			elems[i] = p
		}
		return TupleOf{Elems: elems}, nil
	case *regexp.Regexp:
		return RegexMatch{Pattern: req}, nil
	case reflect.Type:
		return TypeCheck{Type: req}, nil
	case Set:
		return SetMembership{Set: req}, nil
	case Func:
		return Callable{Fn: req}, nil
	case func(any) any:
		return Callable{Fn: req}, nil
	case func(any) bool:
		return Callable{Fn: func(v any) any { return req(v) }}, nil
	default:
		return Literal{Value: requirement}, nil
	}
}
