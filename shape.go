package verdict

import (
	"reflect"
	"regexp"
)

// Shape is the structural classification of a data or requirement
// object. The shape decides which comparison algorithm runs and whether
// the resulting collection is list- or mapping-shaped.
type Shape int

const (
	// ShapeElement is a single value: scalars, strings, tuples, and
	// predicate-like requirement values.
	ShapeElement Shape = iota

	// ShapeGroup is a non-mapping iterable of elements.
	ShapeGroup

	// ShapeMapping is a mapping whose values are all elements.
	ShapeMapping

	// ShapeMappingOfGroups is a mapping with at least one group value.
	ShapeMappingOfGroups
)

// String implements fmt.Stringer.
func (s Shape) String() string {
	switch s {
	case ShapeElement:
		return "element"
	case ShapeGroup:
		return "group"
	case ShapeMapping:
		return "mapping"
	case ShapeMappingOfGroups:
		return "mapping of groups"
	default:
		return "unknown"
	}
}

// classify determines the shape of a data or requirement object.
//
// Strings and tuples are always elements, never auto-expanded,
// regardless of iterability. Predicate-like values (compiled
// predicates, regexes, types, funcs) are elements. Sets classify as
// groups on the data side; on the requirement side Compile claims them
// first as SetMembership predicates.
func classify(obj any) Shape {
	switch obj.(type) {
	case nil, string, Tuple, Predicate, *regexp.Regexp, reflect.Type, Func:
		return ShapeElement
	case Set:
		return ShapeGroup
	}

	rv := reflect.ValueOf(obj)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return ShapeGroup
	case reflect.Func:
		return ShapeElement
	case reflect.Map:
		for iter := rv.MapRange(); iter.Next(); {
			val := iter.Value().Interface()
			if sub := classify(val); sub == ShapeGroup {
				return ShapeMappingOfGroups
			}
		}
		return ShapeMapping
	default:
		return ShapeElement
	}
}

// isMappingShape reports whether a shape is mapping-like.
func isMappingShape(s Shape) bool {
	return s == ShapeMapping || s == ShapeMappingOfGroups
}

// groupElements materializes a group-shaped value into a slice of
// elements. Sets materialize in deterministic member order.
func groupElements(obj any) ([]any, bool) {
	if s, ok := obj.(Set); ok {
		return s.sortedMembers(), true
	}
	switch obj.(type) {
	case nil, string, Tuple:
		return nil, false
	}
	rv := reflect.ValueOf(obj)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// keyValue is one entry of a materialized mapping.
type keyValue struct {
	key   any
	value any
}

// mappingEntries materializes any map kind into key/value pairs.
// Order is not significant; callers sort when determinism matters.
func mappingEntries(obj any) ([]keyValue, bool) {
	rv := reflect.ValueOf(obj)
	if !rv.IsValid() || rv.Kind() != reflect.Map {
		return nil, false
	}
	out := make([]keyValue, 0, rv.Len())
	for iter := rv.MapRange(); iter.Next(); {
		out = append(out, keyValue{key: iter.Key().Interface(), value: iter.Value().Interface()})
	}
	return out, true
}
