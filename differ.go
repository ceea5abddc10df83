package verdict

import "fmt"

// compare runs the comparison algorithm for the classified data and
// requirement shapes. It returns the accumulated collection (empty on
// success) plus the comparison-mode word used for default error
// descriptions. Shape incompatibility returns a ConfigError, never a
// difference.
func compare(data, requirement any) (*Collection, string, error) {
	switch {
	case isMappingRequirement(requirement):
		dataShape := classify(data)
		if !isMappingShape(dataShape) {
			return nil, "", newConfigError(ErrCodeShapeMismatch,
				fmt.Sprintf("mapping requirement applied to %s data", dataShape))
		}
		keyed, err := compareMapping(data, requirement)
		if err != nil {
			return nil, "", err
		}
		return keyed, "mapping requirement", nil

	case isSequenceRequirement(requirement):
		elems, ok := groupElements(data)
		if !ok {
			return nil, "", newConfigError(ErrCodeShapeMismatch,
				fmt.Sprintf("ordered sequence requirement applied to %s data", classify(data)))
		}
		reqElems, _ := groupElements(requirement)
		return newListCollection(diffSequence(elems, reqElems)), "ordered sequence", nil

	default:
		pred, err := Compile(requirement)
		if err != nil {
			return nil, "", err
		}
		switch classify(data) {
		case ShapeGroup:
			elems, _ := groupElements(data)
			if sm, ok := pred.(SetMembership); ok {
				return newListCollection(diffGroupSet(elems, sm.Set)), pred.mode(), nil
			}
			return newListCollection(broadcast(elems, pred)), pred.mode(), nil

		case ShapeMapping, ShapeMappingOfGroups:
			// Element requirement broadcast across mapping values.
			entries, _ := mappingEntries(data)
			keyed := make(map[any][]Difference)
			for _, kv := range entries {
				diffs, err := compareValue(kv.value, requirement)
				if err != nil {
					return nil, "", err
				}
				if len(diffs) > 0 {
					keyed[kv.key] = diffs
				}
			}
			return newKeyedCollection(keyed), pred.mode(), nil

		default: // ShapeElement
			var diffs []Difference
			if d := compareElement(data, pred, requirement, true); d != nil {
				diffs = append(diffs, d)
			}
			return newListCollection(diffs), pred.mode(), nil
		}
	}
}

// isMappingRequirement reports whether the requirement is a mapping.
func isMappingRequirement(requirement any) bool {
	_, ok := mappingEntries(requirement)
	return ok
}

// isSequenceRequirement reports whether the requirement is an ordered
// sequence. Sets are not sequences (they compile to SetMembership) and
// tuples are elements.
func isSequenceRequirement(requirement any) bool {
	if _, ok := requirement.(Set); ok {
		return false
	}
	switch requirement.(type) {
	case string, Tuple:
		return false
	}
	_, ok := groupElements(requirement)
	return ok
}

// compareMapping compares mapping-shaped data against a mapping
// requirement key by key over the union of both key sets.
func compareMapping(data, requirement any) (*Collection, error) {
	dataEntries, _ := mappingEntries(data)
	reqEntries, _ := mappingEntries(requirement)

	dm := make(map[any]any, len(dataEntries))
	for _, kv := range dataEntries {
		dm[kv.key] = kv.value
	}
	rm := make(map[any]any, len(reqEntries))
	for _, kv := range reqEntries {
		rm[kv.key] = kv.value
	}

	keyed := make(map[any][]Difference)

	for _, kv := range reqEntries {
		dv, present := dm[kv.key]
		if !present {
			keyed[kv.key] = missingFor(kv.value)
			continue
		}
		diffs, err := compareValue(dv, kv.value)
		if err != nil {
			return nil, err
		}
		if len(diffs) > 0 {
			keyed[kv.key] = diffs
		}
	}

	for _, kv := range dataEntries {
		if _, sanctioned := rm[kv.key]; !sanctioned {
			keyed[kv.key] = extraFor(kv.value)
		}
	}

	return newKeyedCollection(keyed), nil
}

// missingFor builds the differences for a requirement value whose key
// is absent from the data. Group-shaped values decompose into one
// Missing per element, matching the group algorithm run against an
// empty group.
func missingFor(reqVal any) []Difference {
	if set, ok := reqVal.(Set); ok {
		return diffGroupSet(nil, set)
	}
	if isSequenceRequirement(reqVal) {
		elems, _ := groupElements(reqVal)
		return diffSequence(nil, elems)
	}
	return []Difference{Missing{Value: reqVal}}
}

// extraFor builds the differences for a data value whose key is not
// sanctioned by the requirement.
func extraFor(dataVal any) []Difference {
	if elems, ok := groupElements(dataVal); ok {
		diffs := make([]Difference, len(elems))
		for i, e := range elems {
			diffs[i] = Extra{Value: e}
		}
		return diffs
	}
	return []Difference{Extra{Value: dataVal}}
}

// compareValue compares one data value against one requirement value,
// recursing into the group algorithms when the requirement is a set or
// sequence. Used per key inside mapping comparisons and for broadcast
// over mapping values.
func compareValue(dataVal, reqVal any) ([]Difference, error) {
	switch {
	case isMappingRequirement(reqVal):
		return nil, newConfigError(ErrCodeShapeMismatch,
			"nested mapping requirements are not supported")

	case isSequenceRequirement(reqVal):
		elems, ok := groupElements(dataVal)
		if !ok {
			return nil, newConfigError(ErrCodeShapeMismatch,
				fmt.Sprintf("ordered sequence requirement applied to %s value", classify(dataVal)))
		}
		reqElems, _ := groupElements(reqVal)
		return diffSequence(elems, reqElems), nil

	default:
		pred, err := Compile(reqVal)
		if err != nil {
			return nil, err
		}
		if sm, ok := pred.(SetMembership); ok {
			if elems, isGroup := groupElements(dataVal); isGroup {
				return diffGroupSet(elems, sm.Set), nil
			}
		}
		if elems, isGroup := groupElements(dataVal); isGroup {
			return broadcast(elems, pred), nil
		}
		if d := compareElement(dataVal, pred, reqVal, true); d != nil {
			return []Difference{d}, nil
		}
		return nil, nil
	}
}

// compareElement runs one element-level comparison. Numeric mismatches
// against a literal requirement produce a Deviation; everything else
// produces an Invalid, with the expected side attached only when
// withExpected is set (broadcast failures carry the value alone).
func compareElement(val any, pred Predicate, reqVal any, withExpected bool) Difference {
	ok, carried := pred.Match(val)
	if ok {
		return nil
	}
	if carried != nil {
		return carried
	}
	if _, isLiteral := pred.(Literal); isLiteral {
		if dev, handled := deviationFor(val, reqVal); handled {
			return dev
		}
	}
	if withExpected {
		return Invalid{Value: val, Expected: reqVal}
	}
	return Invalid{Value: val}
}

// deviationFor computes deviation arithmetic for a failed literal
// comparison. nil and "" coerce to zero; at least one side must be
// genuinely numeric. handled is true when the deviation rules applied
// at all; the difference is nil when the post-coercion delta is zero.
func deviationFor(actual, expected any) (Difference, bool) {
	af, aok := coerceNumeric(actual)
	ef, eok := coerceNumeric(expected)
	if !aok || !eok {
		return nil, false
	}
	_, aNum := toFloat(actual)
	_, eNum := toFloat(expected)
	if !aNum && !eNum {
		// nil vs "" is an invalid value, not a zero deviation.
		return nil, false
	}
	delta := af - ef
	if delta == 0 {
		return nil, true
	}
	return Deviation{Delta: delta, Expected: ef}, true
}

// diffGroupSet compares a group against a set requirement with multiset
// semantics: one Extra per offending occurrence (first-seen order), one
// Missing per required member that never occurs (deterministic member
// order). Occurrence counts of members present in the set are not
// checked.
func diffGroupSet(elems []any, set Set) []Difference {
	matched := make(map[any]bool, len(set))
	var extras []Difference
	for _, v := range elems {
		if member, ok := set.memberFor(v); ok {
			matched[member] = true
		} else {
			extras = append(extras, Extra{Value: v})
		}
	}
	var diffs []Difference
	for _, m := range set.sortedMembers() {
		if !matched[m] {
			diffs = append(diffs, Missing{Value: m})
		}
	}
	return append(diffs, extras...)
}

// broadcast applies an element predicate to every group element in
// original order. Duplicates are preserved; failures carry the value
// alone unless the predicate returned an explicit difference.
func broadcast(elems []any, pred Predicate) []Difference {
	var diffs []Difference
	for _, v := range elems {
		if d := compareElement(v, pred, nil, false); d != nil {
			diffs = append(diffs, d)
		}
	}
	return diffs
}
