package verdict

import "errors"

// Apply splits a collection into the differences the acceptance accepts
// and the differences that remain. Both results have the same shape as
// the input collection and preserve its order.
//
// Evaluation proceeds tier by tier, narrowest first: element-wise
// predicates see the original collection, group-wise predicates the
// residue of tier one, whole-collection predicates the residue of tiers
// one and two.
func Apply(acc Acceptance, c *Collection) (accepted, remaining *Collection) {
	acceptedItems, remainingItems := applyEntries(acc, c.entries())
	return c.fromEntries(acceptedItems), c.fromEntries(remainingItems)
}

func applyEntries(acc Acceptance, items []entry) (accepted, remaining []entry) {
	switch a := acc.(type) {
	case andAcceptance:
		// Intersection: the higher tier filters only what the lower tier
		// already accepted, so ByCount counts post-filter residue.
		lo, hi := tierOrdered(a.left, a.right)
		accLo, remLo := applyEntries(lo, items)
		accHi, remHi := applyEntries(hi, accLo)
		return accHi, mergeByOrd(remLo, remHi)

	case orAcceptance:
		// Union: the higher tier sees only what the lower tier rejected.
		lo, hi := tierOrdered(a.left, a.right)
		accLo, remLo := applyEntries(lo, items)
		accHi, remHi := applyEntries(hi, remLo)
		return mergeByOrd(accLo, accHi), remHi

	case specificAcceptance:
		return applySpecific(a, items)

	case countAcceptance:
		if len(items) <= a.n {
			return items, nil
		}
		return items[:a.n], items[a.n:]

	case elementAcceptance:
		for _, it := range items {
			if a.accepts(it.key, it.diff) {
				accepted = append(accepted, it)
			} else {
				remaining = append(remaining, it)
			}
		}
		return accepted, remaining

	default:
		// Sealed interface; unreachable unless a variant is added
		// without updating this switch.
		return nil, items
	}
}

// applySpecific matches entries against the declared differences,
// consuming each declared entry at most once. Declared entries with no
// match are ignored. The acceptance itself is never mutated, so it can
// be reused across validations.
func applySpecific(a specificAcceptance, items []entry) (accepted, remaining []entry) {
	if a.list != nil {
		used := make([]bool, len(a.list))
		for _, it := range items {
			if consume(a.list, used, it.diff) {
				accepted = append(accepted, it)
			} else {
				remaining = append(remaining, it)
			}
		}
		return accepted, remaining
	}

	used := make([][]bool, len(a.keyed))
	for i, decl := range a.keyed {
		used[i] = make([]bool, len(decl.diffs))
	}
	for _, it := range items {
		matched := false
		for i, decl := range a.keyed {
			if !valuesEqual(decl.key, it.key) {
				continue
			}
			if consume(decl.diffs, used[i], it.diff) {
				matched = true
			}
			break
		}
		if matched {
			accepted = append(accepted, it)
		} else {
			remaining = append(remaining, it)
		}
	}
	return accepted, remaining
}

// consume marks the first unused declared difference equal to d.
func consume(declared []Difference, used []bool, d Difference) bool {
	for i, decl := range declared {
		if !used[i] && EqualDifferences(decl, d) {
			used[i] = true
			return true
		}
	}
	return false
}

// mergeByOrd merges two ord-sorted entry slices back into collection
// order.
func mergeByOrd(a, b []entry) []entry {
	out := make([]entry, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i].ord <= b[j].ord {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}

// Guard installs an acceptance around a validation block.
type Guard struct {
	acc Acceptance
}

// Accept builds a scoped guard for an acceptance. The guard intercepts
// only ValidationError; configuration errors and unrelated errors from
// the guarded block propagate unmodified.
func Accept(acc Acceptance) *Guard {
	return &Guard{acc: acc}
}

// Do runs fn under the guard. A ValidationError returned by fn is
// filtered through the acceptance: fully accepted errors are
// suppressed, otherwise a new ValidationError carrying exactly the
// remaining differences replaces the original. If fn returns no error
// the guard is a no-op.
func (g *Guard) Do(fn func() error) error {
	return g.Filter(fn())
}

// Filter applies the guard's acceptance to an already-raised error.
// Non-validation errors (including nil) pass through unchanged.
func (g *Guard) Filter(err error) error {
	if err == nil {
		return nil
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	_, remaining := Apply(g.acc, verr.Differences)
	if remaining.Empty() {
		return nil
	}
	return &ValidationError{Description: verr.Description, Differences: remaining}
}
