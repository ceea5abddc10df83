// Package verdict is a structural data-validation engine.
//
// Given a piece of data and a requirement, Validate determines whether
// the data satisfies the requirement and, if not, returns a
// ValidationError carrying a precise collection of typed differences:
//
//   - Missing: a required value absent from the data
//   - Extra: a data value not sanctioned by the requirement
//   - Invalid: a value that failed a predicate, equality, or type test
//   - Deviation: a numeric mismatch carrying the signed delta
//
// The comparison strategy is chosen from the types of both sides. A set
// requirement checks membership with multiset semantics, a slice
// requirement checks order-sensitive alignment, a map requirement
// compares key by key, and everything else compiles to a single-value
// Predicate that is broadcast across group-shaped data.
//
// # Acceptances
//
// A second layer lets callers declare which differences are acceptable.
// Acceptances are composable predicates over (key, difference) pairs:
//
//	acc := verdict.Or(
//	    verdict.ByType(verdict.Missing{}),
//	    verdict.ByTolerance(3),
//	)
//	err := verdict.Accept(acc).Do(func() error {
//	    return verdict.Validate(data, requirement)
//	})
//
// Accepted differences are suppressed; if any differences remain the
// guard returns a new ValidationError carrying exactly the residue.
// Errors other than ValidationError pass through unmodified.
//
// Acceptances are evaluated in tiers: element-wise predicates run
// against the original collection, group-wise ("specific") predicates
// against the residue of tier one, and whole-collection predicates
// (ByCount) against the residue of tiers one and two. The ordering is
// load-bearing: And(ByType(Missing{}), ByCount(5)) counts only the
// Missing differences against the limit.
//
// # Purity
//
// Validate, the differ, and Apply are pure functions over read-only
// snapshots of their inputs. There is no shared mutable state, so
// concurrent callers may validate independently without coordination.
package verdict
