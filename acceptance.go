package verdict

import (
	"fmt"
	"reflect"

	"golang.org/x/text/unicode/norm"
)

// Tier orders acceptance evaluation. Element-wise predicates run
// against the original collection, group-wise predicates against the
// residue of tier one, whole-collection predicates against the residue
// of tiers one and two.
type Tier int

const (
	// TierElement accepts individual differences on their own merits.
	TierElement Tier = 1

	// TierGroup accepts against an explicit declared group of expected
	// differences, each consumable at most once.
	TierGroup Tier = 2

	// TierCollection accepts based on what remains of the whole
	// collection after the lower tiers ran.
	TierCollection Tier = 3
)

// Acceptance is a composable predicate over (key, difference) pairs,
// used to suppress acceptable differences from a ValidationError.
// Acceptances are immutable and may be reused across validations.
type Acceptance interface {
	acceptance() // Sealed - constructed only through this package

	// Tier returns the evaluation tier. Composites report the highest
	// tier among their operands.
	Tier() Tier

	fmt.Stringer
}

// elementAcceptance is the tier-1 leaf contract: a pure predicate over
// one (key, difference) pair.
type elementAcceptance interface {
	Acceptance
	accepts(key any, d Difference) bool
}

// ByType accepts every difference of the same concrete type as the
// sample: ByType(Missing{}) accepts all Missing differences.
func ByType(sample Difference) Acceptance {
	return typeAcceptance{t: reflect.TypeOf(sample)}
}

type typeAcceptance struct {
	t reflect.Type
}

func (typeAcceptance) acceptance() {}

func (typeAcceptance) Tier() Tier { return TierElement }

func (a typeAcceptance) accepts(_ any, d Difference) bool {
	return reflect.TypeOf(d) == a.t
}

func (a typeAcceptance) String() string {
	return fmt.Sprintf("ByType(%s)", a.t.Name())
}

// ByDifference accepts every difference structurally equal to the
// declared one, without limit. Use Specific to consume declared
// differences at most once each.
func ByDifference(declared Difference) Acceptance {
	return diffAcceptance{declared: declared}
}

type diffAcceptance struct {
	declared Difference
}

func (diffAcceptance) acceptance() {}

func (diffAcceptance) Tier() Tier { return TierElement }

func (a diffAcceptance) accepts(_ any, d Difference) bool {
	return EqualDifferences(d, a.declared)
}

func (a diffAcceptance) String() string {
	return fmt.Sprintf("ByDifference(%s)", a.declared)
}

// ByKey accepts differences whose key matches the requirement, compiled
// with the same dispatch rules as Validate requirements. Panics with a
// ConfigError if the requirement cannot compile.
func ByKey(requirement any) Acceptance {
	pred, err := Compile(requirement)
	if err != nil {
		panic(err)
	}
	return keyAcceptance{pred: pred}
}

type keyAcceptance struct {
	pred Predicate
}

func (keyAcceptance) acceptance() {}

func (keyAcceptance) Tier() Tier { return TierElement }

func (a keyAcceptance) accepts(key any, _ Difference) bool {
	ok, _ := a.pred.Match(key)
	return ok
}

func (a keyAcceptance) String() string { return "ByKey" }

// ByArgs accepts differences whose argument tuple matches the
// requirement. A single requirement matches one-argument differences;
// a Tuple requirement matches position by position, with Any as a
// wildcard. Panics with a ConfigError if the requirement cannot compile.
func ByArgs(requirement any) Acceptance {
	tup, ok := requirement.(Tuple)
	if !ok {
		tup = Tuple{requirement}
	}
	pred, err := Compile(tup)
	if err != nil {
		panic(err)
	}
	return argsAcceptance{pred: pred}
}

type argsAcceptance struct {
	pred Predicate
}

func (argsAcceptance) acceptance() {}

func (argsAcceptance) Tier() Tier { return TierElement }

func (a argsAcceptance) accepts(_ any, d Difference) bool {
	ok, _ := a.pred.Match(Tuple(d.args()))
	return ok
}

func (a argsAcceptance) String() string { return "ByArgs" }

// ByTolerance accepts deviations within the symmetric window
// -tolerance <= delta <= +tolerance. Panics if tolerance is negative.
func ByTolerance(tolerance float64) Acceptance {
	if tolerance < 0 {
		panic(newConfigError(ErrCodeBadAcceptance,
			fmt.Sprintf("tolerance must not be negative: %v", tolerance)))
	}
	return ByToleranceRange(-tolerance, tolerance)
}

// ByToleranceRange accepts deviations within lower <= delta <= upper.
// Panics if lower > upper.
func ByToleranceRange(lower, upper float64) Acceptance {
	if lower > upper {
		panic(newConfigError(ErrCodeBadAcceptance,
			fmt.Sprintf("tolerance lower bound %v exceeds upper bound %v", lower, upper)))
	}
	return toleranceAcceptance{lower: lower, upper: upper}
}

type toleranceAcceptance struct {
	lower, upper float64
}

func (toleranceAcceptance) acceptance() {}

func (toleranceAcceptance) Tier() Tier { return TierElement }

func (a toleranceAcceptance) accepts(_ any, d Difference) bool {
	dev, ok := d.(Deviation)
	if !ok {
		return false
	}
	return a.lower <= dev.Delta && dev.Delta <= a.upper
}

func (a toleranceAcceptance) String() string {
	return fmt.Sprintf("ByTolerance(%s, %s)", formatFloat(a.lower), formatFloat(a.upper))
}

// ByPercent accepts deviations within the symmetric percent-of-expected
// window. percent is a ratio: 0.05 accepts deltas within five percent
// of the expected value. Panics if percent is negative.
func ByPercent(percent float64) Acceptance {
	if percent < 0 {
		panic(newConfigError(ErrCodeBadAcceptance,
			fmt.Sprintf("percent must not be negative: %v", percent)))
	}
	return ByPercentRange(-percent, percent)
}

// ByPercentRange accepts deviations where lower <= delta/expected <= upper.
// A zero expected value accepts nothing (the ratio is undefined and a
// Deviation's delta is never zero). Panics if lower > upper.
func ByPercentRange(lower, upper float64) Acceptance {
	if lower > upper {
		panic(newConfigError(ErrCodeBadAcceptance,
			fmt.Sprintf("percent lower bound %v exceeds upper bound %v", lower, upper)))
	}
	return percentAcceptance{lower: lower, upper: upper}
}

type percentAcceptance struct {
	lower, upper float64
}

func (percentAcceptance) acceptance() {}

func (percentAcceptance) Tier() Tier { return TierElement }

func (a percentAcceptance) accepts(_ any, d Difference) bool {
	dev, ok := d.(Deviation)
	if !ok {
		return false
	}
	if dev.Expected == 0 {
		return false
	}
	ratio := dev.Delta / dev.Expected
	return a.lower <= ratio && ratio <= a.upper
}

func (a percentAcceptance) String() string {
	return fmt.Sprintf("ByPercent(%s, %s)", formatFloat(a.lower), formatFloat(a.upper))
}

// ByFuzzy accepts Invalid differences whose string value is similar to
// the expected string, using a longest-common-subsequence ratio over
// NFC-normalized text. cutoff is the minimum similarity in [0, 1].
// Panics if cutoff is outside that range.
func ByFuzzy(cutoff float64) Acceptance {
	if cutoff < 0 || cutoff > 1 {
		panic(newConfigError(ErrCodeBadAcceptance,
			fmt.Sprintf("fuzzy cutoff must be in [0, 1]: %v", cutoff)))
	}
	return fuzzyAcceptance{cutoff: cutoff}
}

type fuzzyAcceptance struct {
	cutoff float64
}

func (fuzzyAcceptance) acceptance() {}

func (fuzzyAcceptance) Tier() Tier { return TierElement }

func (a fuzzyAcceptance) accepts(_ any, d Difference) bool {
	inv, ok := d.(Invalid)
	if !ok {
		return false
	}
	value, vok := inv.Value.(string)
	expected, eok := inv.Expected.(string)
	if !vok || !eok {
		return false
	}
	return fuzzyRatio(value, expected) >= a.cutoff
}

func (a fuzzyAcceptance) String() string {
	return fmt.Sprintf("ByFuzzy(%s)", formatFloat(a.cutoff))
}

// fuzzyRatio computes 2*M/T string similarity where M is the length of
// the longest common subsequence and T the total length, after NFC
// normalization. Identical strings score 1, disjoint strings 0.
func fuzzyRatio(a, b string) float64 {
	ar := []rune(norm.NFC.String(a))
	br := []rune(norm.NFC.String(b))
	if len(ar) == 0 && len(br) == 0 {
		return 1
	}
	if len(ar) == 0 || len(br) == 0 {
		return 0
	}

	prev := make([]int, len(br)+1)
	curr := make([]int, len(br)+1)
	for i := 1; i <= len(ar); i++ {
		for j := 1; j <= len(br); j++ {
			if ar[i-1] == br[j-1] {
				curr[j] = prev[j-1] + 1
			} else {
				curr[j] = max(prev[j], curr[j-1])
			}
		}
		prev, curr = curr, prev
	}
	matched := prev[len(br)]
	return 2 * float64(matched) / float64(len(ar)+len(br))
}

// Specific accepts differences declared explicitly by the caller, each
// declared entry consumable at most once. declared is either a
// []Difference (for list-shaped collections) or a map of key to
// Difference or []Difference (for mapping-shaped collections).
// Declared entries with no match in the actual collection are silently
// ignored. Panics with a ConfigError on any other declared type.
func Specific(declared any) Acceptance {
	switch decl := declared.(type) {
	case []Difference:
		return specificAcceptance{list: decl}
	case map[any][]Difference:
		keyed := make([]keyedDeclaration, 0, len(decl))
		for k, diffs := range decl {
			keyed = append(keyed, keyedDeclaration{key: k, diffs: diffs})
		}
		return specificAcceptance{keyed: keyed}
	case map[any]Difference:
		keyed := make([]keyedDeclaration, 0, len(decl))
		for k, d := range decl {
			keyed = append(keyed, keyedDeclaration{key: k, diffs: []Difference{d}})
		}
		return specificAcceptance{keyed: keyed}
	default:
		panic(newConfigError(ErrCodeBadAcceptance,
			fmt.Sprintf("specific acceptance requires []Difference or a difference map, got %T", declared)))
	}
}

type keyedDeclaration struct {
	key   any
	diffs []Difference
}

type specificAcceptance struct {
	list  []Difference
	keyed []keyedDeclaration
}

func (specificAcceptance) acceptance() {}

func (specificAcceptance) Tier() Tier { return TierGroup }

func (a specificAcceptance) String() string { return "Specific" }

// ByCount accepts up to n differences of any kind from whatever remains
// after lower tiers were applied. Panics if n is negative.
func ByCount(n int) Acceptance {
	if n < 0 {
		panic(newConfigError(ErrCodeBadAcceptance,
			fmt.Sprintf("count must not be negative: %d", n)))
	}
	return countAcceptance{n: n}
}

type countAcceptance struct {
	n int
}

func (countAcceptance) acceptance() {}

func (countAcceptance) Tier() Tier { return TierCollection }

func (a countAcceptance) String() string {
	return fmt.Sprintf("ByCount(%d)", a.n)
}

// And intersects acceptances: a difference is accepted only if every
// operand accepts it. Operands evaluate narrowest tier first, each
// against the set the previous operand accepted.
func And(operands ...Acceptance) Acceptance {
	return combine(operands, func(left, right Acceptance) Acceptance {
		return andAcceptance{left: left, right: right}
	})
}

// Or unions acceptances: a difference is accepted if any operand
// accepts it. Operands evaluate narrowest tier first, each against the
// remainder the previous operand rejected.
func Or(operands ...Acceptance) Acceptance {
	return combine(operands, func(left, right Acceptance) Acceptance {
		return orAcceptance{left: left, right: right}
	})
}

func combine(operands []Acceptance, pair func(left, right Acceptance) Acceptance) Acceptance {
	if len(operands) == 0 {
		panic(newConfigError(ErrCodeBadAcceptance, "combinator requires at least one operand"))
	}
	acc := operands[0]
	for _, next := range operands[1:] {
		acc = pair(acc, next)
	}
	return acc
}

type andAcceptance struct {
	left, right Acceptance
}

func (andAcceptance) acceptance() {}

func (a andAcceptance) Tier() Tier { return maxTier(a.left, a.right) }

func (a andAcceptance) String() string {
	return fmt.Sprintf("And(%s, %s)", a.left, a.right)
}

type orAcceptance struct {
	left, right Acceptance
}

func (orAcceptance) acceptance() {}

func (a orAcceptance) Tier() Tier { return maxTier(a.left, a.right) }

func (a orAcceptance) String() string {
	return fmt.Sprintf("Or(%s, %s)", a.left, a.right)
}

func maxTier(a, b Acceptance) Tier {
	if a.Tier() >= b.Tier() {
		return a.Tier()
	}
	return b.Tier()
}

// tierOrdered returns the operands of a composite narrowest tier first.
// Stable: equal tiers keep declaration order.
func tierOrdered(left, right Acceptance) (lo, hi Acceptance) {
	if right.Tier() < left.Tier() {
		return right, left
	}
	return left, right
}
