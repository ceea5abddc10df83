package verdict

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Difference is a sealed interface representing one validation mismatch.
// Only Missing, Extra, Invalid, and Deviation implement it.
//
// Differences support structural equality (value equality, not identity)
// so they can be matched against explicitly declared acceptances.
type Difference interface {
	difference() // Sealed - only these types implement it

	// args returns the argument tuple of the difference. Two differences
	// are equal iff they have the same concrete type and equal args.
	args() []any

	fmt.Stringer
}

// Missing indicates a required value was absent from the data.
type Missing struct {
	Value any
}

func (Missing) difference() {}

func (d Missing) args() []any { return []any{d.Value} }

func (d Missing) String() string {
	return fmt.Sprintf("Missing(%s)", formatValue(d.Value))
}

// Extra indicates a data value not sanctioned by the requirement.
type Extra struct {
	Value any
}

func (Extra) difference() {}

func (d Extra) args() []any { return []any{d.Value} }

func (d Extra) String() string {
	return fmt.Sprintf("Extra(%s)", formatValue(d.Value))
}

// Invalid indicates a value that failed a predicate, equality, or type
// test. Expected is optional: broadcast comparisons over groups omit it.
type Invalid struct {
	Value    any
	Expected any
}

func (Invalid) difference() {}

func (d Invalid) args() []any {
	if d.Expected == nil {
		return []any{d.Value}
	}
	return []any{d.Value, d.Expected}
}

func (d Invalid) String() string {
	if d.Expected == nil {
		return fmt.Sprintf("Invalid(%s)", formatValue(d.Value))
	}
	return fmt.Sprintf("Invalid(%s, expected %s)", formatValue(d.Value), formatValue(d.Expected))
}

// Deviation indicates a numeric mismatch. Delta is actual minus expected
// after nil/empty-string values are coerced to zero. A zero delta is
// never a difference, so Delta is always non-zero.
type Deviation struct {
	Delta    float64
	Expected float64
}

func (Deviation) difference() {}

func (d Deviation) args() []any { return []any{d.Delta, d.Expected} }

func (d Deviation) String() string {
	return fmt.Sprintf("Deviation(%s, %s)", formatSigned(d.Delta), formatFloat(d.Expected))
}

// EqualDifferences reports whether two differences are structurally
// equal: same concrete type and equal argument tuples. Numeric args
// compare by value across int/float widths.
func EqualDifferences(a, b Difference) bool {
	if a == nil || b == nil {
		return a == b
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	aArgs, bArgs := a.args(), b.args()
	if len(aArgs) != len(bArgs) {
		return false
	}
	for i := range aArgs {
		if !valuesEqual(aArgs[i], bArgs[i]) {
			return false
		}
	}
	return true
}

// Collection aggregates all differences from one validation call.
// It is either an ordered list (when the validated data was an element
// or group) or a key-to-differences mapping (when the data was a
// mapping). The two forms are mutually exclusive and determined by the
// data's shape, never mixed.
type Collection struct {
	list  []Difference
	keyed map[any][]Difference
	isMap bool
}

func newListCollection(diffs []Difference) *Collection {
	return &Collection{list: diffs}
}

func newKeyedCollection(keyed map[any][]Difference) *Collection {
	return &Collection{keyed: keyed, isMap: true}
}

// Empty reports whether the collection holds no differences.
func (c *Collection) Empty() bool {
	return c == nil || c.Len() == 0
}

// Len returns the total number of differences.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	if c.isMap {
		n := 0
		for _, diffs := range c.keyed {
			n += len(diffs)
		}
		return n
	}
	return len(c.list)
}

// IsKeyed reports whether the collection is mapping-shaped.
func (c *Collection) IsKeyed() bool {
	return c != nil && c.isMap
}

// List returns the ordered differences of a list-shaped collection.
// Returns nil for mapping-shaped collections.
func (c *Collection) List() []Difference {
	if c == nil || c.isMap {
		return nil
	}
	out := make([]Difference, len(c.list))
	copy(out, c.list)
	return out
}

// Keyed returns the per-key differences of a mapping-shaped collection.
// Returns nil for list-shaped collections.
func (c *Collection) Keyed() map[any][]Difference {
	if c == nil || !c.isMap {
		return nil
	}
	out := make(map[any][]Difference, len(c.keyed))
	for k, diffs := range c.keyed {
		cp := make([]Difference, len(diffs))
		copy(cp, diffs)
		out[k] = cp
	}
	return out
}

// Keys returns the keys of a mapping-shaped collection in deterministic
// (rendered-string) order.
func (c *Collection) Keys() []any {
	if c == nil || !c.isMap {
		return nil
	}
	keys := make([]any, 0, len(c.keyed))
	for k := range c.keyed {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return formatValue(keys[i]) < formatValue(keys[j])
	})
	return keys
}

// entry pairs a difference with its key (nil for list-shaped
// collections) and its deterministic position. Acceptance evaluation
// operates on entries so AND/OR recombination can restore order.
type entry struct {
	ord  int
	key  any
	diff Difference
}

// entries flattens the collection into deterministic order: list order
// for list-shaped collections, sorted-key then per-key order for
// mapping-shaped ones.
func (c *Collection) entries() []entry {
	if c == nil {
		return nil
	}
	if !c.isMap {
		out := make([]entry, len(c.list))
		for i, d := range c.list {
			out[i] = entry{ord: i, diff: d}
		}
		return out
	}
	var out []entry
	for _, k := range c.Keys() {
		for _, d := range c.keyed[k] {
			out = append(out, entry{ord: len(out), key: k, diff: d})
		}
	}
	return out
}

// fromEntries rebuilds a collection of the same shape as the receiver
// from a subset of its entries.
func (c *Collection) fromEntries(items []entry) *Collection {
	if !c.isMap {
		diffs := make([]Difference, len(items))
		for i, it := range items {
			diffs[i] = it.diff
		}
		return newListCollection(diffs)
	}
	keyed := make(map[any][]Difference)
	for _, it := range items {
		keyed[it.key] = append(keyed[it.key], it.diff)
	}
	return newKeyedCollection(keyed)
}

// String renders the collection one difference per line, mapping-shaped
// collections prefixed with their key. Output is deterministic.
func (c *Collection) String() string {
	var buf strings.Builder
	if c.IsKeyed() {
		for _, k := range c.Keys() {
			for _, d := range c.keyed[k] {
				fmt.Fprintf(&buf, "  %s: %s\n", formatValue(k), d)
			}
		}
		return buf.String()
	}
	for _, d := range c.List() {
		fmt.Fprintf(&buf, "  %s\n", d)
	}
	return buf.String()
}

// formatValue renders a value for difference and report output.
// Strings are quoted, nil prints as "nil", tuples parenthesized.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(val)
	case float64:
		return formatFloat(val)
	case float32:
		return formatFloat(float64(val))
	case Tuple:
		parts := make([]string, len(val))
		for i, e := range val {
			parts[i] = formatValue(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case Set:
		members := val.sortedMembers()
		parts := make([]string, len(members))
		for i, m := range members {
			parts[i] = formatValue(m)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// formatFloat renders a float without trailing zeros (300, not 300.000000).
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// formatSigned renders a float with an explicit sign, as deltas read best
// signed: +1, -5.
func formatSigned(f float64) string {
	s := formatFloat(f)
	if f >= 0 && !strings.HasPrefix(s, "+") {
		return "+" + s
	}
	return s
}
