package source

import (
	"bytes"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/roach88/verdict"
)

// Requirement kind constants.
const (
	KindValue    = "value"
	KindSet      = "set"
	KindSequence = "sequence"
	KindRegex    = "regex"
	KindMapping  = "mapping"
)

// Fixture pairs a piece of data with the requirement it must satisfy.
type Fixture struct {
	// Name uniquely identifies this fixture.
	Name string `yaml:"name"`

	// Description explains what this fixture validates.
	Description string `yaml:"description,omitempty"`

	// Data is the value under validation: scalar, sequence, or mapping.
	Data any `yaml:"data"`

	// Requirement describes what the data must satisfy.
	Requirement RequirementSpec `yaml:"requirement"`

	// Message overrides the default error description.
	Message string `yaml:"message,omitempty"`
}

// RequirementSpec is the serialized form of a requirement. Exactly one
// of the kind-specific fields must be set, matching Kind.
type RequirementSpec struct {
	// Kind selects the comparison: value, set, sequence, regex, mapping.
	Kind string `yaml:"kind"`

	// Value is a literal equality requirement.
	Value any `yaml:"value,omitempty"`

	// Set lists sanctioned members for membership checks.
	Set []any `yaml:"set,omitempty"`

	// Sequence lists elements for order-sensitive comparison.
	Sequence []any `yaml:"sequence,omitempty"`

	// Regex is a pattern the data's string form must contain.
	Regex string `yaml:"regex,omitempty"`

	// Mapping holds per-key requirements.
	Mapping map[string]any `yaml:"mapping,omitempty"`
}

// LoadFixture reads and parses a fixture YAML file. Unknown fields are
// rejected to catch typos.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture parses fixture YAML bytes with strict field validation.
func ParseFixture(data []byte) (*Fixture, error) {
	var fixture Fixture
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&fixture); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateFixture(&fixture); err != nil {
		return nil, fmt.Errorf("invalid fixture: %w", err)
	}
	return &fixture, nil
}

// BuildRequirement converts the serialized requirement into the engine
// value Validate expects.
func (f *Fixture) BuildRequirement() (any, error) {
	spec := f.Requirement
	switch spec.Kind {
	case KindValue:
		return spec.Value, nil
	case KindSet:
		return verdict.NewSet(spec.Set...), nil
	case KindSequence:
		return spec.Sequence, nil
	case KindRegex:
		pattern, err := regexp.Compile(spec.Regex)
		if err != nil {
			return nil, fmt.Errorf("invalid regex requirement: %w", err)
		}
		return pattern, nil
	case KindMapping:
		return spec.Mapping, nil
	default:
		return nil, fmt.Errorf("unknown requirement kind %q", spec.Kind)
	}
}

// validateFixture checks that required fields are present and that the
// requirement declares exactly the field its kind needs.
func validateFixture(f *Fixture) error {
	if f.Name == "" {
		return fmt.Errorf("name is required")
	}

	spec := f.Requirement
	switch spec.Kind {
	case "":
		return fmt.Errorf("requirement.kind is required")
	case KindValue:
		// Any value, including null, is a valid literal.
	case KindSet:
		if len(spec.Set) == 0 {
			return fmt.Errorf("requirement.set is required for kind %q", KindSet)
		}
	case KindSequence:
		if spec.Sequence == nil {
			return fmt.Errorf("requirement.sequence is required for kind %q", KindSequence)
		}
	case KindRegex:
		if spec.Regex == "" {
			return fmt.Errorf("requirement.regex is required for kind %q", KindRegex)
		}
	case KindMapping:
		if len(spec.Mapping) == 0 {
			return fmt.Errorf("requirement.mapping is required for kind %q", KindMapping)
		}
	default:
		return fmt.Errorf("unknown requirement kind %q", spec.Kind)
	}

	return nil
}
