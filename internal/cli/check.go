package cli

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/verdict"
	"github.com/roach88/verdict/internal/source"
)

// CheckReport is the per-fixture result of a check run.
type CheckReport struct {
	RunID       string   `json:"run_id"`
	Fixture     string   `json:"fixture"`
	Path        string   `json:"path"`
	Valid       bool     `json:"valid"`
	Description string   `json:"description,omitempty"`
	Count       int      `json:"count,omitempty"`
	Differences []string `json:"differences,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <fixture.yaml> [more fixtures...]",
		Short: "Validate fixture data against its requirement",
		Long: `Validate the data of one or more YAML fixtures against their requirements.

Each fixture pairs a piece of data with a requirement (value, set,
sequence, regex, or mapping). Differences are reported per fixture.
Exits 1 if any fixture fails validation, 2 on malformed fixtures.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Errors are rendered through the formatter
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runCheck(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	runID := uuid.Must(uuid.NewV7()).String()
	formatter.VerboseLog("run %s: checking %d fixture(s)", runID, len(paths))

	reports := make([]CheckReport, 0, len(paths))
	failed := false

	for _, path := range paths {
		report, err := checkFixture(runID, path)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("fixture %s", path), err)
		}
		if !report.Valid {
			failed = true
		}
		reports = append(reports, *report)
	}

	if formatter.JSON() {
		if err := formatter.PrintJSON(reports); err != nil {
			return WrapExitError(ExitCommandError, "encode report", err)
		}
	} else {
		printTextReports(formatter, reports)
	}

	if failed {
		return NewExitError(ExitFailure, "validation failed")
	}
	return nil
}

// checkFixture loads and validates one fixture. Load and configuration
// problems return an error; validation differences go into the report.
func checkFixture(runID, path string) (*CheckReport, error) {
	fixture, err := source.LoadFixture(path)
	if err != nil {
		return nil, err
	}
	requirement, err := fixture.BuildRequirement()
	if err != nil {
		return nil, err
	}

	report := &CheckReport{
		RunID:   runID,
		Fixture: fixture.Name,
		Path:    path,
	}

	err = verdict.Validate(fixture.Data, requirement, fixture.Message)
	if err == nil {
		report.Valid = true
		return report, nil
	}

	var verr *verdict.ValidationError
	if !errors.As(err, &verr) {
		// Shape mismatch or malformed requirement: the fixture itself
		// is broken, not the data.
		return nil, err
	}

	report.Description = verr.Description
	report.Count = verr.Count()
	report.Differences = renderDifferences(verr.Differences)
	return report, nil
}

// renderDifferences flattens a collection into printable lines,
// mapping-shaped collections prefixed with their key.
func renderDifferences(c *verdict.Collection) []string {
	var out []string
	if c.IsKeyed() {
		keyed := c.Keyed()
		for _, k := range c.Keys() {
			for _, d := range keyed[k] {
				out = append(out, fmt.Sprintf("%v: %s", k, d))
			}
		}
		return out
	}
	for _, d := range c.List() {
		out = append(out, d.String())
	}
	return out
}

func printTextReports(formatter *OutputFormatter, reports []CheckReport) {
	for _, r := range reports {
		if r.Valid {
			formatter.Print("ok   %s (%s)", r.Fixture, r.Path)
			continue
		}
		formatter.Print("FAIL %s (%s): %s", r.Fixture, r.Path, r.Description)
		for _, line := range r.Differences {
			formatter.Print("  %s", line)
		}
	}
}
