package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	m "smite.dev/pkg/smite/internal/model"
)

// TestReport lists the individual test outcomes of one suite execution.
// Names are fully qualified as "Suite::test" so the same test name in two
// suites never collides.
type TestReport struct {
	Passed []string
	Failed []string
}

// TestRunnerAdapter abstracts the test toolchain. only restricts the run to
// the named tests; an empty slice runs the whole suite. The returned error
// covers tooling failures, not failing tests: a run with failures and a
// parseable report returns a nil error.
type TestRunnerAdapter interface {
	Run(ctx context.Context, projectRoot m.Path, only []string) (TestReport, error)
}

// ForgeTestRunnerAdapter runs the suite by shelling out to `forge test`.
type ForgeTestRunnerAdapter struct{}

// NewForgeTestRunnerAdapter constructs a ForgeTestRunnerAdapter.
func NewForgeTestRunnerAdapter() *ForgeTestRunnerAdapter {
	return &ForgeTestRunnerAdapter{}
}

// forgeTestResult mirrors the per-test entry of `forge test --json` output.
type forgeTestResult struct {
	Status string `json:"status"`
}

// forgeSuiteResult mirrors the per-suite entry of `forge test --json` output.
type forgeSuiteResult struct {
	TestResults map[string]forgeTestResult `json:"test_results"`
}

// Run executes `forge test --json` and parses the per-test statuses.
func (a *ForgeTestRunnerAdapter) Run(ctx context.Context, projectRoot m.Path, only []string) (TestReport, error) {
	args := []string{"test", "--json"}
	if len(only) > 0 {
		args = append(args, "--match-test", matchTestPattern(only))
	}

	cmd := exec.CommandContext(ctx, "forge", args...)
	cmd.Dir = string(projectRoot)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	report, parseErr := parseForgeReport(stdout.Bytes())
	if parseErr != nil {
		// forge exits non-zero on failing tests too; only treat the run as
		// broken when no report came back.
		if runErr != nil {
			return TestReport{}, fmt.Errorf("forge test: %w: %s", runErr, strings.TrimSpace(stderr.String()))
		}

		return TestReport{}, fmt.Errorf("parse forge test output: %w", parseErr)
	}

	return report, nil
}

// parseForgeReport decodes the JSON report into qualified pass/fail lists.
func parseForgeReport(output []byte) (TestReport, error) {
	var suites map[string]forgeSuiteResult

	if err := json.Unmarshal(output, &suites); err != nil {
		return TestReport{}, err
	}

	var report TestReport

	for suite, result := range suites {
		for test, tr := range result.TestResults {
			name := qualifyTestName(suite, test)

			if tr.Status == "Success" {
				report.Passed = append(report.Passed, name)
			} else {
				report.Failed = append(report.Failed, name)
			}
		}
	}

	return report, nil
}

// qualifyTestName builds "Suite::test()" from forge's "path:Suite" suite key.
func qualifyTestName(suite, test string) string {
	if idx := strings.LastIndex(suite, ":"); idx >= 0 {
		suite = suite[idx+1:]
	}

	return suite + "::" + test
}

// matchTestPattern builds the --match-test regex selecting exactly the named
// tests. Qualifiers and call signatures are stripped: forge matches on the
// bare function name.
func matchTestPattern(only []string) string {
	escaped := make([]string, 0, len(only))

	for _, name := range only {
		if idx := strings.LastIndex(name, "::"); idx >= 0 {
			name = name[idx+2:]
		}

		name = strings.TrimSuffix(name, "()")
		escaped = append(escaped, regexp.QuoteMeta(name))
	}

	return "^(" + strings.Join(escaped, "|") + ")$"
}
