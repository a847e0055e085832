package domain

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"smite.dev/pkg/smite/internal/adapter"
	m "smite.dev/pkg/smite/internal/model"
	"smite.dev/pkg/smite/pkg"
)

// RunArgs carries the tunables of one mutation testing run. Mutate is an
// optional glob restricting which resolved sources get mutated.
type RunArgs struct {
	Paths         []m.Path
	Mutate        string
	Jobs          uint
	MutantTimeout time.Duration
	Progress      func(done, total uint64)
}

// Orchestrator drives the full pipeline: baseline establishment, mutant
// generation, parallel evaluation and aggregation.
type Orchestrator interface {
	Run(ctx context.Context, args RunArgs) (m.RunReport, []m.Result, error)
	ListMutants(paths []m.Path) ([]m.Mutant, error)
}

type orchestrator struct {
	fsAdapter  adapter.SourceFSAdapter
	solAdapter adapter.SolFileAdapter
	compiler   adapter.CompilerAdapter
	testRunner adapter.TestRunnerAdapter
	catalog    []Mutator
	newSpill   func() (pkg.FileSpill[m.Result], error)
}

// NewOrchestrator constructs an Orchestrator backed by the provided adapters
// and the default mutator catalog.
func NewOrchestrator(
	fsAdapter adapter.SourceFSAdapter,
	solAdapter adapter.SolFileAdapter,
	compiler adapter.CompilerAdapter,
	testRunner adapter.TestRunnerAdapter,
) Orchestrator {
	return &orchestrator{
		fsAdapter:  fsAdapter,
		solAdapter: solAdapter,
		compiler:   compiler,
		testRunner: testRunner,
		catalog:    DefaultCatalog(),
		newSpill:   func() (pkg.FileSpill[m.Result], error) { return pkg.NewFileSpill[m.Result]() },
	}
}

// Run executes the pipeline and returns the aggregated report together with
// the survived results, in a deterministic order, for diagnostics.
func (o *orchestrator) Run(ctx context.Context, args RunArgs) (m.RunReport, []m.Result, error) {
	start := time.Now()

	sources, err := o.fsAdapter.ResolveSources(args.Paths)
	if err != nil {
		return m.RunReport{}, nil, fmt.Errorf("resolve sources: %w", err)
	}

	sources = filterSources(sources, args.Mutate)

	if len(sources) == 0 {
		return m.RunReport{}, nil, fmt.Errorf("no mutable Solidity sources under %v", args.Paths)
	}

	projectRoot, err := o.fsAdapter.FindProjectRoot(sources[0])
	if err != nil {
		return m.RunReport{}, nil, fmt.Errorf("find project root: %w", err)
	}

	passing, err := o.establishBaseline(ctx, projectRoot)
	if err != nil {
		return m.RunReport{}, nil, err
	}

	mutants, err := o.generateMutants(sources)
	if err != nil {
		return m.RunReport{}, nil, fmt.Errorf("generate mutants: %w", err)
	}

	results, err := o.newSpill()
	if err != nil {
		return m.RunReport{}, nil, fmt.Errorf("create result store: %w", err)
	}

	defer func() {
		if err := results.Close(); err != nil {
			slog.Error("Failed to close result store", "error", err)
		}
	}()

	if err := o.evaluateMutants(ctx, args, projectRoot, passing, mutants, results); err != nil {
		return m.RunReport{}, nil, err
	}

	summary, survived, survivedResults, err := summarize(results)
	if err != nil {
		return m.RunReport{}, nil, fmt.Errorf("aggregate results: %w", err)
	}

	summary.DurationSecs = time.Since(start).Seconds()

	sort.SliceStable(survivedResults, func(i, j int) bool {
		a, b := survivedResults[i].Mutant, survivedResults[j].Mutant
		if a.Path != b.Path {
			return a.Path < b.Path
		}

		if a.Span.Lo != b.Span.Lo {
			return a.Span.Lo < b.Span.Lo
		}

		return a.Span.Hi < b.Span.Hi
	})

	for _, mutantsByFile := range survived {
		sort.SliceStable(mutantsByFile, func(i, j int) bool {
			if mutantsByFile[i].Line != mutantsByFile[j].Line {
				return mutantsByFile[i].Line < mutantsByFile[j].Line
			}

			return mutantsByFile[i].Column < mutantsByFile[j].Column
		})
	}

	return m.RunReport{Summary: summary, SurvivedMutants: survived}, survivedResults, nil
}

// ListMutants generates the full mutant set without evaluating it.
func (o *orchestrator) ListMutants(paths []m.Path) ([]m.Mutant, error) {
	sources, err := o.fsAdapter.ResolveSources(paths)
	if err != nil {
		return nil, fmt.Errorf("resolve sources: %w", err)
	}

	return o.generateMutants(sources)
}

// filterSources keeps the sources whose path or base name matches the glob.
// An empty glob keeps everything.
func filterSources(sources []m.Path, glob string) []m.Path {
	if glob == "" {
		return sources
	}

	var kept []m.Path

	for _, path := range sources {
		if matched, err := filepath.Match(glob, string(path)); err == nil && matched {
			kept = append(kept, path)
			continue
		}

		if matched, err := filepath.Match(glob, filepath.Base(string(path))); err == nil && matched {
			kept = append(kept, path)
		}
	}

	return kept
}

// establishBaseline compiles the unmutated project and records which tests
// pass. Mutant classification compares against exactly this set; tests that
// fail on pristine code carry no signal and are excluded.
func (o *orchestrator) establishBaseline(ctx context.Context, projectRoot m.Path) ([]string, error) {
	output, err := o.compiler.Compile(ctx, projectRoot)
	if err != nil {
		return nil, fmt.Errorf("baseline compile failed: %w\n%s", err, output)
	}

	baseline, err := o.testRunner.Run(ctx, projectRoot, nil)
	if err != nil {
		return nil, fmt.Errorf("baseline test run failed: %w", err)
	}

	if len(baseline.Failed) > 0 {
		slog.Warn("Baseline has failing tests, excluding them from classification", "failing", baseline.Failed)
	}

	if len(baseline.Passed) == 0 {
		return nil, fmt.Errorf("baseline has no passing tests, nothing can kill a mutant")
	}

	return baseline.Passed, nil
}

// generateMutants walks every source, feeds each mutation context through
// the catalog in order and concatenates the results. Generation order is
// deterministic: sources in resolution order, contexts by position, mutators
// by catalog order.
func (o *orchestrator) generateMutants(sources []m.Path) ([]m.Mutant, error) {
	var mutants []m.Mutant

	for _, path := range sources {
		content, err := o.fsAdapter.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		source := string(content)

		contexts, err := o.solAdapter.Contexts(path, source)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", path, err)
		}

		for _, mctx := range contexts {
			for _, mutator := range o.catalog {
				if !mutator.IsApplicable(mctx) {
					continue
				}

				generated, err := mutator.Generate(mctx)
				if err != nil {
					return nil, fmt.Errorf("mutator %s on %s: %w", mutator.Name(), path, err)
				}

				mutants = append(mutants, generated...)
			}
		}
	}

	return mutants, nil
}

// evaluateMutants runs the worker pool over the deduplicated mutant set and
// spills every result. Duplicates are resolved before dispatch so workers
// never race on the dedup decision.
func (o *orchestrator) evaluateMutants(
	ctx context.Context,
	args RunArgs,
	projectRoot m.Path,
	passing []string,
	mutants []m.Mutant,
	results pkg.FileSpill[m.Result],
) error {
	total := uint64(len(mutants))

	var done atomic.Uint64

	progress := func() {
		if args.Progress != nil {
			args.Progress(done.Add(1), total)
		} else {
			done.Add(1)
		}
	}

	seen := make(map[string]bool, len(mutants))

	var group errgroup.Group
	if args.Jobs > 0 {
		group.SetLimit(int(args.Jobs))
	}

	for _, mutant := range mutants {
		mutant := mutant
		if seen[mutant.Key()] {
			if err := results.Append(m.Result{Mutant: mutant, Outcome: m.Skipped}); err != nil {
				return fmt.Errorf("store result: %w", err)
			}

			progress()

			continue
		}

		seen[mutant.Key()] = true

		group.Go(func() error {
			result := o.testMutant(ctx, args.MutantTimeout, projectRoot, passing, mutant)

			if err := results.Append(result); err != nil {
				return fmt.Errorf("store result: %w", err)
			}

			progress()

			return nil
		})
	}

	return group.Wait()
}

// testMutant evaluates one mutant in an isolated project snapshot. Every
// failure mode short of a result-store error maps onto an outcome: the run
// never aborts because one mutant broke the toolchain.
func (o *orchestrator) testMutant(
	ctx context.Context,
	timeout time.Duration,
	projectRoot m.Path,
	passing []string,
	mutant m.Mutant,
) m.Result {
	if timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tmpDir, err := o.fsAdapter.CreateTempDir("smite-mutant-*")
	if err != nil {
		slog.Error("Failed to create temp dir", "error", err)
		return m.Result{Mutant: mutant, Outcome: m.Invalid, Output: err.Error()}
	}

	defer o.cleanupTempDir(tmpDir)

	if err := o.fsAdapter.CopyDir(projectRoot, tmpDir); err != nil {
		slog.Error("Failed to copy project to temp dir", "projectRoot", projectRoot, "tmpDir", tmpDir, "error", err)
		return m.Result{Mutant: mutant, Outcome: m.Invalid, Output: err.Error()}
	}

	if err := o.writeMutatedSource(projectRoot, tmpDir, mutant); err != nil {
		slog.Error("Failed to write mutated source", "path", mutant.Path, "error", err)
		return m.Result{Mutant: mutant, Outcome: m.Invalid, Output: err.Error()}
	}

	output, err := o.compiler.Compile(ctx, tmpDir)
	if err != nil {
		if ctx.Err() != nil {
			return m.Result{Mutant: mutant, Outcome: m.Invalid, Output: "timed out during compile"}
		}

		return m.Result{Mutant: mutant, Outcome: m.Invalid, Output: output}
	}

	report, err := o.testRunner.Run(ctx, tmpDir, passing)
	if err != nil {
		if ctx.Err() != nil {
			return m.Result{Mutant: mutant, Outcome: m.Invalid, Output: "timed out during tests"}
		}

		slog.Error("Test run failed for mutant", "path", mutant.Path, "error", err)

		return m.Result{Mutant: mutant, Outcome: m.Invalid, Output: err.Error()}
	}

	if ctx.Err() != nil {
		return m.Result{Mutant: mutant, Outcome: m.Invalid, Output: "timed out during tests"}
	}

	if killedBy(passing, report) {
		return m.Result{Mutant: mutant, Outcome: m.Killed}
	}

	return m.Result{Mutant: mutant, Outcome: m.Survived}
}

// killedBy reports whether any baseline-passing test failed against the
// mutant. Failures of tests outside the baseline set carry no signal.
func killedBy(passing []string, report adapter.TestReport) bool {
	baseline := make(map[string]bool, len(passing))
	for _, name := range passing {
		baseline[name] = true
	}

	for _, name := range report.Failed {
		if baseline[name] {
			return true
		}
	}

	return false
}

// writeMutatedSource applies the mutant's span edit to its source and writes
// the result into the snapshot at the source's project-relative path.
func (o *orchestrator) writeMutatedSource(projectRoot, tmpDir m.Path, mutant m.Mutant) error {
	content, err := o.fsAdapter.ReadFile(mutant.Path)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}

	mutated := mutant.Apply(string(content))

	relPath, err := o.fsAdapter.RelPath(projectRoot, mutant.Path)
	if err != nil {
		return fmt.Errorf("relative source path: %w", err)
	}

	target := o.fsAdapter.JoinPath(string(tmpDir), string(relPath))

	if err := o.fsAdapter.WriteFile(target, []byte(mutated), 0o600); err != nil {
		return fmt.Errorf("write mutated source: %w", err)
	}

	return nil
}

func (o *orchestrator) cleanupTempDir(tmpDir m.Path) {
	if err := o.fsAdapter.RemoveAll(tmpDir); err != nil {
		slog.Error("Failed to cleanup temp dir", "tmpDir", tmpDir, "error", err)
	}
}
