package model

// Outcome is the terminal classification of a mutant. Mutants are never
// re-classified once an outcome is assigned.
type Outcome int

const (
	// Survived indicates the mutation was not detected by tests.
	Survived Outcome = iota
	// Killed indicates the mutation was detected by tests.
	Killed
	// Invalid indicates the mutated project failed to compile (or timed out).
	Invalid
	// Skipped indicates an equivalent mutation was already tested.
	Skipped
)

// String returns the report label for the outcome.
func (o Outcome) String() string {
	switch o {
	case Survived:
		return "Survived"
	case Killed:
		return "Killed"
	case Invalid:
		return "Invalid"
	case Skipped:
		return "Skipped"
	}

	return "Unknown"
}

// Result is one classified mutant together with any compiler/test output
// captured for diagnostics.
type Result struct {
	Mutant  Mutant
	Outcome Outcome
	Output  string
}

// Summary aggregates per-outcome counts for a run.
type Summary struct {
	Total         uint64  `json:"total"`
	Killed        uint64  `json:"killed"`
	Survived      uint64  `json:"survived"`
	Invalid       uint64  `json:"invalid"`
	Skipped       uint64  `json:"skipped"`
	MutationScore float64 `json:"mutation_score"`
	DurationSecs  float64 `json:"duration_secs"`
}

// SurvivedMutant is the JSON report entry for one undetected mutant.
type SurvivedMutant struct {
	Line     uint64 `json:"line"`
	Column   uint64 `json:"column"`
	Original string `json:"original"`
	Mutant   string `json:"mutant"`
}

// RunReport is the single-document JSON report for a mutation run.
type RunReport struct {
	Summary         Summary                     `json:"summary"`
	SurvivedMutants map[string][]SurvivedMutant `json:"survived_mutants"`
}
