package domain

import (
	"math"

	m "smite.dev/pkg/smite/internal/model"
	"smite.dev/pkg/smite/pkg"
)

// Score returns the mutation score as a percentage rounded to one decimal
// place. Only mutants that reached a test-execution outcome count; when no
// mutant did, the score is 0.
func Score(killed, survived uint64) float64 {
	denominator := killed + survived
	if denominator == 0 {
		return 0
	}

	return math.Round(float64(killed)/float64(denominator)*1000) / 10
}

// summarize folds a result spill into per-outcome counts and the survived
// mutant diagnostics grouped by file. Counts are independent of the order
// results were appended in.
func summarize(results pkg.FileSpill[m.Result]) (m.Summary, map[string][]m.SurvivedMutant, []m.Result, error) {
	var summary m.Summary

	survived := make(map[string][]m.SurvivedMutant)

	var survivedResults []m.Result

	err := results.Range(func(_ uint64, res m.Result) error {
		summary.Total++

		switch res.Outcome {
		case m.Killed:
			summary.Killed++
		case m.Survived:
			summary.Survived++

			path := string(res.Mutant.Path)
			survived[path] = append(survived[path], m.SurvivedMutant{
				Line:     uint64(res.Mutant.Line),
				Column:   uint64(res.Mutant.Column),
				Original: res.Mutant.Original,
				Mutant:   res.Mutant.Mutation.Text(),
			})
			survivedResults = append(survivedResults, res)
		case m.Invalid:
			summary.Invalid++
		case m.Skipped:
			summary.Skipped++
		}

		return nil
	})
	if err != nil {
		return m.Summary{}, nil, nil, err
	}

	summary.MutationScore = Score(summary.Killed, summary.Survived)

	return summary, survived, survivedResults, nil
}
