package trace

import (
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates statistics from a Trajectory.
type Summary struct {
	Steps           int
	FinalTime       float64
	MeanWaitingTime float64
	StdWaitingTime  float64
	FiringCounts    map[int]int // reaction index → number of firings
	// TimeWeightedMean is each species' mean over retained rows, weighted by
	// how long the population stayed at that row. Exact when Every is 1.
	TimeWeightedMean []float64
	MaxCounts        []int64
	FinalCounts      []int64
}

// Summarize computes aggregate statistics from a Trajectory.
// Safe for nil or empty trajectories (returns zero-value fields).
func Summarize(t *Trajectory) *Summary {
	summary := &Summary{
		FiringCounts: make(map[int]int),
	}
	if t == nil || len(t.Records) == 0 {
		return summary
	}

	summary.Steps = t.Steps()
	summary.FinalTime = t.Last.Time
	summary.FinalCounts = append([]int64(nil), t.Last.Species...)
	for k, v := range t.FiringCounts {
		summary.FiringCounts[k] = v
	}
	if len(t.WaitingTimes) > 0 {
		summary.MeanWaitingTime, summary.StdWaitingTime = stat.MeanStdDev(t.WaitingTimes, nil)
		if len(t.WaitingTimes) == 1 {
			summary.StdWaitingTime = 0
		}
	}

	rows := t.Records
	if rows[len(rows)-1].Step != t.Last.Step {
		rows = append(rows[:len(rows):len(rows)], t.Last)
	}
	nSpecies := len(rows[0].Species)
	summary.MaxCounts = make([]int64, nSpecies)
	summary.TimeWeightedMean = make([]float64, nSpecies)

	// the final row has no dwell time yet; it only contributes to maxima
	weights := make([]float64, len(rows)-1)
	for i := range weights {
		weights[i] = rows[i+1].Time - rows[i].Time
	}
	series := make([]float64, len(weights))
	for sp := 0; sp < nSpecies; sp++ {
		for _, r := range rows {
			if r.Species[sp] > summary.MaxCounts[sp] {
				summary.MaxCounts[sp] = r.Species[sp]
			}
		}
		if len(weights) == 0 || summary.FinalTime == rows[0].Time {
			summary.TimeWeightedMean[sp] = float64(rows[0].Species[sp])
			continue
		}
		for i := range series {
			series[i] = float64(rows[i].Species[sp])
		}
		summary.TimeWeightedMean[sp] = stat.Mean(series, weights)
	}

	return summary
}
