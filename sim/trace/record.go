// Package trace provides trajectory recording for stochastic simulation runs.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// StepRecord captures the population right after one fired reaction.
// Step 0 is the initial state; its Reaction is -1 and WaitingTime is 0.
type StepRecord struct {
	Step        int
	Time        float64
	WaitingTime float64
	Reaction    int
	Species     []int64
}
