package trace

// TraceConfig controls which steps are retained as rows.
type TraceConfig struct {
	// Every keeps one row per Every fired steps; values below 1 mean 1.
	Every int
}

// Trajectory collects the rows of one simulation run.
// Firing counts and waiting times are kept for every step regardless of Every.
type Trajectory struct {
	Config       TraceConfig
	SpeciesNames []string
	Records      []StepRecord
	FiringCounts map[int]int
	WaitingTimes []float64
	// Last is the most recent step, retained or not.
	Last StepRecord
}

// NewTrajectory creates a Trajectory whose first row is the initial state.
func NewTrajectory(config TraceConfig, speciesNames []string, time float64, species []int64) *Trajectory {
	if config.Every < 1 {
		config.Every = 1
	}
	initial := StepRecord{Step: 0, Time: time, Reaction: -1, Species: species}
	return &Trajectory{
		Config:       config,
		SpeciesNames: speciesNames,
		Records:      []StepRecord{initial},
		FiringCounts: make(map[int]int),
		WaitingTimes: make([]float64, 0),
		Last:         initial,
	}
}

// Record appends a fired step. Returns true when the step was retained as a row.
func (t *Trajectory) Record(record StepRecord) bool {
	t.FiringCounts[record.Reaction]++
	t.WaitingTimes = append(t.WaitingTimes, record.WaitingTime)
	t.Last = record
	if record.Step%t.Config.Every != 0 {
		return false
	}
	t.Records = append(t.Records, record)
	return true
}

// Steps returns the number of fired steps recorded.
func (t *Trajectory) Steps() int {
	return len(t.WaitingTimes)
}
