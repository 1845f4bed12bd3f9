package sched

// Params defines all configurable parameters for the review scheduling algorithm.
type Params struct {
	// ReviewIntervals maps a performance score (1..5) to the number of days
	// until the card should next be reviewed.
	ReviewIntervals map[int]int

	// DifficultyWindow is how many of the most recent review samples
	// (including the one being submitted) feed the difficulty computation.
	DifficultyWindow int
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance.
type ParamsConfig struct {
	// Per-score review intervals in days; zero values keep the defaults.
	PerformanceOneInterval   int
	PerformanceTwoInterval   int
	PerformanceThreeInterval int
	PerformanceFourInterval  int
	PerformanceFiveInterval  int

	// Difficulty window size; zero keeps the default.
	DifficultyWindow int
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		// Poor recall brings the card back quickly; perfect recall
		// pushes it out two weeks.
		ReviewIntervals: map[int]int{
			1: 1,
			2: 2,
			3: 4,
			4: 7,
			5: 14,
		},

		// Difficulty tracks the mean of the last three samples.
		DifficultyWindow: 3,
	}
}

// NewParams creates a new Params instance with custom configuration.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.PerformanceOneInterval > 0 {
		params.ReviewIntervals[1] = config.PerformanceOneInterval
	}
	if config.PerformanceTwoInterval > 0 {
		params.ReviewIntervals[2] = config.PerformanceTwoInterval
	}
	if config.PerformanceThreeInterval > 0 {
		params.ReviewIntervals[3] = config.PerformanceThreeInterval
	}
	if config.PerformanceFourInterval > 0 {
		params.ReviewIntervals[4] = config.PerformanceFourInterval
	}
	if config.PerformanceFiveInterval > 0 {
		params.ReviewIntervals[5] = config.PerformanceFiveInterval
	}

	if config.DifficultyWindow > 0 {
		params.DifficultyWindow = config.DifficultyWindow
	}

	return params
}
