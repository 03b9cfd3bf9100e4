package srs

// DefaultIntervals is the number of days to wait after reaching level 1, 2, ...
var DefaultIntervals = []int{1, 3, 7, 14, 30, 60, 120}

// Params defines the configurable parameters of the leveling curve.
type Params struct {
	// Intervals[i] is the wait in days after reaching level i+1.
	// The last entry repeats for every higher level.
	Intervals []int
}

// ParamsConfig allows overriding the defaults when creating Params.
type ParamsConfig struct {
	Intervals []int
}

// NewDefaultParams creates Params with DefaultIntervals.
func NewDefaultParams() *Params {
	return &Params{Intervals: append([]int(nil), DefaultIntervals...)}
}

// NewParams creates Params, keeping the defaults for anything config leaves
// unset. Non-positive intervals are ignored.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	intervals := make([]int, 0, len(config.Intervals))
	for _, days := range config.Intervals {
		if days > 0 {
			intervals = append(intervals, days)
		}
	}
	if len(intervals) > 0 {
		params.Intervals = intervals
	}

	return params
}

// IntervalFor returns the wait in days for a track that just reached level.
// Levels below 1 wait zero days.
func (p *Params) IntervalFor(level int) int {
	if level < 1 || len(p.Intervals) == 0 {
		return 0
	}
	if level > len(p.Intervals) {
		return p.Intervals[len(p.Intervals)-1]
	}
	return p.Intervals[level-1]
}
