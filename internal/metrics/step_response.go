package metrics

const (
	// RiseFraction is the fraction of the setpoint the response must
	// reach for the rise time to be recorded.
	RiseFraction = 0.9

	// SettleTolerance is the relative band around the setpoint the
	// response must stay inside, through the end of the run, to count
	// as settled.
	SettleTolerance = 0.02
)

// Metric is an optionally-absent measurement. Absence means the
// underlying condition never occurred within the run; it is not an
// error and not a zero.
type Metric struct {
	Value float64
	Valid bool
}

func present(v float64) Metric { return Metric{Value: v, Valid: true} }

// StepResponse holds the standard step-response figures derived from a
// recorded trajectory.
type StepResponse struct {
	RiseTime         Metric
	SettlingTime     Metric
	Overshoot        Metric
	SteadyStateError Metric
}

// Extract derives step-response metrics from a (times, values) series
// against the given setpoint. It is a pure function over the series; an
// empty series yields all four metrics absent.
func Extract(times, values []float64, setpoint float64) StepResponse {
	var sr StepResponse
	if len(values) == 0 || len(times) != len(values) {
		return sr
	}

	for i, v := range values {
		if v >= RiseFraction*setpoint {
			sr.RiseTime = present(times[i])
			break
		}
	}

	// Earliest index from which every remaining sample stays inside the
	// tolerance band: one backward scan to the last violation.
	band := SettleTolerance * setpoint
	settleIdx := 0
	for i := len(values) - 1; i >= 0; i-- {
		if abs(values[i]-setpoint) > band {
			settleIdx = i + 1
			break
		}
	}
	if settleIdx < len(values) {
		sr.SettlingTime = present(times[settleIdx])
	}

	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	sr.Overshoot = present(max - setpoint)
	sr.SteadyStateError = present(abs(setpoint - values[len(values)-1]))

	return sr
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
