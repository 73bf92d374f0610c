package ensemblecast

const (
	// DefaultHorizon is the number of periods forecast when no options are
	// provided.
	DefaultHorizon = 7

	// DefaultMaxMAPE is the reliability cutoff: a method whose in-sample
	// MAPE reaches it is excluded from the ensemble.
	DefaultMaxMAPE = 200.0

	// DefaultMAPEFloor bounds the inverse-MAPE weight of a near-perfect fit.
	DefaultMAPEFloor = 0.1
)

// Options controls the ensemble combiner. Passing nil selects the defaults,
// and any zero-valued field falls back to its default.
type Options struct {
	Horizon   int
	MaxMAPE   float64
	MAPEFloor float64
}

func NewDefaultOptions() *Options {
	return &Options{
		Horizon:   DefaultHorizon,
		MaxMAPE:   DefaultMaxMAPE,
		MAPEFloor: DefaultMAPEFloor,
	}
}
