package ensemblecast

// ForecastResult is the engine's output for one series: the blended forecast,
// its 95% interval, the in-sample reconstruction used for scoring, and the
// provenance of the blend. Forecasts, LowerBounds, and UpperBounds all have
// length equal to the requested horizon and are floored at zero. When
// Weights is present it sums to 1 and parallels Components.
type ForecastResult struct {
	Method       string    `json:"method"`
	Forecasts    []float64 `json:"forecasts"`
	LowerBounds  []float64 `json:"lower_bounds"`
	UpperBounds  []float64 `json:"upper_bounds"`
	FittedValues []float64 `json:"fitted_values"`
	MAE          float64   `json:"mae"`
	MAPE         float64   `json:"mape"`
	Components   []string  `json:"components,omitempty"`
	Weights      []float64 `json:"weights,omitempty"`
	IsFallback   bool      `json:"is_fallback"`
}
