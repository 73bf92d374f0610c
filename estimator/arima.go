package estimator

import (
	"fmt"
	"math"

	"github.com/ensemblecast/ensemblecast/timeseries"
)

// MinARIMAObs is the minimum number of observations required by the ARIMA
// order search.
const MinARIMAObs = 5

// arimaCandidates is the fixed order grid searched by ARIMA. Differencing is
// at most first order.
var arimaCandidates = []Order{
	{P: 0, D: 1, Q: 0},
	{P: 1, D: 0, Q: 0},
	{P: 0, D: 0, Q: 1},
	{P: 1, D: 1, Q: 0},
	{P: 0, D: 1, Q: 1},
	{P: 1, D: 1, Q: 1},
}

const (
	arimaMaxIter      = 100
	arimaTolerance    = 1e-6
	arimaLearningRate = 0.01
	arimaCoefBound    = 0.99
)

// ARIMA fits each candidate order by conditional sum of squares, keeps the
// lowest-AIC fit, and forecasts with it. Candidates that fail to converge are
// skipped. The fitted reconstruction of a differencing model is shorter than
// the input, so its error metrics are computed against the matching tail of
// the history.
func ARIMA(series *timeseries.Series, horizon int) (*Result, error) {
	if horizon < 1 {
		return nil, ErrInvalidHorizon
	}
	if series == nil || series.Len() < MinARIMAObs {
		return nil, ErrInsufficientData
	}

	var best *arimaModel
	bestAIC := math.Inf(1)
	for _, order := range arimaCandidates {
		m, err := fitARIMA(series.Values, order)
		if err != nil {
			continue
		}
		if m.aic < bestAIC {
			bestAIC = m.aic
			best = m
		}
	}
	if best == nil {
		return nil, fmt.Errorf("no ARIMA order converged, %w", ErrNoCandidateFit)
	}

	point, se := best.forecast(horizon)

	forecasts := make([]float64, horizon)
	lower := make([]float64, horizon)
	upper := make([]float64, horizon)
	for i := 0; i < horizon; i++ {
		if math.IsNaN(point[i]) || math.IsInf(point[i], 0) {
			return nil, fmt.Errorf("non-finite forecast at step %d, %w", i+1, ErrFitFailed)
		}
		forecasts[i] = math.Max(point[i], 0)
		lower[i] = math.Max(point[i]-Zscore95*se[i], 0)
		// the interval still has to cover the floored forecast when the
		// raw band sits entirely below zero
		upper[i] = math.Max(point[i]+Zscore95*se[i], forecasts[i])
	}

	fitted := best.fittedOriginal()
	actualTail := series.Values[series.Len()-len(fitted):]
	mae, mape, err := scoreFit(fitted, actualTail)
	if err != nil {
		return nil, fmt.Errorf("unable to score ARIMA fit, %w", ErrFitFailed)
	}

	order := best.order
	return &Result{
		Method:       "ARIMA" + order.String(),
		Forecasts:    forecasts,
		LowerBounds:  lower,
		UpperBounds:  upper,
		FittedValues: fitted,
		MAE:          mae,
		MAPE:         mape,
		AIC:          best.aic,
		Order:        &order,
	}, nil
}

// arimaModel is a single fitted candidate. The fit operates on the
// differenced series w; y keeps the original scale for integration.
type arimaModel struct {
	order     Order
	ar        []float64
	ma        []float64
	intercept float64
	variance  float64
	aic       float64

	y         []float64
	w         []float64
	residuals []float64
	fitted    []float64 // one-step predictions on the differenced scale
}

func fitARIMA(y []float64, order Order) (*arimaModel, error) {
	w := make([]float64, len(y))
	copy(w, y)
	for i := 0; i < order.D; i++ {
		w = diff(w)
	}
	if len(w) <= order.P+order.Q+1 {
		return nil, ErrInsufficientData
	}

	m := &arimaModel{
		order: order,
		ar:    make([]float64, order.P),
		ma:    make([]float64, order.Q),
		y:     y,
		w:     w,
	}

	// Yule-Walker initial AR estimates, small MA seeds
	if order.P > 0 {
		if r := acf(w, order.P); r != nil {
			if phi := yuleWalker(r, order.P); phi != nil {
				copy(m.ar, phi)
			}
		}
	}
	for i := range m.ma {
		m.ma[i] = 0.1
	}

	m.optimizeCSS()

	for _, c := range m.ar {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("coefficients diverged for order %s, %w", order, ErrFitFailed)
		}
	}
	for _, c := range m.ma {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("coefficients diverged for order %s, %w", order, ErrFitFailed)
		}
	}
	if math.IsNaN(m.variance) || math.IsInf(m.variance, 0) || m.variance < 0 {
		return nil, fmt.Errorf("residual variance undefined for order %s, %w", order, ErrFitFailed)
	}

	m.computeAIC()
	if math.IsNaN(m.aic) {
		return nil, fmt.Errorf("criterion undefined for order %s, %w", order, ErrFitFailed)
	}
	return m, nil
}

// optimizeCSS refines coefficients by gradient steps on the conditional sum
// of squares, with stationarity and invertibility enforced by clamping.
func (m *arimaModel) optimizeCSS() {
	w := m.w
	n := len(w)
	p := m.order.P
	q := m.order.Q

	mean := 0.0
	for _, v := range w {
		mean += v
	}
	m.intercept = mean / float64(n)

	startIdx := p
	if q > startIdx {
		startIdx = q
	}

	residuals := make([]float64, n)
	predictAt := func(t int) float64 {
		pred := m.intercept
		for i := 0; i < p && t-i-1 >= 0; i++ {
			pred += m.ar[i] * (w[t-i-1] - m.intercept)
		}
		for i := 0; i < q && t-i-1 >= 0; i++ {
			pred += m.ma[i] * residuals[t-i-1]
		}
		return pred
	}

	prevSSE := math.Inf(1)
	for iter := 0; iter < arimaMaxIter; iter++ {
		sse := 0.0
		for t := startIdx; t < n; t++ {
			residuals[t] = w[t] - predictAt(t)
			sse += residuals[t] * residuals[t]
		}

		arGrad := make([]float64, p)
		maGrad := make([]float64, q)
		for t := startIdx; t < n; t++ {
			for i := 0; i < p && t-i-1 >= 0; i++ {
				arGrad[i] -= 2 * residuals[t] * (w[t-i-1] - m.intercept)
			}
			for i := 0; i < q && t-i-1 >= 0; i++ {
				maGrad[i] -= 2 * residuals[t] * residuals[t-i-1]
			}
		}
		for i := 0; i < p; i++ {
			m.ar[i] -= arimaLearningRate * arGrad[i] / float64(n)
			m.ar[i] = math.Max(-arimaCoefBound, math.Min(arimaCoefBound, m.ar[i]))
		}
		for i := 0; i < q; i++ {
			m.ma[i] -= arimaLearningRate * maGrad[i] / float64(n)
			m.ma[i] = math.Max(-arimaCoefBound, math.Min(arimaCoefBound, m.ma[i]))
		}

		if math.Abs(prevSSE-sse) < arimaTolerance {
			break
		}
		prevSSE = sse
	}

	m.residuals = make([]float64, n)
	m.fitted = make([]float64, n)
	for t := 0; t < n; t++ {
		if t < startIdx {
			m.fitted[t] = m.intercept
			m.residuals[t] = w[t] - m.intercept
			continue
		}
		pred := m.intercept
		for i := 0; i < p && t-i-1 >= 0; i++ {
			pred += m.ar[i] * (w[t-i-1] - m.intercept)
		}
		for i := 0; i < q && t-i-1 >= 0; i++ {
			pred += m.ma[i] * m.residuals[t-i-1]
		}
		m.fitted[t] = pred
		m.residuals[t] = w[t] - pred
	}

	sse := 0.0
	count := 0
	for t := startIdx; t < n; t++ {
		sse += m.residuals[t] * m.residuals[t]
		count++
	}
	if count > p+q+1 {
		m.variance = sse / float64(count-p-q-1)
	} else if count > 0 {
		m.variance = sse / float64(count)
	} else {
		m.variance = math.NaN()
	}
}

func (m *arimaModel) computeAIC() {
	n := len(m.residuals)
	k := m.order.P + m.order.Q + 1

	sse := 0.0
	for _, r := range m.residuals {
		sse += r * r
	}

	logLik := math.Inf(-1)
	if m.variance > 0 {
		logLik = -float64(n)/2*math.Log(2*math.Pi) -
			float64(n)/2*math.Log(m.variance) -
			sse/(2*m.variance)
	}
	m.aic = -2*logLik + 2*float64(k)
}

// forecast returns the point forecasts on the original scale and their
// standard errors from the psi-weight expansion of the fitted polynomials.
func (m *arimaModel) forecast(steps int) ([]float64, []float64) {
	p := m.order.P
	q := m.order.Q
	n := len(m.w)

	extW := make([]float64, n+steps)
	copy(extW, m.w)
	extRes := make([]float64, n+steps)
	copy(extRes, m.residuals)

	for h := 0; h < steps; h++ {
		t := n + h
		pred := m.intercept
		for i := 0; i < p && t-i-1 >= 0; i++ {
			pred += m.ar[i] * (extW[t-i-1] - m.intercept)
		}
		// future residuals have expectation zero
		for i := 0; i < q && t-i-1 >= 0 && t-i-1 < n; i++ {
			pred += m.ma[i] * extRes[t-i-1]
		}
		extW[t] = pred
	}

	point := make([]float64, steps)
	copy(point, extW[n:])
	if m.order.D > 0 {
		point = m.integrate(point)
	}

	psi := psiWeights(m.ar, m.ma, steps)
	for i := 0; i < m.order.D; i++ {
		for j := 1; j < len(psi); j++ {
			psi[j] += psi[j-1]
		}
	}
	se := make([]float64, steps)
	acc := 0.0
	for h := 0; h < steps; h++ {
		acc += psi[h] * psi[h]
		se[h] = math.Sqrt(m.variance * acc)
	}

	return point, se
}

// integrate undoes differencing, anchoring each pass on the last value the
// corresponding difference level observed.
func (m *arimaModel) integrate(forecasts []float64) []float64 {
	result := make([]float64, len(forecasts))
	copy(result, forecasts)

	for i := 0; i < m.order.D; i++ {
		last := m.y[len(m.y)-1-i]
		for j := range result {
			if j == 0 {
				result[j] += last
			} else {
				result[j] += result[j-1]
			}
		}
	}
	return result
}

// fittedOriginal maps the one-step predictions of the differenced series
// back to the original scale. The candidate grid differences at most once,
// so the reconstruction covers the last len(y)-d observations.
func (m *arimaModel) fittedOriginal() []float64 {
	if m.order.D == 0 {
		fitted := make([]float64, len(m.fitted))
		copy(fitted, m.fitted)
		return fitted
	}

	fitted := make([]float64, len(m.fitted))
	for i := range m.fitted {
		fitted[i] = m.y[i] + m.fitted[i]
	}
	return fitted
}

func diff(x []float64) []float64 {
	if len(x) < 2 {
		return nil
	}
	d := make([]float64, len(x)-1)
	for i := 1; i < len(x); i++ {
		d[i-1] = x[i] - x[i-1]
	}
	return d
}

// acf computes the sample autocorrelation up to maxLag, with acf[0] == 1.
func acf(x []float64, maxLag int) []float64 {
	n := len(x)
	if n < 2 || maxLag < 1 {
		return nil
	}

	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= float64(n)

	denom := 0.0
	for _, v := range x {
		denom += (v - mean) * (v - mean)
	}
	if denom == 0 {
		return nil
	}

	r := make([]float64, maxLag+1)
	r[0] = 1
	for k := 1; k <= maxLag; k++ {
		if k >= n {
			break
		}
		num := 0.0
		for t := k; t < n; t++ {
			num += (x[t] - mean) * (x[t-k] - mean)
		}
		r[k] = num / denom
	}
	return r
}

// yuleWalker solves the Yule-Walker equations with Levinson-Durbin recursion.
func yuleWalker(r []float64, order int) []float64 {
	if order <= 0 || len(r) <= order {
		return nil
	}

	phi := make([]float64, order)
	phi[0] = r[1]
	if order == 1 {
		return phi
	}

	v := 1 - phi[0]*phi[0]
	for i := 1; i < order; i++ {
		if v <= 0 {
			break
		}
		lambda := r[i+1]
		for j := 0; j < i; j++ {
			lambda -= phi[j] * r[i-j]
		}
		lambda /= v

		next := make([]float64, i+1)
		for j := 0; j < i; j++ {
			next[j] = phi[j] - lambda*phi[i-1-j]
		}
		next[i] = lambda
		copy(phi, next)

		v *= 1 - lambda*lambda
	}
	return phi
}

// psiWeights expands the ARMA polynomials into moving-average weights,
// psi[0] == 1.
func psiWeights(ar, ma []float64, steps int) []float64 {
	psi := make([]float64, steps)
	if steps == 0 {
		return psi
	}
	psi[0] = 1
	for j := 1; j < steps; j++ {
		v := 0.0
		if j <= len(ma) {
			v += ma[j-1]
		}
		for i := 1; i <= len(ar) && i <= j; i++ {
			v += ar[i-1] * psi[j-i]
		}
		psi[j] = v
	}
	return psi
}
