package estimator

import (
	"errors"
)

var (
	ErrInsufficientData = errors.New("insufficient observations for estimator")
	ErrInvalidHorizon   = errors.New("horizon must be at least 1")
	ErrFitFailed        = errors.New("estimator failed to fit")
	ErrNoCandidateFit   = errors.New("no candidate model converged")
)
