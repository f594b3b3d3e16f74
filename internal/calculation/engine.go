package calculation

// ProjectionEngine orchestrates the calculator and tax engine across a set of
// assets. It holds no per-projection state: one engine can serve concurrent
// projections with independent inputs.
type ProjectionEngine struct {
	RateProjector *MarginalRateProjector
	Debug         bool // Enable debug output for detailed calculations
	Logger        Logger
}

// NewProjectionEngine creates an engine using the IRS bracket table and a no-op logger.
func NewProjectionEngine() *ProjectionEngine {
	return &ProjectionEngine{
		RateProjector: NewMarginalRateProjector(),
		Logger:        NopLogger{},
	}
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (pe *ProjectionEngine) SetLogger(l Logger) {
	if l == nil {
		pe.Logger = NopLogger{}
		return
	}
	pe.Logger = l
}

func (pe *ProjectionEngine) logger() Logger {
	if pe.Logger == nil {
		return NopLogger{}
	}
	return pe.Logger
}

func (pe *ProjectionEngine) rateProjector() *MarginalRateProjector {
	if pe.RateProjector == nil {
		return NewMarginalRateProjector()
	}
	return pe.RateProjector
}
