package difficulty

// Option applies a configuration option to the Evaluator.
type Option func(*Evaluator)

// WithWeights replaces the whole sub-factor weight table. The table is
// validated by NewEvaluator; factors absent from it carry weight zero.
func WithWeights(weights map[string]float64) Option {
	return func(e *Evaluator) {
		if len(weights) == 0 {
			return
		}
		e.weights = make(map[string]float64, len(weights))
		for name, w := range weights {
			e.weights[name] = w
		}
	}
}

// WithMultiplierBounds sets the output range of the evaluator.
func WithMultiplierBounds(minMultiplier, maxMultiplier float64) Option {
	return func(e *Evaluator) {
		if minMultiplier > 0 && maxMultiplier > minMultiplier {
			e.minMultiplier = minMultiplier
			e.maxMultiplier = maxMultiplier
		}
	}
}
