package rating

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithWeights replaces the component weight table. The table is validated
// by NewCalculator after all options apply.
func WithWeights(w Weights) Option {
	return func(c *Calculator) {
		c.weights = w
	}
}
