package scene

// Cut is a numeric range filter on one user data attribute of event data objects.
type Cut struct {
	Field string
	Min   float64
	Max   float64
	Step  float64

	defaultMin float64
	defaultMax float64
}

// NewCut creates a cut accepting values in [min, max].
//
// Parameters:
//   - field: the user data attribute to test
//   - min: lowest accepted value
//   - max: highest accepted value
//   - step: UI increment, 1 when zero
//
// Returns:
//   - *Cut: the cut, remembering min and max for Reset
func NewCut(field string, min, max, step float64) *Cut {
	if step == 0 {
		step = 1
	}
	return &Cut{Field: field, Min: min, Max: max, Step: step, defaultMin: min, defaultMax: max}
}

// Passed reports whether value lies within the cut range, bounds inclusive.
func (c *Cut) Passed(value float64) bool {
	return value >= c.Min && value <= c.Max
}

// Reset restores the range the cut was created with.
func (c *Cut) Reset() {
	c.Min = c.defaultMin
	c.Max = c.defaultMax
}
