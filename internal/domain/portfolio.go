package domain

// Portfolio is an ordered collection of exposures. Order is preserved for
// reporting; aggregate totals are plain sums and do not depend on it.
// Totals are recomputed on demand, never cached.
type Portfolio struct {
	Exposures []Exposure
}

// Len returns the number of exposures.
func (p Portfolio) Len() int {
	return len(p.Exposures)
}

// TotalEAD sums exposure at default across the portfolio.
func (p Portfolio) TotalEAD() float64 {
	total := 0.0
	for _, exp := range p.Exposures {
		total += exp.EAD
	}
	return total
}

// Classes returns the distinct exposure classes present, in first-seen order.
func (p Portfolio) Classes() []ExposureClass {
	seen := make(map[ExposureClass]bool, len(AllExposureClasses))
	classes := make([]ExposureClass, 0, len(AllExposureClasses))
	for _, exp := range p.Exposures {
		if !seen[exp.Class] {
			seen[exp.Class] = true
			classes = append(classes, exp.Class)
		}
	}
	return classes
}
