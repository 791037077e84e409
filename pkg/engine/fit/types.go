package fit

// Candidate is a container type that can be bought any number of times.
type Candidate struct {
	ID       string
	Name     string
	Capacity float64
}

// Plan is a single candidate type repeated Count times to hold Need.
type Plan struct {
	Candidate Candidate
	Count     int
	Need      float64
}

// TotalCapacity is the combined capacity of the plan.
func (p Plan) TotalCapacity() float64 {
	return p.Candidate.Capacity * float64(p.Count)
}

// Waste is the capacity left over after Need is stored.
func (p Plan) Waste() float64 {
	return p.TotalCapacity() - p.Need
}

// Efficiency is the share of capacity used by Need.
func (p Plan) Efficiency() float64 {
	total := p.TotalCapacity()
	if total <= 0 {
		return 0
	}
	return p.Need / total
}
