// Package city contains the city record reported by census offices.
package city

import "fmt"

// Record is an immutable population observation for one city.
type Record struct {
	name       string
	region     string
	population int
}

// New returns a Record. Population is expected to be non-negative.
func New(name, region string, population int) Record {
	return Record{name: name, region: region, population: population}
}

// Name returns the city name.
func (r Record) Name() string { return r.name }

// Region returns the state or region the city belongs to.
func (r Record) Region() string { return r.region }

// Population returns the reported population.
func (r Record) Population() int { return r.population }

func (r Record) String() string {
	return fmt.Sprintf("City [name=%s, state=%s, population=%d]", r.name, r.region, r.population)
}

// Populations extracts the population of every record, preserving order.
func Populations(records []Record) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r.population
	}
	return out
}

// Equal reports whether both records carry the same fields.
func (r Record) Equal(other Record) bool {
	return r == other
}
