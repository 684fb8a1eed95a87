// Package feed supplies city reports to census offices: fixed data sets,
// YAML feed files, synthetic generation, replay and ranking verification.
package feed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/okian/census/internal/domain/city"
)

const feedFilePermission = 0o600

// Report is one line of a feed: which office reports which city.
type Report struct {
	Office     int    `yaml:"office"`
	Name       string `yaml:"name"`
	State      string `yaml:"state"`
	Population int    `yaml:"population"`
}

// Record converts the report into the city record it carries.
func (r Report) Record() city.Record {
	return city.New(r.Name, r.State, r.Population)
}

// Validate checks the report can be replayed.
func (r Report) Validate() error {
	switch {
	case r.Office <= 0:
		return fmt.Errorf("%w: office must be greater than 0 [%d]", ErrInvalidFeed, r.Office)
	case r.Name == "":
		return fmt.Errorf("%w: city name is empty", ErrInvalidFeed)
	case r.Population < 0:
		return fmt.Errorf("%w: population of %s is negative [%d]", ErrInvalidFeed, r.Name, r.Population)
	}
	return nil
}

type document struct {
	Reports []Report `yaml:"reports"`
}

// Load reads and validates a YAML feed file.
func Load(path string) ([]Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feed %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML feed document.
func Parse(data []byte) ([]Report, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFeed, err)
	}
	for i, r := range doc.Reports {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("report %d: %w", i, err)
		}
	}
	if doc.Reports == nil {
		doc.Reports = []Report{}
	}
	return doc.Reports, nil
}

// Save writes reports as a YAML feed file.
func Save(path string, reports []Report) error {
	data, err := yaml.Marshal(document{Reports: reports})
	if err != nil {
		return fmt.Errorf("encode feed: %w", err)
	}
	if err := os.WriteFile(path, data, feedFilePermission); err != nil {
		return fmt.Errorf("write feed %s: %w", path, err)
	}
	return nil
}

// Offices returns the distinct office numbers of reports in first-seen order.
func Offices(reports []Report) []int {
	seen := make(map[int]struct{})
	var out []int
	for _, r := range reports {
		if _, ok := seen[r.Office]; ok {
			continue
		}
		seen[r.Office] = struct{}{}
		out = append(out, r.Office)
	}
	return out
}
