package feed

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"

	"github.com/okian/census/internal/domain/city"
	"github.com/okian/census/pkg/logger"
)

const (
	defaultMaxPopulation = 500_000
	generatedState       = "VA"
	generatedNameLength  = 8
)

// GenerateConfig controls synthetic feed generation.
type GenerateConfig struct {
	Count         int           // number of reports
	Offices       []int         // offices to spread reports over
	MaxPopulation int           // exclusive upper bound for generated populations
	Logger        logger.Logger // optional
}

// randomInt returns a uniform value in [0, n) using crypto/rand.
func randomInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("random: %w", err)
	}
	return int(v.Int64()), nil
}

// Generate builds cfg.Count reports. The Virginia cities are used first in a
// random order; once exhausted, cities get unique generated names and random
// populations.
func Generate(ctx context.Context, cfg GenerateConfig) ([]Report, error) {
	if cfg.Count < 0 {
		return nil, fmt.Errorf("%w: count must not be negative [%d]", ErrInvalidFeed, cfg.Count)
	}
	if len(cfg.Offices) == 0 {
		return nil, fmt.Errorf("%w: no offices to generate reports for", ErrInvalidFeed)
	}
	for _, o := range cfg.Offices {
		if o <= 0 {
			return nil, fmt.Errorf("%w: office must be greater than 0 [%d]", ErrInvalidFeed, o)
		}
	}
	if cfg.MaxPopulation <= 0 {
		cfg.MaxPopulation = defaultMaxPopulation
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Discard()
	}

	log.Info(ctx, "generating reports", logger.Int("count", cfg.Count), logger.Int("offices", len(cfg.Offices)))

	known, err := shuffled(Virginia())
	if err != nil {
		return nil, err
	}

	reports := make([]Report, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		idx, err := randomInt(len(cfg.Offices))
		if err != nil {
			return nil, err
		}

		var rec city.Record
		if i < len(known) {
			rec = known[i]
		} else {
			pop, err := randomInt(cfg.MaxPopulation)
			if err != nil {
				return nil, err
			}
			rec = city.New("City-"+uuid.NewString()[:generatedNameLength], generatedState, pop)
		}

		reports = append(reports, Report{
			Office:     cfg.Offices[idx],
			Name:       rec.Name(),
			State:      rec.Region(),
			Population: rec.Population(),
		})
	}

	log.Debug(ctx, "reports generated", logger.Int("count", len(reports)))
	return reports, nil
}

// shuffled returns a Fisher-Yates shuffled copy of records.
func shuffled(records []city.Record) ([]city.Record, error) {
	out := make([]city.Record, len(records))
	copy(out, records)
	for i := len(out) - 1; i > 0; i-- {
		j, err := randomInt(i + 1)
		if err != nil {
			return nil, err
		}
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
