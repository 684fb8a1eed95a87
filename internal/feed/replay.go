package feed

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/okian/census/internal/census"
	"github.com/okian/census/internal/domain/city"
)

// Stats summarizes a replay.
type Stats struct {
	Reports  int         // reports delivered to an office
	Failed   int         // reports whose fan-out returned an error
	ByOffice map[int]int // delivered reports per office
}

// Replay sends every report to its office in feed order. A report for an
// office missing from offices stops the replay with ErrUnknownOffice; listener
// failures are collected and the replay goes on.
func Replay(ctx context.Context, offices map[int]*census.Office, reports []Report) (Stats, error) {
	stats := Stats{ByOffice: make(map[int]int)}
	var errs []error

	for i, r := range reports {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		o, ok := offices[r.Office]
		if !ok {
			return stats, fmt.Errorf("report %d: %w [%d]", i, ErrUnknownOffice, r.Office)
		}

		rec := r.Record()
		err := o.Report(ctx, &rec)
		stats.Reports++
		stats.ByOffice[r.Office]++
		if err != nil {
			stats.Failed++
			errs = append(errs, fmt.Errorf("report %d: %w", i, err))
		}
	}
	return stats, errors.Join(errs...)
}

// Expected returns the reference top-k of reports: a stable sort by
// population, descending, truncated to k. A k below zero counts as zero.
func Expected(reports []Report, k int) []city.Record {
	k = max(k, 0)
	all := make([]city.Record, len(reports))
	for i, r := range reports {
		all[i] = r.Record()
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Population() > all[j].Population()
	})
	if len(all) > k {
		all = all[:k]
	}
	return all
}

// Verify compares a top-k answer with the reference ranking of reports.
func Verify(got []city.Record, reports []Report, k int) error {
	want := Expected(reports, k)
	if len(got) != len(want) {
		return fmt.Errorf("%w: expected %d records, got %d", ErrRankingMismatch, len(want), len(got))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			return fmt.Errorf("%w: position %d: expected %s, got %s", ErrRankingMismatch, i+1, want[i], got[i])
		}
	}
	return nil
}
