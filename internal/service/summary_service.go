package service

import (
	"context"
	"fmt"
	"sort"

	"address-heatmap/internal/models"
)

// SummaryService contains the business logic for the per-pincode ranking
// table and the dataset statistics.
type SummaryService struct {
	repo DatasetRepository
}

// NewSummaryService creates a new summary service
func NewSummaryService(repo DatasetRepository) *SummaryService {
	return &SummaryService{repo: repo}
}

// Summary returns per-pincode customer counts sorted by count descending.
// Percentages are relative to the matched total. limit 0 means no limit.
func (s *SummaryService) Summary(ctx context.Context, year, limit int) ([]models.PincodeSummary, error) {
	if year < 0 {
		return nil, fmt.Errorf("service: invalid year: %d", year)
	}
	if limit < 0 {
		return nil, fmt.Errorf("service: invalid limit: %d", limit)
	}

	matched, _, err := s.join(ctx, year)
	if err != nil {
		return nil, err
	}

	type group struct {
		entry models.CoordinateEntry
		city  string
		count int
	}
	groups := make(map[string]*group)
	for _, m := range matched {
		g, ok := groups[m.addr.Pincode]
		if !ok {
			g = &group{entry: m.coord}
			groups[m.addr.Pincode] = g
		}
		g.count++
		// City from the coordinate cache wins; fall back to the first
		// non-empty city declared on an address.
		if g.city == "" {
			if g.entry.City != "" {
				g.city = g.entry.City
			} else if m.addr.City != "" {
				g.city = m.addr.City
			}
		}
	}

	rows := make([]models.PincodeSummary, 0, len(groups))
	for pincode, g := range groups {
		row := models.PincodeSummary{
			Pincode:   pincode,
			City:      g.city,
			State:     g.entry.State,
			Latitude:  g.entry.Latitude,
			Longitude: g.entry.Longitude,
			Count:     g.count,
		}
		if len(matched) > 0 {
			row.Percentage = float64(g.count) / float64(len(matched)) * 100
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Pincode < rows[j].Pincode
	})

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// Stats returns the dashboard metric row for the given year (0 = all).
func (s *SummaryService) Stats(ctx context.Context, year int) (*models.DatasetStats, error) {
	if year < 0 {
		return nil, fmt.Errorf("service: invalid year: %d", year)
	}

	matched, skipped, err := s.join(ctx, year)
	if err != nil {
		return nil, err
	}

	perPincode := make(map[string]int)
	maxAtOne := 0
	for _, m := range matched {
		perPincode[m.addr.Pincode]++
		if perPincode[m.addr.Pincode] > maxAtOne {
			maxAtOne = perPincode[m.addr.Pincode]
		}
	}

	stats := &models.DatasetStats{
		TotalAddresses:  len(matched) + skipped,
		Matched:         len(matched),
		Skipped:         skipped,
		UniquePincodes:  len(perPincode),
		MaxAtOnePincode: maxAtOne,
	}
	if len(perPincode) > 0 {
		stats.AvgPerPincode = float64(len(matched)) / float64(len(perPincode))
	}
	return stats, nil
}

// Years lists the distinct registration years present in the address file,
// ascending. Records without a parsable registration date are excluded.
func (s *SummaryService) Years(ctx context.Context) ([]int, error) {
	addresses, err := s.repo.Addresses(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to read addresses: %w", err)
	}

	seen := make(map[int]bool)
	for _, rec := range addresses {
		if rec.Year != 0 {
			seen[rec.Year] = true
		}
	}

	years := make([]int, 0, len(seen))
	for year := range seen {
		years = append(years, year)
	}
	sort.Ints(years)
	return years, nil
}

func (s *SummaryService) join(ctx context.Context, year int) ([]locatedRecord, int, error) {
	addresses, err := s.repo.Addresses(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("service: failed to read addresses: %w", err)
	}
	coords, err := s.repo.Coordinates(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("service: failed to read coordinates: %w", err)
	}
	matched, skipped := joinRecords(filterByYear(addresses, year), coords)
	return matched, skipped, nil
}
