package service

import (
	"context"
	"sort"

	"address-heatmap/internal/models"
)

// DatasetRepository is the loaded-dataset interface consumed by the
// services, for dependency injection.
type DatasetRepository interface {
	Addresses(ctx context.Context) ([]models.AddressRecord, error)
	Coordinates(ctx context.Context) ([]models.CoordinateEntry, error)
}

// locatedRecord pairs an address record with the coordinate entry resolved
// for its pincode.
type locatedRecord struct {
	addr  models.AddressRecord
	coord models.CoordinateEntry
}

// filterByYear keeps records registered in the given year. Year 0 means no
// filter.
func filterByYear(records []models.AddressRecord, year int) []models.AddressRecord {
	if year == 0 {
		return records
	}
	var filtered []models.AddressRecord
	for _, rec := range records {
		if rec.Year == year {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

// joinRecords resolves each address to its coordinate entry by pincode.
// Records whose pincode has no entry are counted as skipped rather than
// failing the run. matched + skipped always equals len(records).
func joinRecords(records []models.AddressRecord, coords []models.CoordinateEntry) (matched []locatedRecord, skipped int) {
	byPincode := make(map[string]models.CoordinateEntry, len(coords))
	for _, entry := range coords {
		if _, ok := byPincode[entry.Pincode]; !ok {
			byPincode[entry.Pincode] = entry
		}
	}

	for _, rec := range records {
		entry, ok := byPincode[rec.Pincode]
		if !ok {
			skipped++
			continue
		}
		matched = append(matched, locatedRecord{addr: rec, coord: entry})
	}
	return matched, skipped
}

// aggregatePoints groups matched records by coordinate pair. The weight of
// each point is the number of addresses at that coordinate, so the weights
// sum to len(matched). Output is ordered by weight descending for stable
// responses; consumers treat it as a set.
func aggregatePoints(matched []locatedRecord) []models.HeatPoint {
	type coordKey struct {
		lat, lng float64
	}

	counts := make(map[coordKey]int)
	for _, m := range matched {
		counts[coordKey{lat: m.coord.Latitude, lng: m.coord.Longitude}]++
	}

	points := make([]models.HeatPoint, 0, len(counts))
	for key, count := range counts {
		points = append(points, models.HeatPoint{Lat: key.lat, Lng: key.lng, Weight: count})
	}

	sort.Slice(points, func(i, j int) bool {
		if points[i].Weight != points[j].Weight {
			return points[i].Weight > points[j].Weight
		}
		if points[i].Lat != points[j].Lat {
			return points[i].Lat < points[j].Lat
		}
		return points[i].Lng < points[j].Lng
	})

	return points
}
