package service

import (
	"context"
	"fmt"

	"address-heatmap/internal/models"

	"github.com/golang/geo/s2"
)

// HeatmapService contains the core business logic for building the
// address-density heatmap.
type HeatmapService struct {
	repo DatasetRepository
}

// NewHeatmapService creates a new heatmap service
func NewHeatmapService(repo DatasetRepository) *HeatmapService {
	return &HeatmapService{repo: repo}
}

// Heatmap joins the loaded addresses against the coordinate cache,
// aggregates counts per coordinate, and returns the points together with
// the map center and bounds. year 0 means all years.
func (s *HeatmapService) Heatmap(ctx context.Context, year int) (*models.HeatmapResponse, error) {
	if year < 0 {
		return nil, fmt.Errorf("service: invalid year: %d", year)
	}

	addresses, err := s.repo.Addresses(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to read addresses: %w", err)
	}
	coords, err := s.repo.Coordinates(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to read coordinates: %w", err)
	}

	matched, skipped := joinRecords(filterByYear(addresses, year), coords)
	points := aggregatePoints(matched)

	maxWeight := 0
	for _, p := range points {
		if p.Weight > maxWeight {
			maxWeight = p.Weight
		}
	}

	center, bounds := centerAndBounds(points)

	return &models.HeatmapResponse{
		Points:    points,
		Count:     len(points),
		MaxWeight: maxWeight,
		Matched:   len(matched),
		Skipped:   skipped,
		Center:    center,
		Bounds:    bounds,
	}, nil
}

// centerAndBounds computes the spherical centroid and the bounding box of
// the given points.
func centerAndBounds(points []models.HeatPoint) (models.LatLng, models.Bounds) {
	if len(points) == 0 {
		return models.LatLng{}, models.Bounds{}
	}

	var sum s2.Point
	rect := s2.EmptyRect()
	for _, p := range points {
		ll := s2.LatLngFromDegrees(p.Lat, p.Lng)
		sum.Vector = sum.Add(s2.PointFromLatLng(ll).Vector)
		rect = rect.AddPoint(ll)
	}

	centroid := s2.LatLngFromPoint(s2.Point{Vector: sum.Normalize()})
	center := models.LatLng{
		Lat: centroid.Lat.Degrees(),
		Lng: centroid.Lng.Degrees(),
	}
	bounds := models.Bounds{
		South: rect.Lo().Lat.Degrees(),
		West:  rect.Lo().Lng.Degrees(),
		North: rect.Hi().Lat.Degrees(),
		East:  rect.Hi().Lng.Degrees(),
	}
	return center, bounds
}
