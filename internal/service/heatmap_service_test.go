package service

import (
	"context"
	"testing"

	"address-heatmap/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDatasetRepository is a mock implementation of the DatasetRepository interface
type MockDatasetRepository struct {
	mock.Mock
}

// Addresses implements DatasetRepository.
func (m *MockDatasetRepository) Addresses(ctx context.Context) ([]models.AddressRecord, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.AddressRecord), args.Error(1)
}

// Coordinates implements DatasetRepository.
func (m *MockDatasetRepository) Coordinates(ctx context.Context) ([]models.CoordinateEntry, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.CoordinateEntry), args.Error(1)
}

func TestHeatmapService_Heatmap(t *testing.T) {
	addresses := []models.AddressRecord{
		{Pincode: "560001", Year: 2021},
		{Pincode: "560001", Year: 2021},
		{Pincode: "560001", Year: 2022},
		{Pincode: "110001", Year: 2021},
		{Pincode: "999999", Year: 2021},
	}
	coords := []models.CoordinateEntry{
		{Pincode: "560001", Latitude: 12.97, Longitude: 77.59},
		{Pincode: "110001", Latitude: 28.63, Longitude: 77.21},
	}

	t.Run("all years", func(t *testing.T) {
		mockRepo := new(MockDatasetRepository)
		mockRepo.On("Addresses", mock.Anything).Return(addresses, nil)
		mockRepo.On("Coordinates", mock.Anything).Return(coords, nil)
		service := NewHeatmapService(mockRepo)

		resp, err := service.Heatmap(context.Background(), 0)

		require.NoError(t, err)
		assert.Equal(t, 2, resp.Count)
		assert.Equal(t, 4, resp.Matched)
		assert.Equal(t, 1, resp.Skipped)
		assert.Equal(t, 3, resp.MaxWeight)
		assert.Equal(t, []models.HeatPoint{
			{Lat: 12.97, Lng: 77.59, Weight: 3},
			{Lat: 28.63, Lng: 77.21, Weight: 1},
		}, resp.Points)

		// Center falls between the two points, bounds enclose both.
		assert.InDelta(t, 20.8, resp.Center.Lat, 0.5)
		assert.InDelta(t, 77.4, resp.Center.Lng, 0.5)
		assert.InDelta(t, 12.97, resp.Bounds.South, 1e-6)
		assert.InDelta(t, 77.21, resp.Bounds.West, 1e-6)
		assert.InDelta(t, 28.63, resp.Bounds.North, 1e-6)
		assert.InDelta(t, 77.59, resp.Bounds.East, 1e-6)

		mockRepo.AssertExpectations(t)
	})

	t.Run("filtered by year", func(t *testing.T) {
		mockRepo := new(MockDatasetRepository)
		mockRepo.On("Addresses", mock.Anything).Return(addresses, nil)
		mockRepo.On("Coordinates", mock.Anything).Return(coords, nil)
		service := NewHeatmapService(mockRepo)

		resp, err := service.Heatmap(context.Background(), 2022)

		require.NoError(t, err)
		assert.Equal(t, 1, resp.Matched)
		assert.Equal(t, 0, resp.Skipped)
		assert.Equal(t, []models.HeatPoint{{Lat: 12.97, Lng: 77.59, Weight: 1}}, resp.Points)
	})

	t.Run("no points", func(t *testing.T) {
		mockRepo := new(MockDatasetRepository)
		mockRepo.On("Addresses", mock.Anything).Return([]models.AddressRecord{}, nil)
		mockRepo.On("Coordinates", mock.Anything).Return(coords, nil)
		service := NewHeatmapService(mockRepo)

		resp, err := service.Heatmap(context.Background(), 0)

		require.NoError(t, err)
		assert.Equal(t, 0, resp.Count)
		assert.Empty(t, resp.Points)
		assert.Equal(t, models.LatLng{}, resp.Center)
	})

	t.Run("invalid year", func(t *testing.T) {
		mockRepo := new(MockDatasetRepository)
		service := NewHeatmapService(mockRepo)

		_, err := service.Heatmap(context.Background(), -1)

		assert.Error(t, err)
	})

	t.Run("repository error", func(t *testing.T) {
		mockRepo := new(MockDatasetRepository)
		mockRepo.On("Addresses", mock.Anything).Return([]models.AddressRecord(nil), assert.AnError)
		service := NewHeatmapService(mockRepo)

		_, err := service.Heatmap(context.Background(), 0)

		assert.Error(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestCenterAndBounds_SinglePoint(t *testing.T) {
	center, bounds := centerAndBounds([]models.HeatPoint{{Lat: 12.97, Lng: 77.59, Weight: 3}})

	assert.InDelta(t, 12.97, center.Lat, 1e-6)
	assert.InDelta(t, 77.59, center.Lng, 1e-6)
	assert.InDelta(t, 12.97, bounds.South, 1e-6)
	assert.InDelta(t, 12.97, bounds.North, 1e-6)
	assert.InDelta(t, 77.59, bounds.West, 1e-6)
	assert.InDelta(t, 77.59, bounds.East, 1e-6)
}
