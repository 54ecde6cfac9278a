package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"address-heatmap/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const validCoordinates = `pincode,latitude,longitude,city,state
560001,12.97,77.59,Bengaluru,Karnataka
110001,28.63,77.21,New Delhi,Delhi
`

func TestCSVStore_Load(t *testing.T) {
	dir := t.TempDir()

	addresses := writeFile(t, dir, "addresses.csv", `CPA_PIN_CODE,CPA_ADDR_CITY,RegistrationDate
560001,Bangalore,15/03/21
560001.0,Bangalore,02/11/22
 560001 ,Bangalore,not-a-date
110001,Delhi,01/01/21
,NoPin,15/03/21
abcdef,BadPin,15/03/21
`)
	coordinates := writeFile(t, dir, "coordinates.csv", validCoordinates)

	store := NewCSVStore(addresses, coordinates)
	require.NoError(t, store.Load(context.Background()))

	records, err := store.Addresses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.AddressRecord{
		{Pincode: "560001", City: "Bangalore", Year: 2021},
		{Pincode: "560001", City: "Bangalore", Year: 2022},
		{Pincode: "560001", City: "Bangalore", Year: 0},
		{Pincode: "110001", City: "Delhi", Year: 2021},
	}, records)

	entries, err := store.Coordinates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.CoordinateEntry{
		{Pincode: "560001", Latitude: 12.97, Longitude: 77.59, City: "Bengaluru", State: "Karnataka"},
		{Pincode: "110001", Latitude: 28.63, Longitude: 77.21, City: "New Delhi", State: "Delhi"},
	}, entries)
}

func TestCSVStore_Load_MissingFile(t *testing.T) {
	dir := t.TempDir()
	coordinates := writeFile(t, dir, "coordinates.csv", validCoordinates)

	store := NewCSVStore(filepath.Join(dir, "nope.csv"), coordinates)
	err := store.Load(context.Background())

	var loadErr *DataLoadError
	require.ErrorAs(t, err, &loadErr)

	// No partial load: the store stays unusable.
	_, err = store.Addresses(context.Background())
	assert.Error(t, err)
	_, err = store.Coordinates(context.Background())
	assert.Error(t, err)
}

func TestCSVStore_Load_MissingColumns(t *testing.T) {
	tests := []struct {
		name        string
		addressCSV  string
		coordCSV    string
		wantInError string
	}{
		{
			name:        "address file without pincode column",
			addressCSV:  "NAME,CITY\nfoo,bar\n",
			coordCSV:    validCoordinates,
			wantInError: "CPA_PIN_CODE",
		},
		{
			name:        "coordinate file without latitude column",
			addressCSV:  "CPA_PIN_CODE\n560001\n",
			coordCSV:    "pincode,longitude\n560001,77.59\n",
			wantInError: "latitude",
		},
		{
			name:        "empty coordinate file",
			addressCSV:  "CPA_PIN_CODE\n560001\n",
			coordCSV:    "",
			wantInError: "header",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			addresses := writeFile(t, dir, "addresses.csv", tt.addressCSV)
			coordinates := writeFile(t, dir, "coordinates.csv", tt.coordCSV)

			store := NewCSVStore(addresses, coordinates)
			err := store.Load(context.Background())

			var loadErr *DataLoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Contains(t, err.Error(), tt.wantInError)
		})
	}
}

func TestCSVStore_Load_DuplicateCoordinatePincode(t *testing.T) {
	dir := t.TempDir()
	addresses := writeFile(t, dir, "addresses.csv", "CPA_PIN_CODE\n560001\n")
	coordinates := writeFile(t, dir, "coordinates.csv", `pincode,latitude,longitude
560001,12.97,77.59
560001,99.99,99.99
`)

	store := NewCSVStore(addresses, coordinates)
	require.NoError(t, store.Load(context.Background()))

	entries, err := store.Coordinates(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 12.97, entries[0].Latitude)
}

func TestDataLoadError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &DataLoadError{Path: "x.csv", Err: inner}

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "x.csv")
}

func TestNormalizePincode(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
		ok       bool
	}{
		{"560001", "560001", true},
		{"560001.0", "560001", true},
		{"  560001 ", "560001", true},
		{"", "", false},
		{"   ", "", false},
		{"abc", "", false},
		{"-12", "", false},
		{"560001.5", "", false},
		{"NaN", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := NormalizePincode(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}
