package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"address-heatmap/internal/models"

	"github.com/rs/zerolog/log"
)

// DataLoadError reports a fatal problem with one of the input CSV files:
// missing, unreadable, or lacking a required column. Row-level noise is not
// a DataLoadError; bad rows are dropped and counted instead.
type DataLoadError struct {
	Path string
	Err  error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("repository: loading %s: %v", e.Path, e.Err)
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}

// registrationDateLayout matches the dd/mm/yy format used by the upstream
// address export.
const registrationDateLayout = "02/01/06"

// CSVStore loads the customer address file and the pincode coordinate cache
// into memory. Load is called once at startup; after that the snapshot is
// immutable and safe for concurrent readers.
type CSVStore struct {
	addressPath    string
	coordinatePath string

	loaded      bool
	addresses   []models.AddressRecord
	coordinates []models.CoordinateEntry
}

// NewCSVStore creates a store over the two input files. Nothing is read
// until Load is called.
func NewCSVStore(addressPath, coordinatePath string) *CSVStore {
	return &CSVStore{
		addressPath:    addressPath,
		coordinatePath: coordinatePath,
	}
}

// Load reads both CSV files fully. Any error is a *DataLoadError and leaves
// the store unusable; there is no partial load.
func (s *CSVStore) Load(ctx context.Context) error {
	addresses, dropped, err := loadAddresses(s.addressPath)
	if err != nil {
		return err
	}
	if dropped > 0 {
		log.Warn().
			Str("file", s.addressPath).
			Int("dropped", dropped).
			Msg("dropped address rows with invalid pincode")
	}

	coordinates, dropped, err := loadCoordinates(s.coordinatePath)
	if err != nil {
		return err
	}
	if dropped > 0 {
		log.Warn().
			Str("file", s.coordinatePath).
			Int("dropped", dropped).
			Msg("dropped coordinate rows with invalid pincode or coordinates")
	}

	s.addresses = addresses
	s.coordinates = coordinates
	s.loaded = true

	log.Info().
		Int("addresses", len(addresses)).
		Int("coordinates", len(coordinates)).
		Msg("dataset loaded")

	return nil
}

// Addresses returns the loaded address records.
func (s *CSVStore) Addresses(ctx context.Context) ([]models.AddressRecord, error) {
	if !s.loaded {
		return nil, fmt.Errorf("repository: dataset not loaded")
	}
	return s.addresses, nil
}

// Coordinates returns the loaded coordinate entries.
func (s *CSVStore) Coordinates(ctx context.Context) ([]models.CoordinateEntry, error) {
	if !s.loaded {
		return nil, fmt.Errorf("repository: dataset not loaded")
	}
	return s.coordinates, nil
}

// NormalizePincode canonicalizes a raw pincode cell to its integer string
// form. Upstream exports carry pincodes as "560001", "560001.0" or with
// stray whitespace; all of those normalize to "560001". Returns false for
// blank or non-numeric values.
func NormalizePincode(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return "", false
	}
	if v <= 0 || v != math.Trunc(v) {
		return "", false
	}
	return strconv.Itoa(int(v)), true
}

func loadAddresses(path string) ([]models.AddressRecord, int, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, 0, err
	}

	header := columnIndex(rows[0])
	pinCol, ok := header["CPA_PIN_CODE"]
	if !ok {
		return nil, 0, &DataLoadError{Path: path, Err: fmt.Errorf("missing required column %q", "CPA_PIN_CODE")}
	}
	cityCol, hasCity := header["CPA_ADDR_CITY"]
	dateCol, hasDate := header["RegistrationDate"]

	var records []models.AddressRecord
	dropped := 0
	for _, row := range rows[1:] {
		if pinCol >= len(row) {
			dropped++
			continue
		}
		pincode, ok := NormalizePincode(row[pinCol])
		if !ok {
			dropped++
			continue
		}

		rec := models.AddressRecord{Pincode: pincode}
		if hasCity && cityCol < len(row) {
			rec.City = strings.TrimSpace(row[cityCol])
		}
		if hasDate && dateCol < len(row) {
			if t, err := time.Parse(registrationDateLayout, strings.TrimSpace(row[dateCol])); err == nil {
				rec.Year = t.Year()
			}
		}
		records = append(records, rec)
	}

	return records, dropped, nil
}

func loadCoordinates(path string) ([]models.CoordinateEntry, int, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, 0, err
	}

	header := columnIndex(rows[0])
	required := []string{"pincode", "latitude", "longitude"}
	for _, col := range required {
		if _, ok := header[col]; !ok {
			return nil, 0, &DataLoadError{Path: path, Err: fmt.Errorf("missing required column %q", col)}
		}
	}
	pinCol := header["pincode"]
	latCol := header["latitude"]
	lonCol := header["longitude"]
	cityCol, hasCity := header["city"]
	stateCol, hasState := header["state"]

	var entries []models.CoordinateEntry
	seen := make(map[string]bool)
	dropped := 0
	for _, row := range rows[1:] {
		if pinCol >= len(row) || latCol >= len(row) || lonCol >= len(row) {
			dropped++
			continue
		}
		pincode, ok := NormalizePincode(row[pinCol])
		if !ok {
			dropped++
			continue
		}
		lat, latErr := strconv.ParseFloat(strings.TrimSpace(row[latCol]), 64)
		lon, lonErr := strconv.ParseFloat(strings.TrimSpace(row[lonCol]), 64)
		if latErr != nil || lonErr != nil {
			dropped++
			continue
		}
		// The cache is written deduplicated; if a duplicate sneaks in, the
		// first entry wins.
		if seen[pincode] {
			continue
		}
		seen[pincode] = true

		entry := models.CoordinateEntry{
			Pincode:   pincode,
			Latitude:  lat,
			Longitude: lon,
		}
		if hasCity && cityCol < len(row) {
			entry.City = strings.TrimSpace(row[cityCol])
		}
		if hasState && stateCol < len(row) {
			entry.State = strings.TrimSpace(row[stateCol])
		}
		entries = append(entries, entry)
	}

	return entries, dropped, nil
}

// readCSV reads the whole file including the header row, which is
// guaranteed to be present in the result.
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &DataLoadError{Path: path, Err: err}
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &DataLoadError{Path: path, Err: err}
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, &DataLoadError{Path: path, Err: fmt.Errorf("empty file, header row required")}
	}

	return rows, nil
}

func columnIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	return index
}
