package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"address-heatmap/internal/config"
	"address-heatmap/internal/geocode"
	"address-heatmap/internal/models"
	"address-heatmap/internal/repository"

	"github.com/rs/zerolog/log"
)

var cacheHeader = []string{"pincode", "latitude", "longitude", "city", "state"}

// Offline cache builder: resolves every pincode referenced by the address
// file to coordinates and stores them in the cache CSV consumed by the
// server. Pincodes already present in the cache are not refetched unless
// -refetch is given.
func main() {
	addresses := flag.String("addresses", "", "Path to the customer address CSV")
	cache := flag.String("cache", "pincode_coordinates_google.csv", "Path to the coordinate cache CSV")
	refetch := flag.Bool("refetch", false, "Refetch all pincodes, ignoring the existing cache")
	flag.Parse()

	if *addresses == "" {
		fmt.Println("Error: -addresses flag is required")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	if cfg.GoogleMapsAPIKey == "" {
		log.Fatal().Msg("GOOGLE_MAPS_API_KEY is not set")
	}

	pincodes, err := uniquePincodes(*addresses)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot read address file")
	}
	log.Info().Int("pincodes", len(pincodes)).Str("file", *addresses).Msg("collected unique pincodes")

	cached := make(map[string]bool)
	if !*refetch {
		cached, err = cachedPincodes(*cache)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot read cache file")
		}
		log.Info().Int("cached", len(cached)).Msg("skipping already cached pincodes")
	}

	var toFetch []string
	for _, pincode := range pincodes {
		if !cached[pincode] {
			toFetch = append(toFetch, pincode)
		}
	}
	if len(toFetch) == 0 {
		log.Info().Msg("all pincodes already cached")
		return
	}
	log.Info().Int("to_fetch", len(toFetch)).Msg("fetching coordinates")

	client := geocode.NewClient(cfg.GoogleMapsAPIKey)
	fetched, misses, failures := fetchEntries(context.Background(), client, toFetch)

	if err := appendToCache(*cache, fetched, *refetch); err != nil {
		log.Fatal().Err(err).Msg("cannot write cache file")
	}

	log.Info().
		Int("fetched", len(fetched)).
		Int("misses", misses).
		Int("failures", failures).
		Str("cache", *cache).
		Msg("cache updated")
}

// pincodeGeocoder is the geocoding client interface, for dependency injection.
type pincodeGeocoder interface {
	PincodeCoordinates(ctx context.Context, pincode string) (*models.CoordinateEntry, error)
}

// fetchEntries geocodes each pincode in turn. Per-pincode failures are
// logged and counted, never fatal, so everything fetched before a transient
// error still reaches the cache.
func fetchEntries(ctx context.Context, client pincodeGeocoder, pincodes []string) (entries []models.CoordinateEntry, misses, failures int) {
	for i, pincode := range pincodes {
		entry, err := client.PincodeCoordinates(ctx, pincode)
		if err != nil {
			if errors.Is(err, geocode.ErrNoResults) {
				log.Warn().Str("pincode", pincode).Msg("no geocoding result")
				misses++
			} else {
				log.Warn().Err(err).Str("pincode", pincode).Msg("geocoding failed, continuing")
				failures++
			}
			continue
		}
		entries = append(entries, *entry)
		log.Info().
			Str("pincode", pincode).
			Float64("lat", entry.Latitude).
			Float64("lon", entry.Longitude).
			Msgf("fetched %d/%d", i+1, len(pincodes))

		// Stay well under the API rate limit.
		if (i+1)%10 == 0 {
			time.Sleep(time.Second)
		}
	}
	return entries, misses, failures
}

// uniquePincodes reads the address CSV and returns its distinct normalized
// pincodes, sorted.
func uniquePincodes(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	pinCol := -1
	for i, name := range header {
		if name == "CPA_PIN_CODE" {
			pinCol = i
		}
	}
	if pinCol == -1 {
		return nil, fmt.Errorf("missing required column %q", "CPA_PIN_CODE")
	}

	seen := make(map[string]bool)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		if pinCol >= len(row) {
			continue
		}
		if pincode, ok := repository.NormalizePincode(row[pinCol]); ok {
			seen[pincode] = true
		}
	}

	pincodes := make([]string, 0, len(seen))
	for pincode := range seen {
		pincodes = append(pincodes, pincode)
	}
	sort.Strings(pincodes)
	return pincodes, nil
}

// cachedPincodes returns the pincodes already present in the cache file.
// A missing cache file is not an error; it just means nothing is cached.
func cachedPincodes(path string) (map[string]bool, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]bool{}, nil
		}
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return map[string]bool{}, nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cached := make(map[string]bool)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		if len(row) == 0 {
			continue
		}
		if pincode, ok := repository.NormalizePincode(row[0]); ok {
			cached[pincode] = true
		}
	}
	return cached, nil
}

func appendToCache(path string, entries []models.CoordinateEntry, truncate bool) error {
	flags := os.O_CREATE | os.O_WRONLY
	if truncate {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}

	file, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	// Stat the open handle: an empty (or just-created) file still needs
	// the header row.
	info, err := file.Stat()
	if err != nil {
		return err
	}
	needHeader := truncate || info.Size() == 0

	writer := csv.NewWriter(file)
	if needHeader {
		if err := writer.Write(cacheHeader); err != nil {
			return err
		}
	}
	for _, entry := range entries {
		row := []string{
			entry.Pincode,
			fmt.Sprintf("%f", entry.Latitude),
			fmt.Sprintf("%f", entry.Longitude),
			entry.City,
			entry.State,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
