package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"

	"address-heatmap/internal/repository"

	"github.com/rs/zerolog/log"
)

// Merges several customer address CSV exports into one combined file,
// dropping rows whose pincode does not parse. Columns are aligned by name
// against the first input file's header.
func main() {
	out := flag.String("out", "Combined_Address_Details.csv", "Path of the combined output CSV")
	flag.Parse()

	inputs := flag.Args()
	if len(inputs) < 2 {
		fmt.Println("Usage: merger [-out file] <input.csv> <input.csv> [...]")
		os.Exit(1)
	}

	var header []string
	var combined [][]string
	totalDropped := 0

	for _, path := range inputs {
		rows, dropped, fileHeader, err := readAddressFile(path, header)
		if err != nil {
			log.Fatal().Err(err).Str("file", path).Msg("cannot read input file")
		}
		if header == nil {
			header = fileHeader
		}
		combined = append(combined, rows...)
		totalDropped += dropped
		log.Info().
			Str("file", path).
			Int("records", len(rows)).
			Int("dropped", dropped).
			Msg("loaded")
	}

	if err := writeCombined(*out, header, combined); err != nil {
		log.Fatal().Err(err).Str("file", *out).Msg("cannot write output file")
	}

	log.Info().
		Str("file", *out).
		Int("records", len(combined)).
		Int("dropped", totalDropped).
		Msg("combined file written")
}

// readAddressFile reads one input file, drops invalid-pincode rows, and
// projects its columns onto the target header. A nil target header means
// this file defines the column order.
func readAddressFile(path string, target []string) (rows [][]string, dropped int, header []string, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err = reader.Read()
	if err != nil {
		return nil, 0, nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}
	pinCol, ok := columns["CPA_PIN_CODE"]
	if !ok {
		return nil, 0, nil, fmt.Errorf("missing required column %q", "CPA_PIN_CODE")
	}

	if target == nil {
		target = header
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, nil, fmt.Errorf("failed to read record: %w", err)
		}
		if pinCol >= len(row) {
			dropped++
			continue
		}
		pincode, ok := repository.NormalizePincode(row[pinCol])
		if !ok {
			dropped++
			continue
		}

		projected := make([]string, len(target))
		for i, name := range target {
			if col, ok := columns[name]; ok && col < len(row) {
				projected[i] = row[col]
			}
			if name == "CPA_PIN_CODE" {
				projected[i] = pincode
			}
		}
		rows = append(rows, projected)
	}

	return rows, dropped, header, nil
}

func writeCombined(path string, header []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
