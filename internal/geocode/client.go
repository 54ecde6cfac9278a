package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"address-heatmap/internal/models"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

// ErrNoResults is returned when the geocoder has no match for a pincode.
var ErrNoResults = errors.New("geocode: no results")

// Client calls the Google Geocoding API to resolve pincodes to coordinates.
// It is used only by the offline fetcher; the serve path reads the
// pre-fetched cache and never geocodes.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a geocoding client with the given API key.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		AddressComponents []struct {
			LongName string   `json:"long_name"`
			Types    []string `json:"types"`
		} `json:"address_components"`
	} `json:"results"`
}

// PincodeCoordinates geocodes one Indian pincode. The query format matches
// the cache builder that produced the existing coordinate files.
func (c *Client) PincodeCoordinates(ctx context.Context, pincode string) (*models.CoordinateEntry, error) {
	params := url.Values{}
	params.Set("address", fmt.Sprintf("Pincode %s, India", pincode))
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("geocode: failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode: unexpected status %d", resp.StatusCode)
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("geocode: failed to decode response: %w", err)
	}

	switch body.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, ErrNoResults
	default:
		return nil, fmt.Errorf("geocode: api status %s", body.Status)
	}
	if len(body.Results) == 0 {
		return nil, ErrNoResults
	}

	result := body.Results[0]
	entry := &models.CoordinateEntry{
		Pincode:   pincode,
		Latitude:  result.Geometry.Location.Lat,
		Longitude: result.Geometry.Location.Lng,
	}
	for _, component := range result.AddressComponents {
		for _, t := range component.Types {
			switch t {
			case "locality":
				entry.City = component.LongName
			case "administrative_area_level_1":
				entry.State = component.LongName
			}
		}
	}

	return entry, nil
}
