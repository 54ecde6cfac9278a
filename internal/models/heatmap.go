package models

// HeatPoint is a single aggregated point on the heatmap.
type HeatPoint struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Weight int     `json:"weight"` // number of addresses at this coordinate
}

// LatLng is a plain coordinate pair used for the map center.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bounds is the bounding box enclosing all heat points.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// HeatmapResponse is the payload behind GET /api/heatmap.
type HeatmapResponse struct {
	Points    []HeatPoint `json:"points"`
	Count     int         `json:"count"`      // number of distinct coordinates
	MaxWeight int         `json:"max_weight"` // largest single-point weight
	Matched   int         `json:"matched"`    // address rows placed on the map
	Skipped   int         `json:"skipped"`    // address rows with no coordinate for their pincode
	Center    LatLng      `json:"center"`
	Bounds    Bounds      `json:"bounds"`
}

// PincodeSummary is one row of the per-pincode ranking, carrying the
// pincode's coordinates so the dashboard can place cluster markers from it.
type PincodeSummary struct {
	Pincode    string  `json:"pincode"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"` // share of matched customers, 0-100
}

// DatasetStats is the metric row shown above the map.
type DatasetStats struct {
	TotalAddresses  int     `json:"total_addresses"`
	Matched         int     `json:"matched"`
	Skipped         int     `json:"skipped"`
	UniquePincodes  int     `json:"unique_pincodes"`
	AvgPerPincode   float64 `json:"avg_per_pincode"`
	MaxAtOnePincode int     `json:"max_at_one_pincode"`
}
