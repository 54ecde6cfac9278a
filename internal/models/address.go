package models

// AddressRecord represents one customer address row, reduced to the fields
// the dashboard needs: the pincode join key, the declared city, and the
// registration year extracted from the registration date.
type AddressRecord struct {
	Pincode string `json:"pincode"`
	City    string `json:"city"`
	Year    int    `json:"year"` // 0 when the registration date is missing or unparsable
}

// CoordinateEntry is one row of the pre-fetched pincode coordinate cache,
// keyed uniquely by pincode.
type CoordinateEntry struct {
	Pincode   string  `json:"pincode"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city"`
	State     string  `json:"state"`
}
