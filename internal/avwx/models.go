package avwx

// stationCoordinates is the station lookup response filtered to coordinates
type stationCoordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// nearbyStation is one entry of the proximity query response
type nearbyStation struct {
	Station struct {
		ICAO string `json:"icao"`
	} `json:"station"`
}
