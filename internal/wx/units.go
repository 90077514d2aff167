package wx

import (
	"encoding/json"
	"strings"
)

// Units holds the unit system each measured quantity of a report was
// issued in. Values are never converted; the unit travels with the value
// so thresholds can be applied unit-aware.
type Units struct {
	Pressure    PressureUnit
	Altitude    AltitudeUnit
	WindSpeed   SpeedUnit
	Temperature TemperatureUnit
	Distance    DistanceUnit
}

// DefaultUnits returns the metric/ICAO conventions assumed when a report
// carries no units sub-tree.
func DefaultUnits() Units {
	return Units{
		Pressure:    PressureHPa,
		Altitude:    AltitudeFeet,
		WindSpeed:   SpeedKnots,
		Temperature: TemperatureCelsius,
		Distance:    DistanceMeters,
	}
}

// unitsData mirrors the provider's units sub-tree
type unitsData struct {
	Altimeter   string `json:"altimeter"`
	Altitude    string `json:"altitude"`
	WindSpeed   string `json:"wind_speed"`
	Temperature string `json:"temperature"`
	Visibility  string `json:"visibility"`
}

// resolveUnits decodes the units sub-tree, falling back to the defaults
// for any unit that is absent or unrecognized.
func resolveUnits(raw json.RawMessage) Units {
	units := DefaultUnits()
	if len(raw) == 0 {
		return units
	}

	var data unitsData
	if err := json.Unmarshal(raw, &data); err != nil {
		return units
	}

	units.Pressure = pressureUnitFromString(data.Altimeter)
	units.Altitude = altitudeUnitFromString(data.Altitude)
	units.WindSpeed = speedUnitFromString(data.WindSpeed)
	units.Temperature = temperatureUnitFromString(data.Temperature)
	units.Distance = distanceUnitFromString(data.Visibility)

	return units
}

// PressureUnit is the unit of an altimeter setting
type PressureUnit int

const (
	PressureHPa PressureUnit = iota
	PressureInHg
)

func pressureUnitFromString(s string) PressureUnit {
	switch strings.ToLower(s) {
	case "inhg":
		return PressureInHg
	default:
		return PressureHPa
	}
}

// AltitudeUnit is the unit of cloud layer heights
type AltitudeUnit int

const (
	AltitudeFeet AltitudeUnit = iota
	AltitudeMeters
)

func altitudeUnitFromString(s string) AltitudeUnit {
	switch strings.ToLower(s) {
	case "m":
		return AltitudeMeters
	default:
		return AltitudeFeet
	}
}

// SpeedUnit is the unit of wind speeds
type SpeedUnit int

const (
	SpeedKnots SpeedUnit = iota
	SpeedKPH
	SpeedMPH
)

func speedUnitFromString(s string) SpeedUnit {
	switch strings.ToLower(s) {
	case "kph":
		return SpeedKPH
	case "mph":
		return SpeedMPH
	default:
		return SpeedKnots
	}
}

// String returns the suffix rendered after a wind group
func (u SpeedUnit) String() string {
	switch u {
	case SpeedKPH:
		return "KPH"
	case SpeedMPH:
		return "MPH"
	default:
		return "KT"
	}
}

// TemperatureUnit is the unit of temperature and dewpoint
type TemperatureUnit int

const (
	TemperatureCelsius TemperatureUnit = iota
	TemperatureFahrenheit
)

func temperatureUnitFromString(s string) TemperatureUnit {
	switch strings.ToLower(s) {
	case "f":
		return TemperatureFahrenheit
	default:
		return TemperatureCelsius
	}
}

// DistanceUnit is the unit of visibility distances
type DistanceUnit int

const (
	DistanceMeters DistanceUnit = iota
	DistanceNauticalMiles
	DistanceMiles
	DistanceKilometers
)

func distanceUnitFromString(s string) DistanceUnit {
	switch strings.ToLower(s) {
	case "nm":
		return DistanceNauticalMiles
	case "mi":
		return DistanceMiles
	case "km":
		return DistanceKilometers
	default:
		return DistanceMeters
	}
}
