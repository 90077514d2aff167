package wx

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/RRArny/wxfetch/internal/config"
	"github.com/RRArny/wxfetch/internal/position"
)

// reportData is the provider's value tree with raw leaves. Each field is
// decoded independently by its extractor so one malformed sub-tree never
// fails the whole report.
type reportData struct {
	Station               json.RawMessage `json:"station"`
	Time                  json.RawMessage `json:"time"`
	WindDirection         json.RawMessage `json:"wind_direction"`
	WindSpeed             json.RawMessage `json:"wind_speed"`
	WindGust              json.RawMessage `json:"wind_gust"`
	WindVariableDirection json.RawMessage `json:"wind_variable_direction"`
	Visibility            json.RawMessage `json:"visibility"`
	Temperature           json.RawMessage `json:"temperature"`
	Dewpoint              json.RawMessage `json:"dewpoint"`
	Altimeter             json.RawMessage `json:"altimeter"`
	Clouds                json.RawMessage `json:"clouds"`
	WxCodes               json.RawMessage `json:"wx_codes"`
	Remarks               json.RawMessage `json:"remarks"`
	Units                 json.RawMessage `json:"units"`

	// Forecast-only keys, present on the top level and on change groups
	StartTime   json.RawMessage `json:"start_time"`
	EndTime     json.RawMessage `json:"end_time"`
	Forecast    json.RawMessage `json:"forecast"`
	Type        json.RawMessage `json:"type"`
	Probability json.RawMessage `json:"probability"`
}

// valueNode is the provider's {"value": ...} leaf wrapper
type valueNode struct {
	Value json.Number `json:"value"`
}

// timeNode is the provider's {"dt": "..."} leaf wrapper
type timeNode struct {
	DT string `json:"dt"`
}

// reprNode is the provider's {"repr": "..."} token wrapper
type reprNode struct {
	Repr string `json:"repr"`
}

func intLeaf(raw json.RawMessage) (int64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var node valueNode
	if err := json.Unmarshal(raw, &node); err != nil {
		return 0, false
	}
	v, err := node.Value.Int64()
	if err != nil {
		return 0, false
	}
	return v, true
}

func timeLeaf(raw json.RawMessage) (time.Time, bool) {
	if len(raw) == 0 {
		return time.Time{}, false
	}
	var node timeNode
	if err := json.Unmarshal(raw, &node); err != nil {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, node.DT)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func tokenLeaves(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var nodes []reprNode
	if err := json.Unmarshal(raw, &nodes); err != nil {
		return nil
	}
	tokens := make([]string, 0, len(nodes))
	for _, n := range nodes {
		tokens = append(tokens, n.Repr)
	}
	return tokens
}

func extractTimestamp(r *reportData) (Field, bool) {
	t, ok := timeLeaf(r.Time)
	if !ok {
		return nil, false
	}
	return TimeStamp{Time: t}, true
}

func extractWind(r *reportData, units Units) (Field, bool) {
	direction, ok := intLeaf(r.WindDirection)
	if !ok {
		return nil, false
	}
	speed, ok := intLeaf(r.WindSpeed)
	if !ok {
		return nil, false
	}
	// Gusts are optional and default to 0
	gusts, _ := intLeaf(r.WindGust)

	return Wind{
		Direction: direction,
		Speed:     speed,
		Gusts:     gusts,
		Unit:      units.WindSpeed,
	}, true
}

func extractWindVariability(r *reportData) (Field, bool) {
	if len(r.WindVariableDirection) == 0 {
		return nil, false
	}
	var nodes []valueNode
	if err := json.Unmarshal(r.WindVariableDirection, &nodes); err != nil {
		return nil, false
	}

	dirs := make([]int64, 0, len(nodes))
	for _, n := range nodes {
		v, err := n.Value.Int64()
		if err != nil {
			return nil, false
		}
		dirs = append(dirs, v)
	}
	if len(dirs) == 0 {
		return nil, false
	}

	sort.Slice(dirs, func(i, j int) bool { return dirs[i] < dirs[j] })

	return WindVariability{
		LowDir:  dirs[0],
		HighDir: dirs[len(dirs)-1],
	}, true
}

func extractVisibility(r *reportData, units Units) (Field, bool) {
	vis, ok := intLeaf(r.Visibility)
	if !ok {
		return nil, false
	}
	return Visibility{Distance: vis, Unit: units.Distance}, true
}

func extractTemperature(r *reportData, units Units) (Field, bool) {
	temp, ok := intLeaf(r.Temperature)
	if !ok {
		return nil, false
	}
	dewpoint, ok := intLeaf(r.Dewpoint)
	if !ok {
		return nil, false
	}
	return Temperature{Temp: temp, Dewpoint: dewpoint, Unit: units.Temperature}, true
}

// extractAltimeter normalizes inHg-as-decimal (29.92) into the same
// integer domain as hPa by scaling by 100 and rounding.
func extractAltimeter(r *reportData, units Units) (Field, bool) {
	if len(r.Altimeter) == 0 {
		return nil, false
	}
	var node valueNode
	if err := json.Unmarshal(r.Altimeter, &node); err != nil {
		return nil, false
	}

	var value int64
	if v, err := node.Value.Int64(); err == nil {
		value = v
	} else if f, err := node.Value.Float64(); err == nil {
		value = int64(math.Round(f * 100))
	} else {
		return nil, false
	}

	return Altimeter{Value: value, Unit: units.Pressure}, true
}

func extractClouds(r *reportData) []Field {
	var fields []Field
	for _, token := range tokenLeaves(r.Clouds) {
		if layer, ok := decodeCloudLayer(token); ok {
			fields = append(fields, layer)
		}
	}
	return fields
}

func extractWxCodes(r *reportData) []Field {
	var fields []Field
	for _, token := range tokenLeaves(r.WxCodes) {
		if code, ok := decodeWxCode(token); ok {
			fields = append(fields, code)
		}
	}
	return fields
}

func extractRemarks(r *reportData) (Field, bool) {
	if len(r.Remarks) == 0 {
		return nil, false
	}
	var text string
	if err := json.Unmarshal(r.Remarks, &text); err != nil || text == "" {
		return nil, false
	}
	return Remarks{Text: text}, true
}

// extractFields runs every optional extractor in report order. Absent or
// malformed sub-trees are skipped rather than failing the decode.
func extractFields(r *reportData, units Units) []Field {
	var fields []Field

	optional := []func() (Field, bool){
		func() (Field, bool) { return extractTimestamp(r) },
		func() (Field, bool) { return extractWind(r, units) },
		func() (Field, bool) { return extractWindVariability(r) },
		func() (Field, bool) { return extractVisibility(r, units) },
		func() (Field, bool) { return extractTemperature(r, units) },
		func() (Field, bool) { return extractAltimeter(r, units) },
	}
	for _, extract := range optional {
		if field, ok := extract(); ok {
			fields = append(fields, field)
		}
	}

	fields = append(fields, extractWxCodes(r)...)
	fields = append(fields, extractClouds(r)...)

	if remarks, ok := extractRemarks(r); ok {
		fields = append(fields, remarks)
	}

	return fields
}

// isExactMatch reports whether the decoded station is the one requested.
// Coordinate and IP-derived requests name no station, so any issuer counts.
func isExactMatch(station string, pos position.Position) bool {
	if pos.Kind != position.KindAirfield {
		return true
	}
	return strings.EqualFold(station, pos.Code)
}

// Report is a decoded current-conditions (METAR) report
type Report struct {
	// Station is the ICAO code of the issuing station
	Station string
	// ExactMatch is true when the report came from the exact station requested
	ExactMatch bool
	// Fields holds the decoded report contents in source order
	Fields []Field
}

// DecodeReport decodes a provider METAR value tree. A missing station
// identifier is a fatal decode failure; all other fields are optional.
func DecodeReport(raw []byte, pos position.Position) (*Report, error) {
	var data reportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}

	var station string
	if len(data.Station) == 0 {
		return nil, fmt.Errorf("report carries no station identifier")
	}
	if err := json.Unmarshal(data.Station, &station); err != nil {
		return nil, fmt.Errorf("invalid station identifier: %w", err)
	}

	units := resolveUnits(data.Units)

	return &Report{
		Station:    station,
		ExactMatch: isExactMatch(station, pos),
		Fields:     extractFields(&data, units),
	}, nil
}

// stationBadge renders the station code, inverse-yellow when the report
// came from a substitute station rather than the one requested.
func stationBadge(station string, exact bool) string {
	if exact {
		return paint(color.New(color.FgHiWhite, color.BgBlue), station)
	}
	return paint(color.New(color.FgBlack, color.BgYellow), station)
}

// Render produces the colored single-line representation of the report
func (r *Report) Render(cfg *config.Config) string {
	now := clock.Now()

	var b strings.Builder
	b.WriteString(stationBadge(r.Station, r.ExactMatch))
	for _, field := range r.Fields {
		b.WriteByte(' ')
		b.WriteString(field.Colorize(cfg, now))
	}
	return b.String()
}
