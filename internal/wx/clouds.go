package wx

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Coverage describes how much of the sky a cloud layer obscures,
// ordered by increasing obscuration.
type Coverage int

const (
	// CoverageClear means sky clear
	CoverageClear Coverage = iota
	// CoverageFew means up to 2/8 coverage
	CoverageFew
	// CoverageScattered means 3-4/8 coverage
	CoverageScattered
	// CoverageBroken means 5-7/8 coverage
	CoverageBroken
	// CoverageOvercast means 8/8 coverage
	CoverageOvercast
)

var coverageValues = []Coverage{
	CoverageClear,
	CoverageFew,
	CoverageScattered,
	CoverageBroken,
	CoverageOvercast,
}

// String returns the canonical METAR representation of the coverage band
func (c Coverage) String() string {
	switch c {
	case CoverageClear:
		return "SKC"
	case CoverageFew:
		return "FEW"
	case CoverageScattered:
		return "SCT"
	case CoverageBroken:
		return "BRK"
	default:
		return "OVC"
	}
}

// CoverageFromString parses a coverage band case-insensitively
func CoverageFromString(s string) (Coverage, error) {
	for _, c := range coverageValues {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}
	return CoverageClear, fmt.Errorf("invalid cloud coverage %q", s)
}

// coverageAlternation derives the grammar's alternation text from the
// canonical display strings so grammar and enum cannot drift apart.
func coverageAlternation() string {
	parts := make([]string, len(coverageValues))
	for i, c := range coverageValues {
		parts[i] = c.String()
	}
	return strings.Join(parts, "|")
}

// cloudPattern matches a cloud layer token: a coverage band followed by
// an optional height in flight levels.
var cloudPattern = regexp.MustCompile(
	"(?i)(?P<coverage>" + coverageAlternation() + `)(?P<height>\d*)`)

// decodeCloudLayer decodes a compact cloud token such as "SCT050".
// Tokens that do not match the grammar yield no field.
func decodeCloudLayer(token string) (CloudLayer, bool) {
	matches := cloudPattern.FindStringSubmatch(token)
	if matches == nil {
		return CloudLayer{}, false
	}

	coverage, err := CoverageFromString(matches[cloudPattern.SubexpIndex("coverage")])
	if err != nil {
		return CloudLayer{}, false
	}

	// Absent digits default to height 0
	height, err := strconv.ParseInt(matches[cloudPattern.SubexpIndex("height")], 10, 64)
	if err != nil {
		height = 0
	}

	return CloudLayer{Coverage: coverage, Height: height}, true
}
