package wx

import (
	"fmt"
	"regexp"
	"strings"
)

// Code is a standardised two-letter code for a weather phenomenon
type Code int

const (
	// CodeRain is rain
	CodeRain Code = iota
	// CodeDrizzle is drizzle
	CodeDrizzle
	// CodeHail is hail (diameter >= 5mm)
	CodeHail
	// CodeSmallHail is small hail (diameter < 5mm)
	CodeSmallHail
	// CodeIceCrystals is ice crystals
	CodeIceCrystals
	// CodeIcePellets is ice pellets
	CodeIcePellets
	// CodeSnowGrains is snow grains
	CodeSnowGrains
	// CodeSnow is snow
	CodeSnow
	// CodeUnknownPrecip is unknown precipitation (automated reports only)
	CodeUnknownPrecip
	// CodeMist is mist (visibility >= 1000m)
	CodeMist
	// CodeDust is widespread dust
	CodeDust
	// CodeFog is fog (visibility < 1000m)
	CodeFog
	// CodeSmoke is smoke
	CodeSmoke
	// CodeHaze is haze
	CodeHaze
	// CodeSpray is spray
	CodeSpray
	// CodeSand is sand
	CodeSand
	// CodeVolcanicAsh is volcanic ash
	CodeVolcanicAsh
	// CodeDustStorm is a dust storm
	CodeDustStorm
	// CodeFunnelCloud is funnel clouds
	CodeFunnelCloud
	// CodeDustWhirls is well-developed sand or dust whirls
	CodeDustWhirls
	// CodeSqualls is squalls
	CodeSqualls
	// CodeSandstorm is a sandstorm
	CodeSandstorm
)

var codeValues = []Code{
	CodeRain, CodeDrizzle, CodeHail, CodeSmallHail, CodeIceCrystals,
	CodeIcePellets, CodeSnowGrains, CodeSnow, CodeUnknownPrecip, CodeMist,
	CodeDust, CodeFog, CodeSmoke, CodeHaze, CodeSpray, CodeSand,
	CodeVolcanicAsh, CodeDustStorm, CodeFunnelCloud, CodeDustWhirls,
	CodeSqualls, CodeSandstorm,
}

var codeNames = map[Code]string{
	CodeRain:          "RA",
	CodeDrizzle:       "DZ",
	CodeHail:          "GR",
	CodeSmallHail:     "GS",
	CodeIceCrystals:   "IC",
	CodeIcePellets:    "PL",
	CodeSnowGrains:    "SG",
	CodeSnow:          "SN",
	CodeUnknownPrecip: "UP",
	CodeMist:          "BR",
	CodeDust:          "DU",
	CodeFog:           "FG",
	CodeSmoke:         "FU",
	CodeHaze:          "HZ",
	CodeSpray:         "PY",
	CodeSand:          "SA",
	CodeVolcanicAsh:   "VA",
	CodeDustStorm:     "DS",
	CodeFunnelCloud:   "FC",
	CodeDustWhirls:    "PO",
	CodeSqualls:       "SQ",
	CodeSandstorm:     "SS",
}

// String returns the canonical METAR representation of the code
func (c Code) String() string {
	return codeNames[c]
}

// CodeFromString parses a phenomenon code case-insensitively.
// There is no default: unknown codes are an error.
func CodeFromString(s string) (Code, error) {
	for _, c := range codeValues {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}
	return CodeRain, fmt.Errorf("invalid weather code %q", s)
}

// Intensity qualifies how strong a phenomenon is
type Intensity int

const (
	// IntensityModerate is the unmarked default
	IntensityModerate Intensity = iota
	// IntensityLight is marked "-"
	IntensityLight
	// IntensityHeavy is marked "+"
	IntensityHeavy
)

// String returns the canonical prefix for the intensity
func (i Intensity) String() string {
	switch i {
	case IntensityLight:
		return "-"
	case IntensityHeavy:
		return "+"
	default:
		return ""
	}
}

// IntensityFromString parses an intensity prefix; empty means moderate
func IntensityFromString(s string) (Intensity, error) {
	switch s {
	case "":
		return IntensityModerate, nil
	case "-":
		return IntensityLight, nil
	case "+":
		return IntensityHeavy, nil
	default:
		return IntensityModerate, fmt.Errorf("invalid intensity code %q", s)
	}
}

// Descriptor further qualifies a phenomenon
type Descriptor int

const (
	// DescriptorNone means no descriptor
	DescriptorNone Descriptor = iota
	// DescriptorThunderstorm is a thunderstorm
	DescriptorThunderstorm
	// DescriptorPatches is patches
	DescriptorPatches
	// DescriptorBlowing is blowing
	DescriptorBlowing
	// DescriptorDrifting is low drifting
	DescriptorDrifting
	// DescriptorFreezing is freezing
	DescriptorFreezing
	// DescriptorShallow is shallow
	DescriptorShallow
	// DescriptorPartial is partial
	DescriptorPartial
	// DescriptorShower is shower(s)
	DescriptorShower
)

var descriptorValues = []Descriptor{
	DescriptorNone, DescriptorThunderstorm, DescriptorPatches,
	DescriptorBlowing, DescriptorDrifting, DescriptorFreezing,
	DescriptorShallow, DescriptorPartial, DescriptorShower,
}

// String returns the canonical METAR representation of the descriptor
func (d Descriptor) String() string {
	switch d {
	case DescriptorThunderstorm:
		return "TS"
	case DescriptorPatches:
		return "BC"
	case DescriptorBlowing:
		return "BL"
	case DescriptorDrifting:
		return "DR"
	case DescriptorFreezing:
		return "FZ"
	case DescriptorShallow:
		return "MI"
	case DescriptorPartial:
		return "PR"
	case DescriptorShower:
		return "SH"
	default:
		return ""
	}
}

// DescriptorFromString parses a descriptor; empty means none
func DescriptorFromString(s string) (Descriptor, error) {
	for _, d := range descriptorValues {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return DescriptorNone, fmt.Errorf("invalid weather code descriptor %q", s)
}

// Proximity locates a phenomenon relative to the reporting station
type Proximity int

const (
	// ProximityOnStation is the unmarked default
	ProximityOnStation Proximity = iota
	// ProximityVicinity is within 5-10 miles of the station
	ProximityVicinity
	// ProximityDistant is more than 10 miles from the station
	ProximityDistant
)

var proximityValues = []Proximity{
	ProximityOnStation, ProximityVicinity, ProximityDistant,
}

// String returns the canonical suffix for the proximity
func (p Proximity) String() string {
	switch p {
	case ProximityVicinity:
		return "VC"
	case ProximityDistant:
		return "DSNT"
	default:
		return ""
	}
}

// ProximityFromString parses a proximity suffix; empty means on station
func ProximityFromString(s string) (Proximity, error) {
	for _, p := range proximityValues {
		if strings.EqualFold(s, p.String()) {
			return p, nil
		}
	}
	return ProximityOnStation, fmt.Errorf("invalid weather proximity code %q", s)
}

// alternation derives a regex alternation from the canonical display
// strings of a closed enum, skipping the unmarked empty form.
func alternation[T fmt.Stringer](values []T) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if s := v.String(); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "|")
}

// codeAlternation covers the full closed code set
func codeAlternation() string {
	return alternation(codeValues)
}

// wxCodePattern matches a phenomenon token: optional intensity and
// descriptor, a mandatory code, and an optional proximity suffix.
var wxCodePattern = regexp.MustCompile(
	`(?P<intensity>([+]|-)?)` +
		"(?P<descriptor>(" + alternation(descriptorValues) + ")?)" +
		"(?P<code>" + codeAlternation() + ")" +
		"(?P<proximity>(" + alternation(proximityValues) + ")?)")

// decodeWxCode decodes a compact phenomenon token such as "-SHRA".
// All four components must parse or the whole token is rejected.
func decodeWxCode(token string) (WxCode, bool) {
	matches := wxCodePattern.FindStringSubmatch(token)
	if matches == nil {
		return WxCode{}, false
	}

	code, err := CodeFromString(matches[wxCodePattern.SubexpIndex("code")])
	if err != nil {
		return WxCode{}, false
	}
	intensity, err := IntensityFromString(matches[wxCodePattern.SubexpIndex("intensity")])
	if err != nil {
		return WxCode{}, false
	}
	descriptor, err := DescriptorFromString(matches[wxCodePattern.SubexpIndex("descriptor")])
	if err != nil {
		return WxCode{}, false
	}
	proximity, err := ProximityFromString(matches[wxCodePattern.SubexpIndex("proximity")])
	if err != nil {
		return WxCode{}, false
	}

	return WxCode{
		Code:       code,
		Intensity:  intensity,
		Descriptor: descriptor,
		Proximity:  proximity,
	}, true
}
