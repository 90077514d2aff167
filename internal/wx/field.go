package wx

import (
	"fmt"
	"time"

	"github.com/fatih/color"

	"github.com/RRArny/wxfetch/internal/config"
)

// Field is one element of a decoded weather report. Colorize maps the
// field against the operator's thresholds and returns the colored text
// fragment. The render pass samples "now" once and passes it to every
// field so age coloring is consistent across the report.
type Field interface {
	Colorize(cfg *config.Config, now time.Time) string
}

// TimeStamp is the issue time of the report
type TimeStamp struct {
	Time time.Time
}

// Wind is the prevailing wind group
type Wind struct {
	Direction int64
	Speed     int64
	Gusts     int64
	Unit      SpeedUnit
}

// WindVariability is reported when the wind direction is changing
type WindVariability struct {
	LowDir  int64
	HighDir int64
}

// Visibility is the prevailing visibility
type Visibility struct {
	Distance int64
	Unit     DistanceUnit
}

// Temperature is the temperature and dewpoint group
type Temperature struct {
	Temp     int64
	Dewpoint int64
	Unit     TemperatureUnit
}

// Altimeter is the altimeter setting (QNH)
type Altimeter struct {
	Value int64
	Unit  PressureUnit
}

// CloudLayer is one observed cloud layer, height in flight levels
type CloudLayer struct {
	Coverage Coverage
	Height   int64
}

// WxCode is one observed weather phenomenon
type WxCode struct {
	Code       Code
	Intensity  Intensity
	Descriptor Descriptor
	Proximity  Proximity
}

// Remarks is the free-text remarks section
type Remarks struct {
	Text string
}

// severity is the two-tier bucketing every threshold comparison maps into
type severity int

const (
	sevGood severity = iota
	sevMarginal
	sevBad
)

func severityColor(s severity) *color.Color {
	switch s {
	case sevGood:
		return color.New(color.FgGreen)
	case sevMarginal:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

func paint(c *color.Color, s string) string {
	return c.Sprint(s)
}

// Note the asymmetric boundaries: the marginal bound is inclusive, the
// minimum bound exclusive. Kept exactly as configured historically.
func visibilitySeverity(vis int64, cfg *config.Config) severity {
	switch {
	case vis >= cfg.Visibility.Marginal:
		return sevGood
	case vis > cfg.Visibility.Minimum:
		return sevMarginal
	default:
		return sevBad
	}
}

func cloudHeightSeverity(height int64, cfg *config.Config) severity {
	switch {
	case height <= cfg.Clouds.Minimum:
		return sevBad
	case height <= cfg.Clouds.Marginal:
		return sevMarginal
	default:
		return sevGood
	}
}

func coverageSeverity(c Coverage) severity {
	switch c {
	case CoverageOvercast:
		return sevBad
	case CoverageBroken:
		return sevMarginal
	default:
		return sevGood
	}
}

func ageSeverity(age time.Duration, cfg *config.Config) severity {
	switch {
	case age < cfg.Age.Marginal():
		return sevGood
	case age < cfg.Age.Maximum():
		return sevMarginal
	default:
		return sevBad
	}
}

func windSpeedSeverity(speed int64, cfg *config.Config) severity {
	if speed > cfg.Wind.Maximum {
		return sevBad
	}
	return sevGood
}

func gustSeverity(gusts, speed int64, cfg *config.Config) severity {
	if gusts-speed > cfg.Wind.GustMaximum {
		return sevBad
	}
	return sevGood
}

func windVarSeverity(low, high int64, cfg *config.Config) severity {
	if high-low < cfg.Wind.VarMaximum {
		return sevGood
	}
	return sevMarginal
}

func temperatureSeverity(temp int64, cfg *config.Config) severity {
	if temp > cfg.Temperature.Minimum {
		return sevGood
	}
	return sevBad
}

func spreadSeverity(temp, dewpoint int64, cfg *config.Config) severity {
	if temp-dewpoint > cfg.Temperature.SpreadMinimum {
		return sevGood
	}
	return sevBad
}

// altimeterSeverity has no bad tier: a low setting is worth noticing,
// not alarming. Thresholds are absolute per unit (standard atmosphere).
func altimeterSeverity(value int64, unit PressureUnit) severity {
	switch unit {
	case PressureInHg:
		if value >= 2992 {
			return sevGood
		}
	default:
		if value >= 1013 {
			return sevGood
		}
	}
	return sevMarginal
}

// Colorize renders the issue time as DDHHMMZ, colored by report age
func (f TimeStamp) Colorize(cfg *config.Config, now time.Time) string {
	age := now.Sub(f.Time)
	return paint(severityColor(ageSeverity(age, cfg)), f.Time.UTC().Format("021504Z"))
}

// Colorize renders the wind group, coloring speed and gusts independently
func (f Wind) Colorize(cfg *config.Config, _ time.Time) string {
	out := fmt.Sprintf("%03d", f.Direction)
	out += paint(severityColor(windSpeedSeverity(f.Speed, cfg)), fmt.Sprintf("%02d", f.Speed))
	if f.Gusts > 0 {
		gustColor := color.New(color.FgGreen)
		if gustSeverity(f.Gusts, f.Speed, cfg) == sevBad {
			gustColor = color.New(color.FgHiRed)
		}
		out += "G" + paint(gustColor, fmt.Sprintf("%02d", f.Gusts))
	}
	return out + f.Unit.String()
}

// Colorize renders the variable wind span, colored by its width
func (f WindVariability) Colorize(cfg *config.Config, _ time.Time) string {
	sev := windVarSeverity(f.LowDir, f.HighDir, cfg)
	return paint(severityColor(sev), fmt.Sprintf("%dV%d", f.LowDir, f.HighDir))
}

// Colorize renders the visibility, zero-padded to four digits
func (f Visibility) Colorize(cfg *config.Config, _ time.Time) string {
	sev := visibilitySeverity(f.Distance, cfg)
	return paint(severityColor(sev), fmt.Sprintf("%04d", f.Distance))
}

// Colorize renders temperature and dewpoint, each colored on its own scale
func (f Temperature) Colorize(cfg *config.Config, _ time.Time) string {
	tempColor := color.New(color.FgHiRed)
	if temperatureSeverity(f.Temp, cfg) == sevGood {
		tempColor = color.New(color.FgHiGreen)
	}
	dewColor := severityColor(sevBad)
	if spreadSeverity(f.Temp, f.Dewpoint, cfg) == sevGood {
		dewColor = severityColor(sevGood)
	}
	return paint(tempColor, fmt.Sprintf("%d", f.Temp)) + "/" + paint(dewColor, fmt.Sprintf("%d", f.Dewpoint))
}

// Colorize renders the altimeter setting with its unit prefix
func (f Altimeter) Colorize(cfg *config.Config, _ time.Time) string {
	c := severityColor(altimeterSeverity(f.Value, f.Unit))
	if f.Unit == PressureInHg {
		return paint(c, fmt.Sprintf("A%04d", f.Value))
	}
	return paint(c, fmt.Sprintf("Q%d", f.Value))
}

// Colorize renders the layer with the coverage tint on the code letters
// and the height tint on the numeric suffix.
func (f CloudLayer) Colorize(cfg *config.Config, _ time.Time) string {
	code := paint(severityColor(coverageSeverity(f.Coverage)), f.Coverage.String())
	height := paint(severityColor(cloudHeightSeverity(f.Height, cfg)), fmt.Sprintf("%d", f.Height))
	return code + height
}

// codeColor keys phenomenon codes to a fixed severity table
func codeColor(c Code) *color.Color {
	switch c {
	case CodeRain:
		return color.New(color.FgHiYellow)
	case CodeHail, CodeSnow, CodeUnknownPrecip:
		return color.New(color.FgRed)
	case CodeSmallHail:
		return color.New(color.FgYellow)
	case CodeDustWhirls:
		return color.New(color.FgHiRed)
	default:
		return color.New(color.FgWhite)
	}
}

func intensityColor(i Intensity) *color.Color {
	switch i {
	case IntensityLight:
		return color.New(color.FgHiGreen)
	case IntensityHeavy:
		return color.New(color.FgHiRed)
	default:
		return color.New(color.FgWhite)
	}
}

func descriptorColor(d Descriptor) *color.Color {
	switch d {
	case DescriptorThunderstorm:
		return color.New(color.FgRed)
	case DescriptorFreezing:
		return color.New(color.FgHiBlue)
	case DescriptorShower:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgWhite)
	}
}

// Colorize renders the phenomenon with each component independently keyed
func (f WxCode) Colorize(cfg *config.Config, _ time.Time) string {
	return paint(intensityColor(f.Intensity), f.Intensity.String()) +
		paint(descriptorColor(f.Descriptor), f.Descriptor.String()) +
		paint(codeColor(f.Code), f.Code.String()) +
		paint(color.New(color.FgWhite), f.Proximity.String())
}

// Colorize renders remarks inverse-video so they stand apart
func (f Remarks) Colorize(cfg *config.Config, _ time.Time) string {
	return paint(color.New(color.FgBlack, color.BgWhite), f.Text)
}
