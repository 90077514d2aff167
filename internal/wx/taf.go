package wx

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/RRArny/wxfetch/internal/config"
	"github.com/RRArny/wxfetch/internal/position"
)

// PeriodKind identifies a forecast period's change indicator
type PeriodKind int

const (
	// PeriodInitial is the opening period carrying no change indicator
	PeriodInitial PeriodKind = iota
	// PeriodFrom marks a permanent change (FM)
	PeriodFrom
	// PeriodBecoming marks a gradual change (BECMG)
	PeriodBecoming
	// PeriodTemporary marks a temporary fluctuation (TEMPO)
	PeriodTemporary
	// PeriodProbability marks a probabilistic change (PROBxx)
	PeriodProbability
)

// ForecastPeriod is one period of a forecast: the initial conditions or a
// time-bound change group, with its own decoded field sequence.
type ForecastPeriod struct {
	Kind        PeriodKind
	StartTime   *time.Time
	EndTime     *time.Time
	Probability int64
	Fields      []Field
}

// Forecast is a decoded terminal aerodrome forecast (TAF)
type Forecast struct {
	// Station is the ICAO code of the issuing station
	Station string
	// ExactMatch is true when the forecast came from the exact station requested
	ExactMatch bool
	// IssueTime is when the forecast was published
	IssueTime time.Time
	// ValidityStart and ValidityEnd bound the forecast window
	ValidityStart time.Time
	ValidityEnd   time.Time
	// Periods holds the initial period followed by change groups in source order
	Periods []ForecastPeriod
}

// DecodeForecast decodes a provider TAF value tree. Station, issue time
// and the validity window are mandatory; individual change groups with an
// unknown indicator are skipped.
func DecodeForecast(raw []byte, pos position.Position) (*Forecast, error) {
	var data reportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode forecast: %w", err)
	}

	var station string
	if len(data.Station) == 0 {
		return nil, fmt.Errorf("forecast carries no station identifier")
	}
	if err := json.Unmarshal(data.Station, &station); err != nil {
		return nil, fmt.Errorf("invalid station identifier: %w", err)
	}

	issueTime, ok := timeLeaf(data.Time)
	if !ok {
		return nil, fmt.Errorf("forecast carries no issue time")
	}
	validityStart, ok := timeLeaf(data.StartTime)
	if !ok {
		return nil, fmt.Errorf("forecast carries no validity start")
	}
	validityEnd, ok := timeLeaf(data.EndTime)
	if !ok {
		return nil, fmt.Errorf("forecast carries no validity end")
	}

	units := resolveUnits(data.Units)

	periods, err := decodePeriods(data.Forecast, units)
	if err != nil {
		return nil, err
	}

	return &Forecast{
		Station:       station,
		ExactMatch:    isExactMatch(station, pos),
		IssueTime:     issueTime,
		ValidityStart: validityStart,
		ValidityEnd:   validityEnd,
		Periods:       periods,
	}, nil
}

// decodePeriods assembles the period sequence: the first entry is always
// the initial conditions, every later entry carries exactly one change
// indicator. Groups stay in source order.
func decodePeriods(raw json.RawMessage, units Units) ([]ForecastPeriod, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("forecast carries no period list")
	}

	var groups []json.RawMessage
	if err := json.Unmarshal(raw, &groups); err != nil {
		return nil, fmt.Errorf("invalid forecast period list: %w", err)
	}

	periods := make([]ForecastPeriod, 0, len(groups))
	for i, group := range groups {
		if period, ok := decodeChangeGroup(group, i == 0, units); ok {
			periods = append(periods, period)
		}
	}
	return periods, nil
}

func decodeChangeGroup(raw json.RawMessage, initial bool, units Units) (ForecastPeriod, bool) {
	var data reportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return ForecastPeriod{}, false
	}

	kind := PeriodInitial
	if !initial {
		var indicator string
		if err := json.Unmarshal(data.Type, &indicator); err != nil {
			return ForecastPeriod{}, false
		}
		switch indicator {
		case "FM":
			kind = PeriodFrom
		case "BECMG":
			kind = PeriodBecoming
		case "TEMPO":
			kind = PeriodTemporary
		case "PROB":
			kind = PeriodProbability
		default:
			return ForecastPeriod{}, false
		}
	}

	period := ForecastPeriod{Kind: kind, Fields: extractFields(&data, units)}

	if start, ok := timeLeaf(data.StartTime); ok {
		period.StartTime = &start
	}
	if end, ok := timeLeaf(data.EndTime); ok {
		period.EndTime = &end
	}
	if prob, ok := intLeaf(data.Probability); ok {
		period.Probability = prob
	}

	return period, true
}

// indicator renders the change-group prefix token for a period
func (p ForecastPeriod) indicator() string {
	switch p.Kind {
	case PeriodFrom:
		if p.StartTime != nil {
			return paint(color.New(color.FgHiYellow), "FM"+p.StartTime.UTC().Format("021504"))
		}
	case PeriodBecoming:
		return paint(color.New(color.FgHiMagenta), "BECMG"+p.window())
	case PeriodTemporary:
		return paint(color.New(color.FgHiBlue), "TEMPO"+p.window())
	case PeriodProbability:
		return paint(color.New(color.FgHiRed), fmt.Sprintf("PROB%d%s", p.Probability, p.window()))
	}
	return ""
}

// window renders " DDHH/DDHH" when the period specifies both bounds
func (p ForecastPeriod) window() string {
	if p.StartTime == nil || p.EndTime == nil {
		return ""
	}
	return " " + p.StartTime.UTC().Format("0215") + "/" + p.EndTime.UTC().Format("0215")
}

// colorize renders a period's indicator (when enabled) and fields
func (p ForecastPeriod) colorize(cfg *config.Config, now time.Time, withIndicator bool) string {
	var parts []string
	if withIndicator && cfg.TAF.ShowChangeTimes {
		if prefix := p.indicator(); prefix != "" {
			parts = append(parts, prefix)
		}
	}
	for _, field := range p.Fields {
		parts = append(parts, field.Colorize(cfg, now))
	}
	return strings.Join(parts, " ")
}

// Render produces the colored multi-line representation of the forecast:
// header and initial period on the first line, one indented line per
// change group after it.
func (f *Forecast) Render(cfg *config.Config) string {
	now := clock.Now()

	var b strings.Builder
	b.WriteString(paint(color.New(color.FgHiWhite), "TAF "))
	b.WriteString(stationBadge(f.Station, f.ExactMatch))

	b.WriteByte(' ')
	issue := f.IssueTime.UTC().Format("021504Z")
	b.WriteString(paint(severityColor(ageSeverity(now.Sub(f.IssueTime), cfg)), issue))

	window := f.ValidityStart.UTC().Format("0215") + "/" + f.ValidityEnd.UTC().Format("0215")
	b.WriteByte(' ')
	b.WriteString(paint(color.New(color.FgHiCyan), window))

	for i, period := range f.Periods {
		if i == 0 && period.Kind == PeriodInitial {
			b.WriteByte(' ')
			b.WriteString(period.colorize(cfg, now, false))
			continue
		}
		b.WriteString("\n     ")
		b.WriteString(period.colorize(cfg, now, true))
	}

	return b.String()
}
