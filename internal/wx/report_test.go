package wx

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RRArny/wxfetch/internal/config"
	"github.com/RRArny/wxfetch/internal/position"
)

const sampleReport = `{
	"station": "EDDK",
	"time": {"dt": "2024-06-02T15:04:00Z"},
	"wind_direction": {"value": 120},
	"wind_speed": {"value": 10},
	"wind_variable_direction": [{"value": 150}, {"value": 100}],
	"visibility": {"value": 9999},
	"temperature": {"value": 22},
	"dewpoint": {"value": 12},
	"altimeter": {"value": 1013},
	"wx_codes": [{"repr": "-RA"}],
	"clouds": [{"repr": "SCT50"}],
	"remarks": "NOSIG"
}`

func TestDecodeReport(t *testing.T) {
	report, err := DecodeReport([]byte(sampleReport), position.Airfield("EDDK"))
	require.NoError(t, err)

	assert.Equal(t, "EDDK", report.Station)
	assert.True(t, report.ExactMatch)

	issued := time.Date(2024, 6, 2, 15, 4, 0, 0, time.UTC)
	assert.Equal(t, []Field{
		TimeStamp{Time: issued},
		Wind{Direction: 120, Speed: 10, Gusts: 0, Unit: SpeedKnots},
		WindVariability{LowDir: 100, HighDir: 150},
		Visibility{Distance: 9999, Unit: DistanceMeters},
		Temperature{Temp: 22, Dewpoint: 12, Unit: TemperatureCelsius},
		Altimeter{Value: 1013, Unit: PressureHPa},
		WxCode{Code: CodeRain, Intensity: IntensityLight, Descriptor: DescriptorNone, Proximity: ProximityOnStation},
		CloudLayer{Coverage: CoverageScattered, Height: 50},
		Remarks{Text: "NOSIG"},
	}, report.Fields)
}

func TestDecodeReportStationRequired(t *testing.T) {
	_, err := DecodeReport([]byte(`{"time": {"dt": "2024-06-02T15:04:00Z"}}`), position.GeoIP())
	assert.Error(t, err)
}

func TestDecodeReportMalformedJSON(t *testing.T) {
	_, err := DecodeReport([]byte(`{`), position.GeoIP())
	assert.Error(t, err)
}

// A malformed sub-tree drops its own field, never the whole report.
func TestDecodeReportSkipsMalformedFields(t *testing.T) {
	raw := `{
		"station": "EDRK",
		"time": {"dt": "not a timestamp"},
		"visibility": {"value": 5000},
		"clouds": [{"repr": "SCT050"}, {"repr": "OCC33"}, {"repr": "OVC200"}]
	}`
	report, err := DecodeReport([]byte(raw), position.Airfield("EDRK"))
	require.NoError(t, err)

	assert.Equal(t, []Field{
		Visibility{Distance: 5000, Unit: DistanceMeters},
		CloudLayer{Coverage: CoverageScattered, Height: 50},
		CloudLayer{Coverage: CoverageOvercast, Height: 200},
	}, report.Fields)
}

func TestDecodeReportCloudOrderPreserved(t *testing.T) {
	raw := `{
		"station": "EDDK",
		"clouds": [{"repr": "SCT050"}, {"repr": "BRK100"}, {"repr": "OVC200"}]
	}`
	report, err := DecodeReport([]byte(raw), position.Airfield("EDDK"))
	require.NoError(t, err)

	assert.Equal(t, []Field{
		CloudLayer{Coverage: CoverageScattered, Height: 50},
		CloudLayer{Coverage: CoverageBroken, Height: 100},
		CloudLayer{Coverage: CoverageOvercast, Height: 200},
	}, report.Fields)
}

// The variable-direction span is normalized regardless of source order.
func TestDecodeReportWindVariabilitySorted(t *testing.T) {
	for _, order := range []string{
		`[{"value": 150}, {"value": 80}]`,
		`[{"value": 80}, {"value": 150}]`,
	} {
		raw := `{"station": "EDDK", "wind_variable_direction": ` + order + `}`
		report, err := DecodeReport([]byte(raw), position.Airfield("EDDK"))
		require.NoError(t, err)
		assert.Equal(t, []Field{WindVariability{LowDir: 80, HighDir: 150}}, report.Fields)
	}
}

func TestDecodeReportAltimeter(t *testing.T) {
	t.Run("inches of mercury scale to hundredths", func(t *testing.T) {
		raw := `{"station": "KJFK", "altimeter": {"value": 29.92}, "units": {"altimeter": "inHg"}}`
		report, err := DecodeReport([]byte(raw), position.Airfield("KJFK"))
		require.NoError(t, err)
		assert.Equal(t, []Field{Altimeter{Value: 2992, Unit: PressureInHg}}, report.Fields)
	})

	t.Run("hectopascals pass through", func(t *testing.T) {
		raw := `{"station": "EDDK", "altimeter": {"value": 1013}}`
		report, err := DecodeReport([]byte(raw), position.Airfield("EDDK"))
		require.NoError(t, err)
		assert.Equal(t, []Field{Altimeter{Value: 1013, Unit: PressureHPa}}, report.Fields)
	})
}

// Temperature and dewpoint only appear as a pair.
func TestDecodeReportTemperatureNeedsDewpoint(t *testing.T) {
	raw := `{"station": "EDDK", "temperature": {"value": 22}}`
	report, err := DecodeReport([]byte(raw), position.Airfield("EDDK"))
	require.NoError(t, err)
	assert.Empty(t, report.Fields)
}

func TestIsExactMatch(t *testing.T) {
	t.Run("matching airfield", func(t *testing.T) {
		assert.True(t, isExactMatch("EDDK", position.Airfield("EDDK")))
	})

	t.Run("airfield match ignores case", func(t *testing.T) {
		assert.True(t, isExactMatch("EDDK", position.Airfield("eddk")))
	})

	t.Run("substitute station", func(t *testing.T) {
		assert.False(t, isExactMatch("EDRK", position.Airfield("EDDK")))
	})

	t.Run("coordinate requests always match", func(t *testing.T) {
		assert.True(t, isExactMatch("EDRK", position.Coordinates(50.3, 7.5)))
	})

	t.Run("geoip requests always match", func(t *testing.T) {
		assert.True(t, isExactMatch("EDRK", position.GeoIP()))
	})
}

func TestReportRender(t *testing.T) {
	plainColors(t)
	SetClock(clockwork.NewFakeClockAt(time.Date(2024, 6, 2, 15, 30, 0, 0, time.UTC)))
	t.Cleanup(func() { SetClock(nil) })

	report, err := DecodeReport([]byte(sampleReport), position.Airfield("EDDK"))
	require.NoError(t, err)

	rendered := report.Render(config.Default())
	assert.Equal(t, "EDDK 021504Z 12010KT 100V150 9999 22/12 Q1013 -RA SCT50 NOSIG", rendered)
}
