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

const sampleForecast = `{
	"station": "EDDK",
	"time": {"dt": "2024-06-02T11:00:00Z"},
	"start_time": {"dt": "2024-06-02T12:00:00Z"},
	"end_time": {"dt": "2024-06-03T12:00:00Z"},
	"forecast": [
		{
			"start_time": {"dt": "2024-06-02T12:00:00Z"},
			"end_time": {"dt": "2024-06-03T12:00:00Z"},
			"wind_direction": {"value": 120},
			"wind_speed": {"value": 10}
		},
		{
			"type": "BECMG",
			"start_time": {"dt": "2024-06-02T14:00:00Z"},
			"end_time": {"dt": "2024-06-02T16:00:00Z"},
			"wind_direction": {"value": 200},
			"wind_speed": {"value": 15}
		}
	]
}`

func TestDecodeForecast(t *testing.T) {
	forecast, err := DecodeForecast([]byte(sampleForecast), position.Airfield("EDDK"))
	require.NoError(t, err)

	assert.Equal(t, "EDDK", forecast.Station)
	assert.True(t, forecast.ExactMatch)
	assert.Equal(t, time.Date(2024, 6, 2, 11, 0, 0, 0, time.UTC), forecast.IssueTime)
	assert.Equal(t, time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC), forecast.ValidityStart)
	assert.Equal(t, time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC), forecast.ValidityEnd)

	require.Len(t, forecast.Periods, 2)
	assert.Equal(t, PeriodInitial, forecast.Periods[0].Kind)
	assert.Equal(t, []Field{Wind{Direction: 120, Speed: 10, Unit: SpeedKnots}}, forecast.Periods[0].Fields)
	assert.Equal(t, PeriodBecoming, forecast.Periods[1].Kind)
	assert.Equal(t, []Field{Wind{Direction: 200, Speed: 15, Unit: SpeedKnots}}, forecast.Periods[1].Fields)
}

func TestDecodeForecastMandatoryHeader(t *testing.T) {
	cases := map[string]string{
		"missing station":        `{"time": {"dt": "2024-06-02T11:00:00Z"}}`,
		"missing issue time":     `{"station": "EDDK", "start_time": {"dt": "2024-06-02T12:00:00Z"}, "end_time": {"dt": "2024-06-03T12:00:00Z"}, "forecast": []}`,
		"missing validity start": `{"station": "EDDK", "time": {"dt": "2024-06-02T11:00:00Z"}, "end_time": {"dt": "2024-06-03T12:00:00Z"}, "forecast": []}`,
		"missing validity end":   `{"station": "EDDK", "time": {"dt": "2024-06-02T11:00:00Z"}, "start_time": {"dt": "2024-06-02T12:00:00Z"}, "forecast": []}`,
		"missing period list":    `{"station": "EDDK", "time": {"dt": "2024-06-02T11:00:00Z"}, "start_time": {"dt": "2024-06-02T12:00:00Z"}, "end_time": {"dt": "2024-06-03T12:00:00Z"}}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeForecast([]byte(raw), position.Airfield("EDDK"))
			assert.Error(t, err)
		})
	}
}

// Change groups with an unknown indicator are dropped, the rest survive.
func TestDecodeForecastSkipsUnknownIndicators(t *testing.T) {
	raw := `{
		"station": "EDDK",
		"time": {"dt": "2024-06-02T11:00:00Z"},
		"start_time": {"dt": "2024-06-02T12:00:00Z"},
		"end_time": {"dt": "2024-06-03T12:00:00Z"},
		"forecast": [
			{"wind_direction": {"value": 120}, "wind_speed": {"value": 10}},
			{"type": "INTER", "wind_speed": {"value": 30}},
			{"type": "TEMPO", "wind_direction": {"value": 180}, "wind_speed": {"value": 20}}
		]
	}`
	forecast, err := DecodeForecast([]byte(raw), position.Airfield("EDDK"))
	require.NoError(t, err)

	require.Len(t, forecast.Periods, 2)
	assert.Equal(t, PeriodInitial, forecast.Periods[0].Kind)
	assert.Equal(t, PeriodTemporary, forecast.Periods[1].Kind)
}

func TestDecodeForecastProbability(t *testing.T) {
	raw := `{
		"station": "EDDK",
		"time": {"dt": "2024-06-02T11:00:00Z"},
		"start_time": {"dt": "2024-06-02T12:00:00Z"},
		"end_time": {"dt": "2024-06-03T12:00:00Z"},
		"forecast": [
			{"wind_direction": {"value": 120}, "wind_speed": {"value": 10}},
			{
				"type": "PROB",
				"probability": {"value": 30},
				"start_time": {"dt": "2024-06-02T18:00:00Z"},
				"end_time": {"dt": "2024-06-02T22:00:00Z"},
				"visibility": {"value": 800}
			}
		]
	}`
	forecast, err := DecodeForecast([]byte(raw), position.Airfield("EDDK"))
	require.NoError(t, err)

	require.Len(t, forecast.Periods, 2)
	prob := forecast.Periods[1]
	assert.Equal(t, PeriodProbability, prob.Kind)
	assert.Equal(t, int64(30), prob.Probability)
	require.NotNil(t, prob.StartTime)
	require.NotNil(t, prob.EndTime)
	assert.Equal(t, []Field{Visibility{Distance: 800, Unit: DistanceMeters}}, prob.Fields)
}

func TestForecastRender(t *testing.T) {
	plainColors(t)
	SetClock(clockwork.NewFakeClockAt(time.Date(2024, 6, 2, 11, 30, 0, 0, time.UTC)))
	t.Cleanup(func() { SetClock(nil) })

	forecast, err := DecodeForecast([]byte(sampleForecast), position.Airfield("EDDK"))
	require.NoError(t, err)

	t.Run("change groups on indented lines", func(t *testing.T) {
		rendered := forecast.Render(config.Default())
		assert.Equal(t, "TAF EDDK 021100Z 0212/0312 12010KT\n     BECMG 0214/0216 20015KT", rendered)
	})

	t.Run("indicator tokens can be hidden", func(t *testing.T) {
		cfg := config.Default()
		cfg.TAF.ShowChangeTimes = false
		rendered := forecast.Render(cfg)
		assert.Equal(t, "TAF EDDK 021100Z 0212/0312 12010KT\n     20015KT", rendered)
	})
}

func TestPeriodIndicator(t *testing.T) {
	plainColors(t)
	start := time.Date(2024, 6, 2, 15, 4, 0, 0, time.UTC)
	end := time.Date(2024, 6, 2, 18, 0, 0, 0, time.UTC)

	t.Run("from carries the full start time", func(t *testing.T) {
		p := ForecastPeriod{Kind: PeriodFrom, StartTime: &start}
		assert.Equal(t, "FM021504", p.indicator())
	})

	t.Run("probability carries its percentage", func(t *testing.T) {
		p := ForecastPeriod{Kind: PeriodProbability, Probability: 30, StartTime: &start, EndTime: &end}
		assert.Equal(t, "PROB30 0215/0218", p.indicator())
	})

	t.Run("window needs both bounds", func(t *testing.T) {
		p := ForecastPeriod{Kind: PeriodTemporary, StartTime: &start}
		assert.Equal(t, "TEMPO", p.indicator())
	})
}
