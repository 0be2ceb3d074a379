package psychro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAirState(t *testing.T) {
	s := Standard.NewAirState(Float64(25), Float64(50))
	require.True(t, s.Known())

	x := AbsoluteHumidity(25, 50)
	assert.InDelta(t, 25, *s.Temperature, 1e-12)
	assert.InDelta(t, 50, *s.RelativeHumidity, 1e-12)
	assert.InDelta(t, x, *s.AbsoluteHumidity, 1e-12)
	assert.InDelta(t, Enthalpy(25, x), *s.Enthalpy, 1e-12)
	assert.InDelta(t, DryAirDensity(25, 50), *s.Density, 1e-12)
}

func TestNewAirState_ClampsRelativeHumidity(t *testing.T) {
	s := Standard.NewAirState(Float64(20), Float64(120))
	assert.Equal(t, 100.0, *s.RelativeHumidity)
}

func TestNewAirState_UnknownTemperature(t *testing.T) {
	s := Standard.NewAirState(nil, Float64(60))
	assert.False(t, s.Known())
	assert.Nil(t, s.Temperature)
	require.NotNil(t, s.RelativeHumidity)
	assert.Equal(t, 60.0, *s.RelativeHumidity)
	assert.Nil(t, s.AbsoluteHumidity)
	assert.Nil(t, s.Enthalpy)
	assert.Nil(t, s.Density)

	assert.Nil(t, s.DewPoint(Standard))
	assert.Nil(t, s.WetBulb(Standard))
	assert.Nil(t, s.SpecificVolume())
}

func TestAirState_KnownRequiresEveryProperty(t *testing.T) {
	full := Standard.NewAirState(Float64(25), Float64(50))
	require.True(t, full.Known())

	noRH := full
	noRH.RelativeHumidity = nil
	assert.False(t, noRH.Known())

	noDensity := full
	noDensity.Density = nil
	assert.False(t, noDensity.Known())
	assert.Nil(t, noDensity.WetBulb(Standard))
}

func TestNewAirStateFromHumidity(t *testing.T) {
	s := Standard.NewAirStateFromHumidity(Float64(40), Float64(10.5))
	require.True(t, s.Known())
	assert.InDelta(t, 10.5, *s.AbsoluteHumidity, 1e-12)
	assert.InDelta(t, RelativeHumidity(40, 10.5), *s.RelativeHumidity, 1e-12)

	// 負の絶対湿度は 0 とする
	dry := Standard.NewAirStateFromHumidity(Float64(40), Float64(-2))
	assert.Equal(t, 0.0, *dry.AbsoluteHumidity)
	assert.Equal(t, 0.0, *dry.RelativeHumidity)
}

func TestDeriveAirState_HumidityOverrideWins(t *testing.T) {
	s := DeriveAirState(Float64(20), Float64(90), Float64(5))
	assert.InDelta(t, 5, *s.AbsoluteHumidity, 1e-12)
	assert.Less(t, *s.RelativeHumidity, 90.0)

	r := DeriveAirState(Float64(20), Float64(90), nil)
	assert.InDelta(t, 90, *r.RelativeHumidity, 1e-12)
}

func TestAirState_DerivedDisplayValues(t *testing.T) {
	s := Standard.NewAirState(Float64(25), Float64(80))
	td := s.DewPoint(Standard)
	require.NotNil(t, td)
	assert.InDelta(t, 21.3, *td, 0.1)

	wb := s.WetBulb(Standard)
	require.NotNil(t, wb)
	assert.Less(t, *wb, 25.0)
	assert.Greater(t, *wb, *td)

	v := s.SpecificVolume()
	require.NotNil(t, v)
	assert.InDelta(t, 1.0 / *s.Density, *v, 1e-12)
}

func TestAirState_Equal(t *testing.T) {
	a := Standard.NewAirState(Float64(25), Float64(50))
	b := Standard.NewAirState(Float64(25), Float64(50))
	assert.True(t, a.Equal(b, 1e-9))

	c := Standard.NewAirState(Float64(25.1), Float64(50))
	assert.False(t, a.Equal(c, 1e-9))
	assert.True(t, a.Equal(c, 0.5))

	assert.True(t, AirState{}.Equal(AirState{}, 0))
	assert.False(t, a.Equal(AirState{}, 1e9))
}

func TestAirState_ConstructorsDoNotAlias(t *testing.T) {
	theta := 20.0
	s := Standard.NewAirState(&theta, nil)
	theta = 30.0
	assert.Equal(t, 20.0, *s.Temperature)
}
