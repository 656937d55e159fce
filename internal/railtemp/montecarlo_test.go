package railtemp

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constantTemplate() ProfileTemplate {
	return ProfileTemplate{
		Name:              "UIC54",
		TrackAzimuth:      Constant(93),
		CrossArea:         Constant(7.16e-3),
		ConvectionArea:    Constant(430.46e-3),
		RadiationArea:     Constant(430.46e-3),
		AmbientEmissivity: Constant(0.5),
		Density:           Constant(7850),
		SolarAbsorptivity: Constant(0.8),
		Emissivity:        Constant(0.7),
		Coordinates:       boxSection(),
	}
}

func TestConstantValue(t *testing.T) {
	assert.Equal(t, 42.5, Constant(42.5).Value())
}

func TestNewUniform(t *testing.T) {
	src := rand.NewPCG(1, 2)

	_, err := NewUniform(0.9, 0.7, src)
	assert.ErrorIs(t, err, ErrInvalidBounds)

	u, err := NewUniform(0.7, 0.9, src)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		v := u.Value()
		assert.GreaterOrEqual(t, v, 0.7)
		assert.Less(t, v, 0.9)
	}
}

func TestProfileTemplateDraw(t *testing.T) {
	p, err := constantTemplate().Draw()
	require.NoError(t, err)
	assert.Equal(t, 93.0, p.TrackAzimuth)
	assert.NotNil(t, p.Material.SpecificHeat, "draw defaults to the steel curve")

	bad := constantTemplate()
	bad.Emissivity = Constant(0)
	_, err = bad.Draw()
	assert.ErrorIs(t, err, ErrInvalidEmissivity)
}

func TestCampaign_ConstantTemplateReproducesSingleRun(t *testing.T) {
	samples := daySamples(24)

	campaign := Campaign{
		Template: constantTemplate(),
		Location: testLocation,
		Model:    ModelConfig{Mode: ModeTransient},
		Runs:     3,
	}
	res, err := campaign.Run(samples)
	require.NoError(t, err)
	require.Len(t, res.Runs, 3)
	require.Len(t, res.Profiles, 3)

	single := newTestRunner(t, ModelConfig{Mode: ModeTransient}, RunnerConfig{})
	ref, err := single.Run(samples)
	require.NoError(t, err)

	for r, run := range res.Runs {
		require.Len(t, run.Results, len(samples))
		for i := range run.Results {
			assert.Equal(t, ref.Results[i].RailTemperature, run.Results[i].RailTemperature,
				"run %d step %d", r, i)
		}
	}

	mean := res.MeanSeries()
	require.Len(t, mean, len(samples))
	assert.InDelta(t, ref.Results[13].RailTemperature, mean[13], 1e-9)

	median := res.QuantileSeries(0.5)
	require.Len(t, median, len(samples))
	assert.InDelta(t, ref.Results[13].RailTemperature, median[13], 1e-9)
}

func TestCampaign_UncertainAbsorptivityBoundsTheEnsemble(t *testing.T) {
	samples := daySamples(24)

	tpl := constantTemplate()
	u, err := NewUniform(0.6, 0.95, rand.NewPCG(7, 11))
	require.NoError(t, err)
	tpl.SolarAbsorptivity = u

	campaign := Campaign{
		Template: tpl,
		Location: testLocation,
		Model:    ModelConfig{Mode: ModeTransient},
		Runs:     8,
		Workers:  4,
	}
	res, err := campaign.Run(samples)
	require.NoError(t, err)
	require.Len(t, res.Runs, 8)

	for i, p := range res.Profiles {
		assert.GreaterOrEqual(t, p.Material.SolarAbsorptivity, 0.6, "profile %d", i)
		assert.Less(t, p.Material.SolarAbsorptivity, 0.95, "profile %d", i)
	}

	// Ensemble ordering at midday: the 10th percentile cannot exceed the 90th.
	lo := res.QuantileSeries(0.1)
	hi := res.QuantileSeries(0.9)
	for s := range lo {
		assert.LessOrEqual(t, lo[s], hi[s], "step %d", s)
	}
}

func TestCampaign_Validation(t *testing.T) {
	c := Campaign{Template: constantTemplate(), Location: testLocation}
	_, err := c.Run(daySamples(3))
	assert.ErrorIs(t, err, ErrInvalidRunCount)

	c.Runs = 2
	_, err = c.Run(nil)
	assert.ErrorIs(t, err, ErrNoSamples)
}
