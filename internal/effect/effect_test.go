package effect

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type write struct {
	id   string
	v, w float64
}

type recorder struct{ writes []write }

func (r *recorder) AddParameterValueByID(id string, v, w float64) {
	r.writes = append(r.writes, write{id, v, w})
}

func (r *recorder) SetParameterValueByID(id string, v, w float64) {
	r.writes = append(r.writes, write{id, v, w})
}

func TestBreath(t *testing.T) {
	b := NewBreath([]BreathParameter{
		{ID: "ParamBreath", Offset: 0.5, Peak: 0.5, Cycle: 4, Weight: 0.5},
		{ID: "Broken", Peak: 1},
	})
	r := &recorder{}
	b.Update(r, 1)
	require.Len(t, r.writes, 1)
	assert.Equal(t, "ParamBreath", r.writes[0].id)
	assert.InDelta(t, 1.0, r.writes[0].v, 1e-9)
	assert.Equal(t, 0.5, r.writes[0].w)

	b.Update(r, 2)
	assert.InDelta(t, 0.0, r.writes[1].v, 1e-9)
	assert.Len(t, b.Parameters(), 2)
}

func TestEyeBlinkCycle(t *testing.T) {
	// An interval of 0.5s makes the next blink immediate.
	e := NewEyeBlink([]string{"L", "R"}, BlinkTiming{Interval: 0.5, Closing: 0.25, Closed: 0.125, Opening: 0.25}, nil)
	r := &recorder{}

	wantValues := []float64{1, 1, 0.5, 0, 0, 0.5, 1, 1}
	wantStates := []EyeState{EyeInterval, EyeClosing, EyeClosing, EyeClosed, EyeOpening, EyeOpening, EyeInterval, EyeClosing}
	for i := range wantValues {
		e.Update(r, 0.125)
		assert.InDelta(t, wantValues[i], e.Value(), 1e-12, "tick %d", i)
		assert.Equal(t, wantStates[i], e.State(), "tick %d", i)
	}
	require.Len(t, r.writes, 2*len(wantValues))
	assert.Equal(t, "L", r.writes[0].id)
	assert.Equal(t, "R", r.writes[1].id)
	assert.Equal(t, 1.0, r.writes[1].w)
}

func TestEyeBlinkDefaultsStayInRange(t *testing.T) {
	e := NewEyeBlink([]string{"L"}, DefaultBlinkTiming(), rand.New(rand.NewSource(42)))
	r := &recorder{}
	lowest := 1.0
	for i := 0; i < 20*60; i++ {
		e.Update(r, 1.0/60)
		v := e.Value()
		require.GreaterOrEqual(t, v, 0.0)
		require.LessOrEqual(t, v, 1.0)
		if v < lowest {
			lowest = v
		}
	}
	assert.Equal(t, 0.0, lowest)
	assert.Equal(t, []string{"L"}, e.ParameterIDs())

	e.SetInterval(2)
	e.SetTiming(0.2, 0.1, 0.3)
	assert.Equal(t, BlinkTiming{Interval: 2, Closing: 0.2, Closed: 0.1, Opening: 0.3}, e.Timing())
}
