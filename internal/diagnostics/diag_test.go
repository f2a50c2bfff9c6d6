package diagnostics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListErr(t *testing.T) {
	var l List
	assert.NoError(t, l.Err())

	l.Add(Warn, "CLIP.EVENT_ORDER", "events not sorted", nil)
	assert.False(t, l.HasErrors())
	assert.NoError(t, l.Err())

	l.Add(Err, "CLIP.DURATION", "duration must be positive", map[string]any{"duration": 0.0})
	require.True(t, l.HasErrors())
	err := l.Err()
	require.Error(t, err)

	var d Diagnostic
	require.True(t, errors.As(err, &d))
	assert.Equal(t, "CLIP.DURATION", d.Code)
	assert.Equal(t, []string{"CLIP.EVENT_ORDER", "CLIP.DURATION"}, l.Codes())
	assert.Contains(t, l.String(), "warning CLIP.EVENT_ORDER")
}
