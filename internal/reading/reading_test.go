package reading

import (
	"testing"

	"github.com/Slade66/weather-observer/internal/weather"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	m := weather.Measurements{Temperature: 21.5, Pressure: 1013, Humidity: 40, Pollen: 3}

	a := New(m)
	b := New(m)

	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.SubmittedAt.IsZero())
	assert.Equal(t, m, a.Measurements())
}
