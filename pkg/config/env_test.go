package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092, ,b:9092 "))
}

func TestEnvIntDefault(t *testing.T) {
	t.Setenv("ROSTER_INT", "")
	n, err := EnvIntDefault("ROSTER_INT", 10)
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	t.Setenv("ROSTER_INT", "12")
	n, err = EnvIntDefault("ROSTER_INT", 10)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	t.Setenv("ROSTER_INT", "twelve")
	_, err = EnvIntDefault("ROSTER_INT", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ROSTER_INT")
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{in: "7d", want: 7 * 24 * time.Hour},
		{in: "1h", want: time.Hour},
		{in: "90s", want: 90 * time.Second},
	}
	for _, tt := range tests {
		got, err := ParseDuration(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseDuration("xd")
	require.Error(t, err)
}

func TestEnvDurationDefault_Unset(t *testing.T) {
	t.Setenv("ROSTER_TTL", "")
	got, err := EnvDurationDefault("ROSTER_TTL", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, got)
}
