package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var office = Coordinate{Latitude: -8.3581056, Longitude: 116.159854}

func TestCalculateHaversineDistance_Zero(t *testing.T) {
	assert.Equal(t, 0.0, Distance(office, office))
}

func TestCalculateHaversineDistance_Symmetric(t *testing.T) {
	other := Coordinate{Latitude: -8.5833, Longitude: 116.1167}

	ab := Distance(office, other)
	ba := Distance(other, office)

	assert.InDelta(t, ab, ba, 1e-9)
	assert.Greater(t, ab, 20000.0)
}

func TestCalculateHaversineDistance_KnownDistance(t *testing.T) {
	// One degree of latitude is ~111.195 km with R = 6371 km.
	d := CalculateHaversineDistance(0, 0, 1, 0)
	assert.InDelta(t, 111195, d, 1)
}

func TestRoundMeters(t *testing.T) {
	assert.Equal(t, 50, RoundMeters(49.5))
	assert.Equal(t, 49, RoundMeters(49.49))
	assert.Equal(t, 0, RoundMeters(0.2))
}

func TestDecimalPlaces(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{116.159854, 6},
		{-8.3581056, 7},
		{116.1, 1},
		{116.15, 2},
		{116.159, 3},
		{116, 0},
		{-8, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, DecimalPlaces(c.in), "%v", c.in)
	}
}
