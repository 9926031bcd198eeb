package color

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestVCE(t *testing.T) {
	tests := []struct {
		name  string
		color Color
		want  VCE
	}{
		{name: "black", color: Color{}, want: 0},
		{name: "white", color: Color{R: 1, G: 1, B: 1}, want: 0x1ff},
		{name: "red", color: Color{R: 1}, want: 0x038},
		{name: "green", color: Color{G: 1}, want: 0x1c0},
		{name: "blue", color: Color{B: 1}, want: 0x007},
		{name: "clamped", color: Color{R: 2, G: -1, B: 0.5}, want: 0x03c},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.color.VCE())
		})
	}
}

func TestVCEColor(t *testing.T) {
	for v := VCE(0); v < 0x200; v++ {
		assert.Equal(t, v, v.Color().VCE())
	}
}

func TestRGB8(t *testing.T) {
	c := RGB8{R: 0x12, G: 0x80, B: 0xff}
	assert.Equal(t, c, c.Color().RGB8())
	assert.Equal(t, "#1280ff", c.String())
}

func TestAverage(t *testing.T) {
	assert.Equal(t, Color{}, Average(nil))

	avg := Average([]Color{{R: 1}, {B: 1}})
	assert.Equal(t, Color{R: 0.5, B: 0.5}, avg)
}

func TestNearest(t *testing.T) {
	palette := []Color{
		{},
		{R: 1},
		{R: 1},
		{G: 1, B: 1},
	}

	assert.Equal(t, 0, Nearest(Color{R: 0.1}, palette, Manhattan))
	assert.Equal(t, 1, Nearest(Color{R: 0.9}, palette, Manhattan))
	assert.Equal(t, 3, Nearest(Color{G: 0.8, B: 0.9}, palette, Lab))
	assert.Equal(t, 0, Nearest(Color{R: 0.9}, nil, Manhattan))
}

func TestMetricByName(t *testing.T) {
	m, err := MetricByName("LAB")
	assert.NoError(t, err)
	assert.True(t, m(Color{}, Color{R: 1}) > 0)

	m, err = MetricByName("")
	assert.NoError(t, err)
	assert.Equal(t, 255.0, m(Color{}, Color{R: 1}))

	_, err = MetricByName("cie94")
	assert.Error(t, err)
}
