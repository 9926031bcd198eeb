package color

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Metric names accepted by MetricByName.
const (
	ManhattanMetric = "manhattan"
	LabMetric       = "lab"
)

// Metric returns the distance between two colors, smaller is more similar.
type Metric func(a, b Color) float64

// Manhattan sums the absolute differences of the 8-bit channels.
func Manhattan(a, b Color) float64 {
	a8, b8 := a.RGB8(), b.RGB8()
	return absDiff(a8.R, b8.R) + absDiff(a8.G, b8.G) + absDiff(a8.B, b8.B)
}

// Lab returns the euclidean distance in the CIE L*a*b* color space.
func Lab(a, b Color) float64 {
	ca := colorful.Color{R: a.R, G: a.G, B: a.B}
	cb := colorful.Color{R: b.R, G: b.G, B: b.B}
	return ca.DistanceLab(cb)
}

// MetricByName returns the metric for the given name.
func MetricByName(name string) (Metric, error) {
	switch strings.ToLower(name) {
	case "", ManhattanMetric:
		return Manhattan, nil
	case LabMetric:
		return Lab, nil
	default:
		return nil, fmt.Errorf("unsupported color metric '%s'", name)
	}
}

// Nearest returns the index of the palette color nearest to c.
// The first minimum wins, an empty palette returns 0.
func Nearest(c Color, palette []Color, metric Metric) int {
	best := 0
	bestDistance := math.Inf(1)
	for i, p := range palette {
		d := metric(c, p)
		if d < bestDistance {
			best = i
			bestDistance = d
		}
	}
	return best
}

func absDiff(a, b uint8) float64 {
	if a > b {
		return float64(a - b)
	}
	return float64(b - a)
}
