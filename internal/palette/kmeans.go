package palette

import (
	"github.com/retroenv/pceimg/internal/cluster"
	"github.com/retroenv/pceimg/internal/color"
)

const kmeansIterations = 100

// KMeans builds a palette from the averages of a k-means clustering of
// the pixels.
func KMeans(pixels []color.Color, maxColors int) []color.Color {
	points := make([]cluster.Point, len(pixels))
	for i, c := range pixels {
		points[i] = cluster.Point{c.R, c.G, c.B}
	}

	result := cluster.KMeans(points, maxColors, kmeansIterations)

	colors := make([]color.Color, 0, len(result.Centers))
	for _, members := range result.Clusters() {
		clusterPixels := make([]color.Color, len(members))
		for i, m := range members {
			clusterPixels[i] = pixels[m]
		}
		colors = append(colors, color.Average(clusterPixels))
	}
	return colors
}

// BuilderByName returns the palette builder for the given name.
func BuilderByName(name string) (Builder, bool) {
	switch name {
	case "", "kmeans":
		return KMeans, true
	case "bsp", "mediancut":
		return MedianCut, true
	default:
		return nil, false
	}
}
