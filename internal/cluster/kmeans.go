// Package cluster implements a deterministic k-means clustering.
package cluster

import (
	"math"
	"math/rand/v2"
)

// seed keeps the center selection stable between runs.
const seed = 0x50434531

// Point is a vector of coordinates, all points of a dataset need to have
// the same dimension.
type Point []float64

// Result of a clustering.
type Result struct {
	Membership []int   // cluster index per input point
	Centers    []Point // center of each cluster
}

// Clusters returns the input point indices grouped by cluster.
func (r Result) Clusters() [][]int {
	clusters := make([][]int, len(r.Centers))
	for i, c := range r.Membership {
		clusters[c] = append(clusters[c], i)
	}
	return clusters
}

// KMeans partitions the points into at most k clusters. The centers are
// initialized using k-means++ seeding from a fixed seed. If there are fewer
// distinct points than k, k is reduced. Every returned cluster index is used
// by at least one point.
func KMeans(points []Point, k, maxIterations int) Result {
	if len(points) == 0 || k <= 0 {
		return Result{}
	}
	k = min(k, distinctCount(points, k))

	rng := rand.New(rand.NewPCG(seed, uint64(len(points))))
	centers := initialCenters(rng, points, k)
	membership := make([]int, len(points))
	for i := range membership {
		membership[i] = -1
	}

	for range max(maxIterations, 1) {
		changed := assign(points, centers, membership)
		updateCenters(points, centers, membership)
		if !changed {
			break
		}
	}

	return compact(membership, centers)
}

func initialCenters(rng *rand.Rand, points []Point, k int) []Point {
	centers := make([]Point, 0, k)
	centers = append(centers, clonePoint(points[rng.IntN(len(points))]))

	distances := make([]float64, len(points))
	for len(centers) < k {
		var sum float64
		for i, p := range points {
			distances[i] = squaredDistance(p, centers[nearest(p, centers)])
			sum += distances[i]
		}
		if sum == 0 {
			break
		}

		target := rng.Float64() * sum
		chosen := len(points) - 1
		for i, d := range distances {
			target -= d
			if target < 0 && d > 0 {
				chosen = i
				break
			}
		}
		centers = append(centers, clonePoint(points[chosen]))
	}
	return centers
}

func assign(points []Point, centers []Point, membership []int) bool {
	changed := false
	for i, p := range points {
		c := nearest(p, centers)
		if membership[i] != c {
			membership[i] = c
			changed = true
		}
	}
	return changed
}

func updateCenters(points []Point, centers []Point, membership []int) {
	counts := make([]int, len(centers))
	sums := make([]Point, len(centers))
	for i := range sums {
		sums[i] = make(Point, len(points[0]))
	}

	for i, p := range points {
		c := membership[i]
		counts[c]++
		for d, v := range p {
			sums[c][d] += v
		}
	}

	for c := range centers {
		if counts[c] == 0 {
			// keep the previous center for empty clusters
			continue
		}
		for d := range sums[c] {
			centers[c][d] = sums[c][d] / float64(counts[c])
		}
	}
}

// compact drops unused clusters and renumbers the remaining ones in
// order of their first appearance.
func compact(membership []int, centers []Point) Result {
	mapping := make([]int, len(centers))
	for i := range mapping {
		mapping[i] = -1
	}

	result := Result{
		Membership: make([]int, len(membership)),
	}
	for i, c := range membership {
		if mapping[c] < 0 {
			mapping[c] = len(result.Centers)
			result.Centers = append(result.Centers, centers[c])
		}
		result.Membership[i] = mapping[c]
	}
	return result
}

func nearest(p Point, centers []Point) int {
	best := 0
	bestDistance := math.Inf(1)
	for i, c := range centers {
		d := squaredDistance(p, c)
		if d < bestDistance {
			best = i
			bestDistance = d
		}
	}
	return best
}

func squaredDistance(a, b Point) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// distinctCount returns the number of distinct points, counting stops at limit.
func distinctCount(points []Point, limit int) int {
	var distinct []Point
	for _, p := range points {
		found := false
		for _, d := range distinct {
			if squaredDistance(p, d) == 0 {
				found = true
				break
			}
		}
		if !found {
			distinct = append(distinct, p)
			if len(distinct) >= limit {
				break
			}
		}
	}
	return len(distinct)
}

func clonePoint(p Point) Point {
	c := make(Point, len(p))
	copy(c, p)
	return c
}
