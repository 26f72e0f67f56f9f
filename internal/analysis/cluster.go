package analysis

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/vidlens/vidlens/internal/models"
)

const (
	// MIN_CLUSTER_SIZE is the smallest neighborhood that counts as a
	// topic; smaller groups are demoted to noise rather than forced into
	// the nearest cluster.
	MIN_CLUSTER_SIZE = 5
	// MIN_SAMPLES is the core-point threshold for density reachability.
	MIN_SAMPLES = 2
)

// ClusterEmbeddings groups embedding vectors with density-based (DBSCAN)
// clustering over cosine distance. The returned labels are aligned by
// index with vectors; models.NoiseLabel marks points in sparse regions.
// Cluster ids are per-run join keys only. Membership is deterministic for
// identical input, but id values carry no meaning across runs.
func ClusterEmbeddings(vectors [][]float32) []int {
	n := len(vectors)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = models.NoiseLabel
	}
	if n < MIN_CLUSTER_SIZE {
		return labels
	}

	points := normalizedMatrix(vectors)

	eps := estimateEps(points, MIN_SAMPLES)
	slog.Debug("[Clusterer] Running DBSCAN",
		slog.Int("points", n),
		slog.Float64("eps", eps))

	visited := make([]bool, n)
	currentCluster := 0

	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		visited[i] = true

		neighbors := findNeighbors(points, i, eps)
		if len(neighbors) < MIN_SAMPLES {
			continue
		}

		expandCluster(points, i, neighbors, currentCluster, eps, visited, labels)
		currentCluster++
	}

	demoteSmallClusters(labels)
	return labels
}

// normalizedMatrix copies the vectors into a dense matrix with L2-normalized
// rows, so cosine distance reduces to 1 - dot(a, b).
func normalizedMatrix(vectors [][]float32) *mat.Dense {
	n := len(vectors)
	dim := len(vectors[0])
	points := mat.NewDense(n, dim, nil)

	row := make([]float64, dim)
	for i, v := range vectors {
		for j, val := range v {
			row[j] = float64(val)
		}
		if norm := floats.Norm(row, 2); norm > 0 {
			floats.Scale(1/norm, row)
		}
		points.SetRow(i, row)
	}
	return points
}

func cosineDistance(points *mat.Dense, i, j int) float64 {
	dot := floats.Dot(points.RawRowView(i), points.RawRowView(j))
	return 1.0 - dot
}

// estimateEps derives the neighborhood radius from the k-th
// nearest-neighbor distance curve, clamped to sane bounds for normalized
// sentence embeddings.
func estimateEps(points *mat.Dense, k int) float64 {
	n, _ := points.Dims()
	kDistances := make([]float64, n)

	distances := make([]float64, 0, n-1)
	for i := 0; i < n; i++ {
		distances = distances[:0]
		for j := 0; j < n; j++ {
			if i != j {
				distances = append(distances, cosineDistance(points, i, j))
			}
		}
		sort.Float64s(distances)
		idx := k - 1
		if idx >= len(distances) {
			idx = len(distances) - 1
		}
		kDistances[i] = distances[idx]
	}

	sort.Float64s(kDistances)

	// Smaller corpora need a higher percentile to avoid fragmenting into
	// all-noise output.
	percentile := 0.15
	if n < 20 {
		percentile = 0.3
	} else if n < 50 {
		percentile = 0.25
	}

	elbowIdx := int(float64(n) * percentile)
	if elbowIdx < 1 {
		elbowIdx = 1
	}
	if elbowIdx >= n {
		elbowIdx = n - 1
	}
	eps := kDistances[elbowIdx]

	return math.Min(math.Max(eps, 0.03), 0.35)
}

func findNeighbors(points *mat.Dense, pointIdx int, eps float64) []int {
	n, _ := points.Dims()
	var neighbors []int

	for i := 0; i < n; i++ {
		if i != pointIdx && cosineDistance(points, pointIdx, i) <= eps {
			neighbors = append(neighbors, i)
		}
	}
	return neighbors
}

func expandCluster(points *mat.Dense, pointIdx int, neighbors []int, clusterID int, eps float64, visited []bool, labels []int) {
	labels[pointIdx] = clusterID

	inQueue := make(map[int]bool, len(neighbors))
	for _, nIdx := range neighbors {
		inQueue[nIdx] = true
	}

	for i := 0; i < len(neighbors); i++ {
		nIdx := neighbors[i]

		if !visited[nIdx] {
			visited[nIdx] = true
			newNeighbors := findNeighbors(points, nIdx, eps)
			if len(newNeighbors) >= MIN_SAMPLES {
				for _, newN := range newNeighbors {
					if !inQueue[newN] {
						inQueue[newN] = true
						neighbors = append(neighbors, newN)
					}
				}
			}
		}

		if labels[nIdx] == models.NoiseLabel {
			labels[nIdx] = clusterID
		}
	}
}

// demoteSmallClusters relabels clusters below MIN_CLUSTER_SIZE as noise.
func demoteSmallClusters(labels []int) {
	sizes := make(map[int]int)
	for _, l := range labels {
		if l != models.NoiseLabel {
			sizes[l]++
		}
	}

	for i, l := range labels {
		if l != models.NoiseLabel && sizes[l] < MIN_CLUSTER_SIZE {
			labels[i] = models.NoiseLabel
		}
	}
}
