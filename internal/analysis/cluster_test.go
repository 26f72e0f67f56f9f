package analysis

import (
	"reflect"
	"testing"

	"github.com/vidlens/vidlens/internal/models"
)

// jittered returns a vector pointing near base, offset slightly in the
// given component so group members are distinct but tightly packed.
func jittered(base []float32, component int, amount float32) []float32 {
	v := append([]float32(nil), base...)
	v[component] += amount
	return v
}

func twoGroupVectors() [][]float32 {
	groupA := []float32{1, 0, 0, 0}
	groupB := []float32{0, 1, 0, 0}

	var vectors [][]float32
	for i := 0; i < 6; i++ {
		vectors = append(vectors, jittered(groupA, 1, 0.001*float32(i)))
	}
	for i := 0; i < 6; i++ {
		vectors = append(vectors, jittered(groupB, 2, 0.001*float32(i)))
	}
	// Two isolated points, far from both groups and from each other.
	vectors = append(vectors,
		[]float32{0.7, 0.7, 0, 0},
		[]float32{0, 0, 0, 1},
	)
	return vectors
}

func TestClusterEmbeddingsFindsDenseGroups(t *testing.T) {
	vectors := twoGroupVectors()
	labels := ClusterEmbeddings(vectors)

	if len(labels) != len(vectors) {
		t.Fatalf("expected %d labels, got %d", len(vectors), len(labels))
	}

	// Group A members share one cluster, group B another, and they differ.
	for i := 1; i < 6; i++ {
		if labels[i] != labels[0] {
			t.Fatalf("group A split: labels %v", labels)
		}
	}
	for i := 7; i < 12; i++ {
		if labels[i] != labels[6] {
			t.Fatalf("group B split: labels %v", labels)
		}
	}
	if labels[0] == models.NoiseLabel || labels[6] == models.NoiseLabel {
		t.Fatalf("dense groups marked as noise: labels %v", labels)
	}
	if labels[0] == labels[6] {
		t.Fatalf("distinct groups merged: labels %v", labels)
	}

	// Isolated points stay noise rather than joining the nearest cluster.
	if labels[12] != models.NoiseLabel || labels[13] != models.NoiseLabel {
		t.Fatalf("expected isolated points labeled %d, got %v", models.NoiseLabel, labels)
	}
}

func TestClusterEmbeddingsDemotesSmallGroups(t *testing.T) {
	vectors := twoGroupVectors()
	// A tight group of 3, below MIN_CLUSTER_SIZE.
	small := []float32{0, 0, 1, 0}
	for i := 0; i < 3; i++ {
		vectors = append(vectors, jittered(small, 3, 0.001*float32(i)))
	}

	labels := ClusterEmbeddings(vectors)
	for i := len(vectors) - 3; i < len(vectors); i++ {
		if labels[i] != models.NoiseLabel {
			t.Fatalf("group below MIN_CLUSTER_SIZE should be noise, got label %d", labels[i])
		}
	}
}

func TestClusterEmbeddingsTooFewPoints(t *testing.T) {
	vectors := [][]float32{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
	}

	labels := ClusterEmbeddings(vectors)
	for i, l := range labels {
		if l != models.NoiseLabel {
			t.Fatalf("expected all noise below MIN_CLUSTER_SIZE points, index %d got %d", i, l)
		}
	}
}

func TestClusterEmbeddingsDeterministicPartition(t *testing.T) {
	vectors := twoGroupVectors()

	first := ClusterEmbeddings(vectors)
	second := ClusterEmbeddings(vectors)

	// Membership partition must be identical run to run; with identical
	// iteration order the id values match too.
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("clustering not reproducible: %v vs %v", first, second)
	}
}
