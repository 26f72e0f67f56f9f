package analysis

import (
	"sort"
	"strings"

	"github.com/vidlens/vidlens/internal/models"
)

const (
	// TOP_TOPICS caps how many ranked clusters a run reports.
	TOP_TOPICS = 10
	// TOPIC_NAME_WORDS is how many leading words of the representative
	// comment become the topic label.
	TOPIC_NAME_WORDS = 5
	// TOPIC_SAMPLE_COUNT is how many member comments each topic keeps for
	// display.
	TOPIC_SAMPLE_COUNT = 3
)

// RankTopics orders clusters by descending member count, excludes the
// noise bucket, and derives a short label per retained cluster. texts and
// labels are index-aligned (dedup order).
//
// The label is the first TOPIC_NAME_WORDS words of the cluster's first
// text, suffixed with "...". This is a deliberately simple heuristic, not
// semantic summarization; smarter naming may replace it as long as the
// (cluster id, size, label) shape survives.
func RankTopics(texts []string, labels []int) []models.TopicSummary {
	members := make(map[int][]string)
	firstSeen := make(map[int]int)

	for i, label := range labels {
		if label == models.NoiseLabel {
			continue
		}
		if _, ok := members[label]; !ok {
			firstSeen[label] = i
		}
		members[label] = append(members[label], texts[i])
	}

	topics := make([]models.TopicSummary, 0, len(members))
	for label, clusterTexts := range members {
		samples := clusterTexts
		if len(samples) > TOPIC_SAMPLE_COUNT {
			samples = samples[:TOPIC_SAMPLE_COUNT]
		}
		topics = append(topics, models.TopicSummary{
			ClusterID: label,
			Size:      len(clusterTexts),
			Label:     nameTopic(clusterTexts[0]),
			Samples:   samples,
		})
	}

	sort.Slice(topics, func(i, j int) bool {
		if topics[i].Size != topics[j].Size {
			return topics[i].Size > topics[j].Size
		}
		// Equal-size clusters rank in first-appearance order so a rerun
		// over the same input produces the same report.
		return firstSeen[topics[i].ClusterID] < firstSeen[topics[j].ClusterID]
	})

	if len(topics) > TOP_TOPICS {
		topics = topics[:TOP_TOPICS]
	}
	return topics
}

func nameTopic(text string) string {
	words := strings.Fields(text)
	if len(words) > TOPIC_NAME_WORDS {
		words = words[:TOPIC_NAME_WORDS]
	}
	return strings.Join(words, " ") + "..."
}
