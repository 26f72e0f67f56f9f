package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vidlens/vidlens/internal/models"
)

// MIN_SCRIPT_TOPICS is how many ranked topics a full five-section script
// needs: one per point section.
const MIN_SCRIPT_TOPICS = 3

// ErrInsufficientTopics means fewer than MIN_SCRIPT_TOPICS ranked topics
// exist. Script generation refuses outright rather than interpolating a
// partial script; callers should still offer the analysis results.
var ErrInsufficientTopics = errors.New("report: not enough topics to create a full script")

// GenerateScript emits a 60-second video script with five sections: a
// hook, three point sections, and a call-to-action. Each point section
// interpolates one topic's label and its first representative comment
// verbatim.
func GenerateScript(topics []models.TopicSummary) (string, error) {
	if len(topics) < MIN_SCRIPT_TOPICS {
		return "", fmt.Errorf("%w: have %d, need %d", ErrInsufficientTopics, len(topics), MIN_SCRIPT_TOPICS)
	}

	var b strings.Builder

	b.WriteString("**Hook (0-5 seconds):**\n")
	b.WriteString("(Upbeat, engaging music starts)\n")
	b.WriteString("**Host:** \"Ever wondered what everyone's REALLY talking about in the comments? " +
		"I analyzed thousands of comments on my last video, and you won't BELIEVE what I found! " +
		"Here are the top 3 things on your mind.\"\n\n")

	writePoint(&b, 1, "5-20 seconds", topics[0],
		"First up, a lot of you were asking about **%s**. The main question seems to be...",
		"And here's the simple answer: [Your concise answer to the first theme here].")

	writePoint(&b, 2, "20-35 seconds", topics[1],
		"Next, there was a huge discussion around **%s**. It's clear that many of you feel...",
		"My take on this is: [Your clear, helpful response to the second theme].")

	writePoint(&b, 3, "35-50 seconds", topics[2],
		"And finally, let's talk about **%s**. This one was surprising!",
		"To clear things up: [Your definitive answer to the third theme].")

	b.WriteString("**Call to Action (50-60 seconds):**\n")
	b.WriteString("**Host:** \"Did I miss anything? Drop a comment below with what you want me to " +
		"analyze next! And don't forget to like and subscribe for more insights!\"\n")
	b.WriteString("(Upbeat music swells, end screen with channel name and subscribe button)\n")

	return b.String(), nil
}

func writePoint(b *strings.Builder, number int, window string, topic models.TopicSummary, intro, outro string) {
	fmt.Fprintf(b, "**Point %d (%s):**\n", number, window)
	fmt.Fprintf(b, "**Host:** \""+intro+"\"\n", topic.Label)
	b.WriteString("*(Show a representative comment on screen)*\n")
	fmt.Fprintf(b, "> '%s'\n", representativeComment(topic))
	fmt.Fprintf(b, "**Host:** \"%s\"\n\n", outro)
}

// representativeComment is the first member comment of the topic in
// original unique-text order.
func representativeComment(topic models.TopicSummary) string {
	if len(topic.Samples) == 0 {
		return ""
	}
	return topic.Samples[0]
}
