package analysis

import "github.com/vidlens/vidlens/internal/models"

// DedupTexts collapses a CommentSet to its unique text values in
// first-seen order. Matching is byte identity only: differing whitespace
// or punctuation makes two texts distinct, while author and timestamp are
// ignored.
func DedupTexts(comments models.CommentSet) []string {
	seen := make(map[string]struct{}, len(comments))
	unique := make([]string, 0, len(comments))

	for _, c := range comments {
		if _, ok := seen[c.Text]; ok {
			continue
		}
		seen[c.Text] = struct{}{}
		unique = append(unique, c.Text)
	}

	return unique
}
