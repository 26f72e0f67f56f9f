package analysis

import (
	"reflect"
	"testing"

	"github.com/vidlens/vidlens/internal/models"
)

func TestDedupTextsFirstSeenOrder(t *testing.T) {
	comments := models.CommentSet{
		{ID: "c1", Text: "great video thanks", Author: "alice"},
		{ID: "c2", Text: "what camera do you use?", Author: "bob"},
		{ID: "c3", Text: "great video thanks", Author: "carol", Timestamp: "2024-01-01T00:00:00Z"},
		{ID: "c4", Text: "great video thanks!", Author: "dave"},
		{ID: "c5", Text: "what camera do you use?", Author: "erin"},
	}

	got := DedupTexts(comments)
	want := []string{
		"great video thanks",
		"what camera do you use?",
		"great video thanks!",
	}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestDedupTextsIgnoresAuthorAndTimestamp(t *testing.T) {
	comments := models.CommentSet{
		{ID: "c1", Text: "same text", Author: "a", Timestamp: "2024-01-01T00:00:00Z"},
		{ID: "c2", Text: "same text", Author: "b", Timestamp: "2025-06-15T12:00:00Z"},
	}

	if got := DedupTexts(comments); len(got) != 1 {
		t.Fatalf("expected 1 unique text, got %d", len(got))
	}
}

func TestDedupTextsEmptySet(t *testing.T) {
	if got := DedupTexts(nil); len(got) != 0 {
		t.Fatalf("expected no unique texts, got %v", got)
	}
}
