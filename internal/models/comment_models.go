package models

// Comment is a single public comment or reply as returned by the retrieval
// layer. Records are never mutated after creation.
type Comment struct {
	ID        string `json:"id"`
	VideoID   string `json:"video_id"`
	Text      string `json:"text"`
	Author    string `json:"author"`
	Timestamp string `json:"timestamp"`
}

// CommentSet is the ordered comment list for one video. Order is retrieval
// order: top-level comments with their replies immediately following.
type CommentSet []Comment

// Texts returns the comment bodies in set order.
func (cs CommentSet) Texts() []string {
	texts := make([]string, len(cs))
	for i, c := range cs {
		texts[i] = c.Text
	}
	return texts
}
