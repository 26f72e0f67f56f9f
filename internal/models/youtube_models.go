package models

// Wire types for the YouTube Data API v3 commentThreads.list endpoint.
// Only the fields the retrieval layer reads are declared.

type YouTubeCommentSnippet struct {
	TextDisplay       string `json:"textDisplay"`
	AuthorDisplayName string `json:"authorDisplayName"`
	PublishedAt       string `json:"publishedAt"`
}

type YouTubeComment struct {
	ID      string                `json:"id"`
	Snippet YouTubeCommentSnippet `json:"snippet"`
}

type YouTubeThreadSnippet struct {
	TopLevelComment YouTubeComment `json:"topLevelComment"`
	TotalReplyCount int            `json:"totalReplyCount"`
}

type YouTubeThreadReplies struct {
	Comments []YouTubeComment `json:"comments"`
}

type YouTubeCommentThread struct {
	Snippet YouTubeThreadSnippet  `json:"snippet"`
	Replies *YouTubeThreadReplies `json:"replies,omitempty"`
}

type YouTubeCommentThreadsResponse struct {
	Items         []YouTubeCommentThread `json:"items"`
	NextPageToken string                 `json:"nextPageToken"`
}

type YouTubeErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}
