package types

import "time"

// Post represents a single post extracted from the rendered feed.
type Post struct {
	// ID is a synthetic identifier, unique within one collection run.
	// It is derived from collection time plus position, not from content.
	ID string `json:"id"`

	// Text is the post body, truncated if the source exceeded the ceiling.
	Text string `json:"text"`

	// Timestamp is ISO-8601 when a machine-readable datetime was found,
	// otherwise a raw relative token such as "3h".
	Timestamp string `json:"timestamp"`

	// Author is the posting handle, without the leading "@".
	Author string `json:"author"`

	Likes   int `json:"likes"`
	Reposts int `json:"reposts"`
	Replies int `json:"replies"`

	// IsRepost is true when a social-context marker was present.
	IsRepost bool `json:"is_repost"`

	// OriginalAuthor is set only for reposts where the original author
	// could be located.
	OriginalAuthor string `json:"original_author,omitempty"`

	// CollectedAt is when this post was extracted.
	CollectedAt time.Time `json:"collected_at"`
}

// ProfileURL returns the canonical profile link for the post's author.
func (p *Post) ProfileURL() string {
	if p.Author == "" {
		return ""
	}
	return "https://x.com/" + p.Author
}

// Profile represents the profile of the currently viewed account.
type Profile struct {
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
	PostCount   int    `json:"post_count"`
	Verified    bool   `json:"verified"`

	CollectedAt time.Time `json:"collected_at"`
}
