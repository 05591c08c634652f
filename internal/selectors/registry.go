package selectors

// The feed's DOM changes frequently; selectors are isolated here and listed
// from most to least specific. Update these when extraction breaks.

// PostContainers locate whole post elements.
var PostContainers = []Pattern{
	CSS(`article[data-testid="tweet"]`),
	CSS(`article[role="article"]`),
	CSS(`div[data-testid="cellInnerDiv"] article`),
	XPath(`//article`),
	CSS(`[data-testid="tweet"]`),
}

// PostText locates the post body within a container.
var PostText = []Pattern{
	CSS(`[data-testid="tweetText"]`),
	CSS(`div[lang]`),
	CSS(`.tweet-text`),
}

// PostTimestamps locate the machine-readable timestamp element.
var PostTimestamps = []Pattern{
	CSS(`time[datetime]`),
	CSS(`time`),
}

// AuthorLinks locate links pointing at the author's profile path. Links
// carrying the permalink marker are excluded by the extraction engine.
var AuthorLinks = []Pattern{
	CSS(`[data-testid="User-Name"] a[href^="/"]`),
	CSS(`a[href^="/"][role="link"]`),
	CSS(`a[href^="/"]`),
}

// StatusLinkMarker flags a post-permalink href rather than a profile href.
const StatusLinkMarker = "/status/"

// Engagement buttons, one ordered list per interaction kind.
var (
	LikeButtons = []Pattern{
		CSS(`[data-testid="like"]`),
		CSS(`[data-testid="unlike"]`),
		CSS(`button[aria-label*="ike"]`),
	}
	RepostButtons = []Pattern{
		CSS(`[data-testid="retweet"]`),
		CSS(`[data-testid="unretweet"]`),
		CSS(`button[aria-label*="epost"]`),
	}
	ReplyButtons = []Pattern{
		CSS(`[data-testid="reply"]`),
		CSS(`button[aria-label*="epl"]`),
	}
)

// SocialContext marks a shared-via banner; its presence means the container
// is a repost.
var SocialContext = []Pattern{
	CSS(`[data-testid="socialContext"]`),
	CSS(`span[data-testid="socialContext"]`),
}

// Profile page fields.
var (
	ProfileName = []Pattern{
		CSS(`[data-testid="UserName"]`),
		CSS(`h2[role="heading"]`),
	}
	ProfileBio = []Pattern{
		CSS(`[data-testid="UserDescription"]`),
		CSS(`[data-testid="UserProfileHeader_Items"] + div`),
	}
	ProfileFollowers = []Pattern{
		CSS(`a[href$="/verified_followers"]`),
		CSS(`a[href$="/followers"]`),
	}
	ProfileFollowing = []Pattern{
		CSS(`a[href$="/following"]`),
	}
	ProfileVerified = []Pattern{
		CSS(`[data-testid="UserName"] svg[aria-label="Verified account"]`),
		CSS(`svg[data-testid="icon-verified"]`),
	}
)

// FieldPatterns maps every registered field name to its ordered pattern
// list, for the diagnostic tools.
func FieldPatterns() map[string][]Pattern {
	return map[string][]Pattern{
		"post_container": PostContainers,
		"post_text":      PostText,
		"timestamp":      PostTimestamps,
		"author_link":    AuthorLinks,
		"like_button":    LikeButtons,
		"repost_button":  RepostButtons,
		"reply_button":   ReplyButtons,
		"social_context": SocialContext,
		"profile_name":   ProfileName,
		"profile_bio":    ProfileBio,
	}
}
