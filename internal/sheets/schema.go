package sheets

import (
	"strconv"
	"time"

	"feedsheet/internal/types"
)

// PostColumns is the fixed column layout for post worksheets.
var PostColumns = []string{
	"Timestamp", "Author", "Text", "Likes", "Reposts", "Replies",
	"Is Repost", "Original Author", "Profile URL", "Collected At",
}

// ProfileColumns is the fixed column layout for profile worksheets.
var ProfileColumns = []string{
	"Handle", "Display Name", "Followers", "Following", "Verified",
	"Bio", "Post Count", "Collected At",
}

// PostRows renders posts into spreadsheet rows matching PostColumns.
func PostRows(posts []*types.Post) [][]string {
	rows := make([][]string, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, []string{
			p.Timestamp,
			p.Author,
			p.Text,
			strconv.Itoa(p.Likes),
			strconv.Itoa(p.Reposts),
			strconv.Itoa(p.Replies),
			yesNo(p.IsRepost),
			p.OriginalAuthor,
			p.ProfileURL(),
			p.CollectedAt.Format(time.RFC3339),
		})
	}
	return rows
}

// ProfileRows renders a profile into a single spreadsheet row matching
// ProfileColumns.
func ProfileRows(profile *types.Profile) [][]string {
	label := "Not Verified"
	if profile.Verified {
		label = "Verified"
	}
	return [][]string{{
		profile.Handle,
		profile.DisplayName,
		strconv.Itoa(profile.Followers),
		strconv.Itoa(profile.Following),
		label,
		profile.Bio,
		strconv.Itoa(profile.PostCount),
		profile.CollectedAt.Format(time.RFC3339),
	}}
}

// DefaultWorksheetName names the worksheet for a batch collected today.
func DefaultWorksheetName(now time.Time) string {
	return now.Format("2006-01-02")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
