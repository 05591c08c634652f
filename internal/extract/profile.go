package extract

import (
	"regexp"
	"strings"
	"time"

	"feedsheet/internal/selectors"
	"feedsheet/internal/types"
)

var postCountPattern = regexp.MustCompile(`(?i)([\d,.]+[KMB]?)\s+posts`)

// Profile extracts the profile of the currently viewed account. Fields the
// page does not expose come back zero-valued; absence is not an error.
func (e *Extractor) Profile(snap *types.Snapshot) *types.Profile {
	profile := &types.Profile{CollectedAt: time.Now()}

	root, err := snap.Root()
	if err != nil {
		e.logger.Warn("snapshot parse failed", "url", snap.URL, "error", err)
		return profile
	}

	if name, ok := selectors.FindFirst(root, selectors.ProfileName); ok {
		text := strings.TrimSpace(name.Text())
		if handle, found := selectors.HandleToken(text); found {
			profile.Handle = handle
			// Display name is whatever precedes the handle token.
			if i := strings.Index(text, "@"+handle); i > 0 {
				profile.DisplayName = strings.TrimSpace(text[:i])
			}
		} else {
			profile.DisplayName = text
		}
	}

	if bio, ok := selectors.FindFirst(root, selectors.ProfileBio); ok {
		profile.Bio = strings.TrimSpace(bio.Text())
	}

	if el, ok := selectors.FindFirst(root, selectors.ProfileFollowers); ok {
		profile.Followers = selectors.ParseCount(el.Text())
	}
	if el, ok := selectors.FindFirst(root, selectors.ProfileFollowing); ok {
		profile.Following = selectors.ParseCount(el.Text())
	}
	if m := postCountPattern.FindStringSubmatch(root.Text()); m != nil {
		profile.PostCount = selectors.ParseCount(m[1])
	}

	_, profile.Verified = selectors.FindFirst(root, selectors.ProfileVerified)

	e.logger.Debug("profile extracted",
		"handle", profile.Handle,
		"followers", profile.Followers,
		"verified", profile.Verified,
	)
	return profile
}
