package shared

import (
	"regexp"
	"strings"
)

// Title fragments removed before building a search query. Bracketed mix
// annotations confuse the Songstats search endpoint.
var titlePatternsToRemove = []string{
	"[Extended Mix]",
	"[Original Mix]",
	"[Remix]",
	"[Extended Version]",
	"[Club Edit]",
	"[",
	"]",
	"?",
	"(",
	")",
}

var titlePatternsToSpace = []string{
	" × ",
	", ",
}

// Keywords in a search result title that mark an almost certain false
// positive (karaoke versions, tributes, covers).
var rejectKeywords = []string{
	"karaoke",
	"instrumental",
	"tribute",
	"cover version",
	"originally performed",
	"remake",
	"8-bit",
	"lullaby",
	"sped up",
	"slowed",
}

var featPattern = regexp.MustCompile(`(?i)\s*[(\[](f(?:ea)?t\.?|featuring)\s+[^)\]]+[)\]]`)

// FormatTitle cleans a track title for API search queries: mix/remix
// suffixes and bracket characters are stripped and the result lowercased.
func FormatTitle(title string) string {
	result := title

	for _, pattern := range titlePatternsToRemove {
		result = replaceFold(result, pattern, "")
	}
	for _, pattern := range titlePatternsToSpace {
		result = replaceFold(result, pattern, " ")
	}

	return strings.ToLower(strings.TrimSpace(result))
}

// FormatArtist cleans an artist name for API search queries. Feature
// annotations are removed entirely; they rarely appear in Songstats main
// artist fields and create query mismatches.
func FormatArtist(artist string) string {
	result := featPattern.ReplaceAllString(artist, "")

	replacer := strings.NewReplacer("×", " ", "&", " ", "(", "", ")", "", "[", "", "]", "")
	result = replacer.Replace(result)

	return strings.ToLower(strings.Join(strings.Fields(result), " "))
}

// RemoveRemixer filters artists whose name appears in the track title,
// typically the remixer credited as "(artist b remix)".
func RemoveRemixer(title string, artists []string) []string {
	titleLower := strings.ToLower(title)

	filtered := make([]string, 0, len(artists))
	for _, artist := range artists {
		if !strings.Contains(titleLower, strings.ToLower(artist)) {
			filtered = append(filtered, artist)
		}
	}
	return filtered
}

// BuildSearchQuery assembles "<artists> <title>" with cleaned components.
func BuildSearchQuery(title string, artists []string) string {
	cleaned := make([]string, 0, len(artists))
	for _, artist := range artists {
		cleaned = append(cleaned, FormatArtist(artist))
	}
	return strings.TrimSpace(strings.Join(cleaned, " ") + " " + title)
}

// ContainsRejectKeyword reports whether a search result title contains a
// keyword marking a false-positive match, and which one.
func ContainsRejectKeyword(title string) (string, bool) {
	titleLower := strings.ToLower(title)
	for _, keyword := range rejectKeywords {
		if strings.Contains(titleLower, keyword) {
			return keyword, true
		}
	}
	return "", false
}

// NormalizeTrackKey builds a case-insensitive "title|artist" key used for
// track identity across runs.
func NormalizeTrackKey(title, artist string) string {
	return strings.ToLower(strings.TrimSpace(title)) + "|" + strings.ToLower(strings.TrimSpace(artist))
}

// replaceFold is a case-insensitive string replacement for literal patterns.
func replaceFold(s, pattern, replacement string) string {
	if pattern == "" {
		return s
	}

	var b strings.Builder
	lower := strings.ToLower(s)
	patternLower := strings.ToLower(pattern)

	for {
		idx := strings.Index(lower, patternLower)
		if idx < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:idx])
		b.WriteString(replacement)
		s = s[idx+len(pattern):]
		lower = lower[idx+len(patternLower):]
	}
}
