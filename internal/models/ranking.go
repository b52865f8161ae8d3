package models

// CategoryScore is one track's score within a single metric category.
type CategoryScore struct {
	Category      string  `json:"category"`
	RawScore      float64 `json:"raw_score"`
	Weight        float64 `json:"weight"`
	WeightedScore float64 `json:"weighted_score"`
}

// PowerRanking is a single track's final position and score breakdown.
type PowerRanking struct {
	Track          Track           `json:"track"`
	TotalScore     float64         `json:"total_score"`
	Rank           int             `json:"rank"`
	CategoryScores []CategoryScore `json:"category_scores"`
}

// Identifier returns the ranked track's identity key.
func (p PowerRanking) Identifier() string {
	return p.Track.Identifier()
}

// CategoryScore returns the breakdown entry for a category, reporting
// false when the category was not scored.
func (p PowerRanking) CategoryScore(category string) (CategoryScore, bool) {
	for _, cs := range p.CategoryScores {
		if cs.Category == category {
			return cs, true
		}
	}
	return CategoryScore{}, false
}

// PowerRankingResult is the complete ranked output for one year.
type PowerRankingResult struct {
	Year     int            `json:"year"`
	Rankings []PowerRanking `json:"rankings"`
}

// TotalTracks returns the number of ranked tracks.
func (r *PowerRankingResult) TotalTracks() int {
	return len(r.Rankings)
}

// GetByRank returns the ranking at a 1-based position, or nil when the
// position is out of range.
func (r *PowerRankingResult) GetByRank(rank int) *PowerRanking {
	if rank < 1 || rank > len(r.Rankings) {
		return nil
	}
	return &r.Rankings[rank-1]
}
