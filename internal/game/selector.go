package game

import "github.com/Hikaru-0gasawara/trivia-adventure/internal/trivia"

// Campaign pool thresholds on the position before the turn's movement.
const (
	CampaignMediumFrom = 41
	CampaignHardFrom   = 83
)

// SelectPool returns the question pool for a player at position. Campaign
// follows board progress; other modes use their single pool.
func SelectPool(m Mode, position int) trivia.Pool {
	switch m {
	case Medium:
		return trivia.Medium
	case Hard:
		return trivia.Hard
	case Campaign:
		switch {
		case position >= CampaignHardFrom:
			return trivia.Hard
		case position >= CampaignMediumFrom:
			return trivia.Medium
		}
	}
	return trivia.Easy
}
