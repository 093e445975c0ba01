package domain

import (
	"cmp"
	"slices"
)

type LeaderboardEntry struct {
	Rank                int
	UserID              string
	Handle              string
	FullName            string
	Village             string
	District            string
	TotalXP             int
	Level               int
	SustainabilityScore int
	CurrentStreak       int
	BadgesCount         int
	CompletedMissions   int
	IsCurrentUser       bool
}

type Leaderboard struct {
	Scope   LeaderboardScope
	Entries []LeaderboardEntry
	// CurrentUserRank is the 1-based rank of the requesting user, or 0 when
	// they are not part of the filtered board.
	CurrentUserRank int
	TotalUsers      int
}

// EffectiveScope downgrades a village or district scope to ScopeAll when the
// current user has no value to filter by.
func EffectiveScope(scope LeaderboardScope, current *User) LeaderboardScope {
	switch scope {
	case ScopeVillage:
		if current != nil && current.Village != "" {
			return ScopeVillage
		}
	case ScopeDistrict:
		if current != nil && current.District != "" {
			return ScopeDistrict
		}
	}
	return ScopeAll
}

// RankUsers builds a leaderboard from onboarded users sorted by total XP,
// descending. completed maps user ID to completed mission count. Equal XP
// keeps input order. limit <= 0 keeps every entry.
func RankUsers(users []*User, completed map[string]int, current *User, scope LeaderboardScope, limit int) Leaderboard {
	scope = EffectiveScope(scope, current)

	var filtered []*User
	for _, u := range users {
		if !u.OnboardingCompleted {
			continue
		}
		switch scope {
		case ScopeVillage:
			if u.Village != current.Village {
				continue
			}
		case ScopeDistrict:
			if u.District != current.District {
				continue
			}
		}
		filtered = append(filtered, u)
	}

	slices.SortStableFunc(filtered, func(a, b *User) int {
		return cmp.Compare(b.TotalXP, a.TotalXP)
	})

	board := Leaderboard{Scope: scope, TotalUsers: len(filtered)}
	for i, u := range filtered {
		isCurrent := current != nil && u.ID == current.ID
		if isCurrent {
			board.CurrentUserRank = i + 1
		}
		if limit > 0 && i >= limit {
			continue
		}
		board.Entries = append(board.Entries, LeaderboardEntry{
			Rank:                i + 1,
			UserID:              u.ID,
			Handle:              u.Handle,
			FullName:            u.FullName,
			Village:             u.Village,
			District:            u.District,
			TotalXP:             u.TotalXP,
			Level:               LevelFor(u.TotalXP),
			SustainabilityScore: u.SustainabilityScore,
			CurrentStreak:       u.CurrentStreak,
			BadgesCount:         len(u.BadgesEarned),
			CompletedMissions:   completed[u.ID],
			IsCurrentUser:       isCurrent,
		})
	}
	return board
}
