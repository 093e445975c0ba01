package domain

import (
	"slices"
	"time"
)

// XPPerLevel is the number of experience points per level.
const XPPerLevel = 100

type User struct {
	ID     string
	Handle string

	// Profile
	FullName          string
	Phone             string
	DateOfBirth       *time.Time
	Village           string
	District          string
	State             string
	FarmSize          float64
	FarmSizeUnit      string
	PrimaryCrops      []string
	PreferredLanguage string

	OnboardingCompleted bool

	// Rewards
	TotalXP             int
	CurrentLevel        int
	SustainabilityScore int
	CurrentStreak       int
	LongestStreak       int
	LastActivityDate    *time.Time
	BadgesEarned        []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LevelFor derives the level from total XP: floor(xp/100)+1.
func LevelFor(totalXP int) int {
	if totalXP < 0 {
		totalXP = 0
	}
	return totalXP/XPPerLevel + 1
}

// LevelProgress returns the XP earned inside the current level.
func (u *User) LevelProgress() int {
	return u.TotalXP % XPPerLevel
}

func (u *User) HasBadge(key string) bool {
	return slices.Contains(u.BadgesEarned, key)
}

// DisplayName returns the first word of the full name, or the handle.
func (u *User) DisplayName() string {
	for i, r := range u.FullName {
		if r == ' ' {
			return u.FullName[:i]
		}
	}
	return CoalesceStr(u.FullName, u.Handle)
}

// ProfilePatch is a partial update to the profile fields. Nil fields are
// left unchanged.
type ProfilePatch struct {
	FullName          *string
	Phone             *string
	DateOfBirth       *time.Time
	Village           *string
	District          *string
	State             *string
	FarmSize          *float64
	FarmSizeUnit      *string
	PrimaryCrops      []string
	PreferredLanguage *string
}

// Apply copies the non-nil patch fields onto u.
func (p ProfilePatch) Apply(u *User, now time.Time) {
	setStr := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	setStr(&u.FullName, p.FullName)
	setStr(&u.Phone, p.Phone)
	setStr(&u.Village, p.Village)
	setStr(&u.District, p.District)
	setStr(&u.State, p.State)
	setStr(&u.FarmSizeUnit, p.FarmSizeUnit)
	setStr(&u.PreferredLanguage, p.PreferredLanguage)
	if p.DateOfBirth != nil {
		d := *p.DateOfBirth
		u.DateOfBirth = &d
	}
	if p.FarmSize != nil {
		u.FarmSize = *p.FarmSize
	}
	if p.PrimaryCrops != nil {
		u.PrimaryCrops = slices.Clone(p.PrimaryCrops)
	}
	u.UpdatedAt = now
}
