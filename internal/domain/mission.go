package domain

import (
	"strings"
	"time"
)

type Mission struct {
	ID                string
	Title             string
	Description       string
	Category          MissionCategory
	EstimatedDuration int
	XPReward          int
	TargetCrops       []string
	Cards             []ContentCard
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// LastIndex returns the index of the final card, or -1 for an empty mission.
func (m *Mission) LastIndex() int {
	return len(m.Cards) - 1
}

// HasPhotoProof reports whether any card requires a photo before completion.
func (m *Mission) HasPhotoProof() bool {
	for _, c := range m.Cards {
		if c.Variant().NeedsProof() {
			return true
		}
	}
	return false
}

// MatchesCrops reports whether the mission targets any of the given crops.
// A target crop matches when it is a case-insensitive substring of a user
// crop. Missions without target crops match everyone.
func (m *Mission) MatchesCrops(userCrops []string) bool {
	if len(m.TargetCrops) == 0 {
		return true
	}
	for _, target := range m.TargetCrops {
		t := strings.ToLower(target)
		for _, crop := range userCrops {
			if strings.Contains(strings.ToLower(crop), t) {
				return true
			}
		}
	}
	return false
}

// CountCorrect returns how many recorded answers match a quiz card's
// correct option.
func (m *Mission) CountCorrect(answers map[int]int) int {
	n := 0
	for idx, opt := range answers {
		if idx >= 0 && idx < len(m.Cards) && m.Cards[idx].IsCorrect(opt) {
			n++
		}
	}
	return n
}
