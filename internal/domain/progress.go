package domain

import (
	"fmt"
	"maps"
	"time"
)

// UserProgress is the per-user cursor and answer log for one mission.
// There is at most one per (UserID, MissionID).
type UserProgress struct {
	ID               string
	UserID           string
	MissionID        string
	Status           ProgressStatus
	CurrentCardIndex int
	QuizAnswers      map[int]int
	PhotoProofURL    string
	CompletedAt      *time.Time
	XPEarned         *int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewProgress returns an in-progress record positioned on the first card.
func NewProgress(id, userID, missionID string, now time.Time) *UserProgress {
	return &UserProgress{
		ID:          id,
		UserID:      userID,
		MissionID:   missionID,
		Status:      ProgressInProgress,
		QuizAnswers: map[int]int{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (p *UserProgress) IsCompleted() bool {
	return p.Status == ProgressCompleted
}

// CompletionPercent returns how far the cursor is through a mission of
// totalCards cards, rounded to a whole percent. Completed progress is 100.
func (p *UserProgress) CompletionPercent(totalCards int) int {
	if p.IsCompleted() {
		return 100
	}
	if totalCards <= 0 {
		return 0
	}
	return int(float64(p.CurrentCardIndex)/float64(totalCards)*100 + 0.5)
}

// AnswersCopy returns a copy of the answer log that callers may mutate.
func (p *UserProgress) AnswersCopy() map[int]int {
	out := make(map[int]int, len(p.QuizAnswers))
	maps.Copy(out, p.QuizAnswers)
	return out
}

// MoveTo sets the cursor and answer log. The cursor must stay inside the
// mission while the progress is in progress.
func (p *UserProgress) MoveTo(index, totalCards int, answers map[int]int, now time.Time) error {
	if p.IsCompleted() {
		return fmt.Errorf("cannot move cursor of completed progress")
	}
	if index < 0 || index >= totalCards {
		return fmt.Errorf("card index %d out of range [0, %d)", index, totalCards)
	}
	p.CurrentCardIndex = index
	p.QuizAnswers = answers
	p.UpdatedAt = now
	return nil
}

// Complete transitions the progress to completed and records the XP earned.
// There is no transition back out of completed.
func (p *UserProgress) Complete(xpReward int, now time.Time) error {
	if p.IsCompleted() {
		return fmt.Errorf("progress %s already completed", p.ID)
	}
	p.Status = ProgressCompleted
	p.CompletedAt = &now
	xp := xpReward
	p.XPEarned = &xp
	p.UpdatedAt = now
	return nil
}

// AdvanceOutcome is what a request to move past the current card resolves to.
type AdvanceOutcome string

const (
	AdvanceMoved      AdvanceOutcome = "moved"
	AdvanceNeedsProof AdvanceOutcome = "needs_proof"
	AdvanceComplete   AdvanceOutcome = "complete"
	AdvanceNoop       AdvanceOutcome = "noop"
)

// PlanAdvance decides the result of advancing from cursor without mutating
// anything. A quiz card without an answer yields ErrAnswerRequired.
func PlanAdvance(m *Mission, p *UserProgress, answers map[int]int) (AdvanceOutcome, error) {
	if p.IsCompleted() {
		return AdvanceNoop, nil
	}
	if len(m.Cards) == 0 {
		return AdvanceNoop, newValidationError(ErrCodeEmptyMission, "mission %q has no cards", m.Title)
	}
	cursor := p.CurrentCardIndex
	if cursor < 0 || cursor > m.LastIndex() {
		return AdvanceNoop, fmt.Errorf("card index %d out of range for mission %q", cursor, m.Title)
	}

	_, answered := answers[cursor]
	if err := m.Cards[cursor].Variant().CheckAdvance(answered); err != nil {
		return AdvanceNoop, err
	}

	if cursor < m.LastIndex() {
		return AdvanceMoved, nil
	}
	if m.HasPhotoProof() && p.PhotoProofURL == "" {
		return AdvanceNeedsProof, nil
	}
	return AdvanceComplete, nil
}
