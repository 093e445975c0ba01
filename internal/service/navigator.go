package service

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/alexanderramin/farmquest/internal/db"
	"github.com/alexanderramin/farmquest/internal/domain"
	"github.com/alexanderramin/farmquest/internal/repository"
)

// NavigatorState is where a navigator sits after its last operation.
type NavigatorState string

const (
	NavOnCard     NavigatorState = "on_card"
	NavNeedsProof NavigatorState = "needs_proof"
	NavCompleted  NavigatorState = "completed"
)

// CompletionResult describes the reward granted when a mission completes.
type CompletionResult struct {
	XPEarned       int
	Sustainability int
	NewBadges      []string
	LeveledUp      bool
	User           *domain.User
}

// Navigator walks one user through one mission. Quiz answers are held
// locally and written together with the cursor on the next Advance or
// Retreat. A Navigator is not safe for concurrent use.
type Navigator struct {
	sess     Session
	mission  *domain.Mission
	progress *domain.UserProgress
	answers  map[int]int
	state    NavigatorState

	completion *CompletionResult

	progressRepo repository.ProgressRepo
	uow          db.UnitOfWork
	observer     UseCaseObserver
}

func newNavigator(sess Session, m *domain.Mission, p *domain.UserProgress, progress repository.ProgressRepo, uow db.UnitOfWork, observer UseCaseObserver) *Navigator {
	n := &Navigator{
		sess:         sess,
		mission:      m,
		progress:     p,
		answers:      p.AnswersCopy(),
		state:        NavOnCard,
		progressRepo: progress,
		uow:          uow,
		observer:     observer,
	}
	if p.IsCompleted() {
		n.state = NavCompleted
	}
	return n
}

func (n *Navigator) Mission() *domain.Mission { return n.mission }
func (n *Navigator) State() NavigatorState     { return n.state }
func (n *Navigator) Cursor() int               { return n.progress.CurrentCardIndex }
func (n *Navigator) Card() domain.ContentCard  { return n.mission.Cards[n.progress.CurrentCardIndex] }
func (n *Navigator) IsFirst() bool             { return n.progress.CurrentCardIndex == 0 }
func (n *Navigator) IsLast() bool              { return n.progress.CurrentCardIndex == n.mission.LastIndex() }

// Progress returns a snapshot of the persisted progress record.
func (n *Navigator) Progress() domain.UserProgress {
	p := *n.progress
	p.QuizAnswers = n.progress.AnswersCopy()
	return p
}

// Completion returns the reward granted by this navigator, or nil when the
// mission was not completed through it.
func (n *Navigator) Completion() *CompletionResult { return n.completion }

// Answer returns the locally recorded option for a card.
func (n *Navigator) Answer(index int) (int, bool) {
	opt, ok := n.answers[index]
	return opt, ok
}

// Percent returns how far through the mission the cursor is.
func (n *Navigator) Percent() int {
	return n.progress.CompletionPercent(len(n.mission.Cards))
}

// RecordQuizAnswer stores option for the quiz card at index. Nothing is
// persisted until the next Advance or Retreat.
func (n *Navigator) RecordQuizAnswer(index, option int) error {
	if n.state == NavCompleted {
		return nil
	}
	if index < 0 || index > n.mission.LastIndex() {
		return &domain.ValidationError{Code: domain.ErrCodeInvalidAnswer, Message: fmt.Sprintf("card %d does not exist", index)}
	}
	card := n.mission.Cards[index]
	if err := card.Variant().CheckAnswer(card, option); err != nil {
		return err
	}
	n.answers[index] = option
	return nil
}

// Advance moves past the current card. On the last card it completes the
// mission, or enters NavNeedsProof when a photo is still required.
func (n *Navigator) Advance(ctx context.Context) (NavigatorState, error) {
	outcome, err := domain.PlanAdvance(n.mission, n.progress, n.answers)
	if err != nil {
		return n.state, err
	}

	switch outcome {
	case domain.AdvanceMoved:
		if err := n.persistCursor(ctx, n.progress.CurrentCardIndex+1); err != nil {
			return n.state, err
		}
		n.state = NavOnCard
	case domain.AdvanceNeedsProof:
		if err := n.persistCursor(ctx, n.progress.CurrentCardIndex); err != nil {
			return n.state, err
		}
		n.state = NavNeedsProof
	case domain.AdvanceComplete:
		if _, err := n.complete(ctx); err != nil {
			return n.state, err
		}
	case domain.AdvanceNoop:
		n.state = NavCompleted
	}
	return n.state, nil
}

// Retreat moves back one card. It is a no-op on the first card and on a
// completed mission.
func (n *Navigator) Retreat(ctx context.Context) (NavigatorState, error) {
	if n.state == NavCompleted {
		return n.state, nil
	}
	if n.progress.CurrentCardIndex > 0 {
		if err := n.persistCursor(ctx, n.progress.CurrentCardIndex-1); err != nil {
			return n.state, err
		}
	}
	n.state = NavOnCard
	return n.state, nil
}

// SubmitPhotoProof records the uploaded photo URL and completes the mission.
// It is only accepted once every other card has been passed.
func (n *Navigator) SubmitPhotoProof(ctx context.Context, url string) (*CompletionResult, error) {
	if n.state == NavCompleted {
		return n.completion, nil
	}
	if url == "" {
		return nil, &domain.ValidationError{Code: domain.ErrCodeProofRequired, Message: "photo proof url is empty"}
	}
	outcome, err := domain.PlanAdvance(n.mission, n.progress, n.answers)
	if err != nil {
		return nil, err
	}
	if outcome == domain.AdvanceMoved {
		return nil, &domain.ValidationError{Code: domain.ErrCodeProofRequired, Message: "finish the remaining cards before submitting proof"}
	}

	prev := n.progress.PhotoProofURL
	n.progress.PhotoProofURL = url
	n.progress.UpdatedAt = n.sess.Now()
	if err := n.progressRepo.Update(ctx, n.progress); err != nil {
		n.progress.PhotoProofURL = prev
		return nil, fmt.Errorf("saving photo proof: %w", err)
	}
	return n.complete(ctx)
}

func (n *Navigator) persistCursor(ctx context.Context, index int) error {
	prev := *n.progress
	if err := n.progress.MoveTo(index, len(n.mission.Cards), maps.Clone(n.answers), n.sess.Now()); err != nil {
		return err
	}
	if err := n.progressRepo.Update(ctx, n.progress); err != nil {
		*n.progress = prev
		return fmt.Errorf("saving progress: %w", err)
	}
	return nil
}

// complete marks the progress completed and rewards the user in one
// transaction. If the record was already completed elsewhere nothing is
// granted twice.
func (n *Navigator) complete(ctx context.Context) (result *CompletionResult, err error) {
	fields := map[string]any{"user": n.progress.UserID, "mission": n.mission.ID}
	defer observe(ctx, n.observer, "complete-mission", time.Now(), fields, &err)

	now := n.sess.Now()
	var completed *domain.UserProgress

	err = n.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		progress := repository.NewSQLiteProgressRepo(tx)
		users := repository.NewSQLiteUserRepo(tx)

		p, err := progress.GetByID(ctx, n.progress.ID)
		if err != nil {
			return err
		}
		if p.IsCompleted() {
			completed = p
			return nil
		}

		p.QuizAnswers = maps.Clone(n.answers)
		p.PhotoProofURL = n.progress.PhotoProofURL
		if err := p.Complete(n.mission.XPReward, now); err != nil {
			return err
		}
		if err := progress.Update(ctx, p); err != nil {
			return err
		}

		u, err := users.GetByID(ctx, p.UserID)
		if err != nil {
			return err
		}
		levelBefore := domain.LevelFor(u.TotalXP)
		delta := domain.RewardDelta{XP: n.mission.XPReward, Sustainability: domain.MissionSustainability}
		rewarded := domain.ApplyReward(*u, delta, now)

		rewarded, earned, err := awardBadges(ctx, progress, repository.NewSQLiteMissionRepo(tx), rewarded, now)
		if err != nil {
			return err
		}
		if err := users.Update(ctx, &rewarded); err != nil {
			return err
		}

		completed = p
		result = &CompletionResult{
			XPEarned:       n.mission.XPReward,
			Sustainability: domain.MissionSustainability,
			NewBadges:      earned,
			LeveledUp:      rewarded.CurrentLevel > levelBefore,
			User:           &rewarded,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	n.progress = completed
	n.answers = completed.AnswersCopy()
	n.state = NavCompleted
	if result != nil {
		n.completion = result
		fields["xp"] = result.XPEarned
	}
	return n.completion, nil
}
