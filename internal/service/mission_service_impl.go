package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"

	"github.com/alexanderramin/farmquest/internal/db"
	"github.com/alexanderramin/farmquest/internal/domain"
	"github.com/alexanderramin/farmquest/internal/repository"
	"github.com/google/uuid"
)

// TodayMissionLimit is how many personalised missions the home screen shows.
const TodayMissionLimit = 5

type missionService struct {
	users    repository.UserRepo
	missions repository.MissionRepo
	progress repository.ProgressRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewMissionService(
	users repository.UserRepo,
	missions repository.MissionRepo,
	progress repository.ProgressRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) MissionService {
	return &missionService{
		users:    users,
		missions: missions,
		progress: progress,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *missionService) List(ctx context.Context, q MissionQuery) ([]*domain.Mission, error) {
	all, err := s.missions.List(ctx, repository.MissionFilter{Category: q.Category})
	if err != nil {
		return nil, err
	}
	if q.Crop == "" {
		return all, nil
	}
	var out []*domain.Mission
	for _, m := range all {
		if m.MatchesCrops([]string{q.Crop}) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *missionService) Get(ctx context.Context, id string) (*domain.Mission, error) {
	return s.missions.GetByID(ctx, id)
}

// missionTitles implements fuzzy.Source over mission titles.
type missionTitles []*domain.Mission

func (m missionTitles) Len() int            { return len(m) }
func (m missionTitles) String(i int) string { return strings.ToLower(m[i].Title) }

// Search returns active missions whose titles fuzzily match query, best
// match first.
func (s *missionService) Search(ctx context.Context, query string) ([]*domain.Mission, error) {
	all, err := s.missions.List(ctx, repository.MissionFilter{})
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return all, nil
	}
	matches := fuzzy.FindFrom(query, missionTitles(all))
	out := make([]*domain.Mission, len(matches))
	for i, match := range matches {
		out[i] = all[match.Index]
	}
	return out, nil
}

func (s *missionService) Today(ctx context.Context, sess Session) ([]MissionView, error) {
	u, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	views, err := s.Overview(ctx, sess, MissionQuery{})
	if err != nil {
		return nil, err
	}
	var out []MissionView
	for _, v := range views {
		if !v.Mission.MatchesCrops(u.PrimaryCrops) {
			continue
		}
		out = append(out, v)
		if len(out) == TodayMissionLimit {
			break
		}
	}
	return out, nil
}

func (s *missionService) Overview(ctx context.Context, sess Session, q MissionQuery) ([]MissionView, error) {
	missions, err := s.List(ctx, q)
	if err != nil {
		return nil, err
	}
	records, err := s.progress.ListByUser(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	byMission := make(map[string]*domain.UserProgress, len(records))
	for _, p := range records {
		byMission[p.MissionID] = p
	}

	views := make([]MissionView, 0, len(missions))
	for _, m := range missions {
		v := MissionView{Mission: m, Status: domain.ProgressNotStarted}
		if p, ok := byMission[m.ID]; ok {
			v.Progress = p
			v.Status = p.Status
			v.Percent = p.CompletionPercent(len(m.Cards))
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *missionService) Progress(ctx context.Context, sess Session) ([]*domain.UserProgress, error) {
	return s.progress.ListByUser(ctx, sess.UserID)
}

func (s *missionService) Start(ctx context.Context, sess Session, missionID string) (nav *Navigator, err error) {
	fields := map[string]any{"user": sess.UserID, "mission": missionID}
	defer observe(ctx, s.observer, "start-mission", time.Now(), fields, &err)

	m, err := s.missions.GetByID(ctx, missionID)
	if err != nil {
		return nil, err
	}
	if len(m.Cards) == 0 {
		return nil, &domain.ValidationError{Code: domain.ErrCodeEmptyMission, Message: fmt.Sprintf("mission %q has no cards", m.Title)}
	}

	p, err := s.progress.Find(ctx, sess.UserID, m.ID)
	switch {
	case err == nil:
		fields["resumed"] = true
	case errors.Is(err, repository.ErrNotFound):
		if !m.IsActive {
			return nil, &domain.ValidationError{Code: domain.ErrCodeMissionInactive, Message: fmt.Sprintf("mission %q is no longer offered", m.Title)}
		}
		p, err = s.createProgress(ctx, sess, m.ID)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	// A re-imported mission may have fewer cards than the saved cursor.
	if !p.IsCompleted() && p.CurrentCardIndex > m.LastIndex() {
		if err := p.MoveTo(m.LastIndex(), len(m.Cards), p.QuizAnswers, sess.Now()); err != nil {
			return nil, err
		}
		if err := s.progress.Update(ctx, p); err != nil {
			return nil, err
		}
	}

	return newNavigator(sess, m, p, s.progress, s.uow, s.observer), nil
}

// createProgress inserts a fresh record, falling back to the existing one if
// a concurrent start won the UNIQUE(user_id, mission_id) race.
func (s *missionService) createProgress(ctx context.Context, sess Session, missionID string) (*domain.UserProgress, error) {
	p := domain.NewProgress(uuid.New().String(), sess.UserID, missionID, sess.Now())
	if err := s.progress.Create(ctx, p); err != nil {
		if existing, findErr := s.progress.Find(ctx, sess.UserID, missionID); findErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return p, nil
}
