package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/alexanderramin/farmquest/internal/domain"
	"github.com/alexanderramin/farmquest/internal/service"
)

const (
	requestTimeout = 5 * time.Second
	maxPhotoBytes  = 10 << 20
)

func (s *Server) getMe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	u, err := s.deps.Users.Me(ctx, sessionFrom(ctx))
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, toUserResponse(u))
}

func (s *Server) updateMe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req profileRequest
	if err := decodeBody(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	u, err := s.deps.Users.UpdateProfile(ctx, sessionFrom(ctx), patch)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, toUserResponse(u))
}

func (s *Server) onboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req onboardingRequest
	if err := decodeBody(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	profile, err := req.toProfile()
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	u, err := s.deps.Users.Onboard(ctx, sessionFrom(ctx), profile)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, toUserResponse(u))
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	users, err := s.deps.Users.List(ctx)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	out := make([]userResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	respondWithJSON(w, http.StatusOK, out)
}

func (s *Server) listMissions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	q := service.MissionQuery{
		Category: domain.MissionCategory(r.URL.Query().Get("category")),
		Crop:     r.URL.Query().Get("crop"),
	}
	if q.Category != "" && !domain.ValidCategories[string(q.Category)] {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("unknown category %q", q.Category))
		return
	}
	missions, err := s.deps.Missions.List(ctx, q)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	out := make([]missionResponse, len(missions))
	for i, m := range missions {
		out[i] = toMissionResponse(m)
	}
	respondWithJSON(w, http.StatusOK, out)
}

func (s *Server) getMission(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	m, err := s.deps.Missions.Get(ctx, mux.Vars(r)["id"])
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, toMissionResponse(m))
}

func (s *Server) listProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	records, err := s.deps.Missions.Progress(ctx, sessionFrom(ctx))
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	out := make([]progressResponse, len(records))
	for i, p := range records {
		out[i] = toProgressResponse(p)
	}
	respondWithJSON(w, http.StatusOK, out)
}

func (s *Server) startMission(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	nav, err := s.deps.Missions.Start(ctx, sessionFrom(ctx), mux.Vars(r)["id"])
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, toNavigatorResponse(nav))
}

// advanceMission rebuilds the navigator from stored progress, records the
// answers in the body, then advances once.
func (s *Server) advanceMission(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req advanceRequest
	if err := decodeBody(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	nav, err := s.deps.Missions.Start(ctx, sessionFrom(ctx), mux.Vars(r)["id"])
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	for index, option := range req.Answers {
		if err := nav.RecordQuizAnswer(index, option); err != nil {
			s.respondErr(w, r, err)
			return
		}
	}
	if _, err := nav.Advance(ctx); err != nil {
		s.respondErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, toNavigatorResponse(nav))
}

func (s *Server) retreatMission(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	nav, err := s.deps.Missions.Start(ctx, sessionFrom(ctx), mux.Vars(r)["id"])
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	if _, err := nav.Retreat(ctx); err != nil {
		s.respondErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, toNavigatorResponse(nav))
}

// submitProof accepts either a JSON body with an already-hosted URL or a
// multipart upload in the "photo" field, which is saved to the photo store.
func (s *Server) submitProof(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 4*requestTimeout)
	defer cancel()
	sess := sessionFrom(ctx)
	missionID := mux.Vars(r)["id"]

	nav, err := s.deps.Missions.Start(ctx, sess, missionID)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	var url string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if s.deps.Photos == nil {
			respondWithError(w, http.StatusNotImplemented, "photo uploads are not configured")
			return
		}
		url, err = s.savePhoto(ctx, w, r, sess.UserID, nav.Mission().ID)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	} else {
		var req proofRequest
		if err := decodeBody(r, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		url = req.URL
	}

	if _, err := nav.SubmitPhotoProof(ctx, url); err != nil {
		s.respondErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, toNavigatorResponse(nav))
}

func (s *Server) savePhoto(ctx context.Context, w http.ResponseWriter, r *http.Request, userID, missionID string) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoBytes)
	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		return "", fmt.Errorf("reading upload: %w", err)
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		return "", fmt.Errorf("photo field is required")
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "farmquest-proof-*"+filepath.Ext(header.Filename))
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	return s.deps.Photos.Save(ctx, userID, missionID, tmp.Name())
}

func (s *Server) claimDailyBonus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	res, err := s.deps.Users.ClaimDailyBonus(ctx, sessionFrom(ctx))
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, toDailyBonusResponse(res))
}

func (s *Server) leaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	scope := domain.LeaderboardScope(r.URL.Query().Get("scope"))
	switch scope {
	case "":
		scope = domain.ScopeAll
	case domain.ScopeAll, domain.ScopeVillage, domain.ScopeDistrict:
	default:
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("unknown scope %q", scope))
		return
	}
	board, err := s.deps.Leaderboard.Leaderboard(ctx, sessionFrom(ctx), scope)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, toLeaderboardResponse(board))
}
