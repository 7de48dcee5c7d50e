// Package server exposes the scoring engine over JSON HTTP. It owns
// the wire payloads; domain types never leak json tags.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"tournament-tracker/internal/domain"
	"tournament-tracker/internal/export"
	"tournament-tracker/internal/service"
	"tournament-tracker/internal/standings"
)

type ScoreboardServer struct {
	configSvc  *service.ConfigService
	ledgerSvc  *service.LedgerService
	historySvc *service.HistoryService
	metaSvc    *service.MetaService
	logger     zerolog.Logger
}

func NewScoreboardServer(
	configSvc *service.ConfigService,
	ledgerSvc *service.LedgerService,
	historySvc *service.HistoryService,
	metaSvc *service.MetaService,
	logger zerolog.Logger,
) *ScoreboardServer {
	return &ScoreboardServer{
		configSvc:  configSvc,
		ledgerSvc:  ledgerSvc,
		historySvc: historySvc,
		metaSvc:    metaSvc,
		logger:     logger,
	}
}

func (s *ScoreboardServer) Routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Route("/config", func(r chi.Router) {
			r.Get("/", s.getConfig)
			r.Put("/", s.putConfig)
			r.Post("/positions", s.addPosition)
			r.Delete("/positions", s.removePosition)
		})

		r.Route("/roster", func(r chi.Router) {
			r.Get("/", s.getRoster)
			r.Put("/", s.putRoster)
			r.Post("/", s.addTeam)
		})

		r.Route("/matches", func(r chi.Router) {
			r.Get("/", s.listMatches)
			r.Post("/", s.addMatch)
			r.Patch("/{matchID}", s.renameMatch)
			r.Patch("/{matchID}/score", s.updateScore)
			r.Delete("/{matchID}", s.deleteMatch)
		})

		r.Post("/teams/rename", s.renameTeam)
		r.Get("/standings", s.getStandings)
		r.Get("/export", s.exportWorkbook)

		r.Route("/tournament", func(r chi.Router) {
			r.Get("/", s.getTournament)
			r.Put("/", s.putTournament)
		})

		r.Route("/history", func(r chi.Router) {
			r.Get("/", s.listHistory)
			r.Post("/", s.saveToHistory)
			r.Patch("/{snapshotID}", s.editHistory)
			r.Delete("/{snapshotID}", s.deleteHistory)
		})
	})

	return r
}

// --- scoring config ---

type configPayload struct {
	GameName        string      `json:"gameName"`
	KillPointWeight int         `json:"killPointWeight"`
	PositionPoints  map[int]int `json:"positionPoints"`
	MaxPosition     int         `json:"maxPosition"`
	UpdatedAt       time.Time   `json:"updatedAt,omitempty"`
}

func toConfigPayload(cfg domain.ScoringConfig) configPayload {
	return configPayload{
		GameName:        cfg.GameName,
		KillPointWeight: cfg.KillPointWeight,
		PositionPoints:  cfg.PositionPoints,
		MaxPosition:     cfg.MaxPosition,
		UpdatedAt:       cfg.UpdatedAt,
	}
}

func (s *ScoreboardServer) getConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.configSvc.Get(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, toConfigPayload(cfg))
}

func (s *ScoreboardServer) putConfig(w http.ResponseWriter, r *http.Request) {
	var req configPayload
	if !s.decode(w, r, &req) {
		return
	}

	cfg, err := s.configSvc.Set(r.Context(), domain.ScoringConfig{
		GameName:        req.GameName,
		KillPointWeight: req.KillPointWeight,
		PositionPoints:  req.PositionPoints,
		MaxPosition:     req.MaxPosition,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, toConfigPayload(cfg))
}

func (s *ScoreboardServer) addPosition(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.configSvc.AddPosition(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, toConfigPayload(cfg))
}

func (s *ScoreboardServer) removePosition(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.configSvc.RemovePosition(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, toConfigPayload(cfg))
}

// --- roster ---

type rosterPayload struct {
	Teams []string `json:"teams"`
}

func (s *ScoreboardServer) getRoster(w http.ResponseWriter, r *http.Request) {
	teams, err := s.ledgerSvc.Roster(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, rosterPayload{Teams: teams})
}

func (s *ScoreboardServer) putRoster(w http.ResponseWriter, r *http.Request) {
	var req rosterPayload
	if !s.decode(w, r, &req) {
		return
	}

	teams, err := s.ledgerSvc.ReplaceRoster(r.Context(), req.Teams)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, rosterPayload{Teams: teams})
}

func (s *ScoreboardServer) addTeam(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.ledgerSvc.AddTeam(r.Context(), req.Name); err != nil {
		s.respondError(w, r, err)
		return
	}

	teams, err := s.ledgerSvc.Roster(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusCreated, rosterPayload{Teams: teams})
}

// --- matches ---

type entryPayload struct {
	TeamName string `json:"teamName"`
	Kills    int    `json:"kills"`
	Position int    `json:"position"`
	Points   int    `json:"points"`
}

type matchPayload struct {
	ID        string         `json:"id"`
	Kind      string         `json:"kind"`
	Number    int            `json:"number"`
	Teams     []entryPayload `json:"teams"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func toMatchPayload(m domain.Match) matchPayload {
	teams := make([]entryPayload, len(m.Teams))
	for i, e := range m.Teams {
		teams[i] = entryPayload{
			TeamName: e.TeamName,
			Kills:    e.Kills,
			Position: e.Position,
			Points:   e.Points,
		}
	}
	return matchPayload{
		ID:        m.ID,
		Kind:      string(m.Kind),
		Number:    m.Number,
		Teams:     teams,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (s *ScoreboardServer) listMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := s.ledgerSvc.Matches(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	payload := make([]matchPayload, len(matches))
	for i, m := range matches {
		payload[i] = toMatchPayload(m)
	}
	s.respondJSON(w, r, http.StatusOK, payload)
}

func (s *ScoreboardServer) addMatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind   string   `json:"kind"`
		Number int      `json:"number"`
		Teams  []string `json:"teams"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	m, err := s.ledgerSvc.AddMatch(r.Context(), domain.MatchKind(req.Kind), req.Number, req.Teams)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusCreated, toMatchPayload(*m))
}

func (s *ScoreboardServer) renameMatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind   string `json:"kind"`
		Number int    `json:"number"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	matchID := chi.URLParam(r, "matchID")
	if err := s.ledgerSvc.RenameMatch(r.Context(), matchID, domain.MatchKind(req.Kind), req.Number); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *ScoreboardServer) updateScore(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TeamName string `json:"teamName"`
		Field    string `json:"field"`
		Value    int    `json:"value"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	matchID := chi.URLParam(r, "matchID")
	entry, err := s.ledgerSvc.UpdateScore(r.Context(), matchID, req.TeamName, req.Field, req.Value)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, entryPayload{
		TeamName: entry.TeamName,
		Kills:    entry.Kills,
		Position: entry.Position,
		Points:   entry.Points,
	})
}

func (s *ScoreboardServer) deleteMatch(w http.ResponseWriter, r *http.Request) {
	if err := s.ledgerSvc.DeleteMatch(r.Context(), chi.URLParam(r, "matchID")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *ScoreboardServer) renameTeam(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldName string `json:"oldName"`
		NewName string `json:"newName"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	if err := s.ledgerSvc.RenameTeam(r.Context(), req.OldName, req.NewName); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- standings and export ---

type standingPayload struct {
	Rank          int     `json:"rank"`
	TeamName      string  `json:"teamName"`
	TotalKills    int     `json:"totalKills"`
	TotalPoints   int     `json:"totalPoints"`
	MatchesPlayed int     `json:"matchesPlayed"`
	AveragePoints float64 `json:"averagePoints"`
}

func toStandingPayloads(overall []domain.Standing) []standingPayload {
	payload := make([]standingPayload, len(overall))
	for i, st := range overall {
		payload[i] = standingPayload{
			Rank:          i + 1,
			TeamName:      st.TeamName,
			TotalKills:    st.TotalKills,
			TotalPoints:   st.TotalPoints,
			MatchesPlayed: st.MatchesPlayed,
			AveragePoints: st.AveragePoints,
		}
	}
	return payload
}

func (s *ScoreboardServer) getStandings(w http.ResponseWriter, r *http.Request) {
	matches, err := s.ledgerSvc.Matches(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, toStandingPayloads(standings.Aggregate(matches)))
}

func (s *ScoreboardServer) exportWorkbook(w http.ResponseWriter, r *http.Request) {
	var (
		matches []domain.Match
		cfg     domain.ScoringConfig
		meta    domain.TournamentMeta
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		matches, err = s.ledgerSvc.Matches(ctx)
		return err
	})
	g.Go(func() (err error) {
		cfg, err = s.configSvc.Get(ctx)
		return err
	})
	g.Go(func() (err error) {
		meta, err = s.metaSvc.Get(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.respondError(w, r, err)
		return
	}

	f, err := export.Workbook(matches, standings.Aggregate(matches), cfg)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename(meta.Name)+`"`)
	if err := f.Write(w); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to stream workbook")
	}
}

func exportFilename(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		name = "tournament"
	}
	name = strings.ReplaceAll(name, " ", "-")
	clean := make([]rune, 0, len(name))
	for _, c := range name {
		if c == '-' || c == '_' || ('a' <= c && c <= 'z') || ('0' <= c && c <= '9') {
			clean = append(clean, c)
		}
	}
	return string(clean) + "-results.xlsx"
}

// --- tournament meta ---

// Counts travel as strings so an unplanned stage reads as "NA" instead
// of a misleading 0.
type tournamentPayload struct {
	Name       string `json:"name"`
	Semifinals string `json:"semifinals"`
	Finals     string `json:"finals"`
}

func formatCount(n int) string {
	if n == 0 {
		return "NA"
	}
	return strconv.Itoa(n)
}

func parseCount(v string) (int, bool) {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, "na") {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func (s *ScoreboardServer) getTournament(w http.ResponseWriter, r *http.Request) {
	meta, err := s.metaSvc.Get(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, tournamentPayload{
		Name:       meta.Name,
		Semifinals: formatCount(meta.SemifinalCount),
		Finals:     formatCount(meta.FinalCount),
	})
}

func (s *ScoreboardServer) putTournament(w http.ResponseWriter, r *http.Request) {
	var req tournamentPayload
	if !s.decode(w, r, &req) {
		return
	}

	semifinals, ok := parseCount(req.Semifinals)
	if !ok {
		s.respondJSON(w, r, http.StatusBadRequest, errorPayload{Error: "semifinals must be a non-negative number or NA"})
		return
	}
	finals, ok := parseCount(req.Finals)
	if !ok {
		s.respondJSON(w, r, http.StatusBadRequest, errorPayload{Error: "finals must be a non-negative number or NA"})
		return
	}

	meta, err := s.metaSvc.Set(r.Context(), domain.TournamentMeta{
		Name:           req.Name,
		SemifinalCount: semifinals,
		FinalCount:     finals,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, tournamentPayload{
		Name:       meta.Name,
		Semifinals: formatCount(meta.SemifinalCount),
		Finals:     formatCount(meta.FinalCount),
	})
}

// --- history ---

type snapshotPayload struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Date      string            `json:"date"`
	Standings []standingPayload `json:"standings"`
	CreatedAt time.Time         `json:"createdAt"`
}

func toSnapshotPayload(snap domain.TournamentSnapshot) snapshotPayload {
	return snapshotPayload{
		ID:        snap.ID,
		Name:      snap.Name,
		Date:      snap.Date,
		Standings: toStandingPayloads(snap.Standings),
		CreatedAt: snap.CreatedAt,
	}
}

func (s *ScoreboardServer) listHistory(w http.ResponseWriter, r *http.Request) {
	snaps, err := s.historySvc.List(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	payload := make([]snapshotPayload, len(snaps))
	for i, snap := range snaps {
		payload[i] = toSnapshotPayload(snap)
	}
	s.respondJSON(w, r, http.StatusOK, payload)
}

// saveToHistory freezes the current overall standings under the given
// name and date.
func (s *ScoreboardServer) saveToHistory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Date string `json:"date"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	matches, err := s.ledgerSvc.Matches(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	snap, err := s.historySvc.Save(r.Context(), req.Name, req.Date, standings.Aggregate(matches))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusCreated, toSnapshotPayload(*snap))
}

func (s *ScoreboardServer) editHistory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Date string `json:"date"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "snapshotID")
	if err := s.historySvc.EditMetadata(r.Context(), id, req.Name, req.Date); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *ScoreboardServer) deleteHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.historySvc.Delete(r.Context(), chi.URLParam(r, "snapshotID")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- helpers ---

type errorPayload struct {
	Error string `json:"error"`
}

func (s *ScoreboardServer) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.respondJSON(w, r, http.StatusBadRequest, errorPayload{Error: "invalid request body"})
		return false
	}
	return true
}

func (s *ScoreboardServer) respondJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

func (s *ScoreboardServer) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case service.IsValidation(err):
		s.respondJSON(w, r, http.StatusBadRequest, errorPayload{Error: err.Error()})
	case service.IsNotFound(err):
		s.respondJSON(w, r, http.StatusNotFound, errorPayload{Error: err.Error()})
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		s.respondJSON(w, r, http.StatusInternalServerError, errorPayload{Error: "internal server error"})
	}
}
