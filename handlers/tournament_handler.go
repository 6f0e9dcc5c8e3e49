package handlers

import (
	"net/http"

	"github.com/sebamarsal/truco-tournament/engine"
	"github.com/sebamarsal/truco-tournament/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
	drawService       services.DrawService
	groupService      services.GroupService
	matchService      services.MatchService
}

func NewTournamentHandler(
	tournamentService services.TournamentService,
	drawService services.DrawService,
	groupService services.GroupService,
	matchService services.MatchService,
) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: tournamentService,
		drawService:       drawService,
		groupService:      groupService,
		matchService:      matchService,
	}
}

// respondWithState answers a progression operation with the operation's
// highlight plus a fresh full-state snapshot, which is what the admin client
// renders after every step.
func (h *TournamentHandler) respondWithState(w http.ResponseWriter, r *http.Request, status, tournamentID int, extra jsonResponse) {
	state, err := h.tournamentService.State(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	payload := jsonResponse{"state": state}
	for k, v := range extra {
		payload[k] = v
	}
	if err := writeJSON(w, status, payload, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CurrentState is the public read endpoint: the full state of the latest
// tournament, same shape as the live broadcasts.
func (h *TournamentHandler) CurrentState(w http.ResponseWriter, r *http.Request) {
	state, err := h.tournamentService.CurrentState(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"state": state}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) State(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	h.respondWithState(w, r, http.StatusOK, tournamentID, nil)
}

func (h *TournamentHandler) Start(w http.ResponseWriter, r *http.Request) {
	tournament, err := h.tournamentService.Start(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.respondWithState(w, r, http.StatusCreated, tournament.ID, jsonResponse{"tournament": tournament})
}

func (h *TournamentHandler) Reset(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.Reset(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.respondWithState(w, r, http.StatusOK, tournamentID, jsonResponse{"tournament": tournament})
}

func (h *TournamentHandler) DrawHead(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	picked, err := h.drawService.DrawHead(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.respondWithState(w, r, http.StatusOK, tournamentID, jsonResponse{"participant": picked})
}

func (h *TournamentHandler) DrawSecond(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	picked, err := h.drawService.DrawSecond(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.respondWithState(w, r, http.StatusOK, tournamentID, jsonResponse{"participant": picked})
}

// SelectSecond lets the operator hand-pick the second member instead of
// drawing one.
func (h *TournamentHandler) SelectSecond(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		ParticipantID int `json:"participant_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	picked, err := h.drawService.SelectSecond(r.Context(), tournamentID, input.ParticipantID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.respondWithState(w, r, http.StatusOK, tournamentID, jsonResponse{"participant": picked})
}

func (h *TournamentHandler) ConfirmTeam(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.drawService.ConfirmTeam(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.respondWithState(w, r, http.StatusOK, tournamentID, jsonResponse{"team": team})
}

func (h *TournamentHandler) NextTeam(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.drawService.NextTeam(r.Context(), tournamentID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.respondWithState(w, r, http.StatusOK, tournamentID, nil)
}

// BuildGroups creates the groups and their round-robin fixtures. Assignments
// are optional: absent, the teams are dealt randomly.
func (h *TournamentHandler) BuildGroups(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		GroupCount  int                 `json:"group_count"`
		Assignments []engine.Assignment `json:"assignments"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.groupService.BuildGroups(r.Context(), tournamentID, input.GroupCount, input.Assignments); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.respondWithState(w, r, http.StatusOK, tournamentID, nil)
}

func (h *TournamentHandler) RecordMatchResult(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		HomeScore *int `json:"home_score"`
		AwayScore *int `json:"away_score"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	// An omitted score must not default to 0 and record a result.
	if input.HomeScore == nil || input.AwayScore == nil {
		mapServiceErrorToHTTP(w, r, engine.ErrInvalidScore)
		return
	}

	match, err := h.matchService.RecordGroupResult(r.Context(), tournamentID, matchID, *input.HomeScore, *input.AwayScore)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.respondWithState(w, r, http.StatusOK, tournamentID, jsonResponse{"match": match})
}

func (h *TournamentHandler) BuildBracket(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.matchService.BuildBracket(r.Context(), tournamentID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.respondWithState(w, r, http.StatusOK, tournamentID, nil)
}

func (h *TournamentHandler) RecordBracketResult(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		HomeScore *int `json:"home_score"`
		AwayScore *int `json:"away_score"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	// An omitted score must not default to 0 and record a result.
	if input.HomeScore == nil || input.AwayScore == nil {
		mapServiceErrorToHTTP(w, r, engine.ErrInvalidScore)
		return
	}

	match, err := h.matchService.RecordBracketResult(r.Context(), tournamentID, matchID, *input.HomeScore, *input.AwayScore)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.respondWithState(w, r, http.StatusOK, tournamentID, jsonResponse{"match": match})
}
