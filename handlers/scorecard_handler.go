package handlers

import (
	"net/http"

	"github.com/almasbek/fightcard/middleware"
	"github.com/almasbek/fightcard/services"
)

type ScorecardHandler struct {
	scorecardService services.ScorecardService
}

func NewScorecardHandler(ss services.ScorecardService) *ScorecardHandler {
	return &ScorecardHandler{
		scorecardService: ss,
	}
}

func (h *ScorecardHandler) CreateScorecard(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	fightID, err := getIDFromURL(r, "fightID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.ScorecardInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.FightID = fightID

	scorecard, err := h.scorecardService.Create(r.Context(), userID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"scorecard": scorecard}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScorecardHandler) GetMyScorecard(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	fightID, err := getIDFromURL(r, "fightID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	scorecard, err := h.scorecardService.GetUserScorecardForFight(r.Context(), userID, fightID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"scorecard": scorecard}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetFightScorecards lists every user scorecard submitted for the fight,
// round scores included.
func (h *ScorecardHandler) GetFightScorecards(w http.ResponseWriter, r *http.Request) {
	fightID, err := getIDFromURL(r, "fightID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	scorecards, err := h.scorecardService.ListByFight(r.Context(), fightID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"scorecards": scorecards}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScorecardHandler) GetFightScorecardStats(w http.ResponseWriter, r *http.Request) {
	fightID, err := getIDFromURL(r, "fightID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stats, err := h.scorecardService.GetFightStats(r.Context(), fightID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"stats": stats}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
