package handlers

import (
	"net/http"

	"github.com/almasbek/fightcard/services"
)

type ResultHandler struct {
	resultService services.ResultService
}

func NewResultHandler(rs services.ResultService) *ResultHandler {
	return &ResultHandler{
		resultService: rs,
	}
}

func (h *ResultHandler) GetFightResult(w http.ResponseWriter, r *http.Request) {
	fightID, err := getIDFromURL(r, "fightID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.resultService.GetByFight(r.Context(), fightID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"result": result}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateFightResult stores the official result and resolves every prediction
// and scorecard of the fight in the same transaction.
func (h *ResultHandler) CreateFightResult(w http.ResponseWriter, r *http.Request) {
	fightID, err := getIDFromURL(r, "fightID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.FightResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, summary, err := h.resultService.Create(r.Context(), fightID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"result": result, "resolution": summary}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateFightResult replaces the result and re-resolves from scratch.
func (h *ResultHandler) UpdateFightResult(w http.ResponseWriter, r *http.Request) {
	fightID, err := getIDFromURL(r, "fightID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.FightResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, summary, err := h.resultService.Update(r.Context(), fightID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"result": result, "resolution": summary}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteFightResult removes the result and reverts all predictions and
// scorecards of the fight to their unresolved state.
func (h *ResultHandler) DeleteFightResult(w http.ResponseWriter, r *http.Request) {
	fightID, err := getIDFromURL(r, "fightID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.resultService.Delete(r.Context(), fightID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
