package handlers

import (
	"net/http"

	"github.com/almasbek/fightcard/models"
	"github.com/almasbek/fightcard/services"
)

type FightHandler struct {
	fightService services.FightService
}

func NewFightHandler(fs services.FightService) *FightHandler {
	return &FightHandler{
		fightService: fs,
	}
}

func (h *FightHandler) CreateFight(w http.ResponseWriter, r *http.Request) {
	var fight models.Fight
	if err := readJSON(w, r, &fight); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	created, err := h.fightService.Create(r.Context(), &fight)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"fight": created}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetFightSummary serves the fight with participants, result and the crowd
// prediction/scorecard aggregates.
func (h *FightHandler) GetFightSummary(w http.ResponseWriter, r *http.Request) {
	fightID, err := getIDFromURL(r, "fightID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	summary, err := h.fightService.GetSummary(r.Context(), fightID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, summary, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *FightHandler) UpdateFight(w http.ResponseWriter, r *http.Request) {
	fightID, err := getIDFromURL(r, "fightID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var fight models.Fight
	if err := readJSON(w, r, &fight); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	fight.ID = fightID

	updated, err := h.fightService.Update(r.Context(), &fight)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"fight": updated}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *FightHandler) DeleteFight(w http.ResponseWriter, r *http.Request) {
	fightID, err := getIDFromURL(r, "fightID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.fightService.Delete(r.Context(), fightID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
