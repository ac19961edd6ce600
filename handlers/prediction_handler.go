package handlers

import (
	"net/http"

	"github.com/almasbek/fightcard/middleware"
	"github.com/almasbek/fightcard/services"
)

type PredictionHandler struct {
	predictionService services.PredictionService
}

func NewPredictionHandler(ps services.PredictionService) *PredictionHandler {
	return &PredictionHandler{
		predictionService: ps,
	}
}

func (h *PredictionHandler) CreatePrediction(w http.ResponseWriter, r *http.Request) {
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

	var input services.PredictionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.FightID = fightID

	prediction, err := h.predictionService.Create(r.Context(), userID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"prediction": prediction}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetMyPrediction returns the caller's own prediction for the fight, 404 when
// none exists.
func (h *PredictionHandler) GetMyPrediction(w http.ResponseWriter, r *http.Request) {
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

	prediction, err := h.predictionService.GetUserPredictionForFight(r.Context(), userID, fightID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"prediction": prediction}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetFightPredictions lists every prediction submitted for the fight.
func (h *PredictionHandler) GetFightPredictions(w http.ResponseWriter, r *http.Request) {
	fightID, err := getIDFromURL(r, "fightID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	predictions, err := h.predictionService.ListByFight(r.Context(), fightID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"predictions": predictions}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PredictionHandler) GetFightPredictionStats(w http.ResponseWriter, r *http.Request) {
	fightID, err := getIDFromURL(r, "fightID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stats, err := h.predictionService.GetFightStats(r.Context(), fightID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"stats": stats}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
