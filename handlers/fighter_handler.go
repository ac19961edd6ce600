package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/almasbek/fightcard/models"
	"github.com/almasbek/fightcard/services"
)

type FighterHandler struct {
	fighterService services.FighterService
}

func NewFighterHandler(fs services.FighterService) *FighterHandler {
	return &FighterHandler{
		fighterService: fs,
	}
}

func (h *FighterHandler) CreateFighter(w http.ResponseWriter, r *http.Request) {
	var fighter models.Fighter
	if err := readJSON(w, r, &fighter); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	created, err := h.fighterService.Create(r.Context(), &fighter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"fighter": created}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *FighterHandler) GetFighterByID(w http.ResponseWriter, r *http.Request) {
	fighterID, err := getIDFromURL(r, "fighterID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	fighter, err := h.fighterService.GetByID(r.Context(), fighterID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"fighter": fighter}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *FighterHandler) ListFighters(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var search *string
	if s := query.Get("search"); s != "" {
		search = &s
	}
	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))

	fighters, err := h.fighterService.List(r.Context(), search, limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"fighters": fighters}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *FighterHandler) UpdateFighter(w http.ResponseWriter, r *http.Request) {
	fighterID, err := getIDFromURL(r, "fighterID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var fighter models.Fighter
	if err := readJSON(w, r, &fighter); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	fighter.ID = fighterID

	updated, err := h.fighterService.Update(r.Context(), &fighter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"fighter": updated}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *FighterHandler) DeleteFighter(w http.ResponseWriter, r *http.Request) {
	fighterID, err := getIDFromURL(r, "fighterID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.fighterService.Delete(r.Context(), fighterID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *FighterHandler) UploadFighterPhoto(w http.ResponseWriter, r *http.Request) {
	fighterID, err := getIDFromURL(r, "fighterID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to parse multipart form: %w", err))
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to get photo file from form: %w", err))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		badRequestResponse(w, r, errors.New("content-type header is required for photo"))
		return
	}

	photoURL, err := h.fighterService.UploadPhoto(r.Context(), fighterID, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"photo_url": photoURL}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
