package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/almasbek/fightcard/models"
	"github.com/almasbek/fightcard/services"
)

type EventHandler struct {
	eventService services.EventService
	fightService services.FightService
}

func NewEventHandler(es services.EventService, fs services.FightService) *EventHandler {
	return &EventHandler{
		eventService: es,
		fightService: fs,
	}
}

func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var event models.Event
	if err := readJSON(w, r, &event); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	created, err := h.eventService.Create(r.Context(), &event)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"event": created}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetEventDetail serves one event with its full fight card by id or slug.
func (h *EventHandler) GetEventDetail(w http.ResponseWriter, r *http.Request) {
	idOrSlug := chi.URLParam(r, "eventID")
	if idOrSlug == "" {
		notFoundResponse(w, r)
		return
	}

	event, err := h.eventService.GetDetail(r.Context(), idOrSlug)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"event": event}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var upcoming *bool
	if raw := query.Get("upcoming"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err == nil {
			upcoming = &value
		}
	}
	var organization *string
	if org := query.Get("organization"); org != "" {
		organization = &org
	}
	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))

	events, err := h.eventService.List(r.Context(), upcoming, organization, limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"events": events}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.eventService.ListOrganizations(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"organizations": orgs}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var event models.Event
	if err := readJSON(w, r, &event); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	event.ID = eventID

	updated, err := h.eventService.Update(r.Context(), &event)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"event": updated}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.eventService.Delete(r.Context(), eventID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *EventHandler) ListEventFights(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	fights, err := h.fightService.ListByEvent(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"fights": fights}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
