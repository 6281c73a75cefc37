package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ent0n29/memoir/internal/biography"
	"github.com/ent0n29/memoir/internal/memory"
)

type createNoteRequest struct {
	PersonID string `json:"personId"`
	Text     string `json:"text"`
	Language string `json:"language"`
}

type biographyRequest struct {
	PersonID string `json:"personId"`
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req createNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	note, err := memory.NewNote(req.PersonID, req.Text, req.Language, time.Now())
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_note", err.Error())
		return
	}
	stored, err := s.store.AppendNote(r.Context(), note)
	if err != nil {
		if errors.Is(err, memory.ErrInvalidNote) {
			respondError(w, http.StatusBadRequest, "invalid_note", err.Error())
			return
		}
		s.logger.Error("append note failed", "person_id", note.PersonID, "err", err)
		respondError(w, http.StatusInternalServerError, "store_failed", "could not store note")
		return
	}
	respondJSON(w, http.StatusCreated, stored)
}

func (s *Server) handleListTurns(w http.ResponseWriter, r *http.Request) {
	filter, ok := listFilter(w, r)
	if !ok {
		return
	}
	filter.SessionID = strings.TrimSpace(r.URL.Query().Get("sessionId"))
	turns, err := s.store.QueryTurns(r.Context(), filter)
	if err != nil {
		s.logger.Error("query turns failed", "err", err)
		respondError(w, http.StatusInternalServerError, "store_failed", "could not list turns")
		return
	}
	if turns == nil {
		turns = []memory.Turn{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"turns": turns})
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	filter, ok := listFilter(w, r)
	if !ok {
		return
	}
	notes, err := s.store.QueryNotes(r.Context(), filter)
	if err != nil {
		s.logger.Error("query notes failed", "err", err)
		respondError(w, http.StatusInternalServerError, "store_failed", "could not list notes")
		return
	}
	if notes == nil {
		notes = []memory.Note{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"notes": notes})
}

// listFilter reads personId and limit, newest first.
func listFilter(w http.ResponseWriter, r *http.Request) (memory.Filter, bool) {
	filter := memory.Filter{
		PersonID: strings.TrimSpace(r.URL.Query().Get("personId")),
		Order:    memory.Descending,
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
			return memory.Filter{}, false
		}
		filter.Limit = n
	}
	return filter, true
}

func (s *Server) handleBiography(w http.ResponseWriter, r *http.Request) {
	var req biographyRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.PersonID) == "" {
		respondError(w, http.StatusBadRequest, "invalid_input", "personId is required")
		return
	}
	report, err := s.biographies.Report(r.Context(), req.PersonID)
	if err != nil {
		if errors.Is(err, biography.ErrInvalidInput) {
			respondError(w, http.StatusBadRequest, "invalid_input", err.Error())
			return
		}
		if errors.Is(err, biography.ErrNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "no turns or notes for this person")
			return
		}
		s.logger.Error("biography failed", "person_id", memory.NormalizePersonID(req.PersonID), "err", err)
		respondError(w, http.StatusInternalServerError, "biography_failed", "could not build biography")
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleDeletePerson(w http.ResponseWriter, r *http.Request) {
	personID := memory.NormalizePersonID(chi.URLParam(r, "id"))
	deleted, err := s.store.DeletePerson(r.Context(), personID)
	if err != nil {
		s.logger.Error("delete person failed", "person_id", personID, "err", err)
		respondError(w, http.StatusInternalServerError, "store_failed", "could not delete person")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"personId": personID,
		"deleted":  deleted,
	})
}
