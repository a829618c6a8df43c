package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/user/streamflix-go/internal/model"
	"github.com/user/streamflix-go/internal/views"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return false
	}
	return true
}

type okResponse struct {
	OK bool `json:"ok"`
}

type idResponse struct {
	ID string `json:"id"`
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	entries := s.cat.Entries(r.Context())
	UpdateEntryCount(len(entries))
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	var entry model.CatalogEntry
	if !decodeJSON(w, r, &entry) {
		return
	}
	if entry.Title == "" && entry.URL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title or url is required"})
		return
	}

	if s.fetcher != nil {
		s.fetcher.Apply(r.Context(), &entry)
	}

	id, err := s.cat.AddEntry(r.Context(), &entry)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to add entry"})
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.cat.Entry(r.Context(), chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "entry not found"})
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if !decodeJSON(w, r, &fields) {
		return
	}
	delete(fields, "id") // ids are immutable once assigned

	ok := s.cat.UpdateEntry(r.Context(), chi.URLParam(r, "id"), fields)
	writeJSON(w, http.StatusOK, okResponse{OK: ok})
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	ok := s.cat.DeleteEntry(r.Context(), chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, okResponse{OK: ok})
}

func (s *Server) handleSetViews(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Views int64 `json:"views"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Views < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "views must be non-negative"})
		return
	}

	id := chi.URLParam(r, "id")
	ok := s.cat.SetViews(r.Context(), id, body.Views)
	if ok {
		s.counter.Track(id, body.Views)
	}
	writeJSON(w, http.StatusOK, okResponse{OK: ok})
}

// handlePlay is the detail-view play action: it bumps the view counter
// optimistically and returns the new count plus its display form
func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	count := s.counter.Increment(r.Context(), id)
	viewIncrementsTotal.Inc()

	writeJSON(w, http.StatusOK, map[string]any{
		"views":     count,
		"formatted": views.FormatCount(count),
	})
}

func (s *Server) handleListRequests(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cat.Requests(r.Context()))
}

func (s *Server) handleAddRequest(w http.ResponseWriter, r *http.Request) {
	var req model.Request
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}

	id, err := s.cat.AddRequest(r.Context(), &req)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to add request"})
		return
	}
	requestsSubmittedTotal.Inc()
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (s *Server) handleUpdateRequest(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if !decodeJSON(w, r, &fields) {
		return
	}
	delete(fields, "id")

	ok := s.cat.UpdateRequest(r.Context(), chi.URLParam(r, "id"), fields)
	writeJSON(w, http.StatusOK, okResponse{OK: ok})
}

func (s *Server) handleDeleteRequest(w http.ResponseWriter, r *http.Request) {
	ok := s.cat.DeleteRequest(r.Context(), chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, okResponse{OK: ok})
}

func (s *Server) handleWatchlist(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.watch.Items(r.Context()))
}

func (s *Server) handleWatchlistToggle(w http.ResponseWriter, r *http.Request) {
	var item model.WatchlistItem
	if !decodeJSON(w, r, &item) {
		return
	}
	if item.ID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "id is required"})
		return
	}

	added := s.watch.Toggle(r.Context(), &item)
	writeJSON(w, http.StatusOK, map[string]bool{"added": added})
}

func (s *Server) handleWatchlistRemove(w http.ResponseWriter, r *http.Request) {
	ok := s.watch.Remove(r.Context(), chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, okResponse{OK: ok})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cat.Search(r.Context(), r.URL.Query().Get("q"), 50))
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cat.Suggestions(r.Context(), r.URL.Query().Get("q"), 8))
}

func (s *Server) handleGuideVideos(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.listeners.GuideVideos())
}

func (s *Server) handleSaveGuideVideos(w http.ResponseWriter, r *http.Request) {
	var set model.GuideVideoSet
	if !decodeJSON(w, r, &set) {
		return
	}
	ok := s.cat.SaveGuideVideos(r.Context(), set)
	writeJSON(w, http.StatusOK, okResponse{OK: ok})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.listeners.Categories())
}

func (s *Server) handleSaveCategories(w http.ResponseWriter, r *http.Request) {
	var cats model.Categories
	if !decodeJSON(w, r, &cats) {
		return
	}
	ok := s.cat.SaveCategories(r.Context(), cats)
	writeJSON(w, http.StatusOK, okResponse{OK: ok})
}

func (s *Server) handleLegalPages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.listeners.LegalPages())
}

func (s *Server) handleLegalPage(w http.ResponseWriter, r *http.Request) {
	page, ok := s.listeners.LegalPages()[chi.URLParam(r, "page")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown legal page"})
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleSaveLegalPage(w http.ResponseWriter, r *http.Request) {
	var page model.LegalPage
	if !decodeJSON(w, r, &page) {
		return
	}
	ok := s.cat.SaveLegalPage(r.Context(), chi.URLParam(r, "page"), page)
	writeJSON(w, http.StatusOK, okResponse{OK: ok})
}

func (s *Server) handleNavigation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.listeners.Navigation())
}

func (s *Server) handleSaveNavigation(w http.ResponseWriter, r *http.Request) {
	var nav model.Navigation
	if !decodeJSON(w, r, &nav) {
		return
	}
	ok := s.cat.SaveNavigation(r.Context(), nav)
	writeJSON(w, http.StatusOK, okResponse{OK: ok})
}

func (s *Server) handleSelected(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"id": s.watch.Selected(r.Context())})
}

func (s *Server) handleSetSelected(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID string `json:"id"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	s.watch.SetSelected(r.Context(), body.ID)

	// The detail view starts watching the live count on hand-off
	if body.ID != "" {
		if err := s.counter.Watch(body.ID); err != nil {
			log.Warn().Err(err).Str("id", body.ID).Msg("Failed to start views watch")
		}
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}
