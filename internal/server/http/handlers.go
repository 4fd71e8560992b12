package internalhttp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/lomoval/strikeboard/internal/app"
	"github.com/lomoval/strikeboard/internal/listing"
	"github.com/lomoval/strikeboard/internal/storage"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

const (
	errInternalServerError = "internal server error"
	errEventNotFound       = "event not found"
	errCategoryNotFound    = "Category not found"
	errIncorrectEventTime  = "incorrect event time"
)

var errInvalidBody = errors.New("invalid request body")

type errorResponse struct {
	Field string `json:"field,omitempty"`
	Error string `json:"error"`
}

type commentRequest struct {
	AuthorID string `json:"authorId"`
	Text     string `json:"text"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) metricsHandler(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	s.metrics.Handler().ServeHTTP(w, r)
}

func (s *Server) listCategories(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	writeJSON(w, http.StatusOK, s.app.Categories())
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	q := r.URL.Query()

	key, err := listing.ParseSortKey(q.Get("sort"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Field: "sort", Error: err.Error()})
		return
	}
	favorites := false
	if v := q.Get("favorites"); v != "" {
		if favorites, err = strconv.ParseBool(v); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Field: "favorites", Error: "favorites must be a boolean"})
			return
		}
	}
	locale := s.locale
	if v := q.Get("locale"); v != "" {
		if locale, err = language.Parse(v); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Field: "locale", Error: fmt.Sprintf("unknown locale %q", v)})
			return
		}
	}

	items := s.app.View(listing.Options{
		Query: listing.Query{
			Text:          q.Get("q"),
			CategoryID:    q.Get("category"),
			FavoritesOnly: favorites,
		},
		Sort:   key,
		Locale: locale,
	})
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	if err := s.app.Refresh(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createEvent(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	in, err := decodeEventInput(r)
	if err != nil {
		writeError(w, err)
		return
	}
	e, err := s.app.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) getEvent(w http.ResponseWriter, r *http.Request, params map[string]string) {
	item, err := s.app.Event(r.Context(), params["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) updateEvent(w http.ResponseWriter, r *http.Request, params map[string]string) {
	in, err := decodeEventInput(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.app.Update(r.Context(), params["id"], in); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) requestDelete(w http.ResponseWriter, r *http.Request, params map[string]string) {
	token, err := s.app.RequestDelete(r.Context(), params["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) cancelDelete(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	s.app.CancelDelete(r.URL.Query().Get("token"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) confirmDelete(w http.ResponseWriter, r *http.Request, params map[string]string) {
	if err := s.app.ConfirmDelete(r.Context(), params["id"], r.URL.Query().Get("token")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) participate(w http.ResponseWriter, r *http.Request, params map[string]string) {
	s.eventAction(w, r, params["id"], s.app.IncrementParticipants)
}

func (s *Server) toggleFavorite(w http.ResponseWriter, r *http.Request, params map[string]string) {
	s.eventAction(w, r, params["id"], s.app.ToggleFavorite)
}

func (s *Server) share(w http.ResponseWriter, r *http.Request, params map[string]string) {
	s.eventAction(w, r, params["id"], s.app.Share)
}

// eventAction runs a counter/flag action and answers with the refreshed event.
func (s *Server) eventAction(
	w http.ResponseWriter,
	r *http.Request,
	id string,
	action func(ctx context.Context, id string) error,
) {
	if err := action(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	item, err := s.app.Event(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request, params map[string]string) {
	comments, err := s.app.Comments(r.Context(), params["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(comments))
}

func (s *Server) addComment(w http.ResponseWriter, r *http.Request, params map[string]string) {
	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", errInvalidBody, err))
		return
	}
	comments, err := s.app.AddComment(r.Context(), params["id"], req.AuthorID, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, nonNil(comments))
}

func decodeEventInput(r *http.Request) (app.EventInput, error) {
	var in app.EventInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		var perr *time.ParseError
		if errors.As(err, &perr) {
			return in, storage.ErrIncorrectEventTime
		}
		return in, fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return in, nil
}

func writeError(w http.ResponseWriter, err error) {
	var verr *app.ValidationError
	var actionErr *app.ActionError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Field: verr.Field, Error: verr.Message})
	case errors.Is(err, errInvalidBody):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, storage.ErrIncorrectEventTime):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errIncorrectEventTime})
	case errors.Is(err, storage.ErrNotFoundCategory):
		writeJSON(w, http.StatusBadRequest, errorResponse{Field: "categoryId", Error: errCategoryNotFound})
	case errors.Is(err, storage.ErrNotFoundEvent):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: errEventNotFound})
	case errors.Is(err, app.ErrUnknownConfirmation):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, app.ErrSharingDisabled):
		writeJSON(w, http.StatusNotImplemented, errorResponse{Error: err.Error()})
	case errors.As(err, &actionErr):
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: actionErr.Error()})
	default:
		log.Errorf("unexpected error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: errInternalServerError})
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("failed to write response: %v", err)
	}
}

func nonNil(comments []storage.Comment) []storage.Comment {
	if comments == nil {
		return []storage.Comment{}
	}
	return comments
}
