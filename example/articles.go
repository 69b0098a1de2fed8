package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cast"

	"github.com/dmitrymomot/sluggable"
	"github.com/dmitrymomot/sluggable/pkg/logger"
	"github.com/dmitrymomot/sluggable/pkg/sanitizer"
	"github.com/dmitrymomot/sluggable/store/postgres"
	"github.com/dmitrymomot/sluggable/store/redisindex"
)

type articles struct {
	store *postgres.Store
	index *redisindex.Index
	opts  sluggable.SlugOptions
	log   *slog.Logger
}

type articleRequest struct {
	Title      *string `json:"title"`
	Subtitle   *string `json:"subtitle"`
	Slug       *string `json:"slug"`
	CustomSlug *string `json:"slug_custom"`
}

// apply copies the submitted fields onto rec. Titles are stored as plain
// text.
func (req articleRequest) apply(rec *sluggable.MapRecord) {
	if req.Title != nil {
		rec.Put("title", sanitizer.PlainText(*req.Title))
	}
	if req.Subtitle != nil {
		rec.Put("subtitle", sanitizer.PlainText(*req.Subtitle))
	}
	if req.Slug != nil {
		rec.Put("slug", *req.Slug)
	}
	if req.CustomSlug != nil {
		rec.Put("slug_custom", *req.CustomSlug)
	}
}

func (h *articles) create(w http.ResponseWriter, r *http.Request) {
	var req articleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	rec := sluggable.NewUnsavedMapRecord("id", map[string]any{
		"title": "", "subtitle": "", "slug_custom": "",
	})
	req.apply(rec)

	if !h.save(w, r, rec, "") {
		return
	}
	writeJSON(w, http.StatusCreated, rec.Attributes())
}

func (h *articles) update(w http.ResponseWriter, r *http.Request) {
	var req articleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	rec, err := h.store.Find(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	previous, _ := rec.Original(h.opts.SlugField)
	req.apply(rec)

	if !h.save(w, r, rec, cast.ToString(previous)) {
		return
	}
	writeJSON(w, http.StatusOK, rec.Attributes())
}

// save stores rec and mirrors its slug to the index. Save runs outside a
// transaction: a unique violation would abort the transaction and block the
// retry with the next counter.
func (h *articles) save(w http.ResponseWriter, r *http.Request, rec *sluggable.MapRecord, previous string) bool {
	ctx := logger.WithCollection(r.Context(), "articles")

	if err := h.store.Save(ctx, rec); err != nil {
		h.fail(w, r, err)
		return false
	}

	slug, _ := rec.Get(h.opts.SlugField)
	current := cast.ToString(slug)
	if _, err := h.index.Claim(ctx, h.opts.SlugField, current, rec.Key()); err != nil {
		h.log.WarnContext(ctx, "slug index not updated", "slug", current, "error", err)
	}
	if previous != "" && previous != current {
		if err := h.index.Release(ctx, h.opts.SlugField, previous, rec.Key()); err != nil {
			h.log.WarnContext(ctx, "stale slug left in index", "slug", previous, "error", err)
		}
	}
	return true
}

func (h *articles) show(w http.ResponseWriter, r *http.Request) {
	rec, err := h.store.FindBySlug(r.Context(), h.opts, chi.URLParam(r, "slug"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec.Attributes())
}

func (h *articles) availability(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	owner, taken, err := h.index.Owner(r.Context(), h.opts.SlugField, slug)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"slug":      slug,
		"available": !taken,
		"owner":     owner,
	})
}

func (h *articles) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, postgres.ErrNotFound):
		writeError(w, http.StatusNotFound, "article not found")
	case errors.Is(err, postgres.ErrSlugTaken):
		writeError(w, http.StatusConflict, "slug is taken")
	case sluggable.IsConfigurationError(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.log.ErrorContext(r.Context(), "request failed", "error", err)
		writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
