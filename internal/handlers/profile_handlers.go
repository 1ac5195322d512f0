package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"inquiry_service/internal/auth"
	"inquiry_service/internal/cache"
	"inquiry_service/internal/metrics"
	"inquiry_service/internal/models"
	"inquiry_service/internal/repository"

	"github.com/go-playground/validator/v10"
)

type ProfileHandler struct {
	repo     *repository.ProfileRepository
	cache    cache.Cache
	ttl      time.Duration
	validate *validator.Validate
}

func NewProfileHandler(repo *repository.ProfileRepository, c cache.Cache, ttl time.Duration) *ProfileHandler {
	return &ProfileHandler{
		repo:     repo,
		cache:    c,
		ttl:      ttl,
		validate: validator.New(),
	}
}

// GET /api/profile
// 200 / 404
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	// 1) cache lookup
	if h.cache != nil {
		key := cache.ProfileKey(userID)
		if b, ok, err := h.cache.Get(r.Context(), key); err == nil && ok {
			metrics.IncRedisHit()
			w.Header().Set("X-Cache", "HIT")
			writeRawJSON(w, http.StatusOK, b)
			return
		}
	}

	// 2) DB
	profile, err := h.repo.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	b, _ := json.Marshal(profile)

	// 3) cache store
	if h.cache != nil {
		_ = h.cache.Set(r.Context(), cache.ProfileKey(userID), b, h.ttl)
	}

	metrics.IncRedisMiss()
	w.Header().Set("X-Cache", "MISS")
	writeRawJSON(w, http.StatusOK, b)
}

// PUT /api/profile
// 200 / 400 / 404
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var upd models.ProfileUpdateRequest
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if err := h.validate.Struct(&upd); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.repo.Update(r.Context(), userID, &upd)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "profile not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.cache != nil {
		_ = h.cache.Del(r.Context(), cache.ProfileKey(userID))
	}

	writeJSON(w, http.StatusOK, profile)
}
