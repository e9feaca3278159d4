package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"botbridge-backend/internal/store"
	"botbridge-backend/internal/types"
)

func configResponse(c *store.BotConfig) types.BotConfigResponse {
	return types.BotConfigResponse{
		ID:        c.ID.Hex(),
		AppName:   c.AppName,
		Config1:   c.Config1,
		Config2:   c.Config2,
		Config3:   c.Config3,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.configs.GetAll(r.Context())
	if err != nil {
		s.log.Errorw("list bot configs failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Error retrieving configurations")
		return
	}
	out := make([]types.BotConfigResponse, 0, len(configs))
	for i := range configs {
		out = append(out, configResponse(&configs[i]))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	cfg, err := s.configs.GetByID(r.Context(), id)
	if err != nil {
		s.log.Errorw("get bot config failed", "id", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "Error retrieving configuration")
		return
	}
	if cfg == nil {
		s.writeError(w, http.StatusNotFound, "configuration not found")
		return
	}
	s.writeJSON(w, http.StatusOK, configResponse(cfg))
}

func (s *Server) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	var req types.BotConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.AppName) == "" {
		s.writeError(w, http.StatusBadRequest, "appName is required")
		return
	}

	cfg := &store.BotConfig{
		AppName: req.AppName,
		Config1: req.Config1,
		Config2: req.Config2,
		Config3: req.Config3,
	}
	if err := s.configs.Create(r.Context(), cfg); err != nil {
		s.log.Errorw("create bot config failed", "appName", req.AppName, "error", err)
		s.writeError(w, http.StatusInternalServerError, "Error creating configuration")
		return
	}
	w.Header().Set("Location", "/api/botconfigs/"+cfg.ID.Hex())
	s.writeJSON(w, http.StatusCreated, configResponse(cfg))
}

func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req types.BotConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.AppName) == "" {
		s.writeError(w, http.StatusBadRequest, "appName is required")
		return
	}

	existing, err := s.configs.GetByID(r.Context(), id)
	if err != nil {
		s.log.Errorw("get bot config failed", "id", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "Error updating configuration")
		return
	}
	if existing == nil {
		s.writeError(w, http.StatusNotFound, "configuration not found")
		return
	}

	existing.AppName = req.AppName
	existing.Config1 = req.Config1
	existing.Config2 = req.Config2
	existing.Config3 = req.Config3
	if err := s.configs.Update(r.Context(), id, existing); err != nil {
		s.log.Errorw("update bot config failed", "id", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "Error updating configuration")
		return
	}
	s.writeJSON(w, http.StatusOK, configResponse(existing))
}

func (s *Server) handleDeleteConfig(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := s.configs.GetByID(r.Context(), id)
	if err != nil {
		s.log.Errorw("get bot config failed", "id", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "Error deleting configuration")
		return
	}
	if existing == nil {
		s.writeError(w, http.StatusNotFound, "configuration not found")
		return
	}
	if err := s.configs.Delete(r.Context(), id); err != nil {
		s.log.Errorw("delete bot config failed", "id", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "Error deleting configuration")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
