package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"agentplug/internal/api"
	"agentplug/internal/settings"
	"agentplug/internal/webui"
	"agentplug/pkg/logging"
)

// maxBodyBytes bounds request bodies read by the API routes.
const maxBodyBytes = 10 << 20

func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, api.NewClientError("read request body: %v", err)
	}
	if len(body) > maxBodyBytes {
		return nil, api.NewClientError("request body exceeds %d bytes", maxBodyBytes)
	}
	return body, nil
}

func decodeBody(r *http.Request, v interface{}) error {
	body, err := readBody(r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return api.NewClientError("invalid JSON body: %v", err)
	}
	return nil
}

func (s *Server) handlePluginAPI(w http.ResponseWriter, r *http.Request) {
	pluginID := r.PathValue("id")
	name := r.PathValue("handler")

	entry, err := s.store.Current().Handler(pluginID, name)
	if err != nil {
		writeError(w, r, err)
		return
	}

	body, err := readBody(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out, err := s.invoker.Invoke(r.Context(), entry, body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (s *Server) handleManagement(w http.ResponseWriter, r *http.Request) {
	var req api.ManagementRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	var (
		rec *settings.Record
		err error
	)
	switch req.Action {
	case api.ActionGetConfig:
		rec, err = s.settings.Effective(req.PluginID, req.ScopeContext)
	case api.ActionGetDefaults:
		rec, err = s.settings.Defaults(req.PluginID)
	case api.ActionSaveConfig:
		if len(req.Payload) == 0 {
			err = api.NewClientError("save_config requires a payload")
			break
		}
		data, jsonErr := settings.DecodeObject(req.Payload)
		if jsonErr != nil {
			err = api.NewClientError("payload must be a JSON object")
			break
		}
		rec, err = s.settings.Save(req.PluginID, req.ScopeContext, data)
	default:
		err = api.NewClientError("unknown action %q", req.Action)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, configResponse(req.PluginID, rec))
}

func configResponse(pluginID string, rec *settings.Record) api.ConfigResponse {
	if rec == nil {
		return api.ConfigResponse{PluginID: pluginID, Config: map[string]interface{}{}}
	}
	return api.ConfigResponse{
		PluginID: pluginID,
		Scope:    string(rec.Scope),
		Path:     rec.Path,
		Config:   rec.Data,
	}
}

func (s *Server) handleListPlugins(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Current()
	writeJSON(w, http.StatusOK, api.PluginListResponse{Version: snap.Version, Plugins: snap.PluginInfos()})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Reload(r.Context())
	if err != nil {
		writeError(w, r, fmt.Errorf("reload: %w", err))
		return
	}
	s.broker.Purge()
	logging.Info("Server", "Catalog reloaded on request (snapshot v%d)", snap.Version)
	writeJSON(w, http.StatusOK, api.PluginListResponse{Version: snap.Version, Plugins: snap.PluginInfos()})
}

type webuiExtensionsResponse struct {
	Extensions []webui.Contribution `json:"extensions"`
}

func (s *Server) handleWebUIExtensions(w http.ResponseWriter, r *http.Request) {
	var req api.WebUIExtensionsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.ExtensionPoint == "" {
		writeError(w, r, api.NewClientError("extension_point is required"))
		return
	}
	writeJSON(w, http.StatusOK, webuiExtensionsResponse{Extensions: s.broker.Discover(req.ExtensionPoint, req.Filters)})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Current()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": snap.Version,
		"plugins": snap.Registry.Len(),
	})
}
