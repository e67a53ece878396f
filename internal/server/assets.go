package server

import (
	"errors"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"agentplug/internal/api"
	"agentplug/pkg/logging"
)

// ResolveAsset maps a request path onto a file inside pluginDir. Both the
// plugin directory and the target are canonicalized with symlinks resolved;
// anything that lands outside the plugin directory is a PathTraversalError.
func ResolveAsset(pluginID, pluginDir, requested string) (string, error) {
	root, err := filepath.EvalSymlinks(pluginDir)
	if err != nil {
		return "", api.NewPluginNotFoundError(pluginID)
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return "", err
	}

	if strings.ContainsRune(requested, 0) {
		return "", &api.PathTraversalError{PluginID: pluginID, Path: requested}
	}

	target := filepath.Join(root, filepath.FromSlash(requested))
	if !within(root, target) {
		return "", &api.PathTraversalError{PluginID: pluginID, Path: requested}
	}

	resolved, err := filepath.EvalSymlinks(target)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", api.NewAssetNotFoundError(pluginID, requested)
		}
		return "", err
	}
	if !within(root, resolved) {
		return "", &api.PathTraversalError{PluginID: pluginID, Path: requested}
	}

	info, err := os.Stat(resolved)
	if err != nil || info.IsDir() {
		return "", api.NewAssetNotFoundError(pluginID, requested)
	}
	return resolved, nil
}

// within reports whether path is root or a descendant of it.
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	s.serveAsset(w, r, r.PathValue("id"), r.PathValue("path"))
}

// rawAssets serves asset requests whose path still holds dot segments.
// ServeMux answers those with a redirect to the cleaned path, which would
// bypass ResolveAsset and the security log.
func (s *Server) rawAssets(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			if rest, ok := strings.CutPrefix(r.URL.Path, "/plugins/"); ok && hasDotSegment(rest) {
				pluginID, requested, _ := strings.Cut(rest, "/")
				s.serveAsset(w, r, pluginID, requested)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func hasDotSegment(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if seg == "." || seg == ".." {
			return true
		}
	}
	return false
}

func (s *Server) serveAsset(w http.ResponseWriter, r *http.Request, pluginID, requested string) {
	if pluginID == "." || pluginID == ".." {
		s.rejectAsset(w, r, pluginID, pluginID+"/"+requested)
		return
	}
	if clean := path.Clean(requested); clean == ".." || strings.HasPrefix(clean, "../") {
		s.rejectAsset(w, r, pluginID, requested)
		return
	}

	m, ok := s.store.Current().Plugin(pluginID)
	if !ok {
		writeError(w, r, api.NewPluginNotFoundError(pluginID))
		return
	}

	resolved, err := ResolveAsset(pluginID, m.Dir, requested)
	if err != nil {
		if api.IsPathTraversal(err) {
			s.rejectAsset(w, r, pluginID, requested)
			return
		}
		writeError(w, r, err)
		return
	}

	f, err := os.Open(resolved)
	if err != nil {
		writeError(w, r, api.NewAssetNotFoundError(pluginID, requested))
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		writeError(w, r, err)
		return
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func (s *Server) rejectAsset(w http.ResponseWriter, r *http.Request, pluginID, requested string) {
	logging.Security("Server", logging.SecurityEvent{
		Action:     "asset_request",
		PluginID:   pluginID,
		Target:     requested,
		RemoteAddr: r.RemoteAddr,
		Reason:     "path escapes plugin directory",
	})
	writeError(w, r, &api.PathTraversalError{PluginID: pluginID, Path: requested})
}
