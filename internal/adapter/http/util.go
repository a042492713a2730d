package adapthttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"strconv"

	"github.com/go-chi/chi/v5"

	"weightbattle/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

// writeDomainError maps the domain sentinel errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, domain.ErrInvalidWeight),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInsufficientData):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, domain.ErrUserExists),
		errors.Is(err, domain.ErrSetupComplete),
		errors.Is(err, domain.ErrConfigMissing):
		writeError(w, http.StatusConflict, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func parseJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

func intQuery(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func int64Query(r *http.Request, key string) (int64, error) {
	v := r.URL.Query().Get(key)
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func floatQuery(r *http.Request, key string) (float64, error) {
	v := r.URL.Query().Get(key)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return f, nil
}

func idParam(r *http.Request, name string) (int64, error) {
	n, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return n, nil
}

func spaFromDisk(dir string) http.Handler {
	fileServer := http.FileServer(http.Dir(dir))
	indexPath := path.Join(dir, "index.html")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqPath := path.Clean(r.URL.Path)
		if reqPath == "/" {
			http.ServeFile(w, r, indexPath)
			return
		}

		staticPath := path.Join(dir, reqPath)
		if _, err := os.Stat(staticPath); err == nil {
			fileServer.ServeHTTP(w, r)
			return
		}

		http.ServeFile(w, r, indexPath)
	})
}
