package pinlib

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	SessionCookieName = "pinmap_session"

	maxImportSize = 4 << 20
)

type sessionHandlerFunc func(http.ResponseWriter, *http.Request, *Session)

type httpHandler struct {
	pinmap *Pinmap
}

type resultResponse struct {
	Result LocatedPoint  `json:"result"`
	Render RenderRequest `json:"render"`
}

type pointsResponse struct {
	Results []LocatedPoint `json:"results"`
	Render  RenderRequest  `json:"render"`
}

// withSession finds a session by cookie or starts a new one. The
// session is passed to the handler explicitly.
func (h httpHandler) withSession(next sessionHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var sess *Session

		if cookie, err := req.Cookie(SessionCookieName); err == nil {
			sess, _ = h.pinmap.sessions.Get(cookie.Value)
		}

		if sess == nil {
			sess = h.pinmap.sessions.Create()

			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    sess.ID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		next(w, req, sess)
	}
}

func (h httpHandler) handleLast(w http.ResponseWriter, req *http.Request, sess *Session) {
	point, ok := h.pinmap.Last(sess)
	if !ok {
		h.sendError(w, nil, "Nothing was located yet", http.StatusNotFound)

		return
	}

	h.encodeJSON(w, http.StatusOK, resultResponse{
		Result: point,
		Render: BuildLocateRenderRequest(point),
	})
}

func (h httpHandler) handlePoints(w http.ResponseWriter, req *http.Request, sess *Session) {
	points := h.pinmap.Points(sess)

	h.encodeJSON(w, http.StatusOK, pointsResponse{
		Results: points,
		Render:  BuildRenderRequest(points),
	})
}

func (h httpHandler) handleClearPoints(w http.ResponseWriter, req *http.Request, sess *Session) {
	h.pinmap.ClearPoints(sess)

	w.WriteHeader(http.StatusNoContent)
}

func (h httpHandler) handleRender(w http.ResponseWriter, req *http.Request, sess *Session) {
	h.encodeJSON(w, http.StatusOK, h.pinmap.Render(sess))
}

func (h httpHandler) handleGeoJSON(w http.ResponseWriter, req *http.Request, sess *Session) {
	w.Header().Set("Content-Type", "application/geo+json")
	h.encodeJSON(w, http.StatusOK, BuildFeatureCollection(h.pinmap.Points(sess)))
}

func (h httpHandler) handleExport(w http.ResponseWriter, req *http.Request, sess *Session) {
	buf := bytes.Buffer{}

	if err := h.pinmap.Export(sess, &buf); err != nil {
		h.sendError(w, err, "Cannot export points", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="points.csv"`)
	w.Write(buf.Bytes()) // nolint: errcheck
}

func (h httpHandler) handleImport(w http.ResponseWriter, req *http.Request, sess *Session) {
	if !strings.Contains(req.Header.Get("Content-Type"), "text/csv") {
		h.sendError(w, nil, "Incorrect content type", http.StatusUnsupportedMediaType)

		return
	}

	defer req.Body.Close()

	imported, err := h.pinmap.Import(sess, http.MaxBytesReader(w, req.Body, maxImportSize))
	if err != nil {
		h.sendError(w, err, "Cannot import points", http.StatusBadRequest)

		return
	}

	response := struct {
		Imported int           `json:"imported"`
		Render   RenderRequest `json:"render"`
	}{
		Imported: imported,
		Render:   h.pinmap.Render(sess),
	}

	h.encodeJSON(w, http.StatusOK, response)
}

func (h httpHandler) handleDropSession(w http.ResponseWriter, req *http.Request, sess *Session) {
	h.pinmap.sessions.Drop(sess.ID)

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h httpHandler) handleStats(w http.ResponseWriter, req *http.Request) {
	response := struct {
		Results []*UsageStats `json:"results"`
	}{
		Results: h.pinmap.UsageStats(),
	}

	h.encodeJSON(w, http.StatusOK, response)
}

func (h httpHandler) encodeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	encoder := json.NewEncoder(w)

	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}

	w.WriteHeader(statusCode)
	encoder.SetEscapeHTML(false)
	encoder.Encode(data) // nolint: errcheck
}

func (h httpHandler) sendError(w http.ResponseWriter, err error, message string, statusCode int) {
	e := &httpError{
		message:    message,
		statusCode: statusCode,
		err:        err,
	}

	h.encodeJSON(w, e.StatusCode(), e)
}

func newHTTPHandler(pinmap *Pinmap) http.Handler {
	handler := httpHandler{
		pinmap: pinmap,
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(NewMetricsCollector(pinmap))

	router := chi.NewRouter()

	router.Use(middleware.StripSlashes)
	router.Use(middleware.Recoverer)

	router.NotFound(func(w http.ResponseWriter, req *http.Request) {
		handler.sendError(w, nil, "Unknown path", http.StatusNotFound)
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		handler.sendError(w, nil, "This HTTP method is not allowed", http.StatusMethodNotAllowed)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/locate", handler.withSession(handler.handleLocate))
		r.Get("/last", handler.withSession(handler.handleLast))
		r.Delete("/session", handler.withSession(handler.handleDropSession))

		r.Route("/points", func(r chi.Router) {
			r.Get("/", handler.withSession(handler.handlePoints))
			r.Post("/", handler.withSession(handler.handleAddPoint))
			r.Delete("/", handler.withSession(handler.handleClearPoints))
			r.Get("/render", handler.withSession(handler.handleRender))
			r.Get("/geojson", handler.withSession(handler.handleGeoJSON))
			r.Get("/export", handler.withSession(handler.handleExport))
			r.Post("/import", handler.withSession(handler.handleImport))
		})
	})

	router.Get("/stats", handler.handleStats)
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return router
}
