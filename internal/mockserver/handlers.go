package mockserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/muurk/tpsctl/internal/entry"
	"github.com/muurk/tpsctl/internal/logging"
)

// errorDocument is the body TPS sends with every failed request
type errorDocument struct {
	Code    int    `json:"Code"`
	Message string `json:"Message"`
}

// writeJSON marshals v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("Failed to encode response", zap.Error(err))
	}
}

// writeError writes a TPS error document.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorDocument{Code: status, Message: message})
}

func writeStoreError(w http.ResponseWriter, err error) {
	status, message := statusOf(err)
	writeError(w, status, message)
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v any) error {
	defer func() { _ = r.Body.Close() }()
	return json.NewDecoder(r.Body).Decode(v)
}

// handler serves the configuration collections out of a Store
type handler struct {
	store *Store
}

// NewRouter builds the /tps/rest routes for store. When users is non-empty
// every request must carry matching basic auth credentials.
func NewRouter(store *Store, users map[string]string) http.Handler {
	h := &handler{store: store}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	if len(users) > 0 {
		r.Use(middleware.BasicAuth("TPS", users))
	}

	r.Route("/tps/rest/{kind}", func(kr chi.Router) {
		kr.Use(h.requireKind)
		kr.Get("/", h.list)
		kr.Post("/", h.create)
		kr.Get("/{id}", h.get)
		kr.Put("/{id}", h.update)
		kr.Delete("/{id}", h.remove)
		kr.Post("/{id}", h.changeStatus)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Resource not found: "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed: "+r.Method)
	})

	return r
}

// requestID echoes the client's X-Request-ID or assigns one
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
			r.Header.Set("X-Request-ID", id)
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logging.LogHTTPResponse(r.Header.Get("X-Request-ID"), r.Method, r.URL.String(), ww.Status(), time.Since(start))
	})
}

type kindKey struct{}

func (h *handler) requireKind(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		kind, err := entry.ParseKind(chi.URLParam(r, "kind"))
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(withKind(r.Context(), kind)))
	})
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	entries := h.store.List(kindFrom(r.Context()))
	writeJSON(w, http.StatusOK, entry.Collection{Total: len(entries), Entries: entries})
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	e, err := h.store.Get(kindFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	var e entry.Entry
	if err := decodeJSON(r, &e); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	created, err := h.store.Create(kindFrom(r.Context()), &e)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	logging.Info("Entry created",
		zap.String("kind", string(kindFrom(r.Context()))),
		zap.String("id", created.ID),
	)
	writeJSON(w, http.StatusCreated, created)
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	var e entry.Entry
	if err := decodeJSON(r, &e); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	if e.ID != "" && e.ID != id {
		writeError(w, http.StatusBadRequest, "Entry ID does not match URL: "+e.ID)
		return
	}

	updated, err := h.store.Update(kindFrom(r.Context()), id, &e)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *handler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(kindFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) changeStatus(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("action")
	if name == "" {
		writeError(w, http.StatusBadRequest, "Missing action")
		return
	}
	action, err := entry.ParseAction(name)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid action: "+name)
		return
	}

	kind := kindFrom(r.Context())
	id := chi.URLParam(r, "id")

	before, after, err := h.store.ChangeStatus(kind, id, action)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	logging.LogTransition(string(kind), id, string(action), string(before.Status), string(after.Status))
	writeJSON(w, http.StatusOK, after)
}

func withKind(ctx context.Context, kind entry.Kind) context.Context {
	return context.WithValue(ctx, kindKey{}, kind)
}

func kindFrom(ctx context.Context) entry.Kind {
	kind, _ := ctx.Value(kindKey{}).(entry.Kind)
	return kind
}
