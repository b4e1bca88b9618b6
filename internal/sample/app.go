// Package sample provides a small host application for demos and tests.
// It serves generic resources under a base path so scripts have something to call.
package sample

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// BasePath is where the sample resources are mounted.
const BasePath = "/api"

// Resource is the body returned for every resource route.
type Resource struct {
	Name string `json:"name"`
	ID   any    `json:"id"`
	Info string `json:"info"`
	Data any    `json:"data,omitempty"`
}

// NewApp returns a router serving the sample resources under BasePath.
// Routes:
//
//	GET    /api/{name}/{id}     resource lookup
//	POST   /api/{name}          create, id is the current unix millis
//	PUT    /api/{name}/{id}     replace
//	DELETE /api/{name}/{id}     204
//	GET    /api/status/{code}   responds with the given status and {"reason": ...}
//	GET    /api/headers         echoes request headers
//	GET    /api/panic           panics, to exercise transport failures
func NewApp() *chi.Mux {
	r := chi.NewRouter()
	r.Route(BasePath, func(r chi.Router) {
		r.Get("/status/{code}", status)
		r.Get("/headers", headers)
		r.Get("/panic", func(http.ResponseWriter, *http.Request) {
			panic("sample: deliberate failure")
		})
		r.Get("/{name}/{id}", func(w http.ResponseWriter, r *http.Request) {
			send(w, http.StatusOK, chi.URLParam(r, "name"), chi.URLParam(r, "id"), nil)
		})
		r.Post("/{name}", func(w http.ResponseWriter, r *http.Request) {
			data, ok := readJSON(w, r)
			if !ok {
				return
			}
			send(w, http.StatusOK, chi.URLParam(r, "name"), time.Now().UnixMilli(), data)
		})
		r.Put("/{name}/{id}", func(w http.ResponseWriter, r *http.Request) {
			data, ok := readJSON(w, r)
			if !ok {
				return
			}
			send(w, http.StatusOK, chi.URLParam(r, "name"), chi.URLParam(r, "id"), data)
		})
		r.Delete("/{name}/{id}", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})
	return r
}

func send(w http.ResponseWriter, code int, name string, id any, data any) {
	writeJSON(w, code, Resource{
		Name: name,
		ID:   id,
		Info: fmt.Sprintf("resource %s id %v", name, id),
		Data: data,
	})
}

func status(w http.ResponseWriter, r *http.Request) {
	code, err := strconv.Atoi(chi.URLParam(r, "code"))
	if err != nil || code < 100 || code > 599 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"reason": "invalid status code"})
		return
	}
	reason := r.URL.Query().Get("reason")
	if reason == "" {
		reason = http.StatusText(code)
	}
	writeJSON(w, code, map[string]string{"reason": reason})
}

func headers(w http.ResponseWriter, r *http.Request) {
	out := make(map[string]string, len(r.Header))
	for name := range r.Header {
		out[name] = r.Header.Get(name)
	}
	writeJSON(w, http.StatusOK, out)
}

func readJSON(w http.ResponseWriter, r *http.Request) (any, bool) {
	if r.ContentLength == 0 {
		return nil, true
	}
	var data any
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, true
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"reason": "invalid json body"})
		return nil, false
	}
	return data, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
