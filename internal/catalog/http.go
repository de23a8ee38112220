package catalog

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"Library/pkg/kit"
)

const readyTimeout = 1 * time.Second

type Server struct {
	Store Store
	Log   *zap.Logger
}

func (s *Server) Routes() http.Handler {
	return s.routes(nil)
}

// routes mounts the book API; writeLimit, when set, guards the POST routes.
func (s *Server) routes(writeLimit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.ready)

	r.Route("/books", func(br chi.Router) {
		wr := br
		if writeLimit != nil {
			wr = br.With(writeLimit)
		}

		br.Get("/", s.list)
		wr.Post("/", s.insert)
		br.Get("/name/{name}", s.take)
		wr.Post("/name/{name}", s.replace)
		br.Get("/author/{author}", s.byAuthor)
	})

	return r
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.Store.Ping(ctx); err != nil {
		s.logger().Warn("readyz failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	books, err := s.Store.List(r.Context())
	if err != nil {
		s.writeStoreError(w, r, "list books failed", err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, books)
}

func (s *Server) insert(w http.ResponseWriter, r *http.Request) {
	var b Book
	if err := kit.DecodeJSON(w, r, &b); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	out, err := s.Store.Insert(r.Context(), b)
	if err != nil {
		s.writeStoreError(w, r, "insert book failed", err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) take(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	b, err := s.Store.TakeByName(r.Context(), name)
	if err != nil {
		s.writeStoreError(w, r, "take book failed", err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, b)
}

func (s *Server) replace(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var b Book
	if err := kit.DecodeJSON(w, r, &b); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	old, err := s.Store.Replace(r.Context(), name, b)
	if err != nil {
		s.writeStoreError(w, r, "replace book failed", err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, old)
}

func (s *Server) byAuthor(w http.ResponseWriter, r *http.Request) {
	author := chi.URLParam(r, "author")

	books, err := s.Store.FilterByAuthor(r.Context(), author)
	if err != nil {
		s.writeStoreError(w, r, "filter books failed", err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, books)
}

func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		kit.WriteError(w, r, http.StatusNotFound, nf.Error(), map[string]any{nf.Key: nf.Value})
		return
	}

	s.logger().Error(msg, zap.Error(err))
	kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
}

func (s *Server) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
