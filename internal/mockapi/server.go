// Package mockapi is an in-memory products API. It backs stockroom's tests
// and the stockroom-mock development server.
package mockapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/five82/stockroom/internal/catalog"
)

// Request records one request the server handled.
type Request struct {
	Method string
	Path   string
}

// Options configure a Server.
type Options struct {
	Resource string             // collection path, default /products
	Bare     bool               // list as a bare array instead of {"data": [...]}
	Logger   logrus.FieldLogger // nil disables request logging
}

// Server holds the product collection and serves it over chi.
type Server struct {
	mu       sync.Mutex
	products []catalog.Product
	nextID   int64
	requests []Request
	failures map[string][]int
	delay    time.Duration

	resource string
	bare     bool
	router   chi.Router
}

// New returns an empty Server.
func New(opts Options) *Server {
	s := &Server{
		nextID:   1,
		failures: make(map[string][]int),
		resource: opts.Resource,
		bare:     opts.Bare,
	}
	if s.resource == "" {
		s.resource = "/products"
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	if opts.Logger != nil {
		r.Use(requestLogger(opts.Logger))
	}
	r.Use(s.record)
	r.Route(s.resource, func(r chi.Router) {
		r.Get("/", s.list)
		r.Post("/", s.create)
		r.Get("/{id}", s.get)
		r.Patch("/{id}", s.patch)
		r.Put("/{id}", s.put)
		r.Delete("/{id}", s.remove)
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Seed appends products, assigning sequential ids.
func (s *Server) Seed(inputs ...catalog.ProductInput) []catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	created := make([]catalog.Product, 0, len(inputs))
	for _, in := range inputs {
		created = append(created, s.insertLocked(in))
	}
	return created
}

// Products returns a copy of the collection in server order.
func (s *Server) Products() []catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]catalog.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Requests returns the requests handled so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// FailNext makes the next request with the given method answer status
// instead of being handled. Calls queue up.
func (s *Server) FailNext(method string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method] = append(s.failures[method], status)
}

// SetDelay slows every request down, for exercising loading states.
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.Path})
		delay := s.delay
		var status int
		if queued := s.failures[r.Method]; len(queued) > 0 {
			status = queued[0]
			s.failures[r.Method] = queued[1:]
		}
		s.mu.Unlock()

		if delay > 0 {
			time.Sleep(delay)
		}
		if status != 0 {
			writeError(w, status, errors.New(http.StatusText(status)))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) list(w http.ResponseWriter, _ *http.Request) {
	items := s.Products()
	if s.bare {
		writeJSON(w, http.StatusOK, items)
		return
	}
	writeJSON(w, http.StatusOK, catalog.ListResponse{Data: items})
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(chi.URLParam(r, "id"))
	if idx < 0 {
		writeError(w, http.StatusNotFound, errNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s.products[idx])
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.mu.Lock()
	created := s.insertLocked(in)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, created)
}

// patch applies only the fields present in the body.
func (s *Server) patch(w http.ResponseWriter, r *http.Request) {
	var fields map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(chi.URLParam(r, "id"))
	if idx < 0 {
		writeError(w, http.StatusNotFound, errNotFound)
		return
	}
	updated := s.products[idx]
	targets := map[string]any{
		"name":        &updated.Name,
		"price":       &updated.Price,
		"description": &updated.Description,
		"image":       &updated.Image,
	}
	for key, raw := range fields {
		dest, ok := targets[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, dest); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	s.products[idx] = updated
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) put(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(chi.URLParam(r, "id"))
	if idx < 0 {
		writeError(w, http.StatusNotFound, errNotFound)
		return
	}
	replaced := catalog.Product{
		ID:          s.products[idx].ID,
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		Image:       in.Image,
	}
	s.products[idx] = replaced
	writeJSON(w, http.StatusOK, replaced)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(chi.URLParam(r, "id"))
	if idx < 0 {
		writeError(w, http.StatusNotFound, errNotFound)
		return
	}
	s.products = append(s.products[:idx], s.products[idx+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) insertLocked(in catalog.ProductInput) catalog.Product {
	p := catalog.Product{
		ID:          catalog.ID(strconv.FormatInt(s.nextID, 10)),
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		Image:       in.Image,
	}
	s.nextID++
	s.products = append(s.products, p)
	return p
}

func (s *Server) indexLocked(id string) int {
	for i, p := range s.products {
		if p.ID.String() == id {
			return i
		}
	}
	return -1
}

var errNotFound = errors.New("product not found")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func requestLogger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			started := time.Now()
			next.ServeHTTP(ww, r)
			log.WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"request_id": r.Header.Get("X-Request-ID"),
				"duration":   time.Since(started).Round(time.Microsecond),
			}).Info("request")
		})
	}
}
