// =============================================================================
// Grocery List Converter - Demo Form Server
// =============================================================================
//
// This module serves the HTML form that the replay client submits records to.
//
// ROUTES:
//   GET  /form.html    empty form (quantity defaults to 1)
//   POST /submit       validate, store, and answer with the form page plus a
//                      "Submission Successful" banner; 422 on invalid input
//   GET  /submissions  stored submissions as JSON, in insertion order
//   GET  /healthz      "ok"
//
// =============================================================================

package formserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/ginjaninja78/grocery-list-converter/internal/store"
	"github.com/ginjaninja78/grocery-list-converter/internal/types"
	"github.com/ginjaninja78/grocery-list-converter/internal/validation"
)

// SuccessText is the banner text of an accepted submission.
const SuccessText = "Submission Successful"

// Store is the persistence the server needs.
type Store interface {
	Save(ctx context.Context, item types.GroceryItem) (store.Submission, error)
	List(ctx context.Context) ([]store.Submission, error)
}

// Server is the demo form server.
type Server struct {
	addr  string
	store Store
	log   zerolog.Logger
	mux   *chi.Mux
	srv   *http.Server
}

// New builds a server listening on addr once Run is called.
func New(addr string, st Store, log zerolog.Logger) *Server {
	s := &Server{
		addr:  addr,
		store: st,
		log:   log,
		mux:   chi.NewRouter(),
	}
	s.routes()
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.mux }

// Addr returns the listening address.
func (s *Server) Addr() string { return s.addr }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.addr).Msg("form server listening")
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info().Msg("form server shutting down")
		return s.srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) routes() {
	s.mux.Use(
		chimw.RealIP,
		chimw.RequestID,
		chimw.Recoverer,
		s.requestLogger,
		cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			MaxAge:         300,
		}),
	)

	s.mux.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/form.html", http.StatusFound)
	})
	s.mux.Get("/form.html", s.handleForm)
	s.mux.Post("/submit", s.handleSubmit)
	s.mux.Get("/submissions", s.handleList)
	s.mux.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
}

// requestLogger logs one line per request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg("request")
	})
}

func (s *Server) handleForm(w http.ResponseWriter, _ *http.Request) {
	s.render(w, http.StatusOK, formData{Values: formValues{Quantity: "1"}})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, http.StatusBadRequest, formData{Errors: []string{"malformed form body"}})
		return
	}

	values := formValues{
		Category: strings.TrimSpace(r.PostForm.Get("category")),
		Item:     strings.TrimSpace(r.PostForm.Get("item")),
		Quantity: strings.TrimSpace(r.PostForm.Get("quantity")),
	}

	item, problems := bindItem(values)
	if len(problems) > 0 {
		s.log.Warn().Strs("errors", problems).Msg("submission rejected")
		s.render(w, http.StatusUnprocessableEntity, formData{Errors: problems, Values: values})
		return
	}

	sub, err := s.store.Save(r.Context(), item)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to store submission")
		s.render(w, http.StatusInternalServerError, formData{Errors: []string{"could not store submission"}, Values: values})
		return
	}

	s.log.Info().
		Str("id", sub.ID).
		Str("category", sub.Category).
		Str("item", sub.Item).
		Int("quantity", sub.Quantity).
		Msg("submission stored")

	// The form comes back reset, quantity at its default.
	s.render(w, http.StatusOK, formData{
		Success: true,
		Saved:   fmt.Sprintf("%s - %s (%d)", sub.Category, sub.Item, sub.Quantity),
		Values:  formValues{Quantity: "1"},
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	subs, err := s.store.List(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list submissions")
		http.Error(w, "could not list submissions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(subs); err != nil {
		s.log.Error().Err(err).Msg("failed to encode submissions")
	}
}

func (s *Server) render(w http.ResponseWriter, status int, data formData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := formTemplate.Execute(w, data); err != nil {
		s.log.Error().Err(err).Msg("failed to render form")
	}
}

// bindItem converts posted values to a record and reports every problem found.
func bindItem(values formValues) (types.GroceryItem, []string) {
	item := types.GroceryItem{Category: values.Category, Item: values.Item}

	var problems []string
	quantity, err := strconv.Atoi(values.Quantity)
	if err != nil {
		problems = append(problems, "quantity must be a whole number")
	} else {
		item.Quantity = quantity
	}

	for _, ve := range validation.Struct(item, 0) {
		// A bad quantity string was already reported.
		if ve.Field == types.ColumnQuantity && err != nil {
			continue
		}
		problems = append(problems, ve.Field+" "+ve.Message)
	}

	return item, problems
}
