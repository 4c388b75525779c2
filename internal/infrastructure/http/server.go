// Package http exposes the matching engine, generation features and tracker over HTTP.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/0xcro3dile/careercraft/internal/domain/entities"
	"github.com/0xcro3dile/careercraft/internal/domain/ports"
	"github.com/0xcro3dile/careercraft/internal/domain/usecases"
)

// MaxUploadSize bounds a multipart request.
const MaxUploadSize = 32 << 20

// scoringTimeout bounds routes that only embed and score.
const scoringTimeout = 60 * time.Second

// Services are the use cases behind the API. Inbox may be nil when no resume
// directory is configured. Suggest and Star report ErrGenerationDisabled
// when built without a generator.
type Services struct {
	Engine    *usecases.Engine
	Analyze   *usecases.AnalyzeUseCase
	Selector  *usecases.ResumeSelector
	Retriever *usecases.RAGRetriever
	Suggest   *usecases.SuggestUseCase
	Star      *usecases.StarUseCase
	Tracker   *usecases.TrackerUseCase
	Inbox     *usecases.ResumeInbox
	Parser    ports.DocumentParser
}

// Server is the HTTP API server.
type Server struct {
	svc  Services
	addr string
}

// NewServer creates a new HTTP server.
func NewServer(svc Services, addr string) *Server {
	return &Server{svc: svc, addr: addr}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.Handle("POST /api/analyze", withTimeout(scoringTimeout+usecases.DefaultGenerationTimeout, s.handleAnalyze))
	mux.Handle("POST /api/select", withTimeout(scoringTimeout, s.handleSelect))
	mux.Handle("POST /api/select/inbox", withTimeout(scoringTimeout, s.handleSelectInbox))
	mux.Handle("GET /api/examples", withTimeout(scoringTimeout, s.handleExamples))

	// Generation routes are bounded by the generator's own timeout.
	mux.HandleFunc("POST /api/suggest", s.handleSuggest)
	mux.HandleFunc("GET /api/suggest/stream", s.handleSuggestStream)
	mux.HandleFunc("POST /api/star", s.handleStar)
	mux.HandleFunc("GET /api/stories", s.handleStories)

	mux.HandleFunc("GET /api/applications", s.handleListApplications)
	mux.HandleFunc("POST /api/applications", s.handleCreateApplication)
	mux.HandleFunc("GET /api/applications/summary", s.handleSummary)
	mux.HandleFunc("PUT /api/applications/{id}", s.handleUpdateApplication)
	mux.HandleFunc("DELETE /api/applications/{id}", s.handleDeleteApplication)

	return corsMiddleware(loggingMiddleware(mux))
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 300 * time.Second, // Longer for streaming
	}

	log.Printf("[INFO] CareerCraft server starting on %s", s.addr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func withTimeout(d time.Duration, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), d)
		defer cancel()
		h(w, r.WithContext(ctx))
	})
}

// statusError picks the response code for a use case error.
func statusError(err error) int {
	switch {
	case errors.Is(err, entities.ErrModelUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, entities.ErrEmptyInput), errors.Is(err, entities.ErrNoCandidates):
		return http.StatusBadRequest
	case errors.Is(err, entities.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// writeFailure maps err to a status. unavailable replaces the message when the model is not ready.
func writeFailure(w http.ResponseWriter, err error, unavailable string) {
	status := statusError(err)
	msg := err.Error()
	if status == http.StatusServiceUnavailable && unavailable != "" {
		msg = unavailable
	}
	if status == http.StatusInternalServerError {
		log.Printf("[ERROR] %v", err)
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxUploadSize)).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func sendSSE(w http.ResponseWriter, flusher http.Flusher, data map[string]interface{}) {
	jsonData, _ := json.Marshal(data)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
	flusher.Flush()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE working through the middleware.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %v", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			return
		}
		next.ServeHTTP(w, r)
	})
}
