package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"auto_article_writer/pipeline"
	"auto_article_writer/publisher"
)

//go:embed web/index.html
var embeddedStatic embed.FS

// Runner executes one pipeline run.
type Runner interface {
	Run(ctx context.Context, topic string) (*pipeline.Report, error)
}

type Server struct {
	runner     Runner
	gatherer   prometheus.Gatherer
	runTimeout time.Duration
	store      *runStore
	staticFS   http.Handler
	logger     *zap.Logger
}

const (
	maxRequestBytes = 1 << 20
	maxStoredRuns   = 256
)

// runStore keeps the most recent runs; the oldest is evicted once limit is reached.
type runStore struct {
	mu    sync.Mutex
	limit int
	order []string
	runs  map[string]articleResp
}

func newStore(limit int) *runStore {
	return &runStore{limit: limit, runs: make(map[string]articleResp)}
}

func (s *runStore) set(id string, resp articleResp) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[id]; !ok {
		s.order = append(s.order, id)
	}
	s.runs[id] = resp
	for len(s.order) > s.limit {
		delete(s.runs, s.order[0])
		s.order = s.order[1:]
	}
}

func (s *runStore) get(id string) (articleResp, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	resp, ok := s.runs[id]
	return resp, ok
}

// New builds the HTTP front end. gatherer may be nil to disable /metrics.
func New(runner Runner, gatherer prometheus.Gatherer, runTimeout time.Duration, logger *zap.Logger) (*Server, error) {
	if runner == nil {
		return nil, errors.New("pipeline runner required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if runTimeout <= 0 {
		runTimeout = 10 * time.Minute
	}

	sub, err := fs.Sub(embeddedStatic, "web")
	if err != nil {
		return nil, err
	}

	return &Server{
		runner:     runner,
		gatherer:   gatherer,
		runTimeout: runTimeout,
		store:      newStore(maxStoredRuns),
		staticFS:   http.FileServer(http.FS(sub)),
		logger:     logger.With(zap.String("component", "server")),
	}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/articles", s.handleArticleCreate)
	mux.HandleFunc("/api/articles/", s.handleArticleByID)
	if s.gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	mux.Handle("/", s.staticHandler())
	return s.logMiddleware(mux)
}

func (s *Server) staticHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
			return
		}
		s.staticFS.ServeHTTP(w, r)
	})
}

// --- Handlers ---

type articleCreateReq struct {
	Topic string `json:"topic"`
}

type articleResp struct {
	ID         string         `json:"id"`
	State      pipeline.State `json:"state"`
	Message    string         `json:"message,omitempty"`
	HaltReason string         `json:"halt_reason,omitempty"`
	Degraded   []string       `json:"degraded,omitempty"`
	Outline    []string       `json:"outline,omitempty"`
	Markdown   string         `json:"markdown"`
	HTML       string         `json:"html,omitempty"`
	Images     []string       `json:"images,omitempty"`
	Path       string         `json:"path,omitempty"`
	Error      string         `json:"error,omitempty"`
}

func (s *Server) handleArticleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req articleCreateReq
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		http.Error(w, err.Error(), status)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.runTimeout)
	defer cancel()
	rep, err := s.runner.Run(ctx, req.Topic)
	if errors.Is(err, pipeline.ErrEmptyTopic) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if rep == nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := s.buildResp(rep)
	status := http.StatusOK
	if err != nil {
		resp.Error = err.Error()
		status = http.StatusInternalServerError
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			status = http.StatusGatewayTimeout
		}
	}
	s.store.set(rep.ID, resp)
	writeJSON(w, status, resp)
}

func (s *Server) handleArticleByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/articles/")
	if id == "" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	resp, ok := s.store.get(id)
	if !ok {
		http.Error(w, "article not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- Helpers ---

func (s *Server) buildResp(rep *pipeline.Report) articleResp {
	resp := articleResp{
		ID:         rep.ID,
		State:      rep.State,
		Message:    rep.Message,
		HaltReason: rep.HaltReason,
		Degraded:   rep.Degraded,
		Outline:    rep.Outline,
		Markdown:   rep.Document(),
	}
	if rep.Article == nil {
		return resp
	}
	if rep.State == pipeline.StateAssembled {
		resp.Path = rep.Article.Path
	}
	resp.Images = publisher.ImageRefs(rep.Article.Content)
	html, err := publisher.RenderHTML(rep.Article.Content)
	if err != nil {
		s.logger.Warn("render html failed", zap.String("run_id", rep.ID), zap.Error(err))
		return resp
	}
	resp.HTML = html
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		path := r.URL.Path
		if path == "" {
			path = "/"
		}
		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}
