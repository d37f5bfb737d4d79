// Package stub serves an in-memory fake of the copyright backend: JSON
// envelopes for records and projects, binary downloads, and server-sent
// events on the generation paths. It backs the serve-stub command and the
// client tests.
package stub

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/okian/softcopyright/internal/adapters/mq/queue"
	"github.com/okian/softcopyright/internal/adapters/mq/worker"
	"github.com/okian/softcopyright/internal/adapters/repository"
	"github.com/okian/softcopyright/internal/copyright"
	"github.com/okian/softcopyright/pkg/logger"
)

// Server wires HTTP routes for the fake backend.
type Server struct {
	store  repository.Store
	logger logger.Logger
	delay  time.Duration
	prefix string
	routes []routeInfo

	// Project generation runs on a worker pool fed by jobs.
	jobs      *queue.InMemoryQueue
	pool      *worker.Pool
	workers   int
	queueSize int
	startOnce sync.Once
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStreamDelay pauses between streamed frames.
func WithStreamDelay(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.delay = d
		}
	}
}

// WithPathPrefix mounts the shared-client routes under prefix, e.g.
// "/jeecg-boot". Streaming routes are always mounted at the root.
func WithPathPrefix(prefix string) Option {
	return func(s *Server) {
		s.prefix = prefix
	}
}

// WithWorkers sets how many projects generate at once.
func WithWorkers(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithQueueSize bounds the number of projects waiting to generate.
func WithQueueSize(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.queueSize = n
		}
	}
}

// NewServer creates a Server over store.
func NewServer(store repository.Store, opts ...Option) *Server {
	s := &Server{
		store:     store,
		logger:    logger.Nop(),
		workers:   2,
		queueSize: 16,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.jobs = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workers, s.jobs, s, worker.WithLogger(s.logger))
	return s
}

// Close stops accepting projects and waits for running ones to finish.
func (s *Server) Close(ctx context.Context) error {
	return s.pool.Shutdown(ctx)
}

// Handler returns a mux with every route registered.
func (s *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	s.Register(ctx, mux)
	return mux
}

// Register attaches all routes to mux and starts the generation workers,
// which run until ctx is done or Close is called.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	s.startOnce.Do(func() { s.pool.Start(ctx) })

	var (
		routes []routeInfo
		tag    string
	)
	handle := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, MetricsMiddleware(h, endpoint))
		routes = append(routes, newRouteInfo(pattern, endpoint, tag))
	}
	p := s.prefix

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", metricsHandler())
	mux.HandleFunc("GET /openapi.yaml", s.handleOpenAPI)

	// Records.
	tag = "records"
	handle("GET "+p+copyright.PathCopyrightList, "copyright_list", s.handleList)
	handle("POST "+p+copyright.PathCopyrightCreate, "copyright_create", s.handleCreate)
	handle("GET "+p+"/copyright/{id}", "copyright_detail", s.handleDetail)
	handle("PUT "+p+"/copyright/{id}", "copyright_update", s.handleUpdate)
	handle("DELETE "+p+"/copyright/{id}", "copyright_delete", s.handleDelete)
	handle("POST "+p+"/copyright/{id}/submit", "copyright_submit", s.handleSubmit)
	handle("POST "+p+copyright.PathGenerateCode, "generate_code", s.handleGenerateCode)
	handle("POST "+p+copyright.PathGenerateDocument, "generate_document", s.handleGenerateDocument)
	handle("POST "+p+copyright.PathUploadDocument, "upload_document", s.handleUpload)
	handle("POST "+p+copyright.PathGenerateNames, "generate_names", s.handleNames)
	handle("POST "+p+copyright.PathSaveSoftwareInfo, "save_software_info", s.handleSaveInfo)

	// Projects.
	tag = "projects"
	handle("POST "+p+copyright.PathProjects, "project_create", s.handleCreateProject)
	handle("GET "+p+copyright.PathProjects, "project_list", s.handleProjects)
	handle("POST "+p+copyright.PathProjects+"/{id}/generate", "project_generate", s.handleStartProject)
	handle("GET "+p+copyright.PathProjects+"/{id}/status", "project_status", s.handleProjectStatus)
	handle("DELETE "+p+copyright.PathProjects+"/{id}", "project_delete", s.handleDeleteProject)

	// Downloads.
	tag = "downloads"
	handle("POST "+p+copyright.PathDownloadManual, "download_manual", s.handleDownloadManual)
	handle("POST "+p+copyright.PathDownloadManualImg, "download_manual_screenshots", s.handleDownloadManualWithScreenshots)
	handle("POST "+p+copyright.PathDownloadCode, "download_code", s.handleDownloadCode)
	handle("POST "+p+copyright.PathDownloadInfo, "download_info", s.handleDownloadInfo)
	handle("POST "+p+copyright.PathDownloadAll, "download_all", s.handleDownloadAll)
	handle("POST "+p+copyright.PathDownloadTest, "download_test", s.handleDownloadTest)
	handle("POST "+p+copyright.PathTestHeaderFooter, "test_header_footer", s.handleHeaderFooter)

	// Streams.
	tag = "streams"
	handle("POST "+copyright.PathChatCompletions, "chat_completions", s.handleChat)
	handle("POST "+copyright.PathExtractSoftwareInfo, "extract_software_info", s.handleExtractInfo)
	handle("POST "+copyright.PathGenerateParallel, "generate_parallel", s.handleParallel)
	handle("POST "+copyright.PathGenerateFrontend, "generate_frontend_code", s.handleFrontend)
	handle("POST "+copyright.PathGenerateBackend, "generate_backend_code", s.handleBackend)
	handle("POST "+copyright.PathGenerateAll, "generate_all", s.handleGenerateAll)
	for n := 1; n <= copyright.ChapterCount; n++ {
		handle("POST "+copyright.GenerateDocumentChapterStream(chapterParams(n)).Path,
			"generate_chapter"+strconv.Itoa(n), s.handleChapter(n))
	}
	s.routes = routes
}
