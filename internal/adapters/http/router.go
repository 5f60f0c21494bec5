package httpadapter

import (
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dealdesk/dealdocs/internal/core/domain"
	"github.com/dealdesk/dealdocs/internal/core/ports"
	"github.com/dealdesk/dealdocs/internal/observability/metrics"
)

const defaultMaxUploadBytes = 64 << 20

// RouterConfig bounds the public surface of the api process.
type RouterConfig struct {
	Service          string
	MaxUploadBytes   int64
	RateLimitRPS     float64
	RateLimitBurst   int
	MaxConcurrent    int
	BackpressureWait time.Duration
	AvailableFolders []domain.FolderOption
}

// Router accepts batch submissions, persists them and hands them to workers
// through the queue. Classification itself never runs in the request path.
type Router struct {
	requests   ports.BatchRequestStore
	queue      ports.MessageQueue
	skills     ports.SkillLoader
	references ports.ReferenceResolver
	metrics    *metrics.HTTPServerMetrics
	logger     *slog.Logger
	cfg        RouterConfig
}

func NewRouter(
	requests ports.BatchRequestStore,
	queue ports.MessageQueue,
	skills ports.SkillLoader,
	references ports.ReferenceResolver,
	serverMetrics *metrics.HTTPServerMetrics,
	logger *slog.Logger,
	cfg RouterConfig,
) *Router {
	if cfg.Service == "" {
		cfg.Service = "api"
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		requests:   requests,
		queue:      queue,
		skills:     skills,
		references: references,
		metrics:    serverMetrics,
		logger:     logger,
		cfg:        cfg,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/batches", rt.submitBatch)
	mux.HandleFunc("/v1/skills", rt.listSkills)
	mux.HandleFunc("/v1/references/refresh", rt.refreshReferences)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.cfg.MaxConcurrent > 0 {
		handler = backpressureMiddleware(handler, rt.cfg.MaxConcurrent, rt.cfg.BackpressureWait)
	}
	if rt.cfg.RateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rt.cfg.RateLimitRPS, rt.cfg.RateLimitBurst)
	}
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(rt.cfg.Service, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) submitBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, rt.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(rt.cfg.MaxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart form required: " + err.Error()})
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "at least one 'files' part is required"})
		return
	}

	files, err := readFiles(headers)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	req := domain.BatchRequest{
		BatchID: uuid.NewString(),
		Files:   files,
		Client: domain.ClientContext{
			ClientName: r.FormValue("client_name"),
			ClientType: strings.ToLower(r.FormValue("client_type")),
			ShortCode:  r.FormValue("client_short_code"),
		},
		AvailableFolders: rt.cfg.AvailableFolders,
		Instructions:     r.FormValue("instructions"),
		UploaderInitials: r.FormValue("uploader_initials"),
	}

	if raw := r.FormValue("checklist"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.ChecklistItems); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid checklist json"})
			return
		}
	}

	if err := rt.requests.SaveRequest(r.Context(), req); err != nil {
		rt.logger.Error("batch_save_failed", "batch_id", req.BatchID, "error", err)
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": "failed to store batch"})
		return
	}
	if err := rt.queue.PublishBatchSubmitted(r.Context(), req.BatchID); err != nil {
		rt.logger.Error("batch_publish_failed", "batch_id", req.BatchID, "error", err)
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": "failed to enqueue batch"})
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordBatchSubmitted(rt.cfg.Service, len(files))
	}
	writeJSON(w, http.StatusAccepted, map[string]any{
		"batch_id": req.BatchID,
		"files":    len(files),
	})
}

func (rt *Router) listSkills(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	metas, err := rt.skills.ListMetas(r.Context())
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"skills": metas})
}

func (rt *Router) refreshReferences(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	rt.references.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}

func readFiles(headers []*multipart.FileHeader) ([]domain.InputFile, error) {
	files := make([]domain.InputFile, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			return nil, domain.WrapError(domain.ErrInvalidInput, "open upload", err)
		}
		data, err := io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			return nil, domain.WrapError(domain.ErrInvalidInput, "read upload", err)
		}
		files = append(files, domain.InputFile{
			FileName:  header.Filename,
			MediaType: header.Header.Get("Content-Type"),
			Size:      int64(len(data)),
			Data:      data,
		})
	}
	return files, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
