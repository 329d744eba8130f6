// Package server exposes the reconciliation pipeline over HTTP: one
// processing endpoint plus downloads and previews of the current run.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"posrecon/internal/config"
	"posrecon/internal/recon"
	"posrecon/internal/tabular"
)

type Server struct {
	cfg   config.Config
	log   *zap.Logger
	store *ResultStore

	// runMu serializes processing: at most one run at a time, so results
	// are always replaced wholesale, never interleaved.
	runMu sync.Mutex
}

func New(cfg config.Config, log *zap.Logger) *Server {
	return &Server{cfg: cfg, log: log, store: &ResultStore{}}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/api/process", s.handleProcess)
	r.Get("/api/result", s.handleResult)
	r.Get("/api/download/{artifact}", s.handleDownload)
	r.Get("/api/preview/{view}", s.handlePreview)
	return r
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	maxBytes := int64(s.cfg.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart upload")
		return
	}

	posHeaders := r.MultipartForm.File["pricebook"]
	invHeaders := r.MultipartForm.File["invoices"]
	if len(posHeaders) == 0 || len(invHeaders) == 0 {
		writeError(w, http.StatusBadRequest, "upload a POS pricebook CSV and at least one invoice file")
		return
	}

	posGrid, err := readPricebook(posHeaders[0])
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("pricebook: %v", err))
		return
	}

	files := []tabular.File{}
	for _, fh := range invHeaders {
		blob, err := readUpload(fh)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invoice %s: %v", fh.Filename, err))
			return
		}
		parsed, err := tabular.ReadInvoiceFile(fh.Filename, blob)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invoice %s: %v", fh.Filename, err))
			return
		}
		files = append(files, parsed...)
	}

	vendor := r.FormValue("vendor")
	res, err := recon.Run(posGrid, files, vendor, s.cfg.DeltaTolerance)
	if err != nil {
		s.log.Warn("processing failed", zap.Error(err))
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	summary := res.Summary(uuid.NewString())
	s.store.Replace(res, summary)
	s.log.Info("run complete",
		zap.String("runId", summary.RunID),
		zap.Int("full", summary.Full),
		zap.Int("changed", summary.Changed),
		zap.Int("unmatched", summary.Unmatched),
	)
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleResult(w http.ResponseWriter, _ *http.Request) {
	_, summary, ok := s.store.Current()
	if !ok {
		writeError(w, http.StatusNotFound, "no completed run")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	res, _, ok := s.store.Current()
	if !ok {
		writeError(w, http.StatusNotFound, "no completed run")
		return
	}

	var (
		blob []byte
		name string
		mime string
		err  error
	)
	switch chi.URLParam(r, "artifact") {
	case "changed.csv":
		blob, err = res.ChangedCSV()
		name, mime = res.ChangedCSVName(), "text/csv"
	case "full.csv":
		blob, err = res.FullCSV()
		name, mime = res.FullCSVName(), "text/csv"
	case "audit.xlsx":
		blob, err = res.AuditWorkbook()
		name = res.AuditWorkbookName()
		mime = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		writeError(w, http.StatusNotFound, "unknown artifact")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(blob)
}

var previewLimits = map[string]int{"full": 200, "changed": 200, "goal": 100, "unmatched": 200}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	res, _, ok := s.store.Current()
	if !ok {
		writeError(w, http.StatusNotFound, "no completed run")
		return
	}

	view := chi.URLParam(r, "view")
	var tbl tabular.Table
	switch view {
	case "full":
		tbl = res.FullExport
	case "changed":
		tbl = res.ChangedOnly
	case "goal":
		tbl = res.GoalSheet
	case "unmatched":
		tbl = res.Unmatched
	default:
		writeError(w, http.StatusNotFound, "unknown view")
		return
	}

	limit := previewLimits[view]
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	tbl = tbl.Sanitize()
	rows := tbl.Rows
	if len(rows) > limit {
		rows = rows[:limit]
	}
	writeJSON(w, http.StatusOK, map[string]any{"columns": tbl.Columns, "rows": rows})
}

func readPricebook(fh *multipart.FileHeader) (tabular.Grid, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return tabular.ReadCSV(f)
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
