package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"resumerank/internal/decoder"
	"resumerank/internal/domain"
	"resumerank/internal/ingest"
	"resumerank/internal/ranker"
	"resumerank/internal/service"
)

// Ranker is the subset of the ranking service used by the handlers.
type Ranker interface {
	Rank(ctx context.Context, reference *domain.Document, candidates []domain.Document) (*service.Report, error)
}

// Handler serves the ranking endpoints.
type Handler struct {
	logger    *slog.Logger
	ranker    Ranker
	decoders  *decoder.Registry
	maxUpload int64
}

// NewHandler creates a Handler. maxUpload bounds the multipart body in bytes.
func NewHandler(logger *slog.Logger, ranker Ranker, decoders *decoder.Registry, maxUpload int64) *Handler {
	return &Handler{logger: logger, ranker: ranker, decoders: decoders, maxUpload: maxUpload}
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	_ = writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleRankUpload ranks uploaded resume files against an uploaded job file.
// Form fields are "job" (one file) and "resume" (any number of files).
func (h *Handler) HandleRankUpload(w http.ResponseWriter, r *http.Request) {
	reqID := RequestID(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		h.logger.Warn("multipart parse failed", "request_id", reqID, "error", err)
		handleError(w, &HTTPError{Code: http.StatusBadRequest, Message: "invalid multipart form"})
		return
	}
	defer r.MultipartForm.RemoveAll()

	jobFiles := r.MultipartForm.File["job"]
	if len(jobFiles) == 0 || jobFiles[0].Filename == "" {
		handleError(w, &HTTPError{Code: http.StatusBadRequest, Message: "Please select a job description file."})
		return
	}
	job, err := h.decodeUpload(jobFiles[0])
	if err != nil {
		h.logger.Warn("job decode failed", "request_id", reqID, "file", jobFiles[0].Filename, "error", err)
		if !errors.Is(err, decoder.ErrUnsupportedFormat) {
			err = &HTTPError{Code: http.StatusUnprocessableEntity, Message: err.Error()}
		}
		handleError(w, err)
		return
	}

	var candidates []domain.Document
	var skipped []ingest.Skipped
	seen := make(map[string]struct{})
	for _, fh := range r.MultipartForm.File["resume"] {
		if fh.Filename == "" {
			continue
		}
		doc, err := h.decodeUpload(fh)
		if err != nil {
			reason := "decode failed: " + err.Error()
			if errors.Is(err, decoder.ErrUnsupportedFormat) {
				reason = "unsupported format"
			}
			h.logger.Warn("resume skipped", "request_id", reqID, "file", fh.Filename, "reason", reason)
			skipped = append(skipped, ingest.Skipped{Path: fh.Filename, Reason: reason})
			continue
		}
		if _, ok := seen[doc.ID]; ok {
			skipped = append(skipped, ingest.Skipped{Path: fh.Filename, Reason: "duplicate name " + doc.ID})
			continue
		}
		seen[doc.ID] = struct{}{}
		candidates = append(candidates, doc)
	}

	h.respond(w, r, &job, candidates, skipped)
}

// HandleRankText ranks candidates supplied as JSON text.
func (h *Handler) HandleRankText(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		handleError(w, &HTTPError{Code: http.StatusUnsupportedMediaType, Message: "Content-Type must be application/json"})
		return
	}
	var req TextRankRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxUpload)).Decode(&req); err != nil {
		handleError(w, &HTTPError{Code: http.StatusBadRequest, Message: "Invalid JSON payload: " + err.Error()})
		return
	}

	var reference *domain.Document
	if req.Reference != nil {
		id := req.ReferenceID
		if id == "" {
			id = "reference"
		}
		reference = &domain.Document{ID: id, Text: *req.Reference}
	}
	candidates := make([]domain.Document, len(req.Candidates))
	for i, c := range req.Candidates {
		id := c.ID
		if id == "" {
			id = fmt.Sprintf("candidate-%d", i+1)
		}
		candidates[i] = domain.Document{ID: id, Text: c.Text}
	}
	h.respond(w, r, reference, candidates, nil)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, reference *domain.Document, candidates []domain.Document, skipped []ingest.Skipped) {
	reqID := RequestID(r.Context())
	report, err := h.ranker.Rank(r.Context(), reference, candidates)
	if err != nil {
		h.logger.Error("ranking failed", "request_id", reqID, "error", err)
		handleError(w, err)
		return
	}

	resp := RankResponse{
		RequestID: reqID,
		Job:       reference.ID,
		Results:   make([]MatchResponse, len(report.Results)),
		Skipped:   skipped,
	}
	for i, m := range report.Results {
		resp.Results[i] = MatchResponse{ID: m.ID, Score: m.Score, Percentage: m.Percentage, Summary: ranker.Summary(m)}
	}
	if report.SnapshotErr != nil {
		resp.SnapshotError = report.SnapshotErr.Error()
	}
	_ = writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) decodeUpload(fh *multipart.FileHeader) (domain.Document, error) {
	if _, err := h.decoders.For(fh.Filename); err != nil {
		return domain.Document{}, err
	}
	f, err := fh.Open()
	if err != nil {
		return domain.Document{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return domain.Document{}, err
	}
	return ingest.Decode(h.decoders, fh.Filename, data)
}
