// Package api exposes the verification service over HTTP.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jeditech/verify-hub/internal/export"
	"github.com/jeditech/verify-hub/internal/normalize"
	"github.com/jeditech/verify-hub/internal/pkg/httputil"
	"github.com/jeditech/verify-hub/internal/pkg/logger"
	"github.com/jeditech/verify-hub/internal/progress"
	"github.com/jeditech/verify-hub/internal/results"
	"github.com/jeditech/verify-hub/internal/verify"
)

// Handlers wires the verification pipeline behind HTTP endpoints.
type Handlers struct {
	verifier verify.Verifier
	store    *results.Store
	policy   *normalize.Policy
	tracker  progress.Tracker
	log      *logger.Logger
	now      func() time.Time
}

// NewHandlers creates the handler set. A nil tracker falls back to in-memory
// tracking; a nil log falls back to the default logger.
func NewHandlers(verifier verify.Verifier, store *results.Store, policy *normalize.Policy, tracker progress.Tracker, log *logger.Logger) *Handlers {
	if tracker == nil {
		tracker = progress.NewMemoryTracker()
	}
	if log == nil {
		log = logger.Default
	}
	return &Handlers{
		verifier: verifier,
		store:    store,
		policy:   policy,
		tracker:  tracker,
		log:      log,
		now:      time.Now,
	}
}

type singleRequest struct {
	Email string `json:"email"`
}

type bulkRequest struct {
	Text string `json:"text"`
}

type verifyResponse struct {
	Summary verify.Summary  `json:"summary"`
	Results []verify.Result `json:"results"`
	Warning string          `json:"warning,omitempty"`
	BatchID string          `json:"batchId,omitempty"`
}

// HealthCheck reports service liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]string{
		"status": "healthy",
		"time":   h.now().UTC().Format(time.RFC3339),
	})
}

// VerifySingle validates one address and submits it to the workflow.
func (h *Handlers) VerifySingle(w http.ResponseWriter, r *http.Request) {
	var req singleRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	email := normalize.Canonical(req.Email)
	if email == "" {
		h.writeRejection(w, &normalize.Rejection{Reason: normalize.ReasonEmptyInput})
		return
	}
	if !normalize.IsValidAddress(email) {
		h.writeRejection(w, &normalize.Rejection{Reason: normalize.ReasonNoValidAddresses})
		return
	}

	out, err := h.verifier.VerifySingle(r.Context(), email)
	if err != nil {
		h.writeVerifyError(w, "single", err)
		return
	}
	h.finish(w, out, "")
}

// VerifyBulk normalizes pasted text, applies the batch policy, and submits
// the batch to the workflow.
func (h *Handlers) VerifyBulk(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	batch, err := h.policy.AcceptPaste(req.Text, normalize.Normalize(req.Text))
	if err != nil {
		var rej *normalize.Rejection
		if errors.As(err, &rej) {
			h.writeRejection(w, rej)
			return
		}
		httputil.BadRequest(w, err.Error())
		return
	}

	batchID := verify.NewBatchID()
	h.track(r.Context(), progress.Snapshot{
		ID: batchID, Phase: progress.PhaseSubmitting, Total: batch.ValidCount,
	})

	out, err := h.verifier.VerifyBulk(r.Context(), batch.Addresses)
	if err != nil {
		h.track(r.Context(), progress.Snapshot{
			ID: batchID, Phase: progress.PhaseFailed, Total: batch.ValidCount, Message: "verification request failed",
		})
		h.writeVerifyError(w, "bulk", err)
		return
	}

	h.track(r.Context(), progress.Snapshot{
		ID: batchID, Phase: progress.PhaseCompleted,
		Processed: batch.ValidCount, Total: batch.ValidCount,
	})
	h.log.Info("bulk verification completed", logger.Fields{
		"batch_id": batchID,
		"unique":   batch.UniqueCount,
		"valid":    batch.ValidCount,
	})
	h.finish(w, out, batchID)
}

// VerifyFile accepts a multipart upload, parses it into addresses, and
// forwards the raw file to the workflow.
func (h *Handlers) VerifyFile(w http.ResponseWriter, r *http.Request) {
	filename, data, err := h.readUpload(w, r)
	if err != nil {
		return
	}

	batch, err := normalize.NormalizeFile(data, filename)
	if err != nil {
		httputil.ErrorCode(w, http.StatusBadRequest, err.Error(), "PARSE_ERROR", nil)
		return
	}
	if _, err := h.policy.AcceptFile(batch); err != nil {
		var rej *normalize.Rejection
		if errors.As(err, &rej) {
			h.writeRejection(w, rej)
			return
		}
		httputil.BadRequest(w, err.Error())
		return
	}

	batchID := verify.NewBatchID()
	h.track(r.Context(), progress.Snapshot{
		ID: batchID, Phase: progress.PhaseSubmitting, Total: batch.ValidCount,
	})

	out, err := h.verifier.VerifyFile(r.Context(), filename, data)
	if err != nil {
		h.track(r.Context(), progress.Snapshot{
			ID: batchID, Phase: progress.PhaseFailed, Total: batch.ValidCount, Message: "verification request failed",
		})
		h.writeVerifyError(w, "file", err)
		return
	}

	h.track(r.Context(), progress.Snapshot{
		ID: batchID, Phase: progress.PhaseCompleted,
		Processed: batch.ValidCount, Total: batch.ValidCount,
	})
	h.log.Info("file verification completed", logger.Fields{
		"batch_id": batchID,
		"filename": filename,
		"valid":    batch.ValidCount,
	})
	h.finish(w, out, batchID)
}

// Preview parses pasted text or an uploaded file without submitting anything,
// returning the normalized counts so the UI can confirm before verifying.
func (h *Handlers) Preview(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		filename, data, err := h.readUpload(w, r)
		if err != nil {
			return
		}
		batch, err := normalize.NormalizeFile(data, filename)
		if err != nil {
			httputil.ErrorCode(w, http.StatusBadRequest, err.Error(), "PARSE_ERROR", nil)
			return
		}
		httputil.OK(w, batch)
		return
	}

	var req bulkRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	httputil.OK(w, normalize.Normalize(req.Text))
}

// GetResults returns the stored records after filtering and sorting.
func (h *Handlers) GetResults(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filtered := results.Apply(h.store.All(), results.FilterState{
		Search:     q.Get("search"),
		Status:     q.Get("status"),
		DomainType: q.Get("domain_type"),
		MXRecord:   q.Get("mx"),
	})
	sorted := results.SortRecords(filtered, results.SortConfig{
		Key:       q.Get("sort"),
		Direction: q.Get("dir"),
	})

	summary, warning := h.store.Summary()
	httputil.OK(w, map[string]any{
		"results": sorted,
		"total":   h.store.Len(),
		"matched": len(sorted),
		"counts":  results.Counts(filtered),
		"summary": summary,
		"warning": warning,
	})
}

// ExportResults streams the current records, after filtering and sorting,
// as a CSV download. Responds 204 when nothing matches.
func (h *Handlers) ExportResults(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filtered := results.Apply(h.store.All(), results.FilterState{
		Search:     q.Get("search"),
		Status:     q.Get("status"),
		DomainType: q.Get("domain_type"),
		MXRecord:   q.Get("mx"),
	})
	sorted := results.SortRecords(filtered, results.SortConfig{
		Key:       q.Get("sort"),
		Direction: q.Get("dir"),
	})

	content := export.ToCSV(sorted)
	if content == nil {
		httputil.NoContent(w)
		return
	}
	httputil.Attachment(w, export.Filename(h.now()), "text/csv; charset=utf-8", content)
}

// GetProgress returns the snapshot for one submission.
func (h *Handlers) GetProgress(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, ok, err := h.tracker.Get(r.Context(), id)
	if err != nil {
		httputil.InternalError(w, "failed to read progress")
		return
	}
	if !ok {
		httputil.NotFound(w, "no progress for this batch")
		return
	}
	httputil.OK(w, snap)
}

const maxUploadMemory = 10 << 20

// readUpload extracts the "file" part of a multipart form and checks the
// policy's extension and size limits. Writes the error response itself.
func (h *Handlers) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		httputil.BadRequest(w, "invalid multipart form")
		return "", nil, err
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.BadRequest(w, "missing file field")
		return "", nil, err
	}
	defer file.Close()

	if err := h.policy.CheckFileMeta(header.Filename, header.Size); err != nil {
		var rej *normalize.Rejection
		if errors.As(err, &rej) {
			h.writeRejection(w, rej)
		} else {
			httputil.BadRequest(w, err.Error())
		}
		return "", nil, err
	}

	data, err := io.ReadAll(file)
	if err != nil {
		httputil.InternalError(w, "failed to read uploaded file")
		return "", nil, err
	}
	return header.Filename, data, nil
}

func (h *Handlers) finish(w http.ResponseWriter, out *verify.Outcome, batchID string) {
	h.store.Load(out)
	httputil.OK(w, verifyResponse{
		Summary: out.Summary,
		Results: h.store.All(),
		Warning: out.Warning,
		BatchID: batchID,
	})
}

func (h *Handlers) writeRejection(w http.ResponseWriter, rej *normalize.Rejection) {
	details := map[string]int{}
	if rej.Count > 0 {
		details["count"] = rej.Count
	}
	if rej.Limit > 0 {
		details["limit"] = rej.Limit
	}
	var d any
	if len(details) > 0 {
		d = details
	}
	httputil.ErrorCode(w, http.StatusBadRequest, rej.Error(), string(rej.Reason), d)
}

func (h *Handlers) writeVerifyError(w http.ResponseWriter, op string, err error) {
	h.log.Error("verification request failed", logger.Fields{"op": op, "error": err.Error()})
	var verr *verify.VerificationError
	if errors.As(err, &verr) {
		httputil.BadGateway(w, "verification service is unavailable, please try again")
		return
	}
	httputil.InternalError(w, "verification failed")
}

func (h *Handlers) track(ctx context.Context, snap progress.Snapshot) {
	if err := h.tracker.Set(ctx, progress.Stamp(snap)); err != nil {
		h.log.Warn("failed to record progress", logger.Fields{"batch_id": snap.ID, "error": err.Error()})
	}
}
