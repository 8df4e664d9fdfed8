package normalize

import (
	"fmt"
	"path/filepath"
	"strings"
)

// RejectReason is a stable machine-readable code for a rejected submission.
type RejectReason string

const (
	ReasonEmptyInput          RejectReason = "EMPTY_INPUT"
	ReasonNoValidAddresses    RejectReason = "NO_VALID_ADDRESSES"
	ReasonBatchTooLarge       RejectReason = "BATCH_TOO_LARGE"
	ReasonUnsupportedFileType RejectReason = "UNSUPPORTED_FILE_TYPE"
	ReasonFileTooLarge        RejectReason = "FILE_TOO_LARGE"
)

// Rejection explains why a batch was not accepted. It carries the offending
// count and the applicable limit so callers can render an actionable message.
// Rejections are always recoverable: the caller keeps the input for correction.
type Rejection struct {
	Reason RejectReason `json:"reason"`
	Count  int          `json:"count,omitempty"`
	Limit  int          `json:"limit,omitempty"`
}

func (r *Rejection) Error() string {
	switch r.Reason {
	case ReasonEmptyInput:
		return "no input provided: paste or upload email addresses to verify"
	case ReasonNoValidAddresses:
		return "no valid email addresses found in the input"
	case ReasonBatchTooLarge:
		return fmt.Sprintf("batch has %d addresses, maximum %d allowed per submission", r.Count, r.Limit)
	case ReasonUnsupportedFileType:
		return "unsupported file type: only .csv and .txt files are accepted"
	case ReasonFileTooLarge:
		return fmt.Sprintf("file size %d bytes exceeds the %d byte limit", r.Count, r.Limit)
	}
	return string(r.Reason)
}

// Policy enforces batch acceptance limits. The maximum batch size is a single
// configured constant shared by the paste and file paths.
type Policy struct {
	MaxAddresses      int
	MaxFileBytes      int64
	AllowedExtensions []string
}

// NewPolicy builds a Policy from configured limits. Zero values fall back to
// the documented defaults (10,000 addresses, 10 MiB, csv/txt).
func NewPolicy(maxAddresses int, maxFileBytes int64, extensions []string) *Policy {
	p := &Policy{
		MaxAddresses:      maxAddresses,
		MaxFileBytes:      maxFileBytes,
		AllowedExtensions: extensions,
	}
	if p.MaxAddresses <= 0 {
		p.MaxAddresses = 10000
	}
	if p.MaxFileBytes <= 0 {
		p.MaxFileBytes = 10 * 1024 * 1024
	}
	if len(p.AllowedExtensions) == 0 {
		p.AllowedExtensions = []string{"csv", "txt"}
	}
	// Accept config entries written with or without a leading dot.
	for i, e := range p.AllowedExtensions {
		p.AllowedExtensions[i] = strings.TrimPrefix(strings.ToLower(e), ".")
	}
	return p
}

// AcceptPaste applies the paste-path acceptance rules: the raw input must be
// non-blank, the batch must contain at least one valid address, and the
// unique token count must not exceed the configured maximum.
func (p *Policy) AcceptPaste(raw string, b Batch) (Batch, error) {
	if strings.TrimSpace(raw) == "" {
		return Batch{}, &Rejection{Reason: ReasonEmptyInput}
	}
	if b.ValidCount == 0 {
		return Batch{}, &Rejection{Reason: ReasonNoValidAddresses, Count: b.TotalFound}
	}
	if b.UniqueCount > p.MaxAddresses {
		return Batch{}, &Rejection{Reason: ReasonBatchTooLarge, Count: b.UniqueCount, Limit: p.MaxAddresses}
	}
	return b, nil
}

// CheckFileMeta applies the pre-normalization file rejections: extension and
// byte-size limits. Extension matching is case-insensitive.
func (p *Policy) CheckFileMeta(filename string, size int64) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	allowed := false
	for _, e := range p.AllowedExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return &Rejection{Reason: ReasonUnsupportedFileType}
	}
	if size > p.MaxFileBytes {
		return &Rejection{Reason: ReasonFileTooLarge, Count: int(size), Limit: int(p.MaxFileBytes)}
	}
	return nil
}

// AcceptFile applies the file-path acceptance rules on a normalized batch.
// Unlike the paste path, the size limit is checked against the valid count:
// file rows are filtered before counting, so the valid addresses are the
// submission payload.
func (p *Policy) AcceptFile(b Batch) (Batch, error) {
	if b.ValidCount == 0 {
		return Batch{}, &Rejection{Reason: ReasonNoValidAddresses, Count: b.TotalFound}
	}
	if b.ValidCount > p.MaxAddresses {
		return Batch{}, &Rejection{Reason: ReasonBatchTooLarge, Count: b.ValidCount, Limit: p.MaxAddresses}
	}
	return b, nil
}
