// Package normalize turns raw pasted text or uploaded file content into a
// deduplicated, format-validated batch of email addresses, and enforces the
// acceptance policy for submitting that batch to the verification workflow.
package normalize

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// delimiters matches any run of the separators accepted in pasted input:
// newlines, commas, semicolons, pipes, and whitespace.
var delimiters = regexp.MustCompile(`[\n,;|\s]+`)

// emailPattern is the format contract for a verifiable address:
// non-whitespace local part, "@", non-whitespace domain with at least one dot.
// Deliverability is the remote workflow's job, not ours.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ErrParse indicates uploaded file content could not be decoded as text.
var ErrParse = errors.New("file content is not valid text")

// Batch is the normalized form of one submission's raw input.
// Addresses holds only unique, format-valid addresses in first-seen order,
// so ValidCount <= UniqueCount <= TotalFound always holds.
type Batch struct {
	TotalFound  int      `json:"totalFound"`
	UniqueCount int      `json:"uniqueCount"`
	ValidCount  int      `json:"validCount"`
	Addresses   []string `json:"addresses"`
}

// Normalize tokenizes pasted text into a Batch. It never fails: empty or
// garbage input yields a zero Batch. Tokens are trimmed and lower-cased
// before deduplication, so "A@B.com" and "a@b.com " are one address.
func Normalize(raw string) Batch {
	var tokens []string
	for _, tok := range delimiters.Split(raw, -1) {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return buildBatch(tokens)
}

// NormalizeFile tokenizes uploaded file content into a Batch. CSV content is
// split per line on commas with surrounding quotes stripped from each cell;
// plain text uses the generic delimiter split. In both cases only tokens
// containing "@" are kept, since file rows routinely carry non-address
// columns (names, ids) that would otherwise inflate the counts.
// Returns ErrParse when the content is not decodable text.
func NormalizeFile(data []byte, filename string) (Batch, error) {
	if !utf8.Valid(data) {
		return Batch{}, ErrParse
	}

	var tokens []string
	if strings.HasSuffix(strings.ToLower(filename), ".csv") {
		for _, line := range strings.Split(string(data), "\n") {
			for _, cell := range strings.Split(line, ",") {
				tok := strings.Trim(strings.TrimSpace(cell), `"'`)
				tok = strings.ToLower(strings.TrimSpace(tok))
				if tok != "" && strings.Contains(tok, "@") {
					tokens = append(tokens, tok)
				}
			}
		}
	} else {
		for _, tok := range delimiters.Split(string(data), -1) {
			tok = strings.ToLower(strings.TrimSpace(tok))
			if tok != "" && strings.Contains(tok, "@") {
				tokens = append(tokens, tok)
			}
		}
	}
	return buildBatch(tokens), nil
}

// IsValidAddress reports whether a single canonicalized token satisfies the
// address format contract.
func IsValidAddress(addr string) bool {
	return emailPattern.MatchString(addr)
}

// Canonical trims and lower-cases a single address for comparison or
// submission outside the batch path (e.g. the single-address form).
func Canonical(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

func buildBatch(tokens []string) Batch {
	b := Batch{TotalFound: len(tokens)}

	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		b.UniqueCount++
		if IsValidAddress(tok) {
			b.Addresses = append(b.Addresses, tok)
		}
	}
	b.ValidCount = len(b.Addresses)
	return b
}
