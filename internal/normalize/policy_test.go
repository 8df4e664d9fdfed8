package normalize

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pasteInput builds raw text containing n distinct valid addresses.
func pasteInput(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "user%d@example.com\n", i)
	}
	return sb.String()
}

func rejectionReason(t *testing.T, err error) RejectReason {
	t.Helper()
	rej, ok := err.(*Rejection)
	require.True(t, ok, "expected *Rejection, got %T: %v", err, err)
	return rej.Reason
}

func TestAcceptPasteEmptyInput(t *testing.T) {
	p := NewPolicy(100, 0, nil)

	_, err := p.AcceptPaste("   \n  ", Normalize("   \n  "))
	assert.Equal(t, ReasonEmptyInput, rejectionReason(t, err))
}

func TestAcceptPasteNoValidAddresses(t *testing.T) {
	p := NewPolicy(100, 0, nil)
	raw := "these are, just; words"

	_, err := p.AcceptPaste(raw, Normalize(raw))
	assert.Equal(t, ReasonNoValidAddresses, rejectionReason(t, err))
}

// The batch limit boundary must track the configured maximum, whatever it is:
// exactly p.MaxAddresses unique addresses are accepted, one more is rejected.
func TestAcceptPasteBatchLimitBoundary(t *testing.T) {
	p := NewPolicy(25, 0, nil)

	atLimit := pasteInput(p.MaxAddresses)
	b, err := p.AcceptPaste(atLimit, Normalize(atLimit))
	require.NoError(t, err)
	assert.Equal(t, p.MaxAddresses, b.UniqueCount)

	overLimit := pasteInput(p.MaxAddresses + 1)
	_, err = p.AcceptPaste(overLimit, Normalize(overLimit))
	rej, ok := err.(*Rejection)
	require.True(t, ok)
	assert.Equal(t, ReasonBatchTooLarge, rej.Reason)
	assert.Equal(t, p.MaxAddresses+1, rej.Count)
	assert.Equal(t, p.MaxAddresses, rej.Limit)
}

func TestAcceptPasteReturnsBatchUnchanged(t *testing.T) {
	p := NewPolicy(100, 0, nil)
	raw := "b@x.com, a@y.com, b@x.com"
	in := Normalize(raw)

	out, err := p.AcceptPaste(raw, in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestCheckFileMeta(t *testing.T) {
	p := NewPolicy(100, 1024, nil)

	assert.NoError(t, p.CheckFileMeta("list.csv", 1024))
	assert.NoError(t, p.CheckFileMeta("LIST.TXT", 10))

	err := p.CheckFileMeta("list.xlsx", 10)
	assert.Equal(t, ReasonUnsupportedFileType, rejectionReason(t, err))

	err = p.CheckFileMeta("noextension", 10)
	assert.Equal(t, ReasonUnsupportedFileType, rejectionReason(t, err))

	err = p.CheckFileMeta("list.csv", 1025)
	assert.Equal(t, ReasonFileTooLarge, rejectionReason(t, err))
}

func TestAcceptFileCountsValidAddresses(t *testing.T) {
	p := NewPolicy(2, 0, nil)

	// Invalid tokens do not count toward the file-path limit.
	b, err := NormalizeFile([]byte("a@x.com\nb@y.com\n@not-valid@\n"), "list.txt")
	require.NoError(t, err)
	accepted, err := p.AcceptFile(b)
	require.NoError(t, err)
	assert.Equal(t, 2, accepted.ValidCount)

	b, err = NormalizeFile([]byte("a@x.com\nb@y.com\nc@z.com\n"), "list.txt")
	require.NoError(t, err)
	_, err = p.AcceptFile(b)
	assert.Equal(t, ReasonBatchTooLarge, rejectionReason(t, err))
}

func TestAcceptFileNoValidAddresses(t *testing.T) {
	p := NewPolicy(100, 0, nil)

	b, err := NormalizeFile([]byte("header,other\nfoo,bar\n"), "list.csv")
	require.NoError(t, err)
	_, err = p.AcceptFile(b)
	assert.Equal(t, ReasonNoValidAddresses, rejectionReason(t, err))
}

func TestRejectionMessages(t *testing.T) {
	// Reason codes must render user-displayable messages with the counts.
	rej := &Rejection{Reason: ReasonBatchTooLarge, Count: 10001, Limit: 10000}
	assert.Contains(t, rej.Error(), "10001")
	assert.Contains(t, rej.Error(), "10000")

	for _, reason := range []RejectReason{
		ReasonEmptyInput, ReasonNoValidAddresses, ReasonUnsupportedFileType,
	} {
		assert.NotEmpty(t, (&Rejection{Reason: reason}).Error())
	}
}
