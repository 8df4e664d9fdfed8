// Package export renders verification records as CSV downloads.
package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jeditech/verify-hub/internal/verify"
)

// header lists the record field names, which double as the column names so a
// consumer can reconstruct records from the export.
var header = []string{"email", "status", "domain", "domainType", "hasMXRecord", "verifiedAt"}

// ToCSV serializes records to CSV. The header row is the unquoted field
// names; every data value is double-quoted with inner quotes doubled, rows
// are joined with "\n", and there is no trailing newline. An empty record
// set yields nil so callers can skip the download.
func ToCSV(records []verify.Result) []byte {
	if len(records) == 0 {
		return nil
	}

	rows := make([]string, 0, len(records)+1)
	rows = append(rows, strings.Join(header, ","))
	for _, r := range records {
		rows = append(rows, row([]string{
			r.Email,
			r.Status,
			r.Domain,
			r.DomainType,
			strconv.FormatBool(r.HasMXRecord),
			r.VerifiedAt,
		}))
	}
	return []byte(strings.Join(rows, "\n"))
}

func row(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

// Filename returns the download name for an export generated at the given
// time, dated by its UTC day.
func Filename(now time.Time) string {
	return fmt.Sprintf("email-verification-results-%s.csv", now.UTC().Format("2006-01-02"))
}
