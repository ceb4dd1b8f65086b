package dashboard

import (
	"strings"
	"time"

	"github.com/grahmind/careers-waitlist/internal/models"
)

const csvHeader = "Email,Timestamp,Source"

// renderCSV joins fields with commas and rows with "\n", without quoting and
// without a trailing newline, matching the files admins already import.
func renderCSV(records []models.WaitlistRecord) []byte {
	rows := make([]string, 0, len(records)+1)
	rows = append(rows, csvHeader)
	for _, record := range records {
		rows = append(rows, strings.Join([]string{record.Email, record.Timestamp, record.Source}, ","))
	}
	return []byte(strings.Join(rows, "\n"))
}

// ExportFileName names the download after the UTC calendar date.
func ExportFileName(at time.Time) string {
	return "waitlist-emails-" + at.UTC().Format("2006-01-02") + ".csv"
}
