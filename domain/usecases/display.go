package usecases

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

var uploadDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// ParseUploadDate parses the server's ISO upload timestamp
func ParseUploadDate(value string) (time.Time, error) {
	for _, layout := range uploadDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized upload date %q", value)
}

// UploadAge renders how long ago an image was uploaded relative to now,
// e.g. "3 hours ago". Unparseable dates render as "".
func UploadAge(uploadDate string, now time.Time) string {
	t, err := ParseUploadDate(uploadDate)
	if err != nil {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// DeleteConfirmation is the question asked before deleting a record
func DeleteConfirmation(kind, name string) string {
	return fmt.Sprintf("Are you sure you want to delete %s %s", name, kind)
}
