package usecases

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/ZanzyTHEbar/gallery-go/domain/models"
)

// AllCategories is the selector value that disables category filtering
const AllCategories = "all"

// FilterImages returns the images visible for a category selector and a
// name search term. The selector is AllCategories or a category ID in
// decimal or 0x-prefixed hexadecimal form; a selector without a leading
// integer matches nothing.
// The search term matches case-insensitively anywhere in the name and an
// empty term matches every image. Input order is preserved.
func FilterImages(images []models.Image, selector string, search string) []models.Image {
	matchesCategory := CategorySelector(selector)
	needle := strings.ToLower(search)

	out := make([]models.Image, 0, len(images))
	for _, img := range images {
		if !matchesCategory(img.CategoryID) {
			continue
		}
		if !strings.Contains(strings.ToLower(img.Name), needle) {
			continue
		}
		out = append(out, img)
	}
	return out
}

// CategorySelector compiles a selector into a predicate over category IDs
func CategorySelector(selector string) func(categoryID int64) bool {
	if selector == AllCategories {
		return func(int64) bool { return true }
	}

	id, ok := parseLeadingInt(selector)
	if !ok {
		return func(int64) bool { return false }
	}
	return func(categoryID int64) bool { return categoryID == id }
}

// parseLeadingInt reads an optionally signed integer prefix after leading
// whitespace, ignoring anything that follows it ("12px" is 12). A "0x" or
// "0X" prefix switches to hexadecimal ("0x2" is 2, "0x" alone is no number).
func parseLeadingInt(s string) (int64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	base, isDigit := 10, isDecimal
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base, isDigit = 16, isHex
		s = s[2:]
	}

	end := 0
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	if end == 0 {
		return 0, false
	}

	n, err := strconv.ParseInt(s[:end], base, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

func isDecimal(c byte) bool { return c >= '0' && c <= '9' }

func isHex(c byte) bool {
	return isDecimal(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// CategoryName resolves the display name of a category. Unknown IDs resolve to "".
func CategoryName(categories []models.Category, id int64) string {
	for _, c := range categories {
		if c.ID == id {
			return c.Name
		}
	}
	return ""
}
