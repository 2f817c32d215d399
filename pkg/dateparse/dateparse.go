package dateparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Parser normalizes loosely formatted date strings from bulk uploads.
// Partial dates (month/day without a year) are resolved against
// ReferenceYear so a batch replayed later still parses the same way.
type Parser struct {
	ReferenceYear int
}

// New returns a parser anchored to the given reference year.
func New(referenceYear int) *Parser {
	if referenceYear <= 0 {
		referenceYear = time.Now().Year()
	}
	return &Parser{ReferenceYear: referenceYear}
}

var (
	koreanMonthDayRe = regexp.MustCompile(`^(\d{1,2})월\s*(\d{1,2})일$`)
	koreanFullRe     = regexp.MustCompile(`(\d{2,4})년\s*(\d{1,2})월\s*(\d{1,2})일`)
	shortNumericRe   = regexp.MustCompile(`^(\d{1,2})[\-\/\.](\d{1,2})$`)
	bareDigitsRe     = regexp.MustCompile(`^\d{3,4}$`)
	delimiterRe      = regexp.MustCompile(`[\/\-\.\s]+`)
)

var fallbackLayouts = []string{
	"2006-01-02",
	"2006.01.02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"Jan 2, 2006",
	"January 2, 2006",
}

// Parse attempts the recognized date shapes in order of specificity and
// returns the first valid calendar date. The second return value is
// false when no shape matched; that is a normal outcome, not an error.
func (p *Parser) Parse(raw string) (time.Time, bool) {
	str := strings.TrimSpace(raw)
	if str == "" || str == "-" || str == "Invalid Date" {
		return time.Time{}, false
	}

	// "12월 26일": month and day only, year comes from the reference year.
	if m := koreanMonthDayRe.FindStringSubmatch(str); m != nil {
		return makeDate(p.ReferenceYear, atoi(m[1]), atoi(m[2]))
	}

	// "26년 2월 6일", "2026년 2월 6일": two-digit years are 2000-based.
	if m := koreanFullRe.FindStringSubmatch(str); m != nil {
		return makeDate(normalizeYear(atoi(m[1])), atoi(m[2]), atoi(m[3]))
	}

	// "12-26", "1/5": month and day separated by a single delimiter.
	if m := shortNumericRe.FindStringSubmatch(str); m != nil {
		return makeDate(p.ReferenceYear, atoi(m[1]), atoi(m[2]))
	}

	// "2026.12.26", "26-12-26", "2026/12/26", "2026 12 26".
	parts := splitParts(str)
	if len(parts) >= 3 {
		if d, ok := makeDate(normalizeYear(atoi(parts[0])), atoi(parts[1]), atoi(parts[2])); ok {
			return d, true
		}
	}

	// "1226": bare MMDD numeral.
	if bareDigitsRe.MatchString(str) {
		padded := str
		if len(padded) == 3 {
			padded = "0" + padded
		}
		month := atoi(padded[:2])
		day := atoi(padded[2:])
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return makeDate(p.ReferenceYear, month, day)
		}
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, str); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}

	return time.Time{}, false
}

// makeDate validates the component bounds by round-tripping through
// time.Date: an impossible combination such as February 31 rolls over
// and is rejected rather than silently normalized.
func makeDate(year, month, day int) (time.Time, bool) {
	if year < 1 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func normalizeYear(year int) int {
	if year < 100 {
		return year + 2000
	}
	return year
}

func splitParts(str string) []string {
	fields := delimiterRe.Split(str, -1)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			parts = append(parts, f)
		}
	}
	return parts
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
