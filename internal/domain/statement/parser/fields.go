package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	numberRun   = regexp.MustCompile(`\d+`)
	maskedChars = strings.NewReplacer("*", "", "-", "", " ", "", "　", "")
)

// ExtractNumbers returns the ordered numeric substrings of s. Delimiters and
// non-numeric noise are ignored; callers get an empty slice, never an error,
// and apply their own defaults when nothing matches.
func ExtractNumbers(s string) []string {
	return numberRun.FindAllString(s, -1)
}

// FormatDate renders a year/month/day numeric triple as a zero-padded
// YYYY/MM/DD string. Returns "" unless exactly three parts are numeric.
func FormatDate(parts []string) string {
	if len(parts) != 3 {
		return ""
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return ""
		}
		nums[i] = n
	}
	return fmt.Sprintf("%04d/%02d/%02d", nums[0], nums[1], nums[2])
}

// NormalizeDate converts a statement date to Gregorian YYYY/MM/DD. Minguo
// years (ROC calendar, under 200) gain 1911; Gregorian input is re-padded.
// Mixed `/`, `-` and `.` delimiters are tolerated. Input that does not carry
// three numeric components is returned unchanged.
func NormalizeDate(s string) string {
	parts := ExtractNumbers(s)
	if len(parts) < 3 {
		return s
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return s
	}
	if year < 200 {
		year += 1911
	}
	return FormatDate([]string{strconv.Itoa(year), parts[1], parts[2]})
}

// NormalizeTime renders a statement time as HH:MM:SS, padding a missing
// seconds component. Input with no usable components yields DefaultTime.
func NormalizeTime(s string) string {
	parts := ExtractNumbers(s)
	if len(parts) < 2 {
		return DefaultTime
	}
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	nums := make([]int, 3)
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return DefaultTime
		}
		nums[i] = n
	}
	return fmt.Sprintf("%02d:%02d:%02d", nums[0], nums[1], nums[2])
}

// NormalizeFragment reduces a raw account capture to the fixed-length suffix
// used for lookups: masking characters stripped, last five digits kept.
func NormalizeFragment(s string) string {
	cleaned := maskedChars.Replace(strings.TrimSpace(s))
	if len(cleaned) > 5 {
		cleaned = cleaned[len(cleaned)-5:]
	}
	return cleaned
}

// lastDigits returns the trailing n digits of s, or "" when s has fewer.
func lastDigits(s string, n int) string {
	digits := strings.Join(ExtractNumbers(s), "")
	if len(digits) < n {
		return ""
	}
	return digits[len(digits)-n:]
}
