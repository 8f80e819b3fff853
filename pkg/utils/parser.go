package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ExtractAirportCode returns CODE from "Name (CODE)", or the trimmed input when there
// are no parentheses
func ExtractAirportCode(location string) string {
	location = strings.TrimSpace(location)
	open := strings.LastIndex(location, "(")
	if open == -1 {
		return strings.ToUpper(location)
	}
	code := location[open+1:]
	if end := strings.Index(code, ")"); end != -1 {
		code = code[:end]
	}
	return strings.ToUpper(strings.TrimSpace(code))
}

// ExtractCountryName returns the part after the last comma of "City, Country"
func ExtractCountryName(location string) string {
	if i := strings.LastIndex(location, ","); i != -1 {
		location = location[i+1:]
	}
	return strings.TrimSpace(location)
}

// SplitDateTime splits "Jul 19, 07:55" on the first comma-space. Without a comma the
// whole string is the date.
func SplitDateTime(value string) (string, string) {
	value = strings.TrimSpace(value)
	date, clock, found := strings.Cut(value, ", ")
	if !found {
		return value, ""
	}
	return strings.TrimSpace(date), strings.TrimSpace(clock)
}

// NormalizeTerminal maps blank to nil and a bare number or letter to "Terminal X"
func NormalizeTerminal(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if isDigits(value) || (len([]rune(value)) == 1 && unicode.IsLetter([]rune(value)[0])) {
		value = "Terminal " + value
	}
	return &value
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

// maxDurationHours bounds scraped durations well below time.Duration overflow
const maxDurationHours = 1000

var durationRegex = regexp.MustCompile(`(?i)^(?:(\d+)\s*h(?:ours?|rs?)?)?\s*(?:(\d+)\s*m(?:in(?:utes?)?)?)?$`)

// ParseDuration parses "{H}h {M}m" where either part may be missing. Empty input is zero.
func ParseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	match := durationRegex.FindStringSubmatch(value)
	if match == nil {
		return 0, fmt.Errorf("unrecognised duration %q", value)
	}

	var hours, minutes int
	var err error
	if match[1] != "" {
		if hours, err = strconv.Atoi(match[1]); err != nil {
			return 0, fmt.Errorf("invalid hours in duration %q: %w", value, err)
		}
	}
	if match[2] != "" {
		if minutes, err = strconv.Atoi(match[2]); err != nil {
			return 0, fmt.Errorf("invalid minutes in duration %q: %w", value, err)
		}
	}
	if hours > maxDurationHours || minutes > maxDurationHours*60 {
		return 0, fmt.Errorf("duration %q out of range", value)
	}
	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute, nil
}

// ParseMonthDay parses a year-less scraped date, trying each of DateLayouts
func ParseMonthDay(value string) (time.Month, int, error) {
	value = strings.Join(strings.Fields(value), " ")
	for _, layout := range DateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.Month(), t.Day(), nil
		}
	}
	return 0, 0, fmt.Errorf("unrecognised date %q", value)
}

// ParseClock parses a 24-hour "15:04" time
func ParseClock(value string) (int, int, error) {
	t, err := time.Parse(TIME_LAYOUT, strings.TrimSpace(value))
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}

// NormalizeDesignator lowercases a flight designator and drops everything that is not
// a letter or digit, "LH 2206" -> "lh2206"
func NormalizeDesignator(value string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(value) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var designatorRegex = regexp.MustCompile(`^([A-Z0-9]{2})\s*-?\s*(\d{1,4}[A-Z]?)$`)

// SplitDesignator returns the airline code and number of "LH2206" / "LH 2206"
func SplitDesignator(value string) (string, string, error) {
	value = strings.ToUpper(strings.TrimSpace(value))
	match := designatorRegex.FindStringSubmatch(value)
	if match == nil {
		return "", "", fmt.Errorf("invalid flight designator %q", value)
	}
	return match[1], match[2], nil
}

// ParseSheetDate parses the Date column of a sheet row as a calendar day in loc
func ParseSheetDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range SheetDateLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised sheet date %q", value)
}
