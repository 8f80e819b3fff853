package entity

import "strings"

// Country is an ISO 3166-1 country record
type Country struct {
	Alpha2  string
	Alpha3  string
	Numeric string
	Name    string
	Aliases []string
}

// Flag returns the emoji flag built from the regional indicator symbols of the alpha-2 code
func (c Country) Flag() string {
	code := strings.ToUpper(c.Alpha2)
	if len(code) != 2 {
		return ""
	}
	var b strings.Builder
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return ""
		}
		b.WriteRune(0x1F1E6 + (r - 'A'))
	}
	return b.String()
}
