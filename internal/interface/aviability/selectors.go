package aviability

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"flightsync-service/internal/domain/entity"

	"gopkg.in/yaml.v3"
)

//go:embed selectors.yaml
var defaultSelectorsYAML []byte

// FieldKind is what a labelled block contributes to a RawFieldSet
type FieldKind string

const (
	KindCountry  FieldKind = "country"
	KindAirport  FieldKind = "airport"
	KindTerminal FieldKind = "terminal"
	KindDateTime FieldKind = "datetime"
	KindDate     FieldKind = "date"
	KindTime     FieldKind = "time"
	KindDuration FieldKind = "duration"
	KindAircraft FieldKind = "aircraft"
)

func (k FieldKind) valid() bool {
	switch k {
	case KindCountry, KindAirport, KindTerminal, KindDateTime, KindDate, KindTime, KindDuration, KindAircraft:
		return true
	}
	return false
}

// SelectorFile is the YAML layout of a selector table
type SelectorFile struct {
	NoFlights struct {
		Selector  string `yaml:"selector"`
		Text      string `yaml:"text"`
		Container string `yaml:"container"`
	} `yaml:"no_flights"`
	Heading struct {
		Selector string `yaml:"selector"`
		Pattern  string `yaml:"pattern"`
	} `yaml:"heading"`
	Description struct {
		Selector  string `yaml:"selector"`
		Attribute string `yaml:"attribute"`
		Pattern   string `yaml:"pattern"`
	} `yaml:"description"`
	Blocks struct {
		Block  string            `yaml:"block"`
		Label  string            `yaml:"label"`
		Value  string            `yaml:"value"`
		Labels map[string]string `yaml:"labels"`
	} `yaml:"blocks"`
	Fields map[string]FieldSelector `yaml:"fields"`
}

// FieldSelector picks one raw field by position among the elements matching Selector.
// Index counts from the end when negative. With MinCount set the field is only read
// when at least that many elements match. Prefix keeps only elements starting with it
// and strips it; NotPrefix drops elements starting with it.
type FieldSelector struct {
	Selector  string `yaml:"selector"`
	Index     int    `yaml:"index"`
	MinCount  int    `yaml:"min_count"`
	Prefix    string `yaml:"prefix"`
	NotPrefix string `yaml:"not_prefix"`
}

// rawFields are the names accepted under "fields"
var rawFields = map[string]func(*entity.RawFieldSet) *string{
	"flight_number":      func(r *entity.RawFieldSet) *string { return &r.FlightNumber },
	"airline":            func(r *entity.RawFieldSet) *string { return &r.Airline },
	"departure_airport":  func(r *entity.RawFieldSet) *string { return &r.DepartureAirport },
	"arrival_airport":    func(r *entity.RawFieldSet) *string { return &r.ArrivalAirport },
	"departure_time":     func(r *entity.RawFieldSet) *string { return &r.DepartureTime },
	"arrival_time":       func(r *entity.RawFieldSet) *string { return &r.ArrivalTime },
	"departure_country":  func(r *entity.RawFieldSet) *string { return &r.DepartureCountry },
	"arrival_country":    func(r *entity.RawFieldSet) *string { return &r.ArrivalCountry },
	"departure_date":     func(r *entity.RawFieldSet) *string { return &r.DepartureDate },
	"arrival_date":       func(r *entity.RawFieldSet) *string { return &r.ArrivalDate },
	"departure_terminal": func(r *entity.RawFieldSet) *string { return &r.DepartureTerminal },
	"arrival_terminal":   func(r *entity.RawFieldSet) *string { return &r.ArrivalTerminal },
	"duration":           func(r *entity.RawFieldSet) *string { return &r.Duration },
	"aircraft":           func(r *entity.RawFieldSet) *string { return &r.Aircraft },
}

// SelectorTable is a validated selector file with compiled patterns
type SelectorTable struct {
	NoFlightsSelector  string
	NoFlightsText      string
	NoFlightsContainer string

	HeadingSelector string
	HeadingPattern  *regexp.Regexp

	DescriptionSelector  string
	DescriptionAttribute string
	AircraftPattern      *regexp.Regexp

	BlockSelector string
	LabelSelector string
	ValueSelector string
	Labels        map[string]FieldKind

	Fields map[string]FieldSelector
}

// DefaultSelectors returns the embedded selector table
func DefaultSelectors() (*SelectorTable, error) {
	return ParseSelectors(defaultSelectorsYAML)
}

// LoadSelectors reads a selector table from path, or the embedded one when path is empty
func LoadSelectors(path string) (*SelectorTable, error) {
	if path == "" {
		return DefaultSelectors()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read selectors: %w", err)
	}
	return ParseSelectors(data)
}

// ParseSelectors decodes and validates a YAML selector table
func ParseSelectors(data []byte) (*SelectorTable, error) {
	var file SelectorFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode selectors: %w", err)
	}

	for name, field := range file.Fields {
		if _, ok := rawFields[name]; !ok {
			return nil, fmt.Errorf("selectors: unknown field %q", name)
		}
		if field.Selector == "" {
			return nil, fmt.Errorf("selectors: field %q needs a selector", name)
		}
	}
	_, positionalNumber := file.Fields["flight_number"]

	table := &SelectorTable{
		NoFlightsSelector:    file.NoFlights.Selector,
		NoFlightsText:        strings.ToLower(strings.TrimSpace(file.NoFlights.Text)),
		NoFlightsContainer:   file.NoFlights.Container,
		HeadingSelector:      file.Heading.Selector,
		DescriptionSelector:  file.Description.Selector,
		DescriptionAttribute: file.Description.Attribute,
		BlockSelector:        file.Blocks.Block,
		LabelSelector:        file.Blocks.Label,
		ValueSelector:        file.Blocks.Value,
		Labels:               make(map[string]FieldKind, len(file.Blocks.Labels)),
		Fields:               file.Fields,
	}
	if table.NoFlightsText != "" && table.NoFlightsContainer == "" {
		table.NoFlightsContainer = table.NoFlightsSelector
	}
	if table.NoFlightsText != "" && table.NoFlightsContainer == "" {
		return nil, fmt.Errorf("selectors: no_flights text needs a selector or container")
	}

	switch {
	case file.Heading.Selector != "" && file.Heading.Pattern != "":
		heading, err := regexp.Compile(file.Heading.Pattern)
		if err != nil {
			return nil, fmt.Errorf("selectors: heading pattern: %w", err)
		}
		if heading.SubexpIndex("flight_number") < 0 {
			return nil, fmt.Errorf("selectors: heading pattern needs a flight_number group")
		}
		table.HeadingPattern = heading
	case !positionalNumber:
		return nil, fmt.Errorf("selectors: heading selector and pattern, or a flight_number field, are required")
	}

	var err error
	if file.Description.Pattern != "" {
		table.AircraftPattern, err = regexp.Compile(file.Description.Pattern)
		if err != nil {
			return nil, fmt.Errorf("selectors: description pattern: %w", err)
		}
		if table.AircraftPattern.SubexpIndex("aircraft") < 0 {
			return nil, fmt.Errorf("selectors: description pattern needs an aircraft group")
		}
	}

	blocks := table.BlockSelector != "" || table.LabelSelector != "" || table.ValueSelector != ""
	if blocks && (table.BlockSelector == "" || table.LabelSelector == "" || table.ValueSelector == "") {
		return nil, fmt.Errorf("selectors: block, label and value selectors are required together")
	}
	if !blocks && len(table.Fields) == 0 {
		return nil, fmt.Errorf("selectors: blocks or fields are required")
	}
	for label, kind := range file.Blocks.Labels {
		k := FieldKind(kind)
		if !k.valid() {
			return nil, fmt.Errorf("selectors: label %q has unknown kind %q", label, kind)
		}
		table.Labels[normalizeLabel(label)] = k
	}

	return table, nil
}

// normalizeLabel lower-cases, drops a trailing colon and collapses whitespace
func normalizeLabel(label string) string {
	label = strings.ToLower(strings.Join(strings.Fields(label), " "))
	return strings.TrimSpace(strings.TrimSuffix(label, ":"))
}
