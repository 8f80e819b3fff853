package aviability

import (
	"fmt"
	"strings"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/pkg/utils"

	"github.com/PuerkitoBio/goquery"
)

// Parser turns a flight detail page into raw field strings
type Parser struct {
	table *SelectorTable
}

// NewParser creates a parser driven by the given selector table
func NewParser(table *SelectorTable) *Parser {
	return &Parser{table: table}
}

// Parse extracts the raw fields of a detail page. A page announcing that no flight
// operates on the date, or one without a recognizable flight number, yields an empty
// set. Missing blocks leave their fields empty.
func (p *Parser) Parse(html string) (entity.RawFieldSet, error) {
	var raw entity.RawFieldSet

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return raw, fmt.Errorf("parse flight page: %w", err)
	}

	if p.noFlights(doc) {
		return raw, nil
	}

	if p.table.HeadingPattern != nil {
		heading := cleanText(doc.Find(p.table.HeadingSelector).First().Text())
		if m := p.table.HeadingPattern.FindStringSubmatch(heading); heading != "" && m != nil {
			raw.FlightNumber = group(p.table.HeadingPattern.SubexpNames(), m, "flight_number")
			raw.Airline = group(p.table.HeadingPattern.SubexpNames(), m, "airline")
		}
	}

	raw.Aircraft = p.aircraftFromDescription(doc)

	if p.table.BlockSelector != "" {
		doc.Find(p.table.BlockSelector).Each(func(_ int, block *goquery.Selection) {
			label := normalizeLabel(block.Find(p.table.LabelSelector).First().Text())
			kind, ok := p.table.Labels[label]
			if !ok {
				return
			}
			var values []string
			block.Find(p.table.ValueSelector).Each(func(_ int, v *goquery.Selection) {
				values = append(values, cleanText(v.Text()))
			})
			assign(&raw, kind, values)
		})
	}

	for name, field := range p.table.Fields {
		if value := positional(doc, field); value != "" {
			*rawFields[name](&raw) = value
		}
	}

	if raw.FlightNumber == "" {
		return entity.RawFieldSet{}, nil
	}
	return raw, nil
}

// noFlights reports a page marked by NoFlightsSelector, or one whose no-flights
// container mentions NoFlightsText. Text elsewhere on the page is ignored.
func (p *Parser) noFlights(doc *goquery.Document) bool {
	if p.table.NoFlightsSelector != "" && doc.Find(p.table.NoFlightsSelector).Length() > 0 {
		return true
	}
	if p.table.NoFlightsText == "" {
		return false
	}
	found := false
	doc.Find(p.table.NoFlightsContainer).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		found = strings.Contains(strings.ToLower(cleanText(s.Text())), p.table.NoFlightsText)
		return !found
	})
	return found
}

// positional returns the text of the element field points at
func positional(doc *goquery.Document, field FieldSelector) string {
	var values []string
	doc.Find(field.Selector).Each(func(_ int, s *goquery.Selection) {
		text := cleanText(s.Text())
		if field.NotPrefix != "" && strings.HasPrefix(text, field.NotPrefix) {
			return
		}
		if field.Prefix != "" {
			if !strings.HasPrefix(text, field.Prefix) {
				return
			}
			text = strings.TrimSpace(strings.TrimPrefix(text, field.Prefix))
		}
		values = append(values, text)
	})
	if len(values) < field.MinCount {
		return ""
	}
	i := field.Index
	if i < 0 {
		i += len(values)
	}
	if i < 0 || i >= len(values) {
		return ""
	}
	return values[i]
}

func (p *Parser) aircraftFromDescription(doc *goquery.Document) string {
	if p.table.DescriptionSelector == "" || p.table.AircraftPattern == nil {
		return ""
	}
	sel := doc.Find(p.table.DescriptionSelector).First()
	text := sel.Text()
	if p.table.DescriptionAttribute != "" {
		text = sel.AttrOr(p.table.DescriptionAttribute, "")
	}
	m := p.table.AircraftPattern.FindStringSubmatch(cleanText(text))
	if m == nil {
		return ""
	}
	return group(p.table.AircraftPattern.SubexpNames(), m, "aircraft")
}

func assign(raw *entity.RawFieldSet, kind FieldKind, values []string) {
	dep, arr := at(values, 0), at(values, 1)
	switch kind {
	case KindCountry:
		raw.DepartureCountry, raw.ArrivalCountry = dep, arr
	case KindAirport:
		raw.DepartureAirport, raw.ArrivalAirport = dep, arr
	case KindTerminal:
		raw.DepartureTerminal, raw.ArrivalTerminal = dep, arr
	case KindDateTime:
		raw.DepartureDate, raw.DepartureTime = utils.SplitDateTime(dep)
		raw.ArrivalDate, raw.ArrivalTime = utils.SplitDateTime(arr)
	case KindDate:
		raw.DepartureDate, raw.ArrivalDate = dep, arr
	case KindTime:
		raw.DepartureTime, raw.ArrivalTime = dep, arr
	case KindDuration:
		raw.Duration = dep
	case KindAircraft:
		// a block wins over the description
		if dep != "" {
			raw.Aircraft = dep
		}
	}
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

func group(names []string, match []string, name string) string {
	for i, n := range names {
		if n == name && i < len(match) {
			return strings.TrimSpace(match[i])
		}
	}
	return ""
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
