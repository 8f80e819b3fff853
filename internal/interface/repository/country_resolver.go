package repository

import (
	"fmt"
	"strings"
	"unicode"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/internal/domain/repository"

	"github.com/antzucaro/matchr"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultCountryMatchThreshold is the minimum Jaro-Winkler similarity accepted for a fuzzy match
const DefaultCountryMatchThreshold = 0.9

// fuzzy matching is not attempted for shorter inputs, they are codes or noise
const minFuzzyLength = 4

// FuzzyCountryResolver implements the CountryResolver interface with exact lookups on names,
// aliases and ISO codes, falling back to Jaro-Winkler similarity over names and aliases.
type FuzzyCountryResolver struct {
	countries []entity.Country
	exact     map[string]int
	alpha2    map[string]int
	names     []candidate
	threshold float64
}

type candidate struct {
	key   string
	index int
}

// NewFuzzyCountryResolver creates a new country resolver over the given table
func NewFuzzyCountryResolver(countries []entity.Country, threshold float64) repository.CountryResolver {
	if threshold <= 0 {
		threshold = DefaultCountryMatchThreshold
	}
	r := &FuzzyCountryResolver{
		countries: countries,
		exact:     make(map[string]int, len(countries)*4),
		alpha2:    make(map[string]int, len(countries)),
		threshold: threshold,
	}
	for i, c := range countries {
		r.alpha2[strings.ToUpper(c.Alpha2)] = i

		keys := append([]string{c.Name}, c.Aliases...)
		for _, k := range keys {
			folded := foldCountryName(k)
			if folded == "" {
				continue
			}
			if _, taken := r.exact[folded]; !taken {
				r.exact[folded] = i
			}
			r.names = append(r.names, candidate{key: folded, index: i})
		}
		for _, code := range []string{c.Alpha2, c.Alpha3} {
			folded := foldCountryName(code)
			if _, taken := r.exact[folded]; !taken && folded != "" {
				r.exact[folded] = i
			}
		}
	}
	return r
}

// Resolve maps free text such as "Germany", "deutschland" or "Swtzerland" to a country
func (r *FuzzyCountryResolver) Resolve(text string) (*entity.Country, error) {
	folded := foldCountryName(text)
	if folded == "" {
		return nil, fmt.Errorf("%w: empty name", entity.ErrCountryNotFound)
	}
	if i, ok := r.exact[folded]; ok {
		c := r.countries[i]
		return &c, nil
	}
	if len([]rune(folded)) < minFuzzyLength {
		return nil, fmt.Errorf("%w: %q", entity.ErrCountryNotFound, text)
	}

	best, bestScore := -1, 0.0
	for _, cand := range r.names {
		score := matchr.JaroWinkler(folded, cand.key, false)
		if score > bestScore {
			best, bestScore = cand.index, score
		}
	}
	if best < 0 || bestScore < r.threshold {
		return nil, fmt.Errorf("%w: %q", entity.ErrCountryNotFound, text)
	}
	c := r.countries[best]
	return &c, nil
}

// ByAlpha2 finds a country by its ISO alpha-2 code
func (r *FuzzyCountryResolver) ByAlpha2(code string) (*entity.Country, error) {
	i, ok := r.alpha2[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", entity.ErrCountryNotFound, code)
	}
	c := r.countries[i]
	return &c, nil
}

// foldCountryName strips accents and punctuation, case folds and collapses whitespace
func foldCountryName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC, cases.Fold())
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = strings.ToLower(s)
	}
	folded = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, folded)
	return strings.Join(strings.Fields(folded), " ")
}
