// Package aviability scrapes flight schedules from aviability.com
package aviability

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/pkg/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

// DefaultSearchURL is the flight number search form
const DefaultSearchURL = "https://aviability.com/flight-number/index.php"

// ExtractorConfig configures the HTTP side of the scraper
type ExtractorConfig struct {
	SearchURL string
	Timeout   time.Duration
	UserAgent string
}

// Extractor performs the search-then-detail lookup and returns the detail page markup
type Extractor struct {
	client    *resty.Client
	searchURL string
}

// NewExtractor creates a new extractor
func NewExtractor(cfg ExtractorConfig) *Extractor {
	if cfg.SearchURL == "" {
		cfg.SearchURL = DefaultSearchURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	client := resty.New()
	client.SetTimeout(cfg.Timeout)
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}

	return &Extractor{
		client:    client,
		searchURL: cfg.SearchURL,
	}
}

// Fetch returns the detail page of a flight designator on the given date
func (e *Extractor) Fetch(ctx context.Context, date time.Time, designator string) (string, error) {
	detailURL, err := e.resolveDetailURL(ctx, designator)
	if err != nil {
		return "", err
	}

	day := date.Format(utils.ISO_DATE_LAYOUT)
	query := detailURL.Query()
	query.Set("_date", day)
	detailURL.RawQuery = query.Encode()

	res, err := e.post(ctx, detailURL.String(), map[string]string{
		"FlightNumber": designator,
		"_date":        day,
	})
	if err != nil {
		return "", err
	}
	return res.String(), nil
}

// resolveDetailURL submits the search form. The detail page is either where the search
// redirected to or the first result link naming the designator.
func (e *Extractor) resolveDetailURL(ctx context.Context, designator string) (*url.URL, error) {
	match, err := designatorMatcher(designator)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrFlightNotFound, err)
	}

	res, err := e.post(ctx, e.searchURL, map[string]string{"FlightNumber": designator})
	if err != nil {
		return nil, err
	}

	finalURL := finalRequestURL(res, e.searchURL)
	if finalURL != nil && match.MatchString(path.Base(finalURL.Path)) {
		return finalURL, nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse search page: %w", err)
	}

	var link *url.URL
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		ref, err := url.Parse(strings.TrimSpace(a.AttrOr("href", "")))
		if err != nil {
			return true
		}
		if !match.MatchString(path.Base(ref.Path)) && !match.MatchString(a.Text()) {
			return true
		}
		if finalURL != nil {
			ref = finalURL.ResolveReference(ref)
		}
		link = ref
		return false
	})
	if link == nil {
		return nil, fmt.Errorf("%w: %s", entity.ErrFlightNotFound, designator)
	}
	return link, nil
}

// designatorMatcher matches the designator as a whole token, so BA1 finds "ba-1" and
// "BA 1" but not "ba-12" or "BA 1A"
func designatorMatcher(designator string) (*regexp.Regexp, error) {
	airline, number, err := utils.SplitDesignator(designator)
	if err != nil {
		return nil, err
	}
	digits := strings.TrimRight(number, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	suffix := number[len(digits):]
	if digits = strings.TrimLeft(digits, "0"); digits == "" {
		digits = "0"
	}
	pattern := fmt.Sprintf(`(?i)(^|[^a-z0-9])%s[\s_-]?0*%s%s([^a-z0-9]|$)`,
		regexp.QuoteMeta(airline), regexp.QuoteMeta(digits), regexp.QuoteMeta(suffix))
	return regexp.Compile(pattern)
}

func (e *Extractor) post(ctx context.Context, target string, form map[string]string) (*resty.Response, error) {
	res, err := e.client.R().
		SetContext(ctx).
		SetFormData(form).
		Post(target)
	if err != nil {
		return nil, &entity.HTTPError{Method: http.MethodPost, URL: target, Err: err}
	}
	if res.IsError() {
		return nil, &entity.HTTPError{Method: http.MethodPost, URL: target, StatusCode: res.StatusCode()}
	}
	return res, nil
}

// finalRequestURL is the URL that produced the response, after redirects
func finalRequestURL(res *resty.Response, fallback string) *url.URL {
	if res.RawResponse != nil && res.RawResponse.Request != nil && res.RawResponse.Request.URL != nil {
		u := *res.RawResponse.Request.URL
		return &u
	}
	u, err := url.Parse(fallback)
	if err != nil {
		return nil
	}
	return u
}
