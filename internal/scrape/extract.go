// Package scrape resolves structured product fields out of marketplace
// listing HTML. Each field falls through an ordered list of strategies:
// structured metadata first (open-graph, product price meta) because it is
// low-noise, then heuristic DOM and script scanning for pages that omit it.
package scrape

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Candidate is the extraction output before pricing is applied. RawPriceText
// is handed to the pricing engine untouched; it is not parsed here.
type Candidate struct {
	Name         string
	Description  string
	Images       []string
	CoverImage   string
	RawPriceText string
}

// Extractor resolves product fields from listing HTML. It has no network or
// persistence side effects; Extract is a pure function of its input.
type Extractor struct {
	profile   Profile
	reBuy     *regexp.Regexp
	reOnBrand *regexp.Regexp
}

// NewExtractor creates an extractor for the given marketplace profile.
func NewExtractor(profile Profile) *Extractor {
	return &Extractor{
		profile:   profile,
		reBuy:     regexp.MustCompile(`(?i)` + regexp.QuoteMeta("Buy")),
		reOnBrand: regexp.MustCompile(`(?i)` + regexp.QuoteMeta("on "+profile.Brand)),
	}
}

// Extract resolves all candidate fields from the given listing HTML.
func (e *Extractor) Extract(html string) (*Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse listing html: %w", err)
	}

	images := e.resolveImages(doc)

	return &Candidate{
		Name:         e.resolveName(doc),
		Description:  e.resolveDescription(doc),
		Images:       images,
		CoverImage:   e.resolveCoverImage(doc, images),
		RawPriceText: resolveRawPrice(doc),
	}, nil
}

// strategy is a single field-resolution attempt; empty string means "no
// result, try the next one".
type strategy func(doc *goquery.Document) string

func firstMatch(doc *goquery.Document, strategies ...strategy) string {
	for _, s := range strategies {
		if v := strings.TrimSpace(s(doc)); v != "" {
			return v
		}
	}
	return ""
}

// ── Name ──

func (e *Extractor) resolveName(doc *goquery.Document) string {
	name := firstMatch(doc, nameFromHeading, nameFromOGTitle)

	// A heading that is just the bare brand name is a known failure mode
	// on gallery-only listings; the page title still carries the product.
	if strings.EqualFold(name, e.profile.Brand) {
		name = strings.TrimSpace(e.nameFromTitleTag(doc))
	}
	if name == "" {
		name = e.profile.NamePlaceholder
	}

	name = e.reBuy.ReplaceAllString(name, "")
	name = e.reOnBrand.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)
	if name == "" {
		name = e.profile.NamePlaceholder
	}
	return name
}

func nameFromHeading(doc *goquery.Document) string {
	return doc.Find("h1").First().Text()
}

func nameFromOGTitle(doc *goquery.Document) string {
	return metaContent(doc, "og:title")
}

// nameFromTitleTag takes the first segment of <title>, before the
// "| marketplace" suffix.
func (e *Extractor) nameFromTitleTag(doc *goquery.Document) string {
	title := doc.Find("title").First().Text()
	segment, _, _ := strings.Cut(title, "|")
	return segment
}

// ── Description ──

func (e *Extractor) resolveDescription(doc *goquery.Document) string {
	desc := strings.TrimSpace(metaContent(doc, "og:description"))
	if desc == "" {
		return e.profile.DescriptionPlaceholder
	}
	// The marketplace appends "... on <Brand>" to shared descriptions.
	if i := strings.Index(desc, "on "+e.profile.Brand); i >= 0 {
		desc = strings.TrimSpace(desc[:i])
	}
	if desc == "" {
		return e.profile.DescriptionPlaceholder
	}
	return desc
}

// ── Images ──

func (e *Extractor) resolveImages(doc *goquery.Document) []string {
	// Primary, high-signal strategy: the gallery is hydrated client-side,
	// so the CDN URLs live in script payloads rather than markup.
	urls := e.imagesFromScripts(doc)
	if len(urls) == 0 {
		urls = e.imagesFromImgTags(doc)
	}
	return e.cleanImages(urls)
}

func (e *Extractor) imagesFromScripts(doc *goquery.Document) []string {
	var urls []string
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		urls = append(urls, e.profile.ImagePattern.FindAllString(s.Text(), -1)...)
	})
	return urls
}

func (e *Extractor) imagesFromImgTags(doc *goquery.Document) []string {
	var urls []string
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src := s.AttrOr("src", "")
		if src == "" {
			// lazy-loaded galleries keep the real source here
			src = s.AttrOr("data-src", "")
		}
		if src != "" && strings.Contains(src, e.profile.ImageHost) {
			urls = append(urls, src)
		}
	})
	return urls
}

// cleanImages strips thumbnail sizing query suffixes (full resolution is the
// bare path), drops profile/avatar assets and implausibly short matches, and
// de-duplicates preserving first-seen order.
func (e *Extractor) cleanImages(urls []string) []string {
	cleaned := make([]string, 0, len(urls))
	seen := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		u, _, _ = strings.Cut(u, "?")
		if strings.Contains(u, "profile") || strings.Contains(u, "avatar") {
			continue
		}
		if len(u) <= e.profile.MinImageURLLen {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		cleaned = append(cleaned, u)
	}
	return cleaned
}

func (e *Extractor) resolveCoverImage(doc *goquery.Document, images []string) string {
	if len(images) > 0 {
		return images[0]
	}
	return strings.TrimSpace(metaContent(doc, "og:image"))
}

// ── Price ──

// resolveRawPrice prefers the structured price meta, falls back to the first
// element styled as a price, and reports "0" when neither exists so the
// pricing engine sees an explicit unresolved sentinel.
func resolveRawPrice(doc *goquery.Document) string {
	raw := firstMatch(doc,
		func(doc *goquery.Document) string {
			return metaContent(doc, "product:price:amount")
		},
		func(doc *goquery.Document) string {
			return doc.Find(`[class*="price"]`).First().Text()
		},
	)
	if raw == "" {
		return "0"
	}
	return raw
}

func metaContent(doc *goquery.Document, property string) string {
	content, _ := doc.Find(`meta[property="` + property + `"]`).Attr("content")
	return content
}
