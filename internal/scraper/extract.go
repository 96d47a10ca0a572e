package scraper

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"listings/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// page bundles the parsed and raw views of a fetched document. The DOM
// strategies read doc, the heuristic ones scan raw/lower directly.
type page struct {
	raw   string
	lower string
	doc   *goquery.Document // nil when the document failed to parse
}

// Extract runs the strategy cascade over raw page HTML and returns the
// accumulated listing. Strategies run in a fixed order and only fill
// fields still at their sentinel value; images accumulate across
// strategies and are deduplicated at the end. The one exception is name:
// the title stage seeds it and the linked-data stage may replace it with
// the higher-confidence structured value.
func Extract(html string, logger *zap.Logger) *domain.Listing {
	l := domain.NewListing()
	p := &page{raw: html, lower: strings.ToLower(html)}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		logger.Warn("could not parse document, DOM strategies skipped", zap.Error(err))
	} else {
		p.doc = doc
	}

	extractTitle(p, l)
	extractLinkedData(p, l, logger)
	extractMetaDescription(p, l)
	extractPreviewImages(p, l)
	extractCounts(p, l)
	extractAmenities(p, l)
	extractLocation(p, l)
	finalizeImages(l)

	return l
}

// extractTitle seeds name from the document title, keeping only the first
// segment before a pipe or hyphen separator ("Cozy Studio | Airbnb").
func extractTitle(p *page, l *domain.Listing) {
	if p.doc == nil {
		return
	}
	title := p.doc.Find("title").First().Text()
	if i := strings.Index(title, "|"); i >= 0 {
		title = title[:i]
	}
	if i := strings.Index(title, "-"); i >= 0 {
		title = title[:i]
	}
	if t := strings.TrimSpace(title); t != "" {
		l.Name = t
	}
}

// linkedData is the subset of a JSON-LD block the extractor cares about.
type linkedData struct {
	Type        string          `json:"@type"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Offers      *linkedOffer    `json:"offers"`
	Image       json.RawMessage `json:"image"` // single URL or a list
}

type linkedOffer struct {
	Price json.RawMessage `json:"price"` // number or numeric string
}

// extractLinkedData reads every JSON-LD script block of type Product or
// Accommodation. Blocks that fail to parse are expected in the wild and
// are skipped without aborting the cascade.
func extractLinkedData(p *page, l *domain.Listing, logger *zap.Logger) {
	if p.doc == nil {
		return
	}
	p.doc.Find(`script[type="application/ld+json"]`).Each(func(i int, s *goquery.Selection) {
		var block linkedData
		if err := json.Unmarshal([]byte(s.Text()), &block); err != nil {
			logger.Debug("skipping unparseable linked-data block",
				zap.Int("block", i), zap.Error(err))
			return
		}
		if block.Type != "Product" && block.Type != "Accommodation" {
			return
		}
		if block.Name != "" {
			l.Name = block.Name
		}
		if l.Description == "" {
			l.Description = block.Description
		}
		if l.Price == 0 && block.Offers != nil {
			if price, ok := parsePrice(block.Offers.Price); ok {
				l.Price = price
			}
		}
		l.Images = append(l.Images, imageURLs(block.Image)...)
	})
}

func parsePrice(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var asNumber float64
	if err := json.Unmarshal(raw, &asNumber); err == nil && asNumber > 0 {
		return asNumber, true
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		if price, err := strconv.ParseFloat(strings.TrimSpace(asString), 64); err == nil && price > 0 {
			return price, true
		}
	}
	return 0, false
}

func imageURLs(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		if one == "" {
			return nil
		}
		return []string{one}
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		urls := many[:0]
		for _, u := range many {
			if u != "" {
				urls = append(urls, u)
			}
		}
		return urls
	}
	return nil
}

// extractMetaDescription fills description from the meta description tag
// when no structured block supplied one. The content is taken verbatim.
func extractMetaDescription(p *page, l *domain.Listing) {
	if p.doc == nil || l.Description != "" {
		return
	}
	if content, ok := p.doc.Find(`meta[name="description"]`).First().Attr("content"); ok && content != "" {
		l.Description = content
	}
}

// extractPreviewImages harvests every og:image social-preview tag,
// additively to whatever the structured blocks contributed.
func extractPreviewImages(p *page, l *domain.Listing) {
	if p.doc == nil {
		return
	}
	p.doc.Find(`meta[property="og:image"]`).Each(func(_ int, s *goquery.Selection) {
		if content, ok := s.Attr("content"); ok && content != "" {
			l.Images = append(l.Images, content)
		}
	})
}

var (
	guestsRe    = regexp.MustCompile(`(?i)(\d+)\s*guests?`)
	bedroomsRe  = regexp.MustCompile(`(?i)(\d+)\s*bedrooms?`)
	bathroomsRe = regexp.MustCompile(`(?i)(\d+)\s*bathrooms?`)
)

// extractCounts scans the raw text for the first "<n> guests/bedrooms/
// bathrooms" occurrence of each. Heuristic over prose; misses and false
// positives are accepted.
func extractCounts(p *page, l *domain.Listing) {
	if l.Guests == 0 {
		l.Guests = firstCount(guestsRe, p.raw)
	}
	if l.Bedrooms == 0 {
		l.Bedrooms = firstCount(bedroomsRe, p.raw)
	}
	if l.Bathrooms == 0 {
		l.Bathrooms = firstCount(bathroomsRe, p.raw)
	}
}

func firstCount(re *regexp.Regexp, raw string) int {
	m := re.FindStringSubmatch(raw)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// extractAmenities includes each vocabulary label whose text appears
// anywhere in the page, case-insensitively. Bag-of-words signal only.
func extractAmenities(p *page, l *domain.Listing) {
	for _, label := range amenityVocabulary {
		if strings.Contains(p.lower, strings.ToLower(label)) {
			l.Amenities = append(l.Amenities, label)
		}
	}
}

var locationRe = regexp.MustCompile(`(?i)in\s+([^,<]+),\s+([^<]+)`)

// extractLocation takes the first "in <city>, <province>" occurrence.
func extractLocation(p *page, l *domain.Listing) {
	if l.Location.City != "" || l.Location.Province != "" {
		return
	}
	m := locationRe.FindStringSubmatch(p.raw)
	if m == nil {
		return
	}
	l.Location.City = strings.TrimSpace(m[1])
	l.Location.Province = strings.TrimSpace(m[2])
}

// finalizeImages deduplicates in first-occurrence order and caps the list.
func finalizeImages(l *domain.Listing) {
	seen := make(map[string]struct{}, len(l.Images))
	out := l.Images[:0]
	for _, u := range l.Images {
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
		if len(out) == maxImages {
			break
		}
	}
	l.Images = out
}
