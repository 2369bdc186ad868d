package linkedin

import (
	"regexp"
	"strconv"
	"strings"

	"go-jobradar/internal/scraper"

	"github.com/PuerkitoBio/goquery"
)

var (
	noResultsClasses = ".jobs-search-no-results, .jobs-search-results-list__no-results"
	noResultsTexts   = []string{"No matching jobs found", "No se encontraron resultados"}
	totalPattern     = regexp.MustCompile(`\d+`)
)

type pageResult struct {
	cards     []scraper.RawCandidate
	total     int
	skipped   int
	noResults bool
}

func replaceKeyword(base, keyword string) string {
	return strings.ReplaceAll(base, "{keyword}", keyword)
}

func parsePage(html string) (pageResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return pageResult{}, err
	}

	if doc.Find(noResultsClasses).Length() > 0 {
		return pageResult{noResults: true}, nil
	}
	body := doc.Find("body").Text()
	for _, marker := range noResultsTexts {
		if strings.Contains(body, marker) {
			return pageResult{noResults: true}, nil
		}
	}

	res := pageResult{total: parseTotal(doc)}
	doc.Find("div[data-job-id]").Each(func(_ int, div *goquery.Selection) {
		c, ok := parseCard(div)
		if !ok {
			res.skipped++
			return
		}
		res.cards = append(res.cards, c)
	})
	return res, nil
}

// parseTotal reads "1,234 results" from the list subtitle; 0 when absent.
func parseTotal(doc *goquery.Document) int {
	text := doc.Find("div.jobs-search-results-list__subtitle").First().Text()
	digits := totalPattern.FindString(strings.NewReplacer(",", "", ".", "").Replace(text))
	n, _ := strconv.Atoi(digits)
	return n
}

func parseCard(div *goquery.Selection) (scraper.RawCandidate, bool) {
	id, _ := div.Attr("data-job-id")

	card := div.Closest("li")
	if card.Length() == 0 {
		card = div
	}

	company := scraper.CleanText(card.Find(".base-search-card__subtitle, .job-card-container__primary-description").First().Text())
	if company == "" {
		company = scraper.CleanText(card.Find("div.artdeco-entity-lockup__subtitle").First().Text())
	}
	if company == "" {
		return scraper.RawCandidate{}, false
	}

	return scraper.RawCandidate{
		ID:       strings.TrimSpace(id),
		Title:    scraper.CleanText(cardTitle(card)),
		Company:  company,
		Location: scraper.CleanText(card.Find(".job-card-container__metadata-item, .job-search-card__location").First().Text()),
	}, true
}

func cardTitle(card *goquery.Selection) string {
	if h := card.Find("h3.base-search-card__title, h4.base-search-card__title").First(); h.Length() > 0 {
		return h.Text()
	}
	if link := card.Find("a.job-card-list__title--link").First(); link.Length() > 0 {
		if strong := strings.TrimSpace(link.Find("strong").First().Text()); strong != "" {
			return strong
		}
		if label, ok := link.Attr("aria-label"); ok && strings.TrimSpace(label) != "" {
			return label
		}
		return link.Find("span.visually-hidden").First().Text()
	}
	if strong := card.Find("strong").First(); strong.Length() > 0 {
		return strong.Text()
	}
	first := card.Find("a").First()
	if label, ok := first.Attr("aria-label"); ok {
		return label
	}
	return first.Text()
}
