package occ

import (
	"regexp"
	"strconv"
	"strings"

	"go-jobradar/internal/scraper"

	"github.com/PuerkitoBio/goquery"
)

var (
	trailingDigits = regexp.MustCompile(`\d+$`)
	firstNumber    = regexp.MustCompile(`\d+`)
)

// parseCards extracts postings from a results page in page order.
func parseCards(doc *goquery.Document) []scraper.RawCandidate {
	var out []scraper.RawCandidate
	doc.Find(`div[id^="jobcard-"]`).Each(func(_ int, card *goquery.Selection) {
		id, _ := card.Attr("id")
		out = append(out, scraper.RawCandidate{
			ID:      trailingDigits.FindString(id),
			Title:   scraper.CleanText(card.Find("h2.text-lg").First().Text()),
			Salary:  scraper.CleanText(card.Find("span.font-base").First().Text()),
			Company: parseCompany(card),
		})
	})
	return out
}

func parseCompany(card *goquery.Selection) string {
	holder := card.Find("span.line-clamp-1").First()
	if holder.Length() == 0 {
		return ""
	}
	if a := holder.Find("a").First(); a.Length() > 0 {
		return scraper.CleanText(a.Text())
	}
	return scraper.CleanText(holder.Text())
}

// parseTotalResults reads the "N resultados" counter. Zero means unknown.
func parseTotalResults(doc *goquery.Document) int {
	counters := doc.Find("#sort-jobs").PrevAll().Filter("p")
	counters = counters.AddSelection(doc.Find("p"))

	total := 0
	counters.EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := p.Text()
		if !strings.Contains(text, "resultados") {
			return true
		}
		n, err := strconv.Atoi(firstNumber.FindString(strings.ReplaceAll(text, ",", "")))
		if err != nil {
			return true
		}
		total = n
		return false
	})
	return total
}
