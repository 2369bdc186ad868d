package indeed

import (
	"strings"

	"go-jobradar/internal/scraper"

	"github.com/PuerkitoBio/goquery"
)

var noResultsMarkers = []string{"no produjo ningún resultado", "did not match any jobs"}

type pageResult struct {
	cards     []scraper.RawCandidate
	noResults bool
	hasNext   bool
}

func parsePage(html string) (pageResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return pageResult{}, err
	}

	body := doc.Find("body").Text()
	for _, marker := range noResultsMarkers {
		if strings.Contains(body, marker) {
			return pageResult{noResults: true}, nil
		}
	}

	var res pageResult
	doc.Find("div#mosaic-provider-jobcards li").Each(func(_ int, li *goquery.Selection) {
		if li.Find("div.cardOutline").Length() == 0 {
			return
		}
		res.cards = append(res.cards, parseCard(li))
	})
	res.hasNext = doc.Find(`a[data-testid="pagination-page-next"]`).Length() > 0
	return res, nil
}

func parseCard(li *goquery.Selection) scraper.RawCandidate {
	id, ok := li.Find("div.cardOutline[data-jk]").First().Attr("data-jk")
	if !ok {
		id, _ = li.Find("a.jcs-JobTitle[data-jk]").First().Attr("data-jk")
	}

	title := li.Find(`span[id^="jobTitle-"]`).First().Text()
	if strings.TrimSpace(title) == "" {
		title = li.Find("h2.jobTitle span").First().Text()
	}

	return scraper.RawCandidate{
		ID:       strings.TrimSpace(id),
		Title:    scraper.CleanText(title),
		Company:  scraper.CleanText(li.Find(`span[data-testid="company-name"]`).First().Text()),
		Salary:   scraper.CleanText(li.Find("div.salary-snippet-container").First().Text()),
		Location: scraper.CleanText(li.Find(`div[data-testid="text-location"]`).First().Text()),
	}
}
