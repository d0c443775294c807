package scholar

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseAuthors reads the author rows of a search results page.
func ParseAuthors(doc *goquery.Document) []Author {
	var authors []Author
	doc.Find(".gsc_1usr").Each(func(_ int, s *goquery.Selection) {
		link := s.Find(".gs_ai_name a").First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		id := userParam(href)
		if id == "" {
			return
		}
		authors = append(authors, Author{
			ScholarID:   id,
			Name:        strings.TrimSpace(link.Text()),
			Affiliation: strings.TrimSpace(s.Find(".gs_ai_aff").First().Text()),
		})
	})
	return authors
}

// ParseProfile reads the header of a profile page. The affiliation is the
// first info line under the author's name.
func ParseProfile(doc *goquery.Document) *Profile {
	return &Profile{
		Name:        strings.TrimSpace(doc.Find("#gsc_prf_in").First().Text()),
		Affiliation: strings.TrimSpace(doc.Find("#gsc_prf_i .gsc_prf_il").First().Text()),
	}
}

// ParseNextPage returns the relative URL behind the "next" pager button, or
// "" on the last page. The button carries the target in its onclick handler
// with '=' and '&' hex-escaped.
func ParseNextPage(doc *goquery.Document) string {
	btn := doc.Find("button.gs_btnPR").First()
	if _, disabled := btn.Attr("disabled"); disabled {
		return ""
	}
	onclick, ok := btn.Attr("onclick")
	if !ok {
		return ""
	}
	const prefix = "window.location='"
	start := strings.Index(onclick, prefix)
	if start < 0 {
		return ""
	}
	rest := onclick[start+len(prefix):]
	end := strings.Index(rest, "'")
	if end < 0 {
		return ""
	}
	r := strings.NewReplacer(`\x3d`, "=", `\x26`, "&")
	return r.Replace(rest[:end])
}

func userParam(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return u.Query().Get("user")
}
