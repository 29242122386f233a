package scrape

import (
	"strings"

	"github.com/jobboard/backend/internal/domain"
	"golang.org/x/net/html"
)

// careersPageSource narrows the search to company careers pages.
const careersPageSource = "site:careers.*.com | inurl:*/careers | inurl:*/hiring | inurl:*/work-with-us | inurl:*/join-us | inurl:*/opportunities"

// BuildQuery composes the SERP query for one tracked job title.
func BuildQuery(title string) string {
	return careersPageSource + ` "` + title + `"`
}

// ToJobPosts converts organic results into job posts tagged with the title
// that found them. Results without a link are dropped; snippets are plain
// text only.
func ToJobPosts(results []OrganicResult, tag string) []*domain.JobPost {
	posts := make([]*domain.JobPost, 0, len(results))
	for _, r := range results {
		if r.Link == "" {
			continue
		}
		posts = append(posts, &domain.JobPost{
			Title:   strings.TrimSpace(r.Title),
			Snippet: stripHTML(r.Snippet),
			Link:    r.Link,
			Tag:     tag,
		})
	}
	return posts
}

// stripHTML drops markup from a snippet, keeping text content. SERP snippets
// routinely carry <b> highlights and entities.
func stripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}

	var b strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			b.Write(tokenizer.Text())
		}
	}
	return strings.TrimSpace(b.String())
}
