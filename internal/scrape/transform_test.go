package scrape

import (
	"strings"
	"testing"
)

func TestBuildQuery(t *testing.T) {
	q := BuildQuery("backend engineer")

	if !strings.Contains(q, `"backend engineer"`) {
		t.Errorf("query = %s, want the title as an exact phrase", q)
	}
	if !strings.Contains(q, "inurl:*/careers") {
		t.Errorf("query = %s, want the careers-page source filters", q)
	}
}

func TestToJobPosts(t *testing.T) {
	results := []OrganicResult{
		{Title: " Senior Backend Engineer ", Snippet: "Join <b>our</b> team &amp; build things", Link: "https://careers.acme.com/jobs/1"},
		{Title: "No Link Here", Snippet: "dropped", Link: ""},
		{Title: "Data Platform Role", Snippet: "plain text", Link: "https://jobs.globex.com/careers/2"},
	}

	posts := ToJobPosts(results, "backend engineer")

	if len(posts) != 2 {
		t.Fatalf("got %d posts, want 2 (linkless result dropped)", len(posts))
	}
	if posts[0].Title != "Senior Backend Engineer" {
		t.Errorf("title = %q, want trimmed", posts[0].Title)
	}
	if posts[0].Snippet != "Join our team & build things" {
		t.Errorf("snippet = %q, want markup stripped and entities decoded", posts[0].Snippet)
	}
	for _, p := range posts {
		if p.Tag != "backend engineer" {
			t.Errorf("tag = %q, want the searched title", p.Tag)
		}
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"  padded  ", "padded"},
		{"<b>Go</b> developer", "Go developer"},
		{"salary &gt; market", "salary > market"},
		{"<em>remote</em> &amp; <b>hybrid</b>", "remote & hybrid"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := stripHTML(tt.in); got != tt.want {
			t.Errorf("stripHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
