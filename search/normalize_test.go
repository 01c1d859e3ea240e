package search

import (
	"testing"

	"github.com/the-web-girl/My-Library-App/model"
)

func TestTitleOrDefault(t *testing.T) {
	if got := titleOrDefault("  Dune  "); got != "Dune" {
		t.Errorf("got %q", got)
	}
	if got := titleOrDefault("   "); got != model.UnknownTitle {
		t.Errorf("got %q, want %q", got, model.UnknownTitle)
	}
}

func TestJoinAuthors(t *testing.T) {
	tests := []struct {
		names []string
		want  string
	}{
		{[]string{"Frank Herbert"}, "Frank Herbert"},
		{[]string{"Terry Pratchett", "Neil Gaiman"}, "Terry Pratchett, Neil Gaiman"},
		{[]string{" ", "", "Ursula K. Le Guin"}, "Ursula K. Le Guin"},
		{nil, model.UnknownAuthor},
		{[]string{"", "  "}, model.UnknownAuthor},
	}
	for _, tt := range tests {
		if got := joinAuthors(tt.names); got != tt.want {
			t.Errorf("joinAuthors(%v) = %q, want %q", tt.names, got, tt.want)
		}
	}
}

func TestYearFromDate(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2003-04-01", "2003"},
		{"2003", "2003"},
		{"20", ""},
		{"", ""},
		{"avril 2003", ""},
	}
	for _, tt := range tests {
		if got := yearFromDate(tt.date); got != tt.want {
			t.Errorf("yearFromDate(%q) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestPickCover(t *testing.T) {
	if got := pickCover("", "http://covers.example.com/1.jpg"); got != "https://covers.example.com/1.jpg" {
		t.Errorf("got %q", got)
	}
	if got := pickCover("https://a.example.com/1.jpg", "https://b.example.com/2.jpg"); got != "https://a.example.com/1.jpg" {
		t.Errorf("got %q", got)
	}
	if got := pickCover("", "  "); got != "" {
		t.Errorf("got %q", got)
	}
}
