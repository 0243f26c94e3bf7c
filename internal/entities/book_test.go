package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLanguage(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"english", "English"},
		{"  afrikaans  ", "Afrikaans"},
		{"ZULU", "ZULU"},
		{"sePedi", "SePedi"},
		{"", ""},
		{"   ", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NormalizeLanguage(c.in), "input %q", c.in)
	}
}

func TestBookKeyMatches(t *testing.T) {
	book := Book{Title: "Dune", Author: "Frank Herbert"}

	assert.True(t, BookKey{Title: "dune", Author: "FRANK HERBERT"}.Matches(book))
	assert.False(t, BookKey{Title: "Dune", Author: "Herbert"}.Matches(book))
	assert.False(t, BookKey{Title: "Dune Messiah", Author: "Frank Herbert"}.Matches(book))
}

func TestDisplayAuthor(t *testing.T) {
	cases := []struct {
		author string
		want   string
	}{
		{"Le Guin, Ursula K.", "Ursula K. Le Guin"},
		{"Frank Herbert", "Frank Herbert"},
		{"Homer", "Homer"},
		{"", ""},
	}
	for _, c := range cases {
		book := Book{Author: c.author}
		assert.Equal(t, c.want, book.DisplayAuthor(), "author %q", c.author)
	}
}

func TestDistinctLanguages(t *testing.T) {
	books := []Book{
		{Title: "A", Language: "English"},
		{Title: "B", Language: "Afrikaans"},
		{Title: "C", Language: "English"},
		{Title: "D", Language: "Zulu"},
	}
	assert.Equal(t, []string{"English", "Afrikaans", "Zulu"}, DistinctLanguages(books))
}
