package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePresentationFallsBackOnGarbage(t *testing.T) {
	p := ParsePresentation("sorry, here is your deck: ...")

	require.Len(t, p.Slides, 1)
	assert.Equal(t, "Otomatik Sunum", p.Title)
}

func TestParsePresentationValidJSON(t *testing.T) {
	raw := `{"title":"Deck","slides":[{"title":"One","bullets":["a","b"],"notes":"n"}]}`

	p := ParsePresentation(raw)

	require.Len(t, p.Slides, 1)
	assert.Equal(t, "Deck", p.Title)
	assert.Equal(t, []string{"a", "b"}, p.Slides[0].Bullets)
}

func TestNormalizePadsShortDecks(t *testing.T) {
	p := Normalize(Presentation{
		Title: "Deck",
		Slides: []Slide{
			{Title: "One", Bullets: []string{"a"}},
			{Title: "Two", Bullets: []string{"b"}},
		},
	})

	require.Len(t, p.Slides, 6)
	assert.Equal(t, "One", p.Slides[0].Title)
	assert.Equal(t, "Ek 3", p.Slides[2].Title)
}

func TestNormalizeTruncatesLongDecks(t *testing.T) {
	var slides []Slide
	for range 14 {
		slides = append(slides, Slide{Title: "s", Bullets: []string{"b"}})
	}

	p := Normalize(Presentation{Title: "Deck", Slides: slides})

	assert.Len(t, p.Slides, 10)
}

func TestNormalizeDropsInvalidSlidesAndCapsBullets(t *testing.T) {
	p := Normalize(Presentation{
		Title: "Deck",
		Slides: []Slide{
			{Title: "", Bullets: []string{"dropped, no title"}},
			{Title: "no bullets"},
			{Title: "ok", Bullets: []string{" a ", "", "b", "c", "d", "e", "f", "g"}},
		},
	})

	// Only "ok" survives, then padding kicks in
	assert.Equal(t, "ok", p.Slides[0].Title)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, p.Slides[0].Bullets)
	assert.Len(t, p.Slides, 6)
}

func TestNormalizeCapsTitleLength(t *testing.T) {
	long := strings.Repeat("x", 300)

	p := Normalize(Presentation{
		Title:  long,
		Slides: []Slide{{Title: long, Bullets: []string{"a"}}},
	})

	assert.Len(t, []rune(p.Title), 90)
	assert.Len(t, []rune(p.Slides[0].Title), 90)
}

func TestGammaMarkdown(t *testing.T) {
	md := GammaMarkdown(Presentation{
		Title: "Deck",
		Slides: []Slide{
			{Title: "One", Bullets: []string{"a", "b"}, Notes: "speak slowly"},
		},
	})

	assert.Contains(t, md, "# Deck")
	assert.Contains(t, md, "## One")
	assert.Contains(t, md, "- a")
	assert.Contains(t, md, "> Konuşmacı Notu: speak slowly")
}

func TestCleanResponseStripsThinkBlocks(t *testing.T) {
	assert.Equal(t, "answer", CleanResponse("<think>internal monologue</think>answer"))
	assert.Equal(t, "answer", CleanResponse("answer<THINK>\nmultiline\n</THINK>"))
	assert.Equal(t, "answer", CleanResponse("answer <think>unterminated"))
	assert.Equal(t, "plain", CleanResponse("  plain  "))
}
