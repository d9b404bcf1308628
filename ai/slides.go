package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	minSlides     = 6
	maxSlides     = 10
	maxBullets    = 5
	maxTitleRunes = 90
)

type Slide struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
	Notes   string   `json:"notes"`
}

type Presentation struct {
	Title  string  `json:"title"`
	Slides []Slide `json:"slides"`
}

// ParsePresentation decodes the model's JSON deck. The model is asked
// for strict JSON but doesn't always comply, so a parse failure
// degrades to a single placeholder deck instead of an error.
func ParsePresentation(raw string) Presentation {
	var p Presentation

	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &p); err != nil || len(p.Slides) == 0 {
		return Presentation{
			Title: "Otomatik Sunum",
			Slides: []Slide{
				{Title: "Özet", Bullets: []string{"İçerik analiz edildi.", "JSON formatı alınamadı."}},
			},
		}
	}

	return p
}

// Normalize enforces the deck shape the frontend and the Canva payload
// expect: titles capped, at most 5 non empty bullets per slide,
// slides without a title or bullets dropped, and the deck padded or
// truncated into the 6..10 range.
func Normalize(p Presentation) Presentation {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		title = "Sunum"
	}
	title = capRunes(title, maxTitleRunes)

	var cleaned []Slide

	for _, s := range p.Slides {
		st := capRunes(strings.TrimSpace(s.Title), maxTitleRunes)

		var bullets []string
		for _, b := range s.Bullets {
			if b = strings.TrimSpace(b); b != "" {
				bullets = append(bullets, b)
			}

			if len(bullets) == maxBullets {
				break
			}
		}

		if st == "" || len(bullets) == 0 {
			continue
		}

		cleaned = append(cleaned, Slide{
			Title:   st,
			Bullets: bullets,
			Notes:   strings.TrimSpace(s.Notes),
		})
	}

	for len(cleaned) < minSlides {
		cleaned = append(cleaned, Slide{
			Title:   fmt.Sprintf("Ek %d", len(cleaned)+1),
			Bullets: []string{"Önemli nokta"},
		})
	}

	if len(cleaned) > maxSlides {
		cleaned = cleaned[:maxSlides]
	}

	return Presentation{Title: title, Slides: cleaned}
}

// GammaMarkdown renders the deck as paste friendly Markdown for the
// Gamma import flow
func GammaMarkdown(p Presentation) string {
	lines := []string{"# " + p.Title, ""}

	for _, s := range p.Slides {
		lines = append(lines, "## "+s.Title)
		for _, b := range s.Bullets {
			lines = append(lines, "- "+b)
		}

		if s.Notes != "" {
			lines = append(lines, "> Konuşmacı Notu: "+s.Notes)
		}

		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

// DeckMarkdown renders a plain slide-per-heading export
func DeckMarkdown(p Presentation) string {
	lines := []string{"# " + p.Title}

	for i, s := range p.Slides {
		lines = append(lines, fmt.Sprintf("## Slide %d: %s", i+1, s.Title))
		for _, b := range s.Bullets {
			lines = append(lines, "- "+b)
		}
	}

	return strings.Join(lines, "\n")
}

func capRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n])
}
