package segment

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxChunkChars bounds a single TTS request, chosen to stay under the
// engine's hard limit with margin for request overhead.
const MaxChunkChars = 4500

// minCutRatio is the floor for sentence-boundary cuts: a boundary found
// before 30% of the prefix is ignored so splits cannot degenerate into
// near-empty chunks.
const minCutRatio = 0.3

var chapterHeading = regexp.MustCompile(`(?mi)^[ \t]*chapter[ \t]+\d+.*$`)

var sentenceEnds = []string{". ", ".\n", "? ", "! "}

// Segment is one bounded slice of document text, submitted as a single
// TTS request.
type Segment struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Split divides extracted text into ordered named segments, each at most
// MaxChunkChars long. Chapter headings of the form "Chapter N ..." at
// line starts delimit raw chapters when at least two are present;
// otherwise the whole text is a single "Full Text" chapter. Oversized
// chapters are sub-split at sentence boundaries and titled "(Part n)".
// Never returns an empty list.
func Split(text string) []Segment {
	raw := rawChapters(text)

	var out []Segment
	for _, ch := range raw {
		out = append(out, subSplit(ch.Title, ch.Content)...)
	}
	if len(out) == 0 {
		out = []Segment{{Title: "Full Text", Content: strings.TrimSpace(text)}}
	}
	return out
}

func rawChapters(text string) []Segment {
	locs := chapterHeading.FindAllStringIndex(text, -1)
	if len(locs) < 2 {
		return []Segment{{Title: "Full Text", Content: strings.TrimSpace(text)}}
	}

	var chapters []Segment
	// text ahead of the first heading is kept so no content is lost
	if lead := strings.TrimSpace(text[:locs[0][0]]); lead != "" {
		chapters = append(chapters, Segment{Title: "Introduction", Content: lead})
	}
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		title := strings.TrimSpace(text[loc[0]:loc[1]])
		content := strings.TrimSpace(text[loc[0]:end])
		if content != "" {
			chapters = append(chapters, Segment{Title: title, Content: content})
		}
	}
	return chapters
}

// subSplit cuts an oversized chapter into parts of at most MaxChunkChars,
// preferring the last sentence boundary past the 30% floor of each prefix
// and falling back to a hard cut when none exists.
func subSplit(title, content string) []Segment {
	if len(content) <= MaxChunkChars {
		return []Segment{{Title: title, Content: content}}
	}

	var parts []Segment
	remainder := content
	n := 1
	for len(remainder) > MaxChunkChars {
		prefix := remainder[:MaxChunkChars]
		cut := sentenceCut(prefix)
		if cut < 0 {
			cut = hardCut(remainder, MaxChunkChars)
		}
		chunk := strings.TrimSpace(remainder[:cut])
		if chunk != "" {
			parts = append(parts, Segment{
				Title:   fmt.Sprintf("%s (Part %d)", title, n),
				Content: chunk,
			})
			n++
		}
		remainder = remainder[cut:]
	}
	if rest := strings.TrimSpace(remainder); rest != "" {
		parts = append(parts, Segment{
			Title:   fmt.Sprintf("%s (Part %d)", title, n),
			Content: rest,
		})
	}
	return parts
}

// sentenceCut returns the cut position just after the last sentence-ending
// punctuation past the floor, or -1 when no usable boundary exists.
func sentenceCut(prefix string) int {
	floor := int(float64(len(prefix)) * minCutRatio)
	best := -1
	for _, end := range sentenceEnds {
		if idx := strings.LastIndex(prefix, end); idx >= 0 {
			pos := idx + len(end)
			if idx > floor && pos > best {
				best = pos
			}
		}
	}
	return best
}

// hardCut backs a byte offset up to the nearest rune boundary.
func hardCut(s string, limit int) int {
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return limit
}
