package segment

import (
	"fmt"
	"strings"
	"testing"
)

func TestSplitChapterDetection(t *testing.T) {
	text := "Chapter 1\nIt was a dark and stormy night.\n\nChapter 2\nThe end came quickly."

	segs := Split(text)
	if len(segs) != 2 {
		t.Fatalf("Expected 2 segments, got %d", len(segs))
	}
	if segs[0].Title != "Chapter 1" || segs[1].Title != "Chapter 2" {
		t.Errorf("Unexpected titles: %q, %q", segs[0].Title, segs[1].Title)
	}
	if !strings.Contains(segs[0].Content, "stormy night") {
		t.Errorf("Chapter 1 content wrong: %q", segs[0].Content)
	}
	if !strings.Contains(segs[1].Content, "end came quickly") {
		t.Errorf("Chapter 2 content wrong: %q", segs[1].Content)
	}
}

func TestSplitCaseInsensitiveHeadings(t *testing.T) {
	text := "CHAPTER 1 The Beginning\nbody one\n\nchapter 2: The Middle\nbody two"

	segs := Split(text)
	if len(segs) != 2 {
		t.Fatalf("Expected 2 segments, got %d", len(segs))
	}
	if segs[0].Title != "CHAPTER 1 The Beginning" {
		t.Errorf("Heading should keep trailing text: %q", segs[0].Title)
	}
}

func TestSplitSingleHeadingFallsThrough(t *testing.T) {
	// one marker is not enough to treat the text as chaptered
	text := "Chapter 1\nonly one heading here"

	segs := Split(text)
	if len(segs) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(segs))
	}
	if segs[0].Title != "Full Text" {
		t.Errorf("Expected Full Text, got %q", segs[0].Title)
	}
}

func TestSplitNoHeadings(t *testing.T) {
	segs := Split("just some prose without structure")
	if len(segs) != 1 || segs[0].Title != "Full Text" {
		t.Fatalf("Expected single Full Text segment, got %+v", segs)
	}
}

func TestSplitOversizedChapter(t *testing.T) {
	sentence := "The quick brown fox jumps over the lazy dog. "
	var b strings.Builder
	for b.Len() < 3*MaxChunkChars {
		b.WriteString(sentence)
	}
	text := b.String()

	segs := Split(text)
	if len(segs) < 3 || len(segs) > 4 {
		t.Fatalf("Expected 3-4 parts for a 3x chapter, got %d", len(segs))
	}
	for i, seg := range segs {
		if len(seg.Content) > MaxChunkChars {
			t.Errorf("Part %d exceeds limit: %d chars", i, len(seg.Content))
		}
		want := fmt.Sprintf("Full Text (Part %d)", i+1)
		if seg.Title != want {
			t.Errorf("Part %d title = %q, want %q", i, seg.Title, want)
		}
		if seg.Content == "" {
			t.Errorf("Part %d is empty", i)
		}
	}
}

func TestSplitPrefersSentenceBoundary(t *testing.T) {
	sentence := "A short sentence ends here. "
	var b strings.Builder
	for b.Len() < MaxChunkChars+500 {
		b.WriteString(sentence)
	}

	segs := Split(b.String())
	if len(segs) != 2 {
		t.Fatalf("Expected 2 parts, got %d", len(segs))
	}
	if !strings.HasSuffix(segs[0].Content, ".") {
		t.Errorf("First part should end on a sentence boundary, got ...%q", segs[0].Content[len(segs[0].Content)-10:])
	}
}

func TestSplitHardCutWithoutPunctuation(t *testing.T) {
	text := strings.Repeat("x", MaxChunkChars+100)

	segs := Split(text)
	if len(segs) != 2 {
		t.Fatalf("Expected 2 parts, got %d", len(segs))
	}
	if len(segs[0].Content) != MaxChunkChars {
		t.Errorf("Hard cut should be at the limit, got %d", len(segs[0].Content))
	}
}

func TestSplitPreservesContent(t *testing.T) {
	text := "Chapter 1\nalpha beta gamma.\n\nChapter 2\ndelta epsilon zeta."

	segs := Split(text)
	joined := ""
	for _, seg := range segs {
		joined += seg.Content
	}
	// boundary whitespace is trimmed, nothing else may be lost
	for _, word := range []string{"alpha", "gamma", "delta", "zeta", "Chapter 1", "Chapter 2"} {
		if !strings.Contains(joined, word) {
			t.Errorf("Content lost across split: %q missing", word)
		}
	}
}

func TestSplitKeepsTextBeforeFirstHeading(t *testing.T) {
	text := "A preface paragraph.\n\nChapter 1\none\n\nChapter 2\ntwo"

	segs := Split(text)
	if len(segs) != 3 {
		t.Fatalf("Expected 3 segments, got %d", len(segs))
	}
	if segs[0].Title != "Introduction" || !strings.Contains(segs[0].Content, "preface") {
		t.Errorf("Preamble segment wrong: %+v", segs[0])
	}
}

func TestSplitNeverReturnsEmpty(t *testing.T) {
	if segs := Split(""); len(segs) != 1 {
		t.Fatalf("Expected degenerate single segment, got %d", len(segs))
	}
}
