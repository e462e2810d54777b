package synthesize

import (
	"context"
	"math"
	"unicode/utf8"

	"AudioFolio/internal/models"
	"AudioFolio/internal/segment"
	"AudioFolio/internal/tts"
	"AudioFolio/pkg/errors"
)

// contextChars is how much neighboring text is sent to the engine as a
// prosody continuity hint.
const contextChars = 200

// bytesPerSecond approximates spoken duration for 128 kbit/s CBR audio.
// Close enough for chapter offsets without decoding the stream.
const bytesPerSecond = 16000

// Progress is pushed to the sink after every completed segment; it is
// what the polling client eventually observes.
type Progress struct {
	Status        models.ConversionStatus
	Progress      int
	Chapter       models.ChapterMeta
	SegmentIndex  int
	TotalSegments int
}

// Sink receives per-segment progress. A sink error does not abort the
// loop; synthesis results matter more than a missed progress write.
type Sink func(Progress) error

// Run synthesizes every segment in order against the engine and returns
// the per-segment audio buffers, chapter timing and total duration.
// Segments are strictly sequential: context hints come from neighbors
// and chapter offsets accumulate prior durations. A single failed chunk
// aborts the whole run.
func Run(ctx context.Context, engine tts.Engine, segs []segment.Segment, voiceID string, speed float64, sink Sink) ([][]byte, models.ChapterList, float64, error) {
	buffers := make([][]byte, 0, len(segs))
	chapters := make(models.ChapterList, 0, len(segs))
	total := 0.0

	for i, seg := range segs {
		req := tts.SynthesisRequest{
			Text:    seg.Content,
			VoiceID: voiceID,
			Speed:   speed,
		}
		if i > 0 {
			req.PreviousText = trailingChars(segs[i-1].Content, contextChars)
		}
		if i+1 < len(segs) {
			req.NextText = leadingChars(segs[i+1].Content, contextChars)
		}

		audio, err := engine.Synthesize(ctx, req)
		if err != nil {
			return nil, chapters, total, err
		}

		duration := float64(len(audio)) / bytesPerSecond
		chapter := models.ChapterMeta{
			Title:           seg.Title,
			StartSeconds:    total,
			DurationSeconds: duration,
		}
		buffers = append(buffers, audio)
		chapters = append(chapters, chapter)
		total += duration

		if sink != nil {
			sink(Progress{
				Status:        models.ConversionConverting,
				Progress:      progressFor(i+1, len(segs)),
				Chapter:       chapter,
				SegmentIndex:  i,
				TotalSegments: len(segs),
			})
		}
	}
	return buffers, chapters, total, nil
}

// progressFor maps completed segments onto the 20-90 band: extraction
// and setup own the first 20 points, synthesis the next 70, and the
// remainder is head-room for assembly and upload.
func progressFor(completed, total int) int {
	return 20 + int(math.Round(float64(completed)/float64(total)*70))
}

// Assemble concatenates segment audio back to back, no re-encoding and
// no gap insertion.
func Assemble(buffers [][]byte) ([]byte, error) {
	if len(buffers) == 0 {
		return nil, errors.WithCode(errors.CodeAssemblyError, "no audio buffers to assemble")
	}
	size := 0
	for _, b := range buffers {
		size += len(b)
	}
	out := make([]byte, 0, size)
	for _, b := range buffers {
		out = append(out, b...)
	}
	return out, nil
}

func trailingChars(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := len(s) - n
	for cut < len(s) && !utf8.RuneStart(s[cut]) {
		cut++
	}
	return s[cut:]
}

func leadingChars(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
