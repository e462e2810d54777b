package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"AudioFolio/internal/models"
	"AudioFolio/pkg/errors"
)

// Overrides lets the caller replace any derived metadata field. Empty
// fields keep their defaults.
type Overrides struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	Narrator  string `json:"narrator"`
	Language  string `json:"language"`
	Publisher string `json:"publisher"`
	ISBN      string `json:"isbn"`
}

type AudioFormat struct {
	Codec        string `json:"codec"`
	SampleRateHz int    `json:"sampleRateHz"`
	BitrateKbps  int    `json:"bitrateKbps"`
	Channels     string `json:"channels"`
}

type ChapterEntry struct {
	Index           int     `json:"index"`
	Title           string  `json:"title"`
	Start           string  `json:"start"`
	StartSeconds    float64 `json:"startSeconds"`
	End             string  `json:"end"`
	EndSeconds      float64 `json:"endSeconds"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"durationSeconds"`
}

// PlatformRequirements is static reference text for audiobook publishing
// platforms, not measured from the produced audio.
type PlatformRequirements struct {
	PeakLevel  string `json:"peakLevel"`
	RMSRange   string `json:"rmsRange"`
	NoiseFloor string `json:"noiseFloor"`
	Format     string `json:"format"`
	Structure  string `json:"structure"`
}

type AudiobookMetadata struct {
	Title                string               `json:"title"`
	Author               string               `json:"author"`
	Narrator             string               `json:"narrator"`
	Language             string               `json:"language"`
	Publisher            string               `json:"publisher"`
	ISBN                 string               `json:"isbn,omitempty"`
	TotalDuration        string               `json:"totalDuration"`
	TotalDurationSeconds float64              `json:"totalDurationSeconds"`
	AudioURL             string               `json:"audioUrl,omitempty"`
	Format               AudioFormat          `json:"format"`
	Chapters             []ChapterEntry       `json:"chapters"`
	PlatformRequirements PlatformRequirements `json:"platformRequirements"`
}

// Metadata derives the publisher-ready record from a finished conversion.
// audioURL points at the assembled file in object storage; empty omits
// the field. Fails with NotReady for any non-done job.
func Metadata(job *models.ConversionJob, ov Overrides, audioURL string) (*AudiobookMetadata, error) {
	if job.Status != models.ConversionDone {
		return nil, errors.WithCodef(errors.CodeNotReady, "conversion %s is %s, not done", job.ID, job.Status)
	}

	title := ov.Title
	if title == "" {
		title = titleFromFilename(job.Filename)
	}
	narrator := ov.Narrator
	if narrator == "" {
		narrator = job.VoiceName
	}
	if narrator == "" {
		narrator = "AI Narrator"
	}

	meta := &AudiobookMetadata{
		Title:                title,
		Author:               defaultString(ov.Author, "Unknown Author"),
		Narrator:             narrator,
		Language:             defaultString(ov.Language, "en"),
		Publisher:            defaultString(ov.Publisher, "Self-Published"),
		ISBN:                 ov.ISBN,
		TotalDuration:        formatHMS(job.TotalDurationSeconds),
		TotalDurationSeconds: job.TotalDurationSeconds,
		AudioURL:             audioURL,
		Format: AudioFormat{
			Codec:        "MP3",
			SampleRateHz: 44100,
			BitrateKbps:  128,
			Channels:     "mono",
		},
		PlatformRequirements: PlatformRequirements{
			PeakLevel:  "-3 dB maximum",
			RMSRange:   "-23 dB to -18 dB",
			NoiseFloor: "-60 dB RMS maximum",
			Format:     "CBR MP3, 192 kbps or higher, 44.1 kHz",
			Structure:  "opening and closing credits; one file per chapter; room tone of 1-5 seconds at section breaks",
		},
	}

	for i, ch := range job.Chapters {
		end := ch.StartSeconds + ch.DurationSeconds
		meta.Chapters = append(meta.Chapters, ChapterEntry{
			Index:           i + 1,
			Title:           ch.Title,
			Start:           formatHMS(ch.StartSeconds),
			StartSeconds:    ch.StartSeconds,
			End:             formatHMS(end),
			EndSeconds:      end,
			Duration:        formatHMS(ch.DurationSeconds),
			DurationSeconds: ch.DurationSeconds,
		})
	}
	return meta, nil
}

func titleFromFilename(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	base = strings.TrimSpace(base)
	if base == "" {
		return "Untitled Audiobook"
	}
	return base
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func formatHMS(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
