package export

import (
	"testing"

	"AudioFolio/internal/models"
	"AudioFolio/pkg/errors"

	"github.com/stretchr/testify/require"
)

func doneJob() *models.ConversionJob {
	return &models.ConversionJob{
		ID:       "job-1",
		Filename: "my_great_novel.txt",
		Status:   models.ConversionDone,
		Chapters: models.ChapterList{
			{Title: "Chapter 1", StartSeconds: 0, DurationSeconds: 3725},
			{Title: "Chapter 2", StartSeconds: 3725, DurationSeconds: 61},
		},
		TotalDurationSeconds: 3786,
	}
}

func TestMetadataNotReady(t *testing.T) {
	for _, status := range []models.ConversionStatus{
		models.ConversionPending,
		models.ConversionConverting,
		models.ConversionFailed,
	} {
		job := doneJob()
		job.Status = status
		_, err := Metadata(job, Overrides{}, "")
		require.True(t, errors.HasCode(err, errors.CodeNotReady), "status %s must be NotReady", status)
	}
}

func TestMetadataDefaults(t *testing.T) {
	meta, err := Metadata(doneJob(), Overrides{}, "")
	require.NoError(t, err)

	require.Equal(t, "my great novel", meta.Title)
	require.Equal(t, "Unknown Author", meta.Author)
	require.Equal(t, "AI Narrator", meta.Narrator)
	require.Equal(t, "en", meta.Language)
	require.Equal(t, "01:03:06", meta.TotalDuration)
	require.Equal(t, 3786.0, meta.TotalDurationSeconds)

	require.Equal(t, "MP3", meta.Format.Codec)
	require.Equal(t, 44100, meta.Format.SampleRateHz)
	require.Equal(t, 128, meta.Format.BitrateKbps)
	require.Equal(t, "mono", meta.Format.Channels)
	require.NotEmpty(t, meta.PlatformRequirements.PeakLevel)
}

func TestMetadataAudioURL(t *testing.T) {
	meta, err := Metadata(doneJob(), Overrides{}, "https://cdn.example.com/users/7/audiobooks/job-1.mp3")
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/users/7/audiobooks/job-1.mp3", meta.AudioURL)

	bare, err := Metadata(doneJob(), Overrides{}, "")
	require.NoError(t, err)
	require.Empty(t, bare.AudioURL)
}

func TestMetadataNarratorFromVoice(t *testing.T) {
	job := doneJob()
	job.VoiceName = "Rachel"
	meta, err := Metadata(job, Overrides{}, "")
	require.NoError(t, err)
	require.Equal(t, "Rachel", meta.Narrator)
}

func TestMetadataChapters(t *testing.T) {
	meta, err := Metadata(doneJob(), Overrides{}, "")
	require.NoError(t, err)
	require.Len(t, meta.Chapters, 2)

	first := meta.Chapters[0]
	require.Equal(t, 1, first.Index)
	require.Equal(t, "Chapter 1", first.Title)
	require.Equal(t, "00:00:00", first.Start)
	require.Equal(t, "01:02:05", first.End)
	require.Equal(t, 3725.0, first.EndSeconds)

	second := meta.Chapters[1]
	require.Equal(t, 2, second.Index)
	require.Equal(t, "01:02:05", second.Start)
	require.Equal(t, "01:03:06", second.End)
	require.Equal(t, "00:01:01", second.Duration)
}

func TestMetadataOverrides(t *testing.T) {
	meta, err := Metadata(doneJob(), Overrides{
		Title:    "The Real Title",
		Author:   "Jane Writer",
		Narrator: "Studio Voice",
		Language: "de",
		ISBN:     "978-3-16-148410-0",
	}, "")
	require.NoError(t, err)
	require.Equal(t, "The Real Title", meta.Title)
	require.Equal(t, "Jane Writer", meta.Author)
	require.Equal(t, "Studio Voice", meta.Narrator)
	require.Equal(t, "de", meta.Language)
	require.Equal(t, "978-3-16-148410-0", meta.ISBN)
}
