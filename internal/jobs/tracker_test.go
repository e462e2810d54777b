package jobs

import (
	"testing"

	"AudioFolio/internal/models"
	"AudioFolio/pkg/errors"
	"AudioFolio/pkg/util"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := util.InitDatabase(nil, "", "")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps the in-memory database shared
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, models.Migrate(db))
	return db
}

func newJob(t *testing.T, tracker *Tracker) *models.ConversionJob {
	t.Helper()
	job := &models.ConversionJob{
		ID:       "job-1",
		UserID:   7,
		Filename: "book.txt",
		VoiceID:  "voice-1",
		Speed:    1.0,
	}
	require.NoError(t, tracker.Create(job))
	return job
}

func TestTrackerLifecycle(t *testing.T) {
	tracker := NewTracker(testDB(t))
	newJob(t, tracker)

	job, err := tracker.Get("job-1", 7)
	require.NoError(t, err)
	require.Equal(t, models.ConversionPending, job.Status)

	require.NoError(t, tracker.MarkParsing("job-1"))
	skeleton := models.ChapterList{{Title: "Chapter 1"}, {Title: "Chapter 2"}}
	require.NoError(t, tracker.MarkConverting("job-1", 2, skeleton))

	job, err = tracker.Get("job-1", 7)
	require.NoError(t, err)
	require.Equal(t, models.ConversionConverting, job.Status)
	require.Equal(t, 20, job.Progress)
	require.Equal(t, 2, job.TotalSegments)
	require.Len(t, job.Chapters, 2)

	chapters := models.ChapterList{{Title: "Chapter 1", StartSeconds: 0, DurationSeconds: 2}}
	require.NoError(t, tracker.SetProgress("job-1", 55, chapters))

	final := append(chapters, models.ChapterMeta{Title: "Chapter 2", StartSeconds: 2, DurationSeconds: 3})
	require.NoError(t, tracker.Complete("job-1", "users/7/audiobooks/job-1.mp3", 5, final))

	job, err = tracker.Get("job-1", 7)
	require.NoError(t, err)
	require.Equal(t, models.ConversionDone, job.Status)
	require.Equal(t, 100, job.Progress)
	require.Equal(t, "users/7/audiobooks/job-1.mp3", job.AudioKey)
	require.Equal(t, 5.0, job.TotalDurationSeconds)
	require.Len(t, job.Chapters, 2)
	require.True(t, job.IsTerminal())
}

func TestTrackerFailedIsTerminal(t *testing.T) {
	tracker := NewTracker(testDB(t))
	newJob(t, tracker)

	require.NoError(t, tracker.MarkParsing("job-1"))
	require.NoError(t, tracker.Fail("job-1", "tts request failed with status 500"))

	// no later write may move a failed job
	require.NoError(t, tracker.SetProgress("job-1", 80, nil))
	require.NoError(t, tracker.Complete("job-1", "somewhere", 10, nil))

	job, err := tracker.Get("job-1", 7)
	require.NoError(t, err)
	require.Equal(t, models.ConversionFailed, job.Status)
	require.Equal(t, 0, job.Progress)
	require.Empty(t, job.AudioKey)
	require.Equal(t, "tts request failed with status 500", job.ErrorMessage)
}

func TestTrackerProgressMonotonic(t *testing.T) {
	tracker := NewTracker(testDB(t))
	newJob(t, tracker)
	require.NoError(t, tracker.MarkConverting("job-1", 3, nil))

	require.NoError(t, tracker.SetProgress("job-1", 60, nil))
	require.NoError(t, tracker.SetProgress("job-1", 40, nil)) // stale write

	job, err := tracker.Get("job-1", 7)
	require.NoError(t, err)
	require.Equal(t, 60, job.Progress)
}

func TestTrackerOwnershipAndNotFound(t *testing.T) {
	tracker := NewTracker(testDB(t))
	newJob(t, tracker)

	_, err := tracker.Get("job-1", 99)
	require.True(t, errors.HasCode(err, errors.CodeNotFound), "other users' jobs must read as not found")

	_, err = tracker.Get("missing", 7)
	require.True(t, errors.HasCode(err, errors.CodeNotFound))
}
