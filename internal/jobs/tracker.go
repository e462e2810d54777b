package jobs

import (
	stderrors "errors"

	"AudioFolio/internal/models"
	"AudioFolio/pkg/errors"

	"gorm.io/gorm"
)

// terminalStatuses are never transitioned out of.
var terminalStatuses = []models.ConversionStatus{
	models.ConversionDone,
	models.ConversionFailed,
}

// Tracker is the persisted conversion state machine. Every transition is
// one partial Updates call so readers never see status and its paired
// fields disagree, and no write can touch a terminal job.
type Tracker struct {
	db *gorm.DB
}

func NewTracker(db *gorm.DB) *Tracker {
	return &Tracker{db: db}
}

// Create inserts a freshly accepted job.
func (t *Tracker) Create(job *models.ConversionJob) error {
	if job.Status == "" {
		job.Status = models.ConversionPending
	}
	if err := t.db.Create(job).Error; err != nil {
		return errors.Wrap(errors.CodeStorageError, err, "insert conversion job")
	}
	return nil
}

// Get returns a snapshot of one job owned by userID.
func (t *Tracker) Get(id string, userID uint) (*models.ConversionJob, error) {
	var job models.ConversionJob
	err := t.db.Where("id = ? AND user_id = ?", id, userID).First(&job).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.WithCodef(errors.CodeNotFound, "conversion job not found: %s", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.CodeStorageError, err, "load conversion job")
	}
	return &job, nil
}

// update applies fields to a non-terminal job in a single statement.
func (t *Tracker) update(id string, fields map[string]interface{}) error {
	res := t.db.Model(&models.ConversionJob{}).
		Where("id = ? AND status NOT IN ?", id, terminalStatuses).
		Updates(fields)
	if res.Error != nil {
		return errors.Wrap(errors.CodeStorageError, res.Error, "update conversion job")
	}
	return nil
}

// MarkParsing moves an accepted job into text extraction.
func (t *Tracker) MarkParsing(id string) error {
	return t.update(id, map[string]interface{}{
		"status": models.ConversionParsing,
	})
}

// MarkConverting records the chapter skeleton and enters synthesis.
func (t *Tracker) MarkConverting(id string, totalSegments int, chapters models.ChapterList) error {
	return t.update(id, map[string]interface{}{
		"status":         models.ConversionConverting,
		"progress":       20,
		"total_segments": totalSegments,
		"chapters":       chapters,
	})
}

// SetProgress advances progress and the incrementally built chapter list.
// Progress never moves backwards.
func (t *Tracker) SetProgress(id string, progress int, chapters models.ChapterList) error {
	res := t.db.Model(&models.ConversionJob{}).
		Where("id = ? AND status NOT IN ? AND progress <= ?", id, terminalStatuses, progress).
		Updates(map[string]interface{}{
			"status":   models.ConversionConverting,
			"progress": progress,
			"chapters": chapters,
		})
	if res.Error != nil {
		return errors.Wrap(errors.CodeStorageError, res.Error, "update progress")
	}
	return nil
}

// Complete marks the job done together with everything done implies.
func (t *Tracker) Complete(id, audioKey string, totalDuration float64, chapters models.ChapterList) error {
	return t.update(id, map[string]interface{}{
		"status":                 models.ConversionDone,
		"progress":               100,
		"audio_key":              audioKey,
		"total_duration_seconds": totalDuration,
		"chapters":               chapters,
	})
}

// Fail marks the job failed with a diagnostic message. Terminal.
func (t *Tracker) Fail(id, message string) error {
	return t.update(id, map[string]interface{}{
		"status":        models.ConversionFailed,
		"error_message": message,
	})
}
