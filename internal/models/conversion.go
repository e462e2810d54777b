package models

import (
	"time"

	"gorm.io/gorm"
)

type ConversionStatus string

const (
	ConversionPending    ConversionStatus = "pending"
	ConversionParsing    ConversionStatus = "parsing"
	ConversionConverting ConversionStatus = "converting"
	ConversionEncoding   ConversionStatus = "encoding"
	ConversionDone       ConversionStatus = "done"
	ConversionFailed     ConversionStatus = "failed"
)

// ChapterMeta is the timing record for one narrated chapter.
type ChapterMeta struct {
	Title           string  `json:"title"`
	StartSeconds    float64 `json:"startSeconds"`
	DurationSeconds float64 `json:"durationSeconds"`
}

type ChapterList []ChapterMeta

// ConversionJob tracks one document's end-to-end narration. Rows are
// mutated only by the synthesis pipeline and never deleted here.
type ConversionJob struct {
	ID                   string           `gorm:"primaryKey;size:36" json:"id"`
	UserID               uint             `gorm:"index" json:"-"`
	Filename             string           `gorm:"size:512" json:"filename"`
	VoiceID              string           `gorm:"size:128" json:"voiceId"`
	VoiceName            string           `gorm:"size:128" json:"voiceName,omitempty"`
	Speed                float64          `json:"speed"`
	Status               ConversionStatus `gorm:"size:32" json:"status"`
	Progress             int              `json:"progress"` // 0-100
	TotalSegments        int              `json:"totalSegments"`
	Chapters             ChapterList      `gorm:"serializer:json;type:text" json:"chapters"`
	AudioKey             string           `gorm:"size:1024" json:"audioKey,omitempty"`
	TotalDurationSeconds float64          `json:"totalDurationSeconds"`
	ErrorMessage         string           `gorm:"type:text" json:"errorMessage,omitempty"`
	CreatedAt            time.Time        `json:"createdAt"`
	UpdatedAt            time.Time        `json:"updatedAt"`
}

// IsTerminal reports whether the job reached done or failed.
func (j *ConversionJob) IsTerminal() bool {
	return j.Status == ConversionDone || j.Status == ConversionFailed
}

type VoiceCloneStatus string

const (
	ClonePending    VoiceCloneStatus = "pending"
	CloneProcessing VoiceCloneStatus = "processing"
	CloneReady      VoiceCloneStatus = "ready"
	CloneFailed     VoiceCloneStatus = "failed"
)

// VoiceClone records a user-submitted voice sample and the engine voice
// created from it. Only ready clones are usable by conversion.
type VoiceClone struct {
	ID            string           `gorm:"primaryKey;size:36" json:"id"`
	UserID        uint             `gorm:"index" json:"-"`
	Name          string           `gorm:"size:128" json:"name"`
	EngineVoiceID string           `gorm:"size:128" json:"engineVoiceId,omitempty"`
	SampleKey     string           `gorm:"size:1024" json:"-"`
	Status        VoiceCloneStatus `gorm:"size:32" json:"status"`
	ErrorMessage  string           `gorm:"type:text" json:"errorMessage,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// Migrate creates or updates the schema for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &ConversionJob{}, &VoiceClone{})
}
