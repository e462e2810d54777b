package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"AudioFolio/internal/export"
	"AudioFolio/internal/extract"
	"AudioFolio/internal/jobs"
	"AudioFolio/internal/models"
	"AudioFolio/internal/segment"
	"AudioFolio/pkg/errors"
	"AudioFolio/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// statusCacheTTL keeps the poll read path off the database for a moment;
// it must stay well under the client's 3s poll interval.
const statusCacheTTL = 1 * time.Second

// handleStartConversion accepts a document, extracts and segments it
// synchronously, then hands synthesis to the worker queue and returns.
func (h *Handlers) handleStartConversion(c *gin.Context) {
	user := models.CurrentUser(c)

	if h.cfg.TTSAPIKey == "" {
		response.Error(c, errors.WithCode(errors.CodeConfigurationErr, "tts credential is not configured"))
		return
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		response.Fail(c, "missing document upload", nil)
		return
	}
	voiceKey := c.PostForm("voiceId")
	if voiceKey == "" {
		response.Fail(c, "missing voiceId", nil)
		return
	}
	speed := cast.ToFloat64(c.DefaultPostForm("speed", "1.0"))
	if speed < 0.5 || speed > 2.0 {
		response.Fail(c, "speed must be between 0.5 and 2.0", nil)
		return
	}

	engineVoiceID, voiceName, err := h.resolveVoice(user, voiceKey)
	if err != nil {
		response.Error(c, err)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.Fail(c, "unreadable document upload", nil)
		return
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		response.Fail(c, "unreadable document upload", nil)
		return
	}

	// extraction and segmentation failures abort before any job exists,
	// so the caller gets a synchronous error
	text, err := extract.Text(data, fileHeader.Filename)
	if err != nil {
		response.Error(c, err)
		return
	}
	segments := segment.Split(text)

	jobID := uuid.NewString()
	docKey := jobs.DocumentKey(user.ID, jobID, fileHeader.Filename)
	if err := h.store.Upload(c.Request.Context(), docKey, data, fileHeader.Header.Get("Content-Type")); err != nil {
		response.Error(c, err)
		return
	}

	job := &models.ConversionJob{
		ID:        jobID,
		UserID:    user.ID,
		Filename:  fileHeader.Filename,
		VoiceID:   engineVoiceID,
		VoiceName: voiceName,
		Speed:     speed,
		Status:    models.ConversionPending,
	}
	if err := h.tracker.Create(job); err != nil {
		response.Error(c, err)
		return
	}
	if err := h.tracker.MarkParsing(jobID); err != nil {
		response.Error(c, err)
		return
	}

	skeleton := make(models.ChapterList, 0, len(segments))
	for _, seg := range segments {
		skeleton = append(skeleton, models.ChapterMeta{Title: seg.Title})
	}
	if err := h.tracker.MarkConverting(jobID, len(segments), skeleton); err != nil {
		response.Error(c, err)
		return
	}

	task := &jobs.Task{
		JobID:    jobID,
		UserID:   user.ID,
		Filename: fileHeader.Filename,
		VoiceID:  engineVoiceID,
		Speed:    speed,
		Segments: segments,
	}
	if err := h.queue.Enqueue(task); err != nil {
		h.tracker.Fail(jobID, err.Error())
		response.Error(c, errors.Wrap(errors.CodeConfigurationErr, err, "conversion backlog is full"))
		return
	}

	h.logger.Info("conversion accepted",
		zap.String("job", jobID),
		zap.String("filename", fileHeader.Filename),
		zap.Int("segments", len(segments)))

	response.Accepted(c, "conversion started", gin.H{
		"jobId":         jobID,
		"status":        models.ConversionConverting,
		"totalSegments": len(segments),
	})
}

// handleGetConversion is the poll target; reads go through a short cache.
func (h *Handlers) handleGetConversion(c *gin.Context) {
	user := models.CurrentUser(c)
	jobID := c.Param("id")

	cacheKey := fmt.Sprintf("job:%d:%s", user.ID, jobID)
	if v, ok := h.cache.Get(c.Request.Context(), cacheKey); ok {
		if job := cachedJob(v); job != nil {
			response.Success(c, "conversion status", job)
			return
		}
	}

	job, err := h.tracker.Get(jobID, user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.cache.Set(c.Request.Context(), cacheKey, job, statusCacheTTL)
	response.Success(c, "conversion status", job)
}

// cachedJob recovers a job snapshot from either cache backend: the local
// backend hands back the stored pointer, redis hands back JSON bytes.
func cachedJob(v interface{}) *models.ConversionJob {
	switch val := v.(type) {
	case *models.ConversionJob:
		return val
	case []byte:
		job := new(models.ConversionJob)
		if err := json.Unmarshal(val, job); err == nil {
			return job
		}
	}
	return nil
}

func (h *Handlers) handleDownloadAudio(c *gin.Context) {
	user := models.CurrentUser(c)

	job, err := h.tracker.Get(c.Param("id"), user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if job.Status != models.ConversionDone {
		response.Error(c, errors.WithCodef(errors.CodeNotReady, "conversion %s is %s, not done", job.ID, job.Status))
		return
	}

	audio, err := h.store.Download(c.Request.Context(), job.AudioKey)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", job.ID+".mp3"))
	c.Data(200, "audio/mpeg", audio)
}

func (h *Handlers) handleExportMetadata(c *gin.Context) {
	user := models.CurrentUser(c)

	var overrides export.Overrides
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&overrides); err != nil {
			response.Fail(c, "invalid overrides", nil)
			return
		}
	}

	job, err := h.tracker.Get(c.Param("id"), user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	meta, err := export.Metadata(job, overrides, h.store.PublicURL(job.AudioKey))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, "audiobook metadata", meta)
}
