package handlers

import (
	"context"
	"fmt"
	"io"
	"time"

	"AudioFolio/internal/models"
	"AudioFolio/internal/tts"
	"AudioFolio/pkg/errors"
	"AudioFolio/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// handleListVoices returns the stock catalog plus the caller's ready clones.
func (h *Handlers) handleListVoices(c *gin.Context) {
	user := models.CurrentUser(c)

	var clones []models.VoiceClone
	if err := h.db.Where("user_id = ? AND status = ?", user.ID, models.CloneReady).Find(&clones).Error; err != nil {
		response.Fail(c, "can not load voice clones", nil)
		return
	}

	response.Success(c, "available voices", gin.H{
		"stock":  tts.StockVoices(),
		"clones": clones,
	})
}

// handleStartVoiceClone stores the sample, records the clone as pending
// and runs the engine call in the background; clients poll for ready.
func (h *Handlers) handleStartVoiceClone(c *gin.Context) {
	user := models.CurrentUser(c)

	name := c.PostForm("name")
	if name == "" {
		response.Fail(c, "missing voice name", nil)
		return
	}
	fileHeader, err := c.FormFile("sample")
	if err != nil {
		response.Fail(c, "missing sample upload", nil)
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		response.Fail(c, "unreadable sample upload", nil)
		return
	}
	sample, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		response.Fail(c, "unreadable sample upload", nil)
		return
	}

	cloneID := uuid.NewString()
	sampleKey := fmt.Sprintf("users/%d/samples/%s/%s", user.ID, cloneID, fileHeader.Filename)
	if err := h.store.Upload(c.Request.Context(), sampleKey, sample, fileHeader.Header.Get("Content-Type")); err != nil {
		response.Error(c, err)
		return
	}

	clone := models.VoiceClone{
		ID:        cloneID,
		UserID:    user.ID,
		Name:      name,
		SampleKey: sampleKey,
		Status:    models.ClonePending,
	}
	if err := h.db.Create(&clone).Error; err != nil {
		response.Fail(c, "can not record voice clone", nil)
		return
	}

	go h.runVoiceClone(cloneID, name, sample)

	response.Accepted(c, "voice clone started", gin.H{
		"cloneId": cloneID,
		"status":  models.ClonePending,
	})
}

func (h *Handlers) runVoiceClone(cloneID, name string, sample []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	h.db.Model(&models.VoiceClone{}).Where("id = ?", cloneID).
		Update("status", models.CloneProcessing)

	engineVoiceID, err := h.engine.CreateVoice(ctx, name, sample)
	if err != nil {
		h.logger.Error("voice clone failed", zap.String("clone", cloneID), zap.Error(err))
		h.db.Model(&models.VoiceClone{}).Where("id = ?", cloneID).
			Updates(map[string]interface{}{
				"status":        models.CloneFailed,
				"error_message": err.Error(),
			})
		return
	}

	h.db.Model(&models.VoiceClone{}).Where("id = ?", cloneID).
		Updates(map[string]interface{}{
			"status":          models.CloneReady,
			"engine_voice_id": engineVoiceID,
		})
}

func (h *Handlers) handleGetVoiceClone(c *gin.Context) {
	user := models.CurrentUser(c)

	var clone models.VoiceClone
	if err := h.db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).First(&clone).Error; err != nil {
		response.Error(c, errors.WithCodef(errors.CodeNotFound, "voice clone not found: %s", c.Param("id")))
		return
	}
	response.Success(c, "voice clone status", clone)
}

// resolveVoice maps a request voice key to an engine voice id: stock
// catalog keys first, then the caller's own ready clones by id.
func (h *Handlers) resolveVoice(user *models.User, key string) (string, string, error) {
	if stock, ok := tts.ResolveStockVoice(key); ok {
		return stock.EngineID, stock.Name, nil
	}

	var clone models.VoiceClone
	err := h.db.Where("id = ? AND user_id = ?", key, user.ID).First(&clone).Error
	if err != nil {
		return "", "", errors.WithCodef(errors.CodeNotFound, "unknown voice: %s", key)
	}
	if clone.Status != models.CloneReady {
		return "", "", errors.WithCodef(errors.CodeNotReady, "voice clone %s is %s, not ready", clone.ID, clone.Status)
	}
	return clone.EngineVoiceID, clone.Name, nil
}
