package jobs

import (
	"context"
	"fmt"
	"time"

	"AudioFolio/internal/models"
	"AudioFolio/internal/synthesize"
	"AudioFolio/internal/tts"
	"AudioFolio/pkg/metrics"
	stores "AudioFolio/pkg/storage"

	"go.uber.org/zap"
)

// DocumentKey is the storage location of the uploaded source document.
func DocumentKey(userID uint, jobID, filename string) string {
	return fmt.Sprintf("users/%d/documents/%s/%s", userID, jobID, filename)
}

// AudioKey is the storage location of the assembled audiobook.
func AudioKey(userID uint, jobID string) string {
	return fmt.Sprintf("users/%d/audiobooks/%s.mp3", userID, jobID)
}

// Pipeline runs the background half of a conversion: synthesis, assembly
// and upload. Any failure past this point is recorded on the job record;
// the triggering request has long since returned, so the poller is the
// only way callers learn about it.
type Pipeline struct {
	tracker *Tracker
	engine  tts.Engine
	store   stores.Store
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewPipeline(tracker *Tracker, engine tts.Engine, store stores.Store, logger *zap.Logger, m *metrics.Metrics) *Pipeline {
	return &Pipeline{
		tracker: tracker,
		engine:  engine,
		store:   store,
		logger:  logger,
		metrics: m,
	}
}

func (p *Pipeline) Run(ctx context.Context, task *Task) {
	start := time.Now()
	log := p.logger.With(zap.String("job", task.JobID))

	var chapters models.ChapterList
	sink := func(pr synthesize.Progress) error {
		chapters = append(chapters, pr.Chapter)
		if err := p.tracker.SetProgress(task.JobID, pr.Progress, chapters); err != nil {
			log.Warn("progress write failed", zap.Error(err))
			return err
		}
		return nil
	}

	buffers, _, totalDuration, err := synthesize.Run(ctx, p.engine, task.Segments, task.VoiceID, task.Speed, sink)
	if err != nil {
		p.fail(ctx, task, fmt.Sprintf("synthesis failed: %v", err), log)
		return
	}
	if p.metrics != nil {
		p.metrics.SegmentsTotal.Add(float64(len(buffers)))
	}

	audio, err := synthesize.Assemble(buffers)
	if err != nil {
		p.fail(ctx, task, fmt.Sprintf("assembly failed: %v", err), log)
		return
	}

	audioKey := AudioKey(task.UserID, task.JobID)
	if err := p.store.Upload(ctx, audioKey, audio, "audio/mpeg"); err != nil {
		// an upload failure must not leave the job looking successful
		p.fail(ctx, task, fmt.Sprintf("audio upload failed: %v", err), log)
		return
	}

	if err := p.tracker.Complete(task.JobID, audioKey, totalDuration, chapters); err != nil {
		log.Error("completion write failed", zap.Error(err))
		return
	}
	if p.metrics != nil {
		p.metrics.JobsFinishedTotal.WithLabelValues(string(models.ConversionDone)).Inc()
		p.metrics.SynthesisDuration.Observe(time.Since(start).Seconds())
	}
	log.Info("conversion finished",
		zap.Int("segments", len(task.Segments)),
		zap.Float64("durationSeconds", totalDuration))
}

func (p *Pipeline) fail(ctx context.Context, task *Task, message string, log *zap.Logger) {
	log.Error("conversion failed", zap.String("reason", message))
	if err := p.tracker.Fail(task.JobID, message); err != nil {
		log.Error("failure write failed", zap.Error(err))
	}
	// a failed job is never retried, so its source document is dead weight
	if task.Filename != "" {
		if err := p.store.Delete(ctx, DocumentKey(task.UserID, task.JobID, task.Filename)); err != nil {
			log.Warn("source document cleanup failed", zap.Error(err))
		}
	}
	if p.metrics != nil {
		p.metrics.JobsFinishedTotal.WithLabelValues(string(models.ConversionFailed)).Inc()
	}
}
