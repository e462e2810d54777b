package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"AudioFolio/pkg/errors"

	"go.uber.org/zap"
)

// Narration voice shaping, tuned for long-form reading.
const (
	modelID            = "eleven_multilingual_v2"
	voiceStability     = 0.5
	voiceSimilarity    = 0.75
	voiceStyle         = 0.0
	useSpeakerBoost    = true
	outputFormat       = "mp3_44100_128"
	synthesisTimeout   = 2 * time.Minute
	voiceCloneTimeout  = 5 * time.Minute
	defaultSpeedFactor = 1.0
)

// ElevenLabs calls an ElevenLabs-compatible HTTP API.
type ElevenLabs struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewElevenLabs(apiKey, baseURL string, logger *zap.Logger) *ElevenLabs {
	return &ElevenLabs{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: synthesisTimeout},
		logger:  logger,
	}
}

func (e *ElevenLabs) Synthesize(ctx context.Context, req SynthesisRequest) ([]byte, error) {
	settings := map[string]interface{}{
		"stability":         voiceStability,
		"similarity_boost":  voiceSimilarity,
		"style":             voiceStyle,
		"use_speaker_boost": useSpeakerBoost,
	}
	// the engine's default path differs slightly from an explicit 1.0,
	// so speed is only sent when the caller asked for something else
	if req.Speed != 0 && req.Speed != defaultSpeedFactor {
		settings["speed"] = req.Speed
	}

	payload := map[string]interface{}{
		"text":           req.Text,
		"model_id":       modelID,
		"voice_settings": settings,
	}
	if req.PreviousText != "" {
		payload["previous_text"] = req.PreviousText
	}
	if req.NextText != "" {
		payload["next_text"] = req.NextText
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=%s", e.baseURL, req.VoiceID, outputFormat)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("xi-api-key", e.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(errors.CodeSynthesisError, err, "tts request failed")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.CodeSynthesisError, err, "read tts response")
	}
	if resp.StatusCode != http.StatusOK {
		e.logger.Warn("tts request rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("voice", req.VoiceID))
		return nil, errors.Synthesis(resp.StatusCode, string(data))
	}
	return data, nil
}

func (e *ElevenLabs) CreateVoice(ctx context.Context, name string, sample []byte) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("name", name); err != nil {
		return "", fmt.Errorf("failed to write form field: %w", err)
	}
	part, err := writer.CreateFormFile("files", "sample.mp3")
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(sample); err != nil {
		return "", fmt.Errorf("failed to write sample: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finish form: %w", err)
	}

	url := e.baseURL + "/v1/voices/add"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("xi-api-key", e.apiKey)
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	client := &http.Client{Timeout: voiceCloneTimeout}
	resp, err := client.Do(httpReq)
	if err != nil {
		return "", errors.Wrap(errors.CodeSynthesisError, err, "voice clone request failed")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(errors.CodeSynthesisError, err, "read clone response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.Synthesis(resp.StatusCode, string(data))
	}

	var parsed struct {
		VoiceID string `json:"voice_id"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode clone response: %w", err)
	}
	if parsed.VoiceID == "" {
		return "", errors.Synthesis(resp.StatusCode, "clone response missing voice_id")
	}
	return parsed.VoiceID, nil
}
