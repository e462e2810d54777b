package tts

import "context"

// SynthesisRequest is one narration chunk. PreviousText and NextText are
// continuity hints so prosody stays consistent across chunk boundaries;
// the engine never sees the full document.
type SynthesisRequest struct {
	Text         string
	VoiceID      string
	Speed        float64
	PreviousText string
	NextText     string
}

// Engine is the external speech synthesis and voice cloning service.
type Engine interface {
	// Synthesize converts one text chunk into encoded audio bytes.
	Synthesize(ctx context.Context, req SynthesisRequest) ([]byte, error)

	// CreateVoice clones a voice from a user-submitted audio sample and
	// returns the engine-assigned voice id.
	CreateVoice(ctx context.Context, name string, sample []byte) (string, error)
}

// StockVoice maps a stable catalog key to an engine voice id.
type StockVoice struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	EngineID string `json:"-"`
}

var stockVoices = []StockVoice{
	{Key: "rachel", Name: "Rachel", EngineID: "21m00Tcm4TlvDq8ikWAM"},
	{Key: "adam", Name: "Adam", EngineID: "pNInz6obpgDQGcFmaJgB"},
	{Key: "bella", Name: "Bella", EngineID: "EXAVITQu4vr4xnSDxMaL"},
	{Key: "daniel", Name: "Daniel", EngineID: "onwK4e9ZLuTAKqWW03F9"},
	{Key: "charlotte", Name: "Charlotte", EngineID: "XB0fDUnXU5powFXDhCwa"},
}

// StockVoices lists the catalog of built-in narration voices.
func StockVoices() []StockVoice {
	out := make([]StockVoice, len(stockVoices))
	copy(out, stockVoices)
	return out
}

// ResolveStockVoice looks up a catalog key.
func ResolveStockVoice(key string) (StockVoice, bool) {
	for _, v := range stockVoices {
		if v.Key == key {
			return v, true
		}
	}
	return StockVoice{}, false
}
