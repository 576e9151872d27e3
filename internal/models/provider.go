package models

import "time"

// ProviderInfo describes one synthesis provider's registry entry,
// including its current availability in the fallback chain.
type ProviderInfo struct {
	Name            string     `json:"name"`
	Available       bool       `json:"available"`
	DisabledReason  string     `json:"disabled_reason,omitempty"`
	LastFailureTime *time.Time `json:"last_failure_time,omitempty"`
}

// SynthesisRequest carries everything a provider needs to render text
// to speech.
type SynthesisRequest struct {
	Text     string  `json:"text"`
	Voice    string  `json:"voice,omitempty"`
	Speed    float64 `json:"speed,omitempty"`
	Pitch    float64 `json:"pitch,omitempty"`
	Format   string  `json:"format,omitempty"`
	Language string  `json:"language,omitempty"`
}

// AudioResult is what synthesis produced for one slide.
type AudioResult struct {
	AudioURL         string  `json:"audio_url"`
	Duration         float64 `json:"duration"` // seconds
	FileSize         int64   `json:"file_size"`
	VoiceUsed        string  `json:"voice_used"`
	ProcessingTime   float64 `json:"processing_time"` // seconds
	ProviderUsed     string  `json:"provider_used"`
	FallbackUsed     bool    `json:"fallback_used"`
	SSMLSupported    bool    `json:"ssml_supported,omitempty"`
	SSMLFallbackUsed bool    `json:"ssml_fallback_used,omitempty"`
}
