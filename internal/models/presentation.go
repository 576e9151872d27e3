package models

// Presentation is the submitted narration request: the slides to
// narrate plus the voice and audience parameters applied to every
// slide. Parsing presentation files into this shape happens upstream.
type Presentation struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Slides            []Slide  `json:"slides"`
	TopicKeywords     []string `json:"topic_keywords,omitempty"`
	Audience          string   `json:"audience,omitempty"`
	Tone              string   `json:"tone,omitempty"`
	Language          string   `json:"language,omitempty"`
	Voice             VoiceSettings `json:"voice"`
	PreferredProvider string        `json:"preferred_provider,omitempty"`
}

// VoiceSettings carries the synthesis parameters for a presentation.
type VoiceSettings struct {
	Voice  string  `json:"voice,omitempty"`
	Speed  float64 `json:"speed,omitempty"`
	Pitch  float64 `json:"pitch,omitempty"`
	Format string  `json:"format,omitempty"`
}

// Slide is one slide's narratable content.
type Slide struct {
	Number  int          `json:"number"`
	ID      string       `json:"id"`
	Title   string       `json:"title,omitempty"`
	Content string       `json:"content"`
	Notes   string       `json:"notes,omitempty"`
	Layout  string       `json:"layout,omitempty"`
	Images  []SlideImage `json:"images,omitempty"`
}

// SlideImage references an image on a slide. Analysis is filled in by
// the vision collaborator when absent.
type SlideImage struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	AltText  string `json:"alt_text,omitempty"`
	Analysis string `json:"analysis,omitempty"`
}
