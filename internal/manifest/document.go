package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/AnyUserName/mediagrid/internal/layout"
)

// SupportedDocumentVersion is the conversation document schema version.
const SupportedDocumentVersion = 1

// MediaType discriminates media items.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Document is one conversation export: an ordered list of messages, each
// carrying up to five media items.
type Document struct {
	Version  int       `json:"version"`
	Messages []Message `json:"messages"`
}

// Message is a single chat bubble.
type Message struct {
	ID    string  `json:"id"`
	RTL   bool    `json:"rtl,omitempty"`
	Media []Media `json:"media"`
}

// Media is one attached image or video.
type Media struct {
	Type      MediaType `json:"type,omitempty"` // defaults to image
	Src       string    `json:"src"`
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	Duration  float64   `json:"duration,omitempty"`  // seconds, video only
	ThumbHash string    `json:"thumbhash,omitempty"` // base64
	BlurHash  string    `json:"blurhash,omitempty"`  // not decoded; flat fallback
	Alt       string    `json:"alt,omitempty"`
}

// Dimensions returns the intrinsic sizes of the message's media, in order.
func (m Message) Dimensions() []layout.Dimensions {
	dims := make([]layout.Dimensions, len(m.Media))
	for i, it := range m.Media {
		dims[i] = layout.Dimensions{Width: it.Width, Height: it.Height}
	}
	return dims
}

// DurationLabel formats a video duration as M:SS; empty when unknown.
func (it Media) DurationLabel() string {
	if it.Type != MediaVideo || !(it.Duration > 0) || math.IsInf(it.Duration, 0) {
		return ""
	}
	secs := int(it.Duration)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// ParseDocument decodes a conversation document and normalizes media
// types. It does not validate; see Document.Validate.
func ParseDocument(r io.Reader) (*Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	for i := range d.Messages {
		for j := range d.Messages[i].Media {
			if d.Messages[i].Media[j].Type == "" {
				d.Messages[i].Media[j].Type = MediaImage
			}
		}
	}
	return &d, nil
}

// ReadDocument parses the document at path.
func ReadDocument(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseDocument(f)
}

// Validate reports every structural problem at once. Odd dimensions are
// not errors: the layout engine has fallbacks for them.
func (d *Document) Validate() error {
	var errs []error
	if d.Version != SupportedDocumentVersion {
		errs = append(errs, fmt.Errorf("unsupported document version: %d", d.Version))
	}
	seen := make(map[string]bool, len(d.Messages))
	for i, m := range d.Messages {
		switch {
		case m.ID == "":
			errs = append(errs, fmt.Errorf("message[%d]: missing id", i))
		case seen[m.ID]:
			errs = append(errs, fmt.Errorf("message[%d]: duplicate id %q", i, m.ID))
		}
		seen[m.ID] = true

		if len(m.Media) == 0 {
			errs = append(errs, fmt.Errorf("message %q: no media", m.ID))
		}
		for j, it := range m.Media {
			if it.Type != MediaImage && it.Type != MediaVideo {
				errs = append(errs, fmt.Errorf("message %q media[%d]: unknown type %q", m.ID, j, it.Type))
			}
		}
	}
	return errors.Join(errs...)
}
