package scripting

import (
	"context"
)

// Engine represents a scripting engine (e.g., JavaScript).
type Engine interface {
	// Execute executes a script in the context of the document.
	Execute(ctx context.Context, script string) (interface{}, error)

	// RegisterDOM registers the deck Document Object Model with the engine.
	RegisterDOM(dom DeckDOM) error
}

// DeckDOM exposes the deck structure to the scripting engine.
// It provides a safe, controlled API for scripts to interact with
// slides; scripts never touch serialization or the filesystem.
type DeckDOM interface {
	// Title returns the deck title.
	Title() string

	// SetTitle replaces the deck title.
	SetTitle(title string)

	// SlideCount returns the number of slides.
	SlideCount() int

	// GetSlide returns a slide by index (0-based).
	GetSlide(index int) (SlideProxy, error)

	// AddSlide appends a blank slide and returns it.
	AddSlide() SlideProxy

	// Log records a message for the caller (scripts have no console).
	Log(message string)
}

// SlideProxy represents a slide exposed to scripts.
type SlideProxy interface {
	GetIndex() int
	FrameCount() int

	// GetText returns the concatenated text of a text frame.
	GetText(frame int) (string, error)

	// SetText replaces the text of a text frame, one paragraph per line.
	SetText(frame int, text string) error

	// AddText places a new text box on the slide.
	AddText(x, y, w, h float64, text string, sizePt float64) error
}
