// Package dom adapts documents to the scripting DOM.
package dom

import (
	"fmt"
	"strings"

	"github.com/wudi/docsmith/doc"
	"github.com/wudi/docsmith/geo"
	"github.com/wudi/docsmith/scripting"
)

type Adapter struct {
	doc  *doc.Document
	logs []string
}

func New(d *doc.Document) *Adapter {
	return &Adapter{doc: d}
}

func (a *Adapter) Title() string { return a.doc.Info.Title }

func (a *Adapter) SetTitle(title string) { a.doc.Info.Title = title }

func (a *Adapter) SlideCount() int { return len(a.doc.Slides) }

func (a *Adapter) GetSlide(index int) (scripting.SlideProxy, error) {
	if index < 0 || index >= len(a.doc.Slides) {
		return nil, fmt.Errorf("slide index out of range")
	}
	return &slideProxy{doc: a.doc, idx: index}, nil
}

func (a *Adapter) AddSlide() scripting.SlideProxy {
	a.doc.Slides = append(a.doc.Slides, &doc.Slide{})
	return &slideProxy{doc: a.doc, idx: len(a.doc.Slides) - 1}
}

func (a *Adapter) Log(message string) { a.logs = append(a.logs, message) }

// Logs returns everything scripts logged, in order.
func (a *Adapter) Logs() []string { return append([]string(nil), a.logs...) }

type slideProxy struct {
	doc *doc.Document
	idx int
}

func (p *slideProxy) slide() *doc.Slide { return p.doc.Slides[p.idx] }

func (p *slideProxy) GetIndex() int { return p.idx }

func (p *slideProxy) FrameCount() int { return len(p.slide().Frames) }

func (p *slideProxy) textFrame(i int) (*doc.TextFrame, error) {
	s := p.slide()
	if i < 0 || i >= len(s.Frames) {
		return nil, fmt.Errorf("frame index out of range")
	}
	tf, ok := s.Frames[i].(*doc.TextFrame)
	if !ok {
		return nil, fmt.Errorf("frame %d is not a text frame", i)
	}
	return tf, nil
}

func (p *slideProxy) GetText(frame int) (string, error) {
	tf, err := p.textFrame(frame)
	if err != nil {
		return "", err
	}
	lines := make([]string, len(tf.Paragraphs))
	for i, para := range tf.Paragraphs {
		lines[i] = para.Text()
	}
	return strings.Join(lines, "\n"), nil
}

func (p *slideProxy) SetText(frame int, text string) error {
	tf, err := p.textFrame(frame)
	if err != nil {
		return err
	}
	tf.Paragraphs = doc.ParagraphsFromText(text)
	// Stored fit data described the old text.
	tf.Fit = nil
	return nil
}

func (p *slideProxy) AddText(x, y, w, h float64, text string, sizePt float64) error {
	box := geo.NewRect(x, y, w, h)
	if !box.Valid() {
		return fmt.Errorf("text box %+v is not positive", box)
	}
	if sizePt <= 0 {
		return fmt.Errorf("font size %.1f is not positive", sizePt)
	}
	p.slide().Frames = append(p.slide().Frames, &doc.TextFrame{
		Box:        box,
		SizePt:     sizePt,
		Paragraphs: doc.ParagraphsFromText(text),
	})
	return nil
}
