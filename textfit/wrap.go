package textfit

import (
	"strings"

	"github.com/wudi/docsmith/doc"
)

// token is one wrap unit: a styled word, or a forced line break.
type token struct {
	text    string
	style   doc.Run // Text field unused
	brk     bool
	leading bool // a space preceded this word in the source
}

// Wrap greedily packs the box's paragraphs into lines at sizePt. Words
// never split across lines; a word wider than the box goes alone on
// its own line and overflows horizontally. Paragraph boundaries and
// newlines inside run text always force a new line.
func Wrap(box TextBox, sizePt float64, m Measurer) ([]Line, error) {
	if err := box.validate(); err != nil {
		return nil, err
	}
	if sizePt <= 0 {
		return nil, ErrInvalidSize
	}

	maxWidth := box.contentWidth()
	var lines []Line

	for _, para := range box.Paragraphs {
		lines = append(lines, wrapParagraph(box, para, maxWidth, sizePt, m)...)
	}
	return lines, nil
}

func wrapParagraph(box TextBox, para doc.Paragraph, maxWidth, sizePt float64, m Measurer) []Line {
	toks := tokenize(para)

	var lines []Line
	var cur []token
	var curWidth float64

	flush := func() {
		lines = append(lines, assemble(cur, curWidth))
		cur = cur[:0]
		curWidth = 0
	}

	for _, tok := range toks {
		if tok.brk {
			flush()
			continue
		}

		style := tok.style
		w := m.Measure(tok.text, box.family(style), sizePt, style.Bold, style.Italic)

		// Unbreakable word: wider than the box on its own. Close the
		// current line and let the word overflow alone.
		if w > maxWidth {
			if len(cur) > 0 {
				flush()
			}
			cur = append(cur, tok)
			curWidth = w
			flush()
			continue
		}

		join := 0.0
		if len(cur) > 0 && tok.leading {
			join = m.Measure(" ", box.family(style), sizePt, style.Bold, style.Italic)
		}
		if len(cur) > 0 && curWidth+join+w > maxWidth {
			flush()
			join = 0
		}
		cur = append(cur, tok)
		curWidth += join + w
	}
	if len(cur) > 0 || len(lines) == 0 {
		// Trailing words, or an empty paragraph keeping its blank line.
		flush()
	}
	return lines
}

// tokenize splits a paragraph into styled words and forced breaks.
// Words split on spaces within each run; newlines inside run text
// become breaks. Whether a word follows a space is tracked so glued
// runs (style changes mid-word) rejoin without a phantom space.
func tokenize(para doc.Paragraph) []token {
	var toks []token
	prevEndedInSpace := true
	for _, run := range para.Runs {
		style := run
		style.Text = ""
		segments := strings.Split(run.Text, "\n")
		for si, seg := range segments {
			if si > 0 {
				toks = append(toks, token{brk: true})
				prevEndedInSpace = true
			}
			rest := seg
			for rest != "" {
				trimmed := strings.TrimLeft(rest, " ")
				sawSpace := len(trimmed) < len(rest)
				if trimmed == "" {
					prevEndedInSpace = true
					break
				}
				word := trimmed
				if i := strings.IndexByte(trimmed, ' '); i >= 0 {
					word = trimmed[:i]
				}
				toks = append(toks, token{
					text:    word,
					style:   style,
					leading: sawSpace || prevEndedInSpace,
				})
				rest = trimmed[len(word):]
				prevEndedInSpace = false
			}
		}
	}
	// The paragraph opener never needs a joining space.
	if len(toks) > 0 {
		toks[0].leading = false
	}
	return toks
}

// assemble joins line words back into runs, merging neighbors that
// share a style.
func assemble(words []token, width float64) Line {
	var runs []doc.Run
	for i, w := range words {
		text := w.text
		if i > 0 && w.leading {
			text = " " + text
		}
		r := w.style
		r.Text = text
		if n := len(runs); n > 0 && runs[n-1].SameStyle(r) {
			runs[n-1].Text += text
			continue
		}
		runs = append(runs, r)
	}
	return Line{Runs: runs, Width: width}
}
