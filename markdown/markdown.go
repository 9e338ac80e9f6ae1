// Package markdown converts markdown, HTML fragments and TeX math
// into styled paragraph runs for layout and serialization.
package markdown

import (
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/wudi/docsmith/doc"
)

// Parse converts markdown source into styled paragraphs. Headings,
// lists, emphasis, code spans and blocks, links and blockquotes are
// mapped onto the run model; anything else contributes its literal
// text.
func Parse(source []byte) ([]doc.Paragraph, error) {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(source))

	w := &walker{source: source}
	if err := ast.Walk(root, w.visit); err != nil {
		return nil, fmt.Errorf("walk markdown: %w", err)
	}
	w.closeParagraph()
	return w.paras, nil
}

// walker accumulates paragraphs while descending the goldmark AST.
type walker struct {
	source []byte
	paras  []doc.Paragraph
	cur    *doc.Paragraph

	bold   int
	italic int
	code   int
	link   string

	listLevel   int
	quote       int
	ordinal     []int // per-level ordered list counters, 0 for unordered
	pendingItem bool
}

func (w *walker) visit(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Heading:
		if entering {
			w.openParagraph()
			w.cur.Heading = node.Level
		} else {
			w.closeParagraph()
		}

	case *ast.Paragraph, *ast.TextBlock:
		if entering {
			w.openParagraph()
		} else {
			w.closeParagraph()
		}

	case *ast.List:
		if entering {
			start := 0
			if node.IsOrdered() {
				start = node.Start
				if start == 0 {
					start = 1
				}
			}
			w.listLevel++
			w.ordinal = append(w.ordinal, start)
		} else {
			w.listLevel--
			w.ordinal = w.ordinal[:len(w.ordinal)-1]
		}

	case *ast.ListItem:
		if entering {
			if len(w.ordinal) > 0 && w.ordinal[len(w.ordinal)-1] > 0 {
				w.ordinal[len(w.ordinal)-1]++
			}
			w.pendingItem = true
		}

	case *ast.Emphasis:
		if node.Level >= 2 {
			w.toggle(&w.bold, entering)
		} else {
			w.toggle(&w.italic, entering)
		}

	case *ast.CodeSpan:
		w.toggle(&w.code, entering)

	case *ast.Link:
		if entering {
			w.link = string(node.Destination)
		} else {
			w.link = ""
		}

	case *ast.AutoLink:
		if entering {
			url := string(node.URL(w.source))
			w.openParagraph()
			w.append(doc.Run{Text: url, Link: url})
		}

	case *ast.Text:
		if entering {
			w.openParagraph()
			w.append(w.styled(string(node.Segment.Value(w.source))))
			if node.HardLineBreak() {
				w.append(w.styled("\n"))
			} else if node.SoftLineBreak() {
				w.append(w.styled(" "))
			}
		}

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		if entering {
			w.codeBlock(n)
			return ast.WalkSkipChildren, nil
		}

	case *ast.Blockquote:
		if entering {
			w.quote++
		} else {
			w.quote--
		}

	case *ast.ThematicBreak:
		if entering {
			w.closeParagraph()
			w.paras = append(w.paras, doc.Paragraph{})
		}
	}
	return ast.WalkContinue, nil
}

func (w *walker) toggle(counter *int, entering bool) {
	if entering {
		*counter++
	} else if *counter > 0 {
		*counter--
	}
}

// styled stamps the current inline state onto a run.
func (w *walker) styled(text string) doc.Run {
	return doc.Run{
		Text:   text,
		Bold:   w.bold > 0,
		Italic: w.italic > 0,
		Mono:   w.code > 0,
		Link:   w.link,
	}
}

func (w *walker) openParagraph() {
	if w.cur != nil {
		return
	}
	p := doc.Paragraph{Level: w.indent()}
	if w.listLevel > 0 && w.pendingItem {
		w.pendingItem = false
		if n := w.itemOrdinal(); n > 0 {
			p.Runs = append(p.Runs, doc.Run{Text: fmt.Sprintf("%d. ", n)})
		} else {
			p.Bullet = true
		}
	}
	w.cur = &p
}

func (w *walker) closeParagraph() {
	if w.cur == nil {
		return
	}
	if len(w.cur.Runs) > 0 {
		w.paras = append(w.paras, *w.cur)
	}
	w.cur = nil
}

func (w *walker) indent() int {
	if w.listLevel == 0 {
		return w.quote
	}
	return w.quote + w.listLevel - 1
}

func (w *walker) itemOrdinal() int {
	if len(w.ordinal) == 0 {
		return 0
	}
	n := w.ordinal[len(w.ordinal)-1]
	if n == 0 {
		return 0
	}
	// The counter was advanced on item entry.
	return n - 1
}

// append adds a run, merging into the previous one when styles match.
func (w *walker) append(r doc.Run) {
	if r.Text == "" {
		return
	}
	runs := w.cur.Runs
	if n := len(runs); n > 0 && runs[n-1].SameStyle(r) {
		runs[n-1].Text += r.Text
		return
	}
	w.cur.Runs = append(runs, r)
}

// codeBlock emits one monospace paragraph per source line.
func (w *walker) codeBlock(n ast.Node) {
	w.closeParagraph()
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		line := string(seg.Value(w.source))
		for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
			line = line[:len(line)-1]
		}
		w.paras = append(w.paras, doc.Paragraph{
			Level: w.indent(),
			Runs:  []doc.Run{{Text: line, Mono: true}},
		})
	}
}
