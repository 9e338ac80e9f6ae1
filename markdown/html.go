package markdown

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/wudi/docsmith/doc"
)

// ParseHTML converts an HTML fragment into styled paragraphs. The
// subset document tooling commonly emits is understood: headings,
// p/div/li blocks, inline b/strong/i/em/u/code spans, br, anchors and
// font colors. Unknown tags contribute their text content.
func ParseHTML(src string) ([]doc.Paragraph, error) {
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	w := &htmlWalker{}
	w.walk(root)
	w.closeParagraph()
	return w.paras, nil
}

type htmlWalker struct {
	paras []doc.Paragraph
	cur   *doc.Paragraph

	bold      int
	italic    int
	underline int
	mono      int
	pre       int
	link      string
	color     *doc.Color

	lists       []int // ordinal counters, 0 for unordered
	pendingItem bool
}

func (w *htmlWalker) walk(n *html.Node) {
	if n.Type == html.TextNode {
		w.text(n.Data)
		return
	}
	if n.Type != html.ElementNode {
		w.children(n)
		return
	}

	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		w.closeParagraph()
		w.openParagraph()
		w.cur.Heading = int(n.Data[1] - '0')
		w.children(n)
		w.closeParagraph()

	case atom.P, atom.Div:
		w.closeParagraph()
		w.children(n)
		w.closeParagraph()

	case atom.Ul, atom.Ol:
		w.closeParagraph()
		start := 0
		if n.DataAtom == atom.Ol {
			start = 1
		}
		w.lists = append(w.lists, start)
		w.children(n)
		w.lists = w.lists[:len(w.lists)-1]

	case atom.Li:
		w.closeParagraph()
		if len(w.lists) > 0 && w.lists[len(w.lists)-1] > 0 {
			w.lists[len(w.lists)-1]++
		}
		w.pendingItem = true
		w.children(n)
		w.closeParagraph()

	case atom.Br:
		w.openParagraph()
		w.appendRaw("\n")

	case atom.B, atom.Strong:
		w.bold++
		w.children(n)
		w.bold--

	case atom.I, atom.Em:
		w.italic++
		w.children(n)
		w.italic--

	case atom.U:
		w.underline++
		w.children(n)
		w.underline--

	case atom.Code, atom.Tt:
		w.mono++
		w.children(n)
		w.mono--

	case atom.Pre:
		w.closeParagraph()
		w.mono++
		w.pre++
		w.children(n)
		w.pre--
		w.mono--
		w.closeParagraph()

	case atom.A:
		prev := w.link
		w.link = attr(n, "href")
		w.children(n)
		w.link = prev

	case atom.Font, atom.Span:
		prev := w.color
		if c, ok := elementColor(n); ok {
			w.color = &c
		}
		w.children(n)
		w.color = prev

	case atom.Script, atom.Style, atom.Head:
		// No text contribution.

	default:
		w.children(n)
	}
}

func (w *htmlWalker) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

func (w *htmlWalker) text(data string) {
	if w.pre > 0 {
		w.openParagraph()
		w.appendRaw(strings.Trim(data, "\n"))
		return
	}
	collapsed := collapseSpace(data)
	if collapsed == "" {
		// Whitespace between inline tags still separates words when a
		// paragraph is open; before any content it is markup layout.
		if data != "" && w.cur != nil && len(w.cur.Runs) > 0 {
			last := w.cur.Runs[len(w.cur.Runs)-1].Text
			if !strings.HasSuffix(last, " ") && !strings.HasSuffix(last, "\n") {
				w.appendRaw(" ")
			}
		}
		return
	}
	w.openParagraph()
	w.appendRaw(collapsed)
}

func (w *htmlWalker) appendRaw(text string) {
	if text == "" {
		return
	}
	r := doc.Run{
		Text:      text,
		Bold:      w.bold > 0,
		Italic:    w.italic > 0,
		Underline: w.underline > 0,
		Mono:      w.mono > 0,
		Link:      w.link,
		Color:     w.color,
	}
	runs := w.cur.Runs
	if n := len(runs); n > 0 && runs[n-1].SameStyle(r) {
		runs[n-1].Text += text
		return
	}
	w.cur.Runs = append(runs, r)
}

func (w *htmlWalker) openParagraph() {
	if w.cur != nil {
		return
	}
	p := doc.Paragraph{}
	if len(w.lists) > 0 {
		p.Level = len(w.lists) - 1
		if w.pendingItem {
			w.pendingItem = false
			if n := w.lists[len(w.lists)-1]; n > 0 {
				p.Runs = append(p.Runs, doc.Run{Text: fmt.Sprintf("%d. ", n-1)})
			} else {
				p.Bullet = true
			}
		}
	}
	w.cur = &p
}

func (w *htmlWalker) closeParagraph() {
	if w.cur == nil {
		return
	}
	w.cur.Runs = trimTrailingSpace(w.cur.Runs)
	if hasText(w.cur.Runs) {
		w.paras = append(w.paras, *w.cur)
	}
	w.cur = nil
}

// trimTrailingSpace drops word-separator spaces left dangling at the
// end of a paragraph by inter-tag whitespace.
func trimTrailingSpace(runs []doc.Run) []doc.Run {
	for len(runs) > 0 {
		last := strings.TrimRight(runs[len(runs)-1].Text, " ")
		if last != "" {
			runs[len(runs)-1].Text = last
			break
		}
		runs = runs[:len(runs)-1]
	}
	return runs
}

func hasText(runs []doc.Run) bool {
	for _, r := range runs {
		if strings.TrimSpace(r.Text) != "" {
			return true
		}
	}
	return false
}

// collapseSpace folds HTML whitespace runs into single spaces.
func collapseSpace(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			space = true
		default:
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		}
	}
	out := b.String()
	if space && out != "" {
		out += " "
	}
	return out
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// elementColor reads <font color=...> or an inline style color.
func elementColor(n *html.Node) (doc.Color, bool) {
	if v := attr(n, "color"); v != "" {
		if c, err := doc.ParseHex(v); err == nil {
			return c, true
		}
	}
	style := attr(n, "style")
	for _, decl := range strings.Split(style, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok || strings.TrimSpace(k) != "color" {
			continue
		}
		if c, err := doc.ParseHex(strings.TrimSpace(v)); err == nil {
			return c, true
		}
	}
	return doc.Color{}, false
}
