package markdown

import (
	"bytes"
	"fmt"
	"strings"

	treeblood "github.com/wyatt915/goldmark-treeblood"
	"github.com/yuin/goldmark"

	"github.com/wudi/docsmith/doc"
)

// ParseLaTeX converts a TeX math expression to paragraphs by rendering
// it to MathML and extracting the readable content as monospace runs.
func ParseLaTeX(latex string) ([]doc.Paragraph, error) {
	source := "$$" + strings.TrimSpace(latex) + "$$"

	md := goldmark.New(
		goldmark.WithExtensions(
			treeblood.MathML(),
		),
	)

	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return nil, fmt.Errorf("render math: %w", err)
	}

	paras, err := ParseHTML(buf.String())
	if err != nil {
		return nil, err
	}
	for i := range paras {
		for j := range paras[i].Runs {
			paras[i].Runs[j].Mono = true
		}
	}
	return paras, nil
}
