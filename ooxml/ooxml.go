// Package ooxml writes Open Packaging Convention containers: the
// zip-of-parts structure shared by .pptx and .docx files. Content
// types and relationship bookkeeping are handled centrally so the
// format packages only emit their XML bodies.
package ooxml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
)

// Relationship types and content types used across both formats.
const (
	RelOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	RelCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	RelExtendedProps  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	RelImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	RelHyperlink      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"

	CTCoreProps = "application/vnd.openxmlformats-package.core-properties+xml"
	CTExtProps  = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
)

// Part is one file inside the container.
type Part struct {
	Name        string // zip path, forward slashes, no leading slash
	ContentType string
	Data        []byte
}

// Relationship links a source part to a target part or external URL.
type Relationship struct {
	ID       string
	Type     string
	Target   string
	External bool
}

// Package accumulates parts and relationships and writes the
// container. Output is deterministic: fixed entry order and zeroed
// timestamps, so identical documents serialize identically.
type Package struct {
	parts    []Part
	defaults map[string]string
	rels     map[string][]Relationship
}

// NewPackage returns a container with the standard defaults for rels
// and xml registered.
func NewPackage() *Package {
	return &Package{
		defaults: map[string]string{
			"rels": "application/vnd.openxmlformats-package.relationships+xml",
			"xml":  "application/xml",
		},
		rels: make(map[string][]Relationship),
	}
}

// AddPart registers a part. Parts with a content type are listed as
// overrides in [Content_Types].xml; media parts can instead rely on an
// extension default.
func (p *Package) AddPart(name, contentType string, data []byte) {
	p.parts = append(p.parts, Part{Name: name, ContentType: contentType, Data: data})
}

// AddDefault maps a file extension to a content type.
func (p *Package) AddDefault(ext, contentType string) {
	p.defaults[strings.TrimPrefix(ext, ".")] = contentType
}

// Relate adds a relationship from source ("" for the package root) and
// returns its identifier.
func (p *Package) Relate(source string, rel Relationship) string {
	if rel.ID == "" {
		rel.ID = fmt.Sprintf("rId%d", len(p.rels[source])+1)
	}
	p.rels[source] = append(p.rels[source], rel)
	return rel.ID
}

// WriteTo writes the zip container.
func (p *Package) WriteTo(w io.Writer) error {
	zw := zip.NewWriter(w)

	if err := p.writeEntry(zw, "[Content_Types].xml", p.contentTypesXML()); err != nil {
		return err
	}
	for _, source := range p.relSources() {
		data, err := relsXML(p.rels[source])
		if err != nil {
			return err
		}
		if err := p.writeEntry(zw, relsName(source), data); err != nil {
			return err
		}
	}
	for _, part := range p.parts {
		if err := p.writeEntry(zw, part.Name, part.Data); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close container: %w", err)
	}
	return nil
}

func (p *Package) writeEntry(zw *zip.Writer, name string, data []byte) error {
	// Deflate with a zeroed header keeps output reproducible.
	f, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// relSources returns relationship sources with the package root first,
// then part order.
func (p *Package) relSources() []string {
	var out []string
	if _, ok := p.rels[""]; ok {
		out = append(out, "")
	}
	seen := map[string]bool{"": true}
	for _, part := range p.parts {
		if !seen[part.Name] && len(p.rels[part.Name]) > 0 {
			seen[part.Name] = true
			out = append(out, part.Name)
		}
	}
	// Sources that never became parts still get their rels emitted.
	var rest []string
	for source := range p.rels {
		if !seen[source] {
			rest = append(rest, source)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// relsName maps a part name to its relationship part.
func relsName(source string) string {
	if source == "" {
		return "_rels/.rels"
	}
	dir, base := path.Split(source)
	return dir + "_rels/" + base + ".rels"
}

func (p *Package) contentTypesXML() []byte {
	var b bytes.Buffer
	b.WriteString(xml.Header)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)

	exts := make([]string, 0, len(p.defaults))
	for ext := range p.defaults {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	for _, ext := range exts {
		fmt.Fprintf(&b, `<Default Extension="%s" ContentType="%s"/>`, Escape(ext), Escape(p.defaults[ext]))
	}
	for _, part := range p.parts {
		if part.ContentType == "" {
			continue
		}
		fmt.Fprintf(&b, `<Override PartName="/%s" ContentType="%s"/>`, Escape(part.Name), Escape(part.ContentType))
	}
	b.WriteString(`</Types>`)
	return b.Bytes()
}

func relsXML(rels []Relationship) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(xml.Header)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for _, rel := range rels {
		if rel.ID == "" || rel.Target == "" {
			return nil, fmt.Errorf("relationship %+v missing id or target", rel)
		}
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="%s" Target="%s"`, Escape(rel.ID), Escape(rel.Type), Escape(rel.Target))
		if rel.External {
			b.WriteString(` TargetMode="External"`)
		}
		b.WriteString(`/>`)
	}
	b.WriteString(`</Relationships>`)
	return b.Bytes(), nil
}

// Escape returns s with XML special characters entity-escaped, for
// interpolation into hand-built markup.
func Escape(s string) string {
	var b bytes.Buffer
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return s
	}
	return b.String()
}
