package ooxml

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"
)

func readEntry(t *testing.T, zr *zip.Reader, name string) string {
	t.Helper()
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s failed: %v", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read %s failed: %v", name, err)
		}
		return string(data)
	}
	t.Fatalf("entry %s not found", name)
	return ""
}

func TestPackageWritesParts(t *testing.T) {
	p := NewPackage()
	p.AddPart("word/document.xml", "application/vnd.test+xml", []byte("<doc/>"))
	p.AddPart("word/media/image1.png", "", []byte{0x89, 'P', 'N', 'G'})
	p.AddDefault("png", "image/png")
	p.Relate("", Relationship{Type: RelOfficeDocument, Target: "word/document.xml"})

	var buf bytes.Buffer
	if err := p.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("reading container failed: %v", err)
	}

	if got := readEntry(t, zr, "word/document.xml"); got != "<doc/>" {
		t.Fatalf("document part = %q", got)
	}
	types := readEntry(t, zr, "[Content_Types].xml")
	for _, want := range []string{
		`Extension="png" ContentType="image/png"`,
		`PartName="/word/document.xml"`,
		`Extension="rels"`,
	} {
		if !strings.Contains(types, want) {
			t.Fatalf("content types missing %q:\n%s", want, types)
		}
	}
	rels := readEntry(t, zr, "_rels/.rels")
	if !strings.Contains(rels, `Id="rId1"`) || !strings.Contains(rels, `Target="word/document.xml"`) {
		t.Fatalf("root rels wrong:\n%s", rels)
	}
}

func TestRelateAssignsSequentialIDs(t *testing.T) {
	p := NewPackage()
	first := p.Relate("ppt/slides/slide1.xml", Relationship{Type: RelImage, Target: "../media/image1.png"})
	second := p.Relate("ppt/slides/slide1.xml", Relationship{Type: RelHyperlink, Target: "https://example.com", External: true})
	if first != "rId1" || second != "rId2" {
		t.Fatalf("ids = %s, %s", first, second)
	}
	var buf bytes.Buffer
	if err := p.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("reading container failed: %v", err)
	}
	rels := readEntry(t, zr, "ppt/slides/_rels/slide1.xml.rels")
	if !strings.Contains(rels, `TargetMode="External"`) {
		t.Fatalf("external rel not flagged:\n%s", rels)
	}
}

func TestDeterministicOutput(t *testing.T) {
	build := func() []byte {
		p := NewPackage()
		p.AddPart("a.xml", "application/xml", []byte("<a/>"))
		p.AddPart("b.xml", "application/xml", []byte("<b/>"))
		p.Relate("", Relationship{Type: RelOfficeDocument, Target: "a.xml"})
		var buf bytes.Buffer
		if err := p.WriteTo(&buf); err != nil {
			t.Fatalf("WriteTo failed: %v", err)
		}
		return buf.Bytes()
	}
	if !bytes.Equal(build(), build()) {
		t.Fatal("identical packages produced different bytes")
	}
}

func TestEscape(t *testing.T) {
	if got := Escape(`a<b>&"c"`); got != "a&lt;b&gt;&amp;&#34;c&#34;" {
		t.Fatalf("Escape = %q", got)
	}
}

func TestRelsNameNesting(t *testing.T) {
	if got := relsName("ppt/slides/slide2.xml"); got != "ppt/slides/_rels/slide2.xml.rels" {
		t.Fatalf("relsName = %q", got)
	}
	if got := relsName(""); got != "_rels/.rels" {
		t.Fatalf("root relsName = %q", got)
	}
}
