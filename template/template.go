// Package template resolves {{ path.to.field | filter }} placeholders
// in text or markdown source before it is parsed into runs. Data is
// addressed by dotted paths with optional list indexing; a short
// filter chain adjusts the substituted value.
package template

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	exprLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t]+`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Number", Pattern: `\d+`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
		{Name: "Symbol", Pattern: `[|.\[\]]`},
	})

	exprParser = participle.MustBuild[Expr](
		participle.Lexer(exprLexer),
		participle.Elide("Whitespace"),
	)
)

// Expr is one parsed placeholder: a field path plus filters.
type Expr struct {
	Path    []*PathSeg `parser:"@@ ( '.' @@ )*"`
	Filters []*Filter  `parser:"( '|' @@ )*"`
}

// PathSeg is one path component with optional list indexes.
type PathSeg struct {
	Name    string `parser:"@Ident"`
	Indexes []int  `parser:"( '[' @Number ']' )*"`
}

// Filter is a named value transform with an optional argument.
type Filter struct {
	Name string         `parser:"@Ident"`
	Arg  *StringLiteral `parser:"( @String )?"`
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Interpolate substitutes every {{...}} placeholder in src using data.
// There is no escape syntax; an unterminated placeholder is an error.
func Interpolate(src string, data any) (string, error) {
	var out strings.Builder
	rest := src
	for {
		start := strings.Index(rest, "{{")
		if start < 0 {
			out.WriteString(rest)
			return out.String(), nil
		}
		out.WriteString(rest[:start])
		rest = rest[start+2:]

		end := strings.Index(rest, "}}")
		if end < 0 {
			return "", fmt.Errorf("unterminated placeholder at %q", src[start:])
		}
		value, err := Eval(rest[:end], data)
		if err != nil {
			return "", err
		}
		out.WriteString(value)
		rest = rest[end+2:]
	}
}

// Eval resolves a single placeholder expression against data.
func Eval(expr string, data any) (string, error) {
	parsed, err := exprParser.ParseString("", strings.TrimSpace(expr))
	if err != nil {
		return "", fmt.Errorf("parse placeholder %q: %w", expr, err)
	}

	value, found := resolve(data, parsed.Path)
	text := ""
	if found && value != nil {
		text = fmt.Sprint(value)
	}

	for _, f := range parsed.Filters {
		text, err = applyFilter(f, text, found)
		if err != nil {
			return "", fmt.Errorf("placeholder %q: %w", expr, err)
		}
		found = true
	}
	if !found {
		return "", fmt.Errorf("placeholder %q: field not found", expr)
	}
	return text, nil
}

// resolve walks the path through maps, slices and exported struct
// fields.
func resolve(data any, path []*PathSeg) (any, bool) {
	cur := data
	for _, seg := range path {
		next, ok := field(cur, seg.Name)
		if !ok {
			return nil, false
		}
		cur = next
		for _, idx := range seg.Indexes {
			cur, ok = index(cur, idx)
			if !ok {
				return nil, false
			}
		}
	}
	return cur, true
}

func field(v any, name string) (any, bool) {
	if m, ok := v.(map[string]any); ok {
		out, ok := m[name]
		return out, ok
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		out := rv.MapIndex(reflect.ValueOf(name))
		if !out.IsValid() {
			return nil, false
		}
		return out.Interface(), true
	case reflect.Struct:
		out := rv.FieldByName(name)
		if !out.IsValid() || !out.CanInterface() {
			return nil, false
		}
		return out.Interface(), true
	}
	return nil, false
}

func index(v any, i int) (any, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if i < 0 || i >= rv.Len() {
		return nil, false
	}
	return rv.Index(i).Interface(), true
}

func applyFilter(f *Filter, text string, found bool) (string, error) {
	arg := ""
	if f.Arg != nil {
		arg = string(*f.Arg)
	}
	switch f.Name {
	case "upper":
		return strings.ToUpper(text), nil
	case "lower":
		return strings.ToLower(text), nil
	case "trim":
		return strings.TrimSpace(text), nil
	case "title":
		return titleCase(text), nil
	case "default":
		if !found || text == "" {
			return arg, nil
		}
		return text, nil
	default:
		return "", fmt.Errorf("unknown filter %q", f.Name)
	}
}

func titleCase(s string) string {
	var b strings.Builder
	prevSpace := true
	for _, r := range s {
		if prevSpace && 'a' <= r && r <= 'z' {
			r -= 'a' - 'A'
		}
		prevSpace = r == ' '
		b.WriteRune(r)
	}
	return b.String()
}
