package observability

import (
	"context"
	"testing"
)

func TestNopTracer(t *testing.T) {
	tracer := NopTracer()
	ctx := context.Background()
	ctx2, span := tracer.StartSpan(ctx, "test")
	if ctx2 != ctx {
		t.Fatalf("nop tracer should return same context")
	}
	span.SetTag("key", "value")
	span.SetError(nil)
	span.Finish()
}

func TestFields(t *testing.T) {
	cases := []struct {
		f    Field
		key  string
		want interface{}
	}{
		{String("font", "Calibri"), "font", "Calibri"},
		{Int("lines", 3), "lines", 3},
		{Int64("bytes", 1024), "bytes", int64(1024)},
		{Float64("size_pt", 12.5), "size_pt", 12.5},
	}
	for _, c := range cases {
		if c.f.Key() != c.key {
			t.Fatalf("key = %q, want %q", c.f.Key(), c.key)
		}
		if c.f.Value() != c.want {
			t.Fatalf("value = %v, want %v", c.f.Value(), c.want)
		}
	}
}
