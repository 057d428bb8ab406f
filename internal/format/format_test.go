package format

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteJSONCompactAndPretty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, map[string]any{"id": "proj_a", "n": 2}, "json", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got := strings.TrimSpace(buf.String())
	if got != `{"id":"proj_a","n":2}` {
		t.Fatalf("unexpected compact JSON: %s", got)
	}

	buf.Reset()
	if err := Write(&buf, map[string]any{"id": "proj_a"}, "json", true); err != nil {
		t.Fatalf("Write pretty: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"id\"") {
		t.Fatalf("expected indented output, got %s", buf.String())
	}
}

func TestWriteEDN(t *testing.T) {
	var buf bytes.Buffer
	v := map[string]any{
		"title": "Launch",
		"done":  false,
		"tags":  []string{"a", "b"},
		"count": 3,
	}
	if err := Write(&buf, v, "edn", false); err != nil {
		t.Fatalf("Write edn: %v", err)
	}
	got := strings.TrimSpace(buf.String())
	for _, want := range []string{":title \"Launch\"", ":done false", ":count 3", "[\"a\" \"b\"]"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in %s", want, got)
		}
	}
}

func TestUnknownFormatRejected(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, 1, "yaml", false); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
