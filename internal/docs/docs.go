package docs

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
)

//go:embed topics/*.md
var topicsFS embed.FS

// Render returns a terminal rendering of one topic, or the topic index when
// name is empty.
func Render(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return renderIndex()
	}
	b, err := topicsFS.ReadFile("topics/" + name + ".md")
	if err != nil {
		return "", fmt.Errorf("unknown topic: %s (try `planline docs`)", name)
	}
	return renderMarkdown(string(b))
}

func renderIndex() (string, error) {
	entries, err := topicsFS.ReadDir("topics")
	if err != nil {
		return "", err
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".md"))
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("# planline docs\n\nTopics:\n\n")
	for _, n := range names {
		fmt.Fprintf(&b, "- `planline docs %s`\n", n)
	}
	return renderMarkdown(b.String())
}

func renderMarkdown(md string) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		// Glamour failing (odd TERM, no TTY probing) should not hide the
		// docs; fall back to raw Markdown.
		return md, nil
	}
	out, err := r.Render(md)
	if err != nil {
		return md, nil
	}
	return out, nil
}
