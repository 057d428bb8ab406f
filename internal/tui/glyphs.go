package tui

import (
	"os"
	"strings"
	"sync"

	"planline/internal/model"
)

// Terminal apps can't change the user's font. Instead we choose between
// Unicode and ASCII glyph sets for UI affordances (bars, ticks, markers,
// arrows). This helps on terminals/fonts that don't render some glyphs
// cleanly.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

func applyGlyphPreference() {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("PLANLINE_TUI_GLYPHS")))
	switch v {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	default:
		// Unknown value: ignore.
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

func glyphBarFill() string {
	if glyphs() == glyphSetASCII {
		return "="
	}
	return "─"
}

func glyphPoint() string {
	if glyphs() == glyphSetASCII {
		return "*"
	}
	return "◆"
}

func glyphTick() string {
	if glyphs() == glyphSetASCII {
		return "+"
	}
	return "┴"
}

func glyphHRule() string {
	if glyphs() == glyphSetASCII {
		return "-"
	}
	return "─"
}

func glyphNow() string {
	if glyphs() == glyphSetASCII {
		return "|"
	}
	return "┃"
}

func glyphArrowLeft() string {
	if glyphs() == glyphSetASCII {
		return "<-"
	}
	return "←"
}

func glyphArrowRight() string {
	if glyphs() == glyphSetASCII {
		return "->"
	}
	return "→"
}

func glyphBullet() string {
	if glyphs() == glyphSetASCII {
		return "*"
	}
	return "•"
}

// glyphStatus is the one-cell status marker used in bars and the side panel.
func glyphStatus(s model.TaskStatus) string {
	ascii := glyphs() == glyphSetASCII
	switch s.Type {
	case model.StatusDone:
		if ascii {
			return "x"
		}
		return "●"
	case model.StatusInProgress:
		if ascii {
			return ">"
		}
		return "◐"
	case model.StatusStuck:
		if ascii {
			return "!"
		}
		return "✗"
	case model.StatusWaitingFor:
		if ascii {
			return "w"
		}
		return "◷"
	default:
		if ascii {
			return "o"
		}
		return "○"
	}
}
