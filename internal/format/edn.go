package format

import (
	"bytes"
	"encoding/json"
	"io"
	"sort"
	"strconv"
	"strings"
)

// WriteEDN writes an EDN rendering of v. Only the subset our payloads need
// is supported: maps, vectors, strings, numbers, booleans, nil. Structs are
// routed through JSON first so json tags drive the key names.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var x any
	if err := json.Unmarshal(b, &x); err != nil {
		return err
	}

	var buf bytes.Buffer
	writeEDNValue(&buf, x, 0, pretty)
	buf.WriteByte('\n')
	_, err = w.Write(buf.Bytes())
	return err
}

const ednIndent = 2

func writeEDNValue(buf *bytes.Buffer, v any, level int, pretty bool) {
	switch t := v.(type) {
	case nil:
		buf.WriteString("nil")
	case bool:
		buf.WriteString(strconv.FormatBool(t))
	case string:
		buf.WriteString(strconv.Quote(t))
	case float64:
		// JSON numbers arrive as float64; print whole values as ints.
		if float64(int64(t)) == t {
			buf.WriteString(strconv.FormatInt(int64(t), 10))
			return
		}
		buf.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
	case []any:
		buf.WriteByte('[')
		for i, it := range t {
			if pretty {
				buf.WriteByte('\n')
				buf.WriteString(strings.Repeat(" ", (level+1)*ednIndent))
			} else if i > 0 {
				buf.WriteByte(' ')
			}
			writeEDNValue(buf, it, level+1, pretty)
		}
		if pretty && len(t) > 0 {
			buf.WriteByte('\n')
			buf.WriteString(strings.Repeat(" ", level*ednIndent))
		}
		buf.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if pretty {
				buf.WriteByte('\n')
				buf.WriteString(strings.Repeat(" ", (level+1)*ednIndent))
			} else if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteByte(':')
			buf.WriteString(ednKeyword(k))
			buf.WriteByte(' ')
			writeEDNValue(buf, t[k], level+1, pretty)
		}
		if pretty && len(keys) > 0 {
			buf.WriteByte('\n')
			buf.WriteString(strings.Repeat(" ", level*ednIndent))
		}
		buf.WriteByte('}')
	default:
		buf.WriteString(strconv.Quote("?"))
	}
}

// ednKeyword keeps keys keyword-safe; anything suspicious falls back to a
// sanitized form rather than emitting unreadable EDN.
func ednKeyword(k string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.' || r == '/':
			return r
		default:
			return '-'
		}
	}, k)
	if safe == "" {
		return "key"
	}
	return safe
}
