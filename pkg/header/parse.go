package header

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Marker delimits the header block.
const Marker = "---"

// Header holds the parsed header entries. Values are one of:
//   - string
//   - bool (for the literals true and false, in any case)
//   - []any, whose items are string or map[string]string
type Header map[string]any

// Parse splits text into its [Header] and body.
//
// Text that does not start with [Marker], or that has no closing marker,
// returns an empty Header and the unmodified text as the body. A header block
// that is present but empty also returns an empty Header; callers decide
// whether that is acceptable.
func Parse(text string) (Header, string) {
	if !strings.HasPrefix(text, Marker) {
		return Header{}, text
	}

	parts := strings.SplitN(text, Marker, 3)
	if len(parts) < 3 {
		return Header{}, text
	}

	s := &scanner{h: Header{}}
	for line := range strings.SplitSeq(parts[1], "\n") {
		s.scan(line)
	}

	s.flush()

	return s.h, strings.TrimSpace(parts[2])
}

// scanner is the line state machine behind [Parse]. It is at top level when
// inList is false, in a list when inList is true, and inside a multi-line map
// item when inDictItem is also true.
type scanner struct {
	h Header

	key  string
	list []any
	dict map[string]string

	inList     bool
	inDictItem bool
}

func (s *scanner) scan(line string) {
	stripped := strings.TrimSpace(line)
	if stripped == "" || strings.HasPrefix(stripped, "#") {
		return
	}

	indent := utf8.RuneCountInString(line) - utf8.RuneCountInString(strings.TrimLeftFunc(line, unicode.IsSpace))

	switch {
	case indent == 0 && strings.Contains(line, ":") && !strings.HasPrefix(stripped, "-"):
		s.topLevel(line)

	case strings.HasPrefix(stripped, "-") && s.inList:
		s.listItem(strings.TrimSpace(stripped[1:]))

	case indent > 2 && s.inDictItem && strings.Contains(line, ":"):
		k, v, _ := strings.Cut(stripped, ":")
		s.dict[strings.TrimSpace(k)] = unquote(strings.TrimSpace(v))
	}
}

func (s *scanner) topLevel(line string) {
	s.flush()

	k, v, _ := strings.Cut(line, ":")
	key := strings.TrimSpace(k)
	value := strings.TrimSpace(v)

	if value == "" {
		// The entries follow on the next lines.
		s.key = key
		s.inList = true
		s.list = []any{}

		return
	}

	s.h[key] = scalar(value)
}

func (s *scanner) listItem(item string) {
	if s.inDictItem && len(s.dict) > 0 {
		s.list = append(s.list, s.dict)
		s.dict = map[string]string{}
	}

	switch {
	case strings.Contains(item, ":") && strings.Contains(item, ","):
		// Inline map: "- field: command, operator: regex_match".
		m := map[string]string{}
		for part := range strings.SplitSeq(item, ",") {
			k, v, ok := strings.Cut(part, ":")
			if !ok {
				continue
			}

			m[strings.TrimSpace(k)] = unquote(strings.TrimSpace(v))
		}

		s.list = append(s.list, m)
		s.inDictItem = false

	case strings.Contains(item, ":"):
		// First pair of a multi-line map item.
		k, v, _ := strings.Cut(item, ":")
		s.dict = map[string]string{strings.TrimSpace(k): unquote(strings.TrimSpace(v))}
		s.inDictItem = true

	default:
		s.list = append(s.list, unquote(item))
		s.inDictItem = false
	}
}

// flush stores the open list, including any open map item, under its key.
// A list opened by an empty key is never stored, and stays open.
func (s *scanner) flush() {
	if !s.inList || s.key == "" {
		return
	}

	if s.inDictItem && len(s.dict) > 0 {
		s.list = append(s.list, s.dict)
		s.dict = map[string]string{}
	}

	s.h[s.key] = s.list
	s.inList = false
	s.inDictItem = false
	s.list = nil
}

func scalar(value string) any {
	value = unquote(value)

	switch strings.ToLower(value) {
	case "true":
		return true
	case "false":
		return false
	}

	return value
}

// unquote trims every leading and trailing double quote, then every leading
// and trailing single quote.
func unquote(s string) string {
	return strings.Trim(strings.Trim(s, `"`), "'")
}
