package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-logfmt/logfmt"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var all []string
		for scanner.Scan() {
			all = append(all, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return all, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Field is one structured key/value pair of an entry.
type Field struct {
	Key   string
	Value string
}

// Entry is a parsed logrus line.
type Entry struct {
	Time    string
	Level   string
	Message string
	Fields  []Field
}

// Parse reads a line written by logrus' text or JSON formatter. ok is false
// for anything else.
func Parse(line string) (Entry, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return Entry{}, false
	}
	if strings.HasPrefix(trimmed, "{") {
		return parseJSON(trimmed)
	}
	pairs, ok := splitPairs(trimmed)
	if !ok {
		return Entry{}, false
	}
	return fromPairs(pairs)
}

func parseJSON(line string) (Entry, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{}, false
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]Field, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, Field{Key: k, Value: fmt.Sprint(raw[k])})
	}
	return fromPairs(pairs)
}

func fromPairs(pairs []Field) (Entry, bool) {
	var e Entry
	seenLevel := false
	for _, p := range pairs {
		switch p.Key {
		case "time":
			e.Time = p.Value
		case "level":
			e.Level = p.Value
			seenLevel = true
		case "msg":
			e.Message = p.Value
		default:
			e.Fields = append(e.Fields, p)
		}
	}
	return e, seenLevel
}

// splitPairs decodes one logfmt record. Keys without a value keep an empty
// value.
func splitPairs(s string) ([]Field, bool) {
	dec := logfmt.NewDecoder(strings.NewReader(s))
	if !dec.ScanRecord() {
		return nil, false
	}
	var out []Field
	for dec.ScanKeyval() {
		out = append(out, Field{Key: string(dec.Key()), Value: string(dec.Value())})
	}
	if dec.Err() != nil {
		return nil, false
	}
	return out, len(out) > 0
}

// Palette styles the parts of a colorized line.
type Palette struct {
	Time  lipgloss.Style
	Debug lipgloss.Style
	Info  lipgloss.Style
	Warn  lipgloss.Style
	Error lipgloss.Style
	Key   lipgloss.Style
	Text  lipgloss.Style
}

func (p Palette) level(level string) lipgloss.Style {
	switch level {
	case "trace", "debug":
		return p.Debug
	case "warning", "warn":
		return p.Warn
	case "error", "fatal", "panic":
		return p.Error
	default:
		return p.Info
	}
}

// Colorize renders one log line. Lines that don't parse are rendered as
// plain text.
func Colorize(line string, p Palette) string {
	e, ok := Parse(line)
	if !ok {
		return p.Text.Render(line)
	}

	var b strings.Builder
	if e.Time != "" {
		b.WriteString(p.Time.Render(e.Time))
		b.WriteString(" ")
	}
	b.WriteString(p.level(e.Level).Render(fmt.Sprintf("%-5s", strings.ToUpper(shortLevel(e.Level)))))
	if e.Message != "" {
		b.WriteString(" ")
		b.WriteString(p.Text.Render(e.Message))
	}
	for _, f := range e.Fields {
		b.WriteString(" ")
		b.WriteString(p.Key.Render(f.Key + "="))
		b.WriteString(p.Text.Render(f.Value))
	}
	return b.String()
}

// ColorizeLines applies Colorize to every line.
func ColorizeLines(lines []string, p Palette) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = Colorize(line, p)
	}
	return out
}

func shortLevel(level string) string {
	if level == "warning" {
		return "warn"
	}
	return level
}
