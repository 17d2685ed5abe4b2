package manifest

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// DefaultMaxScanLines bounds the search for a version declaration to the head
// of the file, where manifest formats keep their package metadata.
const DefaultMaxScanLines = 16

var (
	ErrNoVersionLine  = errors.New("no version declaration found")
	ErrNotVersionLine = errors.New("not a version declaration")
	ErrFileTooLarge   = errors.New("file exceeds maximum size")
)

// versionLine matches a version declaration, e.g. `version = "1.2.3"`. The
// key must be the first token on the line, so keys inside inline tables do
// not match.
var versionLine = regexp.MustCompile(`^\s*version\s*=\s*(.+?)\s*$`)

// Line is a single line of a manifest: its content without the terminator,
// and the terminator itself ("\n", "\r\n", or "" for an unterminated final
// line).
type Line struct {
	Content    string
	Terminator string
}

// Manifest is the in-memory content of a manifest file.
type Manifest struct {
	Path  string
	lines []Line
}

// Load reads the file at path into a [Manifest].
func Load(path string) (*Manifest, error) {
	return LoadWithLimit(path, 0)
}

// LoadWithLimit reads the file at path into a [Manifest], returning
// [ErrFileTooLarge] if the file is larger than maxSize bytes. A maxSize of
// zero or less disables the size guard.
func LoadWithLimit(path string, maxSize int64) (*Manifest, error) {
	if maxSize > 0 {
		fi, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %q: %w", path, err)
		}

		if fi.Size() > maxSize {
			return nil, fmt.Errorf("%w: %q is %d bytes, limit is %d bytes",
				ErrFileTooLarge, path, fi.Size(), maxSize)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}

	return &Manifest{
		Path:  path,
		lines: splitLines(string(data)),
	}, nil
}

func splitLines(content string) []Line {
	var lines []Line

	for len(content) > 0 {
		i := strings.IndexByte(content, '\n')
		if i < 0 {
			lines = append(lines, Line{Content: content})

			break
		}

		line, rest := content[:i+1], content[i+1:]
		if strings.HasSuffix(line, "\r\n") {
			lines = append(lines, Line{Content: line[:len(line)-2], Terminator: "\r\n"})
		} else {
			lines = append(lines, Line{Content: line[:len(line)-1], Terminator: "\n"})
		}

		content = rest
	}

	return lines
}

// Len returns the number of lines in the manifest.
func (m *Manifest) Len() int {
	return len(m.lines)
}

// Line returns the line at idx.
func (m *Manifest) Line(idx int) Line {
	return m.lines[idx]
}

// FindVersionLine returns the index of the first version declaration,
// scanning at most maxScan lines from the top of the file. A maxScan of zero
// or less scans every line. Returns [ErrNoVersionLine] if no declaration is
// found within the scanned range.
func (m *Manifest) FindVersionLine(maxScan int) (int, error) {
	limit := len(m.lines)
	if maxScan > 0 && maxScan < limit {
		limit = maxScan
	}

	for i := range limit {
		if versionLine.MatchString(m.lines[i].Content) {
			return i, nil
		}
	}

	return 0, fmt.Errorf("%w within the first %d line(s) of %q", ErrNoVersionLine, limit, m.Path)
}

// Version returns the declared version value on the line at idx, with any
// surrounding quotes removed.
func (m *Manifest) Version(idx int) (string, error) {
	matches := versionLine.FindStringSubmatch(m.lines[idx].Content)
	if matches == nil {
		return "", fmt.Errorf("%w: line %d of %q", ErrNotVersionLine, idx+1, m.Path)
	}

	return unquote(matches[1]), nil
}

// SetVersion replaces the line at idx with a canonical version declaration
// terminated by a single line feed, regardless of the terminator style used
// elsewhere in the file. The idx must be a valid line index, normally
// obtained from [Manifest.FindVersionLine].
func (m *Manifest) SetVersion(idx int, version string) {
	m.lines[idx] = Line{
		Content:    fmt.Sprintf("version = %q", version),
		Terminator: "\n",
	}
}

// Bytes reassembles the manifest content.
func (m *Manifest) Bytes() []byte {
	var sb strings.Builder

	for _, line := range m.lines {
		sb.WriteString(line.Content)
		sb.WriteString(line.Terminator)
	}

	return []byte(sb.String())
}

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return s[1 : len(s)-1]
		}
	}

	return s
}
