package numbering

import (
	"strconv"
	"strings"

	"github.com/matzehuels/folio/pkg/errors"
)

// Format is a compiled format string.
//
// A format is literal text mixed with bracket groups. Each group holds
// exactly one level token, an optional style letter (I, i, A, a) followed by
// a level number, surrounded by literal text:
//
//	[1.][2.]        1.2.
//	[I1.][a2)]      II.b)
//	Annex [A1]      Annex C
//
// A group is dropped from the output when its level is beyond the counter
// path or was stripped as a skipped level.
type Format struct {
	src    string
	pieces []piece
}

type piece struct {
	literal string

	group  bool
	pre    string
	post   string
	level  int
	style  NumeralStyle
	styled bool
}

// CompileFormat parses src.
func CompileFormat(src string) (*Format, error) {
	f := &Format{src: src}
	rest := src
	for rest != "" {
		open := strings.IndexByte(rest, '[')
		if closeAt := strings.IndexByte(rest, ']'); closeAt >= 0 && (open < 0 || closeAt < open) {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "format %q: unexpected ']'", src)
		}
		if open < 0 {
			f.pieces = append(f.pieces, piece{literal: rest})
			break
		}
		if open > 0 {
			f.pieces = append(f.pieces, piece{literal: rest[:open]})
		}
		end := strings.IndexByte(rest[open:], ']')
		if end < 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "format %q: unterminated group", src)
		}
		inner := rest[open+1 : open+end]
		if strings.IndexByte(inner, '[') >= 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "format %q: nested group", src)
		}
		g, ok := parseGroup(inner)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "format %q: group [%s] has no level", src, inner)
		}
		f.pieces = append(f.pieces, g)
		rest = rest[open+end+1:]
	}
	return f, nil
}

// MustCompileFormat is like CompileFormat but panics on error.
func MustCompileFormat(src string) *Format {
	f, err := CompileFormat(src)
	if err != nil {
		panic(err)
	}
	return f
}

func parseGroup(inner string) (piece, bool) {
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		start := i
		style, styled := styleLetter(c)
		switch {
		case isDigit(c):
			styled = false
		case styled && i+1 < len(inner) && isDigit(inner[i+1]) && (i == 0 || !isLetter(inner[i-1])):
			i++
		default:
			continue
		}
		j := i
		for j < len(inner) && isDigit(inner[j]) {
			j++
		}
		level, err := strconv.Atoi(inner[i:j])
		if err != nil || level < 1 {
			return piece{}, false
		}
		return piece{
			group:  true,
			pre:    inner[:start],
			post:   inner[j:],
			level:  level,
			style:  style,
			styled: styled,
		}, true
	}
	return piece{}, false
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }

// String returns the source of the format.
func (f *Format) String() string { return f.src }

// Covers reports whether the format renders level.
func (f *Format) Covers(level int) bool {
	for _, p := range f.pieces {
		if p.group && p.level == level {
			return true
		}
	}
	return false
}

// Levels returns the levels referenced by the format in order of
// appearance.
func (f *Format) Levels() []int {
	var out []int
	for _, p := range f.pieces {
		if p.group {
			out = append(out, p.level)
		}
	}
	return out
}

// Render writes path through the format. stripped marks skipped levels
// whose groups are dropped; styleFor resolves tokens without a style
// letter.
func (f *Format) Render(path []int, stripped []bool, styleFor func(level int) NumeralStyle) string {
	var sb strings.Builder
	for _, p := range f.pieces {
		if !p.group {
			sb.WriteString(p.literal)
			continue
		}
		if p.level > len(path) || (p.level <= len(stripped) && stripped[p.level-1]) {
			continue
		}
		style := p.style
		if !p.styled && styleFor != nil {
			style = styleFor(p.level)
		}
		sb.WriteString(p.pre)
		sb.WriteString(style.Format(path[p.level-1]))
		sb.WriteString(p.post)
	}
	return sb.String()
}

// implicitFormat returns "[1.][2.]...[level.]".
func implicitFormat(level int) *Format {
	var sb strings.Builder
	for l := 1; l <= max(level, 1); l++ {
		sb.WriteString("[" + strconv.Itoa(l) + ".]")
	}
	return MustCompileFormat(sb.String())
}
