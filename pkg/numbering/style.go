package numbering

import (
	"fmt"
	"strconv"
	"strings"
)

// NumeralStyle selects how one counter value is written.
type NumeralStyle int

const (
	Decimal NumeralStyle = iota
	UpperAlpha
	LowerAlpha
	UpperRoman
	LowerRoman
)

var styleNames = map[NumeralStyle]string{
	Decimal:    "decimal",
	UpperAlpha: "upper-alpha",
	LowerAlpha: "lower-alpha",
	UpperRoman: "upper-roman",
	LowerRoman: "lower-roman",
}

func (s NumeralStyle) String() string {
	if n, ok := styleNames[s]; ok {
		return n
	}
	return fmt.Sprintf("style(%d)", int(s))
}

// ParseNumeralStyle parses a style name such as "upper-roman".
func ParseNumeralStyle(s string) (NumeralStyle, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Decimal, nil
	}
	for style, name := range styleNames {
		if name == s {
			return style, nil
		}
	}
	return Decimal, fmt.Errorf("unknown numeral style %q", s)
}

func (s *NumeralStyle) UnmarshalText(text []byte) error {
	v, err := ParseNumeralStyle(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s NumeralStyle) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// styleLetter maps the style letters usable in format tokens.
func styleLetter(c byte) (NumeralStyle, bool) {
	switch c {
	case 'I':
		return UpperRoman, true
	case 'i':
		return LowerRoman, true
	case 'A':
		return UpperAlpha, true
	case 'a':
		return LowerAlpha, true
	}
	return Decimal, false
}

// Format writes n in style s. Zero and negative values are written as
// decimals; so are roman values above 3999.
func (s NumeralStyle) Format(n int) string {
	if n <= 0 {
		return strconv.Itoa(n)
	}
	switch s {
	case UpperAlpha:
		return alpha(n)
	case LowerAlpha:
		return strings.ToLower(alpha(n))
	case UpperRoman:
		return roman(n)
	case LowerRoman:
		return strings.ToLower(roman(n))
	}
	return strconv.Itoa(n)
}

// alpha writes n in bijective base 26: A..Z, AA..AZ, BA...
func alpha(n int) string {
	var buf []byte
	for n > 0 {
		n--
		buf = append(buf, byte('A'+n%26))
		n /= 26
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

var romanTable = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

func roman(n int) string {
	if n > 3999 {
		return strconv.Itoa(n)
	}
	var sb strings.Builder
	for _, r := range romanTable {
		for n >= r.value {
			sb.WriteString(r.symbol)
			n -= r.value
		}
	}
	return sb.String()
}
