package numbering

import (
	"testing"

	"github.com/matzehuels/folio/pkg/errors"
)

func TestNumeralStyleFormat(t *testing.T) {
	tests := []struct {
		style NumeralStyle
		n     int
		want  string
	}{
		{Decimal, 7, "7"},
		{Decimal, 0, "0"},
		{UpperAlpha, 1, "A"},
		{UpperAlpha, 26, "Z"},
		{UpperAlpha, 27, "AA"},
		{UpperAlpha, 52, "AZ"},
		{UpperAlpha, 53, "BA"},
		{UpperAlpha, 703, "AAA"},
		{LowerAlpha, 28, "ab"},
		{UpperRoman, 4, "IV"},
		{UpperRoman, 1994, "MCMXCIV"},
		{UpperRoman, 3999, "MMMCMXCIX"},
		{UpperRoman, 4000, "4000"},
		{LowerRoman, 9, "ix"},
		{LowerRoman, 0, "0"},
	}
	for _, tt := range tests {
		if got := tt.style.Format(tt.n); got != tt.want {
			t.Errorf("%s.Format(%d) = %q, want %q", tt.style, tt.n, got, tt.want)
		}
	}
}

func TestParseNumeralStyle(t *testing.T) {
	for style, name := range styleNames {
		got, err := ParseNumeralStyle(name)
		if err != nil || got != style {
			t.Errorf("ParseNumeralStyle(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseNumeralStyle("klingon"); err == nil {
		t.Error("expected error for unknown style")
	}
}

func TestCompileFormat(t *testing.T) {
	decimal := func(int) NumeralStyle { return Decimal }
	tests := []struct {
		format   string
		path     []int
		stripped []bool
		want     string
	}{
		{"[1.][2.][3.]", []int{1, 2, 3}, nil, "1.2.3."},
		{"[I1.][a2)]", []int{3, 2}, nil, "III.b)"},
		{"Annex [A1]", []int{3}, nil, "Annex C"},
		{"[Appendix 1]", []int{2}, nil, "Appendix 2"},
		{"[1.][2.][3.]", []int{1, 0, 4}, []bool{false, true, false}, "1.4."},
		{"[1.][2.][3.]", []int{1, 0, 4}, []bool{false, false, false}, "1.0.4."},
		{"[1.][2.][3.]", []int{5}, nil, "5."},
		{"§ [1]", []int{4}, nil, "§ 4"},
		{"no groups", []int{1}, nil, "no groups"},
	}
	for _, tt := range tests {
		f, err := CompileFormat(tt.format)
		if err != nil {
			t.Errorf("CompileFormat(%q) error: %v", tt.format, err)
			continue
		}
		if got := f.Render(tt.path, tt.stripped, decimal); got != tt.want {
			t.Errorf("Render(%q, %v) = %q, want %q", tt.format, tt.path, got, tt.want)
		}
	}
}

func TestCompileFormatErrors(t *testing.T) {
	for _, src := range []string{"[1.", "1.]", "[x]", "[[1]]", "[0]"} {
		_, err := CompileFormat(src)
		if !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("CompileFormat(%q) error = %v, want INVALID_FORMAT", src, err)
		}
	}
}

func TestFormatCovers(t *testing.T) {
	f := MustCompileFormat("[1.][3]")
	if !f.Covers(1) || f.Covers(2) || !f.Covers(3) {
		t.Errorf("Covers() wrong for %s", f)
	}
	if levels := f.Levels(); len(levels) != 2 || levels[0] != 1 || levels[1] != 3 {
		t.Errorf("Levels() = %v, want [1 3]", levels)
	}
}

func TestCounterIncrement(t *testing.T) {
	tests := []struct {
		name   string
		levels []int
		skip   SkipPolicy
		want   string
	}{
		{"sequential", []int{1, 2, 2}, Strip, "1.2."},
		{"reset on parent", []int{1, 2, 2, 1, 2}, Strip, "2.1."},
		{"skip strip", []int{1, 3}, Strip, "1.0.1."},
		{"skip zero", []int{1, 3}, Zero, "1.0.1."},
		{"skip one", []int{1, 3}, One, "1.1.1."},
		{"skip from empty", []int{2}, One, "1.1."},
		{"pad then fill", []int{1, 3, 2}, Strip, "1.1."},
		{"deep then shallow", []int{1, 2, 3, 1}, Strip, "2."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c counter
			for _, l := range tt.levels {
				c.increment(l, tt.skip)
			}
			if got := canonical(c.values); got != tt.want {
				t.Errorf("canonical = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCounterStripMarks(t *testing.T) {
	var c counter
	c.increment(1, Strip)
	c.increment(3, Strip)
	_, stripped := c.path()
	if len(stripped) != 3 || stripped[0] || !stripped[1] || stripped[2] {
		t.Errorf("stripped = %v, want [false true false]", stripped)
	}
	c.increment(2, Strip)
	if _, stripped = c.path(); stripped[1] {
		t.Error("advancing a padded level should clear its strip mark")
	}
}

func TestCountersBlockLabelBase(t *testing.T) {
	cs := newCounters()
	if got := cs.relative("annex", 3); got != 1 {
		t.Errorf("relative(annex, 3) = %d, want 1", got)
	}
	if got := cs.relative("annex", 4); got != 2 {
		t.Errorf("relative(annex, 4) = %d, want 2", got)
	}
	if got := cs.relative("annex", 1); got != 1 {
		t.Errorf("relative(annex, 1) = %d, want clamped 1", got)
	}
	if got := cs.relative("", 3); got != 3 {
		t.Errorf("relative(\"\", 3) = %d, want 3", got)
	}
}

func TestSchemeValidate(t *testing.T) {
	tests := []struct {
		name    string
		scheme  Scheme
		wantErr bool
	}{
		{"default", DefaultScheme(), false},
		{"bad level", Scheme{Name: "x", Levels: []LevelFormat{{Level: 0}}}, true},
		{"bad format", Scheme{Name: "x", Levels: []LevelFormat{{Level: 1, Format: "[1"}}}, true},
		{"duplicate", Scheme{Name: "x", Levels: []LevelFormat{{Level: 1}, {Level: 1}}}, true},
		{"same level other kind", Scheme{Name: "x", Levels: []LevelFormat{{Level: 1}, {Level: 1, Element: ParagraphsOnly}}}, false},
		{"bad block label", Scheme{Name: "x", Levels: []LevelFormat{{Level: 1, BlockLabel: "1abc"}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.scheme.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() code = %q, want INVALID_CONFIG", errors.GetCode(err))
			}
		})
	}
}
