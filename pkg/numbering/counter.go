package numbering

import (
	"strconv"
	"strings"
)

// counter is one level-counter stack. stripped marks padded entries that
// rendered labels omit.
type counter struct {
	values   []int
	stripped []bool
}

// increment advances the counter at level (1-based). Deeper entries are
// discarded; missing entries between the current depth and level are padded
// according to skip.
func (c *counter) increment(level int, skip SkipPolicy) {
	switch n := len(c.values); {
	case level <= n:
		c.values = c.values[:level]
		c.stripped = c.stripped[:level]
		c.values[level-1]++
		c.stripped[level-1] = false
	default:
		pad, strip := 0, skip == Strip
		if skip == One {
			pad = 1
		}
		for len(c.values) < level-1 {
			c.values = append(c.values, pad)
			c.stripped = append(c.stripped, strip)
		}
		c.values = append(c.values, 1)
		c.stripped = append(c.stripped, false)
	}
}

// path returns copies of the current values and strip marks.
func (c *counter) path() ([]int, []bool) {
	return append([]int(nil), c.values...), append([]bool(nil), c.stripped...)
}

// canonical joins values with dots, outermost first, e.g. "1.0.2.".
func canonical(values []int) string {
	var sb strings.Builder
	for _, v := range values {
		sb.WriteString(strconv.Itoa(v))
		sb.WriteByte('.')
	}
	return sb.String()
}

// counters holds the default stack and one stack per block label. A block
// label's stack counts relative to the level where the label first
// appeared.
type counters struct {
	stacks map[string]*counter
	bases  map[string]int
}

func newCounters() *counters {
	return &counters{stacks: map[string]*counter{}, bases: map[string]int{}}
}

// relative maps an absolute level into the stack of blockLabel.
func (cs *counters) relative(blockLabel string, level int) int {
	if blockLabel == "" {
		return level
	}
	base, ok := cs.bases[blockLabel]
	if !ok {
		base = level - 1
		cs.bases[blockLabel] = base
	}
	return max(level-base, 1)
}

func (cs *counters) stack(blockLabel string) *counter {
	c, ok := cs.stacks[blockLabel]
	if !ok {
		c = &counter{}
		cs.stacks[blockLabel] = c
	}
	return c
}
