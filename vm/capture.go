package vm

import "fmt"

// Span is a half-open byte range [Start, End) of the input.
type Span struct {
	Start int
	End   int
}

// Len returns the length of the span in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}

// CaptureStack is the history of one capture group. begin-capture pushes a
// pending entry, end-capture completes the innermost pending one. A group
// entered several times under repetition keeps every completed span; Last
// reports the most recent.
type CaptureStack struct {
	entries []Span // End < 0 while pending
	last    int    // 1 + index of the most recently completed entry, 0 if none
}

func (c *CaptureStack) begin(pos int) {
	c.entries = append(c.entries, Span{Start: pos, End: -1})
}

func (c *CaptureStack) end(pos int) {
	for i := len(c.entries) - 1; i >= 0; i-- {
		if c.entries[i].End < 0 {
			c.entries[i].End = pos
			c.last = i + 1
			return
		}
	}
	panic("vm: end-capture without a matching begin-capture")
}

func (c CaptureStack) clone() CaptureStack {
	if c.entries == nil {
		return c
	}
	entries := make([]Span, len(c.entries))
	copy(entries, c.entries)
	return CaptureStack{entries: entries, last: c.last}
}

// Last returns the most recently completed span.
func (c CaptureStack) Last() (Span, bool) {
	if c.last == 0 {
		return Span{Start: -1, End: -1}, false
	}
	return c.entries[c.last-1], true
}

// Spans returns the completed spans in the order they were opened.
func (c CaptureStack) Spans() []Span {
	var out []Span
	for _, s := range c.entries {
		if s.End >= 0 {
			out = append(out, s)
		}
	}
	return out
}

// Len returns the number of completed spans.
func (c CaptureStack) Len() int {
	n := 0
	for _, s := range c.entries {
		if s.End >= 0 {
			n++
		}
	}
	return n
}
