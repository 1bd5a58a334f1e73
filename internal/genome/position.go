package genome

import (
	"errors"
	"fmt"
)

// ErrInvalidPosition is returned for positions outside their contig.
var ErrInvalidPosition = errors.New("invalid genome position")

// Strand of a position, interval or transcript.
type Strand int8

const (
	Forward Strand = 1
	Reverse Strand = -1
)

// Opposite returns the other strand.
func (s Strand) Opposite() Strand {
	return -s
}

// String returns "+" or "-".
func (s Strand) String() string {
	if s == Reverse {
		return "-"
	}
	return "+"
}

// ParseStrand converts "+"/"-" to a Strand.
func ParseStrand(s string) (Strand, error) {
	switch s {
	case "+":
		return Forward, nil
	case "-":
		return Reverse, nil
	}
	return 0, fmt.Errorf("invalid strand %q", s)
}

// PositionType tells how an input offset is counted.
type PositionType int8

const (
	ZeroBased PositionType = iota
	OneBased
)

// Position is a single base on one strand of a contig.
// Pos is always zero-based and counted along the position's own strand.
type Position struct {
	Contig Contig
	Strand Strand
	Pos    int64
}

// NewPosition creates a position, converting one-based input.
func NewPosition(c Contig, s Strand, pos int64, pt PositionType) (Position, error) {
	if pt == OneBased {
		pos--
	}
	if s != Forward && s != Reverse {
		return Position{}, fmt.Errorf("%w: strand %d", ErrInvalidPosition, s)
	}
	if pos < 0 || (c.Length > 0 && pos >= c.Length) {
		return Position{}, fmt.Errorf("%w: %s:%d outside [0, %d)", ErrInvalidPosition, c.Name, pos, c.Length)
	}
	return Position{Contig: c, Strand: s, Pos: pos}, nil
}

// WithStrand returns the same base expressed on strand s.
func (p Position) WithStrand(s Strand) Position {
	if p.Strand == s {
		return p
	}
	return Position{Contig: p.Contig, Strand: s, Pos: p.Contig.Length - 1 - p.Pos}
}

// OneBased returns the one-based offset on the position's strand.
func (p Position) OneBased() int64 {
	return p.Pos + 1
}

// Shift returns the position moved by delta bases along its strand.
func (p Position) Shift(delta int64) Position {
	p.Pos += delta
	return p
}

// String formats the position as "chr1:1234(+)" using one-based offsets.
func (p Position) String() string {
	return fmt.Sprintf("%s:%d(%s)", p.Contig.Name, p.OneBased(), p.Strand)
}

// Interval is a half-open range [Begin, End) on one strand of a contig.
type Interval struct {
	Contig Contig
	Strand Strand
	Begin  int64
	End    int64
}

// NewInterval creates an interval from zero-based half-open bounds.
func NewInterval(c Contig, s Strand, begin, end int64) (Interval, error) {
	if begin > end || begin < 0 || (c.Length > 0 && end > c.Length) {
		return Interval{}, fmt.Errorf("%w: %s:[%d, %d)", ErrInvalidPosition, c.Name, begin, end)
	}
	return Interval{Contig: c, Strand: s, Begin: begin, End: end}, nil
}

// Len returns the number of bases in the interval.
func (iv Interval) Len() int64 {
	return iv.End - iv.Begin
}

// IsEmpty reports whether the interval has no bases.
func (iv Interval) IsEmpty() bool {
	return iv.End <= iv.Begin
}

// WithStrand returns the interval expressed on strand s.
func (iv Interval) WithStrand(s Strand) Interval {
	if iv.Strand == s {
		return iv
	}
	l := iv.Contig.Length
	return Interval{Contig: iv.Contig, Strand: s, Begin: l - iv.End, End: l - iv.Begin}
}

// Contains reports whether the position lies inside the interval.
func (iv Interval) Contains(p Position) bool {
	if p.Contig.ID != iv.Contig.ID {
		return false
	}
	p = p.WithStrand(iv.Strand)
	return p.Pos >= iv.Begin && p.Pos < iv.End
}

// Overlaps reports whether two intervals share at least one base.
func (iv Interval) Overlaps(o Interval) bool {
	if o.Contig.ID != iv.Contig.ID {
		return false
	}
	o = o.WithStrand(iv.Strand)
	return iv.Begin < o.End && o.Begin < iv.End
}

// ContainsInterval reports whether o lies entirely inside the interval.
func (iv Interval) ContainsInterval(o Interval) bool {
	if o.Contig.ID != iv.Contig.ID {
		return false
	}
	o = o.WithStrand(iv.Strand)
	return o.Begin >= iv.Begin && o.End <= iv.End
}

// BeginPos returns the first base of the interval.
func (iv Interval) BeginPos() Position {
	return Position{Contig: iv.Contig, Strand: iv.Strand, Pos: iv.Begin}
}

// LastPos returns the last base of the interval.
func (iv Interval) LastPos() Position {
	return Position{Contig: iv.Contig, Strand: iv.Strand, Pos: iv.End - 1}
}

// String formats the interval as "chr1:1001-2000(+)" (one-based, inclusive).
func (iv Interval) String() string {
	return fmt.Sprintf("%s:%d-%d(%s)", iv.Contig.Name, iv.Begin+1, iv.End, iv.Strand)
}
