package annotate

import (
	"errors"
	"fmt"

	"github.com/inodb/vibe-anno/internal/cache"
	"github.com/inodb/vibe-anno/internal/genome"
)

// ErrContigMismatch is returned when a variant and a transcript lie on
// different contigs.
var ErrContigMismatch = errors.New("variant and transcript on different contigs")

// DefaultFlankLength is the distance beyond a transcript's ends within which
// a variant is upstream or downstream rather than intergenic.
const DefaultFlankLength = 1000

// Splice window sizes, in bases counted from the exon/intron junction.
const (
	spliceSiteSize       = 2 // donor/acceptor: intron bases 1-2
	spliceRegionIntronic = 8 // region: intron bases 3-8
	spliceRegionExonic   = 3 // region: last/first 3 exon bases
)

// RegionKind tells where a variant falls relative to a transcript.
type RegionKind int

const (
	RegionUpstream RegionKind = iota
	RegionDownstream
	RegionIntergenic
	RegionFivePrimeUTR
	RegionThreePrimeUTR
	RegionIntronic
	RegionExonic
)

var regionKindNames = [...]string{
	RegionUpstream:      "UPSTREAM",
	RegionDownstream:    "DOWNSTREAM",
	RegionIntergenic:    "INTERGENIC",
	RegionFivePrimeUTR:  "FIVE_PRIME_UTR",
	RegionThreePrimeUTR: "THREE_PRIME_UTR",
	RegionIntronic:      "INTRONIC",
	RegionExonic:        "EXONIC",
}

func (k RegionKind) String() string {
	if k < 0 || int(k) >= len(regionKindNames) {
		return fmt.Sprintf("RegionKind(%d)", int(k))
	}
	return regionKindNames[k]
}

// IsOutside reports whether the kind places the variant outside the exon span.
func (k RegionKind) IsOutside() bool {
	return k == RegionUpstream || k == RegionDownstream || k == RegionIntergenic
}

// SpliceWindow is the splice window a position falls in, if any.
// Region is only reported when donor and acceptor do not apply.
type SpliceWindow int

const (
	SpliceNone SpliceWindow = iota
	SpliceDonor
	SpliceAcceptor
	SpliceRegion
)

func (w SpliceWindow) String() string {
	switch w {
	case SpliceDonor:
		return "donor"
	case SpliceAcceptor:
		return "acceptor"
	case SpliceRegion:
		return "region"
	}
	return "none"
}

// Segment is the part of the transcript an exon base or intron belongs to.
type Segment int

const (
	SegmentNonCoding Segment = iota
	SegmentFivePrimeUTR
	SegmentCDS
	SegmentThreePrimeUTR
)

// AnnoLoc describes where a variant lies within a transcript.
type AnnoLoc struct {
	Kind      RegionKind
	Rank      int // 0-based exon index (exonic) or intron index (intronic)
	RankCount int // number of exons (exonic) or introns (intronic)
	// TxOffset is the 0-based transcript offset of the base for exonic
	// positions, and of the anchor exon base for intronic positions.
	TxOffset int64
	// IntronOffset is the signed distance from the anchor into the intron:
	// positive past an exon's 3' end, negative before an exon's 5' start.
	IntronOffset int64
	Splice       SpliceWindow
	Segment      Segment
}

// IsIntronic reports whether the location is within an intron.
func (l *AnnoLoc) IsIntronic() bool {
	return l.Kind == RegionIntronic
}

// RankString formats the 1-based rank as "2/5".
func (l *AnnoLoc) RankString() string {
	return fmt.Sprintf("%d/%d", l.Rank+1, l.RankCount)
}

// Classification is the placement of a variant relative to a transcript.
// Loc is nil for upstream, downstream and intergenic placements.
type Classification struct {
	Kind RegionKind
	Loc  *AnnoLoc
}

// Classify places a variant relative to a transcript. Positions outside the
// exon span within flank bases are upstream or downstream (strand-aware);
// further away they are intergenic.
func Classify(v genome.Variant, t *cache.Transcript, flank int64) (Classification, error) {
	if v.Pos.Contig.ID != t.Contig().ID {
		return Classification{}, fmt.Errorf("%w: %s vs %s (%s)", ErrContigMismatch, v.Pos.Contig.Name, t.Contig().Name, t.ID)
	}

	pos := v.WithStrand(t.Strand).Pos.Pos
	span := t.LocalTxRegion()
	switch {
	case pos < span.Begin:
		if span.Begin-pos <= flank {
			return Classification{Kind: RegionUpstream}, nil
		}
		return Classification{Kind: RegionIntergenic}, nil
	case pos >= span.End:
		if pos-span.End+1 <= flank {
			return Classification{Kind: RegionDownstream}, nil
		}
		return Classification{Kind: RegionIntergenic}, nil
	}

	local := v.Pos.WithStrand(t.Strand)
	if i := t.FindExon(local); i >= 0 {
		loc := classifyExonic(t, i, pos)
		return Classification{Kind: loc.Kind, Loc: loc}, nil
	}
	if r := t.FindIntron(local); r >= 0 {
		loc := classifyIntronic(t, r, pos)
		return Classification{Kind: loc.Kind, Loc: loc}, nil
	}
	return Classification{}, fmt.Errorf("%s: position %s not placed in any exon or intron", t.ID, v.Pos)
}

func classifyExonic(t *cache.Transcript, i int, pos int64) *AnnoLoc {
	exon := t.LocalExon(i)
	tx := t.ExonStartOffset(i) + pos - exon.Begin
	loc := &AnnoLoc{
		Kind:      RegionExonic,
		Rank:      i,
		RankCount: t.ExonCount(),
		TxOffset:  tx,
		Segment:   SegmentNonCoding,
	}

	if t.IsProteinCoding() {
		switch {
		case tx < t.CDSBeginOffset():
			loc.Kind = RegionFivePrimeUTR
			loc.Segment = SegmentFivePrimeUTR
		case tx >= t.CDSEndOffset():
			loc.Kind = RegionThreePrimeUTR
			loc.Segment = SegmentThreePrimeUTR
		default:
			loc.Segment = SegmentCDS
		}
	}

	// Only internal junctions count; the transcript ends are not splice sites.
	if i > 0 && pos-exon.Begin < spliceRegionExonic {
		loc.Splice = SpliceRegion
	}
	if i < t.ExonCount()-1 && exon.End-1-pos < spliceRegionExonic {
		loc.Splice = SpliceRegion
	}
	return loc
}

func classifyIntronic(t *cache.Transcript, r int, pos int64) *AnnoLoc {
	prev, next := t.LocalExon(r), t.LocalExon(r+1)
	fromDonor := pos - prev.End + 1 // 1 for the first intron base
	fromAcceptor := next.Begin - pos

	loc := &AnnoLoc{
		Kind:      RegionIntronic,
		Rank:      r,
		RankCount: t.ExonCount() - 1,
	}

	// Ties go to the 5' exon.
	if fromDonor <= fromAcceptor {
		loc.TxOffset = t.ExonStartOffset(r) + prev.Len() - 1
		loc.IntronOffset = fromDonor
	} else {
		loc.TxOffset = t.ExonStartOffset(r + 1)
		loc.IntronOffset = -fromAcceptor
	}

	switch {
	case fromDonor <= spliceSiteSize:
		loc.Splice = SpliceDonor
	case fromAcceptor <= spliceSiteSize:
		loc.Splice = SpliceAcceptor
	case fromDonor <= spliceRegionIntronic || fromAcceptor <= spliceRegionIntronic:
		loc.Splice = SpliceRegion
	}

	boundary := t.ExonStartOffset(r + 1)
	switch {
	case !t.IsProteinCoding():
		loc.Segment = SegmentNonCoding
	case boundary <= t.CDSBeginOffset():
		loc.Segment = SegmentFivePrimeUTR
	case boundary >= t.CDSEndOffset():
		loc.Segment = SegmentThreePrimeUTR
	default:
		loc.Segment = SegmentCDS
	}
	return loc
}
