package annotate

import (
	"strconv"

	"github.com/inodb/vibe-anno/internal/cache"
)

// CDSPosKind tells which part of a coding transcript a CDSPos is counted in.
type CDSPosKind int

const (
	CDSCoding        CDSPosKind = iota // 1-based inside the CDS
	CDSFivePrimeUTR                    // negative, counted back from the first CDS base
	CDSThreePrimeUTR                   // positive, counted on from the last CDS base
)

// CDSPos is an exonic transcript base in CDS coordinates.
type CDSPos struct {
	Kind CDSPosKind
	Pos  int64
}

// String renders the position as "123", "-12" or "*5".
func (p CDSPos) String() string {
	if p.Kind == CDSThreePrimeUTR {
		return "*" + strconv.FormatInt(p.Pos, 10)
	}
	return strconv.FormatInt(p.Pos, 10)
}

// CDSPoint is a CDS position plus an optional signed intron offset.
type CDSPoint struct {
	Anchor CDSPos
	Offset int64
}

// String renders the point as "123", "-70+1" or "1044-11".
func (p CDSPoint) String() string {
	s := p.Anchor.String()
	switch {
	case p.Offset > 0:
		s += "+" + strconv.FormatInt(p.Offset, 10)
	case p.Offset < 0:
		s += strconv.FormatInt(p.Offset, 10)
	}
	return s
}

// ToCDSPos converts a 0-based transcript offset to CDS coordinates.
// Returns false for non-coding transcripts and offsets outside the transcript.
func ToCDSPos(t *cache.Transcript, tx int64) (CDSPos, bool) {
	if !t.IsProteinCoding() || tx < 0 || tx >= t.Length() {
		return CDSPos{}, false
	}
	begin, end := t.CDSBeginOffset(), t.CDSEndOffset()
	switch {
	case tx < begin:
		return CDSPos{Kind: CDSFivePrimeUTR, Pos: tx - begin}, true
	case tx >= end:
		return CDSPos{Kind: CDSThreePrimeUTR, Pos: tx - (end - 1)}, true
	}
	return CDSPos{Kind: CDSCoding, Pos: tx - begin + 1}, true
}

// ToTranscriptPos converts CDS coordinates back to a 0-based transcript offset.
func ToTranscriptPos(t *cache.Transcript, p CDSPos) (int64, bool) {
	if !t.IsProteinCoding() {
		return 0, false
	}
	var tx int64
	switch p.Kind {
	case CDSCoding:
		if p.Pos < 1 {
			return 0, false
		}
		tx = t.CDSBeginOffset() + p.Pos - 1
		if tx >= t.CDSEndOffset() {
			return 0, false
		}
	case CDSFivePrimeUTR:
		if p.Pos >= 0 {
			return 0, false
		}
		tx = t.CDSBeginOffset() + p.Pos
	case CDSThreePrimeUTR:
		if p.Pos < 1 {
			return 0, false
		}
		tx = t.CDSEndOffset() - 1 + p.Pos
	default:
		return 0, false
	}
	if tx < 0 || tx >= t.Length() {
		return 0, false
	}
	return tx, true
}

// ToCDSPoint converts an AnnoLoc to CDS coordinates, carrying the intron
// offset of intronic locations.
func ToCDSPoint(t *cache.Transcript, loc *AnnoLoc) (CDSPoint, bool) {
	anchor, ok := ToCDSPos(t, loc.TxOffset)
	if !ok {
		return CDSPoint{}, false
	}
	return CDSPoint{Anchor: anchor, Offset: loc.IntronOffset}, true
}
