package annotate

import (
	"errors"
	"fmt"

	"github.com/inodb/vibe-anno/internal/cache"
	"github.com/inodb/vibe-anno/internal/genome"
)

// ErrUnsupportedVariant is returned for variant shapes other than SNVs.
var ErrUnsupportedVariant = errors.New("unsupported variant")

// Options configures annotation building.
type Options struct {
	// FlankLength is the upstream/downstream window in bases. Zero selects
	// DefaultFlankLength.
	FlankLength int64
}

func (o Options) flank() int64 {
	if o.FlankLength <= 0 {
		return DefaultFlankLength
	}
	return o.FlankLength
}

// BuildSNV annotates a single-nucleotide variant against one transcript.
func BuildSNV(t *cache.Transcript, v genome.Variant, opts Options) (*Annotation, error) {
	if !v.IsSNV() {
		return nil, fmt.Errorf("%w: %s is not a single-nucleotide variant", ErrUnsupportedVariant, v)
	}
	cls, err := Classify(v, t, opts.flank())
	if err != nil {
		return nil, err
	}

	ann := &Annotation{
		TranscriptID:  t.ID,
		GeneName:      t.GeneName,
		GeneID:        t.GeneID,
		Biotype:       t.Biotype,
		IsCanonical:   t.IsCanonical,
		GenomicChange: GenomicNTChange{Variant: v.WithStrand(genome.Forward)},
	}

	loc := cls.Loc
	if loc == nil {
		ann.Effects = AggregateEffects(cls, nil, t.IsProteinCoding())
		return ann, nil
	}
	ann.Loc = loc

	local := v.WithStrand(t.Strand)
	if !loc.IsIntronic() && t.HasSequence() && local.Ref[0] != t.Sequence[loc.TxOffset] {
		ann.Messages = append(ann.Messages, MessageRefMismatch)
	}

	if t.IsProteinCoding() {
		if point, ok := ToCDSPoint(t, loc); ok {
			ann.CDSChange = &CDSNTChange{Point: point, Ref: local.Ref, Alt: local.Alt}
		}
		ann.ProteinChange = proteinChangeAt(t, loc, local.Alt[0])
	}

	ann.Effects = AggregateEffects(cls, ann.ProteinChange, t.IsProteinCoding())
	return ann, nil
}

// proteinChangeAt returns the protein change for a location of a coding
// transcript, or nil where no protein statement applies.
func proteinChangeAt(t *cache.Transcript, loc *AnnoLoc, alt byte) *ProteinChange {
	switch loc.Kind {
	case RegionExonic:
		cdsPos := loc.TxOffset - t.CDSBeginOffset() + 1
		pc := ComputeProteinChange(cdsPos, alt, t.CDSSequence(), t.UTR3Sequence())
		return &pc
	case RegionIntronic:
		if loc.Segment == SegmentCDS && loc.Splice != SpliceNone {
			pc := UncertainProteinChange
			return &pc
		}
	}
	return nil
}
