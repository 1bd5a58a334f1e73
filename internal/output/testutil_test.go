package output

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-anno/internal/annotate"
	"github.com/inodb/vibe-anno/internal/genome"
	"github.com/inodb/vibe-anno/internal/vcf"
)

// krasG12C returns the KRAS G12C variant on GRCh38 and its canonical
// transcript annotation.
func krasG12C(t *testing.T) (*vcf.Variant, *annotate.Annotation) {
	t.Helper()
	v := &vcf.Variant{
		Chrom:   "12",
		Pos:     25245351,
		ID:      ".",
		Ref:     "C",
		Alt:     "A",
		Filter:  "PASS",
		RawInfo: "DP=50",
	}

	dict, err := genome.BuiltinRefDict("GRCh38")
	require.NoError(t, err)
	gv, err := v.ToGenome(dict)
	require.NoError(t, err)

	ann := &annotate.Annotation{
		TranscriptID: "ENST00000311936",
		GeneName:     "KRAS",
		GeneID:       "ENSG00000133703",
		Biotype:      "protein_coding",
		IsCanonical:  true,
		Loc:          &annotate.AnnoLoc{Kind: annotate.RegionExonic, Rank: 1, RankCount: 5, Segment: annotate.SegmentCDS},
		CDSChange: &annotate.CDSNTChange{
			Point: annotate.CDSPoint{Anchor: annotate.CDSPos{Kind: annotate.CDSCoding, Pos: 34}},
			Ref:   "G",
			Alt:   "T",
		},
		GenomicChange: annotate.GenomicNTChange{Variant: gv},
		ProteinChange: &annotate.ProteinChange{Kind: annotate.ProteinSubstitution, Pos: 12, RefAA: 'G', AltAA: 'C'},
		Effects:       annotate.NewEffectSet(annotate.MissenseVariant),
	}
	return v, ann
}

func intergenicAnnotation(t *testing.T, v *vcf.Variant) *annotate.Annotation {
	t.Helper()
	dict, err := genome.BuiltinRefDict("GRCh38")
	require.NoError(t, err)
	gv, err := v.ToGenome(dict)
	require.NoError(t, err)
	return &annotate.Annotation{
		GenomicChange: annotate.GenomicNTChange{Variant: gv},
		Effects:       annotate.NewEffectSet(annotate.IntergenicVariant),
	}
}
