package annotate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVariantEffect_Impact(t *testing.T) {
	tests := []struct {
		effect VariantEffect
		term   string
		impact string
	}{
		{StopGained, "stop_gained", ImpactHigh},
		{SpliceDonorVariant, "splice_donor_variant", ImpactHigh},
		{StartLost, "start_lost", ImpactHigh},
		{MissenseVariant, "missense_variant", ImpactModerate},
		{SpliceRegionVariant, "splice_region_variant", ImpactLow},
		{SynonymousVariant, "synonymous_variant", ImpactLow},
		{FivePrimeUTRVariant, "5_prime_UTR_variant", ImpactModifier},
		{CodingTranscriptIntronVariant, "coding_transcript_intron_variant", ImpactModifier},
		{IntergenicVariant, "intergenic_variant", ImpactModifier},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			assert.Equal(t, tt.term, tt.effect.String())
			assert.Equal(t, tt.impact, tt.effect.Impact())
		})
	}
	assert.Equal(t, "unknown", numEffects.String())
}

func TestImpactRank(t *testing.T) {
	assert.Greater(t, ImpactRank(ImpactHigh), ImpactRank(ImpactModerate))
	assert.Greater(t, ImpactRank(ImpactModerate), ImpactRank(ImpactLow))
	assert.Greater(t, ImpactRank(ImpactLow), ImpactRank(ImpactModifier))
	assert.Equal(t, 0, ImpactRank(""))
}

func TestEffectSet(t *testing.T) {
	s := NewEffectSet(SpliceRegionVariant, MissenseVariant)

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has(MissenseVariant))
	assert.False(t, s.Has(StopGained))
	assert.Equal(t, []VariantEffect{MissenseVariant, SpliceRegionVariant}, s.Effects(), "ordinal order")
	assert.Equal(t, "missense_variant,splice_region_variant", s.String())
	assert.Equal(t, ImpactModerate, s.Impact())

	most, ok := s.MostSevere()
	assert.True(t, ok)
	assert.Equal(t, MissenseVariant, most)

	var empty EffectSet
	assert.True(t, empty.IsEmpty())
	_, ok = empty.MostSevere()
	assert.False(t, ok)
	assert.Equal(t, ImpactModifier, empty.Impact())
	assert.Equal(t, "", empty.String())
	assert.Equal(t, s, s.With(MissenseVariant), "adding twice is a no-op")
}

func TestAggregateEffects(t *testing.T) {
	exonic := func(splice SpliceWindow) Classification {
		return Classification{Kind: RegionExonic, Loc: &AnnoLoc{Kind: RegionExonic, Splice: splice, Segment: SegmentCDS}}
	}
	intronic := func(seg Segment, splice SpliceWindow) Classification {
		return Classification{Kind: RegionIntronic, Loc: &AnnoLoc{Kind: RegionIntronic, Splice: splice, Segment: seg}}
	}
	pc := func(kind ProteinChangeKind, ref, alt byte) *ProteinChange {
		return &ProteinChange{Kind: kind, RefAA: ref, AltAA: alt}
	}

	tests := []struct {
		name   string
		cls    Classification
		pc     *ProteinChange
		coding bool
		want   EffectSet
	}{
		{"upstream", Classification{Kind: RegionUpstream}, nil, true, NewEffectSet(UpstreamGeneVariant)},
		{"downstream", Classification{Kind: RegionDownstream}, nil, true, NewEffectSet(DownstreamGeneVariant)},
		{"intergenic", Classification{Kind: RegionIntergenic}, nil, false, NewEffectSet(IntergenicVariant)},
		{"missense", exonic(SpliceNone), pc(ProteinSubstitution, 'R', 'H'), true, NewEffectSet(MissenseVariant)},
		{"missense near junction", exonic(SpliceRegion), pc(ProteinSubstitution, 'E', 'V'), true,
			NewEffectSet(MissenseVariant, SpliceRegionVariant)},
		{"synonymous", exonic(SpliceNone), pc(ProteinNoChange, 'A', 'A'), true, NewEffectSet(SynonymousVariant)},
		{"stop retained", exonic(SpliceNone), pc(ProteinNoChange, '*', '*'), true,
			NewEffectSet(StopRetainedVariant, SynonymousVariant)},
		{"stop gained", exonic(SpliceNone), pc(ProteinStopGained, 'C', '*'), true, NewEffectSet(StopGained)},
		{"stop lost", exonic(SpliceNone), pc(ProteinStopLostExtension, '*', 'Y'), true, NewEffectSet(StopLost)},
		{"start lost", exonic(SpliceNone), pc(ProteinStartLost, 'M', 'L'), true, NewEffectSet(StartLost, MissenseVariant)},
		{"start lost to stop", exonic(SpliceNone), pc(ProteinStartLost, 'M', '*'), true, NewEffectSet(StartLost, StopGained)},
		{"frameshift", exonic(SpliceNone), pc(ProteinFrameshift, 'R', 'G'), true, NewEffectSet(FrameshiftVariant)},
		{"non-coding exon", Classification{Kind: RegionExonic, Loc: &AnnoLoc{Kind: RegionExonic}}, nil, false,
			NewEffectSet(NonCodingTranscriptExonVariant)},
		{"5'UTR", Classification{Kind: RegionFivePrimeUTR, Loc: &AnnoLoc{Kind: RegionFivePrimeUTR}}, nil, true,
			NewEffectSet(FivePrimeUTRVariant)},
		{"3'UTR", Classification{Kind: RegionThreePrimeUTR, Loc: &AnnoLoc{Kind: RegionThreePrimeUTR}}, nil, true,
			NewEffectSet(ThreePrimeUTRVariant)},
		{"coding intron donor", intronic(SegmentCDS, SpliceDonor), &UncertainProteinChange, true,
			NewEffectSet(CodingTranscriptIntronVariant, SpliceDonorVariant)},
		{"coding intron acceptor", intronic(SegmentCDS, SpliceAcceptor), &UncertainProteinChange, true,
			NewEffectSet(CodingTranscriptIntronVariant, SpliceAcceptorVariant)},
		{"deep coding intron", intronic(SegmentCDS, SpliceNone), nil, true, NewEffectSet(CodingTranscriptIntronVariant)},
		{"5'UTR intron donor", intronic(SegmentFivePrimeUTR, SpliceDonor), nil, true,
			NewEffectSet(FivePrimeUTRVariant, SpliceDonorVariant)},
		{"3'UTR intron", intronic(SegmentThreePrimeUTR, SpliceRegion), nil, true,
			NewEffectSet(ThreePrimeUTRVariant, SpliceRegionVariant)},
		{"non-coding intron", intronic(SegmentNonCoding, SpliceNone), nil, false,
			NewEffectSet(NonCodingTranscriptIntronVariant)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want.String(), AggregateEffects(tt.cls, tt.pc, tt.coding).String())
		})
	}
}
