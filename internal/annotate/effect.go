package annotate

import (
	"math/bits"
	"strings"
)

// VariantEffect is a Sequence Ontology effect term. The ordinal order is
// the severity order used for sorting and output.
type VariantEffect uint8

const (
	// HIGH impact
	StopGained VariantEffect = iota
	FrameshiftVariant
	StopLost
	StartLost
	SpliceAcceptorVariant
	SpliceDonorVariant

	// MODERATE impact
	MissenseVariant

	// LOW impact
	SpliceRegionVariant
	StopRetainedVariant
	SynonymousVariant

	// MODIFIER impact
	FivePrimeUTRVariant
	ThreePrimeUTRVariant
	NonCodingTranscriptExonVariant
	CodingTranscriptIntronVariant
	NonCodingTranscriptIntronVariant
	UpstreamGeneVariant
	DownstreamGeneVariant
	IntergenicVariant

	numEffects
)

// Impact levels.
const (
	ImpactHigh     = "HIGH"
	ImpactModerate = "MODERATE"
	ImpactLow      = "LOW"
	ImpactModifier = "MODIFIER"
)

var effectTerms = [numEffects]string{
	StopGained:                       "stop_gained",
	FrameshiftVariant:                "frameshift_variant",
	StopLost:                         "stop_lost",
	StartLost:                        "start_lost",
	SpliceAcceptorVariant:            "splice_acceptor_variant",
	SpliceDonorVariant:               "splice_donor_variant",
	MissenseVariant:                  "missense_variant",
	SpliceRegionVariant:              "splice_region_variant",
	StopRetainedVariant:              "stop_retained_variant",
	SynonymousVariant:                "synonymous_variant",
	FivePrimeUTRVariant:              "5_prime_UTR_variant",
	ThreePrimeUTRVariant:             "3_prime_UTR_variant",
	NonCodingTranscriptExonVariant:   "non_coding_transcript_exon_variant",
	CodingTranscriptIntronVariant:    "coding_transcript_intron_variant",
	NonCodingTranscriptIntronVariant: "non_coding_transcript_intron_variant",
	UpstreamGeneVariant:              "upstream_gene_variant",
	DownstreamGeneVariant:            "downstream_gene_variant",
	IntergenicVariant:                "intergenic_variant",
}

// String returns the Sequence Ontology term.
func (e VariantEffect) String() string {
	if e >= numEffects {
		return "unknown"
	}
	return effectTerms[e]
}

// Impact returns HIGH, MODERATE, LOW or MODIFIER.
func (e VariantEffect) Impact() string {
	switch {
	case e <= SpliceDonorVariant:
		return ImpactHigh
	case e == MissenseVariant:
		return ImpactModerate
	case e <= SynonymousVariant:
		return ImpactLow
	}
	return ImpactModifier
}

// ImpactRank returns numeric rank for impact comparison (higher = more severe).
func ImpactRank(impact string) int {
	switch impact {
	case ImpactHigh:
		return 3
	case ImpactModerate:
		return 2
	case ImpactLow:
		return 1
	default:
		return 0
	}
}

// EffectSet is a set of effects. It iterates in ordinal order regardless of
// insertion order.
type EffectSet uint32

// NewEffectSet returns a set holding the given effects.
func NewEffectSet(effects ...VariantEffect) EffectSet {
	var s EffectSet
	for _, e := range effects {
		s = s.With(e)
	}
	return s
}

// With returns the set with e added.
func (s EffectSet) With(e VariantEffect) EffectSet {
	return s | 1<<e
}

// Has reports whether e is in the set.
func (s EffectSet) Has(e VariantEffect) bool {
	return s&(1<<e) != 0
}

// Len returns the number of effects in the set.
func (s EffectSet) Len() int {
	return bits.OnesCount32(uint32(s))
}

// IsEmpty reports whether the set has no effects.
func (s EffectSet) IsEmpty() bool {
	return s == 0
}

// Effects returns the effects in ordinal order.
func (s EffectSet) Effects() []VariantEffect {
	out := make([]VariantEffect, 0, s.Len())
	for rest := uint32(s); rest != 0; rest &= rest - 1 {
		out = append(out, VariantEffect(bits.TrailingZeros32(rest)))
	}
	return out
}

// MostSevere returns the lowest-ordinal effect, or false for an empty set.
func (s EffectSet) MostSevere() (VariantEffect, bool) {
	if s == 0 {
		return 0, false
	}
	return VariantEffect(bits.TrailingZeros32(uint32(s))), true
}

// Impact returns the highest impact among the effects.
func (s EffectSet) Impact() string {
	if e, ok := s.MostSevere(); ok {
		return e.Impact()
	}
	return ImpactModifier
}

// String joins the terms with commas, e.g. "missense_variant,splice_region_variant".
func (s EffectSet) String() string {
	effects := s.Effects()
	terms := make([]string, len(effects))
	for i, e := range effects {
		terms[i] = e.String()
	}
	return strings.Join(terms, ",")
}

// AggregateEffects combines a classification and protein change into the
// final effect set. pc may be nil.
func AggregateEffects(c Classification, pc *ProteinChange, coding bool) EffectSet {
	switch c.Kind {
	case RegionUpstream:
		return NewEffectSet(UpstreamGeneVariant)
	case RegionDownstream:
		return NewEffectSet(DownstreamGeneVariant)
	case RegionIntergenic:
		return NewEffectSet(IntergenicVariant)
	}
	loc := c.Loc
	if loc == nil {
		return 0
	}

	var s EffectSet
	switch loc.Kind {
	case RegionFivePrimeUTR:
		s = s.With(FivePrimeUTRVariant)
	case RegionThreePrimeUTR:
		s = s.With(ThreePrimeUTRVariant)
	case RegionIntronic:
		switch loc.Segment {
		case SegmentFivePrimeUTR:
			s = s.With(FivePrimeUTRVariant)
		case SegmentThreePrimeUTR:
			s = s.With(ThreePrimeUTRVariant)
		case SegmentCDS:
			s = s.With(CodingTranscriptIntronVariant)
		default:
			if coding {
				s = s.With(CodingTranscriptIntronVariant)
			} else {
				s = s.With(NonCodingTranscriptIntronVariant)
			}
		}
	case RegionExonic:
		if !coding {
			s = s.With(NonCodingTranscriptExonVariant)
		} else if pc != nil {
			s |= proteinEffects(pc)
		}
	}

	switch loc.Splice {
	case SpliceDonor:
		s = s.With(SpliceDonorVariant)
	case SpliceAcceptor:
		s = s.With(SpliceAcceptorVariant)
	case SpliceRegion:
		s = s.With(SpliceRegionVariant)
	}
	return s
}

// proteinEffects maps a coding-exon protein change to its effects.
func proteinEffects(pc *ProteinChange) EffectSet {
	switch pc.Kind {
	case ProteinNoChange:
		if pc.RefAA == '*' {
			return NewEffectSet(StopRetainedVariant, SynonymousVariant)
		}
		return NewEffectSet(SynonymousVariant)
	case ProteinSubstitution:
		return NewEffectSet(MissenseVariant)
	case ProteinStopGained:
		return NewEffectSet(StopGained)
	case ProteinStopLostExtension:
		return NewEffectSet(StopLost)
	case ProteinStartLost:
		if pc.AltAA == '*' {
			return NewEffectSet(StartLost, StopGained)
		}
		return NewEffectSet(StartLost, MissenseVariant)
	case ProteinFrameshift:
		return NewEffectSet(FrameshiftVariant)
	}
	return 0
}
