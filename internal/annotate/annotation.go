package annotate

import (
	"github.com/inodb/vibe-anno/internal/genome"
)

// MessageRefMismatch is added when the variant's reference base disagrees
// with the transcript sequence.
const MessageRefMismatch = "ref_mismatch"

// Annotation is the predicted effect of a variant on one transcript. It is
// built once by BuildSNV and not modified afterwards.
type Annotation struct {
	TranscriptID string // Affected transcript, empty for intergenic results without a transcript
	GeneName     string // Gene symbol
	GeneID       string
	Biotype      string
	IsCanonical  bool

	Loc           *AnnoLoc     // nil for upstream, downstream and intergenic
	CDSChange     *CDSNTChange // nil outside coding transcripts
	GenomicChange GenomicNTChange
	ProteinChange *ProteinChange // nil when no protein statement applies
	Effects       EffectSet
	Messages      []string
}

// Variant returns the annotated variant on the forward strand.
func (a *Annotation) Variant() genome.Variant {
	return a.GenomicChange.Variant
}

// Consequence returns the comma-joined effect terms.
func (a *Annotation) Consequence() string {
	return a.Effects.String()
}

// Impact returns the highest impact of the effects.
func (a *Annotation) Impact() string {
	return a.Effects.Impact()
}

// HGVSg returns the genomic change, e.g. "g.6640669A>T".
func (a *Annotation) HGVSg() string {
	return a.GenomicChange.HGVS()
}

// HGVSc returns the CDS change with its "c." prefix, or "" if absent.
func (a *Annotation) HGVSc() string {
	if a.CDSChange == nil {
		return ""
	}
	return "c." + a.CDSChange.HGVS()
}

// HGVSp returns the protein change with its "p." prefix, or "" if absent.
func (a *Annotation) HGVSp() string {
	if a.ProteinChange == nil {
		return ""
	}
	return "p." + a.ProteinChange.HGVS()
}

// ExonRank returns "2/5" for exonic locations, or "".
func (a *Annotation) ExonRank() string {
	if a.Loc == nil || a.Loc.IsIntronic() {
		return ""
	}
	return a.Loc.RankString()
}

// IntronRank returns "1/4" for intronic locations, or "".
func (a *Annotation) IntronRank() string {
	if a.Loc == nil || !a.Loc.IsIntronic() {
		return ""
	}
	return a.Loc.RankString()
}

// HasMessage reports whether msg was recorded for the annotation.
func (a *Annotation) HasMessage(msg string) bool {
	for _, m := range a.Messages {
		if m == msg {
			return true
		}
	}
	return false
}
