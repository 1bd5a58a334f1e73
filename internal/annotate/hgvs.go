package annotate

import (
	"fmt"

	"github.com/inodb/vibe-anno/internal/genome"
)

// CDSNTChange is a nucleotide change in CDS coordinates. Alleles are on the
// transcript strand.
type CDSNTChange struct {
	Point CDSPoint
	Ref   string
	Alt   string
}

// HGVS renders the change without the "c." prefix, e.g. "2058T>A",
// "-70+1G>A" or "*5G>T".
func (c *CDSNTChange) HGVS() string {
	return c.Point.String() + c.Ref + ">" + c.Alt
}

// GenomicNTChange is the change on the forward strand of the genome.
type GenomicNTChange struct {
	Variant genome.Variant
}

// HGVS renders the change as "g.6640669A>T".
func (g GenomicNTChange) HGVS() string {
	return g.Variant.HGVS()
}

// HGVS renders the change without the "p." prefix, e.g. "(Arg45His)",
// "(=)", "(*689Tyrext*23)", "0?" or "?".
func (pc *ProteinChange) HGVS() string {
	switch pc.Kind {
	case ProteinNoChange:
		return "(=)"
	case ProteinSubstitution:
		return fmt.Sprintf("(%s%d%s)", aaThree(pc.RefAA), pc.Pos, aaThree(pc.AltAA))
	case ProteinStopGained:
		return fmt.Sprintf("(%s%d*)", aaThree(pc.RefAA), pc.Pos)
	case ProteinStopLostExtension:
		return fmt.Sprintf("(*%d%sext*%s)", pc.Pos, aaThree(pc.AltAA), pc.extString())
	case ProteinStartLost:
		return "0?"
	case ProteinFrameshift:
		return fmt.Sprintf("(%s%d%sfs*%s)", aaThree(pc.RefAA), pc.Pos, aaThree(pc.AltAA), pc.extString())
	}
	return "?"
}

func (pc *ProteinChange) extString() string {
	if pc.OpenEnded {
		return "?"
	}
	return fmt.Sprint(pc.ExtLen)
}
