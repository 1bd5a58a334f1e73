package genome

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidVariant is returned when a variant cannot be constructed.
var ErrInvalidVariant = errors.New("invalid variant")

// Variant is a reference/alternative allele pair anchored at a position.
// Alleles are written on the position's strand.
type Variant struct {
	Pos Position
	Ref string
	Alt string
}

// NewVariant validates and creates a variant. Alleles are upper-cased.
func NewVariant(pos Position, ref, alt string) (Variant, error) {
	ref = strings.ToUpper(ref)
	alt = strings.ToUpper(alt)
	if ref == "" || alt == "" {
		return Variant{}, fmt.Errorf("%w: empty allele at %s", ErrInvalidVariant, pos)
	}
	if !isNucleotides(ref) || !isNucleotides(alt) {
		return Variant{}, fmt.Errorf("%w: allele %s>%s is not ACGTN", ErrInvalidVariant, ref, alt)
	}
	if ref == alt {
		return Variant{}, fmt.Errorf("%w: ref equals alt (%s) at %s", ErrInvalidVariant, ref, pos)
	}
	if pos.Contig.Length > 0 && pos.Pos+int64(len(ref)) > pos.Contig.Length {
		return Variant{}, fmt.Errorf("%w: allele %s runs past the end of %s", ErrInvalidVariant, ref, pos.Contig.Name)
	}
	return Variant{Pos: pos, Ref: ref, Alt: alt}, nil
}

func isNucleotides(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'A', 'C', 'G', 'T', 'N':
		default:
			return false
		}
	}
	return true
}

// IsSNV returns true if both alleles are a single base.
func (v Variant) IsSNV() bool {
	return len(v.Ref) == 1 && len(v.Alt) == 1
}

// WithStrand returns the variant expressed on strand s. The anchor moves to
// the first base of the reference allele on the new strand and both alleles
// are reverse-complemented.
func (v Variant) WithStrand(s Strand) Variant {
	if v.Pos.Strand == s {
		return v
	}
	last := v.Pos.Shift(int64(len(v.Ref)) - 1)
	return Variant{
		Pos: last.WithStrand(s),
		Ref: ReverseComplement(v.Ref),
		Alt: ReverseComplement(v.Alt),
	}
}

// HGVS returns the genomic change as "g.1234A>T" on the forward strand.
func (v Variant) HGVS() string {
	f := v.WithStrand(Forward)
	if f.IsSNV() {
		return fmt.Sprintf("g.%d%s>%s", f.Pos.OneBased(), f.Ref, f.Alt)
	}
	end := f.Pos.OneBased() + int64(len(f.Ref)) - 1
	return fmt.Sprintf("g.%d_%ddelins%s", f.Pos.OneBased(), end, f.Alt)
}

// String formats the variant as "chr1:1234:A>T" on the forward strand.
func (v Variant) String() string {
	f := v.WithStrand(Forward)
	return fmt.Sprintf("%s:%d:%s>%s", f.Pos.Contig.Name, f.Pos.OneBased(), f.Ref, f.Alt)
}
