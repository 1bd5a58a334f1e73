package vcf

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/inodb/vibe-anno/internal/genome"
)

// Variant represents a single genomic variant from a VCF file.
type Variant struct {
	Chrom  string            // Chromosome name (e.g., "12", "chr12")
	Pos    int64             // 1-based genomic position
	ID     string            // Variant identifier (e.g., rs ID)
	Ref    string            // Reference allele
	Alt    string            // Alternate allele (single allele after splitting)
	Qual   float64           // Quality score
	Filter string            // Filter status (PASS or filter name)
	Info   map[string]string // INFO key-value pairs; flags map to ""

	RawInfo       string // INFO column as read
	SampleColumns string // FORMAT and sample columns, tab-joined; "" if none

	RecordAlt string // ALT column of the input record before splitting
	Line      int    // input line; 0 if not read by a Parser
}

// RecordAlts returns every ALT allele of the input record the variant came
// from. Variants not read by a Parser report their own Alt.
func (v *Variant) RecordAlts() []string {
	if v.RecordAlt == "" {
		return []string{v.Alt}
	}
	return strings.Split(v.RecordAlt, ",")
}

// SameRecord reports whether v and o were split from the same input record.
func (v *Variant) SameRecord(o *Variant) bool {
	return v.Chrom == o.Chrom && v.Pos == o.Pos && v.Line == o.Line &&
		v.Ref == o.Ref && slices.Equal(v.RecordAlts(), o.RecordAlts())
}

// IsSNV returns true if the variant is a single nucleotide variant.
func (v *Variant) IsSNV() bool {
	return len(v.Ref) == 1 && len(v.Alt) == 1
}

// IsSymbolic returns true for symbolic or breakend alleles such as <DEL> or N[chr2:123[.
func (v *Variant) IsSymbolic() bool {
	for i := 0; i < len(v.Alt); i++ {
		switch v.Alt[i] {
		case '<', '[', ']', '*', '.':
			return true
		}
	}
	return false
}

// Key formats the variant as "chrom_pos_ref/alt".
func (v *Variant) Key() string {
	return v.Chrom + "_" + strconv.FormatInt(v.Pos, 10) + "_" + v.Ref + "/" + v.Alt
}

// ToGenome resolves the chromosome through dict and returns the variant on
// the forward strand.
func (v *Variant) ToGenome(dict *genome.RefDict) (genome.Variant, error) {
	contig, ok := dict.Resolve(v.Chrom)
	if !ok {
		return genome.Variant{}, fmt.Errorf("%w: unknown contig %q", genome.ErrInvalidPosition, v.Chrom)
	}
	pos, err := genome.NewPosition(contig, genome.Forward, v.Pos, genome.OneBased)
	if err != nil {
		return genome.Variant{}, err
	}
	return genome.NewVariant(pos, v.Ref, v.Alt)
}
