// Package genome provides strand-aware genomic coordinate primitives.
package genome

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/biogo/hts/fai"
)

// Contig describes one reference sequence.
type Contig struct {
	ID     int    // Numeric id, stable within a RefDict
	Name   string // Primary name (e.g., "chr1")
	Length int64  // Length in bases
}

// RefDict maps contig names and aliases to contigs.
// It is built once and never modified afterwards.
type RefDict struct {
	byName map[string]Contig
	byID   []Contig
}

// NewRefDict creates a dictionary from contigs in id order.
// Each contig is also reachable under its "chr"-less or "chr"-prefixed alias.
func NewRefDict(contigs []Contig) *RefDict {
	d := &RefDict{byName: make(map[string]Contig, 2*len(contigs))}
	for i, c := range contigs {
		c.ID = i
		d.byID = append(d.byID, c)
		d.byName[c.Name] = c
		for _, alias := range aliases(c.Name) {
			if _, ok := d.byName[alias]; !ok {
				d.byName[alias] = c
			}
		}
	}
	return d
}

// aliases returns alternative spellings of a contig name.
func aliases(name string) []string {
	base := strings.TrimPrefix(name, "chr")
	switch base {
	case "M", "MT":
		return []string{"chrM", "chrMT", "M", "MT"}
	}
	if base == name {
		return []string{"chr" + name}
	}
	return []string{base}
}

// Resolve returns the contig with the given name or alias.
func (d *RefDict) Resolve(name string) (Contig, bool) {
	c, ok := d.byName[name]
	return c, ok
}

// ByID returns the contig with the given id.
func (d *RefDict) ByID(id int) (Contig, bool) {
	if id < 0 || id >= len(d.byID) {
		return Contig{}, false
	}
	return d.byID[id], true
}

// Contigs returns all contigs in id order.
func (d *RefDict) Contigs() []Contig {
	out := make([]Contig, len(d.byID))
	copy(out, d.byID)
	return out
}

// Len returns the number of distinct contigs.
func (d *RefDict) Len() int {
	return len(d.byID)
}

// RefDictFromFAI builds a dictionary from a samtools .fai index.
// Contigs are ordered by their offset in the FASTA file.
func RefDictFromFAI(r io.Reader) (*RefDict, error) {
	idx, err := fai.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("read fasta index: %w", err)
	}
	return RefDictFromIndex(idx), nil
}

// RefDictFromIndex builds a dictionary from a parsed FASTA index.
func RefDictFromIndex(idx fai.Index) *RefDict {
	recs := make([]fai.Record, 0, len(idx))
	for _, rec := range idx {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Start < recs[j].Start })

	contigs := make([]Contig, len(recs))
	for i, rec := range recs {
		contigs[i] = Contig{Name: rec.Name, Length: int64(rec.Length)}
	}
	return NewRefDict(contigs)
}

// BuiltinRefDict returns the primary-assembly dictionary for GRCh37 or GRCh38.
func BuiltinRefDict(assembly string) (*RefDict, error) {
	var lengths []int64
	switch strings.ToUpper(assembly) {
	case "GRCH37", "HG19":
		lengths = grch37Lengths
	case "GRCH38", "HG38":
		lengths = grch38Lengths
	default:
		return nil, fmt.Errorf("unknown assembly %q", assembly)
	}
	contigs := make([]Contig, len(primaryNames))
	for i, name := range primaryNames {
		contigs[i] = Contig{Name: name, Length: lengths[i]}
	}
	return NewRefDict(contigs), nil
}

var primaryNames = []string{
	"chr1", "chr2", "chr3", "chr4", "chr5", "chr6", "chr7", "chr8",
	"chr9", "chr10", "chr11", "chr12", "chr13", "chr14", "chr15", "chr16",
	"chr17", "chr18", "chr19", "chr20", "chr21", "chr22", "chrX", "chrY", "chrM",
}

var grch37Lengths = []int64{
	249250621, 243199373, 198022430, 191154276, 180915260, 171115067, 159138663, 146364022,
	141213431, 135534747, 135006516, 133851895, 115169878, 107349540, 102531392, 90354753,
	81195210, 78077248, 59128983, 63025520, 48129895, 51304566, 155270560, 59373566, 16569,
}

var grch38Lengths = []int64{
	248956422, 242193529, 198295559, 190214555, 181538259, 170805979, 159345973, 145138636,
	138394717, 133797422, 135086622, 133275309, 114364328, 107043718, 101991189, 90338345,
	83257441, 80373285, 58617616, 64444167, 46709983, 50818468, 156040895, 57227415, 16569,
}
