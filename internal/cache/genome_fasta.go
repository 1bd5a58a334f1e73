package cache

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biogo/hts/fai"

	"github.com/inodb/vibe-anno/internal/genome"
)

// GenomeSequence reads reference bases from an indexed genome FASTA and
// splices transcript sequences out of it.
type GenomeSequence struct {
	file  *os.File
	fa    *fai.File
	index fai.Index
}

// OpenGenomeSequence opens a genome FASTA. The .fai index next to it is used
// when present; otherwise the index is built by scanning the file.
func OpenGenomeSequence(path string) (*GenomeSequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open genome FASTA: %w", err)
	}

	idx, err := readIndex(path + ".fai")
	if errors.Is(err, os.ErrNotExist) {
		idx, err = fai.NewIndex(f)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("index genome FASTA %s: %w", path, err)
	}

	g := NewGenomeSequence(f, idx)
	g.file = f
	return g, nil
}

func readIndex(path string) (fai.Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return fai.ReadFrom(f)
}

// NewGenomeSequence wraps an already indexed FASTA.
func NewGenomeSequence(r io.ReaderAt, idx fai.Index) *GenomeSequence {
	return &GenomeSequence{fa: fai.NewFile(r, idx), index: idx}
}

// RefDict returns the reference dictionary described by the index.
func (g *GenomeSequence) RefDict() *genome.RefDict {
	return genome.RefDictFromIndex(g.index)
}

// recordName finds the index entry for chrom, toggling the "chr" prefix.
func (g *GenomeSequence) recordName(chrom string) (string, bool) {
	if _, ok := g.index[chrom]; ok {
		return chrom, true
	}
	alt := "chr" + chrom
	if strings.HasPrefix(chrom, "chr") {
		alt = chrom[3:]
	}
	if _, ok := g.index[alt]; ok {
		return alt, true
	}
	return "", false
}

// Slice returns the upper-cased forward-strand bases of [begin, end) (0-based).
func (g *GenomeSequence) Slice(chrom string, begin, end int64) (string, error) {
	name, ok := g.recordName(chrom)
	if !ok {
		return "", fmt.Errorf("%w: contig %s not in genome index", ErrNoSequence, chrom)
	}
	seq, err := g.fa.SeqRange(name, int(begin), int(end))
	if err != nil {
		return "", fmt.Errorf("seek %s:%d-%d: %w", name, begin, end, err)
	}
	b, err := io.ReadAll(seq)
	if err != nil {
		return "", fmt.Errorf("read %s:%d-%d: %w", name, begin, end, err)
	}
	return strings.ToUpper(string(b)), nil
}

// TranscriptSequence implements SequenceSource by joining the exon bases and
// reverse-complementing reverse-strand transcripts.
func (g *GenomeSequence) TranscriptSequence(r *TranscriptRecord) (string, error) {
	var sb strings.Builder
	sb.Grow(int(r.ExonLength()))
	for _, e := range r.Exons {
		s, err := g.Slice(r.Chrom, e[0]-1, e[1])
		if err != nil {
			return "", fmt.Errorf("transcript %s: %w", r.ID, err)
		}
		sb.WriteString(s)
	}
	if r.Strand == genome.Reverse {
		return genome.ReverseComplement(sb.String()), nil
	}
	return sb.String(), nil
}

// Close closes the underlying file if it was opened by OpenGenomeSequence.
func (g *GenomeSequence) Close() error {
	if g.file != nil {
		return g.file.Close()
	}
	return nil
}
