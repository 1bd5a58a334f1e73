// Package cache provides transcript models and the catalogue they are loaded into.
package cache

import (
	"errors"
	"fmt"
	"sort"

	"github.com/inodb/vibe-anno/internal/genome"
)

// ErrInvalidTranscript is returned when a transcript model fails validation.
var ErrInvalidTranscript = errors.New("invalid transcript")

// Transcript represents a specific gene isoform. It is immutable once built;
// use TranscriptBuilder to create one.
type Transcript struct {
	ID          string // Transcript accession (e.g., uc001anx.3, ENST00000311936)
	GeneID      string // Parent gene ID
	GeneName    string // Parent gene symbol
	Biotype     string // Transcript biotype
	IsCanonical bool   // Canonical flag
	Strand      genome.Strand
	TxRegion    genome.Interval   // Transcript span, forward strand
	CDSRegion   genome.Interval   // CDS span, forward strand, empty if non-coding
	Exons       []genome.Interval // Exons, forward strand, genomic order
	Sequence    string            // Spliced sequence on the transcript strand

	// Transcript-strand views, ordered 5' to 3'.
	local      []genome.Interval
	exonStarts []int64 // transcript offset of each local exon's first base
	cdsBegin   int64   // transcript offset of first CDS base
	cdsEnd     int64   // transcript offset one past the last CDS base
}

// TranscriptBuilder collects the fields of a transcript before validation.
type TranscriptBuilder struct {
	ID          string
	GeneID      string
	GeneName    string
	Biotype     string
	IsCanonical bool
	Strand      genome.Strand
	Exons       []genome.Interval // any order, forward strand
	CDSRegion   genome.Interval   // forward strand; zero value or empty for non-coding
	Sequence    string
}

// Build validates the builder and returns the immutable transcript.
func (b *TranscriptBuilder) Build() (*Transcript, error) {
	if b.Strand != genome.Forward && b.Strand != genome.Reverse {
		return nil, fmt.Errorf("%w: %s has no strand", ErrInvalidTranscript, b.ID)
	}
	if len(b.Exons) == 0 {
		return nil, fmt.Errorf("%w: %s has no exons", ErrInvalidTranscript, b.ID)
	}

	exons := make([]genome.Interval, len(b.Exons))
	for i, e := range b.Exons {
		exons[i] = e.WithStrand(genome.Forward)
	}
	sort.Slice(exons, func(i, j int) bool { return exons[i].Begin < exons[j].Begin })

	contig := exons[0].Contig
	var total int64
	for i, e := range exons {
		if e.Contig.ID != contig.ID {
			return nil, fmt.Errorf("%w: %s has exons on %s and %s", ErrInvalidTranscript, b.ID, contig.Name, e.Contig.Name)
		}
		if e.IsEmpty() {
			return nil, fmt.Errorf("%w: %s has an empty exon %s", ErrInvalidTranscript, b.ID, e)
		}
		if i > 0 && e.Begin < exons[i-1].End {
			return nil, fmt.Errorf("%w: %s has overlapping exons %s and %s", ErrInvalidTranscript, b.ID, exons[i-1], e)
		}
		total += e.Len()
	}
	switch {
	case b.Sequence == "" && !b.CDSRegion.IsEmpty():
		return nil, fmt.Errorf("%w: %s is coding but has no sequence", ErrInvalidTranscript, b.ID)
	case b.Sequence != "" && int64(len(b.Sequence)) < total:
		return nil, fmt.Errorf("%w: %s sequence has %d bases, exons cover %d", ErrInvalidTranscript, b.ID, len(b.Sequence), total)
	}

	t := &Transcript{
		ID:          b.ID,
		GeneID:      b.GeneID,
		GeneName:    b.GeneName,
		Biotype:     b.Biotype,
		IsCanonical: b.IsCanonical,
		Strand:      b.Strand,
		Exons:       exons,
		Sequence:    b.Sequence,
		TxRegion: genome.Interval{
			Contig: contig, Strand: genome.Forward,
			Begin: exons[0].Begin, End: exons[len(exons)-1].End,
		},
	}

	t.local = make([]genome.Interval, len(exons))
	t.exonStarts = make([]int64, len(exons))
	for i := range exons {
		e := exons[i]
		if b.Strand == genome.Reverse {
			e = exons[len(exons)-1-i]
		}
		t.local[i] = e.WithStrand(b.Strand)
	}
	var offset int64
	for i, e := range t.local {
		t.exonStarts[i] = offset
		offset += e.Len()
	}

	if !b.CDSRegion.IsEmpty() {
		cds := b.CDSRegion.WithStrand(genome.Forward)
		if cds.Contig.ID != contig.ID {
			return nil, fmt.Errorf("%w: %s CDS on %s, exons on %s", ErrInvalidTranscript, b.ID, cds.Contig.Name, contig.Name)
		}
		local := cds.WithStrand(b.Strand)
		begin, ok := t.transcriptOffset(local.Begin)
		if !ok {
			return nil, fmt.Errorf("%w: %s CDS start %s is not exonic", ErrInvalidTranscript, b.ID, cds)
		}
		last, ok := t.transcriptOffset(local.End - 1)
		if !ok {
			return nil, fmt.Errorf("%w: %s CDS end %s is not exonic", ErrInvalidTranscript, b.ID, cds)
		}
		t.CDSRegion = cds
		t.cdsBegin = begin
		t.cdsEnd = last + 1
	}

	return t, nil
}

// HasSequence reports whether the spliced sequence is known. Non-coding
// transcripts may be built without one.
func (t *Transcript) HasSequence() bool {
	return t.Sequence != ""
}

// IsProteinCoding returns true if the transcript has a coding sequence.
func (t *Transcript) IsProteinCoding() bool {
	return !t.CDSRegion.IsEmpty()
}

// IsForwardStrand returns true if the transcript is on the forward strand.
func (t *Transcript) IsForwardStrand() bool {
	return t.Strand == genome.Forward
}

// IsReverseStrand returns true if the transcript is on the reverse strand.
func (t *Transcript) IsReverseStrand() bool {
	return t.Strand == genome.Reverse
}

// Contig returns the contig the transcript lies on.
func (t *Transcript) Contig() genome.Contig {
	return t.TxRegion.Contig
}

// ExonCount returns the number of exons.
func (t *Transcript) ExonCount() int {
	return len(t.local)
}

// LocalExon returns exon i (0-based, 5' to 3') on the transcript strand.
func (t *Transcript) LocalExon(i int) genome.Interval {
	return t.local[i]
}

// LocalTxRegion returns the transcript span on the transcript strand.
func (t *Transcript) LocalTxRegion() genome.Interval {
	return t.TxRegion.WithStrand(t.Strand)
}

// ExonStartOffset returns the transcript offset of exon i's first base.
func (t *Transcript) ExonStartOffset(i int) int64 {
	return t.exonStarts[i]
}

// Length returns the number of exonic bases.
func (t *Transcript) Length() int64 {
	last := len(t.local) - 1
	return t.exonStarts[last] + t.local[last].Len()
}

// CDSBeginOffset returns the transcript offset of the first CDS base.
func (t *Transcript) CDSBeginOffset() int64 {
	return t.cdsBegin
}

// CDSEndOffset returns the transcript offset one past the last CDS base.
func (t *Transcript) CDSEndOffset() int64 {
	return t.cdsEnd
}

// CDSSequence returns the coding sequence including the stop codon.
func (t *Transcript) CDSSequence() string {
	if !t.IsProteinCoding() {
		return ""
	}
	return t.Sequence[t.cdsBegin:t.cdsEnd]
}

// UTR3Sequence returns the sequence following the CDS, used for stop scanning.
func (t *Transcript) UTR3Sequence() string {
	if !t.IsProteinCoding() {
		return ""
	}
	return t.Sequence[t.cdsEnd:]
}

// Contains returns true if the position is within the transcript span.
func (t *Transcript) Contains(p genome.Position) bool {
	return t.TxRegion.Contains(p)
}

// FindExon returns the index (5' to 3') of the exon containing p, or -1.
// Uses binary search over the transcript-strand exons.
func (t *Transcript) FindExon(p genome.Position) int {
	if p.Contig.ID != t.Contig().ID {
		return -1
	}
	pos := p.WithStrand(t.Strand).Pos
	i := sort.Search(len(t.local), func(i int) bool { return t.local[i].End > pos })
	if i < len(t.local) && t.local[i].Begin <= pos {
		return i
	}
	return -1
}

// FindIntron returns the index of the intron containing p, or -1. Intron i
// lies between exon i and exon i+1.
func (t *Transcript) FindIntron(p genome.Position) int {
	if p.Contig.ID != t.Contig().ID {
		return -1
	}
	pos := p.WithStrand(t.Strand).Pos
	i := sort.Search(len(t.local), func(i int) bool { return t.local[i].End > pos })
	if i == 0 || i >= len(t.local) || t.local[i].Begin <= pos {
		return -1
	}
	return i - 1
}

// GenomeToTranscriptPos returns the transcript offset (0-based) of an exonic
// position, or false if p does not fall in an exon.
func (t *Transcript) GenomeToTranscriptPos(p genome.Position) (int64, bool) {
	if p.Contig.ID != t.Contig().ID {
		return 0, false
	}
	return t.transcriptOffset(p.WithStrand(t.Strand).Pos)
}

// transcriptOffset maps a transcript-strand genome offset to a transcript offset.
func (t *Transcript) transcriptOffset(pos int64) (int64, bool) {
	i := sort.Search(len(t.local), func(i int) bool { return t.local[i].End > pos })
	if i >= len(t.local) || t.local[i].Begin > pos {
		return 0, false
	}
	return t.exonStarts[i] + pos - t.local[i].Begin, true
}

// TranscriptToGenomePos maps a transcript offset back to a position on the
// transcript strand.
func (t *Transcript) TranscriptToGenomePos(offset int64) (genome.Position, error) {
	if offset < 0 || offset >= t.Length() {
		return genome.Position{}, fmt.Errorf("transcript offset %d outside %s (length %d)", offset, t.ID, t.Length())
	}
	i := sort.Search(len(t.exonStarts), func(i int) bool { return t.exonStarts[i] > offset }) - 1
	e := t.local[i]
	return genome.Position{Contig: e.Contig, Strand: e.Strand, Pos: e.Begin + offset - t.exonStarts[i]}, nil
}
