package cache

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/vibe-anno/internal/genome"
)

// GENCODELoader combines a GTF file with a sequence source into validated
// transcripts.
type GENCODELoader struct {
	gtf                *GTFLoader
	seqs               SequenceSource
	dict               *genome.RefDict
	canonicalOverrides CanonicalOverrides
	logger             *zap.Logger
	missingSeq         int
}

// NewGENCODELoader creates a loader for a GENCODE GTF plus a sequence source
// (a transcript FASTA or an indexed genome FASTA). Contig names are resolved
// through dict.
func NewGENCODELoader(gtfPath string, seqs SequenceSource, dict *genome.RefDict) *GENCODELoader {
	return &GENCODELoader{
		gtf:    NewGTFLoader(gtfPath),
		seqs:   seqs,
		dict:   dict,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for skipped-transcript warnings.
func (l *GENCODELoader) SetLogger(logger *zap.Logger) {
	l.logger = logger
}

// SetCanonicalOverrides sets canonical transcript overrides.
// When applied, for each gene with an override, the matching transcript is marked
// as canonical and other transcripts for that gene are unmarked.
func (l *GENCODELoader) SetCanonicalOverrides(overrides CanonicalOverrides) {
	l.canonicalOverrides = overrides
}

// Load reads the GTF, attaches sequences, validates every transcript and
// adds it to the cache. Transcripts that cannot be resolved or validated are
// logged and skipped. Returns the number of transcripts added.
func (l *GENCODELoader) Load(c *Cache) (int, error) {
	records, err := l.gtf.Load()
	if err != nil {
		return 0, fmt.Errorf("load GTF: %w", err)
	}
	return l.build(c, records), nil
}

func (l *GENCODELoader) build(c *Cache, records []*TranscriptRecord) int {
	if len(l.canonicalOverrides) > 0 {
		l.canonicalOverrides.Apply(records)
	}

	l.missingSeq = 0
	added := 0
	for _, r := range records {
		t, err := l.transcript(r)
		if err != nil {
			l.logger.Warn("skipping transcript",
				zap.String("transcript", r.ID),
				zap.String("chrom", r.Chrom),
				zap.Error(err))
			continue
		}
		c.AddTranscript(t)
		added++
	}
	if l.missingSeq > 0 {
		l.logger.Debug("loaded non-coding transcripts without sequence", zap.Int("transcripts", l.missingSeq))
	}
	return added
}

func (l *GENCODELoader) transcript(r *TranscriptRecord) (*Transcript, error) {
	contig, ok := l.dict.Resolve(r.Chrom)
	if !ok {
		return nil, fmt.Errorf("%w: contig %s not in reference dictionary", ErrInvalidTranscript, r.Chrom)
	}
	seq, err := l.seqs.TranscriptSequence(r)
	switch {
	case errors.Is(err, ErrNoSequence) && !r.IsProteinCoding():
		// Transcript FASTAs such as pc_transcripts hold coding transcripts only.
		l.missingSeq++
		seq = ""
	case err != nil:
		return nil, err
	}
	if fa, ok := l.seqs.(*FASTALoader); ok && r.IsProteinCoding() {
		if start, end, ok := fa.CDSRange(r.ID); ok && int64(end-start+1) != r.CDSLength() {
			l.logger.Debug("CDS length differs between GTF and FASTA header",
				zap.String("transcript", r.ID),
				zap.Int64("gtf_cds_length", r.CDSLength()),
				zap.Int("fasta_cds_length", end-start+1))
		}
	}
	return r.Builder(contig, seq).Build()
}
