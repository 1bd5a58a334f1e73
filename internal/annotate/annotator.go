package annotate

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/inodb/vibe-anno/internal/cache"
	"github.com/inodb/vibe-anno/internal/genome"
	"github.com/inodb/vibe-anno/internal/vcf"
)

// TranscriptLookup defines the interface for finding transcripts near a position.
type TranscriptLookup interface {
	FindTranscripts(p genome.Position) []*cache.Transcript
}

// AnnotationWriter defines the interface for writing annotations.
// AnnotateAll calls Write with a nil ann for alleles it skipped, so writers
// that re-emit input records can keep every allele.
type AnnotationWriter interface {
	WriteHeader() error
	Write(v *vcf.Variant, ann *Annotation) error
	Flush() error
}

// Stats counts what AnnotateAll did with the input records.
type Stats struct {
	Records     int // VCF lines read
	Variants    int // alleles after multi-allelic splitting
	Annotations int
	Skipped     int // alleles that could not be annotated
}

// Annotator annotates variants against every nearby transcript.
type Annotator struct {
	cache         TranscriptLookup
	dict          *genome.RefDict
	opts          Options
	canonicalOnly bool
	logger        *zap.Logger
}

// NewAnnotator creates a new annotator over a transcript lookup. dict resolves
// VCF chromosome names.
func NewAnnotator(c TranscriptLookup, dict *genome.RefDict, opts Options) *Annotator {
	return &Annotator{
		cache:  c,
		dict:   dict,
		opts:   opts,
		logger: zap.NewNop(),
	}
}

// SetCanonicalOnly configures whether to only report canonical transcript annotations.
func (a *Annotator) SetCanonicalOnly(canonical bool) {
	a.canonicalOnly = canonical
}

// SetLogger sets the logger for warning and info messages.
func (a *Annotator) SetLogger(l *zap.Logger) {
	a.logger = l
}

// Annotate returns one annotation per transcript within the flank of v,
// most severe first. Without any such transcript a single intergenic
// annotation is returned.
func (a *Annotator) Annotate(v genome.Variant) ([]*Annotation, error) {
	if !v.IsSNV() {
		return nil, fmt.Errorf("%w: %s is not a single-nucleotide variant", ErrUnsupportedVariant, v)
	}

	var annotations []*Annotation
	for _, t := range a.cache.FindTranscripts(v.Pos) {
		if a.canonicalOnly && !t.IsCanonical {
			continue
		}
		ann, err := BuildSNV(t, v, a.opts)
		if err != nil {
			return nil, fmt.Errorf("annotate %s on %s: %w", v, t.ID, err)
		}
		if ann.Effects.Has(IntergenicVariant) {
			continue
		}
		annotations = append(annotations, ann)
	}

	if len(annotations) == 0 {
		return []*Annotation{intergenic(v)}, nil
	}

	sort.SliceStable(annotations, func(i, j int) bool {
		ei, _ := annotations[i].Effects.MostSevere()
		ej, _ := annotations[j].Effects.MostSevere()
		if ei != ej {
			return ei < ej
		}
		return annotations[i].TranscriptID < annotations[j].TranscriptID
	})
	return annotations, nil
}

func intergenic(v genome.Variant) *Annotation {
	return &Annotation{
		GenomicChange: GenomicNTChange{Variant: v.WithStrand(genome.Forward)},
		Effects:       NewEffectSet(IntergenicVariant),
	}
}

// AnnotateAll annotates all variants from a parser, one record at a time.
// Multi-allelic records are split; alleles that are not SNVs or do not map
// onto the reference are logged and passed to the writer without an
// annotation. Any other error aborts.
func (a *Annotator) AnnotateAll(parser vcf.VariantParser, writer AnnotationWriter) (Stats, error) {
	var stats Stats
	for {
		rec, err := parser.Next()
		if err != nil {
			return stats, fmt.Errorf("read variant: %w", err)
		}
		if rec == nil {
			break
		}
		stats.Records++

		for _, v := range vcf.SplitMultiAllelic(rec) {
			stats.Variants++
			anns, err := a.annotateRecord(v)
			if err != nil {
				if !IsSkippable(err) {
					return stats, err
				}
				stats.Skipped++
				a.logger.Warn("skipping variant",
					zap.String("variant", v.Key()),
					zap.Int("line", parser.LineNumber()),
					zap.Error(err))
				if err := writer.Write(v, nil); err != nil {
					return stats, fmt.Errorf("write skipped variant: %w", err)
				}
				continue
			}
			for _, ann := range anns {
				if err := writer.Write(v, ann); err != nil {
					return stats, fmt.Errorf("write annotation: %w", err)
				}
				stats.Annotations++
			}
		}
	}

	if stats.Records == 0 {
		a.logger.Info("0 variants processed")
	}
	a.logger.Debug("annotation finished",
		zap.Int("records", stats.Records),
		zap.Int("variants", stats.Variants),
		zap.Int("annotations", stats.Annotations),
		zap.Int("skipped", stats.Skipped))

	return stats, writer.Flush()
}

func (a *Annotator) annotateRecord(v *vcf.Variant) ([]*Annotation, error) {
	if v.IsSymbolic() || !v.IsSNV() {
		return nil, fmt.Errorf("%w: %s>%s", ErrUnsupportedVariant, v.Ref, v.Alt)
	}
	gv, err := v.ToGenome(a.dict)
	if err != nil {
		return nil, err
	}
	return a.Annotate(gv)
}

// IsSkippable reports whether err marks a variant the annotator skips rather
// than a failure of the run.
func IsSkippable(err error) bool {
	return errors.Is(err, ErrUnsupportedVariant) ||
		errors.Is(err, genome.ErrInvalidVariant) ||
		errors.Is(err, genome.ErrInvalidPosition)
}
