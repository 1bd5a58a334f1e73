package output

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/inodb/vibe-anno/internal/annotate"
	"github.com/inodb/vibe-anno/internal/vcf"
)

// CSQ sub-fields, in output order.
var csqFields = []string{
	"Allele",
	"Consequence",
	"IMPACT",
	"SYMBOL",
	"Gene",
	"Feature_type",
	"Feature",
	"BIOTYPE",
	"EXON",
	"INTRON",
	"HGVSg",
	"HGVSc",
	"HGVSp",
	"CANONICAL",
	"FLAGS",
}

// pendingRecord collects the annotations of one input record.
type pendingRecord struct {
	v   *vcf.Variant // first split allele seen for the record
	csq []string
}

func (p *pendingRecord) add(v *vcf.Variant, ann *annotate.Annotation) {
	if ann != nil {
		p.csq = append(p.csq, csqEntry(v.Alt, ann))
	}
}

// VCFWriter re-emits input records with a CSQ INFO field. Alleles split from
// the same record are joined again; the ALT column is always the record's
// full list, including alleles written without an annotation.
type VCFWriter struct {
	w       *bufio.Writer
	header  []string
	pending *pendingRecord
}

// NewVCFWriter creates a writer that copies header (the input's ## and
// #CHROM lines) into its output.
func NewVCFWriter(w io.Writer, header []string) *VCFWriter {
	return &VCFWriter{w: bufio.NewWriter(w), header: header}
}

// WriteHeader writes the input header, replacing any CSQ definition with
// this writer's and placing it just before #CHROM.
func (vw *VCFWriter) WriteHeader() error {
	def := fmt.Sprintf(`##INFO=<ID=CSQ,Number=.,Type=String,Description="Consequence annotations from vibe-anno. Format: %s">`,
		strings.Join(csqFields, "|"))

	lines := make([]string, 0, len(vw.header)+1)
	for _, line := range vw.header {
		if strings.HasPrefix(line, "##INFO=<ID=CSQ,") {
			continue
		}
		if strings.HasPrefix(line, "#CHROM") {
			lines = append(lines, def)
			def = ""
		}
		lines = append(lines, line)
	}
	if def != "" {
		lines = append(lines, def)
	}

	for _, line := range lines {
		if _, err := vw.w.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Write adds an annotation of v; a nil ann only marks the record as seen.
// A record is written once a variant from another record arrives, or on
// Flush.
func (vw *VCFWriter) Write(v *vcf.Variant, ann *annotate.Annotation) error {
	if p := vw.pending; p != nil && !p.v.SameRecord(v) {
		if err := vw.writeRecord(); err != nil {
			return err
		}
	}
	if vw.pending == nil {
		vw.pending = &pendingRecord{v: v}
	}
	vw.pending.add(v, ann)
	return nil
}

// Flush writes the pending record and flushes the underlying writer.
func (vw *VCFWriter) Flush() error {
	if vw.pending != nil {
		if err := vw.writeRecord(); err != nil {
			return err
		}
	}
	return vw.w.Flush()
}

func (vw *VCFWriter) writeRecord() error {
	p := vw.pending
	vw.pending = nil

	info := stripCSQ(p.v.RawInfo)
	if len(p.csq) > 0 {
		csq := "CSQ=" + strings.Join(p.csq, ",")
		if info == "." {
			info = csq
		} else {
			info += ";" + csq
		}
	}

	cols := []string{
		p.v.Chrom,
		strconv.FormatInt(p.v.Pos, 10),
		orDot(p.v.ID),
		p.v.Ref,
		strings.Join(p.v.RecordAlts(), ","),
		formatQual(p.v.Qual),
		orDot(p.v.Filter),
		info,
	}
	if p.v.SampleColumns != "" {
		cols = append(cols, p.v.SampleColumns)
	}

	_, err := vw.w.WriteString(strings.Join(cols, "\t") + "\n")
	return err
}

// stripCSQ removes any existing CSQ field from a raw INFO string.
func stripCSQ(rawInfo string) string {
	if rawInfo == "" || rawInfo == "." {
		return "."
	}
	kept := slices.DeleteFunc(strings.Split(rawInfo, ";"), func(field string) bool {
		return field == "CSQ" || strings.HasPrefix(field, "CSQ=")
	})
	if len(kept) == 0 {
		return "."
	}
	return strings.Join(kept, ";")
}

// csqEntry renders one annotation as a pipe-delimited CSQ entry. Multiple
// consequence terms and flags are joined with '&'.
func csqEntry(allele string, ann *annotate.Annotation) string {
	values := []string{
		allele,
		ann.Consequence(),
		ann.Impact(),
		ann.GeneName,
		ann.GeneID,
		featureType(ann),
		ann.TranscriptID,
		ann.Biotype,
		ann.ExonRank(),
		ann.IntronRank(),
		ann.HGVSg(),
		ann.HGVSc(),
		ann.HGVSp(),
		canonicalFlag(ann),
		strings.Join(ann.Messages, ","),
	}
	for i, v := range values {
		values[i] = csqEscaper.Replace(v)
	}
	return strings.Join(values, "|")
}
