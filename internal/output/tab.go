// Package output provides annotation output formatters.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/vibe-anno/internal/annotate"
	"github.com/inodb/vibe-anno/internal/vcf"
)

var tabColumns = []string{
	"#Uploaded_variation",
	"Location",
	"Allele",
	"Gene",
	"Feature",
	"Feature_type",
	"Consequence",
	"IMPACT",
	"BIOTYPE",
	"CANONICAL",
	"EXON",
	"INTRON",
	"HGVSg",
	"HGVSc",
	"HGVSp",
	"FLAGS",
}

// TabWriter writes annotations in tab-delimited format, one row per
// annotation. Empty values are written as "-".
type TabWriter struct {
	w *bufio.Writer
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{w: bufio.NewWriter(w)}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tabColumns, "\t") + "\n")
	return err
}

// Write writes a single annotation. A nil ann writes nothing.
func (tw *TabWriter) Write(v *vcf.Variant, ann *annotate.Annotation) error {
	if ann == nil {
		return nil
	}
	id := v.ID
	if id == "" || id == "." {
		id = v.Key()
	}

	values := []string{
		id,
		v.Chrom + ":" + strconv.FormatInt(v.Pos, 10),
		v.Alt,
		ann.GeneName,
		ann.TranscriptID,
		featureType(ann),
		ann.Consequence(),
		ann.Impact(),
		ann.Biotype,
		canonicalFlag(ann),
		ann.ExonRank(),
		ann.IntronRank(),
		ann.HGVSg(),
		ann.HGVSc(),
		ann.HGVSp(),
		strings.Join(ann.Messages, ","),
	}
	for i, val := range values {
		if val == "" {
			values[i] = "-"
		}
	}

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}
