package cache

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/inodb/vibe-anno/internal/genome"
)

// TranscriptRecord is a transcript as read from a GTF file, before a
// sequence is attached. Coordinates are 1-based inclusive, forward strand.
type TranscriptRecord struct {
	ID          string
	GeneID      string
	GeneName    string
	Biotype     string
	Chrom       string
	Strand      genome.Strand
	IsCanonical bool
	Exons       [][2]int64 // start, end pairs in genomic order
	CDSStart    int64      // 0 if non-coding; includes the stop codon
	CDSEnd      int64
}

// IsProteinCoding returns true if the record has CDS bounds.
func (r *TranscriptRecord) IsProteinCoding() bool {
	return r.CDSStart > 0 && r.CDSEnd >= r.CDSStart
}

// ExonLength returns the total number of exonic bases.
func (r *TranscriptRecord) ExonLength() int64 {
	var n int64
	for _, e := range r.Exons {
		n += e[1] - e[0] + 1
	}
	return n
}

// CDSLength returns the number of exonic bases between CDSStart and CDSEnd.
func (r *TranscriptRecord) CDSLength() int64 {
	if !r.IsProteinCoding() {
		return 0
	}
	var n int64
	for _, e := range r.Exons {
		begin, end := max(e[0], r.CDSStart), min(e[1], r.CDSEnd)
		if end >= begin {
			n += end - begin + 1
		}
	}
	return n
}

// Builder converts the record into a TranscriptBuilder on contig with the
// given spliced sequence.
func (r *TranscriptRecord) Builder(contig genome.Contig, seq string) *TranscriptBuilder {
	b := &TranscriptBuilder{
		ID:          r.ID,
		GeneID:      r.GeneID,
		GeneName:    r.GeneName,
		Biotype:     r.Biotype,
		IsCanonical: r.IsCanonical,
		Strand:      r.Strand,
		Sequence:    seq,
	}
	for _, e := range r.Exons {
		b.Exons = append(b.Exons, genome.Interval{Contig: contig, Strand: genome.Forward, Begin: e[0] - 1, End: e[1]})
	}
	if r.IsProteinCoding() {
		b.CDSRegion = genome.Interval{Contig: contig, Strand: genome.Forward, Begin: r.CDSStart - 1, End: r.CDSEnd}
	}
	return b
}

// GTFLoader loads transcript records from GENCODE GTF files.
type GTFLoader struct {
	path string
}

// NewGTFLoader creates a new GTF loader.
func NewGTFLoader(path string) *GTFLoader {
	return &GTFLoader{path: path}
}

// Load reads all transcript records from the GTF file, sorted by ID.
func (l *GTFLoader) Load() ([]*TranscriptRecord, error) {
	return l.load("")
}

// LoadChromosome reads the transcript records of one chromosome.
func (l *GTFLoader) LoadChromosome(chrom string) ([]*TranscriptRecord, error) {
	return l.load(chrom)
}

func (l *GTFLoader) load(filterChrom string) ([]*TranscriptRecord, error) {
	tf, err := openText(l.path, 1024*1024)
	if err != nil {
		return nil, fmt.Errorf("open GTF file: %w", err)
	}
	defer tf.Close()

	records, err := l.collect(tf.Scanner, filterChrom)
	if err != nil {
		return nil, err
	}

	out := make([]*TranscriptRecord, 0, len(records))
	for _, r := range records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// gtfFeature represents a parsed GTF line.
type gtfFeature struct {
	chrom       string
	featureType string
	start       int64
	end         int64
	strand      string
	attributes  map[string]string
	tags        []string
}

// parseGTF parses GTF content and returns records keyed by transcript ID.
func (l *GTFLoader) parseGTF(r io.Reader, filterChrom string) (map[string]*TranscriptRecord, error) {
	return l.collect(newScanner(r, 1024*1024), filterChrom)
}

// collect groups transcript, exon and coding features by transcript ID.
// Records without exons or strand are dropped.
func (l *GTFLoader) collect(scanner *bufio.Scanner, filterChrom string) (map[string]*TranscriptRecord, error) {
	records := make(map[string]*TranscriptRecord)
	get := func(id string, feat *gtfFeature) *TranscriptRecord {
		r, ok := records[id]
		if !ok {
			r = &TranscriptRecord{ID: id, Chrom: feat.chrom}
			records[id] = r
		}
		return r
	}

	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}

		feat, err := l.parseLine(line)
		if err != nil {
			continue // Skip malformed lines
		}

		if filterChrom != "" && feat.chrom != normalizeChrom(filterChrom) {
			continue
		}

		transcriptID := feat.attributes["transcript_id"]
		if transcriptID == "" {
			continue
		}
		transcriptID = stripVersion(transcriptID)

		switch feat.featureType {
		case "transcript":
			strand, err := genome.ParseStrand(feat.strand)
			if err != nil {
				continue
			}
			r := get(transcriptID, feat)
			r.GeneID = stripVersion(feat.attributes["gene_id"])
			r.GeneName = feat.attributes["gene_name"]
			r.Strand = strand
			r.Biotype = feat.attributes["transcript_type"]
			for _, tag := range feat.tags {
				if tag == "Ensembl_canonical" {
					r.IsCanonical = true
				}
			}

		case "exon":
			r := get(transcriptID, feat)
			r.Exons = append(r.Exons, [2]int64{feat.start, feat.end})

		case "CDS", "start_codon", "stop_codon":
			// GENCODE CDS features exclude the stop codon; the union of all
			// three gives the full coding span.
			r := get(transcriptID, feat)
			if r.CDSStart == 0 || feat.start < r.CDSStart {
				r.CDSStart = feat.start
			}
			if feat.end > r.CDSEnd {
				r.CDSEnd = feat.end
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan GTF: %w", err)
	}

	for id, r := range records {
		if len(r.Exons) == 0 || r.Strand == 0 {
			delete(records, id)
			continue
		}
		sort.Slice(r.Exons, func(i, j int) bool {
			return r.Exons[i][0] < r.Exons[j][0]
		})
	}

	return records, nil
}

// parseLine parses a single GTF line.
func (l *GTFLoader) parseLine(line string) (*gtfFeature, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 9 {
		return nil, fmt.Errorf("invalid GTF line: expected 9 fields, got %d", len(fields))
	}

	start, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse start: %w", err)
	}

	end, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse end: %w", err)
	}

	attrs, tags := parseAttributes(fields[8])
	return &gtfFeature{
		chrom:       normalizeChrom(fields[0]),
		featureType: fields[2],
		start:       start,
		end:         end,
		strand:      fields[6],
		attributes:  attrs,
		tags:        tags,
	}, nil
}

// parseAttributes parses GTF attribute column.
// Format: key "value"; key "value"; ...
// Repeated keys keep the last value; every "tag" value is also collected.
func parseAttributes(attrStr string) (map[string]string, []string) {
	attrs := make(map[string]string)
	var tags []string

	for _, part := range strings.Split(attrStr, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, value, ok := strings.Cut(part, " ")
		if !ok {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), "\"")

		attrs[key] = value
		if key == "tag" {
			tags = append(tags, value)
		}
	}

	return attrs, tags
}

// stripVersion removes the version suffix from an Ensembl ID.
// e.g., "ENST00000456328.2" -> "ENST00000456328"
func stripVersion(id string) string {
	if idx := strings.LastIndex(id, "."); idx != -1 {
		return id[:idx]
	}
	return id
}

// normalizeChrom normalizes chromosome names by removing "chr" prefix.
func normalizeChrom(chrom string) string {
	if strings.HasPrefix(chrom, "chr") {
		return chrom[3:]
	}
	return chrom
}
