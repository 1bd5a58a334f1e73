package cache

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// CanonicalOverrides maps gene symbol -> canonical transcript ID.
type CanonicalOverrides map[string]string

// LoadCanonicalOverrides loads canonical transcript overrides from a TSV file.
// Both the Genome Nexus biomart export and the MSKCC isoform list are accepted;
// the format is chosen from the header line.
func LoadCanonicalOverrides(path string) (CanonicalOverrides, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open canonical overrides file: %w", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	header, _ := br.Peek(9)
	if string(header) == "gene_name" {
		return ParseMSKCCOverrides(br)
	}
	return parseCanonicalOverrides(br)
}

// parseCanonicalOverrides parses the Genome Nexus biomart TSV. The file has
// columns hgnc_symbol (col 0) and the MSKCC canonical transcript (col 8).
func parseCanonicalOverrides(reader io.Reader) (CanonicalOverrides, error) {
	return parseOverrideColumns(reader, 0, 8)
}

// ParseMSKCCOverrides parses the MSKCC isoform override TSV with columns
// gene_name, refseq_id, enst_id, note.
func ParseMSKCCOverrides(reader io.Reader) (CanonicalOverrides, error) {
	return parseOverrideColumns(reader, 0, 2)
}

func parseOverrideColumns(reader io.Reader, geneCol, txCol int) (CanonicalOverrides, error) {
	overrides := make(CanonicalOverrides)
	scanner := bufio.NewScanner(reader)

	// Skip header line
	if !scanner.Scan() {
		return overrides, scanner.Err()
	}

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) <= max(geneCol, txCol) {
			continue
		}

		gene := fields[geneCol]
		transcript := fields[txCol]
		if gene == "" || transcript == "" || transcript == "nan" {
			continue
		}

		overrides[gene] = stripVersion(transcript)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan canonical overrides: %w", err)
	}

	return overrides, nil
}

// Apply marks, for every gene with an override whose transcript is present,
// only that transcript as canonical. Genes without a match are left alone.
func (o CanonicalOverrides) Apply(records []*TranscriptRecord) {
	byGene := make(map[string][]*TranscriptRecord)
	for _, r := range records {
		if r.GeneName != "" {
			byGene[r.GeneName] = append(byGene[r.GeneName], r)
		}
	}

	for gene, canonicalID := range o {
		rs := byGene[gene]
		found := false
		for _, r := range rs {
			if r.ID == canonicalID {
				found = true
				break
			}
		}
		if !found {
			continue
		}
		for _, r := range rs {
			r.IsCanonical = r.ID == canonicalID
		}
	}
}
