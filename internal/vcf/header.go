package vcf

import (
	"strconv"
	"strings"
)

// Header holds the meta-information and column lines of a VCF file.
type Header struct {
	Meta    []string // "##" lines in input order
	Columns string   // the "#CHROM" line
	Samples []string // sample names after FORMAT; nil if none
}

// Lines returns the meta lines followed by the column line.
func (h *Header) Lines() []string {
	lines := make([]string, 0, len(h.Meta)+1)
	lines = append(lines, h.Meta...)
	if h.Columns != "" {
		lines = append(lines, h.Columns)
	}
	return lines
}

// Contigs returns the lengths declared by ##contig lines, keyed by ID.
// Contigs without a parseable length are omitted.
func (h *Header) Contigs() map[string]int64 {
	contigs := make(map[string]int64)
	for _, line := range h.Meta {
		body, ok := strings.CutPrefix(line, "##contig=<")
		if !ok {
			continue
		}
		body = strings.TrimSuffix(body, ">")

		var id string
		var length int64 = -1
		for _, kv := range strings.Split(body, ",") {
			key, value, _ := strings.Cut(kv, "=")
			switch key {
			case "ID":
				id = value
			case "length":
				if n, err := strconv.ParseInt(value, 10, 64); err == nil {
					length = n
				}
			}
		}
		if id != "" && length >= 0 {
			contigs[id] = length
		}
	}
	return contigs
}
