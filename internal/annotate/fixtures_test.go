package annotate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-anno/internal/cache"
	"github.com/inodb/vibe-anno/internal/genome"
)

// 30 bases of 5'UTR, a 21-codon CDS ending in TAG and 27 bases of 3'UTR.
const (
	testUTR5 = "AAAAACCCCCGGGGGTTTTTACGTACGTAC"
	testCDS  = "ATGGCTTGTCGTGCCAAAGAACTGGTTACCAAGGGCTTCCAGGACATCCCATCAAATGTGTAG"
	testUTR3 = "GCTGCAGCCGCGTAACCCGGGAAATTT"
	testMRNA = testUTR5 + testCDS + testUTR3
)

func testDict(t *testing.T) *genome.RefDict {
	t.Helper()
	dict, err := genome.BuiltinRefDict("GRCh37")
	require.NoError(t, err)
	return dict
}

func testContig(t *testing.T, name string) genome.Contig {
	t.Helper()
	c, ok := testDict(t).Resolve(name)
	require.True(t, ok)
	return c
}

func iv(c genome.Contig, begin, end int64) genome.Interval {
	return genome.Interval{Contig: c, Strand: genome.Forward, Begin: begin, End: end}
}

func build(t *testing.T, b *cache.TranscriptBuilder) *cache.Transcript {
	t.Helper()
	tx, err := b.Build()
	require.NoError(t, err)
	return tx
}

// forwardTranscript: exons [1000,1020) [1100,1130) [1200,1230) [1301,1341),
// CDS [1110,1314) on chr1.
func forwardTranscript(t *testing.T) *cache.Transcript {
	c := testContig(t, "chr1")
	return build(t, &cache.TranscriptBuilder{
		ID:          "TX_FWD",
		GeneID:      "G_FWD",
		GeneName:    "FWD",
		Biotype:     "protein_coding",
		IsCanonical: true,
		Strand:      genome.Forward,
		Exons:       []genome.Interval{iv(c, 1000, 1020), iv(c, 1100, 1130), iv(c, 1200, 1230), iv(c, 1301, 1341)},
		CDSRegion:   iv(c, 1110, 1314),
		Sequence:    testMRNA,
	})
}

// reverseTranscript carries the same mRNA on the reverse strand: exons
// [5080,5100) [4970,5000) [4870,4900) [4759,4799) in transcript order,
// CDS [4786,4990).
func reverseTranscript(t *testing.T) *cache.Transcript {
	c := testContig(t, "chr1")
	return build(t, &cache.TranscriptBuilder{
		ID:        "TX_REV",
		GeneName:  "REV",
		Biotype:   "protein_coding",
		Strand:    genome.Reverse,
		Exons:     []genome.Interval{iv(c, 4759, 4799), iv(c, 4870, 4900), iv(c, 4970, 5000), iv(c, 5080, 5100)},
		CDSRegion: iv(c, 4786, 4990),
		Sequence:  testMRNA,
	})
}

// nonCodingTranscript: exons [2000,2010) [2050,2070) on chr1.
func nonCodingTranscript(t *testing.T) *cache.Transcript {
	c := testContig(t, "chr1")
	return build(t, &cache.TranscriptBuilder{
		ID:       "TX_NC",
		GeneName: "NC",
		Biotype:  "lncRNA",
		Strand:   genome.Forward,
		Exons:    []genome.Interval{iv(c, 2000, 2010), iv(c, 2050, 2070)},
		Sequence: testMRNA[:30],
	})
}

// snv builds a forward-strand SNV at the 0-based position pos of contig c.
func snv(t *testing.T, c genome.Contig, pos int64, ref, alt string) genome.Variant {
	t.Helper()
	p, err := genome.NewPosition(c, genome.Forward, pos, genome.ZeroBased)
	require.NoError(t, err)
	v, err := genome.NewVariant(p, ref, alt)
	require.NoError(t, err)
	return v
}
