package cache

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/biogo/hts/fai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-anno/internal/genome"
)

const (
	testGenomeChr1 = "GCTAAAGACAATTACATAACATACACGTCAGCACGAAACTTGTTGGCCCAGTGTGAATCG"
	testGenomeChr2 = "cttaagggttaagtaagtgtgatgcatacg"
)

// writeFASTA lays out records with a fixed line width.
func writeFASTA(names, seqs []string, width int) []byte {
	var buf bytes.Buffer
	for i, name := range names {
		buf.WriteString(">" + name + " test contig\n")
		s := seqs[i]
		for len(s) > width {
			buf.WriteString(s[:width] + "\n")
			s = s[width:]
		}
		buf.WriteString(s + "\n")
	}
	return buf.Bytes()
}

func testGenome(t *testing.T) *GenomeSequence {
	t.Helper()
	data := writeFASTA([]string{"chr1", "chr2"}, []string{testGenomeChr1, testGenomeChr2}, 25)
	idx, err := fai.NewIndex(bytes.NewReader(data))
	require.NoError(t, err)
	return NewGenomeSequence(bytes.NewReader(data), idx)
}

func TestGenomeSequence_Slice(t *testing.T) {
	g := testGenome(t)

	tests := []struct {
		chrom      string
		begin, end int64
		want       string
	}{
		{"chr1", 0, 10, testGenomeChr1[0:10]},
		{"chr1", 20, 55, testGenomeChr1[20:55]},
		{"1", 59, 60, testGenomeChr1[59:60]},
		{"chr2", 5, 15, strings.ToUpper(testGenomeChr2[5:15])},
	}
	for _, tt := range tests {
		got, err := g.Slice(tt.chrom, tt.begin, tt.end)
		require.NoError(t, err, "%s:%d-%d", tt.chrom, tt.begin, tt.end)
		assert.Equal(t, tt.want, got)
	}

	_, err := g.Slice("chr3", 0, 10)
	assert.ErrorIs(t, err, ErrNoSequence)
	_, err = g.Slice("chr1", 50, 70)
	assert.Error(t, err, "past contig end")
}

func TestGenomeSequence_RefDict(t *testing.T) {
	dict := testGenome(t).RefDict()
	require.Equal(t, 2, dict.Len())

	c, ok := dict.Resolve("2")
	require.True(t, ok)
	assert.Equal(t, "chr2", c.Name)
	assert.Equal(t, int64(30), c.Length)
	assert.Equal(t, 1, c.ID, "ordered by file offset")
}

func TestGenomeSequence_TranscriptSequence(t *testing.T) {
	g := testGenome(t)
	exonic := testGenomeChr1[10:20] + testGenomeChr1[30:40]

	fwd := &TranscriptRecord{ID: "F", Chrom: "1", Strand: genome.Forward, Exons: [][2]int64{{11, 20}, {31, 40}}}
	seq, err := g.TranscriptSequence(fwd)
	require.NoError(t, err)
	assert.Equal(t, exonic, seq)

	rev := &TranscriptRecord{ID: "R", Chrom: "1", Strand: genome.Reverse, Exons: [][2]int64{{11, 20}, {31, 40}}}
	seq, err = g.TranscriptSequence(rev)
	require.NoError(t, err)
	assert.Equal(t, genome.ReverseComplement(exonic), seq)

	_, err = g.TranscriptSequence(&TranscriptRecord{ID: "X", Chrom: "9", Exons: [][2]int64{{1, 5}}})
	assert.ErrorIs(t, err, ErrNoSequence)
}

func TestOpenGenomeSequence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genome.fa")
	require.NoError(t, os.WriteFile(path, writeFASTA([]string{"chr1"}, []string{testGenomeChr1}, 60), 0o644))

	g, err := OpenGenomeSequence(path)
	require.NoError(t, err)
	defer g.Close()

	got, err := g.Slice("chr1", 3, 9)
	require.NoError(t, err)
	assert.Equal(t, testGenomeChr1[3:9], got)

	_, err = OpenGenomeSequence(filepath.Join(t.TempDir(), "missing.fa"))
	assert.Error(t, err)
}

func TestOpenGenomeSequence_ExistingIndex(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "genome.fa")
	data := writeFASTA([]string{"chr1"}, []string{testGenomeChr1}, 25)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	header := len(">chr1 test contig\n")
	index := fmt.Sprintf("chr1\t%d\t%d\t25\t26\n", len(testGenomeChr1), header)
	require.NoError(t, os.WriteFile(path+".fai", []byte(index), 0o644))

	g, err := OpenGenomeSequence(path)
	require.NoError(t, err)
	defer g.Close()

	// Reads are positional, so their order does not matter.
	for _, r := range [][2]int64{{50, 60}, {0, 30}, {24, 26}, {50, 60}} {
		got, err := g.Slice("chr1", r[0], r[1])
		require.NoError(t, err)
		assert.Equal(t, testGenomeChr1[r[0]:r[1]], got)
	}
	assert.Equal(t, int64(len(testGenomeChr1)), g.RefDict().Contigs()[0].Length)
}
