package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/inodb/vibe-anno/internal/genome"
	"github.com/inodb/vibe-anno/internal/vcf"
)

const (
	testGenome = ">chr1\nGCTAAAGACAATTACATAACATACACGTCAGCACGAAACTTGTTGGCCCAGTGTGAATCG\n"
	testGTF    = "chr1\tTEST\ttranscript\t11\t40\t.\t+\t.\tgene_id \"G1.1\"; transcript_id \"TXA.1\"; gene_name \"GENE1\"; transcript_type \"protein_coding\"; tag \"Ensembl_canonical\";\n" +
		"chr1\tTEST\texon\t11\t20\t.\t+\t.\tgene_id \"G1.1\"; transcript_id \"TXA.1\";\n" +
		"chr1\tTEST\texon\t31\t40\t.\t+\t.\tgene_id \"G1.1\"; transcript_id \"TXA.1\";\n" +
		"chr1\tTEST\tCDS\t14\t38\t.\t+\t0\tgene_id \"G1.1\"; transcript_id \"TXA.1\";\n"
)

// setupEnv isolates viper and HOME and writes the genome and GTF fixtures.
func setupEnv(t *testing.T) (genomePath, gtfPath string) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	t.Setenv("HOME", dir)

	genomePath = filepath.Join(dir, "genome.fa")
	require.NoError(t, os.WriteFile(genomePath, []byte(testGenome), 0o644))
	gtfPath = filepath.Join(dir, "test.gtf")
	require.NoError(t, os.WriteFile(gtfPath, []byte(testGTF), 0o644))
	return genomePath, gtfPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestParseVariantSpec(t *testing.T) {
	v, err := parseVariantSpec("12:25245351:c:a")
	require.NoError(t, err)
	assert.Equal(t, "12", v.Chrom)
	assert.Equal(t, int64(25245351), v.Pos)
	assert.Equal(t, "C", v.Ref)
	assert.Equal(t, "A", v.Alt)

	v, err = parseVariantSpec("chr7-140753336-A-T")
	require.NoError(t, err)
	assert.Equal(t, "chr7", v.Chrom)

	for _, bad := range []string{"12:100:A", "12:x:A:T", "12:0:A:T", ""} {
		_, err := parseVariantSpec(bad)
		assert.Error(t, err, bad)
	}
}

func TestConfigValue(t *testing.T) {
	assert.Equal(t, true, configValue("yes"))
	assert.Equal(t, false, configValue("off"))
	assert.Equal(t, int64(5000), configValue("5000"))
	assert.Equal(t, "/data/x.gtf", configValue("/data/x.gtf"))
}

func TestFindGENCODEFiles(t *testing.T) {
	dir := t.TempDir()
	_, ok := findGENCODEFiles(dir, "GRCh38")
	assert.False(t, ok)

	for _, name := range []string{
		"gencode.v46.annotation.gtf.gz",
		"gencode.v46.pc_transcripts.fa.gz",
		canonicalFileName,
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	files, ok := findGENCODEFiles(dir, "GRCh38")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "gencode.v46.annotation.gtf.gz"), files.GTF)
	assert.Equal(t, filepath.Join(dir, "gencode.v46.pc_transcripts.fa.gz"), files.FASTA)
	assert.Equal(t, filepath.Join(dir, canonicalFileName), files.CanonicalOverrides)

	_, ok = findGENCODEFiles(dir, "GRCh37")
	assert.False(t, ok, "GRCh37 needs the lift37 files")
}

func TestPosCommand(t *testing.T) {
	genomePath, gtfPath := setupEnv(t)

	out, err := execute(t, "pos", "--genome-fasta", genomePath, "--gtf", gtfPath, "chr1:15:C:T")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 2)
	cols := strings.Split(lines[1], "\t")
	assert.Equal(t, "chr1:15", cols[1])
	assert.Equal(t, "GENE1", cols[3])
	assert.Equal(t, "TXA", cols[4])
	assert.Equal(t, "start_lost,missense_variant", cols[6])
	assert.Equal(t, "1/2", cols[10])
	assert.Equal(t, "g.15C>T", cols[12])
	assert.Equal(t, "c.2C>T", cols[13])
	assert.Equal(t, "p.0?", cols[14])
}

func TestPosCommand_Errors(t *testing.T) {
	genomePath, gtfPath := setupEnv(t)

	_, err := execute(t, "pos", "--genome-fasta", genomePath, "--gtf", gtfPath, "chr9:15:C:T")
	assert.Error(t, err, "contig not in genome index")

	_, err = execute(t, "pos", "--genome-fasta", genomePath, "chr1:15:C:T")
	assert.ErrorContains(t, err, "no GENCODE GTF")

	_, err = execute(t, "pos", "chr1:15")
	assert.Error(t, err)
}

func TestAnnotateCommand(t *testing.T) {
	genomePath, gtfPath := setupEnv(t)
	vcfPath := filepath.Join(t.TempDir(), "in.vcf")
	require.NoError(t, os.WriteFile(vcfPath, []byte("##fileformat=VCFv4.2\n"+
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n"+
		"chr1\t15\trs1\tC\tT\t.\tPASS\tDP=9\n"+
		"chr1\t25\t.\tCA\tC\t.\tPASS\t.\n"+
		"chr1\t58\t.\tT\tA\t.\tPASS\t.\n"), 0o644))

	out, err := execute(t, "annotate", "--genome-fasta", genomePath, "--gtf", gtfPath, vcfPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 3, "header, SNV at 15, downstream SNV at 58")
	assert.True(t, strings.HasPrefix(lines[1], "rs1\tchr1:15\tT\tGENE1\tTXA"))
	assert.Contains(t, lines[2], "downstream_gene_variant")

	outPath := filepath.Join(t.TempDir(), "out.vcf")
	_, err = execute(t, "annotate", "--genome-fasta", genomePath, "--gtf", gtfPath, "-f", "vcf", "-o", outPath, vcfPath)
	require.NoError(t, err)
	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "##INFO=<ID=CSQ,")
	assert.Contains(t, string(data), "DP=9;CSQ=T|start_lost&missense_variant|HIGH|GENE1|G1|Transcript|TXA|")

	_, err = execute(t, "annotate", "--genome-fasta", genomePath, "--gtf", gtfPath, "-f", "maf", vcfPath)
	assert.ErrorContains(t, err, "unknown output format")
}

func TestAnnotateCommand_VCFKeepsUnannotatedAlleles(t *testing.T) {
	genomePath, gtfPath := setupEnv(t)
	vcfPath := filepath.Join(t.TempDir(), "in.vcf")
	require.NoError(t, os.WriteFile(vcfPath, []byte("##fileformat=VCFv4.2\n"+
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tS1\n"+
		"chr1\t15\t.\tC\tT,CA\t.\tPASS\t.\tGT\t1/2\n"+
		"chr1\t17\t.\tA\tAT\t.\tPASS\tDP=4\tGT\t0/1\n"), 0o644))

	outPath := filepath.Join(t.TempDir(), "out.vcf")
	_, err := execute(t, "annotate", "--genome-fasta", genomePath, "--gtf", gtfPath, "-f", "vcf", "-o", outPath, vcfPath)
	require.NoError(t, err)
	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var records [][]string
	for _, line := range strings.Split(strings.TrimSuffix(string(data), "\n"), "\n") {
		if !strings.HasPrefix(line, "#") {
			records = append(records, strings.Split(line, "\t"))
		}
	}
	require.Len(t, records, 2)

	assert.Equal(t, "T,CA", records[0][4])
	assert.True(t, strings.HasPrefix(records[0][7], "CSQ=T|"), records[0][7])
	assert.NotContains(t, records[0][7], ",CA|")
	assert.Equal(t, "1/2", records[0][9])

	assert.Equal(t, []string{"chr1", "17", ".", "A", "AT", ".", "PASS", "DP=4", "GT", "0/1"}, records[1])
}

func TestVersionCommand(t *testing.T) {
	setupEnv(t)
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "vibe-anno version dev")
}

func TestConfigSetGet(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "config", "set", "annotation.flank_length", "5000")
	require.NoError(t, err)
	assert.Contains(t, out, "Set annotation.flank_length = 5000")

	viper.Reset()
	out, err = execute(t, "config", "get", "annotation.flank_length")
	require.NoError(t, err)
	assert.Equal(t, "5000\n", out)
}

func TestCheckContigs(t *testing.T) {
	cat := &catalogue{dict: genome.NewRefDict([]genome.Contig{
		{Name: "chr1", Length: 60},
		{Name: "chr2", Length: 30},
	})}
	h := &vcf.Header{Meta: []string{
		"##contig=<ID=chr1,length=60>",
		"##contig=<ID=2,length=31>",
		"##contig=<ID=chr3,length=10>",
	}}

	core, logs := observer.New(zap.WarnLevel)
	assert.Equal(t, 1, checkContigs(h, cat, zap.New(core)))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "2", logs.All()[0].ContextMap()["contig"])
}

func TestConfigCommand(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "config", "set", "annotations.alphamissense", "true")
	assert.ErrorContains(t, err, "unknown config key")

	_, err = execute(t, "config", "get", "gtf")
	assert.ErrorContains(t, err, "not set")

	out, err := execute(t, "config", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "annotation.flank_length")

	out, err = execute(t, "config", "--flank", "250")
	require.NoError(t, err)
	assert.Contains(t, out, "flank_length: 250")
}
