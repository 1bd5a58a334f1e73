package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-anno/internal/annotate"
	"github.com/inodb/vibe-anno/internal/output"
	"github.com/inodb/vibe-anno/internal/vcf"
)

func newAnnotateCmd() *cobra.Command {
	var (
		outputFile   string
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "annotate <input.vcf>",
		Short: "Annotate SNVs in a VCF file",
		Long: `Annotate every SNV of a VCF file (plain, gzip or bgzip) against the
transcript catalogue. Multi-allelic records are split; indels and symbolic
alleles are reported as skipped.`,
		Example: `  vibe-anno annotate --gtf gencode.v46.annotation.gtf.gz --fasta gencode.v46.pc_transcripts.fa.gz input.vcf
  vibe-anno annotate --genome-fasta GRCh38.fa -f vcf -o out.vcf input.vcf.gz
  cat input.vcf | vibe-anno annotate -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnnotate(cmd, args[0], outputFile, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&outputFormat, "output-format", "f", "tab", "output format: tab, vcf")

	return cmd
}

func runAnnotate(cmd *cobra.Command, inputPath, outputFile, outputFormat string) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	var parser *vcf.Parser
	if inputPath == "-" {
		parser, err = vcf.NewParserFromReader(cmd.InOrStdin())
	} else {
		parser, err = vcf.NewParser(inputPath)
	}
	if err != nil {
		return err
	}
	defer parser.Close()

	files, err := resolveSourceFiles()
	if err != nil {
		return err
	}
	cat, err := loadCatalogue(files, logger)
	if err != nil {
		return err
	}
	defer cat.Close()
	checkContigs(parser.Header(), cat, logger)

	ann := annotate.NewAnnotator(cat.cache, cat.dict, annotationOptions())
	ann.SetCanonicalOnly(viper.GetBool(keyCanonicalOnly))
	ann.SetLogger(logger)

	var out io.Writer = cmd.OutOrStdout()
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	writer, err := newWriter(outputFormat, out, parser.Header().Lines())
	if err != nil {
		return err
	}
	if err := writer.WriteHeader(); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	stats, err := ann.AnnotateAll(parser, writer)
	if err != nil {
		return err
	}
	logger.Info("annotation complete",
		zap.Int("records", stats.Records),
		zap.Int("variants", stats.Variants),
		zap.Int("annotations", stats.Annotations),
		zap.Int("skipped", stats.Skipped))
	return nil
}

func newWriter(format string, out io.Writer, header []string) (annotate.AnnotationWriter, error) {
	switch format {
	case "tab":
		return output.NewTabWriter(out), nil
	case "vcf":
		return output.NewVCFWriter(out, header), nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

// checkContigs warns about ##contig lines whose length disagrees with the
// reference dictionary and returns how many did.
func checkContigs(h *vcf.Header, cat *catalogue, logger *zap.Logger) int {
	mismatched := 0
	for name, length := range h.Contigs() {
		c, ok := cat.dict.Resolve(name)
		if !ok || c.Length == length {
			continue
		}
		mismatched++
		logger.Warn("contig length differs from reference",
			zap.String("contig", name),
			zap.Int64("vcf_length", length),
			zap.Int64("reference_length", c.Length))
	}
	return mismatched
}
