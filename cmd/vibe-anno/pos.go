package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/vibe-anno/internal/annotate"
	"github.com/inodb/vibe-anno/internal/output"
	"github.com/inodb/vibe-anno/internal/vcf"
)

func newPosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pos <chrom:pos:ref:alt>",
		Short: "Annotate a single SNV",
		Long:  "Annotate one SNV given as chrom:pos:ref:alt (1-based position) and print the tab-delimited result.",
		Example: `  vibe-anno pos 12:25245351:C:A
  vibe-anno pos chr7-140753336-A-T`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPos(cmd, args[0])
		},
	}
}

// parseVariantSpec parses "chrom:pos:ref:alt"; '-' is accepted as separator.
func parseVariantSpec(spec string) (*vcf.Variant, error) {
	sep := ":"
	if !strings.Contains(spec, sep) {
		sep = "-"
	}
	parts := strings.Split(spec, sep)
	if len(parts) != 4 {
		return nil, fmt.Errorf("invalid variant %q: expected chrom:pos:ref:alt", spec)
	}
	pos, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || pos < 1 {
		return nil, fmt.Errorf("invalid variant %q: bad position %q", spec, parts[1])
	}
	return &vcf.Variant{
		Chrom: parts[0],
		Pos:   pos,
		ID:    ".",
		Ref:   strings.ToUpper(parts[2]),
		Alt:   strings.ToUpper(parts[3]),
	}, nil
}

func runPos(cmd *cobra.Command, spec string) error {
	v, err := parseVariantSpec(spec)
	if err != nil {
		return err
	}

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	files, err := resolveSourceFiles()
	if err != nil {
		return err
	}
	cat, err := loadCatalogue(files, logger)
	if err != nil {
		return err
	}
	defer cat.Close()

	gv, err := v.ToGenome(cat.dict)
	if err != nil {
		return err
	}

	ann := annotate.NewAnnotator(cat.cache, cat.dict, annotationOptions())
	ann.SetCanonicalOnly(viper.GetBool(keyCanonicalOnly))
	ann.SetLogger(logger)

	anns, err := ann.Annotate(gv)
	if err != nil {
		return err
	}

	w := output.NewTabWriter(cmd.OutOrStdout())
	if err := w.WriteHeader(); err != nil {
		return err
	}
	for _, a := range anns {
		if err := w.Write(v, a); err != nil {
			return err
		}
	}
	return w.Flush()
}
