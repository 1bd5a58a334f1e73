// Package main provides the vibe-anno command-line tool.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-anno/internal/annotate"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const (
	configName = ".vibe-anno"
	envPrefix  = "VIBE_ANNO"
)

// Viper keys.
const (
	keyVerbose            = "verbose"
	keyAssembly           = "assembly"
	keyGTF                = "gtf"
	keyFASTA              = "fasta"
	keyGenomeFASTA        = "genome_fasta"
	keyCanonicalOverrides = "canonical_overrides"
	keyDataDir            = "data_dir"
	keyFlankLength        = "annotation.flank_length"
	keyCanonicalOnly      = "annotation.canonical_only"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "vibe-anno",
		Short: "Annotate single-nucleotide variants against GENCODE transcripts",
		Long: `vibe-anno predicts the effect of single-nucleotide variants on GENCODE
transcripts and reports consequence terms with HGVS notation.

Transcripts are read from a GENCODE GTF plus either the GENCODE transcript
FASTA or an indexed genome FASTA.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cfgFile)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default ~/.vibe-anno.yaml)")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.String("assembly", "GRCh38", "genome assembly: GRCh37 or GRCh38")
	flags.String("gtf", "", "GENCODE GTF annotation file")
	flags.String("fasta", "", "GENCODE transcript FASTA file")
	flags.String("genome-fasta", "", "indexed genome FASTA; replaces --fasta and the built-in contig list")
	flags.String("canonical-overrides", "", "canonical transcript override TSV")
	flags.String("data-dir", "", "directory searched for GENCODE files (default ~/.vibe-anno/<assembly>)")
	flags.Int64("flank", annotate.DefaultFlankLength, "upstream/downstream window in bases")
	flags.Bool("canonical", false, "only report canonical transcript annotations")

	for key, flag := range map[string]string{
		keyVerbose:            "verbose",
		keyAssembly:           "assembly",
		keyGTF:                "gtf",
		keyFASTA:              "fasta",
		keyGenomeFASTA:        "genome-fasta",
		keyCanonicalOverrides: "canonical-overrides",
		keyDataDir:            "data-dir",
		keyFlankLength:        "flank",
		keyCanonicalOnly:      "canonical",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}

	cmd.AddCommand(newAnnotateCmd())
	cmd.AddCommand(newPosCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// initConfig reads ~/.vibe-anno.yaml (or cfgFile) and VIBE_ANNO_* variables.
// A missing default config file is not an error.
func initConfig(cfgFile string) error {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", cfgFile, err)
		}
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	viper.AddConfigPath(home)
	viper.SetConfigName(configName)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// defaultConfigPath returns ~/.vibe-anno.yaml.
func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, configName+".yaml"), nil
}

// newLogger builds a development logger with --verbose and a production
// logger otherwise. Both write to stderr.
func newLogger() (*zap.Logger, error) {
	if viper.GetBool(keyVerbose) {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// flankLength returns the configured flank, falling back to the default
// for unset or non-positive values.
func flankLength() int64 {
	if n := viper.GetInt64(keyFlankLength); n > 0 {
		return n
	}
	return annotate.DefaultFlankLength
}

func annotationOptions() annotate.Options {
	return annotate.Options{FlankLength: flankLength()}
}
