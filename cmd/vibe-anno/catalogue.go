package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-anno/internal/cache"
	"github.com/inodb/vibe-anno/internal/genome"
)

// canonicalFileName is the override file looked for next to the GENCODE files.
const canonicalFileName = "ensembl_biomart_canonical_transcripts_per_hgnc.txt"

// sourceFiles are the inputs a catalogue is built from.
type sourceFiles struct {
	GTF                string
	FASTA              string
	GenomeFASTA        string
	CanonicalOverrides string
}

// catalogue is a loaded transcript cache with the reference dictionary its
// contigs resolve through.
type catalogue struct {
	dict   *genome.RefDict
	cache  *cache.Cache
	closer io.Closer
}

func (c *catalogue) Close() error {
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

// defaultDataDir returns ~/.vibe-anno/<assembly>.
func defaultDataDir(assembly string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".vibe-anno", strings.ToLower(assembly))
}

// findGENCODEFiles looks for GENCODE GTF and transcript FASTA files in dir.
// found is false when no GTF is present.
func findGENCODEFiles(dir, assembly string) (files sourceFiles, found bool) {
	if dir == "" {
		return files, false
	}

	gtfPattern := "gencode.v*.annotation.gtf*"
	fastaPattern := "gencode.v*.pc_transcripts.fa*"
	if strings.EqualFold(assembly, "GRCh37") {
		gtfPattern = "gencode.v*lift37.annotation.gtf*"
		fastaPattern = "gencode.v*lift37.pc_transcripts.fa*"
	}

	matches, err := filepath.Glob(filepath.Join(dir, gtfPattern))
	if err != nil || len(matches) == 0 {
		return files, false
	}
	files.GTF = matches[0]

	matches, err = filepath.Glob(filepath.Join(dir, fastaPattern))
	if err == nil && len(matches) > 0 {
		files.FASTA = matches[0]
	}

	cPath := filepath.Join(dir, canonicalFileName)
	if _, err := os.Stat(cPath); err == nil {
		files.CanonicalOverrides = cPath
	}

	return files, true
}

// resolveSourceFiles combines explicit settings with files discovered in the
// data directory. Explicit settings win.
func resolveSourceFiles() (sourceFiles, error) {
	assembly := viper.GetString(keyAssembly)
	files := sourceFiles{
		GTF:                viper.GetString(keyGTF),
		FASTA:              viper.GetString(keyFASTA),
		GenomeFASTA:        viper.GetString(keyGenomeFASTA),
		CanonicalOverrides: viper.GetString(keyCanonicalOverrides),
	}

	dir := viper.GetString(keyDataDir)
	if dir == "" {
		dir = defaultDataDir(assembly)
	}
	if found, ok := findGENCODEFiles(dir, assembly); ok {
		if files.GTF == "" {
			files.GTF = found.GTF
		}
		if files.FASTA == "" {
			files.FASTA = found.FASTA
		}
		if files.CanonicalOverrides == "" {
			files.CanonicalOverrides = found.CanonicalOverrides
		}
	}

	if files.GTF == "" {
		return files, fmt.Errorf("no GENCODE GTF for %s: set --gtf or place gencode files in %s", assembly, dir)
	}
	if files.FASTA == "" && files.GenomeFASTA == "" {
		return files, fmt.Errorf("no sequence source: set --fasta or --genome-fasta")
	}
	return files, nil
}

// loadCatalogue builds the transcript cache. With a genome FASTA the
// reference dictionary comes from its index; otherwise the built-in
// dictionary of the configured assembly is used.
func loadCatalogue(files sourceFiles, logger *zap.Logger) (*catalogue, error) {
	cat := &catalogue{}

	var seqs cache.SequenceSource
	if files.GenomeFASTA != "" {
		g, err := cache.OpenGenomeSequence(files.GenomeFASTA)
		if err != nil {
			return nil, err
		}
		cat.closer = g
		cat.dict = g.RefDict()
		seqs = g
		logger.Info("using genome FASTA", zap.String("path", files.GenomeFASTA), zap.Int("contigs", cat.dict.Len()))
	} else {
		dict, err := genome.BuiltinRefDict(viper.GetString(keyAssembly))
		if err != nil {
			return nil, err
		}
		cat.dict = dict
		fa := cache.NewFASTALoader(files.FASTA)
		if err := fa.Load(); err != nil {
			return nil, fmt.Errorf("load transcript FASTA: %w", err)
		}
		seqs = fa
		logger.Info("using transcript FASTA", zap.String("path", files.FASTA), zap.Int("sequences", fa.SequenceCount()))
	}

	loader := cache.NewGENCODELoader(files.GTF, seqs, cat.dict)
	loader.SetLogger(logger)

	if files.CanonicalOverrides != "" {
		overrides, err := cache.LoadCanonicalOverrides(files.CanonicalOverrides)
		if err != nil {
			logger.Warn("could not load canonical overrides", zap.String("path", files.CanonicalOverrides), zap.Error(err))
		} else {
			loader.SetCanonicalOverrides(overrides)
			logger.Info("loaded canonical overrides", zap.Int("genes", len(overrides)))
		}
	}

	cat.cache = cache.New()
	n, err := loader.Load(cat.cache)
	if err != nil {
		cat.Close()
		return nil, fmt.Errorf("loading GENCODE transcripts: %w", err)
	}
	cat.cache.BuildIndex(flankLength())
	logger.Info("loaded transcripts", zap.String("gtf", files.GTF), zap.Int("transcripts", n))

	return cat, nil
}
