package main

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// configKeys are the settings that may be stored in the config file.
var configKeys = []struct {
	key, help string
}{
	{keyAssembly, "genome assembly: GRCh37 or GRCh38"},
	{keyGTF, "GENCODE GTF annotation file"},
	{keyFASTA, "GENCODE transcript FASTA file"},
	{keyGenomeFASTA, "indexed genome FASTA"},
	{keyCanonicalOverrides, "canonical transcript override TSV"},
	{keyDataDir, "directory searched for GENCODE files"},
	{keyFlankLength, "upstream/downstream window in bases"},
	{keyCanonicalOnly, "only report canonical transcripts"},
	{keyVerbose, "enable debug logging"},
}

func knownConfigKey(key string) bool {
	return slices.ContainsFunc(configKeys, func(k struct{ key, help string }) bool { return k.key == key })
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage vibe-anno configuration",
		Long:  "Show, list, get, or set configuration values. Config is stored in ~/.vibe-anno.yaml.",
		Example: `  vibe-anno config                                   # effective settings
  vibe-anno config list                              # settable keys
  vibe-anno config set gtf ~/gencode/gencode.v46.annotation.gtf.gz
  vibe-anno config set annotation.flank_length 5000
  vibe-anno config get annotation.canonical_only`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeSettings(cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List settable configuration keys",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				for _, k := range configKeys {
					fmt.Fprintf(cmd.OutOrStdout(), "%-28s %s\n", k.key, k.help)
				}
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Set a configuration value",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return setConfig(cmd.OutOrStdout(), args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Get a configuration value",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if !viper.IsSet(args[0]) {
					return fmt.Errorf("key %q is not set", args[0])
				}
				fmt.Fprintln(cmd.OutOrStdout(), viper.Get(args[0]))
				return nil
			},
		},
	)

	return cmd
}

// writeSettings prints the effective settings (config file, environment
// and flag defaults merged) as YAML.
func writeSettings(w io.Writer) error {
	out, err := yaml.Marshal(viper.AllSettings())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if f := viper.ConfigFileUsed(); f != "" {
		fmt.Fprintf(w, "# %s\n", f)
	}
	_, err = w.Write(out)
	return err
}

// configValue converts boolean-like and integer strings to typed values.
func configValue(value string) any {
	switch value {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n
	}
	return value
}

// setConfig stores key in the config file in use, or in ~/.vibe-anno.yaml.
func setConfig(w io.Writer, key, value string) error {
	if !knownConfigKey(key) {
		return fmt.Errorf("unknown config key %q (see 'vibe-anno config list')", key)
	}
	viper.Set(key, configValue(value))

	path := viper.ConfigFileUsed()
	if path == "" {
		var err error
		if path, err = defaultConfigPath(); err != nil {
			return err
		}
	}
	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(w, "Set %s = %s in %s\n", key, value, path)
	return nil
}
