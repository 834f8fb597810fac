// Package cmd is for command line interactions with the shregeas application
package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/alberlin232/ShReGeAs/config"
	"github.com/alberlin232/ShReGeAs/internal/assemble"
	"github.com/alberlin232/ShReGeAs/internal/io"
)

// Outcome is the result of parsing and running the command line
type Outcome int

const (
	// Parsed means the arguments were valid and the command ran
	Parsed Outcome = iota

	// UsageRequested means help was asked for with -h
	UsageRequested

	// Invalid means the arguments were bad or the command failed
	Invalid
)

// ExitCode is the process exit status for the outcome
func (o Outcome) ExitCode() int {
	if o == Parsed {
		return 0
	}
	return 1
}

// RootCmd represents the base command when called without any subcommands.
var RootCmd = newRootCmd()

// newRootCmd creates the root command and binds its flags to viper
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "shregeas -f <reads>",
		Short: "Assemble fixed-length short reads into contigs",
		Long: `Assemble 30bp reads into contigs.

Each read is split into two 15bp halves that become nodes of a de Bruijn
graph, with the read as an edge between them. The graph is decomposed into
walks, cycles are spliced into the walks they touch and every walk is
decoded into a contig. Contigs are then merged, by containment and by
suffix/prefix overlaps of at least 15bp, until a round of merging changes
nothing.

Lines of the input file that start with '>' are ignored. Every other line
must be exactly 30 bases of A, C, G or T; any other line is skipped.
Gzip and zstd compressed inputs are read as-is.

Contigs are written to stdout as:
  >contig<N>|size<L>
  <sequence>`,
		Args:          cobra.NoArgs,
		RunE:          assembleExec,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetOutput(cmd.ErrOrStderr())
			if viper.GetBool("verbose") {
				log.SetLevel(log.DebugLevel)
			} else {
				log.SetLevel(log.InfoLevel)
			}
		},
	}

	root.Flags().StringP("file", "f", "", "input file of reads (FASTA-like, one read per line)")
	root.Flags().StringP("out", "o", "", "output file name (reserved, contigs are written to stdout)")
	root.Flags().IntP("overlap", "m", 0, "# of overlap for each read (reserved, unused)")
	root.Flags().IntP("workers", "w", 1, "goroutines walking the graph, <0 for one per CPU")
	root.Flags().BoolP("progress", "p", false, "show a progress bar while loading reads")
	root.Flags().Bool("iterations", false, "log the contig count before every merge pass")
	root.Flags().String("metrics", "", "write pipeline metrics to this file (Prometheus text format)")
	root.MarkFlagRequired("file")

	// settings is an optional settings file, overridden by the flags
	root.PersistentFlags().StringP("settings", "s", "", "settings file (yaml, json or toml)")
	root.PersistentFlags().BoolP("verbose", "v", false, "whether to log debug output to stderr")

	for _, name := range []string{"file", "out", "overlap", "workers", "progress", "iterations", "metrics"} {
		viper.BindPFlag(name, root.Flags().Lookup(name))
	}
	viper.BindPFlag("settings", root.PersistentFlags().Lookup("settings"))
	viper.BindPFlag("verbose", root.PersistentFlags().Lookup("verbose"))

	root.CompletionOptions.DisableDefaultCmd = true
	root.AddCommand(newDocsCmd())

	return root
}

// assembleExec reads the input, assembles it and prints the contigs
func assembleExec(cmd *cobra.Command, args []string) error {
	conf, err := config.New()
	if err != nil {
		return err
	}

	// the settings file may turn on verbose output too
	if conf.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	if conf.Out != "" {
		log.Warnf("output file %s ignored, writing contigs to stdout", conf.Out)
	}

	reads, err := io.ReadFile(conf.File)
	if err != nil {
		return err
	}

	opts := assemble.Options{
		Workers:  conf.Workers,
		Progress: conf.Progress,
	}
	if conf.Iterations {
		opts.OnPass = func(pass, size int) {
			log.WithFields(log.Fields{"iteration": pass - 1, "paths": size}).Info("merge pass")
		}
	}

	contigs, stats := assemble.Assemble(cmd.Context(), reads, opts)

	if conf.Metrics != "" {
		m := assemble.NewMetrics()
		m.Observe(stats)
		if err := m.WriteFile(conf.Metrics); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	if err := io.Write(cmd.OutOrStdout(), contigs.Slice()); err != nil {
		if io.IsBrokenPipe(err) {
			return nil
		}
		return fmt.Errorf("failed to write contigs: %w", err)
	}

	return nil
}

// Run executes root with args and returns the outcome. Errors and usage
// for bad arguments are printed to root's error stream
func Run(root *cobra.Command, args []string) Outcome {
	root.SetArgs(args)

	cmd, err := root.ExecuteC()
	if err != nil {
		if cmd == nil {
			cmd = root
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
		return Invalid
	}

	if help, _ := cmd.Flags().GetBool("help"); help {
		return UsageRequested
	}
	return Parsed
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() int {
	return Run(RootCmd, os.Args[1:]).ExitCode()
}
