package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"

	log "github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bobonovski/goalign/align"
	"github.com/bobonovski/goalign/corpus"
	"github.com/bobonovski/goalign/sstable"
)

func newRootCommand() *cobra.Command {
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "goalign [flags] (-i file | -i source -i target)",
		Short: "Efficient Markov chain word alignment",
		Long: "goalign aligns the words of a parallel corpus with a Bayesian IBM model\n" +
			"fit by collapsed Gibbs sampling. Input is either one file with\n" +
			"\"source ||| target\" lines or two line-parallel files.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				v.SetConfigFile(cfgFile)
				if err := v.ReadInConfig(); err != nil {
					return err
				}
			}
			return run(cmd.Context(), v, args, cmd.OutOrStdout())
		},
	}

	defaults := align.DefaultConfig()
	flags := cmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "config file (yaml, toml or json) with flag values")
	flags.StringSliceP("input", "i", nil, "input: one fast_align-format file, or two Europarl-style files")
	flags.BoolP("reverse", "r", false, "align in the reverse direction")
	flags.Bool("no-lower-case", false, "do not lower-case data")
	flags.Float64("null-prior", defaults.NullPrior, "prior probability of NULL alignment")
	flags.Float64("lexical-alpha", defaults.LexAlpha, "Dirichlet prior parameter for lexical distributions")
	flags.Float64("null-alpha", defaults.NullAlpha, "Dirichlet prior parameter for NULL word distribution")
	flags.Int64("seed", -1, "random seed (negative draws one)")
	flags.IntP("samplers", "n", defaults.Samplers, "number of independent samplers")
	flags.IntP("model", "m", defaults.Model, "model (1 = IBM1, 2 = IBM1+HMM, 3 = IBM1+HMM+fertility)")
	flags.Int("prefix", 0, "length of prefix for stemming (default: no stemming)")
	flags.Int("suffix", 0, "length of suffix for stemming (default: no stemming)")
	flags.Float64P("length", "l", defaults.Length, "relative number of sampling iterations")
	flags.Int("sweeps", 0, "base number of sweeps (default: derived from corpus size)")
	flags.String("output-prob", "", "file to write probability tables to")
	flags.StringP("output", "o", "", "file to write alignments to (default: stdout)")

	// glog's flags, -v alone turns on verbose output
	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	if vf := cmd.PersistentFlags().Lookup("v"); vf != nil {
		vf.NoOptDefVal = "1"
	}

	v.SetEnvPrefix("GOALIGN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		panic(err)
	}
	return cmd
}

func run(ctx context.Context, v *viper.Viper, args []string, stdout io.Writer) error {
	inputs := append(v.GetStringSlice("input"), args...)
	if len(inputs) != 1 && len(inputs) != 2 {
		return fmt.Errorf("only one or two input files allowed, got %d", len(inputs))
	}

	seed := v.GetInt64("seed")
	if seed < 0 {
		seed = rand.Int64N(0x7ffffff)
	}

	cfg := align.Config{
		NullPrior:  v.GetFloat64("null-prior"),
		LexAlpha:   v.GetFloat64("lexical-alpha"),
		NullAlpha:  v.GetFloat64("null-alpha"),
		Model:      v.GetInt("model"),
		Samplers:   v.GetInt("samplers"),
		Length:     v.GetFloat64("length"),
		Sweeps:     v.GetInt("sweeps"),
		Seed:       uint64(seed),
		Reverse:    v.GetBool("reverse"),
		Discretize: v.GetString("output-prob") == "",
	}
	log.V(1).Infof("config %+v, inputs %v", cfg, inputs)
	if err := cfg.Validate(); err != nil {
		return err
	}
	log.Infof("random seed %d", seed)

	data, err := corpus.Load(inputs, corpus.Options{
		Lower:  !v.GetBool("no-lower-case"),
		Prefix: v.GetInt("prefix"),
		Suffix: v.GetInt("suffix"),
	})
	if err != nil {
		return err
	}

	res, err := align.Align(ctx, data, cfg)
	if err != nil {
		return err
	}

	if !cfg.Discretize {
		log.Infof("writing probability tables to %s", v.GetString("output-prob"))
		return sstable.SaveProbTable(v.GetString("output-prob"), res.Table)
	}
	log.Info("writing alignments")
	out := stdout
	if fn := v.GetString("output"); fn != "" {
		f, err := os.Create(fn)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return sstable.WriteAlignments(out, res.Alignments, res.Reversed)
}

func main() {
	// log to stderr by default
	flag.Set("logtostderr", "true")
	flag.CommandLine.Parse(nil)
	defer log.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		log.Errorf("%v", err)
		log.Flush()
		os.Exit(1)
	}
}
