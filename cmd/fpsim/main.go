// Command fpsim computes the pairwise Tversky similarity matrix of one or two
// molecular fingerprint files.
package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/kydenul/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/pflag"

	"github.com/kydenul/fpsim"
)

func main() {
	var (
		mdPath     string
		ndPath     string
		outPath    string
		named      bool
		configPath string
		logConfig  string
	)

	cfg := fpsim.DefaultConfig()

	pflag.StringVarP(&mdPath, "MD", "i", "", "fingerprint matrix M (required)")
	pflag.StringVar(&ndPath, "ND", "", "fingerprint matrix N (defaults to --MD, self-similarity)")
	pflag.StringVarP(&outPath, "MN", "o", "", "output path for the similarity matrix (required)")
	pflag.BoolVar(&named, "named", false, "inputs carry row/column labels, attach them to the output")
	pflag.StringVarP(&cfg.Delimiter, "delimiter", "d", cfg.Delimiter, "cell delimiter")
	pflag.Float64Var(&cfg.Alpha, "alpha", cfg.Alpha, "Tversky alpha weight")
	pflag.Float64Var(&cfg.Beta, "beta", cfg.Beta, "Tversky beta weight")
	pflag.IntVar(&cfg.Workers, "workers", cfg.Workers, "parallel workers, 0 uses all CPUs")
	pflag.StringVar(&configPath, "config", "", "YAML configuration file")
	pflag.StringVar(&logConfig, "log-config", "", "YAML logging configuration file")
	pflag.Parse()

	if mdPath == "" || outPath == "" {
		fmt.Fprintln(os.Stderr, "fpsim: --MD and --MN are required")
		pflag.Usage()
		os.Exit(2)
	}

	cfg = mergeConfig(cfg, configPath)
	if err := fpsim.Validate(cfg); err != nil {
		fatal("invalid configuration", err)
	}

	logger := newLogger(logConfig)

	engine := fpsim.NewSimilarityEngineWithLogger(logger)
	engine.SetProgressCallback(progressCallback("Computing similarity"))

	pipe := fpsim.NewPipelineWithLogger(engine, nil, logger)
	err := pipe.RunSimilarityJob(fpsim.SimilarityJob{
		MatrixPath: mdPath,
		OtherPath:  ndPath,
		OutputPath: outPath,
		Delimiter:  cfg.Delimiter,
		Labeled:    named,
		Alpha:      cfg.Alpha,
		Beta:       cfg.Beta,
		Workers:    cfg.Workers,
	})
	if err != nil {
		fatal("similarity job failed", err)
	}
}

// mergeConfig layers the YAML file under any flags the user set explicitly
func mergeConfig(flags *fpsim.Config, configPath string) *fpsim.Config {
	if configPath == "" {
		return flags
	}

	cfg, err := fpsim.LoadFromYAML(configPath)
	if err != nil {
		fatal("loading configuration", err)
	}

	if pflag.CommandLine.Changed("delimiter") {
		cfg.Delimiter = flags.Delimiter
	}
	if pflag.CommandLine.Changed("alpha") {
		cfg.Alpha = flags.Alpha
	}
	if pflag.CommandLine.Changed("beta") {
		cfg.Beta = flags.Beta
	}
	if pflag.CommandLine.Changed("workers") {
		cfg.Workers = flags.Workers
	}
	return cfg
}

// newLogger builds the pipeline logger; without a logging config the library
// stays silent and only the progress bar reaches the terminal
func newLogger(logConfig string) fpsim.Logger {
	if logConfig == "" {
		return fpsim.DiscardLogger{}
	}

	opt, err := log.LoadFromFile(logConfig)
	if err != nil {
		fatal("loading log configuration", err)
	}
	return log.NewLog(opt)
}

// progressCallback adapts the engine's per-row progress to a terminal bar
func progressCallback(description string) fpsim.ProgressCallback {
	var mu sync.Mutex
	var bar *progressbar.ProgressBar

	return func(completed, total int) {
		mu.Lock()
		defer mu.Unlock()

		if bar == nil {
			bar = progressbar.Default(int64(total), description)
		}
		_ = bar.Set(completed)
		if completed == total {
			_ = bar.Finish()
			bar = nil
		}
	}
}

func fatal(stage string, err error) {
	fmt.Fprintf(os.Stderr, "fpsim: %s: %v\n", stage, err)
	os.Exit(1)
}
