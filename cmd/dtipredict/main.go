// Command dtipredict feeds drug/drug fingerprint similarity into the
// interaction predictor and writes the predicted drug/target pairs.
//
// The real resource-diffusion library is an external collaborator; this
// binary wires the no-op stand-in so the full pipeline runs end to end.
package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/kydenul/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/pflag"

	"github.com/kydenul/fpsim"
	"github.com/kydenul/fpsim/noop"
)

func main() {
	var (
		dtTrain    string
		ddTrain    string
		ddQuery    string
		outPath    string
		configPath string
		logConfig  string
	)

	cfg := fpsim.DefaultConfig()

	pflag.StringVar(&dtTrain, "dt-train", "", "labeled drug x target 0/1 adjacency (required)")
	pflag.StringVar(&ddTrain, "dd-train", "", "labeled training drug fingerprint matrix (required)")
	pflag.StringVar(&ddQuery, "dd-query", "", "labeled query drug fingerprint matrix (required)")
	pflag.StringVarP(&outPath, "output-file", "o", "", "output path for predicted interactions (required)")
	pflag.BoolVar(&cfg.Weighted, "weighted", cfg.Weighted, "keep similarity weights on feature edges")
	pflag.Float64VarP(&cfg.Cutoff, "cutoff", "c", cfg.Cutoff, "similarity cutoff for featurization")
	pflag.BoolVar(&cfg.GPU, "gpu", cfg.GPU, "run prediction on the GPU")
	pflag.IntVar(&cfg.GPUID, "gpu-id", cfg.GPUID, "GPU device id")
	pflag.StringVarP(&cfg.Delimiter, "delimiter", "d", cfg.Delimiter, "cell delimiter")
	pflag.Float64Var(&cfg.Alpha, "alpha", cfg.Alpha, "Tversky alpha weight")
	pflag.Float64Var(&cfg.Beta, "beta", cfg.Beta, "Tversky beta weight")
	pflag.IntVar(&cfg.Workers, "workers", cfg.Workers, "parallel workers, 0 uses all CPUs")
	pflag.StringVar(&configPath, "config", "", "YAML configuration file")
	pflag.StringVar(&logConfig, "log-config", "", "YAML logging configuration file")
	pflag.Parse()

	if dtTrain == "" || ddTrain == "" || ddQuery == "" || outPath == "" {
		fmt.Fprintln(os.Stderr, "dtipredict: --dt-train, --dd-train, --dd-query and --output-file are required")
		pflag.Usage()
		os.Exit(2)
	}

	cfg = mergeConfig(cfg, configPath)
	if err := fpsim.Validate(cfg); err != nil {
		fatal("invalid configuration", err)
	}

	logger := newLogger(logConfig)

	engine := fpsim.NewSimilarityEngineWithLogger(logger)
	engine.SetProgressCallback(progressCallback("Computing drug similarity"))

	pipe := fpsim.NewPipelineWithLogger(engine, noop.NewPredictor(), logger)
	err := pipe.RunPredictionJob(fpsim.PredictionJob{
		TrainInteractionPath: dtTrain,
		TrainFingerprintPath: ddTrain,
		QueryFingerprintPath: ddQuery,
		OutputPath:           outPath,
		Delimiter:            cfg.Delimiter,
		Cutoff:               cfg.Cutoff,
		Weighted:             cfg.Weighted,
		GPU:                  cfg.GPU,
		GPUID:                cfg.GPUID,
		Alpha:                cfg.Alpha,
		Beta:                 cfg.Beta,
		Workers:              cfg.Workers,
	})
	if err != nil {
		fatal("prediction job failed", err)
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
	if pflag.CommandLine.Changed("cutoff") {
		cfg.Cutoff = flags.Cutoff
	}
	if pflag.CommandLine.Changed("weighted") {
		cfg.Weighted = flags.Weighted
	}
	if pflag.CommandLine.Changed("gpu") {
		cfg.GPU = flags.GPU
	}
	if pflag.CommandLine.Changed("gpu-id") {
		cfg.GPUID = flags.GPUID
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

// progressCallback adapts the engine's per-row progress to a terminal bar.
// The prediction pipeline computes two similarity matrices, so a fresh bar
// starts whenever the previous one has finished.
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
	fmt.Fprintf(os.Stderr, "dtipredict: %s: %v\n", stage, err)
	os.Exit(1)
}
