package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/joeshaw/envdecode"
)

// config holds the generator settings. Environment variables provide the
// defaults and flags override them.
type config struct {
	LogLevel  string `env:"CTORGEN_LOG_LEVEL,default=info"`
	LogFormat string `env:"CTORGEN_LOG_FORMAT,default=text"`
	Output    string `env:"CTORGEN_OUTPUT"`
	Suffix    string `env:"CTORGEN_SUFFIX,default=_ctor_gen.go"`
	Dir       string
	DryRun    bool
	Patterns  []string
}

var errNoPatterns = errors.New("no package patterns given")

func loadConfig(args []string, stderr io.Writer) (*config, error) {
	cfg := &config{}
	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	fs := flag.NewFlagSet("ctor-generator", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (text, json)")
	fs.StringVar(&cfg.Output, "output", cfg.Output, "write generated files to this directory instead of the package directories")
	fs.StringVar(&cfg.Suffix, "suffix", cfg.Suffix, "generated file name suffix")
	fs.StringVar(&cfg.Dir, "C", "", "run package loading in this directory")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "print generated files instead of writing them")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: ctor-generator [flags] <package patterns>")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.Patterns = fs.Args()
	if len(cfg.Patterns) == 0 {
		fs.Usage()
		return nil, errNoPatterns
	}

	return cfg, nil
}
