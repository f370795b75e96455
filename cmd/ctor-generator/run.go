package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"ctor-factory/internal/analyze"
	"ctor-factory/internal/diagnostic"
	"ctor-factory/internal/gen"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := loadConfig(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}

		fmt.Fprintln(stderr, "ctor-generator:", err)

		return exitUsage
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat, stderr)

	if err := generate(cfg, logger, stdout); err != nil {
		logger.Error("generation failed", "error", err)
		return exitFailure
	}

	return exitOK
}

func generate(cfg *config, logger *slog.Logger, stdout io.Writer) error {
	analyzer := analyze.NewAnalyzer()
	analyzer.Dir = cfg.Dir

	logger.Debug("loading packages", "patterns", cfg.Patterns)

	graph, err := analyzer.LoadPackages(cfg.Patterns...)
	if err != nil {
		return err
	}

	generator := gen.NewGenerator(gen.GeneratorConfig{
		OutputDir:  cfg.Output,
		FileSuffix: cfg.Suffix,
	})

	files, diags, err := generator.Generate(graph)
	logDiagnostics(logger, diags)

	if err != nil {
		return err
	}

	if err := diags.Error(); err != nil {
		return err
	}

	if cfg.DryRun {
		for _, f := range files {
			fmt.Fprintf(stdout, "// === %s ===\n%s\n", filepath.Join(f.Dir, f.Filename), f.Content)
		}

		return nil
	}

	if err := gen.WriteFiles(files, cfg.Output); err != nil {
		return err
	}

	for _, f := range files {
		logger.Info("wrote descriptors", "file", filepath.Join(f.Dir, f.Filename))
	}

	return nil
}

func logDiagnostics(logger *slog.Logger, diags diagnostic.Diagnostics) {
	for _, d := range diags.All() {
		attrs := []any{"code", d.Code}
		if d.Target != "" {
			attrs = append(attrs, "target", d.Target)
		}

		if d.Position != "" {
			attrs = append(attrs, "pos", d.Position)
		}

		switch d.Severity {
		case diagnostic.DiagnosticError:
			logger.Error(d.Message, attrs...)
		case diagnostic.DiagnosticWarning:
			logger.Warn(d.Message, attrs...)
		default:
			logger.Debug(d.Message, attrs...)
		}
	}
}
