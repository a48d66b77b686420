package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wondersell/seller-stats/tools/dashgen/dashboards"
	"github.com/wondersell/seller-stats/tools/dashgen/rules"
	"github.com/wondersell/seller-stats/tools/dashgen/validate"
)

const generatedHeader = "# Code generated by tools/dashgen. DO NOT EDIT.\n"

// artifact is one generated file, relative to the output directory.
type artifact struct {
	path string
	data []byte
}

func main() {
	validateOnly := flag.Bool("validate", false, "validate generated artifacts without writing files")
	outputDir := flag.String("output", "", "override output directory")
	noDashboard := flag.Bool("no-dashboard", false, "skip the Grafana dashboard")
	noRules := flag.Bool("no-rules", false, "skip the PrometheusRule files")
	flag.Parse()

	cfg := DefaultConfig()
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	cfg.DashboardEnabled = !*noDashboard
	cfg.RulesEnabled = !*noRules

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, *validateOnly, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg Config, validateOnly bool, out io.Writer) error {
	artifacts, warnings, err := generate(cfg)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}

	if validateOnly {
		fmt.Fprintln(out, "validation passed")
		return nil
	}

	for _, a := range artifacts {
		path := filepath.Join(cfg.OutputDir, a.path)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", a.path, err)
		}
		if err := os.WriteFile(path, a.data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", a.path, err)
		}
		fmt.Fprintf(out, "dashgen: wrote %s\n", path)
	}
	return nil
}

// generate builds and validates every enabled artifact. Validation errors
// fail generation; warnings are returned for the caller to print.
func generate(cfg Config) ([]artifact, []string, error) {
	var (
		artifacts []artifact
		warnings  []string
		errs      []error
	)

	if cfg.DashboardEnabled {
		dash, err := dashboards.BuildOverview().Build()
		if err != nil {
			return nil, nil, fmt.Errorf("building overview dashboard: %w", err)
		}
		result := validate.Dashboard(dash, KnownMetrics)
		errs = append(errs, resultErrors("dashboard", result)...)
		warnings = append(warnings, result.Warnings...)

		data, err := json.MarshalIndent(dash, "", "  ")
		if err != nil {
			return nil, nil, fmt.Errorf("marshaling dashboard: %w", err)
		}
		artifacts = append(artifacts, artifact{
			path: filepath.Join("grafana", "data", dashboards.OverviewUID+".json"),
			data: append(data, '\n'),
		})
	}

	if cfg.RulesEnabled {
		for _, cr := range []rules.PrometheusRule{rules.RecordingRules(), rules.AlertRules()} {
			result := validate.Rules(cr, KnownMetrics)
			errs = append(errs, resultErrors(cr.Metadata.Name, result)...)
			warnings = append(warnings, result.Warnings...)

			data, err := yaml.Marshal(cr)
			if err != nil {
				return nil, nil, fmt.Errorf("marshaling %s: %w", cr.Metadata.Name, err)
			}
			artifacts = append(artifacts, artifact{
				path: filepath.Join("prometheus", cr.Metadata.Name+".yaml"),
				data: append([]byte(generatedHeader), data...),
			})
		}
	}

	if len(errs) > 0 {
		return nil, warnings, errors.Join(errs...)
	}
	return artifacts, warnings, nil
}

func resultErrors(name string, r validate.Result) []error {
	if r.Ok() {
		return nil
	}
	return []error{fmt.Errorf("%s: %s", name, strings.Join(r.Errors, "; "))}
}
