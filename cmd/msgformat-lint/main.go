package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-msgformat"
)

type lintConfig struct {
	paths   []string
	verbose bool
}

func main() {
	cfg, err := parseFlags()
	if err != nil {
		reportError(err)
	}

	if err := run(cfg); err != nil {
		reportError(err)
	}
}

func reportError(err error) {
	fmt.Fprintf(os.Stderr, "msgformat-lint: %v\n", err)
	os.Exit(1)
}

func parseFlags() (lintConfig, error) {
	var cfg lintConfig

	flag.BoolVar(&cfg.verbose, "v", false, "report every checked pattern, not just failures")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: msgformat-lint [-v] catalog.yaml [catalog.yaml ...]")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg.paths = flag.Args()
	if len(cfg.paths) == 0 {
		return lintConfig{}, errors.New("at least one catalog file is required")
	}

	return cfg, nil
}

// catalog files map locale to key to pattern:
//
//	en:
//	  cart.items: "{count, plural, one {# item} other {# items}}"
type catalogFile map[string]map[string]string

func run(cfg lintConfig) error {
	failures := 0

	for _, path := range cfg.paths {
		checked, failed, err := lintFile(path, cfg.verbose)
		if err != nil {
			return err
		}
		failures += failed

		if cfg.verbose {
			fmt.Printf("%s: %d pattern(s), %d invalid\n", path, checked, failed)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d invalid pattern(s)", failures)
	}
	return nil
}

func lintFile(path string, verbose bool) (checked, failed int, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("read %s: %w", path, err)
	}

	var catalog catalogFile
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return 0, 0, fmt.Errorf("decode %s: %w", path, err)
	}

	for _, locale := range sortedKeys(catalog) {
		messages := catalog[locale]
		for _, key := range sortedKeys(messages) {
			checked++
			if _, err := msgformat.Compile(messages[key], locale); err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "%s: %s/%s: %v\n", path, locale, key, err)
				continue
			}
			if verbose {
				fmt.Printf("%s: %s/%s: ok\n", path, locale, key)
			}
		}
	}

	return checked, failed, nil
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
