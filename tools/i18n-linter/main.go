// Copyright (c) 2026 Softwhere Team
// Softwhere - software license inventory
// This source code is licensed under the MIT license found in the LICENSE file.

// i18n-linter checks the translation files against the source tree. It
// reports message IDs passed to i18n.T that the primary locale lacks, keys
// missing from the other locales, and primary keys nothing refers to.
//
// Run it from the repository root:
//
//	go run ./tools/i18n-linter
package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	localesDir    = "internal/i18n/locales"
	primaryLocale = "en.yaml"
)

var (
	// i18n.T("menu.exit") and i18n.T("error." + kind)
	callRe = regexp.MustCompile(`i18n\.T\("([^"]+)"`)
	// IDs held in tables, e.g. {"menu.register", ...}
	literalRe = regexp.MustCompile(`"([a-z_]+\.[a-z_.]+)"`)
)

// usage collects the message IDs a source tree refers to.
type usage struct {
	calls    map[string]struct{}
	literals map[string]struct{}
	// prefixes come from calls whose ID is completed at run time.
	prefixes []string
}

func (u usage) refers(key string) bool {
	if _, ok := u.calls[key]; ok {
		return true
	}
	if _, ok := u.literals[key]; ok {
		return true
	}
	for _, p := range u.prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

// report is the outcome of one lint run.
type report struct {
	Undefined []string
	Missing   map[string][]string
	Orphaned  []string
}

func (r report) failed() bool {
	if len(r.Undefined) > 0 {
		return true
	}
	for _, keys := range r.Missing {
		if len(keys) > 0 {
			return true
		}
	}
	return false
}

func main() {
	r, err := lint(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "i18n-linter: %v\n", err)
		os.Exit(1)
	}
	r.print(os.Stdout)
	if r.failed() {
		os.Exit(1)
	}
}

// lint compares the source tree under root with its locale files.
func lint(root string) (report, error) {
	used, err := findUsedKeys(root)
	if err != nil {
		return report{}, fmt.Errorf("scanning sources: %w", err)
	}
	dir := filepath.Join(root, localesDir)
	primary, err := loadKeysFromLocale(filepath.Join(dir, primaryLocale))
	if err != nil {
		return report{}, fmt.Errorf("loading %s: %w", primaryLocale, err)
	}

	r := report{Missing: map[string][]string{}}
	for key := range used.calls {
		if strings.HasSuffix(key, ".") {
			continue
		}
		if _, ok := primary[key]; !ok {
			r.Undefined = append(r.Undefined, key)
		}
	}
	for key := range primary {
		if !used.refers(key) {
			r.Orphaned = append(r.Orphaned, key)
		}
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return report{}, err
	}
	for _, file := range files {
		name := filepath.Base(file)
		if name == primaryLocale {
			continue
		}
		other, err := loadKeysFromLocale(file)
		if err != nil {
			return report{}, fmt.Errorf("loading %s: %w", name, err)
		}
		missing := []string{}
		for key := range primary {
			if _, ok := other[key]; !ok {
				missing = append(missing, key)
			}
		}
		sort.Strings(missing)
		r.Missing[name] = missing
	}
	sort.Strings(r.Undefined)
	sort.Strings(r.Orphaned)
	return r, nil
}

func (r report) print(w io.Writer) {
	section := func(title string, keys []string) {
		fmt.Fprintf(w, "--- %s ---\n", title)
		if len(keys) == 0 {
			fmt.Fprintln(w, "  none")
		}
		for _, k := range keys {
			fmt.Fprintf(w, "  - %s\n", k)
		}
	}
	section("Used in code but not in "+primaryLocale, r.Undefined)

	names := make([]string, 0, len(r.Missing))
	for name := range r.Missing {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		section("Missing from "+name, r.Missing[name])
	}
	section("Orphaned (not referenced anywhere)", r.Orphaned)

	if r.failed() {
		fmt.Fprintln(w, "translation files need attention")
	} else {
		fmt.Fprintln(w, "translation files are consistent")
	}
}

// findUsedKeys scans the non-test Go files under root. Directories starting
// with "_" or "." and the tools directory are skipped.
func findUsedKeys(root string) (usage, error) {
	u := usage{calls: map[string]struct{}{}, literals: map[string]struct{}{}}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (name == "tools" || strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for _, m := range callRe.FindAllStringSubmatch(string(content), -1) {
			u.calls[m[1]] = struct{}{}
			if strings.HasSuffix(m[1], ".") {
				u.prefixes = append(u.prefixes, m[1])
			}
		}
		for _, m := range literalRe.FindAllStringSubmatch(string(content), -1) {
			u.literals[m[1]] = struct{}{}
		}
		return nil
	})
	return u, err
}

// loadKeysFromLocale reads a YAML file and returns a flat set of its keys.
func loadKeysFromLocale(path string) (map[string]struct{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data map[string]interface{}
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, err
	}
	keys := make(map[string]struct{})
	flattenYAML("", data, keys)
	return keys, nil
}

// flattenYAML joins nested map keys with dots. Flat dotted keys pass through
// unchanged.
func flattenYAML(prefix string, node interface{}, keys map[string]struct{}) {
	switch v := node.(type) {
	case map[string]interface{}:
		for k, val := range v {
			next := k
			if prefix != "" {
				next = prefix + "." + k
			}
			flattenYAML(next, val, keys)
		}
	default:
		if prefix != "" {
			keys[prefix] = struct{}{}
		}
	}
}
