// Package preprocess implements the textual #include/#define pass that
// runs ahead of lang/scanner, per spec.md §6's "a preprocessor supports
// #include "path" via a host-supplied file-open callback and #define
// NAME value macro substitution" wording.
//
// There is no teacher or pack analogue for a macro preprocessor (see
// DESIGN.md); the plain-function, line-oriented style follows the rest
// of this repo's hand-written lexer/parser packages.
package preprocess

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

// FileOpener resolves an #include "path" directive to the included
// file's contents via the host's own file-loading mechanism; this
// package has no filesystem access of its own.
type FileOpener func(path string) ([]byte, error)

// Process inlines every #include directive (recursively, through
// opener) and substitutes every #define'd macro name with its value,
// producing a single flattened buffer lang/scanner can tokenize
// directly. name identifies src in error messages and include cycles.
func Process(src []byte, name string, opener FileOpener) ([]byte, error) {
	var out bytes.Buffer
	if err := expandIncludes(&out, src, name, opener, map[string]bool{name: true}); err != nil {
		return nil, err
	}
	return substituteDefines(out.Bytes()), nil
}

func expandIncludes(out *bytes.Buffer, src []byte, name string, opener FileOpener, active map[string]bool) error {
	sc := bufio.NewScanner(bytes.NewReader(src))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Text()
		path, ok := includeDirective(line)
		if !ok {
			out.WriteString(line)
			out.WriteByte('\n')
			continue
		}
		if active[path] {
			return fmt.Errorf("preprocess: %s: include cycle on %q", name, path)
		}
		if opener == nil {
			return fmt.Errorf("preprocess: %s: #include %q with no FileOpener configured", name, path)
		}
		included, err := opener(path)
		if err != nil {
			return fmt.Errorf("preprocess: %s: #include %q: %w", name, path, err)
		}
		active[path] = true
		if err := expandIncludes(out, included, path, opener, active); err != nil {
			return err
		}
		delete(active, path)
	}
	return sc.Err()
}

var includeRe = regexp.MustCompile(`^\s*#include\s*"([^"]+)"\s*$`)

func includeDirective(line string) (path string, ok bool) {
	m := includeRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

var defineRe = regexp.MustCompile(`^\s*#define\s+([A-Za-z_][A-Za-z0-9_]*)\s+(.*?)\s*$`)

// substituteDefines scans src line by line, collecting #define NAME value
// directives (dropping the directive line itself) and replacing every
// whole-word occurrence of NAME elsewhere in the file with value. Macros
// are substituted in declaration order, so a later #define may reference
// an earlier one's already-substituted value.
func substituteDefines(src []byte) []byte {
	lines := strings.Split(string(src), "\n")
	var macros []string
	values := map[string]string{}

	var body []string
	for _, line := range lines {
		if m := defineRe.FindStringSubmatch(line); m != nil {
			name, value := m[1], m[2]
			values[name] = expandMacros(value, macros, values)
			macros = append(macros, name)
			continue
		}
		body = append(body, line)
	}

	out := strings.Join(body, "\n")
	return []byte(expandMacros(out, macros, values))
}

func expandMacros(s string, macros []string, values map[string]string) string {
	for _, name := range macros {
		s = wordRe(name).ReplaceAllString(s, values[name])
	}
	return s
}

func wordRe(name string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
}
