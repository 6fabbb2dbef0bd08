// Package seeds loads the list of start URLs and selects which of them a
// run processes.
package seeds

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const UnknownCarrier = "Unknown Carrier"

type Seed struct {
	// Index is the 1-based position in the seed list.
	Index   int
	URL     string
	Carrier string
}

func Load(path string) ([]Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("seeds: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	return Parse(f)
}

// Parse reads one URL per line. Blank lines and lines starting with '#' are
// skipped.
func Parse(r io.Reader) ([]Seed, error) {
	var urls []string

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("seeds: %w", err)
	}

	return New(urls...), nil
}

func New(urls ...string) []Seed {
	out := make([]Seed, 0, len(urls))
	for i, u := range urls {
		out = append(out, Seed{Index: i + 1, URL: u, Carrier: CarrierFromURL(u)})
	}

	return out
}

var titleCase = cases.Title(language.English)

// CarrierFromURL names the carrier after the second to last path segment:
// "https://host/acme_mutual/policies" gives "Acme Mutual".
func CarrierFromURL(u string) string {
	parts := strings.Split(u, "/")
	if len(parts) <= 2 {
		return UnknownCarrier
	}

	slug := strings.TrimSpace(strings.ReplaceAll(parts[len(parts)-2], "_", " "))
	if slug == "" {
		return UnknownCarrier
	}

	return titleCase.String(slug)
}

// FileName is the per-seed output file name.
func (s Seed) FileName() string {
	name := sanitize(s.Carrier)
	if name == "" {
		name = "seed"
	}

	return fmt.Sprintf("%03d_%s.json", s.Index, name)
}

var reUnderscore = regexp.MustCompile(`_+`)

func sanitize(s string) string {
	s = strings.ToLower(s)

	repl := []string{
		"-", "_",
		"/", "_",
		"\\", "_",
		".", "_",
		" ", "_",
		"(", "",
		")", "",
	}
	for i := 0; i < len(repl); i += 2 {
		s = strings.ReplaceAll(s, repl[i], repl[i+1])
	}

	clean := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			clean = append(clean, r)
		}
	}
	s = reUnderscore.ReplaceAllString(string(clean), "_")

	return strings.Trim(s, "_")
}
