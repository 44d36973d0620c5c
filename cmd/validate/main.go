// Command validate checks a pair of emitted index files for the guarantees
// consumers rely on: both files decode to the same records, records are
// sorted by (state, name), site_no is unique, coordinates are finite, and
// every state is one of the 48 contiguous states.
//
// Usage:
//
//	go run ./cmd/validate -dir ./out
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/google/go-cmp/cmp"

	"github.com/couchcryptid/usgs-station-index/internal/adapter/jsonfile"
	"github.com/couchcryptid/usgs-station-index/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dir := flag.String("dir", ".", "directory containing stations.json and stations.min.json")
	flag.Parse()

	if code := run(*dir); code != 0 {
		os.Exit(code)
	}
}

func run(dir string) int {
	fmt.Println("=== Station Index Validation ===")
	fmt.Println()

	prettyRaw, err := os.ReadFile(filepath.Join(dir, jsonfile.PrettyFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}
	minRaw, err := os.ReadFile(filepath.Join(dir, jsonfile.MinifiedFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	phases, count := validate(prettyRaw, minRaw)

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d\n", count)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// validate runs every phase over the raw file contents and returns the
// phases and the number of records in the pretty file.
func validate(prettyRaw, minRaw []byte) ([]*phase, int) {
	decode := &phase{name: "Phase 1: Decoding"}
	var pretty, minified []domain.StationRecord
	if err := json.Unmarshal(prettyRaw, &pretty); err != nil {
		decode.errorf("%s: %v", jsonfile.PrettyFile, err)
	}
	if err := json.Unmarshal(minRaw, &minified); err != nil {
		decode.errorf("%s: %v", jsonfile.MinifiedFile, err)
	}
	if !decode.passed() {
		return []*phase{decode}, 0
	}

	return []*phase{
		decode,
		validateEquivalence(pretty, minified, minRaw),
		validateOrdering(pretty),
		validateRecords(pretty),
	}, len(pretty)
}

// ── Phase 2: Equivalence ──

func validateEquivalence(pretty, minified []domain.StationRecord, minRaw []byte) *phase {
	p := &phase{name: "Phase 2: Pretty/minified equivalence"}
	if diff := cmp.Diff(pretty, minified); diff != "" {
		p.errorf("records differ (-pretty +minified):\n%s", diff)
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, minRaw); err != nil {
		p.errorf("compact minified: %v", err)
	} else if !bytes.Equal(compact.Bytes(), minRaw) {
		p.errorf("%s contains insignificant whitespace", jsonfile.MinifiedFile)
	}
	return p
}

// ── Phase 3: Ordering ──

func validateOrdering(records []domain.StationRecord) *phase {
	p := &phase{name: "Phase 3: Ordering by (state, name)"}
	for i := 1; i < len(records); i++ {
		prev, cur := records[i-1], records[i]
		if prev.State > cur.State || (prev.State == cur.State && prev.Name > cur.Name) {
			p.errorf("record %d (%s %q) sorts before record %d (%s %q)",
				i, cur.State, cur.Name, i-1, prev.State, prev.Name)
		}
	}
	return p
}

// ── Phase 4: Record integrity ──

func validateRecords(records []domain.StationRecord) *phase {
	p := &phase{name: "Phase 4: Record integrity"}
	seen := make(map[string]int, len(records))
	for i, r := range records {
		if r.SiteNo == "" {
			p.errorf("record %d: empty site_no", i)
		} else if j, dup := seen[r.SiteNo]; dup {
			p.errorf("record %d: site_no %s duplicates record %d", i, r.SiteNo, j)
		} else {
			seen[r.SiteNo] = i
		}
		if r.Name == "" {
			p.errorf("record %d (%s): empty name", i, r.SiteNo)
		}
		if !domain.IsKnownState(r.State) {
			p.errorf("record %d (%s): unknown state %q", i, r.SiteNo, r.State)
		}
		if math.IsNaN(r.Lat) || math.IsInf(r.Lat, 0) || math.IsNaN(r.Lon) || math.IsInf(r.Lon, 0) {
			p.errorf("record %d (%s): non-finite coordinates", i, r.SiteNo)
		}
	}
	return p
}
