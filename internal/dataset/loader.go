// Package dataset loads the read-only reference tables: the drug-name to
// canonical-identifier mapping and the pairwise interaction table. Both are
// loaded once at process start and are safe for unsynchronized concurrent
// reads. A missing or empty source degrades to empty tables rather than
// failing startup.
package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// InteractionRecord is one pairwise interaction from the dataset
type InteractionRecord struct {
	DrugA       string
	DrugB       string
	Severity    string
	Description string
}

type pairKey struct {
	a, b string
}

// Tables holds the immutable reference data
type Tables struct {
	// mappingOrder preserves file order so fuzzy matching is
	// first-match deterministic, matching the dataset contract
	mappingOrder []string
	mapping      map[string]string // normalized name -> canonical id
	interactions map[pairKey]InteractionRecord
}

// Load reads the mapping JSON and interaction CSV. Missing files are logged
// and degrade to empty tables; only malformed content is an error.
func Load(mappingPath, interactionsPath string, logger *slog.Logger) (*Tables, error) {
	if logger == nil {
		logger = slog.Default()
	}

	t := &Tables{
		mapping:      make(map[string]string),
		interactions: make(map[pairKey]InteractionRecord),
	}

	if err := t.loadMapping(mappingPath, logger); err != nil {
		return nil, fmt.Errorf("load drug mapping: %w", err)
	}
	if err := t.loadInteractions(interactionsPath, logger); err != nil {
		return nil, fmt.Errorf("load interactions: %w", err)
	}

	logger.Info("reference tables loaded",
		"mapped_drugs", len(t.mappingOrder),
		"interactions", len(t.interactions))

	return t, nil
}

// Empty returns tables with no data. Resolution falls back to sentinels and
// interaction lookups return no hits.
func Empty() *Tables {
	return &Tables{
		mapping:      make(map[string]string),
		interactions: make(map[pairKey]InteractionRecord),
	}
}

func (t *Tables) loadMapping(path string, logger *slog.Logger) error {
	if path == "" {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		logger.Warn("drug mapping not found, resolution degrades to sentinels", "path", path, "error", err)
		return nil
	}
	defer f.Close()

	// Decode token-by-token to preserve the file's key order; a plain
	// map[string]string would randomize fuzzy-match iteration order.
	dec := json.NewDecoder(f)

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("read opening token: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("read key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected string key, got %v", keyTok)
		}

		var id string
		if err := dec.Decode(&id); err != nil {
			return fmt.Errorf("read value for %q: %w", key, err)
		}

		norm := strings.ToLower(strings.TrimSpace(key))
		if _, exists := t.mapping[norm]; !exists {
			t.mappingOrder = append(t.mappingOrder, norm)
		}
		t.mapping[norm] = id
	}

	return nil
}

func (t *Tables) loadInteractions(path string, logger *slog.Logger) error {
	if path == "" {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		logger.Warn("interaction table not found, lookups will return no hits", "path", path, "error", err)
		return nil
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"drug1_drugbank_id", "drug2_drugbank_id", "severity", "description"} {
		if _, ok := col[required]; !ok {
			return fmt.Errorf("missing column %q", required)
		}
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Warn("skipping malformed interaction row", "error", err)
			continue
		}

		rec := InteractionRecord{
			DrugA:       strings.TrimSpace(row[col["drug1_drugbank_id"]]),
			DrugB:       strings.TrimSpace(row[col["drug2_drugbank_id"]]),
			Severity:    strings.TrimSpace(row[col["severity"]]),
			Description: strings.TrimSpace(row[col["description"]]),
		}
		if rec.DrugA == "" || rec.DrugB == "" {
			continue
		}

		key := pairKey{a: rec.DrugA, b: rec.DrugB}
		if _, exists := t.interactions[key]; !exists {
			t.interactions[key] = rec
		}
	}

	return nil
}

// Lookup returns the interaction record for a pair of canonical identifiers,
// checking both orderings. The second return reports whether a record exists.
func (t *Tables) Lookup(idA, idB string) (InteractionRecord, bool) {
	if rec, ok := t.interactions[pairKey{a: idA, b: idB}]; ok {
		return rec, true
	}
	if rec, ok := t.interactions[pairKey{a: idB, b: idA}]; ok {
		return rec, true
	}
	return InteractionRecord{}, false
}

// MappedNames returns the known drug names in dataset order
func (t *Tables) MappedNames() []string {
	names := make([]string, len(t.mappingOrder))
	copy(names, t.mappingOrder)
	return names
}

// Size reports table sizes for diagnostics
func (t *Tables) Size() (mapped int, interactions int) {
	return len(t.mappingOrder), len(t.interactions)
}
