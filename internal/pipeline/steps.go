package pipeline

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/steamcarve/steamcarve/internal/model"
	"github.com/steamcarve/steamcarve/internal/normalize"
)

// LoadStep reads the raw record stream from the dataset's source path.
// The reader is header-keyed: columns are found by (trimmed) name, extra
// columns are ignored, and missing columns read as empty strings. Offsets
// may arrive hex-prefixed or as plain integers.
type LoadStep struct{}

// Name returns the step name.
func (s *LoadStep) Name() string { return "load" }

// Do reads the source CSV into the dataset.
func (s *LoadStep) Do(_ context.Context, d *Dataset) error {
	f, err := os.Open(d.Source) //nolint:gosec // Operator-provided input path
	if err != nil {
		return fmt.Errorf("failed to open raw dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read raw dataset: %w", err)
		}
		d.Raw = append(d.Raw, model.RawRecord{
			Kind:    field(row, "kind"),
			Offset:  field(row, "offset"),
			Preview: field(row, "preview"),
			SteamID: field(row, "steamid"),
			UnixTs:  field(row, "unix_ts"),
			Message: field(row, "message"),
			Value:   field(row, "value"),
		})
	}
	return nil
}

// FilterStep keeps only reportable kinds and drops records with no
// payload: when both message and value are empty, the record survives
// only if its preview is at least 8 characters. A sufficiently long
// preview is still informative without a structured field.
type FilterStep struct{}

// Name returns the step name.
func (s *FilterStep) Name() string { return "filter" }

// Do populates the cleaned set from the raw records, in input order.
func (s *FilterStep) Do(_ context.Context, d *Dataset) error {
	for _, raw := range d.Raw {
		kind := model.ParseKind(raw.Kind)
		if !kind.Reportable() {
			continue
		}
		if raw.Message == "" && raw.Value == "" &&
			utf8.RuneCountInString(raw.Preview) < 8 {
			continue
		}
		d.Cleaned = append(d.Cleaned, &model.CleanedRecord{
			Kind:    kind.String(),
			UnixTs:  raw.UnixTs,
			Offset:  raw.Offset,
			SteamID: raw.SteamID,
			Message: raw.Message,
			Value:   raw.Value,
			Preview: raw.Preview,
		})
	}
	return nil
}

// CanonicalizeStep fills the derived columns: the fixed UTC timestamp from
// unix_ts, the canonical hex offset, and the lower-cased URL domain for
// url records. All three are best-effort; malformed input normalizes to
// an empty string or passes through, never errors.
type CanonicalizeStep struct{}

// Name returns the step name.
func (s *CanonicalizeStep) Name() string { return "canonicalize" }

// Do canonicalizes every cleaned record in place.
func (s *CanonicalizeStep) Do(_ context.Context, d *Dataset) error {
	for _, rec := range d.Cleaned {
		rec.Timestamp = normalize.Timestamp(rec.UnixTs)
		rec.Offset = normalize.HexOffset(rec.Offset)
		if rec.Kind == model.KindURL.String() {
			rec.Domain = normalize.Domain(rec.Value)
		} else {
			rec.Domain = ""
		}
	}
	return nil
}

// DedupStep collapses records sharing the same (kind, steamid, message,
// value) payload. The first occurrence in input order wins; the dedup runs
// before sorting, so "first" means first carved, not first chronologically.
type DedupStep struct{}

// Name returns the step name.
func (s *DedupStep) Name() string { return "dedup" }

// Do removes duplicate records, keeping input order.
func (s *DedupStep) Do(_ context.Context, d *Dataset) error {
	seen := make(map[string]bool, len(d.Cleaned))
	kept := d.Cleaned[:0]
	for _, rec := range d.Cleaned {
		key := normalize.DedupKey(rec.Kind, rec.SteamID, rec.Message, rec.Value)
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, rec)
	}
	d.Cleaned = kept
	return nil
}

// SortStep orders the cleaned set ascending by (timestamp, kind, offset).
// The offset compares as a string, not numerically: lexicographic offset
// ordering is an observable behavior of the original tool, preserved
// intentionally.
type SortStep struct{}

// Name returns the step name.
func (s *SortStep) Name() string { return "sort" }

// Do sorts the cleaned set into final output order.
func (s *SortStep) Do(_ context.Context, d *Dataset) error {
	sort.SliceStable(d.Cleaned, func(i, j int) bool {
		a, b := d.Cleaned[i], d.Cleaned[j]
		if a.Timestamp != b.Timestamp {
			return a.Timestamp < b.Timestamp
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Offset < b.Offset
	})
	return nil
}

// AggregateStep computes the findings summary from the cleaned, sorted
// set: top domains by descending count, first sighting per distinct
// SteamID, and up to 100 sampled chat lines.
type AggregateStep struct{}

// Name returns the step name.
func (s *AggregateStep) Name() string { return "aggregate" }

// Do populates d.Findings.
func (s *AggregateStep) Do(_ context.Context, d *Dataset) error {
	findings := &model.FindingsSummary{}

	domainCounts := make(map[string]int)
	var domainOrder []string
	steamIDs := make(map[string]bool)
	var chats []model.ChatSample

	for _, rec := range d.Cleaned {
		switch rec.Kind {
		case model.KindURL.String():
			if rec.Domain != "" {
				if _, ok := domainCounts[rec.Domain]; !ok {
					domainOrder = append(domainOrder, rec.Domain)
				}
				domainCounts[rec.Domain]++
			}
		case model.KindSteamID.String():
			if rec.SteamID != "" && !steamIDs[rec.SteamID] {
				steamIDs[rec.SteamID] = true
				findings.SteamIDs = append(findings.SteamIDs, model.SteamIDSighting{
					SteamID:   rec.SteamID,
					FirstSeen: rec.Timestamp,
					Offset:    rec.Offset,
				})
			}
		case model.KindChat.String():
			if rec.Message != "" {
				chats = append(chats, model.ChatSample{
					Timestamp: rec.Timestamp,
					Message:   rec.Message,
					Offset:    rec.Offset,
				})
			}
		}
	}

	// Equal-count domains keep first-seen order: the stable sort only
	// reorders by count.
	for _, domain := range domainOrder {
		findings.TopDomains = append(findings.TopDomains, model.DomainCount{
			Domain: domain,
			Count:  domainCounts[domain],
		})
	}
	sort.SliceStable(findings.TopDomains, func(i, j int) bool {
		return findings.TopDomains[i].Count > findings.TopDomains[j].Count
	})
	if len(findings.TopDomains) > model.MaxTopDomains {
		findings.TopDomains = findings.TopDomains[:model.MaxTopDomains]
	}

	sort.SliceStable(findings.SteamIDs, func(i, j int) bool {
		a, b := findings.SteamIDs[i], findings.SteamIDs[j]
		if a.FirstSeen != b.FirstSeen {
			return a.FirstSeen < b.FirstSeen
		}
		return a.SteamID < b.SteamID
	})

	sort.SliceStable(chats, func(i, j int) bool {
		a, b := chats[i], chats[j]
		if a.Timestamp != b.Timestamp {
			return a.Timestamp < b.Timestamp
		}
		return a.Offset < b.Offset
	})
	if len(chats) > model.MaxChatSamples {
		chats = chats[:model.MaxChatSamples]
	}
	findings.ChatSamples = chats

	d.Findings = findings
	return nil
}
