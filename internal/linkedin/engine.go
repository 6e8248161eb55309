package linkedin

import (
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/gauthierbraillon/rivalfeed/internal/content"
)

const (
	// DefaultLimit is the number of posts returned when the caller asks for
	// none.
	DefaultLimit = 20
	// MaxLimit caps every request regardless of what the caller asks for.
	MaxLimit = 50
)

// ClampLimit applies the default and the hard cap.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Extract parses a company page into its profile and a deduplicated,
// newest-first list of at most limit posts. Parse failures yield an empty
// result.
func Extract(html, pageURL string, cutoff time.Time, limit int) Result {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return emptyResult()
	}
	records := parseJSONLD(doc)

	m := newMerger()
	// Cards go first so a metrics-bearing card is never displaced by a
	// metrics-free structured record for the same post.
	for _, c := range extractCards(doc, cutoff) {
		m.add(c)
	}
	for _, c := range extractPostings(records, pageURL, cutoff) {
		m.add(c)
	}

	items := m.items()
	sortCandidates(items)
	if n := ClampLimit(limit); len(items) > n {
		items = items[:n]
	}

	out := make([]content.Item, len(items))
	for i, c := range items {
		out[i] = c.item
	}
	return Result{Company: extractCompany(records, pageURL), Items: out}
}

// merger keeps one candidate per canonical key, in first-insertion order.
type merger struct {
	byKey map[string]int
	order []candidate
}

func newMerger() *merger {
	return &merger{byKey: map[string]int{}}
}

func (m *merger) add(c candidate) {
	key := CanonicalKey(c.item, c.activityID)
	i, seen := m.byKey[key]
	if !seen {
		m.byKey[key] = len(m.order)
		m.order = append(m.order, c)
		return
	}
	m.order[i] = preferRicher(m.order[i], c)
}

func (m *merger) items() []candidate {
	return append([]candidate(nil), m.order...)
}

// preferRicher picks between two candidates for the same post: known
// metrics beat none, then a known date beats an unknown one, then the more
// recent date wins. The existing record is kept on a full tie.
func preferRicher(existing, incoming candidate) candidate {
	em, im := existing.item.Metrics.HasAny(), incoming.item.Metrics.HasAny()
	if em != im {
		if im {
			return incoming
		}
		return existing
	}
	ek, ik := existing.item.Date.Known(), incoming.item.Date.Known()
	if ek != ik {
		if ik {
			return incoming
		}
		return existing
	}
	if ik && incoming.at.After(existing.at) {
		return incoming
	}
	return existing
}

// sortCandidates orders newest first with unknown dates last. Candidates
// on the same day are ordered by their full instant.
func sortCandidates(cs []candidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
		if a.item.Date != b.item.Date {
			return content.Newer(a.item.Date, b.item.Date)
		}
		return a.item.Date.Known() && a.at.After(b.at)
	})
}
