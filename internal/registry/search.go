package registry

import (
	"sort"
	"strings"
)

// Scoring weights. A term can hit several fields; the best single field
// score wins, then bonuses stack on top.
const (
	scoreIDExact      = 100
	scoreIDPrefix     = 60
	scoreIDSubstring  = 40
	scoreTitle        = 30
	scoreTagExact     = 25
	scoreTagSubstring = 15
	scoreDescription  = 10
	scoreFuzzy        = 12

	bonusOfficial  = 8
	bonusReference = 4

	fuzzyMaxDistance = 2
)

// Query filters and ranks the catalog. All filters are ANDed; empty
// fields do not filter.
type Query struct {
	// Term is the free-text search string, matched against id, title,
	// tags, and description. Empty lists the whole (filtered) catalog
	// ranked by popularity.
	Term string

	Agent          string
	Transport      string
	Category       string
	Classification string
	Tag            string

	// Limit caps results; 0 means no cap. Offset skips leading results
	// after ranking.
	Limit  int
	Offset int
}

// Match is one search result.
type Match struct {
	Entry *Entry
	Score int
}

// Search ranks entries against the query.
func (r *Registry) Search(q Query) []Match {
	term := strings.ToLower(strings.TrimSpace(q.Term))

	var matches []Match
	for _, entry := range r.entries {
		if !matchesFilters(entry, q) {
			continue
		}

		score, ok := scoreEntry(entry, term)
		if !ok {
			continue
		}
		matches = append(matches, Match{Entry: entry, Score: score})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Entry.ID < matches[j].Entry.ID
	})

	if q.Offset > 0 {
		if q.Offset >= len(matches) {
			return nil
		}
		matches = matches[q.Offset:]
	}
	if q.Limit > 0 && len(matches) > q.Limit {
		matches = matches[:q.Limit]
	}
	return matches
}

func matchesFilters(entry *Entry, q Query) bool {
	if q.Agent != "" && !entry.SupportsAgent(q.Agent) {
		return false
	}
	if q.Transport != "" && !entry.SupportsTransport(q.Transport) {
		return false
	}
	if q.Category != "" && entry.Category != q.Category {
		return false
	}
	if q.Classification != "" && entry.Classification != q.Classification {
		return false
	}
	if q.Tag != "" && !entry.HasTag(q.Tag) {
		return false
	}
	return true
}

// scoreEntry returns the ranking score and whether the entry matches at
// all. With an empty term every entry matches and the listing is ordered
// by popularity alone.
func scoreEntry(entry *Entry, term string) (int, bool) {
	if term == "" {
		return entry.Popularity, true
	}

	bonus := classBonus(entry.Classification) + entry.Popularity/10

	id := strings.ToLower(entry.ID)
	best := 0

	switch {
	case id == term:
		best = scoreIDExact
	case strings.HasPrefix(id, term):
		best = scoreIDPrefix
	case strings.Contains(id, term):
		best = scoreIDSubstring
	}

	if best < scoreTitle && strings.Contains(strings.ToLower(entry.Title), term) {
		best = scoreTitle
	}
	for _, tag := range entry.Tags {
		lower := strings.ToLower(tag)
		if lower == term && best < scoreTagExact {
			best = scoreTagExact
		} else if strings.Contains(lower, term) && best < scoreTagSubstring {
			best = scoreTagSubstring
		}
	}
	if best < scoreDescription && strings.Contains(strings.ToLower(entry.Description), term) {
		best = scoreDescription
	}

	// Typo tolerance: near-misses on the id or a tag still surface,
	// ranked below real substring hits.
	if best == 0 && fuzzyHit(entry, term) {
		best = scoreFuzzy
	}

	if best == 0 {
		return 0, false
	}
	return best + bonus, true
}

func fuzzyHit(entry *Entry, term string) bool {
	if editDistance(strings.ToLower(entry.ID), term, fuzzyMaxDistance) <= fuzzyMaxDistance {
		return true
	}
	for _, tag := range entry.Tags {
		if editDistance(strings.ToLower(tag), term, fuzzyMaxDistance) <= fuzzyMaxDistance {
			return true
		}
	}
	return false
}

func classBonus(classification string) int {
	switch classification {
	case ClassOfficial:
		return bonusOfficial
	case ClassReference:
		return bonusReference
	}
	return 0
}

// Categories returns the distinct categories in the catalog, sorted.
func (r *Registry) Categories() []string {
	seen := make(map[string]struct{})
	for _, entry := range r.entries {
		if entry.Category != "" {
			seen[entry.Category] = struct{}{}
		}
	}
	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories
}
