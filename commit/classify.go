package commit

// Classified groups parsed commits by type, with breaking changes
// pulled out into their own list. Insertion order is preserved within
// every list. The same grouping feeds both the changelog renderer and
// the version-bump inference.
type Classified struct {
	ByType   map[Type][]Parsed
	Breaking []Parsed

	total int
}

// Classify groups an ordered sequence of parsed commits. Merge commits
// are excluded.
func Classify(commits []Parsed) Classified {
	c := Classified{ByType: make(map[Type][]Parsed)}
	for _, p := range commits {
		if IsMerge(p.Subject) {
			continue
		}
		c.ByType[p.Type] = append(c.ByType[p.Type], p)
		if p.Breaking {
			c.Breaking = append(c.Breaking, p)
		}
		c.total++
	}
	return c
}

// ClassifyRecords parses and classifies history records in one pass.
func ClassifyRecords(records []Record) Classified {
	parsed := make([]Parsed, 0, len(records))
	for _, r := range records {
		if IsMerge(r.Subject) {
			continue
		}
		parsed = append(parsed, ParseRecord(r))
	}
	return Classify(parsed)
}

// Of returns the commits of one type, in input order.
func (c Classified) Of(t Type) []Parsed {
	return c.ByType[t]
}

// HasBreaking reports whether any commit carries a breaking marker.
func (c Classified) HasBreaking() bool { return len(c.Breaking) > 0 }

// Has reports whether any commit of the given type exists.
func (c Classified) Has(t Type) bool { return len(c.ByType[t]) > 0 }

// Total is the number of classified commits, merges excluded.
func (c Classified) Total() int { return c.total }
