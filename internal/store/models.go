package store

// EnrichedItem is one classified, rewritten post inside a digest. Field names
// are the on-disk contract shared with the rendering collaborator.
type EnrichedItem struct {
	Source    string `json:"source"`
	OrigTitle string `json:"orig_title"`
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Category  string `json:"category"`
	URL       string `json:"url"`
	Votes     int    `json:"votes"`
}

// Record is the immutable digest for one calendar date.
type Record struct {
	Date     string         `json:"date"`
	Trending []string       `json:"trending"`
	Items    []EnrichedItem `json:"items"`
}

// Index maps every known digest date to its trending categories. It is
// rebuilt in full after every run, never patched.
type Index struct {
	Dates []string            `json:"dates"`
	Meta  map[string][]string `json:"meta"`
}
