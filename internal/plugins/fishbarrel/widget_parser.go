package fishbarrel

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"molopl.dev/addons/internal/catalogs"
	"molopl.dev/addons/internal/config"
)

type ParseResult int

const (
	Invalid ParseResult = iota
	// Incomplete means the listing continues on the next page.
	Incomplete
	Valid
)

func (r ParseResult) String() string {
	switch r {
	case Incomplete:
		return "INCOMPLETE"
	case Valid:
		return "VALID"
	default:
		return "INVALID"
	}
}

const entryExpr = `[0-9]+ x [a-zA-Z ]+,? ?`

var (
	entryPattern = regexp.MustCompile(`([0-9]+) x ([a-zA-Z ]+),? ?`)
	listingLine  = regexp.MustCompile(`^(?:` + entryExpr + `)+$`)
	// A page following an incomplete one may open with the tail of the
	// previous page's last entry name, or hold nothing else.
	continuationLine = regexp.MustCompile(`^(?:([a-zA-Z ]+),? ?)?((?:` + entryExpr + `)*)$`)
)

// Entry is one "<count> x <name>" item of a listing.
type Entry struct {
	Count int
	Name  string
}

// FishStack is a listing entry resolved against the item catalog. ItemID is 0
// when the name could not be resolved.
type FishStack struct {
	ItemID int
	Name   string
	Count  int
}

// WidgetParser accumulates the barrel contents dialog across pages. Each Parse
// call is atomic: an Invalid result leaves the parser exactly as it was.
type WidgetParser struct {
	cfg config.Widget

	fishCount  int
	inProgress bool
	// The last page was cut off inside an entry name.
	openName bool
	entries  []Entry
}

func NewWidgetParser(cfg config.Widget) *WidgetParser {
	def := config.Defaults().FishBarrel.Widget
	if cfg.EmptyMessage == "" {
		cfg.EmptyMessage = def.EmptyMessage
	}
	if cfg.ListingPrefix == "" {
		cfg.ListingPrefix = def.ListingPrefix
	}
	if cfg.LineBreak == "" {
		cfg.LineBreak = def.LineBreak
	}
	if cfg.IncompleteSuffixes == nil {
		cfg.IncompleteSuffixes = def.IncompleteSuffixes
	}
	return &WidgetParser{cfg: cfg}
}

// FishCount is the running total of the current listing.
func (p *WidgetParser) FishCount() int { return p.fishCount }

// InProgress reports whether the last page was Incomplete.
func (p *WidgetParser) InProgress() bool { return p.inProgress }

func (p *WidgetParser) Entries() []Entry {
	return append([]Entry(nil), p.entries...)
}

// Contents resolves the listing entries to fish items, merging entries that
// resolve to the same item. Listing order is kept.
func (p *WidgetParser) Contents() []FishStack {
	var out []FishStack
	index := map[int]int{}
	for _, e := range p.entries {
		def, ok := catalogs.ResolveFish(e.Name)
		if !ok {
			out = append(out, FishStack{Name: e.Name, Count: e.Count})
			continue
		}
		if i, seen := index[def.ID]; seen {
			out[i].Count += e.Count
			continue
		}
		index[def.ID] = len(out)
		out = append(out, FishStack{ItemID: def.ID, Name: def.Name, Count: e.Count})
	}
	return out
}

func (p *WidgetParser) Reset() {
	p.fishCount = 0
	p.inProgress = false
	p.openName = false
	p.entries = nil
}

func (p *WidgetParser) Parse(raw string) ParseResult {
	if strings.TrimSpace(raw) == "" {
		return Invalid
	}
	text := strings.TrimSpace(strings.ReplaceAll(raw, p.cfg.LineBreak, " "))

	if text == p.cfg.EmptyMessage {
		p.Reset()
		return Valid
	}

	var (
		total    int
		entries  []Entry
		fragment string
		body     string
	)
	if rest, ok := strings.CutPrefix(text, p.cfg.ListingPrefix); ok {
		body = strings.TrimSpace(rest)
		if !listingLine.MatchString(body) {
			return Invalid
		}
	} else {
		if p.fishCount == 0 {
			return Invalid
		}
		total = p.fishCount
		entries = p.Entries()
		if p.openName {
			m := continuationLine.FindStringSubmatch(text)
			if m == nil || (m[1] == "" && m[2] == "") {
				return Invalid
			}
			fragment, body = strings.TrimSpace(m[1]), m[2]
		} else {
			if !listingLine.MatchString(text) {
				return Invalid
			}
			body = text
		}
	}

	if fragment != "" && len(entries) > 0 {
		last := &entries[len(entries)-1]
		last.Name = strings.TrimSpace(last.Name + " " + fragment)
	}
	for _, m := range entryPattern.FindAllStringSubmatch(body, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n > math.MaxInt-total {
			return Invalid
		}
		total += n
		entries = append(entries, Entry{Count: n, Name: strings.TrimSpace(m[2])})
	}

	p.fishCount = total
	p.entries = entries
	p.inProgress = p.truncated(text)
	p.openName = p.inProgress && endsInName(text)
	if p.inProgress {
		return Incomplete
	}
	return Valid
}

func (p *WidgetParser) truncated(text string) bool {
	for _, s := range p.cfg.IncompleteSuffixes {
		if s != "" && strings.HasSuffix(text, s) {
			return true
		}
	}
	return false
}

func endsInName(text string) bool {
	c := text[len(text)-1]
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}
