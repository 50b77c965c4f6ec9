package news

import (
	"fmt"
	"hash/fnv"
	"time"
)

// Category is the coarse classification of a news item.
type Category string

const (
	CategoryTrade   Category = "Trade"
	CategorySigning Category = "Signing"
	CategoryOther   Category = "Other"
)

// Source identifies the feed a news item came from. Known sources map to
// fixed names; anything else round-trips through SourceOther with its label.
type Source struct {
	kind  string
	label string
}

var (
	SourceESPN      = Source{kind: "ESPN"}
	SourceRealGM    = Source{kind: "RealGM"}
	SourceHoopsHype = Source{kind: "HoopsHype"}
)

// SourceOther wraps an arbitrary source label.
func SourceOther(label string) Source {
	return Source{kind: "other", label: label}
}

// ParseSource maps a display name back to a Source. Unknown names become
// SourceOther carrying the name unchanged, so String/ParseSource round-trip.
func ParseSource(s string) Source {
	switch s {
	case "ESPN":
		return SourceESPN
	case "RealGM":
		return SourceRealGM
	case "HoopsHype":
		return SourceHoopsHype
	default:
		return SourceOther(s)
	}
}

func (s Source) String() string {
	if s.kind == "other" {
		return s.label
	}
	return s.kind
}

// Item is the canonical, normalized news record produced by the scraper.
// Items are built once per fetch cycle and never mutated.
type Item struct {
	ID          string
	Title       string
	Description string
	Link        string
	Source      Source
	Category    Category
	PublishedAt time.Time
}

// GenerateID derives the deduplication key for an item. A non-empty GUID is
// used verbatim; otherwise a 64-bit hash of the link keeps the id stable
// across fetches of the same entry.
func GenerateID(guid, link string) string {
	if guid != "" {
		return guid
	}

	h := fnv.New64a()
	h.Write([]byte(link))
	return fmt.Sprintf("link-%x", h.Sum64())
}
