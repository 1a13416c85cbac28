package history

import (
	"sort"
	"strings"
)

// Filter narrows a GetHistory query. It is a closed set of variants:
// PlainFilter, GroupFilter and BucketFilter. A nil Filter returns
// the most recent items unfiltered.
type Filter interface {
	isFilter()
}

// PlainFilter matches Text as a substring of the content or of the
// legacy category.
type PlainFilter struct {
	Text string
}

// GroupFilter matches items that are members of the group Name and whose
// content contains Text. Empty Text means no content constraint.
type GroupFilter struct {
	Name string
	Text string
}

// BucketFilter matches items whose legacy category or content type falls
// in the virtual bucket named Bucket. Unknown buckets match nothing.
type BucketFilter struct {
	Bucket string
	Text   string
}

func (PlainFilter) isFilter()  {}
func (GroupFilter) isFilter()  {}
func (BucketFilter) isFilter() {}

const (
	categoryPrefix = "category:"
	bucketPrefix   = "group:"
)

// ParseFilter turns the command-surface search string into a Filter.
//
//	""                      → nil (no filter)
//	"category:<name> text"  → GroupFilter
//	"group:<bucket> text"   → BucketFilter
//	anything else           → PlainFilter
//
// Names containing spaces may be double-quoted: category:"Shell / OS" ls
func ParseFilter(s string) Filter {
	switch {
	case s == "":
		return nil
	case strings.HasPrefix(s, categoryPrefix):
		name, text := splitTarget(strings.TrimPrefix(s, categoryPrefix))
		return GroupFilter{Name: name, Text: text}
	case strings.HasPrefix(s, bucketPrefix):
		name, text := splitTarget(strings.TrimPrefix(s, bucketPrefix))
		return BucketFilter{Bucket: name, Text: text}
	default:
		return PlainFilter{Text: s}
	}
}

// splitTarget separates "<name> <text>" on the first space, honoring a
// double-quoted name.
func splitTarget(rest string) (name, text string) {
	if strings.HasPrefix(rest, `"`) {
		if end := strings.Index(rest[1:], `"`); end >= 0 {
			name = rest[1 : end+1]
			text = strings.TrimPrefix(rest[end+2:], " ")
			return name, text
		}
	}
	name, text, _ = strings.Cut(rest, " ")
	return name, text
}

// ─── Virtual buckets ─────────────────────────────────────────────────────────

// Bucket is a query-time aggregate over concrete categories and content
// types. It is never stored.
type Bucket struct {
	Categories   []string `yaml:"categories" json:"categories"`
	ContentTypes []string `yaml:"content_types" json:"content_types"`
}

// Buckets maps a bucket name to its definition.
type Buckets map[string]Bucket

// DefaultBuckets returns the built-in bucket table.
func DefaultBuckets() Buckets {
	return Buckets{
		"Dev":    {Categories: []string{"Docker", "Kubernetes", "IaC", "Cloud CLI", "Shell / OS", "CI / Build"}},
		"Code":   {Categories: []string{"Version Control", "Package Management", "Runtime / Build", "Database"}},
		"URL":    {Categories: []string{"URL"}},
		"Images": {ContentTypes: []string{ContentTypeImage}},
		"Text":   {ContentTypes: []string{ContentTypeText}},
	}
}

// Names returns the bucket names in ascending order.
func (b Buckets) Names() []string {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// where renders the bucket as a SQL predicate over the history table.
// ok is false when the bucket has no members, which must match nothing.
func (b Bucket) where() (clause string, args []any, ok bool) {
	var parts []string
	if len(b.Categories) > 0 {
		parts = append(parts, "category IN ("+placeholders(len(b.Categories))+")")
		for _, c := range b.Categories {
			args = append(args, c)
		}
	}
	if len(b.ContentTypes) > 0 {
		parts = append(parts, "content_type IN ("+placeholders(len(b.ContentTypes))+")")
		for _, c := range b.ContentTypes {
			args = append(args, c)
		}
	}
	if len(parts) == 0 {
		return "", nil, false
	}
	return "(" + strings.Join(parts, " OR ") + ")", args, true
}
