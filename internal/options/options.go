package options

import "strings"

// Group identifies one family of checkable processing methods.
type Group string

const (
	GroupRewrite Group = "rewrite"
	GroupAvoid   Group = "avoid"
)

const (
	MinIntensity     = 1
	MaxIntensity     = 10
	DefaultIntensity = 5
)

// Method describes a single checkable option. Tag is the value sent on the wire.
type Method struct {
	Tag   string
	Label string
	Group Group
}

var catalog = []Method{
	{Tag: "synonym", Label: "Synonym replacement", Group: GroupRewrite},
	{Tag: "restructure", Label: "Sentence restructuring", Group: GroupRewrite},
	{Tag: "word_order", Label: "Word order adjustment", Group: GroupRewrite},
	{Tag: "human_features", Label: "Human writing features", Group: GroupAvoid},
	{Tag: "sentence_diversity", Label: "Sentence length diversity", Group: GroupAvoid},
	{Tag: "reduce_patterns", Label: "Reduce templated phrasing", Group: GroupAvoid},
	{Tag: "adjust_perplexity", Label: "Adjust perplexity", Group: GroupAvoid},
}

// Catalog returns every known method in display order.
func Catalog() []Method {
	return append([]Method(nil), catalog...)
}

// Methods returns the catalog entries belonging to group.
func Methods(group Group) []Method {
	var out []Method
	for _, m := range catalog {
		if m.Group == group {
			out = append(out, m)
		}
	}
	return out
}

// Tags returns the wire tags of group in catalog order.
func Tags(group Group) []string {
	methods := Methods(group)
	tags := make([]string, 0, len(methods))
	for _, m := range methods {
		tags = append(tags, m.Tag)
	}
	return tags
}

// Known reports whether tag belongs to group.
func Known(group Group, tag string) bool {
	for _, m := range catalog {
		if m.Group == group && m.Tag == tag {
			return true
		}
	}
	return false
}

// Options is the request payload gathered from the user's selections.
type Options struct {
	Text           string
	RewriteMethods []string
	AvoidMethods   []string
	Intensity      int
}

// Empty reports whether the trimmed text is empty.
func (o Options) Empty() bool {
	return strings.TrimSpace(o.Text) == ""
}

// Form is the read side of whatever holds the user's current selections.
type Form interface {
	InputText() string
	Checked(group Group) []string
	IntensityValue() int
}

// Collect reads f into an Options value. It never fails: empty text is returned
// as is and left for the caller to reject.
func Collect(f Form) Options {
	return Options{
		Text:           strings.TrimSpace(f.InputText()),
		RewriteMethods: normalizeSet(GroupRewrite, f.Checked(GroupRewrite)),
		AvoidMethods:   normalizeSet(GroupAvoid, f.Checked(GroupAvoid)),
		Intensity:      ClampIntensity(f.IntensityValue()),
	}
}

// ClampIntensity bounds v to [MinIntensity, MaxIntensity].
func ClampIntensity(v int) int {
	if v < MinIntensity {
		return MinIntensity
	}
	if v > MaxIntensity {
		return MaxIntensity
	}
	return v
}

// normalizeSet de-duplicates tags and orders them like the catalog. Tags the
// catalog does not know are kept after the known ones, in first-seen order.
func normalizeSet(group Group, tags []string) []string {
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			seen[tag] = true
		}
	}
	out := make([]string, 0, len(seen))
	for _, tag := range Tags(group) {
		if seen[tag] {
			out = append(out, tag)
			delete(seen, tag)
		}
	}
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if seen[tag] {
			out = append(out, tag)
			delete(seen, tag)
		}
	}
	return out
}
