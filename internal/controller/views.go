package controller

import "github.com/csheth/dedupe/internal/service"

// Tab names one of the four result stages.
type Tab string

const (
	TabFinal     Tab = "final"
	TabRewritten Tab = "rewritten"
	TabCleaned   Tab = "cleaned"
	TabOriginal  Tab = "original"
)

var tabOrder = []Tab{TabFinal, TabRewritten, TabCleaned, TabOriginal}

// Tabs returns the result tabs in display order.
func Tabs() []Tab {
	return append([]Tab(nil), tabOrder...)
}

// ParseTab maps a tab id to a Tab.
func ParseTab(id string) (Tab, bool) {
	for _, tab := range tabOrder {
		if string(tab) == id {
			return tab, true
		}
	}
	return "", false
}

// Label is the human readable tab title.
func (t Tab) Label() string {
	switch t {
	case TabFinal:
		return "Final"
	case TabRewritten:
		return "Rewritten"
	case TabCleaned:
		return "Cleaned"
	case TabOriginal:
		return "Original"
	default:
		return string(t)
	}
}

// views owns the active tab and the text held by each result field.
type views struct {
	active Tab
	fields map[Tab]string
}

func newViews() views {
	return views{active: TabFinal, fields: map[Tab]string{}}
}

func (v *views) selectTab(tab Tab) bool {
	if _, ok := ParseTab(string(tab)); !ok {
		return false
	}
	v.active = tab
	return true
}

// apply writes all four fields before switching to the final tab.
func (v *views) apply(r service.Result) {
	v.fields = map[Tab]string{
		TabOriginal:  r.Original,
		TabCleaned:   r.Cleaned,
		TabRewritten: r.Rewritten,
		TabFinal:     r.Final,
	}
	v.selectTab(TabFinal)
}
