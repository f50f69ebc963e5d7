package options

// Panel holds the checkbox and slider state rendered by the terminal UI.
// Rows are the catalog entries followed by a single intensity row.
type Panel struct {
	methods   []Method
	checked   map[string]bool
	intensity int
	cursor    int
}

// Defaults seeds a Panel.
type Defaults struct {
	RewriteMethods []string
	AvoidMethods   []string
	Intensity      int
}

// NewPanel returns a panel with the given tags pre-checked.
func NewPanel(d Defaults) *Panel {
	p := &Panel{
		methods:   Catalog(),
		checked:   map[string]bool{},
		intensity: DefaultIntensity,
	}
	for _, tag := range d.RewriteMethods {
		if Known(GroupRewrite, tag) {
			p.checked[key(Method{Tag: tag, Group: GroupRewrite})] = true
		}
	}
	for _, tag := range d.AvoidMethods {
		if Known(GroupAvoid, tag) {
			p.checked[key(Method{Tag: tag, Group: GroupAvoid})] = true
		}
	}
	if d.Intensity != 0 {
		p.intensity = ClampIntensity(d.Intensity)
	}
	return p
}

func key(m Method) string {
	return string(m.Group) + ":" + m.Tag
}

// Rows is the number of selectable rows including the intensity row.
func (p *Panel) Rows() int {
	return len(p.methods) + 1
}

// Cursor returns the focused row.
func (p *Panel) Cursor() int {
	return p.cursor
}

// Move shifts the cursor by delta, clamped to the available rows.
func (p *Panel) Move(delta int) {
	p.cursor += delta
	if p.cursor < 0 {
		p.cursor = 0
	}
	if p.cursor >= p.Rows() {
		p.cursor = p.Rows() - 1
	}
}

// OnIntensity reports whether the cursor sits on the intensity row.
func (p *Panel) OnIntensity() bool {
	return p.cursor == len(p.methods)
}

// Toggle flips the checkbox under the cursor. It returns false on the intensity row.
func (p *Panel) Toggle() bool {
	if p.OnIntensity() {
		return false
	}
	k := key(p.methods[p.cursor])
	p.checked[k] = !p.checked[k]
	return true
}

// AdjustIntensity moves the slider by delta.
func (p *Panel) AdjustIntensity(delta int) {
	p.intensity = ClampIntensity(p.intensity + delta)
}

// Method returns the catalog entry at row i.
func (p *Panel) Method(i int) (Method, bool) {
	if i < 0 || i >= len(p.methods) {
		return Method{}, false
	}
	return p.methods[i], true
}

// IsChecked reports the checkbox state of the method at row i.
func (p *Panel) IsChecked(i int) bool {
	m, ok := p.Method(i)
	return ok && p.checked[key(m)]
}

// Checked returns the checked tags of group in catalog order.
func (p *Panel) Checked(group Group) []string {
	var out []string
	for _, m := range p.methods {
		if m.Group == group && p.checked[key(m)] {
			out = append(out, m.Tag)
		}
	}
	return out
}

// IntensityValue returns the slider position.
func (p *Panel) IntensityValue() int {
	return p.intensity
}

// WithText pairs the panel with the raw input text so it satisfies Form.
func (p *Panel) WithText(text string) Form {
	return textForm{text: text, panel: p}
}

type textForm struct {
	text  string
	panel *Panel
}

func (f textForm) InputText() string           { return f.text }
func (f textForm) Checked(group Group) []string { return f.panel.Checked(group) }
func (f textForm) IntensityValue() int          { return f.panel.IntensityValue() }
