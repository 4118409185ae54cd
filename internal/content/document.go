package content

// DataSource says where a card's data came from.
type DataSource string

// Known data sources.
const (
	DataSourceAPI    DataSource = "api"
	DataSourceStatic DataSource = "static"
)

// CardInstance is a card summary. Cards built from the looser insight shape
// carry Type instead of ComponentName. Fields holds the record exactly as
// received and is what type-resolved components see.
type CardInstance struct {
	ID            string
	TemplateID    string
	ComponentName string
	Type          string
	Data          map[string]any
	Metadata      map[string]any
	DataSource    DataSource
	Fields        map[string]any
}

// HasData reports whether the card carries a nested data payload.
func (c CardInstance) HasData() bool {
	return c.Data != nil
}

// Raw returns the card as a field map. Cards parsed from a payload return a
// copy of the received fields; cards built in code get a synthesised map.
func (c CardInstance) Raw() map[string]any {
	if c.Fields != nil {
		out := make(map[string]any, len(c.Fields))
		for k, v := range c.Fields {
			out[k] = v
		}
		return out
	}

	out := make(map[string]any)
	put := func(k, v string) {
		if v != "" {
			out[k] = v
		}
	}
	put("id", c.ID)
	put("templateId", c.TemplateID)
	put("componentName", c.ComponentName)
	put("type", c.Type)
	put("dataSource", string(c.DataSource))
	if c.Data != nil {
		out["data"] = c.Data
	}
	if c.Metadata != nil {
		out["metadata"] = c.Metadata
	}
	return out
}

// Title returns a display title taken from common fields, falling back to the
// card ID.
func (c CardInstance) Title() string {
	for _, src := range []map[string]any{c.Data, c.Fields} {
		for _, key := range []string{"title", "name", "label"} {
			if s, ok := src[key].(string); ok && s != "" {
				return s
			}
		}
	}
	return c.ID
}

// Tab is one selectable section of a detail document.
type Tab struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Content Blocks `json:"content"`
}

// DetailContent is a fetched detail document. When Tabs is non-empty Content
// is ignored.
type DetailContent struct {
	Tabs    []Tab  `json:"tabs,omitempty"`
	Content Blocks `json:"content,omitempty"`
}

// HasTabs reports whether the document is tabbed.
func (d *DetailContent) HasTabs() bool {
	return d != nil && len(d.Tabs) > 0
}

// TabCount returns the number of tabs.
func (d *DetailContent) TabCount() int {
	if d == nil {
		return 0
	}
	return len(d.Tabs)
}

// AllBlocks returns every top-level block of the document, across all tabs.
func (d *DetailContent) AllBlocks() []Block {
	if d == nil {
		return nil
	}
	if !d.HasTabs() {
		return d.Content
	}
	var out []Block
	for _, t := range d.Tabs {
		out = append(out, t.Content...)
	}
	return out
}
