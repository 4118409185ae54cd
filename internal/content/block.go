package content

// BlockType is the discriminant of a content block.
type BlockType string

// Known block types.
const (
	TypeMarkdown BlockType = "markdown"
	TypeChart    BlockType = "chart"
	TypeList     BlockType = "list"
	TypeImage    BlockType = "image"
	TypeVideo    BlockType = "video"
	TypeCard     BlockType = "card"
)

// ListTypeCompanies selects the ranked company list presentation.
const ListTypeCompanies = "companies"

// Block is one unit of a detail document. The set of implementations is
// closed; switch over the concrete types.
type Block interface {
	Type() BlockType
	isBlock()
}

// MarkdownBlock holds markdown (possibly with embedded HTML) text.
type MarkdownBlock struct {
	Content string `json:"content"`
}

// ChartBlock references a lazily loaded chart module by name.
type ChartBlock struct {
	Component string         `json:"component"`
	Title     string         `json:"title,omitempty"`
	Subtitle  string         `json:"subtitle,omitempty"`
	Props     map[string]any `json:"props,omitempty"`
}

// ListBlock is a titled sequence of opaque records.
type ListBlock struct {
	ListType string           `json:"listType"`
	Title    string           `json:"title,omitempty"`
	Data     []map[string]any `json:"data"`
}

// ImageBlock is an image with optional caption.
type ImageBlock struct {
	Src     string `json:"src"`
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// VideoBlock is a video with optional poster and caption.
type VideoBlock struct {
	Src     string `json:"src"`
	Poster  string `json:"poster,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// CardBlock nests further blocks. It is the only recursive variant.
type CardBlock struct {
	Title   string `json:"title,omitempty"`
	Content Blocks `json:"content"`
}

// UnknownBlock preserves a block whose type is not recognised.
type UnknownBlock struct {
	Kind string         `json:"type"`
	Raw  map[string]any `json:"-"`
}

func (MarkdownBlock) Type() BlockType { return TypeMarkdown }
func (ChartBlock) Type() BlockType { return TypeChart }
func (ListBlock) Type() BlockType { return TypeList }
func (ImageBlock) Type() BlockType { return TypeImage }
func (VideoBlock) Type() BlockType { return TypeVideo }
func (CardBlock) Type() BlockType { return TypeCard }
func (b UnknownBlock) Type() BlockType { return BlockType(b.Kind) }

func (MarkdownBlock) isBlock() {}
func (ChartBlock) isBlock() {}
func (ListBlock) isBlock() {}
func (ImageBlock) isBlock() {}
func (VideoBlock) isBlock() {}
func (CardBlock) isBlock() {}
func (UnknownBlock) isBlock() {}

// Blocks is an ordered block sequence.
type Blocks []Block

// ChartComponents returns the distinct chart component names referenced
// anywhere in blocks, in first-seen order.
func ChartComponents(blocks []Block) []string {
	seen := make(map[string]bool)
	var names []string
	var walk func([]Block)
	walk = func(bs []Block) {
		for _, b := range bs {
			switch v := b.(type) {
			case ChartBlock:
				if v.Component != "" && !seen[v.Component] {
					seen[v.Component] = true
					names = append(names, v.Component)
				}
			case CardBlock:
				walk(v.Content)
			}
		}
	}
	walk(blocks)
	return names
}

// Depth returns the maximum card nesting depth in blocks. A sequence with no
// card blocks has depth 0.
func Depth(blocks []Block) int {
	maxDepth := 0
	for _, b := range blocks {
		if c, ok := b.(CardBlock); ok {
			if d := 1 + Depth(c.Content); d > maxDepth {
				maxDepth = d
			}
		}
	}
	return maxDepth
}
