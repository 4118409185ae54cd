package content

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

//nolint:gochecknoglobals // Shared stateless codec configuration.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Format is a payload encoding.
type Format string

// Supported payload encodings.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned for file extensions that are not JSON or YAML.
var ErrUnknownFormat = errors.New("unknown document format")

// FormatFromPath infers the payload encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// MalformedBlock is a block whose type is known but whose fields could not be
// decoded. Renderers treat it as a render failure.
type MalformedBlock struct {
	Kind string
	Err  error
}

// Type implements Block.
func (b MalformedBlock) Type() BlockType { return BlockType(b.Kind) }

func (MalformedBlock) isBlock() {}

// UnmarshalJSON decodes the sequence once into a generic tree, then builds
// each element independently so one malformed block does not reject its
// siblings.
func (bs *Blocks) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decoding block sequence: %w", err)
	}
	out, err := blocksFromValue(v)
	if err != nil {
		return err
	}
	*bs = out
	return nil
}

// blocksFromValue builds a block sequence from an already decoded JSON value.
// Nested cards are built from the same tree, so a document is decoded once
// however deep its cards nest.
func blocksFromValue(v any) (Blocks, error) {
	if v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("decoding block sequence: expected array, got %T", v)
	}
	out := make(Blocks, 0, len(items))
	for _, item := range items {
		out = append(out, blockFromValue(item))
	}
	return out, nil
}

// fields reads typed values out of a decoded object, remembering the first
// type mismatch.
type fields struct {
	m   map[string]any
	err error
}

func (f *fields) fail(key, want string) {
	if f.err == nil {
		f.err = fmt.Errorf("field %q must be %s", key, want)
	}
}

func (f *fields) str(key string) string {
	v, ok := f.m[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		f.fail(key, "a string")
	}
	return s
}

func (f *fields) obj(key string) map[string]any {
	v, ok := f.m[key]
	if !ok || v == nil {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		f.fail(key, "an object")
	}
	return m
}

func (f *fields) records(key string) []map[string]any {
	v, ok := f.m[key]
	if !ok || v == nil {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		f.fail(key, "an array of objects")
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		rec, isObj := item.(map[string]any)
		if !isObj && item != nil {
			f.fail(key, "an array of objects")
			return nil
		}
		out = append(out, rec)
	}
	return out
}

func blockFromValue(v any) Block {
	m, ok := v.(map[string]any)
	if !ok {
		return MalformedBlock{Err: fmt.Errorf("decoding block: expected object, got %T", v)}
	}
	f := &fields{m: m}
	kind := f.str("type")
	if f.err != nil {
		return MalformedBlock{Err: fmt.Errorf("decoding block: %w", f.err)}
	}

	var b Block
	switch BlockType(kind) {
	case TypeMarkdown:
		b = MarkdownBlock{Content: f.str("content")}
	case TypeChart:
		b = ChartBlock{Component: f.str("component"), Title: f.str("title"), Subtitle: f.str("subtitle"), Props: f.obj("props")}
	case TypeList:
		b = ListBlock{ListType: f.str("listType"), Title: f.str("title"), Data: f.records("data")}
	case TypeImage:
		b = ImageBlock{Src: f.str("src"), Alt: f.str("alt"), Caption: f.str("caption")}
	case TypeVideo:
		b = VideoBlock{Src: f.str("src"), Poster: f.str("poster"), Caption: f.str("caption")}
	case TypeCard:
		title := f.str("title")
		children, err := blocksFromValue(m["content"])
		if err != nil {
			return MalformedBlock{Kind: kind, Err: fmt.Errorf("card content must be a block list: %w", err)}
		}
		b = CardBlock{Title: title, Content: children}
	default:
		return UnknownBlock{Kind: kind, Raw: m}
	}
	if f.err != nil {
		return MalformedBlock{Kind: kind, Err: fmt.Errorf("decoding %s block: %w", kind, f.err)}
	}
	return b
}

func isKnownType(t string) bool {
	switch BlockType(t) {
	case TypeMarkdown, TypeChart, TypeList, TypeImage, TypeVideo, TypeCard:
		return true
	}
	return false
}

// ParseDetail decodes a JSON detail document. A literal null decodes to a nil
// document and no error.
func ParseDetail(data []byte) (*DetailContent, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil //nolint:nilnil // A null document is a valid, empty answer.
	}
	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return nil, fmt.Errorf("parsing detail document: %w", err)
	}
	doc, err := detailFromValue(v)
	if err != nil {
		return nil, fmt.Errorf("parsing detail document: %w", err)
	}
	return doc, nil
}

func detailFromValue(v any) (*DetailContent, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected object, got %T", v)
	}

	var doc DetailContent
	if raw, present := m["tabs"]; present && raw != nil {
		tabs, isList := raw.([]any)
		if !isList {
			return nil, fmt.Errorf("tabs: expected array, got %T", raw)
		}
		for i, t := range tabs {
			tm, isObj := t.(map[string]any)
			if !isObj {
				return nil, fmt.Errorf("tab %d: expected object, got %T", i, t)
			}
			f := &fields{m: tm}
			tab := Tab{ID: f.str("id"), Label: f.str("label")}
			if f.err != nil {
				return nil, fmt.Errorf("tab %d: %w", i, f.err)
			}
			blocks, err := blocksFromValue(tm["content"])
			if err != nil {
				return nil, fmt.Errorf("tab %d: %w", i, err)
			}
			tab.Content = blocks
			doc.Tabs = append(doc.Tabs, tab)
		}
	}

	blocks, err := blocksFromValue(m["content"])
	if err != nil {
		return nil, err
	}
	doc.Content = blocks
	return &doc, nil
}

// ParseDetailYAML decodes a YAML detail document.
func ParseDetailYAML(data []byte) (*DetailContent, error) {
	asJSON, err := yamlToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("parsing detail document: %w", err)
	}
	return ParseDetail(asJSON)
}

// DecodeDetail decodes a detail document in the given format.
func DecodeDetail(format Format, data []byte) (*DetailContent, error) {
	switch format {
	case FormatJSON:
		return ParseDetail(data)
	case FormatYAML:
		return ParseDetailYAML(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// UnmarshalJSON keeps every received field in Fields and lifts the known ones
// into typed fields.
func (c *CardInstance) UnmarshalJSON(data []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decoding card: %w", err)
	}
	*c = CardFromFields(fields)
	return nil
}

// CardFromFields builds a card from a decoded record.
func CardFromFields(fields map[string]any) CardInstance {
	str := func(key string) string {
		s, _ := fields[key].(string)
		return s
	}
	obj := func(key string) map[string]any {
		m, _ := fields[key].(map[string]any)
		return m
	}
	return CardInstance{
		ID:            str("id"),
		TemplateID:    str("templateId"),
		ComponentName: str("componentName"),
		Type:          str("type"),
		Data:          obj("data"),
		Metadata:      obj("metadata"),
		DataSource:    DataSource(str("dataSource")),
		Fields:        fields,
	}
}

// ParseCards decodes a JSON card deck: either a bare array or {"cards": [...]}.
func ParseCards(data []byte) ([]CardInstance, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapped struct {
			Cards []CardInstance `json:"cards"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, fmt.Errorf("parsing card deck: %w", err)
		}
		return wrapped.Cards, nil
	}
	var cards []CardInstance
	if err := json.Unmarshal(trimmed, &cards); err != nil {
		return nil, fmt.Errorf("parsing card deck: %w", err)
	}
	return cards, nil
}

// DecodeCards decodes a card deck in the given format.
func DecodeCards(format Format, data []byte) ([]CardInstance, error) {
	switch format {
	case FormatJSON:
		return ParseCards(data)
	case FormatYAML:
		asJSON, err := yamlToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("parsing card deck: %w", err)
		}
		return ParseCards(asJSON)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func yamlToJSON(data []byte) ([]byte, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return json.Marshal(normalizeYAML(v))
}

// normalizeYAML converts map[any]any, which YAML produces for non-string keys,
// into JSON-encodable map[string]any.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalizeYAML(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return out
	case []any:
		for i, val := range t {
			t[i] = normalizeYAML(val)
		}
		return t
	default:
		return v
	}
}
