package blocks

import (
	"fmt"
	"math"
	"strconv"

	"github.com/rshade/insightdeck/internal/content"
	"github.com/rshade/insightdeck/internal/render"
)

// Company is one entry of a ranked company list. Absent fields keep their
// zero value.
type Company struct {
	Name  string
	Value float64
	Type  string
	Color string
}

// CompanyFromRecord maps an opaque list record onto a Company.
func CompanyFromRecord(rec map[string]any) Company {
	return Company{
		Name:  stringField(rec, "name"),
		Value: numberField(rec, "value"),
		Type:  stringField(rec, "type"),
		Color: stringField(rec, "color"),
	}
}

func (r *Renderer) renderList(b content.ListBlock) *render.Node {
	var list *render.Node
	if b.ListType == content.ListTypeCompanies {
		list = r.rankedList(b.Data)
	} else {
		list = genericList(b.Data)
	}
	if b.Title == "" {
		return list
	}
	return render.Fragment(render.El(render.KindTitle, render.Text(b.Title)), list)
}

func (r *Renderer) rankedList(records []map[string]any) *render.Node {
	list := render.El(render.KindRankedList)
	for i, rec := range records {
		c := CompanyFromRecord(rec)
		item := &render.Node{Kind: render.KindRankedItem, Text: c.Name}
		item.With(render.AttrRank, strconv.Itoa(i+1)).With(render.AttrValue, r.formatValue(c.Value))
		if c.Type != "" {
			item.With(render.AttrCategory, c.Type)
		}
		if c.Color != "" {
			item.With(render.AttrColor, c.Color)
		}
		list.Append(item)
	}
	return list
}

func (r *Renderer) formatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return r.printer.Sprintf("%d", int64(v))
	}
	return r.printer.Sprintf("%.2f", v)
}

func genericList(records []map[string]any) *render.Node {
	list := render.El(render.KindList)
	for _, rec := range records {
		name := stringField(rec, "name")
		if name == "" {
			name = unknownListName
		}
		item := render.El(render.KindListItem, render.El(render.KindStrong, render.Text(name)))
		if desc := stringField(rec, "description"); desc != "" {
			item.Append(render.Text(": " + desc))
		}
		list.Append(item)
	}
	return list
}

func stringField(rec map[string]any, key string) string {
	switch v := rec[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func numberField(rec map[string]any, key string) float64 {
	switch v := rec[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
