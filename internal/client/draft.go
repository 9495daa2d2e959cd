package client

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Draft is the client-local unsaved copy of one entity being created or
// edited. All mutation goes through one generic path reducer instead of a
// bespoke setter per nested field: Set("ipDetails.gateway", v) replaces just
// that leaf, Set("servicePeriods.0.date", v) one cell of a list row.
//
// One derived field exists: bandwidthDetails.total is recomputed as
// free+purchased whenever either input changes and should be rendered
// read-only.
type Draft struct {
	values map[string]any
	editID string
}

// NewDraft starts a create draft from field defaults.
func NewDraft(seed map[string]any) *Draft {
	values := make(map[string]any, len(seed))
	for k, v := range seed {
		values[k] = v
	}
	return &Draft{values: values}
}

// DraftOf seeds an edit draft from an existing entity. Submitting it updates
// the record it was seeded from.
func DraftOf[T any](rec T, id string) (*Draft, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("seed draft: %w", err)
	}
	values := make(map[string]any)
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("seed draft: %w", err)
	}
	return &Draft{values: values, editID: id}, nil
}

// EditID returns the id of the record being edited, or "" for a create draft.
func (d *Draft) EditID() string { return d.editID }

// Values returns the draft body to submit.
func (d *Draft) Values() map[string]any { return d.values }

// Value reads the value at a dotted path. Returns nil when any segment is
// absent.
func (d *Draft) Value(path string) any {
	var cur any = d.values
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			cur = node[seg]
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil
			}
			cur = node[i]
		default:
			return nil
		}
	}
	return cur
}

// Set replaces the leaf at a dotted path, creating intermediate objects as
// needed. Numeric segments index into list fields. Every other part of the
// draft is left untouched.
func (d *Draft) Set(path string, value any) {
	segs := strings.Split(path, ".")
	setPath(d.values, segs, value)
	d.deriveTotals(segs)
}

// SetCell updates one column of one row of a list field.
func (d *Draft) SetCell(path string, row int, column string, value any) {
	d.Set(fmt.Sprintf("%s.%d.%s", path, row, column), value)
}

// AppendRow adds a row to a list field, creating the list when absent.
func (d *Draft) AppendRow(path string, row map[string]any) {
	rows := d.rows(path)
	d.Set(path, append(rows, row))
}

// RemoveRow deletes one row of a list field. When the last row is removed the
// list collapses to a single empty placeholder row so the form always shows
// one line to type into.
func (d *Draft) RemoveRow(path string, i int) {
	rows := d.rows(path)
	if i < 0 || i >= len(rows) {
		return
	}
	removed := rows[i]
	rows = append(rows[:i], rows[i+1:]...)
	if len(rows) == 0 {
		rows = []any{placeholderRow(removed)}
	}
	d.Set(path, rows)
}

func (d *Draft) rows(path string) []any {
	rows, _ := d.Value(path).([]any)
	return rows
}

// placeholderRow keeps the removed row's columns with blank values. Rows of
// scalar lists (legalAgreements, aprReports) collapse to an empty string so
// the list still decodes into its typed field.
func placeholderRow(removed any) any {
	row, ok := removed.(map[string]any)
	if !ok {
		return ""
	}
	placeholder := make(map[string]any, len(row))
	for k := range row {
		placeholder[k] = ""
	}
	return placeholder
}

// deriveTotals recomputes bandwidthDetails.total after an edit to either of
// its inputs.
func (d *Draft) deriveTotals(segs []string) {
	if len(segs) < 2 || segs[0] != "bandwidthDetails" {
		return
	}
	if segs[1] != "free" && segs[1] != "purchased" {
		return
	}
	free := toFloat(d.Value("bandwidthDetails.free"))
	purchased := toFloat(d.Value("bandwidthDetails.purchased"))
	setPath(d.values, []string{"bandwidthDetails", "total"}, free+purchased)
}

// Decode materialises the draft into its typed entity.
func Decode[T any](d *Draft) (T, error) {
	var out T
	raw, err := json.Marshal(d.values)
	if err != nil {
		return out, fmt.Errorf("decode draft: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode draft: %w", err)
	}
	return out, nil
}

func setPath(root map[string]any, segs []string, value any) {
	if len(segs) == 1 {
		root[segs[0]] = value
		return
	}

	head, rest := segs[0], segs[1:]
	child := root[head]

	if i, err := strconv.Atoi(rest[0]); err == nil {
		// Next segment indexes a list.
		rows, _ := child.([]any)
		for len(rows) <= i {
			rows = append(rows, map[string]any{})
		}
		root[head] = rows
		if len(rest) == 1 {
			rows[i] = value
			return
		}
		row, ok := rows[i].(map[string]any)
		if !ok {
			row = map[string]any{}
			rows[i] = row
		}
		setPath(row, rest[1:], value)
		return
	}

	node, ok := child.(map[string]any)
	if !ok {
		node = map[string]any{}
		root[head] = node
	}
	setPath(node, rest, value)
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
