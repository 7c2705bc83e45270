package strategy

import (
	"fmt"
	"reflect"
	"strings"
)

// FieldChange records one field whose value differs between the previously
// active config and a newly accepted one, for audit trails and change
// notifications.
type FieldChange struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

func (c FieldChange) String() string {
	return fmt.Sprintf("%s: %s -> %s", c.Field, c.Old, c.New)
}

// Merge applies a submitted document on top of the active config and
// revalidates the result as a whole.
//
// Keys omitted from the incoming document inherit the active config's
// current value — not a default — so a partial edit never silently resets
// unrelated settings. The merged document must independently satisfy every
// invariant; on failure the returned error carries the full violation
// batch and the active config stays in force.
//
// The change list covers only fields whose value actually changed, in
// canonical field order. Unknown incoming keys are returned for
// diagnostics and excluded from the merged config.
func Merge(active *StrategyConfig, incoming Document) (*StrategyConfig, []FieldChange, []string, error) {
	if active == nil {
		return nil, nil, nil, fmt.Errorf("no active config to merge against")
	}

	merged := active.Document()
	var unknown []string
	for key, value := range incoming {
		if key == versionKey || knownFields[key] {
			merged[key] = value
		} else {
			unknown = append(unknown, key)
		}
	}

	next, _, err := Parse(merged)
	if err != nil {
		return nil, nil, unknown, err
	}

	return next, Diff(active, next), unknown, nil
}

// Diff lists every field whose value differs between two validated
// configs, in canonical field order.
func Diff(old, new *StrategyConfig) []FieldChange {
	oldDoc, newDoc := old.Document(), new.Document()
	var changes []FieldChange
	for _, key := range fieldOrder {
		before, after := oldDoc[key], newDoc[key]
		if !reflect.DeepEqual(before, after) {
			changes = append(changes, FieldChange{
				Field: key,
				Old:   formatValue(before),
				New:   formatValue(after),
			})
		}
	}
	return changes
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case []string:
		return "[" + strings.Join(val, ", ") + "]"
	default:
		return fmt.Sprintf("%v", v)
	}
}
