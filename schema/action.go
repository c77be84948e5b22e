package schema

import (
	"encoding/json"
	"fmt"
)

// ActionGroup is the category an action belongs to.
type ActionGroup struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Action is a climate action with its impact and optional cost series.
type Action struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Color        string       `json:"color,omitempty"`
	Group        *ActionGroup `json:"group,omitempty"`
	ImpactMetric Metric       `json:"impactMetric"`
	CostMetric   *Metric      `json:"costMetric,omitempty"`
	Parameters   Parameters   `json:"parameters,omitempty"`
}

// DisplayColor returns the action color, falling back to the group color.
func (a Action) DisplayColor() string {
	return colorFallback(a.Color, a.Group)
}

// ActionRef identifies an action inside an impact overview.
type ActionRef struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Color string       `json:"color,omitempty"`
	Group *ActionGroup `json:"group,omitempty"`
}

// ActionImpact is the per-action entry of an impact overview.
type ActionImpact struct {
	Action                   ActionRef     `json:"action"`
	UnitAdjustmentMultiplier *float64      `json:"unitAdjustmentMultiplier,omitempty"`
	CostValues               []MetricPoint `json:"costValues"`
	ImpactValues             []MetricPoint `json:"impactValues"`
}

// ImpactOverview pairs a cost metric and an impact metric for efficiency ranking.
type ImpactOverview struct {
	ID                    string         `json:"id"`
	Label                 string         `json:"label"`
	IndicatorUnit         string         `json:"indicatorUnit"`
	CostUnit              string         `json:"costUnit,omitempty"`
	EffectUnit            string         `json:"effectUnit,omitempty"`
	PlotLimitForIndicator *float64       `json:"plotLimitForIndicator,omitempty"`
	Actions               []ActionImpact `json:"actions"`
}

// RankedAction carries the derived cumulative totals of one action for a
// single year window. It is recomputed whenever the window changes.
type RankedAction struct {
	ID                   string       `json:"id"`
	Name                 string       `json:"name"`
	Color                string       `json:"color,omitempty"`
	Group                *ActionGroup `json:"group,omitempty"`
	CumulativeImpact     float64      `json:"cumulativeImpact"`
	CumulativeCost       *float64     `json:"cumulativeCost,omitempty"`
	CumulativeEfficiency *float64     `json:"cumulativeEfficiency,omitempty"`
}

// DisplayColor returns the action color, falling back to the group color.
func (r RankedAction) DisplayColor() string {
	return colorFallback(r.Color, r.Group)
}

// GroupID returns the group id, or an empty string for ungrouped actions.
func (r RankedAction) GroupID() string {
	if r.Group == nil {
		return ""
	}
	return r.Group.ID
}

func colorFallback(color string, group *ActionGroup) string {
	if color != "" {
		return color
	}
	if group != nil {
		return group.Color
	}
	return ""
}

// ParameterKind is the GraphQL typename of a parameter variant.
type ParameterKind string

// All parameter kinds supported.
const (
	NumberParameterKind ParameterKind = "NumberParameterType"
	BoolParameterKind   ParameterKind = "BoolParameterType"
	StringParameterKind ParameterKind = "StringParameterType"
)

// Parameter is one of NumberParameter, BoolParameter or StringParameter.
type Parameter interface {
	ParameterID() string
	Kind() ParameterKind
}

// ParameterBase holds the fields shared by every parameter variant.
type ParameterBase struct {
	ID             string `json:"id"`
	Label          string `json:"label,omitempty"`
	Description    string `json:"description,omitempty"`
	IsCustomized   bool   `json:"isCustomized"`
	IsCustomizable bool   `json:"isCustomizable"`
}

// ParameterID returns the parameter identifier.
func (p ParameterBase) ParameterID() string { return p.ID }

// NumberParameter is a numeric slider-style parameter.
type NumberParameter struct {
	ParameterBase
	Value        *float64 `json:"value"`
	DefaultValue *float64 `json:"defaultValue,omitempty"`
	MinValue     *float64 `json:"minValue,omitempty"`
	MaxValue     *float64 `json:"maxValue,omitempty"`
	Step         *float64 `json:"step,omitempty"`
	Unit         string   `json:"unit,omitempty"`
}

// Kind implements Parameter.
func (NumberParameter) Kind() ParameterKind { return NumberParameterKind }

// MarshalJSON adds the __typename discriminator.
func (p NumberParameter) MarshalJSON() ([]byte, error) {
	type alias NumberParameter
	return json.Marshal(struct {
		Typename ParameterKind `json:"__typename"`
		alias
	}{NumberParameterKind, alias(p)})
}

// BoolParameter is an on/off parameter.
type BoolParameter struct {
	ParameterBase
	Value        *bool `json:"value"`
	DefaultValue *bool `json:"defaultValue,omitempty"`
}

// Kind implements Parameter.
func (BoolParameter) Kind() ParameterKind { return BoolParameterKind }

// MarshalJSON adds the __typename discriminator.
func (p BoolParameter) MarshalJSON() ([]byte, error) {
	type alias BoolParameter
	return json.Marshal(struct {
		Typename ParameterKind `json:"__typename"`
		alias
	}{BoolParameterKind, alias(p)})
}

// StringParameter is a free-text or choice parameter.
type StringParameter struct {
	ParameterBase
	Value        *string `json:"value"`
	DefaultValue *string `json:"defaultValue,omitempty"`
}

// Kind implements Parameter.
func (StringParameter) Kind() ParameterKind { return StringParameterKind }

// MarshalJSON adds the __typename discriminator.
func (p StringParameter) MarshalJSON() ([]byte, error) {
	type alias StringParameter
	return json.Marshal(struct {
		Typename ParameterKind `json:"__typename"`
		alias
	}{StringParameterKind, alias(p)})
}

// Parameters decodes a list of parameter variants keyed by __typename.
type Parameters []Parameter

// UnmarshalJSON dispatches every element on its __typename.
func (ps *Parameters) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}

	out := make(Parameters, 0, len(raws))
	for i, raw := range raws {
		var head struct {
			Typename ParameterKind `json:"__typename"`
		}
		if err := json.Unmarshal(raw, &head); err != nil {
			return fmt.Errorf("parameter %d: %w", i, err)
		}

		var p Parameter
		var err error
		switch head.Typename {
		case NumberParameterKind:
			var np NumberParameter
			err = json.Unmarshal(raw, &np)
			p = np
		case BoolParameterKind:
			var bp BoolParameter
			err = json.Unmarshal(raw, &bp)
			p = bp
		case StringParameterKind:
			var sp StringParameter
			err = json.Unmarshal(raw, &sp)
			p = sp
		default:
			return fmt.Errorf("parameter %d: unknown __typename %q", i, head.Typename)
		}
		if err != nil {
			return fmt.Errorf("parameter %d: %w", i, err)
		}
		out = append(out, p)
	}

	*ps = out
	return nil
}
