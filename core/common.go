package core

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// WidgetType represents the rendering type of a widget, one of
// markdown, table, metric, chart, pdf, omni, live_grid
type WidgetType string

// all supported widget types
const (
	WidgetTypeMarkdown WidgetType = "markdown"
	WidgetTypeTable    WidgetType = "table"
	WidgetTypeMetric   WidgetType = "metric"
	WidgetTypeChart    WidgetType = "chart"
	WidgetTypePDF      WidgetType = "pdf"
	WidgetTypeOmni     WidgetType = "omni"
	WidgetTypeLiveGrid WidgetType = "live_grid"
)

// Valid returns true if the widget type is one of the supported types
func (t WidgetType) Valid() bool {
	switch t {
	case WidgetTypeMarkdown, WidgetTypeTable, WidgetTypeMetric, WidgetTypeChart,
		WidgetTypePDF, WidgetTypeOmni, WidgetTypeLiveGrid:
		return true
	}
	return false
}

// UnmarshalJSON is a custom JSON unmarshaller
func (t *WidgetType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = WidgetType(s)
	if !t.Valid() {
		return fmt.Errorf("%s is not a valid WidgetType", s)
	}
	return nil
}

// ParamType represents the input type of a widget parameter, one of
// text, number, boolean, date, endpoint, form, button
type ParamType string

// all supported parameter types
const (
	ParamTypeText     ParamType = "text"
	ParamTypeNumber   ParamType = "number"
	ParamTypeBoolean  ParamType = "boolean"
	ParamTypeDate     ParamType = "date"
	ParamTypeEndpoint ParamType = "endpoint"
	ParamTypeForm     ParamType = "form"
	ParamTypeButton   ParamType = "button"
)

// Valid returns true if the parameter type is one of the supported types
func (t ParamType) Valid() bool {
	switch t {
	case ParamTypeText, ParamTypeNumber, ParamTypeBoolean, ParamTypeDate,
		ParamTypeEndpoint, ParamTypeForm, ParamTypeButton:
		return true
	}
	return false
}

// UnmarshalJSON is a custom JSON unmarshaller
func (t *ParamType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = ParamType(s)
	if !t.Valid() {
		return fmt.Errorf("%s is not a valid ParamType", s)
	}
	return nil
}

// EndpointID returns the canonical identifier for an endpoint.
//
// This is the endpoint with the leading slash removed; it is the key
// used in the widget registry and the default widget id.
func EndpointID(endpoint string) string {
	return strings.TrimPrefix(endpoint, "/")
}

// RoutePath returns the router path for an endpoint, with exactly one
// leading slash
func RoutePath(endpoint string) string {
	return "/" + EndpointID(endpoint)
}
