/*Package widget provides the widget-configuration model and the widget registry.

A widget is an endpoint on the backend plus the metadata the dashboard host
needs to render it: name, type, grid layout and parameter schema. Widgets are
registered with a Registry, which serves the complete configuration mapping
as a single JSON object, keyed by endpoint.
*/
package widget

import (
	"github.com/openwidget/widgetkit/core"
)

// GridData describes the widget's footprint on the dashboard grid
type GridData struct {
	X    *int `json:"x,omitempty"`
	Y    *int `json:"y,omitempty"`
	W    int  `json:"w"`
	H    int  `json:"h"`
	MinW int  `json:"minW,omitempty"`
	MinH int  `json:"minH,omitempty"`
	MaxW int  `json:"maxW,omitempty"`
	MaxH int  `json:"maxH,omitempty"`
}

// ExtraInfo is additional display information for a dropdown option
type ExtraInfo struct {
	Description        string `json:"description,omitempty"`
	RightOfDescription string `json:"rightOfDescription,omitempty"`
}

// Option is one selectable option of a dropdown parameter. Options
// endpoints return lists of these.
type Option struct {
	Label     string     `json:"label"`
	Value     string     `json:"value"`
	ExtraInfo *ExtraInfo `json:"extraInfo,omitempty"`
}

// Style customizes the rendering of a parameter input
type Style struct {
	PopupWidth int `json:"popupWidth,omitempty"`
}

// Param describes one parameter of a widget.
//
// A parameter of type "endpoint" gets its options from OptionsEndpoint.
// OptionsParams are passed to that endpoint as query parameters; a value of
// the form "$name" references the current value of the parameter "name" of
// the same widget, which is how dependent dropdowns are chained.
//
// A parameter of type "form" turns the widget into an entry form: Endpoint
// names the submission route and InputParams describe the form fields,
// including "button" parameters that trigger the submission.
type Param struct {
	Name            string            `json:"paramName"`
	Label           string            `json:"label,omitempty"`
	Description     string            `json:"description,omitempty"`
	Value           interface{}       `json:"value,omitempty"`
	Type            core.ParamType    `json:"type"`
	Show            *bool             `json:"show,omitempty"`
	MultiSelect     bool              `json:"multiSelect,omitempty"`
	Options         []Option          `json:"options,omitempty"`
	OptionsEndpoint string            `json:"optionsEndpoint,omitempty"`
	OptionsParams   map[string]string `json:"optionsParams,omitempty"`
	Style           *Style            `json:"style,omitempty"`

	// form parameters only
	Endpoint    string  `json:"endpoint,omitempty"`
	InputParams []Param `json:"inputParams,omitempty"`
}

// ColumnDef describes one column of a table widget
type ColumnDef struct {
	Field          string                 `json:"field"`
	HeaderName     string                 `json:"headerName,omitempty"`
	HeaderTooltip  string                 `json:"headerTooltip,omitempty"`
	CellDataType   string                 `json:"cellDataType,omitempty"`
	ChartDataType  string                 `json:"chartDataType,omitempty"`
	FormatterFn    string                 `json:"formatterFn,omitempty"`
	RenderFn       string                 `json:"renderFn,omitempty"`
	RenderFnParams map[string]interface{} `json:"renderFnParams,omitempty"`
	Width          int                    `json:"width,omitempty"`
	MinWidth       int                    `json:"minWidth,omitempty"`
	MaxWidth       int                    `json:"maxWidth,omitempty"`
	Pinned         string                 `json:"pinned,omitempty"`
	Hide           bool                   `json:"hide,omitempty"`
}

// ChartView configures the default chart rendering of a table widget
type ChartView struct {
	Enabled   bool   `json:"enabled"`
	ChartType string `json:"chartType,omitempty"`
}

// TableData configures the table rendering of a widget
type TableData struct {
	EnableCharts bool        `json:"enableCharts,omitempty"`
	ShowAll      *bool       `json:"showAll,omitempty"`
	ChartView    *ChartView  `json:"chartView,omitempty"`
	ColumnsDefs  []ColumnDef `json:"columnsDefs,omitempty"`
}

// Data holds type-specific rendering configuration
type Data struct {
	Table *TableData `json:"table,omitempty"`
}

// Config is the complete configuration of one widget as served in the
// registry mapping
type Config struct {
	ID              string          `json:"id,omitempty"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	Category        string          `json:"category,omitempty"`
	Subcategory     string          `json:"subcategory,omitempty"`
	SearchCategory  string          `json:"searchCategory,omitempty"`
	Endpoint        string          `json:"endpoint"`
	Type            core.WidgetType `json:"type"`
	GridData        *GridData       `json:"gridData,omitempty"`
	RunButton       bool            `json:"runButton,omitempty"`
	RefetchInterval int             `json:"refetchInterval,omitempty"`
	StaleTime       int             `json:"staleTime,omitempty"`
	Params          []Param         `json:"params,omitempty"`
	Data            *Data           `json:"data,omitempty"`
	Source          []string        `json:"source,omitempty"`
}
