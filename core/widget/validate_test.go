package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openwidget/widgetkit/core"
)

func TestValidate(t *testing.T) {
	cfg := Config{
		Name:        "Table Widget",
		Description: "A table widget",
		Endpoint:    "table_widget",
		Type:        core.WidgetTypeTable,
		GridData:    &GridData{W: 20, H: 6},
		Data: &Data{Table: &TableData{
			ColumnsDefs: []ColumnDef{
				{Field: "name", HeaderName: "Asset", CellDataType: "text"},
				{Field: "tvl", HeaderName: "TVL (USD)", CellDataType: "number", FormatterFn: "int"},
			},
		}},
	}
	assert.NoError(t, cfg.Validate())
}

func TestValidateAllWidgetTypes(t *testing.T) {
	// every type the host knows is a valid configuration type, including
	// types whose data is produced elsewhere
	for _, typ := range []core.WidgetType{
		core.WidgetTypeMarkdown, core.WidgetTypeTable, core.WidgetTypeMetric,
		core.WidgetTypeChart, core.WidgetTypePDF, core.WidgetTypeOmni,
		core.WidgetTypeLiveGrid,
	} {
		cfg := Config{Name: "Widget", Endpoint: "widget", Type: typ}
		assert.NoError(t, cfg.Validate(), typ)
	}
}

func TestValidateMissingFields(t *testing.T) {
	assert.Error(t, Config{Endpoint: "e", Type: core.WidgetTypeMarkdown}.Validate(), "name is required")
	assert.Error(t, Config{Name: "n", Type: core.WidgetTypeMarkdown}.Validate(), "endpoint is required")
	assert.Error(t, Config{Name: "n", Endpoint: "e"}.Validate(), "type is required")
	assert.Error(t, Config{Name: "n", Endpoint: "e", Type: "sparkline"}.Validate(), "unknown type")
}

func TestValidateGridData(t *testing.T) {
	cfg := Config{
		Name:     "Widget",
		Endpoint: "widget",
		Type:     core.WidgetTypeMarkdown,
		GridData: &GridData{W: 0, H: 4},
	}
	assert.Error(t, cfg.Validate())
}

func TestValidateParams(t *testing.T) {
	base := func(params ...Param) Config {
		return Config{
			Name:     "Widget",
			Endpoint: "widget",
			Type:     core.WidgetTypeMarkdown,
			Params:   params,
		}
	}

	assert.Error(t, base(Param{Type: core.ParamTypeText}).Validate(),
		"paramName is required")
	assert.Error(t, base(
		Param{Name: "x", Type: core.ParamTypeText},
		Param{Name: "x", Type: core.ParamTypeText},
	).Validate(), "duplicate paramName")
	assert.Error(t, base(Param{Name: "x", Type: "dropdown"}).Validate(),
		"unknown param type")
	assert.Error(t, base(Param{Name: "x", Type: core.ParamTypeEndpoint}).Validate(),
		"endpoint param needs optionsEndpoint")
	assert.Error(t, base(Param{Name: "x", Type: core.ParamTypeButton}).Validate(),
		"buttons only inside forms")
	assert.Error(t, base(Param{
		Name: "x", Type: core.ParamTypeText,
		OptionsParams: map[string]string{"a": "b"},
	}).Validate(), "optionsParams without optionsEndpoint")

	ok := base(Param{
		Name:  "date_picker",
		Label: "Select Date",
		Type:  core.ParamTypeDate,
		Value: "2024-01-04",
	})
	assert.NoError(t, ok.Validate())
}

func TestValidateFormParam(t *testing.T) {
	form := func(p Param) Config {
		return Config{
			Name:     "Entry Form",
			Endpoint: "all_forms",
			Type:     core.WidgetTypeTable,
			Params:   []Param{p},
		}
	}

	valid := Param{
		Name:     "form",
		Type:     core.ParamTypeForm,
		Endpoint: "form_submit",
		InputParams: []Param{
			{Name: "client_first_name", Type: core.ParamTypeText, Label: "First Name"},
			{Name: "add_record", Type: core.ParamTypeButton, Label: "Add Client"},
		},
	}
	assert.NoError(t, form(valid).Validate())

	noEndpoint := valid
	noEndpoint.Endpoint = ""
	assert.Error(t, form(noEndpoint).Validate())

	noInputs := valid
	noInputs.InputParams = nil
	assert.Error(t, form(noInputs).Validate())

	nested := valid
	nested.InputParams = []Param{{
		Name: "inner", Type: core.ParamTypeForm, Endpoint: "x",
		InputParams: []Param{{Name: "y", Type: core.ParamTypeText}},
	}}
	assert.Error(t, form(nested).Validate(), "forms cannot be nested")
}
