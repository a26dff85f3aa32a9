/*
Package forms provides form widgets with persistent records.

A form widget is a table widget with a form parameter: the dashboard
host renders the form inputs, posts submissions to the submit endpoint
and shows the stored records in the table. The package validates
submissions, dispatches between adding and updating records and keeps
the records in a pluggable store.
*/
package forms

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/xeipuuv/gojsonschema"

	"github.com/openwidget/widgetkit/core"
	"github.com/openwidget/widgetkit/core/pointers"
	"github.com/openwidget/widgetkit/core/widget"
)

// Reserved field names added to every stored record
const (
	FieldRecordID    = "record_id"
	FieldSubmittedAt = "submitted_at"
)

// Record is a single stored form submission. All values are stored as
// strings; list selections are joined with commas.
type Record map[string]string

// Definition describes one form widget
type Definition struct {
	// Name is the identifier of the form, also used as paramName of the
	// form parameter. Mandatory.
	Name string
	// Title is the human readable widget name. Mandatory.
	Title       string
	Description string
	Category    string
	GridData    *widget.GridData

	// SubmitEndpoint receives form submissions via POST. Mandatory.
	SubmitEndpoint string
	// ListEndpoint serves the stored records via GET. Mandatory.
	ListEndpoint string

	// Inputs are the form inputs, including the submit buttons
	Inputs []widget.Param

	// RequiredFields must be non-empty when adding a record
	RequiredFields []string
	// KeyFields identify the record to change when updating
	KeyFields []string

	// AddButton and UpdateButton are the paramNames of the submit
	// buttons. They default to "add_record" and "update_record".
	AddButton    string
	UpdateButton string

	schema *gojsonschema.Schema
}

func (d *Definition) validate() error {
	if d.Name == "" {
		return fmt.Errorf("form: name is missing")
	}
	if d.Title == "" {
		return fmt.Errorf("form %q: title is missing", d.Name)
	}
	if d.SubmitEndpoint == "" || d.ListEndpoint == "" {
		return fmt.Errorf("form %q: submit and list endpoints are mandatory", d.Name)
	}
	if d.AddButton == "" {
		d.AddButton = "add_record"
	}
	if d.UpdateButton == "" {
		d.UpdateButton = "update_record"
	}

	fields := d.FieldNames()
	if len(fields) == 0 {
		return fmt.Errorf("form %q: needs at least one input field", d.Name)
	}
	known := map[string]bool{}
	for _, name := range fields {
		known[name] = true
	}
	for _, name := range d.RequiredFields {
		if !known[name] {
			return fmt.Errorf("form %q: unknown required field %q", d.Name, name)
		}
	}
	for _, name := range d.KeyFields {
		if !known[name] {
			return fmt.Errorf("form %q: unknown key field %q", d.Name, name)
		}
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(d.payloadSchema()))
	if err != nil {
		return fmt.Errorf("form %q: %w", d.Name, err)
	}
	d.schema = schema
	return nil
}

// FieldNames returns the names of all inputs that carry data, in input
// order. Buttons are not fields.
func (d *Definition) FieldNames() []string {
	var names []string
	for _, input := range d.Inputs {
		if input.Type == core.ParamTypeButton {
			continue
		}
		names = append(names, input.Name)
	}
	return names
}

// payloadSchema generates the JSON schema for submitted payloads from
// the input definitions
func (d *Definition) payloadSchema() map[string]interface{} {
	properties := map[string]interface{}{}
	for _, input := range d.Inputs {
		var types []string
		switch input.Type {
		case core.ParamTypeNumber:
			types = []string{"number", "string", "null"}
		case core.ParamTypeBoolean, core.ParamTypeButton:
			types = []string{"boolean", "string", "null"}
		case core.ParamTypeEndpoint:
			types = []string{"string", "array", "null"}
		default:
			types = []string{"string", "null"}
		}
		properties[input.Name] = map[string]interface{}{"type": types}
	}
	// unknown fields are allowed and stored as given
	return map[string]interface{}{
		"$schema":    "http://json-schema.org/draft-07/schema#",
		"type":       "object",
		"properties": properties,
	}
}

// ValidatePayload validates a submitted payload against the generated
// schema. It returns a single error message suitable for the dashboard
// host.
func (d *Definition) ValidatePayload(payload map[string]interface{}) error {
	result, err := d.schema.Validate(gojsonschema.NewGoLoader(payload))
	if err != nil {
		return err
	}
	if !result.Valid() {
		var messages []string
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
		}
		return fmt.Errorf("%s", strings.Join(messages, "; "))
	}
	return nil
}

// normalize converts a validated payload into a flat record. Buttons
// are dropped, list selections are joined with commas and everything
// else is rendered as a string.
func (d *Definition) normalize(payload map[string]interface{}) Record {
	buttons := map[string]bool{d.AddButton: true, d.UpdateButton: true}
	for _, input := range d.Inputs {
		if input.Type == core.ParamTypeButton {
			buttons[input.Name] = true
		}
	}

	record := Record{}
	for name, value := range payload {
		if buttons[name] {
			continue
		}
		record[name] = stringify(value)
	}
	return record
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []interface{}:
		var parts []string
		for _, item := range v {
			parts = append(parts, stringify(item))
		}
		return strings.Join(parts, ",")
	case float64:
		// render integers without the trailing .0
		jsonData, _ := json.Marshal(v)
		return string(jsonData)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// WidgetConfig returns the widget configuration for this form, a table
// widget with a form parameter
func (d *Definition) WidgetConfig() widget.Config {
	return widget.Config{
		Name:        d.Title,
		Description: d.Description,
		Category:    d.Category,
		Endpoint:    d.ListEndpoint,
		Type:        core.WidgetTypeTable,
		GridData:    d.GridData,
		Params: []widget.Param{{
			Name:        d.Name,
			Description: d.Description,
			Type:        core.ParamTypeForm,
			Endpoint:    d.SubmitEndpoint,
			InputParams: d.Inputs,
			Show:        pointers.BoolPtr(false),
		}},
	}
}
