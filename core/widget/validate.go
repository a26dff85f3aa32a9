package widget

import (
	"errors"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/openwidget/widgetkit/core"
)

// configSchema is the structural JSON schema for a widget configuration.
// Semantic rules that a JSON schema cannot express (uniqueness, parameter
// references, form nesting) are checked in Go below.
const configSchema = `{
	"$id": "widgetkit/config.json",
	"type": "object",
	"required": ["name", "endpoint", "type"],
	"properties": {
		"id": {"type": "string"},
		"name": {"type": "string", "minLength": 1},
		"description": {"type": "string"},
		"endpoint": {"type": "string", "minLength": 1},
		"type": {"type": "string"},
		"gridData": {
			"type": "object",
			"required": ["w", "h"],
			"properties": {
				"w": {"type": "integer", "minimum": 1},
				"h": {"type": "integer", "minimum": 1}
			}
		},
		"refetchInterval": {"type": "integer", "minimum": 0},
		"staleTime": {"type": "integer", "minimum": 0},
		"params": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["paramName", "type"],
				"properties": {
					"paramName": {"type": "string", "minLength": 1},
					"type": {"type": "string"}
				}
			}
		}
	}
}`

var configSchemaValidator *gojsonschema.Schema

func init() {
	var err error
	configSchemaValidator, err = gojsonschema.NewSchema(gojsonschema.NewStringLoader(configSchema))
	if err != nil {
		panic(fmt.Errorf("cannot compile widget configuration schema: %s", err))
	}
}

// Validate checks a widget configuration for structural and semantic
// errors. It is called by Registry.Register; a configuration that does not
// validate is never served to the host.
func (c Config) Validate() error {
	result, err := configSchemaValidator.Validate(gojsonschema.NewGoLoader(c))
	if err != nil {
		return fmt.Errorf("cannot validate configuration: %s", err)
	}
	if !result.Valid() {
		msg := "configuration is not valid:\n"
		for _, e := range result.Errors() {
			msg += fmt.Sprintf("- %s\n", e)
		}
		return errors.New(msg)
	}

	if !c.Type.Valid() {
		return fmt.Errorf("%s is not a valid WidgetType", c.Type)
	}

	if err := validateParams(c.Params, false); err != nil {
		return err
	}

	// dependent dropdowns must reference existing parameters, without cycles
	if _, err := c.ParamDependencies(); err != nil {
		return err
	}
	return nil
}

func validateParams(params []Param, inForm bool) error {
	seen := map[string]bool{}
	for _, p := range params {
		if p.Name == "" {
			return errors.New("parameter without paramName")
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate parameter %q", p.Name)
		}
		seen[p.Name] = true

		if !p.Type.Valid() {
			return fmt.Errorf("parameter %q: %s is not a valid ParamType", p.Name, p.Type)
		}

		switch p.Type {
		case core.ParamTypeButton:
			if !inForm {
				return fmt.Errorf("parameter %q: buttons are only allowed inside forms", p.Name)
			}
		case core.ParamTypeEndpoint:
			if p.OptionsEndpoint == "" {
				return fmt.Errorf("parameter %q: endpoint parameter without optionsEndpoint", p.Name)
			}
		case core.ParamTypeForm:
			if inForm {
				return fmt.Errorf("parameter %q: forms cannot be nested", p.Name)
			}
			if p.Endpoint == "" {
				return fmt.Errorf("parameter %q: form parameter without submission endpoint", p.Name)
			}
			if len(p.InputParams) == 0 {
				return fmt.Errorf("parameter %q: form parameter without inputParams", p.Name)
			}
			if err := validateParams(p.InputParams, true); err != nil {
				return fmt.Errorf("parameter %q: %w", p.Name, err)
			}
		}

		if len(p.OptionsParams) > 0 && p.OptionsEndpoint == "" {
			return fmt.Errorf("parameter %q: optionsParams without optionsEndpoint", p.Name)
		}
	}
	return nil
}
