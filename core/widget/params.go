package widget

import (
	"fmt"
	"strings"
)

// Dependency is one edge in a widget's parameter dependency graph: Param
// gets its options from an endpoint that is queried with the current value
// of DependsOn.
type Dependency struct {
	Param     string
	DependsOn string
}

// refNames returns the names of all parameters referenced by this
// parameter's optionsParams, i.e. all "$name" values
func (p Param) refNames() []string {
	var refs []string
	for _, value := range p.OptionsParams {
		if name, ok := strings.CutPrefix(value, "$"); ok {
			refs = append(refs, name)
		}
	}
	return refs
}

// ParamDependencies returns the dependency edges between this widget's
// parameters, in parameter declaration order.
//
// A reference to a parameter that does not exist in the widget is an
// error, and so is a reference cycle. Both would leave the host unable to
// resolve the options of the dependent dropdown.
func (c Config) ParamDependencies() ([]Dependency, error) {
	byName := map[string]Param{}
	for _, p := range c.Params {
		byName[p.Name] = p
	}

	var deps []Dependency
	for _, p := range c.Params {
		for _, ref := range p.refNames() {
			if _, ok := byName[ref]; !ok {
				return nil, fmt.Errorf("parameter %q references unknown parameter %q", p.Name, ref)
			}
			deps = append(deps, Dependency{Param: p.Name, DependsOn: ref})
		}
	}

	// cycle check with a plain three-color depth-first search
	const (
		white = iota
		grey
		black
	)
	color := map[string]int{}
	var visit func(name string) error
	visit = func(name string) error {
		color[name] = grey
		for _, ref := range byName[name].refNames() {
			switch color[ref] {
			case grey:
				return fmt.Errorf("parameter dependency cycle through %q", ref)
			case white:
				if err := visit(ref); err != nil {
					return err
				}
			}
		}
		color[name] = black
		return nil
	}
	for _, p := range c.Params {
		if color[p.Name] == white {
			if err := visit(p.Name); err != nil {
				return nil, err
			}
		}
	}
	return deps, nil
}

// ResolveOptionsParams resolves the optionsParams of a parameter against
// the given parameter values. "$name" references are replaced with the
// value of "name"; literal values are passed through. A referenced
// parameter with no value resolves to the empty string.
func (p Param) ResolveOptionsParams(values map[string]string) map[string]string {
	if len(p.OptionsParams) == 0 {
		return nil
	}
	resolved := make(map[string]string, len(p.OptionsParams))
	for key, value := range p.OptionsParams {
		if name, ok := strings.CutPrefix(value, "$"); ok {
			resolved[key] = values[name]
		} else {
			resolved[key] = value
		}
	}
	return resolved
}

// Groups computes the cross-widget parameter groups over one or more
// registries: parameter names used by more than one widget, mapped to the
// ids of the widgets that share them, in registration order.
//
// The host uses shared parameter names to group widgets, so that changing
// a parameter in one widget updates all widgets of the group.
func Groups(registries ...*Registry) map[string][]string {
	widgetsByParam := map[string][]string{}
	for _, r := range registries {
		for _, endpoint := range r.endpoints {
			cfg := r.configs[endpoint]
			for _, p := range cfg.Params {
				widgetsByParam[p.Name] = append(widgetsByParam[p.Name], cfg.ID)
			}
		}
	}
	for name, ids := range widgetsByParam {
		if len(ids) < 2 {
			delete(widgetsByParam, name)
		}
	}
	return widgetsByParam
}
