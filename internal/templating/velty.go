package templating

import (
	"fmt"
	"strings"

	"github.com/viant/velty"
)

// Expand renders the provided template string using the velty engine and the
// supplied variables. Templates without variable references are returned as is.
func Expand(tmpl string, vars map[string]interface{}) (string, error) {
	if !strings.Contains(tmpl, "$") {
		return tmpl, nil
	}
	planner := velty.New()
	for k, v := range vars {
		if err := planner.DefineVariable(k, v); err != nil {
			return "", fmt.Errorf("failed to define variable %v: %w", k, err)
		}
	}
	exec, newState, err := planner.Compile([]byte(tmpl))
	if err != nil {
		return "", fmt.Errorf("failed to compile template: %w", err)
	}
	state := newState()
	for k, v := range vars {
		if err := state.SetValue(k, v); err != nil {
			return "", fmt.Errorf("failed to set variable %v: %w", k, err)
		}
	}
	if err := exec.Exec(state); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return string(state.Buffer.Bytes()), nil
}
