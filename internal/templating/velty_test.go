package templating

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpand(t *testing.T) {
	testCases := []struct {
		description string
		template    string
		vars        map[string]interface{}
		expected    string
	}{
		{
			description: "plain text",
			template:    "Hello, I need some help.",
			expected:    "Hello, I need some help.",
		},
		{
			description: "variable substitution",
			template:    "Welcome to ${store}!",
			vars:        map[string]interface{}{"store": "The Home Depot"},
			expected:    "Welcome to The Home Depot!",
		},
		{
			description: "multiple sections",
			template:    "${base}\n\nPERSONALITY:\n${personality}",
			vars:        map[string]interface{}{"base": "You are a customer.", "personality": "Impatient."},
			expected:    "You are a customer.\n\nPERSONALITY:\nImpatient.",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			actual, err := Expand(tc.template, tc.vars)
			assert.NoError(t, err)
			assert.EqualValues(t, tc.expected, actual)
		})
	}
}
