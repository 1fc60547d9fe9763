package persona

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/convsim/genai/prompt"
)

func TestRegistry(t *testing.T) {
	ctx := context.Background()
	registry := NewRegistry(prompt.NewLibrary(""), &scripted{})

	assert.EqualValues(t, []string{
		"anxious_student", "anxious_tech_user", "confused_elderly", "demanding_customer",
		"demanding_executive", "elderly_homeowner", "frustrated_customer", "frustrated_homeowner",
	}, registry.InitiatorKeys())
	assert.Len(t, registry.Responders(), 2)

	for _, key := range registry.InitiatorKeys() {
		initiator, err := registry.NewInitiator(ctx, key, "llama")
		require.NoError(t, err, key)
		assert.EqualValues(t, key, initiator.ID)
		assert.Contains(t, initiator.Instructions(), "PERSONALITY:")
		assert.Contains(t, initiator.Instructions(), "ROLEPLAY SCENARIO:")
	}

	responder, err := registry.NewResponder(ctx, "homedepot", "llama")
	require.NoError(t, err)
	assert.EqualValues(t, "homedepot_agent", responder.ID)
	assert.EqualValues(t, HomeDepotGreeting, responder.Greeting())
	assert.Contains(t, responder.Instructions(), "The Home Depot")

	generic, err := registry.NewResponder(ctx, "default", "llama")
	require.NoError(t, err)
	assert.Empty(t, generic.Greeting())

	_, err = registry.NewInitiator(ctx, "pirate", "llama")
	assert.ErrorIs(t, err, ErrInvalidSelection)
	_, err = registry.NewResponder(ctx, "bank", "llama")
	assert.ErrorIs(t, err, ErrInvalidSelection)

	assert.NoError(t, registry.Validate([]string{"anxious_student"}, "homedepot"))
	assert.ErrorIs(t, registry.Validate([]string{"anxious_student", "pirate"}, "homedepot"), ErrInvalidSelection)
	assert.ErrorIs(t, registry.Validate(nil, "bank"), ErrInvalidSelection)
}
