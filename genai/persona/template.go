package persona

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/convsim/genai/completion"
	"github.com/viant/convsim/genai/prompt"
	"github.com/viant/convsim/internal/registry"
)

// InitiatorTemplate pairs a personality with a problem scenario.
type InitiatorTemplate struct {
	Key         string `json:"key" yaml:"key"`
	Description string `json:"description" yaml:"description"`
	Personality string `json:"personality" yaml:"personality"`
	Scenario    string `json:"scenario" yaml:"scenario"`
}

// ResponderTemplate names a service prompt and its greeting.
type ResponderTemplate struct {
	Key         string `json:"key" yaml:"key"`
	AgentID     string `json:"agentId" yaml:"agentId"`
	Description string `json:"description" yaml:"description"`
	Prompt      string `json:"prompt" yaml:"prompt"`
	Greeting    string `json:"greeting,omitempty" yaml:"greeting,omitempty"`
}

// HomeDepotGreeting opens every conversation with the homedepot responder.
const HomeDepotGreeting = "Hello! Welcome to The Home Depot. I'm here to help you with your home improvement project. What can I assist you with today?"

// InitiatorTemplates lists the built-in Initiator templates.
var InitiatorTemplates = []InitiatorTemplate{
	{Key: "frustrated_customer", Description: "Frustrated customer with delayed materials", Personality: "frustrated", Scenario: "delayed_materials"},
	{Key: "confused_elderly", Description: "Confused elderly user with tool setup problems", Personality: "confused_elderly", Scenario: "tool_setup"},
	{Key: "anxious_student", Description: "Anxious DIYer needing project help", Personality: "anxious", Scenario: "diy_project_help"},
	{Key: "demanding_executive", Description: "Demanding contractor with urgent commercial needs", Personality: "demanding", Scenario: "commercial_urgent"},
	{Key: "frustrated_homeowner", Description: "Frustrated homeowner with home improvement needs", Personality: "frustrated", Scenario: "home_improvement"},
	{Key: "anxious_tech_user", Description: "Anxious user with tool setup problems", Personality: "anxious", Scenario: "tool_setup"},
	{Key: "demanding_customer", Description: "Demanding customer with delayed materials", Personality: "demanding", Scenario: "delayed_materials"},
	{Key: "elderly_homeowner", Description: "Elderly homeowner needing home improvement help", Personality: "confused_elderly", Scenario: "home_improvement"},
}

// ResponderTemplates lists the built-in Responder templates.
var ResponderTemplates = []ResponderTemplate{
	{Key: "homedepot", AgentID: "homedepot_agent", Description: "The Home Depot customer service associate", Prompt: "homedepot", Greeting: HomeDepotGreeting},
	{Key: "default", AgentID: "chat_agent", Description: "Generic customer service representative", Prompt: "default"},
}

// InitiatorConstructor builds an Initiator for a model.
type InitiatorConstructor func(ctx context.Context, modelID string) (*Initiator, error)

// ResponderConstructor builds a Responder for a model.
type ResponderConstructor func(ctx context.Context, modelID string) (*Responder, error)

// Registry maps template keys to persona constructors.
type Registry struct {
	library    *prompt.Library
	completer  completion.Completer
	options    []Option
	initiators *registry.Registry[InitiatorConstructor]
	responders *registry.Registry[ResponderConstructor]
	templates  map[string]InitiatorTemplate
	services   map[string]ResponderTemplate
}

// AddInitiator registers an Initiator template.
func (r *Registry) AddInitiator(template InitiatorTemplate) {
	r.templates[template.Key] = template
	r.initiators.Add(template.Key, func(ctx context.Context, modelID string) (*Initiator, error) {
		base, err := r.library.Load(ctx, prompt.KindBase, prompt.BaseName)
		if err != nil {
			return nil, err
		}
		personality, err := r.library.Load(ctx, prompt.KindPersonality, template.Personality)
		if err != nil {
			return nil, err
		}
		scenario, err := r.library.Load(ctx, prompt.KindScenario, template.Scenario)
		if err != nil {
			return nil, err
		}
		return NewInitiator(ctx, template.Key, modelID, r.completer, base, personality, scenario, r.options...)
	})
}

// AddResponder registers a Responder template.
func (r *Registry) AddResponder(template ResponderTemplate) {
	r.services[template.Key] = template
	r.responders.Add(template.Key, func(ctx context.Context, modelID string) (*Responder, error) {
		instructions, err := r.library.Load(ctx, prompt.KindResponder, template.Prompt)
		if err != nil {
			return nil, err
		}
		agentID := template.AgentID
		if agentID == "" {
			agentID = template.Key
		}
		return NewResponder(agentID, modelID, r.completer, instructions, template.Greeting, r.options...), nil
	})
}

// NewInitiator builds the Initiator registered under key.
func (r *Registry) NewInitiator(ctx context.Context, key, modelID string) (*Initiator, error) {
	constructor, err := r.initiators.Lookup(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown initiator template %q", ErrInvalidSelection, key)
	}
	return constructor(ctx, modelID)
}

// NewResponder builds the Responder registered under key.
func (r *Registry) NewResponder(ctx context.Context, key, modelID string) (*Responder, error) {
	constructor, err := r.responders.Lookup(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown responder template %q", ErrInvalidSelection, key)
	}
	return constructor(ctx, modelID)
}

// Validate rejects unknown keys before any work starts.
func (r *Registry) Validate(initiatorKeys []string, responderKey string) error {
	var unknown []string
	for _, key := range initiatorKeys {
		if _, ok := r.templates[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("%w: unknown initiator templates: %v", ErrInvalidSelection, strings.Join(unknown, ", "))
	}
	if _, ok := r.services[responderKey]; !ok {
		return fmt.Errorf("%w: unknown responder template %q", ErrInvalidSelection, responderKey)
	}
	return nil
}

// InitiatorKeys returns registered Initiator keys in sorted order.
func (r *Registry) InitiatorKeys() []string {
	return r.initiators.Names()
}

// Initiators returns registered Initiator templates ordered by key.
func (r *Registry) Initiators() []InitiatorTemplate {
	var result []InitiatorTemplate
	for _, key := range r.initiators.Names() {
		result = append(result, r.templates[key])
	}
	return result
}

// Responders returns registered Responder templates ordered by key.
func (r *Registry) Responders() []ResponderTemplate {
	var result []ResponderTemplate
	for _, key := range r.responders.Names() {
		result = append(result, r.services[key])
	}
	return result
}

// NewRegistry creates a registry with the built-in templates.
func NewRegistry(library *prompt.Library, completer completion.Completer, options ...Option) *Registry {
	if library == nil {
		library = prompt.NewLibrary("")
	}
	ret := &Registry{
		library:    library,
		completer:  completer,
		options:    options,
		initiators: registry.New[InitiatorConstructor](),
		responders: registry.New[ResponderConstructor](),
		templates:  map[string]InitiatorTemplate{},
		services:   map[string]ResponderTemplate{},
	}
	for _, template := range InitiatorTemplates {
		ret.AddInitiator(template)
	}
	for _, template := range ResponderTemplates {
		ret.AddResponder(template)
	}
	return ret
}

func composeInstructions(ctx context.Context, base, personality, scenario string) (string, error) {
	return prompt.ComposeInitiator(ctx, base, personality, scenario)
}
