package llm

import "strings"

// ContentType defines the supported asset types.
type ContentType string

const (
	ContentTypeText ContentType = "text"
)

// AssetSource defines the way the asset is provided.
type AssetSource string

const (
	SourceRaw AssetSource = "raw"
)

// ContentItem is a universal representation of any content asset in the message.
type ContentItem struct {
	// Type indicates the type of the content.
	Type ContentType `json:"type"`

	// Source indicates how the asset is provided.
	Source AssetSource `json:"source"`

	// Data is the actual content of the asset.
	Data string `json:"data,omitempty"`
}

// MessageRole represents the role of the message sender.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

func (m MessageRole) String() string {
	return string(m)
}

// Message is a generic chat message.
type Message struct {
	// Role of the sender (user, assistant, system)
	Role MessageRole `json:"role"`

	// Name is the optional sender name.
	Name string `json:"name,omitempty"`

	// Items contains content assets.
	Items []ContentItem `json:"items,omitempty"`

	// Content is the plain text form of the message.
	Content string `json:"content,omitempty"`
}

// Text returns message text, preferring Content over text items.
func (m *Message) Text() string {
	if m.Content != "" {
		return m.Content
	}
	var builder strings.Builder
	for _, item := range m.Items {
		if item.Type != ContentTypeText {
			continue
		}
		builder.WriteString(item.Data)
	}
	return builder.String()
}

// GenerateRequest represents a request to a chat-based LLM.
// It is designed to be compatible with various LLM providers.
type GenerateRequest struct {
	// Messages is the list of messages in the conversation.
	Messages []Message `json:"messages"`

	// Options contains additional options for the request.
	Options *Options `json:"options,omitempty"`
}

// GenerateResponse represents a response from a chat-based LLM.
type GenerateResponse struct {
	// Choices contains the generated responses.
	Choices []Choice `json:"choices"`

	// Usage contains token usage information.
	Usage *Usage `json:"usage,omitempty"`
	Model string `json:"model,omitempty"`
}

// Text returns the text of the first choice, or empty string when nothing was generated.
func (r *GenerateResponse) Text() string {
	if r == nil || len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Text()
}

// Choice represents a single response choice from a chat-based LLM.
type Choice struct {
	// Index is the index of the choice.
	Index int `json:"index"`

	// Message is the generated message.
	Message Message `json:"message"`

	// FinishReason is the reason why the generation stopped.
	FinishReason string `json:"finish_reason,omitempty"`
}

// Usage contains token usage information.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
	CachedTokens     int `json:"cached_tokens,omitempty"`
}

type Messages []Message

func (m *Messages) Append(msg Message) {
	*m = append(*m, msg)
}

// NewUserMessage creates a new message with the "user" role.
func NewUserMessage(content string) Message {
	return NewTextMessage(RoleUser, content)
}

// NewSystemMessage creates a new message with the "system" role.
func NewSystemMessage(content string) Message {
	return NewTextMessage(RoleSystem, content)
}

// NewAssistantMessage creates a new message with the "assistant" role.
func NewAssistantMessage(content string) Message {
	return NewTextMessage(RoleAssistant, content)
}

// NewTextContent creates a new text content item.
func NewTextContent(text string) ContentItem {
	return ContentItem{
		Type:   ContentTypeText,
		Source: SourceRaw,
		Data:   text,
	}
}

// NewTextMessage creates a text-only message for the given role.
func NewTextMessage(role MessageRole, content string) Message {
	return Message{
		Role:    role,
		Items:   []ContentItem{NewTextContent(content)},
		Content: content,
	}
}
