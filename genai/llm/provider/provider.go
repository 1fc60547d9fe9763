package provider

const (
	// ProviderOpenAI identifies OpenAI API
	ProviderOpenAI = "openai"

	// ProviderLlama identifies the Llama API OpenAI-compatible endpoint
	ProviderLlama = "llama"

	// ProviderOllama identifies local Ollama OpenAI-compatible API
	ProviderOllama = "ollama"

	// ProviderGeminiAI identifies Google Gemini API
	ProviderGeminiAI = "gemini"
)

const (
	llamaBaseURL  = "https://api.llama.com/compat/v1"
	ollamaBaseURL = "http://localhost:11434/v1"
)

// defaultEnvKeys maps a provider to the environment variable holding its API key.
var defaultEnvKeys = map[string]string{
	ProviderOpenAI:   "OPENAI_API_KEY",
	ProviderLlama:    "LLAMA_API_KEY",
	ProviderGeminiAI: "GEMINI_API_KEY",
}
