// Package groq implements the Groq adapter as a thin instantiation of
// adapter/compat: Groq serves an OpenAI-wire-compatible Chat Completions
// endpoint over its own LPU inference stack.
package groq

import (
	"github.com/flowline-ai/genai/adapter/compat"
	"github.com/flowline-ai/genai/chat"
)

const defaultEndpoint chat.Endpoint = "https://api.groq.com/openai/v1"
const defaultEnvVar = "GROQ_API_KEY"

// StaticModels lists the model names that route to Groq during resolution
// by static-list membership (Groq names carry no distinguishing prefix).
var StaticModels = []chat.ModelName{
	"llama-3.1-8b-instant",
	"llama-3.3-70b-versatile",
	"llama3-70b-8192",
	"llama3-8b-8192",
	"mixtral-8x7b-32768",
	"gemma2-9b-it",
}

// New returns the Groq adapter.
func New() *compat.Provider {
	return compat.New(chat.AdapterGroq, defaultEndpoint, defaultEnvVar, StaticModels, false)
}
