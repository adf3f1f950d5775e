// Package openai implements the OpenAI Chat Completions adapter. It is a
// thin instantiation of adapter/compat's shared OpenAI-wire builder with
// OpenAI's own defaults; OpenAI is the provider the wire format is modeled
// on; everything else in adapter/compat came from generalizing this one.
package openai

import (
	"github.com/flowline-ai/genai/adapter/compat"
	"github.com/flowline-ai/genai/chat"
)

const defaultEndpoint chat.Endpoint = "https://api.openai.com/v1"
const defaultEnvVar = "OPENAI_API_KEY"

var staticModels = []chat.ModelName{
	"gpt-4o",
	"gpt-4o-mini",
	"gpt-4.1",
	"gpt-4.1-mini",
	"gpt-4.1-nano",
	"gpt-4-turbo",
	"gpt-3.5-turbo",
	"o1",
	"o1-mini",
	"o3",
	"o3-mini",
	"o4-mini",
}

// New returns the OpenAI adapter.
func New() *compat.Provider {
	return compat.New(chat.AdapterOpenAI, defaultEndpoint, defaultEnvVar, staticModels, true)
}
