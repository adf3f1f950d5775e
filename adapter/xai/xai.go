// Package xai implements the xAI (Grok) adapter as a thin instantiation of
// adapter/compat. xAI's chat/completions wire format is OpenAI-compatible;
// model names are matched by the "grok*" prefix during resolution rather
// than a static list.
package xai

import (
	"github.com/flowline-ai/genai/adapter/compat"
	"github.com/flowline-ai/genai/chat"
)

const defaultEndpoint chat.Endpoint = "https://api.x.ai/v1"
const defaultEnvVar = "XAI_API_KEY"

var staticModels = []chat.ModelName{
	"grok-3",
	"grok-3-mini",
	"grok-2",
	"grok-2-vision",
}

// New returns the xAI adapter.
func New() *compat.Provider {
	return compat.New(chat.AdapterXAI, defaultEndpoint, defaultEnvVar, staticModels, false)
}
