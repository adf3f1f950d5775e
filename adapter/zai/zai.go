// Package zai implements the Z.AI adapter as a thin instantiation of
// adapter/compat. Z.AI serves the current GLM model lineup over an
// OpenAI-compatible endpoint; the "coding" namespace alias and glm*
// name-heuristic resolution both land here unless the model is a legacy
// variant covered by Zhipu's own static list instead (see
// adapter/zhipu and resolver's glm-3-turbo special case).
package zai

import (
	"github.com/flowline-ai/genai/adapter/compat"
	"github.com/flowline-ai/genai/chat"
)

const defaultEndpoint chat.Endpoint = "https://api.z.ai/api/paas/v4"
const defaultEnvVar = "ZAI_API_KEY"

// StaticModels lists the current GLM model names Z.AI serves. Notably
// excludes legacy "-turbo" variants, which the resolver routes to Zhipu
// instead.
var StaticModels = []chat.ModelName{
	"glm-4.6",
	"glm-4.5",
	"glm-4.5-air",
	"glm-4-plus",
}

// New returns the Z.AI adapter.
func New() *compat.Provider {
	return compat.New(chat.AdapterZAI, defaultEndpoint, defaultEnvVar, StaticModels, true)
}
