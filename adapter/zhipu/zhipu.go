// Package zhipu implements the Zhipu AI (BigModel) adapter as a thin
// instantiation of adapter/compat. It is the fallback home for glm*
// models that aren't in Z.AI's current static list (legacy "-turbo"
// variants in particular).
package zhipu

import (
	"github.com/flowline-ai/genai/adapter/compat"
	"github.com/flowline-ai/genai/chat"
)

const defaultEndpoint chat.Endpoint = "https://open.bigmodel.cn/api/paas/v4"
const defaultEnvVar = "ZHIPU_API_KEY"

// StaticModels lists legacy GLM model names served under Zhipu's own
// endpoint rather than Z.AI's.
var StaticModels = []chat.ModelName{
	"glm-3-turbo",
	"glm-4",
	"glm-4-air",
}

// New returns the Zhipu adapter.
func New() *compat.Provider {
	return compat.New(chat.AdapterZhipu, defaultEndpoint, defaultEnvVar, StaticModels, true)
}
