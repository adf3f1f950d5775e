package adapter

import (
	"github.com/flowline-ai/genai/adapter/anthropic"
	"github.com/flowline-ai/genai/adapter/bedrock"
	"github.com/flowline-ai/genai/adapter/cohere"
	"github.com/flowline-ai/genai/adapter/deepseek"
	"github.com/flowline-ai/genai/adapter/fireworks"
	"github.com/flowline-ai/genai/adapter/gemini"
	"github.com/flowline-ai/genai/adapter/groq"
	"github.com/flowline-ai/genai/adapter/mimo"
	"github.com/flowline-ai/genai/adapter/nebius"
	"github.com/flowline-ai/genai/adapter/ollama"
	"github.com/flowline-ai/genai/adapter/openai"
	"github.com/flowline-ai/genai/adapter/openairesp"
	"github.com/flowline-ai/genai/adapter/openrouter"
	"github.com/flowline-ai/genai/adapter/together"
	"github.com/flowline-ai/genai/adapter/xai"
	"github.com/flowline-ai/genai/adapter/zai"
	"github.com/flowline-ai/genai/adapter/zhipu"
	"github.com/flowline-ai/genai/chat"
)

// registry is the fixed AdapterKind -> Adapter table every root client
// dispatches through. Built once at package init; adapters carry no
// per-instance state, so a single shared instance per kind is safe to
// reuse across every client and goroutine.
var registry = map[chat.AdapterKind]Adapter{
	chat.AdapterOpenAI:     openai.New(),
	chat.AdapterOpenAIResp: openairesp.New(),
	chat.AdapterAnthropic:  anthropic.New(),
	chat.AdapterGemini:     gemini.New(),
	chat.AdapterCohere:     cohere.New(),
	chat.AdapterOllama:     ollama.New(),
	chat.AdapterBedrock:    bedrock.New(),
	chat.AdapterGroq:       groq.New(),
	chat.AdapterXAI:        xai.New(),
	chat.AdapterDeepSeek:   deepseek.New(),
	chat.AdapterTogether:   together.New(),
	chat.AdapterFireworks:  fireworks.New(),
	chat.AdapterZhipu:      zhipu.New(),
	chat.AdapterZAI:        zai.New(),
	chat.AdapterNebius:     nebius.New(),
	chat.AdapterMimo:       mimo.New(),
	chat.AdapterOpenRouter: openrouter.New(),
}

// Dispatch returns the Adapter registered for kind, or false if no
// adapter serves it.
func Dispatch(kind chat.AdapterKind) (Adapter, bool) {
	a, ok := registry[kind]
	return a, ok
}

// Kinds returns every AdapterKind with a registered Adapter, in no
// particular order.
func Kinds() []chat.AdapterKind {
	kinds := make([]chat.AdapterKind, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	return kinds
}
