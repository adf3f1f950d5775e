package adapter_test

import (
	"testing"

	"github.com/flowline-ai/genai/adapter"
	"github.com/flowline-ai/genai/adapter/deepseek"
	"github.com/flowline-ai/genai/adapter/fireworks"
	"github.com/flowline-ai/genai/adapter/groq"
	"github.com/flowline-ai/genai/adapter/mimo"
	"github.com/flowline-ai/genai/adapter/nebius"
	"github.com/flowline-ai/genai/adapter/openai"
	"github.com/flowline-ai/genai/adapter/openrouter"
	"github.com/flowline-ai/genai/adapter/together"
	"github.com/flowline-ai/genai/adapter/xai"
	"github.com/flowline-ai/genai/adapter/zai"
	"github.com/flowline-ai/genai/adapter/zhipu"
	"github.com/flowline-ai/genai/chat"
)

// Every OpenAI-wire-compatible provider must satisfy the full Adapter
// interface and carry a non-empty static model list, since the resolver's
// name-heuristic and namespace paths both depend on ListStaticModels.
func TestOpenAICompatibleProviders_SatisfyAdapterAndHaveStaticModels(t *testing.T) {
	providers := []adapter.Adapter{
		openai.New(),
		groq.New(),
		xai.New(),
		deepseek.New(),
		together.New(),
		fireworks.New(),
		nebius.New(),
		zhipu.New(),
		zai.New(),
		mimo.New(),
		openrouter.New(),
	}
	seen := map[chat.AdapterKind]bool{}
	for _, p := range providers {
		if len(p.ListStaticModels()) == 0 {
			t.Errorf("%s: expected a non-empty static model list", p.Kind())
		}
		if p.DefaultEndpoint() == "" {
			t.Errorf("%s: expected a non-empty default endpoint", p.Kind())
		}
		if seen[p.Kind()] {
			t.Errorf("duplicate AdapterKind %s registered twice", p.Kind())
		}
		seen[p.Kind()] = true
	}
}

func TestZhipuAndZAI_DisjointStaticModelLists(t *testing.T) {
	zaiModels := map[chat.ModelName]bool{}
	for _, m := range zai.StaticModels {
		zaiModels[m] = true
	}
	for _, m := range zhipu.StaticModels {
		if zaiModels[m] {
			t.Errorf("model %q listed under both zai and zhipu static lists", m)
		}
	}
	found := false
	for _, m := range zhipu.StaticModels {
		if m == "glm-3-turbo" {
			found = true
		}
	}
	if !found {
		t.Error("expected glm-3-turbo in Zhipu's static list, not Z.AI's")
	}
}
