package resolver_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowline-ai/genai/chat"
	"github.com/flowline-ai/genai/gaierr"
	"github.com/flowline-ai/genai/resolver"
)

// setAllProviderEnvKeys stubs every keyed adapter's default credential
// variable so a routing-only test can resolve through to a real
// ServiceTarget without tripping materializeAuth's ErrAPIKeyEnvNotFound.
func setAllProviderEnvKeys(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY", "COHERE_API_KEY",
		"XAI_API_KEY", "DEEPSEEK_API_KEY", "GROQ_API_KEY", "ZAI_API_KEY", "ZHIPU_API_KEY",
	} {
		t.Setenv(name, "sk-test")
	}
}

func TestResolve_NameHeuristicsMatchDocumentedScenario(t *testing.T) {
	cases := []struct {
		name    string
		adapter chat.AdapterKind
	}{
		{"gpt-4o", chat.AdapterOpenAI},
		{"claude-3-5-sonnet", chat.AdapterAnthropic},
		{"gemini-2.0-flash", chat.AdapterGemini},
		{"command-r", chat.AdapterCohere},
		{"grok-3", chat.AdapterXAI},
		{"deepseek-chat", chat.AdapterDeepSeek},
		{"llama-3.1-8b-instant", chat.AdapterGroq},
		{"glm-4.6", chat.AdapterZAI},
		{"glm-3-turbo", chat.AdapterZhipu},
		{"mistral", chat.AdapterOllama},
	}

	setAllProviderEnvKeys(t)
	r := resolver.New()
	for _, tc := range cases {
		target, err := r.Resolve(resolver.Bare(chat.ModelName(tc.name)))
		require.NoError(t, err, tc.name)
		require.Equalf(t, tc.adapter, target.Model.AdapterKind, "model %q", tc.name)
	}
}

func TestResolve_GLM3TurboRoutesToZhipuNotZAI(t *testing.T) {
	t.Setenv("ZHIPU_API_KEY", "sk-test")
	r := resolver.New()
	target, err := r.Resolve(resolver.Bare("glm-3-turbo"))
	require.NoError(t, err)
	require.Equal(t, chat.AdapterZhipu, target.Model.AdapterKind)
}

func TestResolve_CodexAndProVariantsRouteToOpenAIResp(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	r := resolver.New()

	target, err := r.Resolve(resolver.Bare("codex-mini"))
	require.NoError(t, err)
	require.Equal(t, chat.AdapterOpenAIResp, target.Model.AdapterKind)

	target, err = r.Resolve(resolver.Bare("o3-pro"))
	require.NoError(t, err)
	require.Equal(t, chat.AdapterOpenAIResp, target.Model.AdapterKind)

	target, err = r.Resolve(resolver.Bare("gpt-4o"))
	require.NoError(t, err)
	require.Equal(t, chat.AdapterOpenAI, target.Model.AdapterKind)
}

func TestResolve_GptOssFallsThroughToOllama(t *testing.T) {
	r := resolver.New()
	target, err := r.Resolve(resolver.Bare("gpt-oss-20b"))
	require.NoError(t, err)
	require.Equal(t, chat.AdapterOllama, target.Model.AdapterKind)
}

func TestResolve_NamespacePrefixOverridesHeuristics(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	r := resolver.New()
	target, err := r.Resolve(resolver.Bare("anthropic::some-custom-deployment"))
	require.NoError(t, err)
	require.Equal(t, chat.AdapterAnthropic, target.Model.AdapterKind)
	require.Equal(t, chat.ModelName("some-custom-deployment"), target.Model.ModelName)
}

func TestResolve_CodingNamespaceAliasesToZAI(t *testing.T) {
	t.Setenv("ZAI_API_KEY", "sk-test")
	r := resolver.New()
	target, err := r.Resolve(resolver.Bare("coding::glm-4.6"))
	require.NoError(t, err)
	require.Equal(t, chat.AdapterZAI, target.Model.AdapterKind)
	require.Equal(t, chat.ModelName("glm-4.6"), target.Model.ModelName)
}

func TestResolve_PairSkipsNameHeuristics(t *testing.T) {
	r := resolver.New()
	target, err := r.Resolve(resolver.FromPair(chat.AdapterOllama, "claude-lookalike"))
	require.NoError(t, err)
	require.Equal(t, chat.AdapterOllama, target.Model.AdapterKind)
}

func TestResolve_ModelMapperRewritesAdapterAndName(t *testing.T) {
	t.Setenv("TOGETHER_API_KEY", "sk-test")
	r := &resolver.Resolver{
		ModelMapper: func(iden chat.ModelIden) (chat.ModelIden, error) {
			return chat.ModelIden{AdapterKind: chat.AdapterTogether, ModelName: "remapped-model"}, nil
		},
	}
	target, err := r.Resolve(resolver.Bare("mistral"))
	require.NoError(t, err)
	require.Equal(t, chat.AdapterTogether, target.Model.AdapterKind)
	require.Equal(t, chat.ModelName("remapped-model"), target.Model.ModelName)
}

func TestResolve_ModelMapperErrorWrapsAsResolverCustom(t *testing.T) {
	boom := errors.New("boom")
	r := &resolver.Resolver{
		ModelMapper: func(chat.ModelIden) (chat.ModelIden, error) { return chat.ModelIden{}, boom },
	}
	_, err := r.Resolve(resolver.Bare("gpt-4o"))
	require.Error(t, err)
	var custom *gaierr.ErrResolverCustom
	require.ErrorAs(t, err, &custom)
	require.Equal(t, "model_mapper", custom.Hook)
	require.ErrorIs(t, err, boom)
}

func TestResolve_AuthResolverOverridesDefault(t *testing.T) {
	r := &resolver.Resolver{
		AuthResolver: func(chat.ModelIden) (chat.AuthData, bool, error) {
			return chat.WithKey("sk-override"), true, nil
		},
	}
	target, err := r.Resolve(resolver.Bare("gpt-4o"))
	require.NoError(t, err)
	require.Equal(t, chat.AuthKindKey, target.Auth.Kind)
	require.Equal(t, "sk-override", target.Auth.Key)
}

func TestResolve_AuthResolverDecliningFallsBackToDefaultMaterializedFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	r := &resolver.Resolver{
		AuthResolver: func(chat.ModelIden) (chat.AuthData, bool, error) { return chat.AuthData{}, false, nil },
	}
	target, err := r.Resolve(resolver.Bare("gpt-4o"))
	require.NoError(t, err)
	require.Equal(t, chat.AuthKindKey, target.Auth.Kind)
	require.Equal(t, "sk-from-env", target.Auth.Key)
}

func TestResolve_FromEnvWithUnsetVariableReturnsTypedError(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	r := resolver.New()
	_, err := r.Resolve(resolver.Bare("gpt-4o"))
	require.Error(t, err)
	var notFound *gaierr.ErrAPIKeyEnvNotFound
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "OPENAI_API_KEY", notFound.EnvName)
}

func TestResolve_ServiceTargetResolverCanOverrideAnyField(t *testing.T) {
	r := &resolver.Resolver{
		ServiceTargetResolver: func(target chat.ServiceTarget) (chat.ServiceTarget, error) {
			target.Auth = chat.RequestOverride("https://proxy.internal/v1", map[string]string{"X-Proxy": "1"})
			return target, nil
		},
	}
	target, err := r.Resolve(resolver.Bare("gpt-4o"))
	require.NoError(t, err)
	require.Equal(t, chat.AuthKindRequestOverride, target.Auth.Kind)
	require.Equal(t, "https://proxy.internal/v1", target.Auth.OverrideURL)
}

func TestResolve_FullServiceTargetSkipsInferenceAndOnlyAppliesTargetResolver(t *testing.T) {
	applied := false
	r := &resolver.Resolver{
		ServiceTargetResolver: func(target chat.ServiceTarget) (chat.ServiceTarget, error) {
			applied = true
			return target, nil
		},
	}
	in := chat.ServiceTarget{
		Endpoint: "https://custom.example/v1",
		Auth:     chat.WithKey("literal-key"),
		Model:    chat.ModelIden{AdapterKind: chat.AdapterOpenAI, ModelName: "claude-looking-name"},
	}
	out, err := r.Resolve(resolver.FromTarget(in))
	require.NoError(t, err)
	require.True(t, applied)
	require.Equal(t, in.Model, out.Model)
}

func TestResolve_UnknownAdapterFromMapperReturnsAdapterNotSupported(t *testing.T) {
	r := &resolver.Resolver{
		ModelMapper: func(chat.ModelIden) (chat.ModelIden, error) {
			return chat.ModelIden{AdapterKind: "not-a-real-adapter", ModelName: "x"}, nil
		},
	}
	_, err := r.Resolve(resolver.Bare("gpt-4o"))
	require.Error(t, err)
	var notSupported *gaierr.ErrAdapterNotSupported
	require.ErrorAs(t, err, &notSupported)
}
