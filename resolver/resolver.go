// Package resolver converts a caller-supplied model reference into a fully
// resolved chat.ServiceTarget, applying three optional user hooks
// (ModelMapper, AuthResolver, ServiceTargetResolver) on top of each
// adapter's own defaults.
package resolver

import (
	"fmt"
	"os"
	"strings"

	"github.com/flowline-ai/genai/adapter"
	"github.com/flowline-ai/genai/chat"
	"github.com/flowline-ai/genai/gaierr"
)

// codingNamespaceAlias routes the "coding::" namespace to Z.AI, whose GLM
// models are marketed there as a coding-focused lineup.
const codingNamespaceAlias = "coding"

// RefKind discriminates the ModelRef variant.
type RefKind string

const (
	RefBare   RefKind = "bare"
	RefPair   RefKind = "pair"
	RefTarget RefKind = "target"
)

// ModelRef is the tagged union Resolve accepts: a bare name with both
// adapter and model unknown, an (AdapterKind, ModelName) pair with the
// adapter fixed, or an already-complete ServiceTarget.
type ModelRef struct {
	Kind   RefKind
	Bare   chat.ModelName
	Pair   chat.ModelIden
	Target chat.ServiceTarget
}

// Bare builds a ModelRef that resolves its adapter from name alone, via
// namespace prefix or name heuristics.
func Bare(name chat.ModelName) ModelRef { return ModelRef{Kind: RefBare, Bare: name} }

// FromPair builds a ModelRef with the adapter already fixed, skipping
// namespace and name-heuristic inference entirely.
func FromPair(kind chat.AdapterKind, name chat.ModelName) ModelRef {
	return ModelRef{Kind: RefPair, Pair: chat.ModelIden{AdapterKind: kind, ModelName: name}}
}

// FromTarget builds a ModelRef that is already a complete ServiceTarget;
// Resolve only applies the ServiceTargetResolver hook to it.
func FromTarget(target chat.ServiceTarget) ModelRef {
	return ModelRef{Kind: RefTarget, Target: target}
}

// ModelMapper may rewrite a resolved ModelIden's adapter and/or name before
// auth and endpoint defaults are applied.
type ModelMapper func(chat.ModelIden) (chat.ModelIden, error)

// AuthResolver may supply an AuthData for a resolved ModelIden in place of
// the adapter's default (usually AuthData.FromEnv of a provider-specific
// variable). Returning ok=false falls back to the adapter default.
type AuthResolver func(chat.ModelIden) (auth chat.AuthData, ok bool, err error)

// ServiceTargetResolver may rewrite any field of the fully resolved
// ServiceTarget, including replacing Auth with an AuthData.RequestOverride
// that overrides URL and headers at transport time.
type ServiceTargetResolver func(chat.ServiceTarget) (chat.ServiceTarget, error)

// Resolver holds the three optional hooks layered on adapter defaults.
// The zero value is usable: every hook is nil and resolution falls
// straight through to namespace/heuristic inference plus adapter
// defaults.
type Resolver struct {
	ModelMapper           ModelMapper
	AuthResolver          AuthResolver
	ServiceTargetResolver ServiceTargetResolver
}

// New returns a Resolver with no hooks configured.
func New() *Resolver { return &Resolver{} }

// Resolve converts ref into a ServiceTarget, per spec §4.1's algorithm:
// normalize the reference, infer the adapter for bare names, apply
// ModelMapper, fill in endpoint/auth defaults (consulting AuthResolver),
// then apply ServiceTargetResolver.
func (r *Resolver) Resolve(ref ModelRef) (chat.ServiceTarget, error) {
	if ref.Kind == RefTarget {
		target, err := r.applyServiceTargetResolver(ref.Target)
		if err != nil {
			return chat.ServiceTarget{}, err
		}
		return materializeAuth(target)
	}

	var iden chat.ModelIden
	switch ref.Kind {
	case RefPair:
		iden = ref.Pair
	case RefBare:
		iden = chat.ModelIden{AdapterKind: inferAdapter(ref.Bare), ModelName: ref.Bare}
		if ns, rest, ok := ref.Bare.SplitNamespace(); ok {
			if kind, ok := namespaceAdapter(ns); ok {
				iden = chat.ModelIden{AdapterKind: kind, ModelName: chat.ModelName(rest)}
			}
		}
	default:
		return chat.ServiceTarget{}, fmt.Errorf("resolver: unknown ModelRef kind %q", ref.Kind)
	}

	if r.ModelMapper != nil {
		mapped, err := r.ModelMapper(iden)
		if err != nil {
			return chat.ServiceTarget{}, &gaierr.ErrResolverCustom{Hook: "model_mapper", Cause: err}
		}
		iden = mapped
	}

	a, ok := adapter.Dispatch(iden.AdapterKind)
	if !ok {
		return chat.ServiceTarget{}, &gaierr.ErrAdapterNotSupported{Adapter: string(iden.AdapterKind), Feature: "chat"}
	}

	auth := a.DefaultAuth()
	if r.AuthResolver != nil {
		resolved, ok, err := r.AuthResolver(iden)
		if err != nil {
			return chat.ServiceTarget{}, &gaierr.ErrResolverCustom{Hook: "auth_resolver", Cause: err}
		}
		if ok {
			auth = resolved
		}
	}

	target := chat.ServiceTarget{
		Endpoint: a.DefaultEndpoint(),
		Auth:     auth,
		Model:    iden,
	}
	target, err := r.applyServiceTargetResolver(target)
	if err != nil {
		return chat.ServiceTarget{}, err
	}
	return materializeAuth(target)
}

// materializeAuth resolves AuthData.FromEnv to a literal AuthKindKey by
// reading the named environment variable, so every adapter's authHeaders
// always sees a concrete key rather than a variable name it would have no
// way to look up itself. Runs last, after ServiceTargetResolver, so a hook
// that substitutes its own FromEnv value is honored too.
func materializeAuth(target chat.ServiceTarget) (chat.ServiceTarget, error) {
	if target.Auth.Kind != chat.AuthKindFromEnv {
		return target, nil
	}
	val := os.Getenv(target.Auth.EnvName)
	if val == "" {
		return chat.ServiceTarget{}, &gaierr.ErrAPIKeyEnvNotFound{EnvName: target.Auth.EnvName}
	}
	target.Auth = chat.WithKey(val)
	return target, nil
}

func (r *Resolver) applyServiceTargetResolver(target chat.ServiceTarget) (chat.ServiceTarget, error) {
	if r.ServiceTargetResolver == nil {
		return target, nil
	}
	resolved, err := r.ServiceTargetResolver(target)
	if err != nil {
		return chat.ServiceTarget{}, &gaierr.ErrResolverCustom{Hook: "service_target_resolver", Cause: err}
	}
	return resolved, nil
}

// namespaceAdapter matches a "ns::" prefix against a known adapter's
// lowercase name, or the "coding" alias for Z.AI.
func namespaceAdapter(ns string) (chat.AdapterKind, bool) {
	ns = strings.ToLower(ns)
	if ns == codingNamespaceAlias {
		return chat.AdapterZAI, true
	}
	for _, kind := range adapter.Kinds() {
		if string(kind) == ns {
			return kind, true
		}
	}
	return "", false
}

// inferAdapter applies the name-heuristic rules in order, first match
// wins, falling back to Ollama when nothing else claims the name. It is
// only consulted for bare names with no namespace prefix (or an
// unrecognized one, which falls through to heuristics rather than erroring).
func inferAdapter(name chat.ModelName) chat.AdapterKind {
	n := strings.ToLower(string(name))

	if !strings.HasPrefix(n, "gpt-oss") {
		switch {
		case strings.HasPrefix(n, "gpt-"),
			strings.HasPrefix(n, "o1"),
			strings.HasPrefix(n, "o3"),
			strings.HasPrefix(n, "o4"),
			strings.HasPrefix(n, "chatgpt"),
			strings.HasPrefix(n, "codex"),
			strings.HasPrefix(n, "text-embedding"):
			if strings.HasPrefix(n, "codex") || strings.HasSuffix(n, "-pro") {
				return chat.AdapterOpenAIResp
			}
			return chat.AdapterOpenAI
		}
	}

	switch {
	case strings.HasPrefix(n, "claude"):
		return chat.AdapterAnthropic
	case strings.HasPrefix(n, "gemini"):
		return chat.AdapterGemini
	case strings.HasPrefix(n, "command"), strings.HasPrefix(n, "embed-"):
		return chat.AdapterCohere
	case strings.HasPrefix(n, "grok"):
		return chat.AdapterXAI
	case strings.HasPrefix(n, "glm"):
		if inStaticList(chat.AdapterZAI, name) {
			return chat.AdapterZAI
		}
		return chat.AdapterZhipu
	case strings.Contains(n, "fireworks"):
		return chat.AdapterFireworks
	}

	switch {
	case inStaticList(chat.AdapterGroq, name):
		return chat.AdapterGroq
	case inStaticList(chat.AdapterDeepSeek, name):
		return chat.AdapterDeepSeek
	case inStaticList(chat.AdapterMimo, name):
		return chat.AdapterMimo
	}

	return chat.AdapterOllama
}

func inStaticList(kind chat.AdapterKind, name chat.ModelName) bool {
	a, ok := adapter.Dispatch(kind)
	if !ok {
		return false
	}
	for _, m := range a.ListStaticModels() {
		if m == name {
			return true
		}
	}
	return false
}
