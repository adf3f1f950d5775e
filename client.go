package genai

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/flowline-ai/genai/chat"
	"github.com/flowline-ai/genai/embed"
	"github.com/flowline-ai/genai/gailog"
	"github.com/flowline-ai/genai/resolver"
	"github.com/flowline-ai/genai/webtransport"
)

// ModelRef is the model reference a caller passes to every Client
// operation: a bare name resolved by namespace/heuristics, an
// (AdapterKind, ModelName) pair with the adapter already fixed, or a
// fully-specified ServiceTarget. Re-exported from package resolver so
// callers need only import package genai for everyday use.
type ModelRef = resolver.ModelRef

// Bare builds a ModelRef that resolves its adapter from name alone.
func Bare(name chat.ModelName) ModelRef { return resolver.Bare(name) }

// FromPair builds a ModelRef with the adapter already fixed.
func FromPair(kind chat.AdapterKind, name chat.ModelName) ModelRef {
	return resolver.FromPair(kind, name)
}

// FromTarget builds a ModelRef that is already a complete ServiceTarget.
func FromTarget(target chat.ServiceTarget) ModelRef { return resolver.FromTarget(target) }

// Client is the entry point for every chat and embedding call. The zero
// value is not usable; build one with NewClient. A Client is safe for
// concurrent use: every adapter is stateless and the underlying
// *http.Client is shared across calls.
type Client struct {
	httpClient *http.Client
	resolver   *resolver.Resolver
	logger     gailog.Logger

	defaultChatOptions  chat.ChatOptions
	defaultEmbedOptions embed.EmbedOptions

	stampRequestID bool
	modelListCache *modelListCache
}

// ClientOption configures a Client at construction time. An option may
// fail (WithWebConfig builds an *http.Client and can reject a malformed
// proxy URL); NewClient surfaces the first such error.
type ClientOption func(*Client) error

// WithHTTPClient overrides the shared *http.Client every call goes
// through. Mutually exclusive with WithWebConfig; whichever is applied
// last wins.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) error { cl.httpClient = c; return nil }
}

// WithWebConfig builds the shared *http.Client from a webtransport.Config
// instead of a caller-supplied one.
func WithWebConfig(cfg webtransport.Config) ClientOption {
	return func(cl *Client) error {
		httpClient, err := webtransport.NewHTTPClient(cfg)
		if err != nil {
			return err
		}
		cl.httpClient = httpClient
		return nil
	}
}

// WithModelMapper installs a hook that may rewrite a resolved ModelIden's
// adapter and/or name before auth and endpoint defaults are applied.
func WithModelMapper(m resolver.ModelMapper) ClientOption {
	return func(cl *Client) error { cl.resolver.ModelMapper = m; return nil }
}

// WithAuthResolver installs a hook that may supply an AuthData in place
// of an adapter's default.
func WithAuthResolver(a resolver.AuthResolver) ClientOption {
	return func(cl *Client) error { cl.resolver.AuthResolver = a; return nil }
}

// WithServiceTargetResolver installs a hook that may rewrite any field of
// a fully resolved ServiceTarget, including routing every call through a
// proxy via AuthData.RequestOverride.
func WithServiceTargetResolver(s resolver.ServiceTargetResolver) ClientOption {
	return func(cl *Client) error { cl.resolver.ServiceTargetResolver = s; return nil }
}

// WithDefaultOptions sets the ChatOptions merged underneath every
// request's own options: a field set on the request wins, everything
// else falls back to this default.
func WithDefaultOptions(opts chat.ChatOptions) ClientOption {
	return func(cl *Client) error { cl.defaultChatOptions = opts; return nil }
}

// WithDefaultEmbedOptions sets the EmbedOptions applied to every embedding
// request that leaves the corresponding field unset.
func WithDefaultEmbedOptions(opts embed.EmbedOptions) ClientOption {
	return func(cl *Client) error { cl.defaultEmbedOptions = opts; return nil }
}

// WithLogger installs a structured logger. Defaults to gailog.NoopLogger.
func WithLogger(l gailog.Logger) ClientOption {
	return func(cl *Client) error { cl.logger = l; return nil }
}

// WithRequestID stamps a freshly generated X-Request-Id header (via
// google/uuid) on every outbound call, unless the request's own
// ExtraHeaders already set one.
func WithRequestID() ClientOption {
	return func(cl *Client) error { cl.stampRequestID = true; return nil }
}

// NewClient builds a Client. With no options, it uses http.DefaultClient,
// a hookless Resolver, a NoopLogger, and zero-value default options. It
// returns an error only if an option itself fails (currently only
// WithWebConfig, when given a malformed proxy URL).
func NewClient(opts ...ClientOption) (*Client, error) {
	cl := &Client{
		httpClient:     http.DefaultClient,
		resolver:       resolver.New(),
		logger:         gailog.NewNoopLogger(),
		modelListCache: newModelListCache(),
	}
	for _, opt := range opts {
		if err := opt(cl); err != nil {
			return nil, err
		}
	}
	return cl, nil
}

func (c *Client) stampRequestIDHeader(headers map[string]string) map[string]string {
	if !c.stampRequestID {
		return headers
	}
	if _, ok := headers["X-Request-Id"]; ok {
		return headers
	}
	out := make(map[string]string, len(headers)+1)
	for k, v := range headers {
		out[k] = v
	}
	out["X-Request-Id"] = uuid.NewString()
	return out
}
