package chat

// ReasoningEffort selects how much a provider should reason before
// responding. Keyword levels map onto each provider's native control
// (OpenAI's reasoning_effort string, Gemini's thinking budget, Anthropic's
// thinking block); Budget passes a token count straight through to
// providers that accept one.
type ReasoningEffort struct {
	Keyword ReasoningKeyword
	Budget  int
}

// ReasoningKeyword is the symbolic level of a ReasoningEffort. When Keyword
// is ReasoningBudget, ReasoningEffort.Budget carries the literal token
// count instead.
type ReasoningKeyword string

const (
	ReasoningNone    ReasoningKeyword = ""
	ReasoningMinimal ReasoningKeyword = "minimal"
	ReasoningLow     ReasoningKeyword = "low"
	ReasoningMedium  ReasoningKeyword = "medium"
	ReasoningHigh    ReasoningKeyword = "high"
	ReasoningBudget  ReasoningKeyword = "budget"
)

// Verbosity requests a relative length/detail level from providers that
// support it.
type Verbosity string

const (
	VerbosityLow    Verbosity = "low"
	VerbosityMedium Verbosity = "medium"
	VerbosityHigh   Verbosity = "high"
)

// ServiceTier selects a provider's latency/cost tier when supported.
type ServiceTier string

const (
	ServiceTierFlex    ServiceTier = "flex"
	ServiceTierAuto    ServiceTier = "auto"
	ServiceTierDefault ServiceTier = "default"
)

// ResponseFormatKind discriminates the ResponseFormat variant.
type ResponseFormatKind string

const (
	ResponseFormatJSONMode ResponseFormatKind = "json_mode"
	ResponseFormatJSONSpec ResponseFormatKind = "json_spec"
)

// ResponseFormat requests structured output. JSONSpec carries an optional
// name/description plus the JSON Schema the response must satisfy; JSONMode
// just asks for well-formed JSON with no schema.
type ResponseFormat struct {
	Kind        ResponseFormatKind
	Name        string
	Description string
	Schema      map[string]any
}

// Headers is a case-preserving set of extra transport headers merged onto
// the outbound request, in addition to whatever auth headers the adapter
// computes.
type Headers map[string]string

// ChatOptions carries every optional, provider-agnostic tuning knob for a
// ChatRequest. A zero value requests every provider default. Options set on
// a Client apply to every request; a request's own options win field by
// field when both set the same knob.
type ChatOptions struct {
	// Sampling
	Temperature   *float64
	TopP          *float64
	MaxTokens     *int
	StopSequences []string
	Seed          *uint64

	// Structure
	ResponseFormat *ResponseFormat

	// Reasoning
	ReasoningEffort           *ReasoningEffort
	NormalizeReasoningContent bool

	// Output control
	Verbosity   *Verbosity
	ServiceTier *ServiceTier

	// Capture (stream accumulation)
	CaptureUsage            bool
	CaptureContent          bool
	CaptureReasoningContent bool
	CaptureToolCalls        bool
	CaptureRawBody          bool

	// Transport
	ExtraHeaders Headers
}

// Merge layers req's non-zero fields over base, returning a new ChatOptions
// where a field set on req wins and everything else falls back to base.
// This realizes the client-defaults/request-override composition rule: a
// client's default options merge field-wise with a request's own options.
func (base ChatOptions) Merge(req ChatOptions) ChatOptions {
	out := base
	if req.Temperature != nil {
		out.Temperature = req.Temperature
	}
	if req.TopP != nil {
		out.TopP = req.TopP
	}
	if req.MaxTokens != nil {
		out.MaxTokens = req.MaxTokens
	}
	if req.StopSequences != nil {
		out.StopSequences = req.StopSequences
	}
	if req.Seed != nil {
		out.Seed = req.Seed
	}
	if req.ResponseFormat != nil {
		out.ResponseFormat = req.ResponseFormat
	}
	if req.ReasoningEffort != nil {
		out.ReasoningEffort = req.ReasoningEffort
	}
	if req.NormalizeReasoningContent {
		out.NormalizeReasoningContent = true
	}
	if req.Verbosity != nil {
		out.Verbosity = req.Verbosity
	}
	if req.ServiceTier != nil {
		out.ServiceTier = req.ServiceTier
	}
	if req.CaptureUsage {
		out.CaptureUsage = true
	}
	if req.CaptureContent {
		out.CaptureContent = true
	}
	if req.CaptureReasoningContent {
		out.CaptureReasoningContent = true
	}
	if req.CaptureToolCalls {
		out.CaptureToolCalls = true
	}
	if req.CaptureRawBody {
		out.CaptureRawBody = true
	}
	if req.ExtraHeaders != nil {
		if out.ExtraHeaders == nil {
			out.ExtraHeaders = Headers{}
		}
		for k, v := range req.ExtraHeaders {
			out.ExtraHeaders[k] = v
		}
	}
	return out
}

// ChatRequest is the canonical, provider-agnostic chat-completion request.
// At least one message is required at execution time; ChatMessages with
// RoleTool reference a prior assistant ToolCall by CallID.
type ChatRequest struct {
	System   string
	Messages []ChatMessage
	Tools    []Tool

	ToolChoice *ToolChoice
	Options    ChatOptions
}

// ChatResponse is the canonical, normalized result of a unary chat call.
type ChatResponse struct {
	Content         MessageContent
	ReasoningContent string

	ModelIden         ModelIden
	ProviderModelIden ModelIden

	Usage Usage

	CapturedRawBody []byte
}

// FirstText returns the first text part of the response content, or "" if
// none is present.
func (r ChatResponse) FirstText() string { return r.Content.FirstText() }

// ToolCalls returns every tool call requested in the response, in order.
func (r ChatResponse) ToolCalls() []ToolCall { return r.Content.ToolCalls() }
