// Package chat defines the canonical, provider-agnostic request, response,
// and streaming types shared by every adapter and by the root client
// package. Nothing in this package performs network I/O or knows about a
// specific provider's wire format; adapters translate to and from these
// types.
package chat
