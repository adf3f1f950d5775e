package webtransport

import (
	"bytes"
	"context"
	"io"
	"net/http"
)

// Response is the result of a unary Do call: status, headers, and the full
// body read into memory.
type Response struct {
	Status  int
	Headers http.Header
	Body    []byte
}

// Do performs a unary HTTP call and reads the full response body. Callers
// are responsible for turning a non-2xx Response into a typed error; Do
// itself does not special-case status codes so adapters can preserve the
// body/headers for diagnostics as the error-handling design requires.
func Do(ctx context.Context, client *http.Client, req RequestData) (Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return Response{}, err
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, err
	}
	return Response{Status: resp.StatusCode, Headers: resp.Header, Body: body}, nil
}

// StreamResponse is the result of opening a streaming HTTP call: status,
// headers, and a live body the caller reads incrementally and must Close
// when done (or when abandoning the stream early, which cancels the
// underlying connection per the library's cancellation contract).
type StreamResponse struct {
	Status  int
	Headers http.Header
	Body    io.ReadCloser
}

// DoStream performs an HTTP call and returns the live response body
// instead of reading it fully, for SSE and chunked-transport adapters.
func DoStream(ctx context.Context, client *http.Client, req RequestData) (StreamResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return StreamResponse{}, err
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return StreamResponse{}, err
	}
	return StreamResponse{Status: resp.StatusCode, Headers: resp.Header, Body: resp.Body}, nil
}
