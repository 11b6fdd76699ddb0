package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"
)

// DefaultTimeout bounds a single bridge exchange. It is deliberately generous:
// a follow-mode watch call may legitimately take a while to return.
const DefaultTimeout = 2 * time.Minute

// HTTP implements Transport over HTTP JSON-RPC 2.0 against the local bridge.
type HTTP struct {
	endpoint string
	client   *http.Client
	nextID   atomic.Uint64
}

// NewHTTP creates an HTTP transport bound to the bridge listening on the given
// local port. It fails immediately when no valid port is supplied; there is
// nothing to retry, the bridge simply is not running.
func NewHTTP(port int) (*HTTP, error) {
	if port <= 0 || port > 65535 {
		return nil, ErrNoPort
	}
	return &HTTP{
		endpoint: fmt.Sprintf("http://127.0.0.1:%d/", port),
		client:   &http.Client{Timeout: DefaultTimeout},
	}, nil
}

// Endpoint returns the bridge URL this transport is bound to.
func (h *HTTP) Endpoint() string {
	return h.endpoint
}

type jsonRPCRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type jsonRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *jsonRPCError   `json:"error,omitempty"`
}

type jsonRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *jsonRPCError) Error() string {
	return fmt.Sprintf("bridge: rpc error: %s", e.Message)
}

// Call sends a JSON-RPC request to the bridge and returns the result bytes.
func (h *HTTP) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	req := jsonRPCRequest{
		JSONRPC: "2.0",
		ID:      h.nextID.Add(1),
		Method:  method,
		Params:  []any{params},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("bridge: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("bridge: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("bridge: request to %s failed (is the glin-forge dev server still running?): %w", h.endpoint, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("bridge: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		preview := string(respBody)
		if len(preview) > 256 {
			preview = preview[:256]
		}
		return nil, fmt.Errorf("bridge: HTTP %d from %s: %s", resp.StatusCode, h.endpoint, preview)
	}

	var rpcResp jsonRPCResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, fmt.Errorf("bridge: malformed response: %w", err)
	}

	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}

	return rpcResp.Result, nil
}
