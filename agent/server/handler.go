package server

import (
	"context"

	"github.com/viant/jsonrpc"
	protoclient "github.com/viant/mcp-protocol/client"
	mcpschema "github.com/viant/mcp-protocol/schema"
)

// clientHandler answers server-initiated requests on SSE connections. The
// agent advertises no client capabilities, so every request is rejected.
type clientHandler struct {
	implements map[string]bool
}

func (h *clientHandler) Init(ctx context.Context, capabilities *mcpschema.ClientCapabilities) {
	if h.implements == nil {
		h.implements = make(map[string]bool)
	}
	if capabilities.Roots != nil {
		h.implements[mcpschema.MethodRootsList] = true
	}
}

func (*clientHandler) OnNotification(context.Context, *jsonrpc.Notification) {}

func (h *clientHandler) Implements(method string) bool {
	return h.implements[method]
}

func (*clientHandler) ListRoots(context.Context, *mcpschema.ListRootsRequestParams) (*mcpschema.ListRootsResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewError(jsonrpc.MethodNotFound, "not implemented", nil)
}

func (*clientHandler) CreateMessage(context.Context, *mcpschema.CreateMessageRequestParams) (*mcpschema.CreateMessageResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewError(jsonrpc.MethodNotFound, "not implemented", nil)
}

func (*clientHandler) Elicit(context.Context, *mcpschema.ElicitRequestParams) (*mcpschema.ElicitResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewError(jsonrpc.MethodNotFound, "not implemented", nil)
}

func (*clientHandler) CreateUserInteraction(context.Context, *mcpschema.CreateUserInteractionRequestParams) (*mcpschema.CreateUserInteractionResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewError(jsonrpc.MethodNotFound, "not implemented", nil)
}

func newClientHandler() protoclient.Handler { return &clientHandler{} }
