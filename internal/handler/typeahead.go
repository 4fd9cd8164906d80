package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/lodestar-hq/lodestar/internal/search"
	"github.com/lodestar-hq/lodestar/internal/suggest"
)

// TypeaheadHandler serves the live query socket: as the user types, the
// client streams the partial query and gets back quick-search hits and
// suggestion candidates over the same connection.
type TypeaheadHandler struct {
	exec   *search.Executor
	engine *suggest.Engine
	log    zerolog.Logger
}

// NewTypeaheadHandler creates the typeahead socket handler.
func NewTypeaheadHandler(exec *search.Executor, engine *suggest.Engine, log zerolog.Logger) *TypeaheadHandler {
	return &TypeaheadHandler{
		exec:   exec,
		engine: engine,
		log:    log.With().Str("handler", "typeahead").Logger(),
	}
}

// clientMessage is the envelope for all client-to-server socket messages.
type clientMessage struct {
	Type string          `json:"type"` // "search", "suggest", "ping"
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data,omitempty"`
}

// serverMessage is the envelope for all server-to-client socket messages.
type serverMessage struct {
	Type      string `json:"type"` // "results", "suggestions", "error", "pong"
	RequestID string `json:"request_id,omitempty"`
	Data      any    `json:"data,omitempty"`
}

type typeaheadSearchData struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type typeaheadSuggestData struct {
	Partial string `json:"partial"`
	Field   string `json:"field"`
}

type socketErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ServeHTTP upgrades to WebSocket and runs the message loop. Identity is
// checked from headers before the upgrade, same as the REST endpoints.
func (h *TypeaheadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket accept failed")
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	for {
		var msg clientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if status := websocket.CloseStatus(err); status != -1 {
				h.log.Debug().Int("close_status", int(status)).Msg("connection closed")
			}
			return
		}

		switch msg.Type {
		case "search":
			h.handleSearch(ctx, conn, id, msg)
		case "suggest":
			h.handleSuggest(ctx, conn, id, msg)
		case "ping":
			h.send(ctx, conn, serverMessage{Type: "pong", RequestID: msg.ID})
		default:
			h.sendError(ctx, conn, msg.ID, "unknown_type", fmt.Sprintf("unknown message type: %s", msg.Type))
		}
	}
}

func (h *TypeaheadHandler) handleSearch(ctx context.Context, conn *websocket.Conn, id Identity, msg clientMessage) {
	var data typeaheadSearchData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		h.sendError(ctx, conn, msg.ID, "invalid_data", "invalid search data")
		return
	}

	result, err := h.exec.QuickSearch(ctx, id.TenantID, data.Query, data.Limit)
	if err != nil {
		h.log.Error().Err(err).Msg("quick search failed")
		h.sendError(ctx, conn, msg.ID, "search_error", "search failed")
		return
	}
	h.send(ctx, conn, serverMessage{Type: "results", RequestID: msg.ID, Data: result})
}

func (h *TypeaheadHandler) handleSuggest(ctx context.Context, conn *websocket.Conn, id Identity, msg clientMessage) {
	var data typeaheadSuggestData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		h.sendError(ctx, conn, msg.ID, "invalid_data", "invalid suggest data")
		return
	}
	field := suggest.Field(data.Field)
	if field != "" && !field.Valid() {
		h.sendError(ctx, conn, msg.ID, "invalid_field", fmt.Sprintf("unknown field: %s", data.Field))
		return
	}

	set, err := h.engine.Suggest(ctx, id.TenantID, data.Partial, field)
	if err != nil {
		h.log.Error().Err(err).Msg("suggest failed")
		h.sendError(ctx, conn, msg.ID, "suggest_error", "suggest failed")
		return
	}
	h.send(ctx, conn, serverMessage{Type: "suggestions", RequestID: msg.ID, Data: set})
}

func (h *TypeaheadHandler) send(ctx context.Context, conn *websocket.Conn, msg serverMessage) {
	if err := wsjson.Write(ctx, conn, msg); err != nil {
		h.log.Debug().Err(err).Msg("socket write failed")
	}
}

func (h *TypeaheadHandler) sendError(ctx context.Context, conn *websocket.Conn, requestID, code, message string) {
	h.send(ctx, conn, serverMessage{
		Type:      "error",
		RequestID: requestID,
		Data:      socketErrorData{Code: code, Message: message},
	})
}
