package adminapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"

	"go.cachewatch.io/adminapi/events"
	"go.cachewatch.io/adminapi/gqlerrors"
	"go.cachewatch.io/adminapi/graphql"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The admin endpoint sits behind the operator network, browsers
	// from other origins are allowed to connect to it.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HTTPSubscriptionHandler implements the websocket handler streaming
// subscription results. The client sends a single JSON message with the
// subscription query and variables, then receives one JSON response per
// published event until it closes the connection.
func HTTPSubscriptionHandler(schema *graphql.Schema, feed *events.Feed) http.Handler {
	return &subscriptionHandler{
		schema:   schema,
		feed:     feed,
		executor: &graphql.Executor{},
	}
}

type subscriptionHandler struct {
	schema   *graphql.Schema
	feed     *events.Feed
	executor *graphql.Executor
}

func (h *subscriptionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	writeError := func(err error) {
		_ = conn.WriteJSON(httpResponse{
			Errors: []*gqlerrors.Error{gqlerrors.ConvertError(err)},
		})
	}

	var params httpPostBody
	if err := conn.ReadJSON(&params); err != nil {
		return
	}

	query, err := graphql.Parse(params.Query, params.Variables)
	if err != nil {
		writeError(err)
		return
	}
	if query.Kind != "subscription" {
		writeError(errors.New("websocket endpoint only accepts subscriptions"))
		return
	}

	if err := graphql.ValidateQuery(r.Context(), h.schema.Subscription, query.SelectionSet); err != nil {
		writeError(err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Reads after the initial message only serve to detect the peer
	// closing the connection.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	sub := h.feed.Subscribe()
	defer func() { _ = sub.Shutdown(context.Background()) }()

	ctx = addVariables(ctx, params.Variables)

	for {
		payload, err := sub.Next(ctx)
		if err != nil {
			return
		}

		output, err := h.executor.Execute(events.NewContext(ctx, payload), h.schema.Subscription, nil, query)
		response := httpResponse{Data: output}
		if err != nil {
			response.Data = nil
			response.Errors = []*gqlerrors.Error{gqlerrors.ConvertError(err)}
		}
		if err := conn.WriteJSON(response); err != nil {
			return
		}
	}
}
