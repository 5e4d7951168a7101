// Package adminapi serves generated schemas over HTTP: a POST endpoint
// executing queries and mutations, a websocket endpoint streaming
// subscriptions, and an interactive playground for operators.
package adminapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.cachewatch.io/adminapi/gqlerrors"
	"go.cachewatch.io/adminapi/graphql"
)

// HandlerFunc executes one parsed query against a schema root.
type HandlerFunc func(ctx context.Context, root graphql.Type, query *graphql.Query) (interface{}, error)

// MiddlewareFunc wraps the execution of every request, e.g. for metrics
// or audit logging.
type MiddlewareFunc func(next HandlerFunc) HandlerFunc

// HandlerOption configures HTTPHandler.
type HandlerOption func(*handlerOptions)

type handlerOptions struct {
	Middlewares []MiddlewareFunc
}

// WithMiddlewares attaches middlewares to the handler. They run in the
// given order around query execution.
func WithMiddlewares(middlewares ...MiddlewareFunc) HandlerOption {
	return func(o *handlerOptions) {
		o.Middlewares = append(o.Middlewares, middlewares...)
	}
}

// HTTPHandler implements the handler required for executing graphql
// queries and mutations over POST.
func HTTPHandler(schema *graphql.Schema, opts ...HandlerOption) http.Handler {
	h := &httpHandler{
		schema:   schema,
		executor: &graphql.Executor{},
	}

	o := handlerOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	exec := h.execute
	for i := range o.Middlewares {
		exec = o.Middlewares[len(o.Middlewares)-1-i](exec)
	}
	h.exec = exec

	return h
}

type httpHandler struct {
	schema   *graphql.Schema
	executor *graphql.Executor

	exec HandlerFunc
}

type httpPostBody struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type httpResponse struct {
	Data   interface{}        `json:"data"`
	Errors []*gqlerrors.Error `json:"errors"`
}

func (h *httpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeResponse := func(value interface{}, err error) {
		response := httpResponse{}
		if err != nil {
			response.Errors = []*gqlerrors.Error{gqlerrors.ConvertError(err)}
		} else {
			response.Data = value
		}

		responseJSON, err := json.Marshal(response)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "application/json")
		}
		_, _ = w.Write(responseJSON)
	}

	if r.Method != http.MethodPost {
		writeResponse(nil, errors.New("request must be a POST"))
		return
	}

	if r.Body == nil {
		writeResponse(nil, errors.New("request must include a query"))
		return
	}

	var params httpPostBody
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeResponse(nil, err)
		return
	}

	query, err := graphql.Parse(params.Query, params.Variables)
	if err != nil {
		writeResponse(nil, err)
		return
	}

	root := h.schema.Query
	switch query.Kind {
	case "mutation":
		root = h.schema.Mutation
	case "subscription":
		writeResponse(nil, errors.New("subscriptions must use the websocket endpoint"))
		return
	}

	if err := graphql.ValidateQuery(r.Context(), root, query.SelectionSet); err != nil {
		writeResponse(nil, err)
		return
	}

	ctx := addVariables(r.Context(), params.Variables)

	output, err := h.exec(ctx, root, query)
	writeResponse(output, err)
}

func (h *httpHandler) execute(ctx context.Context, root graphql.Type, query *graphql.Query) (interface{}, error) {
	return h.executor.Execute(ctx, root, nil, query)
}

type graphqlVariableKeyType int

const graphqlVariableKey graphqlVariableKeyType = 0

// ExtractVariables returns the variables received as part of the graphql
// request. This is intended to be used from within middlewares.
func ExtractVariables(ctx context.Context) map[string]interface{} {
	if v := ctx.Value(graphqlVariableKey); v != nil {
		return v.(map[string]interface{})
	}
	return nil
}

func addVariables(ctx context.Context, v map[string]interface{}) context.Context {
	return context.WithValue(ctx, graphqlVariableKey, v)
}

// playgroundHTML is a small HTML page that loads GraphiQL from a CDN to
// provide an interactive playground against the admin endpoint.
const playgroundHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8" />
    <title>%s</title>
    <style>
        body { height: 100%%; margin: 0; overflow: hidden; }
        #graphiql { height: 100vh; }
    </style>
    <link rel="stylesheet" href="https://unpkg.com/graphiql@1.4.0/graphiql.min.css" />
    <script src="https://unpkg.com/react@16.14.0/umd/react.production.min.js"></script>
    <script src="https://unpkg.com/react-dom@16.14.0/umd/react-dom.production.min.js"></script>
    <script src="https://unpkg.com/graphiql@1.4.0/graphiql.min.js"></script>
</head>
<body>
    <div id="graphiql">Loading...</div>
    <script>
      function graphQLFetcher(graphQLParams) {
        return fetch('%s', {
          method: 'post',
          headers: { Accept: 'application/json', 'Content-Type': 'application/json' },
          body: JSON.stringify(graphQLParams),
          credentials: 'omit',
        }).then(function (response) {
          return response.json().catch(function () { return response.text(); });
        });
      }

      ReactDOM.render(
        React.createElement(GraphiQL, { fetcher: graphQLFetcher }),
        document.getElementById('graphiql'),
      );
    </script>
</body>
</html>`

// PlaygroundHandler returns an HTTP handler that serves an interactive
// GraphiQL playground pointed at graphqlEndpoint (typically the path
// where HTTPHandler is mounted).
func PlaygroundHandler(title, graphqlEndpoint string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if r.Method == http.MethodHead {
			return
		}
		_, _ = fmt.Fprintf(w, playgroundHTML, title, graphqlEndpoint)
	})
}
