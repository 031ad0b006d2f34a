package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
)

// GraphQLHandler serves the transaction schema.
type GraphQLHandler struct {
	relay *relay.Handler
	sdl   string
}

func NewGraphQLHandler(schema *graphql.Schema, sdl string) *GraphQLHandler {
	return &GraphQLHandler{relay: &relay.Handler{Schema: schema}, sdl: sdl}
}

// Query executes a POSTed GraphQL request. Caller identity and request id
// travel on the request context.
func (h *GraphQLHandler) Query(c *gin.Context) {
	h.relay.ServeHTTP(c.Writer, c.Request)
}

// Schema returns the SDL as plain text.
func (h *GraphQLHandler) Schema(c *gin.Context) {
	c.String(http.StatusOK, h.sdl)
}

// Playground serves a GraphiQL page pointed at /graphql.
func (h *GraphQLHandler) Playground(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", graphiQLPage)
}

var graphiQLPage = []byte(`<!DOCTYPE html>
<html>
<head>
  <title>transaction-api</title>
  <link href="https://unpkg.com/graphiql/graphiql.min.css" rel="stylesheet" />
</head>
<body style="margin: 0;">
  <div id="graphiql" style="height: 100vh;"></div>
  <script crossorigin src="https://unpkg.com/react/umd/react.production.min.js"></script>
  <script crossorigin src="https://unpkg.com/react-dom/umd/react-dom.production.min.js"></script>
  <script crossorigin src="https://unpkg.com/graphiql/graphiql.min.js"></script>
  <script>
    const fetcher = GraphiQL.createFetcher({ url: '/graphql' });
    ReactDOM.render(React.createElement(GraphiQL, { fetcher }), document.getElementById('graphiql'));
  </script>
</body>
</html>
`)
