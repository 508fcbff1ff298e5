package router

import (
	"bytes"

	"github.com/Brownie44l1/http-pool/internal/request"
	"github.com/Brownie44l1/http-pool/internal/response"
)

// Handler turns a parsed request into a response
type Handler func(req *request.Request) response.Response

// Middleware wraps a Handler
type Middleware func(Handler) Handler

var (
	indexPath     = []byte("/")
	echoPrefix    = []byte("/echo/")
	userAgentPath = []byte("/user-agent")
	methodGet     = []byte("GET")
)

const userAgentHeader = "User-Agent"

// Router dispatches on the request path to a fixed set of routes:
//
//	/            200, no body
//	/echo/{s}    200, body s
//	/user-agent  200, body = User-Agent header (400 if the header is missing)
//	anything     404
//
// The method is ignored unless StrictMethods is set, in which case any
// method other than GET gets 405 before the path is looked at.
type Router struct {
	StrictMethods bool
}

// New creates a new router
func New() *Router {
	return &Router{}
}

// Route picks the response for req. First match wins, in the order above.
func (r *Router) Route(req *request.Request) response.Response {
	if r.StrictMethods && !bytes.Equal(req.Method, methodGet) {
		return response.Status(response.StatusMethodNotAllowed)
	}

	path := req.Path
	switch {
	case bytes.Equal(path, indexPath):
		return response.Status(response.StatusOK)

	case bytes.HasPrefix(path, echoPrefix):
		return response.Text(response.StatusOK, path[len(echoPrefix):])

	case bytes.Equal(path, userAgentPath):
		ua, ok := req.HeaderValue(userAgentHeader)
		if !ok {
			return response.Status(response.StatusBadRequest)
		}
		return response.Text(response.StatusOK, ua)

	default:
		return response.Status(response.StatusNotFound)
	}
}

// Handler returns Route as a Handler
func (r *Router) Handler() Handler {
	return r.Route
}

// Chain wraps h with mws; the first middleware is the outermost.
func Chain(h Handler, mws ...Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
