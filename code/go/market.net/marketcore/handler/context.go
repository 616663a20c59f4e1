package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/brahmGAN/gpu-contracts/code/go/market.net/core/common"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/marketplace"
)

// Context api context
type Context struct {
	context.Context

	// ClientID - the caller identity for authorization checks.
	ClientID string

	Request *http.Request
	Vars    map[string]string
}

// WithMarket adapts a marketplace handler into the JSON responder shape.
func WithMarket(handler func(ctx *Context) (interface{}, error)) common.JSONResponderF {
	return func(c context.Context, r *http.Request) (interface{}, error) {
		ctx := &Context{
			Context:  c,
			ClientID: r.Header.Get(common.ClientHeader),
			Request:  r,
			Vars:     mux.Vars(r),
		}
		return handler(ctx)
	}
}

// requestArgs decodes the JSON request body into call arguments. An empty
// body yields empty args.
func requestArgs(r *http.Request) (marketplace.Args, error) {
	args := marketplace.Args{}
	if r.Body == nil {
		return args, nil
	}
	err := json.NewDecoder(r.Body).Decode(&args)
	if err == io.EOF {
		return args, nil
	}
	if err != nil {
		return nil, common.InvalidRequest("malformed json body")
	}
	return args, nil
}
