package common

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

var rootContext context.Context
var rootCancel context.CancelFunc

/*SetupRootContext - sets up the root context for the process */
func SetupRootContext(ctx context.Context) {
	rootContext, rootCancel = context.WithCancel(ctx)
}

/*GetRootContext - returns the root context of the process */
func GetRootContext() context.Context {
	if rootContext == nil {
		SetupRootContext(context.Background())
	}
	return rootContext
}

/*Done - call this when the process is shutting down */
func Done() {
	if rootCancel != nil {
		rootCancel()
	}
}

/*HandleShutdown - shuts down the server and the root context on SIGINT/SIGTERM */
func HandleShutdown(server *http.Server) {
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(ctx) //nolint:errcheck
		Done()
	}()
}
