package main

import (
	"fmt"
	"log"
	"net/http"
	"runtime"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/brahmGAN/gpu-contracts/code/go/market.net/core/common"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/core/logging"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/config"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/handler"
)

var startTime time.Time

func initHandlers(r *mux.Router) {
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		name, version, _ := marketProxy.Current()
		fmt.Fprintf(w, "<div>Running since %v ...</div>\n", startTime)
		fmt.Fprintf(w, "<div>GPU rental marketplace, logic %v (v%v)</div>\n", name, version)
	})

	handler.SetupHandlers(r, marketProxy)
}

func startHTTPServer() {
	fmt.Print("[6/6] start http server")

	mode := "main net"
	if config.Development() {
		mode = "development"
	} else if config.TestNet() {
		mode = "test net"
	}
	logging.Logger.Info("Starting marketplace",
		zap.Int("available_cpus", runtime.NumCPU()),
		zap.Int("port", httpPort),
		zap.String("mode", mode))

	r := mux.NewRouter()

	headersOk := handlers.AllowedHeaders([]string{
		"X-Requested-With", "X-App-Client-ID", "Content-Type",
	})

	// Allow anybody to access API.
	originsOk := handlers.AllowedOrigins([]string{"*"})

	methodsOk := handlers.AllowedMethods([]string{"GET", "HEAD", "POST", "PUT",
		"DELETE", "OPTIONS"})

	initHandlers(r)

	rHandler := handlers.CORS(originsOk, headersOk, methodsOk)(r)

	var server *http.Server
	address := fmt.Sprintf(":%v", httpPort)
	if config.Development() {
		// No WriteTimeout setup to enable pprof
		server = &http.Server{
			Addr:              address,
			ReadHeaderTimeout: 30 * time.Second,
			MaxHeaderBytes:    1 << 20,
			Handler:           rHandler,
		}
	} else {
		server = &http.Server{
			Addr:              address,
			ReadHeaderTimeout: 30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       30 * time.Second,
			MaxHeaderBytes:    1 << 20,
			Handler:           rHandler,
		}
	}
	common.HandleShutdown(server)

	fmt.Print("	[OK]\n")
	logging.Logger.Info("Ready to listen to the requests")
	startTime = time.Now().UTC()
	log.Fatal(server.ListenAndServe())
}
