/*
Package server encapsulates http server entry points of the cloud agent. The
A2A transport delivers the raw envelope bytes of a POST request to the DID of
the path and writes the reply envelope back as the response body.
*/
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/findy-network/findy-cloud-agent/agent/e2"
	"github.com/findy-network/findy-cloud-agent/agent/router"
	"github.com/findy-network/findy-cloud-agent/agent/utils"
	"github.com/golang/glog"
	"github.com/gorilla/mux"
)

const (
	// ContentType is the content type of the A2A envelopes.
	ContentType = "application/ssi-agent-wire"

	// RequestIDHeader carries the ID of the transport request. A missing ID
	// is generated.
	RequestIDHeader = "X-Request-ID"

	maxEnvelopeSize = 10 << 20
)

// Version is the version string reported by GET /version.
var Version = "dev"

// Handler builds the HTTP handler of the service: the A2A transport under
// /{serviceName}/{did} and /version.
func Handler(serviceName string, routes router.Routes) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		glog.V(5).Info("/version requested")
		_, _ = w.Write([]byte(Version))
	}).Methods(http.MethodGet)

	pattern := fmt.Sprintf("/%s/{did}", serviceName)
	r.Handle(pattern, &transport{routes: routes}).Methods(http.MethodPost)
	return r
}

// StartHTTPServer starts the http server. The function blocks until the server
// stops or the context is canceled. The server port is the port to listen.
func StartHTTPServer(ctx context.Context, routes router.Routes, serverPort uint) error {
	serviceName := utils.Settings.ServiceName()
	server := &http.Server{
		Addr:              fmt.Sprintf(":%v", serverPort),
		Handler:           Handler(serviceName, routes),
		ReadHeaderTimeout: 10 * time.Second,
	}

	glog.V(1).Info(utils.Settings.VersionInfo())
	glog.V(1).Infof("HTTP Server on port: %v with handle pattern: \"/%s/{did}\"",
		serverPort, serviceName)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			glog.Errorln("server shutdown:", err)
		}
	}()

	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// BuildHostAddr builds the public host address of the server for the
// endpoints and writes it to utils.Settings. The host port is the port the
// world sees.
func BuildHostAddr(scheme string, hostPort uint) {
	if hostPort != 80 {
		hostAddr := fmt.Sprintf("%s://%s:%v", scheme, utils.Settings.HostAddr(), hostPort)
		utils.Settings.SetHostAddr(hostAddr)
	} else {
		hostAddr := fmt.Sprintf("%s://%s", scheme, utils.Settings.HostAddr())
		utils.Settings.SetHostAddr(hostAddr)
	}
}

type transport struct {
	routes router.Routes
}

func (t *transport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	did := mux.Vars(r)["did"]
	reqID := r.Header.Get(RequestIDHeader)
	if reqID == "" {
		reqID = utils.UUID()
	}
	w.Header().Set(RequestIDHeader, reqID)
	glog.V(1).Infof("===== A2A TRANSPORT %s %s (%s) =====", r.Method, did, reqID)

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxEnvelopeSize))
	if err != nil {
		glog.Errorln("reading body:", err)
		errorResponse(w, http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), utils.Settings.Timeout())
	defer cancel()

	reply, err := t.routes.RouteMessage(ctx, did, data)
	if err != nil {
		switch e2.KindOf(err) {
		case e2.NotFound:
			glog.V(3).Infoln(reqID, "no route:", err)
			errorResponse(w, http.StatusNotFound)
			return
		case e2.Timeout:
			glog.Warningln(reqID, "timeout:", err)
			errorResponse(w, http.StatusGatewayTimeout)
			return
		}
		glog.Errorln(reqID, "error:", err)
		errorResponse(w, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", ContentType)
	_, _ = w.Write(reply)
}

func errorResponse(w http.ResponseWriter, status int) {
	glog.V(2).Infoln("Returning", status)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(fmt.Sprintf("%d - %s", status, http.StatusText(status))))
}
