package resolver

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fractionft/fraction-marketplace/internal/ipfs"
	"github.com/fractionft/fraction-marketplace/internal/manager"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Server exposes the same-origin helpers the marketplace frontend needs:
// the ipfs gateway proxy and the Manager creation bytecode.
type Server struct {
	ipfs     ipfs.Resolver
	bytecode manager.BytecodeSource
}

func NewServer(ipfsResolver ipfs.Resolver, bytecode manager.BytecodeSource) Server {
	return Server{ipfsResolver, bytecode}
}

func (s Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/ipfs/resolve", s.handleIpfsResolve).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/manager/bytecode", s.handleBytecode).Methods("GET")
	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.NotFoundHandler = notFoundHandler()

	return r
}

func (s Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_, _ = fmt.Fprint(w, "ok")
}

// handleIpfsResolve proxies ipfs content through the configured gateways so
// the browser never talks to a gateway directly. Range requests pass through
// for media playback.
func (s Server) handleIpfsResolve(w http.ResponseWriter, r *http.Request) {
	corsHeaders(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "missing path parameter", http.StatusBadRequest)
		return
	}

	resp, err := s.ipfs.Fetch(r.Context(), ipfs.CleanPath(path), r.Header.Get("Range"))
	if err != nil {
		if errors.Is(err, ipfs.ErrAllGatewaysFailed) {
			zap.L().With(zap.String("path", path)).Warn("Resolver: all gateways failed")
			http.Error(w, "content not available", http.StatusNotFound)
			return
		}

		http.Error(w, "resolve failure", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	for _, header := range []string{"Content-Type", "Content-Length", "ETag", "Accept-Ranges", "Content-Range"} {
		if value := resp.Header.Get(header); value != "" {
			w.Header().Set(header, value)
		}
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")

	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		zap.L().With(zap.Error(err), zap.String("path", path)).Debug("Resolver: copy interrupted")
	}
}

func (s Server) handleBytecode(w http.ResponseWriter, r *http.Request) {
	corsHeaders(w)

	hexCode, err := s.bytecode.CreationHex(r.Context())
	if err != nil {
		zap.L().With(zap.Error(err)).Error("Resolver: bytecode unavailable")
		http.Error(w, "bytecode not available", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = fmt.Fprintf(w, `{"bytecode":%q}`, hexCode)
}

func corsHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Range")
}

func notFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})
}
