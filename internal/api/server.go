package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fractionft/fraction-marketplace/internal/manager"
	"github.com/fractionft/fraction-marketplace/internal/marketplace"
	"github.com/fractionft/fraction-marketplace/internal/registry"
	"github.com/fractionft/fraction-marketplace/internal/token"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Server is the read-side HTTP API for the marketplace frontend. Listing
// and purchasing are wallet operations and stay off this surface.
type Server struct {
	store      *marketplace.Store
	aggregator marketplace.Aggregator
	managers   manager.Service
	tokens     token.Service
}

func NewServer(store *marketplace.Store, aggregator marketplace.Aggregator, managers manager.Service, tokens token.Service) Server {
	return Server{store, aggregator, managers, tokens}
}

func (s Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.HandleFunc("/api/marketplace", s.handleMarketplace).Methods("GET")
	r.HandleFunc("/api/marketplace/{manager}", s.handleMarketplaceItem).Methods("GET")
	r.HandleFunc("/api/manager/{manager}/snapshot", s.handleSnapshot).Methods("GET")
	r.HandleFunc("/api/manager/{manager}/cost", s.handleCost).Methods("GET")
	r.HandleFunc("/api/manager/{manager}/gas", s.handleGasEstimate).Methods("GET")
	r.HandleFunc("/api/nfts/{owner}", s.handleOwnedNfts).Methods("GET")
	r.HandleFunc("/api/nfts/{owner}/shared", s.handleSharedNfts).Methods("GET")

	return r
}

func (s Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJson(w, map[string]string{"status": "ok"})
}

func (s Server) handleMarketplace(w http.ResponseWriter, _ *http.Request) {
	writeJson(w, map[string]interface{}{
		"items":       s.store.Items(),
		"refreshedAt": s.store.RefreshedAt().Format(time.RFC3339),
	})
}

// handleMarketplaceItem resolves the item live rather than from the store so
// detail pages see current availability.
func (s Server) handleMarketplaceItem(w http.ResponseWriter, r *http.Request) {
	managerAddr, ok := addressVar(w, r, "manager")
	if !ok {
		return
	}

	item, err := s.aggregator.Item(r.Context(), managerAddr)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			http.Error(w, "listing not found", http.StatusNotFound)
			return
		}

		zap.L().With(zap.Error(err), zap.String("manager", managerAddr.Hex())).Warn("Api: item lookup failed")
		http.Error(w, "listing not available", http.StatusBadGateway)
		return
	}

	writeJson(w, item)
}

func (s Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	managerAddr, ok := addressVar(w, r, "manager")
	if !ok {
		return
	}

	snapshot, err := s.managers.Snapshot(r.Context(), managerAddr)
	if err != nil {
		if errors.Is(err, manager.ErrUnavailable) {
			http.Error(w, "manager state unavailable", http.StatusBadGateway)
			return
		}

		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	writeJson(w, snapshot)
}

func (s Server) handleCost(w http.ResponseWriter, r *http.Request) {
	managerAddr, ok := addressVar(w, r, "manager")
	if !ok {
		return
	}

	percentage, ok := percentageParam(w, r)
	if !ok {
		return
	}

	cost, err := s.managers.CalculateCost(r.Context(), percentage, managerAddr)
	if err != nil {
		http.Error(w, "could not calculate cost", http.StatusBadGateway)
		return
	}

	writeJson(w, map[string]string{"costEth": cost})
}

func (s Server) handleGasEstimate(w http.ResponseWriter, r *http.Request) {
	managerAddr, ok := addressVar(w, r, "manager")
	if !ok {
		return
	}

	percentage, ok := percentageParam(w, r)
	if !ok {
		return
	}

	var from *common.Address
	if raw := r.URL.Query().Get("from"); raw != "" {
		if !common.IsHexAddress(raw) {
			http.Error(w, "invalid from address", http.StatusBadRequest)
			return
		}
		addr := common.HexToAddress(raw)
		from = &addr
	}

	writeJson(w, s.managers.EstimateGasForPurchase(r.Context(), percentage, managerAddr, from))
}

func (s Server) handleOwnedNfts(w http.ResponseWriter, r *http.Request) {
	owner, ok := addressVar(w, r, "owner")
	if !ok {
		return
	}

	nfts, err := s.tokens.FetchOwnedNFTs(r.Context(), owner)
	if err != nil {
		http.Error(w, "could not fetch nfts", http.StatusBadGateway)
		return
	}

	writeJson(w, nfts)
}

func (s Server) handleSharedNfts(w http.ResponseWriter, r *http.Request) {
	owner, ok := addressVar(w, r, "owner")
	if !ok {
		return
	}

	nfts, err := s.tokens.FetchSharedNFTs(r.Context(), owner)
	if err != nil {
		http.Error(w, "could not fetch shared nfts", http.StatusBadGateway)
		return
	}

	writeJson(w, nfts)
}

func addressVar(w http.ResponseWriter, r *http.Request, name string) (common.Address, bool) {
	raw := mux.Vars(r)[name]
	if !common.IsHexAddress(raw) {
		http.Error(w, "invalid "+name+" address", http.StatusBadRequest)
		return common.Address{}, false
	}

	return common.HexToAddress(raw), true
}

func percentageParam(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := r.URL.Query().Get("percentage")

	percentage, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || percentage == 0 || percentage > 100 {
		http.Error(w, "percentage must be between 1 and 100", http.StatusBadRequest)
		return 0, false
	}

	return percentage, true
}

func writeJson(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().With(zap.Error(err)).Debug("Api: response encoding failed")
	}
}
