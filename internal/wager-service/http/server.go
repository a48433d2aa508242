package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/radieske/sports-wager-engine/internal/wager-service/domain"
	"github.com/radieske/sports-wager-engine/internal/wager-service/dto"
	"github.com/radieske/sports-wager-engine/internal/wager-service/engine"
)

// StatusReader consulta o status de uma aposta persistida.
type StatusReader interface {
	GetStatus(ctx context.Context, wagerID string) (string, error)
}

type Server struct {
	log    *zap.Logger
	engine *engine.Engine
	status StatusReader
}

func NewServer(log *zap.Logger, e *engine.Engine, status StatusReader) *Server {
	return &Server{log: log, engine: e, status: status}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/wagers", s.placeWager)      // POST
	mux.HandleFunc("/wagers/", s.getWagerStatus) // GET /wagers/{id}
	return mux
}

func (s *Server) placeWager(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.PlaceWagerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.UserID == "" || len(req.Legs) == 0 || req.StakeCents <= 0 {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	slip := &domain.Slip{
		UserID:     req.UserID,
		Category:   domain.Category(req.Category),
		StakeCents: req.StakeCents,
		TotalPrice: req.TotalPrice,
	}
	for _, l := range req.Legs {
		slip.Legs = append(slip.Legs, domain.SlipLeg{LegID: l.LegID, Price: l.Price})
	}

	receipt, err := s.engine.Place(r.Context(), slip)
	if err != nil {
		// Bilhete malformado é culpa do cliente, não falha do servidor.
		if errors.Is(err, domain.ErrEmptySlip) || errors.Is(err, domain.ErrInvalidStake) || errors.Is(err, domain.ErrInvalidCategory) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.log.Error("place wager", zap.String("user", req.UserID), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	switch receipt.State {
	case engine.StateCommitted:
		bal := receipt.BalanceCents
		writeJSON(w, http.StatusOK, dto.PlaceWagerResponse{
			Status:       string(receipt.State),
			WagerID:      receipt.WagerID,
			PayoutCents:  receipt.PayoutCents,
			BalanceCents: &bal,
		})
	case engine.StateStaleOdds:
		// 409: as odds mudaram; devolve as legs atualizadas para o
		// cliente reconfirmar.
		resp := dto.PlaceWagerResponse{
			Status: string(receipt.State),
			Code:   string(receipt.Code),
		}
		for _, l := range receipt.UpdatedLegs {
			resp.UpdatedLegs = append(resp.UpdatedLegs, dto.UpdatedLeg{LegID: l.ID, Price: l.Price})
		}
		writeJSON(w, http.StatusConflict, resp)
	default:
		status := http.StatusUnprocessableEntity
		if receipt.Code == engine.ReasonCommitFailed {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, dto.PlaceWagerResponse{
			Status:  string(receipt.State),
			Code:    string(receipt.Code),
			Message: receipt.Message,
		})
	}
}

func (s *Server) getWagerStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	// path: /wagers/{id}
	id := r.URL.Path[len("/wagers/"):]
	if id == "" {
		http.Error(w, "wagerId required", http.StatusBadRequest)
		return
	}

	st, err := s.status.GetStatus(r.Context(), id)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, dto.WagerStatusResponse{WagerID: id, Status: st})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
