package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cwrk-planet/relay-service/internal/domain"
	"github.com/cwrk-planet/relay-service/internal/service"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	roomSvc   *service.RoomService
	signalSvc *service.SignalService
}

func NewHandler(room *service.RoomService, signal *service.SignalService) *Handler {
	return &Handler{
		roomSvc:   room,
		signalSvc: signal,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// POST /api/room
func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.roomSvc.CreateRoom(r.Context())
	if err != nil {
		slog.Error("handler.CreateRoom:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, CreateRoomResponse{
		RoomID: room.ID,
		PeerID: room.HostID,
		Role:   domain.RoleHost,
	})
}

// POST /api/room/{id}/join
func (h *Handler) JoinRoom(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")

	guestID, hostID, err := h.roomSvc.JoinRoom(r.Context(), roomID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRoomNotFound):
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "room not found"})
		case errors.Is(err, domain.ErrRoomFull):
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "room is full"})
		default:
			slog.Error("handler.JoinRoom:", slog.Any("err", err))
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	writeJSON(w, http.StatusOK, JoinRoomResponse{
		RoomID: roomID,
		PeerID: guestID,
		Role:   domain.RoleGuest,
		HostID: hostID,
	})
}

// POST /api/room/{id}/signal
func (h *Handler) PostSignal(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")

	var req PostSignalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Debug("handler.PostSignal.Decode:", slog.Any("err", err))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}

	ts, err := h.signalSvc.Post(r.Context(), roomID, domain.Signal{
		From: req.From,
		To:   req.To,
		Type: req.Type,
		Data: req.Data,
	})
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "room not found"})
			return
		}
		slog.Error("handler.PostSignal:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, PostSignalResponse{Success: true, Timestamp: ts})
}

// GET /api/room/{id}/signal?peerId=&lastTs=
//
// Polling never fails: an unknown room or a stale watermark just yields an
// empty list, and a missing or garbled lastTs counts as zero.
func (h *Handler) PollSignals(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	peerID := r.URL.Query().Get("peerId")

	var lastTs int64
	if s := r.URL.Query().Get("lastTs"); s != "" {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			lastTs = n
		}
	}

	signals := h.signalSvc.Poll(r.Context(), roomID, peerID, lastTs)

	resp := PollSignalsResponse{Signals: make([]SignalItem, 0, len(signals))}
	for _, s := range signals {
		resp.Signals = append(resp.Signals, SignalItem{
			From:      s.From,
			To:        s.To,
			Type:      s.Type,
			Data:      s.Data,
			Timestamp: s.Timestamp,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
