package rooms

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/parlorchat/parlor/internal/domain"
	"github.com/parlorchat/parlor/internal/infrastructure/json"
	"github.com/parlorchat/parlor/internal/infrastructure/metrics"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Handler owns the read/administrative surface over the room store: list,
// create, delete, history, presence. It reads the same store the realtime
// core mutates, with the same snapshot semantics.
type Handler struct {
	store    domain.RoomStore
	validate *validator.Validate
	log      *zap.SugaredLogger
}

func NewHandler(store domain.RoomStore, log *zap.SugaredLogger) *Handler {
	return &Handler{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

func (h *Handler) ListRoomsHandler(w http.ResponseWriter, r *http.Request) {
	infos := h.store.List(r.Context())

	resp := lo.Map(infos, func(info domain.RoomInfo, _ int) roomResponse {
		return roomResponse{
			ID:               info.ID,
			Name:             info.Name,
			ParticipantCount: info.ParticipantCount,
		}
	})

	json.Write(w, http.StatusOK, resp)
}

func (h *Handler) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	id := h.store.Create(r.Context(), req.Name)
	metrics.ActiveRooms.Inc()

	h.log.Infow("room created", "roomId", id, "name", req.Name)

	json.Write(w, http.StatusCreated, createRoomResponse{
		ID:   id,
		Name: req.Name,
	})
}

// DeleteRoomHandler removes the room without notifying its participants;
// their sessions go stale and subsequent actions fail per the protocol.
func (h *Handler) DeleteRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")

	if !h.store.Delete(r.Context(), roomID) {
		json.WriteNotFoundError(w, "Room not found")
		return
	}
	metrics.ActiveRooms.Dec()

	h.log.Infow("room deleted", "roomId", roomID)

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetHistoryHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")

	if !h.store.Exists(r.Context(), roomID) {
		json.WriteNotFoundError(w, "Room not found")
		return
	}

	history := h.store.History(r.Context(), roomID)

	resp := lo.Map(history, func(msg domain.Message, _ int) messageResponse {
		return messageResponse{
			ID:          msg.ID,
			UserID:      msg.UserID,
			DisplayName: msg.DisplayName,
			Text:        msg.Text,
			SentAt:      msg.SentAt.Format(time.RFC3339),
			System:      msg.System,
		}
	})

	json.Write(w, http.StatusOK, resp)
}

func (h *Handler) GetPresenceHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")

	present, ok := h.store.Presence(r.Context(), roomID)
	if !ok {
		json.WriteNotFoundError(w, "Room not found")
		return
	}

	resp := lo.Map(present, func(p domain.Participant, _ int) participantResponse {
		return participantResponse{
			UserID:      p.UserID,
			DisplayName: p.DisplayName,
			Typing:      p.Typing,
		}
	})

	json.Write(w, http.StatusOK, resp)
}
