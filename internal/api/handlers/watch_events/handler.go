package watch_events

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/events"
	"github.com/m04kA/SMC-AppointmentService/internal/service/professionals"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

const (
	msgMissingUserID         = "отсутствует ID пользователя"
	msgInvalidProfessionalID = "некорректный ID специалиста"
	msgNotFound              = "специалист не найден"
)

type Handler struct {
	source       EventSource
	professional ProfessionalService
	upgrader     websocket.Upgrader
	logger       Logger
}

func NewHandler(source EventSource, professional ProfessionalService, logger Logger) *Handler {
	return &Handler{
		source:       source,
		professional: professional,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Handle GET /api/v1/events/ws?professionalId=
// Пользователь всегда получает события своих бронирований;
// с professionalId добавляются изменения слотов специалиста,
// а владельцу профиля ещё и бронирования специалиста
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	topics := []string{events.ClientBookingsTopic(userID)}
	owner := false

	if raw := r.URL.Query().Get("professionalId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidProfessionalID)
			return
		}
		professionalID := id.String()

		profile, err := h.professional.GetByID(r.Context(), professionalID)
		if err != nil {
			if errors.Is(err, professionals.ErrProfessionalNotFound) {
				handlers.RespondNotFound(w, msgNotFound)
				return
			}
			h.logger.Error("GET /events/ws - Failed to get professional: professional_id=%s, error=%v", professionalID, err)
			handlers.RespondInternalError(w)
			return
		}

		topics = append(topics, events.SlotTopic(professionalID))
		if profile.OwnerUID == userID {
			owner = true
			topics = append(topics, events.ProfessionalBookingsTopic(professionalID))
		}
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже записал ответ клиенту
		h.logger.Warn("GET /events/ws - Upgrade failed: user_id=%s, error=%v", userID, err)
		return
	}
	defer conn.Close()

	stream, cancel := h.source.Subscribe(topics...)
	defer cancel()

	h.logger.Info("GET /events/ws - Subscribed: user_id=%s, topics=%v", userID, topics)

	done := make(chan struct{})
	go h.readLoop(conn, done)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			h.logger.Info("GET /events/ws - Client disconnected: user_id=%s", userID)
			return

		case <-r.Context().Done():
			return

		case event, ok := <-stream:
			if !ok {
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(FromEvent(event, userID, owner)); err != nil {
				h.logger.Warn("GET /events/ws - Write failed: user_id=%s, error=%v", userID, err)
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop обрабатывает pong и close; входящие сообщения игнорируются
func (h *Handler) readLoop(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
