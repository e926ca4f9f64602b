package in_ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"foodshare/internal/livelocation/domain"
	"foodshare/internal/livelocation/hub"
	"foodshare/internal/shared/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 2048
	sendBuffer     = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// LocationMessage — входящий конверт: первое сообщение регистрирует
// соединение, последующие (от получателя) публикуют координаты
type LocationMessage struct {
	UserID     string   `json:"userId"`
	Role       string   `json:"role"`
	DonationID string   `json:"donationId"`
	Lat        *float64 `json:"lat,omitempty"`
	Lng        *float64 `json:"lng,omitempty"`
}

type registeredReply struct {
	Type string `json:"type"`
}

type errorReply struct {
	Error string `json:"error"`
}

// LocationWSHandler обслуживает WebSocket соединения live-локаций
type LocationWSHandler struct {
	hub *hub.LiveLocationHub
	log *logger.Logger
}

// NewLocationWSHandler создает новый handler
func NewLocationWSHandler(h *hub.LiveLocationHub, log *logger.Logger) *LocationWSHandler {
	return &LocationWSHandler{
		hub: h,
		log: log,
	}
}

type wsConn struct {
	id   string
	conn *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

// enqueue сериализует и ставит сообщение в очередь на отправку.
// Broadcast из хаба может гнаться с дисконнектом, поэтому закрытие
// канала защищено флагом.
func (c *wsConn) enqueue(v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- payload:
		return nil
	default:
		return errors.New("send buffer full")
	}
}

func (c *wsConn) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// ServeWS обслуживает одно соединение: upgrade, затем цикл чтения.
// Ошибки сообщений отправляются обратно как {"error": ...}, соединение
// при этом остается открытым.
func (h *LocationWSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error(logger.Entry{
			Action:  "ws_upgrade_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		return
	}

	c := &wsConn{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	go h.writePump(c)
	h.readPump(r.Context(), c)
}

func (h *LocationWSHandler) readPump(ctx context.Context, c *wsConn) {
	defer func() {
		h.hub.Unregister(c.id)
		c.closeSend()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn(logger.Entry{
					Action:  "ws_read_failed",
					Message: err.Error(),
				})
			}
			return
		}

		var msg LocationMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.replyError(c, "invalid message format")
			continue
		}

		h.handleMessage(ctx, c, msg)
	}
}

// handleMessage регистрирует соединение и/или публикует координаты
func (h *LocationWSHandler) handleMessage(ctx context.Context, c *wsConn, msg LocationMessage) {
	if msg.UserID == "" || msg.DonationID == "" {
		h.replyError(c, "userId and donationId are required")
		return
	}

	registered, err := h.register(ctx, c, msg)
	if err != nil {
		h.replyError(c, err.Error())
		return
	}

	// Координаты в сообщении — публикация (только от получателя)
	if msg.Lat != nil && msg.Lng != nil && msg.Role == domain.RoleRecipient {
		if err := h.hub.Publish(ctx, c.id, msg.DonationID, *msg.Lat, *msg.Lng); err != nil {
			h.replyError(c, err.Error())
			return
		}
	}

	if registered {
		if err := c.enqueue(registeredReply{Type: "REGISTERED"}); err != nil {
			h.log.Warn(logger.Entry{
				Action:  "ws_send_failed",
				Message: err.Error(),
			})
		}
	}
}

// register привязывает соединение к донации, если оно еще не привязано.
// Возвращает true на первой успешной регистрации.
func (h *LocationWSHandler) register(ctx context.Context, c *wsConn, msg LocationMessage) (bool, error) {
	if h.hub.IsRegistered(c.id) {
		return false, nil
	}
	if err := h.hub.Register(ctx, c.id, msg.UserID, msg.Role, msg.DonationID, c.enqueue); err != nil {
		return false, err
	}
	return true, nil
}

func (h *LocationWSHandler) replyError(c *wsConn, message string) {
	if err := c.enqueue(errorReply{Error: message}); err != nil {
		h.log.Warn(logger.Entry{
			Action:  "ws_send_failed",
			Message: err.Error(),
		})
	}
}

func (h *LocationWSHandler) writePump(c *wsConn) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
