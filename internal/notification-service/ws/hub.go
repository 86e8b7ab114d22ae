package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/radieske/palpiteiro-premiado/internal/shared/auth"
	"github.com/radieske/palpiteiro-premiado/internal/shared/metrics"
	"github.com/radieske/palpiteiro-premiado/pkg/contracts/events"
)

const writeWait = 5 * time.Second

// client serializa as escritas: gorilla não aceita writers concorrentes
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(messageType int, b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, b)
}

// Hub mantém as conexões abertas de cada usuário
// subs: userID -> conjunto de conexões
type Hub struct {
	log      *zap.Logger
	verifier *auth.Verifier
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	subs     map[string]map[*client]struct{}
}

// NewHub cria uma instância de Hub com política customizada de origem (CORS)
func NewHub(log *zap.Logger, v *auth.Verifier, allowOrigin func(r *http.Request) bool) *Hub {
	return &Hub{
		log:      log,
		verifier: v,
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		subs:     make(map[string]map[*client]struct{}),
	}
}

// HandleWS autentica pelo token (?token= ou Bearer) antes do upgrade
// e mantém a conexão registrada para o usuário até o cliente sair
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	tok, err := auth.TokenFromRequest(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	sess, err := h.verifier.Parse(tok)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{conn: conn}
	h.add(sess.UserID, c)
	defer func() {
		h.remove(sess.UserID, c)
		_ = conn.Close()
	}()

	for {
		var msg ClientMsg
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if msg.Type == "ping" {
			_ = c.write(websocket.TextMessage, []byte(`{"type":"pong"}`))
		}
	}
}

func (h *Hub) add(userID string, c *client) {
	h.mu.Lock()
	if _, ok := h.subs[userID]; !ok {
		h.subs[userID] = make(map[*client]struct{})
	}
	h.subs[userID][c] = struct{}{}
	h.mu.Unlock()
	metrics.WSConnections.Inc()
}

func (h *Hub) remove(userID string, c *client) {
	h.mu.Lock()
	if set, ok := h.subs[userID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.subs, userID)
		}
	}
	h.mu.Unlock()
	metrics.WSConnections.Dec()
}

// Connections devolve quantas conexões o usuário tem abertas
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}

// Deliver envia a notificação para todas as conexões do usuário
func (h *Hub) Deliver(n events.UserNotification) int {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.subs[n.UserID]))
	for c := range h.subs[n.UserID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()
	if len(targets) == 0 {
		return 0
	}

	b, err := json.Marshal(n)
	if err != nil {
		h.log.Warn("marshal notification", zap.Error(err))
		return 0
	}
	sent := 0
	for _, c := range targets {
		if err := c.write(websocket.TextMessage, b); err != nil {
			h.log.Debug("ws write", zap.String("user_id", n.UserID), zap.Error(err))
			continue
		}
		sent++
	}
	metrics.NotificationsDelivered.Add(float64(sent))
	return sent
}
