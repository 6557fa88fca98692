package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"parking_reservation/internal/api/middleware"
	"parking_reservation/internal/domain"
	"parking_reservation/internal/service"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait  = 10 * time.Second
	wsSendBuffer = 16
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Cho phép kết nối từ mọi nguồn
	},
}

type wsClient struct {
	userID string
	conn   *websocket.Conn
	send   chan []byte
}

// WebSocketManager giữ các kết nối đang mở, nhóm theo người dùng.
type WebSocketManager struct {
	clients map[*wsClient]bool
	mutex   sync.RWMutex
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{clients: make(map[*wsClient]bool)}
}

var _ service.UserNotifier = (*WebSocketManager)(nil)

func (wsm *WebSocketManager) register(client *wsClient) {
	wsm.mutex.Lock()
	wsm.clients[client] = true
	total := len(wsm.clients)
	wsm.mutex.Unlock()
	log.Printf("WebSocket client connected (user %s). Total: %d", client.userID, total)
}

func (wsm *WebSocketManager) unregister(client *wsClient) {
	wsm.mutex.Lock()
	if _, ok := wsm.clients[client]; ok {
		delete(wsm.clients, client)
		close(client.send)
	}
	total := len(wsm.clients)
	wsm.mutex.Unlock()
	log.Printf("WebSocket client disconnected (user %s). Total: %d", client.userID, total)
}

// sendTo xếp message vào hàng đợi của client; bỏ qua nếu client đã đóng hoặc hàng đợi đầy.
func (wsm *WebSocketManager) sendTo(client *wsClient, message []byte) {
	wsm.mutex.RLock()
	defer wsm.mutex.RUnlock()
	if !wsm.clients[client] {
		return
	}
	select {
	case client.send <- message:
	default:
		log.Printf("WebSocket send buffer full for user %s, dropping message", client.userID)
	}
}

// SendToUser gửi message tới mọi kết nối của userID.
func (wsm *WebSocketManager) SendToUser(userID string, message []byte) {
	wsm.mutex.RLock()
	defer wsm.mutex.RUnlock()
	for client := range wsm.clients {
		if client.userID != userID {
			continue
		}
		select {
		case client.send <- message:
		default:
			log.Printf("WebSocket send buffer full for user %s, dropping message", userID)
		}
	}
}

func (wsm *WebSocketManager) ClientCount() int {
	wsm.mutex.RLock()
	defer wsm.mutex.RUnlock()
	return len(wsm.clients)
}

// CloseAll đóng mọi kết nối, dùng khi tắt server.
func (wsm *WebSocketManager) CloseAll() {
	wsm.mutex.RLock()
	defer wsm.mutex.RUnlock()
	for client := range wsm.clients {
		client.conn.Close()
	}
}

func (c *wsClient) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("Error writing to WebSocket client: %v", err)
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

type slotMapMessage struct {
	Type string                    `json:"type"`
	Data domain.SlotMapResponseDTO `json:"data"`
}

type wsErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// slotMapStream giữ khoảng thời gian người dùng đang xem và snapshot gần nhất của một kết nối.
type slotMapStream struct {
	mu       sync.Mutex
	desired  *domain.Interval
	last     []domain.Reservation
	haveLast bool
}

type pushFunc func(snapshot []domain.Reservation, desired *domain.Interval)

// onSnapshot và onDesired giữ khóa trong lúc push để các bản đồ slot gửi đi theo đúng thứ tự.
func (s *slotMapStream) onSnapshot(snapshot []domain.Reservation, push pushFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last, s.haveLast = snapshot, true
	push(s.last, s.desired)
}

func (s *slotMapStream) onDesired(desired *domain.Interval, push pushFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.desired = desired
	if s.haveLast {
		push(s.last, s.desired)
	}
}

type WebSocketHandler struct {
	wsManager          *WebSocketManager
	verifier           middleware.TokenVerifier
	reservationService *service.ReservationService
}

func NewWebSocketHandler(wsManager *WebSocketManager, verifier middleware.TokenVerifier, rs *service.ReservationService) *WebSocketHandler {
	return &WebSocketHandler{wsManager: wsManager, verifier: verifier, reservationService: rs}
}

// GET /ws?token=&date=&start_time=&duration_hours=
// Gửi bản đồ slot mỗi khi danh sách reservation thay đổi. Client có thể gửi
// {"date","start_time","duration_hours"} để đổi khoảng thời gian đang xem.
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	identity, err := h.verifier.IdentityFromToken(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token không hợp lệ hoặc đã hết hạn", "details": err.Error()})
		return
	}
	var bt domain.BookingTimeDTO
	if err := c.ShouldBindQuery(&bt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tham số truy vấn không hợp lệ: " + err.Error()})
		return
	}
	desired, err := bt.DesiredInterval(h.reservationService.Location())
	if err != nil {
		respondError(c, err, "Lỗi khi tính trạng thái slot")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade to WebSocket: %v", err)
		return
	}

	// Request context kết thúc khi handler trả về, nên kết nối có context riêng
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshots, unsubscribe, err := h.reservationService.Feed().Subscribe(ctx)
	if err != nil {
		log.Printf("WebSocket: Không thể đăng ký feed reservation: %v", err)
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "feed unavailable"))
		conn.Close()
		return
	}

	client := &wsClient{userID: identity.UserID, conn: conn, send: make(chan []byte, wsSendBuffer)}
	h.wsManager.register(client)
	go client.writePump()

	stream := &slotMapStream{desired: desired}
	push := func(snapshot []domain.Reservation, desired *domain.Interval) {
		h.pushSlotMap(client, identity, snapshot, desired)
	}
	var pushers sync.WaitGroup
	pushers.Add(1)
	go func() {
		defer pushers.Done()
		for snapshot := range snapshots {
			stream.onSnapshot(snapshot, push)
		}
	}()

	h.readLoop(client, stream, push)

	unsubscribe()
	pushers.Wait()
	h.wsManager.unregister(client)
}

func (h *WebSocketHandler) readLoop(client *wsClient, stream *slotMapStream, push pushFunc) {
	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}

		var bt domain.BookingTimeDTO
		if err := json.Unmarshal(data, &bt); err != nil {
			h.pushError(client, "message không hợp lệ")
			continue
		}
		desired, err := bt.DesiredInterval(h.reservationService.Location())
		if err != nil {
			h.pushError(client, err.Error())
			continue
		}
		stream.onDesired(desired, push)
	}
}

func (h *WebSocketHandler) pushSlotMap(client *wsClient, identity domain.Identity, snapshot []domain.Reservation, desired *domain.Interval) {
	views, err := h.reservationService.ProjectSnapshot(identity, snapshot, desired)
	if err != nil {
		log.Printf("WebSocket: Lỗi tính trạng thái slot cho user %s: %v", identity.UserID, err)
		h.pushError(client, "Lỗi khi tính trạng thái slot")
		return
	}
	message, err := json.Marshal(slotMapMessage{
		Type: "slot_map",
		Data: domain.SlotMapResponseDTO{Interval: desired, BookingTimeRequired: desired == nil, Slots: views},
	})
	if err != nil {
		log.Printf("Error marshaling slot map: %v", err)
		return
	}
	h.wsManager.sendTo(client, message)
}

func (h *WebSocketHandler) pushError(client *wsClient, msg string) {
	message, err := json.Marshal(wsErrorMessage{Type: "error", Error: msg})
	if err != nil {
		return
	}
	h.wsManager.sendTo(client, message)
}
