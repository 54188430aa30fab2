package ws

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/anburocky3/mugamili-anonymous-messaging-app/internal/metrics"
)

// Hub 管理房间级别的子 Hub，实现延迟创建与并发安全。
// 每个房间一条事件流：留言、标记、删除、在线人数变化。
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]*RoomHub
}

func NewHub() *Hub { return &Hub{rooms: make(map[string]*RoomHub)} }

// GetRoom 若房间流未初始化则懒加载一个 RoomHub。
func (h *Hub) GetRoom(roomID string) *RoomHub {
	h.mu.RLock()
	room := h.rooms[roomID]
	h.mu.RUnlock()
	if room != nil {
		return room
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	room = h.rooms[roomID]
	if room != nil {
		return room
	}
	room = NewRoomHub(roomID)
	h.rooms[roomID] = room
	go room.run()
	return room
}

// Broadcast 把事件推给指定房间的所有订阅者。
// service 层通过该方法投递持久化之后的事件。
func (h *Hub) Broadcast(roomID string, payload []byte) {
	h.GetRoom(roomID).broadcast <- payload
}

// Online 返回房间当前的订阅者数量。
func (h *Hub) Online(roomID string) int {
	h.mu.RLock()
	room := h.rooms[roomID]
	h.mu.RUnlock()
	if room == nil {
		return 0
	}
	return room.Online()
}

// RoomHub 是单个房间的事件循环，所有状态只在 run goroutine 里变更。
type RoomHub struct {
	roomID     string
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	online     int32
}

func NewRoomHub(roomID string) *RoomHub {
	return &RoomHub{
		roomID:     roomID,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
	}
}

func (rh *RoomHub) run() {
	for {
		select {
		case c := <-rh.register:
			rh.clients[c] = true
			atomic.StoreInt32(&rh.online, int32(len(rh.clients)))
			metrics.WsConnections.Inc()
			rh.fanout(rh.presenceEvent())
		case c := <-rh.unregister:
			if _, ok := rh.clients[c]; ok {
				delete(rh.clients, c)
				close(c.send)
				atomic.StoreInt32(&rh.online, int32(len(rh.clients)))
				metrics.WsConnections.Dec()
				rh.fanout(rh.presenceEvent())
			}
		case msg := <-rh.broadcast:
			rh.fanout(msg)
		}
	}
}

// fanout 把事件投给房间内每个客户端；写不进去的客户端视为掉线并清理。
func (rh *RoomHub) fanout(payload []byte) {
	if payload == nil {
		return
	}
	for c := range rh.clients {
		select {
		case c.send <- payload:
		default:
			close(c.send)
			delete(rh.clients, c)
			metrics.WsConnections.Dec()
		}
	}
}

func (rh *RoomHub) presenceEvent() []byte {
	evt := map[string]interface{}{
		"type":   "presence",
		"roomId": rh.roomID,
		"online": int(atomic.LoadInt32(&rh.online)),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return nil
	}
	return b
}

// Online 返回房间在线订阅者数量，供 REST 接口复用。
func (rh *RoomHub) Online() int { return int(atomic.LoadInt32(&rh.online)) }
