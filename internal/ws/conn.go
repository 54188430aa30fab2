package ws

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/anburocky3/mugamili-anonymous-messaging-app/internal/auth"
	"github.com/anburocky3/mugamili-anonymous-messaging-app/internal/config"
	"github.com/anburocky3/mugamili-anonymous-messaging-app/internal/models"
	"github.com/anburocky3/mugamili-anonymous-messaging-app/internal/service"
)

// Client 是房间事件流的一个订阅者。
// 订阅者只读事件，发消息走 REST 接口。
type Client struct {
	room *RoomHub
	conn *websocket.Conn
	send chan []byte
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Serve 处理房间事件流的订阅请求。
// 私有房间要求出示 PIN 校验时签发的房间令牌（query 或 cookie）。
func Serve(h *Hub, rooms *service.RoomService, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := c.Query("room_id")
		if roomID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room_id"})
			return
		}
		room, err := rooms.Get(roomID)
		if err != nil {
			if errors.Is(err, service.ErrRoomNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
				return
			}
			log.Error().Err(err).Str("room_id", roomID).Msg("ws room lookup")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to join room"})
			return
		}

		if room.Type == models.RoomPrivate && room.HasPin() {
			token := c.Query("token")
			if token == "" {
				token, _ = c.Cookie("room_" + roomID)
			}
			if !auth.VerifyRoomToken(token, roomID, cfg.SessionSecret) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "pin verification required"})
				return
			}
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		rh := h.GetRoom(roomID)
		client := &Client{room: rh, conn: conn, send: make(chan []byte, 256)}
		rh.register <- client

		go client.writePump()
		client.readPump()
	}
}

// readPump 只消费控制帧并侦测断线，入站数据一律丢弃。
func (c *Client) readPump() {
	defer func() {
		c.room.unregister <- c
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			_, _ = w.Write(message)
			_ = w.Close()
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
