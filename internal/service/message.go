package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/anburocky3/mugamili-anonymous-messaging-app/internal/metrics"
	"github.com/anburocky3/mugamili-anonymous-messaging-app/internal/models"
	"github.com/anburocky3/mugamili-anonymous-messaging-app/internal/sanitize"
)

// Broadcaster 把房间内的实时事件推给已订阅的客户端。
// ws.Hub 实现了该接口；测试可以传 nil 关闭推送。
type Broadcaster interface {
	Broadcast(roomID string, payload []byte)
}

// MessageService 封装留言的发布、查询与管理操作。
type MessageService struct {
	store MessageStore
	hub   Broadcaster
}

func NewMessageService(store MessageStore, hub Broadcaster) *MessageService {
	return &MessageService{store: store, hub: hub}
}

// PostInput 是发布留言的入参。
type PostInput struct {
	RoomID   string `json:"roomId"`
	Content  string `json:"content"`
	Nickname string `json:"nickname"`
	MediaURL string `json:"mediaUrl"`
}

// MessageDTO 是对外输出的留言数据，字段名沿用对外 API 的 camelCase。
type MessageDTO struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"roomId"`
	Nickname  string    `json:"nickname"`
	Content   string    `json:"content"`
	MediaURL  *string   `json:"mediaUrl"`
	IsFlagged bool      `json:"isFlagged"`
	Timestamp time.Time `json:"timestamp"`
}

func toDTO(m models.Message) MessageDTO {
	return MessageDTO{
		ID:        m.ID,
		RoomID:    m.RoomID,
		Nickname:  m.Nickname,
		Content:   m.Content,
		MediaURL:  m.MediaURL,
		IsFlagged: m.IsFlagged,
		Timestamp: m.CreatedAt,
	}
}

// Post 校验并归一化留言后落库，成功后向房间广播。
// 正文与媒体链接归一化后同时为空视为非法输入。
func (s *MessageService) Post(in PostInput) (*MessageDTO, error) {
	if strings.TrimSpace(in.RoomID) == "" {
		return nil, fmt.Errorf("%w: roomId is required", ErrInvalidInput)
	}

	msg := models.Message{
		RoomID:   in.RoomID,
		Nickname: sanitize.Nickname(in.Nickname),
		Content:  sanitize.Content(in.Content),
		MediaURL: sanitize.MediaURL(in.MediaURL),
	}
	if msg.Content == "" && msg.MediaURL == nil {
		return nil, fmt.Errorf("%w: message must include content or mediaUrl", ErrInvalidInput)
	}

	if err := s.store.Insert(&msg); err != nil {
		return nil, err
	}
	metrics.MessagesTotal.Inc()

	dto := toDTO(msg)
	s.notify(msg.RoomID, streamEvent{Type: "message", Message: &dto})
	return &dto, nil
}

// ListByRoom 返回房间留言的时间正序分页，供房间页渲染。
func (s *MessageService) ListByRoom(roomID string, limit int) ([]MessageDTO, error) {
	msgs, err := s.listDesc(roomID, limit)
	if err != nil {
		return nil, err
	}
	// store 按时间倒序返回，这里反转为正序
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// ListNewest 返回房间最新的留言，倒序，供管理端审核。
func (s *MessageService) ListNewest(roomID string, limit int) ([]MessageDTO, error) {
	return s.listDesc(roomID, limit)
}

func (s *MessageService) listDesc(roomID string, limit int) ([]MessageDTO, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	msgs, err := s.store.ListByRoom(roomID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]MessageDTO, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toDTO(m))
	}
	return out, nil
}

// Flag 设置留言的标记状态，幂等；留言不存在返回 ErrMessageNotFound。
func (s *MessageService) Flag(messageID string, flagged bool) error {
	msg, err := s.store.Get(messageID)
	if err != nil {
		return err
	}
	if msg == nil {
		return ErrMessageNotFound
	}
	if err := s.store.SetFlag(messageID, flagged); err != nil {
		return err
	}
	metrics.ModerationFlagsTotal.Inc()
	s.notify(msg.RoomID, streamEvent{Type: "flag", ID: messageID, IsFlagged: &flagged})
	return nil
}

// Delete 永久删除留言。删除不存在的留言不是错误。
func (s *MessageService) Delete(messageID string) error {
	msg, err := s.store.Get(messageID)
	if err != nil {
		return err
	}
	if msg == nil {
		return nil
	}
	if err := s.store.Delete(messageID); err != nil {
		return err
	}
	metrics.ModerationDeletesTotal.Inc()
	s.notify(msg.RoomID, streamEvent{Type: "delete", ID: messageID})
	return nil
}

// streamEvent 是推给房间订阅者的实时事件。
type streamEvent struct {
	Type      string      `json:"type"`
	ID        string      `json:"id,omitempty"`
	IsFlagged *bool       `json:"isFlagged,omitempty"`
	Message   *MessageDTO `json:"message,omitempty"`
}

func (s *MessageService) notify(roomID string, evt streamEvent) {
	if s.hub == nil {
		return
	}
	b, err := json.Marshal(evt)
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("marshal stream event")
		return
	}
	s.hub.Broadcast(roomID, b)
}
