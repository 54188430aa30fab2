package service

import "github.com/anburocky3/mugamili-anonymous-messaging-app/internal/models"

// RoomStore 是房间持久化的抽象，store 负责在插入时分配 ID 与时间戳。
// 作为显式注入的依赖传给 service，便于测试替换为内存实现。
type RoomStore interface {
	Insert(room *models.Room) error
	// Get 在房间不存在时返回 (nil, nil)。
	Get(id string) (*models.Room, error)
	List(limit int) ([]models.Room, error)
}

// MessageStore 是留言持久化的抽象。
type MessageStore interface {
	Insert(msg *models.Message) error
	// Get 在留言不存在时返回 (nil, nil)。
	Get(id string) (*models.Message, error)
	// ListByRoom 按时间倒序返回指定房间的留言，最多 limit 条。
	ListByRoom(roomID string, limit int) ([]models.Message, error)
	SetFlag(id string, flagged bool) error
	// Delete 删除不存在的留言不是错误。
	Delete(id string) error
}
