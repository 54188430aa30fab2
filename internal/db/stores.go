package db

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anburocky3/mugamili-anonymous-messaging-app/internal/models"
)

// RoomStore 是 service.RoomStore 的 gorm 实现。
type RoomStore struct {
	db *gorm.DB
}

func NewRoomStore(gdb *gorm.DB) *RoomStore {
	return &RoomStore{db: gdb}
}

// Insert 落库时分配不透明 ID，时间戳由 gorm 在插入时写入。
func (s *RoomStore) Insert(room *models.Room) error {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	return s.db.Create(room).Error
}

func (s *RoomStore) Get(id string) (*models.Room, error) {
	var room models.Room
	if err := s.db.First(&room, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

func (s *RoomStore) List(limit int) ([]models.Room, error) {
	var rooms []models.Room
	if err := s.db.Order("created_at desc").Limit(limit).Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

// MessageStore 是 service.MessageStore 的 gorm 实现。
type MessageStore struct {
	db *gorm.DB
}

func NewMessageStore(gdb *gorm.DB) *MessageStore {
	return &MessageStore{db: gdb}
}

func (s *MessageStore) Insert(msg *models.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	return s.db.Create(msg).Error
}

func (s *MessageStore) Get(id string) (*models.Message, error) {
	var msg models.Message
	if err := s.db.First(&msg, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

func (s *MessageStore) ListByRoom(roomID string, limit int) ([]models.Message, error) {
	var msgs []models.Message
	err := s.db.Where("room_id = ?", roomID).
		Order("created_at desc").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func (s *MessageStore) SetFlag(id string, flagged bool) error {
	return s.db.Model(&models.Message{}).Where("id = ?", id).Update("is_flagged", flagged).Error
}

func (s *MessageStore) Delete(id string) error {
	return s.db.Delete(&models.Message{}, "id = ?", id).Error
}
