package service

import (
	"fmt"
	"strings"

	"github.com/anburocky3/mugamili-anonymous-messaging-app/internal/auth"
	"github.com/anburocky3/mugamili-anonymous-messaging-app/internal/models"
)

// pinLength 私有房间 PIN 的位数。
const pinLength = 6

// RoomService 封装房间创建与 PIN 准入的业务逻辑。
type RoomService struct {
	store RoomStore
}

func NewRoomService(store RoomStore) *RoomService {
	return &RoomService{store: store}
}

// CreateResult 是创建房间的返回值。
// PIN 明文只在创建这一刻返回一次，之后任何读接口都不再给出。
type CreateResult struct {
	ID  string `json:"id"`
	PIN string `json:"pin,omitempty"`
}

// RoomSummary 是管理端房间选择列表用的投影。
type RoomSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Create 创建房间。私有房间生成 6 位 PIN，连同盐、哈希与明文
// 随房间一次写入；公开房间不产生任何 PIN 字段。
func (s *RoomService) Create(name, roomType, createdBy, creatorName string) (*CreateResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: room name is required", ErrInvalidInput)
	}
	if roomType != models.RoomPublic && roomType != models.RoomPrivate {
		return nil, fmt.Errorf("%w: invalid room type", ErrInvalidInput)
	}

	room := models.Room{
		Name:        name,
		Type:        roomType,
		CreatedBy:   createdBy,
		CreatorName: creatorName,
	}

	var pin string
	if roomType == models.RoomPrivate {
		p, err := auth.GeneratePIN(pinLength)
		if err != nil {
			return nil, err
		}
		salt, hash, err := auth.HashSecret(p, "")
		if err != nil {
			return nil, err
		}
		room.PinSalt, room.PinHash, room.PinPlain = salt, hash, p
		pin = p
	}

	if err := s.store.Insert(&room); err != nil {
		return nil, err
	}
	return &CreateResult{ID: room.ID, PIN: pin}, nil
}

// VerifyPIN 判定能否进入房间。公开房间与没有 PIN 材料的历史房间
// 一律放行；有 PIN 材料时空 PIN 直接拒绝，否则走常数时间比较。
// 调用方只拿到布尔结果，不区分“PIN 错”与“房间类型”。
func (s *RoomService) VerifyPIN(roomID, pin string) (bool, error) {
	room, err := s.store.Get(roomID)
	if err != nil {
		return false, err
	}
	if room == nil {
		return false, ErrRoomNotFound
	}
	if room.Type == models.RoomPublic || !room.HasPin() {
		return true, nil
	}
	if pin == "" || room.PinSalt == "" || room.PinHash == "" {
		return false, nil
	}
	return auth.VerifySecret(pin, room.PinSalt, room.PinHash), nil
}

// Get 返回房间，不存在时返回 ErrRoomNotFound。
func (s *RoomService) Get(roomID string) (*models.Room, error) {
	room, err := s.store.Get(roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// Summaries 返回管理端选择房间用的 {id, name, type} 列表。
func (s *RoomService) Summaries(limit int) ([]RoomSummary, error) {
	if limit <= 0 || limit > 500 {
		limit = 200
	}
	rooms, err := s.store.List(limit)
	if err != nil {
		return nil, err
	}
	out := make([]RoomSummary, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, RoomSummary{ID: r.ID, Name: r.Name, Type: r.Type})
	}
	return out, nil
}
