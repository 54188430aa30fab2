package models

import "time"

// 房间类型，创建后不可变更。
const (
	RoomPublic  = "public"
	RoomPrivate = "private"
)

// Room 是一个公开或 PIN 保护的留言房间。
// 私有房间的 PIN 字段在创建时一次性写入，之后不再变更。
type Room struct {
	ID          string `gorm:"primaryKey;size:36"`
	Name        string `gorm:"size:128;not null"`
	Type        string `gorm:"size:16;not null"`
	CreatedBy   string `gorm:"size:64"`
	CreatorName string `gorm:"size:64"`
	PinSalt     string `gorm:"size:64"`
	PinHash     string `gorm:"size:64"`
	// PIN 明文留存用于管理员找回，属于有意的可恢复性取舍。
	PinPlain  string `gorm:"size:16"`
	CreatedAt time.Time
}

// HasPin 判断房间是否配置了 PIN 材料。
// 历史数据可能缺失 PIN 字段，视为“无需 PIN”。
func (r *Room) HasPin() bool {
	return r.PinSalt != "" || r.PinHash != ""
}

// Message 是房间内的一条匿名留言，除 IsFlagged 外不可变。
type Message struct {
	ID        string  `gorm:"primaryKey;size:36"`
	RoomID    string  `gorm:"index:idx_msg_room_id;size:36;not null"`
	Nickname  string  `gorm:"size:64;not null"`
	Content   string  `gorm:"type:text"`
	MediaURL  *string `gorm:"size:2048"`
	IsFlagged bool    `gorm:"not null;default:false"`
	CreatedAt time.Time
}
