package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/anburocky3/mugamili-anonymous-messaging-app/internal/models"
)

type fakeRoomStore struct {
	rooms map[string]models.Room
	seq   int
	fail  error
}

func newFakeRoomStore() *fakeRoomStore {
	return &fakeRoomStore{rooms: make(map[string]models.Room)}
}

func (f *fakeRoomStore) Insert(r *models.Room) error {
	if f.fail != nil {
		return f.fail
	}
	f.seq++
	r.ID = fmt.Sprintf("room-%d", f.seq)
	r.CreatedAt = time.Now()
	f.rooms[r.ID] = *r
	return nil
}

func (f *fakeRoomStore) Get(id string) (*models.Room, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	r, ok := f.rooms[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (f *fakeRoomStore) List(limit int) ([]models.Room, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	out := make([]models.Room, 0, len(f.rooms))
	for _, r := range f.rooms {
		if len(out) == limit {
			break
		}
		out = append(out, r)
	}
	return out, nil
}

func TestRoomService_Create_Public(t *testing.T) {
	svc := NewRoomService(newFakeRoomStore())

	res, err := svc.Create("  Lobby  ", models.RoomPublic, "", "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if res.ID == "" {
		t.Error("Create() returned empty id")
	}
	if res.PIN != "" {
		t.Errorf("Create() public room PIN = %q, want empty", res.PIN)
	}

	room, err := svc.Get(res.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if room.Name != "Lobby" {
		t.Errorf("room name = %q, want trimmed Lobby", room.Name)
	}
	if room.HasPin() || room.PinPlain != "" {
		t.Error("public room carries PIN fields")
	}
}

func TestRoomService_Create_Private(t *testing.T) {
	store := newFakeRoomStore()
	svc := NewRoomService(store)

	res, err := svc.Create("Book Club", models.RoomPrivate, "u1", "Asha")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(res.PIN) != 6 {
		t.Fatalf("Create() PIN = %q, want 6 digits", res.PIN)
	}
	for _, r := range res.PIN {
		if r < '0' || r > '9' {
			t.Fatalf("Create() PIN = %q, contains non-digit", res.PIN)
		}
	}

	room := store.rooms[res.ID]
	if !room.HasPin() {
		t.Error("private room has no PIN material")
	}
	if room.PinPlain != res.PIN {
		t.Errorf("stored PinPlain = %q, want %q", room.PinPlain, res.PIN)
	}
	if room.CreatedBy != "u1" || room.CreatorName != "Asha" {
		t.Errorf("attribution = (%q, %q), want (u1, Asha)", room.CreatedBy, room.CreatorName)
	}

	// 创建后立即用返回的 PIN 校验必须通过。
	ok, err := svc.VerifyPIN(res.ID, res.PIN)
	if err != nil {
		t.Fatalf("VerifyPIN() error = %v", err)
	}
	if !ok {
		t.Error("VerifyPIN() = false with the PIN returned at creation")
	}
}

func TestRoomService_Create_Invalid(t *testing.T) {
	svc := NewRoomService(newFakeRoomStore())

	tests := []struct {
		name     string
		roomName string
		roomType string
	}{
		{"empty name", "", models.RoomPublic},
		{"whitespace name", "   ", models.RoomPrivate},
		{"bad type", "Lobby", "hidden"},
		{"empty type", "Lobby", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(tt.roomName, tt.roomType, "", "")
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Create() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestRoomService_VerifyPIN(t *testing.T) {
	store := newFakeRoomStore()
	svc := NewRoomService(store)

	pub, err := svc.Create("Open", models.RoomPublic, "", "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	priv, err := svc.Create("Closed", models.RoomPrivate, "", "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tests := []struct {
		name   string
		roomID string
		pin    string
		want   bool
	}{
		{"public room, any pin", pub.ID, "000000", true},
		{"public room, empty pin", pub.ID, "", true},
		{"private room, correct pin", priv.ID, priv.PIN, true},
		{"private room, empty pin", priv.ID, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := svc.VerifyPIN(tt.roomID, tt.pin)
			if err != nil {
				t.Fatalf("VerifyPIN() error = %v", err)
			}
			if ok != tt.want {
				t.Errorf("VerifyPIN() = %v, want %v", ok, tt.want)
			}
		})
	}

	t.Run("private room, wrong pin", func(t *testing.T) {
		wrong := "000000"
		if wrong == priv.PIN {
			wrong = "000001"
		}
		ok, err := svc.VerifyPIN(priv.ID, wrong)
		if err != nil {
			t.Fatalf("VerifyPIN() error = %v", err)
		}
		if ok {
			t.Error("VerifyPIN() = true with a wrong PIN")
		}
	})

	t.Run("missing room", func(t *testing.T) {
		_, err := svc.VerifyPIN("no-such-room", "123456")
		if !errors.Is(err, ErrRoomNotFound) {
			t.Errorf("VerifyPIN() error = %v, want ErrRoomNotFound", err)
		}
	})
}

func TestRoomService_VerifyPIN_LegacyRoomWithoutMaterial(t *testing.T) {
	// 历史数据：type=private 但 PIN 字段缺失，视为无需 PIN。
	store := newFakeRoomStore()
	store.rooms["legacy"] = models.Room{ID: "legacy", Name: "Old", Type: models.RoomPrivate}
	svc := NewRoomService(store)

	ok, err := svc.VerifyPIN("legacy", "")
	if err != nil {
		t.Fatalf("VerifyPIN() error = %v", err)
	}
	if !ok {
		t.Error("VerifyPIN() = false for a legacy room without PIN material")
	}
}

func TestRoomService_Summaries(t *testing.T) {
	store := newFakeRoomStore()
	svc := NewRoomService(store)

	if _, err := svc.Create("A", models.RoomPublic, "", ""); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Create("B", models.RoomPrivate, "", ""); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	sums, err := svc.Summaries(0)
	if err != nil {
		t.Fatalf("Summaries() error = %v", err)
	}
	if len(sums) != 2 {
		t.Fatalf("Summaries() returned %d rooms, want 2", len(sums))
	}
	for _, s := range sums {
		if s.ID == "" || s.Name == "" || s.Type == "" {
			t.Errorf("Summaries() incomplete entry: %+v", s)
		}
	}
}

func TestRoomService_StoreFailure(t *testing.T) {
	store := newFakeRoomStore()
	store.fail = errors.New("store down")
	svc := NewRoomService(store)

	if _, err := svc.Create("Lobby", models.RoomPublic, "", ""); err == nil {
		t.Error("Create() error = nil with a failing store")
	}
	if _, err := svc.VerifyPIN("x", "y"); err == nil {
		t.Error("VerifyPIN() error = nil with a failing store")
	}
}
