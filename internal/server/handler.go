package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/anburocky3/mugamili-anonymous-messaging-app/internal/auth"
	"github.com/anburocky3/mugamili-anonymous-messaging-app/internal/config"
	"github.com/anburocky3/mugamili-anonymous-messaging-app/internal/service"
)

// Handler 聚合所有 HTTP handler，依赖注入 service 层。
type Handler struct {
	cfg     config.Config
	roomSvc *service.RoomService
	msgSvc  *service.MessageService
}

func NewHandler(cfg config.Config, roomSvc *service.RoomService, msgSvc *service.MessageService) *Handler {
	return &Handler{cfg: cfg, roomSvc: roomSvc, msgSvc: msgSvc}
}

// CreateRoom 创建房间。私有房间的 PIN 只随本次响应返回一次。
func (h *Handler) CreateRoom(c *gin.Context) {
	var req struct {
		Name        string `json:"name"`
		Type        string `json:"type"`
		CreatedBy   string `json:"createdBy"`
		CreatorName string `json:"creatorName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if len(req.Name) > 128 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room name"})
		return
	}
	result, err := h.roomSvc.Create(req.Name, req.Type, req.CreatedBy, req.CreatorName)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Str("name", req.Name).Msg("create room")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create room"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// VerifyPIN 校验房间 PIN。结果只是一个布尔值，校验通过时
// 附带签发房间访问 cookie 供事件流使用。
func (h *Handler) VerifyPIN(c *gin.Context) {
	var req struct {
		RoomID string `json:"roomId"`
		PIN    string `json:"pin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if req.RoomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roomId is required"})
		return
	}
	ok, err := h.roomSvc.VerifyPIN(req.RoomID, req.PIN)
	if err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		log.Error().Err(err).Str("room_id", req.RoomID).Msg("verify pin")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify pin"})
		return
	}
	if ok {
		token := auth.RoomToken(req.RoomID, h.cfg.SessionSecret)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie("room_"+req.RoomID, token, 0, "/", "", false, true)
	}
	c.JSON(http.StatusOK, gin.H{"ok": ok})
}

// PostMessage 发布留言。
func (h *Handler) PostMessage(c *gin.Context) {
	var req service.PostInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	dto, err := h.msgSvc.Post(req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Str("room_id", req.RoomID).Msg("post message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to post message"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": dto.ID})
}

// ListMessages 返回房间页渲染用的留言列表，时间正序。
func (h *Handler) ListMessages(c *gin.Context) {
	roomID := c.Param("id")
	msgs, err := h.msgSvc.ListByRoom(roomID, queryLimit(c, 50, 200))
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("list messages")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// AdminLogin 校验管理员口令并下发会话 cookie。
// 失败时不区分口令错误与配置缺失。
func (h *Handler) AdminLogin(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if !auth.CheckPassword(req.Password, h.cfg.AdminPassword) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.SessionCookie, auth.NewSessionToken(h.cfg.SessionSecret), 0, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// AdminLogout 删除会话 cookie。
func (h *Handler) AdminLogout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// AdminSession 返回当前会话是否有效，供管理端页面初始化。
func (h *Handler) AdminSession(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"authenticated": auth.IsAuthenticated(c, h.cfg.SessionSecret)})
}

// AdminListRooms 返回房间选择列表 {id, name, type}。
func (h *Handler) AdminListRooms(c *gin.Context) {
	rooms, err := h.roomSvc.Summaries(queryLimit(c, 200, 500))
	if err != nil {
		log.Error().Err(err).Msg("list rooms")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list rooms"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

// AdminListMessages 返回房间最新留言，倒序，供审核。
func (h *Handler) AdminListMessages(c *gin.Context) {
	roomID := c.Param("id")
	msgs, err := h.msgSvc.ListNewest(roomID, queryLimit(c, 100, 500))
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("admin list messages")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// AdminFlagMessage 设置留言的标记状态。
func (h *Handler) AdminFlagMessage(c *gin.Context) {
	var req struct {
		Flagged bool `json:"flagged"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	messageID := c.Param("id")
	if err := h.msgSvc.Flag(messageID, req.Flagged); err != nil {
		if errors.Is(err, service.ErrMessageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
			return
		}
		log.Error().Err(err).Str("message_id", messageID).Msg("flag message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to flag message"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// AdminDeleteMessage 永久删除留言，对不存在的留言同样返回成功。
func (h *Handler) AdminDeleteMessage(c *gin.Context) {
	messageID := c.Param("id")
	if err := h.msgSvc.Delete(messageID); err != nil {
		log.Error().Err(err).Str("message_id", messageID).Msg("delete message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete message"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func queryLimit(c *gin.Context, def, max int) int {
	raw := c.Query("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || n > max {
		return def
	}
	return n
}
