package handler

import (
	"net/http"

	"github.com/Hemu21/crowdfunding/internal/session"
	"github.com/gin-gonic/gin"
)

// SessionHandler 会话状态接口
type SessionHandler struct {
	session *session.Session
}

// NewSessionHandler 创建会话状态接口
func NewSessionHandler(s *session.Session) *SessionHandler {
	return &SessionHandler{session: s}
}

// GetSession 获取当前会话状态
func (h *SessionHandler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, SessionResponse{
		Account: h.session.Account(),
		Theme:   h.session.Theme(),
	})
}

// ToggleTheme 切换主题偏好
func (h *SessionHandler) ToggleTheme(c *gin.Context) {
	theme := h.session.ToggleTheme()
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}
