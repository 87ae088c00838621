package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/reelhouse/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	sessionUserIDKey   = "user_id"
	sessionUsernameKey = "username"
	currentUserKey     = "__current_user"
)

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// ShowLoginPage 返回登录表单所需字段，前端负责渲染
func ShowLoginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"title":  "Admin sign in",
		"action": "/admin/login",
		"fields": []string{"username", "password"},
	})
}

// Login 校验用户名密码并写入会话，接受表单或 JSON
func (a *API) Login(c *gin.Context) {
	var payload loginRequest
	if err := c.ShouldBind(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "username and password are required")
		return
	}
	username := strings.TrimSpace(payload.Username)
	if username == "" || payload.Password == "" {
		respondError(c, http.StatusBadRequest, "username and password are required")
		return
	}

	var user db.User
	if err := a.db.Where("username = ?", username).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[auth] lookup %s: %v", username, err)
		}
		respondError(c, http.StatusUnauthorized, "invalid username or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "invalid username or password")
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserIDKey, user.ID)
	session.Set(sessionUsernameKey, user.Username)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userPayload(&user)})
}

// Logout 清空会话
func Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Redirect(http.StatusFound, "/admin/login")
}

// CurrentUser 返回已登录的管理员
func (a *API) CurrentUser(c *gin.Context) {
	user, ok := c.Get(currentUserKey)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userPayload(user.(*db.User))})
}

// AuthRequired 先检查会话，再按用户 ID 查询角色；只有 admin 可以通过。
// /admin/api 下的请求返回 401/403 JSON，其余后台路径跳转到登录页。
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := sessionUserID(session.Get(sessionUserIDKey))
		if !ok {
			denyUnauthenticated(c)
			return
		}

		var user db.User
		if err := a.db.First(&user, userID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("[auth] role lookup for %d: %v", userID, err)
			}
			session.Clear()
			session.Save()
			denyUnauthenticated(c)
			return
		}

		if !user.IsAdmin() {
			if isAPIRequest(c) {
				respondError(c, http.StatusForbidden, "admin role required")
			} else {
				c.String(http.StatusForbidden, "forbidden")
			}
			c.Abort()
			return
		}

		c.Set(currentUserKey, &user)
		c.Next()
	}
}

func denyUnauthenticated(c *gin.Context) {
	if isAPIRequest(c) {
		respondError(c, http.StatusUnauthorized, "authentication required")
	} else {
		c.Redirect(http.StatusFound, "/admin/login")
	}
	c.Abort()
}

func isAPIRequest(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/admin/api")
}

// 会话经 gob 编码后数值类型可能变化
func sessionUserID(raw interface{}) (uint, bool) {
	switch v := raw.(type) {
	case uint:
		return v, v > 0
	case int:
		return uint(v), v > 0
	case int64:
		return uint(v), v > 0
	case uint64:
		return uint(v), v > 0
	case float64:
		return uint(v), v > 0
	default:
		return 0, false
	}
}

func userPayload(user *db.User) gin.H {
	return gin.H{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
	}
}
