package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondInputError 将 ozzo 校验错误展开为字段级提示，其他错误按 500 处理。
func respondInputError(c *gin.Context, err error, fallback string) bool {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		fields := make(gin.H, len(verrs))
		for field, ferr := range verrs {
			fields[lowerFirst(field)] = ferr.Error()
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": fallback, "fields": fields})
		return true
	}
	return false
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

// idParam 解析路径中的正整数 ID，失败时直接写入 400。
func idParam(c *gin.Context, key, noun string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(key), 10, 32)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "invalid "+noun+" id")
		return 0, false
	}
	return uint(id), true
}

func parsePositiveInt(value string, fallback int) int {
	num, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || num <= 0 {
		return fallback
	}
	return num
}

func parseOptionalBool(value string) *bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes":
		v := true
		return &v
	case "0", "false", "no":
		v := false
		return &v
	default:
		return nil
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
