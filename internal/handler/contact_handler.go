package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reelhouse/internal/service"
)

// SubmitContact 转发公开联系表单，支持 JSON 与表单两种请求体
func (a *API) SubmitContact(c *gin.Context) {
	var input service.ContactInput
	if err := c.ShouldBind(&input); err != nil {
		respondError(c, http.StatusBadRequest, "invalid contact payload")
		return
	}

	err := a.contact.Submit(c.Request.Context(), input)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "thanks, we will be in touch"})
	case respondInputError(c, err, "invalid contact fields"):
	case errors.Is(err, service.ErrContactRelayDisabled):
		respondError(c, http.StatusServiceUnavailable, "contact form is unavailable")
	default:
		log.Printf("[contact] relay: %v", err)
		respondError(c, http.StatusBadGateway, "could not send your message, please retry")
	}
}
