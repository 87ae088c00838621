package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthProbeTimeout = 2 * time.Second

// HealthCheck 探测数据库连通性，失败时返回 503。
func (a *API) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthProbeTimeout)
	defer cancel()

	database := "up"
	if sqlDB, err := a.db.DB(); err != nil {
		database = "unavailable"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		log.Printf("[health] database ping: %v", err)
		database = "down"
	}

	status := http.StatusOK
	if database != "up" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"ok":     status == http.StatusOK,
		"checks": gin.H{"database": database},
	})
}

// RunOrphanAudit 手动触发一次孤儿文件审计，只报告不删除。
func (a *API) RunOrphanAudit(c *gin.Context) {
	report, err := a.audit.Run(c.Request.Context())
	if err != nil {
		log.Printf("[orphan-audit] manual run: %v", err)
		respondError(c, http.StatusBadGateway, "failed to list stored files")
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}
