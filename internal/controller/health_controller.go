package controller

import (
	"net/http"

	"hanzi_learn_backend/internal/util"
	"hanzi_learn_backend/pkg/csvtable"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	Engine *csvtable.Engine
}

func NewHealthController(engine *csvtable.Engine) *HealthController {
	return &HealthController{Engine: engine}
}

// @Summary 健康检查
// @Description 检查数据目录可写
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	if err := c.Engine.Ping(); err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, "Data directory unavailable")
		return
	}

	util.Success(ctx, gin.H{
		"status": "ok",
		"components": gin.H{
			"storage": "up",
		},
	})
}
