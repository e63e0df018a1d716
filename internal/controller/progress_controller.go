package controller

import (
	"errors"

	"hanzi_learn_backend/internal/model"
	"hanzi_learn_backend/internal/service"
	"hanzi_learn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// Get godoc
// @Summary 读取全部进度
// @Description characterId 到累计对错计数的映射
// @Tags 进度
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/progress [get]
func (c *ProgressController) Get(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	records, err := c.ProgressService.GetAll(user.Username)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, records)
}

type MergeProgressRequest struct {
	Deltas map[string]model.ProgressDelta `json:"deltas" binding:"required"`
}

// Merge godoc
// @Summary 累加进度
// @Description 把增量按 characterId 加进磁盘上的累计计数
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body MergeProgressRequest true "进度增量"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/progress [post]
func (c *ProgressController) Merge(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req MergeProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ProgressService.MergeAdd(ctx.Request.Context(), user.Username, req.Deltas); err != nil {
		if errors.Is(err, util.ErrValidation) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"merged": len(req.Deltas)})
}

// Clear godoc
// @Summary 重置全部进度
// @Tags 进度
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/progress [delete]
func (c *ProgressController) Clear(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.ProgressService.Clear(ctx.Request.Context(), user.Username); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"cleared": true})
}
