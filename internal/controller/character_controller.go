package controller

import (
	"bytes"
	"errors"
	"io"

	"hanzi_learn_backend/internal/model"
	"hanzi_learn_backend/internal/service"
	"hanzi_learn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CharacterController struct {
	CharacterService *service.CharacterService
}

func NewCharacterController(characterService *service.CharacterService) *CharacterController {
	return &CharacterController{CharacterService: characterService}
}

// List godoc
// @Summary 生字本列表
// @Tags 生字本
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Character}
// @Failure 401 {object} util.Response
// @Router /api/characters [get]
func (c *CharacterController) List(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	chars, err := c.CharacterService.List(user.Username)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, chars)
}

type BulkAddRequest struct {
	Characters []model.Character `json:"characters" binding:"required"`
}

// BulkAdd godoc
// @Summary 批量添加汉字
// @Description 按字形去重，已存在的字跳过，返回添加/跳过条数
// @Tags 生字本
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body BulkAddRequest true "待添加的汉字"
// @Success 200 {object} util.Response{data=service.ImportResult}
// @Failure 400 {object} util.Response
// @Router /api/characters [post]
func (c *CharacterController) BulkAdd(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req BulkAddRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.CharacterService.BulkAdd(ctx.Request.Context(), user.Username, req.Characters)
	if err != nil {
		if errors.Is(err, util.ErrValidation) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, res)
}

// ImportCSV godoc
// @Summary 导入CSV模板
// @Description 上传 CSV 文件批量导入，重复字形与脏行计入 skipped
// @Tags 生字本
// @Accept  mpfd
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "CSV文件"
// @Success 200 {object} util.Response{data=service.ImportResult}
// @Failure 400 {object} util.Response
// @Router /api/characters/import [post]
func (c *CharacterController) ImportCSV(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "缺少上传文件")
		return
	}
	f, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer f.Close()

	head, _, err := util.ValidateMimeType(f, []string{"text/plain", "text/csv"})
	if err != nil {
		util.BadRequest(ctx, "仅支持CSV文本文件")
		return
	}

	res, err := c.CharacterService.ImportCSV(ctx.Request.Context(), user.Username, io.MultiReader(bytes.NewReader(head), f))
	if err != nil {
		if errors.Is(err, util.ErrValidation) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, res)
}

// Delete godoc
// @Summary 删除一个汉字
// @Tags 生字本
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "汉字ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/characters/{id} [delete]
func (c *CharacterController) Delete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	err := c.CharacterService.Delete(ctx.Request.Context(), user.Username, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrCharacterNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// DeleteAll godoc
// @Summary 清空生字本
// @Tags 生字本
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/characters [delete]
func (c *CharacterController) DeleteAll(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.CharacterService.DeleteAll(ctx.Request.Context(), user.Username); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}
