package controller

import (
	"errors"
	"strconv"

	"hanzi_learn_backend/internal/model"
	"hanzi_learn_backend/internal/service"
	"hanzi_learn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService        *service.QuizService
	QuizHistoryService *service.QuizHistoryService
}

func NewQuizController(quizService *service.QuizService, historyService *service.QuizHistoryService) *QuizController {
	return &QuizController{
		QuizService:        quizService,
		QuizHistoryService: historyService,
	}
}

func (c *QuizController) handleSessionError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrSessionNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrValidation), errors.Is(err, util.ErrEmptyPool):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrBadTransition):
		util.Conflict(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// StartSession godoc
// @Summary 新建测验会话
// @Description 初始状态为模式选择
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Success 201 {object} util.Response{data=service.SessionView}
// @Router /api/quiz/session [post]
func (c *QuizController) StartSession(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.QuizService.StartSession(user.Username)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, view)
}

type SelectTypeRequest struct {
	QuizType string `json:"quizType" binding:"required"`
}

// SelectType godoc
// @Summary 选择测验模式
// @Description recognition / writing / multiple-choice；从数量选择页回退重选也走这里
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   sid path string true "会话ID"
// @Param   body body SelectTypeRequest true "测验模式"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Failure 409 {object} util.Response "状态不允许"
// @Router /api/quiz/session/{sid}/type [post]
func (c *QuizController) SelectType(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SelectTypeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.QuizService.SelectType(user.Username, ctx.Param("sid"), model.QuizType(req.QuizType))
	if err != nil {
		c.handleSessionError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

type SelectCountRequest struct {
	Count int `json:"count" binding:"required"`
}

// SelectCount godoc
// @Summary 选择题量并开始答题
// @Description 题量取 5/10/20/30 之一，超过生字本容量时自动收缩
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   sid path string true "会话ID"
// @Param   body body SelectCountRequest true "题量"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Failure 409 {object} util.Response "状态不允许"
// @Router /api/quiz/session/{sid}/count [post]
func (c *QuizController) SelectCount(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SelectCountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.QuizService.SelectCount(user.Username, ctx.Param("sid"), req.Count)
	if err != nil {
		c.handleSessionError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// GetSession godoc
// @Summary 查看会话状态
// @Description 答题中返回当前题目视图，完成后返回结算结果
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   sid path string true "会话ID"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Failure 404 {object} util.Response
// @Router /api/quiz/session/{sid} [get]
func (c *QuizController) GetSession(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.QuizService.Get(user.Username, ctx.Param("sid"))
	if err != nil {
		c.handleSessionError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Answer godoc
// @Summary 提交作答
// @Description 立即返回对错反馈，反馈展示固定时长后自动进入下一题
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   sid path string true "会话ID"
// @Param   body body service.AnswerSubmission true "作答"
// @Success 200 {object} util.Response{data=service.AnswerFeedback}
// @Failure 409 {object} util.Response "状态不允许"
// @Router /api/quiz/session/{sid}/answer [post]
func (c *QuizController) Answer(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var sub service.AnswerSubmission
	if err := ctx.ShouldBindJSON(&sub); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	feedback, err := c.QuizService.Answer(user.Username, ctx.Param("sid"), sub)
	if err != nil {
		c.handleSessionError(ctx, err)
		return
	}
	util.Success(ctx, feedback)
}

// Abandon godoc
// @Summary 放弃会话
// @Description 取消未触发的进题定时器，临时计数不落盘
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   sid path string true "会话ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/quiz/session/{sid} [delete]
func (c *QuizController) Abandon(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.QuizService.Abandon(user.Username, ctx.Param("sid")); err != nil {
		c.handleSessionError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"abandoned": true})
}

// GetHistory godoc
// @Summary 测验历史
// @Description 最新 N 条（默认10），时间倒序
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   limit query int false "条数"
// @Success 200 {object} util.Response{data=[]model.QuizHistoryEntry}
// @Router /api/quiz/history [get]
func (c *QuizController) GetHistory(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.Query("limit"))
	entries, err := c.QuizHistoryService.List(user.Username, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// ClearHistory godoc
// @Summary 清空测验历史
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/quiz/history [delete]
func (c *QuizController) ClearHistory(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.QuizHistoryService.Clear(user.Username); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"cleared": true})
}
