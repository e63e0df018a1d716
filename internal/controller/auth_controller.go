package controller

import (
	"errors"

	"hanzi_learn_backend/internal/config"
	"hanzi_learn_backend/internal/service"
	"hanzi_learn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService      *service.AuthService
	CharacterService *service.CharacterService
	ProgressService  *service.ProgressService
	Cfg              *config.Config
}

func NewAuthController(
	authService *service.AuthService,
	characterService *service.CharacterService,
	progressService *service.ProgressService,
	cfg *config.Config,
) *AuthController {
	return &AuthController{
		AuthService:      authService,
		CharacterService: characterService,
		ProgressService:  progressService,
		Cfg:              cfg,
	}
}

// swagger:model RegisterRequest
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register godoc
// @Summary 注册新用户
// @Description 用户名2~20位字母数字下划线，密码至少4位
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body RegisterRequest true "注册信息"
// @Success 201 {object} util.Response{data=object} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "用户名已被注册"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.Register(req.Username, req.Password); err != nil {
		switch {
		case errors.Is(err, util.ErrValidation):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrDuplicateUser):
			util.Conflict(ctx, "用户名已被注册")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{"username": req.Username})
}

// swagger:model LoginRequest
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary 用户登录
// @Description 校验凭据并签发会话令牌（HttpOnly Cookie，同时也在响应体返回）
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "登录凭据"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "凭据错误"
// @Router /api/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, err := c.AuthService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) {
			util.Unauthorized(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	// 生产环境启用 Secure 标志
	isRelease := c.Cfg.Server.Mode == "release"
	maxAge := int(c.Cfg.JWT.ExpireTime.Seconds())
	ctx.SetCookie(util.SessionCookie, token, maxAge, "/", "", isRelease, true)

	util.Success(ctx, gin.H{"token": token})
}

// Logout godoc
// @Summary 退出登录
// @Description 清除会话Cookie
// @Tags 认证
// @Produce  json
// @Success 200 {object} util.Response
// @Router /api/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	isRelease := c.Cfg.Server.Mode == "release"
	ctx.SetCookie(util.SessionCookie, "", -1, "/", "", isRelease, true)
	util.Success(ctx, gin.H{"loggedOut": true})
}

// GetProfile godoc
// @Summary 获取当前用户资料
// @Description 当前用户名及生字本/进度的概况
// @Tags 认证
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/profile [get]
func (c *AuthController) GetProfile(ctx *gin.Context) {
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
	progress, err := c.ProgressService.GetAll(user.Username)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	attempted := 0
	for _, rec := range progress {
		if rec.Correct+rec.Incorrect > 0 {
			attempted++
		}
	}

	util.Success(ctx, gin.H{
		"username":            user.Username,
		"totalCharacters":     len(chars),
		"attemptedCharacters": attempted,
	})
}
