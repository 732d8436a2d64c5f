package handler

import (
	"net/http"
	"net/url"

	"github.com/kevinpauljacob/cal/internal/api/dto"
	"github.com/kevinpauljacob/cal/internal/pkg/consts"
	"github.com/kevinpauljacob/cal/internal/pkg/response"
	"github.com/kevinpauljacob/cal/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authSvc service.AuthService
}

func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{
		authSvc: authSvc,
	}
}

// Login 返回授权地址
func (h *AuthHandler) Login(c *gin.Context) {
	authURL, err := h.authSvc.BeginLogin(c.Request.Context(), c.Query("redirect"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.AuthURLDTO{AuthURL: authURL})
}

// Callback OAuth 回调，登录成功后带 token 跳转回前端
func (h *AuthHandler) Callback(c *gin.Context) {
	if errMsg := c.Query("error"); errMsg != "" {
		response.Error(c, service.UnauthorizedError)
		return
	}

	res, err := h.authSvc.CompleteLogin(c.Request.Context(), c.Query("state"), c.Query("code"))
	if err != nil {
		response.Error(c, err)
		return
	}

	fragment := url.Values{"token": {res.Token}, "handle": {res.Handle}}
	c.Redirect(http.StatusFound, res.Redirect+"#"+fragment.Encode())
}

// Logout 登出，token 加入黑名单
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authSvc.Logout(c.Request.Context(), c.GetString(consts.TokenKey)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
