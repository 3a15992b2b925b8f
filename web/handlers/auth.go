package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sitelink.com/sitelink/core"
	"sitelink.com/sitelink/model"
	"sitelink.com/sitelink/security"
	"sitelink.com/sitelink/web/common"
)

type AuthEndpoint struct {
	base     common.Handler
	secret   []byte
	tokenTTL time.Duration
}

func RegisterAuth(r *gin.RouterGroup, base common.Handler, secret []byte, tokenTTL time.Duration) {
	ep := &AuthEndpoint{base: base, secret: secret, tokenTTL: tokenTTL}
	r.POST("/auth/login/", ep.Login)
}

// Login exchanges credentials for a signed identity token.
func (ep *AuthEndpoint) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}

	user, err := core.Authenticate(ep.base.GetDB(c), req.Username, req.Password)
	if err != nil {
		ep.base.Fail(c, err)
		return
	}
	if user == nil {
		ep.base.Log.Warnf("failed login for %q from %s", req.Username, c.ClientIP())
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Unable to log in with provided credentials."))
		return
	}

	token, err := security.CreateIdentityToken(user, ep.secret, ep.tokenTTL)
	if err != nil {
		ep.base.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(model.LoginResponse{Token: token, User: *user}))
}
