package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

func (a *API) UserLogout(c *gin.Context) {
	ssl := viper.GetBool("host.ssl.enabled")

	c.SetCookie("access_token", "", -1, "/", "", ssl, true)
	c.SetCookie("refresh_token", "", -1, "/", "", ssl, true)
	c.SetCookie("logged_in", "", -1, "/", "", ssl, false)

	c.Status(http.StatusOK)
}
