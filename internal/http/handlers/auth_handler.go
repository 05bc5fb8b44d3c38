// Login HTTP handler.
//
// POST /login verifies the credentials, issues a refresh/access token pair and
// returns the user with a wallet summary. The route is rate-limited and marked
// no-store by the router.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-account-api/internal/domain"
	"github.com/tbourn/go-account-api/internal/http/middleware"
	"github.com/tbourn/go-account-api/internal/services"
)

// LoginRequest is the JSON payload for logging in.
type LoginRequest struct {
	Email    string `json:"email" example:"jane@example.com"`
	Password string `json:"password" example:"s3cret-pass"`
}

// WalletSummary is the wallet part of a login response.
type WalletSummary struct {
	// Balance with two decimals
	Balance string `json:"balance" example:"0.00"`
	// Last modification of the wallet
	LastActivity string `json:"last_activity" example:"2025-01-02 15:04:05.123456+00:00"`
}

// TokenPairResponse carries the issued tokens.
type TokenPairResponse struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

// LoginResponse is returned on a successful login.
type LoginResponse struct {
	User   *domain.User      `json:"user"`
	Wallet WalletSummary     `json:"wallet"`
	Tokens TokenPairResponse `json:"tokens"`
}

// formatActivity renders timestamps as "2006-01-02 15:04:05.000000-07:00",
// omitting the fraction when it is zero.
func formatActivity(t time.Time) string {
	if t.Nanosecond()/int(time.Microsecond) == 0 {
		return t.Format("2006-01-02 15:04:05-07:00")
	}
	return t.Format("2006-01-02 15:04:05.000000-07:00")
}

// Login godoc
// @ID          login
// @Summary     Log in
// @Description Verifies email and password of an active account and returns the user, a wallet summary and a token pair.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.LoginRequest  true  "Credentials"
//
// @Success     200  {object}  handlers.LoginResponse
// @Failure     400  {object}  handlers.ErrorEnvelope  "Invalid Credentials / Your user account has been deactivated."
// @Failure     404  {object}  handlers.ErrorEnvelope  "Wallet not found"
// @Failure     429  {object}  handlers.DetailEnvelope "Throttled"
// @Failure     500  {object}  handlers.ErrorEnvelope  "Token signing not configured"
// @Router      /login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		middleware.ObserveLogin(middleware.LoginInvalid)
		loginError(c, err.Error())
		return
	case errors.Is(err, services.ErrAccountDeactivated):
		middleware.ObserveLogin(middleware.LoginInactive)
		loginError(c, err.Error())
		return
	case err != nil:
		middleware.ObserveLogin(middleware.LoginError)
		fail(c, err)
		return
	}

	middleware.ObserveLogin(middleware.LoginSuccess)
	middleware.LoggerFrom(c).Info().Str("user_id", res.User.ID).Msg("login succeeded")
	ok(c, http.StatusOK, LoginResponse{
		User: res.User,
		Wallet: WalletSummary{
			Balance:      res.Wallet.CurrentBalance.StringFixed(2),
			LastActivity: formatActivity(res.Wallet.UpdatedAt),
		},
		Tokens: TokenPairResponse{Refresh: res.Tokens.Refresh, Access: res.Tokens.Access},
	})
}
