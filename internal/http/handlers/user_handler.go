// User HTTP handlers.
//
// Permission gates are attached by the router:
//   - POST  /users        open
//   - GET   /users        active admin
//   - GET   /users/{id}   active admin, authenticated
//   - PUT   /users/{id}   active admin, owner of {id}
//   - PATCH /users/{id}   active admin
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-account-api/internal/http/middleware"
	"github.com/tbourn/go-account-api/internal/services"
	"github.com/tbourn/go-account-api/internal/utils"
)

// CreateUserRequest is the JSON payload for creating an account.
type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email,max=255" example:"jane@example.com"`
	Password  string `json:"password" validate:"required,min=8,max=72" example:"s3cret-pass"`
	FirstName string `json:"first_name" validate:"max=150" example:"Jane"`
	LastName  string `json:"last_name" validate:"max=150" example:"Doe"`
	// IsActive overrides the default (true) when present.
	IsActive *bool `json:"is_active,omitempty" example:"true"`
}

// UpdateUserRequest is the JSON payload for a full profile update.
type UpdateUserRequest struct {
	Email     string `json:"email" validate:"required,email,max=255" example:"jane@example.com"`
	FirstName string `json:"first_name" validate:"max=150" example:"Jane"`
	LastName  string `json:"last_name" validate:"max=150" example:"Doe"`
}

// CreateUser godoc
// @ID          createUser
// @Summary     Create an account
// @Description Registers a user with an empty wallet. Open to anonymous callers.
// @Tags        Users
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CreateUserRequest  true  "Account payload"
//
// @Success     201  {object}  domain.User
// @Failure     400  {object}  handlers.ValidationEnvelope  "Invalid input"
// @Router      /users [post]
func (h *Handlers) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := bindValid(c, &req); err != nil {
		fail(c, err)
		return
	}

	u, err := h.users.Create(c.Request.Context(), services.CreateUserInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  req.IsActive,
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, u)
}

// ListUsers godoc
// @ID          listUsers
// @Summary     List users
// @Description Lists every user except the caller. Supports a weak ETag via If-None-Match and may return 304.
// @Tags        Users
// @Produce     json
// @Security    BearerAuth
//
// @Param       onlyActive     query   string  false "Only active users when \"true\" (case-insensitive)"  example(true)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
//
// @Success     200  {array}   domain.User
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string "Not Modified"
// @Failure     401  {object}  handlers.ErrorEnvelope   "Not authenticated"
// @Failure     403  {object}  handlers.DetailEnvelope  "Not an active admin"
// @Router      /users [get]
func (h *Handlers) ListUsers(c *gin.Context) {
	ctx := c.Request.Context()
	requester := middleware.CurrentUser(c)
	onlyActive := utils.QueryFlag(c.Query("onlyActive"))

	// ETag pre-check (best effort).
	if count, maxTS, err := h.users.Stats(ctx, requester.ID, onlyActive); err == nil {
		var ts int64
		if maxTS != nil {
			ts = maxTS.UnixNano()
		}
		etag := fmt.Sprintf(`W/"users:%s:%t:%d:%d"`, requester.ID, onlyActive, count, ts)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	list, err := h.users.List(ctx, requester.ID, onlyActive)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, list)
}

// GetUser godoc
// @ID          getUser
// @Summary     Retrieve a user
// @Tags        Users
// @Produce     json
// @Security    BearerAuth
//
// @Param       id  path  string  true  "User ID (UUID)"  format(uuid)
//
// @Success     200  {object}  domain.User
// @Failure     401  {object}  handlers.ErrorEnvelope         "Not authenticated"
// @Failure     403  {object}  handlers.DetailEnvelope        "Not an active admin"
// @Failure     404  {object}  handlers.UserNotFoundEnvelope  "User not found"
// @Router      /users/{id} [get]
func (h *Handlers) GetUser(c *gin.Context) {
	u, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}

// UpdateUser godoc
// @ID          updateUser
// @Summary     Update a user
// @Description Replaces email, first and last name. The caller must be an active admin updating their own record.
// @Tags        Users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       id    path  string                      true  "User ID (UUID)"  format(uuid)
// @Param       body  body  handlers.UpdateUserRequest  true  "Profile"
//
// @Success     200  {object}  domain.User
// @Failure     400  {object}  handlers.ValidationEnvelope    "Invalid input"
// @Failure     401  {object}  handlers.ErrorEnvelope         "Not authenticated"
// @Failure     403  {object}  handlers.DetailEnvelope        "Not permitted"
// @Failure     404  {object}  handlers.UserNotFoundEnvelope  "User not found"
// @Router      /users/{id} [put]
func (h *Handlers) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := bindValid(c, &req); err != nil {
		fail(c, err)
		return
	}

	u, err := h.users.Update(c.Request.Context(), c.Param("id"), services.UpdateUserInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}

// ToggleUserActive godoc
// @ID          toggleUserActive
// @Summary     Toggle activation
// @Description Flips is_active and records the caller as modifier. Callers cannot toggle their own account.
// @Tags        Users
// @Produce     json
// @Security    BearerAuth
//
// @Param       id  path  string  true  "User ID (UUID)"  format(uuid)
//
// @Success     200  {object}  domain.User
// @Failure     401  {object}  handlers.ErrorEnvelope         "Not authenticated"
// @Failure     403  {object}  handlers.DetailEnvelope        "Not an active admin"
// @Failure     404  {object}  handlers.UserNotFoundEnvelope  "User not found"
// @Failure     417  {object}  handlers.ErrorEnvelope         "Own account"
// @Router      /users/{id} [patch]
func (h *Handlers) ToggleUserActive(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	u, err := h.users.ToggleActive(c.Request.Context(), c.Param("id"), actor.ID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}

