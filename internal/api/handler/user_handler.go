package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/platformid/identity-system/internal/core/domain"
	"github.com/platformid/identity-system/internal/core/ports"
)

// UserHandler handles CRUD over user records. Authentication happens in
// middleware; ownership checks happen here because they need the parsed
// route parameter.
type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// userIDParam parses the :id route parameter. Malformed ids fail validation
// before any ownership check is evaluated.
func userIDParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}
	return id, nil
}

// authorizeSelfOrAdmin allows the operation when the requester is an admin
// or owns the target record.
func authorizeSelfOrAdmin(claims ports.Claims, targetID int64) error {
	if claims.Role != domain.RoleAdmin && claims.UserID != targetID {
		return domain.ErrForbidden
	}
	return nil
}

// List returns all users. Admin only (enforced by route middleware).
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listUsersResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.userService.List(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}

	return c.JSON(http.StatusOK, listUsersResponse{
		Message: "Successfully retrieved all users",
		Users:   out,
		Count:   len(out),
	})
}

// Get returns one user. Allowed for the owner or an admin.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  userEnvelope
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := userIDParam(c)
	if err != nil {
		return err
	}
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	if err := authorizeSelfOrAdmin(claims, id); err != nil {
		return err
	}

	user, err := h.userService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userEnvelope{
		Message: "Successfully retrieved user",
		User:    toUserResponse(user),
	})
}

// Update patches one user. Allowed for the owner or an admin; changing the
// role field is admin-only regardless of ownership.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to update"
// @Success      200   {object}  userEnvelope
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := userIDParam(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	patch := ports.UpdateUserInput{Name: req.Name, Email: req.Email, Password: req.Password, Role: req.Role}
	if patch.Empty() {
		return echo.NewHTTPError(http.StatusBadRequest, "at least one field must be provided")
	}

	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	if err := authorizeSelfOrAdmin(claims, id); err != nil {
		return err
	}
	if patch.Role != nil && claims.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}

	user, err := h.userService.Update(c.Request().Context(), id, patch)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userEnvelope{
		Message: "User updated successfully",
		User:    toUserResponse(user),
	})
}

// Delete removes one user. Allowed for the owner or an admin.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  deleteUserResponse
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := userIDParam(c)
	if err != nil {
		return err
	}
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	if err := authorizeSelfOrAdmin(claims, id); err != nil {
		return err
	}

	user, err := h.userService.Delete(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, deleteUserResponse{
		Message:     fmt.Sprintf("User %s has been deleted", user.Email),
		DeletedUser: toUserResponse(user),
	})
}
