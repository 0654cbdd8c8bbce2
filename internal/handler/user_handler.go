package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"harlos/internal/errors"
	"harlos/internal/service"
)

// UserHandler handles friend and partner-discovery endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RecommendedUsers godoc
// @Summary List recommended language partners
// @Tags users
// @Produce json
// @Success 200 {array} model.Profile
// @Failure 401 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) RecommendedUsers(c echo.Context) error {
	users, err := h.userService.RecommendedUsers(c.Request().Context(), currentUserID(c))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, users)
}

// Friends godoc
// @Summary List the caller's friends
// @Tags users
// @Produce json
// @Success 200 {array} model.Profile
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/friends [get]
func (h *UserHandler) Friends(c echo.Context) error {
	friends, err := h.userService.Friends(c.Request().Context(), currentUserID(c))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, friends)
}

// SendFriendRequest godoc
// @Summary Send a friend request
// @Tags users
// @Produce json
// @Param id path string true "Recipient user ID"
// @Success 201 {object} model.FriendRequest
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/friend-request/{id} [post]
func (h *UserHandler) SendFriendRequest(c echo.Context) error {
	req, err := h.userService.SendFriendRequest(c.Request().Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, req)
}

// AcceptFriendRequest godoc
// @Summary Accept a friend request
// @Tags users
// @Produce json
// @Param id path string true "Friend request ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/friend-request/{id}/accept [put]
func (h *UserHandler) AcceptFriendRequest(c echo.Context) error {
	if err := h.userService.AcceptFriendRequest(c.Request().Context(), currentUserID(c), c.Param("id")); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "friend request accepted",
	})
}

// FriendRequests godoc
// @Summary List incoming pending and sent accepted friend requests
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/friend-requests [get]
func (h *UserHandler) FriendRequests(c echo.Context) error {
	incoming, accepted, err := h.userService.FriendRequests(c.Request().Context(), currentUserID(c))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"incomingReqs": incoming,
		"acceptedReqs": accepted,
	})
}

// OutgoingFriendRequests godoc
// @Summary List pending friend requests the caller sent
// @Tags users
// @Produce json
// @Success 200 {array} model.PopulatedFriendRequest
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/outgoing-friend-requests [get]
func (h *UserHandler) OutgoingFriendRequests(c echo.Context) error {
	outgoing, err := h.userService.OutgoingFriendRequests(c.Request().Context(), currentUserID(c))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, outgoing)
}
