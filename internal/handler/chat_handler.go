package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"harlos/internal/errors"
	"harlos/internal/service"
)

// ChatHandler handles chat provider token issuance.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Token godoc
// @Summary Get a chat provider access token for the authenticated user
// @Tags chat
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /chat/token [get]
func (h *ChatHandler) Token(c echo.Context) error {
	token, err := h.chatService.Token(c.Request().Context(), currentUserID(c))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{"token": token})
}
