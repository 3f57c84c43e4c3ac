package teamstest

import (
	"errors"
	"fmt"
	"html"
	"net/http"

	"so4tdelete/internal/deletion/model"

	"github.com/labstack/echo/v4"
)

var (
	errNotLoggedIn = errors.New("not logged in")
	errNotAdmin    = errors.New("page not found")
	errBadFkey     = errors.New("invalid fkey")
)

type Handler struct {
	server *Server
}

func httpError(err error) (int, model.ErrorResponse) {
	var status int
	var code string

	switch err {
	case errNotLoggedIn:
		status = http.StatusUnauthorized
		code = "unauthorized"
	case errNotAdmin:
		status = http.StatusNotFound
		code = "not_found"
	case errBadFkey:
		status = http.StatusForbidden
		code = "forbidden"
	default:
		status = http.StatusInternalServerError
		code = "internal_error"
	}

	return status, model.ErrorResponse{
		Error: model.ErrorDetail{Code: code, Message: err.Error()},
	}
}

func (h *Handler) recordRequest(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h.server.mu.Lock()
		h.server.requests = append(h.server.requests, c.Request().Method+" "+c.Request().URL.Path)
		h.server.mu.Unlock()
		return next(c)
	}
}

func (h *Handler) loggedIn(c echo.Context) bool {
	h.server.mu.Lock()
	want := h.server.sessionCookie
	h.server.mu.Unlock()
	if want == "" {
		return true
	}
	cookie, err := c.Cookie(SessionCookieName)
	return err == nil && cookie.Value == want
}

// GetHome renders a landing page embedding the options module with the fkey.
func (h *Handler) GetHome(c echo.Context) error {
	h.server.mu.Lock()
	status, token := h.server.homeStatus, h.server.token
	h.server.mu.Unlock()

	options := ""
	if token != "" {
		options = fmt.Sprintf(`StackExchange.init({"locale":"en","serverTime":1700000000,"fkey":"%s","site":{"name":"Teams"}});`, token)
	}
	page := fmt.Sprintf(`<!DOCTYPE html>
<html><head><title>Teams</title>
<script>window.dataLayer = [];</script>
<script type="application/json" data-module-name="Shared/options.mod">%s</script>
</head><body><div class="s-topbar">%s</div></body></html>`, options, html.EscapeString(c.Request().Host))
	return c.HTML(status, page)
}

func (h *Handler) GetUsers(c echo.Context) error {
	nav := `<ul><li><a href="/users/login">Log in</a></li></ul>`
	if h.loggedIn(c) {
		nav = `<ul role="menubar"><li role="none"><a class="s-user-card" href="/users/1">me</a></li></ul>`
	}
	return c.HTML(http.StatusOK, "<html><body>"+nav+"</body></html>")
}

// GetLogin always renders, so followed redirects end on a 200.
func (h *Handler) GetLogin(c echo.Context) error {
	return c.HTML(http.StatusOK, `<html><body><form action="/users/login" method="post"></form></body></html>`)
}

func (h *Handler) GetAdminSettings(c echo.Context) error {
	h.server.mu.Lock()
	admin, redirect := h.server.admin, h.server.loginRedirect
	h.server.mu.Unlock()

	if redirect {
		return c.Redirect(http.StatusFound, LoginPath)
	}

	if !h.loggedIn(c) || !admin {
		code, body := httpError(errNotAdmin)
		return c.JSON(code, body)
	}
	return c.HTML(http.StatusOK, "<html><body><h1>Admin settings</h1></body></html>")
}

func (h *Handler) PostBulkDeleteUsers(c echo.Context) error {
	if !h.loggedIn(c) {
		code, body := httpError(errNotLoggedIn)
		return c.JSON(code, body)
	}

	form, err := c.FormParams()
	if err != nil {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error: model.ErrorDetail{Code: "bad_request", Message: "Invalid form"},
		})
	}

	h.server.mu.Lock()
	defer h.server.mu.Unlock()

	h.server.deletes = append(h.server.deletes, DeleteCall{
		Fkey:       form.Get(model.FieldFkey),
		AccountIDs: form[model.FieldAccountIDs],
	})

	if h.server.loginRedirect {
		return c.Redirect(http.StatusFound, LoginPath)
	}
	if form.Get(model.FieldFkey) != h.server.token {
		code, body := httpError(errBadFkey)
		return c.JSON(code, body)
	}

	if len(h.server.responses) == 0 {
		return c.NoContent(http.StatusOK)
	}
	next := h.server.responses[0]
	h.server.responses = h.server.responses[1:]
	if next.Location != "" {
		c.Response().Header().Set(echo.HeaderLocation, next.Location)
	}
	return c.Blob(next.Status, echo.MIMEApplicationJSON, []byte(next.Body))
}
