package handler

import (
	"net/http"
	"strconv"

	"atelier/internal/middleware"
	"atelier/internal/usecase"

	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Error string `json:"error"`
}

// usecaseのHTTPErrorをそのままレスポンスへ。それ以外は500。
func writeError(c echo.Context, err error) error {
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, errorResponse{Error: he.Message})
	}
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

// AuthJWTが保存したuser_idを取り出す。
func userIDFromContext(c echo.Context) int64 {
	v, ok := c.Get(middleware.CtxUserIDKey).(int64)
	if !ok {
		return 0
	}
	return v
}

func queryInt(c echo.Context, name string, def int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func queryInt64Ptr(c echo.Context, name string) *int64 {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

func pathID(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
