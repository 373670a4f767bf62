package request

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	rs "shareit/service/request"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc rs.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /requests
func (h *Controller) Create(c echo.Context) error {
	var req CreateRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	uid, _ := c.Get("user_id").(int64)

	out, err := h.Svc.Create(c.Request().Context(), uid, req.Description)
	if err != nil {
		return h.fail(c, "request create", err)
	}
	return c.JSON(http.StatusCreated, out)
}

// GET /requests
func (h *Controller) GetOwn(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)

	out, err := h.Svc.GetOwn(c.Request().Context(), uid)
	if err != nil {
		return h.fail(c, "request list", err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /requests/all?from=&size=
func (h *Controller) GetAllOther(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)

	from, size, ok := pageParams(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid from/size"})
	}

	out, err := h.Svc.GetAllOther(c.Request().Context(), uid, from, size)
	if err != nil {
		return h.fail(c, "request list all", err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /requests/:id
func (h *Controller) GetByID(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	out, err := h.Svc.GetByID(c.Request().Context(), uid, id)
	if err != nil {
		return h.fail(c, "request get", err)
	}
	return c.JSON(http.StatusOK, out)
}

func pageParams(c echo.Context) (from, size int, ok bool) {
	from, size = 0, 10
	var err error
	if raw := c.QueryParam("from"); raw != "" {
		if from, err = strconv.Atoi(raw); err != nil {
			return 0, 0, false
		}
	}
	if raw := c.QueryParam("size"); raw != "" {
		if size, err = strconv.Atoi(raw); err != nil {
			return 0, 0, false
		}
	}
	if from < 0 || size <= 0 {
		return 0, 0, false
	}
	return from, size, true
}

func (h *Controller) fail(c echo.Context, op string, err error) error {
	switch {
	case errors.Is(err, rs.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
	case errors.Is(err, rs.ErrRequestNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": "request not found"})
	case errors.Is(err, rs.ErrBlankDesc):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	default:
		h.Log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}
