package booking

import (
	"log/slog"
	"net/http"
	"strconv"

	bs "shareit/service/booking"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc bs.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /bookings
func (h *Controller) Create(c echo.Context) error {
	var req CreateBookingReq
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

	out, err := h.Svc.Create(c.Request().Context(), uid, bs.CreateInput{
		ItemID: req.ItemID,
		Start:  req.Start,
		End:    req.End,
	})
	if err != nil {
		return h.fail(c, "booking create", err)
	}
	return c.JSON(http.StatusCreated, out)
}

// PATCH /bookings/:id?approved=bool
func (h *Controller) Decide(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	approved, err := strconv.ParseBool(c.QueryParam("approved"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "approved must be true or false"})
	}
	uid, _ := c.Get("user_id").(int64)

	out, err := h.Svc.Decide(c.Request().Context(), uid, id, approved)
	if err != nil {
		return h.fail(c, "booking decide", err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /bookings/:id
func (h *Controller) GetByID(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	out, err := h.Svc.GetByID(c.Request().Context(), uid, id)
	if err != nil {
		return h.fail(c, "booking get", err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /bookings?state=&from=&size=
func (h *Controller) ListForBooker(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	return h.list(c, func(st bs.State) ([]bs.View, error) {
		return h.Svc.ListForBooker(c.Request().Context(), uid, st)
	})
}

// GET /bookings/owner?state=&from=&size=
func (h *Controller) ListForOwner(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	return h.list(c, func(st bs.State) ([]bs.View, error) {
		return h.Svc.ListForOwner(c.Request().Context(), uid, st)
	})
}

func (h *Controller) list(c echo.Context, fetch func(bs.State) ([]bs.View, error)) error {
	raw := c.QueryParam("state")
	if raw == "" {
		raw = string(bs.StateAll)
	}
	st, err := bs.ParseState(raw)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Unknown state: " + raw})
	}

	from, size, ok := pageParams(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid from/size"})
	}

	all, err := fetch(st)
	if err != nil {
		return h.fail(c, "booking list", err)
	}
	return c.JSON(http.StatusOK, paginate(all, from, size))
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

// paginate slices the fully materialized list; an out-of-range from is an
// empty page, never an error.
func paginate(list []bs.View, from, size int) []bs.View {
	if from >= len(list) {
		return []bs.View{}
	}
	to := from + size
	if to > len(list) {
		to = len(list)
	}
	return list[from:to]
}

func (h *Controller) fail(c echo.Context, op string, err error) error {
	switch bs.Code(err) {
	case bs.ErrUserNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
	case bs.ErrItemNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "item not found"})
	case bs.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "booking not found"})
	case bs.ErrNotOwner:
		return c.JSON(http.StatusForbidden, echo.Map{"message": "only the item owner can decide"})
	case bs.ErrBadDates:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "start must precede end and both must be in the future"})
	case bs.ErrUnavailable:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "item is not available"})
	case bs.ErrDecided:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "decision already made"})
	default:
		h.Log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}
