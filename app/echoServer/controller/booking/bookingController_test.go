package booking_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"shareit/app/echoServer"
	bookingctrl "shareit/app/echoServer/controller/booking"
	"shareit/model"
	bs "shareit/service/booking"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type svcMock struct {
	createFn func(ctx context.Context, bookerID int64, in bs.CreateInput) (*bs.View, error)
	decideFn func(ctx context.Context, actorID, bookingID int64, approved bool) (*bs.View, error)
	getFn    func(ctx context.Context, viewerID, bookingID int64) (*bs.View, error)
	listFn   func(ctx context.Context, userID int64, st bs.State) ([]bs.View, error)
}

func (m *svcMock) Create(ctx context.Context, bookerID int64, in bs.CreateInput) (*bs.View, error) {
	return m.createFn(ctx, bookerID, in)
}
func (m *svcMock) Decide(ctx context.Context, actorID, bookingID int64, approved bool) (*bs.View, error) {
	return m.decideFn(ctx, actorID, bookingID, approved)
}
func (m *svcMock) GetByID(ctx context.Context, viewerID, bookingID int64) (*bs.View, error) {
	return m.getFn(ctx, viewerID, bookingID)
}
func (m *svcMock) ListForBooker(ctx context.Context, bookerID int64, st bs.State) ([]bs.View, error) {
	return m.listFn(ctx, bookerID, st)
}
func (m *svcMock) ListForOwner(ctx context.Context, ownerID int64, st bs.State) ([]bs.View, error) {
	return m.listFn(ctx, ownerID, st)
}

func newApp(svc bs.Service) *echo.Echo {
	e := echo.New()
	c := &bookingctrl.Controller{
		Svc: svc,
		V:   validator.New(),
		Log: slog.Default(),
	}
	g := e.Group("/bookings", echoServer.UserID())
	g.POST("", c.Create)
	g.GET("", c.ListForBooker)
	g.GET("/owner", c.ListForOwner)
	g.GET("/:id", c.GetByID)
	g.PATCH("/:id", c.Decide)
	return e
}

func doReq(e *echo.Echo, method, target, userID, body string) *httptest.ResponseRecorder {
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if userID != "" {
		req.Header.Set(echoServer.UserHeader, userID)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestMissingUserHeader(t *testing.T) {
	e := newApp(&svcMock{})

	rec := doReq(e, http.MethodGet, "/bookings", "", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doReq(e, http.MethodGet, "/bookings", "abc", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doReq(e, http.MethodGet, "/bookings", "0", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreate_Statuses(t *testing.T) {
	start := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
	end := time.Now().Add(2 * time.Hour).UTC().Format(time.RFC3339)
	body := fmt.Sprintf(`{"itemId":10,"start":%q,"end":%q}`, start, end)

	svc := &svcMock{
		createFn: func(ctx context.Context, bookerID int64, in bs.CreateInput) (*bs.View, error) {
			return &bs.View{ID: 100, Status: model.BookingWaiting}, nil
		},
	}
	e := newApp(svc)

	rec := doReq(e, http.MethodPost, "/bookings", "2", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	// missing fields fail validation before the service is touched
	rec = doReq(e, http.MethodPost, "/bookings", "2", `{"itemId":10}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDecide_ApprovedParam(t *testing.T) {
	svc := &svcMock{
		decideFn: func(ctx context.Context, actorID, bookingID int64, approved bool) (*bs.View, error) {
			st := model.BookingRejected
			if approved {
				st = model.BookingApproved
			}
			return &bs.View{ID: bookingID, Status: st}, nil
		},
	}
	e := newApp(svc)

	rec := doReq(e, http.MethodPatch, "/bookings/100?approved=true", "1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"APPROVED"`)

	rec = doReq(e, http.MethodPatch, "/bookings/100?approved=maybe", "1", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doReq(e, http.MethodPatch, "/bookings/100", "1", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestList_UnknownState(t *testing.T) {
	e := newApp(&svcMock{
		listFn: func(ctx context.Context, userID int64, st bs.State) ([]bs.View, error) {
			return nil, nil
		},
	})

	rec := doReq(e, http.MethodGet, "/bookings?state=BOGUS", "2", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Unknown state: BOGUS")

	// lowercase is rejected too: the enum is case-sensitive
	rec = doReq(e, http.MethodGet, "/bookings?state=all", "2", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestList_Pagination(t *testing.T) {
	views := make([]bs.View, 12)
	for i := range views {
		views[i] = bs.View{ID: int64(i + 1)}
	}
	e := newApp(&svcMock{
		listFn: func(ctx context.Context, userID int64, st bs.State) ([]bs.View, error) {
			return views, nil
		},
	})

	decode := func(rec *httptest.ResponseRecorder) []bs.View {
		var out []bs.View
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		return out
	}

	rec := doReq(e, http.MethodGet, "/bookings?from=10&size=10", "2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode(rec)
	require.Len(t, got, 2)
	require.Equal(t, int64(11), got[0].ID)

	rec = doReq(e, http.MethodGet, "/bookings?from=20&size=10", "2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode(rec), 0)

	rec = doReq(e, http.MethodGet, "/bookings/owner?from=0&size=5", "2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode(rec), 5)

	// boundary validation
	rec = doReq(e, http.MethodGet, "/bookings?from=-1", "2", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	rec = doReq(e, http.MethodGet, "/bookings?size=0", "2", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

// coded mirrors the service's error shape so tests can hand back codes.
type coded bs.ErrCode

func (c coded) Error() string    { return string(c) }
func (c coded) Code() bs.ErrCode { return bs.ErrCode(c) }

func TestGetByID_MapsNotFound(t *testing.T) {
	e := newApp(&svcMock{
		getFn: func(ctx context.Context, viewerID, bookingID int64) (*bs.View, error) {
			return nil, coded(bs.ErrNotFound)
		},
	})

	rec := doReq(e, http.MethodGet, "/bookings/100", "3", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
