package echoServer

import (
	"shareit/app/echoServer/controller/booking"
	"shareit/app/echoServer/controller/item"
	"shareit/app/echoServer/controller/request"
	"shareit/app/echoServer/controller/user"

	"github.com/labstack/echo/v4"
)

type C struct {
	User    *user.Controller
	Item    *item.Controller
	Booking *booking.Controller
	Request *request.Controller
}

func Register(e *echo.Echo, c C) {
	// Users: no acting-user header on this surface
	e.POST("/users", c.User.Create)
	e.GET("/users", c.User.List)
	e.GET("/users/:id", c.User.GetByID)
	e.PATCH("/users/:id", c.User.Patch)
	e.DELETE("/users/:id", c.User.Delete)

	// Items
	items := e.Group("/items", UserID())
	items.POST("", c.Item.Create)
	items.GET("", c.Item.ListOwn)
	items.GET("/search", c.Item.Search)
	items.GET("/:id", c.Item.GetByID)
	items.PATCH("/:id", c.Item.Update)
	items.POST("/:id/comment", c.Item.AddComment)

	// Bookings
	bookings := e.Group("/bookings", UserID())
	bookings.POST("", c.Booking.Create)
	bookings.GET("", c.Booking.ListForBooker)
	bookings.GET("/owner", c.Booking.ListForOwner)
	bookings.GET("/:id", c.Booking.GetByID)
	bookings.PATCH("/:id", c.Booking.Decide)

	// Requests
	requests := e.Group("/requests", UserID())
	requests.POST("", c.Request.Create)
	requests.GET("", c.Request.GetOwn)
	requests.GET("/all", c.Request.GetAllOther)
	requests.GET("/:id", c.Request.GetByID)
}
