package main

import (
	"github.com/gofiber/fiber/v3"

	"ehotels/account"
	"ehotels/auth"
	"ehotels/booking"
	"ehotels/hotel"
	"ehotels/model"
)

func setupRoutes(app *fiber.App) {
	app.Post("/sign-in", account.SignIn)
	app.Post("/sign-up", account.SignUp)
	app.Post("/jwt", account.VerifyJWT)

	clientOnly := auth.Require(model.RoleClient)
	employeeOnly := auth.Require(model.RoleEmployee)
	chainOnly := auth.Require(model.RoleHotelChain)
	staffing := auth.Require(model.RoleHotelChain, model.RoleEmployee)
	anyRole := auth.Require(model.RoleClient, model.RoleEmployee, model.RoleHotelChain)
	searcher := auth.Require(model.RoleClient, model.RoleEmployee)

	app.Get("/client", account.ClientProfile, clientOnly)
	app.Get("/employee", account.EmployeeProfile, employeeOnly)
	app.Get("/hotel_chain", account.HotelChainProfile, chainOnly)
	app.Post("/update-client", account.UpdateClientHandler, clientOnly)
	app.Post("/update-employee", account.UpdateEmployeeHandler, employeeOnly)
	app.Post("/update-hotel-chain", account.UpdateHotelChainHandler, chainOnly)
	app.Delete("/user", account.DeleteSelf, anyRole)

	app.Get("/hotels", hotel.ListHotelsHandler, chainOnly)
	app.Post("/hotel", hotel.CreateHotelHandler, chainOnly)
	app.Post("/update-hotel", hotel.UpdateHotelHandler, chainOnly)
	app.Delete("/hotel/:id", hotel.DeleteHotelHandler, chainOnly)

	app.Post("/employee", account.CreateEmployeeHandler, staffing)
	app.Delete("/employee/:id", account.DeleteEmployeeHandler, staffing)
	app.Get("/client-email/:clientId", account.ClientEmailHandler, employeeOnly)

	app.Post("/room", hotel.CreateRoomHandler, employeeOnly)
	app.Post("/update-room", hotel.UpdateRoomHandler, employeeOnly)
	app.Delete("/room/:id", hotel.DeleteRoomHandler, employeeOnly)

	app.Post("/reserve-room", booking.ReserveRoomHandler, clientOnly)
	app.Delete("/reservation/:id", booking.DeleteReservationHandler, clientOnly)
	app.Post("/location", booking.CreateLocationHandler, employeeOnly)
	app.Get("/room-search", booking.SearchRoomsHandler, searcher)

	app.Get("/hotel-reservations/:hotelId", booking.HotelReservationsHandler, employeeOnly)
	app.Get("/hotel-reservations/:hotelId/export", booking.ExportHotelReservationsHandler, employeeOnly)
	app.Get("/hotel-locations/:hotelId", booking.HotelLocationsHandler, employeeOnly)
}
