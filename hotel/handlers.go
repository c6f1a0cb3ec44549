package hotel

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"ehotels/apperr"
	"ehotels/auth"
	"ehotels/storage"
)

func CreateHotelHandler(c fiber.Ctx) error {
	var req NewHotel
	if err := c.Bind().JSON(&req); err != nil {
		return apperr.Unknown(err)
	}

	created, err := CreateHotel(storage.DB, auth.AccountID(c), req)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(created)
}

func ListHotelsHandler(c fiber.Ctx) error {
	hotels, err := ListHotels(storage.DB, auth.AccountID(c))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(hotels)
}

func UpdateHotelHandler(c fiber.Ctx) error {
	var upd HotelUpdate
	if err := c.Bind().JSON(&upd); err != nil {
		return apperr.Unknown(err)
	}

	updated, err := UpdateHotel(storage.DB, auth.AccountID(c), upd)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(updated)
}

func DeleteHotelHandler(c fiber.Ctx) error {
	hotelID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return apperr.New(apperr.CodeUnknown, http.StatusBadRequest, "invalid hotel id")
	}

	if err := DeleteHotel(storage.DB, auth.AccountID(c), uint(hotelID)); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func CreateRoomHandler(c fiber.Ctx) error {
	var req NewRoom
	if err := c.Bind().JSON(&req); err != nil {
		return apperr.Unknown(err)
	}

	room, err := CreateRoom(storage.DB, auth.AccountID(c), req)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(room)
}

func UpdateRoomHandler(c fiber.Ctx) error {
	var upd RoomUpdate
	if err := c.Bind().JSON(&upd); err != nil {
		return apperr.Unknown(err)
	}

	room, err := UpdateRoom(storage.DB, auth.AccountID(c), upd)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(room)
}

func DeleteRoomHandler(c fiber.Ctx) error {
	roomID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return apperr.New(apperr.CodeUnknown, http.StatusBadRequest, "invalid room id")
	}

	if err := DeleteRoom(storage.DB, auth.AccountID(c), uint(roomID)); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
