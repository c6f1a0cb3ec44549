package booking

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"ehotels/account"
	"ehotels/apperr"
	"ehotels/auth"
	"ehotels/metrics"
	"ehotels/model"
	"ehotels/storage"
)

// ReserveRoomHandler books a room for the calling client.
func ReserveRoomHandler(c fiber.Ctx) error {
	var req struct {
		RoomID    uint      `json:"room_id"`
		StartDate time.Time `json:"start_date"`
		EndDate   time.Time `json:"end_date"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return apperr.Unknown(err)
	}

	reservation, err := Reserve(storage.DB, auth.AccountID(c), req.RoomID, req.StartDate, req.EndDate)
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) && appErr.Code == apperr.CodeInvalidInterval {
			metrics.IncBookingConflict()
		}
		return err
	}

	metrics.IncReservationCreated()
	return c.Status(http.StatusCreated).JSON(reservation)
}

func DeleteReservationHandler(c fiber.Ctx) error {
	reservationID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return apperr.New(apperr.CodeUnknown, http.StatusBadRequest, "invalid reservation id")
	}

	if err := DeleteReservation(storage.DB, auth.AccountID(c), uint(reservationID)); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// CreateLocationHandler records a walk-in stay. The client may be identified
// by account id or, for front-desk convenience, by email.
func CreateLocationHandler(c fiber.Ctx) error {
	var req NewLocation
	if err := c.Bind().JSON(&req); err != nil {
		return apperr.Unknown(err)
	}

	clientID := req.ClientID
	if clientID == 0 {
		if req.ClientEmail == "" {
			return apperr.InvalidCredentials()
		}
		client, err := account.ClientByEmail(storage.DB, req.ClientEmail)
		if err != nil {
			return err
		}
		clientID = client.AccountID
	}

	start := time.Now().UTC()
	if req.StartDate != nil {
		start = *req.StartDate
	}

	location, err := CreateLocation(storage.DB, auth.AccountID(c), clientID, req.RoomID, start, req.EndDate)
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) && appErr.Code == apperr.CodeInvalidInterval {
			metrics.IncBookingConflict()
		}
		return err
	}

	metrics.IncLocationCreated()
	return c.Status(http.StatusCreated).JSON(location)
}

// SearchRoomsHandler runs the room search. Filters arrive as a JSON object
// in the "filters" query parameter. An employee's view is always scoped to
// their own hotel, whatever the filters say.
func SearchRoomsHandler(c fiber.Ctx) error {
	var filters SearchFilters
	if raw := c.Query("filters"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &filters); err != nil {
			return apperr.New(apperr.CodeUnknown, http.StatusBadRequest, "malformed filters")
		}
	}

	if auth.Role(c) == model.RoleEmployee {
		employee, err := account.GetEmployee(storage.DB, auth.AccountID(c))
		if err != nil {
			return err
		}
		filters.SpecificHotelID = &employee.HotelID
	}

	rooms, err := SearchRooms(storage.DB, filters)
	if err != nil {
		return err
	}

	metrics.IncRoomSearch()
	return c.Status(http.StatusOK).JSON(rooms)
}

// employeeAtHotel verifies the caller works at the hotel named in the path.
func employeeAtHotel(c fiber.Ctx) (uint, error) {
	hotelID, err := strconv.Atoi(c.Params("hotelId"))
	if err != nil {
		return 0, apperr.New(apperr.CodeUnknown, http.StatusBadRequest, "invalid hotel id")
	}

	employee, err := account.GetEmployee(storage.DB, auth.AccountID(c))
	if err != nil {
		return 0, err
	}
	if employee.HotelID != uint(hotelID) {
		return 0, apperr.Unauthorized()
	}
	return uint(hotelID), nil
}

func HotelReservationsHandler(c fiber.Ctx) error {
	hotelID, err := employeeAtHotel(c)
	if err != nil {
		return err
	}

	rows, err := HotelReservations(storage.DB, hotelID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(rows)
}

func HotelLocationsHandler(c fiber.Ctx) error {
	hotelID, err := employeeAtHotel(c)
	if err != nil {
		return err
	}

	rows, err := HotelLocations(storage.DB, hotelID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(rows)
}

// ExportHotelReservationsHandler downloads the hotel's reservations as an
// xlsx report.
func ExportHotelReservationsHandler(c fiber.Ctx) error {
	hotelID, err := employeeAtHotel(c)
	if err != nil {
		return err
	}

	rows, err := HotelReservations(storage.DB, hotelID)
	if err != nil {
		return err
	}

	f, err := buildReservationsFile(rows)
	if err != nil {
		return apperr.Unknown(err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return apperr.Unknown(err)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="reservations.xlsx"`)
	return c.Send(buf.Bytes())
}
