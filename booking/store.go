// Package booking implements availability checks, reservations, walk-in
// locations and the room search engine.
package booking

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ehotels/apperr"
	"ehotels/model"
)

// overlapCond matches rows on the same room whose [start_date, end_date)
// interval overlaps the requested one. Two half-open intervals [a,b) and
// [c,d) overlap iff a < d AND c < b.
const overlapCond = "deleted_at IS NULL AND room_id = ? AND start_date < ? AND ? < end_date"

// IsAvailable reports whether the room has no reservation and no location
// overlapping [start, end). This is the read-side probe; the writes below do
// their own check atomically with the insert.
func IsAvailable(db *gorm.DB, roomID uint, start, end time.Time) (bool, error) {
	start, end = start.UTC(), end.UTC()

	var count int64
	err := db.Model(&model.Reservation{}).
		Where("room_id = ? AND start_date < ? AND ? < end_date", roomID, end, start).
		Count(&count).Error
	if err != nil {
		return false, apperr.Unknown(err)
	}
	if count > 0 {
		return false, nil
	}

	err = db.Model(&model.Location{}).
		Where("room_id = ? AND start_date < ? AND ? < end_date", roomID, end, start).
		Count(&count).Error
	if err != nil {
		return false, apperr.Unknown(err)
	}
	return count == 0, nil
}

func validInterval(start, end time.Time) error {
	if start.IsZero() || end.IsZero() || !start.Before(end) {
		return apperr.InvalidInterval()
	}
	return nil
}

// Reserve books the room for the client over [start, end). The availability
// check and the insert are a single conditional INSERT, so two concurrent
// reservations for overlapping intervals cannot both succeed.
func Reserve(db *gorm.DB, clientAccountID, roomID uint, start, end time.Time) (*model.Reservation, error) {
	start, end = start.UTC(), end.UTC()
	if err := validInterval(start, end); err != nil {
		return nil, err
	}

	var room model.Room
	if err := db.First(&room, roomID).Error; err != nil {
		return nil, apperr.New(apperr.CodeUnknown, http.StatusBadRequest, "room not found")
	}

	confirmation := uuid.NewString()
	now := time.Now().UTC()
	result := db.Exec(`
		INSERT INTO reservations (created_at, updated_at, room_id, client_id, start_date, end_date, confirmation)
		SELECT ?, ?, ?, ?, ?, ?, ?
		WHERE NOT EXISTS (SELECT 1 FROM reservations WHERE `+overlapCond+`)
		  AND NOT EXISTS (SELECT 1 FROM locations WHERE `+overlapCond+`)`,
		now, now, roomID, clientAccountID, start, end, confirmation,
		roomID, end, start,
		roomID, end, start,
	)
	if result.Error != nil {
		return nil, apperr.Unknown(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperr.InvalidInterval()
	}

	var reservation model.Reservation
	if err := db.Where("confirmation = ?", confirmation).First(&reservation).Error; err != nil {
		return nil, apperr.Unknown(err)
	}
	return &reservation, nil
}

type NewLocation struct {
	RoomID      uint       `json:"room_id"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     time.Time  `json:"end_date"`
	ClientID    uint       `json:"client_id"`
	ClientEmail string     `json:"client_email"`
}

// CreateLocation records a walk-in occupancy on behalf of a client. A
// missing start date means the stay begins now. The client id must name an
// existing client account; otherwise the stay would block the room while
// staying invisible in the hotel's location listing.
func CreateLocation(db *gorm.DB, employeeAccountID, clientAccountID uint, roomID uint, start, end time.Time) (*model.Location, error) {
	start, end = start.UTC(), end.UTC()
	if err := validInterval(start, end); err != nil {
		return nil, err
	}

	var acct model.Account
	if err := db.Where("id = ? AND role = ?", clientAccountID, model.RoleClient).First(&acct).Error; err != nil {
		return nil, apperr.InvalidCredentials()
	}

	var room model.Room
	if err := db.First(&room, roomID).Error; err != nil {
		return nil, apperr.New(apperr.CodeUnknown, http.StatusBadRequest, "room not found")
	}

	now := time.Now().UTC()
	result := db.Exec(`
		INSERT INTO locations (created_at, updated_at, room_id, client_id, employee_id, start_date, end_date)
		SELECT ?, ?, ?, ?, ?, ?, ?
		WHERE NOT EXISTS (SELECT 1 FROM reservations WHERE `+overlapCond+`)
		  AND NOT EXISTS (SELECT 1 FROM locations WHERE `+overlapCond+`)`,
		now, now, roomID, clientAccountID, employeeAccountID, start, end,
		roomID, end, start,
		roomID, end, start,
	)
	if result.Error != nil {
		return nil, apperr.Unknown(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperr.InvalidInterval()
	}

	var location model.Location
	err := db.Where("room_id = ? AND client_id = ? AND start_date = ?", roomID, clientAccountID, start).
		Order("id DESC").First(&location).Error
	if err != nil {
		return nil, apperr.Unknown(err)
	}
	return &location, nil
}

// DeleteReservation cancels a client's own reservation. Cancellation is only
// allowed while the stay has not started.
func DeleteReservation(db *gorm.DB, clientAccountID, reservationID uint) error {
	var reservation model.Reservation
	if err := db.First(&reservation, reservationID).Error; err != nil {
		return apperr.New(apperr.CodeUnknown, http.StatusBadRequest, "reservation not found")
	}
	if reservation.ClientID != clientAccountID {
		return apperr.Unauthorized()
	}
	if !reservation.StartDate.After(time.Now().UTC()) {
		return apperr.InvalidInterval()
	}

	if err := db.Unscoped().Delete(&reservation).Error; err != nil {
		return apperr.Unknown(err)
	}
	return nil
}

// ReservationSummary is the employee-facing view of a booking: the stay plus
// who it belongs to.
type ReservationSummary struct {
	ID           uint      `json:"id"`
	Confirmation string    `json:"confirmation"`
	RoomID       uint      `json:"room_id"`
	ClientEmail  string    `json:"client_email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
}

func HotelReservations(db *gorm.DB, hotelID uint) ([]ReservationSummary, error) {
	var rows []ReservationSummary
	err := db.Table("reservations").
		Select(`reservations.id, reservations.confirmation, reservations.room_id,
			reservations.start_date, reservations.end_date,
			accounts.email AS client_email, clients.first_name, clients.last_name`).
		Joins("JOIN rooms ON rooms.id = reservations.room_id").
		Joins("JOIN clients ON clients.account_id = reservations.client_id").
		Joins("JOIN accounts ON accounts.id = reservations.client_id").
		Where("rooms.hotel_id = ? AND reservations.deleted_at IS NULL", hotelID).
		Order("reservations.start_date").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Unknown(err)
	}
	return rows, nil
}

type LocationSummary struct {
	ID          uint      `json:"id"`
	RoomID      uint      `json:"room_id"`
	ClientEmail string    `json:"client_email"`
	EmployeeID  uint      `json:"employee_id"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
}

func HotelLocations(db *gorm.DB, hotelID uint) ([]LocationSummary, error) {
	var rows []LocationSummary
	err := db.Table("locations").
		Select(`locations.id, locations.room_id, locations.employee_id,
			locations.start_date, locations.end_date,
			accounts.email AS client_email`).
		Joins("JOIN rooms ON rooms.id = locations.room_id").
		Joins("JOIN accounts ON accounts.id = locations.client_id").
		Where("rooms.hotel_id = ? AND locations.deleted_at IS NULL", hotelID).
		Order("locations.start_date").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Unknown(err)
	}
	return rows, nil
}
