package booking

import (
	"time"

	"gorm.io/gorm"

	"ehotels/apperr"
	"ehotels/model"
)

// SearchFilters is the allow-list of recognized room search criteria. All
// filters are optional and conjunctive; an absent filter imposes no
// constraint. Every value is bound as a query parameter, never interpolated.
type SearchFilters struct {
	StartDate           *time.Time `json:"start_date"`
	EndDate             *time.Time `json:"end_date"`
	Capacity            *int       `json:"capacity"`
	Area                *float64   `json:"area"`
	ChainName           *string    `json:"chain_name"`
	City                *string    `json:"city"`
	HotelRating         *int       `json:"hotel_rating"`
	NumberOfRoomInHotel *int       `json:"number_of_room_in_hotel"`
	PriceMin            *float64   `json:"price_min"`
	PriceMax            *float64   `json:"price_max"`
	SpecificHotelID     *uint      `json:"specific_hotel_id"`
}

// SearchRooms returns the rooms matching every supplied filter. With no
// filters it returns every room. The date pair excludes rooms with an
// overlapping reservation or location; both dates must be supplied for the
// interval filter to apply.
func SearchRooms(db *gorm.DB, f SearchFilters) ([]model.Room, error) {
	q := db.Model(&model.Room{})

	if f.StartDate != nil && f.EndDate != nil {
		start, end := f.StartDate.UTC(), f.EndDate.UTC()
		q = q.Where(`NOT EXISTS (
			SELECT 1 FROM reservations
			WHERE reservations.deleted_at IS NULL
			  AND reservations.room_id = rooms.id
			  AND reservations.start_date < ? AND ? < reservations.end_date)`, end, start)
		q = q.Where(`NOT EXISTS (
			SELECT 1 FROM locations
			WHERE locations.deleted_at IS NULL
			  AND locations.room_id = rooms.id
			  AND locations.start_date < ? AND ? < locations.end_date)`, end, start)
	}

	if f.Capacity != nil {
		q = q.Where("capacity > ?", *f.Capacity)
	}

	if f.Area != nil {
		q = q.Where("area > ?", *f.Area)
	}

	if f.ChainName != nil {
		q = q.Where(`hotel_id IN (
			SELECT hotels.id FROM hotels
			JOIN hotel_chains ON hotel_chains.id = hotels.hotel_chain_id
			WHERE hotel_chains.name = ? AND hotels.deleted_at IS NULL)`, *f.ChainName)
	}

	if f.City != nil {
		q = q.Where(`hotel_id IN (
			SELECT hotels.id FROM hotels
			JOIN addresses ON addresses.id = hotels.address_id
			WHERE addresses.city = ? AND hotels.deleted_at IS NULL)`, *f.City)
	}

	if f.HotelRating != nil {
		q = q.Where("(SELECT rating FROM hotels WHERE hotels.id = rooms.hotel_id) > ?", *f.HotelRating)
	}

	if f.NumberOfRoomInHotel != nil {
		q = q.Where(`(SELECT COUNT(*) FROM rooms r2
			WHERE r2.hotel_id = rooms.hotel_id AND r2.deleted_at IS NULL) > ?`, *f.NumberOfRoomInHotel)
	}

	if f.PriceMin != nil {
		q = q.Where("price >= ?", *f.PriceMin)
	}

	if f.PriceMax != nil {
		q = q.Where("price <= ?", *f.PriceMax)
	}

	if f.SpecificHotelID != nil {
		q = q.Where("hotel_id = ?", *f.SpecificHotelID)
	}

	var rooms []model.Room
	if err := q.Find(&rooms).Error; err != nil {
		return nil, apperr.Unknown(err)
	}
	return rooms, nil
}
