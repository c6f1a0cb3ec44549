// Package hotel manages hotels and their rooms on behalf of hotel chains
// and hotel managers.
package hotel

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ehotels/account"
	"ehotels/apperr"
	"ehotels/model"
	"ehotels/storage"
)

func classify(err error, onDuplicate *apperr.Error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	if storage.IsUniqueViolation(err) {
		return onDuplicate
	}
	return apperr.Unknown(err)
}

type NewHotel struct {
	Rating  int           `json:"rating"`
	Email   string        `json:"email"`
	Phone   string        `json:"phone"`
	Address model.Address `json:"address"`
}

// CreateHotel inserts the hotel and its address, and provisions a
// placeholder manager employee for it, all in one transaction.
func CreateHotel(db *gorm.DB, chainAccountID uint, in NewHotel) (*model.Hotel, error) {
	chain, err := account.GetHotelChain(db, chainAccountID)
	if err != nil {
		return nil, err
	}

	var hotel model.Hotel
	err = db.Transaction(func(tx *gorm.DB) error {
		addr := in.Address
		if err := tx.Create(&addr).Error; err != nil {
			return err
		}
		hotel = model.Hotel{
			HotelChainID: chain.ID,
			Rating:       in.Rating,
			Email:        in.Email,
			Phone:        in.Phone,
			AddressID:    addr.ID,
		}
		if err := tx.Create(&hotel).Error; err != nil {
			return err
		}
		hotel.Address = &addr

		// Bootstrap manager so the hotel can be staffed and stocked with
		// rooms right after creation. Credentials are random until the
		// chain rotates them.
		placeholder := account.NewEmployee{
			Email:     fmt.Sprintf("manager-%s@%s", uuid.NewString()[:8], "placeholder.local"),
			NAS:       uuid.NewString(),
			FirstName: "Hotel",
			LastName:  "Manager",
			Password:  uuid.NewString(),
			HotelID:   hotel.ID,
			Roles:     []string{model.EmployeeRoleManager},
			Address:   in.Address,
		}
		_, err := account.CreateEmployee(tx, placeholder)
		return err
	})
	if err != nil {
		return nil, classify(err, apperr.ChainExists())
	}
	return &hotel, nil
}

// ListHotels returns the hotels of the calling chain.
func ListHotels(db *gorm.DB, chainAccountID uint) ([]model.Hotel, error) {
	chain, err := account.GetHotelChain(db, chainAccountID)
	if err != nil {
		return nil, err
	}

	var hotels []model.Hotel
	if err := db.Preload("Address").Where("hotel_chain_id = ?", chain.ID).Find(&hotels).Error; err != nil {
		return nil, apperr.Unknown(err)
	}
	return hotels, nil
}

// ownedHotel loads a hotel and verifies it belongs to the calling chain.
func ownedHotel(db *gorm.DB, chainAccountID, hotelID uint) (*model.Hotel, error) {
	chain, err := account.GetHotelChain(db, chainAccountID)
	if err != nil {
		return nil, err
	}
	var hotel model.Hotel
	if err := db.First(&hotel, hotelID).Error; err != nil {
		return nil, apperr.New(apperr.CodeUnknown, http.StatusBadRequest, "hotel not found")
	}
	if hotel.HotelChainID != chain.ID {
		return nil, apperr.Unauthorized()
	}
	return &hotel, nil
}

type HotelUpdate struct {
	ID      uint                   `json:"id"`
	Rating  *int                   `json:"rating"`
	Email   *string                `json:"email"`
	Phone   *string                `json:"phone"`
	Address *account.AddressUpdate `json:"address"`
}

func UpdateHotel(db *gorm.DB, chainAccountID uint, upd HotelUpdate) (*model.Hotel, error) {
	hotel, err := ownedHotel(db, chainAccountID, upd.ID)
	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		changes := map[string]any{}
		if upd.Rating != nil {
			changes["rating"] = *upd.Rating
		}
		if upd.Email != nil {
			changes["email"] = *upd.Email
		}
		if upd.Phone != nil {
			changes["phone"] = *upd.Phone
		}
		if len(changes) > 0 {
			if err := tx.Model(hotel).Updates(changes).Error; err != nil {
				return err
			}
		}
		if upd.Address != nil {
			if err := account.ApplyAddressUpdate(tx, hotel.AddressID, upd.Address); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, classify(err, apperr.ChainExists())
	}

	var updated model.Hotel
	if err := db.Preload("Address").First(&updated, hotel.ID).Error; err != nil {
		return nil, apperr.Unknown(err)
	}
	return &updated, nil
}

// DeleteHotel removes the hotel, its rooms with their reservations and
// locations, and its address atomically.
func DeleteHotel(db *gorm.DB, chainAccountID, hotelID uint) error {
	hotel, err := ownedHotel(db, chainAccountID, hotelID)
	if err != nil {
		return err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		// Bookings first, while the room rows still exist for the subquery.
		roomIDs := tx.Model(&model.Room{}).Select("id").Where("hotel_id = ?", hotel.ID)
		if err := tx.Unscoped().Where("room_id IN (?)", roomIDs).Delete(&model.Reservation{}).Error; err != nil {
			return err
		}
		roomIDs = tx.Model(&model.Room{}).Select("id").Where("hotel_id = ?", hotel.ID)
		if err := tx.Unscoped().Where("room_id IN (?)", roomIDs).Delete(&model.Location{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("hotel_id = ?", hotel.ID).Delete(&model.Room{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(&model.Hotel{}, hotel.ID).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.Address{}, hotel.AddressID).Error
	})
	if err != nil {
		return apperr.Unknown(err)
	}
	return nil
}

type NewRoom struct {
	HotelID     uint     `json:"hotel_id"`
	Price       float64  `json:"price"`
	Commodities []string `json:"commodities"`
	Capacity    int      `json:"capacity"`
	SeaVue      bool     `json:"sea_vue"`
	MountainVue bool     `json:"mountain_vue"`
	Extendable  bool     `json:"extendable"`
	Issues      []string `json:"issues"`
	Area        float64  `json:"area"`
}

// managedHotelID checks room-management rights: the employee must hold the
// manager role, and may only touch their own hotel.
func managedHotelID(db *gorm.DB, employeeAccountID, requestedHotelID uint) (uint, error) {
	employee, err := account.GetEmployee(db, employeeAccountID)
	if err != nil {
		return 0, err
	}
	if !employee.IsManager() {
		return 0, apperr.Unauthorized()
	}
	if requestedHotelID != 0 && requestedHotelID != employee.HotelID {
		return 0, apperr.Unauthorized()
	}
	return employee.HotelID, nil
}

func CreateRoom(db *gorm.DB, employeeAccountID uint, in NewRoom) (*model.Room, error) {
	hotelID, err := managedHotelID(db, employeeAccountID, in.HotelID)
	if err != nil {
		return nil, err
	}

	room := model.Room{
		HotelID:     hotelID,
		Price:       in.Price,
		Commodities: in.Commodities,
		Capacity:    in.Capacity,
		SeaVue:      in.SeaVue,
		MountainVue: in.MountainVue,
		Extendable:  in.Extendable,
		Issues:      in.Issues,
		Area:        in.Area,
	}
	if err := db.Create(&room).Error; err != nil {
		return nil, apperr.Unknown(err)
	}
	return &room, nil
}

type RoomUpdate struct {
	ID          uint      `json:"id"`
	Price       *float64  `json:"price"`
	Commodities *[]string `json:"commodities"`
	Capacity    *int      `json:"capacity"`
	SeaVue      *bool     `json:"sea_vue"`
	MountainVue *bool     `json:"mountain_vue"`
	Extendable  *bool     `json:"extendable"`
	Issues      *[]string `json:"issues"`
	Area        *float64  `json:"area"`
}

func UpdateRoom(db *gorm.DB, employeeAccountID uint, upd RoomUpdate) (*model.Room, error) {
	var room model.Room
	if err := db.First(&room, upd.ID).Error; err != nil {
		return nil, apperr.New(apperr.CodeUnknown, http.StatusBadRequest, "room not found")
	}
	if _, err := managedHotelID(db, employeeAccountID, room.HotelID); err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if upd.Price != nil {
		changes["price"] = *upd.Price
	}
	if upd.Commodities != nil {
		changes["commodities"] = model.StringList(*upd.Commodities)
	}
	if upd.Capacity != nil {
		changes["capacity"] = *upd.Capacity
	}
	if upd.SeaVue != nil {
		changes["sea_vue"] = *upd.SeaVue
	}
	if upd.MountainVue != nil {
		changes["mountain_vue"] = *upd.MountainVue
	}
	if upd.Extendable != nil {
		changes["extendable"] = *upd.Extendable
	}
	if upd.Issues != nil {
		changes["issues"] = model.StringList(*upd.Issues)
	}
	if upd.Area != nil {
		changes["area"] = *upd.Area
	}
	if len(changes) > 0 {
		if err := db.Model(&room).Updates(changes).Error; err != nil {
			return nil, apperr.Unknown(err)
		}
	}

	var updated model.Room
	if err := db.First(&updated, room.ID).Error; err != nil {
		return nil, apperr.Unknown(err)
	}
	return &updated, nil
}

// DeleteRoom removes the room together with its reservations and locations.
func DeleteRoom(db *gorm.DB, employeeAccountID, roomID uint) error {
	var room model.Room
	if err := db.First(&room, roomID).Error; err != nil {
		return apperr.New(apperr.CodeUnknown, http.StatusBadRequest, "room not found")
	}
	if _, err := managedHotelID(db, employeeAccountID, room.HotelID); err != nil {
		return err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("room_id = ?", room.ID).Delete(&model.Reservation{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("room_id = ?", room.ID).Delete(&model.Location{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.Room{}, room.ID).Error
	})
	if err != nil {
		return apperr.Unknown(err)
	}
	return nil
}
