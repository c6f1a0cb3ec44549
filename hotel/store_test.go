package hotel

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"ehotels/account"
	"ehotels/apperr"
	"ehotels/model"
	"ehotels/storage"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := storage.Connect(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, storage.Migrate(db))
	return db
}

func errCode(t *testing.T, err error) apperr.Code {
	t.Helper()
	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr), "expected *apperr.Error, got %v", err)
	return appErr.Code
}

// newChainAccount provisions a hotel chain principal and returns its account id.
func newChainAccount(t *testing.T, db *gorm.DB, name string) uint {
	t.Helper()
	email := fmt.Sprintf("%s@chain.test", name)
	require.NoError(t, account.SeedHotelChain(db, name, email, "555-"+name, "pw123456"))
	acct, err := account.Authenticate(db, email, "pw123456")
	require.NoError(t, err)
	return acct.ID
}

func newHotel(t *testing.T, db *gorm.DB, chainAccountID uint) *model.Hotel {
	t.Helper()
	hotel, err := CreateHotel(db, chainAccountID, NewHotel{
		Rating: 4,
		Email:  "front-desk@chain.test",
		Phone:  "555-0101",
		Address: model.Address{
			StreetName:   "Laurier",
			StreetNumber: 10,
			City:         "Ottawa",
			Province:     "ON",
			Zip:          "K1A 0A1",
		},
	})
	require.NoError(t, err)
	return hotel
}

func newManager(t *testing.T, db *gorm.DB, hotelID uint, email string) *model.Employee {
	t.Helper()
	employee, err := account.CreateEmployee(db, account.NewEmployee{
		Email:     email,
		NAS:       email,
		FirstName: "Max",
		LastName:  "Manager",
		Password:  "pw123456",
		HotelID:   hotelID,
		Roles:     []string{model.EmployeeRoleManager},
		Address:   model.Address{City: "Ottawa"},
	})
	require.NoError(t, err)
	return employee
}

func TestCreateHotelProvisionsManager(t *testing.T) {
	db := newTestDB(t)
	chainID := newChainAccount(t, db, "acme")

	hotel := newHotel(t, db, chainID)
	assert.NotZero(t, hotel.ID)
	require.NotNil(t, hotel.Address)
	assert.Equal(t, "Ottawa", hotel.Address.City)

	var employees []model.Employee
	require.NoError(t, db.Where("hotel_id = ?", hotel.ID).Find(&employees).Error)
	require.Len(t, employees, 1)
	assert.True(t, employees[0].IsManager())
}

func TestListHotelsScopedToChain(t *testing.T) {
	db := newTestDB(t)
	acmeID := newChainAccount(t, db, "acme")
	globexID := newChainAccount(t, db, "globex")

	acmeHotel := newHotel(t, db, acmeID)
	newHotel(t, db, globexID)

	hotels, err := ListHotels(db, acmeID)
	require.NoError(t, err)
	require.Len(t, hotels, 1)
	assert.Equal(t, acmeHotel.ID, hotels[0].ID)
}

func TestUpdateHotel(t *testing.T) {
	db := newTestDB(t)
	chainID := newChainAccount(t, db, "acme")
	hotel := newHotel(t, db, chainID)

	rating := 5
	city := "Montreal"
	updated, err := UpdateHotel(db, chainID, HotelUpdate{
		ID:      hotel.ID,
		Rating:  &rating,
		Address: &account.AddressUpdate{City: &city},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, hotel.Email, updated.Email)
	require.NotNil(t, updated.Address)
	assert.Equal(t, "Montreal", updated.Address.City)
	assert.Equal(t, "Laurier", updated.Address.StreetName)
}

func TestUpdateHotelWrongChain(t *testing.T) {
	db := newTestDB(t)
	acmeID := newChainAccount(t, db, "acme")
	globexID := newChainAccount(t, db, "globex")
	hotel := newHotel(t, db, acmeID)

	rating := 1
	_, err := UpdateHotel(db, globexID, HotelUpdate{ID: hotel.ID, Rating: &rating})
	assert.Equal(t, apperr.CodeUnauthorized, errCode(t, err))
}

func TestDeleteHotelCascades(t *testing.T) {
	db := newTestDB(t)
	chainID := newChainAccount(t, db, "acme")
	hotel := newHotel(t, db, chainID)
	manager := newManager(t, db, hotel.ID, "manager@chain.test")

	room, err := CreateRoom(db, manager.AccountID, NewRoom{HotelID: hotel.ID, Price: 100, Capacity: 2})
	require.NoError(t, err)

	require.NoError(t, db.Create(&model.Reservation{RoomID: room.ID, ClientID: 1, Confirmation: "c1"}).Error)
	require.NoError(t, db.Create(&model.Location{RoomID: room.ID, ClientID: 1, EmployeeID: manager.AccountID}).Error)

	require.NoError(t, DeleteHotel(db, chainID, hotel.ID))

	var counts [4]int64
	require.NoError(t, db.Model(&model.Hotel{}).Count(&counts[0]).Error)
	require.NoError(t, db.Model(&model.Room{}).Count(&counts[1]).Error)
	require.NoError(t, db.Model(&model.Reservation{}).Count(&counts[2]).Error)
	require.NoError(t, db.Model(&model.Location{}).Count(&counts[3]).Error)
	for i, count := range counts {
		assert.Zero(t, count, "table %d not emptied", i)
	}
}

func TestDeleteHotelWrongChain(t *testing.T) {
	db := newTestDB(t)
	acmeID := newChainAccount(t, db, "acme")
	globexID := newChainAccount(t, db, "globex")
	hotel := newHotel(t, db, acmeID)

	err := DeleteHotel(db, globexID, hotel.ID)
	assert.Equal(t, apperr.CodeUnauthorized, errCode(t, err))
}

func TestCreateRoom(t *testing.T) {
	db := newTestDB(t)
	chainID := newChainAccount(t, db, "acme")
	hotel := newHotel(t, db, chainID)
	manager := newManager(t, db, hotel.ID, "manager@chain.test")

	room, err := CreateRoom(db, manager.AccountID, NewRoom{
		HotelID:     hotel.ID,
		Price:       120,
		Capacity:    2,
		SeaVue:      true,
		Commodities: []string{"wifi", "tv"},
		Area:        30,
	})
	require.NoError(t, err)
	assert.Equal(t, hotel.ID, room.HotelID)
	assert.Equal(t, model.StringList{"wifi", "tv"}, room.Commodities)
}

func TestCreateRoomRequiresManager(t *testing.T) {
	db := newTestDB(t)
	chainID := newChainAccount(t, db, "acme")
	hotel := newHotel(t, db, chainID)

	staff, err := account.CreateEmployee(db, account.NewEmployee{
		Email:    "staff@chain.test",
		NAS:      "999999999",
		Password: "pw123456",
		HotelID:  hotel.ID,
		Roles:    []string{"reception"},
	})
	require.NoError(t, err)

	_, err = CreateRoom(db, staff.AccountID, NewRoom{HotelID: hotel.ID, Price: 100, Capacity: 2})
	assert.Equal(t, apperr.CodeUnauthorized, errCode(t, err))
}

func TestCreateRoomWrongHotel(t *testing.T) {
	db := newTestDB(t)
	chainID := newChainAccount(t, db, "acme")
	mine := newHotel(t, db, chainID)
	other := newHotel(t, db, chainID)
	manager := newManager(t, db, mine.ID, "manager@chain.test")

	_, err := CreateRoom(db, manager.AccountID, NewRoom{HotelID: other.ID, Price: 100, Capacity: 2})
	assert.Equal(t, apperr.CodeUnauthorized, errCode(t, err))
}

func TestUpdateRoomPartial(t *testing.T) {
	db := newTestDB(t)
	chainID := newChainAccount(t, db, "acme")
	hotel := newHotel(t, db, chainID)
	manager := newManager(t, db, hotel.ID, "manager@chain.test")

	room, err := CreateRoom(db, manager.AccountID, NewRoom{HotelID: hotel.ID, Price: 100, Capacity: 2, Area: 30})
	require.NoError(t, err)

	price := 150.0
	issues := []string{"leaky faucet"}
	updated, err := UpdateRoom(db, manager.AccountID, RoomUpdate{ID: room.ID, Price: &price, Issues: &issues})
	require.NoError(t, err)
	assert.Equal(t, 150.0, updated.Price)
	assert.Equal(t, model.StringList{"leaky faucet"}, updated.Issues)
	assert.Equal(t, 2, updated.Capacity)
	assert.Equal(t, 30.0, updated.Area)
}

func TestDeleteRoomCascades(t *testing.T) {
	db := newTestDB(t)
	chainID := newChainAccount(t, db, "acme")
	hotel := newHotel(t, db, chainID)
	manager := newManager(t, db, hotel.ID, "manager@chain.test")

	room, err := CreateRoom(db, manager.AccountID, NewRoom{HotelID: hotel.ID, Price: 100, Capacity: 2})
	require.NoError(t, err)

	require.NoError(t, db.Create(&model.Reservation{RoomID: room.ID, ClientID: 1, Confirmation: "c1"}).Error)
	require.NoError(t, db.Create(&model.Location{RoomID: room.ID, ClientID: 1, EmployeeID: manager.AccountID}).Error)

	require.NoError(t, DeleteRoom(db, manager.AccountID, room.ID))

	var counts [3]int64
	require.NoError(t, db.Model(&model.Room{}).Count(&counts[0]).Error)
	require.NoError(t, db.Model(&model.Reservation{}).Count(&counts[1]).Error)
	require.NoError(t, db.Model(&model.Location{}).Count(&counts[2]).Error)
	assert.Zero(t, counts[0])
	assert.Zero(t, counts[1])
	assert.Zero(t, counts[2])
}
