// Package model holds the persisted entities. Principals share a single
// accounts table with a role discriminant; role-specific rows (client,
// employee, hotel chain) extend it by account id.
package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"slices"
	"time"

	"gorm.io/gorm"
)

const (
	RoleClient     = "client"
	RoleEmployee   = "employee"
	RoleHotelChain = "hotel_chain"

	// EmployeeRoleManager grants an employee elevated permissions over
	// their assigned hotel.
	EmployeeRoleManager = "manager"
)

// StringList is stored as a JSON text column (commodities, issues, roles).
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported type for StringList")
	}
}

type Account struct {
	gorm.Model
	Email    string `json:"email" gorm:"uniqueIndex"`
	Password string `json:"-"`
	Role     string `json:"role"`
}

type Address struct {
	gorm.Model
	StreetName   string `json:"street_name"`
	StreetNumber int    `json:"street_number"`
	AptNumber    *int   `json:"apt_number,omitempty"`
	City         string `json:"city"`
	Province     string `json:"province"`
	Zip          string `json:"zip"`
}

type Client struct {
	gorm.Model
	AccountID uint     `json:"account_id" gorm:"uniqueIndex"`
	Email     string   `json:"email" gorm:"-"`
	NAS       string   `json:"nas" gorm:"uniqueIndex"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	AddressID uint     `json:"address_id"`
	Address   *Address `json:"address,omitempty" gorm:"foreignKey:AddressID"`
}

type Employee struct {
	gorm.Model
	AccountID uint       `json:"account_id" gorm:"uniqueIndex"`
	Email     string     `json:"email" gorm:"-"`
	NAS       string     `json:"nas" gorm:"uniqueIndex"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	HotelID   uint       `json:"hotel_id"`
	Roles     StringList `json:"roles" gorm:"type:text"`
	AddressID uint       `json:"address_id"`
	Address   *Address   `json:"address,omitempty" gorm:"foreignKey:AddressID"`
}

func (e *Employee) IsManager() bool {
	return slices.Contains(e.Roles, EmployeeRoleManager)
}

type HotelChain struct {
	gorm.Model
	AccountID uint     `json:"account_id" gorm:"uniqueIndex"`
	Email     string   `json:"email" gorm:"-"`
	Name      string   `json:"name" gorm:"uniqueIndex:idx_chain_identity"`
	Phone     string   `json:"phone" gorm:"uniqueIndex:idx_chain_identity"`
	AddressID uint     `json:"address_id"`
	Address   *Address `json:"address,omitempty" gorm:"foreignKey:AddressID"`
}

type Hotel struct {
	gorm.Model
	HotelChainID uint     `json:"hotel_chain_id"`
	Rating       int      `json:"rating"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	AddressID    uint     `json:"address_id"`
	Address      *Address `json:"address,omitempty" gorm:"foreignKey:AddressID"`
	Rooms        []Room   `json:"rooms,omitempty"`
}

type Room struct {
	gorm.Model
	HotelID     uint       `json:"hotel_id"`
	Price       float64    `json:"price"`
	Commodities StringList `json:"commodities" gorm:"type:text"`
	Capacity    int        `json:"capacity"`
	SeaVue      bool       `json:"sea_vue"`
	MountainVue bool       `json:"mountain_vue"`
	Extendable  bool       `json:"extendable"`
	Issues      StringList `json:"issues" gorm:"type:text"`
	Area        float64    `json:"area"`
}

// Reservation is a client-initiated booking of a room over [StartDate, EndDate).
type Reservation struct {
	gorm.Model
	RoomID       uint      `json:"room_id"`
	ClientID     uint      `json:"client_id"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	Confirmation string    `json:"confirmation" gorm:"uniqueIndex"`
}

// Location is a staff-recorded on-site occupancy of a room, distinct from a
// client-initiated reservation. EmployeeID is the recording employee.
type Location struct {
	gorm.Model
	RoomID     uint      `json:"room_id"`
	ClientID   uint      `json:"client_id"`
	EmployeeID uint      `json:"employee_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
}

// overlaps reports whether half-open intervals [aStart, aEnd) and
// [bStart, bEnd) share at least one instant. The booking store binds the
// same predicate as SQL; the tests here pin the boundary semantics.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
