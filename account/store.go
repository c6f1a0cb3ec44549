// Package account manages the principals (client, employee, hotel chain):
// sign-in/sign-up, profile reads, partial updates and deletion. Every write
// touching more than one table runs in a transaction.
package account

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"ehotels/apperr"
	"ehotels/auth"
	"ehotels/model"
	"ehotels/storage"
)

type NewClient struct {
	Email     string        `json:"email"`
	NAS       string        `json:"nas"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	Password  string        `json:"password"`
	Address   model.Address `json:"address"`
}

type NewEmployee struct {
	Email     string        `json:"email"`
	NAS       string        `json:"nas"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	Password  string        `json:"password"`
	HotelID   uint          `json:"hotel_id"`
	Roles     []string      `json:"roles"`
	Address   model.Address `json:"address"`
}

// classify turns a raw store error into the typed condition the API layer
// reports. Typed errors raised inside a transaction pass through unchanged.
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

func CreateClient(db *gorm.DB, in NewClient) (*model.Client, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Unknown(err)
	}

	var client model.Client
	err = db.Transaction(func(tx *gorm.DB) error {
		acct := model.Account{Email: strings.ToLower(in.Email), Password: hash, Role: model.RoleClient}
		if err := tx.Create(&acct).Error; err != nil {
			return err
		}
		addr := in.Address
		if err := tx.Create(&addr).Error; err != nil {
			return err
		}
		client = model.Client{
			AccountID: acct.ID,
			NAS:       in.NAS,
			FirstName: in.FirstName,
			LastName:  in.LastName,
			AddressID: addr.ID,
		}
		if err := tx.Create(&client).Error; err != nil {
			return err
		}
		client.Address = &addr
		client.Email = acct.Email
		return nil
	})
	if err != nil {
		return nil, classify(err, apperr.UserExists())
	}
	return &client, nil
}

func CreateEmployee(db *gorm.DB, in NewEmployee) (*model.Employee, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Unknown(err)
	}

	var employee model.Employee
	err = db.Transaction(func(tx *gorm.DB) error {
		var hotel model.Hotel
		if err := tx.First(&hotel, in.HotelID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.CodeUnknown, 400, "hotel not found")
			}
			return err
		}

		acct := model.Account{Email: strings.ToLower(in.Email), Password: hash, Role: model.RoleEmployee}
		if err := tx.Create(&acct).Error; err != nil {
			return err
		}
		addr := in.Address
		if err := tx.Create(&addr).Error; err != nil {
			return err
		}
		employee = model.Employee{
			AccountID: acct.ID,
			NAS:       in.NAS,
			FirstName: in.FirstName,
			LastName:  in.LastName,
			HotelID:   hotel.ID,
			Roles:     in.Roles,
			AddressID: addr.ID,
		}
		if err := tx.Create(&employee).Error; err != nil {
			return err
		}
		employee.Address = &addr
		employee.Email = acct.Email
		return nil
	})
	if err != nil {
		return nil, classify(err, apperr.UserExists())
	}
	return &employee, nil
}

// Authenticate checks the email/password pair against the accounts table.
func Authenticate(db *gorm.DB, email, password string) (*model.Account, error) {
	if email == "" || password == "" {
		return nil, apperr.MissingCredentials()
	}

	var acct model.Account
	err := db.Where("email = ?", strings.ToLower(email)).First(&acct).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.InvalidCredentials()
		}
		return nil, apperr.Unknown(err)
	}

	if !auth.VerifyPassword(password, acct.Password) {
		return nil, apperr.InvalidCredentials()
	}
	return &acct, nil
}

func GetAccount(db *gorm.DB, id uint) (*model.Account, error) {
	var acct model.Account
	if err := db.First(&acct, id).Error; err != nil {
		return nil, apperr.Unauthorized()
	}
	return &acct, nil
}

func GetClient(db *gorm.DB, accountID uint) (*model.Client, error) {
	var client model.Client
	err := db.Preload("Address").Where("account_id = ?", accountID).First(&client).Error
	if err != nil {
		return nil, apperr.Unknown(err)
	}
	if acct, err := GetAccount(db, accountID); err == nil {
		client.Email = acct.Email
	}
	return &client, nil
}

func GetEmployee(db *gorm.DB, accountID uint) (*model.Employee, error) {
	var employee model.Employee
	err := db.Preload("Address").Where("account_id = ?", accountID).First(&employee).Error
	if err != nil {
		return nil, apperr.Unknown(err)
	}
	if acct, err := GetAccount(db, accountID); err == nil {
		employee.Email = acct.Email
	}
	return &employee, nil
}

func GetHotelChain(db *gorm.DB, accountID uint) (*model.HotelChain, error) {
	var chain model.HotelChain
	err := db.Preload("Address").Where("account_id = ?", accountID).First(&chain).Error
	if err != nil {
		return nil, apperr.Unknown(err)
	}
	if acct, err := GetAccount(db, accountID); err == nil {
		chain.Email = acct.Email
	}
	return &chain, nil
}

// ClientByEmail resolves a client by email, as used when an employee records
// a location for a walk-in client.
func ClientByEmail(db *gorm.DB, email string) (*model.Client, error) {
	var acct model.Account
	err := db.Where("email = ? AND role = ?", strings.ToLower(email), model.RoleClient).First(&acct).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.InvalidCredentials()
		}
		return nil, apperr.Unknown(err)
	}
	return GetClient(db, acct.ID)
}

// ClientEmail returns the email behind a client account id.
func ClientEmail(db *gorm.DB, clientAccountID uint) (string, error) {
	var client model.Client
	if err := db.Where("account_id = ?", clientAccountID).First(&client).Error; err != nil {
		return "", apperr.Unknown(err)
	}
	var acct model.Account
	if err := db.First(&acct, client.AccountID).Error; err != nil {
		return "", apperr.Unknown(err)
	}
	return acct.Email, nil
}

// DeleteAccount removes the caller's principal: the account row, the
// role-specific row and its address, all in one transaction.
func DeleteAccount(db *gorm.DB, accountID uint) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		var acct model.Account
		if err := tx.First(&acct, accountID).Error; err != nil {
			return err
		}

		var addressID uint
		switch acct.Role {
		case model.RoleClient:
			var client model.Client
			if err := tx.Where("account_id = ?", accountID).First(&client).Error; err != nil {
				return err
			}
			addressID = client.AddressID
			if err := tx.Unscoped().Delete(&client).Error; err != nil {
				return err
			}
		case model.RoleEmployee:
			var employee model.Employee
			if err := tx.Where("account_id = ?", accountID).First(&employee).Error; err != nil {
				return err
			}
			addressID = employee.AddressID
			if err := tx.Unscoped().Delete(&employee).Error; err != nil {
				return err
			}
		case model.RoleHotelChain:
			var chain model.HotelChain
			if err := tx.Where("account_id = ?", accountID).First(&chain).Error; err != nil {
				return err
			}
			addressID = chain.AddressID
			if err := tx.Unscoped().Delete(&chain).Error; err != nil {
				return err
			}
		}

		if addressID != 0 {
			if err := tx.Unscoped().Delete(&model.Address{}, addressID).Error; err != nil {
				return err
			}
		}
		return tx.Unscoped().Delete(&acct).Error
	})
	if err != nil {
		return apperr.Unknown(err)
	}
	return nil
}
