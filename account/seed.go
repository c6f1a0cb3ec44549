package account

import (
	"strings"

	"gorm.io/gorm"

	"ehotels/auth"
	"ehotels/model"
)

// SeedHotelChain provisions a hotel chain principal at startup. Chains are
// not created through the public API, so a fresh database gets one here,
// the same way the reference deployments bootstrap their admin user.
func SeedHotelChain(db *gorm.DB, name, email, phone, password string) error {
	email = strings.ToLower(email)

	var existing model.Account
	result := db.Where("email = ?", email).First(&existing)
	if result.Error == nil {
		return nil
	}
	if result.Error != gorm.ErrRecordNotFound {
		return result.Error
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		acct := model.Account{Email: email, Password: hash, Role: model.RoleHotelChain}
		if err := tx.Create(&acct).Error; err != nil {
			return err
		}
		addr := model.Address{}
		if err := tx.Create(&addr).Error; err != nil {
			return err
		}
		chain := model.HotelChain{AccountID: acct.ID, Name: name, Phone: phone, AddressID: addr.ID}
		return tx.Create(&chain).Error
	})
}
