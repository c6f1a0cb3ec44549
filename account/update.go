package account

import (
	"gorm.io/gorm"

	"ehotels/apperr"
	"ehotels/auth"
	"ehotels/model"
)

// Partial updates: only fields present in the request end up in the SET
// clause, everything else keeps its prior value.

type AddressUpdate struct {
	StreetName   *string `json:"street_name"`
	StreetNumber *int    `json:"street_number"`
	AptNumber    *int    `json:"apt_number"`
	City         *string `json:"city"`
	Province     *string `json:"province"`
	Zip          *string `json:"zip"`
}

func (u *AddressUpdate) changes() map[string]any {
	changes := map[string]any{}
	if u.StreetName != nil {
		changes["street_name"] = *u.StreetName
	}
	if u.StreetNumber != nil {
		changes["street_number"] = *u.StreetNumber
	}
	if u.AptNumber != nil {
		changes["apt_number"] = *u.AptNumber
	}
	if u.City != nil {
		changes["city"] = *u.City
	}
	if u.Province != nil {
		changes["province"] = *u.Province
	}
	if u.Zip != nil {
		changes["zip"] = *u.Zip
	}
	return changes
}

// ApplyAddressUpdate updates an address row in the caller's transaction
// scope. Also used by the hotel store.
func ApplyAddressUpdate(tx *gorm.DB, addressID uint, upd *AddressUpdate) error {
	changes := upd.changes()
	if len(changes) == 0 {
		return nil
	}
	return tx.Model(&model.Address{}).Where("id = ?", addressID).Updates(changes).Error
}

func updatePassword(tx *gorm.DB, accountID uint, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return tx.Model(&model.Account{}).Where("id = ?", accountID).Update("password", hash).Error
}

type ClientUpdate struct {
	NAS       *string        `json:"nas"`
	FirstName *string        `json:"first_name"`
	LastName  *string        `json:"last_name"`
	Password  *string        `json:"password"`
	Address   *AddressUpdate `json:"address"`
}

func UpdateClient(db *gorm.DB, accountID uint, upd ClientUpdate) (*model.Client, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		var client model.Client
		if err := tx.Where("account_id = ?", accountID).First(&client).Error; err != nil {
			return err
		}

		changes := map[string]any{}
		if upd.NAS != nil {
			changes["nas"] = *upd.NAS
		}
		if upd.FirstName != nil {
			changes["first_name"] = *upd.FirstName
		}
		if upd.LastName != nil {
			changes["last_name"] = *upd.LastName
		}
		if len(changes) > 0 {
			if err := tx.Model(&client).Updates(changes).Error; err != nil {
				return err
			}
		}
		if upd.Password != nil {
			if err := updatePassword(tx, accountID, *upd.Password); err != nil {
				return err
			}
		}
		if upd.Address != nil {
			if err := ApplyAddressUpdate(tx, client.AddressID, upd.Address); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, classify(err, apperr.UserExists())
	}
	return GetClient(db, accountID)
}

// EmployeeUpdate carries the fields an employee may change on their own
// profile. Roles are assigned through the staffing endpoints only, so an
// employee cannot grant themselves the manager role here.
type EmployeeUpdate struct {
	NAS       *string        `json:"nas"`
	FirstName *string        `json:"first_name"`
	LastName  *string        `json:"last_name"`
	Password  *string        `json:"password"`
	Address   *AddressUpdate `json:"address"`
}

func UpdateEmployee(db *gorm.DB, accountID uint, upd EmployeeUpdate) (*model.Employee, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		var employee model.Employee
		if err := tx.Where("account_id = ?", accountID).First(&employee).Error; err != nil {
			return err
		}

		changes := map[string]any{}
		if upd.NAS != nil {
			changes["nas"] = *upd.NAS
		}
		if upd.FirstName != nil {
			changes["first_name"] = *upd.FirstName
		}
		if upd.LastName != nil {
			changes["last_name"] = *upd.LastName
		}
		if len(changes) > 0 {
			if err := tx.Model(&employee).Updates(changes).Error; err != nil {
				return err
			}
		}
		if upd.Password != nil {
			if err := updatePassword(tx, accountID, *upd.Password); err != nil {
				return err
			}
		}
		if upd.Address != nil {
			if err := ApplyAddressUpdate(tx, employee.AddressID, upd.Address); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, classify(err, apperr.UserExists())
	}
	return GetEmployee(db, accountID)
}

type HotelChainUpdate struct {
	Name     *string        `json:"name"`
	Phone    *string        `json:"phone"`
	Password *string        `json:"password"`
	Address  *AddressUpdate `json:"address"`
}

func UpdateHotelChain(db *gorm.DB, accountID uint, upd HotelChainUpdate) (*model.HotelChain, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		var chain model.HotelChain
		if err := tx.Where("account_id = ?", accountID).First(&chain).Error; err != nil {
			return err
		}

		changes := map[string]any{}
		if upd.Name != nil {
			changes["name"] = *upd.Name
		}
		if upd.Phone != nil {
			changes["phone"] = *upd.Phone
		}
		if len(changes) > 0 {
			if err := tx.Model(&chain).Updates(changes).Error; err != nil {
				return err
			}
		}
		if upd.Password != nil {
			if err := updatePassword(tx, accountID, *upd.Password); err != nil {
				return err
			}
		}
		if upd.Address != nil {
			if err := ApplyAddressUpdate(tx, chain.AddressID, upd.Address); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, classify(err, apperr.ChainExists())
	}
	return GetHotelChain(db, accountID)
}
