package account

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

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

func sampleClient(email, nas string) NewClient {
	return NewClient{
		Email:     email,
		NAS:       nas,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Password:  "pw123456",
		Address: model.Address{
			StreetName:   "Main",
			StreetNumber: 1,
			City:         "Ottawa",
			Province:     "ON",
			Zip:          "K1A 0A1",
		},
	}
}

func createHotel(t *testing.T, db *gorm.DB) model.Hotel {
	t.Helper()
	addr := model.Address{City: "Ottawa"}
	require.NoError(t, db.Create(&addr).Error)
	chainAddr := model.Address{City: "Ottawa"}
	require.NoError(t, db.Create(&chainAddr).Error)
	acct := model.Account{Email: "chain@acme.test", Password: "x", Role: model.RoleHotelChain}
	require.NoError(t, db.Create(&acct).Error)
	chain := model.HotelChain{AccountID: acct.ID, Name: "Acme", Phone: "555-0100", AddressID: chainAddr.ID}
	require.NoError(t, db.Create(&chain).Error)
	hotel := model.Hotel{HotelChainID: chain.ID, Rating: 4, Email: "hotel@acme.test", Phone: "555-0101", AddressID: addr.ID}
	require.NoError(t, db.Create(&hotel).Error)
	return hotel
}

func TestCreateClientAndAuthenticate(t *testing.T) {
	db := newTestDB(t)

	client, err := CreateClient(db, sampleClient("Ada@Example.com", "123456789"))
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", client.Email)
	assert.NotZero(t, client.AccountID)
	require.NotNil(t, client.Address)
	assert.Equal(t, "Ottawa", client.Address.City)

	acct, err := Authenticate(db, "ada@example.com", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, model.RoleClient, acct.Role)
	assert.Equal(t, client.AccountID, acct.ID)

	// Stored password must be a hash, never the plaintext.
	assert.NotEqual(t, "pw123456", acct.Password)
}

func TestCreateClientDuplicateEmail(t *testing.T) {
	db := newTestDB(t)

	_, err := CreateClient(db, sampleClient("ada@example.com", "111111111"))
	require.NoError(t, err)

	_, err = CreateClient(db, sampleClient("ada@example.com", "222222222"))
	assert.Equal(t, apperr.CodeUserExists, errCode(t, err))

	var count int64
	require.NoError(t, db.Model(&model.Client{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateClientDuplicateNASRollsBack(t *testing.T) {
	db := newTestDB(t)

	_, err := CreateClient(db, sampleClient("ada@example.com", "111111111"))
	require.NoError(t, err)

	_, err = CreateClient(db, sampleClient("grace@example.com", "111111111"))
	assert.Equal(t, apperr.CodeUserExists, errCode(t, err))

	// The account created before the client insert failed must be gone.
	var count int64
	require.NoError(t, db.Model(&model.Account{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAuthenticateFailures(t *testing.T) {
	db := newTestDB(t)

	_, err := CreateClient(db, sampleClient("ada@example.com", "111111111"))
	require.NoError(t, err)

	_, err = Authenticate(db, "", "pw123456")
	assert.Equal(t, apperr.CodeMissingCredentials, errCode(t, err))

	_, err = Authenticate(db, "ada@example.com", "")
	assert.Equal(t, apperr.CodeMissingCredentials, errCode(t, err))

	_, err = Authenticate(db, "nobody@example.com", "pw123456")
	assert.Equal(t, apperr.CodeInvalidCredentials, errCode(t, err))

	_, err = Authenticate(db, "ada@example.com", "wrong")
	assert.Equal(t, apperr.CodeInvalidCredentials, errCode(t, err))
}

func TestCreateEmployee(t *testing.T) {
	db := newTestDB(t)
	hotel := createHotel(t, db)

	employee, err := CreateEmployee(db, NewEmployee{
		Email:     "bob@acme.test",
		NAS:       "333333333",
		FirstName: "Bob",
		LastName:  "Jones",
		Password:  "pw123456",
		HotelID:   hotel.ID,
		Roles:     []string{"reception", model.EmployeeRoleManager},
		Address:   model.Address{City: "Ottawa"},
	})
	require.NoError(t, err)
	assert.Equal(t, hotel.ID, employee.HotelID)
	assert.True(t, employee.IsManager())

	fetched, err := GetEmployee(db, employee.AccountID)
	require.NoError(t, err)
	assert.Equal(t, "bob@acme.test", fetched.Email)
	assert.ElementsMatch(t, []string{"reception", "manager"}, fetched.Roles)
}

func TestCreateEmployeeUnknownHotel(t *testing.T) {
	db := newTestDB(t)

	_, err := CreateEmployee(db, NewEmployee{
		Email:    "bob@acme.test",
		NAS:      "333333333",
		Password: "pw123456",
		HotelID:  99,
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&model.Account{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateClientPartial(t *testing.T) {
	db := newTestDB(t)

	client, err := CreateClient(db, sampleClient("ada@example.com", "111111111"))
	require.NoError(t, err)

	newName := "Augusta"
	newCity := "Toronto"
	updated, err := UpdateClient(db, client.AccountID, ClientUpdate{
		FirstName: &newName,
		Address:   &AddressUpdate{City: &newCity},
	})
	require.NoError(t, err)

	assert.Equal(t, "Augusta", updated.FirstName)
	assert.Equal(t, "Lovelace", updated.LastName)
	assert.Equal(t, "111111111", updated.NAS)
	require.NotNil(t, updated.Address)
	assert.Equal(t, "Toronto", updated.Address.City)
	assert.Equal(t, "Main", updated.Address.StreetName)
}

func TestUpdateEmployeeCannotChangeOwnRoles(t *testing.T) {
	db := newTestDB(t)
	hotel := createHotel(t, db)

	employee, err := CreateEmployee(db, NewEmployee{
		Email:    "eve@acme.test",
		NAS:      "444444444",
		Password: "pw123456",
		HotelID:  hotel.ID,
		Roles:    []string{"reception"},
	})
	require.NoError(t, err)
	require.False(t, employee.IsManager())

	// A roles key in the profile-update payload is not a recognized field
	// and must not touch the stored roles.
	var upd EmployeeUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"first_name":"Evelyn","roles":["manager"]}`), &upd))

	updated, err := UpdateEmployee(db, employee.AccountID, upd)
	require.NoError(t, err)
	assert.Equal(t, "Evelyn", updated.FirstName)
	assert.Equal(t, model.StringList{"reception"}, updated.Roles)
	assert.False(t, updated.IsManager())
}

func TestUpdateClientPassword(t *testing.T) {
	db := newTestDB(t)

	client, err := CreateClient(db, sampleClient("ada@example.com", "111111111"))
	require.NoError(t, err)

	newPassword := "changed-pw"
	_, err = UpdateClient(db, client.AccountID, ClientUpdate{Password: &newPassword})
	require.NoError(t, err)

	_, err = Authenticate(db, "ada@example.com", "pw123456")
	assert.Equal(t, apperr.CodeInvalidCredentials, errCode(t, err))

	_, err = Authenticate(db, "ada@example.com", "changed-pw")
	assert.NoError(t, err)
}

func TestDeleteAccountFreesIdentity(t *testing.T) {
	db := newTestDB(t)

	client, err := CreateClient(db, sampleClient("ada@example.com", "111111111"))
	require.NoError(t, err)

	require.NoError(t, DeleteAccount(db, client.AccountID))

	var counts [3]int64
	require.NoError(t, db.Model(&model.Account{}).Count(&counts[0]).Error)
	require.NoError(t, db.Model(&model.Client{}).Count(&counts[1]).Error)
	require.NoError(t, db.Model(&model.Address{}).Count(&counts[2]).Error)
	assert.Zero(t, counts[0])
	assert.Zero(t, counts[1])
	assert.Zero(t, counts[2])

	// The email and NAS can be reused after deletion.
	_, err = CreateClient(db, sampleClient("ada@example.com", "111111111"))
	assert.NoError(t, err)
}

func TestClientByEmail(t *testing.T) {
	db := newTestDB(t)

	created, err := CreateClient(db, sampleClient("ada@example.com", "111111111"))
	require.NoError(t, err)

	client, err := ClientByEmail(db, "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.AccountID, client.AccountID)

	_, err = ClientByEmail(db, "nobody@example.com")
	assert.Equal(t, apperr.CodeInvalidCredentials, errCode(t, err))

	email, err := ClientEmail(db, created.AccountID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", email)
}

func TestSeedHotelChain(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, SeedHotelChain(db, "Acme", "Chain@Acme.test", "555-0100", "pw123456"))

	acct, err := Authenticate(db, "chain@acme.test", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, model.RoleHotelChain, acct.Role)

	chain, err := GetHotelChain(db, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", chain.Name)

	// Seeding again is a no-op, not a duplicate.
	require.NoError(t, SeedHotelChain(db, "Acme", "chain@acme.test", "555-0100", "pw123456"))

	var count int64
	require.NoError(t, db.Model(&model.HotelChain{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
