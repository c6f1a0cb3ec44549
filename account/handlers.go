package account

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"ehotels/apperr"
	"ehotels/auth"
	"ehotels/metrics"
	"ehotels/model"
	"ehotels/storage"
)

func SignIn(c fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return apperr.MissingCredentials()
	}

	acct, err := Authenticate(storage.DB, req.Email, req.Password)
	if err != nil {
		return err
	}

	token, err := auth.IssueToken(acct.ID)
	if err != nil {
		return apperr.Unknown(err)
	}

	metrics.IncSignIn(acct.Role)
	return c.Status(http.StatusOK).JSON(fiber.Map{"jwt": token})
}

func SignUp(c fiber.Ctx) error {
	var req NewClient
	if err := c.Bind().JSON(&req); err != nil {
		return apperr.MissingCredentials()
	}
	if req.Email == "" || req.Password == "" {
		return apperr.MissingCredentials()
	}

	client, err := CreateClient(storage.DB, req)
	if err != nil {
		return err
	}

	token, err := auth.IssueToken(client.AccountID)
	if err != nil {
		return apperr.Unknown(err)
	}

	metrics.IncSignUp()
	return c.Status(http.StatusOK).JSON(fiber.Map{"jwt": token})
}

// VerifyJWT resolves a raw token to {uid, type} for the UI's session
// bootstrap.
func VerifyJWT(c fiber.Ctx) error {
	var req struct {
		JWToken string `json:"jwToken"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return apperr.JWTUndefined()
	}

	uid, err := auth.VerifyToken(req.JWToken)
	if err != nil {
		return err
	}

	acct, err := GetAccount(storage.DB, uid)
	if err != nil {
		return err
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{"uid": acct.ID, "type": acct.Role})
}

func ClientProfile(c fiber.Ctx) error {
	client, err := GetClient(storage.DB, auth.AccountID(c))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(client)
}

func EmployeeProfile(c fiber.Ctx) error {
	employee, err := GetEmployee(storage.DB, auth.AccountID(c))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(employee)
}

func HotelChainProfile(c fiber.Ctx) error {
	chain, err := GetHotelChain(storage.DB, auth.AccountID(c))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(chain)
}

func UpdateClientHandler(c fiber.Ctx) error {
	var upd ClientUpdate
	if err := c.Bind().JSON(&upd); err != nil {
		return apperr.Unknown(err)
	}
	client, err := UpdateClient(storage.DB, auth.AccountID(c), upd)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(client)
}

func UpdateEmployeeHandler(c fiber.Ctx) error {
	var upd EmployeeUpdate
	if err := c.Bind().JSON(&upd); err != nil {
		return apperr.Unknown(err)
	}
	employee, err := UpdateEmployee(storage.DB, auth.AccountID(c), upd)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(employee)
}

func UpdateHotelChainHandler(c fiber.Ctx) error {
	var upd HotelChainUpdate
	if err := c.Bind().JSON(&upd); err != nil {
		return apperr.Unknown(err)
	}
	chain, err := UpdateHotelChain(storage.DB, auth.AccountID(c), upd)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(chain)
}

// DeleteSelf removes the caller's own principal and address.
func DeleteSelf(c fiber.Ctx) error {
	if err := DeleteAccount(storage.DB, auth.AccountID(c)); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// CreateEmployeeHandler creates an employee for a hotel. Hotel chains may
// hire into any of their hotels, managers only into their own.
func CreateEmployeeHandler(c fiber.Ctx) error {
	var req NewEmployee
	if err := c.Bind().JSON(&req); err != nil {
		return apperr.Unknown(err)
	}

	if err := authorizeHotelStaffing(c, req.HotelID); err != nil {
		return err
	}

	employee, err := CreateEmployee(storage.DB, req)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(employee)
}

// DeleteEmployeeHandler removes an employee principal, with the same scoping
// rules as hiring.
func DeleteEmployeeHandler(c fiber.Ctx) error {
	targetID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return apperr.New(apperr.CodeUnknown, http.StatusBadRequest, "invalid employee id")
	}

	target, err := GetEmployee(storage.DB, uint(targetID))
	if err != nil {
		return err
	}
	if err := authorizeHotelStaffing(c, target.HotelID); err != nil {
		return err
	}

	if err := DeleteAccount(storage.DB, target.AccountID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ClientEmailHandler lets an employee look up the email behind a client id.
func ClientEmailHandler(c fiber.Ctx) error {
	clientID, err := strconv.Atoi(c.Params("clientId"))
	if err != nil {
		return apperr.New(apperr.CodeUnknown, http.StatusBadRequest, "invalid client id")
	}

	email, err := ClientEmail(storage.DB, uint(clientID))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"email": email})
}

// authorizeHotelStaffing checks that the caller may manage staff of the
// given hotel: the owning chain, or a manager assigned to that hotel.
func authorizeHotelStaffing(c fiber.Ctx, hotelID uint) error {
	switch auth.Role(c) {
	case model.RoleHotelChain:
		chain, err := GetHotelChain(storage.DB, auth.AccountID(c))
		if err != nil {
			return err
		}
		var hotel model.Hotel
		if err := storage.DB.First(&hotel, hotelID).Error; err != nil {
			return apperr.New(apperr.CodeUnknown, http.StatusBadRequest, "hotel not found")
		}
		if hotel.HotelChainID != chain.ID {
			return apperr.Unauthorized()
		}
	case model.RoleEmployee:
		caller, err := GetEmployee(storage.DB, auth.AccountID(c))
		if err != nil {
			return err
		}
		if !caller.IsManager() || caller.HotelID != hotelID {
			return apperr.Unauthorized()
		}
	default:
		return apperr.Unauthorized()
	}
	return nil
}
