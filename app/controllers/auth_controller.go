package controllers

import (
	"errors"
	"net/http"

	"github.com/agrovia/agrovia/app/services"
	"github.com/agrovia/agrovia/pkg/bind"
	"github.com/agrovia/agrovia/pkg/logger"
	"github.com/agrovia/agrovia/pkg/response"
)

type AuthController struct {
	svc *services.AuthService
}

func NewAuthController(svc *services.AuthService) *AuthController {
	return &AuthController{svc: svc}
}

// Login exchanges dashboard credentials for a JWT.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	token, user, errs, err := c.svc.Login(in)
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			response.Unauthorized(w)
			return
		}
		logger.Error("auth: login", "error", err)
		response.Error(w, http.StatusInternalServerError, "Login failed")
		return
	}

	response.Success(w, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}
