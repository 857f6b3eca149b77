package controllers

import (
	"errors"
	"net/http"

	"github.com/agrovia/agrovia/app/services"
	"github.com/agrovia/agrovia/pkg/bind"
	"github.com/agrovia/agrovia/pkg/logger"
	"github.com/agrovia/agrovia/pkg/response"
)

type SettingController struct {
	svc *services.SettingService
}

func NewSettingController(svc *services.SettingService) *SettingController {
	return &SettingController{svc: svc}
}

func (c *SettingController) Index(w http.ResponseWriter, r *http.Request) {
	settings, err := c.svc.All()
	if err != nil {
		logger.Error("setting: list", "error", err)
		response.Error(w, http.StatusInternalServerError, "Could not load settings")
		return
	}
	response.Success(w, settings)
}

type settingsInput struct {
	Settings map[string]string `json:"settings" validate:"required"`
}

// Update upserts the posted key/value pairs.
func (c *SettingController) Update(w http.ResponseWriter, r *http.Request) {
	var in settingsInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := c.svc.Update(in.Settings); err != nil {
		if errors.Is(err, services.ErrEmptySettingKey) {
			response.Error(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		logger.Error("setting: update", "error", err)
		response.Error(w, http.StatusInternalServerError, "Could not save settings")
		return
	}

	settings, err := c.svc.All()
	if err != nil {
		logger.Error("setting: reload", "error", err)
		response.Error(w, http.StatusInternalServerError, "Could not load settings")
		return
	}
	response.Success(w, settings)
}
