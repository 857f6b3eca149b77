package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agrovia/agrovia/app/services"
	"github.com/agrovia/agrovia/pkg/bind"
	"github.com/agrovia/agrovia/pkg/logger"
	"github.com/agrovia/agrovia/pkg/response"
)

type SubscriptionController struct {
	svc *services.SubscriptionService
}

func NewSubscriptionController(svc *services.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{svc: svc}
}

// Store handles the newsletter signup form.
func (c *SubscriptionController) Store(w http.ResponseWriter, r *http.Request) {
	var in services.SubscriptionInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	sub, errs, err := c.svc.Subscribe(in, clientIP(r))
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}
	if err != nil {
		if errors.Is(err, services.ErrAlreadySubscribed) {
			// Treat repeats as success so the form never leaks who is on
			// the list.
			response.Success(w, map[string]string{"message": "Subscribed"})
			return
		}
		logger.Error("subscription: store", "error", err)
		response.Error(w, http.StatusInternalServerError, "Could not subscribe")
		return
	}
	response.Created(w, sub)
}

// Destroy handles the unsubscribe link from the newsletter footer.
func (c *SubscriptionController) Destroy(w http.ResponseWriter, r *http.Request) {
	if err := c.svc.Unsubscribe(chi.URLParam(r, "token")); err != nil {
		notFoundOr500(w, err, "subscription: unsubscribe")
		return
	}
	response.Success(w, map[string]string{"message": "Unsubscribed"})
}

// Index lists subscribers for the dashboard.
func (c *SubscriptionController) Index(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	subs, p, err := c.svc.List(page, limit)
	if err != nil {
		logger.Error("subscription: list", "error", err)
		response.Error(w, http.StatusInternalServerError, "Could not list subscriptions")
		return
	}
	response.Paginated(w, subs, p)
}
