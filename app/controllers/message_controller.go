package controllers

import (
	"net/http"

	"github.com/agrovia/agrovia/app/services"
	"github.com/agrovia/agrovia/pkg/bind"
	"github.com/agrovia/agrovia/pkg/logger"
	"github.com/agrovia/agrovia/pkg/response"
)

type MessageController struct {
	svc *services.InboxService
}

func NewMessageController(svc *services.InboxService) *MessageController {
	return &MessageController{svc: svc}
}

// Store handles the public contact form.
func (c *MessageController) Store(w http.ResponseWriter, r *http.Request) {
	var in services.MessageInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	msg, errs, err := c.svc.Submit(in)
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}
	if err != nil {
		logger.Error("message: submit", "error", err)
		response.Error(w, http.StatusInternalServerError, "Could not store message")
		return
	}
	response.Created(w, msg)
}

func (c *MessageController) Index(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	messages, p, err := c.svc.List(page, limit)
	if err != nil {
		logger.Error("message: list", "error", err)
		response.Error(w, http.StatusInternalServerError, "Could not list messages")
		return
	}
	response.Paginated(w, messages, p)
}

// Show opens a thread; first open marks it read.
func (c *MessageController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.NotFound(w)
		return
	}
	msg, err := c.svc.Get(id)
	if err != nil {
		notFoundOr500(w, err, "message: show")
		return
	}
	response.Success(w, msg)
}

// Reply posts a staff reply onto the thread.
func (c *MessageController) Reply(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var in services.ReplyInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	reply, errs, err := c.svc.Reply(id, in)
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}
	if err != nil {
		notFoundOr500(w, err, "message: reply")
		return
	}
	response.Created(w, reply)
}

func (c *MessageController) Destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.NotFound(w)
		return
	}
	if err := c.svc.Delete(id); err != nil {
		notFoundOr500(w, err, "message: delete")
		return
	}
	response.Success(w, map[string]uint{"deleted": id})
}
