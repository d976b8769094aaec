package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/kvfinder/kvfinder-web/internal/model"
	"github.com/kvfinder/kvfinder-web/internal/service"
	"github.com/kvfinder/kvfinder-web/pkg/response"
)

type JobHandler struct {
	jobs      *service.JobService
	validator *validator.Validate
}

func NewJobHandler(jobs *service.JobService, v *validator.Validate) *JobHandler {
	return &JobHandler{
		jobs:      jobs,
		validator: v,
	}
}

// Root handles GET /
func (h *JobHandler) Root(c *fiber.Ctx) error {
	return c.SendString("KVFinder Web")
}

// Ask handles GET /:tag
func (h *JobHandler) Ask(c *fiber.Ctx) error {
	tag := c.Params("tag")

	job, err := h.jobs.GetJob(c.Context(), tag)
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			return response.NotFound(c)
		}
		return response.ServiceError(c, err)
	}

	return response.OK(c, job)
}

// Create handles POST /create
func (h *JobHandler) Create(c *fiber.Ctx) error {
	in, err := model.DecodeInput(c.Body())
	if err != nil {
		return response.BadRequest(c, "invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(in); err != nil {
		return response.BadRequest(c, err.Error())
	}
	if err := service.Validate(in); err != nil {
		return response.BadRequest(c, err.Error())
	}

	result, err := h.jobs.Create(c.Context(), in)
	if err != nil {
		return response.ServiceError(c, err)
	}

	// Dedup hit: the tag is already in the queue, return that job.
	if result.Existing != nil {
		return response.OK(c, result.Existing)
	}

	return response.OK(c, fiber.Map{"id": result.Tag})
}
