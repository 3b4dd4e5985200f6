package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"transitdocs/internal/http/middleware"
	"transitdocs/internal/model"
	"transitdocs/internal/repository"
	"transitdocs/internal/service"
)

// UploadDocument accepts a multipart form (field name: file) plus the document
// metadata fields and creates a pending document.
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		in := service.UploadInput{
			File:        f,
			FileName:    fh.Filename,
			ContentType: ct,
			Size:        fh.Size,
			Title:       c.FormValue("title"),
			Category:    c.FormValue("category"),
			Description: c.FormValue("description"),
			Priority:    model.Priority(c.FormValue("priority")),
			AssigneeIDs: formAssignees(c),
		}

		if d := c.FormValue("deadline"); d != "" {
			deadline, err := parseDeadline(d)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_DEADLINE", "deadline must be YYYY-MM-DD or RFC 3339")
			}
			in.Deadline = &deadline
		}

		doc, err := svc.Upload(c.UserContext(), in, middleware.ActorFromCtx(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// formAssignees collects employee IDs from repeated "assignees" form fields,
// splitting comma-separated values.
func formAssignees(c *fiber.Ctx) []string {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}

	var ids []string
	for _, v := range form.Value["assignees"] {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

func parseDeadline(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// ListDocuments is the admin console list with status/category filters and
// limit/offset paging.
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		f := repository.DocumentFilter{
			Status:   model.Status(c.Query("status")),
			Category: c.Query("category"),
			Page:     repository.PageQuery{Limit: limit, Offset: offset},
		}

		res, err := svc.List(c.UserContext(), f, middleware.ActorFromCtx(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// PendingDocuments is the admin review queue, optionally narrowed by ?q=.
func PendingDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs, err := svc.PendingReview(c.UserContext(), c.Query("q"), middleware.ActorFromCtx(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": docs})
	}
}

// GetDocument returns one document with a presigned download URL.
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := svc.Get(c.UserContext(), id, middleware.ActorFromCtx(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

type transitionRequest struct {
	Status string `json:"status"`
}

// TransitionDocument moves a pending document to approved or rejected.
func TransitionDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var req transitionRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}

		doc, err := svc.Transition(c.UserContext(), id, model.Status(req.Status), middleware.ActorFromCtx(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

type assigneesRequest struct {
	EmployeeIDs []string `json:"employee_ids"`
}

// PutAssignees replaces the full assignment set for a document.
func PutAssignees(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var req assigneesRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}

		n, err := svc.SetAssignees(c.UserContext(), id, req.EmployeeIDs, middleware.ActorFromCtx(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"assigned": n})
	}
}

// GetAssignees lists the employee IDs assigned to a document.
func GetAssignees(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		ids, err := svc.ListAssignees(c.UserContext(), id, middleware.ActorFromCtx(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"employee_ids": ids})
	}
}

// MyDocuments lists the approved documents assigned to the signed-in employee.
func MyDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs, err := svc.EmployeeDocuments(c.UserContext(), middleware.ActorFromCtx(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": docs})
	}
}

// ListEmployees returns employee profiles for the assignment picker.
func ListEmployees(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		profiles, err := svc.ListEmployees(c.UserContext(), middleware.ActorFromCtx(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": profiles})
	}
}

// DocumentStats returns role-scoped dashboard counters.
func DocumentStats(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := svc.Stats(c.UserContext(), middleware.ActorFromCtx(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(stats)
	}
}
