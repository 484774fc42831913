package server

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/goliatone/go-contactform/pkg/contact"
	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/orchestrator"
	"github.com/goliatone/go-contactform/pkg/render"
)

const localSession = "session"

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) openAPI(c *fiber.Ctx) error {
	c.Type("json")
	return c.Send(s.schema)
}

// session resolves the caller's session and refreshes the cookie when a new
// one was issued.
func (s *Server) session(c *fiber.Ctx) (*Session, error) {
	sess, created, err := s.sessions.Get(c.Cookies(SessionCookie))
	if err != nil {
		return nil, err
	}
	if created {
		c.Cookie(&fiber.Cookie{
			Name:     SessionCookie,
			Value:    sess.ID,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		s.logger.Debug("session created", zap.String("session", sess.ID))
	}
	c.Locals(localSession, sess.ID)
	return sess, nil
}

func (s *Server) renderPage(c *fiber.Ctx, snapshot contact.Snapshot, revision uint64) error {
	out, err := s.orch.Generate(c.UserContext(), orchestrator.Request{
		Renderer: "vanilla",
		Snapshot: snapshot,
		RenderOptions: render.RenderOptions{
			Standalone:     true,
			Action:         "/submit",
			ChangeEndpoint: changeEndpoint,
			Revision:       revision,
		},
	})
	if err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Send(out)
}

func (s *Server) page(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	var snapshot contact.Snapshot
	revision, _ := sess.Render(func(ctrl *contact.Controller) error {
		snapshot = ctrl.Snapshot()
		return nil
	})
	return s.renderPage(c, snapshot, revision)
}

func (s *Server) changeField(c *fiber.Ctx) error {
	field, ok := model.ParseFieldName(c.Params("field"))
	if !ok || !s.form.Has(field) {
		return fiber.NewError(fiber.StatusNotFound, "unknown field")
	}
	revision, err := parseCounter(c.FormValue("revision"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid revision")
	}
	seq, err := parseCounter(c.FormValue("seq"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid seq")
	}
	sess, err := s.session(c)
	if err != nil {
		return err
	}

	var snapshot contact.Snapshot
	applied, err := sess.Change(field, revision, seq, func(ctrl *contact.Controller) error {
		if err := ctrl.OnFieldChange(field, c.FormValue("value")); err != nil {
			return err
		}
		snapshot = ctrl.Snapshot()
		return nil
	})
	if err != nil {
		return err
	}
	if !applied {
		s.logger.Debug("stale change dropped",
			zap.String("session", sess.ID),
			zap.String("field", string(field)),
			zap.Uint64("revision", revision),
			zap.Uint64("seq", seq),
		)
		return c.SendStatus(fiber.StatusConflict)
	}
	s.logger.Debug("field changed",
		zap.String("session", sess.ID),
		zap.String("field", string(field)),
		zap.Bool("valid", snapshot.Errors[field] == ""),
	)

	out, err := s.fragments.RenderFieldErrors(c.UserContext(), s.form, snapshot, field)
	if err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Send(out)
}

func (s *Server) submit(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}

	var (
		snapshot contact.Snapshot
		accepted bool
	)
	revision, err := sess.Render(func(ctrl *contact.Controller) error {
		for _, name := range s.form.FieldNames() {
			if err := ctrl.OnFieldChange(name, c.FormValue(string(name))); err != nil {
				return err
			}
		}
		accepted = ctrl.OnSubmit()
		snapshot = ctrl.Snapshot()
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Debug("form submitted",
		zap.String("session", sess.ID),
		zap.Bool("accepted", accepted),
		zap.Int("errors", snapshot.Errors.Count()),
	)
	return s.renderPage(c, snapshot, revision)
}

func (s *Server) reset(c *fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return err
	}
	_ = sess.Do(func(ctrl *contact.Controller) error {
		ctrl.Reset()
		return nil
	})
	s.logger.Debug("form reset", zap.String("session", sess.ID))
	return c.Redirect("/", fiber.StatusSeeOther)
}

// submitJSON validates and submits a JSON body on a throwaway controller.
func (s *Server) submitJSON(c *fiber.Ctx) error {
	var values contact.Values
	if err := c.BodyParser(&values); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	ctrl, err := s.newController()
	if err != nil {
		return err
	}
	for _, name := range s.form.FieldNames() {
		if err := ctrl.OnFieldChange(name, values.Get(name)); err != nil {
			return err
		}
	}
	if !ctrl.OnSubmit() {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"errors": ctrl.Errors(),
		})
	}
	submitted, _ := ctrl.Submitted()
	return c.JSON(submitted)
}

// parseCounter reads an optional non-negative counter; empty means zero.
func parseCounter(raw string) (uint64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseUint(raw, 10, 64)
}
