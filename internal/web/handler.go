package web

import (
	"log/slog"
	"net/http"
	"strings"

	"snsbuilder/internal/domain"
	"snsbuilder/internal/shell"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	generator shell.StrategyGenerator
	markdown  *MarkdownRenderer
	log       *slog.Logger
}

func NewHandler(generator shell.StrategyGenerator, log *slog.Logger) *Handler {
	return &Handler{
		generator: generator,
		markdown:  NewMarkdownRenderer(),
		log:       log,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// Index renders the idle page.
// (GET /)
func (h *Handler) Index(c echo.Context) error {
	return c.Render(http.StatusOK, pageTemplate, pageData{Features: features})
}

// Submit runs the form submission and renders the page with the outcome.
// (POST /)
func (h *Handler) Submit(c echo.Context) error {
	topic := c.FormValue("topic")
	data := pageData{Topic: topic, Features: features}

	session := shell.NewSession(h.generator, h.log)

	submitted, err := session.Submit(c.Request().Context(), topic)
	if err != nil {
		return err
	}
	if !submitted {
		return c.Render(http.StatusOK, pageTemplate, data)
	}

	state := session.Snapshot()
	if state.Error != "" || state.Result == nil {
		data.Error = state.Error
		return c.Render(http.StatusOK, pageTemplate, data)
	}

	view, err := h.resultView(*state.Result)
	if err != nil {
		h.log.ErrorContext(c.Request().Context(), "Failed to render strategy",
			"error", err)

		data.Error = shell.ErrorMessage
		return c.Render(http.StatusOK, pageTemplate, data)
	}
	data.Result = view

	return c.Render(http.StatusOK, pageTemplate, data)
}

// Strategy generates a strategy for a JSON request.
// (POST /api/strategy)
func (h *Handler) Strategy(c echo.Context) error {
	var req domain.StrategyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}

	if strings.TrimSpace(req.Topic) == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "topic is required"})
	}

	// Every request runs its own session, so requests never see each other busy.
	session := shell.NewSession(h.generator, h.log)

	if _, err := session.Submit(c.Request().Context(), req.Topic); err != nil {
		return err
	}

	state := session.Snapshot()
	if state.Error != "" || state.Result == nil {
		return c.JSON(http.StatusBadGateway, errorResponse{Error: shell.ErrorMessage})
	}

	return c.JSON(http.StatusOK, state.Result)
}

// Health reports liveness.
// (GET /healthz)
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) resultView(result domain.StrategyResult) (*resultView, error) {
	html, err := h.markdown.Render(result.Text)
	if err != nil {
		return nil, err
	}

	return &resultView{
		HTML:    html,
		Raw:     result.Text,
		Sources: result.Sources,
		Queries: result.SearchQueries,
	}, nil
}
