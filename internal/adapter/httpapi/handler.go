package httpapi

import (
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	"news-agent/internal/domain"
	"news-agent/internal/usecase"
)

type Handler struct {
	searchUsecase    usecase.SearchNewsUsecase
	headlinesUsecase usecase.HeadlinesUsecase
	chatUsecase      usecase.ChatUsecase
	pool             *pgxpool.Pool
}

func NewHandler(
	searchUsecase usecase.SearchNewsUsecase,
	headlinesUsecase usecase.HeadlinesUsecase,
	chatUsecase usecase.ChatUsecase,
	pool *pgxpool.Pool,
) *Handler {
	return &Handler{
		searchUsecase:    searchUsecase,
		headlinesUsecase: headlinesUsecase,
		chatUsecase:      chatUsecase,
		pool:             pool,
	}
}

// Register mounts all routes on the given echo instance.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)
	e.GET("/readyz", h.Readyz)

	v1 := e.Group("/v1")
	v1.POST("/news/search", h.SearchNews)
	v1.GET("/news/headlines", h.Headlines)
	v1.POST("/chat", h.Chat)
}

// NewsSearchRequest is the body of POST /v1/news/search.
type NewsSearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// NewsSearchResponse lists the articles matching a search.
type NewsSearchResponse struct {
	Results []domain.Article `json:"results"`
}

// HeadlinesResponse is the body of GET /v1/news/headlines.
type HeadlinesResponse struct {
	Country   string           `json:"country"`
	Category  string           `json:"category,omitempty"`
	Headlines []domain.Article `json:"headlines"`
}

// UserMessage is one chat turn from the client, which holds the conversation
// state itself.
type UserMessage struct {
	Type                string   `json:"type"`
	Content             string   `json:"content"`
	ChatHistory         []string `json:"chat_history"`
	SelectedNewsArticle string   `json:"selected_news_article"`
}

// BotResponse is the generated reply for one chat turn.
type BotResponse struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// ErrorMessage is the error body shared by all endpoints.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func errorJSON(c echo.Context, status int, message string) error {
	return c.JSON(status, ErrorMessage{Type: "error", Message: message})
}

func (h *Handler) SearchNews(c echo.Context) error {
	var req NewsSearchRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Query == "" {
		return errorJSON(c, http.StatusBadRequest, "query is required")
	}
	if req.Limit <= 0 {
		req.Limit = 10
	}

	articles, err := h.searchUsecase.Execute(c.Request().Context(), req.Query, req.Limit)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}
	if articles == nil {
		articles = []domain.Article{}
	}

	return c.JSON(http.StatusOK, NewsSearchResponse{Results: articles})
}

func (h *Handler) Headlines(c echo.Context) error {
	country := c.QueryParam("country")
	if country == "" {
		country = "us"
	}
	category := c.QueryParam("category")

	headlines, err := h.headlinesUsecase.Execute(c.Request().Context(), country, category)
	if err != nil {
		return errorJSON(c, http.StatusBadGateway, err.Error())
	}
	if headlines == nil {
		headlines = []domain.Article{}
	}

	return c.JSON(http.StatusOK, HeadlinesResponse{
		Country:   country,
		Category:  category,
		Headlines: headlines,
	})
}

func (h *Handler) Chat(c echo.Context) error {
	var msg UserMessage
	if err := c.Bind(&msg); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(msg.Content) == "" {
		return errorJSON(c, http.StatusBadRequest, "content is required")
	}

	output, err := h.chatUsecase.Execute(c.Request().Context(), usecase.ChatInput{
		Content:         msg.Content,
		ChatHistory:     msg.ChatHistory,
		SelectedArticle: msg.SelectedNewsArticle,
	})
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, BotResponse{Type: "bot_response", Content: output.Reply})
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Readyz(c echo.Context) error {
	if h.pool != nil {
		if err := h.pool.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  err.Error(),
			})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
