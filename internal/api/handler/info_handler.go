package handler

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
)

// InfoHandler serves the public landing and route listing.
type InfoHandler struct {
	service string
	env     string
}

func NewInfoHandler(service, env string) *InfoHandler {
	return &InfoHandler{service: service, env: env}
}

type infoResponse struct {
	Service string `json:"service"`
	Env     string `json:"env"`
	Docs    string `json:"docs"`
	Login   string `json:"login"`
}

type routeResponse struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

// Index handles GET /.
func (h *InfoHandler) Index(c echo.Context) error {
	return c.JSON(http.StatusOK, infoResponse{
		Service: h.service,
		Env:     h.env,
		Docs:    "/docs",
		Login:   "/auth/login",
	})
}

// Docs handles GET /docs with every registered route.
func (h *InfoHandler) Docs(c echo.Context) error {
	routes := c.Echo().Routes()
	out := make([]routeResponse, 0, len(routes))
	for _, r := range routes {
		out = append(out, routeResponse{Method: r.Method, Path: r.Path})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return c.JSON(http.StatusOK, map[string]any{"routes": out})
}
