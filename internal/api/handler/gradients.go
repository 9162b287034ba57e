package handler

import (
	"net/http"

	"github.com/maraichr/gradient/internal/gradient"
)

type gradientsResponse struct {
	Success   bool                `json:"success"`
	Gradients []gradient.Gradient `json:"gradients"`
	Count     int                 `json:"count"`
}

type GradientHandler struct{}

func NewGradientHandler() *GradientHandler {
	return &GradientHandler{}
}

// List returns the full palette.
func (h *GradientHandler) List(w http.ResponseWriter, r *http.Request) {
	all := gradient.All()
	writeJSON(w, http.StatusOK, gradientsResponse{Success: true, Gradients: all, Count: len(all)})
}

// Heroes returns the subset used on the landing page.
func (h *GradientHandler) Heroes(w http.ResponseWriter, r *http.Request) {
	heroes := gradient.Heroes()
	writeJSON(w, http.StatusOK, gradientsResponse{Success: true, Gradients: heroes, Count: len(heroes)})
}
