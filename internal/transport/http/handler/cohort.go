package handler

import (
	"log/slog"
	"net/http"

	"github.com/Samuel-soita/project-tracker-backend/internal/transport/http/middleware"
	"github.com/Samuel-soita/project-tracker-backend/internal/usecase"
	"github.com/gin-gonic/gin"
)

type CohortHandler struct {
	cohortUsecase *usecase.CohortUsecase
	logger        *slog.Logger
}

func NewCohortHandler(cohortUsecase *usecase.CohortUsecase, logger *slog.Logger) *CohortHandler {
	return &CohortHandler{cohortUsecase: cohortUsecase, logger: logger.With("component", "cohort_handler")}
}

type cohortRequest struct {
	Name        *string `json:"name"        binding:"omitempty,max=120"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
}

func (r cohortRequest) input() (usecase.CohortInput, error) {
	start, err := parseDate("start_date", r.StartDate)
	if err != nil {
		return usecase.CohortInput{}, err
	}
	end, err := parseDate("end_date", r.EndDate)
	if err != nil {
		return usecase.CohortInput{}, err
	}
	return usecase.CohortInput{Name: r.Name, Description: r.Description, StartDate: start, EndDate: end}, nil
}

// POST /cohorts (Admin)
func (h *CohortHandler) Create(c *gin.Context) {
	var req cohortRequest
	if !bindJSON(c, &req) {
		return
	}
	in, err := req.input()
	if err != nil {
		respondError(c, h.logger, "create cohort", err)
		return
	}

	cohort, err := h.cohortUsecase.Create(c.Request.Context(), middleware.Actor(c), in)
	if err != nil {
		respondError(c, h.logger, "create cohort", err)
		return
	}
	c.JSON(http.StatusCreated, toCohort(cohort))
}

// GET /cohorts
func (h *CohortHandler) List(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}

	res, err := h.cohortUsecase.List(c.Request.Context(), page)
	if err != nil {
		respondError(c, h.logger, "list cohorts", err)
		return
	}
	c.JSON(http.StatusOK, toPage(res, toCohort))
}

// GET /cohorts/:id
func (h *CohortHandler) GetByID(c *gin.Context) {
	cohort, err := h.cohortUsecase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "get cohort", err)
		return
	}
	c.JSON(http.StatusOK, toCohort(cohort))
}

// PUT /cohorts/:id (Admin)
func (h *CohortHandler) Update(c *gin.Context) {
	var req cohortRequest
	if !bindJSON(c, &req) {
		return
	}
	in, err := req.input()
	if err != nil {
		respondError(c, h.logger, "update cohort", err)
		return
	}

	cohort, err := h.cohortUsecase.Update(c.Request.Context(), middleware.Actor(c), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, "update cohort", err)
		return
	}
	c.JSON(http.StatusOK, toCohort(cohort))
}

// DELETE /cohorts/:id (Admin)
func (h *CohortHandler) Delete(c *gin.Context) {
	if err := h.cohortUsecase.Delete(c.Request.Context(), middleware.Actor(c), c.Param("id")); err != nil {
		respondError(c, h.logger, "delete cohort", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cohort deleted successfully"})
}

// POST /cohorts/:id/join (Student)
func (h *CohortHandler) Join(c *gin.Context) {
	cohort, err := h.cohortUsecase.Join(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "join cohort", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Joined cohort " + cohort.Name, "cohort": toCohort(cohort)})
}
