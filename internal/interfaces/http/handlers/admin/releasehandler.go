package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	releaseUsecases "github.com/orris-inc/licenser/internal/application/release/usecases"
	"github.com/orris-inc/licenser/internal/shared/constants"
	"github.com/orris-inc/licenser/internal/shared/logger"
	"github.com/orris-inc/licenser/internal/shared/utils"
)

// ReleaseHandler handles admin release operations
type ReleaseHandler struct {
	createUC  createReleaseUseCase
	listUC    listReleasesUseCase
	publishUC releaseTransitionUseCase
	archiveUC releaseTransitionUseCase
	logger    logger.Interface
}

func NewReleaseHandler(
	createUC *releaseUsecases.CreateReleaseUseCase,
	listUC *releaseUsecases.ListReleasesUseCase,
	publishUC *releaseUsecases.PublishReleaseUseCase,
	archiveUC *releaseUsecases.ArchiveReleaseUseCase,
	logger logger.Interface,
) *ReleaseHandler {
	return &ReleaseHandler{
		createUC:  createUC,
		listUC:    listUC,
		publishUC: publishUC,
		archiveUC: archiveUC,
		logger:    logger,
	}
}

func (h *ReleaseHandler) CreateRelease(c *gin.Context) {
	productID, err := utils.ParseUintParam(c, "id", "product")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req CreateReleaseRequest
	if err := bindJSON(c, &req); err != nil {
		h.logger.Warnw("invalid request body for create release", "error", err, "product_id", productID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.createUC.Execute(c.Request.Context(), releaseUsecases.CreateReleaseCommand{
		ProductID: productID,
		Version:   req.Version,
		Download:  req.Download,
		Type:      req.Type,
		Changelog: req.Changelog,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("release created by admin",
		"admin", c.GetString(constants.ContextKeyAdminSubject),
		"product_id", productID,
		"version", result.Version,
	)
	utils.CreatedResponse(c, result, "release created")
}

func (h *ReleaseHandler) ListReleases(c *gin.Context) {
	productID, err := utils.ParseUintParam(c, "id", "product")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	p := utils.ParsePagination(c)
	result, err := h.listUC.Execute(c.Request.Context(), releaseUsecases.ListReleasesQuery{
		ProductID: productID,
		Status:    c.Query("status"),
		Type:      c.Query("type"),
		Page:      p.Page,
		PageSize:  p.PageSize,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Releases, result.Total, utils.Pagination{Page: result.Page, PageSize: result.PageSize})
}

func (h *ReleaseHandler) PublishRelease(c *gin.Context) {
	h.transition(c, h.publishUC, "release published")
}

func (h *ReleaseHandler) ArchiveRelease(c *gin.Context) {
	h.transition(c, h.archiveUC, "release archived")
}

func (h *ReleaseHandler) transition(c *gin.Context, uc releaseTransitionUseCase, message string) {
	releaseID, err := utils.ParseUintParam(c, "id", "release")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := uc.Execute(c.Request.Context(), releaseID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow(message,
		"admin", c.GetString(constants.ContextKeyAdminSubject),
		"release_id", releaseID,
		"status", result.Status,
	)
	utils.SuccessResponse(c, http.StatusOK, message, result)
}
