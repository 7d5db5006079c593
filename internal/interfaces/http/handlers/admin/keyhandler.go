// Package admin provides HTTP handlers for administrative operations.
package admin

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	licensedto "github.com/orris-inc/licenser/internal/application/license/dto"
	licenseUsecases "github.com/orris-inc/licenser/internal/application/license/usecases"
	"github.com/orris-inc/licenser/internal/domain/license"
	"github.com/orris-inc/licenser/internal/shared/constants"
	"github.com/orris-inc/licenser/internal/shared/errors"
	"github.com/orris-inc/licenser/internal/shared/logger"
	"github.com/orris-inc/licenser/internal/shared/utils"
)

// KeyHandler handles admin license key and activation operations
type KeyHandler struct {
	createKeyUC       createKeyUseCase
	getKeyUC          getKeyUseCase
	updateKeyUC       updateKeyUseCase
	renewKeyUC        renewKeyUseCase
	listRenewalsUC    listRenewalsUseCase
	listActivationsUC listActivationsUseCase
	deactivateUC      deactivateActivationUseCase
	logger            logger.Interface
}

func NewKeyHandler(
	createKeyUC *licenseUsecases.CreateKeyUseCase,
	getKeyUC *licenseUsecases.GetKeyUseCase,
	updateKeyUC *licenseUsecases.UpdateKeyUseCase,
	renewKeyUC *licenseUsecases.RenewKeyUseCase,
	listRenewalsUC *licenseUsecases.ListRenewalsUseCase,
	listActivationsUC *licenseUsecases.ListActivationsUseCase,
	deactivateUC *licenseUsecases.DeactivateUseCase,
	logger logger.Interface,
) *KeyHandler {
	return &KeyHandler{
		createKeyUC:       createKeyUC,
		getKeyUC:          getKeyUC,
		updateKeyUC:       updateKeyUC,
		renewKeyUC:        renewKeyUC,
		listRenewalsUC:    listRenewalsUC,
		listActivationsUC: listActivationsUC,
		deactivateUC:      deactivateUC,
		logger:            logger,
	}
}

// RenewKeyResponse is returned by a successful renewal
type RenewKeyResponse struct {
	Key     *licensedto.KeyDTO     `json:"key"`
	Renewal *licensedto.RenewalDTO `json:"renewal"`
}

func (h *KeyHandler) CreateKey(c *gin.Context) {
	var req CreateKeyRequest
	if err := bindJSON(c, &req); err != nil {
		h.logger.Warnw("invalid request body for create license key", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	key, err := h.createKeyUC.Execute(c.Request.Context(), licenseUsecases.CreateKeyCommand{
		Key:           strings.TrimSpace(req.Key),
		ProductID:     req.ProductID,
		CustomerID:    req.CustomerID,
		TransactionID: req.TransactionID,
		Max:           req.Max,
		Expires:       req.Expires,
		Status:        req.Status,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("license key created by admin",
		"admin", c.GetString(constants.ContextKeyAdminSubject),
		"product_id", key.ProductID(),
		"transaction_id", key.TransactionID(),
	)
	utils.CreatedResponse(c, licensedto.ToKeyDTO(key, 0), "license key created")
}

func (h *KeyHandler) GetKey(c *gin.Context) {
	result, err := h.getKeyUC.Execute(c.Request.Context(), c.Param("key"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *KeyHandler) UpdateKey(c *gin.Context) {
	var req UpdateKeyRequest
	if err := bindJSON(c, &req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	key, err := h.updateKeyUC.Execute(c.Request.Context(), licenseUsecases.UpdateKeyCommand{
		Key:          c.Param("key"),
		Max:          req.Max,
		Status:       req.Status,
		Expires:      req.Expires,
		NeverExpires: req.NeverExpires,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getKeyUC.Describe(c.Request.Context(), key)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("license key updated by admin",
		"admin", c.GetString(constants.ContextKeyAdminSubject),
		"status", result.Status,
		"max", result.Max,
	)
	utils.SuccessResponse(c, http.StatusOK, "license key updated", result)
}

func (h *KeyHandler) RenewKey(c *gin.Context) {
	var req RenewKeyRequest
	if err := bindJSON(c, &req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.renewKeyUC.Execute(c.Request.Context(), licenseUsecases.RenewKeyCommand{
		Key:           c.Param("key"),
		Expires:       req.Expires,
		Days:          req.Days,
		TransactionID: req.TransactionID,
		Revenue:       req.Revenue,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	key, err := h.getKeyUC.Describe(c.Request.Context(), result.Key)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "license key renewed", RenewKeyResponse{
		Key:     key,
		Renewal: licensedto.ToRenewalDTO(result.Renewal),
	})
}

func (h *KeyHandler) ListRenewals(c *gin.Context) {
	result, err := h.listRenewalsUC.Execute(c.Request.Context(), c.Param("key"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *KeyHandler) ListActivations(c *gin.Context) {
	result, err := h.listActivationsUC.Execute(c.Request.Context(), c.Param("key"), c.Query("status"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// DeleteActivation deactivates an activation. Activations are kept for the
// update history.
func (h *KeyHandler) DeleteActivation(c *gin.Context) {
	activationID, err := utils.ParseUintParam(c, "id", "activation")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	activation, err := h.deactivateUC.ExecuteByID(c.Request.Context(), activationID)
	if stderrors.Is(err, license.ErrActivationNotFound) {
		utils.ErrorResponseWithError(c, errors.NewNotFoundError(err.Error()))
		return
	}
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("activation deactivated by admin",
		"admin", c.GetString(constants.ContextKeyAdminSubject),
		"activation_id", activationID,
	)
	utils.SuccessResponse(c, http.StatusOK, "activation deactivated", licensedto.ToActivationDTO(activation))
}
