package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	licensedto "github.com/orris-inc/licenser/internal/application/license/dto"
	licenseUsecases "github.com/orris-inc/licenser/internal/application/license/usecases"
	"github.com/orris-inc/licenser/internal/shared/constants"
	"github.com/orris-inc/licenser/internal/shared/logger"
	"github.com/orris-inc/licenser/internal/shared/utils"
)

// PurchaseHandler records storefront purchases and issues their keys
type PurchaseHandler struct {
	issueKeysUC issueKeysUseCase
	getKeyUC    getKeyUseCase
	logger      logger.Interface
}

func NewPurchaseHandler(
	issueKeysUC *licenseUsecases.IssueKeysUseCase,
	getKeyUC *licenseUsecases.GetKeyUseCase,
	logger logger.Interface,
) *PurchaseHandler {
	return &PurchaseHandler{
		issueKeysUC: issueKeysUC,
		getKeyUC:    getKeyUC,
		logger:      logger,
	}
}

type PurchaseResponse struct {
	Keys []*licensedto.KeyDTO `json:"keys"`
	// Skipped lists products of the purchase that do not issue keys
	Skipped []uint `json:"skipped"`
}

// RecordPurchase is idempotent per transaction: keys issued by an earlier
// call are returned again instead of issuing new ones.
func (h *PurchaseHandler) RecordPurchase(c *gin.Context) {
	var req PurchaseRequest
	if err := bindJSON(c, &req); err != nil {
		h.logger.Warnw("invalid request body for purchase", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	result, err := h.issueKeysUC.Execute(ctx, licenseUsecases.IssueKeysCommand{
		TransactionID: req.TransactionID,
		Total:         req.Total,
		CustomerID:    req.Customer.ID,
		CustomerEmail: req.Customer.Email,
		CustomerName:  req.Customer.Name,
		ProductIDs:    req.ProductIDs,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	resp := PurchaseResponse{
		Keys:    make([]*licensedto.KeyDTO, 0, len(result.Keys)),
		Skipped: result.Skipped,
	}
	if resp.Skipped == nil {
		resp.Skipped = []uint{}
	}
	for _, k := range result.Keys {
		described, err := h.getKeyUC.Describe(ctx, k)
		if err != nil {
			utils.ErrorResponseWithError(c, err)
			return
		}
		resp.Keys = append(resp.Keys, described)
	}

	h.logger.Infow("purchase recorded by admin",
		"admin", c.GetString(constants.ContextKeyAdminSubject),
		"transaction_id", req.TransactionID,
		"keys", len(resp.Keys),
	)
	utils.SuccessResponse(c, http.StatusOK, "purchase recorded", resp)
}
