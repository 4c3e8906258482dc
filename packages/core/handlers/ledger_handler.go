package handlers

import (
	"net/http"

	"tournament-api/packages/core/services"

	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	ledgerService *services.LedgerService
}

func NewLedgerHandler(ledgerService *services.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
	}
}

// Audit compares stored points with the points the played matches award
// @Summary Audit the standings ledger
// @Description Report teams whose stored points differ from the points recomputed from played matches. Read only
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.LedgerReport
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/ledger [get]
func (h *LedgerHandler) Audit(c *gin.Context) {
	report, err := h.ledgerService.Audit(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// Reconcile overwrites drifted points with the recomputed totals
// @Summary Reconcile the standings ledger
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.LedgerReport
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/ledger/reconcile [post]
func (h *LedgerHandler) Reconcile(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	report, err := h.ledgerService.Reconcile(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
