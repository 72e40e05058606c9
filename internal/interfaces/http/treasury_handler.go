package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/dto"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/application/treasury"
	"github.com/oabdelghanydev-eng/AzafcoSys-sub001/internal/domain/entity"
)

// TreasuryHandler maneja cuentas, movimientos, transferencias y gastos.
type TreasuryHandler struct {
	uc *treasury.UseCase
}

// NewTreasuryHandler construye el handler.
func NewTreasuryHandler(uc *treasury.UseCase) *TreasuryHandler {
	return &TreasuryHandler{uc: uc}
}

// Accounts lista las cuentas con su saldo actual.
// GET /api/treasury/accounts
func (h *TreasuryHandler) Accounts(c *fiber.Ctx) error {
	accounts, err := h.uc.Accounts()
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, dto.AccountResponse{
			ID:      a.ID,
			Type:    a.Type,
			Name:    a.Name,
			Balance: a.Balance,
		})
	}
	return c.JSON(out)
}

// Transactions lista los movimientos recientes de una cuenta.
// GET /api/treasury/accounts/:id/transactions?limit=50
func (h *TreasuryHandler) Transactions(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	txns, err := h.uc.Transactions(c.Params("id"), limit)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.AccountTransactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, toTransactionResponse(t))
	}
	return c.JSON(out)
}

// Transfer mueve fondos entre caja y banco.
// POST /api/treasury/transfer
func (h *TreasuryHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	transferID, err := h.uc.Transfer(c.Context(), in.FromType, in.ToType, in.Amount, in.Description, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"transfer_id": transferID})
}

// RecordExpense registra un gasto pagado desde caja o banco.
// POST /api/expenses
func (h *TreasuryHandler) RecordExpense(c *fiber.Ctx) error {
	var in dto.RecordExpenseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	input := treasury.ExpenseInput{
		AccountType: in.AccountType,
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
	}
	if in.ShipmentID != "" {
		input.ShipmentID = &in.ShipmentID
	}
	if in.SupplierID != "" {
		input.SupplierID = &in.SupplierID
	}
	expense, err := h.uc.RecordExpense(c.Context(), input, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toExpenseResponse(expense))
}

func toTransactionResponse(t *entity.AccountTransaction) dto.AccountTransactionResponse {
	resp := dto.AccountTransactionResponse{
		ID:           t.ID,
		AccountID:    t.AccountID,
		Type:         t.Type,
		Amount:       t.Amount,
		BalanceAfter: t.BalanceAfter,
		Description:  t.Description,
		Date:         t.Date,
	}
	if t.Ref.Kind != "" {
		resp.RefKind = string(t.Ref.Kind)
		resp.RefID = t.Ref.ID
	}
	return resp
}

func toExpenseResponse(e *entity.Expense) dto.ExpenseResponse {
	resp := dto.ExpenseResponse{
		ID:          e.ID,
		AccountID:   e.AccountID,
		Amount:      e.Amount,
		Category:    e.Category,
		Description: e.Description,
		Date:        e.Date,
	}
	if e.ShipmentID != nil {
		resp.ShipmentID = *e.ShipmentID
	}
	if e.SupplierID != nil {
		resp.SupplierID = *e.SupplierID
	}
	return resp
}
