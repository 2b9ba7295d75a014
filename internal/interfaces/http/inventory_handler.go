package http

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/glamstock-api/internal/application/dto"
	"github.com/jhoicas/glamstock-api/internal/application/inventory"
	"github.com/jhoicas/glamstock-api/internal/domain"
	"github.com/jhoicas/glamstock-api/internal/domain/repository"
	"github.com/jhoicas/glamstock-api/pkg/logger"
)

// InventoryHandler maneja las peticiones HTTP del libro de inventario (protegido).
type InventoryHandler struct {
	engine   *inventory.LedgerEngine
	query    *inventory.BranchInventoryUseCase
	history  *inventory.LedgerHistoryUseCase
	reasons  *inventory.ReasonRegistry
	validate *validator.Validate
	log      *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	engine *inventory.LedgerEngine,
	query *inventory.BranchInventoryUseCase,
	history *inventory.LedgerHistoryUseCase,
	reasons *inventory.ReasonRegistry,
	log *logger.Logger,
) *InventoryHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &InventoryHandler{
		engine:   engine,
		query:    query,
		history:  history,
		reasons:  reasons,
		validate: validator.New(),
		log:      log,
	}
}

// RegisterSale godoc
// @Summary      Registrar venta
// @Description  Descuenta la cantidad vendida del saldo de la variante en la sucursal y agrega la entrada al libro.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterSaleRequest  true  "variant_id, branch_id, quantity, unit_price, reason o reason_id"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/inventory/sales [post]
func (h *InventoryHandler) RegisterSale(c *fiber.Ctx) error {
	var in dto.RegisterSaleRequest
	if err := h.bind(c, &in); err != nil {
		return h.writeError(c, err)
	}
	reasonID, err := h.resolveReason(in.ReasonID, in.Reason)
	if err != nil {
		return h.writeError(c, err)
	}
	res, err := h.engine.RegisterSale(c.UserContext(), inventory.SaleInput{
		VariantID: in.VariantID,
		BranchID:  in.BranchID,
		ReasonID:  reasonID,
		UserID:    GetUserID(c),
		Quantity:  in.Quantity,
		UnitPrice: *in.UnitPrice,
	})
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResult(res))
}

// RegisterWriteOff godoc
// @Summary      Registrar baja
// @Description  Descuenta stock por daño, pérdida o uso interno. No lleva precio.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterWriteOffRequest  true  "variant_id, branch_id, quantity, reason o reason_id"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/inventory/write-offs [post]
func (h *InventoryHandler) RegisterWriteOff(c *fiber.Ctx) error {
	var in dto.RegisterWriteOffRequest
	if err := h.bind(c, &in); err != nil {
		return h.writeError(c, err)
	}
	reasonID, err := h.resolveReason(in.ReasonID, in.Reason)
	if err != nil {
		return h.writeError(c, err)
	}
	res, err := h.engine.RegisterWriteOff(c.UserContext(), inventory.WriteOffInput{
		VariantID: in.VariantID,
		BranchID:  in.BranchID,
		ReasonID:  reasonID,
		UserID:    GetUserID(c),
		Quantity:  in.Quantity,
	})
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResult(res))
}

// AdjustInventory godoc
// @Summary      Ajuste absoluto de inventario
// @Description  Fija el saldo al conteo físico y registra la diferencia en el libro.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.AdjustInventoryRequest  true  "variant_id, branch_id, new_quantity, reason o reason_id"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) AdjustInventory(c *fiber.Ctx) error {
	var in dto.AdjustInventoryRequest
	if err := h.bind(c, &in); err != nil {
		return h.writeError(c, err)
	}
	reasonID, err := h.resolveReason(in.ReasonID, in.Reason)
	if err != nil {
		return h.writeError(c, err)
	}
	res, err := h.engine.AdjustAbsolute(c.UserContext(), inventory.AdjustInput{
		VariantID:   in.VariantID,
		BranchID:    in.BranchID,
		ReasonID:    reasonID,
		UserID:      GetUserID(c),
		NewQuantity: *in.NewQuantity,
	})
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResult(res))
}

// GetBranchInventory godoc
// @Summary      Inventario valorizado por sucursal
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query     int     true   "Sucursal"
// @Param        group      query     string  false  "product para agrupar por producto maestro"
// @Success      200        {object}  map[string]interface{}
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /api/inventory [get]
func (h *InventoryHandler) GetBranchInventory(c *fiber.Ctx) error {
	branchID, err := queryInt64(c, "branch_id")
	if err != nil || branchID <= 0 {
		return h.writeError(c, domain.ErrInvalidBranch)
	}
	ctx := c.UserContext()

	if c.Query("group") == "product" {
		products, err := h.query.QueryBranchInventoryByProduct(ctx, branchID)
		if err != nil {
			return h.writeError(c, err)
		}
		total := inventoryTotalFromProducts(products)
		return c.JSON(fiber.Map{"branch_id": branchID, "items": products, "total": total})
	}

	items, err := h.query.QueryBranchInventory(ctx, branchID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"branch_id": branchID, "items": items, "total": inventory.TotalValue(items)})
}

// GetBranchInventoryPDF godoc
// @Summary      Reporte PDF del inventario de una sucursal
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Param        branch_id  query  int  true  "Sucursal"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/report.pdf [get]
func (h *InventoryHandler) GetBranchInventoryPDF(c *fiber.Ctx) error {
	branchID, err := queryInt64(c, "branch_id")
	if err != nil || branchID <= 0 {
		return h.writeError(c, domain.ErrInvalidBranch)
	}
	pdf, err := h.query.BranchInventoryPDF(c.UserContext(), branchID)
	if err != nil {
		return h.writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, "inline; filename=inventario-sucursal-"+strconv.FormatInt(branchID, 10)+".pdf")
	return c.Send(pdf)
}

// ListBranches godoc
// @Summary      Sucursales activas
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.BranchResponse
// @Router       /api/inventory/branches [get]
func (h *InventoryHandler) ListBranches(c *fiber.Ctx) error {
	branches, err := h.query.ListActiveBranches(c.UserContext())
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(branches)
}

// ListReasons godoc
// @Summary      Motivos de transacción
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ReasonResponse
// @Router       /api/inventory/reasons [get]
func (h *InventoryHandler) ListReasons(c *fiber.Ctx) error {
	reasons := h.reasons.Reasons()
	out := make([]dto.ReasonResponse, 0, len(reasons))
	for _, r := range reasons {
		out = append(out, dto.ReasonResponse{ID: r.ID, Label: r.Label})
	}
	return c.JSON(out)
}

// ListLedger godoc
// @Summary      Historial del libro de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch_id   query     int     false  "Sucursal"
// @Param        variant_id  query     int     false  "Variante"
// @Param        from        query     string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to          query     string  false  "Hasta (RFC3339 o YYYY-MM-DD)"
// @Param        limit       query     int     false  "Máximo 200"
// @Param        offset      query     int     false  "Desplazamiento"
// @Success      200         {object}  dto.LedgerListResponse
// @Failure      400         {object}  dto.ErrorResponse
// @Router       /api/inventory/ledger [get]
func (h *InventoryHandler) ListLedger(c *fiber.Ctx) error {
	var (
		filter repository.LedgerFilter
		err    error
	)
	if filter.BranchID, err = queryInt64(c, "branch_id"); err != nil {
		return badRequest(c, "branch_id inválido")
	}
	if filter.VariantID, err = queryInt64(c, "variant_id"); err != nil {
		return badRequest(c, "variant_id inválido")
	}
	if filter.From, err = queryTime(c, "from", false); err != nil {
		return badRequest(c, "from inválido")
	}
	if filter.To, err = queryTime(c, "to", true); err != nil {
		return badRequest(c, "to inválido")
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "limit u offset inválidos")
	}
	if err := h.validate.Struct(page); err != nil {
		return badRequest(c, validationMessage(err))
	}
	filter.Limit, filter.Offset = page.Limit, page.Offset

	out, err := h.history.List(c.UserContext(), filter)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(out)
}

// GetLedgerEntry godoc
// @Summary      Entrada del libro por id
// @Description  Permite confirmar si una operación se comprometió tras un timeout del cliente.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "ID de la entrada"
// @Success      200  {object}  dto.LedgerEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/ledger/{id} [get]
func (h *InventoryHandler) GetLedgerEntry(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return h.writeError(c, domain.ErrNotFound)
	}
	entry, err := h.history.Get(c.UserContext(), id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(entry)
}

var errInvalidBody = errors.New("cuerpo inválido")

// bind parsea y valida el body.
func (h *InventoryHandler) bind(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return errInvalidBody
	}
	if err := h.validate.Struct(out); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, validationMessage(err))
	}
	return nil
}

// resolveReason prioriza reason_id; si no viene, resuelve la etiqueta contra el catálogo.
func (h *InventoryHandler) resolveReason(id int64, label string) (int64, error) {
	if id > 0 {
		return id, nil
	}
	return h.reasons.Resolve(label)
}

// writeError traduce errores de dominio a status HTTP.
func (h *InventoryHandler) writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errInvalidBody):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "variante, sucursal o entrada no encontrada"})
	case errors.Is(err, domain.ErrUnknownReason):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code:    "UNKNOWN_REASON",
			Message: err.Error() + "; válidos: " + strings.Join(h.reasons.Labels(), ", "),
		})
	case errors.Is(err, domain.ErrInvalidBranch):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BRANCH", Message: "sucursal inválida o inactiva"})
	case errors.Is(err, domain.ErrInvalidInput):
		return badRequest(c, err.Error())
	case errors.Is(err, domain.ErrStoreFailure):
		h.log.Warn().Err(err).Str("request_id", GetRequestID(c)).Msg("fallo transitorio del almacenamiento")
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORE_FAILURE", Message: "no se pudo completar la operación, intente de nuevo"})
	}
	h.log.Error().Err(err).Str("request_id", GetRequestID(c)).Msg("error no controlado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func toMovementResult(res inventory.Result) dto.MovementResultResponse {
	return dto.MovementResultResponse{LedgerID: res.LedgerID, ResultingQuantity: res.ResultingQuantity}
}
