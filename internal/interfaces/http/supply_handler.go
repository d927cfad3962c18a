package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/imprenta-api/internal/application/dto"
	"github.com/jhoicas/imprenta-api/internal/application/supply"
)

// SupplyHandler configuración de insumos por máquina y su stock (protegido).
type SupplyHandler struct {
	uc *supply.UseCase
}

// NewSupplyHandler construye el handler.
func NewSupplyHandler(uc *supply.UseCase) *SupplyHandler {
	return &SupplyHandler{uc: uc}
}

// Configure godoc
// @Summary      Configurar insumo de una máquina
// @Tags         insumos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        machineId  path      string                      true  "ID de la máquina"
// @Param        body       body      dto.ConfigureSupplyRequest  true  "tipo_insumo, nombre, unidad, consumo_por_metro, niveles"
// @Success      201        {object}  dto.SupplyResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Failure      409        {object}  dto.ErrorResponse
// @Router       /api/maquinas/{machineId}/insumos [post]
func (h *SupplyHandler) Configure(c *fiber.Ctx) error {
	var in dto.ConfigureSupplyRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Configure(c.Context(), c.Params("machineId"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListByMachine godoc
// @Summary      Insumos de una máquina con stock y alerta
// @Tags         insumos
// @Security     Bearer
// @Produce      json
// @Param        machineId  path      string  true  "ID de la máquina"
// @Success      200        {object}  dto.SupplyListResponse
// @Router       /api/maquinas/{machineId}/insumos [get]
func (h *SupplyHandler) ListByMachine(c *fiber.Ctx) error {
	out, err := h.uc.ListByMachine(c.Context(), c.Params("machineId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar insumo
// @Tags         insumos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                   true  "ID del insumo"
// @Param        body  body      dto.UpdateSupplyRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.SupplyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/insumos/{id} [put]
func (h *SupplyHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSupplyRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Restock godoc
// @Summary      Reabastecer insumo
// @Tags         insumos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                  true  "ID del insumo"
// @Param        body  body      dto.StockChangeRequest  true  "cantidad > 0"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/insumos/{id}/reabastecer [post]
func (h *SupplyHandler) Restock(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.StockChangeRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Restock(c.Context(), c.Params("id"), in.Amount, userID, in.Notes)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Adjust godoc
// @Summary      Ajuste manual de stock
// @Description  cantidad con signo (distinta de cero); las notas son obligatorias.
// @Tags         insumos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                  true  "ID del insumo"
// @Param        body  body      dto.StockChangeRequest  true  "cantidad, notas"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/insumos/{id}/ajuste [post]
func (h *SupplyHandler) Adjust(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.StockChangeRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Adjust(c.Context(), c.Params("id"), in.Amount, userID, in.Notes)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Movements godoc
// @Summary      Movimientos de un insumo
// @Tags         insumos
// @Security     Bearer
// @Produce      json
// @Param        id      path      string  true   "ID del insumo"
// @Param        desde   query     string  false  "Desde (inclusivo)"
// @Param        hasta   query     string  false  "Hasta (exclusivo)"
// @Param        limit   query     int     false  "Límite (1-100)"  default(20)
// @Param        offset  query     int     false  "Desplazamiento"  default(0)
// @Success      200     {object}  dto.MovementListResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/insumos/{id}/movimientos [get]
func (h *SupplyHandler) Movements(c *fiber.Ctx) error {
	from, err := queryTime(c, "desde")
	if err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	to, err := queryTime(c, "hasta")
	if err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	limit, offset := page(c)
	out, err := h.uc.Movements(c.Context(), c.Params("id"), from, to, limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Alerts godoc
// @Summary      Insumos en nivel mínimo o crítico
// @Tags         insumos
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SupplyListResponse
// @Router       /api/insumos/alertas [get]
func (h *SupplyHandler) Alerts(c *fiber.Ctx) error {
	out, err := h.uc.Alerts(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
