package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/imprenta-api/internal/application/dto"
	"github.com/jhoicas/imprenta-api/internal/application/production"
)

// ProductionHandler registro de producción diaria (protegido).
type ProductionHandler struct {
	uc *production.UseCase
}

// NewProductionHandler construye el handler.
func NewProductionHandler(uc *production.UseCase) *ProductionHandler {
	return &ProductionHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar producción
// @Description  Guarda los metros producidos y descuenta los insumos de la máquina.
// @Description  Si el descuento falla la producción queda guardada y la respuesta trae "advertencia".
// @Tags         produccion
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterProductionRequest  true  "maquina_id, metros > 0, fecha"
// @Success      201   {object}  dto.ProductionResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/produccion [post]
func (h *ProductionHandler) Register(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterProductionRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Register(c.Context(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Correct godoc
// @Summary      Corregir metros de una producción
// @Description  Aplica la diferencia nuevo - anterior; una diferencia negativa devuelve insumo al stock.
// @Tags         produccion
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                        true  "ID de la producción"
// @Param        body  body      dto.CorrectProductionRequest  true  "metros, notas"
// @Success      200   {object}  dto.ProductionResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/produccion/{id} [put]
func (h *ProductionHandler) Correct(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CorrectProductionRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Correct(c.Context(), c.Params("id"), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar producción
// @Tags         produccion
// @Security     Bearer
// @Produce      json
// @Param        maquina_id  query     string  false  "Filtrar por máquina"
// @Param        desde       query     string  false  "Desde (inclusivo)"
// @Param        hasta       query     string  false  "Hasta (exclusivo)"
// @Param        limit       query     int     false  "Límite (1-100)"  default(20)
// @Param        offset      query     int     false  "Desplazamiento"  default(0)
// @Success      200         {object}  dto.ProductionListResponse
// @Router       /api/produccion [get]
func (h *ProductionHandler) List(c *fiber.Ctx) error {
	from, err := queryTime(c, "desde")
	if err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	to, err := queryTime(c, "hasta")
	if err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	limit, offset := page(c)
	out, err := h.uc.List(c.Context(), c.Query("maquina_id"), from, to, limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
