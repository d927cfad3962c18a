package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/imprenta-api/internal/application/caja"
	"github.com/jhoicas/imprenta-api/internal/application/dto"
)

// CajaHandler maneja movimientos de caja, cortes y el reporte de ventas (protegido).
type CajaHandler struct {
	uc *caja.UseCase
}

// NewCajaHandler construye el handler.
func NewCajaHandler(uc *caja.UseCase) *CajaHandler {
	return &CajaHandler{uc: uc}
}

// RegisterMovement godoc
// @Summary      Registrar ingreso o gasto de caja
// @Tags         caja
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterCashMovementRequest  true  "tipo (ingreso|gasto), monto > 0, categoria"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/caja/movimientos [post]
func (h *CajaHandler) RegisterMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterCashMovementRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.RegisterMovement(c.Context(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Listar movimientos de caja
// @Tags         caja
// @Security     Bearer
// @Produce      json
// @Param        caja_id  query     string  false  "Caja (vacío = caja principal)"
// @Param        desde    query     string  false  "Desde (RFC3339 o YYYY-MM-DD, inclusivo)"
// @Param        hasta    query     string  false  "Hasta (exclusivo)"
// @Param        limit    query     int     false  "Límite (1-100)"  default(20)
// @Param        offset   query     int     false  "Desplazamiento"  default(0)
// @Success      200      {object}  dto.MovementListResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Router       /api/caja/movimientos [get]
func (h *CajaHandler) ListMovements(c *fiber.Ctx) error {
	from, err := queryTime(c, "desde")
	if err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	to, err := queryTime(c, "hasta")
	if err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	limit, offset := page(c)
	out, err := h.uc.ListMovements(c.Context(), c.Query("caja_id"), from, to, limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CurrentBalance godoc
// @Summary      Saldo actual de la caja
// @Tags         caja
// @Security     Bearer
// @Produce      json
// @Param        caja_id  query     string  false  "Caja (vacío = caja principal)"
// @Success      200      {object}  dto.BalanceResponse
// @Router       /api/caja/saldo [get]
func (h *CajaHandler) CurrentBalance(c *fiber.Ctx) error {
	out, err := h.uc.CurrentBalance(c.Context(), c.Query("caja_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// period lee inicio/fin obligatorios de la query.
func period(c *fiber.Ctx, startKey, endKey string) (time.Time, time.Time, error) {
	start, err := queryTime(c, startKey)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := queryTime(c, endKey)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if start == nil || end == nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%s y %s son obligatorios", startKey, endKey)
	}
	return *start, *end, nil
}

// Preview godoc
// @Summary      Previsualizar corte de caja
// @Description  Calcula saldo inicial, ingresos, gastos y saldo calculado sin guardar nada.
// @Tags         caja
// @Security     Bearer
// @Produce      json
// @Param        caja_id           query     string  false  "Caja (vacío = caja principal)"
// @Param        inicio            query     string  true   "Inicio del periodo (inclusivo)"
// @Param        fin               query     string  true   "Fin del periodo (exclusivo)"
// @Param        efectivo_contado  query     string  false  "Efectivo contado, para calcular la diferencia"
// @Success      200               {object}  dto.CortePreviewResponse
// @Failure      400               {object}  dto.ErrorResponse
// @Router       /api/caja/cortes/preview [get]
func (h *CajaHandler) Preview(c *fiber.Ctx) error {
	start, end, err := period(c, "inicio", "fin")
	if err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	var observed *decimal.Decimal
	if raw := c.Query("efectivo_contado"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return badRequest(c, "VALIDATION", "efectivo_contado inválido")
		}
		observed = &d
	}
	out, err := h.uc.Preview(c.Context(), c.Query("caja_id"), start, end, observed)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateCorte godoc
// @Summary      Registrar corte de caja
// @Description  Guarda el corte del periodo [inicio, fin). Si |diferencia| supera el umbral las notas son obligatorias.
// @Tags         caja
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateCorteRequest  true  "inicio, fin, efectivo_contado, notas"
// @Success      201   {object}  dto.CorteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/caja/cortes [post]
func (h *CajaHandler) CreateCorte(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateCorteRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Reconcile(c.Context(), caja.ReconcileInput{
		CashRegisterID: in.CashRegisterID,
		PeriodStart:    in.PeriodStart,
		PeriodEnd:      in.PeriodEnd,
		ObservedCash:   in.ObservedCash,
		Notes:          in.Notes,
		Actor:          userID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListCortes godoc
// @Summary      Listar cortes de caja
// @Tags         caja
// @Security     Bearer
// @Produce      json
// @Param        caja_id  query     string  false  "Caja (vacío = caja principal)"
// @Param        limit    query     int     false  "Límite (1-100)"  default(20)
// @Param        offset   query     int     false  "Desplazamiento"  default(0)
// @Success      200      {object}  dto.CorteListResponse
// @Router       /api/caja/cortes [get]
func (h *CajaHandler) ListCortes(c *fiber.Ctx) error {
	limit, offset := page(c)
	out, err := h.uc.ListCortes(c.Context(), c.Query("caja_id"), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetCorte godoc
// @Summary      Obtener corte por ID
// @Tags         caja
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del corte"
// @Success      200  {object}  dto.CorteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/caja/cortes/{id} [get]
func (h *CajaHandler) GetCorte(c *fiber.Ctx) error {
	out, err := h.uc.GetCorte(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CortePDF godoc
// @Summary      Ticket PDF del corte
// @Tags         caja
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path      string  true  "ID del corte"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/caja/cortes/{id}/pdf [get]
func (h *CajaHandler) CortePDF(c *fiber.Ctx) error {
	id := c.Params("id")
	pdf, err := h.uc.CortePDF(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=corte-%s.pdf", id))
	return c.Send(pdf)
}

// SalesReport godoc
// @Summary      Reporte de ventas por día
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Param        caja_id  query     string  false  "Caja (vacío = caja principal)"
// @Param        desde    query     string  true   "Desde (inclusivo)"
// @Param        hasta    query     string  true   "Hasta (exclusivo)"
// @Success      200      {object}  dto.SalesReportResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Router       /api/reportes/ventas [get]
func (h *CajaHandler) SalesReport(c *fiber.Ctx) error {
	from, to, err := period(c, "desde", "hasta")
	if err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	out, err := h.uc.DailyReport(c.Context(), c.Query("caja_id"), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
