package cashdrawer

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/application/ports"
	appsales "github.com/jhoicas/tienda-pos/internal/application/sales"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
	"github.com/jhoicas/tienda-pos/pkg/logger"
)

// UseCase caja diaria: caja inicial, movimientos manuales y cierre.
type UseCase struct {
	tx      ports.TxRunner
	stores  ports.StoreResolver
	backups ports.Snapshotter
	pdf     ClosingPDFGenerator
	log     *logger.Logger
}

// NewUseCase construye el caso de uso de caja. pdf puede ser nil si no se exponen comprobantes.
func NewUseCase(tx ports.TxRunner, stores ports.StoreResolver, backups ports.Snapshotter, pdf ClosingPDFGenerator, log *logger.Logger) *UseCase {
	return &UseCase{tx: tx, stores: stores, backups: backups, pdf: pdf, log: log}
}

// GetOpeningFloat caja inicial del día; 0 si no se cargó.
func (uc *UseCase) GetOpeningFloat(ctx context.Context, tenantID, date string) (*dto.OpeningFloatResponse, error) {
	if !domain.ValidDate(date) {
		return nil, domain.Invalid("fecha %q (se espera YYYY-MM-DD)", date)
	}
	repos, err := uc.stores.Repositories(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	amount, _, err := repos.Cash.GetOpeningFloat(ctx, date)
	if err != nil {
		return nil, err
	}
	return &dto.OpeningFloatResponse{Date: date, Amount: amount}, nil
}

// SetOpeningFloat carga o reemplaza la caja inicial del día.
func (uc *UseCase) SetOpeningFloat(ctx context.Context, tenantID, date string, amount decimal.Decimal) (*dto.OpeningFloatResponse, error) {
	if !domain.ValidDate(date) {
		return nil, domain.Invalid("fecha %q (se espera YYYY-MM-DD)", date)
	}
	if amount.IsNegative() {
		return nil, domain.Invalid("la caja inicial no puede ser negativa")
	}
	err := uc.tx.Run(ctx, tenantID, "set_opening_float", func(repos repository.Repositories) error {
		return repos.Cash.UpsertOpeningFloat(ctx, date, amount)
	})
	if err != nil {
		return nil, err
	}
	uc.backups.Snapshot(ctx, tenantID, "Caja inicial", fmt.Sprintf("%s: %s", date, amount.StringFixed(2)))
	return &dto.OpeningFloatResponse{Date: date, Amount: amount}, nil
}

// AddCashMovement registra un ingreso o egreso manual de caja.
func (uc *UseCase) AddCashMovement(ctx context.Context, tenantID string, in dto.CashMovementRequest) (*dto.CashMovementResponse, error) {
	kind, ok := entity.ParseCashKind(strings.ToLower(strings.TrimSpace(in.Kind)))
	if !ok {
		return nil, domain.Invalid("tipo de movimiento de caja %q (in | out)", in.Kind)
	}
	if !in.Amount.IsPositive() {
		return nil, domain.Invalid("el monto debe ser mayor a 0")
	}
	date, err := domain.RequireDate(in.Date)
	if err != nil {
		return nil, err
	}
	m := &entity.CashMovement{Date: date, Kind: kind, Amount: in.Amount, Detail: strings.TrimSpace(in.Detail)}
	err = uc.tx.Run(ctx, tenantID, "add_cash_movement", func(repos repository.Repositories) error {
		return repos.Cash.CreateMovement(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	uc.backups.Snapshot(ctx, tenantID, "Movimiento de caja", fmt.Sprintf("%s %s", kind, m.Amount.StringFixed(2)))
	return toCashMovementResponse(m), nil
}

// ListCashMovements movimientos de caja de un día.
func (uc *UseCase) ListCashMovements(ctx context.Context, tenantID, date string) ([]dto.CashMovementResponse, error) {
	if !domain.ValidDate(date) {
		return nil, domain.Invalid("fecha %q (se espera YYYY-MM-DD)", date)
	}
	repos, err := uc.stores.Repositories(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	list, err := repos.Cash.ListMovements(ctx, date)
	if err != nil {
		return nil, err
	}
	return toCashMovementResponses(list), nil
}

// UpdateCashMovementDetail edita el detalle de un movimiento de caja.
func (uc *UseCase) UpdateCashMovementDetail(ctx context.Context, tenantID string, id int64, detail string) error {
	err := uc.tx.Run(ctx, tenantID, "update_cash_movement", func(repos repository.Repositories) error {
		return repos.Cash.UpdateMovementDetail(ctx, id, strings.TrimSpace(detail))
	})
	if err != nil {
		return err
	}
	uc.backups.Snapshot(ctx, tenantID, "Movimiento de caja editado", fmt.Sprintf("ID: %d", id))
	return nil
}

// DeleteCashMovement elimina un movimiento de caja.
func (uc *UseCase) DeleteCashMovement(ctx context.Context, tenantID string, id int64) error {
	err := uc.tx.Run(ctx, tenantID, "delete_cash_movement", func(repos repository.Repositories) error {
		return repos.Cash.DeleteMovement(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.backups.Snapshot(ctx, tenantID, "Movimiento de caja eliminado", fmt.Sprintf("ID: %d", id))
	return nil
}

// DailyClosing arma el cierre del día: total = caja inicial + suma de líneas de venta.
// Los movimientos manuales de caja se informan aparte y no suman al total.
func (uc *UseCase) DailyClosing(ctx context.Context, tenantID, date string) (*dto.ClosingResponse, error) {
	if !domain.ValidDate(date) {
		return nil, domain.Invalid("fecha %q (se espera YYYY-MM-DD)", date)
	}
	repos, err := uc.stores.Repositories(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	opening, _, err := repos.Cash.GetOpeningFloat(ctx, date)
	if err != nil {
		return nil, err
	}
	sales, err := repos.Sales.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	movements, err := repos.Cash.ListMovements(ctx, date)
	if err != nil {
		return nil, err
	}
	return buildClosing(date, opening, sales, movements), nil
}

func buildClosing(date string, opening decimal.Decimal, sales []*entity.Sale, movements []*entity.CashMovement) *dto.ClosingResponse {
	c := &dto.ClosingResponse{
		Date:          date,
		OpeningFloat:  opening,
		SalesTotal:    decimal.Zero,
		InvoiceA:      decimal.Zero,
		InvoiceB:      decimal.Zero,
		CashIn:        decimal.Zero,
		CashOut:       decimal.Zero,
		SalesCount:    len(sales),
		Sales:         appsales.ToSaleResponses(sales),
		CashMovements: toCashMovementResponses(movements),
	}
	for _, s := range c.Sales {
		c.SalesTotal = c.SalesTotal.Add(s.Total)
		switch s.InvoiceClass {
		case entity.InvoiceA:
			c.InvoiceA = c.InvoiceA.Add(s.Total)
		case entity.InvoiceB:
			c.InvoiceB = c.InvoiceB.Add(s.Total)
		}
	}
	for _, m := range movements {
		if m.Kind == entity.CashIn {
			c.CashIn = c.CashIn.Add(m.Amount)
		} else {
			c.CashOut = c.CashOut.Add(m.Amount)
		}
	}
	c.CashNet = c.CashIn.Sub(c.CashOut)
	c.Total = c.OpeningFloat.Add(c.SalesTotal)
	return c
}

// ClosingPDF genera el comprobante del cierre del día.
func (uc *UseCase) ClosingPDF(ctx context.Context, tenantID, businessName, date string) ([]byte, string, error) {
	if uc.pdf == nil {
		return nil, "", fmt.Errorf("cashdrawer: generador de PDF no configurado")
	}
	closing, err := uc.DailyClosing(ctx, tenantID, date)
	if err != nil {
		return nil, "", err
	}
	if strings.TrimSpace(businessName) == "" {
		businessName = tenantID
	}
	pdfBytes, err := uc.pdf.GenerateClosingPDF(ctx, businessName, closing)
	if err != nil {
		return nil, "", fmt.Errorf("cashdrawer: generar pdf: %w", err)
	}
	return pdfBytes, fmt.Sprintf("cierre_%s_%s.pdf", tenantID, date), nil
}

func toCashMovementResponse(m *entity.CashMovement) *dto.CashMovementResponse {
	return &dto.CashMovementResponse{ID: m.ID, Date: m.Date, Kind: m.Kind, Amount: m.Amount, Detail: m.Detail}
}

func toCashMovementResponses(list []*entity.CashMovement) []dto.CashMovementResponse {
	out := make([]dto.CashMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *toCashMovementResponse(m))
	}
	return out
}
