package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

const (
	// Categoría de la venta que cobra la diferencia de un cambio.
	exchangeCategory = "Cambio"
	creditComment    = "Saldo a favor por cambio"
)

// RegisterExchange registra un cambio: el artículo devuelto vuelve al stock (+1) y el
// entregado sale (-1). Con ChargeDifference y diferencia positiva se registra además una
// línea de venta de cantidad 0 por la diferencia. Con CreditCustomer y diferencia negativa
// la diferencia se acredita en la cuenta corriente del cliente (se crea si no existe).
// Todo en una transacción.
func (uc *UseCase) RegisterExchange(ctx context.Context, tenantID string, in dto.RegisterExchangeRequest) (*dto.ExchangeResponse, error) {
	date, err := domain.RequireDate(in.Date)
	if err != nil {
		return nil, err
	}
	ex := &entity.Exchange{
		Date:           date,
		ReturnedCode:   strings.TrimSpace(in.ReturnedCode),
		DeliveredCode:  strings.TrimSpace(in.DeliveredCode),
		ReturnedPrice:  in.ReturnedPrice,
		DeliveredPrice: in.DeliveredPrice,
		Difference:     in.DeliveredPrice.Sub(in.ReturnedPrice),
		Note:           strings.TrimSpace(in.Note),
	}
	if ex.ReturnedCode == "" || ex.DeliveredCode == "" {
		return nil, domain.Invalid("artículo devuelto y entregado son requeridos")
	}
	if ex.ReturnedPrice.IsNegative() || ex.DeliveredPrice.IsNegative() {
		return nil, domain.Invalid("precio negativo")
	}

	var diffSale *entity.Sale
	if in.ChargeDifference && ex.Difference.IsPositive() {
		diffSale, err = toSale(dto.SaleLineRequest{
			Date:         date,
			UnitPrice:    ex.Difference,
			Category:     exchangeCategory,
			InvoiceClass: in.InvoiceClass,
			PaymentType:  in.PaymentType,
			Register:     in.Register,
			Note:         fmt.Sprintf("Diferencia cambio %s por %s", ex.ReturnedCode, ex.DeliveredCode),
		})
		if err != nil {
			return nil, err
		}
	}

	var credit *entity.AccountMovement
	if customer := strings.TrimSpace(in.CreditCustomer); customer != "" && ex.Difference.IsNegative() {
		credit = &entity.AccountMovement{
			Customer: customer,
			Kind:     entity.MovementCredit,
			Amount:   ex.Difference.Abs(),
			Date:     date,
			Comment:  creditComment,
		}
	}

	err = uc.tx.Run(ctx, tenantID, "register_exchange", func(repos repository.Repositories) error {
		if err := repos.Products.AdjustStock(ctx, ex.ReturnedCode, 1); err != nil {
			return err
		}
		if err := repos.Products.AdjustStock(ctx, ex.DeliveredCode, -1); err != nil {
			return err
		}
		if diffSale != nil {
			if err := settle(ctx, repos, diffSale); err != nil {
				return err
			}
			id := diffSale.ID
			ex.DifferenceSaleID = &id
		}
		if credit != nil {
			if err := creditAccount(ctx, repos, credit); err != nil {
				return err
			}
			id := credit.ID
			ex.CreditMovementID = &id
		}
		return repos.Exchanges.Create(ctx, ex)
	})
	if err != nil {
		return nil, err
	}
	uc.backups.Snapshot(ctx, tenantID, "Cambio registrado", fmt.Sprintf("%s por %s", ex.ReturnedCode, ex.DeliveredCode))
	return toExchangeResponse(ex), nil
}

// creditAccount acredita el saldo a favor con las mismas primitivas que un movimiento manual:
// cuenta idempotente, movimiento y acumulado.
func creditAccount(ctx context.Context, repos repository.Repositories, m *entity.AccountMovement) error {
	if _, err := repos.Accounts.CreateIfNotExists(ctx, m.Customer); err != nil {
		return err
	}
	if err := repos.Movements.Create(ctx, m); err != nil {
		return err
	}
	return repos.Accounts.AddToBalance(ctx, m.Customer, m.Kind, m.Amount)
}

// DeleteExchange deshace un cambio: revierte ambos movimientos de stock, elimina la venta
// de diferencia y descuenta el saldo a favor acreditado si todavía existen.
// ErrExchangeNotFound si no existe.
func (uc *UseCase) DeleteExchange(ctx context.Context, tenantID string, id int64) error {
	err := uc.tx.Run(ctx, tenantID, "delete_exchange", func(repos repository.Repositories) error {
		ex, err := repos.Exchanges.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if ex == nil {
			return domain.ErrExchangeNotFound
		}
		if err := repos.Products.AdjustStock(ctx, ex.ReturnedCode, -1); err != nil {
			return err
		}
		if err := repos.Products.AdjustStock(ctx, ex.DeliveredCode, 1); err != nil {
			return err
		}
		if ex.DifferenceSaleID != nil {
			err := repos.Sales.Delete(ctx, *ex.DifferenceSaleID)
			if err != nil && !errors.Is(err, domain.ErrSaleNotFound) {
				return err
			}
		}
		if ex.CreditMovementID != nil {
			// Si la cuenta se eliminó, el movimiento se fue con ella.
			m, err := repos.Movements.GetByID(ctx, *ex.CreditMovementID)
			if err != nil {
				return err
			}
			if m != nil {
				if err := repos.Movements.Delete(ctx, m.ID); err != nil {
					return err
				}
				if err := repos.Accounts.AddToBalance(ctx, m.Customer, m.Kind, m.Amount.Neg()); err != nil {
					return err
				}
			}
		}
		return repos.Exchanges.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.backups.Snapshot(ctx, tenantID, "Cambio eliminado", fmt.Sprintf("ID: %d", id))
	return nil
}

// ListExchanges cambios en el rango de fechas inclusivo; vacío no filtra.
func (uc *UseCase) ListExchanges(ctx context.Context, tenantID, from, to string) ([]dto.ExchangeResponse, error) {
	for _, d := range []string{from, to} {
		if d != "" && !domain.ValidDate(d) {
			return nil, domain.Invalid("fecha %q (se espera YYYY-MM-DD)", d)
		}
	}
	repos, err := uc.stores.Repositories(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	list, err := repos.Exchanges.List(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExchangeResponse, 0, len(list))
	for _, ex := range list {
		out = append(out, *toExchangeResponse(ex))
	}
	return out, nil
}

func toExchangeResponse(ex *entity.Exchange) *dto.ExchangeResponse {
	return &dto.ExchangeResponse{
		ID:               ex.ID,
		Date:             ex.Date,
		ReturnedCode:     ex.ReturnedCode,
		DeliveredCode:    ex.DeliveredCode,
		ReturnedPrice:    ex.ReturnedPrice,
		DeliveredPrice:   ex.DeliveredPrice,
		Difference:       ex.Difference,
		Note:             ex.Note,
		DifferenceSaleID: ex.DifferenceSaleID,
		CreditMovementID: ex.CreditMovementID,
	}
}
