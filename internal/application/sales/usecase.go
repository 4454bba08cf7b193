package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/application/ports"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
	domainsales "github.com/jhoicas/tienda-pos/internal/domain/sales"
	"github.com/jhoicas/tienda-pos/pkg/logger"
)

// DefaultListLimit tope del listado de ventas recientes.
const DefaultListLimit = 200

// UseCase motor transaccional de ventas: cada línea registrada descuenta stock y cada
// anulación lo repone, siempre dentro de la misma transacción que la fila de venta.
type UseCase struct {
	tx        ports.TxRunner
	stores    ports.StoreResolver
	backups   ports.Snapshotter
	log       *logger.Logger
	listLimit int
}

// NewUseCase construye el caso de uso de ventas. listLimit <= 0 usa DefaultListLimit.
func NewUseCase(tx ports.TxRunner, stores ports.StoreResolver, backups ports.Snapshotter, log *logger.Logger, listLimit int) *UseCase {
	if listLimit <= 0 {
		listLimit = DefaultListLimit
	}
	return &UseCase{
		tx:        tx,
		stores:    stores,
		backups:   backups,
		log:       log,
		listLimit: listLimit,
	}
}

// RegisterSale registra todas las líneas en una transacción. Si una línea falla
// (p. ej. código inexistente) no queda ninguna venta ni cambio de stock.
func (uc *UseCase) RegisterSale(ctx context.Context, tenantID string, lines []dto.SaleLineRequest) (*dto.RegisterSaleResponse, error) {
	ids, err := uc.register(ctx, tenantID, "register_sale", "", lines)
	if err != nil {
		return nil, err
	}
	uc.backups.Snapshot(ctx, tenantID, "Venta registrada", fmt.Sprintf("Líneas: %d", len(ids)))
	return &dto.RegisterSaleResponse{IDs: ids}, nil
}

// RegisterGroupedSale registra una venta múltiple bajo un mismo grupo. Sin groupID se genera uno.
func (uc *UseCase) RegisterGroupedSale(ctx context.Context, tenantID, groupID string, lines []dto.SaleLineRequest) (*dto.GroupedSaleResponse, error) {
	groupID = strings.TrimSpace(groupID)
	if groupID == "" {
		groupID = uuid.NewString()
	}
	ids, err := uc.register(ctx, tenantID, "register_grouped_sale", groupID, lines)
	if err != nil {
		return nil, err
	}
	uc.backups.Snapshot(ctx, tenantID, "Venta múltiple", fmt.Sprintf("Grupo: %s, líneas: %d", groupID, len(ids)))
	return &dto.GroupedSaleResponse{GroupID: groupID, Count: len(ids), IDs: ids}, nil
}

func (uc *UseCase) register(ctx context.Context, tenantID, operation, groupID string, lines []dto.SaleLineRequest) ([]int64, error) {
	if len(lines) == 0 {
		return nil, domain.Invalid("la venta no tiene líneas")
	}
	sales := make([]*entity.Sale, len(lines))
	for i, line := range lines {
		s, err := toSale(line)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", i+1, err)
		}
		s.GroupID = groupID
		sales[i] = s
	}

	ids := make([]int64, 0, len(sales))
	err := uc.tx.Run(ctx, tenantID, operation, func(repos repository.Repositories) error {
		ids = ids[:0]
		for _, s := range sales {
			if err := settle(ctx, repos, s); err != nil {
				return err
			}
			ids = append(ids, s.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// settle inserta la línea y aplica stock = stock - cantidad. Cantidad cero no toca stock.
func settle(ctx context.Context, repos repository.Repositories, s *entity.Sale) error {
	if err := repos.Sales.Create(ctx, s); err != nil {
		return err
	}
	if !s.HasProduct() || s.Quantity == 0 {
		return nil
	}
	return repos.Products.AdjustStock(ctx, s.ProductCode, -s.Quantity)
}

// reverse elimina la línea y aplica stock = stock + cantidad. Devuelve las unidades repuestas.
func (uc *UseCase) reverse(ctx context.Context, tenantID string, repos repository.Repositories, s *entity.Sale) (int64, error) {
	if err := repos.Sales.Delete(ctx, s.ID); err != nil {
		return 0, err
	}
	if !s.HasProduct() || s.Quantity == 0 {
		return 0, nil
	}
	if err := repos.Products.AdjustStock(ctx, s.ProductCode, s.Quantity); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			uc.log.Tenant(tenantID).Warn().Int64("sale_id", s.ID).Str("code", s.ProductCode).
				Msg("venta anulada sin producto para reponer stock")
			return 0, nil
		}
		return 0, err
	}
	return s.Quantity, nil
}

// VoidSale anula una línea y repone su cantidad al stock. ErrSaleNotFound si no existe.
func (uc *UseCase) VoidSale(ctx context.Context, tenantID string, id int64) (*dto.VoidSaleResponse, error) {
	var restored int64
	err := uc.tx.Run(ctx, tenantID, "void_sale", func(repos repository.Repositories) error {
		s, err := repos.Sales.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrSaleNotFound
		}
		restored, err = uc.reverse(ctx, tenantID, repos, s)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.backups.Snapshot(ctx, tenantID, "Venta anulada", fmt.Sprintf("ID: %d, unidades repuestas: %d", id, restored))
	return &dto.VoidSaleResponse{ID: id, Restored: restored}, nil
}

// VoidGroup anula todas las líneas de un grupo en una transacción.
func (uc *UseCase) VoidGroup(ctx context.Context, tenantID, groupID string) (*dto.VoidGroupResponse, error) {
	groupID = strings.TrimSpace(groupID)
	if groupID == "" {
		return nil, domain.Invalid("grupo requerido")
	}
	out := &dto.VoidGroupResponse{GroupID: groupID}
	err := uc.tx.Run(ctx, tenantID, "void_group", func(repos repository.Repositories) error {
		lines, err := repos.Sales.ListByGroup(ctx, groupID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return domain.ErrSaleNotFound
		}
		out.Voided, out.Restored = 0, 0
		for _, s := range lines {
			n, err := uc.reverse(ctx, tenantID, repos, s)
			if err != nil {
				return err
			}
			out.Voided++
			out.Restored += n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.backups.Snapshot(ctx, tenantID, "Venta múltiple anulada", fmt.Sprintf("Grupo: %s, líneas: %d", groupID, out.Voided))
	return out, nil
}

// UpdateNote corrige la nota de una venta.
func (uc *UseCase) UpdateNote(ctx context.Context, tenantID string, id int64, note string) error {
	err := uc.tx.Run(ctx, tenantID, "update_sale_note", func(repos repository.Repositories) error {
		return repos.Sales.UpdateNote(ctx, id, strings.TrimSpace(note))
	})
	if err != nil {
		return err
	}
	uc.backups.Snapshot(ctx, tenantID, "Detalle de venta editado", fmt.Sprintf("ID: %d", id))
	return nil
}

// List últimas ventas, más recientes primero. limit <= 0 o mayor al tope usa el tope configurado.
func (uc *UseCase) List(ctx context.Context, tenantID string, limit int) ([]dto.SaleResponse, error) {
	if limit <= 0 || limit > uc.listLimit {
		limit = uc.listLimit
	}
	repos, err := uc.stores.Repositories(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	list, err := repos.Sales.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return ToSaleResponses(list), nil
}

// ListByDate ventas de un día (YYYY-MM-DD) en orden de registro.
func (uc *UseCase) ListByDate(ctx context.Context, tenantID, date string) ([]dto.SaleResponse, error) {
	if !domain.ValidDate(date) {
		return nil, domain.Invalid("fecha %q (se espera YYYY-MM-DD)", date)
	}
	repos, err := uc.stores.Repositories(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	list, err := repos.Sales.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	return ToSaleResponses(list), nil
}

func toSale(in dto.SaleLineRequest) (*entity.Sale, error) {
	date, err := domain.RequireDate(in.Date)
	if err != nil {
		return nil, err
	}
	if in.UnitPrice.IsNegative() {
		return nil, domain.Invalid("precio negativo")
	}
	if !domainsales.ValidDiscount(in.Discount) {
		return nil, domain.Invalid("descuento fuera de rango 0-100: %s", in.Discount)
	}
	invoice := strings.ToUpper(strings.TrimSpace(in.InvoiceClass))
	if invoice != "" && invoice != entity.InvoiceA && invoice != entity.InvoiceB {
		return nil, domain.Invalid("factura %q (A o B)", in.InvoiceClass)
	}
	return &entity.Sale{
		Date:         date,
		ProductCode:  strings.TrimSpace(in.ProductCode),
		Quantity:     in.Quantity,
		UnitPrice:    in.UnitPrice,
		Discount:     in.Discount,
		Category:     strings.TrimSpace(in.Category),
		InvoiceClass: invoice,
		PaymentType:  strings.TrimSpace(in.PaymentType),
		Note:         strings.TrimSpace(in.Note),
		Register:     strings.TrimSpace(in.Register),
	}, nil
}

// ToSaleResponse convierte una línea de venta incluyendo su total.
func ToSaleResponse(s *entity.Sale) dto.SaleResponse {
	return dto.SaleResponse{
		ID:           s.ID,
		Date:         s.Date,
		ProductCode:  s.ProductCode,
		Description:  s.Description,
		Quantity:     s.Quantity,
		UnitPrice:    s.UnitPrice,
		Discount:     s.Discount,
		Total:        domainsales.LineTotal(s.UnitPrice, s.Discount, s.Quantity),
		Category:     s.Category,
		InvoiceClass: s.InvoiceClass,
		PaymentType:  s.PaymentType,
		Note:         s.Note,
		Register:     s.Register,
		GroupID:      s.GroupID,
	}
}

// ToSaleResponses convierte una lista; nunca devuelve nil.
func ToSaleResponses(list []*entity.Sale) []dto.SaleResponse {
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, ToSaleResponse(s))
	}
	return out
}
