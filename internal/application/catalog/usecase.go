package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/application/ports"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
	"github.com/jhoicas/tienda-pos/pkg/logger"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100

	// MaxDescriptionCodes tope de códigos por consulta de descripciones.
	MaxDescriptionCodes = 1000
)

// UseCase casos de uso del catálogo de productos de un comercio.
type UseCase struct {
	tx      ports.TxRunner
	stores  ports.StoreResolver
	backups ports.Snapshotter
	log     *logger.Logger
}

// NewUseCase construye el caso de uso de catálogo.
func NewUseCase(tx ports.TxRunner, stores ports.StoreResolver, backups ports.Snapshotter, log *logger.Logger) *UseCase {
	return &UseCase{tx: tx, stores: stores, backups: backups, log: log}
}

// Get obtiene un producto por código.
func (uc *UseCase) Get(ctx context.Context, tenantID, code string) (*dto.ProductResponse, error) {
	repos, err := uc.stores.Repositories(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	p, err := repos.Products.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	return toProductResponse(p), nil
}

// List devuelve el catálogo completo ordenado por código.
func (uc *UseCase) List(ctx context.Context, tenantID string) ([]dto.ProductResponse, error) {
	repos, err := uc.stores.Repositories(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	list, err := repos.Products.List(ctx)
	if err != nil {
		return nil, err
	}
	return toProductResponses(list), nil
}

// Search busca por código exacto, prefijo de código y luego descripción.
func (uc *UseCase) Search(ctx context.Context, tenantID, term string, limit int) ([]dto.ProductResponse, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []dto.ProductResponse{}, nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	repos, err := uc.stores.Repositories(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	list, err := repos.Products.Search(ctx, term, limit)
	if err != nil {
		return nil, err
	}
	return toProductResponses(list), nil
}

// Descriptions devuelve código -> descripción; los códigos inexistentes se omiten.
// Más de MaxDescriptionCodes códigos distintos es ErrInvalidInput.
func (uc *UseCase) Descriptions(ctx context.Context, tenantID string, codes []string) (map[string]string, error) {
	seen := make(map[string]struct{}, len(codes))
	clean := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.TrimSpace(c)
		if _, dup := seen[c]; c == "" || dup {
			continue
		}
		seen[c] = struct{}{}
		clean = append(clean, c)
	}
	if len(clean) > MaxDescriptionCodes {
		return nil, domain.Invalid("demasiados códigos: %d (máximo %d)", len(clean), MaxDescriptionCodes)
	}
	repos, err := uc.stores.Repositories(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return repos.Products.Descriptions(ctx, clean)
}

// Create da de alta un producto. ErrDuplicate si el código ya existe.
func (uc *UseCase) Create(ctx context.Context, tenantID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	p := &entity.Product{
		Code:        strings.TrimSpace(in.Code),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Price:       in.Price,
		Cost:        in.Cost,
		Stock:       in.Stock,
	}
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	err := uc.tx.Run(ctx, tenantID, "create_product", func(repos repository.Repositories) error {
		return repos.Products.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	uc.backups.Snapshot(ctx, tenantID, "Producto creado", p.Code)
	return toProductResponse(p), nil
}

// Update modifica precio, costo, stock final (absoluto) y opcionalmente descripción y categoría.
func (uc *UseCase) Update(ctx context.Context, tenantID, code string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var updated *entity.Product
	err := uc.tx.Run(ctx, tenantID, "update_product", func(repos repository.Repositories) error {
		p, err := repos.Products.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrProductNotFound
		}
		if in.Description != nil {
			p.Description = strings.TrimSpace(*in.Description)
		}
		if in.Category != nil {
			p.Category = strings.TrimSpace(*in.Category)
		}
		if in.Price != nil {
			p.Price = *in.Price
		}
		if in.Cost != nil {
			p.Cost = *in.Cost
		}
		if in.StockFinal != nil {
			p.Stock = *in.StockFinal
		}
		if err := validateProduct(p); err != nil {
			return err
		}
		updated = p
		return repos.Products.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	uc.backups.Snapshot(ctx, tenantID, "Producto actualizado", code)
	return toProductResponse(updated), nil
}

// SetStock fija el stock absoluto de un producto.
func (uc *UseCase) SetStock(ctx context.Context, tenantID, code string, stock int64) error {
	err := uc.tx.Run(ctx, tenantID, "set_stock", func(repos repository.Repositories) error {
		return repos.Products.SetStock(ctx, code, stock)
	})
	if err != nil {
		return err
	}
	uc.backups.Snapshot(ctx, tenantID, "Stock actualizado", fmt.Sprintf("%s: %d", code, stock))
	return nil
}

// Delete elimina un producto. Si tiene ventas registradas la baja se rechaza con ErrConflict
// para no dejar líneas de venta sin artículo.
func (uc *UseCase) Delete(ctx context.Context, tenantID, code string) error {
	err := uc.tx.Run(ctx, tenantID, "delete_product", func(repos repository.Repositories) error {
		n, err := repos.Sales.CountByProduct(ctx, code)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: el producto %s tiene %d ventas registradas", domain.ErrConflict, code, n)
		}
		return repos.Products.Delete(ctx, code)
	})
	if err != nil {
		return err
	}
	uc.backups.Snapshot(ctx, tenantID, "Producto eliminado", code)
	return nil
}

func validateProduct(p *entity.Product) error {
	if p.Code == "" {
		return domain.Invalid("código requerido")
	}
	if p.Price.IsNegative() {
		return domain.Invalid("precio negativo")
	}
	if p.Cost.IsNegative() {
		return domain.Invalid("costo negativo")
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		Code:        p.Code,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Cost:        p.Cost,
		Stock:       p.Stock,
	}
}

func toProductResponses(list []*entity.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toProductResponse(p))
	}
	return out
}

func valueOr(p *decimal.Decimal, def decimal.Decimal) decimal.Decimal {
	if p == nil {
		return def
	}
	return *p
}
