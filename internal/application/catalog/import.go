package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

// UpsertMany aplica filas importadas en una sola transacción.
//
// Modo full: inserta los códigos nuevos y sobrescribe en los existentes toda columna
// presente en la fila. Modo attributes: solo actualiza precio, costo y stock presentes
// en la fila sobre códigos existentes; los códigos desconocidos se omiten.
// Las filas inválidas se informan en Errors sin abortar el lote.
func (uc *UseCase) UpsertMany(ctx context.Context, tenantID string, rows []dto.ProductImportRow, mode string) (*dto.ImportResult, error) {
	if mode == "" {
		mode = dto.ImportModeFull
	}
	if mode != dto.ImportModeFull && mode != dto.ImportModeAttributes {
		return nil, domain.Invalid("modo de importación %q (full | attributes)", mode)
	}

	res := &dto.ImportResult{Errors: []dto.ImportRowError{}}
	err := uc.tx.Run(ctx, tenantID, "import_products", func(repos repository.Repositories) error {
		for _, row := range rows {
			outcome, err := applyRow(ctx, repos.Products, row, mode)
			if err != nil {
				if domain.IsDomainError(err) {
					res.Errors = append(res.Errors, dto.ImportRowError{Line: row.Line, Code: row.Code, Message: err.Error()})
					continue
				}
				return err
			}
			switch outcome {
			case outcomeInserted:
				res.Inserted++
			case outcomeUpdated:
				res.Updated++
			default:
				res.Skipped++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if res.Inserted+res.Updated > 0 {
		uc.backups.Snapshot(ctx, tenantID, "Importación de productos",
			fmt.Sprintf("modo %s, nuevos: %d, actualizados: %d, omitidos: %d, errores: %d",
				mode, res.Inserted, res.Updated, res.Skipped, len(res.Errors)))
	}
	uc.log.Tenant(tenantID).Info().
		Str("mode", mode).
		Int("inserted", res.Inserted).
		Int("updated", res.Updated).
		Int("skipped", res.Skipped).
		Int("errors", len(res.Errors)).
		Msg("importación de productos")
	return res, nil
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeInserted
	outcomeUpdated
)

func applyRow(ctx context.Context, products repository.ProductRepository, row dto.ProductImportRow, mode string) (outcome, error) {
	code := strings.TrimSpace(row.Code)
	if code == "" {
		return outcomeSkipped, domain.Invalid("fila sin código")
	}
	if row.Price != nil && row.Price.IsNegative() {
		return outcomeSkipped, domain.Invalid("precio negativo")
	}
	if row.Cost != nil && row.Cost.IsNegative() {
		return outcomeSkipped, domain.Invalid("costo negativo")
	}

	existing, err := products.GetByCode(ctx, code)
	if err != nil {
		return outcomeSkipped, err
	}

	if existing == nil {
		if mode == dto.ImportModeAttributes {
			return outcomeSkipped, nil
		}
		p := &entity.Product{Code: code}
		patch(p, row, true)
		if err := products.Create(ctx, p); err != nil {
			return outcomeSkipped, err
		}
		return outcomeInserted, nil
	}

	patch(existing, row, mode == dto.ImportModeFull)
	if err := products.Update(ctx, existing); err != nil {
		return outcomeSkipped, err
	}
	return outcomeUpdated, nil
}

// patch copia sobre p las columnas presentes en la fila. Descripción y categoría
// solo cuando withText es true.
func patch(p *entity.Product, row dto.ProductImportRow, withText bool) {
	if withText {
		if row.Description != nil {
			p.Description = strings.TrimSpace(*row.Description)
		}
		if row.Category != nil {
			p.Category = strings.TrimSpace(*row.Category)
		}
	}
	p.Price = valueOr(row.Price, p.Price)
	p.Cost = valueOr(row.Cost, p.Cost)
	if row.Stock != nil {
		p.Stock = *row.Stock
	}
}
