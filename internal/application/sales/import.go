package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

// historyRegister caja asignada a las ventas importadas.
const historyRegister = "Principal"

// ImportHistory carga ventas históricas en una transacción sin tocar el stock: son ventas
// ya ocurridas cuyo stock se informa aparte. Las filas rechazadas al leer el archivo y las
// que fallan aquí (código inexistente, fecha inválida) cuentan como omitidas.
func (uc *UseCase) ImportHistory(ctx context.Context, tenantID string, rows []dto.SaleImportRow, rejected []dto.ImportRowError) (*dto.SaleImportResult, error) {
	res := &dto.SaleImportResult{Errors: append([]dto.ImportRowError{}, rejected...)}
	err := uc.tx.Run(ctx, tenantID, "import_sales", func(repos repository.Repositories) error {
		res.Imported = 0
		res.Errors = res.Errors[:len(rejected)]
		for _, row := range rows {
			err := importRow(ctx, repos.Sales, row)
			if err != nil {
				if domain.IsDomainError(err) {
					res.Errors = append(res.Errors, dto.ImportRowError{Line: row.Line, Code: row.ProductCode, Message: err.Error()})
					continue
				}
				return err
			}
			res.Imported++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Skipped = len(res.Errors)

	if res.Imported > 0 {
		uc.backups.Snapshot(ctx, tenantID, "Importación CSV",
			fmt.Sprintf("%d ventas importadas, %d omitidas", res.Imported, res.Skipped))
	}
	uc.log.Tenant(tenantID).Info().
		Int("imported", res.Imported).
		Int("skipped", res.Skipped).
		Msg("importación de ventas")
	return res, nil
}

func importRow(ctx context.Context, sales repository.SaleRepository, row dto.SaleImportRow) error {
	if !domain.ValidDate(row.Date) {
		return domain.Invalid("fecha %q (se espera YYYY-MM-DD)", row.Date)
	}
	if row.ProductCode == "" || row.Quantity == 0 {
		return domain.Invalid("fila sin código o cantidad")
	}
	return sales.Create(ctx, &entity.Sale{
		Date:         row.Date,
		ProductCode:  row.ProductCode,
		Quantity:     row.Quantity,
		UnitPrice:    row.UnitPrice,
		Category:     row.Category,
		InvoiceClass: row.InvoiceClass,
		PaymentType:  row.PaymentType,
		Register:     historyRegister,
	})
}
