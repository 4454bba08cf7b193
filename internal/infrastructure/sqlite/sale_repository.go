package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// fecha se castea a TEXT: el driver convierte a time.Time las columnas declaradas DATE.
const saleSelect = `
	SELECT v.id, CAST(v.fecha AS TEXT), v.codigoArticulo, v.cantidad, v.precio, v.descuento, v.categoria,
	       v.factura, v.tipoPago, v.detalles, v.caja, v.grupoVenta, p.descripcion
	FROM ventas v
	LEFT JOIN productos p ON p.codigo = v.codigoArticulo`

// SaleRepo implementación del puerto SaleRepository sobre SQLite.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar db o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

func scanSale(s rowScanner) (*entity.Sale, error) {
	var (
		v                               entity.Sale
		date, code, cat, inv, pay, note sql.NullString
		register, group, desc           sql.NullString
		qty                             sql.NullInt64
		price, discount                 decimal.NullDecimal
	)
	if err := s.Scan(&v.ID, &date, &code, &qty, &price, &discount, &cat,
		&inv, &pay, &note, &register, &group, &desc); err != nil {
		return nil, err
	}
	v.Date = date.String
	v.ProductCode = code.String
	v.Quantity = qty.Int64
	v.UnitPrice = money(price)
	v.Discount = money(discount)
	v.Category = cat.String
	v.InvoiceClass = inv.String
	v.PaymentType = pay.String
	v.Note = note.String
	v.Register = register.String
	v.GroupID = group.String
	v.Description = desc.String
	return &v, nil
}

// Create inserta la línea de venta y asigna su ID. Un código inexistente es ErrProductNotFound.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO ventas (fecha, codigoArticulo, cantidad, precio, descuento, categoria, factura, tipoPago, detalles, caja, grupoVenta)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Date, nullString(s.ProductCode), s.Quantity, s.UnitPrice, s.Discount, s.Category,
		s.InvoiceClass, s.PaymentType, s.Note, s.Register, nullString(s.GroupID),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sale id: %w", err)
	}
	s.ID = id
	return nil
}

// GetByID obtiene una línea de venta.
func (r *SaleRepo) GetByID(ctx context.Context, id int64) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRowContext(ctx, saleSelect+` WHERE v.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// ListByGroup lista las líneas de una venta múltiple.
func (r *SaleRepo) ListByGroup(ctx context.Context, groupID string) ([]*entity.Sale, error) {
	return r.query(ctx, saleSelect+` WHERE v.grupoVenta = ? ORDER BY v.id`, groupID)
}

// Delete elimina una línea de venta.
func (r *SaleRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM ventas WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	return requireAffected(res, domain.ErrSaleNotFound)
}

// UpdateNote corrige el detalle de una venta.
func (r *SaleRepo) UpdateNote(ctx context.Context, id int64, note string) error {
	res, err := r.q.ExecContext(ctx, `UPDATE ventas SET detalles = ? WHERE id = ?`, note, id)
	if err != nil {
		return fmt.Errorf("update sale note: %w", err)
	}
	return requireAffected(res, domain.ErrSaleNotFound)
}

// ListRecent últimas ventas, más recientes primero.
func (r *SaleRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Sale, error) {
	return r.query(ctx, saleSelect+` ORDER BY v.fecha DESC, v.id DESC LIMIT ?`, limit)
}

// ListByDate ventas de un día en orden de registro.
func (r *SaleRepo) ListByDate(ctx context.Context, date string) ([]*entity.Sale, error) {
	return r.query(ctx, saleSelect+` WHERE v.fecha = ? ORDER BY v.id`, date)
}

// CountByProduct cantidad de ventas que referencian un código.
func (r *SaleRepo) CountByProduct(ctx context.Context, code string) (int64, error) {
	var n int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM ventas WHERE codigoArticulo = ?`, code).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sales by product: %w", err)
	}
	return n, nil
}

func (r *SaleRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Sale, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
