package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

var _ repository.ExchangeRepository = (*ExchangeRepo)(nil)

const exchangeSelect = `
	SELECT id, CAST(fecha AS TEXT), articuloDevuelto, articuloNuevo, precioDevuelto, precioNuevo,
	       diferencia, comentarios, ventaDiferenciaId, movimientoCreditoId
	FROM cambios`

// ExchangeRepo cambios de mercadería sobre SQLite.
type ExchangeRepo struct {
	q Querier
}

// NewExchangeRepository construye el adaptador. Pasar db o tx (Querier).
func NewExchangeRepository(q Querier) *ExchangeRepo {
	return &ExchangeRepo{q: q}
}

func scanExchange(s rowScanner) (*entity.Exchange, error) {
	var (
		ex                        entity.Exchange
		date, returned, delivered sql.NullString
		note                      sql.NullString
		retPrice, delPrice, diff  decimal.NullDecimal
		saleID, creditID          sql.NullInt64
	)
	if err := s.Scan(&ex.ID, &date, &returned, &delivered, &retPrice, &delPrice, &diff, &note, &saleID, &creditID); err != nil {
		return nil, err
	}
	ex.Date = date.String
	ex.ReturnedCode = returned.String
	ex.DeliveredCode = delivered.String
	ex.ReturnedPrice = money(retPrice)
	ex.DeliveredPrice = money(delPrice)
	ex.Difference = money(diff)
	ex.Note = note.String
	if saleID.Valid {
		id := saleID.Int64
		ex.DifferenceSaleID = &id
	}
	if creditID.Valid {
		id := creditID.Int64
		ex.CreditMovementID = &id
	}
	return &ex, nil
}

// Create registra el cambio y asigna su ID.
func (r *ExchangeRepo) Create(ctx context.Context, ex *entity.Exchange) error {
	var saleID, creditID any
	if ex.DifferenceSaleID != nil {
		saleID = *ex.DifferenceSaleID
	}
	if ex.CreditMovementID != nil {
		creditID = *ex.CreditMovementID
	}
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO cambios (fecha, articuloDevuelto, articuloNuevo, precioDevuelto, precioNuevo, diferencia, comentarios, ventaDiferenciaId, movimientoCreditoId)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ex.Date, ex.ReturnedCode, ex.DeliveredCode, ex.ReturnedPrice, ex.DeliveredPrice,
		ex.Difference, ex.Note, saleID, creditID)
	if err != nil {
		return fmt.Errorf("insert exchange: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("exchange id: %w", err)
	}
	ex.ID = id
	return nil
}

// GetByID obtiene un cambio.
func (r *ExchangeRepo) GetByID(ctx context.Context, id int64) (*entity.Exchange, error) {
	ex, err := scanExchange(r.q.QueryRowContext(ctx, exchangeSelect+` WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get exchange: %w", err)
	}
	return ex, nil
}

// List cambios en el rango [from, to], más recientes primero.
func (r *ExchangeRepo) List(ctx context.Context, from, to string) ([]*entity.Exchange, error) {
	var (
		where []string
		args  []any
	)
	if from != "" {
		where = append(where, `fecha >= ?`)
		args = append(args, from)
	}
	if to != "" {
		where = append(where, `fecha <= ?`)
		args = append(args, to)
	}
	query := exchangeSelect
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY fecha DESC, id DESC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list exchanges: %w", err)
	}
	defer rows.Close()
	var list []*entity.Exchange
	for rows.Next() {
		ex, err := scanExchange(rows)
		if err != nil {
			return nil, fmt.Errorf("scan exchange: %w", err)
		}
		list = append(list, ex)
	}
	return list, rows.Err()
}

// Delete elimina el registro del cambio.
func (r *ExchangeRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM cambios WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete exchange: %w", err)
	}
	return requireAffected(res, domain.ErrExchangeNotFound)
}
