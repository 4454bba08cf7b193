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

var _ repository.CashRepository = (*CashRepo)(nil)

// CashRepo caja inicial y movimientos de caja sobre SQLite.
type CashRepo struct {
	q Querier
}

// NewCashRepository construye el adaptador. Pasar db o tx (Querier).
func NewCashRepository(q Querier) *CashRepo {
	return &CashRepo{q: q}
}

// GetOpeningFloat caja inicial de un día.
func (r *CashRepo) GetOpeningFloat(ctx context.Context, date string) (decimal.Decimal, bool, error) {
	var amount decimal.NullDecimal
	err := r.q.QueryRowContext(ctx, `SELECT monto FROM cajaInicial WHERE fecha = ?`, date).Scan(&amount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, fmt.Errorf("get opening float: %w", err)
	}
	return money(amount), true, nil
}

// UpsertOpeningFloat inserta o reemplaza la caja inicial del día.
func (r *CashRepo) UpsertOpeningFloat(ctx context.Context, date string, amount decimal.Decimal) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO cajaInicial (fecha, monto) VALUES (?, ?)
		ON CONFLICT(fecha) DO UPDATE SET monto = excluded.monto`, date, amount)
	if err != nil {
		return fmt.Errorf("upsert opening float: %w", err)
	}
	return nil
}

// CreateMovement registra un ingreso/egreso de caja.
func (r *CashRepo) CreateMovement(ctx context.Context, m *entity.CashMovement) error {
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO movimientosCaja (fecha, tipo, monto, detalle) VALUES (?, ?, ?, ?)`,
		m.Date, m.Kind, m.Amount, m.Detail)
	if err != nil {
		return fmt.Errorf("insert cash movement: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("cash movement id: %w", err)
	}
	m.ID = id
	return nil
}

// ListMovements movimientos de caja de un día en orden de registro. El tipo se normaliza
// (ingreso/egreso de bases anteriores).
func (r *CashRepo) ListMovements(ctx context.Context, date string) ([]*entity.CashMovement, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, fecha, tipo, monto, detalle FROM movimientosCaja WHERE fecha = ? ORDER BY id`, date)
	if err != nil {
		return nil, fmt.Errorf("list cash movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.CashMovement
	for rows.Next() {
		var (
			m      entity.CashMovement
			detail sql.NullString
			amount decimal.NullDecimal
		)
		if err := rows.Scan(&m.ID, &m.Date, &m.Kind, &amount, &detail); err != nil {
			return nil, fmt.Errorf("scan cash movement: %w", err)
		}
		if k, ok := entity.ParseCashKind(m.Kind); ok {
			m.Kind = k
		}
		m.Amount = money(amount)
		m.Detail = detail.String
		list = append(list, &m)
	}
	return list, rows.Err()
}

// UpdateMovementDetail corrige el detalle de un movimiento de caja.
func (r *CashRepo) UpdateMovementDetail(ctx context.Context, id int64, detail string) error {
	res, err := r.q.ExecContext(ctx, `UPDATE movimientosCaja SET detalle = ? WHERE id = ?`, detail, id)
	if err != nil {
		return fmt.Errorf("update cash movement: %w", err)
	}
	return requireAffected(res, domain.ErrNotFound)
}

// DeleteMovement elimina un movimiento de caja.
func (r *CashRepo) DeleteMovement(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM movimientosCaja WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete cash movement: %w", err)
	}
	return requireAffected(res, domain.ErrNotFound)
}
