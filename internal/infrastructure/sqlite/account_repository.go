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

var (
	_ repository.AccountRepository         = (*AccountRepo)(nil)
	_ repository.AccountMovementRepository = (*AccountMovementRepo)(nil)
)

// AccountRepo cuentas corrientes sobre SQLite.
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador. Pasar db o tx (Querier).
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

func scanAccount(s rowScanner) (*entity.Account, error) {
	var (
		a            entity.Account
		debt, credit decimal.NullDecimal
	)
	if err := s.Scan(&a.Customer, &debt, &credit); err != nil {
		return nil, err
	}
	a.Debt = money(debt)
	a.Credit = money(credit)
	return &a, nil
}

// CreateIfNotExists inserta la cuenta si no existe.
func (r *AccountRepo) CreateIfNotExists(ctx context.Context, customer string) (bool, error) {
	res, err := r.q.ExecContext(ctx,
		`INSERT OR IGNORE INTO cuentasCorrientes (cliente, deuda, pagos) VALUES (?, 0, 0)`, customer)
	if err != nil {
		return false, fmt.Errorf("insert account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// Get obtiene la cuenta de un cliente.
func (r *AccountRepo) Get(ctx context.Context, customer string) (*entity.Account, error) {
	a, err := scanAccount(r.q.QueryRowContext(ctx,
		`SELECT cliente, deuda, pagos FROM cuentasCorrientes WHERE cliente = ?`, customer))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

// List lista las cuentas por nombre de cliente.
func (r *AccountRepo) List(ctx context.Context) ([]*entity.Account, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT cliente, deuda, pagos FROM cuentasCorrientes ORDER BY cliente`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// AddToBalance lee el acumulado, suma en decimal y lo reescribe. Debe correr dentro de una
// transacción (BEGIN IMMEDIATE) para que la lectura y la escritura no se intercalen.
func (r *AccountRepo) AddToBalance(ctx context.Context, customer, kind string, amount decimal.Decimal) error {
	acc, err := r.Get(ctx, customer)
	if err != nil {
		return err
	}
	if acc == nil {
		return domain.ErrAccountNotFound
	}
	switch kind {
	case entity.MovementDebt:
		acc.Debt = acc.Debt.Add(amount)
	case entity.MovementCredit:
		acc.Credit = acc.Credit.Add(amount)
	default:
		return domain.Invalid("tipo de movimiento %q", kind)
	}
	res, err := r.q.ExecContext(ctx,
		`UPDATE cuentasCorrientes SET deuda = ?, pagos = ? WHERE cliente = ?`,
		acc.Debt, acc.Credit, customer)
	if err != nil {
		return fmt.Errorf("update account balance: %w", err)
	}
	return requireAffected(res, domain.ErrAccountNotFound)
}

// Delete elimina la cuenta. Los movimientos deben borrarse antes.
func (r *AccountRepo) Delete(ctx context.Context, customer string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM cuentasCorrientes WHERE cliente = ?`, customer)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return requireAffected(res, domain.ErrAccountNotFound)
}

// AccountMovementRepo movimientos de cuenta corriente sobre SQLite.
type AccountMovementRepo struct {
	q Querier
}

// NewAccountMovementRepository construye el adaptador. Pasar db o tx (Querier).
func NewAccountMovementRepository(q Querier) *AccountMovementRepo {
	return &AccountMovementRepo{q: q}
}

// Create inserta un movimiento. Un cliente sin cuenta es ErrAccountNotFound.
func (r *AccountMovementRepo) Create(ctx context.Context, m *entity.AccountMovement) error {
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO movimientosCuentas (cliente, tipo, monto, fecha, comentario) VALUES (?, ?, ?, ?, ?)`,
		m.Customer, m.Kind, m.Amount, m.Date, m.Comment)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrAccountNotFound
		}
		return fmt.Errorf("insert account movement: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("movement id: %w", err)
	}
	m.ID = id
	return nil
}

const movementSelect = `SELECT id, cliente, tipo, monto, fecha, comentario FROM movimientosCuentas`

// scanMovement normaliza el tipo para aceptar los valores de bases anteriores (deuda/pago).
func scanMovement(s rowScanner) (*entity.AccountMovement, error) {
	var (
		m                   entity.AccountMovement
		kind, date, comment sql.NullString
		amount              decimal.NullDecimal
	)
	if err := s.Scan(&m.ID, &m.Customer, &kind, &amount, &date, &comment); err != nil {
		return nil, err
	}
	if k, ok := entity.ParseMovementKind(kind.String); ok {
		m.Kind = k
	} else {
		m.Kind = kind.String
	}
	m.Amount = money(amount)
	m.Date = date.String
	m.Comment = comment.String
	return &m, nil
}

// GetByID devuelve nil, nil si no existe.
func (r *AccountMovementRepo) GetByID(ctx context.Context, id int64) (*entity.AccountMovement, error) {
	m, err := scanMovement(r.q.QueryRowContext(ctx, movementSelect+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get account movement: %w", err)
	}
	return m, nil
}

// ListByCustomer movimientos de un cliente, más recientes primero.
func (r *AccountMovementRepo) ListByCustomer(ctx context.Context, customer string) ([]*entity.AccountMovement, error) {
	rows, err := r.q.QueryContext(ctx, movementSelect+` WHERE cliente = ? ORDER BY fecha DESC, id DESC`, customer)
	if err != nil {
		return nil, fmt.Errorf("list account movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.AccountMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// UpdateComment corrige el comentario de un movimiento (único campo mutable).
func (r *AccountMovementRepo) UpdateComment(ctx context.Context, id int64, comment string) error {
	res, err := r.q.ExecContext(ctx, `UPDATE movimientosCuentas SET comentario = ? WHERE id = ?`, comment, id)
	if err != nil {
		return fmt.Errorf("update movement comment: %w", err)
	}
	return requireAffected(res, domain.ErrNotFound)
}

// Delete borra un movimiento. No toca los acumulados de la cuenta.
func (r *AccountMovementRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM movimientosCuentas WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete account movement: %w", err)
	}
	return requireAffected(res, domain.ErrNotFound)
}

// DeleteByCustomer borra todos los movimientos de un cliente.
func (r *AccountMovementRepo) DeleteByCustomer(ctx context.Context, customer string) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM movimientosCuentas WHERE cliente = ?`, customer)
	if err != nil {
		return 0, fmt.Errorf("delete account movements: %w", err)
	}
	return res.RowsAffected()
}
