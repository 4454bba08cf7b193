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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `codigo, descripcion, categoria, precioPublico, costo, stock`

// ProductRepo implementación del puerto ProductRepository sobre SQLite (usable con db o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar db o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(s rowScanner) (*entity.Product, error) {
	var (
		p           entity.Product
		desc, cat   sql.NullString
		price, cost decimal.NullDecimal
		stock       sql.NullInt64
	)
	if err := s.Scan(&p.Code, &desc, &cat, &price, &cost, &stock); err != nil {
		return nil, err
	}
	p.Description = desc.String
	p.Category = cat.String
	p.Price = money(price)
	p.Cost = money(cost)
	p.Stock = stock.Int64
	return &p, nil
}

// Create persiste un nuevo producto. ErrDuplicate si el código ya existe.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO productos (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		p.Code, p.Description, p.Category, p.Price, p.Cost, p.Stock,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByCode obtiene un producto por código.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+productColumns+` FROM productos WHERE codigo = ?`, code)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// List lista el catálogo completo ordenado por código.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	return r.query(ctx, `SELECT `+productColumns+` FROM productos ORDER BY codigo`)
}

// Update reemplaza los atributos editables del producto.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE productos SET descripcion = ?, categoria = ?, precioPublico = ?, costo = ?, stock = ? WHERE codigo = ?`,
		p.Description, p.Category, p.Price, p.Cost, p.Stock, p.Code,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return requireAffected(res, domain.ErrProductNotFound)
}

// SetStock fija el stock absoluto de un producto.
func (r *ProductRepo) SetStock(ctx context.Context, code string, stock int64) error {
	res, err := r.q.ExecContext(ctx, `UPDATE productos SET stock = ? WHERE codigo = ?`, stock, code)
	if err != nil {
		return fmt.Errorf("set stock: %w", err)
	}
	return requireAffected(res, domain.ErrProductNotFound)
}

// AdjustStock suma delta al stock en SQL (aritmética entera, sin lectura previa).
func (r *ProductRepo) AdjustStock(ctx context.Context, code string, delta int64) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE productos SET stock = COALESCE(stock, 0) + ? WHERE codigo = ?`, delta, code)
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	return requireAffected(res, domain.ErrProductNotFound)
}

// Delete elimina un producto por código.
func (r *ProductRepo) Delete(ctx context.Context, code string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM productos WHERE codigo = ?`, code)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete product: %w", err)
	}
	return requireAffected(res, domain.ErrProductNotFound)
}

// Search busca por código exacto, prefijo de código o subcadena de descripción, en ese orden.
func (r *ProductRepo) Search(ctx context.Context, term string, limit int) ([]*entity.Product, error) {
	esc := escapeLike(term)
	return r.query(ctx, `
		SELECT `+productColumns+` FROM productos
		WHERE codigo = ? OR codigo LIKE ? ESCAPE '\' OR descripcion LIKE ? ESCAPE '\'
		ORDER BY CASE
			WHEN codigo = ? THEN 0
			WHEN codigo LIKE ? ESCAPE '\' THEN 1
			ELSE 2 END, codigo
		LIMIT ?`,
		term, esc+"%", "%"+esc+"%", term, esc+"%", limit,
	)
}

// descriptionsBatch parámetros por consulta IN, por debajo del límite de variables de SQLite.
const descriptionsBatch = 500

// Descriptions devuelve código -> descripción para los códigos existentes.
// Los códigos se consultan en tandas de descriptionsBatch.
func (r *ProductRepo) Descriptions(ctx context.Context, codes []string) (map[string]string, error) {
	out := make(map[string]string, len(codes))
	for start := 0; start < len(codes); start += descriptionsBatch {
		end := min(start+descriptionsBatch, len(codes))
		if err := r.descriptions(ctx, codes[start:end], out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *ProductRepo) descriptions(ctx context.Context, codes []string, out map[string]string) error {
	args := make([]any, len(codes))
	for i, c := range codes {
		args[i] = c
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(codes)), ",")
	rows, err := r.q.QueryContext(ctx,
		`SELECT codigo, descripcion FROM productos WHERE codigo IN (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("product descriptions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var code string
		var desc sql.NullString
		if err := rows.Scan(&code, &desc); err != nil {
			return fmt.Errorf("scan description: %w", err)
		}
		out[code] = desc.String
	}
	return rows.Err()
}

func (r *ProductRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// requireAffected devuelve notFound si la sentencia no afectó filas.
func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
