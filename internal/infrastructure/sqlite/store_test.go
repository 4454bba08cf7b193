package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/sqlite"
)

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	st, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "kiosco.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestOpen_MigracionIdempotente(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kiosco.db")
	ctx := context.Background()

	st, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	// Reabrir no debe fallar: CREATE IF NOT EXISTS y ADD COLUMN tolerante.
	st, err = sqlite.Open(ctx, path)
	require.NoError(t, err)
	defer st.Close()

	var n int
	require.NoError(t, st.DB().QueryRow(`SELECT COUNT(*) FROM ventas`).Scan(&n))
	assert.Zero(t, n)
}

func TestOpen_BaseAnteriorRecibeColumnasNuevas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legado.db")
	legacy, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = legacy.Exec(`
		CREATE TABLE productos (id INTEGER PRIMARY KEY, codigo TEXT UNIQUE NOT NULL, descripcion TEXT,
			categoria TEXT, precioPublico REAL, costo REAL, stock INTEGER DEFAULT 0);
		CREATE TABLE ventas (id INTEGER PRIMARY KEY AUTOINCREMENT, fecha DATE, codigoArticulo TEXT,
			cantidad INTEGER, precio REAL, descuento INTEGER DEFAULT 0, categoria TEXT, factura TEXT,
			tipoPago TEXT, detalles TEXT);
		CREATE TABLE cambios (id INTEGER PRIMARY KEY AUTOINCREMENT, fecha DATE, articuloDevuelto TEXT,
			articuloNuevo TEXT, precioDevuelto REAL, precioNuevo REAL, diferencia REAL, comentarios TEXT);
		INSERT INTO productos (codigo, descripcion, precioPublico, stock) VALUES ('ABC', 'Remera', 100, 3);
		INSERT INTO ventas (fecha, codigoArticulo, cantidad, precio) VALUES ('2024-01-15', 'ABC', 1, 100);`)
	require.NoError(t, err)
	require.NoError(t, legacy.Close())

	st, err := sqlite.Open(context.Background(), path)
	require.NoError(t, err)
	defer st.Close()

	sales, err := st.Repositories().Sales.ListByDate(context.Background(), "2024-01-15")
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "2024-01-15", sales[0].Date, "la fecha DATE se lee como texto")
	assert.Equal(t, "Remera", sales[0].Description)
	assert.Empty(t, sales[0].GroupID)

	_, err = st.DB().Exec(`UPDATE ventas SET grupoVenta = 'g1', caja = 'principal'`)
	assert.NoError(t, err, "las columnas agregadas por la migración deben existir")
	_, err = st.DB().Exec(`UPDATE cambios SET ventaDiferenciaId = 1, movimientoCreditoId = 1`)
	assert.NoError(t, err)
}

func TestProductRepo_CRUD(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	repo := st.Repositories().Products

	p := &entity.Product{Code: "ABC", Description: "Remera", Category: "Ropa", Price: dec("199990.5"), Cost: dec("80000"), Stock: 10}
	require.NoError(t, repo.Create(ctx, p))
	assert.ErrorIs(t, repo.Create(ctx, p), domain.ErrDuplicate)

	got, err := repo.GetByCode(ctx, "ABC")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Price.Equal(dec("199990.5")))
	assert.Equal(t, int64(10), got.Stock)

	missing, err := repo.GetByCode(ctx, "NOPE")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.AdjustStock(ctx, "ABC", -3))
	got, _ = repo.GetByCode(ctx, "ABC")
	assert.Equal(t, int64(7), got.Stock)

	assert.ErrorIs(t, repo.AdjustStock(ctx, "NOPE", 1), domain.ErrProductNotFound)
	assert.ErrorIs(t, repo.SetStock(ctx, "NOPE", 1), domain.ErrProductNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "NOPE"), domain.ErrProductNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &entity.Product{Code: "NOPE"}), domain.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, "ABC"))
	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProductRepo_SearchOrdenaPorRelevancia(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	repo := st.Repositories().Products

	for _, p := range []*entity.Product{
		{Code: "ZAP-10", Description: "Zapatilla urbana"},
		{Code: "REM", Description: "Remera con zapatos estampados"},
		{Code: "ZAP", Description: "Zapato"},
		{Code: "MED", Description: "Media"},
	} {
		require.NoError(t, repo.Create(ctx, p))
	}

	got, err := repo.Search(ctx, "zap", 10)
	require.NoError(t, err)
	codes := make([]string, len(got))
	for i, p := range got {
		codes[i] = p.Code
	}
	// LIKE es case-insensitive en ASCII; "zap" no es igual a "ZAP" así que ambos son prefijo.
	assert.Equal(t, []string{"ZAP", "ZAP-10", "REM"}, codes)

	got, err = repo.Search(ctx, "ZAP", 10)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "ZAP", got[0].Code, "coincidencia exacta primero")

	got, err = repo.Search(ctx, "%", 10)
	require.NoError(t, err)
	assert.Empty(t, got, "los comodines se escapan")
}

func TestProductRepo_Descriptions(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	repo := st.Repositories().Products
	require.NoError(t, repo.Create(ctx, &entity.Product{Code: "A", Description: "Uno"}))
	require.NoError(t, repo.Create(ctx, &entity.Product{Code: "B", Description: "Dos"}))

	m, err := repo.Descriptions(ctx, []string{"A", "B", "C"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "Uno", "B": "Dos"}, m)

	m, err = repo.Descriptions(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestProductRepo_DescriptionsEnTandas(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	repo := st.Repositories().Products

	codes := make([]string, 0, 1200)
	for i := 0; i < 1200; i++ {
		code := fmt.Sprintf("P%04d", i)
		codes = append(codes, code)
		if i%100 == 0 {
			require.NoError(t, repo.Create(ctx, &entity.Product{Code: code, Description: "Desc " + code}))
		}
	}

	m, err := repo.Descriptions(ctx, codes)
	require.NoError(t, err)
	assert.Len(t, m, 12)
	assert.Equal(t, "Desc P1100", m["P1100"], "la última tanda también se consulta")
}

func TestSaleRepo_CodigoInexistenteEsProductNotFound(t *testing.T) {
	st := openStore(t)
	err := st.Repositories().Sales.Create(context.Background(), &entity.Sale{Date: "2024-01-15", ProductCode: "NOPE", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestSaleRepo_LineaSinArticulo(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	repo := st.Repositories().Sales

	s := &entity.Sale{Date: "2024-01-15", Quantity: 0, UnitPrice: dec("50"), Note: "diferencia"}
	require.NoError(t, repo.Create(ctx, s))
	assert.NotZero(t, s.ID)

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.HasProduct())
	assert.True(t, got.UnitPrice.Equal(dec("50")))

	require.NoError(t, repo.UpdateNote(ctx, s.ID, "corregido"))
	got, _ = repo.GetByID(ctx, s.ID)
	assert.Equal(t, "corregido", got.Note)

	require.NoError(t, repo.Delete(ctx, s.ID))
	assert.ErrorIs(t, repo.Delete(ctx, s.ID), domain.ErrSaleNotFound)
}

func TestRun_RollbackAnteError(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	require.NoError(t, st.Repositories().Products.Create(ctx, &entity.Product{Code: "ABC", Stock: 10}))

	boom := errors.New("falla simulada")
	err := st.Run(ctx, func(repos repository.Repositories) error {
		if err := repos.Sales.Create(ctx, &entity.Sale{Date: "2024-01-15", ProductCode: "ABC", Quantity: 2}); err != nil {
			return err
		}
		if err := repos.Products.AdjustStock(ctx, "ABC", -2); err != nil {
			return err
		}
		return boom
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransaction, "los errores de almacenamiento se clasifican como fallo de transacción")

	p, _ := st.Repositories().Products.GetByCode(ctx, "ABC")
	assert.Equal(t, int64(10), p.Stock)
	sales, _ := st.Repositories().Sales.ListRecent(ctx, 10)
	assert.Empty(t, sales)
}

func TestRun_ErrorDeDominioPasaTalCual(t *testing.T) {
	st := openStore(t)
	err := st.Run(context.Background(), func(repos repository.Repositories) error {
		return repos.Products.AdjustStock(context.Background(), "NOPE", 1)
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.NotErrorIs(t, err, domain.ErrTransaction)
}

func TestAccountRepo_SaldoDecimal(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	repos := st.Repositories()

	created, err := repos.Accounts.CreateIfNotExists(ctx, "Juan")
	require.NoError(t, err)
	assert.True(t, created)
	created, err = repos.Accounts.CreateIfNotExists(ctx, "Juan")
	require.NoError(t, err)
	assert.False(t, created)

	require.NoError(t, repos.Accounts.AddToBalance(ctx, "Juan", entity.MovementDebt, dec("0.1")))
	require.NoError(t, repos.Accounts.AddToBalance(ctx, "Juan", entity.MovementDebt, dec("0.2")))
	require.NoError(t, repos.Accounts.AddToBalance(ctx, "Juan", entity.MovementCredit, dec("0.05")))

	acc, err := repos.Accounts.Get(ctx, "Juan")
	require.NoError(t, err)
	assert.True(t, acc.Debt.Equal(dec("0.3")), "suma en decimal, no en float: %s", acc.Debt)
	assert.True(t, acc.Balance().Equal(dec("0.25")))

	assert.ErrorIs(t, repos.Accounts.AddToBalance(ctx, "Nadie", entity.MovementDebt, dec("1")), domain.ErrAccountNotFound)
	assert.ErrorIs(t, repos.Movements.Create(ctx, &entity.AccountMovement{Customer: "Nadie", Kind: entity.MovementDebt, Amount: dec("1")}),
		domain.ErrAccountNotFound, "la clave foránea impide movimientos huérfanos")
}

func TestAccountMovementRepo_NormalizaTiposAnteriores(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	_, err := st.Repositories().Accounts.CreateIfNotExists(ctx, "Ana")
	require.NoError(t, err)
	_, err = st.DB().Exec(`INSERT INTO movimientosCuentas (cliente, tipo, monto, fecha) VALUES ('Ana', 'deuda', 10, '2024-01-01'), ('Ana', 'pago', 4, '2024-01-02')`)
	require.NoError(t, err)

	list, err := st.Repositories().Movements.ListByCustomer(ctx, "Ana")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, entity.MovementCredit, list[0].Kind)
	assert.Equal(t, entity.MovementDebt, list[1].Kind)
}

func TestAccountMovementRepo_GetByIDYDelete(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	repos := st.Repositories()
	_, err := repos.Accounts.CreateIfNotExists(ctx, "Ana")
	require.NoError(t, err)

	m := &entity.AccountMovement{Customer: "Ana", Kind: entity.MovementCredit, Amount: dec("12.5"), Date: "2024-01-15", Comment: "cambio"}
	require.NoError(t, repos.Movements.Create(ctx, m))

	got, err := repos.Movements.GetByID(ctx, m.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ana", got.Customer)
	assert.True(t, dec("12.5").Equal(got.Amount))

	require.NoError(t, repos.Movements.Delete(ctx, m.ID))
	got, err = repos.Movements.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, repos.Movements.Delete(ctx, m.ID), domain.ErrNotFound)
}

func TestCashRepo_UpsertCajaInicial(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	repo := st.Repositories().Cash

	_, found, err := repo.GetOpeningFloat(ctx, "2024-01-15")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.UpsertOpeningFloat(ctx, "2024-01-15", dec("1000")))
	require.NoError(t, repo.UpsertOpeningFloat(ctx, "2024-01-15", dec("1500")))
	amount, found, err := repo.GetOpeningFloat(ctx, "2024-01-15")
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, amount.Equal(dec("1500")))
}

func TestVacuumInto_CopiaConsistente(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	require.NoError(t, st.Repositories().Products.Create(ctx, &entity.Product{Code: "ABC", Stock: 4}))

	dest := filepath.Join(t.TempDir(), "copia.db")
	require.NoError(t, st.VacuumInto(ctx, dest))
	assert.Error(t, st.VacuumInto(ctx, dest), "VACUUM INTO no sobrescribe")

	cp, err := sqlite.Open(ctx, dest)
	require.NoError(t, err)
	defer cp.Close()
	p, err := cp.Repositories().Products.GetByCode(ctx, "ABC")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, int64(4), p.Stock)
}

func TestDirectory_Tenants(t *testing.T) {
	ctx := context.Background()
	dir, err := sqlite.OpenDirectory(ctx, filepath.Join(t.TempDir(), "usuarios.db"))
	require.NoError(t, err)
	defer dir.Close()

	repo := dir.Tenants()
	require.NoError(t, repo.Create(ctx, &entity.Tenant{ID: "kiosco", PasswordHash: "x", Role: entity.RoleComercio, Active: true}))
	assert.ErrorIs(t, repo.Create(ctx, &entity.Tenant{ID: "kiosco", PasswordHash: "y"}), domain.ErrDuplicate)

	got, err := repo.GetByID(ctx, "kiosco")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Active)
	assert.False(t, got.CreatedAt.IsZero())

	require.NoError(t, repo.SetActive(ctx, "kiosco", false))
	got, _ = repo.GetByID(ctx, "kiosco")
	assert.False(t, got.Active)
	assert.ErrorIs(t, repo.SetActive(ctx, "nadie", true), domain.ErrNotFound)
}
