package repository

// Repositories agrupa los repositorios de la base de un comercio, atados al mismo
// ejecutor (conexión o transacción).
type Repositories struct {
	Products  ProductRepository
	Sales     SaleRepository
	Accounts  AccountRepository
	Movements AccountMovementRepository
	Cash      CashRepository
	Exchanges ExchangeRepository
}
