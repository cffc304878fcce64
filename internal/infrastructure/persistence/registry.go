package persistence

import (
	"github.com/ledgerly/backend/internal/domain/ledger"
)

// Registry holds one EntityStore per logical type. The mapping is fixed at
// construction; dispatch never touches a request-supplied table name.
type Registry struct {
	stores map[ledger.EntityType]EntityStore
}

// NewRegistry wires a store for every logical type against the database.
func NewRegistry(db *Database) *Registry {
	return &Registry{stores: map[ledger.EntityType]EntityStore{
		ledger.TypeUsers:      newStore[ledger.User](db, ledger.TypeUsers),
		ledger.TypeRecords:    newStore[ledger.Record](db, ledger.TypeRecords),
		ledger.TypeReceipts:   newStore[ledger.Receipt](db, ledger.TypeReceipts),
		ledger.TypeDocs:       newStore[ledger.Doc](db, ledger.TypeDocs, "Pages"),
		ledger.TypePages:      newStore[ledger.Page](db, ledger.TypePages),
		ledger.TypeImages:     newStore[ledger.Image](db, ledger.TypeImages),
		ledger.TypeFiles:      newStore[ledger.File](db, ledger.TypeFiles),
		ledger.TypeTravels:    newStore[ledger.Travel](db, ledger.TypeTravels),
		ledger.TypeActivities: newStore[ledger.Activity](db, ledger.TypeActivities),
		ledger.TypeCategories: newStore[ledger.Category](db, ledger.TypeCategories),
		ledger.TypeMerchants:  newStore[ledger.Merchant](db, ledger.TypeMerchants),
		ledger.TypeBanks:      newStore[ledger.Bank](db, ledger.TypeBanks),
	}}
}

// Store returns the store for a logical type. Callers hold a parsed
// EntityType, so the lookup cannot miss.
func (r *Registry) Store(t ledger.EntityType) EntityStore {
	return r.stores[t]
}

// Models lists one model value per logical type, in registration order,
// for schema auto-migration in tests and tooling.
func Models() []any {
	return []any{
		&ledger.User{},
		&ledger.Record{},
		&ledger.Receipt{},
		&ledger.Doc{},
		&ledger.Page{},
		&ledger.Image{},
		&ledger.File{},
		&ledger.Travel{},
		&ledger.Activity{},
		&ledger.Category{},
		&ledger.Merchant{},
		&ledger.Bank{},
	}
}
