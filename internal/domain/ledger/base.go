package ledger

import "time"

// Base provides the common persistence fields shared by every entity row.
// Entities are schemaless from the endpoint's point of view, so unlike a
// rich aggregate there is no behavior here beyond identity bookkeeping.
type Base struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Meta exposes the base fields so generic stores can carry identity and
// timestamps across an upsert without reflection.
func (b *Base) Meta() *Base { return b }

// SetOwner is a no-op for shared reference types. Owner-scoped entities
// embed OwnedBase, which shadows this.
func (b *Base) SetOwner(string) {}

// OwnedBase extends Base with the caller-identity column used by the
// ownership filter.
type OwnedBase struct {
	Base
	UserEmail string `gorm:"size:255;index" json:"userEmail"`
}

// SetOwner stamps the owning caller identity onto the row.
func (o *OwnedBase) SetOwner(email string) { o.UserEmail = email }

// Entity is implemented by every entity pointer via Base/OwnedBase.
type Entity interface {
	Meta() *Base
	SetOwner(email string)
}
