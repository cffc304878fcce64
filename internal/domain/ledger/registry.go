package ledger

import "github.com/ledgerly/backend/internal/domain/shared"

// EntityType identifies one of the fixed logical types served by the
// action endpoint. The set is closed: dispatch happens over these
// constants, never over raw request strings.
type EntityType string

const (
	TypeUsers      EntityType = "users"
	TypeRecords    EntityType = "records"
	TypeReceipts   EntityType = "receipts"
	TypeDocs       EntityType = "docs"
	TypePages      EntityType = "pages"
	TypeImages     EntityType = "images"
	TypeFiles      EntityType = "files"
	TypeTravels    EntityType = "travels"
	TypeActivities EntityType = "activities"
	TypeCategories EntityType = "categories"
	TypeMerchants  EntityType = "merchants"
	TypeBanks      EntityType = "banks"
)

// AllTypes lists every logical type in a stable order, used for schema
// migration and store registration.
var AllTypes = []EntityType{
	TypeUsers, TypeRecords, TypeReceipts, TypeDocs, TypePages,
	TypeImages, TypeFiles, TypeTravels, TypeActivities,
	TypeCategories, TypeMerchants, TypeBanks,
}

var ownedTypes = map[EntityType]bool{
	TypeRecords:    true,
	TypeReceipts:   true,
	TypeDocs:       true,
	TypeImages:     true,
	TypeFiles:      true,
	TypeTravels:    true,
	TypeActivities: true,
}

// ParseEntityType maps a request string onto the closed type set.
func ParseEntityType(s string) (EntityType, error) {
	t := EntityType(s)
	for _, known := range AllTypes {
		if t == known {
			return t, nil
		}
	}
	return "", shared.ErrInvalidType
}

// Owned reports whether rows of this type carry a userEmail column and
// are therefore scoped to the calling identity.
func (t EntityType) Owned() bool { return ownedTypes[t] }

// Action is one of the operations the endpoint dispatches on.
type Action string

const (
	ActionGet      Action = "get"
	ActionAdd      Action = "add"
	ActionAddBatch Action = "addBatch"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
)

// ParseAction maps a request string onto the closed action set.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionGet, ActionAdd, ActionAddBatch, ActionUpdate, ActionDelete:
		return a, nil
	}
	return "", shared.ErrInvalidAction
}
