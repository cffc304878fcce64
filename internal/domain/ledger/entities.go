package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is an account row. Rows are shared (admin-visible); the password
// hash never leaves the API.
type User struct {
	Base
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name         string `gorm:"size:255" json:"name,omitempty"`
	PasswordHash string `gorm:"size:255" json:"-"`
}

func (User) TableName() string { return "users" }

// Record is a single ledger entry: one expense or income line.
type Record struct {
	OwnedBase
	Description      string           `gorm:"size:500" json:"description"`
	Date             time.Time        `json:"date"`
	Amount           decimal.Decimal  `gorm:"type:numeric(14,2)" json:"amount"`
	Currency         string           `gorm:"size:8" json:"currency"`
	Deductible       bool             `json:"deductible"`
	DeductibleAmount *decimal.Decimal `gorm:"type:numeric(14,2)" json:"deductibleAmount,omitempty"`
	CategoryName     string           `gorm:"size:255;index" json:"categoryName"`
	ActivityName     string           `gorm:"size:255" json:"activityName,omitempty"`
	CashBack         *decimal.Decimal `gorm:"type:numeric(14,2)" json:"cashBack,omitempty"`
	BankName         string           `gorm:"size:255" json:"bankName"`
}

func (Record) TableName() string { return "records" }

// Receipt links a purchase total to a merchant and, optionally, to the
// record and scanned image it substantiates.
type Receipt struct {
	OwnedBase
	Date          time.Time        `json:"date"`
	Total         decimal.Decimal  `gorm:"type:numeric(14,2)" json:"total"`
	Currency      string           `gorm:"size:8" json:"currency"`
	TaxAmount     *decimal.Decimal `gorm:"type:numeric(14,2)" json:"taxAmount,omitempty"`
	PaymentMethod string           `gorm:"size:64" json:"paymentMethod,omitempty"`
	MerchantName  string           `gorm:"size:255" json:"merchantName"`
	RecordID      string           `gorm:"size:64;index" json:"recordId,omitempty"`
	ImageID       string           `gorm:"size:64" json:"imageId,omitempty"`
}

func (Receipt) TableName() string { return "receipts" }

// Travel is a mileage entry tied to an activity.
type Travel struct {
	OwnedBase
	Date         time.Time `json:"date"`
	DistanceKm   float64   `json:"distanceKm"`
	Origin       string    `gorm:"size:255" json:"origin"`
	Destination  string    `gorm:"size:255" json:"destination"`
	Notes        string    `gorm:"size:1000" json:"notes,omitempty"`
	ActivityName string    `gorm:"size:255;index" json:"activityName"`
}

func (Travel) TableName() string { return "travels" }

// Activity groups records and travels under a named undertaking with a
// date range.
type Activity struct {
	OwnedBase
	Name      string     `gorm:"size:255;index" json:"name"`
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

func (Activity) TableName() string { return "activities" }

// Category is a shared reference row.
type Category struct {
	Base
	Name string `gorm:"size:255;uniqueIndex" json:"name"`
}

func (Category) TableName() string { return "categories" }

// Merchant is a shared reference row.
type Merchant struct {
	Base
	Name string `gorm:"size:255;uniqueIndex" json:"name"`
}

func (Merchant) TableName() string { return "merchants" }

// Bank is a shared reference row.
type Bank struct {
	Base
	Name string `gorm:"size:255" json:"name"`
}

func (Bank) TableName() string { return "banks" }

// Image is an uploaded receipt scan. The bytes live in object storage;
// the row keeps the durable link plus whatever OCR produced.
type Image struct {
	OwnedBase
	FileName   string    `gorm:"size:512" json:"fileName"`
	FileType   string    `gorm:"size:128" json:"fileType"`
	FileLink   string    `gorm:"size:1024" json:"fileLink"`
	OCRRawData string    `json:"ocrRawData,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}

func (Image) TableName() string { return "images" }

// File is an uploaded resource file (statements, attachments); like
// Image, only the storage link is kept.
type File struct {
	OwnedBase
	FileName   string    `gorm:"size:512" json:"fileName"`
	FileType   string    `gorm:"size:128" json:"fileType"`
	FileSize   int64     `json:"fileSize,omitempty"`
	FileLink   string    `gorm:"size:1024" json:"fileLink"`
	UploadedAt time.Time `json:"uploadedAt"`
}

func (File) TableName() string { return "files" }

// Doc is a multi-page scanned document.
type Doc struct {
	OwnedBase
	Title       string `gorm:"size:512" json:"title"`
	Description string `gorm:"size:2000" json:"description,omitempty"`
	Pages       []Page `gorm:"foreignKey:DocID" json:"pages,omitempty"`
}

func (Doc) TableName() string { return "docs" }

// Page is a single page of a Doc; pages are addressed through their doc
// and carry no owner column of their own.
type Page struct {
	Base
	DocID      string    `gorm:"size:64;index" json:"docId"`
	ImageID    string    `gorm:"size:64" json:"imageId,omitempty"`
	OCRRawData string    `json:"ocrRawData,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}

func (Page) TableName() string { return "pages" }
