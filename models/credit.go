package models

import "time"

type TransactionType string

const (
	TxPurchase TransactionType = "purchase"
	TxSpend    TransactionType = "spend"
	// TxRefund only appears as a compensating entry when a promotion could not
	// be stored after its credits were spent.
	TxRefund TransactionType = "refund"
)

// CreditTransaction is one immutable ledger entry. Spends carry a negative amount.
type CreditTransaction struct {
	ID            string          `bson:"id" json:"id"`
	VendorID      string          `bson:"vendorId" json:"vendorId"`
	Type          TransactionType `bson:"type" json:"type"`
	Amount        int64           `bson:"amount" json:"amount"`
	Description   string          `bson:"description" json:"description"`
	RelatedTripID string          `bson:"relatedTripId,omitempty" json:"relatedTripId,omitempty"`
	BalanceAfter  int64           `bson:"balanceAfter" json:"balanceAfter"`
	CreatedAt     time.Time       `bson:"createdAt" json:"timestamp"`
}

// VendorAccount holds a vendor's credit balance and its append-only history.
// Credits always equals the sum of Transactions amounts.
type VendorAccount struct {
	VendorID     string              `bson:"vendorId" json:"vendorId"`
	Credits      int64               `bson:"credits" json:"credits"`
	Transactions []CreditTransaction `bson:"transactions" json:"transactions"`
	Version      int                 `bson:"version" json:"-"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// PurchaseCreditsRequest is the purchaseCredits payload.
type PurchaseCreditsRequest struct {
	Amount       int64  `json:"amount"`
	PackageLabel string `json:"packageLabel"`
}
