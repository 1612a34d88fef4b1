package model

import "time"

// OrderStatus is the lifecycle state of a print job. The strings are part of
// the wire contract and must not be changed.
type OrderStatus string

const (
	StatusInQueue               OrderStatus = "In Queue"
	StatusPrinting              OrderStatus = "Printing"
	StatusReadyForPickup        OrderStatus = "Ready for Pickup"
	StatusReadyForPickupPayment OrderStatus = "Ready for Pickup & Payment"
	StatusCompleted             OrderStatus = "Completed"
	StatusCancelled             OrderStatus = "Cancelled"
)

// ReadyStatusFor returns the pickup-ready label used by the given shop.
// IT hands jobs over directly; SSC collects payment at the counter.
func ReadyStatusFor(shop Shop) OrderStatus {
	if shop == ShopSSC {
		return StatusReadyForPickupPayment
	}
	return StatusReadyForPickup
}

// Terminal reports whether no further transition is allowed out of s.
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Orientation of the printed pages.
type Orientation string

const (
	OrientationPortrait  Orientation = "Portrait"
	OrientationLandscape Orientation = "Landscape"
)

// ColorType of the print job.
type ColorType string

const (
	ColorBlackAndWhite ColorType = "Black-and-White"
	ColorColored       ColorType = "Colored"
)

// Order is a print job submitted by a student. QueuePosition is derived from
// the set of in-queue orders on the same printer; it is recomputed after every
// change to that set and is 0 whenever the order is not "In Queue".
type Order struct {
	ID            int64       `gorm:"primaryKey" json:"id"`
	Number        string      `gorm:"uniqueIndex;size:8;not null" json:"order_number"`
	UserID        int64       `gorm:"index;not null" json:"user_id"`
	PrinterID     int64       `gorm:"index;not null" json:"printer_id"`
	Shop          Shop        `gorm:"size:8;not null" json:"shop"`
	FileName      string      `gorm:"size:256;not null" json:"file_name"`
	FileKey       string      `gorm:"size:64;not null" json:"file_key"`
	PaperSize     string      `gorm:"size:32;not null" json:"paper_size"`
	Orientation   Orientation `gorm:"size:16;not null" json:"orientation"`
	ColorType     ColorType   `gorm:"size:24;not null" json:"color_type"`
	Copies        int         `gorm:"not null" json:"copies"`
	Status        OrderStatus `gorm:"size:32;index;not null" json:"status"`
	QueuePosition int         `gorm:"not null;default:0" json:"queue_position"`
	CreatedAt     time.Time   `gorm:"index;not null" json:"created_at"`
	CompletedAt   *time.Time  `json:"completed_at"`

	// Associations
	User    User    `json:"user"`
	Printer Printer `json:"printer"`
}
