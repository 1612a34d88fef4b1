package model

import "time"

// PrinterStatus is the operational state of a printer.
type PrinterStatus string

const (
	PrinterActive     PrinterStatus = "Active"
	PrinterOffline    PrinterStatus = "Offline"
	PrinterNoInkPaper PrinterStatus = "No Ink/Paper"
)

// Valid reports whether s is a known printer status.
func (s PrinterStatus) Valid() bool {
	return s == PrinterActive || s == PrinterOffline || s == PrinterNoInkPaper
}

// Printer belongs to exactly one shop. QueueCount is a display cache of the
// number of "In Queue" orders on this printer; every write path refreshes it
// from a count query, it is never incremented in place.
type Printer struct {
	ID         int64         `gorm:"primaryKey" json:"id"`
	Name       string        `gorm:"size:128;not null" json:"name"`
	Shop       Shop          `gorm:"size:8;index;not null" json:"shop"`
	Status     PrinterStatus `gorm:"size:16;not null" json:"status"`
	QueueCount int           `gorm:"not null;default:0" json:"queue_count"`
	CreatedAt  time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time     `gorm:"not null" json:"updated_at"`

	// Associations
	PaperSizes []PrinterPaperSize `gorm:"foreignKey:PrinterID" json:"paper_sizes"`
}

// PrinterPaperSize is one (paper size, enabled) pair of a printer. Disabling a
// size only affects future order creation; existing orders keep their size.
type PrinterPaperSize struct {
	ID        int64  `gorm:"primaryKey" json:"-"`
	PrinterID int64  `gorm:"uniqueIndex:idx_printer_size;not null" json:"-"`
	Size      string `gorm:"uniqueIndex:idx_printer_size;size:32;not null" json:"size"`
	Enabled   bool   `gorm:"not null;default:true" json:"enabled"`
}

// PaperSizeEnabled reports whether the printer offers the given size and it is
// currently enabled.
func (p *Printer) PaperSizeEnabled(size string) bool {
	for _, ps := range p.PaperSizes {
		if ps.Size == size {
			return ps.Enabled
		}
	}
	return false
}
