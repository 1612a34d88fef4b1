package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"printshop-backend/internal/model"
)

// ListPrinters returns all printers of one shop with their paper sizes.
func (s *gormStore) ListPrinters(ctx context.Context, shop model.Shop) ([]model.Printer, error) {
	var printers []model.Printer
	err := s.db.WithContext(ctx).
		Preload("PaperSizes").
		Where("shop = ?", shop).
		Order("id ASC").
		Find(&printers).Error
	return printers, err
}

// GetPrinter fetches a printer with its paper sizes.
func (s *gormStore) GetPrinter(ctx context.Context, id int64) (*model.Printer, error) {
	var printer model.Printer
	if err := s.db.WithContext(ctx).Preload("PaperSizes").First(&printer, id).Error; err != nil {
		return nil, err
	}
	return &printer, nil
}

// CreatePrinter persists a printer together with its paper size rows.
func (s *gormStore) CreatePrinter(ctx context.Context, printer *model.Printer) error {
	return s.db.WithContext(ctx).Create(printer).Error
}

// UpdatePrinter saves printer fields and replaces its paper size rows with the
// set carried on the struct.
func (s *gormStore) UpdatePrinter(ctx context.Context, printer *model.Printer) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Printer{}).
			Where("id = ?", printer.ID).
			Updates(map[string]any{
				"name":   printer.Name,
				"status": printer.Status,
			}).Error; err != nil {
			return fmt.Errorf("failed to update printer %d: %w", printer.ID, err)
		}
		if err := tx.Where("printer_id = ?", printer.ID).
			Delete(&model.PrinterPaperSize{}).Error; err != nil {
			return fmt.Errorf("failed to clear paper sizes for printer %d: %w", printer.ID, err)
		}
		for i := range printer.PaperSizes {
			printer.PaperSizes[i].ID = 0
			printer.PaperSizes[i].PrinterID = printer.ID
		}
		if len(printer.PaperSizes) > 0 {
			if err := tx.Create(&printer.PaperSizes).Error; err != nil {
				return fmt.Errorf("failed to save paper sizes for printer %d: %w", printer.ID, err)
			}
		}
		return nil
	})
}

// DeletePrinter removes a printer and its paper size rows. Callers must have
// checked for outstanding orders first; completed history keeps its printer id.
func (s *gormStore) DeletePrinter(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("printer_id = ?", id).Delete(&model.PrinterPaperSize{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Printer{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// CountOutstanding counts orders on a printer that are still in flight
// ("In Queue" or "Printing").
func (s *gormStore) CountOutstanding(ctx context.Context, printerID int64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Order{}).
		Where("printer_id = ? AND status IN ?", printerID,
			[]model.OrderStatus{model.StatusInQueue, model.StatusPrinting}).
		Count(&count).Error
	return count, err
}
