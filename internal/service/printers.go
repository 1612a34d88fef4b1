package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"printshop-backend/internal/model"
	"printshop-backend/internal/realtime"
)

// ListPrinters returns one shop's printers with paper sizes and cached queue
// counts.
func (s *Service) ListPrinters(ctx context.Context, shop model.Shop) ([]model.Printer, error) {
	if !shop.Valid() {
		return nil, validationf("unknown shop %q", shop)
	}
	return s.store.ListPrinters(ctx, shop)
}

// PaperSizeInput is one (size, enabled) pair on a printer create/update.
type PaperSizeInput struct {
	Size    string `json:"size" binding:"required"`
	Enabled bool   `json:"enabled"`
}

// CreatePrinter adds a printer to a shop and broadcasts printer_created.
func (s *Service) CreatePrinter(ctx context.Context, shop model.Shop, name string, status model.PrinterStatus, sizes []PaperSizeInput) (*model.Printer, error) {
	if !shop.Valid() {
		return nil, validationf("unknown shop %q", shop)
	}
	if name == "" {
		return nil, validationf("printer name is required")
	}
	if !status.Valid() {
		return nil, validationf("unknown printer status %q", status)
	}
	if len(sizes) == 0 {
		return nil, validationf("at least one paper size is required")
	}

	printer := &model.Printer{Name: name, Shop: shop, Status: status}
	for _, ps := range sizes {
		printer.PaperSizes = append(printer.PaperSizes, model.PrinterPaperSize{
			Size:    ps.Size,
			Enabled: ps.Enabled,
		})
	}
	if err := s.store.CreatePrinter(ctx, printer); err != nil {
		return nil, err
	}

	s.broadcast(realtime.EventPrinterCreated, printer)
	return printer, nil
}

// PrinterPatch carries the fields an admin may change on a printer. Nil
// fields are left untouched.
type PrinterPatch struct {
	Name       *string
	Status     *model.PrinterStatus
	PaperSizes []PaperSizeInput
}

// UpdatePrinter applies a patch and broadcasts printer_updated. Toggling a
// paper size never touches existing orders; it only affects future creation.
func (s *Service) UpdatePrinter(ctx context.Context, id int64, patch PrinterPatch) (*model.Printer, error) {
	printer, err := s.store.GetPrinter(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("printer %d does not exist", id)
		}
		return nil, err
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, validationf("printer name cannot be empty")
		}
		printer.Name = *patch.Name
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, validationf("unknown printer status %q", *patch.Status)
		}
		printer.Status = *patch.Status
	}
	if patch.PaperSizes != nil {
		printer.PaperSizes = printer.PaperSizes[:0]
		for _, ps := range patch.PaperSizes {
			printer.PaperSizes = append(printer.PaperSizes, model.PrinterPaperSize{
				Size:    ps.Size,
				Enabled: ps.Enabled,
			})
		}
	}

	if err := s.store.UpdatePrinter(ctx, printer); err != nil {
		return nil, err
	}
	s.publishPrinterUpdated(ctx, printer.ID)
	return s.store.GetPrinter(ctx, printer.ID)
}

// DeletePrinter removes a printer. Deletion is rejected with a conflict while
// any order on it is still "In Queue" or "Printing", so orders are never
// orphaned silently.
func (s *Service) DeletePrinter(ctx context.Context, id int64) error {
	printer, err := s.store.GetPrinter(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundf("printer %d does not exist", id)
		}
		return err
	}

	outstanding, err := s.store.CountOutstanding(ctx, id)
	if err != nil {
		return err
	}
	if outstanding > 0 {
		return conflictf("printer %q still has %d outstanding orders", printer.Name, outstanding)
	}

	if err := s.store.DeletePrinter(ctx, id); err != nil {
		return err
	}
	s.broadcast(realtime.EventPrinterDeleted, printer)
	return nil
}
