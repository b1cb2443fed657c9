package pos

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"github.com/gulfretail/gulfposgo/internal/models"
)

// EditItem is one line of the edited invoice. ID zero marks a new item
// to insert; existing IDs are updated in place; stored lines whose IDs
// are absent from the edit are deleted.
type EditItem struct {
	ID       uint    `json:"id,omitempty"`
	UPC      string  `json:"upc"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// EditInput is an invoice edit request.
type EditInput struct {
	Items       []EditItem      `json:"items"`
	Customer    models.Customer `json:"customer"`
	InvoiceType string          `json:"invoice_type,omitempty"`
	Reason      string          `json:"reason,omitempty"`
	Actor       string          `json:"actor"`
}

// EditResult reports what changed.
type EditResult struct {
	ChangesSummary []string `json:"changes_summary"`
	Warnings       []string `json:"warnings,omitempty"`
}

func validateEdit(in EditInput) error {
	if len(in.Items) == 0 {
		return validationf("items", "an invoice must keep at least one item")
	}
	for i, item := range in.Items {
		if strings.TrimSpace(item.UPC) == "" {
			return validationf("items", "line %d: UPC is required", i+1)
		}
		if strings.TrimSpace(item.Name) == "" {
			return validationf("items", "line %d: name is required", i+1)
		}
		if item.Price <= 0 {
			return validationf("items", "line %d: price must be positive", i+1)
		}
		if item.Quantity <= 0 {
			return validationf("items", "line %d: quantity must be positive", i+1)
		}
	}
	return nil
}

// EditInvoice diffs the edited item set against the stored lines and
// applies inserts, updates and deletes, then writes one edit-log entry
// holding both snapshots and a human-readable change list.
//
// Validation happens before any write. Once writes begin, individual
// failures are downgraded to warnings and the edit continues; a partial
// edit is possible and surfaced, never rolled back.
func (s *Service) EditInvoice(ctx context.Context, key GroupKey, in EditInput) (*EditResult, error) {
	if err := validateEdit(in); err != nil {
		return nil, err
	}

	current, err := ResolveMembers(ctx, s.store, key)
	if err != nil {
		return nil, persistErr("transaction lookup", err)
	}
	if len(current) == 0 {
		return nil, &NotFoundError{Resource: "transaction", Key: keyLabel(key)}
	}

	result := &EditResult{}
	currentByID := make(map[uint]models.SaleItem, len(current))
	for _, item := range current {
		currentByID[item.ID] = item
	}
	editedByID := make(map[uint]EditItem, len(in.Items))
	for _, item := range in.Items {
		if item.ID != 0 {
			editedByID[item.ID] = item
		}
	}

	// Shared fields every surviving and inserted row receives.
	shared := current[0]
	invoiceType := shared.InvoiceType
	if in.InvoiceType != "" {
		invoiceType = normalizeInvoiceType(in.InvoiceType)
	}

	// Deletes: stored lines missing from the edit.
	for _, item := range current {
		if _, kept := editedByID[item.ID]; kept {
			continue
		}
		if err := s.store.DeleteSaleItem(ctx, item.ID); err != nil {
			s.logf("⚠️ Edit %s: delete failed for line %d: %v", keyLabel(key), item.ID, err)
			result.Warnings = append(result.Warnings, fmt.Sprintf("could not remove %s", item.ProductName))
		}
	}

	// Updates: lines present on both sides.
	for _, edited := range in.Items {
		stored, ok := currentByID[edited.ID]
		if edited.ID == 0 || !ok {
			continue
		}
		stored.UPC = edited.UPC
		stored.ProductName = edited.Name
		stored.Price = edited.Price
		stored.Quantity = edited.Quantity
		stored.CustomerName = in.Customer.Name
		stored.CustomerMobile = in.Customer.Mobile
		stored.CustomerAddress = in.Customer.Address
		stored.CustomerTRN = in.Customer.TRN
		stored.InvoiceType = invoiceType
		if err := s.store.UpdateSaleItem(ctx, &stored); err != nil {
			s.logf("⚠️ Edit %s: update failed for line %d: %v", keyLabel(key), edited.ID, err)
			result.Warnings = append(result.Warnings, fmt.Sprintf("could not update %s", edited.Name))
		}
	}

	// Inserts: new lines, carrying the transaction's shared fields.
	var inserts []models.SaleItem
	for _, edited := range in.Items {
		if edited.ID != 0 {
			continue
		}
		inserts = append(inserts, models.SaleItem{
			UPC:              edited.UPC,
			ProductName:      edited.Name,
			Price:            edited.Price,
			Quantity:         edited.Quantity,
			SellerName:       shared.SellerName,
			TransactionID:    shared.TransactionID,
			InvoiceNumber:    shared.InvoiceNumber,
			PaymentMethod:    shared.PaymentMethod,
			PaymentReference: shared.PaymentReference,
			CustomerName:     in.Customer.Name,
			CustomerMobile:   in.Customer.Mobile,
			CustomerAddress:  in.Customer.Address,
			CustomerTRN:      in.Customer.TRN,
			InvoiceType:      invoiceType,
			OrderComment:     shared.OrderComment,
			Status:           models.SaleStatusActive,
			CreatedAt:        shared.CreatedAt,
		})
	}
	if len(inserts) > 0 {
		if err := s.store.InsertSaleItems(ctx, inserts); err != nil {
			s.logf("⚠️ Edit %s: insert of %d new lines failed: %v", keyLabel(key), len(inserts), err)
			result.Warnings = append(result.Warnings, "new items could not be added")
		}
	}

	// Post-image and diff.
	after, err := ResolveMembers(ctx, s.store, key)
	if err != nil {
		return result, persistErr("post-edit lookup", err)
	}
	result.ChangesSummary = diffInvoice(current, after, in.Customer)

	if strings.TrimSpace(in.Customer.Name) != "" {
		if _, err := s.store.UpsertCustomer(ctx, in.Customer); err != nil {
			s.logf("⚠️ Edit %s: customer upsert failed: %v", keyLabel(key), err)
		}
	}

	prevJSON, _ := json.Marshal(current)
	newJSON, _ := json.Marshal(after)
	summaryJSON, _ := json.Marshal(result.ChangesSummary)
	entry := &models.InvoiceEditLog{
		InvoiceNumber:  shared.InvoiceNumber,
		TransactionID:  shared.TransactionID,
		EditedBy:       in.Actor,
		ChangesSummary: datatypes.JSON(summaryJSON),
		PreviousState:  datatypes.JSON(prevJSON),
		NewState:       datatypes.JSON(newJSON),
		Reason:         in.Reason,
	}
	if err := s.store.AppendEditLog(ctx, entry); err != nil {
		s.logf("❌ Edit %s: audit insert failed: %v", keyLabel(key), err)
		result.Warnings = append(result.Warnings, "edit audit entry not saved")
	}

	s.notify("invoice_edited", map[string]interface{}{
		"invoice_number": shared.InvoiceNumber,
		"changes":        result.ChangesSummary,
	})
	return result, nil
}

// diffInvoice builds the human-readable change list stored in the edit
// log and shown in the audit UI.
func diffInvoice(before, after []models.SaleItem, customer models.Customer) []string {
	var changes []string

	if len(before) > 0 {
		prev := before[0]
		if customer.Name != prev.CustomerName {
			changes = append(changes, fmt.Sprintf("Customer name %q → %q", prev.CustomerName, customer.Name))
		}
		if customer.Mobile != prev.CustomerMobile {
			changes = append(changes, fmt.Sprintf("Customer mobile %q → %q", prev.CustomerMobile, customer.Mobile))
		}
		if customer.TRN != prev.CustomerTRN {
			changes = append(changes, fmt.Sprintf("Customer TRN %q → %q", prev.CustomerTRN, customer.TRN))
		}
	}

	beforeByID := make(map[uint]models.SaleItem, len(before))
	for _, item := range before {
		beforeByID[item.ID] = item
	}
	afterByID := make(map[uint]models.SaleItem, len(after))
	for _, item := range after {
		afterByID[item.ID] = item
	}

	for _, item := range before {
		if _, ok := afterByID[item.ID]; !ok {
			changes = append(changes, fmt.Sprintf("Removed: %s (qty %d)", item.ProductName, item.Quantity))
		}
	}
	for _, item := range after {
		prev, ok := beforeByID[item.ID]
		if !ok {
			changes = append(changes, fmt.Sprintf("Added: %s (qty %d)", item.ProductName, item.Quantity))
			continue
		}
		if prev.Quantity != item.Quantity {
			changes = append(changes, fmt.Sprintf("%s: Quantity %d → %d", item.ProductName, prev.Quantity, item.Quantity))
		}
		if prev.Price != item.Price {
			changes = append(changes, fmt.Sprintf("%s: Price %.2f → %.2f", item.ProductName, prev.Price, item.Price))
		}
		if prev.ProductName != item.ProductName {
			changes = append(changes, fmt.Sprintf("Renamed %q → %q", prev.ProductName, item.ProductName))
		}
	}
	return changes
}
