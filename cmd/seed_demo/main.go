package main

import (
	"context"
	"log"

	"github.com/gulfretail/gulfposgo/internal/config"
	"github.com/gulfretail/gulfposgo/internal/database"
	"github.com/gulfretail/gulfposgo/internal/models"
	"github.com/gulfretail/gulfposgo/internal/pos"
	"github.com/gulfretail/gulfposgo/internal/store"
	"github.com/gulfretail/gulfposgo/internal/utils"
)

// Seeds a demo catalog, one admin user and a couple of sales so a fresh
// instance has something on screen.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(
		&models.UserAuth{},
		&models.Product{},
		&models.SaleItem{},
		&models.Customer{},
		&models.SalesUndoLog{},
		&models.InvoiceEditLog{},
		&models.StockMovement{},
		&models.InvoiceCounter{},
	); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	ctx := context.Background()
	st := store.NewGormStore(db.DB)
	svc := pos.NewService(st)

	// Admin user
	hash, err := utils.HashPassword("admin12345")
	if err != nil {
		log.Fatalf("Hash failed: %v", err)
	}
	admin := &models.UserAuth{
		Username: "admin",
		Email:    "admin@shop.local",
		Password: hash,
		Name:     "Shop Admin",
		Role:     "admin",
		IsActive: true,
	}
	if err := st.CreateUser(ctx, admin); err != nil {
		log.Printf("⚠️ Admin user not created (may already exist): %v", err)
	} else {
		log.Println("✅ Admin user created: admin@shop.local / admin12345")
	}

	products := []models.Product{
		{Name: "Karak Tea", UPC: "6291001000012", Price: 10.00, Stock: 50, Active: true},
		{Name: "Date Syrup 500ml", UPC: "6291001000029", Price: 18.50, Stock: 24, Active: true},
		{Name: "Laban 1L", UPC: "6291001000036", Price: 6.25, Stock: 40, Active: true},
		{Name: "Saffron Box 1g", UPC: "6291001000043", Price: 45.00, Stock: 12, Active: true},
		{Name: "Water 500ml x12", UPC: "6291001000050", Price: 9.00, Stock: 80, Active: true},
	}
	for i := range products {
		if err := st.CreateProduct(ctx, &products[i]); err != nil {
			log.Printf("⚠️ Product %s not created: %v", products[i].Name, err)
		}
	}
	log.Printf("✅ Seeded %d products", len(products))

	// A couple of demo sales
	sales := []pos.SaleInput{
		{
			Cart: []pos.CartLine{
				{ProductID: products[0].ID, UPC: products[0].UPC, Name: products[0].Name, Price: products[0].Price, Quantity: 2},
				{ProductID: products[2].ID, UPC: products[2].UPC, Name: products[2].Name, Price: products[2].Price, Quantity: 1},
			},
			SellerName:    "admin",
			PaymentMethod: models.PaymentCash,
		},
		{
			Cart: []pos.CartLine{
				{ProductID: products[3].ID, UPC: products[3].UPC, Name: products[3].Name, Price: products[3].Price, Quantity: 1},
			},
			SellerName:       "admin",
			PaymentMethod:    models.PaymentCard,
			PaymentReference: "APPROVAL-1234",
			Customer:         &models.Customer{Name: "Fatima", Mobile: "0501234567"},
		},
	}
	for _, in := range sales {
		result, err := svc.RecordSale(ctx, in)
		if err != nil {
			log.Printf("⚠️ Demo sale failed: %v", err)
			continue
		}
		log.Printf("✅ Demo sale %s (%s), total %.2f", result.InvoiceNumber, result.TransactionID, result.TotalAmount)
	}

	log.Println("✅ Demo data ready")
}
