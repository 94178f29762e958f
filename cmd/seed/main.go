package main

import (
	"flag"
	"log"

	"agrimart-api/internal/config"
	"agrimart-api/internal/model"
	"agrimart-api/pkg/database"

	"gorm.io/gorm"
)

// Seeds sample users, products, and knowledge posts for development.
// Run with -destroy to wipe the collections instead.
func main() {
	destroy := flag.Bool("destroy", false, "delete all seeded data instead of importing")
	flag.Parse()

	cfg := config.Load()
	db := database.Connect(cfg.DSN())

	if err := db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Review{},
		&model.Order{},
		&model.OrderItem{},
		&model.KnowledgePost{},
		&model.KnowledgeComment{},
		&model.AuditLog{},
	); err != nil {
		log.Fatal("migration failed: ", err)
	}

	if *destroy {
		destroyData(db)
		log.Println("Data destroyed")
		return
	}

	importData(db)
	log.Println("Data imported")
}

func destroyData(db *gorm.DB) {
	// Audit logs are append-only in the application; the seeder wipes dev
	// databases wholesale.
	db.Unscoped().Where("1 = 1").Delete(&model.AuditLog{})
	db.Unscoped().Where("1 = 1").Delete(&model.OrderItem{})
	db.Unscoped().Where("1 = 1").Delete(&model.Order{})
	db.Unscoped().Where("1 = 1").Delete(&model.Review{})
	db.Unscoped().Where("1 = 1").Delete(&model.Product{})
	db.Unscoped().Where("1 = 1").Delete(&model.KnowledgeComment{})
	db.Unscoped().Where("1 = 1").Delete(&model.KnowledgePost{})
	db.Unscoped().Where("1 = 1").Delete(&model.User{})
}

func importData(db *gorm.DB) {
	destroyData(db)

	users := []model.User{
		{
			Name:       "Admin User",
			Email:      "admin@example.com",
			Mobile:     "9876543210",
			Role:       model.RoleAdmin,
			IsVerified: true,
		},
		{
			Name:       "Farmer John",
			Email:      "john@example.com",
			Mobile:     "9876543211",
			Role:       model.RoleFarmer,
			IsVerified: true,
			GovtID:     "FARM12345678",
			FarmDetails: model.FarmDetails{
				FarmSize:  "5 Acres",
				CropTypes: []string{"Wheat", "Rice"},
				Location:  "Punjab",
			},
		},
		{
			Name:       "Supplier Sam",
			Email:      "sam@example.com",
			Mobile:     "9876543212",
			Role:       model.RoleSupplier,
			IsVerified: true,
			GovtID:     "SUPP87654321",
		},
		{
			Name:   "Staff Member",
			Email:  "staff@example.com",
			Mobile: "9876543213",
			Role:   model.RoleStaff,
		},
	}

	for i := range users {
		if err := users[i].SetPassword("password123"); err != nil {
			log.Fatal("failed to hash password: ", err)
		}
		if err := db.Create(&users[i]).Error; err != nil {
			log.Fatal("failed to seed user: ", err)
		}
	}

	sellerID := users[1].ID
	products := []model.Product{
		{
			SellerID:          sellerID,
			Name:              "Hybrid Wheat Seeds",
			Image:             "/images/wheat-seeds.jpg",
			Description:       "High-yield hybrid wheat seeds suitable for various soil types. Resistant to common pests and diseases.",
			Brand:             "AgriGrow",
			Category:          "Seeds",
			Price:             450.0,
			CountInStock:      100,
			UsageInstructions: "Sow 50kg per acre with proper irrigation.",
			ExpertTips:        []string{"Use balanced NPK fertilizer", "Maintain moisture during flowering"},
		},
		{
			SellerID:          sellerID,
			Name:              "Organic NPK Fertilizer",
			Image:             "/images/fertilizer.jpg",
			Description:       "100% organic NPK fertilizer for better soil health and crop growth. Enriched with micronutrients.",
			Brand:             "EcoFarm",
			Category:          "Fertilizers",
			Price:             850.0,
			CountInStock:      50,
			UsageInstructions: "Apply 200kg per acre before sowing.",
			ExpertTips:        []string{"Mix well with soil", "Avoid direct contact with seeds"},
		},
		{
			SellerID:          sellerID,
			Name:              "Handheld Sprayer 5L",
			Image:             "/images/sprayer.jpg",
			Description:       "Durable and lightweight handheld sprayer for easy application of pesticides and fertilizers.",
			Brand:             "ToolsPro",
			Category:          "Farming Tools",
			Price:             1200.0,
			CountInStock:      20,
			UsageInstructions: "Clean thoroughly after each use.",
			ExpertTips:        []string{"Check nozzle regularly", "Use protective gear"},
		},
		{
			SellerID:          sellerID,
			Name:              "Neem Oil Pesticide",
			Image:             "/images/neem-oil.jpg",
			Description:       "Natural neem oil pesticide effective against a wide range of agricultural pests. Safe for beneficial insects.",
			Brand:             "NatureGuard",
			Category:          "Pesticides",
			Price:             350.0,
			CountInStock:      40,
			UsageInstructions: "Dilute 5ml per liter of water and spray.",
			ExpertTips:        []string{"Spray during early morning or evening", "Repeat every 10 days"},
		},
	}

	for i := range products {
		if err := db.Create(&products[i]).Error; err != nil {
			log.Fatal("failed to seed product: ", err)
		}
	}

	posts := []model.KnowledgePost{
		{
			Title:    "Modern Irrigation Techniques",
			Content:  "Irrigation is the application of controlled amounts of water to plants at needed intervals. Irrigation helps to grow agricultural crops, maintain landscapes, and revegetate disturbed soils in dry areas and during periods of less than average rainfall.",
			Category: "Tutorial",
			Author:   "Dr. Ramesh Kumar",
			Image:    "/images/irrigation.jpg",
			VideoURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		},
		{
			Title:    "How to Identify Wheat Rust",
			Content:  "Wheat rust is a fungal disease that affects wheat stems, leaves and grains. Symptoms include orange-brown pustules on leaves and stems. Management includes using resistant varieties and timely application of fungicides.",
			Category: "Blog",
			Author:   "AgriMart Expert",
			Image:    "/images/wheat-rust.jpg",
		},
		{
			Title:    "Top 5 Tips for Organic Farming",
			Content:  "1. Soil health is priority.\n2. Use natural fertilizers.\n3. Crop rotation is essential.\n4. Manage pests naturally.\n5. Use heirloom seeds.",
			Category: "Video Tip",
			Author:   "Organic Farmer Jane",
			Image:    "/images/organic-farming.jpg",
			VideoURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		},
	}

	for i := range posts {
		if err := db.Create(&posts[i]).Error; err != nil {
			log.Fatal("failed to seed knowledge post: ", err)
		}
	}
}
