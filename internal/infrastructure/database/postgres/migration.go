// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/your-org/boutique-backend/internal/config"
	"github.com/your-org/boutique-backend/internal/domain/delivery"
	"github.com/your-org/boutique-backend/internal/domain/order"
	"github.com/your-org/boutique-backend/internal/domain/product"
	"github.com/your-org/boutique-backend/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	config *config.Config
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, cfg *config.Config) *Migration {
	return &Migration{
		db:     db,
		config: cfg,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Dependency order: parents before children
	models := []interface{}{
		&user.User{},

		&product.Category{},
		&product.Product{},
		&product.Color{},
		&product.Size{},
		&product.Image{},

		&delivery.Area{},
		&delivery.StoreSetting{},

		&order.Order{},
		&order.Item{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// Order listing is always newest-first, often filtered by store/status
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_store_status ON orders(store, status)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",

		// Delivery resolution looks up (store, company, wilaya) on active rows
		"CREATE INDEX IF NOT EXISTS idx_delivery_areas_active ON delivery_areas(store, company, is_active)",

		// Product variant traversal
		"CREATE INDEX IF NOT EXISTS idx_product_colors_product ON product_colors(product_id)",
		"CREATE INDEX IF NOT EXISTS idx_product_sizes_color ON product_sizes(color_id)",
		"CREATE INDEX IF NOT EXISTS idx_product_images_product ON product_images(product_id)",
	}

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
		}
	}

	log.Println("✅ Database indexes created")
	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedSuperAdmin(); err != nil {
		return fmt.Errorf("failed to seed superadmin: %w", err)
	}

	if err := m.seedStoreSettings(); err != nil {
		return fmt.Errorf("failed to seed store settings: %w", err)
	}

	if err := m.seedCategories(); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

// seedSuperAdmin creates the bootstrap back-office account when configured
// and missing. Without it a fresh deployment has no way to log in.
func (m *Migration) seedSuperAdmin() error {
	email := m.config.Security.SuperAdminEmail
	password := m.config.Security.SuperAdminPassword
	if email == "" || password == "" {
		log.Println("⏭️ No superadmin credentials configured, skipping seed")
		return nil
	}

	var existing user.User
	result := m.db.Where("email = ?", email).First(&existing)
	if result.Error == nil {
		return nil
	}
	if result.Error != gorm.ErrRecordNotFound {
		return result.Error
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), m.config.Security.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	superadmin := user.User{
		Name:     "Super Admin",
		Email:    email,
		Password: string(hashed),
		Role:     user.RoleSuperAdmin,
	}
	if err := m.db.Create(&superadmin).Error; err != nil {
		return fmt.Errorf("failed to create superadmin: %w", err)
	}

	log.Printf("✅ Created superadmin account: %s", email)
	return nil
}

// seedStoreSettings ensures every configured store has an active delivery
// company row so price resolution works before any admin switches companies.
func (m *Migration) seedStoreSettings() error {
	for _, store := range m.config.Store.Names {
		setting := delivery.StoreSetting{
			StoreName: store,
			Company:   m.config.Store.DefaultCompany,
		}
		result := m.db.Where("store_name = ?", store).FirstOrCreate(&setting)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			log.Printf("✅ Created store setting: %s -> %s", store, setting.Company)
		}
	}
	return nil
}

func (m *Migration) seedCategories() error {
	categories := []string{"T-Shirts", "Hoodies", "Pants", "Shoes", "Accessories"}

	for _, name := range categories {
		category := product.Category{Name: name}
		if err := m.db.Where("name = ?", name).FirstOrCreate(&category).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetTableInfo logs row counts for all public tables
func (m *Migration) GetTableInfo() error {
	var tables []string
	if err := m.db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public' ORDER BY tablename").Scan(&tables).Error; err != nil {
		return err
	}

	log.Println("📊 Database Tables Information:")
	for _, table := range tables {
		var count int64
		m.db.Table(table).Count(&count)
		log.Printf("  %-20s | %d records", table, count)
	}
	return nil
}
