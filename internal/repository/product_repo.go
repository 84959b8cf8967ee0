package repository

import (
	"strings"

	"batani-inventory/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindByProductNumber(number string) (*model.Product, error)
	Search(query string, limit int) ([]model.Product, error)
	Save(product *model.Product) error
	Delete(id uuid.UUID) error
	LockByID(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	UpdateStock(tx *gorm.DB, id uuid.UUID, oldStock, newStock int) error
	AddImages(productID uuid.UUID, urls []string) ([]model.ProductImage, error)
	CountImages(productID uuid.UUID) (int64, error)
	DeleteImage(productID, imageID uuid.UUID) (*model.ProductImage, error)
	GetInventoryStats() (*InventoryStats, error)
}

// InventoryStats untuk overview stats
type InventoryStats struct {
	TotalProducts  int64           `json:"total_products"`
	LowStockCount  int64           `json:"low_stock_count"`
	TotalValuation decimal.Decimal `json:"total_valuation"`
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

// withRelations joins the supplier and the image gallery at read time.
func withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Supplier").Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	})
}

func (r *productRepo) Create(product *model.Product) error {
	return translate(r.db.Omit(clause.Associations).Create(product).Error)
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := withRelations(r.db).Order("created_at DESC").Find(&products).Error
	return products, translate(err)
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := withRelations(r.db).First(&product, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

// FindByProductNumber is a case-insensitive exact match.
func (r *productRepo) FindByProductNumber(number string) (*model.Product, error) {
	var product model.Product
	key := model.NormalizeProductNumber(number)
	if err := withRelations(r.db).First(&product, "product_key = ?", key).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func (r *productRepo) Search(query string, limit int) ([]model.Product, error) {
	var products []model.Product
	pattern := "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(query))) + "%"
	err := withRelations(r.db).
		Where(`LOWER(name) LIKE ? ESCAPE '\' OR product_key LIKE ? ESCAPE '\'`, pattern, pattern).
		Order("name ASC").
		Limit(limit).
		Find(&products).Error
	return products, translate(err)
}

// Save replaces the full row; relations are never written through it.
func (r *productRepo) Save(product *model.Product) error {
	return translate(r.db.Omit(clause.Associations).Save(product).Error)
}

// Delete removes the product and cascades to its images.
func (r *productRepo) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&model.ProductImage{}).Error; err != nil {
			return translate(err)
		}
		res := tx.Delete(&model.Product{}, "id = ?", id)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// LockByID reads the product row with a row lock held until tx ends.
func (r *productRepo) LockByID(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := conn(r.db, tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

// UpdateStock menerima *gorm.DB (tx) agar bisa berjalan dalam transaksi.
// The write only lands if stock still equals oldStock.
func (r *productRepo) UpdateStock(tx *gorm.DB, id uuid.UUID, oldStock, newStock int) error {
	res := conn(r.db, tx).Model(&model.Product{}).
		Where("id = ? AND stock_quantity = ?", id, oldStock).
		UpdateColumn("stock_quantity", newStock)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrStockChanged
	}
	return nil
}

func (r *productRepo) AddImages(productID uuid.UUID, urls []string) ([]model.ProductImage, error) {
	images := make([]model.ProductImage, 0, len(urls))
	for _, url := range urls {
		images = append(images, model.ProductImage{ProductID: productID, ImageURL: url})
	}
	if len(images) == 0 {
		return images, nil
	}
	if err := r.db.Create(&images).Error; err != nil {
		return nil, translate(err)
	}
	return images, nil
}

func (r *productRepo) CountImages(productID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.Model(&model.ProductImage{}).Where("product_id = ?", productID).Count(&n).Error
	return n, translate(err)
}

func (r *productRepo) DeleteImage(productID, imageID uuid.UUID) (*model.ProductImage, error) {
	var image model.ProductImage
	if err := r.db.First(&image, "id = ? AND product_id = ?", imageID, productID).Error; err != nil {
		return nil, translate(err)
	}
	if err := r.db.Delete(&image).Error; err != nil {
		return nil, translate(err)
	}
	return &image, nil
}

func (r *productRepo) GetInventoryStats() (*InventoryStats, error) {
	var stats InventoryStats

	if err := r.db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, translate(err)
	}

	// Low Stock Count (stock < 10)
	if err := r.db.Model(&model.Product{}).
		Where("stock_quantity < ?", model.LowStockThreshold).
		Count(&stats.LowStockCount).Error; err != nil {
		return nil, translate(err)
	}

	// Total Valuation (SUM of stock * price)
	if err := r.db.Model(&model.Product{}).
		Select("COALESCE(SUM(stock_quantity * price), 0)").
		Row().Scan(&stats.TotalValuation); err != nil {
		return nil, translate(err)
	}

	return &stats, nil
}
