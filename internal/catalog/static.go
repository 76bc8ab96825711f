package catalog

import (
	"context"

	"github.com/dohyunlee/seoultee/internal/domain"
)

// products is the launch lineup. IDs are stable and referenced by cart
// lines, so they must never be reused for a different product.
var products = []domain.Product{
	{
		ID:          "1",
		Name:        "Classic White Tee",
		Price:       35000,
		Description: "A timeless white t-shirt made from 100% organic cotton. Perfect for any casual occasion.",
		Image:       "/images/products/product-1.png",
		Category:    "basic",
		Sizes:       []string{"S", "M", "L", "XL"},
		Colors:      []string{"white"},
	},
	{
		ID:          "2",
		Name:        "Minimalist Logo Tee",
		Price:       42000,
		Description: "Subtle branding with our minimalist logo. Made from premium cotton blend for ultimate comfort.",
		Image:       "/images/products/product-2.png",
		Category:    "logo",
		Sizes:       []string{"S", "M", "L", "XL"},
		Colors:      []string{"black", "white"},
	},
	{
		ID:          "3",
		Name:        "Vintage Seoul Tee",
		Price:       48000,
		Description: "Retro-inspired design celebrating Seoul's rich culture. Soft, breathable fabric for all-day comfort.",
		Image:       "/images/products/product-3.png",
		Category:    "vintage",
		Sizes:       []string{"S", "M", "L", "XL"},
		Colors:      []string{"navy", "gray"},
	},
	{
		ID:          "4",
		Name:        "Urban Street Tee",
		Price:       39000,
		Description: "Bold street-style design perfect for the modern urbanite. Premium quality cotton construction.",
		Image:       "/images/products/product-4.png",
		Category:    "street",
		Sizes:       []string{"S", "M", "L", "XL"},
		Colors:      []string{"black", "red"},
	},
	{
		ID:          "5",
		Name:        "Seoul Skyline Tee",
		Price:       45000,
		Description: "Beautiful skyline silhouette showcasing Seoul's iconic landmarks. Comfortable and stylish.",
		Image:       "/images/products/product-5.png",
		Category:    "skyline",
		Sizes:       []string{"S", "M", "L", "XL"},
		Colors:      []string{"blue", "gray"},
	},
	{
		ID:          "6",
		Name:        "K-Culture Heritage Tee",
		Price:       52000,
		Description: "Celebrate Korean heritage with this artistic design. Premium fabric with cultural significance.",
		Image:       "/images/products/product-6.png",
		Category:    "culture",
		Sizes:       []string{"S", "M", "L", "XL"},
		Colors:      []string{"white", "black"},
	},
}

// StaticService serves the built-in product lineup. It is the catalog
// of record until products move into the database.
type StaticService struct{}

func NewStaticService() *StaticService {
	return &StaticService{}
}

func (s *StaticService) List(ctx context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, len(products))
	copy(out, products)
	return out, nil
}

func (s *StaticService) Get(ctx context.Context, id string) (domain.Product, error) {
	const op = "catalog.StaticService.Get"

	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, &domain.Error{
		Code:    domain.ENOTFOUND,
		Message: "Product not found",
		Op:      op,
	}
}

func (s *StaticService) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}
