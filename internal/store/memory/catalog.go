package memory

import (
	"context"
	"sort"
	"strings"

	"storefront/internal/models"
	"storefront/internal/store"
)

func (s *Store) Categories(_ context.Context) ([]models.Category, error) {
	defer s.lock()()
	out := make([]models.Category, 0, len(s.data.categories))
	for _, c := range s.data.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) CategoryByID(_ context.Context, id int64) (*models.Category, error) {
	defer s.lock()()
	c, ok := s.data.categories[id]
	if !ok {
		return nil, models.ErrCategoryNotFound
	}
	return &c, nil
}

func (s *Store) CreateCategory(_ context.Context, c *models.Category) error {
	defer s.lock()()
	c.ID = s.data.nextID()
	c.CreatedAt = now()
	s.data.categories[c.ID] = *c
	return nil
}

func (s *Store) UpdateCategory(_ context.Context, c *models.Category) error {
	defer s.lock()()
	if _, ok := s.data.categories[c.ID]; !ok {
		return models.ErrCategoryNotFound
	}
	s.data.categories[c.ID] = *c
	return nil
}

func (s *Store) DeleteCategory(_ context.Context, id int64) error {
	defer s.lock()()
	if _, ok := s.data.categories[id]; !ok {
		return models.ErrCategoryNotFound
	}
	delete(s.data.categories, id)
	for pid, p := range s.data.products {
		if p.CategoryID != nil && *p.CategoryID == id {
			p.CategoryID = nil
			s.data.products[pid] = p
		}
	}
	return nil
}

func (s *Store) Products(_ context.Context, f store.ProductFilter) ([]models.Product, int, error) {
	defer s.lock()()
	search := strings.ToLower(f.Search)

	out := make([]models.Product, 0, len(s.data.products))
	for _, p := range s.data.products {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if f.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *f.CategoryID) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return paginate(out, f.Page, f.Limit), len(out), nil
}

func (s *Store) ProductByID(_ context.Context, id int64) (*models.Product, error) {
	defer s.lock()()
	return s.productByID(id)
}

func (s *Store) productByID(id int64) (*models.Product, error) {
	p, ok := s.data.products[id]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	for _, v := range s.data.variants {
		if v.ProductID == id {
			p.Variants = append(p.Variants, v)
		}
	}
	sort.Slice(p.Variants, func(i, j int) bool { return p.Variants[i].ID < p.Variants[j].ID })
	return &p, nil
}

func (s *Store) CreateProduct(_ context.Context, p *models.Product) error {
	defer s.lock()()
	p.ID = s.data.nextID()
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt
	stored := *p
	stored.Variants = nil
	s.data.products[p.ID] = stored
	return nil
}

func (s *Store) UpdateProduct(_ context.Context, p *models.Product) error {
	defer s.lock()()
	cur, ok := s.data.products[p.ID]
	if !ok {
		return models.ErrProductNotFound
	}
	p.CreatedAt = cur.CreatedAt
	p.UpdatedAt = now()
	stored := *p
	stored.Variants = nil
	s.data.products[p.ID] = stored
	return nil
}

func (s *Store) DeleteProduct(_ context.Context, id int64) error {
	defer s.lock()()
	if _, ok := s.data.products[id]; !ok {
		return models.ErrProductNotFound
	}
	delete(s.data.products, id)
	for vid, v := range s.data.variants {
		if v.ProductID == id {
			delete(s.data.variants, vid)
		}
	}
	for lid, l := range s.data.cartLines {
		if l.ProductID == id {
			delete(s.data.cartLines, lid)
		}
	}
	return nil
}

func (s *Store) VariantByID(_ context.Context, id int64) (*models.Variant, error) {
	defer s.lock()()
	v, ok := s.data.variants[id]
	if !ok {
		return nil, models.ErrVariantNotFound
	}
	return &v, nil
}

func (s *Store) CreateVariant(_ context.Context, v *models.Variant) error {
	defer s.lock()()
	if _, ok := s.data.products[v.ProductID]; !ok {
		return models.ErrProductNotFound
	}
	v.ID = s.data.nextID()
	s.data.variants[v.ID] = *v
	return nil
}

func (s *Store) UpdateVariant(_ context.Context, v *models.Variant) error {
	defer s.lock()()
	if _, ok := s.data.variants[v.ID]; !ok {
		return models.ErrVariantNotFound
	}
	s.data.variants[v.ID] = *v
	return nil
}

func (s *Store) DeleteVariant(_ context.Context, id int64) error {
	defer s.lock()()
	if _, ok := s.data.variants[id]; !ok {
		return models.ErrVariantNotFound
	}
	delete(s.data.variants, id)
	for lid, l := range s.data.cartLines {
		if l.VariantID != nil && *l.VariantID == id {
			delete(s.data.cartLines, lid)
		}
	}
	return nil
}

func (s *Store) AvailableStock(_ context.Context, productID int64, variantID *int64) (int, error) {
	defer s.lock()()
	if variantID != nil {
		v, ok := s.data.variants[*variantID]
		if !ok || v.ProductID != productID {
			return 0, models.ErrVariantNotFound
		}
		return v.Stock, nil
	}
	p, ok := s.data.products[productID]
	if !ok {
		return 0, models.ErrProductNotFound
	}
	return p.Stock, nil
}

func (s *Store) ApplyStockDelta(_ context.Context, productID int64, variantID *int64, delta int) error {
	defer s.lock()()
	if variantID != nil {
		v, ok := s.data.variants[*variantID]
		if !ok || v.ProductID != productID {
			return models.ErrVariantNotFound
		}
		if v.Stock+delta < 0 {
			return models.InsufficientStockError(s.data.products[productID].Name)
		}
		v.Stock += delta
		s.data.variants[*variantID] = v
		return nil
	}
	p, ok := s.data.products[productID]
	if !ok {
		return models.ErrProductNotFound
	}
	if p.Stock+delta < 0 {
		return models.InsufficientStockError(p.Name)
	}
	p.Stock += delta
	p.UpdatedAt = now()
	s.data.products[productID] = p
	return nil
}
