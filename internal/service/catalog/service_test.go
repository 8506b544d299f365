package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"shopkart/internal/domain"
	productrepo "shopkart/internal/repository/product"
)

type stubProductRepo struct {
	created    *domain.Product
	lastCreate domain.Product
	updated    *domain.Product
	lastUpdate domain.Product
	product    *domain.Product
	getErr     error
	listResult []domain.Product
	listTotal  int
	lastFilter productrepo.ListFilter
	lastStock  int
}

func (s *stubProductRepo) Create(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.lastCreate = p
	if s.created != nil {
		return s.created, nil
	}
	out := p
	out.ID = "p1"
	return &out, nil
}

func (s *stubProductRepo) Update(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.lastUpdate = p
	if s.updated != nil {
		return s.updated, nil
	}
	return &p, nil
}

func (s *stubProductRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	return &p, nil
}

func (s *stubProductRepo) SoftDelete(_ context.Context, _ string) error { return nil }

func (s *stubProductRepo) GetByID(_ context.Context, _ string) (*domain.Product, error) {
	return s.product, s.getErr
}

func (s *stubProductRepo) GetBySlug(_ context.Context, _ string) (*domain.Product, error) {
	return s.product, s.getErr
}

func (s *stubProductRepo) List(_ context.Context, f productrepo.ListFilter) ([]domain.Product, int, error) {
	s.lastFilter = f
	return s.listResult, s.listTotal, nil
}

func (s *stubProductRepo) SetStock(_ context.Context, _ string, quantity int) error {
	s.lastStock = quantity
	return nil
}

type stubCategoryRepo struct {
	categories map[string]*domain.Category
	created    *domain.Category
	lastCreate domain.Category
	lastUpdate domain.Category
	products   int
	children   int
	deletedID  string
}

func (s *stubCategoryRepo) Create(_ context.Context, c domain.Category) (*domain.Category, error) {
	s.lastCreate = c
	if s.created != nil {
		return s.created, nil
	}
	out := c
	out.ID = "cat1"
	return &out, nil
}

func (s *stubCategoryRepo) Update(_ context.Context, c domain.Category) (*domain.Category, error) {
	s.lastUpdate = c
	return &c, nil
}

func (s *stubCategoryRepo) SoftDelete(_ context.Context, id string) error {
	s.deletedID = id
	return nil
}

func (s *stubCategoryRepo) GetByID(_ context.Context, id string) (*domain.Category, error) {
	if c, ok := s.categories[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubCategoryRepo) GetBySlug(_ context.Context, _ string) (*domain.Category, error) {
	return nil, domain.ErrNotFound
}

func (s *stubCategoryRepo) List(_ context.Context) ([]domain.Category, error) { return nil, nil }

func (s *stubCategoryRepo) CountLiveProducts(_ context.Context, _ string) (int, error) {
	return s.products, nil
}

func (s *stubCategoryRepo) CountLiveChildren(_ context.Context, _ string) (int, error) {
	return s.children, nil
}

func categoryMap(ids ...string) map[string]*domain.Category {
	out := make(map[string]*domain.Category, len(ids))
	for _, id := range ids {
		out[id] = &domain.Category{ID: id}
	}
	return out
}

func validProduct() ProductInput {
	return ProductInput{
		Name:       "Mug",
		Slug:       "mug",
		SKU:        "SKU-MUG",
		Price:      decimal.RequireFromString("12.50"),
		CategoryID: "cat1",
	}
}

func TestCreateProductValidation(t *testing.T) {
	svc := New(&stubProductRepo{}, &stubCategoryRepo{categories: categoryMap("cat1")})

	cases := []struct {
		name   string
		mutate func(*ProductInput)
	}{
		{"missing name", func(in *ProductInput) { in.Name = " " }},
		{"missing slug", func(in *ProductInput) { in.Slug = "" }},
		{"missing sku", func(in *ProductInput) { in.SKU = "" }},
		{"zero price", func(in *ProductInput) { in.Price = decimal.Zero }},
		{"negative price", func(in *ProductInput) { in.Price = decimal.NewFromInt(-1) }},
		{"negative stock", func(in *ProductInput) { in.StockQuantity = -1 }},
	}
	for _, tc := range cases {
		in := validProduct()
		tc.mutate(&in)
		if _, err := svc.CreateProduct(context.Background(), in); !errors.Is(err, domain.ErrInvalidState) {
			t.Fatalf("%s: expected invalid state, got %v", tc.name, err)
		}
	}
}

func TestCreateProductUnknownCategory(t *testing.T) {
	svc := New(&stubProductRepo{}, &stubCategoryRepo{categories: categoryMap()})
	_, err := svc.CreateProduct(context.Background(), validProduct())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateProductDefaults(t *testing.T) {
	products := &stubProductRepo{}
	svc := New(products, &stubCategoryRepo{categories: categoryMap("cat1")})
	p, err := svc.CreateProduct(context.Background(), validProduct())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.IsActive {
		t.Fatal("expected product active by default")
	}
	if products.lastCreate.LowStockThreshold != 5 {
		t.Fatalf("expected default low stock threshold 5, got %d", products.lastCreate.LowStockThreshold)
	}
}

func TestUpdateProductChecksNewCategory(t *testing.T) {
	products := &stubProductRepo{product: &domain.Product{ID: "p1", CategoryID: "cat1"}}
	svc := New(products, &stubCategoryRepo{categories: categoryMap("cat1")})
	in := validProduct()
	in.CategoryID = "cat-missing"
	_, err := svc.UpdateProduct(context.Background(), "p1", in)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for new category, got %v", err)
	}
}

func TestSetProductStockRejectsNegative(t *testing.T) {
	svc := New(&stubProductRepo{}, &stubCategoryRepo{})
	if err := svc.SetProductStock(context.Background(), "p1", -1); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestListProductsDefaultsPagination(t *testing.T) {
	products := &stubProductRepo{listTotal: 41}
	svc := New(products, &stubCategoryRepo{})
	page, err := svc.ListProducts(context.Background(), productrepo.ListFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if products.lastFilter.Page != 1 || products.lastFilter.PageSize != 20 {
		t.Fatalf("expected defaults page=1 size=20, got %+v", products.lastFilter)
	}
	if page.TotalPages != 3 {
		t.Fatalf("expected 3 total pages for 41, got %d", page.TotalPages)
	}
	if page.Data == nil {
		t.Fatal("expected empty slice, got nil")
	}
}

func TestCreateCategoryRequiresNameAndSlug(t *testing.T) {
	svc := New(&stubProductRepo{}, &stubCategoryRepo{})
	_, err := svc.CreateCategory(context.Background(), CategoryInput{Name: "", Slug: "x"})
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestCreateCategoryUnknownParent(t *testing.T) {
	svc := New(&stubProductRepo{}, &stubCategoryRepo{categories: categoryMap()})
	parent := "missing"
	_, err := svc.CreateCategory(context.Background(), CategoryInput{Name: "Kids", Slug: "kids", ParentID: &parent})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateCategoryRejectsSelfAncestry(t *testing.T) {
	// c1 -> c2: reparenting c1 under c2 closes a cycle.
	c1 := &domain.Category{ID: "c1"}
	c2 := &domain.Category{ID: "c2", ParentID: &c1.ID}
	categories := &stubCategoryRepo{categories: map[string]*domain.Category{"c1": c1, "c2": c2}}
	svc := New(&stubProductRepo{}, categories)
	parent := "c2"
	_, err := svc.UpdateCategory(context.Background(), "c1", CategoryInput{ParentID: &parent})
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected invalid state for cycle, got %v", err)
	}
}

func TestDeleteCategoryWithProducts(t *testing.T) {
	categories := &stubCategoryRepo{categories: categoryMap("c1"), products: 3}
	svc := New(&stubProductRepo{}, categories)
	if err := svc.DeleteCategory(context.Background(), "c1"); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestDeleteCategoryWithChildren(t *testing.T) {
	categories := &stubCategoryRepo{categories: categoryMap("c1"), children: 1}
	svc := New(&stubProductRepo{}, categories)
	if err := svc.DeleteCategory(context.Background(), "c1"); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestDeleteCategoryHappyPath(t *testing.T) {
	categories := &stubCategoryRepo{categories: categoryMap("c1")}
	svc := New(&stubProductRepo{}, categories)
	if err := svc.DeleteCategory(context.Background(), "c1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if categories.deletedID != "c1" {
		t.Fatalf("expected c1 soft-deleted, got %q", categories.deletedID)
	}
}
