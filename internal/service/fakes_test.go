package service

import (
	"errors"

	"agrimart-api/internal/model"
	"agrimart-api/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository fakes shared across the service tests.

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) FindByEmail(email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByMobile(mobile string) (*model.User, error) {
	for _, u := range r.users {
		if u.Mobile == mobile {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByID(id uuid.UUID) (*model.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindAll() ([]model.User, error) {
	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) Create(user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Update(user *model.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

type fakeAuditRepo struct {
	entries    []model.AuditLog
	failCreate bool
}

func (r *fakeAuditRepo) Create(entry *model.AuditLog) error {
	if r.failCreate {
		return errors.New("audit store unavailable")
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) FindAll() ([]model.AuditLog, error) {
	return r.entries, nil
}

type fakeProductRepo struct {
	products        map[uuid.UUID]*model.Product
	reviews         []model.Review
	versionConflict bool
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *fakeProductRepo) Create(product *model.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) FindAll(keyword string) ([]model.Product, error) {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeProductRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	if p, ok := r.products[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProductRepo) FindBySeller(sellerID uuid.UUID) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.SellerID == sellerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) SellerProductIDs(sellerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, p := range r.products {
		if p.SellerID == sellerID {
			ids = append(ids, p.ID)
		}
	}
	return ids, nil
}

func (r *fakeProductRepo) UpdateVersioned(product *model.Product) error {
	if r.versionConflict {
		return repository.ErrVersionConflict
	}
	product.Version++
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) Delete(id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) AddReview(productID uuid.UUID, review *model.Review) error {
	review.ProductID = productID
	r.reviews = append(r.reviews, *review)

	var sum int
	var count int
	for _, rev := range r.reviews {
		if rev.ProductID == productID {
			sum += rev.Rating
			count++
		}
	}
	p := r.products[productID]
	p.NumReviews = count
	p.Rating = float64(sum) / float64(count)
	return nil
}

func (r *fakeProductRepo) HasReviewBy(productID, userID uuid.UUID) (bool, error) {
	for _, rev := range r.reviews {
		if rev.ProductID == productID && rev.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

type fakeOrderRepo struct {
	orders          map[uuid.UUID]*model.Order
	products        *fakeProductRepo
	versionConflict bool
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (r *fakeOrderRepo) Checkout(lines []repository.ReservationLine, build func(items []model.OrderItem) *model.Order) (*model.Order, error) {
	reserved := make(map[uuid.UUID]int)
	rollback := func() {
		for id, qty := range reserved {
			r.products.products[id].CountInStock += qty
		}
	}

	items := make([]model.OrderItem, 0, len(lines))
	for _, line := range lines {
		p, ok := r.products.products[line.ProductID]
		if !ok {
			rollback()
			return nil, gorm.ErrRecordNotFound
		}
		if p.CountInStock < line.Qty {
			rollback()
			return nil, repository.ErrInsufficientStock
		}
		p.CountInStock -= line.Qty
		reserved[p.ID] += line.Qty
		items = append(items, model.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Image:     p.Image,
			Price:     p.Price,
			Qty:       line.Qty,
		})
	}

	return r.add(build(items)), nil
}

func (r *fakeOrderRepo) add(order *model.Order) *model.Order {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	r.orders[order.ID] = order
	return order
}

func (r *fakeOrderRepo) FindByID(id uuid.UUID) (*model.Order, error) {
	if o, ok := r.orders[id]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeOrderRepo) FindByUser(userID uuid.UUID) ([]model.Order, error) {
	var out []model.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) FindAll() ([]model.Order, error) {
	out := make([]model.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (r *fakeOrderRepo) FindByProducts(productIDs []uuid.UUID) ([]model.Order, error) {
	var out []model.Order
	for _, o := range r.orders {
		if o.ContainsProductOf(productIDs) {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) HasPaidOrderWithProduct(userID, productID uuid.UUID) (bool, error) {
	for _, o := range r.orders {
		if o.UserID == userID && o.IsPaid && o.ContainsProductOf([]uuid.UUID{productID}) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeOrderRepo) UpdateVersioned(order *model.Order) error {
	if r.versionConflict {
		return repository.ErrVersionConflict
	}
	order.Version++
	r.orders[order.ID] = order
	return nil
}

type fakeKnowledgeRepo struct {
	posts    map[uuid.UUID]*model.KnowledgePost
	comments []model.KnowledgeComment
}

func newFakeKnowledgeRepo() *fakeKnowledgeRepo {
	return &fakeKnowledgeRepo{posts: make(map[uuid.UUID]*model.KnowledgePost)}
}

func (r *fakeKnowledgeRepo) FindAll() ([]model.KnowledgePost, error) {
	out := make([]model.KnowledgePost, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeKnowledgeRepo) FindByID(id uuid.UUID) (*model.KnowledgePost, error) {
	if p, ok := r.posts[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeKnowledgeRepo) Create(post *model.KnowledgePost) error {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	r.posts[post.ID] = post
	return nil
}

func (r *fakeKnowledgeRepo) Update(post *model.KnowledgePost) error {
	r.posts[post.ID] = post
	return nil
}

func (r *fakeKnowledgeRepo) Delete(id uuid.UUID) error {
	delete(r.posts, id)
	return nil
}

func (r *fakeKnowledgeRepo) AddComment(comment *model.KnowledgeComment) error {
	r.comments = append(r.comments, *comment)
	return nil
}
