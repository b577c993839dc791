package services

import (
	"database/sql"
	"errors"

	"jadimart/internal/domain"
	"jadimart/internal/repos"
)

// CartStore is one physical backing for a logical cart. Two implementations
// exist: the SQL store below for authenticated users, and a cookie store in
// the HTTP layer for guests. All merge logic lives here, shared by both.
type CartStore interface {
	Load() ([]domain.CartLine, error)
	Save([]domain.CartLine) error
}

// ---------- line ops ----------

// addLine accumulates quantity into an existing line or appends a new one.
// Repeated adds never duplicate rows.
func addLine(lines []domain.CartLine, productID string, qty int) []domain.CartLine {
	if qty < 1 {
		qty = 1
	}
	for i, l := range lines {
		if l.ProductID == productID {
			lines[i].Qty += qty
			return lines
		}
	}
	return append(lines, domain.CartLine{ProductID: productID, Qty: qty})
}

// adjustLine applies a signed delta. A resulting quantity below 1 removes the
// line; the policy is the same on both backings.
func adjustLine(lines []domain.CartLine, productID string, delta int) []domain.CartLine {
	for i, l := range lines {
		if l.ProductID != productID {
			continue
		}
		if l.Qty+delta < 1 {
			return append(lines[:i], lines[i+1:]...)
		}
		lines[i].Qty += delta
		return lines
	}
	if delta > 0 {
		return append(lines, domain.CartLine{ProductID: productID, Qty: delta})
	}
	return lines
}

// removeLine deletes unconditionally; an absent line is a no-op.
func removeLine(lines []domain.CartLine, productID string) []domain.CartLine {
	for i, l := range lines {
		if l.ProductID == productID {
			return append(lines[:i], lines[i+1:]...)
		}
	}
	return lines
}

// mergeLines folds src into dst additively (quantities summed per product).
func mergeLines(dst, src []domain.CartLine) []domain.CartLine {
	for _, l := range src {
		dst = addLine(dst, l.ProductID, l.Qty)
	}
	return dst
}

// ---------- service ----------

type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

// StoreFor returns the server-persisted backing for an authenticated user.
func (s *CartService) StoreFor(userID string) CartStore {
	return &sqlCartStore{repo: s.Carts, userID: userID}
}

type sqlCartStore struct {
	repo   *repos.CartRepo
	userID string
}

func (st *sqlCartStore) Load() ([]domain.CartLine, error) {
	cartID, err := st.repo.Ensure(st.userID)
	if err != nil {
		return nil, err
	}
	return st.repo.Lines(cartID)
}

func (st *sqlCartStore) Save(lines []domain.CartLine) error {
	cartID, err := st.repo.Ensure(st.userID)
	if err != nil {
		return err
	}
	return st.repo.ReplaceLines(cartID, lines)
}

func (s *CartService) Add(store CartStore, productID string, qty int) error {
	if _, err := s.Prods.Get(productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	lines, err := store.Load()
	if err != nil {
		return err
	}
	return store.Save(addLine(lines, productID, qty))
}

func (s *CartService) Adjust(store CartStore, productID string, delta int) error {
	lines, err := store.Load()
	if err != nil {
		return err
	}
	return store.Save(adjustLine(lines, productID, delta))
}

func (s *CartService) Remove(store CartStore, productID string) error {
	lines, err := store.Load()
	if err != nil {
		return err
	}
	return store.Save(removeLine(lines, productID))
}

type CartItem struct {
	ProductID string
	Name      string
	Image     string
	Price     float64
	Qty       int
	Subtotal  float64
}

type CartView struct {
	Items []CartItem
	Total float64
}

func (v CartView) Lines() []domain.CartLine {
	out := make([]domain.CartLine, 0, len(v.Items))
	for _, it := range v.Items {
		out = append(out, domain.CartLine{ProductID: it.ProductID, Qty: it.Qty})
	}
	return out
}

// View expands the line set against the catalog at read time, so displayed
// names and prices always reflect the current catalog. A line whose product
// vanished from the catalog is skipped rather than shown dangling.
func (s *CartService) View(store CartStore) (CartView, error) {
	lines, err := store.Load()
	if err != nil {
		return CartView{}, err
	}
	cv := CartView{}
	for _, l := range lines {
		p, err := s.Prods.Get(l.ProductID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return CartView{}, err
		}
		sub := p.Price * float64(l.Qty)
		cv.Items = append(cv.Items, CartItem{
			ProductID: p.ID, Name: p.Name, Image: p.Image,
			Price: p.Price, Qty: l.Qty, Subtotal: sub,
		})
		cv.Total += sub
	}
	return cv, nil
}

// MergeIntoUser folds a guest cart into the user's server cart at login.
// Quantities are summed per product; the caller clears the guest backing
// once the merge has been persisted.
func (s *CartService) MergeIntoUser(userID string, guest []domain.CartLine) error {
	if len(guest) == 0 {
		return nil
	}
	store := s.StoreFor(userID)
	lines, err := store.Load()
	if err != nil {
		return err
	}
	return store.Save(mergeLines(lines, guest))
}

// Clear empties the backing (used after a successful checkout).
func (s *CartService) Clear(store CartStore) error {
	return store.Save(nil)
}
