// Package liststate caches list query results for one session and applies
// mutations optimistically: the local state changes first, the use case runs,
// and a failure restores the pre-action snapshot.
//
// The store lock is never held while a use case runs, so concurrent mutations
// of the same entry race and the last response wins. Storage stays the source
// of truth.
package liststate

import (
	"context"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"

	"github.com/Kerhoff/shoplist/internal/apperrors"
	"github.com/Kerhoff/shoplist/internal/dto"
	"github.com/Kerhoff/shoplist/internal/metrics"
	"github.com/Kerhoff/shoplist/internal/usecase/lists"
)

// LoadingState tracks read operations.
type LoadingState string

const (
	LoadingIdle       LoadingState = "idle"
	LoadingLoading    LoadingState = "loading"
	LoadingRefreshing LoadingState = "refreshing"
	LoadingError      LoadingState = "error"
)

// State is the cached view of one session.
type State struct {
	Lists           []dto.ListWithProductCountDTO
	CurrentList     *dto.ListDTO
	CurrentProducts []dto.ListProductDTO
	LoadingState    LoadingState
	Error           string
}

func (s State) clone() State {
	out := State{LoadingState: s.LoadingState, Error: s.Error}
	if s.Lists != nil {
		out.Lists = make([]dto.ListWithProductCountDTO, len(s.Lists))
		for i, l := range s.Lists {
			out.Lists[i] = dto.ListWithProductCountDTO{ListDTO: l.ListDTO.Clone(), ProductCount: l.ProductCount}
		}
	}
	if s.CurrentList != nil {
		c := s.CurrentList.Clone()
		out.CurrentList = &c
	}
	if s.CurrentProducts != nil {
		out.CurrentProducts = append([]dto.ListProductDTO(nil), s.CurrentProducts...)
	}
	return out
}

// User-facing messages for failures outside the application error taxonomy.
const (
	msgLoadLists      = "could not load your lists, try again"
	msgLoadList       = "could not load the list, try again"
	msgLoadProducts   = "could not load the products, try again"
	msgRefresh        = "could not refresh, try again"
	msgCreateList     = "could not create the list, try again"
	msgUpdateList     = "could not update the list, try again"
	msgDeleteList     = "could not delete the list, try again"
	msgAddProduct     = "could not add the product, try again"
	msgRemoveProduct  = "could not remove the product, try again"
	msgUpdateQuantity = "could not update the quantity, try again"
	msgToggle         = "could not update the status, try again"
)

// Store is the optimistic cache of one session. It is safe for concurrent use.
type Store struct {
	svc     Service
	logger  *logrus.Entry
	metrics *metrics.Metrics
	seq     *atomic.Uint64

	mu    sync.RWMutex
	state State
	last  *Mutation
}

// NewStore creates an empty store. m may be nil.
func NewStore(svc Service, logger *logrus.Entry, m *metrics.Metrics) *Store {
	return &Store{
		svc:     svc,
		logger:  logger,
		metrics: m,
		seq:     atomic.NewUint64(0),
		state:   State{LoadingState: LoadingIdle},
	}
}

// State returns a deep copy of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// LastMutation returns the most recent mutation, if any.
func (s *Store) LastMutation() (Mutation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return Mutation{}, false
	}
	return s.last.public(), true
}

// ActiveLists returns the cached lists flagged active.
func (s *Store) ActiveLists() []dto.ListWithProductCountDTO {
	return s.filterLists(func(l dto.ListWithProductCountDTO) bool { return l.IsActive })
}

// PublicLists returns the cached lists flagged public.
func (s *Store) PublicLists() []dto.ListWithProductCountDTO {
	return s.filterLists(func(l dto.ListWithProductCountDTO) bool { return l.IsPublic })
}

// PendingProducts returns the current entries not yet purchased.
func (s *Store) PendingProducts() []dto.ListProductDTO {
	return s.filterProducts(func(p dto.ListProductDTO) bool { return !p.IsPurchased })
}

// PurchasedProducts returns the current entries already purchased.
func (s *Store) PurchasedProducts() []dto.ListProductDTO {
	return s.filterProducts(func(p dto.ListProductDTO) bool { return p.IsPurchased })
}

func (s *Store) filterLists(keep func(dto.ListWithProductCountDTO) bool) []dto.ListWithProductCountDTO {
	st := s.State()
	out := []dto.ListWithProductCountDTO{}
	for _, l := range st.Lists {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}

func (s *Store) filterProducts(keep func(dto.ListProductDTO) bool) []dto.ListProductDTO {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []dto.ListProductDTO{}
	for _, p := range s.state.CurrentProducts {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// SetCurrentList selects the list shown in detail. nil clears it. Switching
// to another list drops the cached products.
func (s *Store) SetCurrentList(list *dto.ListDTO) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if list == nil {
		s.state.CurrentList = nil
		s.state.CurrentProducts = nil
		return
	}
	c := list.Clone()
	s.state.selectList(&c)
}

// ClearError drops the last error message.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Error = ""
}

// Reset returns the store to its initial state.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{LoadingState: LoadingIdle}
	s.last = nil
}

// read runs a query with the loading state set to mode and stores its result.
func (s *Store) read(mode LoadingState, fallback string, call func() (func(*State), error)) error {
	s.mu.Lock()
	s.state.LoadingState = mode
	s.state.Error = ""
	s.mu.Unlock()

	commit, err := call()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state.LoadingState = LoadingError
		s.state.Error = apperrors.MessageOf(err, fallback)
		s.logger.WithError(err).Warn("state load failed")
		return err
	}
	commit(&s.state)
	s.state.LoadingState = LoadingIdle
	return nil
}

// LoadLists replaces the cached lists with the user's lists.
func (s *Store) LoadLists(ctx context.Context, userID string) error {
	return s.loadLists(ctx, LoadingLoading, msgLoadLists, userID)
}

// Refresh reloads the user's lists without clearing the view.
func (s *Store) Refresh(ctx context.Context, userID string) error {
	return s.loadLists(ctx, LoadingRefreshing, msgRefresh, userID)
}

func (s *Store) loadLists(ctx context.Context, mode LoadingState, fallback, userID string) error {
	return s.read(mode, fallback, func() (func(*State), error) {
		result, err := s.svc.GetUserLists(ctx, userID)
		if err != nil {
			return nil, err
		}
		return func(st *State) { st.Lists = result }, nil
	})
}

// LoadList loads one list as the current list.
func (s *Store) LoadList(ctx context.Context, listID string) error {
	return s.read(LoadingLoading, msgLoadList, func() (func(*State), error) {
		result, err := s.svc.GetListByID(ctx, listID)
		if err != nil {
			return nil, err
		}
		return func(st *State) { st.selectList(&result) }, nil
	})
}

// selectList makes list current. Products cached for a different list never
// survive the switch.
func (st *State) selectList(list *dto.ListDTO) {
	if st.CurrentList == nil || st.CurrentList.ID != list.ID {
		st.CurrentProducts = nil
	}
	st.CurrentList = list
}

// LoadListProducts loads the entries of a list as the current products.
func (s *Store) LoadListProducts(ctx context.Context, listID string) error {
	return s.read(LoadingLoading, msgLoadProducts, func() (func(*State), error) {
		result, err := s.svc.GetListProducts(ctx, listID)
		if err != nil {
			return nil, err
		}
		return func(st *State) { st.CurrentProducts = result }, nil
	})
}

// CreateList creates a list and puts it first in the cached lists.
func (s *Store) CreateList(ctx context.Context, in lists.CreateListInput) (dto.ListDTO, error) {
	var created dto.ListDTO
	err := s.read(LoadingLoading, msgCreateList, func() (func(*State), error) {
		result, err := s.svc.CreateList(ctx, in)
		if err != nil {
			return nil, err
		}
		created = result
		return func(st *State) {
			entry := dto.ListWithProductCountDTO{ListDTO: result.Clone()}
			st.Lists = append([]dto.ListWithProductCountDTO{entry}, st.Lists...)
		}, nil
	})
	return created, err
}

// mutation describes one optimistic change.
type mutation struct {
	action   Action
	scope    scope
	fallback string
	apply    func(*State)
	call     func(context.Context) error
	onCommit func(*State)
	// keepOnError leaves the optimistic change in place when call fails.
	keepOnError bool
}

func (s *Store) mutate(ctx context.Context, op mutation) error {
	s.mu.Lock()
	m := newMutation(s.seq.Inc(), op.action, op.scope, s.state.clone())
	if op.apply != nil {
		op.apply(&s.state)
	}
	s.last = m
	s.mu.Unlock()

	err := op.call(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.logger.WithFields(logrus.Fields{"action": op.action, "seq": m.Seq})
	switch {
	case err == nil:
		m.commit()
		if op.onCommit != nil {
			op.onCommit(&s.state)
		}
	case op.keepOnError:
		m.keep(err)
		log.WithError(err).Warn("mutation failed, keeping local state")
		err = nil
	default:
		m.rollback(&s.state, err)
		s.state.Error = apperrors.MessageOf(err, op.fallback)
		log.WithError(err).Warn("mutation rolled back")
	}
	s.metrics.StateMutation(string(op.action), string(m.State))
	return err
}

// UpdateList applies the supplied fields locally, then persists them.
func (s *Store) UpdateList(ctx context.Context, listID string, in lists.UpdateListInput) error {
	return s.mutate(ctx, mutation{
		action:   ActionUpdateList,
		scope:    scopeLists,
		fallback: msgUpdateList,
		apply: func(st *State) {
			st.Error = ""
			edit := func(l dto.ListDTO) dto.ListDTO {
				entity := dto.ListToEntity(l)
				if in.Name != nil {
					entity.Rename(strings.TrimSpace(*in.Name))
				}
				if in.Description != nil {
					entity.SetDescription(strings.TrimSpace(*in.Description))
				}
				if in.IsActive != nil {
					entity.SetActive(*in.IsActive)
				}
				if in.IsPublic != nil {
					entity.SetPrivacy(*in.IsPublic)
				}
				if in.CanBeShared != nil {
					entity.SetSharePolicy(*in.CanBeShared)
				}
				return dto.ListFromEntity(entity)
			}
			for i := range st.Lists {
				if st.Lists[i].ID == listID {
					st.Lists[i].ListDTO = edit(st.Lists[i].ListDTO)
				}
			}
			if st.CurrentList != nil && st.CurrentList.ID == listID {
				updated := edit(*st.CurrentList)
				st.CurrentList = &updated
			}
		},
		call: func(ctx context.Context) error { return s.svc.UpdateList(ctx, listID, in) },
	})
}

// DeleteList removes the list locally, then soft-deletes it.
func (s *Store) DeleteList(ctx context.Context, listID string) error {
	return s.mutate(ctx, mutation{
		action:   ActionDeleteList,
		scope:    scopeLists | scopeProducts,
		fallback: msgDeleteList,
		apply: func(st *State) {
			st.Error = ""
			kept := st.Lists[:0:0]
			for _, l := range st.Lists {
				if l.ID != listID {
					kept = append(kept, l)
				}
			}
			st.Lists = kept
			if st.CurrentList != nil && st.CurrentList.ID == listID {
				st.CurrentList = nil
				st.CurrentProducts = nil
			}
		},
		call: func(ctx context.Context) error { return s.svc.DeleteList(ctx, listID) },
	})
}

// IncrementUsage bumps the usage counter locally and persists it. A failure is
// logged and the local counter is kept.
func (s *Store) IncrementUsage(ctx context.Context, listID string) {
	_ = s.mutate(ctx, mutation{
		action:      ActionIncrementUsage,
		scope:       scopeLists,
		keepOnError: true,
		apply: func(st *State) {
			for i := range st.Lists {
				if st.Lists[i].ID == listID {
					st.Lists[i].UsedTimes++
				}
			}
			if st.CurrentList != nil && st.CurrentList.ID == listID {
				st.CurrentList.UsedTimes++
			}
		},
		call: func(ctx context.Context) error { return s.svc.IncrementListUsage(ctx, listID) },
	})
}

// AddProduct adds a product, reloads the entries of the list and bumps its
// product count.
func (s *Store) AddProduct(ctx context.Context, listID, productID string, quantity float64) error {
	err := s.mutate(ctx, mutation{
		action:   ActionAddProduct,
		scope:    scopeLists,
		fallback: msgAddProduct,
		apply:    func(st *State) { st.Error = "" },
		call: func(ctx context.Context) error {
			return s.svc.AddProductToList(ctx, listID, productID, quantity)
		},
		onCommit: func(st *State) {
			adjustCount(st, listID, 1)
		},
	})
	if err != nil {
		return err
	}
	return s.LoadListProducts(ctx, listID)
}

// RemoveProduct drops every entry of the product locally, then removes it.
func (s *Store) RemoveProduct(ctx context.Context, listID, productID string) error {
	removed := 0
	return s.mutate(ctx, mutation{
		action:   ActionRemoveProduct,
		scope:    scopeProducts,
		fallback: msgRemoveProduct,
		apply: func(st *State) {
			st.Error = ""
			kept := st.CurrentProducts[:0:0]
			for _, p := range st.CurrentProducts {
				if p.Product.ID == productID {
					removed++
					continue
				}
				kept = append(kept, p)
			}
			st.CurrentProducts = kept
		},
		call: func(ctx context.Context) error {
			return s.svc.RemoveProductFromList(ctx, listID, productID)
		},
		onCommit: func(st *State) {
			adjustCount(st, listID, -max(removed, 1))
		},
	})
}

// UpdateQuantity sets the quantity locally, then persists it.
func (s *Store) UpdateQuantity(ctx context.Context, listID, productID string, quantity float64) error {
	return s.mutate(ctx, mutation{
		action:   ActionUpdateQuantity,
		scope:    scopeProducts,
		fallback: msgUpdateQuantity,
		apply: func(st *State) {
			st.Error = ""
			st.CurrentProducts = editProducts(st.CurrentProducts, productID, func(p *dto.ListProductDTO) {
				p.Quantity = quantity
			})
		},
		call: func(ctx context.Context) error {
			return s.svc.UpdateProductQuantity(ctx, listID, productID, quantity)
		},
	})
}

// TogglePurchased flips the purchased flag locally and persists the new
// value. A product missing from the current entries is marked purchased.
func (s *Store) TogglePurchased(ctx context.Context, listID, productID string) error {
	purchased := true
	return s.mutate(ctx, mutation{
		action:   ActionTogglePurchased,
		scope:    scopeProducts,
		fallback: msgToggle,
		apply: func(st *State) {
			st.Error = ""
			for _, p := range st.CurrentProducts {
				if p.Product.ID == productID {
					purchased = !p.IsPurchased
					break
				}
			}
			st.CurrentProducts = editProducts(st.CurrentProducts, productID, func(p *dto.ListProductDTO) {
				p.IsPurchased = purchased
			})
		},
		call: func(ctx context.Context) error {
			if purchased {
				return s.svc.MarkProductAsPurchased(ctx, listID, productID)
			}
			return s.svc.UnmarkProductAsPurchased(ctx, listID, productID)
		},
	})
}

// editProducts returns a copy of products with fn applied to every entry of
// productID.
func editProducts(products []dto.ListProductDTO, productID string, fn func(*dto.ListProductDTO)) []dto.ListProductDTO {
	if products == nil {
		return nil
	}
	out := append([]dto.ListProductDTO(nil), products...)
	for i := range out {
		if out[i].Product.ID == productID {
			fn(&out[i])
		}
	}
	return out
}

func adjustCount(st *State, listID string, delta int) {
	for i := range st.Lists {
		if st.Lists[i].ID == listID {
			st.Lists[i].ProductCount = max(st.Lists[i].ProductCount+delta, 0)
		}
	}
}
