package nestclient

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ToggleState is the lifecycle of the most recent toggle of one housing.
type ToggleState int

const (
	Idle ToggleState = iota
	Pending
	Committed
	RolledBack
)

func (s ToggleState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled_back"
	default:
		return "idle"
	}
}

// ErrTogglePending is returned when a housing is toggled again before the
// previous server call has finished.
var ErrTogglePending = errors.New("favorite toggle already in flight")

// FavoriteAPI is the part of Client that FavoriteSet needs.
type FavoriteAPI interface {
	ListFavorites(ctx context.Context) ([]uuid.UUID, error)
	AddFavorite(ctx context.Context, housingID uuid.UUID) error
	RemoveFavorite(ctx context.Context, housingID uuid.UUID) error
}

// FavoriteSet keeps the signed-in user's favorites locally and applies
// toggles optimistically: membership flips first and is reverted when the
// server refuses.
type FavoriteSet struct {
	api FavoriteAPI

	mu       sync.Mutex
	members  map[uuid.UUID]bool
	states   map[uuid.UUID]ToggleState
	onChange func(id uuid.UUID, favorited bool, state ToggleState)
}

func NewFavoriteSet(api FavoriteAPI) *FavoriteSet {
	return &FavoriteSet{
		api:     api,
		members: make(map[uuid.UUID]bool),
		states:  make(map[uuid.UUID]ToggleState),
	}
}

// OnChange registers fn to observe every membership or state transition.
// fn runs without the set's lock held.
func (f *FavoriteSet) OnChange(fn func(id uuid.UUID, favorited bool, state ToggleState)) {
	f.mu.Lock()
	f.onChange = fn
	f.mu.Unlock()
}

// Load replaces local membership with the server's list. Pending toggles
// keep their local value.
func (f *FavoriteSet) Load(ctx context.Context) error {
	ids, err := f.api.ListFavorites(ctx)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	next := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		next[id] = true
	}
	for id, st := range f.states {
		if st == Pending {
			if f.members[id] {
				next[id] = true
			} else {
				delete(next, id)
			}
		}
	}
	f.members = next
	return nil
}

func (f *FavoriteSet) IsFavorited(id uuid.UUID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.members[id]
}

func (f *FavoriteSet) State(id uuid.UUID) ToggleState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.states[id]
}

// Len reports how many housings are currently favorited locally.
func (f *FavoriteSet) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.members)
}

// Toggle flips id and confirms with the server. It returns the membership
// after the toggle settles. On a server error the flip is undone, the state
// becomes RolledBack and the error is returned.
func (f *FavoriteSet) Toggle(ctx context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	if f.states[id] == Pending {
		f.mu.Unlock()
		return f.IsFavorited(id), ErrTogglePending
	}
	was := f.members[id]
	f.set(id, !was)
	f.states[id] = Pending
	notify := f.onChange
	f.mu.Unlock()
	if notify != nil {
		notify(id, !was, Pending)
	}

	var err error
	if was {
		err = f.api.RemoveFavorite(ctx, id)
	} else {
		err = f.api.AddFavorite(ctx, id)
	}

	f.mu.Lock()
	final, state := !was, Committed
	if err != nil {
		final, state = was, RolledBack
	}
	f.set(id, final)
	f.states[id] = state
	notify = f.onChange
	f.mu.Unlock()
	if notify != nil {
		notify(id, final, state)
	}
	return final, err
}

func (f *FavoriteSet) set(id uuid.UUID, on bool) {
	if on {
		f.members[id] = true
	} else {
		delete(f.members, id)
	}
}

// FavoriteIDs adapts Client to FavoriteAPI.
type FavoriteIDs struct{ *Client }

func (c FavoriteIDs) ListFavorites(ctx context.Context) ([]uuid.UUID, error) {
	favs, err := c.Client.ListFavorites(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(favs))
	for _, v := range favs {
		id, err := uuid.Parse(v.ID)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
