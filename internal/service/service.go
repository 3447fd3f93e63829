package service

import (
	"errors"
	"time"

	"campusnest/internal/authn"
	"campusnest/internal/cache"
	"campusnest/internal/domain"
	"campusnest/internal/store"
)

type Options struct {
	Hasher             *authn.Hasher
	Tokens             *authn.Tokens
	Schools            *cache.Schools // optional
	AllowedEmailSuffix string
	Now                func() time.Time
}

type Service struct {
	store       *store.Store
	hasher      *authn.Hasher
	tokens      *authn.Tokens
	schools     *cache.Schools
	emailSuffix string
	now         func() time.Time
}

func New(st *store.Store, opts Options) *Service {
	s := &Service{
		store:       st,
		hasher:      opts.Hasher,
		tokens:      opts.Tokens,
		schools:     opts.Schools,
		emailSuffix: opts.AllowedEmailSuffix,
		now:         opts.Now,
	}
	if s.hasher == nil {
		s.hasher = authn.NewHasher(authn.DefaultArgon2Params)
	}
	if s.schools == nil {
		s.schools = cache.NewSchools(nil, 0, nil)
	}
	if s.emailSuffix == "" {
		s.emailSuffix = ".edu"
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// storeErr passes domain errors through and wraps anything else as a
// store failure.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var ke *domain.KindError
	if errors.As(err, &ke) {
		return err
	}
	return domain.StoreError(op, err)
}
