package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"campusnest/internal/authn"
	"campusnest/internal/domain"
	"campusnest/internal/dto"
	"campusnest/internal/service"
	"campusnest/internal/store"
	"campusnest/internal/store/storetest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var fastParams = authn.Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

// stepClock advances one second per reading so rows get distinct,
// increasing timestamps.
type stepClock struct {
	mu  sync.Mutex
	cur time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Second)
	return c.cur
}

func setupService(t *testing.T) (*service.Service, *store.Store) {
	t.Helper()
	st := storetest.Open(t)
	clock := &stepClock{cur: time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)}
	svc := service.New(st, service.Options{
		Hasher: authn.NewHasher(fastParams),
		Tokens: authn.NewTokens(authn.TokenConfig{
			Issuer: "campusnest-test", AccessTTL: time.Hour, SigningKey: []byte("test-secret"),
		}),
		AllowedEmailSuffix: ".edu",
		Now:                clock.Now,
	})
	return svc, st
}

func register(t *testing.T, svc *service.Service, name, email string) uuid.UUID {
	t.Helper()
	u, err := svc.Register(context.Background(), dto.RegisterRequest{Name: name, Email: email, Password: "password123"})
	require.NoError(t, err)
	return uuid.MustParse(u.ID)
}

func intp(v int) *int       { return &v }
func boolp(v bool) *bool    { return &v }
func strp(v string) *string { return &v }

func maple() dto.HousingDescriptor {
	return dto.HousingDescriptor{Name: "Maple Apartments", Address: "100 Main St", City: "Corvallis", State: "OR", ZipCode: "97331"}
}

func submission(h dto.HousingDescriptor, overall int) dto.SubmitReviewRequest {
	return dto.SubmitReviewRequest{
		Housing: h,
		Review:  dto.ReviewInput{OverallRating: overall, Description: "Decent place."},
	}
}

func TestRegisterCreatesSchoolWithDefaultBranding(t *testing.T) {
	svc, st := setupService(t)

	u, err := svc.Register(context.Background(), dto.RegisterRequest{Name: "Ann", Email: "  A@School.EDU ", Password: "password123"})
	require.NoError(t, err)
	require.Equal(t, "a@school.edu", u.Email)
	require.False(t, u.IsVerified)
	require.Equal(t, "School", u.School.Name)
	require.Equal(t, "school.edu", u.School.Domain)
	require.Equal(t, "school", u.School.Slug)
	require.Equal(t, domain.DefaultColorPrimary, u.School.ColorPrimary)
	require.Equal(t, domain.DefaultColorSecondary, u.School.ColorSecondary)

	register(t, svc, "Ben", "b@school.edu")
	school, err := st.Schools().GetByDomain(context.Background(), "school.edu")
	require.NoError(t, err)
	require.Equal(t, u.School.ID, school.ID.String())

	stored, err := st.Users().GetByEmail(context.Background(), "a@school.edu")
	require.NoError(t, err)
	require.NotContains(t, stored.PasswordHash, "password123")
}

func TestRegisterRejections(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	register(t, svc, "Ann", "a@school.edu")

	_, err := svc.Register(ctx, dto.RegisterRequest{Name: "X", Email: "x@gmail.com", Password: "password123"})
	require.ErrorIs(t, err, domain.ErrValidation)
	require.Equal(t, "Only .edu email addresses are allowed", domain.Message(err))

	_, err = svc.Register(ctx, dto.RegisterRequest{Name: "X", Email: "x@school.edu", Password: "short"})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Register(ctx, dto.RegisterRequest{Name: "Dup", Email: "A@SCHOOL.EDU", Password: "password123"})
	require.ErrorIs(t, err, domain.ErrConflict)
	require.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	userID := register(t, svc, "Ann", "a@school.edu")

	tok, err := svc.Login(ctx, dto.LoginRequest{Email: "A@school.edu", Password: "password123"})
	require.NoError(t, err)
	require.Equal(t, "Bearer", tok.TokenType)
	require.Equal(t, userID.String(), tok.User.ID)

	tokens := authn.NewTokens(authn.TokenConfig{Issuer: "campusnest-test", AccessTTL: time.Hour, SigningKey: []byte("test-secret")})
	sub, err := tokens.Parse(tok.AccessToken)
	require.NoError(t, err)
	require.Equal(t, userID, sub)

	for _, bad := range []dto.LoginRequest{
		{Email: "a@school.edu", Password: "wrong-password"},
		{Email: "nobody@school.edu", Password: "password123"},
		{Email: "a@school.com", Password: "password123"},
	} {
		_, err := svc.Login(ctx, bad)
		require.ErrorIs(t, err, domain.ErrInvalidCredentials, bad.Email)
		require.ErrorIs(t, err, domain.ErrAuthRequired)
	}
}

func TestLoginRehashesUnderNewPolicy(t *testing.T) {
	svc, st := setupService(t)
	ctx := context.Background()
	userID := register(t, svc, "Ann", "a@school.edu")
	before, err := st.Users().GetByID(ctx, userID)
	require.NoError(t, err)

	stronger := fastParams
	stronger.Time = 2
	svc2 := service.New(st, service.Options{
		Hasher: authn.NewHasher(stronger),
		Tokens: authn.NewTokens(authn.TokenConfig{Issuer: "i", AccessTTL: time.Hour, SigningKey: []byte("k")}),
	})
	_, err = svc2.Login(ctx, dto.LoginRequest{Email: "a@school.edu", Password: "password123"})
	require.NoError(t, err)

	after, err := st.Users().GetByID(ctx, userID)
	require.NoError(t, err)
	require.NotEqual(t, before.PasswordHash, after.PasswordHash)
	require.Contains(t, after.PasswordHash, ",t=2,")
}

// Registration, first review, duplicate review, and a second student whose
// differently-cased name resolves to the same housing.
func TestReviewScenario(t *testing.T) {
	svc, st := setupService(t)
	ctx := context.Background()
	a := register(t, svc, "Ann", "a@school.edu")
	b := register(t, svc, "Ben", "b@school.edu")

	first, err := svc.SubmitReview(ctx, a, submission(maple(), 8))
	require.NoError(t, err)
	require.NotEmpty(t, first.ReviewID)

	_, err = svc.SubmitReview(ctx, a, submission(maple(), 3))
	require.ErrorIs(t, err, domain.ErrConflict)
	require.ErrorIs(t, err, domain.ErrDuplicateReview)
	require.Equal(t, "You have already reviewed this property", domain.Message(err))

	hid := uuid.MustParse(first.HousingID)
	reviews, err := svc.ListReviews(ctx, dto.ReviewFilter{HousingID: &hid})
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	require.Equal(t, 8, reviews[0].OverallRating)

	other := maple()
	other.Name = "MAPLE apartments"
	other.Address = "100 Main Street"
	second, err := svc.SubmitReview(ctx, b, submission(other, 6))
	require.NoError(t, err)
	require.Equal(t, first.HousingID, second.HousingID)

	all, err := st.Housing().List(ctx, store.HousingQuery{})
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestReviewMatchesByAddressAlone(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	a := register(t, svc, "Ann", "a@school.edu")
	b := register(t, svc, "Ben", "b@school.edu")

	first, err := svc.SubmitReview(ctx, a, submission(maple(), 8))
	require.NoError(t, err)

	renamed := maple()
	renamed.Name = "The Maple"
	renamed.Address = "100 MAIN ST"
	second, err := svc.SubmitReview(ctx, b, submission(renamed, 7))
	require.NoError(t, err)
	require.Equal(t, first.HousingID, second.HousingID)
}

func TestHousingIsScopedToSchool(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	a := register(t, svc, "Ann", "a@school.edu")
	c := register(t, svc, "Cat", "c@other.edu")

	first, err := svc.SubmitReview(ctx, a, submission(maple(), 8))
	require.NoError(t, err)
	second, err := svc.SubmitReview(ctx, c, submission(maple(), 8))
	require.NoError(t, err)
	require.NotEqual(t, first.HousingID, second.HousingID)
}

func TestReviewRatingBoundaries(t *testing.T) {
	svc, st := setupService(t)
	ctx := context.Background()
	u := register(t, svc, "Ann", "a@school.edu")

	for _, bad := range []int{0, 11} {
		_, err := svc.SubmitReview(ctx, u, submission(maple(), bad))
		require.ErrorIs(t, err, domain.ErrValidation, "rating %d", bad)
	}
	req := submission(maple(), 5)
	req.Review.MaintenanceRating = intp(11)
	_, err := svc.SubmitReview(ctx, u, req)
	require.ErrorIs(t, err, domain.ErrValidation)

	// nothing was written by the rejected submissions
	all, err := st.Housing().List(ctx, store.HousingQuery{})
	require.NoError(t, err)
	require.Empty(t, all)

	for i, ok := range []int{1, 10} {
		h := maple()
		h.Name = []string{"Low", "High"}[i]
		h.Address = h.Name + " Rd"
		_, err := svc.SubmitReview(ctx, u, submission(h, ok))
		require.NoError(t, err, "rating %d", ok)
	}
}

func TestReviewRoundTripKeepsAllFields(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	u := register(t, svc, "Ann", "a@school.edu")

	req := dto.SubmitReviewRequest{
		Housing: maple(),
		Review: dto.ReviewInput{
			IsAnonymous:       false,
			OverallRating:     9,
			LocationRating:    intp(10),
			ValueRating:       intp(7),
			MaintenanceRating: intp(6),
			ManagementRating:  intp(5),
			AmenitiesRating:   intp(8),
			Title:             strp("Great spot"),
			Description:       "Walkable to campus, thin walls.",
			MonthlyRent:       intp(875),
			UtilitiesIncluded: boolp(true),
			IsFurnished:       boolp(false),
			PetsAllowed:       boolp(true),
			Images:            []string{"https://img.example/1.jpg", "https://img.example/2.jpg"},
		},
	}
	res, err := svc.SubmitReview(ctx, u, req)
	require.NoError(t, err)

	hid := uuid.MustParse(res.HousingID)
	got, err := svc.ListReviews(ctx, dto.ReviewFilter{HousingID: &hid})
	require.NoError(t, err)
	require.Len(t, got, 1)
	r := got[0]
	require.Equal(t, res.ReviewID, r.ID)
	require.Equal(t, 9, r.OverallRating)
	require.Equal(t, 10, *r.LocationRating)
	require.Equal(t, 7, *r.ValueRating)
	require.Equal(t, 6, *r.MaintenanceRating)
	require.Equal(t, 5, *r.ManagementRating)
	require.Equal(t, 8, *r.AmenitiesRating)
	require.Equal(t, "Great spot", *r.Title)
	require.Equal(t, req.Review.Description, r.Description)
	require.Equal(t, 875, *r.MonthlyRent)
	require.True(t, *r.UtilitiesIncluded)
	require.False(t, *r.IsFurnished)
	require.True(t, *r.PetsAllowed)
	require.Equal(t, req.Review.Images, r.Images)
	require.Equal(t, "Ann", r.User.Name)
	require.Equal(t, "School", r.User.School.Name)
	require.Equal(t, "Maple Apartments", r.Housing.Name)
}

func TestListReviewsMasksAnonymousAuthors(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	a := register(t, svc, "Ann", "a@school.edu")
	b := register(t, svc, "Ben", "b@school.edu")

	anon := submission(maple(), 4)
	anon.Review.IsAnonymous = true
	_, err := svc.SubmitReview(ctx, a, anon)
	require.NoError(t, err)
	_, err = svc.SubmitReview(ctx, b, submission(maple(), 6))
	require.NoError(t, err)

	all, err := svc.ListReviews(ctx, dto.ReviewFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	// newest first
	require.Equal(t, "Ben", all[0].User.Name)
	require.Equal(t, "Anonymous", all[1].User.Name)
	require.Equal(t, "School", all[1].User.School.Name)

	mine, err := svc.ListReviews(ctx, dto.ReviewFilter{UserID: &a})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.True(t, mine[0].IsAnonymous)
}

func TestConcurrentDuplicateReviewsCreateOne(t *testing.T) {
	svc, st := setupService(t)
	ctx := context.Background()
	u := register(t, svc, "Ann", "a@school.edu")

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.SubmitReview(ctx, u, submission(maple(), 7))
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		require.ErrorIs(t, err, domain.ErrDuplicateReview)
	}
	require.Equal(t, 1, ok)

	reviews, err := st.Reviews().List(ctx, store.ReviewQuery{UserID: &u})
	require.NoError(t, err)
	require.Len(t, reviews, 1)
}

func TestSubmitReviewRequiresIdentity(t *testing.T) {
	svc, _ := setupService(t)
	_, err := svc.SubmitReview(context.Background(), uuid.Nil, submission(maple(), 5))
	require.ErrorIs(t, err, domain.ErrAuthRequired)

	_, err = svc.SubmitReview(context.Background(), uuid.New(), submission(maple(), 5))
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateHousing(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	u := register(t, svc, "Ann", "a@school.edu")

	h, err := svc.CreateHousing(ctx, u, maple())
	require.NoError(t, err)
	require.Equal(t, "Maple Apartments", h.Name)
	require.Equal(t, "School", h.School.Name)

	_, err = svc.CreateHousing(ctx, u, maple())
	require.ErrorIs(t, err, domain.ErrHousingExists)
	require.Equal(t, "This property already exists in the database", domain.Message(err))

	upper := maple()
	upper.Name = "MAPLE APARTMENTS"
	upper.Address = "9 Elm St"
	_, err = svc.CreateHousing(ctx, u, upper)
	require.ErrorIs(t, err, domain.ErrConflict)

	bad := maple()
	bad.Name = "Pine"
	bad.ZipCode = "123"
	_, err = svc.CreateHousing(ctx, u, bad)
	require.ErrorIs(t, err, domain.ErrValidation)
	require.Equal(t, "Invalid zip code", domain.Message(err))
}

func TestListAndDetailDefaultsDiffer(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	u := register(t, svc, "Ann", "a@school.edu")

	empty, err := svc.CreateHousing(ctx, u, maple())
	require.NoError(t, err)

	list, err := svc.ListHousing(ctx, dto.HousingFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, 0.0, list[0].AverageRating)
	require.Nil(t, list[0].AverageRent)
	require.Zero(t, list[0].ReviewCount)

	detail, err := svc.GetHousing(ctx, uuid.MustParse(empty.ID))
	require.NoError(t, err)
	require.Nil(t, detail.AverageRating)
	require.Nil(t, detail.AverageRent)
	require.Empty(t, detail.Categories)
	require.Empty(t, detail.Reviews)

	_, err = svc.GetHousing(ctx, uuid.New())
	require.ErrorIs(t, err, domain.ErrHousingNotFound)
}

func TestHousingStats(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	users := []uuid.UUID{
		register(t, svc, "A", "a@school.edu"),
		register(t, svc, "B", "b@school.edu"),
		register(t, svc, "C", "c@school.edu"),
	}
	inputs := []dto.ReviewInput{
		{OverallRating: 7, Description: "x", MonthlyRent: intp(850), LocationRating: intp(9)},
		{OverallRating: 8, Description: "y", LocationRating: intp(6)},
		{OverallRating: 8, Description: "z", MonthlyRent: intp(1001), PetsAllowed: boolp(true)},
	}
	var housingID string
	for i, in := range inputs {
		res, err := svc.SubmitReview(ctx, users[i], dto.SubmitReviewRequest{Housing: maple(), Review: in})
		require.NoError(t, err)
		housingID = res.HousingID
	}

	detail, err := svc.GetHousing(ctx, uuid.MustParse(housingID))
	require.NoError(t, err)
	require.Equal(t, 7.7, *detail.AverageRating)
	require.Equal(t, 926, *detail.AverageRent)
	require.Equal(t, 3, detail.ReviewCount)
	require.Len(t, detail.Categories, 1)
	require.Equal(t, "Location", detail.Categories[0].Name)
	require.Equal(t, 7.5, detail.Categories[0].Rating)
	require.Len(t, detail.Reviews, 3)

	list, err := svc.ListHousing(ctx, dto.HousingFilter{})
	require.NoError(t, err)
	require.Equal(t, 7.7, list[0].AverageRating)
	require.Equal(t, 926, *list[0].AverageRent)
}

func TestListHousingFilters(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	a := register(t, svc, "A", "a@school.edu")
	b := register(t, svc, "B", "b@school.edu")

	cheap := dto.HousingDescriptor{Name: "Cheap", Address: "1 A St", City: "Corvallis", State: "OR", ZipCode: "97331", IsOnCampus: true}
	pricey := dto.HousingDescriptor{Name: "Pricey", Address: "2 B St", City: "Albany", State: "OR", ZipCode: "97321"}
	unrated := dto.HousingDescriptor{Name: "Unrated", Address: "3 C St", City: "Corvallis", State: "OR", ZipCode: "97331"}

	_, err := svc.SubmitReview(ctx, a, dto.SubmitReviewRequest{Housing: cheap, Review: dto.ReviewInput{
		OverallRating: 6, Description: "ok", MonthlyRent: intp(600), PetsAllowed: boolp(true),
	}})
	require.NoError(t, err)
	_, err = svc.SubmitReview(ctx, b, dto.SubmitReviewRequest{Housing: cheap, Review: dto.ReviewInput{
		OverallRating: 7, Description: "ok", MonthlyRent: intp(700), PetsAllowed: boolp(false),
	}})
	require.NoError(t, err)
	_, err = svc.SubmitReview(ctx, a, dto.SubmitReviewRequest{Housing: pricey, Review: dto.ReviewInput{
		OverallRating: 9, Description: "nice", MonthlyRent: intp(1500), IsFurnished: boolp(true),
	}})
	require.NoError(t, err)
	_, err = svc.CreateHousing(ctx, a, unrated)
	require.NoError(t, err)

	names := func(f dto.HousingFilter) []string {
		t.Helper()
		rows, err := svc.ListHousing(ctx, f)
		require.NoError(t, err)
		out := make([]string, 0, len(rows))
		for _, r := range rows {
			out = append(out, r.Name)
		}
		return out
	}

	require.Equal(t, []string{"Unrated", "Pricey", "Cheap"}, names(dto.HousingFilter{}))
	require.Equal(t, []string{"Unrated", "Cheap"}, names(dto.HousingFilter{City: "corvallis"}))
	require.Equal(t, []string{"Cheap"}, names(dto.HousingFilter{IsOnCampus: boolp(true)}))
	require.Equal(t, []string{"Cheap"}, names(dto.HousingFilter{MaxRent: intp(1000)}))
	require.Equal(t, []string{"Pricey"}, names(dto.HousingFilter{MinRent: intp(651)}))
	require.Equal(t, []string{"Cheap"}, names(dto.HousingFilter{PetsAllowed: boolp(true)}))
	require.Equal(t, []string{"Unrated", "Pricey"}, names(dto.HousingFilter{PetsAllowed: boolp(false)}))
	require.Equal(t, []string{"Pricey"}, names(dto.HousingFilter{IsFurnished: boolp(true)}))

	other := uuid.New()
	require.Empty(t, names(dto.HousingFilter{SchoolID: &other}))
}

func TestFavoritesLifecycle(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	u := register(t, svc, "Ann", "a@school.edu")
	b := register(t, svc, "Ben", "b@school.edu")

	reviewed, err := svc.SubmitReview(ctx, b, submission(maple(), 9))
	require.NoError(t, err)
	plainDesc := maple()
	plainDesc.Name, plainDesc.Address = "Oak Hall", "5 Oak Rd"
	plain, err := svc.CreateHousing(ctx, u, plainDesc)
	require.NoError(t, err)

	rid := uuid.MustParse(reviewed.HousingID)
	pid := uuid.MustParse(plain.ID)

	_, err = svc.AddFavorite(ctx, u, rid)
	require.NoError(t, err)
	_, err = svc.AddFavorite(ctx, u, rid)
	require.ErrorIs(t, err, domain.ErrConflict)
	require.Equal(t, "Already favorited", domain.Message(err))

	_, err = svc.AddFavorite(ctx, u, pid)
	require.NoError(t, err)

	_, err = svc.AddFavorite(ctx, u, uuid.New())
	require.ErrorIs(t, err, domain.ErrHousingNotFound)

	favs, err := svc.ListFavorites(ctx, u)
	require.NoError(t, err)
	require.Len(t, favs, 2)
	require.Equal(t, plain.ID, favs[0].ID)
	require.Nil(t, favs[0].AverageRating)
	require.Equal(t, reviewed.HousingID, favs[1].ID)
	require.Equal(t, 9.0, *favs[1].AverageRating)
	require.True(t, favs[0].FavoritedAt.After(favs[1].FavoritedAt))

	require.NoError(t, svc.RemoveFavorite(ctx, u, rid))
	err = svc.RemoveFavorite(ctx, u, rid)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.ErrorIs(t, err, domain.ErrFavoriteNotFound)

	favs, err = svc.ListFavorites(ctx, u)
	require.NoError(t, err)
	require.Len(t, favs, 1)

	_, err = svc.ListFavorites(ctx, uuid.Nil)
	require.True(t, errors.Is(err, domain.ErrAuthRequired))
}
