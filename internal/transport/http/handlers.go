package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"campusnest/internal/authn"
	"campusnest/internal/domain"
	"campusnest/internal/dto"
	"campusnest/internal/export"
	"campusnest/internal/observability/metrics"
	"campusnest/internal/observability/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (h *handlers) register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	err := decodeJSON(w, r, &req)
	var user dto.UserView
	if err == nil {
		user, err = h.svc.Register(r.Context(), req)
	}
	metrics.RegistrationsTotal.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		writeError(w, r, "register", err)
		return
	}
	slog.Info("user registered", "user_id", user.ID, "school", user.School.Domain,
		"request_id", middleware.RequestIDFromContext(r.Context()), "trace_id", middleware.TraceIDFromContext(r.Context()))
	writeJSON(w, http.StatusCreated, dto.RegisterResponse{Message: "Account created successfully", User: user})
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	err := decodeJSON(w, r, &req)
	var res dto.TokenResponse
	if err == nil {
		res, err = h.svc.Login(r.Context(), req)
	}
	metrics.LoginsTotal.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		writeError(w, r, "login", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handlers) me(w http.ResponseWriter, r *http.Request) {
	userID, _ := authn.UserIDFrom(r.Context())
	user, err := h.svc.Me(r.Context(), userID)
	if err != nil {
		writeError(w, r, "me", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *handlers) listHousing(w http.ResponseWriter, r *http.Request) {
	f, err := housingFilter(r)
	if err != nil {
		writeError(w, r, "list housing", err)
		return
	}
	rows, err := h.svc.ListHousing(r.Context(), f)
	if err != nil {
		writeError(w, r, "list housing", err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *handlers) exportHousing(w http.ResponseWriter, r *http.Request) {
	f, err := housingFilter(r)
	if err != nil {
		writeError(w, r, "export housing", err)
		return
	}
	rows, err := h.svc.ListHousing(r.Context(), f)
	if err != nil {
		writeError(w, r, "export housing", err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="housing.xlsx"`)
	if err := export.WriteHousingXLSX(w, rows); err != nil {
		slog.Error("export housing failed", "error", err,
			"request_id", middleware.RequestIDFromContext(r.Context()), "trace_id", middleware.TraceIDFromContext(r.Context()))
	}
}

func (h *handlers) getHousing(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "get housing", domain.ErrHousingNotFound)
		return
	}
	res, err := h.svc.GetHousing(r.Context(), id)
	if err != nil {
		writeError(w, r, "get housing", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handlers) createHousing(w http.ResponseWriter, r *http.Request) {
	userID, _ := authn.UserIDFrom(r.Context())
	var req dto.HousingDescriptor
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, "create housing", err)
		return
	}
	res, err := h.svc.CreateHousing(r.Context(), userID, req)
	if err != nil {
		writeError(w, r, "create housing", err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	var f dto.ReviewFilter
	var err error
	q := r.URL.Query()
	if f.HousingID, err = optionalID(q.Get("housingId"), "housingId"); err != nil {
		writeError(w, r, "list reviews", err)
		return
	}
	if f.UserID, err = optionalID(q.Get("userId"), "userId"); err != nil {
		writeError(w, r, "list reviews", err)
		return
	}
	rows, err := h.svc.ListReviews(r.Context(), f)
	if err != nil {
		writeError(w, r, "list reviews", err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *handlers) submitReview(w http.ResponseWriter, r *http.Request) {
	userID, _ := authn.UserIDFrom(r.Context())
	var req dto.SubmitReviewRequest
	err := decodeJSON(w, r, &req)
	var res dto.SubmitReviewResponse
	if err == nil {
		res, err = h.svc.SubmitReview(r.Context(), userID, req)
	}
	metrics.ReviewsSubmittedTotal.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		writeError(w, r, "submit review", err)
		return
	}
	slog.Info("review submitted", "review_id", res.ReviewID, "housing_id", res.HousingID, "user_id", userID,
		"request_id", middleware.RequestIDFromContext(r.Context()), "trace_id", middleware.TraceIDFromContext(r.Context()))
	writeJSON(w, http.StatusCreated, res)
}

func (h *handlers) listFavorites(w http.ResponseWriter, r *http.Request) {
	userID, _ := authn.UserIDFrom(r.Context())
	rows, err := h.svc.ListFavorites(r.Context(), userID)
	if err != nil {
		writeError(w, r, "list favorites", err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *handlers) addFavorite(w http.ResponseWriter, r *http.Request) {
	userID, _ := authn.UserIDFrom(r.Context())
	var req dto.FavoriteRequest
	err := decodeJSON(w, r, &req)
	if err == nil {
		err = dto.Validate(req)
	}
	var fav domain.Favorite
	if err == nil {
		fav, err = h.svc.AddFavorite(r.Context(), userID, uuid.MustParse(req.HousingID))
	}
	metrics.FavoriteChangesTotal.WithLabelValues("add", resultLabel(err)).Inc()
	if err != nil {
		writeError(w, r, "add favorite", err)
		return
	}
	writeJSON(w, http.StatusCreated, fav)
}

func (h *handlers) removeFavorite(w http.ResponseWriter, r *http.Request) {
	userID, _ := authn.UserIDFrom(r.Context())
	housingID, err := optionalID(r.URL.Query().Get("housingId"), "housingId")
	if err == nil && housingID == nil {
		err = domain.Validationf("Housing ID is required")
	}
	if err == nil {
		err = h.svc.RemoveFavorite(r.Context(), userID, *housingID)
	}
	metrics.FavoriteChangesTotal.WithLabelValues("remove", resultLabel(err)).Inc()
	if err != nil {
		writeError(w, r, "remove favorite", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.SuccessResponse{Success: true})
}

func housingFilter(r *http.Request) (dto.HousingFilter, error) {
	q := r.URL.Query()
	var f dto.HousingFilter
	var err error
	if f.SchoolID, err = optionalID(q.Get("schoolId"), "schoolId"); err != nil {
		return f, err
	}
	f.City = strings.TrimSpace(q.Get("city"))
	if f.IsOnCampus, err = optionalBool(q, "isOnCampus"); err != nil {
		return f, err
	}
	if f.MinRent, err = optionalInt(q, "minRent"); err != nil {
		return f, err
	}
	if f.MaxRent, err = optionalInt(q, "maxRent"); err != nil {
		return f, err
	}
	if f.PetsAllowed, err = optionalBool(q, "petsAllowed"); err != nil {
		return f, err
	}
	if f.UtilitiesIncluded, err = optionalBool(q, "utilitiesIncluded"); err != nil {
		return f, err
	}
	if f.IsFurnished, err = optionalBool(q, "isFurnished"); err != nil {
		return f, err
	}
	return f, nil
}

func optionalID(raw, name string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, domain.Validationf("%s must be a valid id", name)
	}
	return &id, nil
}

type getter interface{ Get(string) string }

func optionalBool(q getter, name string) (*bool, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, domain.Validationf("%s must be true or false", name)
	}
	return &b, nil
}

func optionalInt(q getter, name string) (*int, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, domain.Validationf("%s must be a whole number", name)
	}
	return &n, nil
}
