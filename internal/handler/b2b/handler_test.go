package b2b

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/restb/internal/apperror"
	"github.com/suteetoe/restb/internal/auth"
	"github.com/suteetoe/restb/internal/model"
	"github.com/suteetoe/restb/internal/repository"
	"github.com/suteetoe/restb/internal/schema"
	"github.com/suteetoe/restb/internal/service/email"
	"github.com/suteetoe/restb/internal/service/geocode"
	"github.com/suteetoe/restb/pkg/config"
	"github.com/suteetoe/restb/pkg/jwtutil"
	"gorm.io/datatypes"
)

type fakeAdmins map[string]*model.Admin

func (f fakeAdmins) FindByID(_ context.Context, id string, _ ...repository.FindOption) (*model.Admin, error) {
	if a, ok := f[id]; ok {
		return a, nil
	}
	return nil, repository.ErrNotFound
}

func (f fakeAdmins) FindByEmail(_ context.Context, address string) (*model.Admin, error) {
	for _, a := range f {
		if a.Email == address {
			return a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f fakeAdmins) FindInBrand(_ context.Context, id, brandID string) (*model.Admin, error) {
	if a, ok := f[id]; ok && a.BrandIDValue() == brandID {
		return a, nil
	}
	return nil, repository.ErrNotFound
}

func (f fakeAdmins) CountEmployeesInBrand(_ context.Context, ids []string, brandID string) (int64, error) {
	var n int64
	for _, id := range ids {
		if a, ok := f[id]; ok && a.BrandIDValue() == brandID && a.Role == model.AdminRoleEmployee {
			n++
		}
	}
	return n, nil
}

func (f fakeAdmins) CreateWithBrand(ctx context.Context, admin *model.Admin, brand *model.Brand) error {
	brand.ID = uuid.NewString()
	admin.BrandID = &brand.ID
	return f.Create(ctx, admin)
}

func (f fakeAdmins) Create(_ context.Context, admin *model.Admin) error {
	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}
	f[admin.ID] = admin
	return nil
}

func (f fakeAdmins) Update(_ context.Context, id string, values map[string]interface{}) error {
	a, ok := f[id]
	if !ok {
		return repository.ErrNotFound
	}
	if v, ok := values["first_name"].(string); ok {
		a.FirstName = v
	}
	if v, ok := values["password"].(string); ok {
		a.Password = v
	}
	return nil
}

func (f fakeAdmins) SoftDelete(_ context.Context, id string) error {
	delete(f, id)
	return nil
}

// racingAdmins misses every lookup and then loses the insert on the unique email index
type racingAdmins struct {
	fakeAdmins
}

func (racingAdmins) FindByEmail(context.Context, string) (*model.Admin, error) {
	return nil, repository.ErrNotFound
}

func (racingAdmins) Create(context.Context, *model.Admin) error {
	return fmt.Errorf("%w: idx_admins_email", repository.ErrDuplicate)
}

func (r racingAdmins) CreateWithBrand(ctx context.Context, admin *model.Admin, _ *model.Brand) error {
	return r.Create(ctx, admin)
}

type fakeBrands map[string]*model.Brand

func (f fakeBrands) FindByID(_ context.Context, id string, _ ...repository.FindOption) (*model.Brand, error) {
	if b, ok := f[id]; ok {
		return b, nil
	}
	return nil, repository.ErrNotFound
}

func (f fakeBrands) Update(_ context.Context, id string, values map[string]interface{}) error {
	b, ok := f[id]
	if !ok {
		return repository.ErrNotFound
	}
	if v, ok := values["name"].(string); ok {
		b.Name = v
	}
	return nil
}

type fakeRestaurants struct {
	byID    map[string]*model.Restaurant
	filters []repository.RestaurantFilter
	created []*model.Restaurant
	updated map[string]map[string]interface{}
	staff   map[string][]string
	deleted []string
}

func newFakeRestaurants() *fakeRestaurants {
	return &fakeRestaurants{
		byID:    map[string]*model.Restaurant{},
		updated: map[string]map[string]interface{}{},
		staff:   map[string][]string{},
	}
}

func (f *fakeRestaurants) FindInBrand(_ context.Context, id, brandID string, _ bool) (*model.Restaurant, error) {
	if r, ok := f.byID[id]; ok && r.BrandID == brandID {
		return r, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeRestaurants) Search(_ context.Context, filter repository.RestaurantFilter) ([]model.Restaurant, int64, error) {
	f.filters = append(f.filters, filter)
	var out []model.Restaurant
	for _, r := range f.byID {
		if r.BrandID == filter.BrandID {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRestaurants) ListInBrand(ctx context.Context, brandID string) ([]model.Restaurant, error) {
	out, _, err := f.Search(ctx, repository.RestaurantFilter{BrandID: brandID})
	return out, err
}

func (f *fakeRestaurants) CreateWithAddress(_ context.Context, r *model.Restaurant, a *model.Address) error {
	a.ID = uuid.NewString()
	r.ID = uuid.NewString()
	r.AddressID = a.ID
	r.Address = a
	f.created = append(f.created, r)
	return nil
}

func (f *fakeRestaurants) UpdateWithAddress(_ context.Context, id, _ string, restaurant, address map[string]interface{}) error {
	f.updated[id] = restaurant
	return nil
}

func (f *fakeRestaurants) ReplaceStaff(_ context.Context, id string, adminIDs []string) error {
	f.staff[id] = adminIDs
	return nil
}

func (f *fakeRestaurants) SoftDelete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeBookings struct {
	byID    map[string]*model.Booking
	brandOf map[string]string
	updates map[string]map[string]interface{}
}

func (f *fakeBookings) ListForRestaurant(_ context.Context, filter repository.BookingFilter) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range f.byID {
		if b.RestaurantID == filter.RestaurantID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookings) FindInBrand(_ context.Context, id, brandID string) (*model.Booking, error) {
	if b, ok := f.byID[id]; ok && f.brandOf[id] == brandID {
		return b, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeBookings) FindForUser(_ context.Context, id, userID string) (*model.Booking, error) {
	if b, ok := f.byID[id]; ok && b.UserID != nil && *b.UserID == userID {
		return b, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeBookings) Update(_ context.Context, id string, values map[string]interface{}) error {
	f.updates[id] = values
	return nil
}

type fakeSummaries struct {
	rows []model.BookingsDailySummary
}

func (f fakeSummaries) InRange(context.Context, []string, time.Time, time.Time) ([]model.BookingsDailySummary, error) {
	return f.rows, nil
}

type fakeRanger struct {
	from, to time.Time
}

func (f *fakeRanger) Range(_ context.Context, ids []string, from, to time.Time) (map[string][]model.BookingsDailySummary, error) {
	f.from, f.to = from, to
	out := map[string][]model.BookingsDailySummary{}
	for _, id := range ids {
		for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
			out[id] = append(out[id], model.BookingsDailySummary{RestaurantID: id, Date: day})
		}
	}
	return out, nil
}

type fakeMailer struct {
	sent []email.Email
}

func (f *fakeMailer) Dispatch(_ context.Context, e email.Email) {
	f.sent = append(f.sent, e)
}

type fakeGeocoder struct {
	place *geocode.Place
	err   error
}

func (f *fakeGeocoder) Search(context.Context, string) (*geocode.Place, error) {
	return f.place, f.err
}

func (f *fakeGeocoder) SearchAddress(context.Context, geocode.Address) (*geocode.Place, error) {
	return f.place, f.err
}

type fixture struct {
	handler     *Handler
	denylist    *auth.Denylist
	tokens      *jwtutil.JWTUtil
	admins      fakeAdmins
	brands      fakeBrands
	restaurants *fakeRestaurants
	bookings    *fakeBookings
	ranger      *fakeRanger
	mailer      *fakeMailer
	geocoder    *fakeGeocoder
	brand       *model.Brand
	owner       *model.Admin
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := &fixture{
		denylist:    auth.NewDenylist(client),
		tokens:      jwtutil.NewJWTUtil(&jwtutil.JWTConfig{SigningKey: "signing-key", ExpirationHours: 1}),
		admins:      fakeAdmins{},
		brands:      fakeBrands{},
		restaurants: newFakeRestaurants(),
		bookings: &fakeBookings{
			byID:    map[string]*model.Booking{},
			brandOf: map[string]string{},
			updates: map[string]map[string]interface{}{},
		},
		ranger:   &fakeRanger{},
		mailer:   &fakeMailer{},
		geocoder: &fakeGeocoder{},
	}
	f.handler = New(Deps{
		Admins:      f.admins,
		Brands:      f.brands,
		Restaurants: f.restaurants,
		Bookings:    f.bookings,
		Summaries:   fakeSummaries{},
		Dashboard:   f.ranger,
		Sessions: auth.NewSessionStore(client, config.SessionConfig{
			CookieName: "session",
			Secret:     "test-secret",
			MaxAge:     time.Hour,
			KeyPrefix:  "app_session: ",
		}),
		Denylist:    f.denylist,
		Tokens:      f.tokens,
		Mailer:      f.mailer,
		Geocoder:    f.geocoder,
		FrontendURL: "https://app.example.com",
	})

	f.brand = &model.Brand{Base: model.Base{ID: uuid.NewString()}, Name: "Pasta Group"}
	f.brands[f.brand.ID] = f.brand
	f.owner = f.addAdmin("owner@example.com", model.AdminRoleAdmin, f.brand.ID)
	return f
}

func (f *fixture) addAdmin(address string, role model.AdminRole, brandID string) *model.Admin {
	hash, _ := auth.HashPassword("secret")
	a := &model.Admin{
		Base:      model.Base{ID: uuid.NewString()},
		FirstName: "Ann",
		LastName:  "Smith",
		Email:     address,
		Password:  hash,
		Role:      role,
		BrandID:   &brandID,
	}
	f.admins[a.ID] = a
	return a
}

func (f *fixture) addRestaurant(brandID string) *model.Restaurant {
	r := &model.Restaurant{
		Base:      model.Base{ID: uuid.NewString()},
		Name:      "Trattoria",
		TimeFrom:  "10:00",
		TimeTo:    "22:00",
		BrandID:   brandID,
		AddressID: uuid.NewString(),
	}
	f.restaurants.byID[r.ID] = r
	return r
}

func newContext(method string, bound interface{}) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, "/", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	if bound != nil {
		schema.SetBound(c, bound)
	}
	return c, rec
}

func asAdmin(c echo.Context, a *model.Admin) {
	auth.SetPrincipal(c, &auth.Principal{Kind: auth.KindAdmin, Strategy: auth.StrategyJWTB2B, Admin: a})
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Status
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestRegister(t *testing.T) {
	f := newFixture(t)

	c, _ := newContext(http.MethodPost, &schema.RegisterAdminRequest{
		FirstName: "Ann", LastName: "Smith", Email: "owner@example.com", Password: "secret", Phone: "+4712345678",
	})
	assert.Equal(t, http.StatusConflict, statusOf(t, f.handler.Register(c)))

	c, rec := newContext(http.MethodPost, &schema.RegisterAdminRequest{
		FirstName: "Bob", LastName: "Stone", Email: "bob@example.com", Password: "secret", Phone: "+4712345678",
	})
	require.NoError(t, f.handler.Register(c))

	body := decode(t, rec)
	assert.Equal(t, "Registration was successful", body["message"])
	admin := body["admin"].(map[string]interface{})
	assert.Equal(t, "Admin", admin["role"])

	claims, err := f.tokens.ValidateToken(admin["token"].(string), jwtutil.AudienceB2B)
	require.NoError(t, err)
	assert.Equal(t, admin["id"], claims.ID)
	assert.NotNil(t, f.admins[claims.ID].BrandID)
	require.Len(t, f.mailer.sent, 1)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)

	c, _ := newContext(http.MethodPost, &schema.LoginRequest{Email: "owner@example.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, f.handler.Login(c)))

	c, rec := newContext(http.MethodPost, &schema.LoginRequest{Email: "owner@example.com", Password: "secret"})
	require.NoError(t, f.handler.Login(c))
	assert.Equal(t, "Logged in successfully", decode(t, rec)["message"])
}

func TestForgotPassword_UsesAdminAccounts(t *testing.T) {
	f := newFixture(t)

	c, rec := newContext(http.MethodPost, &schema.ForgotPasswordRequest{Email: "owner@example.com"})
	require.NoError(t, f.handler.ForgotPassword(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, f.mailer.sent, 1)
	link := f.mailer.sent[0].Data.(email.ForgotPasswordData).Link
	assert.True(t, strings.HasPrefix(link, "https://app.example.com/b2b/reset-password?token="))
}

func TestInviteAndRegisterEmployee(t *testing.T) {
	f := newFixture(t)

	c, _ := newContext(http.MethodPost, &schema.InviteEmployeeRequest{Email: "owner@example.com"})
	asAdmin(c, f.owner)
	assert.Equal(t, http.StatusConflict, statusOf(t, f.handler.Invite(c)))

	c, rec := newContext(http.MethodPost, &schema.InviteEmployeeRequest{Email: "waiter@example.com"})
	asAdmin(c, f.owner)
	require.NoError(t, f.handler.Invite(c))
	assert.Equal(t, "Invitation was sent", decode(t, rec)["message"])

	require.Len(t, f.mailer.sent, 1)
	data := f.mailer.sent[0].Data.(email.EmployeeInviteData)
	assert.Equal(t, "Pasta Group", data.BrandName)
	token := strings.TrimPrefix(data.Link, "https://app.example.com/b2b/employee/register?token=")
	claims, err := f.tokens.ValidateToken(token, jwtutil.AudienceB2BInvite)
	require.NoError(t, err)
	assert.Equal(t, f.brand.ID, claims.BrandID)
	assert.Equal(t, "waiter@example.com", claims.Email)

	c, rec = newContext(http.MethodPost, &schema.RegisterEmployeeRequest{
		FirstName: "Wes", LastName: "Waiter", Password: "secret", Phone: "+4712345678",
	})
	auth.SetPrincipal(c, &auth.Principal{
		Kind:     auth.KindInvite,
		Strategy: auth.StrategyJWTB2BInvite,
		Invite:   &auth.Invite{InviterID: claims.ID, BrandID: claims.BrandID, Email: claims.Email},
		Token:    token,
		Claims:   claims,
	})
	require.NoError(t, f.handler.RegisterEmployee(c))

	admin := decode(t, rec)["admin"].(map[string]interface{})
	assert.Equal(t, "Employee", admin["role"])
	employee := f.admins[admin["id"].(string)]
	require.NotNil(t, employee)
	assert.Equal(t, f.brand.ID, employee.BrandIDValue())

	revoked, err := f.denylist.IsRevoked(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestRegistrationUniqueViolationIsConflict(t *testing.T) {
	f := newFixture(t)
	f.handler.admins = racingAdmins{fakeAdmins: f.admins}

	c, _ := newContext(http.MethodPost, &schema.RegisterAdminRequest{
		FirstName: "Bob", LastName: "Stone", Email: "bob@example.com", Password: "secret", Phone: "+4712345678",
	})
	err := f.handler.Register(c)
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
	assert.Equal(t, []string{msgProfileExists}, err.(*apperror.AppError).Messages())

	c, _ = newContext(http.MethodPost, &schema.RegisterEmployeeRequest{
		FirstName: "Wes", LastName: "Waiter", Password: "secret", Phone: "+4712345678",
	})
	auth.SetPrincipal(c, &auth.Principal{
		Kind:     auth.KindInvite,
		Strategy: auth.StrategyJWTB2BInvite,
		Invite:   &auth.Invite{InviterID: f.owner.ID, BrandID: f.brand.ID, Email: "waiter@example.com"},
	})
	assert.Equal(t, http.StatusConflict, statusOf(t, f.handler.RegisterEmployee(c)))
	assert.Empty(t, f.mailer.sent)
}

func TestAdminAccess(t *testing.T) {
	f := newFixture(t)
	colleague := f.addAdmin("colleague@example.com", model.AdminRoleEmployee, f.brand.ID)
	stranger := f.addAdmin("stranger@example.com", model.AdminRoleAdmin, uuid.NewString())

	c, rec := newContext(http.MethodGet, &schema.AdminIDRequest{AdminID: colleague.ID})
	asAdmin(c, f.owner)
	require.NoError(t, f.handler.GetAdmin(c))
	assert.Equal(t, colleague.Email, decode(t, rec)["admin"].(map[string]interface{})["email"])

	c, _ = newContext(http.MethodGet, &schema.AdminIDRequest{AdminID: stranger.ID})
	asAdmin(c, f.owner)
	assert.Equal(t, http.StatusNotFound, statusOf(t, f.handler.GetAdmin(c)))

	c, _ = newContext(http.MethodDelete, &schema.AdminIDRequest{AdminID: colleague.ID})
	asAdmin(c, f.owner)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, f.handler.DeleteAdmin(c)))
	assert.Contains(t, f.admins, colleague.ID)

	c, rec = newContext(http.MethodDelete, &schema.AdminIDRequest{AdminID: f.owner.ID})
	asAdmin(c, f.owner)
	require.NoError(t, f.handler.DeleteAdmin(c))
	assert.Contains(t, rec.Body.String(), "Admin was deleted successfully.")
	assert.NotContains(t, f.admins, f.owner.ID)
}

func TestUpdateAdmin(t *testing.T) {
	f := newFixture(t)
	name := "Annie"

	c, rec := newContext(http.MethodPatch, &schema.UpdateAdminRequest{FirstName: &name})
	asAdmin(c, f.owner)
	require.NoError(t, f.handler.UpdateAdmin(c))
	assert.Equal(t, "Annie", decode(t, rec)["admin"].(map[string]interface{})["firstName"])
}

func TestBrand(t *testing.T) {
	f := newFixture(t)

	c, _ := newContext(http.MethodGet, &schema.BrandIDRequest{BrandID: uuid.NewString()})
	asAdmin(c, f.owner)
	assert.Equal(t, http.StatusNotFound, statusOf(t, f.handler.GetBrand(c)))

	c, rec := newContext(http.MethodPatch, &schema.UpdateBrandRequest{BrandID: f.brand.ID, Name: "Pasta House"})
	asAdmin(c, f.owner)
	require.NoError(t, f.handler.UpdateBrand(c))
	assert.Equal(t, "Pasta House", decode(t, rec)["brand"].(map[string]interface{})["name"])
}

func TestListRestaurants_EmployeeScope(t *testing.T) {
	f := newFixture(t)
	employee := f.addAdmin("waiter@example.com", model.AdminRoleEmployee, f.brand.ID)
	f.addRestaurant(f.brand.ID)

	page := schema.Pagination{Page: 1, Limit: 20}
	c, rec := newContext(http.MethodGet, &schema.ListBrandRestaurantsRequest{Pagination: page})
	asAdmin(c, f.owner)
	require.NoError(t, f.handler.ListRestaurants(c))
	assert.Empty(t, f.restaurants.filters[0].StaffAdminID)
	assert.Len(t, decode(t, rec)["restaurants"], 1)

	c, _ = newContext(http.MethodGet, &schema.ListBrandRestaurantsRequest{Pagination: page})
	asAdmin(c, employee)
	require.NoError(t, f.handler.ListRestaurants(c))
	assert.Equal(t, employee.ID, f.restaurants.filters[1].StaffAdminID)
}

func upsertRequest(id string) *schema.UpsertRestaurantRequest {
	return &schema.UpsertRestaurantRequest{
		RestaurantID: id,
		Name:         "Trattoria",
		BannerURL:    "https://cdn.example.com/banner.png",
		PhotosURL:    []string{},
		Categories:   []string{"Italian"},
		TimeFrom:     "10:00",
		TimeTo:       "22:00",
		Address: schema.AddressInput{
			Building: "1", Street: "Karl Johans gate", City: "Oslo", Postcode: "0154", Country: "Norway",
		},
	}
}

func TestUpsertRestaurant(t *testing.T) {
	f := newFixture(t)

	t.Run("unrecognized address writes nothing", func(t *testing.T) {
		c, _ := newContext(http.MethodPut, upsertRequest(""))
		asAdmin(c, f.owner)
		assert.Equal(t, http.StatusBadRequest, statusOf(t, f.handler.UpsertRestaurant(c)))
		assert.Empty(t, f.restaurants.created)
	})

	f.geocoder.place = &geocode.Place{Latitude: 59.91, Longitude: 10.74}

	t.Run("create", func(t *testing.T) {
		c, rec := newContext(http.MethodPut, upsertRequest(""))
		asAdmin(c, f.owner)
		require.NoError(t, f.handler.UpsertRestaurant(c))
		assert.Equal(t, "Restaurant was created successfully.", decode(t, rec)["message"])

		require.Len(t, f.restaurants.created, 1)
		created := f.restaurants.created[0]
		assert.Equal(t, f.brand.ID, created.BrandID)
		assert.InDelta(t, 59.91, created.Address.Latitude, 1e-9)
	})

	t.Run("update of another brand's restaurant", func(t *testing.T) {
		other := f.addRestaurant(uuid.NewString())
		c, _ := newContext(http.MethodPut, upsertRequest(other.ID))
		asAdmin(c, f.owner)
		assert.Equal(t, http.StatusNotFound, statusOf(t, f.handler.UpsertRestaurant(c)))
	})

	t.Run("update", func(t *testing.T) {
		own := f.addRestaurant(f.brand.ID)
		c, rec := newContext(http.MethodPut, upsertRequest(own.ID))
		asAdmin(c, f.owner)
		require.NoError(t, f.handler.UpsertRestaurant(c))
		assert.Equal(t, "Restaurant was updated successfully", decode(t, rec)["message"])
		assert.Equal(t, "Trattoria", f.restaurants.updated[own.ID]["name"])
	})
}

func TestUpdateStaff(t *testing.T) {
	f := newFixture(t)
	r := f.addRestaurant(f.brand.ID)
	employee := f.addAdmin("waiter@example.com", model.AdminRoleEmployee, f.brand.ID)

	c, _ := newContext(http.MethodPut, &schema.UpdateStaffRequest{RestaurantID: r.ID, AdminIDs: []string{employee.ID, f.owner.ID}})
	asAdmin(c, f.owner)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, f.handler.UpdateStaff(c)))
	assert.NotContains(t, f.restaurants.staff, r.ID)

	c, _ = newContext(http.MethodPut, &schema.UpdateStaffRequest{RestaurantID: r.ID, AdminIDs: []string{employee.ID, employee.ID}})
	asAdmin(c, f.owner)
	require.NoError(t, f.handler.UpdateStaff(c))
	assert.Equal(t, []string{employee.ID}, f.restaurants.staff[r.ID])
}

func TestDeleteRestaurant(t *testing.T) {
	f := newFixture(t)
	r := f.addRestaurant(f.brand.ID)

	c, _ := newContext(http.MethodDelete, &schema.RestaurantIDRequest{RestaurantID: uuid.NewString()})
	asAdmin(c, f.owner)
	assert.Equal(t, http.StatusNotFound, statusOf(t, f.handler.DeleteRestaurant(c)))

	c, _ = newContext(http.MethodDelete, &schema.RestaurantIDRequest{RestaurantID: r.ID})
	asAdmin(c, f.owner)
	require.NoError(t, f.handler.DeleteRestaurant(c))
	assert.Equal(t, []string{r.ID}, f.restaurants.deleted)
}

func TestUpdateBooking(t *testing.T) {
	f := newFixture(t)
	r := f.addRestaurant(f.brand.ID)
	user := &model.User{Base: model.Base{ID: uuid.NewString()}, FirstName: "Jane", Email: "jane@example.com"}
	booking := &model.Booking{
		Base:         model.Base{ID: uuid.NewString()},
		GuestsNumber: 2,
		Status:       model.BookingStatusPending,
		UserID:       &user.ID,
		RestaurantID: r.ID,
		User:         user,
		Restaurant:   r,
	}
	f.bookings.byID[booking.ID] = booking
	f.bookings.brandOf[booking.ID] = f.brand.ID

	asUser := func(c echo.Context) {
		auth.SetPrincipal(c, &auth.Principal{Kind: auth.KindUser, User: user})
	}

	t.Run("user may only cancel", func(t *testing.T) {
		c, _ := newContext(http.MethodPatch, &schema.UpdateBookingRequest{BookingID: booking.ID, Status: "Approved"})
		asUser(c)
		assert.Equal(t, http.StatusUnauthorized, statusOf(t, f.handler.UpdateBooking(c)))
	})

	t.Run("admin may not cancel on behalf of user", func(t *testing.T) {
		c, _ := newContext(http.MethodPatch, &schema.UpdateBookingRequest{BookingID: booking.ID, Status: "CanceledByUser"})
		asAdmin(c, f.owner)
		assert.Equal(t, http.StatusUnauthorized, statusOf(t, f.handler.UpdateBooking(c)))
	})

	t.Run("admin of another brand", func(t *testing.T) {
		outsider := f.addAdmin("outsider@example.com", model.AdminRoleAdmin, uuid.NewString())
		c, _ := newContext(http.MethodPatch, &schema.UpdateBookingRequest{BookingID: booking.ID, Status: "Approved"})
		asAdmin(c, outsider)
		assert.Equal(t, http.StatusNotFound, statusOf(t, f.handler.UpdateBooking(c)))
	})

	t.Run("admin approves with a message", func(t *testing.T) {
		c, rec := newContext(http.MethodPatch, &schema.UpdateBookingRequest{
			BookingID:  booking.ID,
			Status:     "Approved",
			Discussion: &schema.DiscussionInput{Message: "See you soon"},
		})
		asAdmin(c, f.owner)
		require.NoError(t, f.handler.UpdateBooking(c))
		assert.Equal(t, "Booking was updated successfully", decode(t, rec)["message"])

		changes := f.bookings.updates[booking.ID]
		assert.Equal(t, model.BookingStatusApproved, changes["status"])
		discussion := changes["discussion"].(datatypes.JSONSlice[model.DiscussionItem])
		require.Len(t, discussion, 1)
		assert.Equal(t, model.AuthorTypeAdmin, discussion[0].AuthorType)
		assert.Equal(t, f.owner.ID, discussion[0].AuthorID)
		assert.Equal(t, "See you soon", discussion[0].Message)
		assert.Empty(t, booking.Discussion)
	})

	t.Run("user cancels", func(t *testing.T) {
		c, _ := newContext(http.MethodPatch, &schema.UpdateBookingRequest{BookingID: booking.ID, Status: "CanceledByUser"})
		asUser(c)
		require.NoError(t, f.handler.UpdateBooking(c))
		assert.Equal(t, model.BookingStatusCanceledByUser, f.bookings.updates[booking.ID]["status"])

		last := f.mailer.sent[len(f.mailer.sent)-1]
		assert.Equal(t, email.TypeBookingUpdated, last.Type)
		assert.Equal(t, "jane@example.com", last.To)
		assert.Equal(t, "Trattoria", last.Data.(email.BookingUpdatedData).RestaurantName)
	})
}

func TestRestaurantBookings(t *testing.T) {
	f := newFixture(t)
	r := f.addRestaurant(f.brand.ID)
	f.bookings.byID["b1"] = &model.Booking{Base: model.Base{ID: "b1"}, RestaurantID: r.ID, GuestsNumber: 2}

	now := time.Now()
	c, rec := newContext(http.MethodGet, &schema.ListRestaurantBookingsRequest{
		RestaurantID: r.ID,
		Statuses:     []string{"Pending"},
		DateFrom:     schema.NewTime(now),
		DateTo:       schema.NewTime(now.AddDate(0, 0, 7)),
	})
	asAdmin(c, f.owner)
	require.NoError(t, f.handler.RestaurantBookings(c))

	body := decode(t, rec)
	bookings := body["bookings"].([]interface{})
	require.Len(t, bookings, 1)
	assert.Equal(t, []interface{}{}, bookings[0].(map[string]interface{})["discussion"])
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	r := f.addRestaurant(f.brand.ID)
	from := time.Date(2024, 5, 1, 15, 0, 0, 0, time.UTC)

	c, _ := newContext(http.MethodGet, &schema.DashboardRequest{
		TimeFrom: schema.NewTime(from), TimeTo: schema.NewTime(from.AddDate(2, 0, 0)),
	})
	asAdmin(c, f.owner)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, f.handler.Dashboard(c)))

	c, rec := newContext(http.MethodGet, &schema.DashboardRequest{
		TimeFrom: schema.NewTime(from), TimeTo: schema.NewTime(from.AddDate(0, 0, 6)),
	})
	asAdmin(c, f.owner)
	require.NoError(t, f.handler.Dashboard(c))

	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), f.ranger.from)
	assert.Equal(t, time.Date(2024, 5, 8, 0, 0, 0, 0, time.UTC), f.ranger.to)

	body := decode(t, rec)
	data := body["data"].([]interface{})
	require.Len(t, data, 1)
	row := data[0].(map[string]interface{})
	assert.Equal(t, r.ID, row["restaurant"].(map[string]interface{})["id"])
	assert.Len(t, row["summaries"], 7)
	assert.Contains(t, body, "range")
}
