package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry()
	require.NoError(t, err)
	return r
}

func TestRegistry_EveryEndpointIsRegistered(t *testing.T) {
	r := newRegistry(t)

	for _, name := range []string{B2CRegister, B2CGetRestaurant, B2BUpsertRestaurant, B2BDashboard, UploadURL, Health} {
		_, ok := r.Get(name)
		assert.True(t, ok, name)
	}
	assert.Panics(t, func() { r.MustGet("nope") })

	entry := r.MustGet(B2CLogin)
	assert.IsType(t, &LoginRequest{}, entry.NewRequest())
	assert.Nil(t, r.MustGet(B2CLogout).NewRequest())
}

func TestMessages_CollectsEveryViolation(t *testing.T) {
	r := newRegistry(t)
	req := &RegisterUserRequest{Email: "not-an-email", Password: "x"}

	err := r.Validator().Struct(req)
	require.Error(t, err)

	assert.ElementsMatch(t, []string{
		"body.firstName is required",
		"body.lastName is required",
		"body.email must be a valid email address",
		"body.password length must be at least 3 characters long",
	}, Messages(req, err))
}

func TestMessages_NestedAndEmbeddedPaths(t *testing.T) {
	r := newRegistry(t)

	upsert := &UpsertRestaurantRequest{
		Name:       "Place",
		BannerURL:  "https://cdn.example.com/banner.png",
		Categories: []string{"Italian", "Pizza"},
		TimeFrom:   "18:00",
		TimeTo:     "09:00",
		Address:    AddressInput{Street: "Main", City: "Paris", Postcode: "75001", Country: "France"},
	}
	err := r.Validator().Struct(upsert)
	require.Error(t, err)
	assert.ElementsMatch(t, []string{
		"body.categories[1] must be one of [BBQ, Italian, Japanese, Chinese, Indian, Mexican, French, Vegan, Seafood, FastFood, Cafe, Bar]",
		"body.timeTo must be after timeFrom",
		"body.address.building is required",
	}, Messages(upsert, err))

	list := &ListRestaurantsRequest{Radius: 20, Pagination: Pagination{Page: 1, Limit: 500}}
	err = r.Validator().Struct(list)
	require.Error(t, err)
	assert.Equal(t, []string{"query.limit must be less than or equal to 100"}, Messages(list, err))

	get := &GetUserRequest{UserID: "42"}
	err = r.Validator().Struct(get)
	require.Error(t, err)
	assert.Equal(t, []string{"params.userID must be a valid UUID"}, Messages(get, err))
}

func TestDefaults(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	list := &ListRestaurantsRequest{}
	list.Preset()
	list.Defaults(now)
	assert.Equal(t, 20, list.Radius)
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, 20, list.Limit)
	assert.True(t, list.Date.Equal(now))

	bookings := &ListUserBookingsRequest{}
	bookings.Preset()
	assert.Equal(t, 10, bookings.Limit)

	restaurantBookings := &ListRestaurantBookingsRequest{}
	restaurantBookings.Defaults(now)
	assert.Equal(t, []string{"Confirmed", "Pending"}, restaurantBookings.Statuses)
	assert.True(t, restaurantBookings.DateFrom.Equal(now))
	assert.True(t, restaurantBookings.DateTo.Equal(now.AddDate(0, 0, 7)))

	dashboard := &DashboardRequest{TimeFrom: NewTime(now.AddDate(0, 0, 1))}
	dashboard.Defaults(now)
	assert.True(t, dashboard.TimeTo.Equal(now.AddDate(0, 0, 8)))
}

func TestTimeAfterFieldOrdering(t *testing.T) {
	r := newRegistry(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	req := &DashboardRequest{TimeFrom: NewTime(now), TimeTo: NewTime(now.Add(-time.Hour))}
	err := r.Validator().Struct(req)
	require.Error(t, err)
	assert.Equal(t, []string{"query.timeTo must be after timeFrom"}, Messages(req, err))

	req.TimeTo = NewTime(now.Add(time.Hour))
	assert.NoError(t, r.Validator().Struct(req))
}

func TestUserBookingRangeMayBeOneInstant(t *testing.T) {
	r := newRegistry(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	req := &ListUserBookingsRequest{DateFrom: NewTime(now), DateTo: NewTime(now), Pagination: Pagination{Page: 1, Limit: 10}}
	assert.NoError(t, r.Validator().Struct(req))

	req.DateTo = NewTime(now.Add(-time.Minute))
	err := r.Validator().Struct(req)
	require.Error(t, err)
	assert.Equal(t, []string{"query.dateTo must not be before dateFrom"}, Messages(req, err))
}

func TestNormalize(t *testing.T) {
	req := &RegisterUserRequest{FirstName: " John ", Email: "  John@Doe.COM "}
	req.Normalize()
	assert.Equal(t, "John", req.FirstName)
	assert.Equal(t, "john@doe.com", req.Email)

	// a missing discussion must not panic
	(&CreateBookingRequest{}).Normalize()
}

func TestTime_Parse(t *testing.T) {
	var v Time
	require.NoError(t, v.UnmarshalParam("2024-05-01"))
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), v.Time)

	require.NoError(t, v.UnmarshalJSON([]byte(`"2024-05-01T10:30:00+02:00"`)))
	assert.Equal(t, 8, v.UTC().Hour())

	assert.Error(t, v.UnmarshalParam("yesterday"))
}

func TestMinutesOfDay(t *testing.T) {
	m, ok := MinutesOfDay("09:30")
	assert.True(t, ok)
	assert.Equal(t, 570, m)

	_, ok = MinutesOfDay("24:00")
	assert.False(t, ok)
}

func TestValidateResponse(t *testing.T) {
	r := newRegistry(t)

	violations, err := r.ValidateResponse(B2CLogin, []byte(`{"user":{"id":"7f1c1c8e-8d7e-4d8b-9a53-5f4a2b0c6c11"}}`))
	require.NoError(t, err)
	assert.Empty(t, violations)

	violations, err = r.ValidateResponse(B2CLogin, []byte(`{"user":{}}`))
	require.NoError(t, err)
	assert.NotEmpty(t, violations)

	violations, err = r.ValidateResponse(B2BLogin, []byte(`{"admin":{"id":"7f1c1c8e-8d7e-4d8b-9a53-5f4a2b0c6c11","token":"t","role":"Owner"},"message":"ok"}`))
	require.NoError(t, err)
	assert.NotEmpty(t, violations)

	// endpoints without a contract accept anything
	violations, err = r.ValidateResponse(B2CLogout, []byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, violations)

	_, err = r.ValidateResponse("unknown", []byte(`{}`))
	assert.Error(t, err)
}
