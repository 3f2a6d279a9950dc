package schema

import (
	"embed"
	"fmt"
	"path"
	"reflect"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"
)

// Endpoint names used as registry keys
const (
	B2CRegister       = "b2c.authorization.register"
	B2CLogin          = "b2c.authorization.login"
	B2CGoogle         = "b2c.authorization.google"
	B2CGoogleCallback = "b2c.authorization.googleRedirect"
	B2CLogout         = "b2c.authorization.logout"
	B2CForgotPassword = "b2c.authorization.forgotPassword"
	B2CResetPassword  = "b2c.authorization.resetPassword"
	B2CGetUser        = "b2c.user.get"
	B2CDeleteUser     = "b2c.user.delete"
	B2CGetRestaurant  = "b2c.restaurant.get"
	B2CListRestaurant = "b2c.restaurant.list"
	B2CCreateBooking  = "b2c.booking.create"
	B2CListBookings   = "b2c.booking.list"
	B2CGetBooking     = "b2c.booking.get"

	B2BRegister         = "b2b.authorization.register"
	B2BLogin            = "b2b.authorization.login"
	B2BLogout           = "b2b.authorization.logout"
	B2BForgotPassword   = "b2b.authorization.forgotPassword"
	B2BResetPassword    = "b2b.authorization.resetPassword"
	B2BInvite           = "b2b.authorization.invite"
	B2BRegisterEmployee = "b2b.authorization.registerEmployee"
	B2BGetAdmin         = "b2b.admin.get"
	B2BUpdateAdmin      = "b2b.admin.update"
	B2BDeleteAdmin      = "b2b.admin.delete"
	B2BGetBrand         = "b2b.brand.get"
	B2BUpdateBrand      = "b2b.brand.update"
	B2BListRestaurants  = "b2b.restaurant.list"
	B2BUpsertRestaurant = "b2b.restaurant.upsert"
	B2BDeleteRestaurant = "b2b.restaurant.delete"
	B2BUpdateStaff      = "b2b.restaurant.staff"
	B2BListBookings     = "b2b.booking.list"
	B2BRestaurantBooks  = "b2b.booking.restaurant"
	B2BUpdateBooking    = "b2b.booking.update"
	B2BDashboard        = "b2b.dashboard.get"

	UploadURL   = "upload.url"
	Health      = "health"
	HealthReady = "health.ready"
)

//go:embed contracts/*.json
var contracts embed.FS

// Entry describes one endpoint contract
type Entry struct {
	Name     string
	Request  reflect.Type // nil when the endpoint takes no input
	Response *gojsonschema.Schema
}

// NewRequest returns a pointer to a fresh zero request value
func (e *Entry) NewRequest() interface{} {
	if e.Request == nil {
		return nil
	}
	return reflect.New(e.Request).Interface()
}

// Registry maps endpoint names to their contracts
type Registry struct {
	entries  map[string]*Entry
	validate *validator.Validate
}

func requestOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// NewRegistry compiles every contract; it fails on a malformed response schema
func NewRegistry() (*Registry, error) {
	r := &Registry{
		entries:  map[string]*Entry{},
		validate: NewValidator(),
	}

	requests := map[string]reflect.Type{
		B2CRegister:       requestOf[RegisterUserRequest](),
		B2CLogin:          requestOf[LoginRequest](),
		B2CGoogle:         nil,
		B2CGoogleCallback: requestOf[GoogleCallbackRequest](),
		B2CLogout:         nil,
		B2CForgotPassword: requestOf[ForgotPasswordRequest](),
		B2CResetPassword:  requestOf[ResetPasswordRequest](),
		B2CGetUser:        requestOf[GetUserRequest](),
		B2CDeleteUser:     nil,
		B2CGetRestaurant:  requestOf[GetRestaurantRequest](),
		B2CListRestaurant: requestOf[ListRestaurantsRequest](),
		B2CCreateBooking:  requestOf[CreateBookingRequest](),
		B2CListBookings:   requestOf[ListUserBookingsRequest](),
		B2CGetBooking:     requestOf[GetBookingRequest](),

		B2BRegister:         requestOf[RegisterAdminRequest](),
		B2BLogin:            requestOf[LoginRequest](),
		B2BLogout:           nil,
		B2BForgotPassword:   requestOf[ForgotPasswordRequest](),
		B2BResetPassword:    requestOf[ResetPasswordRequest](),
		B2BInvite:           requestOf[InviteEmployeeRequest](),
		B2BRegisterEmployee: requestOf[RegisterEmployeeRequest](),
		B2BGetAdmin:         requestOf[AdminIDRequest](),
		B2BUpdateAdmin:      requestOf[UpdateAdminRequest](),
		B2BDeleteAdmin:      requestOf[AdminIDRequest](),
		B2BGetBrand:         requestOf[BrandIDRequest](),
		B2BUpdateBrand:      requestOf[UpdateBrandRequest](),
		B2BListRestaurants:  requestOf[ListBrandRestaurantsRequest](),
		B2BUpsertRestaurant: requestOf[UpsertRestaurantRequest](),
		B2BDeleteRestaurant: requestOf[RestaurantIDRequest](),
		B2BUpdateStaff:      requestOf[UpdateStaffRequest](),
		B2BListBookings:     requestOf[ListBrandBookingsRequest](),
		B2BRestaurantBooks:  requestOf[ListRestaurantBookingsRequest](),
		B2BUpdateBooking:    requestOf[UpdateBookingRequest](),
		B2BDashboard:        requestOf[DashboardRequest](),

		UploadURL:   requestOf[UploadURLRequest](),
		Health:      nil,
		HealthReady: nil,
	}
	for name, typ := range requests {
		r.entries[name] = &Entry{Name: name, Request: typ}
	}

	if err := r.loadResponses(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) loadResponses() error {
	definitions, err := contracts.ReadFile("contracts/definitions.json")
	if err != nil {
		return fmt.Errorf("read definitions: %w", err)
	}

	files, err := contracts.ReadDir("contracts")
	if err != nil {
		return err
	}
	for _, f := range files {
		name := f.Name()
		if name == "definitions.json" {
			continue
		}
		endpoint := name[:len(name)-len(path.Ext(name))]
		entry, ok := r.entries[endpoint]
		if !ok {
			return fmt.Errorf("response contract %s has no endpoint", name)
		}

		doc, err := contracts.ReadFile("contracts/" + name)
		if err != nil {
			return err
		}

		loader := gojsonschema.NewSchemaLoader()
		if err := loader.AddSchemas(gojsonschema.NewBytesLoader(definitions)); err != nil {
			return fmt.Errorf("load definitions: %w", err)
		}
		compiled, err := loader.Compile(gojsonschema.NewBytesLoader(doc))
		if err != nil {
			return fmt.Errorf("compile %s: %w", name, err)
		}
		entry.Response = compiled
	}
	return nil
}

// Get returns the contract for an endpoint
func (r *Registry) Get(name string) (*Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// MustGet is Get for route wiring, where a missing name is a programming error
func (r *Registry) MustGet(name string) *Entry {
	e, ok := r.entries[name]
	if !ok {
		panic("schema: unknown endpoint " + name)
	}
	return e
}

// Names lists every registered endpoint
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.entries))
	for name := range r.entries {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Validator exposes the configured validator
func (r *Registry) Validator() *validator.Validate {
	return r.validate
}

// ValidateResponse checks body against the endpoint's response contract.
// Endpoints without a contract always pass.
func (r *Registry) ValidateResponse(name string, body []byte) ([]string, error) {
	entry, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("unknown endpoint %q", name)
	}
	if entry.Response == nil {
		return nil, nil
	}

	result, err := entry.Response.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, fmt.Errorf("validate %s response: %w", name, err)
	}
	if result.Valid() {
		return nil, nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return violations, nil
}
