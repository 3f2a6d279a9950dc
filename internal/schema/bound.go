package schema

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

const (
	boundKey    = "schema.request"
	endpointKey = "schema.endpoint"
)

// SetBound stores the validated request on c
func SetBound(c echo.Context, req interface{}) {
	c.Set(boundKey, req)
}

// Bound returns the validated request stored by the validation middleware
func Bound[T any](c echo.Context) (*T, error) {
	req, ok := c.Get(boundKey).(*T)
	if !ok || req == nil {
		var zero T
		return nil, fmt.Errorf("no validated %T on request", zero)
	}
	return req, nil
}

// SetEndpoint records which endpoint is serving c
func SetEndpoint(c echo.Context, name string) {
	c.Set(endpointKey, name)
}

// Endpoint returns the endpoint serving c, if known
func Endpoint(c echo.Context) string {
	name, _ := c.Get(endpointKey).(string)
	return name
}
