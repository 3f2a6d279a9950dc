package view

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/restb/internal/model"
)

func toMap(t *testing.T, v interface{}) map[string]interface{} {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestNewRestaurant_EmptyCollections(t *testing.T) {
	out := toMap(t, NewRestaurant(&model.Restaurant{Name: "Trattoria"}))

	assert.Equal(t, []interface{}{}, out["photosURL"])
	assert.Equal(t, []interface{}{}, out["categories"])
	assert.NotContains(t, out, "description")
}

func TestNewPublicRestaurant(t *testing.T) {
	r := &model.Restaurant{
		Name:                    "Trattoria",
		AutoApprovedBookingsNum: 10,
		Brand:                   &model.Brand{Name: "Pasta Group"},
	}
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	out := toMap(t, NewPublicRestaurant(r, NewAvailability(r, day, 4)))

	assert.Equal(t, "Pasta Group", out["brand"].(map[string]interface{})["name"])
	assert.Nil(t, out["address"])
	availability := out["availability"].(map[string]interface{})
	assert.EqualValues(t, 6, availability["autoConfirmGuestsLimit"])
}

func TestNewBooking_EmptyDiscussion(t *testing.T) {
	out := toMap(t, NewRestaurantBooking(&model.Booking{GuestsNumber: 2}))

	assert.Equal(t, []interface{}{}, out["discussion"])
	assert.Nil(t, out["user"])
}

func TestNewSummaries_Empty(t *testing.T) {
	assert.NotNil(t, NewSummaries(nil))
	assert.Empty(t, NewSummaries(nil))
}
