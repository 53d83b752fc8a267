package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDate_DropsTimeOfDay(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	late := time.Date(2024, 2, 15, 23, 30, 0, 0, paris)

	d := NewDate(late)
	assert.Equal(t, "2024-02-15", d.String())
	assert.Equal(t, time.UTC, d.Location())
	assert.Equal(t, d, NewDate(time.Date(2024, 2, 15, 0, 0, 1, 0, time.UTC)))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.True(t, d.Before(NewDate(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))))

	for _, bad := range []string{"", "2023-02-29", "2024-2-5", "15.02.2024", "2024-02-15T10:00:00Z"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestDate_JSON(t *testing.T) {
	var r Reservation
	require.NoError(t, json.Unmarshal([]byte(`{"reservation_date":"2024-02-15"}`), &r))
	assert.Equal(t, "2024-02-15", r.ReservationDate.String())

	out, err := json.Marshal(r.ReservationDate)
	require.NoError(t, err)
	assert.JSONEq(t, `"2024-02-15"`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"reservation_date":"tomorrow"}`), &r))
}

func TestDietaryTags(t *testing.T) {
	info := " vegetarian, gluten-free ,,nut-free "
	item := MenuItem{DietaryInfo: &info}
	assert.Equal(t, []string{"vegetarian", "gluten-free", "nut-free"}, item.DietaryTags())

	assert.Nil(t, (&MenuItem{}).DietaryTags())
}

func TestUpdateMenuItemInput_JSON(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		imageSet  bool
		imageNil  bool
		wantEmpty bool
	}{
		{"absent", `{}`, false, true, true},
		{"explicit null", `{"image_url":null}`, true, true, false},
		{"value", `{"image_url":"https://example.com/a.jpg"}`, true, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in UpdateMenuItemInput
			require.NoError(t, json.Unmarshal([]byte(tt.body), &in))
			assert.Equal(t, tt.imageSet, in.ImageURL.Set)
			assert.Equal(t, tt.imageNil, in.ImageURL.Value == nil)
			assert.Equal(t, tt.wantEmpty, in.IsEmpty())
		})
	}

	var in UpdateMenuItemInput
	assert.Error(t, json.Unmarshal([]byte(`{"dietary_info":42}`), &in))
}

func TestUpdateMenuItemInput_Apply(t *testing.T) {
	img := "https://example.com/a.jpg"
	diet := "vegan"
	item := MenuItem{
		ID:          3,
		CategoryID:  1,
		Name:        "Soup",
		Price:       8,
		ImageURL:    &img,
		DietaryInfo: &diet,
		IsAvailable: true,
	}

	name := "Tomato soup"
	unavailable := false
	patch := UpdateMenuItemInput{
		Name:        &name,
		IsAvailable: &unavailable,
		ImageURL:    OptionalString{Set: true},
		DietaryInfo: Some("vegan,gluten-free"),
	}
	patch.Apply(&item)

	assert.Equal(t, "Tomato soup", item.Name)
	assert.False(t, item.IsAvailable)
	assert.Nil(t, item.ImageURL)
	require.NotNil(t, item.DietaryInfo)
	assert.Equal(t, "vegan,gluten-free", *item.DietaryInfo)
	assert.Equal(t, int64(1), item.CategoryID)
	assert.Equal(t, 8.0, item.Price)
}
