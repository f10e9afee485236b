package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/pageza/glucowise/backend/internal/models"
	"github.com/pageza/glucowise/backend/internal/service"
	"github.com/pageza/glucowise/backend/internal/testhelpers"
	"github.com/pageza/glucowise/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gi(v float64) *float64 { return &v }

func TestCreateFood(t *testing.T) {
	st := newStores(t)
	svc := service.NewFoodService(st.foods, nopLog)

	food, err := svc.CreateFood(context.Background(), &types.CreateFoodRequest{
		Name:          " Greek Yogurt ",
		GlycemicIndex: gi(11),
		MealType:      "Breakfast",
		Allergens:     types.AllergenList{"Milk"},
		Tags:          []string{"high-protein"},
		Nutrition:     types.Nutrition{Calories: 100, Protein: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, "Greek Yogurt", food.Name)
	assert.Equal(t, models.MealBreakfast, food.MealType)

	stored, err := svc.GetFood(context.Background(), food.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"milk"}, stored.AllergenNames())
	assert.Equal(t, []string{"high-protein"}, []string(stored.Tags))
	assert.Equal(t, 100.0, stored.Calories)
}

func TestCreateFoodValidation(t *testing.T) {
	st := newStores(t)
	svc := service.NewFoodService(st.foods, nopLog)

	tests := []struct {
		name string
		req  types.CreateFoodRequest
	}{
		{"blank name", types.CreateFoodRequest{Name: " ", GlycemicIndex: gi(10), MealType: "lunch"}},
		{"bad meal", types.CreateFoodRequest{Name: "Soup", GlycemicIndex: gi(10), MealType: "brunch"}},
		{"gi too high", types.CreateFoodRequest{Name: "Soup", GlycemicIndex: gi(101), MealType: "lunch"}},
		{"gi negative", types.CreateFoodRequest{Name: "Soup", GlycemicIndex: gi(-1), MealType: "lunch"}},
		{"gi missing", types.CreateFoodRequest{Name: "Soup", MealType: "lunch"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateFood(context.Background(), &tt.req)
			assert.ErrorIs(t, err, service.ErrBadRequest)
		})
	}
}

func TestGetFoodUnknown(t *testing.T) {
	st := newStores(t)
	_, err := service.NewFoodService(st.foods, nopLog).GetFood(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestSearchFoods(t *testing.T) {
	st := newStores(t)
	testhelpers.CreateFood(t, st.db, "Oat Porridge", models.MealBreakfast, 55)
	testhelpers.CreateFood(t, st.db, "Oat Cookies", models.MealSnack, 60)
	testhelpers.CreateFood(t, st.db, "Rice", models.MealDinner, 73)
	svc := service.NewFoodService(st.foods, nopLog)

	foods, err := svc.SearchFoods(context.Background(), "oat", "", 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Oat Porridge", "Oat Cookies"}, names(foods))

	foods, err = svc.SearchFoods(context.Background(), "oat", "snack", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Oat Cookies"}, names(foods))

	_, err = svc.SearchFoods(context.Background(), "", "", service.MaxFoodSearchLimit+1)
	assert.ErrorIs(t, err, service.ErrBadRequest)

	_, err = svc.SearchFoods(context.Background(), "", "elevenses", 5)
	assert.ErrorIs(t, err, service.ErrBadRequest)
}

type fakeUploader struct {
	key         string
	contentType string
	err         error
}

func (u *fakeUploader) UploadImage(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	u.key, u.contentType = key, contentType
	return key, u.err
}

func TestAttachImage(t *testing.T) {
	st := newStores(t)
	food := testhelpers.CreateFood(t, st.db, "Lentil Soup", models.MealLunch, 32)
	svc := service.NewFoodService(st.foods, nopLog)
	up := &fakeUploader{}

	ref, err := svc.AttachImage(context.Background(), food.ID, up, "soup.PNG", []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, "food-images/"+food.ID.String()+".png", ref)
	assert.Equal(t, "image/png", up.contentType)

	stored, err := svc.GetFood(context.Background(), food.ID)
	require.NoError(t, err)
	assert.Equal(t, ref, stored.ImageRef)
}

func TestAttachImageRejects(t *testing.T) {
	st := newStores(t)
	food := testhelpers.CreateFood(t, st.db, "Rice", models.MealDinner, 73)
	svc := service.NewFoodService(st.foods, nopLog)
	ctx := context.Background()

	_, err := svc.AttachImage(ctx, food.ID, &fakeUploader{}, "notes.txt", []byte("x"))
	assert.ErrorIs(t, err, service.ErrBadRequest)

	_, err = svc.AttachImage(ctx, food.ID, &fakeUploader{}, "rice.jpg", nil)
	assert.ErrorIs(t, err, service.ErrBadRequest)

	up := &fakeUploader{}
	_, err = svc.AttachImage(ctx, uuid.New(), up, "rice.jpg", []byte("x"))
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Empty(t, up.key)

	_, err = svc.AttachImage(ctx, food.ID, &fakeUploader{err: errors.New("bucket gone")}, "rice.jpg", []byte("x"))
	assert.ErrorIs(t, err, service.ErrInternal)
}
