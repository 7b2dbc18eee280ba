package services

import (
	"testing"

	"store-route-planner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() domain.ProductCatalog {
	return domain.NewProductCatalog([]domain.Product{
		{ID: "240ml", Name: "Cup 240ml", CapacityFactor: 1.0},
		{ID: "600ml", Name: "Bottle 600ml", CapacityFactor: 2.5},
		{ID: "19l", Name: "Gallon 19L", CapacityFactor: 12},
	})
}

func TestComputeLoad(t *testing.T) {
	load, err := ComputeLoad([]domain.LoadItem{
		{ProductID: "240ml", Quantity: 10},
		{ProductID: "600ml", Quantity: 4},
		{ProductID: "19l", Quantity: 1},
	}, testCatalog())
	require.NoError(t, err)
	assert.InDelta(t, 10+10+12, load, 1e-9)

	_, err = ComputeLoad([]domain.LoadItem{{ProductID: "crate", Quantity: 1}}, testCatalog())
	require.ErrorIs(t, err, domain.ErrInvalidCapacityInput)
}

func TestIsHomogeneous(t *testing.T) {
	tests := []struct {
		name  string
		items []domain.LoadItem
		want  bool
	}{
		{"single product", []domain.LoadItem{{ProductID: "240ml", Quantity: 3}}, true},
		{"same product twice", []domain.LoadItem{{ProductID: "240ml", Quantity: 3}, {ProductID: "240ml", Quantity: 1}}, true},
		{"zero quantity ignored", []domain.LoadItem{{ProductID: "240ml", Quantity: 3}, {ProductID: "19l", Quantity: 0}}, true},
		{"two products", []domain.LoadItem{{ProductID: "240ml", Quantity: 3}, {ProductID: "19l", Quantity: 1}}, false},
		{"nothing positive", []domain.LoadItem{{ProductID: "240ml", Quantity: 0}}, false},
		{"empty", nil, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsHomogeneous(tc.items))
		})
	}
}

func TestFitToCapacityFits(t *testing.T) {
	res, err := FitToCapacity([]domain.LoadItem{
		{ProductID: "240ml", Quantity: 50},
		{ProductID: "19l", Quantity: 5},
	}, testCatalog(), 200)
	require.NoError(t, err)

	assert.True(t, res.CanFit)
	assert.InDelta(t, 110, res.TotalLoad, 1e-9)
	assert.InDelta(t, 90, res.RemainingCapacity, 1e-9)
	assert.Equal(t, 55, res.UtilizationPercentage)
	assert.Equal(t, domain.LoadHeterogeneous, res.LoadType)
	assert.Empty(t, res.Reductions)
	for _, it := range res.ApprovedItems {
		assert.Equal(t, it.RequestedQuantity, it.ApprovedQuantity)
		assert.False(t, it.IsReduced)
	}
}

func TestFitToCapacityExactFitWithDrift(t *testing.T) {
	catalog := domain.NewProductCatalog([]domain.Product{{ID: "sachet", CapacityFactor: 0.1}})

	res, err := FitToCapacity([]domain.LoadItem{{ProductID: "sachet", Quantity: 3}}, catalog, 0.3)
	require.NoError(t, err)

	assert.True(t, res.CanFit)
	assert.Empty(t, res.Reductions)
	require.Len(t, res.ApprovedItems, 1)
	assert.Equal(t, 3, res.ApprovedItems[0].ApprovedQuantity)
	assert.False(t, res.ApprovedItems[0].IsReduced)
	assert.GreaterOrEqual(t, res.RemainingCapacity, 0.0)
	assert.Equal(t, 100, res.UtilizationPercentage)
}

func TestFitToCapacityHomogeneousReduction(t *testing.T) {
	res, err := FitToCapacity([]domain.LoadItem{{ProductID: "240ml", Quantity: 250}}, testCatalog(), 200)
	require.NoError(t, err)

	assert.False(t, res.CanFit)
	assert.Equal(t, domain.LoadHomogeneous, res.LoadType)
	assert.InDelta(t, 250, res.RequestedLoad, 1e-9)
	require.Len(t, res.ApprovedItems, 1)
	assert.Equal(t, 200, res.ApprovedItems[0].ApprovedQuantity)
	assert.True(t, res.ApprovedItems[0].IsReduced)
	assert.InDelta(t, 200, res.TotalLoad, 1e-9)
	assert.Equal(t, 100, res.UtilizationPercentage)
	require.Len(t, res.Reductions, 1)
	assert.Equal(t, domain.Reduction{ProductID: "240ml", RequestedQuantity: 250, ApprovedQuantity: 200, ReducedBy: 50}, res.Reductions[0])
}

func TestFitToCapacityProportionalReduction(t *testing.T) {
	items := []domain.LoadItem{
		{ProductID: "240ml", Quantity: 100}, // 100
		{ProductID: "600ml", Quantity: 40},  // 100
		{ProductID: "19l", Quantity: 9},     // 108
	}
	// requested 308, ratio = 154/308 = 0.5
	res, err := FitToCapacity(items, testCatalog(), 154)
	require.NoError(t, err)

	assert.False(t, res.CanFit)
	got := map[string]int{}
	for _, it := range res.ApprovedItems {
		got[it.ProductID] = it.ApprovedQuantity
	}
	assert.Equal(t, map[string]int{"240ml": 50, "600ml": 20, "19l": 4}, got)
	assert.InDelta(t, 50+50+48, res.TotalLoad, 1e-9)
	assert.InDelta(t, 6, res.RemainingCapacity, 1e-9)
	assert.Len(t, res.Reductions, 3)
}

func TestFitToCapacityNeverExceeds(t *testing.T) {
	catalog := testCatalog()
	capacities := []float64{1, 7.5, 33, 99.9, 150, 512}
	quantities := [][3]int{{1, 1, 1}, {13, 7, 3}, {250, 0, 0}, {999, 333, 77}, {0, 1, 20}}

	for _, c := range capacities {
		for _, q := range quantities {
			items := []domain.LoadItem{
				{ProductID: "240ml", Quantity: q[0]},
				{ProductID: "600ml", Quantity: q[1]},
				{ProductID: "19l", Quantity: q[2]},
			}
			res, err := FitToCapacity(items, catalog, c)
			require.NoError(t, err)

			approved := make([]domain.LoadItem, 0, len(res.ApprovedItems))
			for _, it := range res.ApprovedItems {
				assert.GreaterOrEqual(t, it.ApprovedQuantity, 0)
				assert.LessOrEqual(t, it.ApprovedQuantity, it.RequestedQuantity)
				approved = append(approved, domain.LoadItem{ProductID: it.ProductID, Quantity: it.ApprovedQuantity})
			}

			load, err := ComputeLoad(approved, catalog)
			require.NoError(t, err)
			assert.LessOrEqual(t, load, c+domain.CapacityTolerance, "capacity=%v quantities=%v", c, q)
			assert.GreaterOrEqual(t, res.UtilizationPercentage, 0)
			assert.LessOrEqual(t, res.UtilizationPercentage, 100)
		}
	}
}

func TestFitToCapacityInvalidInput(t *testing.T) {
	items := []domain.LoadItem{{ProductID: "240ml", Quantity: 1}}

	_, err := FitToCapacity(items, testCatalog(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidCapacityInput)

	_, err = FitToCapacity(items, testCatalog(), -5)
	assert.ErrorIs(t, err, domain.ErrInvalidCapacityInput)

	_, err = FitToCapacity(nil, testCatalog(), 10)
	assert.ErrorIs(t, err, domain.ErrInvalidCapacityInput)

	_, err = CalculateLoad([]domain.LoadItem{{ProductID: "240ml", Quantity: -1}}, testCatalog(), 10)
	assert.ErrorIs(t, err, domain.ErrInvalidCapacityInput)
}
