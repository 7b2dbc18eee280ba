package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeed(t *testing.T) {
	s, err := ParseSeed([]byte(`{
		"stores": [
			{"store_id": " S1 ", "name": "Kemang", "lat": -6.26, "lon": 106.81},
			{"store_id": "S2", "name": "Bekasi", "address": "Jl. Ahmad Yani, Bekasi"}
		],
		"products": [{"product_id": "19l", "name": "Gallon", "capacity_factor": 12}],
		"vehicles": [{"vehicle_id": "V1", "capacity": 400}],
		"orders": [
			{"order_id": "O1", "store_id": "S1", "desired_delivery_date": "2026-01-01",
			 "items": [{"product_id": "19l", "quantity": 3}]}
		]
	}`))
	require.NoError(t, err)

	assert.Equal(t, "S1", s.Stores[0].StoreID)
	assert.Nil(t, s.Stores[1].Lat)
	require.Len(t, s.Orders, 1)
	assert.Equal(t, 3, s.Orders[0].Items[0].Quantity)
}

func TestParseSeedRejects(t *testing.T) {
	cases := map[string]string{
		"bad json":         `{`,
		"empty store id":   `{"stores":[{"store_id":""}]}`,
		"half coordinates": `{"stores":[{"store_id":"S1","lat":1}]}`,
		"bad factor":       `{"products":[{"product_id":"p","capacity_factor":0}]}`,
		"bad capacity":     `{"vehicles":[{"vehicle_id":"v","capacity":-1}]}`,
		"unknown store":    `{"orders":[{"order_id":"o","store_id":"nope","desired_delivery_date":"2026-01-01"}]}`,
		"bad date":         `{"stores":[{"store_id":"S1"}],"orders":[{"order_id":"o","store_id":"S1","desired_delivery_date":"01/01/2026"}]}`,
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSeed([]byte(doc))
			require.Error(t, err)
		})
	}
}
