package rest_test

import (
	"net/http"
	"testing"

	"github.com/sodamint/itemsim/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemCreate(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postJSON(r, "/api/items", map[string]interface{}{
		"item_code":  1001,
		"item_name":  "Iron Sword",
		"item_price": 500,
		"item_stat":  map[string]int{"attack": 5},
		"item_type":  "WEAPON",
		"rarity":     "rare",
	})
	require.Equal(t, http.StatusAccepted, w.Code)

	data := parseBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(1001), data["item_code"])
	assert.Equal(t, "Iron Sword", data["item_name"])
	assert.Equal(t, "rare", data["rarity"])
}

func TestItemCreateDefaults(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postJSON(r, "/api/items", map[string]interface{}{
		"item_code": 1002,
		"item_name": "Pebble",
	})
	require.Equal(t, http.StatusAccepted, w.Code)

	data := parseBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["item_price"])
	assert.Equal(t, "ETC", data["item_type"])
	assert.Equal(t, model.RarityCommon, data["rarity"])
}

func TestItemCreateDuplicateCode(t *testing.T) {
	r, _ := newTestRouter(t)
	createItem(t, r, 1003, "Original", 10, nil)

	w := postJSON(r, "/api/items", map[string]interface{}{
		"item_code": 1003,
		"item_name": "Impostor",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestItemCreateBadRarity(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postJSON(r, "/api/items", map[string]interface{}{
		"item_code": 1004,
		"item_name": "Weird",
		"rarity":    "mythic",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestItemList(t *testing.T) {
	r, _ := newTestRouter(t)
	createItem(t, r, 2002, "Second", 20, nil)
	createItem(t, r, 2001, "First", 10, nil)

	w := doJSON(r, http.MethodGet, "/api/items", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := parseBody(t, w)["data"].([]interface{})
	require.Len(t, data, 2)

	// Ordered by ascending code, summary fields only.
	first := data[0].(map[string]interface{})
	assert.Equal(t, float64(2001), first["item_code"])
	assert.Equal(t, "First", first["item_name"])
	assert.Equal(t, float64(10), first["item_price"])
}

func TestItemDetail(t *testing.T) {
	r, _ := newTestRouter(t)
	createItem(t, r, 3001, "Helm", 40, &model.StatBonus{Defense: 3})

	w := doJSON(r, http.MethodGet, "/api/items/3001", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := parseBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Helm", data["item_name"])
	stat := data["item_stat"].(map[string]interface{})
	assert.Equal(t, float64(3), stat["defense"])
}

func TestItemDetailBadCode(t *testing.T) {
	r, _ := newTestRouter(t)

	// Non-numeric and unknown codes both answer 400.
	w := doJSON(r, http.MethodGet, "/api/items/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/api/items/77777", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestItemUpdate(t *testing.T) {
	r, db := newTestRouter(t)
	createItem(t, r, 4001, "Rusty Blade", 30, &model.StatBonus{Attack: 2})

	w := doJSON(r, http.MethodPatch, "/api/items/4001", map[string]interface{}{
		"item_name": "Polished Blade",
		"item_stat": map[string]int{"attack": 4},
	})
	require.Equal(t, http.StatusOK, w.Code)

	data := parseBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Polished Blade", data["item_name"])

	// One history row per changed field.
	var histories []model.ItemHistory
	require.NoError(t, db.Where("item_code = ?", 4001).Find(&histories).Error)
	require.Len(t, histories, 2)
	fields := map[string]bool{}
	for _, h := range histories {
		fields[h.ChangedField] = true
	}
	assert.True(t, fields["item_name"])
	assert.True(t, fields["item_stat"])
}

func TestItemUpdateNoChange(t *testing.T) {
	r, db := newTestRouter(t)
	createItem(t, r, 4002, "Static", 30, nil)

	// Same value → no history row written.
	name := "Static"
	w := doJSON(r, http.MethodPatch, "/api/items/4002", map[string]interface{}{
		"item_name": name,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&model.ItemHistory{}).Where("item_code = ?", 4002).Count(&count)
	assert.Zero(t, count)
}

func TestItemUpdateNotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPatch, "/api/items/5001", map[string]interface{}{
		"item_name": "Nothing",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestItemUpdateBadRarity(t *testing.T) {
	r, _ := newTestRouter(t)
	createItem(t, r, 4003, "Tiered", 30, nil)

	w := doJSON(r, http.MethodPatch, "/api/items/4003", map[string]interface{}{
		"rarity": "divine",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
