package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEconomyFlow walks the whole lifecycle of one player: register, sign in,
// create a character, publish an item, earn money, buy, equip, detach, sell.
func TestEconomyFlow(t *testing.T) {
	ts := NewTestServer(t)
	client := ts.NewClient(t)

	client.SignUpAndIn("player1", "secret99")
	charID := client.CreateCharacter("Protagonist")

	// Publish a sword worth 500 with +5 attack.
	code, body := client.Do(http.MethodPost, "/api/items", map[string]interface{}{
		"item_code":  1001,
		"item_name":  "Iron Sword",
		"item_price": 500,
		"item_stat":  map[string]int{"attack": 5},
		"item_type":  "WEAPON",
	})
	require.Equal(t, http.StatusAccepted, code, "create item: %v", body)

	// Earn 1000 and buy two swords.
	client.AddMoney(charID, 10)
	code, body = client.Do(http.MethodPost, fmt.Sprintf("/api/character/%d/purchase", charID),
		map[string]int{"item_code": 1001, "count": 2})
	require.Equal(t, http.StatusOK, code, "purchase: %v", body)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(1000), data["spent"])
	assert.Equal(t, float64(0), data["remaining"])

	// A third sword is unaffordable.
	code, _ = client.Do(http.MethodPost, fmt.Sprintf("/api/character/%d/purchase", charID),
		map[string]int{"item_code": 1001, "count": 1})
	assert.Equal(t, http.StatusBadRequest, code)

	// Equip one: attack 10 → 15.
	code, body = client.Do(http.MethodPost, fmt.Sprintf("/api/character/%d/equip", charID),
		map[string]int{"item_code": 1001})
	require.Equal(t, http.StatusOK, code, "equip: %v", body)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, float64(15), data["attack"])

	// The equipped sword shows on the public equipment listing.
	code, body = client.Do(http.MethodGet, fmt.Sprintf("/api/character/%d/characterItem", charID), nil)
	require.Equal(t, http.StatusOK, code)
	equipped := body["data"].([]interface{})
	require.Len(t, equipped, 1)

	// Detach it: attack back to 10, two swords in the bag again.
	code, body = client.Do(http.MethodPost, fmt.Sprintf("/api/character/%d/detach", charID),
		map[string]int{"item_code": 1001})
	require.Equal(t, http.StatusOK, code, "detach: %v", body)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, float64(10), data["attack"])

	// Sell both: floor(500 × 2 × 0.6) = 600.
	code, body = client.Do(http.MethodPost, fmt.Sprintf("/api/character/%d/sales", charID),
		map[string]int{"item_code": 1001, "count": 2})
	require.Equal(t, http.StatusOK, code, "sale: %v", body)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, float64(600), data["proceeds"])
	assert.Equal(t, float64(600), data["remaining"])

	// The inventory is empty afterwards.
	code, body = client.Do(http.MethodGet, fmt.Sprintf("/api/character/%d/inventory", charID), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["data"].([]interface{}))
}

// TestSessionFlow exercises the token lifecycle across two logins.
func TestSessionFlow(t *testing.T) {
	ts := NewTestServer(t)
	first := ts.NewClient(t)

	first.SignUpAndIn("player2", "secret99")

	code, body := first.Do(http.MethodGet, "/api/token/validate", nil)
	require.Equal(t, http.StatusOK, code, "validate: %v", body)

	code, _ = first.Do(http.MethodPost, "/api/token/refresh", nil)
	require.Equal(t, http.StatusOK, code)

	// A second browser signs in and supersedes the first session's refresh
	// record; the first client can no longer refresh.
	second := ts.NewClient(t)
	code, _ = second.Do(http.MethodPost, "/api/sign-in", map[string]string{
		"login_id": "player2", "password": "secret99"})
	require.Equal(t, http.StatusOK, code)

	code, _ = first.Do(http.MethodPost, "/api/token/refresh", nil)
	assert.Equal(t, 419, code)

	code, _ = second.Do(http.MethodPost, "/api/token/refresh", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestHealth(t *testing.T) {
	ts := NewTestServer(t)
	client := ts.NewClient(t)

	code, body := client.Do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}
