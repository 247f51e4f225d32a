package rest_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sodamint/itemsim/api/rest"
	"github.com/sodamint/itemsim/model"
	"github.com/sodamint/itemsim/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter builds a full engine with every route registered, backed by
// an in-memory DB and a local cache.
func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	c := testutil.SetupTestCache(t)
	r := gin.New()
	rest.RegisterRoutes(r, db, c, testutil.TestSecurityConfig())
	return r, db
}

// doJSON performs a request with a JSON body and optional session cookies.
func doJSON(r *gin.Engine, method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postJSON(r *gin.Engine, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodPost, path, body, cookies...)
}

func parseBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return resp
}

// register signs up and signs in a fresh account, returning the session
// cookies issued at sign-in.
func register(t *testing.T, r *gin.Engine, loginID string) []*http.Cookie {
	t.Helper()
	w := postJSON(r, "/api/sign-up", map[string]string{
		"login_id":         loginID,
		"password":         "secret99",
		"confirm_password": "secret99",
	})
	require.Equal(t, http.StatusCreated, w.Code, "sign-up: %s", w.Body.String())

	w = postJSON(r, "/api/sign-in", map[string]string{
		"login_id": loginID,
		"password": "secret99",
	})
	require.Equal(t, http.StatusOK, w.Code, "sign-in: %s", w.Body.String())
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

// createCharacter creates a character and returns its id.
func createCharacter(t *testing.T, r *gin.Engine, cookies []*http.Cookie, name string) int64 {
	t.Helper()
	w := postJSON(r, "/api/characters", map[string]string{"name": name}, cookies...)
	require.Equal(t, http.StatusCreated, w.Code, "create character: %s", w.Body.String())
	resp := parseBody(t, w)
	data := resp["data"].(map[string]interface{})
	return int64(data["id"].(float64))
}

// createItem registers a catalog item directly through the API.
func createItem(t *testing.T, r *gin.Engine, code int, name string, price int64, stat *model.StatBonus) {
	t.Helper()
	body := map[string]interface{}{
		"item_code":  code,
		"item_name":  name,
		"item_price": price,
	}
	if stat != nil {
		body["item_stat"] = stat
	}
	w := postJSON(r, "/api/items", body)
	require.Equal(t, http.StatusAccepted, w.Code, "create item: %s", w.Body.String())
}

// addMoney hits the faucet n times (each call adds 100).
func addMoney(t *testing.T, r *gin.Engine, cookies []*http.Cookie, charID int64, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		w := doJSON(r, http.MethodPatch, fmt.Sprintf("/api/character/%d/addMoney", charID), nil, cookies...)
		require.Equal(t, http.StatusOK, w.Code, "addMoney: %s", w.Body.String())
	}
}

// characterMoney reads the money column straight from the DB.
func characterMoney(t *testing.T, db *gorm.DB, charID int64) int64 {
	t.Helper()
	var char model.Character
	require.NoError(t, db.First(&char, charID).Error)
	return char.Money
}
