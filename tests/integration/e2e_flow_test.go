//go:build integration

// Package integration contains end-to-end API flow tests that verify
// the complete user journey through the promotions service.
//
// These tests run against the real docker-compose infrastructure and
// test the full API flow without any direct database manipulation.
package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestE2E_PromotionLifecycle tests the complete happy path flow:
// 1. Create a promotion via API
// 2. Get the promotion via API
// 3. Update the promotion via API
// 4. Invalidate the promotion via API
// 5. Delete the promotion via API and verify it is gone
func TestE2E_PromotionLifecycle(t *testing.T) {
	cleanupTables(t)

	// Step 1: Create a promotion via API
	t.Log("Step 1: Creating promotion via API")
	createResp, err := postRawJSON(formatURL("/promotions"), `{
		"name": "E2E Winter Sale",
		"start_date": "12-01-2022 00:00:00 +0000",
		"end_date": "12-31-2022 00:00:00 +0000",
		"type": "VALUE",
		"value": 5.0,
		"ongoing": true,
		"product_id": 101
	}`)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, createResp.StatusCode, "Should create promotion successfully")

	var created map[string]interface{}
	require.NoError(t, readJSONResponse(createResp, &created))
	require.NotNil(t, created["id"])
	id := created["id"]

	// Step 2: Get the promotion via API
	t.Log("Step 2: Getting promotion via API")
	getResp, err := getJSON(formatURL(fmt.Sprintf("/promotions/%v", id)))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	var fetched map[string]interface{}
	require.NoError(t, readJSONResponse(getResp, &fetched))
	assert.Equal(t, "E2E Winter Sale", fetched["name"])
	assert.Equal(t, 5.0, fetched["value"])
	assert.Equal(t, true, fetched["ongoing"])

	// Step 3: Update the promotion via API
	t.Log("Step 3: Updating promotion via API")
	updateResp, err := putRawJSON(formatURL(fmt.Sprintf("/promotions/%v", id)), `{
		"name": "E2E Winter Sale Extended",
		"start_date": "12-01-2022 00:00:00 +0000",
		"end_date": null,
		"type": "PERCENTAGE",
		"value": 15.0,
		"ongoing": true,
		"product_id": 101
	}`)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, updateResp.StatusCode)

	var updated map[string]interface{}
	require.NoError(t, readJSONResponse(updateResp, &updated))
	assert.Equal(t, id, updated["id"], "Update must not change the id")
	assert.Equal(t, "E2E Winter Sale Extended", updated["name"])
	assert.Nil(t, updated["end_date"], "Open-ended promotion serializes end_date as null")
	assert.Equal(t, "PERCENTAGE", updated["type"])

	// Step 4: Invalidate the promotion via API
	t.Log("Step 4: Invalidating promotion via API")
	invReq, err := http.NewRequest("PUT", formatURL(fmt.Sprintf("/promotions/%v/invalidate", id)), nil)
	require.NoError(t, err)

	invResp, err := httpClient.Do(invReq)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, invResp.StatusCode)

	var invalidated map[string]interface{}
	require.NoError(t, readJSONResponse(invResp, &invalidated))
	assert.Equal(t, false, invalidated["ongoing"])
	assert.Equal(t, "E2E Winter Sale Extended", invalidated["name"], "Invalidate only touches ongoing")

	// Step 5: Delete the promotion via API and verify it is gone
	t.Log("Step 5: Deleting promotion via API")
	delResp, err := deleteRequest(formatURL(fmt.Sprintf("/promotions/%v", id)))
	require.NoError(t, err)
	delResp.Body.Close()
	require.Equal(t, http.StatusNoContent, delResp.StatusCode)

	verifyResp, err := getJSON(formatURL(fmt.Sprintf("/promotions/%v", id)))
	require.NoError(t, err)
	verifyResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, verifyResp.StatusCode)

	t.Log("E2E flow completed successfully!")
}

// TestE2E_ListReflectsWrites verifies that list filters observe writes
// made through the API.
func TestE2E_ListReflectsWrites(t *testing.T) {
	cleanupTables(t)

	bodies := []string{
		`{"name": "List A", "start_date": "01-01-2022 00:00:00 +0000", "end_date": null, "type": "VALUE", "value": 1.0, "ongoing": false, "product_id": 1}`,
		`{"name": "List A", "start_date": "01-01-2022 00:00:00 +0000", "end_date": null, "type": "VALUE", "value": 2.0, "ongoing": false, "product_id": 2}`,
		`{"name": "List B", "start_date": "01-01-2022 00:00:00 +0000", "end_date": null, "type": "VALUE", "value": 3.0, "ongoing": false, "product_id": 2}`,
	}
	for _, body := range bodies {
		resp, err := postRawJSON(formatURL("/promotions"), body)
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp, err := getJSON(formatURL("/promotions?name=List+A"))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var byName []map[string]interface{}
	require.NoError(t, readJSONResponse(resp, &byName))
	assert.Len(t, byName, 2)

	resp, err = getJSON(formatURL("/promotions?product_id=2"))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var byProduct []map[string]interface{}
	require.NoError(t, readJSONResponse(resp, &byProduct))
	assert.Len(t, byProduct, 2)
}
