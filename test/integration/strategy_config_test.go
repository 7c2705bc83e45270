package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ValidationIssue struct {
	Type    string   `json:"type"`
	Fields  []string `json:"fields"`
	Message string   `json:"message"`
}

type ValidationResp struct {
	Valid       bool              `json:"valid"`
	Issues      []ValidationIssue `json:"issues"`
	UnknownKeys []string          `json:"unknown_keys"`
}

type FieldChange struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

type UpdateResp struct {
	Version uint          `json:"version"`
	Source  string        `json:"source"`
	Changes []FieldChange `json:"changes"`
}

type ActiveConfigResp struct {
	Version  uint                   `json:"version"`
	Document map[string]interface{} `json:"document"`
	Derived  struct {
		EffectiveRiskBudget string `json:"effective_risk_budget"`
		EffectiveLeverage   int    `json:"effective_leverage"`
		TakeProfitResidual  string `json:"take_profit_residual"`
	} `json:"derived"`
}

type Revision struct {
	ID      uint   `json:"id"`
	Version uint   `json:"version"`
	Source  string `json:"source"`
}

func putJSON(t *testing.T, path string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPut, BaseURL+path, bytes.NewBuffer(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestStrategyConfigAPI(t *testing.T) {
	// Test Case 1: Read the active config
	t.Run("Get Active Config", func(t *testing.T) {
		resp, err := http.Get(BaseURL + "/strategy-config/active")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var active ActiveConfigResp
		err = json.NewDecoder(resp.Body).Decode(&active)
		require.NoError(t, err)
		assert.NotEmpty(t, active.Document["quote_asset"])
		assert.NotEmpty(t, active.Derived.EffectiveRiskBudget)
	})

	// Test Case 2: Validate a broken document without changing state
	t.Run("Validate Rejects Bad Document", func(t *testing.T) {
		doc := map[string]interface{}{"default_leverage": 20, "max_leverage": 15}
		payload, err := json.Marshal(doc)
		require.NoError(t, err)

		resp, err := http.Post(BaseURL+"/strategy-config/validate", "application/json", bytes.NewBuffer(payload))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		var result ValidationResp
		err = json.NewDecoder(resp.Body).Decode(&result)
		require.NoError(t, err)
		assert.False(t, result.Valid)

		found := false
		for _, issue := range result.Issues {
			if issue.Type == "constraint_violation" {
				assert.ElementsMatch(t, []string{"default_leverage", "max_leverage"}, issue.Fields)
				found = true
			}
		}
		assert.True(t, found, "expected a leverage constraint violation")
	})

	// Test Case 3: Partial update creates a revision
	var updateVersion uint
	t.Run("Update Config", func(t *testing.T) {
		resp := putJSON(t, "/strategy-config", map[string]interface{}{
			"max_daily_trades": 25,
		})
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result UpdateResp
		err := json.NewDecoder(resp.Body).Decode(&result)
		require.NoError(t, err)
		assert.Equal(t, "operator", result.Source)
		require.Len(t, result.Changes, 1)
		assert.Equal(t, "max_daily_trades", result.Changes[0].Field)
		assert.Equal(t, "25", result.Changes[0].New)
		updateVersion = result.Version
	})

	// Test Case 4: Rejected update leaves the active config untouched
	t.Run("Rejected Update Keeps Active", func(t *testing.T) {
		resp := putJSON(t, "/strategy-config", map[string]interface{}{
			"take_profit_quantities": []interface{}{50, 40, 30},
		})
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		var result ValidationResp
		err := json.NewDecoder(resp.Body).Decode(&result)
		require.NoError(t, err)
		assert.False(t, result.Valid)

		active, err := http.Get(BaseURL + "/strategy-config/active")
		require.NoError(t, err)
		defer active.Body.Close()

		var current ActiveConfigResp
		err = json.NewDecoder(active.Body).Decode(&current)
		require.NoError(t, err)
		assert.Equal(t, updateVersion, current.Version)
	})

	// Test Case 5: Revision history lists the update
	var revisionID uint
	t.Run("List Revisions", func(t *testing.T) {
		resp, err := http.Get(BaseURL + "/strategy-config/revisions")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var revisions []Revision
		err = json.NewDecoder(resp.Body).Decode(&revisions)
		require.NoError(t, err)
		require.NotEmpty(t, revisions)
		assert.Equal(t, updateVersion, revisions[0].Version)
		revisionID = revisions[0].ID
	})

	// Test Case 6: Get a single revision
	t.Run("Get Revision", func(t *testing.T) {
		resp, err := http.Get(fmt.Sprintf("%s/strategy-config/revisions/%d", BaseURL, revisionID))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var revision Revision
		err = json.NewDecoder(resp.Body).Decode(&revision)
		require.NoError(t, err)
		assert.Equal(t, updateVersion, revision.Version)
	})

	// Test Case 7: Rollback re-applies an old document as a new revision
	t.Run("Rollback", func(t *testing.T) {
		// Make one more change so rolling back to revisionID is a real change
		resp := putJSON(t, "/strategy-config", map[string]interface{}{
			"max_daily_trades": 30,
		})
		resp.Body.Close()

		rollback, err := http.Post(fmt.Sprintf("%s/strategy-config/rollback/%d", BaseURL, revisionID), "application/json", nil)
		require.NoError(t, err)
		defer rollback.Body.Close()

		assert.Equal(t, http.StatusOK, rollback.StatusCode)

		var result UpdateResp
		err = json.NewDecoder(rollback.Body).Decode(&result)
		require.NoError(t, err)
		assert.Equal(t, "rollback", result.Source)
		require.Len(t, result.Changes, 1)
		assert.Equal(t, "max_daily_trades", result.Changes[0].Field)
		assert.Equal(t, "25", result.Changes[0].New)
	})

	// Test Case 8: Revision not found
	t.Run("Get Revision Not Found", func(t *testing.T) {
		resp, err := http.Get(BaseURL + "/strategy-config/revisions/999999")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
