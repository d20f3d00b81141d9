package v1

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calkins/teampulse/plugin/ai"
	"github.com/calkins/teampulse/server/service/reconcile"
	"github.com/calkins/teampulse/store"
)

func extractorWithResponse(response string) *ai.Extractor {
	return ai.NewExtractor(&ai.MockLLMService{Response: response})
}

func TestProcessUpdate(t *testing.T) {
	driver := &memoryDriver{}
	service, e := newTestService(t, driver)
	service.Extractor = extractorWithResponse(
		`[{"task":"Refactor payment module","status":"In Progress","employee":"Alice","category":"Billing","date":"2026-08-20"}]`)

	rec := doRequest(e, http.MethodPost, "/api/v1/updates",
		`{"text":"Alice: refactoring the payment module, in progress"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var response ProcessUpdateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Equal(t, 1, response.ExtractedCount)
	require.Len(t, response.Result.Outcomes, 1)
	require.Equal(t, reconcile.StateInserted, response.Result.Outcomes[0].State)
	require.Len(t, driver.tasks, 1)
	require.Equal(t, store.InProgress, driver.tasks[0].Status)
}

func TestProcessUpdateEmployeeOverride(t *testing.T) {
	driver := &memoryDriver{}
	service, e := newTestService(t, driver)
	service.Extractor = extractorWithResponse(
		`[{"task":"Prepare quarterly deck","status":"Pending","employee":"Unknown"}]`)

	rec := doRequest(e, http.MethodPost, "/api/v1/updates",
		`{"text":"prepping the quarterly deck","employee":"Dana"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, driver.tasks, 1)
	require.Equal(t, "Dana", driver.tasks[0].Employee)
}

func TestProcessUpdateRequiresText(t *testing.T) {
	_, e := newTestService(t, &memoryDriver{})
	rec := doRequest(e, http.MethodPost, "/api/v1/updates", `{"text":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReconcileTasks(t *testing.T) {
	driver := &memoryDriver{}
	_, e := newTestService(t, driver)

	rec := doRequest(e, http.MethodPost, "/api/v1/tasks/reconcile",
		`{"tasks":[{"description":"Ship the release notes","employee":"Bob","date":"2026-08-28"},{"description":"fix"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result reconcile.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Outcomes, 2)
	require.Equal(t, reconcile.StateInserted, result.Outcomes[0].State)
	require.Equal(t, reconcile.StateSkipped, result.Outcomes[1].State)
	require.Len(t, driver.tasks, 1)
	require.Equal(t, store.Pending, driver.tasks[0].Status)
}

func TestReconcileTasksEmptyBody(t *testing.T) {
	_, e := newTestService(t, &memoryDriver{})
	rec := doRequest(e, http.MethodPost, "/api/v1/tasks/reconcile", `{"tasks":[]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
