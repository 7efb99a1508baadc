package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walsets/internal/engine"
	"walsets/internal/models"
)

func testResult() *engine.Result {
	table := &engine.IndicatorTable{
		Entities:   []string{"L1", "L2", "L3"},
		Labels:     []string{"SOV", "SVO"},
		Parameters: []string{"81A", "81A"},
		Bits: [][]uint8{
			{1, 0, 1},
			{0, 1, 0},
		},
	}
	return &engine.Result{
		Table: table,
		Languages: map[string]models.Language{
			"L1": {ID: "L1", Name: "Japanese"},
		},
		Sets: []string{"SOV", "SVO"},
		Intersections: []models.IntersectionCount{
			{Combination: []string{"SOV"}, Count: 2},
			{Combination: []string{"SVO"}, Count: 1},
		},
	}
}

func newTestServer(data *engine.Result) *echo.Echo {
	e := echo.New()
	e.JSONSerializer = JSONSerializer{}
	h := NewHandler(data)
	h.RegisterRoutes(e)
	return e
}

func doGet(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandlersUnavailableWhileLoading(t *testing.T) {
	e := newTestServer(nil)

	for _, target := range []string{"/api/summary", "/api/indicator", "/api/intersections"} {
		rec := doGet(e, target)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, target)
	}
}

func TestSetDataBringsAPIUp(t *testing.T) {
	e := echo.New()
	e.JSONSerializer = JSONSerializer{}
	h := NewHandler(nil)
	h.RegisterRoutes(e)

	rec := doGet(e, "/api/summary")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	h.SetData(testResult())

	rec = doGet(e, "/api/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.EqualValues(t, 3, summary["entities"])
	assert.EqualValues(t, 2, summary["intersections"])
}

func TestGetIndicatorPagination(t *testing.T) {
	e := newTestServer(testResult())

	rec := doGet(e, "/api/indicator?limit=1&offset=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []struct {
			Entity string           `json:"entity"`
			Cells  map[string]uint8 `json:"cells"`
		} `json:"data"`
		Total  int `json:"total"`
		Limit  int `json:"limit"`
		Offset int `json:"offset"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, 3, body.Total)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "L2", body.Data[0].Entity)
	assert.Equal(t, uint8(1), body.Data[0].Cells["SVO"])
}

func TestGetIntersections(t *testing.T) {
	e := newTestServer(testResult())

	rec := doGet(e, "/api/intersections")
	require.Equal(t, http.StatusOK, rec.Code)

	var counts []models.IntersectionCount
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	require.Len(t, counts, 2)
	assert.Equal(t, []string{"SOV"}, counts[0].Combination)
	assert.Equal(t, 2, counts[0].Count)
}

func TestGetIntersectionsWithSetsOverride(t *testing.T) {
	e := newTestServer(testResult())

	rec := doGet(e, "/api/intersections?sets=SVO")
	require.Equal(t, http.StatusOK, rec.Code)

	var counts []models.IntersectionCount
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	require.Len(t, counts, 1)
	assert.Equal(t, []string{"SVO"}, counts[0].Combination)
	assert.Equal(t, 1, counts[0].Count)

	rec = doGet(e, "/api/intersections?sets=nope")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
