package monitor

//go:generate mockgen -destination mock_controller_test.go -package $GOPACKAGE -write_package_comment=false firesim/internal/monitor Controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"firesim/internal/sims/fire"
)

func serve(t *testing.T, ctrl Controller, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	New(ctrl).Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestNowReportsStatus(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	ctrl := NewMockController(mockCtrl)
	ctrl.EXPECT().Status().Return(Status{Tick: 7, Time: 0.56, Paused: true, Width: 4, Height: 3})

	rec := serve(t, ctrl, http.MethodGet, "/api/now")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	st := decode[Status](t, rec)
	assert.Equal(t, uint64(7), st.Tick)
	assert.True(t, st.Paused)
}

func TestPauseAndContinue(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	ctrl := NewMockController(mockCtrl)
	gomock.InOrder(
		ctrl.EXPECT().Pause(),
		ctrl.EXPECT().Status().Return(Status{Paused: true}),
		ctrl.EXPECT().Continue(),
		ctrl.EXPECT().Status().Return(Status{Paused: false}),
	)

	assert.True(t, decode[Status](t, serve(t, ctrl, http.MethodPost, "/api/pause")).Paused)
	assert.False(t, decode[Status](t, serve(t, ctrl, http.MethodPost, "/api/continue")).Paused)
}

func TestControlRoutesRejectGet(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	ctrl := NewMockController(mockCtrl)

	rec := serve(t, ctrl, http.MethodGet, "/api/pause")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestIgnite(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	ctrl := NewMockController(mockCtrl)
	ctrl.EXPECT().Ignite(3, 5).Return(nil)
	ctrl.EXPECT().Status().Return(Status{Tick: 1})

	rec := serve(t, ctrl, http.MethodPost, "/api/ignite/3/5")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIgniteOutOfBoundsIsBadRequest(t *testing.T) {
	g, err := fire.NewGrid(2, 2, []fire.Material{fire.Wood, fire.Wood, fire.Wood, fire.Wood}, fire.Seed{Ambient: fire.DefaultAmbient()})
	require.NoError(t, err)
	outOfBounds := g.Ignite(9, 9, fire.DefaultConstants())
	require.Error(t, outOfBounds)

	mockCtrl := gomock.NewController(t)
	ctrl := NewMockController(mockCtrl)
	ctrl.EXPECT().Ignite(9, 9).Return(outOfBounds)

	rec := serve(t, ctrl, http.MethodPost, "/api/ignite/9/9")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorRsp](t, rec).Error, "out of bounds")
}

func TestIgniteRejectsNonNumericCoordinates(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	ctrl := NewMockController(mockCtrl)

	rec := serve(t, ctrl, http.MethodPost, "/api/ignite/a/1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFieldReturnsRows(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	ctrl := NewMockController(mockCtrl)
	ctrl.EXPECT().Field(fire.FieldFuel).Return(Status{Tick: 2}, fire.Snapshot{
		Field: fire.FieldFuel, Width: 2, Height: 2, Values: []float64{1, 2, 3, 4},
	}, nil)

	rec := serve(t, ctrl, http.MethodGet, "/api/field/fuel")

	require.Equal(t, http.StatusOK, rec.Code)
	rsp := decode[fieldRsp](t, rec)
	assert.Equal(t, "fuel", rsp.Field)
	assert.Equal(t, uint64(2), rsp.Tick)
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, rsp.Values)
}

func TestUnknownFieldIsNotFound(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	ctrl := NewMockController(mockCtrl)

	rec := serve(t, ctrl, http.MethodGet, "/api/field/smoke")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStats(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	ctrl := NewMockController(mockCtrl)
	ctrl.EXPECT().Stats().Return(fire.Stats{Burning: 3, Burned: 1, MaxTemp: 900})

	rsp := decode[statsRsp](t, serve(t, ctrl, http.MethodGet, "/api/stats"))
	assert.Equal(t, 3, rsp.Burning)
	assert.Equal(t, 900.0, rsp.MaxTemp)
}

func TestResource(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	ctrl := NewMockController(mockCtrl)

	rec := serve(t, ctrl, http.MethodGet, "/api/resource")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Positive(t, decode[resourceRsp](t, rec).MemorySize)
}
