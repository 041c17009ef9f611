package yandexmarket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"gopointsync_api/internal/apierr"
	"gopointsync_api/pkg/logger"
)

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c := NewClient("token", "client", "77", url+"/", 1, logger.NewNop())
	c.Caller().SetRetryDelay(time.Millisecond)
	c.SetPageLimiter(rate.NewLimiter(rate.Inf, 0))
	return c
}

func TestMultipageGetConcatenatesPages(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Query().Get("page_token") == "" {
			w.Write([]byte(`{
				"outlets": [{"id": 1, "shopOutletCode": "bxb_1"}],
				"paging": {"nextPageToken": "T"}
			}`))
			return
		}
		assert.Equal(t, "T", r.URL.Query().Get("page_token"))
		w.Write([]byte(`{
			"outlets": [{"id": 2, "shopOutletCode": "bxb_2"}],
			"paging": {}
		}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	outlets, err := c.GetPublishedOutlets(context.Background())
	require.NoError(t, err)
	require.Len(t, outlets, 2)
	assert.Equal(t, int64(1), outlets[0].ID)
	assert.Equal(t, int64(2), outlets[1].ID)
	assert.Equal(t, int32(2), calls.Load())
}

func TestMultipageGetSinglePageWithoutPaging(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"outlets": [{"id": 1}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	outlets, err := c.GetPublishedOutlets(context.Background())
	require.NoError(t, err)
	assert.Len(t, outlets, 1)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetOutletsByTypeFiltersByCodeTag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"outlets": [
			{"id": 1, "shopOutletCode": "bxb_1"},
			{"id": 2, "shopOutletCode": "sdek_2"},
			{"id": 3, "shopOutletCode": "self_bxb_3"},
			{"id": 4, "shopOutletCode": ""},
			{"id": 5, "shopOutletCode": "bxbshop_5"}
		]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	outlets, err := c.GetOutletsByType(context.Background(), "bxb")
	require.NoError(t, err)
	assert.Len(t, outlets, 2)
	assert.Contains(t, outlets, "bxb_1")
	assert.Contains(t, outlets, "self_bxb_3")
}

func TestDeleteOutletTargetsOutletURL(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.DeleteOutlet(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "DELETE", gotMethod)
	assert.Equal(t, "/campaigns/77/outlets/5.json", gotPath)
}

func TestPostOutletSendsJSONBody(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.PostOutlet(context.Background(), &Outlet{ShopOutletCode: "bxb_9", Name: "Точка"})
	require.NoError(t, err)
	assert.True(t, strings.Contains(gotBody, `"shopOutletCode":"bxb_9"`), "body: %s", gotBody)
}

func TestGetRegionIDZeroCandidatesRetriesThenFails(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"regions": []}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.GetRegionID(context.Background(), "Нигдеград", "")
	assert.True(t, apierr.IsRequest(err), "expected request error, got %v", err)
	assert.Equal(t, int32(regionLookupAttempts), calls.Load())
}

func TestGetRegionIDSingleCandidateWalksChain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"regions": [
			{"id": 10, "name": "Химки", "type": "SUBWAY_STATION",
			 "parent": {"id": 11, "name": "Химки", "type": "CITY",
				"parent": {"id": 12, "name": "Московская область", "type": "AREA"}}}
		]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	id, err := c.GetRegionID(context.Background(), "Химки", "")
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
}

func TestGetRegionIDDisambiguatesByArea(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"regions": [
			{"id": 1, "name": "Мирный", "type": "CITY",
			 "parent": {"id": 2, "name": "Moscow City", "type": "AREA"}},
			{"id": 3, "name": "Мирный", "type": "CITY",
			 "parent": {"id": 4, "name": "Moscow Oblast", "type": "AREA"}}
		]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	id, err := c.GetRegionID(context.Background(), "Мирный", "Moscow Oblast")
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
}

func TestGetRegionIDAmbiguousWithoutMatchFailsClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"regions": [
			{"id": 1, "name": "Мирный", "type": "CITY",
			 "parent": {"id": 2, "name": "Якутия", "type": "AREA"}},
			{"id": 3, "name": "Мирный", "type": "CITY",
			 "parent": {"id": 4, "name": "Архангельская область", "type": "AREA"}}
		]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	id, err := c.GetRegionID(context.Background(), "Мирный", "Оренбургская область")
	require.NoError(t, err)
	assert.Equal(t, int64(0), id)
}
