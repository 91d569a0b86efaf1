package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	internal "backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	return c, rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestSuccessResponse(t *testing.T) {
	c, rec := newTestContext(t)
	Success(c, gin.H{"id": "abc"})

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.True(t, resp.Success)
	require.Equal(t, internal.CodeSuccess, resp.Code)
}

func TestFromErrorMapsBusinessCodes(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"参数错误", internal.NewInvalidRequest("参数错误"), http.StatusBadRequest, internal.CodeInvalidRequest},
		{"禁止访问", internal.NewForbidden("禁止访问"), http.StatusForbidden, internal.CodeForbidden},
		{"不存在", internal.NewNotFound("不存在"), http.StatusNotFound, internal.CodeNotFound},
		{"冲突", internal.NewConflict("冲突"), http.StatusConflict, internal.CodeConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newTestContext(t)
			FromError(c, tc.err)

			require.Equal(t, tc.wantStatus, rec.Code)
			resp := decodeResponse(t, rec)
			require.False(t, resp.Success)
			require.Equal(t, tc.wantCode, resp.Code)
			require.Equal(t, tc.name, resp.Message)
		})
	}
}

func TestFromErrorHidesInternalDetails(t *testing.T) {
	c, rec := newTestContext(t)
	FromError(c, errors.New("pq: connection refused"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeResponse(t, rec)
	require.Equal(t, internal.CodeInternalError, resp.Code)
	// 非业务错误不向客户端暴露内部细节
	require.NotContains(t, resp.Message, "connection refused")
}

func TestListPagination(t *testing.T) {
	c, rec := newTestContext(t)
	List(c, []string{"a", "b"}, 41, 2, 20)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Items      []string       `json:"items"`
			Pagination PaginationMeta `json:"pagination"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Len(t, resp.Data.Items, 2)
	require.Equal(t, int64(41), resp.Data.Pagination.Total)
	require.Equal(t, 3, resp.Data.Pagination.TotalPage)
}
