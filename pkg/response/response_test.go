package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 20))
	assert.Equal(t, 1, TotalPages(1, 20))
	assert.Equal(t, 1, TotalPages(20, 20))
	assert.Equal(t, 2, TotalPages(21, 20))
	assert.Equal(t, 0, TotalPages(5, 0))
}

func TestOKPage_NilListIsEmptyArray(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	OKPage(c, nil, 0, 1, 20)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.JSONEq(t, `{"list":[],"pagination":{"page":1,"page_size":20,"total":0,"total_pages":0}}`, string(body["data"]))
}

func TestError_CarriesRequestID(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(requestIDKey, "rid-1")

	Conflict(c, 17002, "资源已审核，不能重复审核")

	assert.Equal(t, http.StatusConflict, w.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 17002, resp.Code)
	assert.Equal(t, "rid-1", resp.RequestID)
}

func TestFile_Disposition(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	File(c, "学生 名单.xlsx", "application/octet-stream", []byte("x"), false)

	assert.Equal(t, "attachment; filename*=UTF-8''%E5%AD%A6%E7%94%9F%20%E5%90%8D%E5%8D%95.xlsx", w.Header().Get("Content-Disposition"))
	assert.Equal(t, "x", w.Body.String())
}
