package handler

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/reelhouse/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadFileRejectsOversizedImageWithoutWriting(t *testing.T) {
	api, store := setupTestAPI(t)
	r := newTestRouter(api)
	cookies := adminCookies(t, api, r)

	payload := bytes.Repeat([]byte{0xFF}, 6*1024*1024)
	body, contentType := multipartBody(t, map[string]string{"profile": "image"},
		testFile{field: "file", name: "huge.jpg", contentType: "image/jpeg", data: payload})

	w := doRequest(r, http.MethodPost, "/admin/api/uploads", body, contentType, cookies)
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code, w.Body.String())
	assert.Equal(t, "too-large", decodeBody(t, w)["reason"])
	assert.Zero(t, store.Puts(), "rejected uploads must not reach storage")
}

func TestUploadFileRejectsWrongType(t *testing.T) {
	api, store := setupTestAPI(t)
	r := newTestRouter(api)
	cookies := adminCookies(t, api, r)

	body, contentType := multipartBody(t, map[string]string{"profile": "portfolio-video"},
		testFile{field: "file", name: "notes.txt", contentType: "text/plain", data: []byte("hello")})

	w := doRequest(r, http.MethodPost, "/admin/api/uploads", body, contentType, cookies)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid-type", decodeBody(t, w)["reason"])
	assert.Zero(t, store.Puts())
}

func TestUploadFileStoresUnderProfileFolder(t *testing.T) {
	api, store := setupTestAPI(t)
	r := newTestRouter(api)
	cookies := adminCookies(t, api, r)

	body, contentType := multipartBody(t, map[string]string{"profile": "blog-image"},
		testFile{field: "file", name: "cover.png", contentType: "image/png", data: []byte("png-bytes")})

	w := doRequest(r, http.MethodPost, "/admin/api/uploads", body, contentType, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	upload, _ := decodeBody(t, w)["upload"].(map[string]interface{})
	key, _ := upload["key"].(string)
	assert.True(t, strings.HasPrefix(key, "blog/"), "key %q", key)
	assert.True(t, strings.HasSuffix(key, ".png"), "key %q", key)
	assert.Equal(t, "https://cdn.test/"+key, upload["url"])

	data, _, ok := store.Object(key)
	require.True(t, ok)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestUploadFileStorageFailureIsRetryable(t *testing.T) {
	api, store := setupTestAPI(t)
	store.PutErr = errors.New("bucket offline")
	r := newTestRouter(api)
	cookies := adminCookies(t, api, r)

	body, contentType := multipartBody(t, nil,
		testFile{field: "file", name: "a.png", contentType: "image/png", data: []byte("x")})

	w := doRequest(r, http.MethodPost, "/admin/api/uploads", body, contentType, cookies)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, 1, store.Puts())
}

func TestUploadSectionMediaWritesURLBack(t *testing.T) {
	api, _ := setupTestAPI(t)
	r := newTestRouter(api)
	cookies := adminCookies(t, api, r)

	page := db.Page{Title: "Home", Slug: "home"}
	require.NoError(t, api.DB().Create(&page).Error)
	section := db.Section{PageID: page.ID, Name: "hero", Content: []byte(`{"heading":"Hi"}`)}
	require.NoError(t, api.DB().Create(&section).Error)

	// backgroundVideo is a video field, so the section-video profile applies
	body, contentType := multipartBody(t, map[string]string{"field": "backgroundVideo"},
		testFile{field: "file", name: "reel.mp4", contentType: "video/mp4", data: []byte("mp4")})

	w := doRequest(r, http.MethodPost, "/admin/api/sections/"+uintString(section.ID)+"/media", body, contentType, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeBody(t, w)
	upload, _ := resp["upload"].(map[string]interface{})
	sectionView, _ := resp["section"].(map[string]interface{})
	stored, _ := sectionView["content"].(map[string]interface{})
	assert.Equal(t, upload["url"], stored["backgroundVideo"])
	assert.Equal(t, "Hi", stored["heading"])
	assert.Equal(t, true, stored["isPublished"])
}
