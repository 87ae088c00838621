package handler

import (
	"net/http"
	"testing"
)

func TestCreatePageValidatesAndRejectsDuplicateSlug(t *testing.T) {
	api, _ := setupTestAPI(t)
	r := newTestRouter(api)
	cookies := adminCookies(t, api, r)

	w := doJSON(t, r, http.MethodPost, "/admin/api/pages", map[string]string{"title": "Home", "slug": "home"}, cookies)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/admin/api/pages", map[string]string{"title": "Again", "slug": "home"}, cookies)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409 for duplicate slug, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/admin/api/pages", map[string]string{"title": "Bad", "slug": "Not A Slug"}, cookies)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for invalid slug, got %d", w.Code)
	}
	fields, _ := decodeBody(t, w)["fields"].(map[string]interface{})
	if _, ok := fields["slug"]; !ok {
		t.Fatalf("expected slug field error, got %v", fields)
	}
}

func TestDeletePageMissingReturnsNotFound(t *testing.T) {
	api, _ := setupTestAPI(t)
	r := newTestRouter(api)
	cookies := adminCookies(t, api, r)

	w := doRequest(r, http.MethodDelete, "/admin/api/pages/999", nil, "", cookies)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}

	w = doRequest(r, http.MethodDelete, "/admin/api/pages/abc", nil, "", cookies)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for bad id, got %d", w.Code)
	}
}
