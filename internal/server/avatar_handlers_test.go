package server

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"inkwell/internal/models"
)

func avatarUploadRequest(t *testing.T, token, filename, contentType string, data []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/users/avatar", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestAvatarUploadAndReplace(t *testing.T) {
	t.Parallel()

	s, app, db, store := newTestServer(t, false)
	user, token := createTestUser(t, s, db, "ada", models.RoleUser)

	resp, err := app.Test(avatarUploadRequest(t, token, "me.png", "image/png", []byte("png-bytes")), -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	wantStatus(t, resp, http.StatusCreated)

	var body struct {
		Avatar models.Avatar `json:"avatar"`
	}
	decodeJSON(t, resp, &body)
	if !strings.HasPrefix(body.Avatar.Key, "1/private/") {
		t.Fatalf("unexpected object key: %q", body.Avatar.Key)
	}
	if body.Avatar.URL == "" {
		t.Fatal("expected a URL for the stored avatar")
	}
	firstKey := body.Avatar.Key

	store.mu.Lock()
	_, stored := store.objects[firstKey]
	store.mu.Unlock()
	if !stored {
		t.Fatalf("object %q not written to storage", firstKey)
	}

	// Replacing the avatar removes the previous object.
	resp, err = app.Test(avatarUploadRequest(t, token, "new me.jpg", "image/jpeg", []byte("jpg-bytes")), -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	wantStatus(t, resp, http.StatusCreated)
	decodeJSON(t, resp, &body)
	if body.Avatar.Key == firstKey {
		t.Fatal("replacement avatar reused the old key")
	}

	store.mu.Lock()
	deleted := len(store.deleted) == 1 && store.deleted[0] == firstKey
	store.mu.Unlock()
	if !deleted {
		t.Fatalf("old object %q was not deleted", firstKey)
	}

	var count int64
	if err := db.Model(&models.Avatar{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count avatars: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single avatar row, got %d", count)
	}
}

func TestAvatarUploadRejectsBadFiles(t *testing.T) {
	t.Parallel()

	s, app, db, _ := newTestServer(t, false)
	_, token := createTestUser(t, s, db, "ada", models.RoleUser)

	resp, err := app.Test(avatarUploadRequest(t, token, "notes.txt", "text/plain", []byte("hello")), -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	wantErrorBody(t, resp, http.StatusBadRequest, "VALIDATION_ERROR", "Provide a valid image")

	resp = doJSON(t, app, http.MethodPost, "/users/avatar", token, nil)
	wantErrorBody(t, resp, http.StatusBadRequest, "VALIDATION_ERROR", "File not provided")
}

func TestDeleteAvatar(t *testing.T) {
	t.Parallel()

	s, app, db, store := newTestServer(t, false)
	_, token := createTestUser(t, s, db, "ada", models.RoleUser)

	resp := doJSON(t, app, http.MethodDelete, "/users/avatar", token, nil)
	wantErrorBody(t, resp, http.StatusNotFound, "NOT_FOUND", "Avatar not found")

	upload, err := app.Test(avatarUploadRequest(t, token, "me.png", "image/png", []byte("png-bytes")), -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	wantStatus(t, upload, http.StatusCreated)

	var body struct {
		Avatar models.Avatar `json:"avatar"`
	}
	decodeJSON(t, upload, &body)

	resp = doJSON(t, app, http.MethodDelete, "/users/avatar", token, nil)
	wantStatus(t, resp, http.StatusOK)

	store.mu.Lock()
	_, stillThere := store.objects[body.Avatar.Key]
	store.mu.Unlock()
	if stillThere {
		t.Fatalf("object %q still in storage after delete", body.Avatar.Key)
	}

	var count int64
	if err := db.Model(&models.Avatar{}).Count(&count).Error; err != nil {
		t.Fatalf("count avatars: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no avatar rows, got %d", count)
	}
}
