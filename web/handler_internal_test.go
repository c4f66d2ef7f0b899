package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRegisterRequest(t *testing.T) {
	t.Parallel()

	valid := registerRequest{
		Email:      "student@mit.edu",
		Password:   "secret-password",
		Name:       "Park Jiwoo",
		University: "MIT",
	}

	tests := []struct {
		name    string
		mutate  func(req *registerRequest)
		wantMsg string
	}{
		{
			name:    "valid request passes",
			mutate:  func(req *registerRequest) {},
			wantMsg: "",
		},
		{
			name:    "missing email",
			mutate:  func(req *registerRequest) { req.Email = "" },
			wantMsg: "all fields are required",
		},
		{
			name:    "missing name",
			mutate:  func(req *registerRequest) { req.Name = "" },
			wantMsg: "all fields are required",
		},
		{
			name:    "missing university",
			mutate:  func(req *registerRequest) { req.University = "" },
			wantMsg: "all fields are required",
		},
		{
			name:    "non educational email",
			mutate:  func(req *registerRequest) { req.Email = "person@gmail.com" },
			wantMsg: "only educational email addresses are allowed",
		},
		{
			name:    "short password",
			mutate:  func(req *registerRequest) { req.Password = "12345" },
			wantMsg: "password must be at least 6 characters",
		},
		{
			name:    "six character password passes",
			mutate:  func(req *registerRequest) { req.Password = "123456" },
			wantMsg: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := valid
			tt.mutate(&req)

			assert.Equal(t, tt.wantMsg, validateRegisterRequest(req))
		})
	}
}

func TestValidateLoginRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     loginRequest
		wantMsg string
	}{
		{
			name:    "valid",
			req:     loginRequest{Email: "student@snu.ac.kr", Password: "secret"},
			wantMsg: "",
		},
		{
			name:    "missing password",
			req:     loginRequest{Email: "student@snu.ac.kr"},
			wantMsg: "email and password are required",
		},
		{
			name:    "non educational email",
			req:     loginRequest{Email: "person@gmail.com", Password: "secret"},
			wantMsg: "only educational email addresses are allowed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.wantMsg, validateLoginRequest(tt.req))
		})
	}
}

func TestValidateCreatePostRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     createPostRequest
		wantMsg string
	}{
		{
			name:    "valid",
			req:     createPostRequest{Title: "Midterm tips", Content: "review notes"},
			wantMsg: "",
		},
		{
			name:    "empty title",
			req:     createPostRequest{Title: "", Content: "review notes"},
			wantMsg: "title is required",
		},
		{
			name:    "whitespace title",
			req:     createPostRequest{Title: "   ", Content: "review notes"},
			wantMsg: "title is required",
		},
		{
			name:    "empty content",
			req:     createPostRequest{Title: "Midterm tips", Content: ""},
			wantMsg: "content is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.wantMsg, validateCreatePostRequest(tt.req))
		})
	}
}

func TestValidateCreateCommentRequest(t *testing.T) {
	t.Parallel()

	assert.Empty(t, validateCreateCommentRequest(createCommentRequest{Content: "thanks!"}))
	assert.Equal(t, "content is required",
		validateCreateCommentRequest(createCommentRequest{Content: "  \n"}))
}
