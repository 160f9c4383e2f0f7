package yggdrasil

import (
	"errors"
	"testing"
)

func TestIsErrorBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"empty", "", false},
		{"success payload", `{"accessToken":"T1","clientToken":"C1"}`, false},
		{"error without cause", `{"error":"ForbiddenOperationException","errorMessage":"Invalid token"}`, true},
		{"error with cause", `{"error":"E","errorMessage":"m","cause":"UserMigratedException"}`, true},
		{"whitespace", "{\n  \"error\" : \"E\",\n  \"errorMessage\" : \"m\"\n}", true},
		{"missing message", `{"error":"E"}`, false},
		{"non-string error", `{"error":{"message":"x"},"errorMessage":"m"}`, false},
		{"array", `[{"error":"E","errorMessage":"m"}]`, false},
		{"not json", `Invalid token`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isErrorBody([]byte(tt.body)); got != tt.want {
				t.Errorf("isErrorBody(%q) = %v, want %v", tt.body, got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{
			name: "success body",
			body: `{"accessToken":"T1","clientToken":"C1","selectedProfile":{"id":"x","name":"Steve"}}`,
			want: nil,
		},
		{
			name: "user migrated wins over message",
			body: `{"error":"ForbiddenOperationException","errorMessage":"Invalid token","cause":"UserMigratedException"}`,
			want: ErrUserMigrated,
		},
		{
			name: "invalid credentials",
			body: `{"error":"ForbiddenOperationException","errorMessage":"Invalid credentials. Invalid username or password."}`,
			want: ErrInvalidCredentials,
		},
		{
			name: "service ban",
			body: `{"error":"ForbiddenOperationException","errorMessage":"Invalid credentials."}`,
			want: ErrServiceBan,
		},
		{
			name: "invalid token",
			body: `{"error":"ForbiddenOperationException","errorMessage":"Invalid token"}`,
			want: ErrInvalidSession,
		},
		{
			name: "message match is exact",
			body: `{"error":"ForbiddenOperationException","errorMessage":"Invalid token."}`,
			want: ErrUnclassified,
		},
		{
			name: "other cause",
			body: `{"error":"IllegalArgumentException","errorMessage":"Access token already has a profile assigned.","cause":"Other"}`,
			want: ErrUnclassified,
		},
		{
			name: "object cause still classified",
			body: `{"error":"ForbiddenOperationException","errorMessage":"Invalid token","cause":{"type":"x"}}`,
			want: ErrInvalidSession,
		},
		{
			name: "null cause",
			body: `{"error":"ForbiddenOperationException","errorMessage":"Invalid credentials.","cause":null}`,
			want: ErrServiceBan,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify([]byte(tt.body))
			if tt.want == nil {
				if err != nil {
					t.Fatalf("expected nil, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			var ye *Error
			if !errors.As(err, &ye) {
				t.Fatalf("expected *Error, got %T", err)
			}
		})
	}
}

func TestClassifyBadCredentialsIsNeverBan(t *testing.T) {
	err := classify([]byte(`{"error":"ForbiddenOperationException","errorMessage":"Invalid credentials. Invalid username or password."}`))
	if errors.Is(err, ErrServiceBan) {
		t.Fatalf("bad credentials classified as ban: %v", err)
	}
}

func TestUnclassifiedKeepsDetails(t *testing.T) {
	err := classify([]byte(`{"error":"IllegalArgumentException","errorMessage":"credentials is null","cause":"NullPointer"}`))
	var ye *Error
	if !errors.As(err, &ye) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if ye.Kind != ErrUnclassified {
		t.Errorf("kind: got %v", ye.Kind)
	}
	if ye.Code != "IllegalArgumentException" || ye.Message != "credentials is null" || ye.Cause != "NullPointer" {
		t.Errorf("details lost: %+v", ye)
	}
	want := "yggdrasil: unexpected server error (IllegalArgumentException: credentials is null; cause: NullPointer)"
	if ye.Error() != want {
		t.Errorf("Error() = %q, want %q", ye.Error(), want)
	}
}
