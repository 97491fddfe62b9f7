package errors

import (
	stderrors "errors"
	"testing"
)

func TestExitErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *ExitError
		want string
	}{
		{
			name: "wraps underlying error message",
			err:  NewExitError(New("config file missing"), ExitUser),
			want: "config file missing",
		},
		{
			name: "nil underlying error",
			err:  NewExitError(nil, ExitSystem),
			want: "exit code 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExitErrorUnwrap(t *testing.T) {
	inner := New("boom")
	err := NewUserError(Wrap(inner, "activating server"), "check the server name")

	if !Is(err, inner) {
		t.Error("errors.Is should find the wrapped sentinel")
	}

	var exitErr *ExitError
	if !stderrors.As(err, &exitErr) {
		t.Fatal("errors.As should extract *ExitError")
	}
	if exitErr.Code != ExitUser {
		t.Errorf("Code = %d, want %d", exitErr.Code, ExitUser)
	}
	if exitErr.Suggestion != "check the server name" {
		t.Errorf("Suggestion = %q", exitErr.Suggestion)
	}
}

func TestConstructorCodes(t *testing.T) {
	if got := NewUserError(nil, "").Code; got != ExitUser {
		t.Errorf("NewUserError code = %d", got)
	}
	if got := NewSystemError(nil, "").Code; got != ExitSystem {
		t.Errorf("NewSystemError code = %d", got)
	}
	if got := NewConfigError(nil).Suggestion; got != "Run: mcport doctor" {
		t.Errorf("NewConfigError suggestion = %q", got)
	}
}
