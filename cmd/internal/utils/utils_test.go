package utils

import (
	"errors"
	"net/http"
	"testing"

	"alumninet/cmd/internal/utils/apierror"

	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

type sanitizeTarget struct {
	Name     string
	Optional *string
	Tags     []string
	Count    int
}

func TestSanitize(t *testing.T) {
	opt := "  spaced  "
	target := &sanitizeTarget{
		Name:     "  Jane Doe ",
		Optional: &opt,
		Tags:     []string{" a ", "b "},
		Count:    3,
	}

	Sanitize(target)

	if target.Name != "Jane Doe" {
		t.Errorf("expected trimmed name, got %q", target.Name)
	}
	if *target.Optional != "spaced" {
		t.Errorf("expected trimmed pointer field, got %q", *target.Optional)
	}
	if target.Tags[0] != "a" || target.Tags[1] != "b" {
		t.Errorf("expected trimmed tags, got %v", target.Tags)
	}
}

func TestSanitize_PanicsOnNonPointer(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for non-pointer argument")
		}
	}()
	Sanitize(sanitizeTarget{})
}

func TestCheckFileExt(t *testing.T) {
	valid := []string{"png", "jpg"}

	if ext, ok := CheckFileExt("me.PNG", valid); !ok || ext != ".png" {
		t.Errorf("expected .png to be accepted, got %q %v", ext, ok)
	}
	if _, ok := CheckFileExt("me.gif", valid); ok {
		t.Error("expected .gif to be rejected")
	}
	if _, ok := CheckFileExt("noext", valid); ok {
		t.Error("expected missing extension to be rejected")
	}
}

func TestMapCognitoError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apierror.ErrorResponse
	}{
		{"bad password", &types.InvalidPasswordException{}, apierror.IDPInvalidPasswordError},
		{"existing user", &types.UsernameExistsException{}, apierror.IDPExistingEmailError},
		{"wrong credentials", &types.NotAuthorizedException{}, apierror.IDPCredentialsMismatchError},
		{"throttled", &types.TooManyRequestsException{}, apierror.IDPTooManyRequestsError},
		{"unknown", errors.New("boom"), apierror.InternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapCognitoError(tt.err)
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFormatEpoch(t *testing.T) {
	if got := FormatEpoch(0); got != "1970-01-01T00:00:00Z" {
		t.Errorf("unexpected epoch format: %s", got)
	}
	if apierror.InternalServerError.Code() != http.StatusInternalServerError {
		t.Error("internal server error must map to 500")
	}
}
