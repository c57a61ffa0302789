package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type signupPayload struct {
	Email       string `binding:"required,email"`
	Password    string `binding:"required,password_strength"`
	PhoneNumber string `binding:"required,phone_number"`
	Role        string `binding:"required,user_role"`
}

func validPayload() signupPayload {
	return signupPayload{
		Email:       "ada@example.com",
		Password:    "Sup3rSecret",
		PhoneNumber: "+2348012345678",
		Role:        "customer",
	}
}

func bindingEngine(t *testing.T) *validator.Validate {
	t.Helper()

	if err := RegisterCustomValidators(); err != nil {
		t.Fatalf("RegisterCustomValidators() error = %v", err)
	}
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		t.Fatalf("binding engine is %T, want *validator.Validate", binding.Validator.Engine())
	}
	return v
}

func TestCustomValidators(t *testing.T) {
	v := bindingEngine(t)

	if err := v.Struct(validPayload()); err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*signupPayload)
		wantTag string
	}{
		{"unknown role", func(p *signupPayload) { p.Role = "admin" }, "user_role"},
		{"short password", func(p *signupPayload) { p.Password = "Ab1" }, "password_strength"},
		{"password without digit", func(p *signupPayload) { p.Password = "NoDigitsHere" }, "password_strength"},
		{"password without upper case", func(p *signupPayload) { p.Password = "alllower123" }, "password_strength"},
		{"password without lower case", func(p *signupPayload) { p.Password = "ALLUPPER123" }, "password_strength"},
		{"phone with letters", func(p *signupPayload) { p.PhoneNumber = "+234abc5678" }, "phone_number"},
		{"phone with leading zero", func(p *signupPayload) { p.PhoneNumber = "08012345678" }, "phone_number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validPayload()
			tt.mutate(&payload)

			err := v.Struct(payload)
			if err == nil {
				t.Fatal("expected a validation error, got nil")
			}

			var errs validator.ValidationErrors
			if !errors.As(err, &errs) {
				t.Fatalf("expected ValidationErrors, got %T", err)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("failing tag = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
		})
	}
}

func TestMessages(t *testing.T) {
	v := bindingEngine(t)

	payload := validPayload()
	payload.Password = "short"
	payload.Role = "admin"

	err := v.Struct(payload)
	if err == nil {
		t.Fatal("expected a validation error, got nil")
	}

	messages := Messages(err)
	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2: %v", len(messages), messages)
	}
	joined := strings.Join(messages, "; ")
	if !strings.Contains(joined, "password") || !strings.Contains(joined, "role") {
		t.Errorf("messages should name the failing fields: %v", messages)
	}
}

func TestMessagesPlainError(t *testing.T) {
	messages := Messages(errors.New("unexpected EOF"))
	if len(messages) != 1 || messages[0] != "unexpected EOF" {
		t.Errorf("Messages() = %v, want the raw error text", messages)
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Email", "email"},
		{"City", "city"},
		{"FullName", "full_name"},
		{"PhoneNumber", "phone_number"},
		{"ProviderUserID", "provider_user_id"},
	}
	for _, tt := range tests {
		if got := toSnakeCase(tt.in); got != tt.want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
